package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/foxxcyber/mealplanner/internal/models"
)

// DefaultUnit is the generic fallback unit for unparseable quantities
const DefaultUnit = "ea"

// unitAliases normalizes unit spellings to a fixed short form. Unrecognized
// tokens pass through literally.
var unitAliases = map[string]string{
	// Count
	"each":     "ea",
	"ea":       "ea",
	"ct":       "ea",
	"count":    "ea",
	"pc":       "ea",
	"pcs":      "ea",
	"piece":    "ea",
	"pieces":   "ea",
	"pkg":      "pkg",
	"pk":       "pkg",
	"pack":     "pkg",
	"package":  "pkg",
	"packages": "pkg",
	"bunch":    "bunch",
	"bunches":  "bunch",
	"head":     "head",
	"heads":    "head",
	"can":      "can",
	"cans":     "can",
	"jar":      "jar",
	"jars":     "jar",
	"bag":      "bag",
	"bags":     "bag",
	"box":      "box",
	"boxes":    "box",
	"bottle":   "btl",
	"bottles":  "btl",
	"btl":      "btl",
	"dozen":    "doz",
	"doz":      "doz",

	// Weight
	"lb":        "lb",
	"lbs":       "lb",
	"pound":     "lb",
	"pounds":    "lb",
	"oz":        "oz",
	"ounce":     "oz",
	"ounces":    "oz",
	"g":         "g",
	"gram":      "g",
	"grams":     "g",
	"kg":        "kg",
	"kilogram":  "kg",
	"kilograms": "kg",

	// Volume
	"tsp":         "tsp",
	"teaspoon":    "tsp",
	"teaspoons":   "tsp",
	"tbsp":        "tbsp",
	"tbs":         "tbsp",
	"tablespoon":  "tbsp",
	"tablespoons": "tbsp",
	"c":           "cup",
	"cup":         "cup",
	"cups":        "cup",
	"pt":          "pt",
	"pint":        "pt",
	"pints":       "pt",
	"qt":          "qt",
	"quart":       "qt",
	"quarts":      "qt",
	"gal":         "gal",
	"gallon":      "gal",
	"gallons":     "gal",
	"ml":          "ml",
	"milliliter":  "ml",
	"milliliters": "ml",
	"l":           "l",
	"liter":       "l",
	"liters":      "l",
	"litres":      "l",
	"floz":        "floz",
	"fl oz":       "floz",
}

var quantityPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(.*)$`)

// ParseQuantity parses a free-form quantity string like "2 lbs" or "3 each"
// into an amount plus normalized short-form unit. Unparseable input degrades
// to {1, "ea"}; it never errors.
func ParseQuantity(qty string) models.Quantity {
	qty = strings.TrimSpace(qty)
	if qty == "" {
		return models.Quantity{Amount: 1, Unit: DefaultUnit}
	}

	matches := quantityPattern.FindStringSubmatch(qty)
	if matches == nil {
		// No leading number; the whole string may still be a bare unit
		return models.Quantity{Amount: 1, Unit: NormalizeUnit(qty)}
	}

	amount, err := strconv.ParseFloat(matches[1], 64)
	if err != nil || amount <= 0 {
		amount = 1
	}

	return models.Quantity{Amount: amount, Unit: NormalizeUnit(matches[2])}
}

// NormalizeUnit maps a unit token to its short form. Empty input yields the
// generic fallback; unknown tokens are returned lowercased as-is.
func NormalizeUnit(unit string) string {
	unit = strings.ToLower(strings.TrimSpace(unit))
	if unit == "" {
		return DefaultUnit
	}
	// Only the first token counts: "lbs boneless chicken" -> "lbs"
	if idx := strings.IndexAny(unit, " \t"); idx >= 0 {
		unit = unit[:idx]
	}
	unit = strings.TrimRight(unit, ".,")
	if normalized, ok := unitAliases[unit]; ok {
		return normalized
	}
	return unit
}

// FormatQuantity renders a parsed quantity back to its string form
func FormatQuantity(q models.Quantity) string {
	return strconv.FormatFloat(q.Amount, 'f', -1, 64) + " " + q.Unit
}
