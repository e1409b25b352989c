package services

import (
	"regexp"
	"strings"

	"github.com/foxxcyber/mealplanner/internal/models"
)

// GroceryParser parses free-form grocery text lines into ParsedItems that
// feed the consolidation engine. Accepted shapes, all parts optional except
// the name:
//
//	- [ ] 2 lb chicken breast - $5.99 [Meat] (dinner, lunch)
//	2 lb chicken breast
//	eggs $3.49 [Dairy]
type GroceryParser struct {
	checkboxPattern *regexp.Regexp
	bulletPattern   *regexp.Regexp
	pricePattern    *regexp.Regexp
	categoryPattern *regexp.Regexp
	mealPattern     *regexp.Regexp
	quantityPattern *regexp.Regexp
}

// NewGroceryParser creates a new parser instance
func NewGroceryParser() *GroceryParser {
	return &GroceryParser{
		// Markdown checkbox lines: - [ ] or - [x]
		checkboxPattern: regexp.MustCompile(`^\s*-\s*\[[ xX]?\]\s*(.+)$`),

		// Plain bullets: - item or * item
		bulletPattern: regexp.MustCompile(`^\s*[-*]\s+(.+)$`),

		// Trailing price: "- $5.99" or "$5.99"
		pricePattern: regexp.MustCompile(`(?:-\s*)?\$(\d+(?:\.\d{1,2})?)\s*$`),

		// Category tag in square brackets
		categoryPattern: regexp.MustCompile(`\[([^\]]+)\]`),

		// Meal tags in parentheses
		mealPattern: regexp.MustCompile(`\(([^)]+)\)`),

		// Leading quantity + optional unit word
		quantityPattern: regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([A-Za-z]+)?\s+`),
	}
}

// Parse parses text content into structured items, one per non-empty line
func (p *GroceryParser) Parse(content string) []models.ParsedItem {
	var items []models.ParsedItem

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if matches := p.checkboxPattern.FindStringSubmatch(line); len(matches) == 2 {
			line = strings.TrimSpace(matches[1])
		} else if matches := p.bulletPattern.FindStringSubmatch(line); len(matches) == 2 {
			line = strings.TrimSpace(matches[1])
		}

		item := p.parseLine(line)
		if item.Name == "" {
			continue
		}
		items = append(items, item)
	}

	return items
}

// parseLine parses a single cleaned line into a ParsedItem
func (p *GroceryParser) parseLine(line string) models.ParsedItem {
	item := models.ParsedItem{
		Qty:      "1 " + DefaultUnit,
		Price:    PlaceholderPrice,
		Category: DefaultCategory,
	}

	// Meal tags
	if matches := p.mealPattern.FindStringSubmatch(line); len(matches) == 2 {
		item.Meal = mergeMealTags(matches[1], "")
		line = p.mealPattern.ReplaceAllString(line, "")
	}

	// Category
	if matches := p.categoryPattern.FindStringSubmatch(line); len(matches) == 2 {
		if cat := strings.TrimSpace(matches[1]); cat != "" {
			item.Category = cat
		}
		line = p.categoryPattern.ReplaceAllString(line, "")
	}

	// Price
	if matches := p.pricePattern.FindStringSubmatch(strings.TrimSpace(line)); len(matches) == 2 {
		item.Price = matches[1]
		line = p.pricePattern.ReplaceAllString(strings.TrimSpace(line), "")
	}

	// Quantity + unit
	line = strings.TrimSpace(line)
	if matches := p.quantityPattern.FindStringSubmatch(line); len(matches) == 3 {
		unit := matches[2]
		if unit != "" && !isKnownUnit(unit) {
			// The word after the number is part of the name, not a unit
			unit = ""
		}
		if unit == "" {
			item.Qty = matches[1] + " " + DefaultUnit
			line = strings.TrimSpace(line[len(matches[1]):])
		} else {
			item.Qty = matches[1] + " " + NormalizeUnit(unit)
			line = strings.TrimSpace(line[len(matches[0]):])
		}
	}

	item.Name = cleanItemName(line)
	return item
}

// isKnownUnit reports whether token is in the unit alias table
func isKnownUnit(token string) bool {
	_, ok := unitAliases[strings.ToLower(strings.TrimSpace(token))]
	return ok
}

var multiSpacePattern = regexp.MustCompile(`\s+`)

// cleanItemName trims punctuation and collapses whitespace
func cleanItemName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, ".,;:-_")
	s = multiSpacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
