package services

import (
	"strings"

	"github.com/foxxcyber/mealplanner/internal/models"
)

const (
	// SimilarityThreshold is the minimum name similarity for two parsed
	// items to be treated as the same ingredient. Strict on purpose: it
	// catches whitespace, pluralization and minor typos, not
	// related-but-distinct ingredients ("fresh tomatoes" vs "canned
	// tomatoes" must stay separate).
	SimilarityThreshold = 0.95

	// PlaceholderPrice is the default price assigned by the parser before
	// AI enrichment fills in a real one
	PlaceholderPrice = "2.99"

	// DefaultCategory is the parser's fallback category
	DefaultCategory = "Other"
)

// Consolidate merges near-duplicate parsed grocery items. It is a single
// pass over the input: each item is compared against the entries accumulated
// so far, merging into the first one whose name is similar enough, otherwise
// appended as a new entry. Order is preserved.
//
// Known limitation: this is greedy, not a full pairwise clustering, so
// transitively-similar names (A~B~C but A and C below threshold) can land in
// separate groups depending on arrival order. Acceptable for weekly lists of
// at most a few hundred items.
func Consolidate(items []models.ParsedItem) []models.ParsedItem {
	result := make([]models.ParsedItem, 0, len(items))

	for _, item := range items {
		merged := false
		for i := range result {
			if NameSimilarity(result[i].Name, item.Name) >= SimilarityThreshold {
				mergeItems(&result[i], item)
				merged = true
				break
			}
		}
		if !merged {
			result = append(result, item)
		}
	}

	return result
}

// mergeItems folds item into the accumulator acc in place
func mergeItems(acc *models.ParsedItem, item models.ParsedItem) {
	acc.Meal = mergeMealTags(acc.Meal, item.Meal)

	accQty := ParseQuantity(acc.Qty)
	itemQty := ParseQuantity(item.Qty)

	switch {
	case accQty.Unit == itemQty.Unit:
		// Same unit (generic or specific): sum the amounts
		acc.Qty = FormatQuantity(models.Quantity{
			Amount: accQty.Amount + itemQty.Amount,
			Unit:   accQty.Unit,
		})
	case accQty.Unit == DefaultUnit:
		// A specific unit is more informative than the generic fallback:
		// take the incoming item's name and quantity wholesale
		acc.Name = item.Name
		acc.Qty = item.Qty
	case itemQty.Unit == DefaultUnit:
		// Accumulator already has the specific unit; keep it
	default:
		// Two different specific units: no conversion is attempted. Keep
		// the accumulator's quantity but take the more descriptive name.
		if len(item.Name) > len(acc.Name) {
			acc.Name = item.Name
		}
	}

	if item.Price != "" && (acc.Price == "" || acc.Price == PlaceholderPrice) {
		acc.Price = item.Price
	}

	if item.Category != "" && item.Category != DefaultCategory &&
		(acc.Category == "" || acc.Category == DefaultCategory) {
		acc.Category = item.Category
	}
}

// mergeMealTags unions two comma-joined tag lists, deduplicated in order of
// first appearance
func mergeMealTags(a, b string) string {
	seen := make(map[string]bool)
	var tags []string

	for _, raw := range append(strings.Split(a, ","), strings.Split(b, ",")...) {
		tag := strings.TrimSpace(raw)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		tags = append(tags, tag)
	}

	return strings.Join(tags, ", ")
}
