package models

import (
	"time"
)

// ExportSchemaVersion is stamped on every export document. Imports of any
// other version proceed with a warning rather than failing.
const ExportSchemaVersion = "1.0.0"

// Entity keys used in export documents and import accounting. These are the
// wire names; they never change independently of the schema version.
const (
	EntityWeeklyMealPlans         = "weeklyMealPlans"
	EntityMeals                   = "meals"
	EntityGroceryLists            = "groceryLists"
	EntityGroceryItems            = "groceryItems"
	EntityPantryItems             = "pantryItems"
	EntityBankedMeals             = "bankedMeals"
	EntityAIMenuCache             = "aiMenuCache"
	EntityMealAlternativesHistory = "mealAlternativesHistory"
)

// EntityKeys lists every entity type in topological (import) order.
var EntityKeys = []string{
	EntityWeeklyMealPlans,
	EntityMeals,
	EntityGroceryLists,
	EntityGroceryItems,
	EntityPantryItems,
	EntityBankedMeals,
	EntityAIMenuCache,
	EntityMealAlternativesHistory,
}

// ExportData is the bag of entity arrays in an export document. Every key is
// present (possibly as an empty array) in a valid document.
type ExportData struct {
	WeeklyMealPlans         []WeeklyMealPlan         `json:"weeklyMealPlans"`
	Meals                   []Meal                   `json:"meals"`
	GroceryLists            []GroceryList            `json:"groceryLists"`
	GroceryItems            []GroceryItem            `json:"groceryItems"`
	PantryItems             []PantryItem             `json:"pantryItems"`
	BankedMeals             []BankedMeal             `json:"bankedMeals"`
	AIMenuCache             []AIMenuCache            `json:"aiMenuCache"`
	MealAlternativesHistory []MealAlternativeHistory `json:"mealAlternativesHistory"`
}

// PlanDateRange is the earliest/latest week_start_date across exported plans
type PlanDateRange struct {
	Earliest string `json:"earliest"`
	Latest   string `json:"latest"`
}

// ExportMetadata summarizes an export document
type ExportMetadata struct {
	TotalPlans    int            `json:"totalPlans"`
	TotalLists    int            `json:"totalLists"`
	TotalItems    int            `json:"totalItems"` // grocery + pantry items
	PlanDateRange *PlanDateRange `json:"planDateRange,omitempty"`
}

// DataExportFormat is a versioned, self-contained snapshot of all domain data
type DataExportFormat struct {
	Version    string         `json:"version"`
	ExportedAt time.Time      `json:"exportedAt"`
	Data       ExportData     `json:"data"`
	Metadata   ExportMetadata `json:"metadata"`
}

// ImportOptions controls import behavior. SupplementMode is accepted for
// compatibility but the merge is additive either way; see DESIGN.md.
type ImportOptions struct {
	SupplementMode bool `json:"supplement_mode"`
	SkipDuplicates bool `json:"skip_duplicates"`
	PreserveIDs    bool `json:"preserve_ids"`
}

// DefaultImportOptions returns the documented defaults
func DefaultImportOptions() ImportOptions {
	return ImportOptions{
		SupplementMode: true,
		SkipDuplicates: true,
		PreserveIDs:    false,
	}
}

// ImportOptionsRequest is the wire form; nil fields take defaults
type ImportOptionsRequest struct {
	SupplementMode *bool `json:"supplement_mode,omitempty"`
	SkipDuplicates *bool `json:"skip_duplicates,omitempty"`
	PreserveIDs    *bool `json:"preserve_ids,omitempty"`
}

// Resolve applies defaults for absent fields
func (r *ImportOptionsRequest) Resolve() ImportOptions {
	opts := DefaultImportOptions()
	if r == nil {
		return opts
	}
	if r.SupplementMode != nil {
		opts.SupplementMode = *r.SupplementMode
	}
	if r.SkipDuplicates != nil {
		opts.SkipDuplicates = *r.SkipDuplicates
	}
	if r.PreserveIDs != nil {
		opts.PreserveIDs = *r.PreserveIDs
	}
	return opts
}

// ImportResult is the per-entity accounting for one import run. For every
// entity type x, imported[x] + skipped[x] + errors attributable to x covers
// every input record of type x. Success is exactly len(Errors) == 0.
type ImportResult struct {
	Success  bool           `json:"success"`
	Imported map[string]int `json:"imported"`
	Skipped  map[string]int `json:"skipped"`
	Errors   []string       `json:"errors"`
	Warnings []string       `json:"warnings"`
}

// NewImportResult returns a result with counters zeroed for every entity type
func NewImportResult() *ImportResult {
	imported := make(map[string]int, len(EntityKeys))
	skipped := make(map[string]int, len(EntityKeys))
	for _, k := range EntityKeys {
		imported[k] = 0
		skipped[k] = 0
	}
	return &ImportResult{
		Imported: imported,
		Skipped:  skipped,
		Errors:   []string{},
		Warnings: []string{},
	}
}

// ImportPreview is a read-only summary of what an import would do
type ImportPreview struct {
	Version    string         `json:"version"`
	Compatible bool           `json:"compatible"`
	Summary    map[string]int `json:"summary"`
	DateRange  *PlanDateRange `json:"dateRange,omitempty"`
	Warnings   []string       `json:"warnings"`
}
