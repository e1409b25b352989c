package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/foxxcyber/mealplanner/internal/models"
)

// ImportStore is the per-transaction persistence surface used by the import
// pipeline. Find* methods implement the duplicate-detection keys; Insert*
// methods must recover from per-record failures (constraint violations)
// without poisoning the surrounding transaction.
type ImportStore interface {
	FindPlan(ctx context.Context, name, weekStartDate string) (int, bool, error)
	InsertPlan(ctx context.Context, plan models.WeeklyMealPlan, preserveID bool) (int, error)

	FindMeal(ctx context.Context, planID int, dayOfWeek, mealType, title string) (int, bool, error)
	InsertMeal(ctx context.Context, meal models.Meal) (int, error)

	FindGroceryList(ctx context.Context, name string, mealPlanID *int) (int, bool, error)
	InsertGroceryList(ctx context.Context, list models.GroceryList) (int, error)

	FindGroceryItem(ctx context.Context, listID int, name, category string) (int, bool, error)
	InsertGroceryItem(ctx context.Context, item models.GroceryItem) (int, error)

	FindPantryItem(ctx context.Context, planID int, name string) (int, bool, error)
	InsertPantryItem(ctx context.Context, item models.PantryItem) (int, error)

	FindBankedMeal(ctx context.Context, title, dayOfWeek string) (int, bool, error)
	InsertBankedMeal(ctx context.Context, meal models.BankedMeal) (int, error)

	FindAIMenuCache(ctx context.Context, weekStartDate, preferencesHash string) (int, bool, error)
	// UpsertAIMenuCache inserts with ON CONFLICT DO NOTHING semantics and
	// reports whether a row was actually written.
	UpsertAIMenuCache(ctx context.Context, entry models.AIMenuCache) (bool, error)

	InsertMealAlternative(ctx context.Context, alt models.MealAlternativeHistory) (int, error)
}

// ImportTxProvider runs fn against an ImportStore inside one transaction,
// committing when fn returns nil and rolling back otherwise.
type ImportTxProvider interface {
	WithImportTx(ctx context.Context, fn func(ImportStore) error) error
}

// Importer inserts externally supplied export documents into the store
type Importer struct {
	store ImportTxProvider
	san   *Sanitizer
}

// NewImporter creates a new importer
func NewImporter(store ImportTxProvider) *Importer {
	return &Importer{
		store: store,
		san:   NewSanitizer(),
	}
}

// idMap maps source-snapshot IDs to destination-store IDs for one entity
// type, scoped to a single import run
type idMap map[int]int

// Import sanitizes doc, then inserts its records inside one transaction in
// foreign-key order, remapping IDs as it goes. Per-record failures are
// accumulated in the result and never abort sibling records; only
// transaction-level failures roll everything back, in which case the error
// is returned alongside the partial accounting.
func (s *Importer) Import(ctx context.Context, doc map[string]interface{}, opts models.ImportOptions) (*models.ImportResult, error) {
	result := models.NewImportResult()

	sanitized, _ := s.san.Value(doc).(map[string]interface{})
	if sanitized == nil {
		result.Errors = append(result.Errors, "malformed document: not a JSON object")
		return result, nil
	}

	s.checkVersion(sanitized, &result.Warnings)

	data, ok := sanitized["data"].(map[string]interface{})
	if !ok {
		result.Errors = append(result.Errors, "malformed document: missing data section")
		return result, nil
	}

	plans := decodeEntities[models.WeeklyMealPlan](data, models.EntityWeeklyMealPlans, result)
	meals := decodeEntities[models.Meal](data, models.EntityMeals, result)
	lists := decodeEntities[models.GroceryList](data, models.EntityGroceryLists, result)
	items := decodeEntities[models.GroceryItem](data, models.EntityGroceryItems, result)
	pantry := decodeEntities[models.PantryItem](data, models.EntityPantryItems, result)
	banked := decodeEntities[models.BankedMeal](data, models.EntityBankedMeals, result)
	cache := decodeEntities[models.AIMenuCache](data, models.EntityAIMenuCache, result)
	alternatives := decodeEntities[models.MealAlternativeHistory](data, models.EntityMealAlternativesHistory, result)

	err := s.store.WithImportTx(ctx, func(st ImportStore) error {
		planIDs := s.importPlans(ctx, st, plans, opts, result)
		mealIDs := s.importMeals(ctx, st, meals, planIDs, opts, result)
		listIDs := s.importGroceryLists(ctx, st, lists, planIDs, opts, result)
		s.importGroceryItems(ctx, st, items, listIDs, opts, result)
		s.importPantryItems(ctx, st, pantry, planIDs, opts, result)
		s.importBankedMeals(ctx, st, banked, opts, result)
		s.importAIMenuCache(ctx, st, cache, planIDs, opts, result)
		s.importMealAlternatives(ctx, st, alternatives, mealIDs, result)
		return nil
	})
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Transaction failed: %v", err))
		result.Success = false
		return result, err
	}

	result.Success = len(result.Errors) == 0
	return result, nil
}

// Preview summarizes what an import would do without touching the store. It
// applies the same sanitization and version check as Import.
func (s *Importer) Preview(doc map[string]interface{}) *models.ImportPreview {
	preview := &models.ImportPreview{
		Compatible: true,
		Summary:    make(map[string]int, len(models.EntityKeys)),
		Warnings:   []string{},
	}

	sanitized, _ := s.san.Value(doc).(map[string]interface{})
	if sanitized == nil {
		preview.Compatible = false
		preview.Warnings = append(preview.Warnings, "malformed document: not a JSON object")
		for _, key := range models.EntityKeys {
			preview.Summary[key] = 0
		}
		return preview
	}

	preview.Version, _ = sanitized["version"].(string)
	if !s.checkVersion(sanitized, &preview.Warnings) {
		preview.Compatible = false
	}

	data, _ := sanitized["data"].(map[string]interface{})
	for _, key := range models.EntityKeys {
		preview.Summary[key] = 0
		if data == nil {
			continue
		}
		raw, present := data[key]
		if !present {
			continue
		}
		arr, ok := raw.([]interface{})
		if !ok {
			preview.Warnings = append(preview.Warnings, fmt.Sprintf("malformed data: %s is not an array", key))
			continue
		}
		preview.Summary[key] = len(arr)
	}
	if data == nil {
		preview.Compatible = false
		preview.Warnings = append(preview.Warnings, "malformed document: missing data section")
	}

	if data != nil {
		dummy := models.NewImportResult()
		plans := decodeEntities[models.WeeklyMealPlan](data, models.EntityWeeklyMealPlans, dummy)
		preview.DateRange = planDateRange(plans)
	}

	return preview
}

// checkVersion appends a warning when the document version differs from the
// expected schema version. The mismatch is never fatal.
func (s *Importer) checkVersion(doc map[string]interface{}, warnings *[]string) bool {
	version, _ := doc["version"].(string)
	if version == models.ExportSchemaVersion {
		return true
	}
	*warnings = append(*warnings, fmt.Sprintf(
		"export version %q does not match expected version %q; importing anyway",
		version, models.ExportSchemaVersion))
	return false
}

// decodeEntities decodes one entity array from the sanitized data bag. A
// missing entry yields no records; a present entry that is not an array,
// null included, is reported as a malformed-data error; individual
// undecodable records are reported and skipped without affecting siblings.
func decodeEntities[T any](data map[string]interface{}, key string, result *models.ImportResult) []T {
	raw, present := data[key]
	if !present {
		return nil
	}

	arr, ok := raw.([]interface{})
	if !ok {
		result.Errors = append(result.Errors, fmt.Sprintf("malformed data: %s is not an array", key))
		return nil
	}

	out := make([]T, 0, len(arr))
	for i, elem := range arr {
		b, err := json.Marshal(elem)
		if err == nil {
			var rec T
			if err = json.Unmarshal(b, &rec); err == nil {
				out = append(out, rec)
				continue
			}
		}
		result.Errors = append(result.Errors, fmt.Sprintf("%s record %d: %v", key, i+1, err))
	}
	return out
}

func (s *Importer) importPlans(ctx context.Context, st ImportStore, plans []models.WeeklyMealPlan, opts models.ImportOptions, result *models.ImportResult) idMap {
	ids := make(idMap, len(plans))

	for _, p := range plans {
		if opts.SkipDuplicates {
			existingID, found, err := st.FindPlan(ctx, p.Name, p.WeekStartDate)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("weekly meal plan %q: %v", p.Name, err))
				continue
			}
			if found {
				ids[p.ID] = existingID
				result.Skipped[models.EntityWeeklyMealPlans]++
				continue
			}
		}

		newID, err := st.InsertPlan(ctx, p, opts.PreserveIDs)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("weekly meal plan %q: %v", p.Name, err))
			continue
		}
		ids[p.ID] = newID
		result.Imported[models.EntityWeeklyMealPlans]++
	}

	return ids
}

func (s *Importer) importMeals(ctx context.Context, st ImportStore, meals []models.Meal, planIDs idMap, opts models.ImportOptions, result *models.ImportResult) idMap {
	ids := make(idMap, len(meals))

	for _, m := range meals {
		planID, ok := planIDs[m.PlanID]
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("Meal skipped: referenced plan_id %d not found", m.PlanID))
			continue
		}

		if opts.SkipDuplicates {
			existingID, found, err := st.FindMeal(ctx, planID, m.DayOfWeek, m.MealType, m.Title)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("meal %q: %v", m.Title, err))
				continue
			}
			if found {
				ids[m.ID] = existingID
				result.Skipped[models.EntityMeals]++
				continue
			}
		}

		oldID := m.ID
		m.PlanID = planID
		newID, err := st.InsertMeal(ctx, m)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("meal %q: %v", m.Title, err))
			continue
		}
		ids[oldID] = newID
		result.Imported[models.EntityMeals]++
	}

	return ids
}

func (s *Importer) importGroceryLists(ctx context.Context, st ImportStore, lists []models.GroceryList, planIDs idMap, opts models.ImportOptions, result *models.ImportResult) idMap {
	ids := make(idMap, len(lists))

	for _, l := range lists {
		// meal_plan_id is nullable; a list need not belong to a plan
		if l.MealPlanID != nil {
			planID, ok := planIDs[*l.MealPlanID]
			if !ok {
				result.Errors = append(result.Errors, fmt.Sprintf("Grocery list skipped: referenced meal_plan_id %d not found", *l.MealPlanID))
				continue
			}
			mapped := planID
			l.MealPlanID = &mapped
		}

		if opts.SkipDuplicates {
			existingID, found, err := st.FindGroceryList(ctx, l.Name, l.MealPlanID)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("grocery list %q: %v", l.Name, err))
				continue
			}
			if found {
				ids[l.ID] = existingID
				result.Skipped[models.EntityGroceryLists]++
				continue
			}
		}

		oldID := l.ID
		newID, err := st.InsertGroceryList(ctx, l)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("grocery list %q: %v", l.Name, err))
			continue
		}
		ids[oldID] = newID
		result.Imported[models.EntityGroceryLists]++
	}

	return ids
}

func (s *Importer) importGroceryItems(ctx context.Context, st ImportStore, items []models.GroceryItem, listIDs idMap, opts models.ImportOptions, result *models.ImportResult) {
	for _, it := range items {
		listID, ok := listIDs[it.ListID]
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("Grocery item skipped: referenced list_id %d not found", it.ListID))
			continue
		}

		if opts.SkipDuplicates {
			_, found, err := st.FindGroceryItem(ctx, listID, it.Name, it.Category)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("grocery item %q: %v", it.Name, err))
				continue
			}
			if found {
				result.Skipped[models.EntityGroceryItems]++
				continue
			}
		}

		it.ListID = listID
		if _, err := st.InsertGroceryItem(ctx, it); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("grocery item %q: %v", it.Name, err))
			continue
		}
		result.Imported[models.EntityGroceryItems]++
	}
}

func (s *Importer) importPantryItems(ctx context.Context, st ImportStore, items []models.PantryItem, planIDs idMap, opts models.ImportOptions, result *models.ImportResult) {
	for _, it := range items {
		planID, ok := planIDs[it.PlanID]
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("Pantry item skipped: referenced plan_id %d not found", it.PlanID))
			continue
		}

		if opts.SkipDuplicates {
			_, found, err := st.FindPantryItem(ctx, planID, it.Name)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("pantry item %q: %v", it.Name, err))
				continue
			}
			if found {
				result.Skipped[models.EntityPantryItems]++
				continue
			}
		}

		it.PlanID = planID
		if _, err := st.InsertPantryItem(ctx, it); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("pantry item %q: %v", it.Name, err))
			continue
		}
		result.Imported[models.EntityPantryItems]++
	}
}

func (s *Importer) importBankedMeals(ctx context.Context, st ImportStore, meals []models.BankedMeal, opts models.ImportOptions, result *models.ImportResult) {
	for _, m := range meals {
		if opts.SkipDuplicates {
			_, found, err := st.FindBankedMeal(ctx, m.Title, m.DayOfWeek)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("banked meal %q: %v", m.Title, err))
				continue
			}
			if found {
				result.Skipped[models.EntityBankedMeals]++
				continue
			}
		}

		if _, err := st.InsertBankedMeal(ctx, m); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("banked meal %q: %v", m.Title, err))
			continue
		}
		result.Imported[models.EntityBankedMeals]++
	}
}

func (s *Importer) importAIMenuCache(ctx context.Context, st ImportStore, entries []models.AIMenuCache, planIDs idMap, opts models.ImportOptions, result *models.ImportResult) {
	for _, e := range entries {
		// Cache entries are disposable: an unresolvable plan is a silent
		// skip, not an error
		planID, ok := planIDs[e.PlanID]
		if !ok {
			result.Skipped[models.EntityAIMenuCache]++
			continue
		}

		if opts.SkipDuplicates {
			_, found, err := st.FindAIMenuCache(ctx, e.WeekStartDate, e.PreferencesHash)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("AI menu cache %s: %v", e.WeekStartDate, err))
				continue
			}
			if found {
				result.Skipped[models.EntityAIMenuCache]++
				continue
			}
		}

		e.PlanID = planID
		inserted, err := st.UpsertAIMenuCache(ctx, e)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("AI menu cache %s: %v", e.WeekStartDate, err))
			continue
		}
		if inserted {
			result.Imported[models.EntityAIMenuCache]++
		} else {
			result.Skipped[models.EntityAIMenuCache]++
		}
	}
}

func (s *Importer) importMealAlternatives(ctx context.Context, st ImportStore, alts []models.MealAlternativeHistory, mealIDs idMap, result *models.ImportResult) {
	for _, a := range alts {
		// History rows are non-critical; an unresolvable meal is a skip
		// with a warning rather than an error
		mealID, ok := mealIDs[a.MealID]
		if !ok {
			result.Skipped[models.EntityMealAlternativesHistory]++
			result.Warnings = append(result.Warnings, fmt.Sprintf("meal alternative %q skipped: referenced meal_id %d not found", a.AlternativeTitle, a.MealID))
			continue
		}

		a.MealID = mealID
		if _, err := st.InsertMealAlternative(ctx, a); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("meal alternative %q: %v", a.AlternativeTitle, err))
			continue
		}
		result.Imported[models.EntityMealAlternativesHistory]++
	}
}

// DecodeDocument converts an arbitrary JSON value into the generic map shape
// the import pipeline works on
func DecodeDocument(raw json.RawMessage) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid export document: %w", err)
	}
	return doc, nil
}

// DocumentFromExport round-trips a typed export document into the generic
// map form used by Import and Preview
func DocumentFromExport(doc *models.DataExportFormat) (map[string]interface{}, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return DecodeDocument(b)
}
