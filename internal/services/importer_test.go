package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/mealplanner/internal/models"
)

// fakeImportStore keeps everything in slices and hands out fresh IDs well
// away from the source document's ID space
type fakeImportStore struct {
	plans  []models.WeeklyMealPlan
	meals  []models.Meal
	lists  []models.GroceryList
	items  []models.GroceryItem
	pantry []models.PantryItem
	banked []models.BankedMeal
	cache  []models.AIMenuCache
	alts   []models.MealAlternativeHistory

	nextID int
}

func newFakeImportStore() *fakeImportStore {
	return &fakeImportStore{nextID: 1000}
}

func (f *fakeImportStore) id() int {
	f.nextID++
	return f.nextID
}

func (f *fakeImportStore) FindPlan(ctx context.Context, name, weekStartDate string) (int, bool, error) {
	for _, p := range f.plans {
		if p.Name == name && p.WeekStartDate == weekStartDate {
			return p.ID, true, nil
		}
	}
	return 0, false, nil
}

func (f *fakeImportStore) InsertPlan(ctx context.Context, plan models.WeeklyMealPlan, preserveID bool) (int, error) {
	if !preserveID || plan.ID <= 0 {
		plan.ID = f.id()
	}
	f.plans = append(f.plans, plan)
	return plan.ID, nil
}

func (f *fakeImportStore) FindMeal(ctx context.Context, planID int, dayOfWeek, mealType, title string) (int, bool, error) {
	for _, m := range f.meals {
		if m.PlanID == planID && m.DayOfWeek == dayOfWeek && m.MealType == mealType && m.Title == title {
			return m.ID, true, nil
		}
	}
	return 0, false, nil
}

func (f *fakeImportStore) InsertMeal(ctx context.Context, meal models.Meal) (int, error) {
	meal.ID = f.id()
	f.meals = append(f.meals, meal)
	return meal.ID, nil
}

func (f *fakeImportStore) FindGroceryList(ctx context.Context, name string, mealPlanID *int) (int, bool, error) {
	for _, l := range f.lists {
		if l.Name != name {
			continue
		}
		if (l.MealPlanID == nil) != (mealPlanID == nil) {
			continue
		}
		if l.MealPlanID != nil && *l.MealPlanID != *mealPlanID {
			continue
		}
		return l.ID, true, nil
	}
	return 0, false, nil
}

func (f *fakeImportStore) InsertGroceryList(ctx context.Context, list models.GroceryList) (int, error) {
	list.ID = f.id()
	f.lists = append(f.lists, list)
	return list.ID, nil
}

func (f *fakeImportStore) FindGroceryItem(ctx context.Context, listID int, name, category string) (int, bool, error) {
	for _, it := range f.items {
		if it.ListID == listID && it.Name == name && it.Category == category {
			return it.ID, true, nil
		}
	}
	return 0, false, nil
}

func (f *fakeImportStore) InsertGroceryItem(ctx context.Context, item models.GroceryItem) (int, error) {
	item.ID = f.id()
	f.items = append(f.items, item)
	return item.ID, nil
}

func (f *fakeImportStore) FindPantryItem(ctx context.Context, planID int, name string) (int, bool, error) {
	for _, it := range f.pantry {
		if it.PlanID == planID && it.Name == name {
			return it.ID, true, nil
		}
	}
	return 0, false, nil
}

func (f *fakeImportStore) InsertPantryItem(ctx context.Context, item models.PantryItem) (int, error) {
	item.ID = f.id()
	f.pantry = append(f.pantry, item)
	return item.ID, nil
}

func (f *fakeImportStore) FindBankedMeal(ctx context.Context, title, dayOfWeek string) (int, bool, error) {
	for _, m := range f.banked {
		if m.Title == title && m.DayOfWeek == dayOfWeek {
			return m.ID, true, nil
		}
	}
	return 0, false, nil
}

func (f *fakeImportStore) InsertBankedMeal(ctx context.Context, meal models.BankedMeal) (int, error) {
	meal.ID = f.id()
	f.banked = append(f.banked, meal)
	return meal.ID, nil
}

func (f *fakeImportStore) FindAIMenuCache(ctx context.Context, weekStartDate, preferencesHash string) (int, bool, error) {
	for _, e := range f.cache {
		if e.WeekStartDate == weekStartDate && e.PreferencesHash == preferencesHash {
			return e.ID, true, nil
		}
	}
	return 0, false, nil
}

func (f *fakeImportStore) UpsertAIMenuCache(ctx context.Context, entry models.AIMenuCache) (bool, error) {
	if _, found, _ := f.FindAIMenuCache(ctx, entry.WeekStartDate, entry.PreferencesHash); found {
		return false, nil
	}
	entry.ID = f.id()
	f.cache = append(f.cache, entry)
	return true, nil
}

func (f *fakeImportStore) InsertMealAlternative(ctx context.Context, alt models.MealAlternativeHistory) (int, error) {
	alt.ID = f.id()
	f.alts = append(f.alts, alt)
	return alt.ID, nil
}

type fakeImportTxProvider struct {
	store *fakeImportStore
}

func (f *fakeImportTxProvider) WithImportTx(ctx context.Context, fn func(ImportStore) error) error {
	return fn(f.store)
}

// brokenTxProvider fails before any record is written
type brokenTxProvider struct{}

func (brokenTxProvider) WithImportTx(ctx context.Context, fn func(ImportStore) error) error {
	return errors.New("connection reset")
}

func sampleDocument(t *testing.T) map[string]interface{} {
	t.Helper()

	mealPlanID := 1
	doc := &models.DataExportFormat{
		Version: models.ExportSchemaVersion,
		Data: models.ExportData{
			WeeklyMealPlans: []models.WeeklyMealPlan{
				{ID: 1, Name: "Week of Mar 2", WeekStartDate: "2026-03-02"},
			},
			Meals: []models.Meal{
				{ID: 11, PlanID: 1, DayOfWeek: "Monday", MealType: "dinner", Title: "Tacos"},
				{ID: 12, PlanID: 1, DayOfWeek: "Tuesday", MealType: "dinner", Title: "Stir Fry"},
			},
			GroceryLists: []models.GroceryList{
				{ID: 21, MealPlanID: &mealPlanID, Name: "Week of Mar 2 groceries"},
			},
			GroceryItems: []models.GroceryItem{
				{ID: 31, ListID: 21, Name: "eggs", Quantity: "12 ea", Price: "3.49", Category: "Dairy"},
				{ID: 32, ListID: 21, Name: "tortillas", Quantity: "1 pkg", Price: "2.99", Category: "Bakery"},
			},
			PantryItems: []models.PantryItem{
				{ID: 41, PlanID: 1, Name: "rice", Quantity: "2 lb", Category: "Grains"},
			},
			BankedMeals: []models.BankedMeal{
				{ID: 51, Title: "Chili", DayOfWeek: "Sunday", MealType: "dinner"},
			},
			AIMenuCache: []models.AIMenuCache{
				{ID: 61, PlanID: 1, WeekStartDate: "2026-03-02", PreferencesHash: "abc123", MenuJSON: "{}"},
			},
			MealAlternativesHistory: []models.MealAlternativeHistory{
				{ID: 71, MealID: 11, OriginalTitle: "Tacos", AlternativeTitle: "Fajitas"},
			},
		},
	}

	generic, err := DocumentFromExport(doc)
	require.NoError(t, err)
	return generic
}

func TestImportFullDocument(t *testing.T) {
	store := newFakeImportStore()
	imp := NewImporter(&fakeImportTxProvider{store: store})

	result, err := imp.Import(context.Background(), sampleDocument(t), models.DefaultImportOptions())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)

	assert.Equal(t, 1, result.Imported[models.EntityWeeklyMealPlans])
	assert.Equal(t, 2, result.Imported[models.EntityMeals])
	assert.Equal(t, 1, result.Imported[models.EntityGroceryLists])
	assert.Equal(t, 2, result.Imported[models.EntityGroceryItems])
	assert.Equal(t, 1, result.Imported[models.EntityPantryItems])
	assert.Equal(t, 1, result.Imported[models.EntityBankedMeals])
	assert.Equal(t, 1, result.Imported[models.EntityAIMenuCache])
	assert.Equal(t, 1, result.Imported[models.EntityMealAlternativesHistory])

	// IDs are remapped, not preserved
	require.Len(t, store.plans, 1)
	assert.NotEqual(t, 1, store.plans[0].ID)
	require.Len(t, store.meals, 2)
	assert.Equal(t, store.plans[0].ID, store.meals[0].PlanID)
	require.Len(t, store.items, 2)
	assert.Equal(t, store.lists[0].ID, store.items[0].ListID)
}

func TestImportSecondRunSkipsDuplicates(t *testing.T) {
	store := newFakeImportStore()
	imp := NewImporter(&fakeImportTxProvider{store: store})
	opts := models.DefaultImportOptions()

	_, err := imp.Import(context.Background(), sampleDocument(t), opts)
	require.NoError(t, err)

	result, err := imp.Import(context.Background(), sampleDocument(t), opts)
	require.NoError(t, err)

	assert.True(t, result.Success)
	for _, key := range models.EntityKeys {
		if key == models.EntityMealAlternativesHistory {
			// History has no duplicate key; it imports again
			continue
		}
		assert.Equal(t, 0, result.Imported[key], "imported %s", key)
	}
	assert.Equal(t, 1, result.Skipped[models.EntityWeeklyMealPlans])
	assert.Equal(t, 2, result.Skipped[models.EntityMeals])
	assert.Equal(t, 1, result.Skipped[models.EntityAIMenuCache])

	// Nothing new was written
	assert.Len(t, store.plans, 1)
	assert.Len(t, store.meals, 2)
	assert.Len(t, store.items, 2)
}

func TestImportPreserveIDs(t *testing.T) {
	store := newFakeImportStore()
	imp := NewImporter(&fakeImportTxProvider{store: store})

	opts := models.DefaultImportOptions()
	opts.PreserveIDs = true

	_, err := imp.Import(context.Background(), sampleDocument(t), opts)
	require.NoError(t, err)

	require.Len(t, store.plans, 1)
	assert.Equal(t, 1, store.plans[0].ID)
}

func TestImportOrphanedRecords(t *testing.T) {
	doc := sampleDocument(t)
	data := doc["data"].(map[string]interface{})

	// Point one meal at a plan that is not in the document
	meals := data[models.EntityMeals].([]interface{})
	meals[1].(map[string]interface{})["plan_id"] = 99.0

	store := newFakeImportStore()
	imp := NewImporter(&fakeImportTxProvider{store: store})

	result, err := imp.Import(context.Background(), doc, models.DefaultImportOptions())
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.Errors, "Meal skipped: referenced plan_id 99 not found")

	// The sibling meal and everything else still imported
	assert.Equal(t, 1, result.Imported[models.EntityMeals])
	assert.Equal(t, 1, result.Imported[models.EntityWeeklyMealPlans])
	assert.Equal(t, 2, result.Imported[models.EntityGroceryItems])
}

func TestImportOrphanedCacheIsSilentSkip(t *testing.T) {
	doc := sampleDocument(t)
	data := doc["data"].(map[string]interface{})

	cache := data[models.EntityAIMenuCache].([]interface{})
	cache[0].(map[string]interface{})["plan_id"] = 99.0

	store := newFakeImportStore()
	imp := NewImporter(&fakeImportTxProvider{store: store})

	result, err := imp.Import(context.Background(), doc, models.DefaultImportOptions())
	require.NoError(t, err)

	// Disposable cache rows never produce errors
	assert.True(t, result.Success)
	assert.Equal(t, 0, result.Imported[models.EntityAIMenuCache])
	assert.Equal(t, 1, result.Skipped[models.EntityAIMenuCache])
}

func TestImportOrphanedAlternativeWarns(t *testing.T) {
	doc := sampleDocument(t)
	data := doc["data"].(map[string]interface{})

	alts := data[models.EntityMealAlternativesHistory].([]interface{})
	alts[0].(map[string]interface{})["meal_id"] = 99.0

	store := newFakeImportStore()
	imp := NewImporter(&fakeImportTxProvider{store: store})

	result, err := imp.Import(context.Background(), doc, models.DefaultImportOptions())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Skipped[models.EntityMealAlternativesHistory])
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "meal_id 99 not found")
}

func TestImportVersionMismatchWarns(t *testing.T) {
	doc := sampleDocument(t)
	doc["version"] = "0.9.0"

	store := newFakeImportStore()
	imp := NewImporter(&fakeImportTxProvider{store: store})

	result, err := imp.Import(context.Background(), doc, models.DefaultImportOptions())
	require.NoError(t, err)

	assert.True(t, result.Success)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], `"0.9.0"`)
	assert.Contains(t, result.Warnings[0], fmt.Sprintf("%q", models.ExportSchemaVersion))

	// The mismatch never blocks the import itself
	assert.Equal(t, 1, result.Imported[models.EntityWeeklyMealPlans])
}

func TestImportMalformedEntityArray(t *testing.T) {
	// Any non-array value where an entity array is expected, null included,
	// is a malformed-data error for that entity only
	shapes := map[string]interface{}{
		"string": "not an array",
		"null":   nil,
		"number": 42.0,
		"object": map[string]interface{}{"id": 1},
	}

	for name, shape := range shapes {
		t.Run(name, func(t *testing.T) {
			doc := sampleDocument(t)
			data := doc["data"].(map[string]interface{})
			data[models.EntityMeals] = shape

			store := newFakeImportStore()
			imp := NewImporter(&fakeImportTxProvider{store: store})

			result, err := imp.Import(context.Background(), doc, models.DefaultImportOptions())
			require.NoError(t, err)

			assert.False(t, result.Success)
			assert.Contains(t, result.Errors, "malformed data: meals is not an array")

			// Other entity types are unaffected
			assert.Equal(t, 1, result.Imported[models.EntityWeeklyMealPlans])
			assert.Equal(t, 1, result.Imported[models.EntityBankedMeals])
		})
	}
}

func TestImportNullEntityArray(t *testing.T) {
	store := newFakeImportStore()
	imp := NewImporter(&fakeImportTxProvider{store: store})

	result, err := imp.Import(context.Background(), map[string]interface{}{
		"version": models.ExportSchemaVersion,
		"data": map[string]interface{}{
			models.EntityWeeklyMealPlans: nil,
		},
	}, models.DefaultImportOptions())
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.Errors, "malformed data: weeklyMealPlans is not an array")
	assert.Empty(t, store.plans)
}

func TestPreviewNullEntityArray(t *testing.T) {
	imp := NewImporter(nil)

	preview := imp.Preview(map[string]interface{}{
		"version": models.ExportSchemaVersion,
		"data": map[string]interface{}{
			models.EntityWeeklyMealPlans: nil,
		},
	})

	assert.Contains(t, preview.Warnings, "malformed data: weeklyMealPlans is not an array")
	assert.Equal(t, 0, preview.Summary[models.EntityWeeklyMealPlans])
}

func TestImportMissingDataSection(t *testing.T) {
	store := newFakeImportStore()
	imp := NewImporter(&fakeImportTxProvider{store: store})

	result, err := imp.Import(context.Background(), map[string]interface{}{
		"version": models.ExportSchemaVersion,
	}, models.DefaultImportOptions())
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.Errors, "malformed document: missing data section")
	assert.Empty(t, store.plans)
}

func TestImportTransactionFailure(t *testing.T) {
	imp := NewImporter(brokenTxProvider{})

	result, err := imp.Import(context.Background(), sampleDocument(t), models.DefaultImportOptions())
	require.Error(t, err)

	require.NotNil(t, result)
	assert.False(t, result.Success)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[len(result.Errors)-1], "Transaction failed:")
}

func TestImportSanitizesContent(t *testing.T) {
	doc := sampleDocument(t)
	data := doc["data"].(map[string]interface{})
	plans := data[models.EntityWeeklyMealPlans].([]interface{})
	plans[0].(map[string]interface{})["name"] = "<script>alert(1)</script>Week of Mar 2"

	store := newFakeImportStore()
	imp := NewImporter(&fakeImportTxProvider{store: store})

	result, err := imp.Import(context.Background(), doc, models.DefaultImportOptions())
	require.NoError(t, err)

	assert.True(t, result.Success)
	require.Len(t, store.plans, 1)
	assert.Equal(t, "Week of Mar 2", store.plans[0].Name)
}

func TestPreviewMalformedDocument(t *testing.T) {
	imp := NewImporter(nil)

	preview := imp.Preview(map[string]interface{}{"version": "1.0.0"})

	assert.False(t, preview.Compatible)
	assert.Contains(t, preview.Warnings, "malformed document: missing data section")
	for _, key := range models.EntityKeys {
		assert.Equal(t, 0, preview.Summary[key])
	}
}
