package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/mealplanner/internal/models"
)

// fakeExportStore serves canned slices and can fail a single read
type fakeExportStore struct {
	data    models.ExportData
	failOn  string
	readErr error
}

func (f *fakeExportStore) fail(name string) error {
	if f.failOn == name {
		return f.readErr
	}
	return nil
}

func (f *fakeExportStore) ReadWeeklyMealPlans(ctx context.Context) ([]models.WeeklyMealPlan, error) {
	return f.data.WeeklyMealPlans, f.fail("plans")
}

func (f *fakeExportStore) ReadMeals(ctx context.Context) ([]models.Meal, error) {
	return f.data.Meals, f.fail("meals")
}

func (f *fakeExportStore) ReadGroceryLists(ctx context.Context) ([]models.GroceryList, error) {
	return f.data.GroceryLists, f.fail("lists")
}

func (f *fakeExportStore) ReadGroceryItems(ctx context.Context) ([]models.GroceryItem, error) {
	return f.data.GroceryItems, f.fail("items")
}

func (f *fakeExportStore) ReadPantryItems(ctx context.Context) ([]models.PantryItem, error) {
	return f.data.PantryItems, f.fail("pantry")
}

func (f *fakeExportStore) ReadBankedMeals(ctx context.Context) ([]models.BankedMeal, error) {
	return f.data.BankedMeals, f.fail("banked")
}

func (f *fakeExportStore) ReadAIMenuCache(ctx context.Context) ([]models.AIMenuCache, error) {
	return f.data.AIMenuCache, f.fail("cache")
}

func (f *fakeExportStore) ReadMealAlternativesHistory(ctx context.Context) ([]models.MealAlternativeHistory, error) {
	return f.data.MealAlternativesHistory, f.fail("alternatives")
}

type fakeExportTxProvider struct {
	store *fakeExportStore
}

func (f *fakeExportTxProvider) WithExportTx(ctx context.Context, fn func(ExportStore) error) error {
	return fn(f.store)
}

func newTestExporter(store *fakeExportStore) *Exporter {
	e := NewExporter(&fakeExportTxProvider{store: store})
	e.now = func() time.Time {
		return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	}
	return e
}

func TestExportAllBuildsMetadata(t *testing.T) {
	store := &fakeExportStore{
		data: models.ExportData{
			WeeklyMealPlans: []models.WeeklyMealPlan{
				{ID: 1, Name: "Week A", WeekStartDate: "2026-03-02"},
				{ID: 2, Name: "Week B", WeekStartDate: "2026-02-16"},
			},
			GroceryLists: []models.GroceryList{
				{ID: 10, Name: "Week A groceries"},
			},
			GroceryItems: []models.GroceryItem{
				{ID: 100, ListID: 10, Name: "eggs"},
				{ID: 101, ListID: 10, Name: "milk"},
			},
			PantryItems: []models.PantryItem{
				{ID: 200, PlanID: 1, Name: "rice"},
			},
		},
	}

	doc, err := newTestExporter(store).ExportAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.ExportSchemaVersion, doc.Version)
	assert.Equal(t, 2, doc.Metadata.TotalPlans)
	assert.Equal(t, 1, doc.Metadata.TotalLists)
	assert.Equal(t, 3, doc.Metadata.TotalItems)

	require.NotNil(t, doc.Metadata.PlanDateRange)
	assert.Equal(t, "2026-02-16", doc.Metadata.PlanDateRange.Earliest)
	assert.Equal(t, "2026-03-02", doc.Metadata.PlanDateRange.Latest)
}

func TestExportAllNormalizesNilSlices(t *testing.T) {
	doc, err := newTestExporter(&fakeExportStore{}).ExportAll(context.Background())
	require.NoError(t, err)

	assert.NotNil(t, doc.Data.WeeklyMealPlans)
	assert.NotNil(t, doc.Data.Meals)
	assert.NotNil(t, doc.Data.GroceryLists)
	assert.NotNil(t, doc.Data.GroceryItems)
	assert.NotNil(t, doc.Data.PantryItems)
	assert.NotNil(t, doc.Data.BankedMeals)
	assert.NotNil(t, doc.Data.AIMenuCache)
	assert.NotNil(t, doc.Data.MealAlternativesHistory)

	// No plans means no date range key at all
	assert.Nil(t, doc.Metadata.PlanDateRange)
}

func TestExportAllSkipsUnparseableDates(t *testing.T) {
	store := &fakeExportStore{
		data: models.ExportData{
			WeeklyMealPlans: []models.WeeklyMealPlan{
				{ID: 1, Name: "Bad", WeekStartDate: "not-a-date"},
				{ID: 2, Name: "Good", WeekStartDate: "2026-01-05"},
			},
		},
	}

	doc, err := newTestExporter(store).ExportAll(context.Background())
	require.NoError(t, err)

	require.NotNil(t, doc.Metadata.PlanDateRange)
	assert.Equal(t, "2026-01-05", doc.Metadata.PlanDateRange.Earliest)
	assert.Equal(t, "2026-01-05", doc.Metadata.PlanDateRange.Latest)
}

func TestExportAllFailsWhole(t *testing.T) {
	store := &fakeExportStore{
		failOn:  "meals",
		readErr: errors.New("boom"),
	}

	doc, err := newTestExporter(store).ExportAll(context.Background())
	assert.Nil(t, doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read meals")
}

func TestExportThenPreviewRoundTrip(t *testing.T) {
	store := &fakeExportStore{
		data: models.ExportData{
			WeeklyMealPlans: []models.WeeklyMealPlan{
				{ID: 1, Name: "Week A", WeekStartDate: "2026-03-02"},
			},
			Meals: []models.Meal{
				{ID: 5, PlanID: 1, DayOfWeek: "Monday", MealType: "dinner", Title: "Tacos"},
			},
			BankedMeals: []models.BankedMeal{
				{ID: 7, Title: "Chili", DayOfWeek: "Sunday", MealType: "dinner"},
			},
		},
	}

	exported, err := newTestExporter(store).ExportAll(context.Background())
	require.NoError(t, err)

	generic, err := DocumentFromExport(exported)
	require.NoError(t, err)

	preview := NewImporter(nil).Preview(generic)

	assert.True(t, preview.Compatible)
	assert.Equal(t, models.ExportSchemaVersion, preview.Version)
	assert.Empty(t, preview.Warnings)
	assert.Equal(t, 1, preview.Summary[models.EntityWeeklyMealPlans])
	assert.Equal(t, 1, preview.Summary[models.EntityMeals])
	assert.Equal(t, 1, preview.Summary[models.EntityBankedMeals])
	assert.Equal(t, 0, preview.Summary[models.EntityGroceryLists])

	require.NotNil(t, preview.DateRange)
	assert.Equal(t, "2026-03-02", preview.DateRange.Earliest)
}
