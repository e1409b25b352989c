package services

import (
	"context"
	"fmt"
	"time"

	"github.com/foxxcyber/mealplanner/internal/models"
)

// ExportStore reads entity tables inside one consistent transaction. Each
// method returns rows in a deterministic order so repeated exports of
// unchanged data are byte-similar.
type ExportStore interface {
	ReadWeeklyMealPlans(ctx context.Context) ([]models.WeeklyMealPlan, error)
	ReadMeals(ctx context.Context) ([]models.Meal, error)
	ReadGroceryLists(ctx context.Context) ([]models.GroceryList, error)
	ReadGroceryItems(ctx context.Context) ([]models.GroceryItem, error)
	ReadPantryItems(ctx context.Context) ([]models.PantryItem, error)
	ReadBankedMeals(ctx context.Context) ([]models.BankedMeal, error)
	ReadAIMenuCache(ctx context.Context) ([]models.AIMenuCache, error)
	ReadMealAlternativesHistory(ctx context.Context) ([]models.MealAlternativeHistory, error)
}

// ExportTxProvider runs fn against an ExportStore inside a single
// transaction. If fn returns an error the transaction is rolled back and the
// error is returned; otherwise the transaction commits.
type ExportTxProvider interface {
	WithExportTx(ctx context.Context, fn func(ExportStore) error) error
}

// Exporter produces complete, versioned snapshots of all domain data
type Exporter struct {
	store ExportTxProvider
	now   func() time.Time
}

// NewExporter creates a new exporter
func NewExporter(store ExportTxProvider) *Exporter {
	return &Exporter{
		store: store,
		now:   time.Now,
	}
}

// ExportAll reads all eight entity tables in one transaction and returns a
// self-describing snapshot. All-or-nothing: any read failure aborts the
// whole export and no partial document is returned.
func (e *Exporter) ExportAll(ctx context.Context) (*models.DataExportFormat, error) {
	var data models.ExportData

	err := e.store.WithExportTx(ctx, func(st ExportStore) error {
		var err error
		if data.WeeklyMealPlans, err = st.ReadWeeklyMealPlans(ctx); err != nil {
			return fmt.Errorf("failed to read weekly meal plans: %w", err)
		}
		if data.Meals, err = st.ReadMeals(ctx); err != nil {
			return fmt.Errorf("failed to read meals: %w", err)
		}
		if data.GroceryLists, err = st.ReadGroceryLists(ctx); err != nil {
			return fmt.Errorf("failed to read grocery lists: %w", err)
		}
		if data.GroceryItems, err = st.ReadGroceryItems(ctx); err != nil {
			return fmt.Errorf("failed to read grocery items: %w", err)
		}
		if data.PantryItems, err = st.ReadPantryItems(ctx); err != nil {
			return fmt.Errorf("failed to read pantry items: %w", err)
		}
		if data.BankedMeals, err = st.ReadBankedMeals(ctx); err != nil {
			return fmt.Errorf("failed to read banked meals: %w", err)
		}
		if data.AIMenuCache, err = st.ReadAIMenuCache(ctx); err != nil {
			return fmt.Errorf("failed to read AI menu cache: %w", err)
		}
		if data.MealAlternativesHistory, err = st.ReadMealAlternativesHistory(ctx); err != nil {
			return fmt.Errorf("failed to read meal alternatives history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Every data key must be present as an array, never null
	if data.WeeklyMealPlans == nil {
		data.WeeklyMealPlans = []models.WeeklyMealPlan{}
	}
	if data.Meals == nil {
		data.Meals = []models.Meal{}
	}
	if data.GroceryLists == nil {
		data.GroceryLists = []models.GroceryList{}
	}
	if data.GroceryItems == nil {
		data.GroceryItems = []models.GroceryItem{}
	}
	if data.PantryItems == nil {
		data.PantryItems = []models.PantryItem{}
	}
	if data.BankedMeals == nil {
		data.BankedMeals = []models.BankedMeal{}
	}
	if data.AIMenuCache == nil {
		data.AIMenuCache = []models.AIMenuCache{}
	}
	if data.MealAlternativesHistory == nil {
		data.MealAlternativesHistory = []models.MealAlternativeHistory{}
	}

	doc := &models.DataExportFormat{
		Version:    models.ExportSchemaVersion,
		ExportedAt: e.now().UTC(),
		Data:       data,
		Metadata: models.ExportMetadata{
			TotalPlans:    len(data.WeeklyMealPlans),
			TotalLists:    len(data.GroceryLists),
			TotalItems:    len(data.GroceryItems) + len(data.PantryItems),
			PlanDateRange: planDateRange(data.WeeklyMealPlans),
		},
	}

	return doc, nil
}

// planDateRange returns the earliest/latest week_start_date across plans, or
// nil when there are no plans or no parseable dates
func planDateRange(plans []models.WeeklyMealPlan) *models.PlanDateRange {
	var earliest, latest time.Time

	for _, p := range plans {
		d, err := time.Parse("2006-01-02", p.WeekStartDate)
		if err != nil {
			continue
		}
		if earliest.IsZero() || d.Before(earliest) {
			earliest = d
		}
		if latest.IsZero() || d.After(latest) {
			latest = d
		}
	}

	if earliest.IsZero() {
		return nil
	}

	return &models.PlanDateRange{
		Earliest: earliest.Format("2006-01-02"),
		Latest:   latest.Format("2006-01-02"),
	}
}
