package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/mealplanner/internal/models"
	"github.com/foxxcyber/mealplanner/internal/services"
)

// WithExportTx runs fn against a transaction-scoped export store. The
// transaction wraps all reads so the snapshot is consistent; any error rolls
// it back and no partial snapshot escapes.
func (db *DB) WithExportTx(ctx context.Context, fn func(services.ExportStore) error) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(&exportStore{tx: tx}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// exportStore reads entity tables through one pgx transaction, each in a
// fixed deterministic order
type exportStore struct {
	tx pgx.Tx
}

func (s *exportStore) ReadWeeklyMealPlans(ctx context.Context) ([]models.WeeklyMealPlan, error) {
	rows, err := s.tx.Query(ctx, `
		SELECT id, name, week_start_date, preferences, created_at, updated_at
		FROM weekly_meal_plans
		ORDER BY week_start_date ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []models.WeeklyMealPlan
	for rows.Next() {
		var p models.WeeklyMealPlan
		var weekStart time.Time
		if err := rows.Scan(&p.ID, &p.Name, &weekStart, &p.Preferences, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.WeekStartDate = weekStart.Format(dateFormat)
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (s *exportStore) ReadMeals(ctx context.Context) ([]models.Meal, error) {
	rows, err := s.tx.Query(ctx, `
		SELECT id, plan_id, day_of_week, meal_type, title, description, ingredients, created_at
		FROM meals
		ORDER BY plan_id ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meals []models.Meal
	for rows.Next() {
		var m models.Meal
		if err := rows.Scan(&m.ID, &m.PlanID, &m.DayOfWeek, &m.MealType, &m.Title, &m.Description, &m.Ingredients, &m.CreatedAt); err != nil {
			return nil, err
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

func (s *exportStore) ReadGroceryLists(ctx context.Context) ([]models.GroceryList, error) {
	rows, err := s.tx.Query(ctx, `
		SELECT id, meal_plan_id, name, created_at, updated_at
		FROM grocery_lists
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []models.GroceryList
	for rows.Next() {
		var l models.GroceryList
		if err := rows.Scan(&l.ID, &l.MealPlanID, &l.Name, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

func (s *exportStore) ReadGroceryItems(ctx context.Context) ([]models.GroceryItem, error) {
	rows, err := s.tx.Query(ctx, `
		SELECT id, list_id, name, quantity, price, category, meal, purchased, created_at
		FROM grocery_items
		ORDER BY list_id ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.GroceryItem
	for rows.Next() {
		var it models.GroceryItem
		if err := rows.Scan(&it.ID, &it.ListID, &it.Name, &it.Quantity, &it.Price, &it.Category, &it.Meal, &it.Purchased, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *exportStore) ReadPantryItems(ctx context.Context) ([]models.PantryItem, error) {
	rows, err := s.tx.Query(ctx, `
		SELECT id, plan_id, name, quantity, category, created_at
		FROM pantry_items
		ORDER BY plan_id ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.PantryItem
	for rows.Next() {
		var it models.PantryItem
		if err := rows.Scan(&it.ID, &it.PlanID, &it.Name, &it.Quantity, &it.Category, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *exportStore) ReadBankedMeals(ctx context.Context) ([]models.BankedMeal, error) {
	rows, err := s.tx.Query(ctx, `
		SELECT id, title, day_of_week, meal_type, description, ingredients, created_at
		FROM banked_meals
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meals []models.BankedMeal
	for rows.Next() {
		var m models.BankedMeal
		if err := rows.Scan(&m.ID, &m.Title, &m.DayOfWeek, &m.MealType, &m.Description, &m.Ingredients, &m.CreatedAt); err != nil {
			return nil, err
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

func (s *exportStore) ReadAIMenuCache(ctx context.Context) ([]models.AIMenuCache, error) {
	rows, err := s.tx.Query(ctx, `
		SELECT id, plan_id, week_start_date, preferences_hash, menu_json, created_at
		FROM ai_menu_cache
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.AIMenuCache
	for rows.Next() {
		var e models.AIMenuCache
		var weekStart time.Time
		if err := rows.Scan(&e.ID, &e.PlanID, &weekStart, &e.PreferencesHash, &e.MenuJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.WeekStartDate = weekStart.Format(dateFormat)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *exportStore) ReadMealAlternativesHistory(ctx context.Context) ([]models.MealAlternativeHistory, error) {
	rows, err := s.tx.Query(ctx, `
		SELECT id, meal_id, original_title, alternative_title, created_at
		FROM meal_alternatives_history
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alts []models.MealAlternativeHistory
	for rows.Next() {
		var a models.MealAlternativeHistory
		if err := rows.Scan(&a.ID, &a.MealID, &a.OriginalTitle, &a.AlternativeTitle, &a.CreatedAt); err != nil {
			return nil, err
		}
		alts = append(alts, a)
	}
	return alts, rows.Err()
}
