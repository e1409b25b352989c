package database

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/mealplanner/internal/models"
	"github.com/foxxcyber/mealplanner/internal/services"
)

// WithImportTx runs fn against a transaction-scoped import store. All entity
// groups of one import run share this single transaction; fn returning an
// error rolls the whole run back.
func (db *DB) WithImportTx(ctx context.Context, fn func(services.ImportStore) error) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(&importStore{tx: tx}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// importStore writes through one pgx transaction. Each insert runs inside a
// nested transaction (a savepoint) so a per-record failure, e.g. a
// constraint violation, can be rolled back without aborting the outer
// transaction and the remaining records.
type importStore struct {
	tx pgx.Tx
}

// insertReturningID runs an INSERT ... RETURNING id under a savepoint
func (s *importStore) insertReturningID(ctx context.Context, sql string, args ...interface{}) (int, error) {
	sp, err := s.tx.Begin(ctx)
	if err != nil {
		return 0, err
	}

	var id int
	if err := sp.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		sp.Rollback(ctx)
		return 0, err
	}

	return id, sp.Commit(ctx)
}

// findID runs a lookup returning (id, found, error)
func (s *importStore) findID(ctx context.Context, sql string, args ...interface{}) (int, bool, error) {
	var id int
	err := s.tx.QueryRow(ctx, sql, args...).Scan(&id)
	if err == pgx.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func (s *importStore) FindPlan(ctx context.Context, name, weekStartDate string) (int, bool, error) {
	return s.findID(ctx, `
		SELECT id FROM weekly_meal_plans
		WHERE name = $1 AND week_start_date = $2::date
	`, name, weekStartDate)
}

func (s *importStore) InsertPlan(ctx context.Context, plan models.WeeklyMealPlan, preserveID bool) (int, error) {
	if preserveID && plan.ID > 0 {
		id, err := s.insertReturningID(ctx, `
			INSERT INTO weekly_meal_plans (id, name, week_start_date, preferences, created_at, updated_at)
			VALUES ($1, $2, $3::date, $4, NOW(), NOW())
			RETURNING id
		`, plan.ID, plan.Name, plan.WeekStartDate, plan.Preferences)
		if err != nil {
			return 0, err
		}
		// Keep the sequence ahead of explicitly supplied IDs
		_, err = s.tx.Exec(ctx, `
			SELECT setval('weekly_meal_plans_id_seq',
				GREATEST((SELECT MAX(id) FROM weekly_meal_plans), 1))
		`)
		return id, err
	}

	return s.insertReturningID(ctx, `
		INSERT INTO weekly_meal_plans (name, week_start_date, preferences, created_at, updated_at)
		VALUES ($1, $2::date, $3, NOW(), NOW())
		RETURNING id
	`, plan.Name, plan.WeekStartDate, plan.Preferences)
}

func (s *importStore) FindMeal(ctx context.Context, planID int, dayOfWeek, mealType, title string) (int, bool, error) {
	return s.findID(ctx, `
		SELECT id FROM meals
		WHERE plan_id = $1 AND day_of_week = $2 AND meal_type = $3 AND title = $4
	`, planID, dayOfWeek, mealType, title)
}

func (s *importStore) InsertMeal(ctx context.Context, meal models.Meal) (int, error) {
	return s.insertReturningID(ctx, `
		INSERT INTO meals (plan_id, day_of_week, meal_type, title, description, ingredients, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id
	`, meal.PlanID, meal.DayOfWeek, meal.MealType, meal.Title, meal.Description, meal.Ingredients)
}

func (s *importStore) FindGroceryList(ctx context.Context, name string, mealPlanID *int) (int, bool, error) {
	return s.findID(ctx, `
		SELECT id FROM grocery_lists
		WHERE name = $1 AND meal_plan_id IS NOT DISTINCT FROM $2
	`, name, mealPlanID)
}

func (s *importStore) InsertGroceryList(ctx context.Context, list models.GroceryList) (int, error) {
	return s.insertReturningID(ctx, `
		INSERT INTO grocery_lists (meal_plan_id, name, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id
	`, list.MealPlanID, list.Name)
}

func (s *importStore) FindGroceryItem(ctx context.Context, listID int, name, category string) (int, bool, error) {
	return s.findID(ctx, `
		SELECT id FROM grocery_items
		WHERE list_id = $1 AND name = $2 AND category = $3
	`, listID, name, category)
}

func (s *importStore) InsertGroceryItem(ctx context.Context, item models.GroceryItem) (int, error) {
	return s.insertReturningID(ctx, `
		INSERT INTO grocery_items (list_id, name, quantity, price, category, meal, purchased, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id
	`, item.ListID, item.Name, item.Quantity, item.Price, item.Category, item.Meal, item.Purchased)
}

func (s *importStore) FindPantryItem(ctx context.Context, planID int, name string) (int, bool, error) {
	return s.findID(ctx, `
		SELECT id FROM pantry_items
		WHERE plan_id = $1 AND name = $2
	`, planID, name)
}

func (s *importStore) InsertPantryItem(ctx context.Context, item models.PantryItem) (int, error) {
	return s.insertReturningID(ctx, `
		INSERT INTO pantry_items (plan_id, name, quantity, category, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id
	`, item.PlanID, item.Name, item.Quantity, item.Category)
}

func (s *importStore) FindBankedMeal(ctx context.Context, title, dayOfWeek string) (int, bool, error) {
	return s.findID(ctx, `
		SELECT id FROM banked_meals
		WHERE title = $1 AND day_of_week = $2
	`, title, dayOfWeek)
}

func (s *importStore) InsertBankedMeal(ctx context.Context, meal models.BankedMeal) (int, error) {
	return s.insertReturningID(ctx, `
		INSERT INTO banked_meals (title, day_of_week, meal_type, description, ingredients, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id
	`, meal.Title, meal.DayOfWeek, meal.MealType, meal.Description, meal.Ingredients)
}

func (s *importStore) FindAIMenuCache(ctx context.Context, weekStartDate, preferencesHash string) (int, bool, error) {
	return s.findID(ctx, `
		SELECT id FROM ai_menu_cache
		WHERE week_start_date = $1::date AND preferences_hash = $2
	`, weekStartDate, preferencesHash)
}

func (s *importStore) UpsertAIMenuCache(ctx context.Context, entry models.AIMenuCache) (bool, error) {
	sp, err := s.tx.Begin(ctx)
	if err != nil {
		return false, err
	}

	// ON CONFLICT DO NOTHING is the second line of defense behind the
	// FindAIMenuCache duplicate check
	tag, err := sp.Exec(ctx, `
		INSERT INTO ai_menu_cache (plan_id, week_start_date, preferences_hash, menu_json, created_at)
		VALUES ($1, $2::date, $3, $4, NOW())
		ON CONFLICT ON CONSTRAINT unique_menu_cache DO NOTHING
	`, entry.PlanID, entry.WeekStartDate, entry.PreferencesHash, entry.MenuJSON)
	if err != nil {
		sp.Rollback(ctx)
		return false, err
	}

	return tag.RowsAffected() > 0, sp.Commit(ctx)
}

func (s *importStore) InsertMealAlternative(ctx context.Context, alt models.MealAlternativeHistory) (int, error) {
	return s.insertReturningID(ctx, `
		INSERT INTO meal_alternatives_history (meal_id, original_title, alternative_title, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id
	`, alt.MealID, alt.OriginalTitle, alt.AlternativeTitle)
}
