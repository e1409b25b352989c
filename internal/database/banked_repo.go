package database

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/mealplanner/internal/models"
)

var ErrBankedMealNotFound = errors.New("banked meal not found")

// ListBankedMeals returns all banked meals, newest first
func (db *DB) ListBankedMeals(ctx context.Context) ([]*models.BankedMeal, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, title, day_of_week, meal_type, description, ingredients, created_at
		FROM banked_meals
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meals []*models.BankedMeal
	for rows.Next() {
		m := &models.BankedMeal{}
		err := rows.Scan(&m.ID, &m.Title, &m.DayOfWeek, &m.MealType, &m.Description, &m.Ingredients, &m.CreatedAt)
		if err != nil {
			return nil, err
		}
		meals = append(meals, m)
	}

	return meals, nil
}

// CreateBankedMeal saves a meal to the bank
func (db *DB) CreateBankedMeal(ctx context.Context, req *models.CreateBankedMealRequest) (*models.BankedMeal, error) {
	m := &models.BankedMeal{}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO banked_meals (title, day_of_week, meal_type, description, ingredients, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, title, day_of_week, meal_type, description, ingredients, created_at
	`, req.Title, req.DayOfWeek, req.MealType, req.Description, req.Ingredients).Scan(
		&m.ID, &m.Title, &m.DayOfWeek, &m.MealType, &m.Description, &m.Ingredients, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// DeleteBankedMeal removes a banked meal
func (db *DB) DeleteBankedMeal(ctx context.Context, id int) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM banked_meals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBankedMealNotFound
	}
	return nil
}

// GetCachedMenu looks up a cached AI menu for a week + preference hash
func (db *DB) GetCachedMenu(ctx context.Context, weekStartDate, preferencesHash string) (*models.AIMenuCache, error) {
	entry := &models.AIMenuCache{}
	var weekStart time.Time
	err := db.Pool.QueryRow(ctx, `
		SELECT id, plan_id, week_start_date, preferences_hash, menu_json, created_at
		FROM ai_menu_cache
		WHERE week_start_date = $1::date AND preferences_hash = $2
	`, weekStartDate, preferencesHash).Scan(
		&entry.ID, &entry.PlanID, &weekStart, &entry.PreferencesHash, &entry.MenuJSON, &entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	entry.WeekStartDate = weekStart.Format(dateFormat)
	return entry, nil
}

// CacheMenu stores a generated menu, doing nothing if an entry for the same
// week + hash already exists
func (db *DB) CacheMenu(ctx context.Context, planID int, weekStartDate, preferencesHash, menuJSON string) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO ai_menu_cache (plan_id, week_start_date, preferences_hash, menu_json, created_at)
		VALUES ($1, $2::date, $3, $4, NOW())
		ON CONFLICT ON CONSTRAINT unique_menu_cache DO NOTHING
	`, planID, weekStartDate, preferencesHash, menuJSON)
	return err
}
