package database

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/mealplanner/internal/models"
)

var (
	ErrPlanNotFound = errors.New("weekly meal plan not found")
	ErrMealNotFound = errors.New("meal not found")
)

const dateFormat = "2006-01-02"

// ListPlans returns all weekly meal plans, newest week first
func (db *DB) ListPlans(ctx context.Context, params *models.PlanListParams) ([]*models.WeeklyMealPlan, int, error) {
	var total int
	err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM weekly_meal_plans`).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, week_start_date, preferences, created_at, updated_at
		FROM weekly_meal_plans
		ORDER BY week_start_date DESC, id DESC
		LIMIT $1 OFFSET $2
	`, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var plans []*models.WeeklyMealPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, 0, err
		}
		plans = append(plans, p)
	}

	return plans, total, nil
}

// GetPlanByID retrieves a plan with all its meals
func (db *DB) GetPlanByID(ctx context.Context, id int) (*models.PlanWithMeals, error) {
	row := db.Pool.QueryRow(ctx, `
		SELECT id, name, week_start_date, preferences, created_at, updated_at
		FROM weekly_meal_plans
		WHERE id = $1
	`, id)

	p, err := scanPlan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	plan := &models.PlanWithMeals{WeeklyMealPlan: *p}

	rows, err := db.Pool.Query(ctx, `
		SELECT id, plan_id, day_of_week, meal_type, title, description, ingredients, created_at
		FROM meals
		WHERE plan_id = $1
		ORDER BY id ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plan.Meals = []models.Meal{}
	for rows.Next() {
		var m models.Meal
		err := rows.Scan(&m.ID, &m.PlanID, &m.DayOfWeek, &m.MealType, &m.Title, &m.Description, &m.Ingredients, &m.CreatedAt)
		if err != nil {
			return nil, err
		}
		plan.Meals = append(plan.Meals, m)
	}

	return plan, nil
}

// CreatePlan creates a new weekly meal plan
func (db *DB) CreatePlan(ctx context.Context, req *models.CreatePlanRequest) (*models.WeeklyMealPlan, error) {
	row := db.Pool.QueryRow(ctx, `
		INSERT INTO weekly_meal_plans (name, week_start_date, preferences, created_at, updated_at)
		VALUES ($1, $2::date, $3, NOW(), NOW())
		RETURNING id, name, week_start_date, preferences, created_at, updated_at
	`, req.Name, req.WeekStartDate, req.Preferences)

	return scanPlan(row)
}

// UpdatePlan updates a plan. Every updatable field is enumerated here; there
// is no dynamic SET clause built from request keys.
func (db *DB) UpdatePlan(ctx context.Context, id int, req *models.UpdatePlanRequest) (*models.WeeklyMealPlan, error) {
	row := db.Pool.QueryRow(ctx, `
		UPDATE weekly_meal_plans
		SET name = COALESCE($2, name),
		    week_start_date = COALESCE($3::date, week_start_date),
		    preferences = COALESCE($4, preferences),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, week_start_date, preferences, created_at, updated_at
	`, id, req.Name, req.WeekStartDate, req.Preferences)

	p, err := scanPlan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return p, nil
}

// DeletePlan deletes a plan and cascades to its meals, pantry items and cache
func (db *DB) DeletePlan(ctx context.Context, id int) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM weekly_meal_plans WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPlanNotFound
	}
	return nil
}

// CreateMeal adds a meal to a plan
func (db *DB) CreateMeal(ctx context.Context, planID int, req *models.CreateMealRequest) (*models.Meal, error) {
	m := &models.Meal{}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO meals (plan_id, day_of_week, meal_type, title, description, ingredients, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, plan_id, day_of_week, meal_type, title, description, ingredients, created_at
	`, planID, req.DayOfWeek, req.MealType, req.Title, req.Description, req.Ingredients).Scan(
		&m.ID, &m.PlanID, &m.DayOfWeek, &m.MealType, &m.Title, &m.Description, &m.Ingredients, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// GetMealByID retrieves a single meal
func (db *DB) GetMealByID(ctx context.Context, id int) (*models.Meal, error) {
	m := &models.Meal{}
	err := db.Pool.QueryRow(ctx, `
		SELECT id, plan_id, day_of_week, meal_type, title, description, ingredients, created_at
		FROM meals
		WHERE id = $1
	`, id).Scan(&m.ID, &m.PlanID, &m.DayOfWeek, &m.MealType, &m.Title, &m.Description, &m.Ingredients, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMealNotFound
		}
		return nil, err
	}
	return m, nil
}

// UpdateMeal updates a meal with enumerated fields only
func (db *DB) UpdateMeal(ctx context.Context, id int, req *models.UpdateMealRequest) (*models.Meal, error) {
	m := &models.Meal{}
	err := db.Pool.QueryRow(ctx, `
		UPDATE meals
		SET day_of_week = COALESCE($2, day_of_week),
		    meal_type = COALESCE($3, meal_type),
		    title = COALESCE($4, title),
		    description = COALESCE($5, description),
		    ingredients = COALESCE($6, ingredients)
		WHERE id = $1
		RETURNING id, plan_id, day_of_week, meal_type, title, description, ingredients, created_at
	`, id, req.DayOfWeek, req.MealType, req.Title, req.Description, req.Ingredients).Scan(
		&m.ID, &m.PlanID, &m.DayOfWeek, &m.MealType, &m.Title, &m.Description, &m.Ingredients, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMealNotFound
		}
		return nil, err
	}
	return m, nil
}

// DeleteMeal deletes a meal
func (db *DB) DeleteMeal(ctx context.Context, id int) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM meals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMealNotFound
	}
	return nil
}

// RecordMealAlternative stores a swap in the alternatives history
func (db *DB) RecordMealAlternative(ctx context.Context, mealID int, originalTitle, alternativeTitle string) (*models.MealAlternativeHistory, error) {
	alt := &models.MealAlternativeHistory{}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO meal_alternatives_history (meal_id, original_title, alternative_title, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, meal_id, original_title, alternative_title, created_at
	`, mealID, originalTitle, alternativeTitle).Scan(
		&alt.ID, &alt.MealID, &alt.OriginalTitle, &alt.AlternativeTitle, &alt.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return alt, nil
}

// scanPlan scans a plan row, formatting the week start date
func scanPlan(row pgx.Row) (*models.WeeklyMealPlan, error) {
	p := &models.WeeklyMealPlan{}
	var weekStart time.Time
	err := row.Scan(&p.ID, &p.Name, &weekStart, &p.Preferences, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.WeekStartDate = weekStart.Format(dateFormat)
	return p, nil
}
