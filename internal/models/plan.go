package models

import (
	"time"
)

// WeeklyMealPlan represents one week of planned meals
type WeeklyMealPlan struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	WeekStartDate string    `json:"week_start_date"` // YYYY-MM-DD
	Preferences   *string   `json:"preferences,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Meal represents a single planned meal within a weekly plan
type Meal struct {
	ID          int       `json:"id"`
	PlanID      int       `json:"plan_id"`
	DayOfWeek   string    `json:"day_of_week"`
	MealType    string    `json:"meal_type"` // breakfast, lunch, dinner, snack
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Ingredients *string   `json:"ingredients,omitempty"` // newline-separated raw ingredient lines
	CreatedAt   time.Time `json:"created_at"`
}

// CreatePlanRequest creates a new weekly meal plan
type CreatePlanRequest struct {
	Name          string  `json:"name"`
	WeekStartDate string  `json:"week_start_date"`
	Preferences   *string `json:"preferences,omitempty"`
}

// UpdatePlanRequest updates an existing plan. Only the listed fields are
// updatable; nil means leave unchanged.
type UpdatePlanRequest struct {
	Name          *string `json:"name,omitempty"`
	WeekStartDate *string `json:"week_start_date,omitempty"`
	Preferences   *string `json:"preferences,omitempty"`
}

// CreateMealRequest adds a meal to a plan
type CreateMealRequest struct {
	DayOfWeek   string  `json:"day_of_week"`
	MealType    string  `json:"meal_type"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Ingredients *string `json:"ingredients,omitempty"`
}

// UpdateMealRequest updates an existing meal
type UpdateMealRequest struct {
	DayOfWeek   *string `json:"day_of_week,omitempty"`
	MealType    *string `json:"meal_type,omitempty"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Ingredients *string `json:"ingredients,omitempty"`
}

// PlanWithMeals includes the plan and all its meals
type PlanWithMeals struct {
	WeeklyMealPlan
	Meals []Meal `json:"meals"`
}

// PlanListParams contains parameters for listing plans
type PlanListParams struct {
	Limit  int
	Offset int
}
