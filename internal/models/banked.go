package models

import (
	"time"
)

// BankedMeal is a reusable meal saved outside any particular plan week
type BankedMeal struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	DayOfWeek   string    `json:"day_of_week"`
	MealType    string    `json:"meal_type"`
	Description *string   `json:"description,omitempty"`
	Ingredients *string   `json:"ingredients,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// MealAlternativeHistory records an AI-suggested swap for a planned meal
type MealAlternativeHistory struct {
	ID               int       `json:"id"`
	MealID           int       `json:"meal_id"`
	OriginalTitle    string    `json:"original_title"`
	AlternativeTitle string    `json:"alternative_title"`
	CreatedAt        time.Time `json:"created_at"`
}

// CreateBankedMealRequest saves a meal to the bank
type CreateBankedMealRequest struct {
	Title       string  `json:"title"`
	DayOfWeek   string  `json:"day_of_week"`
	MealType    string  `json:"meal_type"`
	Description *string `json:"description,omitempty"`
	Ingredients *string `json:"ingredients,omitempty"`
}
