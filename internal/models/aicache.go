package models

import (
	"time"
)

// AIMenuCache stores a generated menu keyed by week and preference hash so
// repeated generations for the same inputs skip the API call
type AIMenuCache struct {
	ID              int       `json:"id"`
	PlanID          int       `json:"plan_id"`
	WeekStartDate   string    `json:"week_start_date"`
	PreferencesHash string    `json:"preferences_hash"`
	MenuJSON        string    `json:"menu_json"`
	CreatedAt       time.Time `json:"created_at"`
}

// AIUsage accumulates token counts for a single generation call. Returned by
// the client and threaded by the caller into a persisted usage row; there is
// no process-wide counter state.
type AIUsage struct {
	Calls            int `json:"calls"`
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add folds another usage sample into the accumulator
func (u *AIUsage) Add(other AIUsage) {
	u.Calls += other.Calls
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// GenerateMenuRequest asks for an AI-generated week of meals
type GenerateMenuRequest struct {
	Preferences string `json:"preferences"`
}

// GeneratedMeal is one meal from an AI menu response
type GeneratedMeal struct {
	DayOfWeek   string `json:"day_of_week"`
	MealType    string `json:"meal_type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Ingredients string `json:"ingredients"`
}

// GeneratedMenu is the parsed AI menu payload
type GeneratedMenu struct {
	Meals []GeneratedMeal `json:"meals"`
}

// GenerateMenuResponse is the API response
type GenerateMenuResponse struct {
	Menu   GeneratedMenu `json:"menu"`
	Cached bool          `json:"cached"`
	Usage  AIUsage       `json:"usage"`
}
