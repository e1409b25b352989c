package models

import (
	"time"
)

// CategorySpend aggregates purchased grocery spend by category
type CategorySpend struct {
	Category  string  `json:"category"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"item_count"`
}

// WeeklySpend aggregates purchased grocery spend by plan week
type WeeklySpend struct {
	WeekStart string  `json:"week_start"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"item_count"`
}

// SpendingSummary represents purchase analytics across all lists
type SpendingSummary struct {
	Categories    []CategorySpend `json:"categories"`
	Weeks         []WeeklySpend   `json:"weeks"`
	GrandTotal    float64         `json:"grand_total"`
	PurchaseCount int             `json:"purchase_count"`
}

// AIUsageStats is a persisted daily rollup of AI token consumption
type AIUsageStats struct {
	ID               int       `json:"id"`
	Day              string    `json:"day"` // YYYY-MM-DD
	Calls            int       `json:"calls"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	TotalTokens      int       `json:"total_tokens"`
	UpdatedAt        time.Time `json:"updated_at"`
}
