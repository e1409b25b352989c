package models

import (
	"time"
)

// GroceryList represents a shopping list, optionally derived from a plan
type GroceryList struct {
	ID         int       `json:"id"`
	MealPlanID *int      `json:"meal_plan_id,omitempty"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// GroceryItem represents a single line on a grocery list
type GroceryItem struct {
	ID        int       `json:"id"`
	ListID    int       `json:"list_id"`
	Name      string    `json:"name"`
	Quantity  string    `json:"quantity"` // free-form quantity+unit text, e.g. "2 lb"
	Price     string    `json:"price"`    // currency-formatted text
	Category  string    `json:"category"`
	Meal      string    `json:"meal"` // comma-joined meal tags
	Purchased bool      `json:"purchased"`
	CreatedAt time.Time `json:"created_at"`
}

// GroceryListWithItems includes the list and all its items
type GroceryListWithItems struct {
	GroceryList
	Items     []GroceryItem `json:"items"`
	ItemCount int           `json:"item_count"`
}

// CreateGroceryListRequest creates a new grocery list
type CreateGroceryListRequest struct {
	Name       string `json:"name"`
	MealPlanID *int   `json:"meal_plan_id,omitempty"`
}

// CreateGroceryItemRequest adds an item to a list
type CreateGroceryItemRequest struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
	Category string `json:"category"`
	Meal     string `json:"meal"`
}

// UpdateGroceryItemRequest updates an existing item. Enumerated fields only;
// nil means leave unchanged.
type UpdateGroceryItemRequest struct {
	Name      *string `json:"name,omitempty"`
	Quantity  *string `json:"quantity,omitempty"`
	Price     *string `json:"price,omitempty"`
	Category  *string `json:"category,omitempty"`
	Meal      *string `json:"meal,omitempty"`
	Purchased *bool   `json:"purchased,omitempty"`
}

// ParsedItem is an ephemeral grocery line item produced by text parsing and
// consumed by the consolidation engine. It has no identity; equality is by
// name similarity, never by reference.
type ParsedItem struct {
	Name     string `json:"name"`
	Qty      string `json:"qty"`
	Price    string `json:"price"`
	Category string `json:"category"`
	Meal     string `json:"meal"`
}

// Quantity is a parsed amount + normalized short-form unit
type Quantity struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// ConsolidateRequest is the API request body for ad-hoc consolidation
type ConsolidateRequest struct {
	Items []ParsedItem `json:"items"`
}

// ConsolidateResponse is the API response
type ConsolidateResponse struct {
	Items      []ParsedItem `json:"items"`
	InputCount int          `json:"input_count"`
	Merged     int          `json:"merged"`
}
