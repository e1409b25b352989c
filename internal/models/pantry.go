package models

import (
	"time"
)

// PantryItem represents an item currently in stock for a plan week
type PantryItem struct {
	ID        int       `json:"id"`
	PlanID    int       `json:"plan_id"`
	Name      string    `json:"name"`
	Quantity  string    `json:"quantity"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// CreatePantryItemRequest adds a pantry item to a plan
type CreatePantryItemRequest struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Category string `json:"category"`
}

// UpdatePantryItemRequest updates an existing pantry item
type UpdatePantryItemRequest struct {
	Name     *string `json:"name,omitempty"`
	Quantity *string `json:"quantity,omitempty"`
	Category *string `json:"category,omitempty"`
}
