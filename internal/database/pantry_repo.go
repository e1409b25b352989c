package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/mealplanner/internal/models"
)

var ErrPantryItemNotFound = errors.New("pantry item not found")

// ListPantryItems returns all pantry items for a plan
func (db *DB) ListPantryItems(ctx context.Context, planID int) ([]*models.PantryItem, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, plan_id, name, quantity, category, created_at
		FROM pantry_items
		WHERE plan_id = $1
		ORDER BY category ASC, name ASC
	`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.PantryItem
	for rows.Next() {
		it := &models.PantryItem{}
		err := rows.Scan(&it.ID, &it.PlanID, &it.Name, &it.Quantity, &it.Category, &it.CreatedAt)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}

	return items, nil
}

// CreatePantryItem adds a pantry item to a plan
func (db *DB) CreatePantryItem(ctx context.Context, planID int, req *models.CreatePantryItemRequest) (*models.PantryItem, error) {
	it := &models.PantryItem{}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO pantry_items (plan_id, name, quantity, category, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, plan_id, name, quantity, category, created_at
	`, planID, req.Name, req.Quantity, req.Category).Scan(
		&it.ID, &it.PlanID, &it.Name, &it.Quantity, &it.Category, &it.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return it, nil
}

// UpdatePantryItem updates an item with enumerated fields only
func (db *DB) UpdatePantryItem(ctx context.Context, id int, req *models.UpdatePantryItemRequest) (*models.PantryItem, error) {
	it := &models.PantryItem{}
	err := db.Pool.QueryRow(ctx, `
		UPDATE pantry_items
		SET name = COALESCE($2, name),
		    quantity = COALESCE($3, quantity),
		    category = COALESCE($4, category)
		WHERE id = $1
		RETURNING id, plan_id, name, quantity, category, created_at
	`, id, req.Name, req.Quantity, req.Category).Scan(
		&it.ID, &it.PlanID, &it.Name, &it.Quantity, &it.Category, &it.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPantryItemNotFound
		}
		return nil, err
	}
	return it, nil
}

// DeletePantryItem removes a pantry item
func (db *DB) DeletePantryItem(ctx context.Context, id int) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM pantry_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPantryItemNotFound
	}
	return nil
}
