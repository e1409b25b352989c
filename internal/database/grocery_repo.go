package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/mealplanner/internal/models"
)

var (
	ErrGroceryListNotFound = errors.New("grocery list not found")
	ErrGroceryItemNotFound = errors.New("grocery item not found")
)

// ListGroceryLists returns all grocery lists, newest first
func (db *DB) ListGroceryLists(ctx context.Context) ([]*models.GroceryListWithItems, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT gl.id, gl.meal_plan_id, gl.name, gl.created_at, gl.updated_at,
		       COALESCE((SELECT COUNT(*) FROM grocery_items WHERE list_id = gl.id), 0) AS item_count
		FROM grocery_lists gl
		ORDER BY gl.created_at DESC, gl.id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []*models.GroceryListWithItems
	for rows.Next() {
		l := &models.GroceryListWithItems{}
		err := rows.Scan(&l.ID, &l.MealPlanID, &l.Name, &l.CreatedAt, &l.UpdatedAt, &l.ItemCount)
		if err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}

	return lists, nil
}

// GetGroceryListByID retrieves a list with all its items
func (db *DB) GetGroceryListByID(ctx context.Context, id int) (*models.GroceryListWithItems, error) {
	list := &models.GroceryListWithItems{}
	err := db.Pool.QueryRow(ctx, `
		SELECT id, meal_plan_id, name, created_at, updated_at
		FROM grocery_lists
		WHERE id = $1
	`, id).Scan(&list.ID, &list.MealPlanID, &list.Name, &list.CreatedAt, &list.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGroceryListNotFound
		}
		return nil, err
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT id, list_id, name, quantity, price, category, meal, purchased, created_at
		FROM grocery_items
		WHERE list_id = $1
		ORDER BY category ASC, name ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list.Items = []models.GroceryItem{}
	for rows.Next() {
		var it models.GroceryItem
		err := rows.Scan(&it.ID, &it.ListID, &it.Name, &it.Quantity, &it.Price, &it.Category, &it.Meal, &it.Purchased, &it.CreatedAt)
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, it)
	}
	list.ItemCount = len(list.Items)

	return list, nil
}

// CreateGroceryList creates a new grocery list
func (db *DB) CreateGroceryList(ctx context.Context, req *models.CreateGroceryListRequest) (*models.GroceryList, error) {
	l := &models.GroceryList{}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO grocery_lists (meal_plan_id, name, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id, meal_plan_id, name, created_at, updated_at
	`, req.MealPlanID, req.Name).Scan(&l.ID, &l.MealPlanID, &l.Name, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// DeleteGroceryList deletes a list and cascades to its items
func (db *DB) DeleteGroceryList(ctx context.Context, id int) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM grocery_lists WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrGroceryListNotFound
	}
	return nil
}

// AddGroceryItem adds an item to a list
func (db *DB) AddGroceryItem(ctx context.Context, listID int, req *models.CreateGroceryItemRequest) (*models.GroceryItem, error) {
	it := &models.GroceryItem{}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO grocery_items (list_id, name, quantity, price, category, meal, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, list_id, name, quantity, price, category, meal, purchased, created_at
	`, listID, req.Name, req.Quantity, req.Price, req.Category, req.Meal).Scan(
		&it.ID, &it.ListID, &it.Name, &it.Quantity, &it.Price, &it.Category, &it.Meal, &it.Purchased, &it.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return it, nil
}

// AddGroceryItems inserts a batch of consolidated items into a list inside
// one transaction
func (db *DB) AddGroceryItems(ctx context.Context, listID int, items []models.ParsedItem) ([]models.GroceryItem, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	created := make([]models.GroceryItem, 0, len(items))
	for _, item := range items {
		var it models.GroceryItem
		err := tx.QueryRow(ctx, `
			INSERT INTO grocery_items (list_id, name, quantity, price, category, meal, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW())
			RETURNING id, list_id, name, quantity, price, category, meal, purchased, created_at
		`, listID, item.Name, item.Qty, item.Price, item.Category, item.Meal).Scan(
			&it.ID, &it.ListID, &it.Name, &it.Quantity, &it.Price, &it.Category, &it.Meal, &it.Purchased, &it.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		created = append(created, it)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateGroceryItem updates an item with enumerated fields only
func (db *DB) UpdateGroceryItem(ctx context.Context, id int, req *models.UpdateGroceryItemRequest) (*models.GroceryItem, error) {
	it := &models.GroceryItem{}
	err := db.Pool.QueryRow(ctx, `
		UPDATE grocery_items
		SET name = COALESCE($2, name),
		    quantity = COALESCE($3, quantity),
		    price = COALESCE($4, price),
		    category = COALESCE($5, category),
		    meal = COALESCE($6, meal),
		    purchased = COALESCE($7, purchased)
		WHERE id = $1
		RETURNING id, list_id, name, quantity, price, category, meal, purchased, created_at
	`, id, req.Name, req.Quantity, req.Price, req.Category, req.Meal, req.Purchased).Scan(
		&it.ID, &it.ListID, &it.Name, &it.Quantity, &it.Price, &it.Category, &it.Meal, &it.Purchased, &it.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGroceryItemNotFound
		}
		return nil, err
	}
	return it, nil
}

// DeleteGroceryItem removes an item from its list
func (db *DB) DeleteGroceryItem(ctx context.Context, id int) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM grocery_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrGroceryItemNotFound
	}
	return nil
}
