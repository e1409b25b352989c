package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/mealplanner/internal/database"
	"github.com/foxxcyber/mealplanner/internal/models"
	"github.com/foxxcyber/mealplanner/internal/services"
)

// ListGroceryLists returns all grocery lists with item counts
func (h *Handler) ListGroceryLists(c *fiber.Ctx) error {
	lists, err := h.db.ListGroceryLists(c.Context())
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list grocery lists")
	}

	return Success(c, lists)
}

// GetGroceryList returns a single list with its items
func (h *Handler) GetGroceryList(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid list id")
	}

	list, err := h.db.GetGroceryListByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrGroceryListNotFound) {
			return Error(c, fiber.StatusNotFound, "grocery list not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get grocery list")
	}

	return Success(c, list)
}

// CreateGroceryList creates a new empty grocery list
func (h *Handler) CreateGroceryList(c *fiber.Ctx) error {
	var req models.CreateGroceryListRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" {
		return Error(c, fiber.StatusBadRequest, "name is required")
	}

	list, err := h.db.CreateGroceryList(c.Context(), &req)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to create grocery list")
	}

	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Data:    list,
	})
}

// DeleteGroceryList deletes a list and its items
func (h *Handler) DeleteGroceryList(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid list id")
	}

	if err := h.db.DeleteGroceryList(c.Context(), id); err != nil {
		if errors.Is(err, database.ErrGroceryListNotFound) {
			return Error(c, fiber.StatusNotFound, "grocery list not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to delete grocery list")
	}

	return Success(c, fiber.Map{"deleted": true})
}

// AddGroceryItem adds a single item to a list
func (h *Handler) AddGroceryItem(c *fiber.Ctx) error {
	listID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid list id")
	}

	var req models.CreateGroceryItemRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" {
		return Error(c, fiber.StatusBadRequest, "name is required")
	}

	item, err := h.db.AddGroceryItem(c.Context(), listID, &req)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to add item")
	}

	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Data:    item,
	})
}

// UpdateGroceryItem updates an item, including its purchased flag
func (h *Handler) UpdateGroceryItem(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("itemId"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid item id")
	}

	var req models.UpdateGroceryItemRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	item, err := h.db.UpdateGroceryItem(c.Context(), id, &req)
	if err != nil {
		if errors.Is(err, database.ErrGroceryItemNotFound) {
			return Error(c, fiber.StatusNotFound, "item not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to update item")
	}

	return Success(c, item)
}

// DeleteGroceryItem deletes an item from a list
func (h *Handler) DeleteGroceryItem(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("itemId"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid item id")
	}

	if err := h.db.DeleteGroceryItem(c.Context(), id); err != nil {
		if errors.Is(err, database.ErrGroceryItemNotFound) {
			return Error(c, fiber.StatusNotFound, "item not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to delete item")
	}

	return Success(c, fiber.Map{"deleted": true})
}

// ConsolidateItems merges near-duplicate items without touching the store.
// The client sends parsed items and gets back the consolidated set.
func (h *Handler) ConsolidateItems(c *fiber.Ctx) error {
	var req models.ConsolidateRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	consolidated := services.Consolidate(req.Items)

	return Success(c, models.ConsolidateResponse{
		Items:      consolidated,
		InputCount: len(req.Items),
		Merged:     len(req.Items) - len(consolidated),
	})
}

// ParseGroceryText parses free-form grocery text into structured items
func (h *Handler) ParseGroceryText(c *fiber.Ctx) error {
	var req struct {
		Content     string `json:"content"`
		Consolidate bool   `json:"consolidate"`
	}
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if strings.TrimSpace(req.Content) == "" {
		return Error(c, fiber.StatusBadRequest, "content is required")
	}

	items := h.parser.Parse(req.Content)
	if req.Consolidate {
		items = services.Consolidate(items)
	}

	return Success(c, fiber.Map{
		"items": items,
		"count": len(items),
	})
}

// GenerateListFromPlan builds a consolidated grocery list from every meal's
// ingredient lines in a plan
func (h *Handler) GenerateListFromPlan(c *fiber.Ctx) error {
	planID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid plan id")
	}

	plan, err := h.db.GetPlanByID(c.Context(), planID)
	if err != nil {
		if errors.Is(err, database.ErrPlanNotFound) {
			return Error(c, fiber.StatusNotFound, "plan not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get plan")
	}

	var parsed []models.ParsedItem
	for _, meal := range plan.Meals {
		if meal.Ingredients == nil {
			continue
		}
		items := h.parser.Parse(*meal.Ingredients)
		for i := range items {
			if items[i].Meal == "" {
				items[i].Meal = meal.Title
			}
		}
		parsed = append(parsed, items...)
	}

	consolidated := services.Consolidate(parsed)

	list, err := h.db.CreateGroceryList(c.Context(), &models.CreateGroceryListRequest{
		Name:       plan.Name + " groceries",
		MealPlanID: &planID,
	})
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to create grocery list")
	}

	items, err := h.db.AddGroceryItems(c.Context(), list.ID, consolidated)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to add items")
	}

	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Data: fiber.Map{
			"list":  list,
			"items": items,
		},
	})
}
