package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/mealplanner/internal/database"
	"github.com/foxxcyber/mealplanner/internal/models"
)

// ListPantryItems returns the pantry contents tracked against a plan
func (h *Handler) ListPantryItems(c *fiber.Ctx) error {
	planID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid plan id")
	}

	items, err := h.db.ListPantryItems(c.Context(), planID)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list pantry items")
	}

	return Success(c, items)
}

// CreatePantryItem adds a pantry item under a plan
func (h *Handler) CreatePantryItem(c *fiber.Ctx) error {
	planID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid plan id")
	}

	var req models.CreatePantryItemRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" {
		return Error(c, fiber.StatusBadRequest, "name is required")
	}

	item, err := h.db.CreatePantryItem(c.Context(), planID, &req)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to create pantry item")
	}

	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Data:    item,
	})
}

// UpdatePantryItem updates a pantry item
func (h *Handler) UpdatePantryItem(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("itemId"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid item id")
	}

	var req models.UpdatePantryItemRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	item, err := h.db.UpdatePantryItem(c.Context(), id, &req)
	if err != nil {
		if errors.Is(err, database.ErrPantryItemNotFound) {
			return Error(c, fiber.StatusNotFound, "pantry item not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to update pantry item")
	}

	return Success(c, item)
}

// DeletePantryItem deletes a pantry item
func (h *Handler) DeletePantryItem(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("itemId"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid item id")
	}

	if err := h.db.DeletePantryItem(c.Context(), id); err != nil {
		if errors.Is(err, database.ErrPantryItemNotFound) {
			return Error(c, fiber.StatusNotFound, "pantry item not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to delete pantry item")
	}

	return Success(c, fiber.Map{"deleted": true})
}
