package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/mealplanner/internal/database"
	"github.com/foxxcyber/mealplanner/internal/models"
)

// ListBankedMeals returns all saved reusable meals
func (h *Handler) ListBankedMeals(c *fiber.Ctx) error {
	meals, err := h.db.ListBankedMeals(c.Context())
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list banked meals")
	}

	return Success(c, meals)
}

// CreateBankedMeal saves a meal to the bank for reuse across plans
func (h *Handler) CreateBankedMeal(c *fiber.Ctx) error {
	var req models.CreateBankedMealRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Title == "" {
		return Error(c, fiber.StatusBadRequest, "title is required")
	}

	meal, err := h.db.CreateBankedMeal(c.Context(), &req)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to create banked meal")
	}

	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Data:    meal,
	})
}

// DeleteBankedMeal removes a meal from the bank
func (h *Handler) DeleteBankedMeal(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid meal id")
	}

	if err := h.db.DeleteBankedMeal(c.Context(), id); err != nil {
		if errors.Is(err, database.ErrBankedMealNotFound) {
			return Error(c, fiber.StatusNotFound, "banked meal not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to delete banked meal")
	}

	return Success(c, fiber.Map{"deleted": true})
}
