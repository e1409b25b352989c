package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/mealplanner/internal/database"
	"github.com/foxxcyber/mealplanner/internal/models"
)

// ListPlans returns weekly meal plans, newest week first
func (h *Handler) ListPlans(c *fiber.Ctx) error {
	params := &models.PlanListParams{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}

	// Validate limits
	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = 50
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	plans, total, err := h.db.ListPlans(c.Context(), params)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list plans")
	}

	return SuccessWithMeta(c, plans, total, params.Limit, params.Offset)
}

// GetPlan returns a single plan with its meals
func (h *Handler) GetPlan(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid plan id")
	}

	plan, err := h.db.GetPlanByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrPlanNotFound) {
			return Error(c, fiber.StatusNotFound, "plan not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get plan")
	}

	return Success(c, plan)
}

// CreatePlan creates a new weekly meal plan
func (h *Handler) CreatePlan(c *fiber.Ctx) error {
	var req models.CreatePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" {
		return Error(c, fiber.StatusBadRequest, "name is required")
	}
	if _, err := time.Parse("2006-01-02", req.WeekStartDate); err != nil {
		return Error(c, fiber.StatusBadRequest, "week_start_date must be YYYY-MM-DD")
	}

	plan, err := h.db.CreatePlan(c.Context(), &req)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to create plan")
	}

	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Data:    plan,
	})
}

// UpdatePlan updates a plan's name, start date or preferences
func (h *Handler) UpdatePlan(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid plan id")
	}

	var req models.UpdatePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.WeekStartDate != nil {
		if _, err := time.Parse("2006-01-02", *req.WeekStartDate); err != nil {
			return Error(c, fiber.StatusBadRequest, "week_start_date must be YYYY-MM-DD")
		}
	}

	plan, err := h.db.UpdatePlan(c.Context(), id, &req)
	if err != nil {
		if errors.Is(err, database.ErrPlanNotFound) {
			return Error(c, fiber.StatusNotFound, "plan not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to update plan")
	}

	return Success(c, plan)
}

// DeletePlan deletes a plan and its meals
func (h *Handler) DeletePlan(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid plan id")
	}

	if err := h.db.DeletePlan(c.Context(), id); err != nil {
		if errors.Is(err, database.ErrPlanNotFound) {
			return Error(c, fiber.StatusNotFound, "plan not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to delete plan")
	}

	return Success(c, fiber.Map{"deleted": true})
}

// CreateMeal adds a meal to a plan
func (h *Handler) CreateMeal(c *fiber.Ctx) error {
	planID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid plan id")
	}

	var req models.CreateMealRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.Title == "" {
		return Error(c, fiber.StatusBadRequest, "title is required")
	}
	if req.DayOfWeek == "" || req.MealType == "" {
		return Error(c, fiber.StatusBadRequest, "day_of_week and meal_type are required")
	}

	// Reject meals for plans that do not exist
	if _, err := h.db.GetPlanByID(c.Context(), planID); err != nil {
		if errors.Is(err, database.ErrPlanNotFound) {
			return Error(c, fiber.StatusNotFound, "plan not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get plan")
	}

	meal, err := h.db.CreateMeal(c.Context(), planID, &req)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to create meal")
	}

	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Data:    meal,
	})
}

// UpdateMeal updates an existing meal
func (h *Handler) UpdateMeal(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("mealId"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid meal id")
	}

	var req models.UpdateMealRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	meal, err := h.db.UpdateMeal(c.Context(), id, &req)
	if err != nil {
		if errors.Is(err, database.ErrMealNotFound) {
			return Error(c, fiber.StatusNotFound, "meal not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to update meal")
	}

	return Success(c, meal)
}

// DeleteMeal deletes a meal
func (h *Handler) DeleteMeal(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("mealId"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid meal id")
	}

	if err := h.db.DeleteMeal(c.Context(), id); err != nil {
		if errors.Is(err, database.ErrMealNotFound) {
			return Error(c, fiber.StatusNotFound, "meal not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to delete meal")
	}

	return Success(c, fiber.Map{"deleted": true})
}
