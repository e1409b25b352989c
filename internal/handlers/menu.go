package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/mealplanner/internal/database"
	"github.com/foxxcyber/mealplanner/internal/models"
	"github.com/foxxcyber/mealplanner/internal/services"
)

// GenerateMenu generates a week of meals for a plan. Results are cached by
// week and preference hash, so regenerating with identical inputs does not
// spend tokens.
func (h *Handler) GenerateMenu(c *fiber.Ctx) error {
	planID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid plan id")
	}

	var req models.GenerateMenuRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	plan, err := h.db.GetPlanByID(c.Context(), planID)
	if err != nil {
		if errors.Is(err, database.ErrPlanNotFound) {
			return Error(c, fiber.StatusNotFound, "plan not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get plan")
	}

	preferences := req.Preferences
	if preferences == "" && plan.Preferences != nil {
		preferences = *plan.Preferences
	}
	hash := services.HashPreferences(preferences)

	cached, err := h.db.GetCachedMenu(c.Context(), plan.WeekStartDate, hash)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to check menu cache")
	}
	if cached != nil {
		var menu models.GeneratedMenu
		if err := json.Unmarshal([]byte(cached.MenuJSON), &menu); err == nil {
			return Success(c, models.GenerateMenuResponse{
				Menu:   menu,
				Cached: true,
			})
		}
		// Unreadable cache entry: fall through and regenerate
	}

	menu, usage, genErr := h.ai.GenerateMenu(c.Context(), preferences)

	// Usage is recorded even when generation fails; failed calls still
	// consume tokens.
	if usage.Calls > 0 {
		if err := h.db.RecordAIUsage(c.Context(), usage); err != nil {
			log.Printf("failed to record AI usage: %v", err)
		}
	}

	if genErr != nil {
		if errors.Is(genErr, services.ErrAIDisabled) {
			return Error(c, fiber.StatusServiceUnavailable, "ai generation is not configured")
		}
		return Error(c, fiber.StatusBadGateway, "menu generation failed")
	}

	menuJSON, err := json.Marshal(menu)
	if err == nil {
		if err := h.db.CacheMenu(c.Context(), planID, plan.WeekStartDate, hash, string(menuJSON)); err != nil {
			log.Printf("failed to cache generated menu: %v", err)
		}
	}

	return Success(c, models.GenerateMenuResponse{
		Menu:  *menu,
		Usage: usage,
	})
}

// ApplyMenu writes a generated menu's meals onto a plan
func (h *Handler) ApplyMenu(c *fiber.Ctx) error {
	planID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid plan id")
	}

	var req models.GeneratedMenu
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.Meals) == 0 {
		return Error(c, fiber.StatusBadRequest, "meals are required")
	}

	if _, err := h.db.GetPlanByID(c.Context(), planID); err != nil {
		if errors.Is(err, database.ErrPlanNotFound) {
			return Error(c, fiber.StatusNotFound, "plan not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get plan")
	}

	created := make([]*models.Meal, 0, len(req.Meals))
	for _, gm := range req.Meals {
		if gm.Title == "" || gm.DayOfWeek == "" || gm.MealType == "" {
			continue
		}
		description := gm.Description
		ingredients := gm.Ingredients
		meal, err := h.db.CreateMeal(c.Context(), planID, &models.CreateMealRequest{
			DayOfWeek:   gm.DayOfWeek,
			MealType:    gm.MealType,
			Title:       gm.Title,
			Description: &description,
			Ingredients: &ingredients,
		})
		if err != nil {
			return Error(c, fiber.StatusInternalServerError, "failed to create meal")
		}
		created = append(created, meal)
	}

	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Data:    created,
	})
}

// GenerateMealAlternative replaces a planned meal with an AI-suggested
// alternative and records the swap in history
func (h *Handler) GenerateMealAlternative(c *fiber.Ctx) error {
	mealID, err := strconv.Atoi(c.Params("mealId"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid meal id")
	}

	var req models.GenerateMenuRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	meal, err := h.db.GetMealByID(c.Context(), mealID)
	if err != nil {
		if errors.Is(err, database.ErrMealNotFound) {
			return Error(c, fiber.StatusNotFound, "meal not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get meal")
	}

	alt, usage, genErr := h.ai.GenerateAlternative(c.Context(), meal.Title, req.Preferences)

	if usage.Calls > 0 {
		if err := h.db.RecordAIUsage(c.Context(), usage); err != nil {
			log.Printf("failed to record AI usage: %v", err)
		}
	}

	if genErr != nil {
		if errors.Is(genErr, services.ErrAIDisabled) {
			return Error(c, fiber.StatusServiceUnavailable, "ai generation is not configured")
		}
		return Error(c, fiber.StatusBadGateway, "alternative generation failed")
	}

	updated, err := h.db.UpdateMeal(c.Context(), mealID, &models.UpdateMealRequest{
		Title:       &alt.Title,
		Description: &alt.Description,
		Ingredients: &alt.Ingredients,
	})
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to update meal")
	}

	history, err := h.db.RecordMealAlternative(c.Context(), mealID, meal.Title, alt.Title)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to record alternative")
	}

	return Success(c, fiber.Map{
		"meal":    updated,
		"history": history,
		"usage":   usage,
	})
}
