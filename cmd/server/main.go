package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/foxxcyber/mealplanner/internal/config"
	"github.com/foxxcyber/mealplanner/internal/database"
	"github.com/foxxcyber/mealplanner/internal/handlers"
	"github.com/foxxcyber/mealplanner/internal/middleware"
	"github.com/foxxcyber/mealplanner/internal/services"
)

func main() {
	// Load .env file if it exists
	godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create admin user if it doesn't exist
	if err := database.EnsureAdminUser(db, cfg); err != nil {
		log.Printf("Warning: Could not ensure admin user: %v", err)
	}

	// Initialize export archive storage if configured
	var archive *services.ArchiveService
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		archive, err = services.NewArchiveService(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3Region, cfg.S3UseSSL)
		if err != nil {
			log.Printf("Warning: Failed to initialize archive storage: %v", err)
			archive = nil
		} else if err := archive.EnsureBucket(context.Background()); err != nil {
			log.Printf("Warning: Failed to ensure archive bucket exists: %v", err)
		} else {
			log.Println("Export archive storage initialized")
		}
	} else {
		log.Println("Export archive storage not configured, archive endpoints disabled")
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Create handler with dependencies
	h := handlers.New(db, cfg, archive)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// API routes
	api := app.Group("/api")

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.Post("/login", h.Login)
	auth.Get("/me", middleware.AuthRequired(cfg), h.GetCurrentUser)

	// Weekly meal plan routes (authenticated)
	plans := api.Group("/plans", middleware.AuthRequired(cfg))
	plans.Get("/", h.ListPlans)
	plans.Post("/", h.CreatePlan)
	plans.Get("/:id", h.GetPlan)
	plans.Put("/:id", h.UpdatePlan)
	plans.Delete("/:id", h.DeletePlan)
	plans.Post("/:id/meals", h.CreateMeal)
	plans.Post("/:id/generate-list", h.GenerateListFromPlan)
	plans.Post("/:id/generate-menu", h.GenerateMenu)
	plans.Post("/:id/apply-menu", h.ApplyMenu)

	// Pantry routes nested under a plan
	plans.Get("/:id/pantry", h.ListPantryItems)
	plans.Post("/:id/pantry", h.CreatePantryItem)

	// Meal routes (authenticated)
	meals := api.Group("/meals", middleware.AuthRequired(cfg))
	meals.Put("/:mealId", h.UpdateMeal)
	meals.Delete("/:mealId", h.DeleteMeal)
	meals.Post("/:mealId/alternative", h.GenerateMealAlternative)

	// Pantry item routes (authenticated)
	pantry := api.Group("/pantry", middleware.AuthRequired(cfg))
	pantry.Put("/:itemId", h.UpdatePantryItem)
	pantry.Delete("/:itemId", h.DeletePantryItem)

	// Grocery list routes (authenticated)
	grocery := api.Group("/grocery-lists", middleware.AuthRequired(cfg))
	grocery.Get("/", h.ListGroceryLists)
	grocery.Post("/", h.CreateGroceryList)
	grocery.Get("/:id", h.GetGroceryList)
	grocery.Delete("/:id", h.DeleteGroceryList)
	grocery.Post("/:id/items", h.AddGroceryItem)
	grocery.Put("/items/:itemId", h.UpdateGroceryItem)
	grocery.Delete("/items/:itemId", h.DeleteGroceryItem)

	// Parse and consolidate routes (authenticated)
	api.Post("/grocery/parse", middleware.AuthRequired(cfg), h.ParseGroceryText)
	api.Post("/grocery/consolidate", middleware.AuthRequired(cfg), h.ConsolidateItems)

	// Banked meal routes (authenticated)
	banked := api.Group("/banked-meals", middleware.AuthRequired(cfg))
	banked.Get("/", h.ListBankedMeals)
	banked.Post("/", h.CreateBankedMeal)
	banked.Delete("/:id", h.DeleteBankedMeal)

	// Stats routes (authenticated)
	stats := api.Group("/stats", middleware.AuthRequired(cfg))
	stats.Get("/spending", h.GetSpendingSummary)
	stats.Get("/ai-usage", h.GetAIUsageStats)

	// Export/import routes (admin only)
	data := api.Group("/data", middleware.AuthRequired(cfg), middleware.AdminRequired())
	data.Get("/export", h.ExportData)
	data.Post("/import", h.ImportData)
	data.Post("/import/preview", h.PreviewImport)
	data.Post("/archives", h.ArchiveExport)
	data.Get("/archives", h.ListExportArchives)
	data.Get("/archives/download", h.GetArchiveDownloadURL)
	data.Post("/archives/import", h.ImportFromArchive)
	data.Delete("/archives", h.DeleteExportArchive)

	// Static files - serve the web/ directory
	app.Static("/", "./web", fiber.Static{
		Index:  "index.html",
		Browse: false,
	})

	// Fallback for SPA-style routing - serve index.html for unmatched routes
	app.Get("/*", func(c *fiber.Ctx) error {
		return c.SendFile("./web/index.html")
	})

	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
