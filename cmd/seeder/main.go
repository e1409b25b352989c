package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"github.com/foxxcyber/mealplanner/internal/config"
	"github.com/foxxcyber/mealplanner/internal/database"
)

// MealData holds one banked meal row parsed from CSV
type MealData struct {
	Title       string
	DayOfWeek   string
	MealType    string
	Description string
	Ingredients string
}

func main() {
	// Command line flags
	dryRun := flag.Bool("dry-run", false, "Preview changes without writing to database")
	mealTypeFilter := flag.String("meal-type", "", "Only import meals of this type (e.g., 'dinner')")
	localFile := flag.String("file", "", "Local CSV file to import")
	sourceURL := flag.String("url", "", "Download CSV from this URL instead of a local file")
	flag.Parse()

	// Load .env
	godotenv.Load()

	// Load config
	cfg := config.Load()

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Starting banked meal import...")

	// Get CSV data
	var reader io.Reader
	switch {
	case *localFile != "":
		file, err := os.Open(*localFile)
		if err != nil {
			log.Fatalf("Failed to open local file: %v", err)
		}
		defer file.Close()
		reader = file
		log.Printf("Reading from local file: %s", *localFile)
	case *sourceURL != "":
		log.Printf("Downloading meal data from: %s", *sourceURL)
		resp, err := http.Get(*sourceURL)
		if err != nil {
			log.Fatalf("Failed to download meal data: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			log.Fatalf("Failed to download: HTTP %d", resp.StatusCode)
		}
		reader = resp.Body
	default:
		log.Fatal("Either -file or -url is required")
	}

	// Parse CSV and dedupe
	meals, err := parseMealData(reader, *mealTypeFilter)
	if err != nil {
		log.Fatalf("Failed to parse meal data: %v", err)
	}

	log.Printf("Found %d meals to import", len(meals))

	if *dryRun {
		log.Println("DRY RUN - No changes will be made")
		printPreview(meals, 20)
		return
	}

	// Import to database
	imported, skipped, err := importMeals(db, meals)
	if err != nil {
		log.Fatalf("Failed to import meals: %v", err)
	}

	log.Printf("Import complete: %d new meals, %d already present", imported, skipped)
}

// parseMealData reads CSV and dedupes rows by title + day of week.
// Expected columns: title,day_of_week,meal_type,description,ingredients
// (ingredients uses '|' as a line separator).
func parseMealData(reader io.Reader, mealTypeFilter string) ([]MealData, error) {
	csvReader := csv.NewReader(bufio.NewReader(reader))

	// Read header
	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	// Find column indices
	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}

	titleCol, ok := colMap["title"]
	if !ok {
		return nil, fmt.Errorf("CSV is missing required column 'title'")
	}
	dayCol := colMap["day_of_week"]
	typeCol := colMap["meal_type"]
	descCol, hasDesc := colMap["description"]
	ingCol, hasIng := colMap["ingredients"]

	get := func(record []string, col int) string {
		if col < len(record) {
			return strings.TrimSpace(record[col])
		}
		return ""
	}

	mealMap := make(map[string]*MealData)
	rowCount := 0

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("Warning: skipping malformed row: %v", err)
			continue
		}

		rowCount++

		title := get(record, titleCol)
		dayOfWeek := get(record, dayCol)
		mealType := strings.ToLower(get(record, typeCol))

		// Skip empty entries
		if title == "" || dayOfWeek == "" || mealType == "" {
			continue
		}

		// Apply meal type filter if specified
		if mealTypeFilter != "" && mealType != strings.ToLower(mealTypeFilter) {
			continue
		}

		meal := &MealData{
			Title:     title,
			DayOfWeek: dayOfWeek,
			MealType:  mealType,
		}
		if hasDesc {
			meal.Description = get(record, descCol)
		}
		if hasIng {
			meal.Ingredients = strings.ReplaceAll(get(record, ingCol), "|", "\n")
		}

		// First row wins for a given title + day
		key := fmt.Sprintf("%s|%s", strings.ToLower(title), strings.ToLower(dayOfWeek))
		if _, ok := mealMap[key]; !ok {
			mealMap[key] = meal
		}
	}

	log.Printf("Processed %d rows", rowCount)

	// Convert map to slice, sorted by type then title
	var meals []MealData
	for _, meal := range mealMap {
		meals = append(meals, *meal)
	}
	sort.Slice(meals, func(i, j int) bool {
		if meals[i].MealType != meals[j].MealType {
			return meals[i].MealType < meals[j].MealType
		}
		return meals[i].Title < meals[j].Title
	})

	return meals, nil
}

// importMeals imports meals to the banked_meals table using batched transactions
func importMeals(db *database.DB, meals []MealData) (imported, skipped int, err error) {
	ctx := context.Background()
	batchSize := 500 // Commit every 500 meals to avoid long transactions

	for i := 0; i < len(meals); i += batchSize {
		end := i + batchSize
		if end > len(meals) {
			end = len(meals)
		}
		batch := meals[i:end]

		batchImported, batchSkipped, err := importBatch(ctx, db, batch)
		if err != nil {
			return imported, skipped, err
		}
		imported += batchImported
		skipped += batchSkipped

		log.Printf("Progress: %d/%d meals processed (%d new, %d skipped)",
			end, len(meals), imported, skipped)
	}

	return imported, skipped, nil
}

// importBatch imports a batch of meals in a single transaction
func importBatch(ctx context.Context, db *database.DB, meals []MealData) (imported, skipped int, err error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, meal := range meals {
		// Check if this meal is already banked
		var existingID int
		err := tx.QueryRow(ctx, `
			SELECT id FROM banked_meals
			WHERE LOWER(title) = LOWER($1) AND LOWER(day_of_week) = LOWER($2)
		`, meal.Title, meal.DayOfWeek).Scan(&existingID)

		if err == pgx.ErrNoRows {
			var description, ingredients *string
			if meal.Description != "" {
				description = &meal.Description
			}
			if meal.Ingredients != "" {
				ingredients = &meal.Ingredients
			}

			_, err = tx.Exec(ctx, `
				INSERT INTO banked_meals (title, day_of_week, meal_type, description, ingredients, created_at)
				VALUES ($1, $2, $3, $4, $5, NOW())
			`, meal.Title, meal.DayOfWeek, meal.MealType, description, ingredients)
			if err != nil {
				return imported, skipped, fmt.Errorf("failed to insert %q: %w", meal.Title, err)
			}
			imported++
		} else if err != nil {
			return imported, skipped, fmt.Errorf("failed to check existing %q: %w", meal.Title, err)
		} else {
			skipped++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return imported, skipped, nil
}

// printPreview shows a sample of the data to be imported
func printPreview(meals []MealData, limit int) {
	fmt.Println("\n=== Preview of meals to import ===")
	fmt.Printf("Total: %d meals\n\n", len(meals))

	// Group by meal type for summary
	typeCount := make(map[string]int)
	for _, meal := range meals {
		typeCount[meal.MealType]++
	}

	fmt.Println("Meals per type:")
	types := make([]string, 0, len(typeCount))
	for t := range typeCount {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Printf("  %s: %d meals\n", t, typeCount[t])
	}

	fmt.Printf("\nSample meals (first %d):\n", limit)
	for i, meal := range meals {
		if i >= limit {
			break
		}
		fmt.Printf("  %s (%s, %s)\n", meal.Title, meal.DayOfWeek, meal.MealType)
	}
}
