package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/mealplanner/internal/models"
)

func TestConsolidateMergesExactDuplicates(t *testing.T) {
	items := []models.ParsedItem{
		{Name: "eggs", Qty: "3 ea", Price: "2.99", Category: "Dairy"},
		{Name: "Eggs", Qty: "4 ea", Price: "2.99", Category: "Dairy"},
	}

	result := Consolidate(items)

	require.Len(t, result, 1)
	assert.Equal(t, "eggs", result[0].Name)
	assert.Equal(t, "7 ea", result[0].Qty)
}

func TestConsolidateKeepsDistinctIngredients(t *testing.T) {
	items := []models.ParsedItem{
		{Name: "fresh tomatoes", Qty: "2 lb"},
		{Name: "canned tomatoes", Qty: "1 can"},
		{Name: "cherry tomatoes", Qty: "1 pkg"},
	}

	result := Consolidate(items)

	assert.Len(t, result, 3)
}

func TestConsolidateShortNameTypoStaysSeparate(t *testing.T) {
	// One edit in a short name is below the merge threshold
	items := []models.ParsedItem{
		{Name: "tomato", Qty: "2 ea"},
		{Name: "tomatoe", Qty: "3 ea"},
	}

	result := Consolidate(items)

	assert.Len(t, result, 2)
}

func TestConsolidateSpecificUnitBeatsGeneric(t *testing.T) {
	items := []models.ParsedItem{
		{Name: "chicken breast", Qty: "1 ea"},
		{Name: "Chicken Breast", Qty: "2 lb"},
	}

	result := Consolidate(items)

	require.Len(t, result, 1)
	// The specific unit carries its own name and quantity
	assert.Equal(t, "Chicken Breast", result[0].Name)
	assert.Equal(t, "2 lb", result[0].Qty)
}

func TestConsolidateGenericUnitDoesNotOverwriteSpecific(t *testing.T) {
	items := []models.ParsedItem{
		{Name: "chicken breast", Qty: "2 lb"},
		{Name: "Chicken Breast", Qty: "1 ea"},
	}

	result := Consolidate(items)

	require.Len(t, result, 1)
	assert.Equal(t, "2 lb", result[0].Qty)
}

func TestConsolidateDifferentSpecificUnits(t *testing.T) {
	items := []models.ParsedItem{
		{Name: "flour", Qty: "2 cup"},
		{Name: "flour", Qty: "1 lb"},
	}

	result := Consolidate(items)

	require.Len(t, result, 1)
	// No conversion between specific units; first quantity wins
	assert.Equal(t, "2 cup", result[0].Qty)
}

func TestConsolidateMealTagUnion(t *testing.T) {
	items := []models.ParsedItem{
		{Name: "olive oil", Qty: "1 btl", Meal: "dinner"},
		{Name: "olive oil", Qty: "1 btl", Meal: "lunch, Dinner"},
	}

	result := Consolidate(items)

	require.Len(t, result, 1)
	assert.Equal(t, "dinner, lunch", result[0].Meal)
}

func TestConsolidateRealPriceBeatsPlaceholder(t *testing.T) {
	items := []models.ParsedItem{
		{Name: "butter", Qty: "1 ea", Price: PlaceholderPrice},
		{Name: "butter", Qty: "1 ea", Price: "5.49"},
	}

	result := Consolidate(items)

	require.Len(t, result, 1)
	assert.Equal(t, "5.49", result[0].Price)
}

func TestConsolidateRealPriceNotOverwritten(t *testing.T) {
	items := []models.ParsedItem{
		{Name: "butter", Qty: "1 ea", Price: "4.99"},
		{Name: "butter", Qty: "1 ea", Price: "5.49"},
	}

	result := Consolidate(items)

	require.Len(t, result, 1)
	assert.Equal(t, "4.99", result[0].Price)
}

func TestConsolidateCategoryPreference(t *testing.T) {
	items := []models.ParsedItem{
		{Name: "basil", Qty: "1 bunch", Category: DefaultCategory},
		{Name: "basil", Qty: "1 bunch", Category: "Produce"},
	}

	result := Consolidate(items)

	require.Len(t, result, 1)
	assert.Equal(t, "Produce", result[0].Category)
}

func TestConsolidatePreservesOrder(t *testing.T) {
	items := []models.ParsedItem{
		{Name: "milk", Qty: "1 gal"},
		{Name: "bread", Qty: "1 ea"},
		{Name: "milk", Qty: "1 gal"},
		{Name: "apples", Qty: "6 ea"},
	}

	result := Consolidate(items)

	require.Len(t, result, 3)
	assert.Equal(t, "milk", result[0].Name)
	assert.Equal(t, "bread", result[1].Name)
	assert.Equal(t, "apples", result[2].Name)
}

func TestConsolidateIdempotent(t *testing.T) {
	items := []models.ParsedItem{
		{Name: "eggs", Qty: "3 ea", Meal: "breakfast"},
		{Name: "eggs", Qty: "4 ea", Meal: "lunch"},
		{Name: "fresh tomatoes", Qty: "2 lb"},
		{Name: "canned tomatoes", Qty: "1 can"},
	}

	once := Consolidate(items)
	twice := Consolidate(once)

	assert.Equal(t, once, twice)
}

func TestConsolidateEmptyInput(t *testing.T) {
	assert.Empty(t, Consolidate(nil))
	assert.Empty(t, Consolidate([]models.ParsedItem{}))
}
