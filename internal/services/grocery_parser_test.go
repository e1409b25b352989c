package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFullLine(t *testing.T) {
	p := NewGroceryParser()

	items := p.Parse("- [ ] 2 lb chicken breast - $5.99 [Meat] (dinner)")

	require.Len(t, items, 1)
	assert.Equal(t, "chicken breast", items[0].Name)
	assert.Equal(t, "2 lb", items[0].Qty)
	assert.Equal(t, "5.99", items[0].Price)
	assert.Equal(t, "Meat", items[0].Category)
	assert.Equal(t, "dinner", items[0].Meal)
}

func TestParseBareNameGetsDefaults(t *testing.T) {
	p := NewGroceryParser()

	items := p.Parse("eggs")

	require.Len(t, items, 1)
	assert.Equal(t, "eggs", items[0].Name)
	assert.Equal(t, "1 ea", items[0].Qty)
	assert.Equal(t, PlaceholderPrice, items[0].Price)
	assert.Equal(t, DefaultCategory, items[0].Category)
	assert.Empty(t, items[0].Meal)
}

func TestParseQuantityWithoutUnit(t *testing.T) {
	p := NewGroceryParser()

	items := p.Parse("3 apples")

	require.Len(t, items, 1)
	assert.Equal(t, "apples", items[0].Name)
	assert.Equal(t, "3 ea", items[0].Qty)
}

func TestParseNonUnitWordStaysInName(t *testing.T) {
	p := NewGroceryParser()

	items := p.Parse("2 green peppers")

	require.Len(t, items, 1)
	assert.Equal(t, "green peppers", items[0].Name)
	assert.Equal(t, "2 ea", items[0].Qty)
}

func TestParseBulletAndCheckboxForms(t *testing.T) {
	p := NewGroceryParser()

	items := p.Parse("- [x] milk\n* bread\n- butter")

	require.Len(t, items, 3)
	assert.Equal(t, "milk", items[0].Name)
	assert.Equal(t, "bread", items[1].Name)
	assert.Equal(t, "butter", items[2].Name)
}

func TestParseMultipleMealTags(t *testing.T) {
	p := NewGroceryParser()

	items := p.Parse("rice (lunch, dinner, Lunch)")

	require.Len(t, items, 1)
	assert.Equal(t, "rice", items[0].Name)
	assert.Equal(t, "lunch, dinner", items[0].Meal)
}

func TestParseSkipsEmptyLines(t *testing.T) {
	p := NewGroceryParser()

	items := p.Parse("milk\n\n\n  \neggs\n")

	assert.Len(t, items, 2)
}

func TestParseNormalizesUnitSpelling(t *testing.T) {
	p := NewGroceryParser()

	items := p.Parse("1.5 pounds ground beef")

	require.Len(t, items, 1)
	assert.Equal(t, "ground beef", items[0].Name)
	assert.Equal(t, "1.5 lb", items[0].Qty)
}

func TestParseIntoConsolidation(t *testing.T) {
	p := NewGroceryParser()

	items := p.Parse("- [ ] 2 ea onions (dinner)\n- [ ] 3 ea onions (lunch)")
	result := Consolidate(items)

	require.Len(t, result, 1)
	assert.Equal(t, "onions", result[0].Name)
	assert.Equal(t, "5 ea", result[0].Qty)
	assert.Equal(t, "dinner, lunch", result[0].Meal)
}
