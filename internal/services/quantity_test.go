package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/foxxcyber/mealplanner/internal/models"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		input      string
		wantAmount float64
		wantUnit   string
	}{
		{"2 lb", 2, "lb"},
		{"2 lbs", 2, "lb"},
		{"1.5 pounds", 1.5, "lb"},
		{"3 each", 3, "ea"},
		{"3", 3, "ea"},
		{"12 oz", 12, "oz"},
		{"2 cups", 2, "cup"},
		{"1 dozen", 1, "doz"},
		{"", 1, "ea"},
		{"some", 1, "some"},
		{"bunch", 1, "bunch"},
		{"0 lb", 1, "lb"},
	}

	for _, tt := range tests {
		got := ParseQuantity(tt.input)
		assert.Equal(t, tt.wantAmount, got.Amount, "amount of %q", tt.input)
		assert.Equal(t, tt.wantUnit, got.Unit, "unit of %q", tt.input)
	}
}

func TestNormalizeUnit(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"lbs", "lb"},
		{"Pounds", "lb"},
		{"ct", "ea"},
		{"pieces", "ea"},
		{"cans", "can"},
		{"bottles", "btl"},
		{"tablespoons", "tbsp"},
		{"", "ea"},
		{"widget", "widget"},
		{"lb.", "lb"},
		{"lbs boneless chicken", "lb"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeUnit(tt.input), "normalize %q", tt.input)
	}
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "2 lb", FormatQuantity(models.Quantity{Amount: 2, Unit: "lb"}))
	assert.Equal(t, "1.5 cup", FormatQuantity(models.Quantity{Amount: 1.5, Unit: "cup"}))
	assert.Equal(t, "7 ea", FormatQuantity(models.Quantity{Amount: 7, Unit: "ea"}))
}

func TestParseFormatRoundTrip(t *testing.T) {
	q := ParseQuantity("2.5 lbs")
	assert.Equal(t, "2.5 lb", FormatQuantity(q))
}
