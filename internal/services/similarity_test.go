package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameSimilarityExactMatches(t *testing.T) {
	assert.Equal(t, 1.0, NameSimilarity("milk", "milk"))
	assert.Equal(t, 1.0, NameSimilarity("Milk", "milk"))
	assert.Equal(t, 1.0, NameSimilarity("  eggs  ", "eggs"))
	assert.Equal(t, 1.0, NameSimilarity("", ""))
}

func TestNameSimilarityNearMatches(t *testing.T) {
	// One substitution in a long name stays above the merge threshold
	score := NameSimilarity("boneless skinless chicken breast", "boneless skinless chicken breazt")
	assert.GreaterOrEqual(t, score, SimilarityThreshold)

	// A single edit in a short name is a big relative difference
	score = NameSimilarity("tomato", "tomatoe")
	assert.Less(t, score, SimilarityThreshold)

	// Related but distinct ingredients must not look identical
	score = NameSimilarity("fresh tomatoes", "canned tomatoes")
	assert.Less(t, score, SimilarityThreshold)
}

func TestNameSimilarityUnrelated(t *testing.T) {
	assert.Less(t, NameSimilarity("chicken", "broccoli"), 0.5)
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"flour", "flour", 0},
		{"tomato", "tomatoe", 1},
		{"onion", "onions", 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, levenshteinDistance(tt.a, tt.b), "distance(%q, %q)", tt.a, tt.b)
	}
}
