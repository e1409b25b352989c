package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizerStripsMarkup(t *testing.T) {
	s := NewSanitizer()

	assert.Equal(t, "chicken", s.String("<script>alert(1)</script>chicken"))
	assert.Equal(t, "weekly plan", s.String("<b>weekly</b> plan"))
	assert.Equal(t, "plain text", s.String("plain text"))
}

func TestSanitizerDoublesSingleQuotes(t *testing.T) {
	s := NewSanitizer()

	assert.Equal(t, "shepherd''s pie", s.String("shepherd's pie"))
	assert.Equal(t, "''''", s.String("''"))
}

func TestSanitizerValueWalksStructures(t *testing.T) {
	s := NewSanitizer()

	in := map[string]interface{}{
		"name": "mom's <i>lasagna</i>",
		"tags": []interface{}{"<script>x</script>dinner", "lunch"},
		"nested": map[string]interface{}{
			"note": "it's fine",
		},
	}

	out, ok := s.Value(in).(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "mom''s lasagna", out["name"])
	assert.Equal(t, []interface{}{"dinner", "lunch"}, out["tags"])

	nested := out["nested"].(map[string]interface{})
	assert.Equal(t, "it''s fine", nested["note"])
}

func TestSanitizerValueSanitizesKeys(t *testing.T) {
	s := NewSanitizer()

	in := map[string]interface{}{
		"<b>key</b>": "value",
	}

	out := s.Value(in).(map[string]interface{})
	assert.Contains(t, out, "key")
	assert.NotContains(t, out, "<b>key</b>")
}

func TestSanitizerValuePassesThroughNonStrings(t *testing.T) {
	s := NewSanitizer()

	assert.Equal(t, 42.0, s.Value(42.0))
	assert.Equal(t, true, s.Value(true))
	assert.Nil(t, s.Value(nil))
}
