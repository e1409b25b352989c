package services

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips HTML/script content from untrusted strings and doubles
// single quotes. The quote doubling is layered defense for display-bound
// fields; SQL injection protection itself comes from parameter binding at
// the store layer.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer creates a sanitizer with a deny-all-tags policy
func NewSanitizer() *Sanitizer {
	return &Sanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// String sanitizes a single string value
func (s *Sanitizer) String(in string) string {
	out := s.policy.Sanitize(in)
	return strings.ReplaceAll(out, "'", "''")
}

// Value recursively sanitizes a decoded JSON value. Every string is passed
// through String, including object keys; arrays and objects are walked;
// non-string scalars and nils pass through unchanged.
func (s *Sanitizer) Value(v interface{}) interface{} {
	switch val := v.(type) {
	case string:
		return s.String(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, elem := range val {
			out[i] = s.Value(elem)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, elem := range val {
			out[s.String(k)] = s.Value(elem)
		}
		return out
	default:
		return v
	}
}
