package validation

import "strings"

var angleBrackets = strings.NewReplacer("<", "", ">", "")

// Sanitize removes every '<' and '>' and trims surrounding whitespace.
func Sanitize(s string) string {
	return strings.TrimSpace(angleBrackets.Replace(s))
}

// SanitizeValue sanitizes strings and returns any other value unchanged.
func SanitizeValue(v interface{}) interface{} {
	if s, ok := v.(string); ok {
		return Sanitize(s)
	}
	return v
}
