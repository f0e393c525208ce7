package constants

import (
	"strings"
)

// Category is the closed taxonomy every expense ends up in.
type Category string

const (
	Food   Category = "Food"
	Travel Category = "Travel"
	Bills  Category = "Bills"
	Others Category = "Others"
)

var allCategories = []Category{
	Food,
	Travel,
	Bills,
	Others,
}

func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// IsValid reports whether s is exactly one of the taxonomy members.
func IsValid(s string) bool {
	for _, cat := range allCategories {
		if s == string(cat) {
			return true
		}
	}
	return false
}

// MapCategory folds an arbitrary free-text label onto the taxonomy.
// It is total: any input, including the empty string, yields a member.
// Substring rules are checked in order; the first hit wins.
func MapCategory(label string) Category {
	if label == "" {
		return Others
	}

	normalized := strings.ToLower(strings.TrimSpace(label))

	switch {
	case strings.Contains(normalized, "food"),
		strings.Contains(normalized, "grocery"):
		return Food
	case strings.Contains(normalized, "travel"),
		strings.Contains(normalized, "taxi"),
		strings.Contains(normalized, "uber"):
		return Travel
	case strings.Contains(normalized, "bill"),
		strings.Contains(normalized, "electric"),
		strings.Contains(normalized, "internet"):
		return Bills
	}
	return Others
}
