// Package extract holds the deterministic field resolvers that run over raw
// receipt OCR text: whitespace normalization, the two amount strategies, and
// the date canonicalizer.
package extract

import (
	"regexp"
	"strings"
)

var (
	reWhitespace  = regexp.MustCompile(`\s+`)
	reAmountNoise = regexp.MustCompile(`[\s,]+`)
)

// CollapseWhitespace folds every run of whitespace (OCR line breaks included)
// into a single space. Empty input yields empty output.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))
}

// NormalizeForMatching prepares text for amount pattern matching: case-folded,
// with whitespace runs and embedded thousands-separator commas collapsed into
// single spaces.
func NormalizeForMatching(s string) string {
	return strings.TrimSpace(reAmountNoise.ReplaceAllString(strings.ToLower(s), " "))
}
