package extract

import (
	"regexp"
	"strconv"
)

// A receipt amount is one or more digits, a decimal point, and exactly two
// fractional digits. Bare integers are never treated as amounts.
var reDecimal = regexp.MustCompile(`[0-9]+\.[0-9]{2}`)

var (
	// The optional "sub" group stands in for a negative lookbehind, which RE2
	// does not support: a match whose first group is non-empty is a subtotal
	// and must be skipped.
	reTotal         = regexp.MustCompile(`\b(sub)?total\b[:\s]*([0-9]+\.[0-9]{2})`)
	reAmountBalance = regexp.MustCompile(`\b(?:amount|balance)\b[:\s]*([0-9]+\.[0-9]{2})`)
	reKeywordBefore = regexp.MustCompile(`(?i)(?:total|amount|balance)[^\d]*([0-9]+\.[0-9]{2})`)
	reKeywordAfter  = regexp.MustCompile(`(?i)([0-9]+\.[0-9]{2})\s*(?:total|amount|balance)`)
)

// FinalTotal chooses the single amount most likely intended as the receipt's
// grand total. This resolver is authoritative: the pipeline applies it to the
// full text regardless of which strategy produced the draft record.
//
// Priority tiers, first tier with any match wins:
//  1. numbers after the word "total" (excluding "subtotal"), last occurrence;
//  2. numbers after "amount" or "balance", last occurrence;
//  3. the maximum of all decimal numbers anywhere in the text.
//
// A nil result means no decimal-formatted number exists at all; that is a
// valid "could not determine" outcome, not an error.
func FinalTotal(text string) *float64 {
	normalized := NormalizeForMatching(text)

	var last string
	for _, m := range reTotal.FindAllStringSubmatch(normalized, -1) {
		if m[1] != "" {
			continue // subtotal
		}
		last = m[2]
	}
	if last != "" {
		return parseMoney(last)
	}

	if ms := reAmountBalance.FindAllStringSubmatch(normalized, -1); len(ms) > 0 {
		return parseMoney(ms[len(ms)-1][1])
	}

	return maxDecimal(normalized)
}

// KeywordAmount is the draft-stage strategy used only while assembling the
// heuristic fallback record. It searches bidirectionally: a total/amount/
// balance keyword either immediately before or immediately after the number,
// first occurrence wins, then falls back to the textual maximum. Its result
// is always superseded by FinalTotal before the record is returned.
func KeywordAmount(text string) *float64 {
	if m := reKeywordBefore.FindStringSubmatch(text); m != nil {
		return parseMoney(m[1])
	}
	if m := reKeywordAfter.FindStringSubmatch(text); m != nil {
		return parseMoney(m[1])
	}
	return maxDecimal(text)
}

func maxDecimal(s string) *float64 {
	var best *float64
	for _, m := range reDecimal.FindAllString(s, -1) {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			continue
		}
		if best == nil || v > *best {
			best = &v
		}
	}
	return best
}

func parseMoney(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
