package extract

import (
	"regexp"
	"strings"
	"time"
)

const canonicalDateLayout = "2006-01-02"

// dateLayouts are tried strictly in order; the first successful parse wins.
var dateLayouts = []string{
	"2006-01-02",      // ISO
	"January 2, 2006", // long month name
	"01/02/2006",      // US slash, 4-digit year
	"01/02/06",        // US slash, 2-digit year
}

var (
	reSlashDate = regexp.MustCompile(`[0-9]{1,2}/[0-9]{1,2}/[0-9]{2,4}`)
	reLongDate  = regexp.MustCompile(`[A-Za-z]+ [0-9]{1,2}, [0-9]{4}`)
)

// ResolveDate converts a human-entered or machine-echoed date string into
// canonical YYYY-MM-DD. Absent or unparseable input (impossible calendar
// dates included) yields nil; malformed strings are never propagated.
func ResolveDate(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") || strings.EqualFold(s, "null") {
		return nil
	}
	s = normalizeMonthCase(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			out := t.Format(canonicalDateLayout)
			return &out
		}
	}
	return nil
}

// normalizeMonthCase title-cases a leading month-name token so that OCR'd
// "march 4, 2024" or "MARCH 4, 2024" still parses; time.Parse is
// case-sensitive about month names. Digit-led formats pass through untouched.
func normalizeMonthCase(s string) string {
	i := 0
	for i < len(s) && (s[i] >= 'A' && s[i] <= 'Z' || s[i] >= 'a' && s[i] <= 'z') {
		i++
	}
	if i == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:i]) + s[i:]
}

// FindDate locates the first date-shaped substring in OCR text, slash style
// first, then long month name style. An empty string means no candidate.
func FindDate(text string) string {
	if m := reSlashDate.FindString(text); m != "" {
		return m
	}
	return reLongDate.FindString(text)
}
