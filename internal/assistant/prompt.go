package assistant

import (
	"strings"

	"github.com/expenselens/expense-tracker/constants"
)

// BuildPrompt composes the extraction instruction around the normalized
// receipt text. The reply contract mirrors the record schema: exactly four
// keys, nulls for unknowns, category restricted to the taxonomy.
func BuildPrompt(text string) string {
	var b strings.Builder
	b.WriteString("You are an AI that extracts structured info from bills.\n")
	b.WriteString("Return JSON ONLY with keys: amount, date, category, note.\n")
	b.WriteString("- amount: total number only (like 6.50)\n")
	b.WriteString("- date: in YYYY-MM-DD format (convert month names)\n")
	b.WriteString("- category: one of " + strings.Join(constants.AsStringSlice(), ", ") + "\n")
	b.WriteString("- note: store name or short description only\n")
	b.WriteString("If unknown, use null for amount/date/note, ")
	b.WriteString(string(constants.Others))
	b.WriteString(" for category.\n")
	b.WriteString("Bill text:\n")
	b.WriteString(text)
	return b.String()
}
