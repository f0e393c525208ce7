package assistant

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// ParseReply turns raw assistant output into typed Fields. The reply is
// untrusted free text: models wrap JSON in code fences or prose, so the
// outermost object is cut out first, then lightly sanitized, then validated
// against the record schema before decoding. Any failure along the way is
// returned as an error the caller treats as "no result".
func ParseReply(raw []byte, logger *slog.Logger) (Fields, error) {
	if logger == nil {
		logger = slog.Default()
	}

	doc, ok := extractJSONObject(string(raw))
	if !ok {
		return Fields{}, fmt.Errorf("no JSON object in assistant reply (%d bytes)", len(raw))
	}

	cleaned, dropped, err := sanitizeReply([]byte(doc))
	if err != nil {
		return Fields{}, fmt.Errorf("sanitize reply: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("assistant.reply.sanitized", "dropped", dropped)
	}

	if err := ValidateJSONAgainstSchema(BuildRecordJSONSchema(), cleaned); err != nil {
		return Fields{}, fmt.Errorf("schema validation failed: %w", err)
	}

	var f Fields
	if err := json.Unmarshal(cleaned, &f); err != nil {
		return Fields{}, fmt.Errorf("decode reply: %w", err)
	}
	return f, nil
}

// extractJSONObject cuts the outermost {...} region from s.
func extractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// sanitizeReply normalizes the reply before strict validation:
//   - unknown keys are removed (additionalProperties is false);
//   - a numeric-string amount ("6.50") is coerced to a number;
//   - "" and the literal string "null" become real nulls;
//   - known string fields are trimmed.
func sanitizeReply(doc []byte) ([]byte, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, nil, err
	}

	var dropped []string

	allowed := map[string]struct{}{"amount": {}, "date": {}, "category": {}, "note": {}}
	for k := range m {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	if v, ok := m["amount"].(string); ok {
		s := strings.TrimSpace(v)
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			m["amount"] = f
			dropped = append(dropped, "amount(string)")
		} else {
			m["amount"] = nil
			dropped = append(dropped, "amount(unparseable)")
		}
	}

	for _, k := range []string{"date", "note", "category"} {
		v, ok := m[k].(string)
		if !ok {
			continue
		}
		s := strings.TrimSpace(v)
		if s == "" || strings.EqualFold(s, "null") {
			m[k] = nil
			dropped = append(dropped, k+"(empty)")
			continue
		}
		m[k] = s
	}

	// category may not be null per schema; fold a null back to absent-as-empty
	// is not allowed either, so drop the whole reply later via validation only
	// when category is genuinely missing. A null category becomes "Others".
	if v, ok := m["category"]; ok && v == nil {
		m["category"] = "Others"
		dropped = append(dropped, "category(null)")
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, err
	}
	return out, dropped, nil
}
