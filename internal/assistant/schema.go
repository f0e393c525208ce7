package assistant

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildRecordJSONSchema returns the reply schema (draft 2020-12 subset) as a
// generic map. All four keys are required; amount/date/note are nullable.
// The schema checks shape only, not values: category is deliberately NOT
// restricted to the taxonomy enum (off-taxonomy labels like "Uber" are still
// usable input for the category mapper), and date is any string (the date
// canonicalizer accepts several formats and quietly drops what it cannot
// parse). Rejecting a reply on a value the downstream resolvers can handle
// would throw away an otherwise good category and note.
func BuildRecordJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"amount": map[string]any{
				"type": []string{"number", "null"},
			},
			"date": map[string]any{
				"type": []string{"string", "null"},
			},
			"category": map[string]any{
				"type":      "string",
				"minLength": 1,
			},
			"note": map[string]any{
				"type": []string{"string", "null"},
			},
		},
		"required": []string{"amount", "date", "category", "note"},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
