// Package assistant delegates whole-record interpretation of receipt text to
// an external free-form text-generation process. Its output is untrusted:
// every reply is schema-validated before use, and every failure mode
// (binary missing, wall-clock timeout, unparseable reply) collapses into a
// single "no result" error so the caller can fall back to heuristics.
package assistant

import "context"

// Fields is the structured reply we require from the assistant. Pointer
// fields distinguish "unknown" (null) from real values; the pipeline's
// canonicalizers handle both.
type Fields struct {
	Amount   *float64 `json:"amount"`
	Date     *string  `json:"date"`
	Category *string  `json:"category"`
	Note     *string  `json:"note"`
}

// Generator is the capability interface the pipeline depends on; it hides
// whichever external process produces the reply so the heuristic path stays
// testable without the assistant installed.
type Generator interface {
	Extract(ctx context.Context, text string) (Fields, error)
}
