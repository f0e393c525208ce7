// Package pipeline orchestrates receipt-text-to-record extraction: an
// AI-assisted attempt with a deterministic heuristic fallback, followed by
// field-level canonicalization that runs regardless of which path produced
// the draft.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/expenselens/expense-tracker/constants"
	"github.com/expenselens/expense-tracker/internal/assistant"
	"github.com/expenselens/expense-tracker/internal/entity"
	"github.com/expenselens/expense-tracker/internal/extract"
)

// noteLimit bounds the default note to the first 50 characters of the text.
const noteLimit = 50

// RecordExtractor is the interface the HTTP layer depends on.
type RecordExtractor interface {
	Run(ctx context.Context, rawText string) entity.ReceiptRecord
}

type Pipeline struct {
	Assistant assistant.Generator
	Logger    *slog.Logger
}

func New(gen assistant.Generator, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{Assistant: gen, Logger: logger}
}

// Run turns raw OCR text into a canonical ReceiptRecord. Ordinary malformed
// input never produces an error: unknown amount/date come back nil,
// category always lands in the taxonomy, and every assistant failure is
// absorbed by the heuristic path.
func (p *Pipeline) Run(ctx context.Context, rawText string) entity.ReceiptRecord {
	text := extract.CollapseWhitespace(rawText)

	p.Logger.Info("pipeline.start", "text_len", len(text))

	fields, err := p.extractFields(ctx, text)
	if err != nil {
		p.Logger.Warn("pipeline.heuristic_fallback", "reason", err)
		fields = heuristicDraft(text)
	}

	// The priority resolver over the full text is authoritative for the
	// amount, even when the assistant succeeded. The assistant's own amount
	// is intentionally never used; log when they disagree so the override
	// stays observable.
	amount := extract.FinalTotal(text)
	if fields.Amount != nil && (amount == nil || *fields.Amount != *amount) {
		p.Logger.Debug("pipeline.amount_overridden",
			"assistant_amount", *fields.Amount,
		)
	}

	record := entity.ReceiptRecord{Amount: amount}

	if fields.Date != nil {
		record.Date = extract.ResolveDate(*fields.Date)
	}

	record.Category = constants.MapCategory(deref(fields.Category))

	record.Note = deref(fields.Note)
	if record.Note == "" {
		record.Note = truncateRunes(text, noteLimit)
	}

	p.Logger.Info("pipeline.ok",
		"has_amount", record.Amount != nil,
		"has_date", record.Date != nil,
		"category", record.Category,
	)
	return record
}

func (p *Pipeline) extractFields(ctx context.Context, text string) (assistant.Fields, error) {
	if p.Assistant == nil {
		return assistant.Fields{}, errNoAssistant
	}
	return p.Assistant.Extract(ctx, text)
}

// heuristicDraft assembles the fallback record: bidirectional keyword amount,
// a date-shaped substring from the text itself, default category, and the
// leading slice of the text as the note.
func heuristicDraft(text string) assistant.Fields {
	f := assistant.Fields{
		Amount: extract.KeywordAmount(text),
	}
	if m := extract.FindDate(text); m != "" {
		f.Date = &m
	}
	cat := string(constants.Others)
	f.Category = &cat
	note := truncateRunes(text, noteLimit)
	f.Note = &note
	return f
}

func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type sentinelError string

func (e sentinelError) Error() string { return string(e) }

const errNoAssistant = sentinelError("no assistant configured")
