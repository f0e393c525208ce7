package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expenselens/expense-tracker/constants"
	"github.com/expenselens/expense-tracker/internal/assistant"
)

type stubGenerator struct {
	fields assistant.Fields
	err    error

	gotText string
}

func (s *stubGenerator) Extract(_ context.Context, text string) (assistant.Fields, error) {
	s.gotText = text
	return s.fields, s.err
}

func strp(s string) *string { return &s }
func fp(v float64) *float64 { return &v }

const sampleReceipt = "Corner Cafe\nItem 10.00\nTotal: 12.50\n03/04/2024\nThank you"

func TestRunHeuristicFallback(t *testing.T) {
	gen := &stubGenerator{err: errors.New("model unavailable")}
	p := New(gen, nil)

	rec := p.Run(context.Background(), sampleReceipt)

	require.NotNil(t, rec.Amount)
	assert.InDelta(t, 12.50, *rec.Amount, 1e-9)
	require.NotNil(t, rec.Date)
	assert.Equal(t, "2024-03-04", *rec.Date)
	assert.Equal(t, constants.Others, rec.Category)
	assert.Equal(t, "Corner Cafe Item 10.00 Total: 12.50 03/04/2024 Tha", rec.Note)

	// the assistant sees collapsed text, not the raw OCR output
	assert.NotContains(t, gen.gotText, "\n")
}

func TestRunFallbackSubtotalExcluded(t *testing.T) {
	gen := &stubGenerator{err: errors.New("timeout")}
	p := New(gen, nil)

	rec := p.Run(context.Background(), "Subtotal: 10.00 Total: 12.50 Thank you")

	require.NotNil(t, rec.Amount)
	assert.InDelta(t, 12.50, *rec.Amount, 1e-9)
	assert.Nil(t, rec.Date)
	assert.Equal(t, constants.Others, rec.Category)
	assert.Equal(t, "Subtotal: 10.00 Total: 12.50 Thank you", rec.Note)
}

func TestRunNoAssistantConfigured(t *testing.T) {
	p := New(nil, nil)

	rec := p.Run(context.Background(), sampleReceipt)

	require.NotNil(t, rec.Amount)
	assert.InDelta(t, 12.50, *rec.Amount, 1e-9)
	assert.Equal(t, constants.Others, rec.Category)
}

func TestRunAssistantAmountAlwaysOverridden(t *testing.T) {
	gen := &stubGenerator{fields: assistant.Fields{
		Amount:   fp(99.99),
		Date:     strp("2024-03-04"),
		Category: strp("Uber"),
		Note:     strp("Ride downtown"),
	}}
	p := New(gen, nil)

	rec := p.Run(context.Background(), sampleReceipt)

	require.NotNil(t, rec.Amount)
	assert.InDelta(t, 12.50, *rec.Amount, 1e-9)
	require.NotNil(t, rec.Date)
	assert.Equal(t, "2024-03-04", *rec.Date)
	assert.Equal(t, constants.Travel, rec.Category)
	assert.Equal(t, "Ride downtown", rec.Note)
}

func TestRunAssistantSlashDateKeepsReply(t *testing.T) {
	gen := &stubGenerator{fields: assistant.Fields{
		Amount:   fp(99.99),
		Date:     strp("03/04/2024"),
		Category: strp("Food"),
		Note:     strp("Corner Cafe"),
	}}
	p := New(gen, nil)

	rec := p.Run(context.Background(), sampleReceipt)

	require.NotNil(t, rec.Amount)
	assert.InDelta(t, 12.50, *rec.Amount, 1e-9)
	require.NotNil(t, rec.Date)
	assert.Equal(t, "2024-03-04", *rec.Date)
	assert.Equal(t, constants.Food, rec.Category)
	assert.Equal(t, "Corner Cafe", rec.Note)
}

func TestRunAssistantDateCanonicalized(t *testing.T) {
	gen := &stubGenerator{fields: assistant.Fields{
		Date:     strp("March 4, 2024"),
		Category: strp("Food"),
	}}
	p := New(gen, nil)

	rec := p.Run(context.Background(), sampleReceipt)

	require.NotNil(t, rec.Date)
	assert.Equal(t, "2024-03-04", *rec.Date)
	assert.Equal(t, constants.Food, rec.Category)
}

func TestRunUnparseableDateDropped(t *testing.T) {
	gen := &stubGenerator{fields: assistant.Fields{
		Date:     strp("sometime last week"),
		Category: strp("Food"),
	}}
	p := New(gen, nil)

	rec := p.Run(context.Background(), sampleReceipt)
	assert.Nil(t, rec.Date)
}

func TestRunEmptyText(t *testing.T) {
	p := New(nil, nil)

	rec := p.Run(context.Background(), "")

	assert.Nil(t, rec.Amount)
	assert.Nil(t, rec.Date)
	assert.Equal(t, constants.Others, rec.Category)
	assert.Equal(t, "", rec.Note)
}

func TestRunNoteDefaultsToLeadingText(t *testing.T) {
	gen := &stubGenerator{fields: assistant.Fields{
		Category: strp("Food"),
		Note:     strp(""),
	}}
	p := New(gen, nil)

	rec := p.Run(context.Background(), "short receipt 5.00")
	assert.Equal(t, "short receipt 5.00", rec.Note)
}

func TestRunIdempotentOnCollapsedText(t *testing.T) {
	p := New(nil, nil)

	first := p.Run(context.Background(), sampleReceipt)
	second := p.Run(context.Background(), first.Note+" Total: 12.50")
	require.NotNil(t, second.Amount)
	assert.InDelta(t, 12.50, *second.Amount, 1e-9)
}
