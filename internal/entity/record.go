package entity

import (
	"github.com/expenselens/expense-tracker/constants"
)

// ReceiptRecord is the canonical output of the extraction pipeline.
// Amount and Date are nil when the resolvers could not determine them;
// nil is a valid terminal outcome, not an error. Category is always a
// taxonomy member. The record lives for a single request/response
// exchange and is never persisted by the pipeline itself.
type ReceiptRecord struct {
	Amount   *float64           `json:"amount"`
	Date     *string            `json:"date"`
	Category constants.Category `json:"category"`
	Note     string             `json:"note"`
}
