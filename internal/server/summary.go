package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/expenselens/expense-tracker/constants"
	"github.com/expenselens/expense-tracker/internal/repository"
)

// SummaryPeriod returns the user's expenses and incomes inside a date window
// plus per-category expense totals. Every taxonomy key is always present;
// rows with off-taxonomy categories are folded into Others.
func (s *Server) SummaryPeriod(c *gin.Context) {
	var f repository.Filter
	var err error
	if f.StartDate, err = parseOptionalDate(c.Query("start_date")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date format. Use YYYY-MM-DD"})
		return
	}
	if f.EndDate, err = parseOptionalDate(c.Query("end_date")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date format. Use YYYY-MM-DD"})
		return
	}

	userID := currentUserID(c)
	ctx := c.Request.Context()

	expenses, err := s.Txs.List(ctx, userID, txExpense, f)
	if err != nil {
		s.Logger.Error("summary expenses failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "summary failed"})
		return
	}
	incomes, err := s.Txs.List(ctx, userID, txIncome, f)
	if err != nil {
		s.Logger.Error("summary incomes failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "summary failed"})
		return
	}

	totals := make(map[string]float64, 4)
	for _, name := range constants.AsStringSlice() {
		totals[name] = 0
	}
	for _, e := range expenses {
		cat := e.Category
		if !constants.IsValid(cat) {
			cat = string(constants.Others)
		}
		totals[cat] += e.Amount
	}

	c.JSON(http.StatusOK, gin.H{
		"expenses":                expenses,
		"incomes":                 incomes,
		"expense_category_totals": totals,
	})
}
