package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/expenselens/expense-tracker/internal/entity"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportXLSX streams the caller's expenses or incomes as an XLSX attachment.
// ?type selects the ledger (default expense); start_date/end_date bound the
// window as YYYY-MM-DD.
func (s *Server) ExportXLSX(c *gin.Context) {
	userID := currentUserID(c)

	txType := entity.TxExpense
	switch c.DefaultQuery("type", "expense") {
	case "expense":
	case "income":
		txType = entity.TxIncome
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be expense or income"})
		return
	}

	from, err := parseOptionalDate(c.Query("start_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date format"})
		return
	}
	to, err := parseOptionalDate(c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date format"})
		return
	}

	data, err := s.Export.TransactionsXLSX(c.Request.Context(), userID, txType, from, to)
	if err != nil {
		s.Logger.Error("export failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	filename := fmt.Sprintf("%ss-%s.xlsx", txType, time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxMIME, data)
}
