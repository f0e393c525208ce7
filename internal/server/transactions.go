package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/expenselens/expense-tracker/internal/common"
	"github.com/expenselens/expense-tracker/internal/entity"
	"github.com/expenselens/expense-tracker/internal/repository"
)

// The expense and income surfaces are identical; handlers are built per
// ledger from the same factory.
const (
	txExpense = entity.TxExpense
	txIncome  = entity.TxIncome
)

const dateLayout = "2006-01-02"

type transactionRequest struct {
	Amount   *float64 `json:"amount"`
	Category *string  `json:"category"`
	Note     *string  `json:"note"`
	Date     *string  `json:"date"`
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Server) createTransaction(txType entity.TxType) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req transactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if req.Amount == nil || req.Category == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing amount or category"})
			return
		}

		var txDate *time.Time
		if req.Date != nil {
			var err error
			if txDate, err = parseOptionalDate(*req.Date); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
				return
			}
		}

		tx := &entity.Transaction{
			UserID:   currentUserID(c),
			Type:     txType,
			Amount:   *req.Amount,
			Category: *req.Category,
			TxDate:   txDate,
		}
		if req.Note != nil {
			tx.Note = *req.Note
		}

		if err := s.Txs.Create(c.Request.Context(), tx); err != nil {
			s.Logger.Error("create transaction failed", "tx_type", txType, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
			return
		}
		c.JSON(http.StatusCreated, tx)
	}
}

func (s *Server) updateTransaction(txType entity.TxType) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req transactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		patch := repository.UpdatePatch{
			Amount:   req.Amount,
			Category: req.Category,
			Note:     req.Note,
		}
		if req.Date != nil {
			if *req.Date == "" {
				patch.ClearDate = true
			} else {
				txDate, err := parseOptionalDate(*req.Date)
				if err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
					return
				}
				patch.TxDate = txDate
			}
		}

		tx, err := s.Txs.Update(c.Request.Context(), currentUserID(c), id, txType, patch)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": notFoundMessage(txType)})
				return
			}
			s.Logger.Error("update transaction failed", "id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
			return
		}
		c.JSON(http.StatusOK, tx)
	}
}

func (s *Server) deleteTransaction(txType entity.TxType) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		if err := s.Txs.Delete(c.Request.Context(), currentUserID(c), id, txType); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": notFoundMessage(txType)})
				return
			}
			s.Logger.Error("delete transaction failed", "id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": deletedMessage(txType)})
	}
}

func (s *Server) listTransactions(txType entity.TxType) gin.HandlerFunc {
	return func(c *gin.Context) {
		txs, err := s.Txs.List(c.Request.Context(), currentUserID(c), txType, repository.Filter{})
		if err != nil {
			s.Logger.Error("list transactions failed", "tx_type", txType, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
			return
		}
		c.JSON(http.StatusOK, txs)
	}
}

func (s *Server) filterTransactions(txType entity.TxType) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := repository.Filter{
			Category:    c.DefaultQuery("category", "All"),
			AmountRange: c.DefaultQuery("amount", "All"),
			Sort:        c.DefaultQuery("sort", "newest"),
		}

		var err error
		if f.StartDate, err = parseOptionalDate(c.Query("start_date")); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date format"})
			return
		}
		if f.EndDate, err = parseOptionalDate(c.Query("end_date")); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date format"})
			return
		}

		txs, err := s.Txs.List(c.Request.Context(), currentUserID(c), txType, f)
		if err != nil {
			s.Logger.Error("filter transactions failed", "tx_type", txType, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "filter failed"})
			return
		}
		c.JSON(http.StatusOK, txs)
	}
}

func notFoundMessage(txType entity.TxType) string {
	if txType == txIncome {
		return "Income not found"
	}
	return "Expense not found"
}

func deletedMessage(txType entity.TxType) string {
	if txType == txIncome {
		return "Income deleted"
	}
	return "Expense deleted"
}
