// Package export produces XLSX workbooks from a user's transaction history.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/expenselens/expense-tracker/internal/entity"
	"github.com/expenselens/expense-tracker/internal/repository"
)

// Service is a tiny façade over the transaction repository that renders
// XLSX bytes for exports.
type Service struct {
	txRepo repository.TransactionRepository
	logger *slog.Logger
}

func NewService(txRepo repository.TransactionRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{txRepo: txRepo, logger: logger}
}

// TransactionsXLSX returns a workbook of the user's expenses or incomes in
// the given date window. A nil bound leaves that side open.
func (s *Service) TransactionsXLSX(ctx context.Context, userID uuid.UUID, txType entity.TxType, from, to *time.Time) ([]byte, error) {
	start := time.Now()

	recs, err := s.txRepo.List(ctx, userID, txType, repository.Filter{
		StartDate: from,
		EndDate:   to,
		Sort:      "oldest",
	})
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Transactions"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// drop the default sheet so the workbook opens on ours
	if sheet != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{"Date", "Category", "Amount", "Note"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, t := range recs {
		date := ""
		if t.TxDate != nil {
			date = t.TxDate.Format("2006-01-02")
		}
		values := []any{date, t.Category, t.Amount, t.Note}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("export.ok",
		"user_id", userID,
		"tx_type", txType,
		"rows", len(recs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
