package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/expenselens/expense-tracker/internal/common"
	"github.com/expenselens/expense-tracker/internal/entity"
)

// Filter narrows a transaction listing. Zero values (or "All") mean "any".
// The amount buckets and sort options deliberately keep the vocabulary the
// frontend sends: "0-100", "100-500", "500-1000", "1000+" and "newest",
// "oldest", "amount-high", "amount-low".
type Filter struct {
	Category    string
	AmountRange string
	StartDate   *time.Time
	EndDate     *time.Time
	Sort        string
}

// UpdatePatch carries partial updates; nil fields are left untouched.
// ClearDate explicitly nulls the date.
type UpdatePatch struct {
	Amount    *float64
	Category  *string
	Note      *string
	TxDate    *time.Time
	ClearDate bool
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	Get(ctx context.Context, userID, id uuid.UUID, txType entity.TxType) (*entity.Transaction, error)
	Update(ctx context.Context, userID, id uuid.UUID, txType entity.TxType, patch UpdatePatch) (*entity.Transaction, error)
	Delete(ctx context.Context, userID, id uuid.UUID, txType entity.TxType) error
	List(ctx context.Context, userID uuid.UUID, txType entity.TxType, f Filter) ([]*entity.Transaction, error)
}

type transactionRepository struct {
	pool   Pool
	logger *slog.Logger
}

func NewTransactionRepository(pool Pool, logger *slog.Logger) TransactionRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &transactionRepository{pool: pool, logger: logger}
}

const txColumns = `id, user_id, tx_type, amount, category, note, tx_date, created_at`

func (r *transactionRepository) Create(ctx context.Context, tx *entity.Transaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	row := r.pool.QueryRow(ctx,
		`INSERT INTO transactions (id, user_id, tx_type, amount, category, note, tx_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at`,
		tx.ID, tx.UserID, tx.Type, tx.Amount, tx.Category, tx.Note, tx.TxDate)
	if err := row.Scan(&tx.CreatedAt); err != nil {
		r.logger.Error("failed to create transaction", "user_id", tx.UserID, "error", err)
		return common.WrapError(err, "create transaction")
	}
	return nil
}

func (r *transactionRepository) Get(ctx context.Context, userID, id uuid.UUID, txType entity.TxType) (*entity.Transaction, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+txColumns+` FROM transactions
		 WHERE id = $1 AND user_id = $2 AND tx_type = $3`,
		id, userID, txType)
	return scanTransaction(row)
}

func (r *transactionRepository) Update(ctx context.Context, userID, id uuid.UUID, txType entity.TxType, patch UpdatePatch) (*entity.Transaction, error) {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 7)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if patch.Amount != nil {
		sets = append(sets, "amount = "+arg(*patch.Amount))
	}
	if patch.Category != nil {
		sets = append(sets, "category = "+arg(*patch.Category))
	}
	if patch.Note != nil {
		sets = append(sets, "note = "+arg(*patch.Note))
	}
	if patch.ClearDate {
		sets = append(sets, "tx_date = NULL")
	} else if patch.TxDate != nil {
		sets = append(sets, "tx_date = "+arg(*patch.TxDate))
	}

	if len(sets) == 0 {
		return r.Get(ctx, userID, id, txType)
	}

	query := `UPDATE transactions SET ` + strings.Join(sets, ", ") +
		` WHERE id = ` + arg(id) + ` AND user_id = ` + arg(userID) + ` AND tx_type = ` + arg(txType) +
		` RETURNING ` + txColumns
	row := r.pool.QueryRow(ctx, query, args...)
	return scanTransaction(row)
}

func (r *transactionRepository) Delete(ctx context.Context, userID, id uuid.UUID, txType entity.TxType) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM transactions WHERE id = $1 AND user_id = $2 AND tx_type = $3`,
		id, userID, txType)
	if err != nil {
		r.logger.Error("failed to delete transaction", "id", id, "error", err)
		return common.WrapError(err, "delete transaction")
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *transactionRepository) List(ctx context.Context, userID uuid.UUID, txType entity.TxType, f Filter) ([]*entity.Transaction, error) {
	where := []string{"user_id = $1", "tx_type = $2"}
	args := []any{userID, txType}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Category != "" && f.Category != "All" {
		where = append(where, "category = "+arg(f.Category))
	}
	if cond, ok := amountCondition(f.AmountRange, arg); ok {
		where = append(where, cond)
	}
	if f.StartDate != nil {
		where = append(where, "tx_date >= "+arg(*f.StartDate))
	}
	if f.EndDate != nil {
		where = append(where, "tx_date <= "+arg(*f.EndDate))
	}

	query := `SELECT ` + txColumns + ` FROM transactions WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY ` + orderClause(f.Sort)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list transactions", "user_id", userID, "error", err)
		return nil, common.WrapError(err, "list transactions")
	}
	defer rows.Close()

	out := make([]*entity.Transaction, 0)
	for rows.Next() {
		var t entity.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Category, &t.Note, &t.TxDate, &t.CreatedAt); err != nil {
			return nil, common.WrapError(err, "scan transaction")
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

func amountCondition(bucket string, arg func(any) string) (string, bool) {
	switch bucket {
	case "0-100":
		return "amount >= " + arg(0.0) + " AND amount <= " + arg(100.0), true
	case "100-500":
		return "amount >= " + arg(100.0) + " AND amount <= " + arg(500.0), true
	case "500-1000":
		return "amount >= " + arg(500.0) + " AND amount <= " + arg(1000.0), true
	case "1000+":
		return "amount >= " + arg(1000.0), true
	default:
		return "", false
	}
}

func orderClause(sort string) string {
	switch sort {
	case "oldest":
		return "tx_date ASC NULLS LAST, created_at ASC"
	case "amount-high":
		return "amount DESC"
	case "amount-low":
		return "amount ASC"
	default: // newest
		return "tx_date DESC NULLS LAST, created_at DESC"
	}
}

func scanTransaction(row pgx.Row) (*entity.Transaction, error) {
	var t entity.Transaction
	if err := row.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Category, &t.Note, &t.TxDate, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, common.WrapError(err, "load transaction")
	}
	return &t, nil
}
