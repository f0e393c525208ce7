package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/expenselens/expense-tracker/internal/common"
	"github.com/expenselens/expense-tracker/internal/entity"
)

type UserRepository interface {
	Create(ctx context.Context, username, passwordHash string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

type userRepository struct {
	pool   Pool
	logger *slog.Logger
}

func NewUserRepository(pool Pool, logger *slog.Logger) UserRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &userRepository{pool: pool, logger: logger}
}

func (r *userRepository) Create(ctx context.Context, username, passwordHash string) (*entity.User, error) {
	u := &entity.User{ID: uuid.New(), Username: username, PasswordHash: passwordHash}
	row := r.pool.QueryRow(ctx,
		`INSERT INTO users (id, username, password_hash) VALUES ($1, $2, $3) RETURNING created_at`,
		u.ID, u.Username, u.PasswordHash)
	if err := row.Scan(&u.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return nil, common.ErrConflict
		}
		r.logger.Error("failed to create user", "username", username, "error", err)
		return nil, common.WrapError(err, "create user")
	}
	return u, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE username = $1`,
		username)
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.findOne(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE id = $1`,
		id)
}

func (r *userRepository) findOne(ctx context.Context, sql string, arg any) (*entity.User, error) {
	var u entity.User
	row := r.pool.QueryRow(ctx, sql, arg)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		r.logger.Error("failed to load user", "error", err)
		return nil, common.WrapError(err, "load user")
	}
	return &u, nil
}
