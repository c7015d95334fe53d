package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgwilde8/urvote-rocks/internal/model"
)

type AccountRepo struct {
	pool *pgxpool.Pool
}

func NewAccountRepo(pool *pgxpool.Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// FindByID returns a single account by its primary key.
func (r *AccountRepo) FindByID(ctx context.Context, id int64) (*model.Account, error) {
	query := `
		SELECT id, email, display_name, is_active, created_at
		FROM accounts
		WHERE id = $1`

	var a model.Account
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Email, &a.DisplayName, &a.IsActive, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
