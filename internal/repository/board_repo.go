package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgwilde8/urvote-rocks/internal/model"
)

type BoardRepo struct {
	pool *pgxpool.Pool
}

func NewBoardRepo(pool *pgxpool.Pool) *BoardRepo {
	return &BoardRepo{pool: pool}
}

// FindBySlug returns a single board by its public slug.
func (r *BoardRepo) FindBySlug(ctx context.Context, slug string) (*model.Board, error) {
	query := `
		SELECT id, slug, name, allow_music, allow_video, allow_visuals,
		       require_approval, created_at
		FROM boards
		WHERE slug = $1`

	var b model.Board
	err := r.pool.QueryRow(ctx, query, slug).Scan(
		&b.ID, &b.Slug, &b.Name, &b.AllowMusic, &b.AllowVideo, &b.AllowVisuals,
		&b.RequireApproval, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
