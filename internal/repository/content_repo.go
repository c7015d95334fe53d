package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgwilde8/urvote-rocks/internal/model"
)

type ContentRepo struct {
	pool *pgxpool.Pool
}

func NewContentRepo(pool *pgxpool.Pool) *ContentRepo {
	return &ContentRepo{pool: pool}
}

// FindApproved returns one approved content item by its media type and id.
// Unapproved content is invisible to the voting surface, so a pending item
// reads the same as a missing one (pgx.ErrNoRows).
func (r *ContentRepo) FindApproved(ctx context.Context, mediaType model.MediaType, mediaID int64) (*model.Content, error) {
	query := `
		SELECT id, board_id, media_type, title, artist_name, is_approved, created_at
		FROM content
		WHERE media_type = $1 AND id = $2 AND is_approved`

	var c model.Content
	err := r.pool.QueryRow(ctx, query, mediaType, mediaID).Scan(
		&c.ID, &c.BoardID, &c.MediaType, &c.Title, &c.ArtistName, &c.IsApproved, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListApprovedByBoard returns a board's approved content, newest first,
// optionally narrowed to one media type.
func (r *ContentRepo) ListApprovedByBoard(ctx context.Context, boardID int64, mediaType model.MediaType, limit, offset int) ([]model.Content, error) {
	query := `
		SELECT id, board_id, media_type, title, artist_name, is_approved, created_at
		FROM content
		WHERE board_id = $1 AND is_approved
		  AND ($2 = '' OR media_type = $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, query, boardID, string(mediaType), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Content, 0)
	for rows.Next() {
		var c model.Content
		if err := rows.Scan(&c.ID, &c.BoardID, &c.MediaType, &c.Title, &c.ArtistName, &c.IsApproved, &c.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}
