package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgwilde8/urvote-rocks/internal/model"
)

// ErrDuplicateDay is returned under the strict daily policy when the voter
// already holds a vote for the same target on the same UTC day.
var ErrDuplicateDay = errors.New("vote already cast today")

const uniqueViolation = "23505"

// castRetries bounds how many times a cast re-runs after losing the
// first-insert race on the per-day unique index.
const castRetries = 3

type VoteRepo struct {
	pool *pgxpool.Pool
}

func NewVoteRepo(pool *pgxpool.Pool) *VoteRepo {
	return &VoteRepo{pool: pool}
}

// Cast applies one vote attempt against the ledger and reports what happened.
// Concurrent attempts on the same (voter, target, day) key serialize on the
// row lock taken by the existence check; two racing first inserts are caught
// by the unique index, and the loser re-runs so it observes the winner's row.
func (r *VoteRepo) Cast(ctx context.Context, v *model.Vote, policy model.VotePolicy) (model.VoteOutcome, error) {
	var outcome model.VoteOutcome
	var err error
	for attempt := 0; attempt < castRetries; attempt++ {
		outcome, err = r.castOnce(ctx, v, policy)
		if err == nil || !isUniqueViolation(err) {
			return outcome, err
		}
	}
	return outcome, err
}

func (r *VoteRepo) castOnce(ctx context.Context, v *model.Vote, policy model.VotePolicy) (model.VoteOutcome, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	// Lock today's row for this voter and target, if one exists.
	var existingID int64
	var existingType model.VoteType
	err = tx.QueryRow(ctx, `
		SELECT id, vote_type FROM votes
		WHERE voter_kind = $1 AND voter_key = $2
		  AND media_type = $3 AND media_id = $4 AND vote_day = $5
		FOR UPDATE`,
		v.VoterKind, v.VoterKey, v.MediaType, v.MediaID, v.VoteDay).Scan(&existingID, &existingType)

	var existing *model.VoteType
	switch {
	case err == nil:
		existing = &existingType
	case errors.Is(err, pgx.ErrNoRows):
	default:
		return "", err
	}

	switch model.ResolveCastAction(existing, v.VoteType, policy) {
	case model.ActionInsert:
		_, err = tx.Exec(ctx, `
			INSERT INTO votes (media_type, media_id, voter_kind, voter_key, voter_name,
			                   vote_type, ip_address, user_agent, device_fingerprint,
			                   fraud_score, country_code, region, city, vote_day, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			v.MediaType, v.MediaID, v.VoterKind, v.VoterKey, v.VoterName,
			v.VoteType, v.IPAddress, v.UserAgent, v.DeviceFingerprint,
			v.FraudScore, v.CountryCode, v.Region, v.City, v.VoteDay, v.CreatedAt)
		if err != nil {
			return "", err
		}
		if err := tx.Commit(ctx); err != nil {
			return "", err
		}
		return model.OutcomeAdded, nil

	case model.ActionUpdate:
		// Keep created_at from the original insert so leaderboard tie-breaks
		// stay stable when a voter flips like and dislike.
		_, err = tx.Exec(ctx, `UPDATE votes SET vote_type = $1 WHERE id = $2`, v.VoteType, existingID)
		if err != nil {
			return "", err
		}
		if err := tx.Commit(ctx); err != nil {
			return "", err
		}
		return model.OutcomeUpdated, nil

	case model.ActionRemove:
		_, err = tx.Exec(ctx, `DELETE FROM votes WHERE id = $1`, existingID)
		if err != nil {
			return "", err
		}
		if err := tx.Commit(ctx); err != nil {
			return "", err
		}
		return model.OutcomeRemoved, nil

	default:
		return "", ErrDuplicateDay
	}
}

// ListForIdentityOnDay returns the voter's effective votes for one UTC day,
// newest first, joined with the content titles.
func (r *VoteRepo) ListForIdentityOnDay(ctx context.Context, id model.VoterIdentity, day time.Time) ([]model.MyVote, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT v.media_type, v.media_id, c.title, v.vote_type, v.created_at
		FROM votes v
		JOIN content c ON c.media_type = v.media_type AND c.id = v.media_id
		WHERE v.voter_kind = $1 AND v.voter_key = $2 AND v.vote_day = $3
		ORDER BY v.created_at DESC`,
		id.Kind, id.Key, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	votes := make([]model.MyVote, 0)
	for rows.Next() {
		var mv model.MyVote
		if err := rows.Scan(&mv.MediaType, &mv.MediaID, &mv.Title, &mv.VoteType, &mv.CreatedAt); err != nil {
			return nil, err
		}
		votes = append(votes, mv)
	}
	return votes, rows.Err()
}

// ExportVoters returns every vote recorded against a board's content, oldest
// first, with the columns the admin CSV export needs.
func (r *VoteRepo) ExportVoters(ctx context.Context, boardID int64) ([]model.VoterExportRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT v.voter_kind, v.voter_key, v.voter_name,
		       COALESCE(v.country_code, ''), COALESCE(v.city, ''),
		       v.ip_address, v.created_at
		FROM votes v
		JOIN content c ON c.media_type = v.media_type AND c.id = v.media_id
		WHERE c.board_id = $1
		ORDER BY v.created_at ASC`,
		boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.VoterExportRow, 0)
	for rows.Next() {
		var row model.VoterExportRow
		if err := rows.Scan(&row.VoterKind, &row.VoterKey, &row.VoterName,
			&row.CountryCode, &row.City, &row.IPAddress, &row.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
