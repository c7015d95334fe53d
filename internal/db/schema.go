package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied idempotently at startup. The unique index on
// (voter_kind, voter_key, media_type, media_id, vote_day) is what makes the
// ledger's one-effective-vote-per-day invariant hold under concurrent casts.
const schema = `
CREATE TABLE IF NOT EXISTS boards (
    id               BIGSERIAL PRIMARY KEY,
    slug             VARCHAR(64) UNIQUE NOT NULL,
    name             VARCHAR(255) NOT NULL DEFAULT '',
    allow_music      BOOLEAN NOT NULL DEFAULT TRUE,
    allow_video      BOOLEAN NOT NULL DEFAULT TRUE,
    allow_visuals    BOOLEAN NOT NULL DEFAULT TRUE,
    require_approval BOOLEAN NOT NULL DEFAULT TRUE,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS accounts (
    id           BIGSERIAL PRIMARY KEY,
    email        VARCHAR(255) UNIQUE NOT NULL,
    display_name VARCHAR(255) NOT NULL DEFAULT '',
    is_active    BOOLEAN NOT NULL DEFAULT TRUE,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS content (
    id          BIGSERIAL PRIMARY KEY,
    board_id    BIGINT NOT NULL REFERENCES boards(id) ON DELETE CASCADE,
    media_type  VARCHAR(10) NOT NULL CHECK (media_type IN ('music', 'video', 'visuals')),
    title       VARCHAR(255) NOT NULL,
    artist_name VARCHAR(255) NOT NULL DEFAULT '',
    is_approved BOOLEAN NOT NULL DEFAULT FALSE,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_content_board_type
    ON content (board_id, media_type) WHERE is_approved;

CREATE TABLE IF NOT EXISTS votes (
    id                 BIGSERIAL PRIMARY KEY,
    media_type         VARCHAR(10) NOT NULL CHECK (media_type IN ('music', 'video', 'visuals')),
    media_id           BIGINT NOT NULL REFERENCES content(id) ON DELETE CASCADE,
    voter_kind         VARCHAR(13) NOT NULL CHECK (voter_kind IN ('authenticated', 'anonymous')),
    voter_key          VARCHAR(255) NOT NULL,
    voter_name         VARCHAR(255) NOT NULL DEFAULT '',
    vote_type          VARCHAR(7) NOT NULL CHECK (vote_type IN ('like', 'dislike')),
    ip_address         VARCHAR(45) NOT NULL DEFAULT '',
    user_agent         VARCHAR(512) NOT NULL DEFAULT '',
    device_fingerprint VARCHAR(64) NOT NULL DEFAULT '',
    fraud_score        REAL NOT NULL DEFAULT 0.5,
    country_code       VARCHAR(2),
    region             VARCHAR(100),
    city               VARCHAR(100),
    vote_day           DATE NOT NULL,
    created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS uq_votes_voter_target_day
    ON votes (voter_kind, voter_key, media_type, media_id, vote_day);

CREATE INDEX IF NOT EXISTS idx_votes_media
    ON votes (media_type, media_id, vote_type);

CREATE INDEX IF NOT EXISTS idx_votes_day
    ON votes (vote_day);
`

// Migrate applies the schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
