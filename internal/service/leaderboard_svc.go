package service

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgwilde8/urvote-rocks/internal/metrics"
	"github.com/pgwilde8/urvote-rocks/internal/model"
)

// ContentTally is the raw per-content like/dislike count the ranking runs on.
type ContentTally struct {
	ContentID  int64
	Title      string
	ArtistName string
	CreatedAt  time.Time
	Likes      int64
	Dislikes   int64
}

// LeaderboardService computes ranked standings from the vote ledger. Nothing
// is precomputed or stored: every result is derived from the ledger at query
// time, cached only under a version-stamped key.
type LeaderboardService struct {
	pool  *pgxpool.Pool
	cache *CacheService
}

func NewLeaderboardService(pool *pgxpool.Pool, cache *CacheService) *LeaderboardService {
	return &LeaderboardService{pool: pool, cache: cache}
}

// Query returns the ranked leaderboard for one board and media type.
// Uses cache-aside keyed on the board's invalidation version, so results go
// stale the moment a vote lands.
func (s *LeaderboardService) Query(ctx context.Context, board *model.Board, q model.LeaderboardQuery) (*model.Leaderboard, error) {
	q.BoardID = board.ID

	version := s.cache.BoardVersion(ctx, board.ID)
	key := LeaderboardKey(board.ID, version, q)

	// Try cache first
	cached, err := s.cache.GetLeaderboard(ctx, key)
	if err != nil {
		log.Printf("cache: leaderboard get error: %v", err)
	} else if cached != nil {
		var lb model.Leaderboard
		if err := json.Unmarshal(cached, &lb); err == nil {
			return &lb, nil
		}
	}

	// Cache miss — aggregate from the ledger
	start := time.Now()
	tallies, err := s.fetchTallies(ctx, q)
	metrics.Metrics.LeaderboardQueryDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	lb := &model.Leaderboard{
		BoardSlug: board.Slug,
		MediaType: q.MediaType,
		Scoring:   q.Scoring,
		Entries:   RankTallies(tallies, q.Scoring, q.IncludeZero, q.Limit),
	}

	// Populate cache
	if err := s.cache.SetLeaderboard(ctx, key, lb); err != nil {
		log.Printf("cache: leaderboard set error: %v", err)
	}

	return lb, nil
}

// fetchTallies counts likes and dislikes per approved content item. The LEFT
// JOIN keeps zero-vote content in the result so include_zero queries can show
// it; RankTallies drops it otherwise.
func (s *LeaderboardService) fetchTallies(ctx context.Context, q model.LeaderboardQuery) ([]ContentTally, error) {
	query := `
		SELECT c.id, c.title, c.artist_name, c.created_at,
		       COUNT(v.id) FILTER (WHERE v.vote_type = 'like')    AS likes,
		       COUNT(v.id) FILTER (WHERE v.vote_type = 'dislike') AS dislikes
		FROM content c
		LEFT JOIN votes v ON v.media_type = c.media_type AND v.media_id = c.id
		     AND ($3 = '' OR v.country_code = $3)
		WHERE c.board_id = $1 AND c.media_type = $2 AND c.is_approved
		GROUP BY c.id`

	rows, err := s.pool.Query(ctx, query, q.BoardID, q.MediaType, q.Country)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tallies []ContentTally
	for rows.Next() {
		var t ContentTally
		if err := rows.Scan(&t.ContentID, &t.Title, &t.ArtistName, &t.CreatedAt, &t.Likes, &t.Dislikes); err != nil {
			return nil, err
		}
		tallies = append(tallies, t)
	}
	return tallies, rows.Err()
}

// RankTallies orders tallies under the given scoring mode and assigns
// 1-based ranks. Ordering is fully deterministic: score descending, then
// earliest content created_at, then lowest id. Content with no votes at all
// is omitted unless includeZero is set.
func RankTallies(tallies []ContentTally, scoring model.ScoringMode, includeZero bool, limit int) []model.LeaderboardEntry {
	entries := make([]model.LeaderboardEntry, 0, len(tallies))
	for _, t := range tallies {
		if !includeZero && t.Likes == 0 && t.Dislikes == 0 {
			continue
		}
		score := t.Likes
		if scoring == model.ScoringNet {
			score = t.Likes - t.Dislikes
		}
		entries = append(entries, model.LeaderboardEntry{
			ContentID:  t.ContentID,
			Title:      t.Title,
			ArtistName: t.ArtistName,
			VoteCount:  score,
			CreatedAt:  t.CreatedAt,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].VoteCount != entries[j].VoteCount {
			return entries[i].VoteCount > entries[j].VoteCount
		}
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		}
		return entries[i].ContentID < entries[j].ContentID
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
