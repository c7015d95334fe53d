package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgwilde8/urvote-rocks/internal/model"
)

// StatsService aggregates participation numbers for a board's admin view.
type StatsService struct {
	pool  *pgxpool.Pool
	cache *CacheService
}

func NewStatsService(pool *pgxpool.Pool, cache *CacheService) *StatsService {
	return &StatsService{pool: pool, cache: cache}
}

// BoardStats returns totals, per-country and per-media-type breakdowns, and
// the top content by likes for one board. Cache-aside on the board version.
func (s *StatsService) BoardStats(ctx context.Context, board *model.Board) (*model.BoardStats, error) {
	version := s.cache.BoardVersion(ctx, board.ID)
	key := StatsKey(board.ID, version)

	cached, err := s.cache.GetStats(ctx, key)
	if err != nil {
		log.Printf("cache: stats get error: %v", err)
	} else if cached != nil {
		var stats model.BoardStats
		if err := json.Unmarshal(cached, &stats); err == nil {
			return &stats, nil
		}
	}

	stats, err := s.fetchBoardStats(ctx, board)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetStats(ctx, key, stats); err != nil {
		log.Printf("cache: stats set error: %v", err)
	}
	return stats, nil
}

func (s *StatsService) fetchBoardStats(ctx context.Context, board *model.Board) (*model.BoardStats, error) {
	stats := &model.BoardStats{
		BoardSlug:      board.Slug,
		VotesByCountry: make(map[string]int64),
		ByMediaType:    make(map[model.MediaType]model.MediaTypeTally),
		TopContent:     make([]model.TopContentEntry, 0),
	}

	// Totals. Distinct voters count across both identity kinds.
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(v.id), COUNT(DISTINCT (v.voter_kind, v.voter_key))
		FROM votes v
		JOIN content c ON c.media_type = v.media_type AND c.id = v.media_id
		WHERE c.board_id = $1`,
		board.ID).Scan(&stats.TotalVotes, &stats.UniqueVoters)
	if err != nil {
		return nil, err
	}

	// Per-country buckets. Votes without a resolved location land in
	// "unknown" so the totals still add up.
	rows, err := s.pool.Query(ctx, `
		SELECT COALESCE(v.country_code, 'unknown'), COUNT(v.id)
		FROM votes v
		JOIN content c ON c.media_type = v.media_type AND c.id = v.media_id
		WHERE c.board_id = $1
		GROUP BY 1`,
		board.ID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var country string
		var count int64
		if err := rows.Scan(&country, &count); err != nil {
			rows.Close()
			return nil, err
		}
		stats.VotesByCountry[country] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Per-media-type tallies, zero-filled for every type the board allows.
	for _, mt := range board.AllowedMediaTypes() {
		stats.ByMediaType[mt] = model.MediaTypeTally{}
	}
	rows, err = s.pool.Query(ctx, `
		SELECT c.media_type,
		       COUNT(v.id) FILTER (WHERE v.vote_type = 'like'),
		       COUNT(v.id) FILTER (WHERE v.vote_type = 'dislike')
		FROM votes v
		JOIN content c ON c.media_type = v.media_type AND c.id = v.media_id
		WHERE c.board_id = $1
		GROUP BY c.media_type`,
		board.ID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var mt model.MediaType
		var tally model.MediaTypeTally
		if err := rows.Scan(&mt, &tally.Likes, &tally.Dislikes); err != nil {
			rows.Close()
			return nil, err
		}
		stats.ByMediaType[mt] = tally
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Top content across all media types, by likes.
	rows, err = s.pool.Query(ctx, `
		SELECT c.media_type, c.id, c.title, COUNT(v.id) AS likes
		FROM content c
		JOIN votes v ON v.media_type = c.media_type AND v.media_id = c.id
		     AND v.vote_type = 'like'
		WHERE c.board_id = $1 AND c.is_approved
		GROUP BY c.id
		ORDER BY likes DESC, c.created_at ASC, c.id ASC
		LIMIT 5`,
		board.ID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var e model.TopContentEntry
		if err := rows.Scan(&e.MediaType, &e.ContentID, &e.Title, &e.Likes); err != nil {
			rows.Close()
			return nil, err
		}
		stats.TopContent = append(stats.TopContent, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

// DailySeries returns the board's vote counts for the trailing N UTC days,
// oldest first, with zero-vote days filled in. Cache-aside keyed on the
// board version and the current day, so the series rolls over at midnight.
func (s *StatsService) DailySeries(ctx context.Context, board *model.Board, days int) ([]model.DailyCount, error) {
	today := model.VoteDay(time.Now())

	version := s.cache.BoardVersion(ctx, board.ID)
	key := DailyStatsKey(board.ID, version, days, today)

	cached, err := s.cache.GetStats(ctx, key)
	if err != nil {
		log.Printf("cache: daily stats get error: %v", err)
	} else if cached != nil {
		var series []model.DailyCount
		if err := json.Unmarshal(cached, &series); err == nil {
			return series, nil
		}
	}

	since := today.AddDate(0, 0, -(days - 1))
	rows, err := s.pool.Query(ctx, `
		SELECT v.vote_day, COUNT(v.id)
		FROM votes v
		JOIN content c ON c.media_type = v.media_type AND c.id = v.media_id
		WHERE c.board_id = $1 AND v.vote_day >= $2
		GROUP BY v.vote_day`,
		board.ID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var day time.Time
		var count int64
		if err := rows.Scan(&day, &count); err != nil {
			return nil, err
		}
		counts[day.Format("2006-01-02")] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	series := FillDailySeries(counts, days, today)

	if err := s.cache.SetStats(ctx, key, series); err != nil {
		log.Printf("cache: daily stats set error: %v", err)
	}
	return series, nil
}

// FillDailySeries expands a sparse per-day count map into a dense,
// chronologically ascending series of exactly days entries ending on the
// given day.
func FillDailySeries(counts map[string]int64, days int, today time.Time) []model.DailyCount {
	if days <= 0 {
		return []model.DailyCount{}
	}

	series := make([]model.DailyCount, 0, days)
	day := model.VoteDay(today).AddDate(0, 0, -(days - 1))
	for i := 0; i < days; i++ {
		key := day.Format("2006-01-02")
		series = append(series, model.DailyCount{Day: key, Votes: counts[key]})
		day = day.AddDate(0, 0, 1)
	}
	return series
}
