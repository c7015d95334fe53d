package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pgwilde8/urvote-rocks/internal/metrics"
	"github.com/pgwilde8/urvote-rocks/internal/model"
	"github.com/pgwilde8/urvote-rocks/pkg/hash"
)

// Cache TTLs. Aggregate keys embed the board version, so a stale entry is
// never served after a vote lands; the TTLs only bound memory.
const (
	BoardCacheTTL       = 15 * time.Minute
	LeaderboardCacheTTL = 5 * time.Minute
	StatsCacheTTL       = 5 * time.Minute
)

// CacheService provides a Redis cache-aside layer for board lookups and vote
// aggregates, plus the cross-replica burst counter for vote intake.
type CacheService struct {
	rdb         *redis.Client
	burstLimit  int
	burstWindow time.Duration
}

// NewCacheService creates a new CacheService. If redisURL is empty or the
// connection fails, it returns a CacheService with a nil client: cache
// operations become no-ops and the burst guard admits everything.
func NewCacheService(redisURL string, burstLimit int, burstWindow time.Duration) *CacheService {
	svc := &CacheService{burstLimit: burstLimit, burstWindow: burstWindow}

	if redisURL == "" {
		log.Println("redis: no URL configured, caching and burst limits disabled")
		return svc
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("redis: invalid URL %q, caching disabled: %v", redisURL, err)
		return svc
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis: connection failed, caching disabled: %v", err)
		return svc
	}

	log.Println("redis: connected, caching enabled")
	svc.rdb = rdb
	return svc
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// BoardVersion returns the board's invalidation counter. Every ledger write
// bumps it, so aggregate cache keys built from it go stale in one step. A
// disabled or failing cache reads as version 0.
func (c *CacheService) BoardVersion(ctx context.Context, boardID int64) int64 {
	if c.rdb == nil {
		return 0
	}
	v, err := c.rdb.Get(ctx, versionKey(boardID)).Int64()
	if err != nil {
		return 0
	}
	return v
}

// BumpBoardVersion advances the board's invalidation counter.
func (c *CacheService) BumpBoardVersion(ctx context.Context, boardID int64) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Incr(ctx, versionKey(boardID)).Err()
}

// AllowVoteBurst counts one vote attempt against the voter's fixed window and
// reports whether it is still within the limit. Degrades permissive: with no
// Redis, no configured limit, or a Redis error, every attempt is admitted.
func (c *CacheService) AllowVoteBurst(ctx context.Context, id model.VoterIdentity) bool {
	if c.rdb == nil || c.burstLimit <= 0 || c.burstWindow <= 0 {
		return true
	}

	key := burstKey(id)
	count, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		log.Printf("redis: burst counter error, admitting vote: %v", err)
		return true
	}
	if count == 1 {
		if err := c.rdb.Expire(ctx, key, c.burstWindow).Err(); err != nil {
			log.Printf("redis: burst window expire error: %v", err)
		}
	}
	return count <= int64(c.burstLimit)
}

// GetBoard retrieves a cached board response. Returns nil if not cached or
// the cache is disabled.
func (c *CacheService) GetBoard(ctx context.Context, slug string) ([]byte, error) {
	return c.get(ctx, boardKey(slug))
}

// SetBoard stores a board response in cache.
func (c *CacheService) SetBoard(ctx context.Context, slug string, data any) error {
	return c.set(ctx, boardKey(slug), data, BoardCacheTTL)
}

// GetLeaderboard retrieves a cached leaderboard by its full query key.
func (c *CacheService) GetLeaderboard(ctx context.Context, key string) ([]byte, error) {
	return c.get(ctx, key)
}

// SetLeaderboard stores a leaderboard result under its full query key.
func (c *CacheService) SetLeaderboard(ctx context.Context, key string, data any) error {
	return c.set(ctx, key, data, LeaderboardCacheTTL)
}

// GetStats retrieves a cached stats payload by key.
func (c *CacheService) GetStats(ctx context.Context, key string) ([]byte, error) {
	return c.get(ctx, key)
}

// SetStats stores a stats payload under its key.
func (c *CacheService) SetStats(ctx context.Context, key string, data any) error {
	return c.set(ctx, key, data, StatsCacheTTL)
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func (c *CacheService) get(ctx context.Context, key string) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		metrics.Metrics.CacheMisses.Inc()
		return nil, nil
	}
	if err == nil {
		metrics.Metrics.CacheHits.Inc()
	}
	return data, err
}

func (c *CacheService) set(ctx context.Context, key string, data any, ttl time.Duration) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, ttl).Err()
}

func boardKey(slug string) string {
	return fmt.Sprintf("board:%s", slug)
}

func versionKey(boardID int64) string {
	return fmt.Sprintf("bv:%d", boardID)
}

func burstKey(id model.VoterIdentity) string {
	return fmt.Sprintf("burst:%s", hash.SHA256Hex(string(id.Kind)+"|"+id.Key)[:32])
}

// LeaderboardKey builds the cache key for one leaderboard query. The board
// version is part of the key, so bumping the version orphans every cached
// variant at once.
func LeaderboardKey(boardID, version int64, q model.LeaderboardQuery) string {
	return fmt.Sprintf("lb:%d:v%d:%s:%s:c%s:l%d:z%t",
		boardID, version, q.MediaType, q.Scoring, q.Country, q.Limit, q.IncludeZero)
}

// StatsKey builds the cache key for a board's vote-stats payload.
func StatsKey(boardID, version int64) string {
	return fmt.Sprintf("stats:%d:v%d", boardID, version)
}

// DailyStatsKey builds the cache key for a board's daily vote series. The
// current UTC day is part of the key so the series rolls over at midnight.
func DailyStatsKey(boardID, version int64, days int, day time.Time) string {
	return fmt.Sprintf("daily:%d:v%d:d%d:%s", boardID, version, days, day.Format("2006-01-02"))
}
