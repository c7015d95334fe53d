package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/pgwilde8/urvote-rocks/internal/handler"
	"github.com/pgwilde8/urvote-rocks/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Vote        *handler.VoteHandler
	MyVotes     *handler.MyVotesHandler
	Leaderboard *handler.LeaderboardHandler
	Board       *handler.BoardHandler
	Stats       *handler.StatsHandler
	Export      *handler.ExportHandler
	Health      *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(middleware.NewCORS(corsOrigins))
	app.Use(handler.MetricsMiddleware())

	// Probes and metrics (before API group, no limits)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	voteRL := middleware.NewVoteRateLimiter()
	readRL := middleware.NewBoardReadRateLimiter()
	statsRL := middleware.NewStatsRateLimiter()
	exportRL := middleware.NewExportRateLimiter()

	// API routes
	api := app.Group("/api")

	// Board reads
	api.Get("/boards/:slug", h.Board.GetBySlug, readRL.Handler())
	api.Get("/boards/:slug/content", h.Board.ListContent, readRL.Handler())
	api.Get("/boards/:slug/leaderboard", h.Leaderboard.Get, readRL.Handler())

	// Vote intake
	api.Post("/boards/:slug/content/:mediaType/:mediaId/vote", h.Vote.CastOnContent, voteRL.Handler())
	api.Post("/songs/:songId/vote", h.Vote.CastOnSong, voteRL.Handler())
	api.Get("/my-votes", h.MyVotes.List, readRL.Handler())

	// Stats
	api.Get("/boards/:slug/vote-stats", h.Stats.GetVoteStats, statsRL.Handler())
	api.Get("/boards/:slug/vote-stats/daily", h.Stats.GetDailySeries, statsRL.Handler())

	// Admin export
	api.Get("/boards/:slug/export/voters.csv", h.Export.VotersCSV, exportRL.Handler())
}
