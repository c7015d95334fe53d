package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pgwilde8/urvote-rocks/internal/auth"
	"github.com/pgwilde8/urvote-rocks/internal/config"
	"github.com/pgwilde8/urvote-rocks/internal/db"
	"github.com/pgwilde8/urvote-rocks/internal/handler"
	"github.com/pgwilde8/urvote-rocks/internal/metrics"
	"github.com/pgwilde8/urvote-rocks/internal/middleware"
	"github.com/pgwilde8/urvote-rocks/internal/repository"
	"github.com/pgwilde8/urvote-rocks/internal/router"
	"github.com/pgwilde8/urvote-rocks/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	rootCmd := &cobra.Command{
		Use:   "urvote-server",
		Short: "UrVote media boards voting backend",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
	setupFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("port", "8080", "HTTP listen port")
	cmd.PersistentFlags().String("database-url", "", "PostgreSQL connection URL")
	cmd.PersistentFlags().String("redis-url", "", "Redis URL for caching and burst limits")
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("cors-origins", "*", "Comma-separated allowed CORS origins")
	cmd.PersistentFlags().String("auth-secret", "", "HS256 signing secret for bearer tokens")
	cmd.PersistentFlags().String("admin-api-key", "", "API key guarding voter exports")

	bindFlag(cmd, "port", "port")
	bindFlag(cmd, "database_url", "database-url")
	bindFlag(cmd, "redis_url", "redis-url")
	bindFlag(cmd, "log_level", "log-level")
	bindFlag(cmd, "cors_origins", "cors-origins")
	bindFlag(cmd, "auth_secret", "auth-secret")
	bindFlag(cmd, "admin_api_key", "admin-api-key")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	// .env is a development convenience; absence is fine.
	_ = godotenv.Load()

	v := viper.GetViper()
	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return nil
}

func runServer(ctx context.Context) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	middleware.InitLogger(cfg.LogLevel, "urvote-api")
	logger := middleware.Logger

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	metrics.Init(pool)

	cache := service.NewCacheService(cfg.RedisURL, cfg.BurstLimit, cfg.BurstWindow)
	defer cache.Close()

	var issuer *auth.TokenIssuer
	if cfg.AuthSecret != "" {
		issuer, err = auth.NewTokenIssuer(auth.Config{
			Secret:   cfg.AuthSecret,
			Issuer:   cfg.AuthIssuer,
			Audience: cfg.AuthAudience,
		})
		if err != nil {
			return fmt.Errorf("configure token issuer: %w", err)
		}
	} else {
		logger.Warn().Msg("auth secret not set, authenticated voting disabled")
	}

	boardRepo := repository.NewBoardRepo(pool)
	contentRepo := repository.NewContentRepo(pool)
	accountRepo := repository.NewAccountRepo(pool)
	voteRepo := repository.NewVoteRepo(pool)

	challenge := service.NewChallengeService(service.ChallengeConfig{
		VerifyURL: cfg.ChallengeURL,
		Secret:    cfg.ChallengeSecret,
		Timeout:   cfg.ChallengeTimeout,
	})
	geo := service.NewGeoService(service.GeoConfig{
		BaseURL: cfg.GeoURL,
		Token:   cfg.GeoToken,
		Timeout: cfg.GeoTimeout,
	})

	boardSvc := service.NewBoardService(boardRepo, contentRepo, cache)
	identitySvc := service.NewIdentityService(issuer, accountRepo)
	fraudSvc := service.NewFraudService(cfg.DisposableDomains, challenge)
	voteSvc := service.NewVoteService(voteRepo, contentRepo, boardSvc, identitySvc, fraudSvc, geo, cache)
	leaderboardSvc := service.NewLeaderboardService(pool, cache)
	statsSvc := service.NewStatsService(pool, cache)

	handlers := &router.Handlers{
		Vote:        handler.NewVoteHandler(voteSvc),
		MyVotes:     handler.NewMyVotesHandler(voteSvc),
		Leaderboard: handler.NewLeaderboardHandler(boardSvc, leaderboardSvc),
		Board:       handler.NewBoardHandler(boardSvc),
		Stats:       handler.NewStatsHandler(boardSvc, statsSvc),
		Export:      handler.NewExportHandler(boardSvc, voteRepo, cfg.AdminAPIKey, cfg.IPHashSalt),
		Health:      handler.NewHealthHandler(pool, cache.Client()),
	}

	app := fiber.New(fiber.Config{
		AppName:      "UrVote API",
		ServerHeader: "UrVote",
	})
	router.Setup(app, handlers, cfg.CORSOrigins)

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("environment", cfg.Environment).
			Msg("server starting")
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case <-signalCtx.Done():
		logger.Info().Msg("shutdown signal received, draining requests")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}
