package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/pgwilde8/urvote-rocks/internal/middleware"
	"github.com/pgwilde8/urvote-rocks/internal/service"
)

type StatsHandler struct {
	boards *service.BoardService
	svc    *service.StatsService
}

func NewStatsHandler(boards *service.BoardService, svc *service.StatsService) *StatsHandler {
	return &StatsHandler{boards: boards, svc: svc}
}

// GetVoteStats handles GET /api/boards/:slug/vote-stats
func (h *StatsHandler) GetVoteStats(c fiber.Ctx) error {
	slug, errMsg := middleware.ValidateSlug(c.Params("slug"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	board, err := h.boards.BySlug(c.Context(), slug)
	if err != nil {
		if errors.Is(err, service.ErrBoardNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Board not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch board")
	}

	stats, err := h.svc.BoardStats(c.Context(), board)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch vote statistics")
	}

	return c.JSON(stats)
}

// GetDailySeries handles GET /api/boards/:slug/vote-stats/daily
func (h *StatsHandler) GetDailySeries(c fiber.Ctx) error {
	slug, errMsg := middleware.ValidateSlug(c.Params("slug"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	board, err := h.boards.BySlug(c.Context(), slug)
	if err != nil {
		if errors.Is(err, service.ErrBoardNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Board not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch board")
	}

	days := fiber.Query[int](c, "days", middleware.DefaultStatsDays)
	if days <= 0 {
		days = middleware.DefaultStatsDays
	}
	if days > middleware.MaxStatsDays {
		days = middleware.MaxStatsDays
	}

	series, err := h.svc.DailySeries(c.Context(), board, days)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch daily statistics")
	}

	return c.JSON(fiber.Map{
		"board": board.Slug,
		"days":  days,
		"daily": series,
	})
}
