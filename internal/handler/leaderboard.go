package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/pgwilde8/urvote-rocks/internal/middleware"
	"github.com/pgwilde8/urvote-rocks/internal/model"
	"github.com/pgwilde8/urvote-rocks/internal/service"
)

type LeaderboardHandler struct {
	boards *service.BoardService
	svc    *service.LeaderboardService
}

func NewLeaderboardHandler(boards *service.BoardService, svc *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{boards: boards, svc: svc}
}

// Get handles GET /api/boards/:slug/leaderboard
func (h *LeaderboardHandler) Get(c fiber.Ctx) error {
	slug, errMsg := middleware.ValidateSlug(c.Params("slug"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	mediaType, errMsg := middleware.ValidateMediaType(fiber.Query[string](c, "media_type"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	scoring, errMsg := middleware.ValidateScoring(fiber.Query[string](c, "scoring"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	country, errMsg := middleware.ValidateCountry(fiber.Query[string](c, "country"))
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

	lb, err := h.svc.Query(c.Context(), board, model.LeaderboardQuery{
		MediaType: mediaType,
		Scoring:   scoring,
		Country:   country,
		Limit: middleware.NormalizeLimit(fiber.Query[int](c, "limit"),
			middleware.DefaultLeaderboardLimit, middleware.MaxLeaderboardLimit),
		IncludeZero: fiber.Query[bool](c, "include_zero"),
	})
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute leaderboard")
	}

	return c.JSON(lb)
}
