package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/pgwilde8/urvote-rocks/internal/middleware"
	"github.com/pgwilde8/urvote-rocks/internal/model"
	"github.com/pgwilde8/urvote-rocks/internal/service"
)

type BoardHandler struct {
	svc *service.BoardService
}

func NewBoardHandler(svc *service.BoardService) *BoardHandler {
	return &BoardHandler{svc: svc}
}

// GetBySlug handles GET /api/boards/:slug
func (h *BoardHandler) GetBySlug(c fiber.Ctx) error {
	slug, errMsg := middleware.ValidateSlug(c.Params("slug"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	board, err := h.svc.Lookup(c.Context(), slug)
	if err != nil {
		if errors.Is(err, service.ErrBoardNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Board not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch board")
	}

	return c.JSON(board)
}

// ListContent handles GET /api/boards/:slug/content
func (h *BoardHandler) ListContent(c fiber.Ctx) error {
	slug, errMsg := middleware.ValidateSlug(c.Params("slug"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var mediaType model.MediaType
	if raw := fiber.Query[string](c, "media_type"); raw != "" {
		mediaType, errMsg = middleware.ValidateMediaType(raw)
		if errMsg != "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
		}
	}

	limit := middleware.NormalizeLimit(fiber.Query[int](c, "limit"),
		middleware.DefaultContentLimit, middleware.MaxContentLimit)
	offset := fiber.Query[int](c, "offset")
	if offset < 0 {
		offset = 0
	}

	board, err := h.svc.BySlug(c.Context(), slug)
	if err != nil {
		if errors.Is(err, service.ErrBoardNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Board not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch board")
	}

	items, err := h.svc.ApprovedContent(c.Context(), board, mediaType, limit, offset)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch content")
	}

	return c.JSON(fiber.Map{
		"board":   board.Slug,
		"content": items,
		"count":   len(items),
	})
}
