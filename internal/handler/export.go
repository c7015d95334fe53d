package handler

import (
	"bytes"
	"encoding/csv"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/pgwilde8/urvote-rocks/internal/middleware"
	"github.com/pgwilde8/urvote-rocks/internal/repository"
	"github.com/pgwilde8/urvote-rocks/internal/service"
	"github.com/pgwilde8/urvote-rocks/pkg/hash"
)

// ExportHandler serves the admin voter export for marketing followup.
// Guarded by a static admin key; voter IPs leave only as salted hashes.
type ExportHandler struct {
	boards   *service.BoardService
	votes    *repository.VoteRepo
	adminKey string
	ipSalt   string
}

func NewExportHandler(boards *service.BoardService, votes *repository.VoteRepo, adminKey, ipSalt string) *ExportHandler {
	return &ExportHandler{boards: boards, votes: votes, adminKey: adminKey, ipSalt: ipSalt}
}

// VotersCSV handles GET /api/boards/:slug/export/voters.csv
func (h *ExportHandler) VotersCSV(c fiber.Ctx) error {
	// An unset admin key disables the export entirely.
	if h.adminKey == "" || c.Get("X-Admin-Key") != h.adminKey {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "Valid admin key required")
	}

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

	rows, err := h.votes.ExportVoters(c.Context(), board.ID)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to export voters")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"voter_kind", "voter", "name", "country", "city", "ip_hash", "voted_at"})
	for _, row := range rows {
		_ = w.Write([]string{
			string(row.VoterKind),
			row.VoterKey,
			row.VoterName,
			row.CountryCode,
			row.City,
			hash.HashIP(row.IPAddress, h.ipSalt),
			row.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build export")
	}

	c.Set("Content-Type", "text/csv; charset=utf-8")
	c.Set("Content-Disposition", "attachment; filename=voters-"+board.Slug+".csv")
	return c.Send(buf.Bytes())
}
