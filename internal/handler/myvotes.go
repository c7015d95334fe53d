package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/pgwilde8/urvote-rocks/internal/middleware"
	"github.com/pgwilde8/urvote-rocks/internal/service"
)

type MyVotesHandler struct {
	svc *service.VoteService
}

func NewMyVotesHandler(svc *service.VoteService) *MyVotesHandler {
	return &MyVotesHandler{svc: svc}
}

// List handles GET /api/my-votes
// Returns the caller's effective votes for the current UTC day, identified
// either by bearer token or by voter_email.
func (h *MyVotesHandler) List(c fiber.Ctx) error {
	bearer := service.BearerToken(c.Get("Authorization"))
	email := fiber.Query[string](c, "voter_email")

	if bearer == "" {
		var errMsg string
		email, errMsg = middleware.ValidateVoterEmail(email)
		if errMsg != "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_IDENTITY", errMsg)
		}
	}

	votes, err := h.svc.MyVotes(c.Context(), bearer, email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidIdentity):
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_IDENTITY", "A valid voter_email is required")
		case errors.Is(err, service.ErrUnauthenticated):
			return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "Invalid or expired credentials")
		default:
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch votes")
		}
	}

	return c.JSON(fiber.Map{
		"day":   time.Now().UTC().Format("2006-01-02"),
		"votes": votes,
	})
}
