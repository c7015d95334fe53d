package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/pgwilde8/urvote-rocks/internal/metrics"
	"github.com/pgwilde8/urvote-rocks/internal/middleware"
	"github.com/pgwilde8/urvote-rocks/internal/model"
	"github.com/pgwilde8/urvote-rocks/internal/service"
)

type VoteHandler struct {
	svc *service.VoteService
}

func NewVoteHandler(svc *service.VoteService) *VoteHandler {
	return &VoteHandler{svc: svc}
}

// CastOnContent handles POST /api/boards/:slug/content/:mediaType/:mediaId/vote
func (h *VoteHandler) CastOnContent(c fiber.Ctx) error {
	slug, errMsg := middleware.ValidateSlug(c.Params("slug"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	mediaType, errMsg := middleware.ValidateMediaType(c.Params("mediaType"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	mediaID, errMsg := middleware.ValidateMediaID(c.Params("mediaId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var req model.CastRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	voteType, errMsg := middleware.ValidateVoteType(req.VoteType)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	// Without a bearer credential the voter email is the identity key.
	bearer := service.BearerToken(c.Get("Authorization"))
	if bearer == "" {
		email, errMsg := middleware.ValidateVoterEmail(req.VoterEmail)
		if errMsg != "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_IDENTITY", errMsg)
		}
		req.VoterEmail = email
	}

	outcome, err := h.svc.CastOnBoard(c.Context(), service.CastInput{
		BoardSlug:      slug,
		MediaType:      mediaType,
		MediaID:        mediaID,
		VoteType:       voteType,
		BearerToken:    bearer,
		VoterEmail:     req.VoterEmail,
		VoterName:      middleware.ValidateVoterName(req.VoterName),
		ChallengeToken: req.ChallengeToken,
		IPAddress:      c.IP(),
		UserAgent:      middleware.ValidateUserAgent(c.Get("User-Agent")),
	})
	if err != nil {
		return voteError(c, err)
	}

	metrics.Metrics.VotesTotal.WithLabelValues(string(outcome)).Inc()
	return c.JSON(model.CastResponse{Success: true, Action: outcome})
}

// CastOnSong handles POST /api/songs/:songId/vote
func (h *VoteHandler) CastOnSong(c fiber.Ctx) error {
	songID, errMsg := middleware.ValidateMediaID(c.Params("songId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "songId must be a positive integer")
	}

	bearer := service.BearerToken(c.Get("Authorization"))
	if bearer == "" {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "Sign in to vote on songs")
	}

	// Body is optional; it only ever carries a challenge token.
	var req model.StrictVoteRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		}
	}

	outcome, err := h.svc.CastOnSong(c.Context(), service.StrictCastInput{
		SongID:         songID,
		BearerToken:    bearer,
		ChallengeToken: req.ChallengeToken,
		IPAddress:      c.IP(),
		UserAgent:      middleware.ValidateUserAgent(c.Get("User-Agent")),
	})
	if err != nil {
		return voteError(c, err)
	}

	metrics.Metrics.VotesTotal.WithLabelValues(string(outcome)).Inc()
	return c.JSON(model.CastResponse{Success: true, Action: outcome})
}

// voteError maps vote pipeline failures to API responses. Both fraud-gate
// rejections share one generic response so callers cannot probe which check
// fired.
func voteError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrBoardNotFound):
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Board not found")
	case errors.Is(err, service.ErrContentNotFound):
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Content not found")
	case errors.Is(err, service.ErrMediaTypeNotAllowed):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MEDIA_TYPE_NOT_ALLOWED", "This board does not accept that media type")
	case errors.Is(err, service.ErrInvalidIdentity):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_IDENTITY", "A valid voter email is required")
	case errors.Is(err, service.ErrUnauthenticated):
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "Invalid or expired credentials")
	case errors.Is(err, service.ErrDisposableEmail):
		metrics.Metrics.VoteRejections.WithLabelValues("disposable_email").Inc()
		return middleware.ErrorResponse(c, fiber.StatusForbidden, "VOTE_REJECTED", "Vote rejected")
	case errors.Is(err, service.ErrSuspiciousActivity):
		metrics.Metrics.VoteRejections.WithLabelValues("suspicious_activity").Inc()
		return middleware.ErrorResponse(c, fiber.StatusForbidden, "VOTE_REJECTED", "Vote rejected")
	case errors.Is(err, service.ErrDuplicateVoteToday):
		metrics.Metrics.VoteRejections.WithLabelValues("duplicate").Inc()
		return middleware.ErrorResponse(c, fiber.StatusConflict, "DUPLICATE_VOTE", "You already voted for this song today. Try again tomorrow.")
	case errors.Is(err, service.ErrVoteBurst):
		metrics.Metrics.VoteRejections.WithLabelValues("burst").Inc()
		return middleware.ErrorResponse(c, fiber.StatusTooManyRequests, "RATE_LIMITED", "Too many votes. Slow down and try again.")
	default:
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process vote")
	}
}
