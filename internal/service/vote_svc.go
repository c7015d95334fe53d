package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pgwilde8/urvote-rocks/internal/model"
	"github.com/pgwilde8/urvote-rocks/internal/repository"
)

// Vote pipeline failures surfaced to the HTTP edge.
var (
	ErrMediaTypeNotAllowed = errors.New("media type not allowed on this board")
	ErrContentNotFound     = errors.New("content not found")
	ErrDuplicateVoteToday  = errors.New("already voted on this content today")
	ErrVoteBurst           = errors.New("vote burst limit exceeded")
)

// VoteService runs the full vote intake pipeline: identity resolution, fraud
// gate, burst guard, ledger write, cache invalidation.
type VoteService struct {
	votes    *repository.VoteRepo
	content  *repository.ContentRepo
	boards   *BoardService
	identity *IdentityService
	fraud    *FraudService
	geo      *GeoService
	cache    *CacheService
}

func NewVoteService(
	votes *repository.VoteRepo,
	content *repository.ContentRepo,
	boards *BoardService,
	identity *IdentityService,
	fraud *FraudService,
	geo *GeoService,
	cache *CacheService,
) *VoteService {
	return &VoteService{
		votes:    votes,
		content:  content,
		boards:   boards,
		identity: identity,
		fraud:    fraud,
		geo:      geo,
		cache:    cache,
	}
}

// CastInput carries one vote attempt against board content.
type CastInput struct {
	BoardSlug      string
	MediaType      model.MediaType
	MediaID        int64
	VoteType       model.VoteType
	BearerToken    string
	VoterEmail     string
	VoterName      string
	ChallengeToken string
	IPAddress      string
	UserAgent      string
}

// CastOnBoard processes a vote on board content under the toggle policy:
// repeating today's vote removes it, the opposite vote replaces it.
func (s *VoteService) CastOnBoard(ctx context.Context, in CastInput) (model.VoteOutcome, error) {
	board, err := s.boards.BySlug(ctx, in.BoardSlug)
	if err != nil {
		return "", err
	}
	if !board.Allows(in.MediaType) {
		return "", ErrMediaTypeNotAllowed
	}

	identity, err := s.identity.Resolve(ctx, in.BearerToken, in.VoterEmail)
	if err != nil {
		return "", err
	}

	content, err := s.content.FindApproved(ctx, in.MediaType, in.MediaID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrContentNotFound
		}
		return "", err
	}
	// A valid content id on the wrong board reads the same as a missing one.
	if content.BoardID != board.ID {
		return "", ErrContentNotFound
	}

	gate, err := s.fraud.Check(ctx, GateInput{
		Identity:       identity,
		IPAddress:      in.IPAddress,
		UserAgent:      in.UserAgent,
		ChallengeToken: in.ChallengeToken,
	})
	if err != nil {
		return "", err
	}

	if !s.cache.AllowVoteBurst(ctx, identity) {
		return "", ErrVoteBurst
	}

	return s.commit(ctx, board.ID, identity, in.VoteType, in, gate, model.PolicyToggle)
}

// StrictCastInput carries one vote attempt against the authenticated song
// endpoint.
type StrictCastInput struct {
	SongID         int64
	BearerToken    string
	ChallengeToken string
	IPAddress      string
	UserAgent      string
}

// CastOnSong processes a vote under the strict daily policy: authenticated
// voters only, the vote type is implicitly a like, and a second attempt on
// the same song the same day is rejected instead of toggled.
func (s *VoteService) CastOnSong(ctx context.Context, in StrictCastInput) (model.VoteOutcome, error) {
	if in.BearerToken == "" {
		return "", ErrUnauthenticated
	}
	identity, err := s.identity.Resolve(ctx, in.BearerToken, "")
	if err != nil {
		return "", err
	}

	content, err := s.content.FindApproved(ctx, model.MediaMusic, in.SongID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrContentNotFound
		}
		return "", err
	}

	gate, err := s.fraud.Check(ctx, GateInput{
		Identity:       identity,
		IPAddress:      in.IPAddress,
		UserAgent:      in.UserAgent,
		ChallengeToken: in.ChallengeToken,
	})
	if err != nil {
		return "", err
	}

	if !s.cache.AllowVoteBurst(ctx, identity) {
		return "", ErrVoteBurst
	}

	castIn := CastInput{
		MediaType: model.MediaMusic,
		MediaID:   in.SongID,
		IPAddress: in.IPAddress,
		UserAgent: in.UserAgent,
	}
	return s.commit(ctx, content.BoardID, identity, model.VoteLike, castIn, gate, model.PolicyStrictDaily)
}

// commit writes the admitted vote to the ledger and bumps the board's cache
// version so every cached aggregate goes stale at once.
func (s *VoteService) commit(
	ctx context.Context,
	boardID int64,
	identity model.VoterIdentity,
	voteType model.VoteType,
	in CastInput,
	gate GateResult,
	policy model.VotePolicy,
) (model.VoteOutcome, error) {
	now := time.Now().UTC()

	vote := &model.Vote{
		MediaType:         in.MediaType,
		MediaID:           in.MediaID,
		VoterKind:         identity.Kind,
		VoterKey:          identity.Key,
		VoterName:         in.VoterName,
		VoteType:          voteType,
		IPAddress:         in.IPAddress,
		UserAgent:         in.UserAgent,
		DeviceFingerprint: gate.Fingerprint,
		FraudScore:        gate.FraudScore,
		VoteDay:           model.VoteDay(now),
		CreatedAt:         now,
	}

	// Best-effort geo enrichment; a miss records null location fields.
	if loc := s.geo.Lookup(ctx, in.IPAddress); loc != nil {
		if loc.CountryCode != "" {
			vote.CountryCode = &loc.CountryCode
		}
		if loc.Region != "" {
			vote.Region = &loc.Region
		}
		if loc.City != "" {
			vote.City = &loc.City
		}
	}

	outcome, err := s.votes.Cast(ctx, vote, policy)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateDay) {
			return "", ErrDuplicateVoteToday
		}
		return "", err
	}

	if err := s.cache.BumpBoardVersion(ctx, boardID); err != nil {
		log.Printf("cache: board version bump error: %v", err)
	}

	return outcome, nil
}

// MyVotes returns the caller's effective votes for the current UTC day.
func (s *VoteService) MyVotes(ctx context.Context, bearer, voterEmail string) ([]model.MyVote, error) {
	identity, err := s.identity.Resolve(ctx, bearer, voterEmail)
	if err != nil {
		return nil, err
	}
	return s.votes.ListForIdentityOnDay(ctx, identity, model.VoteDay(time.Now()))
}
