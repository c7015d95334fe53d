package service

import (
	"context"
	"errors"
	"strings"

	"github.com/pgwilde8/urvote-rocks/internal/model"
	"github.com/pgwilde8/urvote-rocks/pkg/hash"
)

// Fraud-gate rejections. The HTTP edge maps both to the same generic
// response so callers cannot probe which check fired.
var (
	ErrDisposableEmail    = errors.New("disposable email domain")
	ErrSuspiciousActivity = errors.New("suspicious vote activity")
)

const (
	// DefaultFraudScore is the neutral score assigned when no challenge token
	// arrives or the verifier cannot produce a verdict.
	DefaultFraudScore = 0.5

	// MinFraudScore is the floor below which a vote is rejected outright.
	MinFraudScore = 0.3

	// MinUserAgentLen — anything shorter reads as a scripted client.
	MinUserAgentLen = 20
)

// challengeVerifier resolves a challenge token to a human-likelihood score.
type challengeVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) (float64, error)
}

// FraudService runs the admission checks every vote passes before it may
// touch the ledger.
type FraudService struct {
	disposable map[string]bool
	challenge  challengeVerifier
}

func NewFraudService(disposableDomains []string, challenge *ChallengeService) *FraudService {
	set := make(map[string]bool, len(disposableDomains))
	for _, d := range disposableDomains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			set[d] = true
		}
	}

	svc := &FraudService{disposable: set}
	if challenge != nil {
		svc.challenge = challenge
	}
	return svc
}

// GateInput carries everything the fraud gate inspects about one attempt.
type GateInput struct {
	Identity       model.VoterIdentity
	IPAddress      string
	UserAgent      string
	ChallengeToken string
}

// GateResult is what an admitted vote records on its ledger row.
type GateResult struct {
	FraudScore  float64
	Fingerprint string
}

// Check runs the gate's checks in a fixed order and the first failure wins:
// disposable email domain, then challenge score, then the suspicion
// heuristics. Admitted votes get their score and device fingerprint back for
// the ledger row.
func (s *FraudService) Check(ctx context.Context, in GateInput) (GateResult, error) {
	if in.Identity.Kind == model.KindAnonymous && s.IsDisposableEmail(in.Identity.Key) {
		return GateResult{}, ErrDisposableEmail
	}

	score := DefaultFraudScore
	if in.ChallengeToken != "" && s.challenge != nil {
		verified, err := s.challenge.Verify(ctx, in.ChallengeToken, in.IPAddress)
		if err == nil {
			score = verified
		}
		// An unverifiable token keeps the neutral default: a verifier outage
		// must not block voting.
	}

	if Suspicious(score, in.UserAgent) {
		return GateResult{}, ErrSuspiciousActivity
	}

	return GateResult{
		FraudScore:  score,
		Fingerprint: hash.Fingerprint(in.IPAddress, in.UserAgent),
	}, nil
}

// IsDisposableEmail reports whether the address's domain is on the
// throwaway-provider blocklist.
func (s *FraudService) IsDisposableEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	return s.disposable[strings.ToLower(email[at+1:])]
}

// Suspicious applies the score floor and the user-agent heuristic.
func Suspicious(score float64, userAgent string) bool {
	return score < MinFraudScore || len(userAgent) < MinUserAgentLen
}
