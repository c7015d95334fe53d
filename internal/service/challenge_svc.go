package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrChallengeUnavailable means the verifier could not produce a verdict:
// missing configuration, transport failure, or a malformed response. Callers
// fall back to the neutral default score rather than blocking the vote.
var ErrChallengeUnavailable = errors.New("challenge verifier unavailable")

const defaultChallengeTimeout = 2 * time.Second

// ChallengeConfig configures the challenge verifier client.
type ChallengeConfig struct {
	VerifyURL string
	Secret    string
	Timeout   time.Duration

	// HTTPClient overrides the default client, used by tests.
	HTTPClient *http.Client
}

// ChallengeService verifies bot-challenge tokens against a reCAPTCHA-style
// endpoint and resolves them to a human-likelihood score.
type ChallengeService struct {
	verifyURL string
	secret    string
	client    *http.Client
}

func NewChallengeService(cfg ChallengeConfig) *ChallengeService {
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultChallengeTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &ChallengeService{
		verifyURL: cfg.VerifyURL,
		secret:    cfg.Secret,
		client:    client,
	}
}

// Verify resolves a challenge token to a score in [0, 1]. A response that
// names the token invalid is a real verdict of 0; only failures to reach a
// verdict at all return ErrChallengeUnavailable.
func (s *ChallengeService) Verify(ctx context.Context, token, remoteIP string) (float64, error) {
	if s.verifyURL == "" || s.secret == "" {
		return 0, ErrChallengeUnavailable
	}

	form := url.Values{}
	form.Set("secret", s.secret)
	form.Set("response", token)
	form.Set("remoteip", remoteIP)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrChallengeUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrChallengeUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: status %d", ErrChallengeUnavailable, resp.StatusCode)
	}

	var result struct {
		Success bool     `json:"success"`
		Score   *float64 `json:"score"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrChallengeUnavailable, err)
	}

	// v2-style responses carry no score field; success alone is not a score.
	if !result.Success || result.Score == nil {
		return 0, nil
	}
	return clampScore(*result.Score), nil
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
