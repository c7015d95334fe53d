package middleware

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/pgwilde8/urvote-rocks/internal/model"
)

// Field length limits matching database schema constraints.
const (
	MaxSlugLen      = 64  // boards.slug VARCHAR(64)
	MaxVoterNameLen = 255 // votes.voter_name VARCHAR(255)
	MaxUserAgentLen = 512 // votes.user_agent VARCHAR(512)

	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
	DefaultStatsDays        = 7
	MaxStatsDays            = 90
	DefaultContentLimit     = 50
	MaxContentLimit         = 200
)

var (
	// slugRe matches board slugs: lowercase alphanumeric with dashes.
	slugRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)
	// countryRe matches ISO 3166-1 alpha-2 country codes.
	countryRe = regexp.MustCompile(`^[A-Za-z]{2}$`)
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateSlug checks that a board slug is well-formed and within DB limits.
func ValidateSlug(slug string) (string, string) {
	slug = strings.TrimSpace(strings.ToLower(slug))
	if slug == "" {
		return "", "board slug is required"
	}
	if len(slug) > MaxSlugLen {
		return "", "board slug must be at most 64 characters"
	}
	if !slugRe.MatchString(slug) {
		return "", "board slug contains invalid characters"
	}
	return slug, ""
}

// ValidateMediaType checks a media type against the fixed set.
func ValidateMediaType(raw string) (model.MediaType, string) {
	mt := model.MediaType(strings.ToLower(strings.TrimSpace(raw)))
	if !model.ValidMediaTypes[mt] {
		return "", "mediaType must be one of: music, video, visuals"
	}
	return mt, ""
}

// ValidateVoteType checks a vote type against the fixed set.
func ValidateVoteType(raw string) (model.VoteType, string) {
	vt := model.VoteType(strings.ToLower(strings.TrimSpace(raw)))
	if !model.ValidVoteTypes[vt] {
		return "", "voteType must be like or dislike"
	}
	return vt, ""
}

// ValidateScoring checks a leaderboard scoring mode; empty selects the
// default likes-only mode.
func ValidateScoring(raw string) (model.ScoringMode, string) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return model.ScoringLikesOnly, ""
	}
	mode := model.ScoringMode(raw)
	if !model.ValidScoringModes[mode] {
		return "", "scoring must be likes_only or net"
	}
	return mode, ""
}

// ValidateMediaID parses a positive numeric content id path segment.
func ValidateMediaID(raw string) (int64, string) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, "mediaId must be a positive integer"
	}
	return id, ""
}

// ValidateVoterEmail checks the anonymous voter email used as identity key.
func ValidateVoterEmail(raw string) (string, string) {
	email, ok := model.NormalizeVoterEmail(raw)
	if !ok {
		return "", "a valid voterEmail is required when not signed in"
	}
	return email, ""
}

// ValidateCountry checks an optional country filter. Empty means no filter.
func ValidateCountry(raw string) (string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ""
	}
	if !countryRe.MatchString(raw) {
		return "", "country must be a two-letter code"
	}
	return strings.ToUpper(raw), ""
}

// ValidateVoterName trims and truncates the display name to DB limits.
func ValidateVoterName(name string) string {
	name = strings.TrimSpace(name)
	if len(name) > MaxVoterNameLen {
		name = name[:MaxVoterNameLen]
	}
	return name
}

// ValidateUserAgent trims and truncates user agent to DB limits.
func ValidateUserAgent(ua string) string {
	ua = strings.TrimSpace(ua)
	if len(ua) > MaxUserAgentLen {
		ua = ua[:MaxUserAgentLen]
	}
	return ua
}

// NormalizeLimit clamps a page-size query parameter into [1, max], using def
// when the parameter is absent or non-positive.
func NormalizeLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
