package model

import (
	"regexp"
	"strings"
	"time"
)

// MediaType identifies which content variant a vote targets.
type MediaType string

const (
	MediaMusic   MediaType = "music"
	MediaVideo   MediaType = "video"
	MediaVisuals MediaType = "visuals"
)

// ValidMediaTypes are the allowed media type values.
var ValidMediaTypes = map[MediaType]bool{
	MediaMusic:   true,
	MediaVideo:   true,
	MediaVisuals: true,
}

// VoteType is the direction of a vote.
type VoteType string

const (
	VoteLike    VoteType = "like"
	VoteDislike VoteType = "dislike"
)

// ValidVoteTypes are the allowed vote type values.
var ValidVoteTypes = map[VoteType]bool{
	VoteLike:    true,
	VoteDislike: true,
}

// VoterKind distinguishes account-backed voters from anonymous email voters.
type VoterKind string

const (
	KindAuthenticated VoterKind = "authenticated"
	KindAnonymous     VoterKind = "anonymous"
)

// VoterIdentity is the deduplication key for a vote. For authenticated
// voters Key is the account id; for anonymous voters it is the normalized
// lowercase email. Two requests with the same kind and key are the same
// voter.
type VoterIdentity struct {
	Kind VoterKind
	Key  string
}

// emailRe is intentionally loose: one @, a dot in the domain, no whitespace.
var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// MaxVoterEmailLen matches votes.voter_key VARCHAR(255).
const MaxVoterEmailLen = 255

// NormalizeVoterEmail lowercases and trims an anonymous voter email and
// reports whether it is a usable identity key. "A@x.com" and "a@x.com"
// normalize to the same key.
func NormalizeVoterEmail(raw string) (string, bool) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" || len(email) > MaxVoterEmailLen || !emailRe.MatchString(email) {
		return "", false
	}
	return email, true
}

// VoteDay buckets an instant into its UTC calendar day. The ledger's
// uniqueness window is keyed on this value.
func VoteDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// VotePolicy selects the duplicate-handling behavior of the ledger.
type VotePolicy string

const (
	// PolicyToggle: same-day resubmit with the same type removes the vote,
	// a different type updates it in place.
	PolicyToggle VotePolicy = "toggle_like_dislike"
	// PolicyStrictDaily: any same-day resubmit is rejected outright.
	PolicyStrictDaily VotePolicy = "strict_daily"
)

// CastAction is the ledger mutation resolved for a cast attempt.
type CastAction int

const (
	ActionInsert CastAction = iota
	ActionUpdate
	ActionRemove
	ActionReject
)

// ResolveCastAction decides what a cast does given the voter's existing
// same-day vote on the target (nil if none). The read-decide-write sequence
// around this must run under the ledger's per-key serialization.
func ResolveCastAction(existing *VoteType, requested VoteType, policy VotePolicy) CastAction {
	if existing == nil {
		return ActionInsert
	}
	if policy == PolicyStrictDaily {
		return ActionReject
	}
	if *existing == requested {
		return ActionRemove
	}
	return ActionUpdate
}

// VoteOutcome is the caller-visible result of a successful cast.
type VoteOutcome string

const (
	OutcomeAdded   VoteOutcome = "added"
	OutcomeUpdated VoteOutcome = "updated"
	OutcomeRemoved VoteOutcome = "removed"
)

// GeoLocation holds best-effort IP-derived location fields.
type GeoLocation struct {
	CountryCode string `json:"countryCode"`
	Region      string `json:"region"`
	City        string `json:"city"`
}

// Vote represents an individual vote record.
type Vote struct {
	ID                int64     `json:"id"`
	MediaType         MediaType `json:"mediaType"`
	MediaID           int64     `json:"mediaId"`
	VoterKind         VoterKind `json:"-"`
	VoterKey          string    `json:"-"`
	VoterName         string    `json:"-"`
	VoteType          VoteType  `json:"voteType"`
	IPAddress         string    `json:"-"`
	UserAgent         string    `json:"-"`
	DeviceFingerprint string    `json:"-"`
	FraudScore        float64   `json:"-"`
	CountryCode       *string   `json:"-"`
	Region            *string   `json:"-"`
	City              *string   `json:"-"`
	VoteDay           time.Time `json:"-"`
	CreatedAt         time.Time `json:"createdAt"`
}

// CastRequest is the API request body for casting a vote on board content.
type CastRequest struct {
	VoteType       string `json:"voteType"`
	VoterEmail     string `json:"voterEmail,omitempty"`
	VoterName      string `json:"voterName,omitempty"`
	ChallengeToken string `json:"challengeToken,omitempty"`
}

// StrictVoteRequest is the API request body for the authenticated song
// endpoint. The vote type is implicit (like).
type StrictVoteRequest struct {
	ChallengeToken string `json:"challengeToken,omitempty"`
}

// CastResponse is the API response after a successful cast.
type CastResponse struct {
	Success bool        `json:"success"`
	Action  VoteOutcome `json:"action"`
}

// MyVote is one entry of the caller's votes for the current UTC day.
type MyVote struct {
	MediaType MediaType `json:"mediaType"`
	MediaID   int64     `json:"mediaId"`
	Title     string    `json:"title"`
	VoteType  VoteType  `json:"voteType"`
	CreatedAt time.Time `json:"createdAt"`
}

// VoterExportRow is one line of the admin voter export. The raw IP is carried
// here so the export layer can hash it before anything leaves the service.
type VoterExportRow struct {
	VoterKind   VoterKind
	VoterKey    string
	VoterName   string
	CountryCode string
	City        string
	IPAddress   string
	CreatedAt   time.Time
}
