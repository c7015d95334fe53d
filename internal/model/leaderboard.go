package model

import "time"

// ScoringMode selects how leaderboard counts are computed.
type ScoringMode string

const (
	// ScoringLikesOnly counts likes and ignores dislikes.
	ScoringLikesOnly ScoringMode = "likes_only"
	// ScoringNet counts likes minus dislikes.
	ScoringNet ScoringMode = "net"
)

// ValidScoringModes are the allowed scoring mode values.
var ValidScoringModes = map[ScoringMode]bool{
	ScoringLikesOnly: true,
	ScoringNet:       true,
}

// LeaderboardQuery scopes a leaderboard computation.
type LeaderboardQuery struct {
	BoardID     int64
	MediaType   MediaType
	Scoring     ScoringMode
	Country     string // optional ISO-3166 alpha-2 filter, empty = all
	Limit       int
	IncludeZero bool
}

// LeaderboardEntry is one ranked row of a leaderboard. Rank is the 1-based
// position in the query's ordering, recomputed on every query.
type LeaderboardEntry struct {
	ContentID  int64     `json:"contentId"`
	Title      string    `json:"title"`
	ArtistName string    `json:"artistName,omitempty"`
	VoteCount  int64     `json:"voteCount"`
	Rank       int       `json:"rank"`
	CreatedAt  time.Time `json:"-"`
}

// Leaderboard is the API response for leaderboard queries.
type Leaderboard struct {
	BoardSlug string             `json:"boardSlug"`
	MediaType MediaType          `json:"mediaType"`
	Scoring   ScoringMode        `json:"scoring"`
	Entries   []LeaderboardEntry `json:"entries"`
}

// MediaTypeTally is a per-media-type like/dislike breakdown.
type MediaTypeTally struct {
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
}

// TopContentEntry is one of a board's most-liked pieces of content.
type TopContentEntry struct {
	MediaType MediaType `json:"mediaType"`
	ContentID int64     `json:"contentId"`
	Title     string    `json:"title"`
	Likes     int64     `json:"likes"`
}

// BoardStats is the API response for board vote statistics.
type BoardStats struct {
	BoardSlug      string                       `json:"boardSlug"`
	TotalVotes     int64                        `json:"totalVotes"`
	UniqueVoters   int64                        `json:"uniqueVoters"`
	VotesByCountry map[string]int64             `json:"votesByCountry"`
	ByMediaType    map[MediaType]MediaTypeTally `json:"byMediaType"`
	TopContent     []TopContentEntry            `json:"topContent"`
}

// DailyCount is one day of a board's vote volume series.
type DailyCount struct {
	Day   string `json:"day"` // YYYY-MM-DD, UTC
	Votes int64  `json:"votes"`
}
