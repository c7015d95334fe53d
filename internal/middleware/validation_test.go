package middleware

import (
	"strings"
	"testing"

	"github.com/pgwilde8/urvote-rocks/internal/model"
)

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid", "summer-jam-2026", "summer-jam-2026", false},
		{"valid single char", "x", "x", false},
		{"uppercase normalized", "Summer-Jam", "summer-jam", false},
		{"trims whitespace", "  indie-night  ", "indie-night", false},
		{"empty", "", "", true},
		{"leading dash", "-summer", "", true},
		{"too long 65", strings.Repeat("a", 65), "", true},
		{"exactly 64", strings.Repeat("a", 64), strings.Repeat("a", 64), false},
		{"invalid chars", "summer jam", "", true},
		{"sql injection", "a'; DROP--", "", true},
		{"unicode", "café", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateSlug(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateMediaType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    model.MediaType
		wantErr bool
	}{
		{"music", "music", model.MediaMusic, false},
		{"video", "video", model.MediaVideo, false},
		{"visuals", "visuals", model.MediaVisuals, false},
		{"uppercase normalized", "MUSIC", model.MediaMusic, false},
		{"trims whitespace", " video ", model.MediaVideo, false},
		{"empty", "", "", true},
		{"unknown", "podcast", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateMediaType(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateVoteType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    model.VoteType
		wantErr bool
	}{
		{"like", "like", model.VoteLike, false},
		{"dislike", "dislike", model.VoteDislike, false},
		{"uppercase normalized", "LIKE", model.VoteLike, false},
		{"empty", "", "", true},
		{"unknown", "upvote", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateVoteType(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateScoring(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    model.ScoringMode
		wantErr bool
	}{
		{"empty defaults to likes_only", "", model.ScoringLikesOnly, false},
		{"likes_only", "likes_only", model.ScoringLikesOnly, false},
		{"net", "net", model.ScoringNet, false},
		{"uppercase normalized", "NET", model.ScoringNet, false},
		{"unknown", "weighted", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateScoring(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateMediaID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"valid", "42", 42, false},
		{"trims whitespace", " 7 ", 7, false},
		{"zero", "0", 0, true},
		{"negative", "-3", 0, true},
		{"empty", "", 0, true},
		{"non-numeric", "abc", 0, true},
		{"float", "1.5", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateMediaID(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestValidateVoterEmail(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid", "fan@example.com", "fan@example.com", false},
		{"uppercase normalized", "Fan@Example.COM", "fan@example.com", false},
		{"trims whitespace", "  fan@example.com  ", "fan@example.com", false},
		{"empty", "", "", true},
		{"no at sign", "fanexample.com", "", true},
		{"no domain dot", "fan@example", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateVoterEmail(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateCountry(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"empty means no filter", "", "", false},
		{"valid upper", "US", "US", false},
		{"lowercase normalized", "fr", "FR", false},
		{"too long", "USA", "", true},
		{"one char", "U", "", true},
		{"digits", "12", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateCountry(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateVoterName(t *testing.T) {
	if got := ValidateVoterName("  DJ Nova  "); got != "DJ Nova" {
		t.Errorf("trim failed: got %q", got)
	}
	if got := ValidateVoterName(strings.Repeat("x", 300)); len(got) != MaxVoterNameLen {
		t.Errorf("truncation failed: got len %d, want %d", len(got), MaxVoterNameLen)
	}
}

func TestValidateUserAgent(t *testing.T) {
	if got := ValidateUserAgent("  Mozilla/5.0  "); got != "Mozilla/5.0" {
		t.Errorf("trim failed: got %q", got)
	}
	if got := ValidateUserAgent(strings.Repeat("x", 600)); len(got) != MaxUserAgentLen {
		t.Errorf("truncation failed: got len %d, want %d", len(got), MaxUserAgentLen)
	}
}

func TestNormalizeLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"absent uses default", 0, DefaultLeaderboardLimit},
		{"negative uses default", -5, DefaultLeaderboardLimit},
		{"within range", 25, 25},
		{"above max clamps", 500, MaxLeaderboardLimit},
		{"exactly max", MaxLeaderboardLimit, MaxLeaderboardLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeLimit(tt.limit, DefaultLeaderboardLimit, MaxLeaderboardLimit)
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}
