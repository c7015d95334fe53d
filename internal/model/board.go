package model

import "time"

// Board is a tenant-scoped container of content and votes.
type Board struct {
	ID              int64     `json:"id"`
	Slug            string    `json:"slug"`
	Name            string    `json:"name"`
	AllowMusic      bool      `json:"allowMusic"`
	AllowVideo      bool      `json:"allowVideo"`
	AllowVisuals    bool      `json:"allowVisuals"`
	RequireApproval bool      `json:"-"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Allows reports whether the board accepts content (and votes) of the given
// media type.
func (b *Board) Allows(mt MediaType) bool {
	switch mt {
	case MediaMusic:
		return b.AllowMusic
	case MediaVideo:
		return b.AllowVideo
	case MediaVisuals:
		return b.AllowVisuals
	}
	return false
}

// AllowedMediaTypes lists the media types the board accepts, in the fixed
// music, video, visuals order.
func (b *Board) AllowedMediaTypes() []MediaType {
	out := make([]MediaType, 0, 3)
	if b.AllowMusic {
		out = append(out, MediaMusic)
	}
	if b.AllowVideo {
		out = append(out, MediaVideo)
	}
	if b.AllowVisuals {
		out = append(out, MediaVisuals)
	}
	return out
}

// BoardResponse is the API response for board lookups.
type BoardResponse struct {
	Slug       string      `json:"slug"`
	Name       string      `json:"name"`
	MediaTypes []MediaType `json:"mediaTypes"`
	CreatedAt  time.Time   `json:"createdAt"`
}
