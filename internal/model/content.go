package model

import "time"

// Content is a votable item: one of music, video, or visuals, belonging to
// exactly one board. A single polymorphic record keyed by (media type, id);
// only approved content can receive votes.
type Content struct {
	ID         int64     `json:"id"`
	BoardID    int64     `json:"boardId"`
	MediaType  MediaType `json:"mediaType"`
	Title      string    `json:"title"`
	ArtistName string    `json:"artistName,omitempty"`
	IsApproved bool      `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}
