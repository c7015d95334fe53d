package model

import "time"

// Account is a registered platform account. The surrounding system owns
// account writes; this core only resolves bearer credentials against it.
type Account struct {
	ID          int64     `json:"id"`
	Email       string    `json:"-"`
	DisplayName string    `json:"displayName,omitempty"`
	IsActive    bool      `json:"-"`
	CreatedAt   time.Time `json:"-"`
}
