package models

import "time"

// Entitlement records a grant of read access for one (user, book) pair.
// It is created when a purchase completes and is never deleted by the
// reading paths. The pair is unique: repeat purchases must not duplicate it.
type Entitlement struct {
	UserID    string    `json:"user_id"`
	BookID    string    `json:"book_id"`
	CreatedAt time.Time `json:"created_at"`
}
