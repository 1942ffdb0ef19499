package models

import "time"

type Comment struct {
	ID        string    `json:"id"`
	BookID    string    `json:"book_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	Body      string    `json:"body"`
	Rating    int       `json:"rating,omitempty"` // 1-5, 0 when unrated
}
