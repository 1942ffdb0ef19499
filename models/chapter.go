package models

import "time"

type Chapter struct {
	ID        string    `json:"id"`
	BookID    string    `json:"book_id"`
	CreatedAt time.Time `json:"created_at"`
	Title     string    `json:"title"`
	Position  int       `json:"position"`

	// Body is the chapter's markup text, sanitized at write time.
	Body string `json:"body,omitempty"`
}

// ChapterSummary is the per-chapter listing projection: body text is
// withheld and fetched separately through the chapter read endpoint.
type ChapterSummary struct {
	ID     string `json:"id"`
	BookID string `json:"book_id"`
	Title  string `json:"title"`
}
