package models

import "time"

// BookFileFormat enumerates the uploaded file formats that can be rendered
// inline. Other formats are stored as-is and served as downloads.
type BookFileFormat string

const (
	BookFileFormatTXT  BookFileFormat = "txt"
	BookFileFormatPDF  BookFileFormat = "pdf"
	BookFileFormatEPUB BookFileFormat = "epub"
)

type Book struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Title       string    `json:"title"`
	AuthorID    *string   `json:"author_id,omitempty"`
	Description string    `json:"description,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	CategoryID  *string   `json:"category_id,omitempty"`
	CoverPath   string    `json:"cover_path,omitempty"`

	// FileName is the original name of the uploaded content file. Its
	// extension drives format classification at read time. Empty when the
	// book has no file.
	FileName string `json:"file_name,omitempty"`

	// FileContent holds the raw uploaded bytes. Loaded only by the
	// content-reading paths; catalog queries leave it nil.
	FileContent []byte `json:"-"`

	// Author is the author's display name, resolved from the authors table
	// on reads. Writes go through AuthorID.
	Author string `json:"author,omitempty"`
}

// HasFile reports whether the book carries an uploaded content file.
func (b *Book) HasFile() bool {
	return len(b.FileContent) > 0
}

// BookSummary is the catalog listing projection of a Book.
type BookSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	CategoryName string `json:"category_name,omitempty"`
	PriceCents   int64  `json:"price_cents"`
	Excerpt      string `json:"excerpt,omitempty"`
}
