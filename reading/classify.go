package reading

import (
	"github.com/pageturn/biblio/extract"
	"github.com/pageturn/biblio/models"
)

// ContentKind tags the presentation type of a book's stored content.
type ContentKind string

const (
	// KindEpisodic presents the book as an ordered chapter listing;
	// chapter bodies are fetched separately per chapter.
	KindEpisodic ContentKind = "episodic"

	// KindRawText presents the stored file as extracted inline markup.
	KindRawText ContentKind = "raw_text"

	// KindOpaque offers the stored file only as a download.
	KindOpaque ContentKind = "opaque"

	// KindEmpty means no content has been provided yet.
	KindEmpty ContentKind = "empty"
)

// Classification is the outcome of classifying a book's content
// representation. Exactly the fields for its Kind carry data.
type Classification struct {
	Kind      ContentKind
	Chapters  []models.ChapterSummary // KindEpisodic
	FileName  string                  // KindRawText, KindOpaque
	FileBytes []byte                  // KindRawText
}

// Classify decides how a book's content is presented. Chapters win over a
// stored file unconditionally: a partial migration can leave a book with
// both, and the chaptered form is the curated one. A stored file whose
// extension has no extractor is opaque; no chapters and no file is empty.
func Classify(book *models.Book, chapters []models.ChapterSummary, registry *extract.Registry) Classification {
	if len(chapters) > 0 {
		return Classification{Kind: KindEpisodic, Chapters: chapters}
	}
	if book.HasFile() {
		if registry.Supported(book.FileName) {
			return Classification{Kind: KindRawText, FileName: book.FileName, FileBytes: book.FileContent}
		}
		return Classification{Kind: KindOpaque, FileName: book.FileName}
	}
	return Classification{Kind: KindEmpty}
}
