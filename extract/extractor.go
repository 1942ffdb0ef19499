// Package extract converts stored book files (plain text, PDF, EPUB) into a
// normalized HTML representation suitable for inline reading.
package extract

import (
	"path/filepath"
	"strings"

	"github.com/pageturn/biblio/models"
)

// Extractor converts one stored file format into normalized HTML markup.
// A failed extraction is recoverable: callers fall back to offering the raw
// file for download instead of failing the request.
type Extractor interface {
	Extract(data []byte) (string, error)
}

// Registry maps normalized file extensions to extractors.
type Registry struct {
	byExt map[string]Extractor
}

// NewRegistry returns a registry with an extractor for each recognized
// book file format.
func NewRegistry() *Registry {
	return &Registry{byExt: map[string]Extractor{
		extFor(models.BookFileFormatTXT):  PlainText{},
		extFor(models.BookFileFormatPDF):  NewPDF(DefaultLayoutConfig()),
		extFor(models.BookFileFormatEPUB): EPUB{},
	}}
}

func extFor(format models.BookFileFormat) string {
	return "." + string(format)
}

// Register adds or replaces the extractor for a file extension.
func (r *Registry) Register(ext string, e Extractor) {
	r.byExt[normalizeExt(ext)] = e
}

// For returns the extractor responsible for the given filename, based on its
// extension (case-insensitive). ok is false for unsupported extensions.
func (r *Registry) For(fileName string) (Extractor, bool) {
	e, ok := r.byExt[normalizeExt(filepath.Ext(fileName))]
	return e, ok
}

// Supported reports whether the filename's extension has an extractor.
func (r *Registry) Supported(fileName string) bool {
	_, ok := r.For(fileName)
	return ok
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimSpace(ext))
}
