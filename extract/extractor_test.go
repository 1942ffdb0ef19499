package extract

import (
	"testing"

	"github.com/pageturn/biblio/models"
)

func TestRegistryFor(t *testing.T) {
	r := NewRegistry()

	testCases := []struct {
		fileName  string
		supported bool
	}{
		{"book.txt", true},
		{"book.pdf", true},
		{"book.epub", true},
		{"BOOK.TXT", true},
		{"archive.Pdf", true},
		{"book.mobi", false},
		{"book.docx", false},
		{"noextension", false},
		{"", false},
	}

	for _, tc := range testCases {
		t.Run(tc.fileName, func(t *testing.T) {
			_, ok := r.For(tc.fileName)
			if ok != tc.supported {
				t.Errorf("For(%q) supported = %v, want %v", tc.fileName, ok, tc.supported)
			}
			if got := r.Supported(tc.fileName); got != tc.supported {
				t.Errorf("Supported(%q) = %v, want %v", tc.fileName, got, tc.supported)
			}
		})
	}
}

func TestRegistryCoversRecognizedFormats(t *testing.T) {
	r := NewRegistry()

	formats := []models.BookFileFormat{
		models.BookFileFormatTXT,
		models.BookFileFormatPDF,
		models.BookFileFormatEPUB,
	}
	for _, f := range formats {
		if !r.Supported("book." + string(f)) {
			t.Errorf("no extractor registered for format %q", f)
		}
	}
}

func TestRegistryRegisterOverride(t *testing.T) {
	r := NewRegistry()
	r.Register(".TXT", EPUB{})

	e, ok := r.For("notes.txt")
	if !ok {
		t.Fatal("expected .txt to stay supported after override")
	}
	if _, isEPUB := e.(EPUB); !isEPUB {
		t.Errorf("expected the override extractor, got %T", e)
	}
}
