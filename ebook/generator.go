package ebook

import (
	"bytes"
	"fmt"
	"html"
	"log"

	epub "github.com/go-shiori/go-epub"
	"github.com/pageturn/biblio/models"
)

// Generator packages a book's chapters into an EPUB for whole-book download.
type Generator struct {
	lang string
}

// NewGenerator creates a Generator. lang is the dc:language tag written into
// generated files; empty defaults to the catalog's content language.
func NewGenerator(lang string) *Generator {
	if lang == "" {
		lang = "uk"
	}
	log.Println("INFO (EbookGenerator): Using go-epub for EPUB generation")
	return &Generator{lang: lang}
}

// FromChapters builds an EPUB with one section per chapter, preserving the
// given order. Chapter bodies are already-sanitized markup and are embedded
// as-is.
func (g *Generator) FromChapters(title, author string, chapters []models.Chapter) ([]byte, error) {
	if len(chapters) == 0 {
		return nil, fmt.Errorf("cannot build an epub with no chapters")
	}
	if title == "" {
		title = "Untitled"
	}

	e, err := epub.NewEpub(title)
	if err != nil {
		return nil, fmt.Errorf("failed to create epub: %w", err)
	}
	if author != "" {
		e.SetAuthor(author)
	}
	e.SetLang(g.lang)

	for i, ch := range chapters {
		sectionTitle := ch.Title
		if sectionTitle == "" {
			sectionTitle = fmt.Sprintf("Chapter %d", i+1)
		}
		body := fmt.Sprintf("<h2>%s</h2>\n%s", html.EscapeString(sectionTitle), ch.Body)
		if _, err := e.AddSection(body, sectionTitle, "", ""); err != nil {
			return nil, fmt.Errorf("failed to add chapter %q to epub: %w", sectionTitle, err)
		}
	}

	var buf bytes.Buffer
	if _, err := e.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write epub: %w", err)
	}

	log.Printf("INFO (EbookGenerator): Built EPUB %q (%d chapters, %d bytes)", title, len(chapters), buf.Len())
	return buf.Bytes(), nil
}
