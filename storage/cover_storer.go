package storage

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// defaultCoverDir is the base directory for locally stored cover images.
const defaultCoverDir = "_covers"

// CoverStorer defines the interface for storing book cover images.
type CoverStorer interface {
	// Store saves the cover bytes and returns the relative path where the
	// image was stored. ext includes the leading dot (".jpg").
	Store(bookID string, data []byte, ext string) (relativePath string, err error)
}

// LocalCoverStorer implements CoverStorer on the local file system.
type LocalCoverStorer struct {
	basePath string
}

// NewLocalCoverStorer creates a LocalCoverStorer. An empty basePath uses the
// default cover directory.
func NewLocalCoverStorer(basePath string) *LocalCoverStorer {
	if basePath == "" {
		basePath = defaultCoverDir
	}
	return &LocalCoverStorer{basePath: basePath}
}

// Store saves the cover as <basePath>/<bookID><ext> and returns the
// file name relative to the base path.
func (s *LocalCoverStorer) Store(bookID string, data []byte, ext string) (string, error) {
	if bookID == "" {
		return "", fmt.Errorf("bookID cannot be empty for storing a cover")
	}
	if len(data) == 0 {
		return "", fmt.Errorf("cover data cannot be empty")
	}

	ext = strings.ToLower(ext)
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return "", fmt.Errorf("unsupported cover image extension %q", ext)
	}

	if err := os.MkdirAll(s.basePath, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create cover directory: %w", err)
	}

	fileName := bookID + ext
	fullPath := filepath.Join(s.basePath, fileName)
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save cover image: %w", err)
	}

	log.Printf("INFO (LocalCoverStorer): Saved cover image to: %s", fullPath)
	return fileName, nil
}
