package extract

import (
	"bytes"
	"fmt"
	"strings"

	epub "github.com/simp-lee/epub"
)

// EPUB concatenates the publication's declared reading order. Each linear
// spine item's body markup is appended in order; document boundaries are the
// only separation.
type EPUB struct{}

func (EPUB) Extract(data []byte) (string, error) {
	book, err := epub.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open epub: %w", err)
	}
	defer book.Close()

	var b strings.Builder
	for _, ch := range book.Chapters() {
		if !ch.Linear {
			continue
		}
		body, err := ch.BodyHTML()
		if err != nil {
			return "", fmt.Errorf("failed to read epub item %s: %w", ch.Href, err)
		}
		b.WriteString(body)
		b.WriteString("\n")
	}

	if strings.TrimSpace(b.String()) == "" {
		return "", fmt.Errorf("epub has no readable content")
	}
	return b.String(), nil
}
