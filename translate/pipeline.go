package translate

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	xhtml "golang.org/x/net/html"
)

const (
	// DefaultSourceLang is the language the catalog's content is stored in.
	// Requests targeting it skip translation entirely.
	DefaultSourceLang = "uk"

	// sepToken marks node boundaries inside a chunked provider request.
	// It has to survive machine translation unchanged, which ordinary
	// punctuation does not; an asterism on its own line reliably does.
	sepToken = "⁂"

	// sepJoin is the form the token takes when joining node texts.
	sepJoin = "\n" + sepToken + "\n"

	// minTranslatableRunes filters out punctuation-only fragments that
	// would waste a provider call.
	minTranslatableRunes = 2
)

// Config tunes the pipeline. Zero values fall back to defaults.
type Config struct {
	// SourceLang is the default content language code.
	SourceLang string

	// MaxChunkSize bounds the character length of one provider request.
	// This is a provider constraint, not a correctness invariant.
	MaxChunkSize int

	// Throttle is the minimum delay between successive provider calls
	// within one request, to stay under the provider's abuse detection.
	Throttle time.Duration
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		SourceLang:   DefaultSourceLang,
		MaxChunkSize: 4500,
		Throttle:     150 * time.Millisecond,
	}
}

// Pipeline translates extracted markup chunk by chunk.
type Pipeline struct {
	provider Provider
	cfg      Config
}

// NewPipeline creates a Pipeline. Zero-valued config fields take defaults.
func NewPipeline(provider Provider, cfg Config) *Pipeline {
	def := DefaultConfig()
	if cfg.SourceLang == "" {
		cfg.SourceLang = def.SourceLang
	}
	if cfg.MaxChunkSize <= 0 {
		cfg.MaxChunkSize = def.MaxChunkSize
	}
	if cfg.Throttle <= 0 {
		cfg.Throttle = def.Throttle
	}
	return &Pipeline{provider: provider, cfg: cfg}
}

// Translate returns the markup with its text nodes translated into
// targetLang. Translating into the source language, or empty input, is a
// no-op passthrough with no provider calls.
//
// Provider failures never surface as errors: the original markup is returned
// with a visible error banner prepended, so the reader still gets the source
// content. The only error paths are markup that cannot be parsed and a
// canceled context.
func (p *Pipeline) Translate(ctx context.Context, markup, targetLang string) (string, error) {
	if strings.TrimSpace(markup) == "" {
		return markup, nil
	}
	if targetLang == "" || targetLang == p.cfg.SourceLang {
		return markup, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("failed to parse markup: %w", err)
	}

	nodes := collectTextNodes(doc)
	if len(nodes) == 0 {
		return markup, nil
	}

	chunks := chunkNodes(nodes, p.cfg.MaxChunkSize)

	if err := p.translateChunks(ctx, chunks, targetLang); err != nil {
		if ctx.Err() != nil {
			// The caller went away; no point rendering a fallback.
			return "", ctx.Err()
		}
		log.Printf("WARN (Translate): provider failed, returning original content: %v", err)
		return errorBanner(err) + markup, nil
	}

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("failed to serialize translated markup: %w", err)
	}
	return out, nil
}

// collectTextNodes returns the document's text-bearing leaf nodes in document
// order, skipping script/style subtrees and fragments at or below the
// minimum translatable length.
func collectTextNodes(doc *goquery.Document) []*xhtml.Node {
	var nodes []*xhtml.Node

	var walk func(n *xhtml.Node)
	walk = func(n *xhtml.Node) {
		if n.Type == xhtml.TextNode {
			if utf8.RuneCountInString(strings.TrimSpace(n.Data)) >= minTranslatableRunes {
				nodes = append(nodes, n)
			}
			return
		}
		if n.Type == xhtml.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, root := range doc.Nodes {
		walk(root)
	}
	return nodes
}

// chunk is a run of consecutive text nodes whose combined length, separators
// included, stays under the chunk size bound.
type chunk struct {
	nodes []*xhtml.Node
}

// chunkNodes partitions nodes in document order. A node is added to the
// current chunk while the running length plus separator stays within maxSize;
// otherwise the chunk is closed and a new one starts. A chunk always holds at
// least one node, even when that node alone exceeds the bound: nodes are
// never split mid-text.
func chunkNodes(nodes []*xhtml.Node, maxSize int) []chunk {
	sepLen := utf8.RuneCountInString(sepJoin)

	var chunks []chunk
	var cur chunk
	curLen := 0

	for _, n := range nodes {
		textLen := utf8.RuneCountInString(strings.TrimSpace(n.Data))

		if len(cur.nodes) > 0 && curLen+sepLen+textLen > maxSize {
			chunks = append(chunks, cur)
			cur = chunk{}
			curLen = 0
		}

		if len(cur.nodes) > 0 {
			curLen += sepLen
		}
		cur.nodes = append(cur.nodes, n)
		curLen += textLen
	}

	if len(cur.nodes) > 0 {
		chunks = append(chunks, cur)
	}
	return chunks
}

// translateChunks submits each chunk as one provider request and writes the
// translated segments back into the original nodes by index. Chunks are
// processed in document order; reassembly depends on that ordering.
func (p *Pipeline) translateChunks(ctx context.Context, chunks []chunk, targetLang string) error {
	for i, c := range chunks {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.cfg.Throttle):
			}
		}

		parts := make([]string, len(c.nodes))
		for j, n := range c.nodes {
			parts[j] = strings.TrimSpace(n.Data)
		}

		translated, err := p.provider.TranslateText(ctx, strings.Join(parts, sepJoin), targetLang)
		if err != nil {
			return fmt.Errorf("translating chunk %d of %d: %w", i+1, len(chunks), err)
		}

		// When the provider merges or drops separators it returns fewer
		// segments than nodes; trailing nodes then keep their original
		// text. A known-lossy edge, accepted rather than papered over.
		segments := strings.Split(translated, sepToken)
		for j := 0; j < len(c.nodes) && j < len(segments); j++ {
			c.nodes[j].Data = strings.TrimSpace(segments[j])
		}
	}
	return nil
}

func errorBanner(err error) string {
	return `<div style="color: #b00020; border: 1px solid #b00020; padding: 10px; margin-bottom: 10px;">` +
		"Translation failed: " + html.EscapeString(err.Error()) + "</div>\n"
}
