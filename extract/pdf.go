package extract

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// defaultPageWidth is the US Letter width in points, used when a page
	// carries no resolvable MediaBox.
	defaultPageWidth = 612.0

	pdfPageSeparator = `<hr style="border: none; border-top: 1px dashed #bbb; margin: 1.5em 0;">` + "\n"
)

// LayoutConfig holds the tuning constants for PDF line reconstruction.
// The defaults reproduce the heuristic the reading view was tuned against:
// prose with occasional centered chapter headings. They are deliberately
// approximate and not suitable for arbitrary page layouts.
type LayoutConfig struct {
	// BaselineBucket groups words into one line when their bottom
	// coordinates round to the same multiple of this value.
	BaselineBucket float64

	// CenterTolerance is the maximum distance between the page's horizontal
	// center and a line's center for the line to count as heading-like.
	CenterTolerance float64

	// MaxHeadingWidthRatio caps a heading-like line's width as a fraction
	// of the page width.
	MaxHeadingWidthRatio float64
}

// DefaultLayoutConfig returns the tuned constants: 5-unit baseline buckets,
// 30-unit centering tolerance, headings narrower than 60% of the page.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		BaselineBucket:       5,
		CenterTolerance:      30,
		MaxHeadingWidthRatio: 0.6,
	}
}

// PDF reconstructs readable lines from per-word bounding boxes. Words are
// grouped into baseline-bucketed lines, ordered top to bottom, and each line
// is rendered either as a centered heading or as justified body text.
type PDF struct {
	cfg LayoutConfig
}

// NewPDF creates a PDF extractor. Zero-valued config fields fall back to
// the defaults.
func NewPDF(cfg LayoutConfig) PDF {
	def := DefaultLayoutConfig()
	if cfg.BaselineBucket <= 0 {
		cfg.BaselineBucket = def.BaselineBucket
	}
	if cfg.CenterTolerance <= 0 {
		cfg.CenterTolerance = def.CenterTolerance
	}
	if cfg.MaxHeadingWidthRatio <= 0 {
		cfg.MaxHeadingWidthRatio = def.MaxHeadingWidthRatio
	}
	return PDF{cfg: cfg}
}

// pdfWord is one positioned word: text plus its bounding-box edges in page
// units. bottom is the baseline-aligned bottom coordinate.
type pdfWord struct {
	text   string
	left   float64
	right  float64
	bottom float64
}

// pdfLine is a reconstructed line of words sharing a baseline bucket.
type pdfLine struct {
	text  string
	left  float64
	right float64
}

func (l pdfLine) width() float64  { return l.right - l.left }
func (l pdfLine) center() float64 { return (l.left + l.right) / 2 }

func (p PDF) Extract(data []byte) (markup string, err error) {
	// The parser panics on some malformed cross-reference tables; surface
	// that as an ordinary extraction error so the caller can degrade to a
	// download response.
	defer func() {
		if r := recover(); r != nil {
			markup = ""
			err = fmt.Errorf("pdf parsing panicked: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var b strings.Builder
	pages := 0
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		words := wordsFromPage(page)
		lines := p.buildLines(words)
		if len(lines) == 0 {
			continue
		}

		p.renderLines(&b, lines, pageWidth(page))
		b.WriteString(pdfPageSeparator)
		pages++
	}

	if pages == 0 {
		return "", fmt.Errorf("pdf contains no extractable text")
	}
	return b.String(), nil
}

// wordsFromPage collects the page's text fragments and coalesces horizontally
// adjacent fragments on the same baseline into words. The parser emits
// fragments at glyph-run granularity, so adjacency is judged against a gap
// proportional to the font size.
func wordsFromPage(page pdf.Page) []pdfWord {
	fragments := page.Content().Text
	if len(fragments) == 0 {
		return nil
	}

	sorted := make([]pdf.Text, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var words []pdfWord
	var current *pdfWord
	var lastY float64

	flush := func() {
		if current != nil && strings.TrimSpace(current.text) != "" {
			words = append(words, *current)
		}
		current = nil
	}

	for _, f := range sorted {
		gapTolerance := math.Max(1.0, f.FontSize*0.3)

		sameBaseline := current != nil && math.Abs(f.Y-lastY) < 0.5
		adjacent := sameBaseline && f.X-current.right <= gapTolerance

		if adjacent && !strings.ContainsAny(f.S, " \t") {
			current.text += f.S
			current.right = f.X + f.W
		} else {
			flush()
			current = &pdfWord{
				text:   strings.TrimSpace(f.S),
				left:   f.X,
				right:  f.X + f.W,
				bottom: f.Y,
			}
		}
		lastY = f.Y
	}
	flush()

	return words
}

// buildLines groups words into lines by rounding each word's bottom
// coordinate to the nearest multiple of the baseline bucket, orders the
// groups top to bottom, joins each group's words with single spaces in
// left-to-right order, and drops lines whose joined text is blank.
func (p PDF) buildLines(words []pdfWord) []pdfLine {
	if len(words) == 0 {
		return nil
	}

	bucket := p.cfg.BaselineBucket
	groups := make(map[float64][]pdfWord)
	for _, w := range words {
		key := math.Round(w.bottom/bucket) * bucket
		groups[key] = append(groups[key], w)
	}

	keys := make([]float64, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	// Descending bottom coordinate: PDF origin is bottom-left, so larger Y
	// means nearer the top of the page.
	sort.Sort(sort.Reverse(sort.Float64Slice(keys)))

	var lines []pdfLine
	for _, k := range keys {
		group := groups[k]
		sort.SliceStable(group, func(i, j int) bool { return group[i].left < group[j].left })

		parts := make([]string, 0, len(group))
		left, right := math.Inf(1), math.Inf(-1)
		for _, w := range group {
			parts = append(parts, w.text)
			left = math.Min(left, w.left)
			right = math.Max(right, w.right)
		}

		text := strings.Join(parts, " ")
		if strings.TrimSpace(text) == "" {
			continue
		}
		lines = append(lines, pdfLine{text: text, left: left, right: right})
	}

	return lines
}

// isHeading classifies a line as heading-like when it is both roughly
// centered on the page and narrower than the configured width ratio.
func (p PDF) isHeading(line pdfLine, pageW float64) bool {
	pageCenter := pageW / 2
	return math.Abs(pageCenter-line.center()) < p.cfg.CenterTolerance &&
		line.width() < p.cfg.MaxHeadingWidthRatio*pageW
}

func (p PDF) renderLines(b *strings.Builder, lines []pdfLine, pageW float64) {
	for _, line := range lines {
		escaped := html.EscapeString(line.text)
		if p.isHeading(line, pageW) {
			b.WriteString(`<h3 style="text-align: center; font-weight: bold; margin: 1.2em 0 0.6em;">`)
			b.WriteString(escaped)
			b.WriteString("</h3>\n")
		} else {
			b.WriteString(`<p style="text-align: justify; text-indent: 2em; margin: 0;">`)
			b.WriteString(escaped)
			b.WriteString("</p>\n")
		}
	}
}

// pageWidth resolves the page's MediaBox width, walking up the page tree
// for inherited values. Falls back to US Letter.
func pageWidth(page pdf.Page) float64 {
	v := page.V
	for !v.IsNull() {
		if mb := v.Key("MediaBox"); !mb.IsNull() && mb.Len() == 4 {
			width := mb.Index(2).Float64() - mb.Index(0).Float64()
			if width > 0 {
				return width
			}
		}
		v = v.Key("Parent")
	}
	return defaultPageWidth
}
