package extract

import (
	"strings"
	"testing"
)

func TestBuildLinesGroupsByBaselineBucket(t *testing.T) {
	p := NewPDF(DefaultLayoutConfig())

	// Bottoms 700.8 and 702.1 both round to 700; 680.0 is a separate line.
	words := []pdfWord{
		{text: "stormy", left: 150, right: 200, bottom: 702.1},
		{text: "night", left: 210, right: 250, bottom: 700.8},
		{text: "It", left: 72, right: 85, bottom: 700.8},
		{text: "was", left: 90, right: 120, bottom: 702.1},
		{text: "a", left: 125, right: 132, bottom: 700.8},
		{text: "dark", left: 137, right: 170, bottom: 702.1},
		{text: "The", left: 72, right: 100, bottom: 680.0},
		{text: "end.", left: 105, right: 135, bottom: 680.0},
	}

	lines := p.buildLines(words)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %+v", len(lines), lines)
	}

	if lines[0].text != "It was a dark stormy night" {
		t.Errorf("first line mis-assembled: %q", lines[0].text)
	}
	if lines[1].text != "The end." {
		t.Errorf("second line mis-assembled: %q", lines[1].text)
	}
}

func TestBuildLinesOrdersTopToBottom(t *testing.T) {
	p := NewPDF(DefaultLayoutConfig())

	// Input deliberately bottom-first. PDF Y grows upward, so the larger
	// bottom coordinate must come out first.
	words := []pdfWord{
		{text: "bottom", left: 72, right: 130, bottom: 100},
		{text: "middle", left: 72, right: 130, bottom: 400},
		{text: "top", left: 72, right: 100, bottom: 700},
	}

	lines := p.buildLines(words)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0].text != "top" || lines[1].text != "middle" || lines[2].text != "bottom" {
		t.Errorf("lines out of order: %+v", lines)
	}
}

func TestBuildLinesDropsBlankLines(t *testing.T) {
	p := NewPDF(DefaultLayoutConfig())

	words := []pdfWord{
		{text: "", left: 72, right: 72, bottom: 500},
		{text: "kept", left: 72, right: 110, bottom: 300},
	}

	lines := p.buildLines(words)
	if len(lines) != 1 || lines[0].text != "kept" {
		t.Fatalf("blank line should be dropped, got %+v", lines)
	}
}

func TestIsHeading(t *testing.T) {
	p := NewPDF(DefaultLayoutConfig())
	const pageW = 612.0 // center at 306

	testCases := []struct {
		name string
		line pdfLine
		want bool
	}{
		{
			name: "centered and narrow",
			line: pdfLine{text: "Chapter I", left: 256, right: 356},
			want: true,
		},
		{
			name: "centered but full width",
			// Centered, but width 500 exceeds 0.6 * 612 = 367.2.
			line: pdfLine{text: "a long justified body line", left: 56, right: 556},
			want: false,
		},
		{
			name: "narrow but off center",
			// Width 100, but center 122 is far from 306.
			line: pdfLine{text: "footnote", left: 72, right: 172},
			want: false,
		},
		{
			name: "center offset just inside tolerance",
			// Center 335, offset 29 < 30.
			line: pdfLine{text: "Prologue", left: 285, right: 385},
			want: true,
		},
		{
			name: "center offset at tolerance boundary",
			// Center 336, offset exactly 30 fails the strict comparison.
			line: pdfLine{text: "Prologue", left: 286, right: 386},
			want: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := p.isHeading(tc.line, pageW); got != tc.want {
				t.Errorf("isHeading(%+v) = %v, want %v", tc.line, got, tc.want)
			}
		})
	}
}

func TestRenderLinesMarkup(t *testing.T) {
	p := NewPDF(DefaultLayoutConfig())
	const pageW = 612.0

	lines := []pdfLine{
		{text: "Chapter I", left: 256, right: 356},
		{text: "It was a dark & stormy night, all across the page from edge to edge.", left: 56, right: 556},
	}

	var b strings.Builder
	p.renderLines(&b, lines, pageW)
	got := b.String()

	if !strings.Contains(got, "<h3") || !strings.Contains(got, "Chapter I</h3>") {
		t.Errorf("heading line not rendered as <h3>: %s", got)
	}
	if !strings.Contains(got, "<p") {
		t.Errorf("body line not rendered as <p>: %s", got)
	}
	if !strings.Contains(got, "&amp;") {
		t.Errorf("body text must be HTML-escaped: %s", got)
	}
}

func TestExtractRejectsGarbage(t *testing.T) {
	p := NewPDF(DefaultLayoutConfig())

	if _, err := p.Extract([]byte("this is not a pdf")); err == nil {
		t.Fatal("expected an error for non-PDF input")
	}
}

func TestNewPDFZeroConfigFallsBack(t *testing.T) {
	p := NewPDF(LayoutConfig{})
	def := DefaultLayoutConfig()

	if p.cfg != def {
		t.Errorf("zero config should fall back to defaults, got %+v", p.cfg)
	}
}
