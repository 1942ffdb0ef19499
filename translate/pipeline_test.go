package translate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

// fakeProvider records every request and applies fn to produce responses.
// The default fn echoes the request back.
type fakeProvider struct {
	calls []string
	fn    func(text string) (string, error)
}

func (f *fakeProvider) TranslateText(ctx context.Context, text, targetLang string) (string, error) {
	f.calls = append(f.calls, text)
	if f.fn != nil {
		return f.fn(text)
	}
	return text, nil
}

func testConfig() Config {
	return Config{SourceLang: "uk", MaxChunkSize: 4500, Throttle: time.Nanosecond}
}

func TestTranslateSameLanguageIsPassthrough(t *testing.T) {
	provider := &fakeProvider{}
	p := NewPipeline(provider, testConfig())

	markup := "<p>Якось у лісі жив собі їжачок.</p>"
	got, err := p.Translate(context.Background(), markup, "uk")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if got != markup {
		t.Errorf("same-language request must return input unchanged, got: %s", got)
	}
	if len(provider.calls) != 0 {
		t.Errorf("expected no provider calls, got %d", len(provider.calls))
	}
}

func TestTranslateEmptyTargetIsPassthrough(t *testing.T) {
	provider := &fakeProvider{}
	p := NewPipeline(provider, testConfig())

	markup := "<p>Hello there.</p>"
	got, err := p.Translate(context.Background(), markup, "")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if got != markup || len(provider.calls) != 0 {
		t.Errorf("empty target language must be a no-op, got %q after %d calls", got, len(provider.calls))
	}
}

func TestTranslateRewritesTextNodes(t *testing.T) {
	provider := &fakeProvider{fn: func(text string) (string, error) {
		return strings.ToUpper(text), nil
	}}
	p := NewPipeline(provider, testConfig())

	got, err := p.Translate(context.Background(), "<p>hello there</p><p>general kenobi</p>", "en")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}

	if !strings.Contains(got, "HELLO THERE") || !strings.Contains(got, "GENERAL KENOBI") {
		t.Errorf("text nodes were not translated: %s", got)
	}
	if !strings.Contains(got, "<p>") {
		t.Errorf("surrounding markup must be preserved: %s", got)
	}
	if len(provider.calls) != 1 {
		t.Fatalf("expected 1 provider call for small input, got %d", len(provider.calls))
	}
	if !strings.Contains(provider.calls[0], sepToken) {
		t.Errorf("multi-node request must join node texts with the separator: %q", provider.calls[0])
	}
}

func TestTranslateSkipsShortAndScriptNodes(t *testing.T) {
	provider := &fakeProvider{fn: func(text string) (string, error) {
		return strings.ToUpper(text), nil
	}}
	p := NewPipeline(provider, testConfig())

	markup := `<p>a</p><script>var x = "do not touch";</script><p>real paragraph</p>`
	got, err := p.Translate(context.Background(), markup, "en")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}

	if !strings.Contains(got, "<p>a</p>") {
		t.Errorf("single-character node must stay untouched: %s", got)
	}
	if !strings.Contains(got, `var x = "do not touch";`) {
		t.Errorf("script content must stay untouched: %s", got)
	}
	if !strings.Contains(got, "REAL PARAGRAPH") {
		t.Errorf("translatable node was not translated: %s", got)
	}
}

func TestTranslateChunksLargeDocuments(t *testing.T) {
	provider := &fakeProvider{}
	cfg := testConfig()
	cfg.MaxChunkSize = 60
	p := NewPipeline(provider, cfg)

	var b strings.Builder
	for i := 0; i < 8; i++ {
		b.WriteString("<p>twenty-five characters!!!</p>")
	}

	_, err := p.Translate(context.Background(), b.String(), "en")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}

	if len(provider.calls) < 2 {
		t.Fatalf("expected the document to be split across calls, got %d", len(provider.calls))
	}
	for i, call := range provider.calls {
		if n := utf8.RuneCountInString(call); n > cfg.MaxChunkSize {
			t.Errorf("call %d exceeds the chunk bound: %d runes", i, n)
		}
	}
}

func TestTranslateOversizedNodeGetsOwnChunk(t *testing.T) {
	provider := &fakeProvider{}
	cfg := testConfig()
	cfg.MaxChunkSize = 10
	p := NewPipeline(provider, cfg)

	markup := "<p>this single text node is much longer than the chunk bound</p>"
	if _, err := p.Translate(context.Background(), markup, "en"); err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if len(provider.calls) != 1 {
		t.Fatalf("an oversized node must still go out as one request, got %d calls", len(provider.calls))
	}
}

func TestTranslateFewerSegmentsKeepsTrailingOriginals(t *testing.T) {
	// The provider merges everything into one segment, losing the
	// separators. Only the first node should take the translated text.
	provider := &fakeProvider{fn: func(text string) (string, error) {
		return "MERGED", nil
	}}
	p := NewPipeline(provider, testConfig())

	got, err := p.Translate(context.Background(), "<p>first node</p><p>second node</p>", "en")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}

	if !strings.Contains(got, "MERGED") {
		t.Errorf("first node should carry the translated segment: %s", got)
	}
	if !strings.Contains(got, "second node") {
		t.Errorf("trailing node must keep its original text: %s", got)
	}
}

func TestTranslateProviderFailureReturnsBannerAndOriginal(t *testing.T) {
	provider := &fakeProvider{fn: func(text string) (string, error) {
		return "", errors.New("quota exceeded")
	}}
	p := NewPipeline(provider, testConfig())

	markup := "<p>supposed to survive</p>"
	got, err := p.Translate(context.Background(), markup, "en")
	if err != nil {
		t.Fatalf("provider failure must not surface as an error, got: %v", err)
	}

	if !strings.Contains(got, "Translation failed") {
		t.Errorf("expected an error banner, got: %s", got)
	}
	if !strings.Contains(got, markup) {
		t.Errorf("original markup must follow the banner, got: %s", got)
	}
}

func TestTranslateCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := &fakeProvider{fn: func(text string) (string, error) {
		return "", ctx.Err()
	}}
	p := NewPipeline(provider, testConfig())

	_, err := p.Translate(ctx, "<p>never delivered</p>", "en")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got: %v", err)
	}
}

func TestChunkNodesAccountsForSeparators(t *testing.T) {
	doc := "<p>aaaaa</p><p>bbbbb</p><p>ccccc</p>"
	provider := &fakeProvider{}
	cfg := testConfig()
	// Two 5-rune nodes plus one 3-rune separator fit in 13; a third does not.
	cfg.MaxChunkSize = 13
	p := NewPipeline(provider, cfg)

	if _, err := p.Translate(context.Background(), doc, "en"); err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if len(provider.calls) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %q", len(provider.calls), provider.calls)
	}
	if provider.calls[0] != "aaaaa"+sepJoin+"bbbbb" {
		t.Errorf("first chunk mis-assembled: %q", provider.calls[0])
	}
	if provider.calls[1] != "ccccc" {
		t.Errorf("second chunk mis-assembled: %q", provider.calls[1])
	}
}
