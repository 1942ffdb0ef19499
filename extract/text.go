package extract

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"
)

// PlainText wraps UTF-8 text verbatim in a whitespace-preserving block.
// Original line breaks are kept exactly; no reflow is applied.
type PlainText struct{}

func (PlainText) Extract(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("text content is not valid UTF-8")
	}

	var b strings.Builder
	b.Grow(len(data) + 64)
	b.WriteString(`<pre style="white-space: pre-wrap; font-family: monospace;">`)
	b.WriteString(html.EscapeString(string(data)))
	b.WriteString(`</pre>`)
	return b.String(), nil
}
