package extract

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
)

const epubTestContainer = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const epubTestOPF = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0" unique-identifier="uid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Test Book</dc:title>
    <dc:language>en</dc:language>
    <dc:identifier id="uid">test-id-001</dc:identifier>
  </metadata>
  <manifest>
    <item id="ch1" href="chapter01.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch2" href="chapter02.xhtml" media-type="application/xhtml+xml"/>
    <item id="notes" href="notes.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine>
    <itemref idref="ch1"/>
    <itemref idref="ch2"/>
    <itemref idref="notes" linear="no"/>
  </spine>
</package>`

const epubTestChapter01 = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>Chapter One</title></head>
<body>
<h1>Chapter One</h1>
<p>Opening paragraph.</p>
</body>
</html>`

const epubTestChapter02 = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>Chapter Two</title></head>
<body>
<h1>Chapter Two</h1>
<p>Closing paragraph.</p>
</body>
</html>`

const epubTestNotes = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>Notes</title></head>
<body>
<p>Auxiliary notes.</p>
</body>
</html>`

// buildEPUBArchive assembles an in-memory EPUB (a ZIP with mimetype first)
// from the given path → content entries.
func buildEPUBArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	fw, err := zw.Create("mimetype")
	if err != nil {
		t.Fatalf("create mimetype: %v", err)
	}
	if _, err := io.WriteString(fw, "application/epub+zip"); err != nil {
		t.Fatalf("write mimetype: %v", err)
	}
	for name, content := range files {
		fw, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := io.WriteString(fw, content); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
	return buf.Bytes()
}

func buildTestEPUB(t *testing.T) []byte {
	t.Helper()
	return buildEPUBArchive(t, map[string]string{
		"META-INF/container.xml": epubTestContainer,
		"OEBPS/content.opf":      epubTestOPF,
		"OEBPS/chapter01.xhtml":  epubTestChapter01,
		"OEBPS/chapter02.xhtml":  epubTestChapter02,
		"OEBPS/notes.xhtml":      epubTestNotes,
	})
}

func TestEPUBExtractSpineOrder(t *testing.T) {
	got, err := EPUB{}.Extract(buildTestEPUB(t))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	first := strings.Index(got, "Opening paragraph.")
	second := strings.Index(got, "Closing paragraph.")
	if first == -1 {
		t.Fatal("output missing first chapter body")
	}
	if second == -1 {
		t.Fatal("output missing second chapter body")
	}
	if first > second {
		t.Errorf("chapters out of reading order: first at %d, second at %d", first, second)
	}
	if !strings.Contains(got, "<h1>Chapter One</h1>") {
		t.Errorf("output lost chapter markup, got:\n%s", got)
	}
}

func TestEPUBExtractSkipsNonLinearItems(t *testing.T) {
	got, err := EPUB{}.Extract(buildTestEPUB(t))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if strings.Contains(got, "Auxiliary notes.") {
		t.Errorf("non-linear spine item leaked into output:\n%s", got)
	}
}

func TestEPUBExtractNoLinearContent(t *testing.T) {
	// The only spine item is marked linear="no", so nothing is readable.
	opf := strings.Replace(epubTestOPF, `<itemref idref="ch1"/>`, `<itemref idref="ch1" linear="no"/>`, 1)
	opf = strings.Replace(opf, `<itemref idref="ch2"/>`, "", 1)
	data := buildEPUBArchive(t, map[string]string{
		"META-INF/container.xml": epubTestContainer,
		"OEBPS/content.opf":      opf,
		"OEBPS/chapter01.xhtml":  epubTestChapter01,
		"OEBPS/chapter02.xhtml":  epubTestChapter02,
		"OEBPS/notes.xhtml":      epubTestNotes,
	})

	if _, err := (EPUB{}).Extract(data); err == nil {
		t.Fatal("expected error for publication with no linear items")
	}
}

func TestEPUBExtractCorruptArchive(t *testing.T) {
	if _, err := (EPUB{}).Extract([]byte("definitely not a zip archive")); err == nil {
		t.Fatal("expected error for non-archive input")
	}
}
