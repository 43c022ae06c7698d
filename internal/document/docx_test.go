package document

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

// writeArchive creates a zip container with a single member, which is
// all the reader needs from docx/odt fixtures.
func writeArchive(t *testing.T, dir, name, member, content string) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(member)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const sampleDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p>
      <w:r><w:t>Hello </w:t></w:r>
      <w:r><w:t>world</w:t></w:r>
    </w:p>
    <w:p>
      <w:r><w:t>Col A</w:t></w:r>
      <w:r><w:tab/></w:r>
      <w:r><w:t>Col B</w:t></w:r>
    </w:p>
    <w:p>
      <w:r><w:t>Before</w:t></w:r>
      <w:r><w:br/></w:r>
      <w:r><w:t>After</w:t></w:r>
    </w:p>
  </w:body>
</w:document>`

func TestReadDOCX(t *testing.T) {
	dir := t.TempDir()
	reader := NewReader(zap.NewNop(), NewSession())

	t.Run("Paragraphs", func(t *testing.T) {
		path := writeArchive(t, dir, "sample.docx", "word/document.xml", sampleDocumentXML)

		text, ok, err := reader.ReadFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			t.Fatal("expected extraction, got skip")
		}
		want := "Hello world\nCol A\tCol B\nBefore\nAfter"
		if text != want {
			t.Errorf("got %q, want %q", text, want)
		}
	})

	t.Run("TableCells", func(t *testing.T) {
		content := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Intro</w:t></w:r></w:p>
    <w:tbl>
      <w:tr>
        <w:tc><w:p><w:r><w:t>Cell one</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>Cell two</w:t></w:r></w:p></w:tc>
      </w:tr>
    </w:tbl>
  </w:body>
</w:document>`
		path := writeArchive(t, dir, "table.docx", "word/document.xml", content)

		text, ok, err := reader.ReadFile(path)
		if err != nil || !ok {
			t.Fatalf("got (%q, %v, %v)", text, ok, err)
		}
		want := "Intro\nCell one\nCell two"
		if text != want {
			t.Errorf("got %q, want %q", text, want)
		}
	})

	t.Run("TableInDocumentOrder", func(t *testing.T) {
		content := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Before table</w:t></w:r></w:p>
    <w:tbl>
      <w:tr><w:tc><w:p><w:r><w:t>In table</w:t></w:r></w:p></w:tc></w:tr>
    </w:tbl>
    <w:p><w:r><w:t>After table</w:t></w:r></w:p>
  </w:body>
</w:document>`
		path := writeArchive(t, dir, "midtable.docx", "word/document.xml", content)

		text, ok, err := reader.ReadFile(path)
		if err != nil || !ok {
			t.Fatalf("got (%q, %v, %v)", text, ok, err)
		}
		want := "Before table\nIn table\nAfter table"
		if text != want {
			t.Errorf("got %q, want %q", text, want)
		}
	})

	t.Run("HyperlinkRuns", func(t *testing.T) {
		content := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p>
      <w:r><w:t xml:space="preserve">See </w:t></w:r>
      <w:hyperlink><w:r><w:t>the site</w:t></w:r></w:hyperlink>
      <w:r><w:t xml:space="preserve"> for details</w:t></w:r>
    </w:p>
  </w:body>
</w:document>`
		path := writeArchive(t, dir, "link.docx", "word/document.xml", content)

		text, ok, err := reader.ReadFile(path)
		if err != nil || !ok {
			t.Fatalf("got (%q, %v, %v)", text, ok, err)
		}
		want := "See the site for details"
		if text != want {
			t.Errorf("got %q, want %q", text, want)
		}
	})

	t.Run("TabStopDefinitionsIgnored", func(t *testing.T) {
		content := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p>
      <w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr>
      <w:r><w:rPr><w:b/></w:rPr><w:t>Indented</w:t></w:r>
    </w:p>
  </w:body>
</w:document>`
		path := writeArchive(t, dir, "tabstop.docx", "word/document.xml", content)

		text, ok, err := reader.ReadFile(path)
		if err != nil || !ok {
			t.Fatalf("got (%q, %v, %v)", text, ok, err)
		}
		if text != "Indented" {
			t.Errorf("got %q, want %q", text, "Indented")
		}
	})

	t.Run("NotAZipArchive", func(t *testing.T) {
		path := filepath.Join(dir, "corrupt.docx")
		if err := os.WriteFile(path, []byte("this is not a zip file"), 0o644); err != nil {
			t.Fatal(err)
		}

		_, _, err := reader.ReadFile(path)
		if err == nil {
			t.Fatal("corrupt archive must surface an error, not a skip")
		}
		if IsFatal(err) {
			t.Errorf("corruption is a structural failure, not fatal class: %v", err)
		}
	})

	t.Run("MissingDocumentXML", func(t *testing.T) {
		path := writeArchive(t, dir, "empty.docx", "word/styles.xml", "<styles/>")

		_, _, err := reader.ReadFile(path)
		if err == nil {
			t.Fatal("archive without word/document.xml must error")
		}
	})

	t.Run("MalformedXML", func(t *testing.T) {
		path := writeArchive(t, dir, "badxml.docx", "word/document.xml", "<w:document><unclosed")

		_, _, err := reader.ReadFile(path)
		if err == nil {
			t.Fatal("malformed XML must error")
		}
	})

	t.Run("Vanished", func(t *testing.T) {
		_, _, err := reader.ReadFile(filepath.Join(dir, "gone.docx"))
		if !errors.Is(err, ErrFileVanished) {
			t.Errorf("expected ErrFileVanished, got %v", err)
		}
	})
}
