package document

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

const sampleContentXML = `<?xml version="1.0" encoding="UTF-8"?>
<office:document-content
    xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"
    xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0">
  <office:body>
    <office:text>
      <text:h text:outline-level="1">Heading is not a paragraph</text:h>
      <text:p>Plain paragraph</text:p>
      <text:p>Styled <text:span text:style-name="T1">and nested <text:span>deeper</text:span></text:span> text</text:p>
      <text:p></text:p>
    </office:text>
  </office:body>
</office:document-content>`

func TestReadODT(t *testing.T) {
	dir := t.TempDir()
	reader := NewReader(zap.NewNop(), NewSession())

	t.Run("Paragraphs", func(t *testing.T) {
		path := writeArchive(t, dir, "sample.odt", "content.xml", sampleContentXML)

		text, ok, err := reader.ReadFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			t.Fatal("expected extraction, got skip")
		}
		// Nested spans are flattened into their paragraph; the empty
		// trailing paragraph still contributes its (empty) line.
		want := "Plain paragraph\nStyled and nested deeper text\n"
		if text != want {
			t.Errorf("got %q, want %q", text, want)
		}
	})

	t.Run("ForeignNamespacePIgnored", func(t *testing.T) {
		content := `<doc xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0">
  <p>wrong namespace</p>
  <text:p>right namespace</text:p>
</doc>`
		path := writeArchive(t, dir, "ns.odt", "content.xml", content)

		text, ok, err := reader.ReadFile(path)
		if err != nil || !ok {
			t.Fatalf("got (%q, %v, %v)", text, ok, err)
		}
		if text != "right namespace" {
			t.Errorf("got %q, want %q", text, "right namespace")
		}
	})

	t.Run("MissingContentXML", func(t *testing.T) {
		path := writeArchive(t, dir, "hollow.odt", "mimetype", "application/vnd.oasis.opendocument.text")

		_, _, err := reader.ReadFile(path)
		if err == nil {
			t.Fatal("archive without content.xml must error")
		}
	})

	t.Run("MalformedXML", func(t *testing.T) {
		path := writeArchive(t, dir, "badxml.odt", "content.xml", "<broken><text:p>")

		_, _, err := reader.ReadFile(path)
		if err == nil {
			t.Fatal("malformed XML must error")
		}
	})

	t.Run("Vanished", func(t *testing.T) {
		_, _, err := reader.ReadFile(filepath.Join(dir, "gone.odt"))
		if err == nil {
			t.Fatal("expected an error for a vanished file")
		}
	})
}
