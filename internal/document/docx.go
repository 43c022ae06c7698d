package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

const docxMainNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// readDOCX pulls the text out of word/document.xml. Headers and
// footers live in separate archive members and are not extracted.
// A broken archive or malformed XML is a hard error: it signals a
// corrupt input, not an unsupported format.
func (r *Reader) readDOCX(path string) (string, bool, error) {
	content, err := readArchiveMember(path, "word/document.xml")
	if err != nil {
		return "", false, err
	}

	paragraphs, err := docxParagraphs(content)
	if err != nil {
		return "", false, fmt.Errorf("parse word/document.xml in %s: %w", path, err)
	}
	return strings.Join(paragraphs, "\n"), true, nil
}

// docxParagraphs streams the XML token by token so paragraphs come out
// in document order, table cells interleaved with the body text around
// them. Every w:t descendant of a w:p contributes, whatever wraps it
// (hyperlinks, field results, smart tags); w:tab and w:br become their
// plain-text equivalents. Property blocks are skipped so tab-stop
// definitions in w:pPr do not leak into the text.
func docxParagraphs(content []byte) ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(content))

	var paragraphs []string
	var current strings.Builder
	inParagraph := false
	inText := false
	propsDepth := 0 // nesting depth inside a w:pPr/w:rPr block, 0 = outside

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if propsDepth > 0 {
				propsDepth++
				continue
			}
			if t.Name.Space != docxMainNamespace {
				continue
			}
			switch t.Name.Local {
			case "pPr", "rPr":
				propsDepth = 1
			case "p":
				inParagraph = true
				current.Reset()
			case "t":
				inText = inParagraph
			case "tab":
				if inParagraph {
					current.WriteString("\t")
				}
			case "br":
				if !inParagraph {
					continue
				}
				if docxBreakType(t) == "page" {
					current.WriteString("\n\n")
				} else {
					current.WriteString("\n")
				}
			}
		case xml.EndElement:
			if propsDepth > 0 {
				propsDepth--
				continue
			}
			if t.Name.Space != docxMainNamespace {
				continue
			}
			switch t.Name.Local {
			case "p":
				if inParagraph {
					paragraphs = append(paragraphs, current.String())
					inParagraph = false
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	return paragraphs, nil
}

func docxBreakType(el xml.StartElement) string {
	for _, attr := range el.Attr {
		if attr.Name.Local == "type" {
			return attr.Value
		}
	}
	return ""
}

// readArchiveMember opens a zip container and returns one member's
// contents. A vanished container maps to ErrFileVanished, anything
// else to a structural failure.
func readArchiveMember(path, member string) ([]byte, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileVanished, path)
		}
		return nil, fmt.Errorf("open %s as zip archive: %w", path, err)
	}
	defer zr.Close()

	f, err := zr.Open(member)
	if err != nil {
		return nil, fmt.Errorf("archive %s has no readable %s: %w", path, member, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s from %s: %w", member, path, err)
	}
	return content, nil
}
