package document

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const odtTextNamespace = "urn:oasis:names:tc:opendocument:xmlns:text:1.0"

// readODT pulls the text out of content.xml. Paragraphs are the
// text:p elements; each contributes its full inner character data,
// nested formatting spans included.
func (r *Reader) readODT(path string) (string, bool, error) {
	content, err := readArchiveMember(path, "content.xml")
	if err != nil {
		return "", false, err
	}

	paragraphs, err := odtParagraphs(content)
	if err != nil {
		return "", false, fmt.Errorf("parse content.xml in %s: %w", path, err)
	}
	return strings.Join(paragraphs, "\n"), true, nil
}

// odtParagraphs streams the XML token by token, collecting character
// data while inside a text:p element. Streaming avoids modelling the
// whole ODT schema just to flatten nested spans.
func odtParagraphs(content []byte) ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(content))

	var paragraphs []string
	var current strings.Builder
	depth := 0 // nesting depth inside the current text:p, 0 = outside

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
			if depth > 0 {
				depth++
			} else if t.Name.Space == odtTextNamespace && t.Name.Local == "p" {
				depth = 1
				current.Reset()
			}
		case xml.EndElement:
			if depth > 0 {
				depth--
				if depth == 0 {
					paragraphs = append(paragraphs, current.String())
				}
			}
		case xml.CharData:
			if depth > 0 {
				current.Write(t)
			}
		}
	}
	return paragraphs, nil
}
