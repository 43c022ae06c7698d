// Package document extracts paragraph text from corpus input files.
// It supports plain text with encoding recovery, DOCX and ODT.
package document

import (
	"path/filepath"
	"strings"
)

// Format identifies a supported input format.
type Format string

const (
	FormatTXT  Format = "txt"
	FormatDOCX Format = "docx"
	FormatODT  Format = "odt"
)

// SupportedFormats lists every format the reader knows about.
var SupportedFormats = []Format{FormatTXT, FormatDOCX, FormatODT}

var extensionFormats = map[string]Format{
	"txt":  FormatTXT,
	"docx": FormatDOCX,
	"odt":  FormatODT,
}

// FormatForPath maps a filename to its format by extension.
// The second return value is false for missing or unknown extensions.
func FormatForPath(path string) (Format, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return "", false
	}
	format, ok := extensionFormats[ext]
	return format, ok
}

// IsSupportedPath reports whether the file's extension is one the
// reader can extract text from.
func IsSupportedPath(path string) bool {
	_, ok := FormatForPath(path)
	return ok
}
