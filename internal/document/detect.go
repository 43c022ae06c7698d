package document

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// candidate pairs a registered encoding name with its decoder source.
// Names follow the WHATWG registry so htmlindex can resolve them back.
type candidate struct {
	name string
	enc  encoding.Encoding
}

// Candidate order matters: multi-byte CJK encodings are tried before
// the single-byte charmaps, which decode any byte sequence without
// error and would otherwise always win.
var candidates = []candidate{
	{"gb18030", simplifiedchinese.GB18030},
	{"gbk", simplifiedchinese.GBK},
	{"big5", traditionalchinese.Big5},
	{"shift_jis", japanese.ShiftJIS},
	{"euc-jp", japanese.EUCJP},
	{"euc-kr", korean.EUCKR},
	{"utf-16le", xunicode.UTF16(xunicode.LittleEndian, xunicode.IgnoreBOM)},
	{"utf-16be", xunicode.UTF16(xunicode.BigEndian, xunicode.IgnoreBOM)},
	{"windows-1252", charmap.Windows1252},
	{"iso-8859-1", charmap.ISO8859_1},
}

// detectDecode runs one detection pass over raw bytes: BOM sniffing
// first, then a UTF-8 validity check, then the candidate decoders in
// order, each validated with a printable-rune plausibility test.
// It returns the detected encoding name and the decoded text, or
// ok=false when no candidate yields plausible text.
func detectDecode(data []byte) (name string, text string, ok bool) {
	if len(data) == 0 {
		return DefaultEncoding, "", true
	}

	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return DefaultEncoding, string(data[3:]), true
	}
	if len(data) >= 2 {
		if data[0] == 0xFF && data[1] == 0xFE {
			if res, err := decodeAll(xunicode.UTF16(xunicode.LittleEndian, xunicode.IgnoreBOM), data[2:]); err == nil {
				return "utf-16le", res, true
			}
		} else if data[0] == 0xFE && data[1] == 0xFF {
			if res, err := decodeAll(xunicode.UTF16(xunicode.BigEndian, xunicode.IgnoreBOM), data[2:]); err == nil {
				return "utf-16be", res, true
			}
		}
	}

	if utf8.Valid(data) {
		return DefaultEncoding, string(data), true
	}

	for _, c := range candidates {
		res, err := decodeAll(c.enc, data)
		if err != nil || !utf8.ValidString(res) {
			continue
		}
		if isPlausibleText(res) {
			return c.name, res, true
		}
	}

	return "", "", false
}

// decodeWith decodes data using an encoding name carried in a Session.
// UTF-8 is handled directly; other names resolve through htmlindex.
// A plausibility failure counts as a decode failure so a stale guess
// falls through to full detection instead of producing mojibake.
func decodeWith(name string, data []byte) (string, error) {
	if name == "" || strings.EqualFold(name, DefaultEncoding) || strings.EqualFold(name, "utf8") {
		if !utf8.Valid(data) {
			return "", fmt.Errorf("data is not valid UTF-8")
		}
		return string(data), nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return "", fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	res, err := decodeAll(enc, data)
	if err != nil {
		return "", fmt.Errorf("decode as %s: %w", name, err)
	}
	if !utf8.ValidString(res) || !isPlausibleText(res) {
		return "", fmt.Errorf("decode as %s produced implausible text", name)
	}
	return res, nil
}

func decodeAll(enc encoding.Encoding, data []byte) (string, error) {
	res, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), enc.NewDecoder()))
	if err != nil {
		return "", err
	}
	return string(res), nil
}

// isPlausibleText accepts a decode result only when at least 90% of
// its runes are printable or whitespace. Single-byte charmaps decode
// anything, so this is the actual discriminator between candidates.
func isPlausibleText(text string) bool {
	if text == "" {
		return false
	}
	total := 0
	printable := 0
	for _, r := range text {
		total++
		if r == utf8.RuneError {
			continue
		}
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			printable++
		}
	}
	return float64(printable)/float64(total) > 0.9
}
