package document

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

// readFunc extracts text from one file of a known format. ok=false
// with a nil error means the file was skipped.
type readFunc func(path string) (text string, ok bool, err error)

// Reader extracts paragraph text from verified input files. Dispatch
// by format is resolved once at construction instead of on every call.
//
// A Reader must be driven from one goroutine at a time: it shares the
// session's encoding state across reads.
type Reader struct {
	logger  *zap.Logger
	session *Session
	readers map[Format]readFunc
}

// NewReader creates a reader bound to an ingestion session.
func NewReader(logger *zap.Logger, session *Session) *Reader {
	if session == nil {
		session = NewSession()
	}
	r := &Reader{
		logger:  logger,
		session: session,
	}
	r.readers = map[Format]readFunc{
		FormatTXT:  r.readTXT,
		FormatDOCX: r.readDOCX,
		FormatODT:  r.readODT,
	}
	return r
}

// Session returns the reader's ingestion session.
func (r *Reader) Session() *Session {
	return r.session
}

// ReadFile extracts the text of one file. ok is false when the file
// was skipped (unsupported extension, or a plain-text file whose
// encoding could not be detected); a skip is logged, never an error.
// Errors are reserved for corrupt archives/XML and for the fatal case
// of a file that vanished after verification (ErrFileVanished).
func (r *Reader) ReadFile(path string) (text string, ok bool, err error) {
	format, supported := FormatForPath(path)
	if !supported {
		r.logger.Warn("unsupported file type, skipping", zap.String("path", path))
		return "", false, nil
	}
	return r.readers[format](path)
}

// readTXT decodes a plain-text file, trying the session's current
// encoding before falling back to full detection.
func (r *Reader) readTXT(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Existence was verified before the batch started, so a
			// missing file here means it was removed mid-run.
			return "", false, fmt.Errorf("%w: %s", ErrFileVanished, path)
		}
		return "", false, fmt.Errorf("read %s: %w", path, err)
	}

	r.logger.Debug("decoding with current session encoding",
		zap.String("path", path),
		zap.String("encoding", r.session.Encoding()))
	if text, err := decodeWith(r.session.Encoding(), data); err == nil {
		return text, true, nil
	}

	r.logger.Debug("session encoding failed, detecting", zap.String("path", path))
	r.session.detects++
	name, text, detected := detectDecode(data)
	if !detected {
		r.logger.Warn("could not detect text encoding, skipping", zap.String("path", path))
		return "", false, nil
	}

	r.session.SetEncoding(name)
	r.logger.Info("detected encoding",
		zap.String("path", path),
		zap.String("encoding", name))
	return text, true, nil
}
