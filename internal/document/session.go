package document

// Session carries per-batch ingestion state. Its single piece of state
// is the last successfully detected plain-text encoding: most batches
// share one encoding, so keeping the last guess avoids a full byte
// scan for every file after the first.
//
// A Session is not safe for concurrent use. Create one per running
// batch and do not share it across batches.
type Session struct {
	encoding string
	detects  int
}

// DefaultEncoding is the initial guess for plain-text files.
const DefaultEncoding = "utf-8"

// NewSession returns a session starting from DefaultEncoding.
func NewSession() *Session {
	return &Session{encoding: DefaultEncoding}
}

// Encoding returns the current encoding guess.
func (s *Session) Encoding() string {
	return s.encoding
}

// SetEncoding records a successfully detected encoding as the guess
// for subsequent reads. It is never reset for the session's lifetime.
func (s *Session) SetEncoding(name string) {
	if name != "" {
		s.encoding = name
	}
}

// Detections returns how many fallback detection passes have run in
// this session. Used by tests to check that the carried-over guess
// actually short-circuits detection.
func (s *Session) Detections() int {
	return s.detects
}
