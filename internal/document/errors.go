package document

import "errors"

// ErrFileVanished reports that an input file disappeared between
// verification and read. Callers treat this as fatal for the whole
// batch; whether the process terminates is their decision.
var ErrFileVanished = errors.New("input file vanished after verification")

// IsFatal reports whether err belongs to the fatal class that should
// abort a running batch rather than skip a single file.
func IsFatal(err error) bool {
	return errors.Is(err, ErrFileVanished)
}
