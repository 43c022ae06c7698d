package cache

import (
	"fmt"
	"os"
)

// CheckWritable probes whether an output path can be opened for
// writing before a long computation is committed to. A nonexistent
// path is trivially writable. The probe is advisory: nothing holds
// the file between the probe and the real write, so the real write's
// own failure stays the authoritative error.
func CheckWritable(path string) (bool, string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return true, ""
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return false, fmt.Sprintf(
			"cannot write to %s: it looks like the file is open in another program.\n"+
				"1. Close the program that has %s open, or\n"+
				"2. Pick a different output filename with the -o option.",
			path, path)
	}
	f.Close()
	return true, ""
}
