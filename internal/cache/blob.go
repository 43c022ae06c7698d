package cache

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
)

// LoadBlob reads a zstd-compressed gob object graph into out. A
// missing or empty file is not an error: loaded is false and the
// caller keeps whatever default out already holds.
func LoadBlob(path string, out any) (loaded bool, err error) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || info.Size() == 0 {
		return false, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("open blob %s: %w", path, err)
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return false, fmt.Errorf("decompress blob %s: %w", path, err)
	}
	defer zr.Close()

	if err := gob.NewDecoder(zr).Decode(out); err != nil {
		return false, fmt.Errorf("decode blob %s: %w", path, err)
	}
	return true, nil
}

// SaveBlob writes v as a zstd-compressed gob object graph.
func SaveBlob(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create blob %s: %w", path, err)
	}

	zw, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("compress blob %s: %w", path, err)
	}

	if err := gob.NewEncoder(zw).Encode(v); err != nil {
		zw.Close()
		f.Close()
		return fmt.Errorf("encode blob %s: %w", path, err)
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("flush blob %s: %w", path, err)
	}
	return f.Close()
}
