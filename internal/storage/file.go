package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/starford/pacofilter/internal/apperr"
	"github.com/starford/pacofilter/internal/document"
)

// Load reads and decodes the document at path. A path that is missing or
// not a regular file yields apperr.ErrInputNotFound.
func Load(path string) (*document.Object, error) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: input file %s does not exist", apperr.ErrInputNotFound, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}

	doc, err := document.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("storage: %s: %w", path, err)
	}
	return doc, nil
}

// Emit encodes doc and hands it to dest. A nil dest writes to stdout.
func Emit(doc *document.Object, dest Sink) error {
	if dest == nil {
		dest = NewSink("", nil)
	}
	data, err := document.Encode(doc)
	if err != nil {
		return err
	}
	if err := dest.Write(data); err != nil {
		return fmt.Errorf("storage: write %s: %w", dest, err)
	}
	return nil
}

// WriteFile atomically replaces path with content: tmp file → fsync → rename.
func WriteFile(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".pacofilter-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("storage: chmod: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}
