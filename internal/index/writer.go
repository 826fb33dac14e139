package index

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Writer persists artifacts as whole-file JSON replacements inside Dir.
type Writer struct {
	Dir string
}

// WriteJSON encodes v and atomically replaces Dir/name with it. The
// directory is created when absent. Equal input gives byte-identical files.
func (w Writer) WriteJSON(name string, v any) error {
	if err := os.MkdirAll(w.Dir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory '%s': %w", w.Dir, err)
	}

	data, err := Encode(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(w.Dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(w.Dir, name)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

// Encode is the artifact encoding: two-space indented JSON, HTML characters
// left unescaped, trailing newline.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Read decodes an artifact written by WriteJSON.
func Read[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode artifact %s: %w", path, err)
	}
	return out, nil
}
