package jsonstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Indent is the indentation used when documents are written back to disk.
const Indent = "    "

// Load decodes the JSON document at path into v.
// A missing or empty file leaves v untouched and is not an error.
func Load(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// Save overwrites the file at path with the indented JSON encoding of v.
// Missing parent directories are created.
func Save(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
	}

	// Encoder adds a trailing newline; keep the file byte-for-byte the document.
	data := bytes.TrimRight(buf.Bytes(), "\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// File is a JSON document at a fixed path.
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile returns a File for the document at path. The file does not need
// to exist yet.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the location of the document.
func (f *File) Path() string {
	return f.path
}

// Read decodes the current document into v.
func (f *File) Read(v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Load(f.path, v)
}

// Update decodes the document into v, calls fn and writes v back when fn
// reports a change. An error from fn is returned as is and nothing is
// written.
func (f *File) Update(v any, fn func() (changed bool, err error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := Load(f.path, v); err != nil {
		return err
	}

	changed, err := fn()
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return Save(f.path, v)
}
