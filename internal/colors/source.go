// Package colors loads the colors document served by the API.
//
// The document is opaque JSON. It is read from disk on every Load so that
// callers always observe the file as it is at request time.
package colors

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrDataUnavailable is returned when the backing file cannot be read or
// does not contain valid JSON. Callers should not distinguish the two.
var ErrDataUnavailable = errors.New("colors data unavailable")

// Document is the compact JSON encoding of the backing file.
type Document []byte

// Decode unmarshals the document into v.
func (d Document) Decode(v any) error {
	return json.Unmarshal(d, v)
}

// Equal reports whether two documents have identical encodings.
func (d Document) Equal(other Document) bool {
	return bytes.Equal(d, other)
}

// Source reads the colors document from a fixed path.
type Source struct {
	path string
}

// NewSource returns a Source bound to path.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Path returns the backing file path.
func (s *Source) Path() string {
	return s.path
}

// Load reads and parses the backing file. Every error wraps ErrDataUnavailable.
func (s *Source) Load(ctx context.Context) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrDataUnavailable, s.path, err)
	}

	// Compact validates the input and keeps member order intact.
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrDataUnavailable, s.path, err)
	}
	return Document(buf.Bytes()), nil
}
