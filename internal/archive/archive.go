// Package archive reads exported chat archives into domain messages.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"

	"chatlinks/internal/domain"
)

var (
	// ErrUnreadable is returned when the archive cannot be read from storage.
	ErrUnreadable = errors.New("archive unreadable")
	// ErrMalformed is returned when the archive is not a valid export document.
	ErrMalformed = errors.New("archive malformed")
	// ErrNotFound is returned when a source holds no archive of the requested name.
	ErrNotFound = errors.New("archive not found")
)

// document is the root of an exported archive.
type document struct {
	Messages []domain.Message `json:"messages" validate:"required,dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode parses an export document. Either every message is valid and the
// full ordered collection is returned, or an error wrapping ErrMalformed is.
func Decode(r io.Reader) ([]domain.Message, error) {
	var doc document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	// The document must be the only value of the input.
	var trailing json.RawMessage
	if err := dec.Decode(&trailing); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after document", ErrMalformed)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return doc.Messages, nil
}

// LoadFile reads and decodes the archive stored at path.
func LoadFile(path string) ([]domain.Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	messages, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return messages, nil
}

// FileSource serves messages from a single archive file, published under
// one name. The file is read again on every load so that a long running
// server sees its latest content.
type FileSource struct {
	Path string
	Name string
}

// NewFileSource returns a source serving the archive at path as name.
func NewFileSource(path, name string) *FileSource {
	return &FileSource{Path: path, Name: name}
}

// LoadMessages loads the archive file. Any name other than s.Name, or the
// empty name, fails with ErrNotFound.
func (s *FileSource) LoadMessages(ctx context.Context, name string) ([]domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if name != "" && name != s.Name {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return LoadFile(s.Path)
}
