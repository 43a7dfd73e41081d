// Package export serializes search results.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"chatlinks/internal/domain"
)

// Document is the serialized form of a search result.
type Document struct {
	Links []domain.LinkInfo `json:"links"`
}

// NewDocument wraps links, turning nil into an empty list.
func NewDocument(links []domain.LinkInfo) Document {
	if links == nil {
		links = []domain.LinkInfo{}
	}
	return Document{Links: links}
}

// Write encodes links as an indented {"links": [...]} document.
func Write(w io.Writer, links []domain.LinkInfo) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(NewDocument(links)); err != nil {
		return fmt.Errorf("failed to encode links: %w", err)
	}
	return nil
}

// WriteFile writes the document to path, replacing any existing file.
func WriteFile(path string, links []domain.LinkInfo) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
	}()
	return Write(f, links)
}
