// Package plaintext loads and normalises plain text reference documents.
package plaintext

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// Normaliser converts raw file bytes into a normalised Document.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Load reads the file at path and normalises it.
// Returns domain.ErrDocumentUnreadable when the file is missing or is not
// valid UTF-8 text.
func (n *Normaliser) Load(path string) (*domain.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrDocumentUnreadable, path, err)
	}
	return n.Normalise(raw, path)
}

// Normalise converts raw bytes into a Document.
// The document ID is derived from the URI so that rebuilding the same
// corpus yields the same chunk identifiers.
func (n *Normaliser) Normalise(raw []byte, uri string) (*domain.Document, error) {
	if uri == "" {
		return nil, domain.ErrInvalidInput
	}

	content := strings.TrimPrefix(string(raw), "\ufeff") // strip UTF-8 BOM
	if !utf8.ValidString(content) {
		return nil, fmt.Errorf("%w: %s: not valid UTF-8", domain.ErrDocumentUnreadable, uri)
	}

	return &domain.Document{
		ID:        uuid.NewSHA1(uuid.NameSpaceURL, []byte(uri)).String(),
		URI:       uri,
		Title:     titleFromURI(uri),
		Content:   content,
		CreatedAt: time.Now(),
	}, nil
}

// titleFromURI derives a human-readable title from the file name.
func titleFromURI(uri string) string {
	base := filepath.Base(uri)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext)
}
