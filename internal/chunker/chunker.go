// Package chunker splits document text into overlapping chunks for embedding.
package chunker

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// DefaultChunkSize is the default maximum number of bytes per chunk.
const DefaultChunkSize = 300

// DefaultChunkOverlap is the default number of overlapping bytes between
// consecutive chunks.
const DefaultChunkOverlap = 50

// DefaultSeparators is the priority-ordered separator list: paragraph
// break, line break, sentence terminator. The chunker prefers the
// highest-priority separator that keeps a chunk within the size limit
// and falls back to a raw character cut when none does.
var DefaultSeparators = []string{"\n\n", "\n", "."}

// Chunker splits document content into overlapping chunks, breaking at
// the highest-priority separator that fits.
type Chunker struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the maximum chunk size in bytes.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in bytes.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// WithSeparators sets the priority-ordered separator list.
func WithSeparators(seps []string) Option {
	return func(c *Chunker) {
		if len(seps) > 0 {
			c.separators = seps
		}
	}
}

// New creates a new chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		separators: DefaultSeparators,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// Split splits the document content into ordered chunks.
// The split is deterministic: the same document and configuration always
// produce the same chunk sequence, including chunk IDs.
func (c *Chunker) Split(doc *domain.Document) []domain.Chunk {
	if doc == nil || strings.TrimSpace(doc.Content) == "" {
		return nil
	}

	fragments := c.fragment(doc.Content, c.separators)
	pieces := c.merge(fragments)

	chunks := make([]domain.Chunk, 0, len(pieces))
	for i, content := range pieces {
		chunks = append(chunks, domain.Chunk{
			ID:         chunkID(doc.ID, i),
			DocumentID: doc.ID,
			SourceURI:  doc.URI,
			Content:    content,
			Position:   i,
		})
	}

	return chunks
}

// chunkID derives a stable chunk identifier from the document ID and the
// chunk's ordinal position, so rebuilds of the same corpus are reproducible.
func chunkID(docID string, position int) string {
	name := fmt.Sprintf("%s/%d", docID, position)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

// fragment recursively splits text into ordered fragments no longer than
// the chunk size, breaking at the highest-priority separator available.
// Separators stay attached to the end of the preceding fragment.
func (c *Chunker) fragment(text string, separators []string) []string {
	if len(text) <= c.chunkSize {
		return []string{text}
	}

	if len(separators) == 0 {
		return c.hardCut(text)
	}

	parts := splitAfter(text, separators[0])
	if len(parts) == 1 {
		// Separator absent, try the next one
		return c.fragment(text, separators[1:])
	}

	var out []string
	for _, part := range parts {
		if len(part) <= c.chunkSize {
			out = append(out, part)
			continue
		}
		out = append(out, c.fragment(part, separators[1:])...)
	}
	return out
}

// hardCut slices text into chunk-size pieces when no separator applies.
func (c *Chunker) hardCut(text string) []string {
	var out []string
	for start := 0; start < len(text); start += c.chunkSize {
		end := start + c.chunkSize
		if end > len(text) {
			end = len(text)
		}
		out = append(out, text[start:end])
	}
	return out
}

// splitAfter splits text on sep, keeping sep at the end of each piece.
func splitAfter(text, sep string) []string {
	parts := strings.SplitAfter(text, sep)
	// SplitAfter can leave a trailing empty string when text ends with sep
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// merge recombines fragments into chunks up to the size limit, carrying
// trailing fragments of each chunk into the next to provide overlap.
func (c *Chunker) merge(fragments []string) []string {
	var chunks []string
	var window []string
	windowLen := 0

	flush := func() {
		piece := strings.TrimSpace(strings.Join(window, ""))
		if piece != "" {
			chunks = append(chunks, piece)
		}
	}

	for _, frag := range fragments {
		if windowLen+len(frag) > c.chunkSize && windowLen > 0 {
			flush()

			// Retain tail fragments up to the overlap budget so the next
			// chunk starts with the end of this one.
			for windowLen > c.overlap || (windowLen+len(frag) > c.chunkSize && windowLen > 0) {
				windowLen -= len(window[0])
				window = window[1:]
			}
		}
		window = append(window, frag)
		windowLen += len(frag)
	}

	if windowLen > 0 {
		flush()
	}

	return chunks
}
