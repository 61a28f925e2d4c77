package chunker

import (
	"strings"
	"testing"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := New()
		if c.chunkSize != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, c.chunkSize)
		}
		if c.overlap != DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultChunkOverlap, c.overlap)
		}
	})

	t.Run("custom chunk size", func(t *testing.T) {
		c := New(WithChunkSize(500))
		if c.chunkSize != 500 {
			t.Errorf("expected chunkSize 500, got %d", c.chunkSize)
		}
	})

	t.Run("custom overlap", func(t *testing.T) {
		c := New(WithOverlap(100))
		if c.overlap != 100 {
			t.Errorf("expected overlap 100, got %d", c.overlap)
		}
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		c := New(WithChunkSize(100), WithOverlap(150))
		if c.overlap >= c.chunkSize {
			t.Error("overlap should be reduced when it exceeds chunk size")
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		c := New(WithChunkSize(0), WithOverlap(-1))
		if c.chunkSize != DefaultChunkSize {
			t.Errorf("expected default chunkSize, got %d", c.chunkSize)
		}
		if c.overlap != DefaultChunkOverlap {
			t.Errorf("expected default overlap, got %d", c.overlap)
		}
	})
}

func TestSplit_EmptyContent(t *testing.T) {
	c := New()
	doc := &domain.Document{ID: "test-doc", Content: ""}

	chunks := c.Split(doc)
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty content, got %d", len(chunks))
	}
}

func TestSplit_SmallContent(t *testing.T) {
	c := New(WithChunkSize(100), WithOverlap(20))
	doc := &domain.Document{
		ID:      "test-doc",
		URI:     "manual.txt",
		Content: "This is a small piece of content.",
	}

	chunks := c.Split(doc)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk for small content, got %d", len(chunks))
	}
	if chunks[0].DocumentID != doc.ID {
		t.Errorf("expected DocumentID %q, got %q", doc.ID, chunks[0].DocumentID)
	}
	if chunks[0].SourceURI != doc.URI {
		t.Errorf("expected SourceURI %q, got %q", doc.URI, chunks[0].SourceURI)
	}
	if chunks[0].Content != doc.Content {
		t.Error("expected content to match document content")
	}
	if chunks[0].Position != 0 {
		t.Errorf("expected position 0, got %d", chunks[0].Position)
	}
}

func TestSplit_SizeBound(t *testing.T) {
	c := New(WithChunkSize(80), WithOverlap(20))
	doc := &domain.Document{
		ID: "test-doc",
		Content: strings.Repeat("One short sentence here. Another short sentence follows it. ", 20) +
			"\n\nA second paragraph with more text.\nAnd a final line.",
	}

	chunks := c.Split(doc)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk.Content) > 80 {
			t.Errorf("chunk %d exceeds size bound: %d bytes", i, len(chunk.Content))
		}
		if chunk.Position != i {
			t.Errorf("chunk %d has position %d", i, chunk.Position)
		}
	}
}

func TestSplit_PrefersParagraphBreaks(t *testing.T) {
	c := New(WithChunkSize(60), WithOverlap(0))
	doc := &domain.Document{
		ID:      "test-doc",
		Content: "First paragraph, short enough.\n\nSecond paragraph, also short.",
	}

	chunks := c.Split(doc)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if !strings.HasPrefix(chunks[0].Content, "First paragraph") {
		t.Errorf("unexpected first chunk: %q", chunks[0].Content)
	}
	if !strings.HasPrefix(chunks[1].Content, "Second paragraph") {
		t.Errorf("unexpected second chunk: %q", chunks[1].Content)
	}
}

func TestSplit_Overlap(t *testing.T) {
	c := New(WithChunkSize(100), WithOverlap(60))
	doc := &domain.Document{
		ID:      "test-doc",
		Content: strings.Repeat("The turntable must rotate freely during cooking. ", 10),
	}

	chunks := c.Split(doc)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	// Consecutive chunks share a suffix/prefix of roughly the overlap size.
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1].Content
		cur := chunks[i].Content

		overlap := 0
		for n := 1; n <= len(prev) && n <= len(cur); n++ {
			if strings.HasSuffix(prev, cur[:n]) {
				overlap = n
			}
		}
		if overlap == 0 {
			t.Errorf("chunks %d and %d do not overlap", i-1, i)
		}
	}
}

func TestSplit_HardCutFallback(t *testing.T) {
	c := New(WithChunkSize(50), WithOverlap(0))
	doc := &domain.Document{
		ID:      "test-doc",
		Content: strings.Repeat("x", 175), // no separators at all
	}

	chunks := c.Split(doc)
	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(chunks))
	}
	var total int
	for i, chunk := range chunks {
		if len(chunk.Content) > 50 {
			t.Errorf("chunk %d exceeds size bound: %d bytes", i, len(chunk.Content))
		}
		total += len(chunk.Content)
	}
	if total != 175 {
		t.Errorf("expected 175 bytes in total, got %d", total)
	}
}

func TestSplit_Deterministic(t *testing.T) {
	c := New()
	doc := &domain.Document{
		ID: "manual-1",
		Content: "Place food in the centre of the turntable.\n\n" +
			"Never operate the microwave empty. Doing so can damage the magnetron.\n" +
			"Use microwave-safe containers only.",
	}

	first := c.Split(doc)
	second := c.Split(doc)

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("chunk %d IDs differ: %q vs %q", i, first[i].ID, second[i].ID)
		}
		if first[i].Content != second[i].Content {
			t.Errorf("chunk %d contents differ", i)
		}
	}
}
