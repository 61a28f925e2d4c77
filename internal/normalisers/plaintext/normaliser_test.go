package plaintext

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

func TestLoad(t *testing.T) {
	n := New()

	t.Run("reads valid text file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "manual.txt")
		require.NoError(t, os.WriteFile(path, []byte("Do not operate the microwave empty."), 0600))

		doc, err := n.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "Do not operate the microwave empty.", doc.Content)
		assert.Equal(t, path, doc.URI)
		assert.Equal(t, "manual", doc.Title)
		assert.NotEmpty(t, doc.ID)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := n.Load(filepath.Join(t.TempDir(), "absent.txt"))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrDocumentUnreadable)
	})
}

func TestNormalise(t *testing.T) {
	n := New()

	t.Run("strips byte order mark", func(t *testing.T) {
		doc, err := n.Normalise([]byte("\ufeffDefrosting guide"), "manual.txt")
		require.NoError(t, err)
		assert.Equal(t, "Defrosting guide", doc.Content)
	})

	t.Run("rejects invalid UTF-8", func(t *testing.T) {
		_, err := n.Normalise([]byte{0xff, 0xfe, 0x00, 0x41}, "manual.txt")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrDocumentUnreadable)
	})

	t.Run("rejects empty URI", func(t *testing.T) {
		_, err := n.Normalise([]byte("text"), "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("document ID is stable per URI", func(t *testing.T) {
		a, err := n.Normalise([]byte("text"), "manual.txt")
		require.NoError(t, err)
		b, err := n.Normalise([]byte("other text"), "manual.txt")
		require.NoError(t, err)
		assert.Equal(t, a.ID, b.ID)
	})
}
