package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "(not set)", maskAPIKey(""))
	assert.Equal(t, "****", maskAPIKey("abc"))
	assert.Equal(t, "****6789", maskAPIKey("sk-123456789"))
}

func TestConfigShowCmd_MasksKeys(t *testing.T) {
	cleanup := setupTestServices(t, nil, nil)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"config", "show"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Embedding:")
	assert.Contains(t, buf.String(), "Retrieval:")
}

func TestConfigSetKeyCmd_UnknownProvider(t *testing.T) {
	cleanup := setupTestServices(t, nil, nil)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"config", "set-key", "gemini"})

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestConfigSetKeyCmd_PipedInput(t *testing.T) {
	cleanup := setupTestServices(t, nil, nil)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader("sk-test-key\n"))
	rootCmd.SetArgs([]string{"config", "set-key", "openai"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	cfg := configStore.Config()
	assert.Equal(t, "sk-test-key", cfg.Embedding.APIKey)
	assert.Equal(t, "sk-test-key", cfg.LLM.APIKey)
}
