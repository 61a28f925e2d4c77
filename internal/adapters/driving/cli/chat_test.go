package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

func TestChatCmd_Use(t *testing.T) {
	assert.Equal(t, "chat", chatCmd.Use)
}

func TestChatCmd_AnswersEachLine(t *testing.T) {
	ask := &mockAskService{answer: domain.Answer{Text: "the answer"}}
	cleanup := setupTestServices(t, ask, nil)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader("first question\nsecond question\n"))
	rootCmd.SetArgs([]string{"chat"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, []string{"first question", "second question"}, ask.asked)
	assert.Equal(t, 2, strings.Count(buf.String(), "the answer"))
}

func TestChatCmd_SkipsBlankLinesAndStopsOnExit(t *testing.T) {
	ask := &mockAskService{answer: domain.Answer{Text: "the answer"}}
	cleanup := setupTestServices(t, ask, nil)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader("\n   \nreal question\nexit\nnever asked\n"))
	rootCmd.SetArgs([]string{"chat"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, []string{"real question"}, ask.asked)
}

func TestChatCmd_ErrorDoesNotEndSession(t *testing.T) {
	ask := &mockAskService{err: errors.New("generation service error")}
	cleanup := setupTestServices(t, ask, nil)
	defer cleanup()

	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetIn(strings.NewReader("first\nsecond\n"))
	rootCmd.SetArgs([]string{"chat"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	// Both questions were attempted despite the first failing
	assert.Equal(t, []string{"first", "second"}, ask.asked)
	assert.Equal(t, 2, strings.Count(errOut.String(), "Error:"))
}

func TestChatCmd_RejectsArgs(t *testing.T) {
	cleanup := setupTestServices(t, &mockAskService{}, nil)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"chat", "unexpected"})

	err := rootCmd.Execute()

	assert.Error(t, err)
}
