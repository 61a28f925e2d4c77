package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// mockAskService implements driving.AskService for command tests.
type mockAskService struct {
	answer domain.Answer
	err    error
	asked  []string
}

func (m *mockAskService) Ask(_ context.Context, question string) (domain.Answer, error) {
	m.asked = append(m.asked, question)
	if m.err != nil {
		return domain.Answer{}, m.err
	}
	answer := m.answer
	answer.Question = question
	return answer, nil
}

func (m *mockAskService) RetrieveContext(_ context.Context, _ string, _ domain.RetrieveOptions) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.answer.Evidence, nil
}

func (m *mockAskService) AugmentPrompt(query, evidence string) string {
	return evidence + "\n" + query
}

func (m *mockAskService) GenerateAnswer(_ context.Context, _ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.answer.Text, nil
}

// mockIndexService implements driving.IndexService for command tests.
type mockIndexService struct {
	stats domain.IndexStats
	err   error
	paths []string
}

func (m *mockIndexService) Build(_ context.Context, path string) (domain.IndexStats, error) {
	m.paths = append(m.paths, path)
	if m.err != nil {
		return domain.IndexStats{}, m.err
	}
	return m.stats, nil
}

// setupTestServices points the package-level wiring at mocks and a
// throwaway config directory. The returned cleanup restores everything.
func setupTestServices(t *testing.T, ask *mockAskService, index *mockIndexService) func() {
	t.Helper()

	store, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)

	configStore = store
	if ask != nil {
		askService = ask
	}
	if index != nil {
		indexService = index
	}

	return func() {
		closeAll()
		configStore = nil
		askService = nil
		indexService = nil
		askK = 0
		askThreshold = 0
		askShowCtx = false
		indexForce = false
		verbose = false
		configDir = ""
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}
}
