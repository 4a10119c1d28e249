package coverletter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-tailor/internal/llm"
	"github.com/jonathan/job-tailor/internal/types"
)

type mockClient struct {
	response string
	err      error
	prompt   string
	calls    int
}

func (m *mockClient) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	m.calls++
	m.prompt = prompt
	return m.response, m.err
}

func (m *mockClient) GenerateJSON(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return "", errors.New("unexpected GenerateJSON call")
}

func (m *mockClient) Close() error { return nil }

const letterLaTeX = `\documentclass{letter}
\begin{document}
Dear Hiring Manager,
I am excited to apply.
\end{document}`

func stageInputs() (*types.JobProfile, *types.CompanyBrief, *types.EditPlan, *types.TailoredResume) {
	profile := &types.JobProfile{
		Title:          "Backend Engineer",
		Company:        "Acme",
		RequiredSkills: []string{"Go", "PostgreSQL"},
		Keywords:       []string{"go", "postgresql"},
	}
	brief := &types.CompanyBrief{Mission: "Acme builds rockets."}
	plan := &types.EditPlan{Strategy: "Emphasize backend depth"}
	resume := &types.TailoredResume{Text: `\begin{document}\section{Experience}\item Built services in Go\end{document}`}
	return profile, brief, plan, resume
}

func TestRun_Success(t *testing.T) {
	client := &mockClient{response: letterLaTeX}

	writer := New(client, false)
	profile, brief, plan, resume := stageInputs()
	letter, err := writer.Run(context.Background(), profile, brief, plan, resume)
	require.NoError(t, err)
	require.NotNil(t, letter)

	assert.Contains(t, letter.Text, `\begin{document}`)
	assert.Contains(t, letter.Text, "Dear Hiring Manager")
	assert.Equal(t, 1, client.calls)

	// The prompt carries every upstream artifact
	assert.Contains(t, client.prompt, "Backend Engineer at Acme")
	assert.Contains(t, client.prompt, "Acme builds rockets.")
	assert.Contains(t, client.prompt, "Emphasize backend depth")
	assert.Contains(t, client.prompt, "Built services in Go")
}

func TestRun_StripsMarkdownFences(t *testing.T) {
	client := &mockClient{response: "```latex\n" + letterLaTeX + "\n```"}

	writer := New(client, false)
	profile, brief, plan, resume := stageInputs()
	letter, err := writer.Run(context.Background(), profile, brief, plan, resume)
	require.NoError(t, err)

	assert.False(t, len(letter.Text) == 0)
	assert.NotContains(t, letter.Text, "```")
}

func TestRun_IncompleteDocumentFails(t *testing.T) {
	client := &mockClient{response: "Dear Hiring Manager, here is plain text."}

	writer := New(client, false)
	profile, brief, plan, resume := stageInputs()
	letter, err := writer.Run(context.Background(), profile, brief, plan, resume)

	assert.Nil(t, letter)
	var letterErr *Error
	require.ErrorAs(t, err, &letterErr)
	assert.Contains(t, letterErr.Error(), "complete LaTeX document")
}

func TestRun_ReasoningCallFailure(t *testing.T) {
	client := &mockClient{err: errors.New("model overloaded")}

	writer := New(client, false)
	profile, brief, plan, resume := stageInputs()
	letter, err := writer.Run(context.Background(), profile, brief, plan, resume)

	assert.Nil(t, letter)
	var letterErr *Error
	require.ErrorAs(t, err, &letterErr)
}

func TestExtractResumeSummary_StripsMarkup(t *testing.T) {
	summary := extractResumeSummary(`\section{Experience} \item Built \textbf{fast} services`)
	assert.NotContains(t, summary, `\`)
	assert.NotContains(t, summary, `{`)
	assert.Contains(t, summary, "Built")
	assert.Contains(t, summary, "fast")
}
