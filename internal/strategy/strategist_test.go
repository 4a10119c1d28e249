package strategy

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
	calls    int
}

func (m *mockClient) GenerateContent(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return "", errors.New("unexpected GenerateContent call")
}

func (m *mockClient) GenerateJSON(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	m.calls++
	return m.response, m.err
}

func (m *mockClient) Close() error { return nil }

const resumeText = `\documentclass{article}
\begin{document}
\section{Experience}
\begin{itemize}
\item Built internal tools using Python
\item Maintained CI pipelines
\end{itemize}
\end{document}`

func testProfile() *types.JobProfile {
	return &types.JobProfile{
		Title:    "Backend Engineer",
		Company:  "Acme",
		Keywords: []string{"go", "python"},
	}
}

func TestRun_Success(t *testing.T) {
	client := &mockClient{response: `{
		"strategy": "Emphasize tooling work",
		"directives": [
			{
				"target_section": "Experience",
				"operation": "REWRITE_BULLET",
				"original_text": "Built internal tools using Python",
				"new_text": "Engineered internal developer tools in Python",
				"justification": "Stronger verb, matches role focus"
			}
		]
	}`}

	strategist := New(client, false)
	plan, skipped, err := strategist.Run(context.Background(), testProfile(), types.EmptyCompanyBrief(), resumeText)
	require.NoError(t, err)
	require.NotNil(t, plan)

	assert.Equal(t, 0, skipped)
	assert.Equal(t, "Emphasize tooling work", plan.Strategy)
	require.Len(t, plan.Directives, 1)
	assert.Equal(t, types.OpRewriteBullet, plan.Directives[0].Operation)
}

func TestRun_DropsUnverifiableOriginals(t *testing.T) {
	client := &mockClient{response: `{
		"strategy": "Mixed quality plan",
		"directives": [
			{
				"target_section": "Experience",
				"operation": "REWRITE_BULLET",
				"original_text": "Built internal tools using Python",
				"new_text": "Engineered internal developer tools in Python",
				"justification": "good directive"
			},
			{
				"target_section": "Experience",
				"operation": "REWRITE_BULLET",
				"original_text": "This sentence is not in the resume",
				"new_text": "Replacement text",
				"justification": "hallucinated original"
			},
			{
				"target_section": "Experience",
				"operation": "REMOVE_BULLET",
				"original_text": "",
				"new_text": "",
				"justification": "missing original"
			},
			{
				"target_section": "Experience",
				"operation": "ADD_BULLET",
				"original_text": "",
				"new_text": "   ",
				"justification": "nothing to insert"
			}
		]
	}`}

	strategist := New(client, false)
	plan, skipped, err := strategist.Run(context.Background(), testProfile(), types.EmptyCompanyBrief(), resumeText)
	require.NoError(t, err)

	assert.Equal(t, 3, skipped)
	require.Len(t, plan.Directives, 1)
	assert.Equal(t, "Built internal tools using Python", plan.Directives[0].OriginalText)
}

func TestRun_EmptyPlanAfterValidationFails(t *testing.T) {
	client := &mockClient{response: `{
		"strategy": "All hallucinated",
		"directives": [
			{
				"target_section": "Experience",
				"operation": "REWRITE_BULLET",
				"original_text": "Not present anywhere",
				"new_text": "Replacement",
				"justification": "bad"
			}
		]
	}`}

	strategist := New(client, false)
	plan, skipped, err := strategist.Run(context.Background(), testProfile(), types.EmptyCompanyBrief(), resumeText)

	assert.Nil(t, plan)
	assert.Equal(t, 1, skipped)

	var strategyErr *Error
	require.ErrorAs(t, err, &strategyErr)
	assert.Contains(t, strategyErr.Error(), "zero usable directives")
}

func TestRun_SchemaMismatchFails(t *testing.T) {
	client := &mockClient{response: `{"strategy": "no directives key"}`}

	strategist := New(client, false)
	plan, _, err := strategist.Run(context.Background(), testProfile(), types.EmptyCompanyBrief(), resumeText)

	assert.Nil(t, plan)
	var strategyErr *Error
	require.ErrorAs(t, err, &strategyErr)
	assert.Contains(t, strategyErr.Error(), "edit plan schema")
}

func TestRun_ReasoningCallFailure(t *testing.T) {
	client := &mockClient{err: errors.New("model overloaded")}

	strategist := New(client, false)
	plan, _, err := strategist.Run(context.Background(), testProfile(), types.EmptyCompanyBrief(), resumeText)

	assert.Nil(t, plan)
	var strategyErr *Error
	require.ErrorAs(t, err, &strategyErr)
	assert.Contains(t, strategyErr.Error(), "reasoning call failed")
}

func TestValidatePlan_RemoveBulletAllowsEmptyNewText(t *testing.T) {
	plan := &types.EditPlan{Directives: []types.EditDirective{
		{
			TargetSection: "Experience",
			Operation:     types.OpRemoveBullet,
			OriginalText:  "Maintained CI pipelines",
		},
	}}

	validated, skipped := validatePlan(plan, resumeText)
	assert.Equal(t, 0, skipped)
	assert.Len(t, validated.Directives, 1)
}

func TestValidatePlan_UnknownOperationDropped(t *testing.T) {
	plan := &types.EditPlan{Directives: []types.EditDirective{
		{TargetSection: "Experience", Operation: "DELETE_SECTION", NewText: "x"},
	}}

	validated, skipped := validatePlan(plan, resumeText)
	assert.Equal(t, 1, skipped)
	assert.Empty(t, validated.Directives)
}
