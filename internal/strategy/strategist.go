// Package strategy implements the resume-strategy stage: a surgical edit
// plan derived from the gap between the job profile and the source résumé.
package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/job-tailor/internal/llm"
	"github.com/jonathan/job-tailor/internal/schemas"
	"github.com/jonathan/job-tailor/internal/types"
)

// Strategist runs the strategy stage
type Strategist struct {
	client  llm.Client
	verbose bool
}

// New creates a Strategist
func New(client llm.Client, verbose bool) *Strategist {
	return &Strategist{client: client, verbose: verbose}
}

// Run produces a validated EditPlan. Directives whose original_text is not
// an exact substring of the résumé are dropped and returned in the skipped
// count; reasoning output is adversarially imprecise and must be
// self-checked here rather than surfacing as a pipeline failure. An empty
// post-validation plan fails the stage.
func (s *Strategist) Run(ctx context.Context, profile *types.JobProfile, brief *types.CompanyBrief, resumeText string) (*types.EditPlan, int, error) {
	prompt, err := buildStrategyPrompt(profile, brief, resumeText)
	if err != nil {
		return nil, 0, &Error{Message: "failed to build prompt", Cause: err}
	}

	var responseText string
	err = llm.Retry(ctx, llm.DefaultRetryAttempts, llm.DefaultRetryBackoff, func() error {
		var genErr error
		responseText, genErr = s.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
		return genErr
	})
	if err != nil {
		return nil, 0, &Error{Message: "reasoning call failed", Cause: err}
	}

	plan, err := parsePlan(responseText)
	if err != nil {
		return nil, 0, &Error{Message: "response did not match the edit plan schema", Cause: err}
	}

	plan, skipped := validatePlan(plan, resumeText)
	if s.verbose {
		fmt.Printf("Edit plan: %d directives kept, %d skipped at validation\n", len(plan.Directives), skipped)
	}

	if len(plan.Directives) == 0 {
		return nil, skipped, &Error{Message: "plan contains zero usable directives"}
	}
	return plan, skipped, nil
}

// parsePlan is the parse-and-validate boundary for strategist output
func parsePlan(jsonText string) (*types.EditPlan, error) {
	if err := schemas.ValidateString(schemas.NameEditPlan, schemas.EditPlan, jsonText); err != nil {
		return nil, err
	}

	var plan types.EditPlan
	if err := json.Unmarshal([]byte(jsonText), &plan); err != nil {
		return nil, fmt.Errorf("failed to parse edit plan JSON: %w", err)
	}
	return &plan, nil
}

// validatePlan drops directives that cannot apply: unknown operations,
// rewrites or removals whose original_text is not an exact substring of the
// source résumé, and non-removal directives with nothing to insert
func validatePlan(plan *types.EditPlan, resumeText string) (*types.EditPlan, int) {
	kept := make([]types.EditDirective, 0, len(plan.Directives))
	skipped := 0

	for _, directive := range plan.Directives {
		if !directive.Operation.Known() {
			skipped++
			continue
		}
		if directive.Operation.RequiresOriginal() {
			if directive.OriginalText == "" || !strings.Contains(resumeText, directive.OriginalText) {
				skipped++
				continue
			}
		}
		if directive.Operation != types.OpRemoveBullet && strings.TrimSpace(directive.NewText) == "" {
			skipped++
			continue
		}
		kept = append(kept, directive)
	}

	plan.Directives = kept
	return plan, skipped
}

// buildStrategyPrompt assembles the full strategy context: job profile,
// company brief, and the current résumé
func buildStrategyPrompt(profile *types.JobProfile, brief *types.CompanyBrief, resumeText string) (string, error) {
	profileJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return "", err
	}
	briefJSON, err := json.MarshalIndent(brief, "", "  ")
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("You are an expert resume strategist. Compare the job profile against ")
	sb.WriteString("the candidate's LaTeX resume and produce a surgical edit plan: every ")
	sb.WriteString("directive must close a specific gap between the job's required skills ")
	sb.WriteString("or keywords and the resume's current content.\n\n")
	sb.WriteString("Return ONLY a valid JSON object:\n")
	sb.WriteString(`{
  "strategy": "2-3 sentence summary of the tailoring approach",
  "directives": [
    {
      "target_section": "resume section name",
      "operation": "REWRITE_BULLET | INJECT_KEYWORD | ADD_BULLET | REMOVE_BULLET",
      "original_text": "EXACT text copied verbatim from the resume (required for REWRITE_BULLET and REMOVE_BULLET)",
      "new_text": "replacement or new text (empty string for REMOVE_BULLET)",
      "justification": "the specific gap this closes"
    }
  ]
}`)
	sb.WriteString("\n\nRules:\n")
	sb.WriteString("- original_text must be copied character-for-character from the resume below.\n")
	sb.WriteString("- Never touch the LaTeX preamble, packages, or document structure.\n")
	sb.WriteString("- Only suggest changes that genuinely improve fit for this job.\n\n")
	sb.WriteString("JOB PROFILE:\n")
	sb.Write(profileJSON)
	sb.WriteString("\n\nCOMPANY BRIEF:\n")
	sb.Write(briefJSON)
	sb.WriteString("\n\nCURRENT LATEX RESUME:\n\"\"\"\n")
	sb.WriteString(resumeText)
	sb.WriteString("\n\"\"\"\n")
	return sb.String(), nil
}
