// Package coverletter implements the optional cover-letter stage: a
// greenfield LaTeX letter drawn from every upstream artifact.
package coverletter

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/job-tailor/internal/llm"
	"github.com/jonathan/job-tailor/internal/types"
)

// maxResumeSummaryChars bounds résumé context passed to the reasoning
// service
const maxResumeSummaryChars = 3000

// Writer runs the cover-letter stage
type Writer struct {
	client  llm.Client
	verbose bool
}

// New creates a Writer
func New(client llm.Client, verbose bool) *Writer {
	return &Writer{client: client, verbose: verbose}
}

// Run produces a cover letter from all prior artifacts via a single
// reasoning call. There is no structural-preservation constraint; the
// document is greenfield.
func (w *Writer) Run(ctx context.Context, profile *types.JobProfile, brief *types.CompanyBrief, plan *types.EditPlan, resume *types.TailoredResume) (*types.CoverLetter, error) {
	prompt, err := buildLetterPrompt(profile, brief, plan, resume)
	if err != nil {
		return nil, &Error{Message: "failed to build prompt", Cause: err}
	}

	var responseText string
	err = llm.Retry(ctx, llm.DefaultRetryAttempts, llm.DefaultRetryBackoff, func() error {
		var genErr error
		responseText, genErr = w.client.GenerateContent(ctx, prompt, llm.TierAdvanced)
		return genErr
	})
	if err != nil {
		return nil, &Error{Message: "reasoning call failed", Cause: err}
	}

	text := llm.CleanLaTeXBlock(responseText)
	if !strings.Contains(text, `\begin{document}`) || !strings.Contains(text, `\end{document}`) {
		return nil, &Error{Message: "response is not a complete LaTeX document"}
	}

	if w.verbose {
		fmt.Printf("Cover letter: %d characters of LaTeX\n", len(text))
	}
	return &types.CoverLetter{Text: text}, nil
}

// buildLetterPrompt assembles job, company, strategy, and candidate context
func buildLetterPrompt(profile *types.JobProfile, brief *types.CompanyBrief, plan *types.EditPlan, resume *types.TailoredResume) (string, error) {
	briefJSON, err := json.MarshalIndent(brief, "", "  ")
	if err != nil {
		return "", err
	}

	skills := profile.RequiredSkills
	if len(skills) > 8 {
		skills = skills[:8]
	}

	var sb strings.Builder
	sb.WriteString("You are an expert cover letter writer. Write a compelling, personalized ")
	sb.WriteString("cover letter: open with a strong hook, reference specific company details, ")
	sb.WriteString("connect the candidate's experience to the job requirements, and keep it ")
	sb.WriteString("to 3-4 paragraphs (~300-400 words).\n\n")
	sb.WriteString(fmt.Sprintf("JOB: %s at %s\n", profile.Title, profile.Company))
	sb.WriteString(fmt.Sprintf("KEY REQUIREMENTS: %s\n\n", strings.Join(skills, ", ")))
	sb.WriteString("COMPANY CONTEXT:\n")
	sb.Write(briefJSON)
	sb.WriteString("\n\nTAILORING STRATEGY:\n")
	sb.WriteString(plan.Strategy)
	sb.WriteString("\n\nCANDIDATE BACKGROUND (from their resume):\n")
	sb.WriteString(extractResumeSummary(resume.Text))
	sb.WriteString("\n\nProduce a complete LaTeX document using documentclass letter with ")
	sb.WriteString("1in margins, addressed to the hiring manager at ")
	sb.WriteString(profile.Company)
	sb.WriteString(". Return ONLY LaTeX source, no markdown fences, no explanation.\n")
	return sb.String(), nil
}

var latexCommandPattern = regexp.MustCompile(`\\[a-zA-Z]+\*?(\[[^\]]*\])?\{?`)
var latexResiduePattern = regexp.MustCompile(`[{}\\]`)
var whitespacePattern = regexp.MustCompile(`\s+`)

// extractResumeSummary strips LaTeX markup for a rough plain-text view of
// the candidate's background
func extractResumeSummary(resumeLaTeX string) string {
	text := latexCommandPattern.ReplaceAllString(resumeLaTeX, " ")
	text = latexResiduePattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
	if len(text) > maxResumeSummaryChars {
		text = text[:maxResumeSummaryChars]
	}
	return text
}
