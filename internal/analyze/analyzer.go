// Package analyze implements the job-analysis stage: fetch a job posting and
// extract a structured JobProfile via the reasoning service.
package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/job-tailor/internal/fetch"
	"github.com/jonathan/job-tailor/internal/llm"
	"github.com/jonathan/job-tailor/internal/schemas"
	"github.com/jonathan/job-tailor/internal/types"
)

// maxExtractionRetries bounds re-asking the reasoning service with the same
// raw content when its output fails to parse. The fetch itself is never
// retried; an unreachable URL is a caller problem.
const maxExtractionRetries = 2

// maxJobChars bounds job text passed to the reasoning service
const maxJobChars = 8000

// Analyzer runs the job-analysis stage
type Analyzer struct {
	fetcher fetch.Fetcher
	client  llm.Client
	verbose bool
}

// New creates an Analyzer from its two external collaborators
func New(fetcher fetch.Fetcher, client llm.Client, verbose bool) *Analyzer {
	return &Analyzer{fetcher: fetcher, client: client, verbose: verbose}
}

// Run fetches the job posting and extracts a JobProfile. The source may be a
// URL or a path to a local text file, for job boards that block scraping.
// Returns DEGRADED when the page yielded no keyword signal.
func (a *Analyzer) Run(ctx context.Context, jobSource string) (*types.JobProfile, types.StageStatus, error) {
	jobText, err := a.loadJobText(ctx, jobSource)
	if err != nil {
		return nil, types.StatusFailed, err
	}

	if a.verbose {
		fmt.Printf("Fetched %d chars of job content\n", len(jobText))
	}

	profile, err := a.extractProfile(ctx, jobText)
	if err != nil {
		return nil, types.StatusFailed, err
	}

	profile.RawSourceURL = jobSource
	profile.Normalize()

	if profile.Degraded() {
		return profile, types.StatusDegraded, nil
	}
	return profile, types.StatusSuccess, nil
}

// loadJobText reads the posting from a local file when the source is one,
// otherwise fetches it over HTTP
func (a *Analyzer) loadJobText(ctx context.Context, jobSource string) (string, error) {
	if info, err := os.Stat(jobSource); err == nil && !info.IsDir() {
		data, err := os.ReadFile(jobSource)
		if err != nil {
			return "", &fetch.Error{URL: jobSource, Message: "failed to read job file", Cause: err}
		}
		text := string(data)
		if len(text) > maxJobChars {
			text = text[:maxJobChars]
		}
		return text, nil
	}

	page, err := a.fetcher.Fetch(ctx, jobSource)
	if err != nil {
		return "", err
	}
	return page.Text, nil
}

// extractProfile asks the reasoning service for a structured profile,
// re-asking with the same content up to maxExtractionRetries when the
// response fails the parse-and-validate boundary
func (a *Analyzer) extractProfile(ctx context.Context, jobText string) (*types.JobProfile, error) {
	prompt := buildExtractionPrompt(jobText)

	var lastErr error
	for attempt := 0; attempt <= maxExtractionRetries; attempt++ {
		if attempt > 0 && a.verbose {
			fmt.Printf("Extraction attempt %d/%d...\n", attempt+1, maxExtractionRetries+1)
		}

		var responseText string
		err := llm.Retry(ctx, llm.DefaultRetryAttempts, llm.DefaultRetryBackoff, func() error {
			var genErr error
			responseText, genErr = a.client.GenerateJSON(ctx, prompt, llm.TierStandard)
			return genErr
		})
		if err != nil {
			return nil, &ExtractionError{Message: "reasoning call failed", Cause: err}
		}

		profile, err := parseProfile(responseText)
		if err == nil {
			return profile, nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return nil, &ExtractionError{Message: "extraction interrupted", Cause: ctx.Err()}
		default:
		}
	}

	return nil, &ExtractionError{
		Message: fmt.Sprintf("response did not match the job profile schema after %d attempts", maxExtractionRetries+1),
		Cause:   lastErr,
	}
}

// parseProfile is the parse-and-validate boundary for extraction output
func parseProfile(jsonText string) (*types.JobProfile, error) {
	if err := schemas.ValidateString(schemas.NameJobProfile, schemas.JobProfile, jsonText); err != nil {
		return nil, err
	}

	var profile types.JobProfile
	if err := json.Unmarshal([]byte(jsonText), &profile); err != nil {
		return nil, fmt.Errorf("failed to parse job profile JSON: %w", err)
	}

	if err := schemas.ValidateStruct(schemas.NameJobProfile, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// buildExtractionPrompt constructs the structured-extraction prompt
func buildExtractionPrompt(jobText string) string {
	var sb strings.Builder
	sb.WriteString("You are an expert job posting analyst. Parse the raw job posting below ")
	sb.WriteString("and extract structured information. Copy requirement and responsibility ")
	sb.WriteString("text verbatim; do not paraphrase.\n\n")
	sb.WriteString("Return ONLY a valid JSON object with these exact keys:\n")
	sb.WriteString(`{
  "title": "job title",
  "company": "company name",
  "location": "location or empty string",
  "seniority": "junior | mid | senior | lead | manager | unknown",
  "required_skills": ["skill", ...],
  "preferred_skills": ["skill", ...],
  "responsibilities": ["responsibility", ...],
  "keywords": ["ATS keyword drawn from the skills and responsibilities", ...]
}`)
	sb.WriteString("\n\nKeywords must cover every required skill plus any other terms an ")
	sb.WriteString("applicant-tracking system would match on.\n\n")
	sb.WriteString("Job posting:\n\"\"\"\n")
	sb.WriteString(jobText)
	sb.WriteString("\n\"\"\"\n")
	return sb.String()
}
