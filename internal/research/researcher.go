// Package research implements the company-research stage: search-provider
// queries keyed on the company, synthesized into a CompanyBrief.
package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-tailor/internal/llm"
	"github.com/jonathan/job-tailor/internal/schemas"
	"github.com/jonathan/job-tailor/internal/search"
	"github.com/jonathan/job-tailor/internal/types"
)

// resultsPerQuery is how many hits each query contributes
const resultsPerQuery = 5

// maxSnippets bounds how many deduped results feed the synthesis prompt
const maxSnippets = 12

// Researcher runs the company-research stage
type Researcher struct {
	search  search.Service
	client  llm.Client
	verbose bool
}

// New creates a Researcher. search may be nil when no provider is
// configured; the stage then degrades with an empty brief instead of failing.
func New(searchSvc search.Service, client llm.Client, verbose bool) *Researcher {
	return &Researcher{search: searchSvc, client: client, verbose: verbose}
}

// Run researches the company behind the job profile. Zero search results
// produce an empty brief with DEGRADED status; downstream stages tolerate an
// empty brief.
func (r *Researcher) Run(ctx context.Context, profile *types.JobProfile) (*types.CompanyBrief, types.StageStatus, error) {
	if profile.Company == "" || r.search == nil {
		if r.verbose {
			fmt.Printf("Research skipped: no company name or no search provider\n")
		}
		return types.EmptyCompanyBrief(), types.StatusDegraded, nil
	}

	results, err := r.runQueries(ctx, profile)
	if err != nil {
		return nil, types.StatusFailed, err
	}

	if len(results) == 0 {
		if r.verbose {
			fmt.Printf("Search returned no results for %s\n", profile.Company)
		}
		return types.EmptyCompanyBrief(), types.StatusDegraded, nil
	}

	brief, err := r.synthesize(ctx, profile.Company, results)
	if err != nil {
		return nil, types.StatusFailed, err
	}

	brief.Normalize()
	return brief, types.StatusSuccess, nil
}

// buildQueries returns the targeted queries for a company, optionally hinted
// by skills mentioned in the job text
func buildQueries(profile *types.JobProfile) []string {
	queries := []string{
		fmt.Sprintf("%s company overview mission products", profile.Company),
		fmt.Sprintf("%s engineering culture tech stack", profile.Company),
		fmt.Sprintf("%s recent news", profile.Company),
	}
	if len(profile.RequiredSkills) > 0 {
		hint := strings.Join(profile.RequiredSkills[:min(3, len(profile.RequiredSkills))], " ")
		queries = append(queries, fmt.Sprintf("%s %s", profile.Company, hint))
	}
	return queries
}

// runQueries issues all queries concurrently, retrying transient provider
// failures per query. Any query exhausting its retry budget fails the stage.
func (r *Researcher) runQueries(ctx context.Context, profile *types.JobProfile) ([]search.Result, error) {
	queries := buildQueries(profile)

	var mu sync.Mutex
	collected := make([][]search.Result, len(queries))

	g, gCtx := errgroup.WithContext(ctx)
	for i, query := range queries {
		g.Go(func() error {
			if r.verbose {
				fmt.Printf("Searching: %s\n", query)
			}
			var results []search.Result
			err := llm.Retry(gCtx, llm.DefaultRetryAttempts, llm.DefaultRetryBackoff, func() error {
				var searchErr error
				results, searchErr = r.search.Search(gCtx, query, resultsPerQuery)
				return searchErr
			})
			if err != nil {
				return &Error{Message: fmt.Sprintf("query %q failed", query), Cause: err}
			}
			mu.Lock()
			collected[i] = results
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []search.Result
	for _, results := range collected {
		all = append(all, results...)
	}
	all = search.Dedup(all)
	if len(all) > maxSnippets {
		all = all[:maxSnippets]
	}
	return all, nil
}

// synthesize turns search snippets into a structured brief via the
// reasoning service
func (r *Researcher) synthesize(ctx context.Context, company string, results []search.Result) (*types.CompanyBrief, error) {
	prompt := buildSynthesisPrompt(company, results)

	var responseText string
	err := llm.Retry(ctx, llm.DefaultRetryAttempts, llm.DefaultRetryBackoff, func() error {
		var genErr error
		responseText, genErr = r.client.GenerateJSON(ctx, prompt, llm.TierStandard)
		return genErr
	})
	if err != nil {
		return nil, &Error{Message: "synthesis reasoning call failed", Cause: err}
	}

	if err := schemas.ValidateString(schemas.NameCompanyBrief, schemas.CompanyBrief, responseText); err != nil {
		return nil, &Error{Message: "synthesis output did not match the company brief schema", Cause: err}
	}

	var brief types.CompanyBrief
	if err := json.Unmarshal([]byte(responseText), &brief); err != nil {
		return nil, &Error{Message: "failed to parse company brief JSON", Cause: err}
	}
	return &brief, nil
}

// buildSynthesisPrompt formats search results for the reasoning service
func buildSynthesisPrompt(company string, results []search.Result) string {
	var sb strings.Builder
	sb.WriteString("You are a business intelligence researcher. From the search results ")
	sb.WriteString(fmt.Sprintf("below about %s, extract facts useful for tailoring a job application.\n\n", company))
	sb.WriteString("Return ONLY a valid JSON object with these exact keys:\n")
	sb.WriteString(`{
  "mission": "1-2 sentence mission statement or description",
  "tech_stack": ["technology", ...],
  "culture_notes": ["observation about engineering or company culture", ...],
  "recent_news": [{"headline": "...", "date": "YYYY-MM or empty", "source_url": "..."}]
}`)
	sb.WriteString("\n\nOnly include facts supported by the results; use empty strings and ")
	sb.WriteString("empty arrays when the results say nothing.\n\nSearch results:\n")
	for i, result := range results {
		sb.WriteString(fmt.Sprintf("[%d] %s\n%s\n%s\n\n", i+1, result.Title, result.SourceURL, result.Snippet))
	}
	return sb.String()
}
