// Package search provides the web-search capability used for company
// research, backed by Google Custom Search.
package search

import (
	"context"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// Result is one search hit: a snippet and where it came from
type Result struct {
	Title     string `json:"title"`
	Snippet   string `json:"snippet"`
	SourceURL string `json:"source_url"`
}

// Error represents a search-provider failure (auth, quota, network)
type Error struct {
	Query   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("search error for %q: %s: %v", e.Query, e.Message, e.Cause)
	}
	return fmt.Sprintf("search error for %q: %s", e.Query, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Service is the capability interface stages depend on. A query returning
// zero results is not an error; only provider failures are.
type Service interface {
	Search(ctx context.Context, query string, limit int64) ([]Result, error)
}

// GoogleService implements Service via the Google Custom Search API
type GoogleService struct {
	svc *customsearch.Service
	cx  string
}

// NewGoogleService creates a Custom Search backed service. cx is the
// programmable search engine ID.
func NewGoogleService(ctx context.Context, apiKey, cx string) (*GoogleService, error) {
	if apiKey == "" || cx == "" {
		return nil, fmt.Errorf("search API key and engine ID are required")
	}
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	return &GoogleService{svc: svc, cx: cx}, nil
}

// Search runs one query and returns up to limit results in provider order
func (s *GoogleService) Search(ctx context.Context, query string, limit int64) ([]Result, error) {
	if limit <= 0 {
		limit = 5
	}

	resp, err := s.svc.Cse.List().Context(ctx).Cx(s.cx).Q(query).Num(limit).Do()
	if err != nil {
		return nil, &Error{Query: query, Message: "provider request failed", Cause: err}
	}

	results := make([]Result, 0, len(resp.Items))
	for _, item := range resp.Items {
		results = append(results, Result{
			Title:     item.Title,
			Snippet:   item.Snippet,
			SourceURL: item.Link,
		})
	}
	return results, nil
}

// Dedup removes results whose source URL was already seen, preserving order
func Dedup(results []Result) []Result {
	seen := make(map[string]bool, len(results))
	unique := make([]Result, 0, len(results))
	for _, r := range results {
		if r.SourceURL == "" || !seen[r.SourceURL] {
			unique = append(unique, r)
			seen[r.SourceURL] = true
		}
	}
	return unique
}
