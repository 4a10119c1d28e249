package pipeline

import (
	"context"
	"errors"

	"github.com/jonathan/job-tailor/internal/analyze"
	"github.com/jonathan/job-tailor/internal/coverletter"
	"github.com/jonathan/job-tailor/internal/fetch"
	"github.com/jonathan/job-tailor/internal/refactor"
	"github.com/jonathan/job-tailor/internal/research"
	"github.com/jonathan/job-tailor/internal/schemas"
	"github.com/jonathan/job-tailor/internal/search"
	"github.com/jonathan/job-tailor/internal/strategy"
)

// Error kinds reported in stage results and the run summary
const (
	KindFetch       = "FetchError"
	KindExtraction  = "ExtractionError"
	KindResearch    = "ResearchError"
	KindStrategy    = "StrategyError"
	KindRefactor    = "RefactorError"
	KindCoverLetter = "CoverLetterError"
	KindTimeout     = "TimeoutError"
	KindValidation  = "ValidationError"
	KindUnknown     = "Error"
)

// Classify maps a stage error to its reported kind. A stage that blew its
// timeout budget reports TimeoutError regardless of which call was in
// flight.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}

	var fetchErr *fetch.Error
	if errors.As(err, &fetchErr) {
		return KindFetch
	}
	var extractionErr *analyze.ExtractionError
	if errors.As(err, &extractionErr) {
		return KindExtraction
	}
	var researchErr *research.Error
	if errors.As(err, &researchErr) {
		return KindResearch
	}
	var searchErr *search.Error
	if errors.As(err, &searchErr) {
		return KindResearch
	}
	var strategyErr *strategy.Error
	if errors.As(err, &strategyErr) {
		return KindStrategy
	}
	var refactorErr *refactor.Error
	if errors.As(err, &refactorErr) {
		return KindRefactor
	}
	var letterErr *coverletter.Error
	if errors.As(err, &letterErr) {
		return KindCoverLetter
	}
	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		return KindValidation
	}
	return KindUnknown
}
