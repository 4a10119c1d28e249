package types

// DiffSummary counts how the edit plan's directives fared
type DiffSummary struct {
	Applied             int `json:"applied"`
	SkippedAtValidation int `json:"skipped_at_validation"`
	FailedAtApply       int `json:"failed_at_apply"`
}

// TailoredResume is the refactorer's output: the full LaTeX text plus the
// per-directive accounting
type TailoredResume struct {
	Text string      `json:"-"`
	Diff DiffSummary `json:"diff_summary"`
}

// CoverLetter is a greenfield LaTeX cover-letter document
type CoverLetter struct {
	Text string `json:"-"`
}
