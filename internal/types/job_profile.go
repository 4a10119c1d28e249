// Package types provides type definitions for the structured artifacts passed
// between pipeline stages.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// JobProfile represents a structured job posting extracted from raw text
type JobProfile struct {
	Title            string   `json:"title" validate:"required"`
	Company          string   `json:"company" validate:"required"`
	Location         string   `json:"location,omitempty"`
	Seniority        string   `json:"seniority,omitempty"`
	RequiredSkills   []string `json:"required_skills"`
	PreferredSkills  []string `json:"preferred_skills,omitempty"`
	Responsibilities []string `json:"responsibilities"`
	Keywords         []string `json:"keywords"`
	RawSourceURL     string   `json:"raw_source_url"`
}

// Normalize lowercases, trims, and dedups keywords, then folds required
// skills into the keyword set so keywords remain a superset of the skills.
func (p *JobProfile) Normalize() {
	merged := make([]string, 0, len(p.Keywords)+len(p.RequiredSkills))
	merged = append(merged, p.Keywords...)
	merged = append(merged, p.RequiredSkills...)

	seen := make(map[string]bool, len(merged))
	normalized := make([]string, 0, len(merged))
	for _, keyword := range merged {
		k := strings.ToLower(strings.TrimSpace(keyword))
		if k != "" && !seen[k] {
			normalized = append(normalized, k)
			seen[k] = true
		}
	}
	p.Keywords = normalized

	if p.RequiredSkills == nil {
		p.RequiredSkills = []string{}
	}
	if p.Responsibilities == nil {
		p.Responsibilities = []string{}
	}
}

// Degraded reports whether the profile came out of extraction with no usable
// keyword signal, which happens when the source page yields no real text.
func (p *JobProfile) Degraded() bool {
	return len(p.Keywords) == 0
}
