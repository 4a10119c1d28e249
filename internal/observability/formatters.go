// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/job-tailor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintJobProfile outputs a human-readable summary of the extracted job profile.
func (p *Printer) PrintJobProfile(profile *types.JobProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Company:  %s\n", profile.Company))
	sb.WriteString(fmt.Sprintf("Role:     %s\n", profile.Title))
	if profile.Location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", profile.Location))
	}
	if profile.Seniority != "" {
		sb.WriteString(fmt.Sprintf("Level:    %s\n", profile.Seniority))
	}
	sb.WriteString("\n")

	if len(profile.RequiredSkills) > 0 {
		sb.WriteString("Required skills:\n")
		count := min(len(profile.RequiredSkills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", profile.RequiredSkills[i]))
		}
		if len(profile.RequiredSkills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(profile.RequiredSkills)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(profile.PreferredSkills) > 0 {
		sb.WriteString("Preferred skills:\n")
		count := min(len(profile.PreferredSkills), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", profile.PreferredSkills[i]))
		}
		if len(profile.PreferredSkills) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(profile.PreferredSkills)-3))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Keywords: %d\n", len(profile.Keywords)))

	p.printBox("EXTRACTED JOB PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCompanyBrief outputs a human-readable summary of the research results.
func (p *Printer) PrintCompanyBrief(brief *types.CompanyBrief) {
	if brief == nil {
		return
	}
	if brief.Empty() {
		p.printBox("COMPANY BRIEF", "No research results; brief is empty")
		return
	}

	var sb strings.Builder

	if brief.Mission != "" {
		sb.WriteString(fmt.Sprintf("Mission: %s\n\n", brief.Mission))
	}

	if len(brief.TechStack) > 0 {
		stack := strings.Join(brief.TechStack, ", ")
		sb.WriteString(fmt.Sprintf("Tech stack: %s\n\n", stack))
	}

	if len(brief.RecentNews) > 0 {
		sb.WriteString("Recent news:\n")
		count := min(len(brief.RecentNews), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", brief.RecentNews[i].Headline))
		}
	}

	p.printBox("COMPANY BRIEF", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEditPlan outputs the planned directives grouped by operation.
func (p *Printer) PrintEditPlan(plan *types.EditPlan) {
	if plan == nil || len(plan.Directives) == 0 {
		return
	}

	var sb strings.Builder

	if plan.Strategy != "" {
		sb.WriteString(fmt.Sprintf("Strategy: %s\n\n", plan.Strategy))
	}

	counts := map[types.Operation]int{}
	for _, d := range plan.Directives {
		counts[d.Operation]++
	}
	sb.WriteString(fmt.Sprintf("Directives: %d total\n", len(plan.Directives)))
	for _, op := range []types.Operation{types.OpRewriteBullet, types.OpInjectKeyword, types.OpAddBullet, types.OpRemoveBullet} {
		if counts[op] > 0 {
			sb.WriteString(fmt.Sprintf("  %-15s %d\n", op, counts[op]))
		}
	}
	sb.WriteString("\n")

	count := min(len(plan.Directives), maxItemsToShow)
	for i := 0; i < count; i++ {
		d := plan.Directives[i]
		sb.WriteString(fmt.Sprintf("#%d  [%s] %s\n", i+1, d.Operation, d.TargetSection))
		if d.Justification != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", d.Justification))
		}
	}
	if len(plan.Directives) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(plan.Directives)-maxItemsToShow))
	}

	p.printBox("EDIT PLAN", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRunSummary outputs the terminal state of a pipeline run.
func (p *Printer) PrintRunSummary(summary *types.RunSummary) {
	if summary == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Run:    %s\n", summary.RunID))
	sb.WriteString(fmt.Sprintf("Status: %s\n", summary.Status))
	if summary.FailedStage != "" {
		sb.WriteString(fmt.Sprintf("Failed: %s\n", summary.FailedStage))
	}
	sb.WriteString("\n")

	for _, result := range summary.Stages {
		marker := "✓"
		switch result.Status {
		case types.StatusDegraded:
			marker = "~"
		case types.StatusFailed:
			marker = "✗"
		}
		line := fmt.Sprintf("%s %-20s %s", marker, result.Stage, result.Status)
		if result.Resumed {
			line += " (resumed)"
		}
		sb.WriteString(line + "\n")
		if result.Error != "" {
			sb.WriteString(fmt.Sprintf("    %s: %s\n", result.ErrorKind, result.Error))
		}
	}

	if summary.DiffSummary != nil {
		d := summary.DiffSummary
		sb.WriteString(fmt.Sprintf("\nEdits: %d applied, %d skipped, %d failed\n",
			d.Applied, d.SkippedAtValidation, d.FailedAtApply))
	}

	p.printBox("RUN SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}
