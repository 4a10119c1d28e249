package observability

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/job-tailor/internal/types"
)

func TestPrintJobProfile(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf)

	printer.PrintJobProfile(&types.JobProfile{
		Title:           "Backend Engineer",
		Company:         "Acme",
		Location:        "Remote",
		RequiredSkills:  []string{"Go", "PostgreSQL", "Kubernetes", "Docker", "gRPC", "Kafka"},
		PreferredSkills: []string{"Rust"},
		Keywords:        []string{"go", "postgresql"},
	})

	out := buf.String()
	assert.Contains(t, out, "EXTRACTED JOB PROFILE")
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "Backend Engineer")
	assert.Contains(t, out, "... and 1 more")
}

func TestPrintJobProfile_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintJobProfile(nil)
	assert.Empty(t, buf.String())
}

func TestPrintCompanyBrief_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintCompanyBrief(types.EmptyCompanyBrief())
	assert.Contains(t, buf.String(), "brief is empty")
}

func TestPrintEditPlan(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf)

	printer.PrintEditPlan(&types.EditPlan{
		Strategy: "Emphasize backend work",
		Directives: []types.EditDirective{
			{TargetSection: "Experience", Operation: types.OpRewriteBullet, Justification: "stronger verb"},
			{TargetSection: "Skills", Operation: types.OpInjectKeyword},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "EDIT PLAN")
	assert.Contains(t, out, "2 total")
	assert.Contains(t, out, "REWRITE_BULLET")
	assert.Contains(t, out, "stronger verb")
}

func TestPrintRunSummary(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf)

	printer.PrintRunSummary(&types.RunSummary{
		RunID:  uuid.New(),
		Status: types.RunStatusPartialSuccess,
		Stages: []types.StageResult{
			{Stage: types.StageAnalyzingJob, Status: types.StatusSuccess, Resumed: true},
			{Stage: types.StageWritingCoverLetter, Status: types.StatusFailed, ErrorKind: "CoverLetterError", Error: "boom"},
		},
		DiffSummary: &types.DiffSummary{Applied: 2, SkippedAtValidation: 1},
	})

	out := buf.String()
	assert.Contains(t, out, "RUN SUMMARY")
	assert.Contains(t, out, "partial_success")
	assert.Contains(t, out, "(resumed)")
	assert.Contains(t, out, "CoverLetterError")
	assert.Contains(t, out, "2 applied, 1 skipped")
}
