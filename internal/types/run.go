package types

import (
	"time"

	"github.com/google/uuid"
)

// Stage identifies a pipeline state-machine state
type Stage string

// Pipeline states, in execution order. Failed is absorbing.
const (
	StageInit               Stage = "init"
	StageAnalyzingJob       Stage = "analyzing_job"
	StageResearchingCompany Stage = "researching_company"
	StageStrategizing       Stage = "strategizing"
	StageRefactoring        Stage = "refactoring"
	StageWritingCoverLetter Stage = "writing_cover_letter"
	StageDone               Stage = "done"
	StageFailed             Stage = "failed"
)

// StageStatus is the outcome of one stage
type StageStatus string

// Stage outcomes. Degraded means usable but known-incomplete output.
const (
	StatusSuccess  StageStatus = "success"
	StatusDegraded StageStatus = "degraded"
	StatusFailed   StageStatus = "failed"
)

// StageResult records one stage's outcome for the run summary
type StageResult struct {
	Stage      Stage       `json:"stage"`
	Status     StageStatus `json:"status"`
	ErrorKind  string      `json:"error_kind,omitempty"`
	Error      string      `json:"error,omitempty"`
	Resumed    bool        `json:"resumed,omitempty"`
	DurationMS int64       `json:"duration_ms"`
}

// PipelineRun is the aggregate state threading through all stages. Only the
// orchestrator writes it; execution is strictly sequential.
type PipelineRun struct {
	ID           uuid.UUID     `json:"id"`
	JobURL       string        `json:"job_url"`
	ResumePath   string        `json:"resume_path"`
	CoverLetter  bool          `json:"cover_letter"`
	StartedAt    time.Time     `json:"started_at"`
	CurrentStage Stage         `json:"current_stage"`
	Results      []StageResult `json:"results"`

	// Artifact references, populated as stages complete
	JobProfile     *JobProfile     `json:"-"`
	CompanyBrief   *CompanyBrief   `json:"-"`
	EditPlan       *EditPlan       `json:"-"`
	TailoredResume *TailoredResume `json:"-"`
	CoverLetterDoc *CoverLetter    `json:"-"`
}

// NewPipelineRun creates a run in the initial state
func NewPipelineRun(id uuid.UUID, jobURL, resumePath string, coverLetter bool) *PipelineRun {
	return &PipelineRun{
		ID:           id,
		JobURL:       jobURL,
		ResumePath:   resumePath,
		CoverLetter:  coverLetter,
		StartedAt:    time.Now().UTC(),
		CurrentStage: StageInit,
		Results:      []StageResult{},
	}
}

// Record appends a stage result and returns it
func (r *PipelineRun) Record(result StageResult) StageResult {
	r.Results = append(r.Results, result)
	return result
}

// MarkFailed records a stage failure. An earlier result for the stage is
// amended in place, so a failure raised after the stage body returned (a
// failed artifact write) does not leave a success result behind.
func (r *PipelineRun) MarkFailed(stage Stage, kind, message string) {
	for i := range r.Results {
		if r.Results[i].Stage == stage {
			r.Results[i].Status = StatusFailed
			r.Results[i].ErrorKind = kind
			r.Results[i].Error = message
			return
		}
	}
	r.Results = append(r.Results, StageResult{Stage: stage, Status: StatusFailed, ErrorKind: kind, Error: message})
}

// ResultFor returns the recorded result for a stage, or nil
func (r *PipelineRun) ResultFor(stage Stage) *StageResult {
	for i := range r.Results {
		if r.Results[i].Stage == stage {
			return &r.Results[i]
		}
	}
	return nil
}

// Run-level terminal statuses for the summary file
const (
	RunStatusDone           = "done"
	RunStatusPartialSuccess = "partial_success"
	RunStatusFailed         = "failed"
)

// RunSummary is the persisted per-run report: terminal status, per-stage
// results, and the refactorer's diff accounting
type RunSummary struct {
	RunID       uuid.UUID     `json:"run_id"`
	JobURL      string        `json:"job_url"`
	Status      string        `json:"status"`
	FailedStage Stage         `json:"failed_stage,omitempty"`
	Stages      []StageResult `json:"stages"`
	DiffSummary *DiffSummary  `json:"diff_summary,omitempty"`
	CompletedAt time.Time     `json:"completed_at"`
}
