// Package pipeline provides the orchestrator for the job-application
// pipeline: stage sequencing, artifact persistence, failure policy, and the
// resulting run summary.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/job-tailor/internal/db"
	"github.com/jonathan/job-tailor/internal/observability"
	"github.com/jonathan/job-tailor/internal/types"
)

// JobAnalyzer fetches a job posting and extracts a JobProfile
type JobAnalyzer interface {
	Run(ctx context.Context, jobSource string) (*types.JobProfile, types.StageStatus, error)
}

// CompanyResearcher synthesizes a CompanyBrief for the profile's company
type CompanyResearcher interface {
	Run(ctx context.Context, profile *types.JobProfile) (*types.CompanyBrief, types.StageStatus, error)
}

// ResumeStrategist produces a validated EditPlan plus the count of
// directives dropped at validation
type ResumeStrategist interface {
	Run(ctx context.Context, profile *types.JobProfile, brief *types.CompanyBrief, resumeText string) (*types.EditPlan, int, error)
}

// LatexRefactorer applies an EditPlan to the source résumé
type LatexRefactorer interface {
	Apply(plan *types.EditPlan, resumeText string, skippedAtValidation int) (*types.TailoredResume, error)
}

// CoverLetterWriter produces a cover letter from all prior artifacts
type CoverLetterWriter interface {
	Run(ctx context.Context, profile *types.JobProfile, brief *types.CompanyBrief, plan *types.EditPlan, resume *types.TailoredResume) (*types.CoverLetter, error)
}

// PDFCompiler renders a persisted .tex artifact to a PDF next to it
type PDFCompiler interface {
	Compile(ctx context.Context, texPath string) (string, error)
}

// Options configures a pipeline run
type Options struct {
	JobURL       string
	ResumePath   string
	OutputDir    string
	RunID        uuid.UUID
	CoverLetter  bool
	StageTimeout time.Duration
	Verbose      bool
}

// Dependencies are the orchestrator's collaborators. DB is an optional
// artifact mirror and PDF an optional renderer; the pipeline proceeds
// without either.
type Dependencies struct {
	Analyzer     JobAnalyzer
	Researcher   CompanyResearcher
	Strategist   ResumeStrategist
	Refactorer   LatexRefactorer
	LetterWriter CoverLetterWriter
	PDF          PDFCompiler
	DB           *db.DB
	Printer      *observability.Printer
}

// Orchestrator drives the stages in dependency order. Execution is strictly
// sequential: each stage's input is the prior stage's output.
type Orchestrator struct {
	opts  Options
	deps  Dependencies
	store *Store
}

// NewOrchestrator creates an orchestrator and its run directory
func NewOrchestrator(opts Options, deps Dependencies) (*Orchestrator, error) {
	if opts.RunID == uuid.Nil {
		opts.RunID = uuid.New()
	}
	store, err := NewStore(opts.OutputDir, opts.RunID)
	if err != nil {
		return nil, err
	}
	return &Orchestrator{opts: opts, deps: deps, store: store}, nil
}

// Store exposes the run's artifact store
func (o *Orchestrator) Store() *Store {
	return o.store
}

// Run executes the pipeline to a terminal state and returns the run
// summary. A non-nil error means the run FAILED; a cover-letter-only
// failure returns a nil error with summary status partial_success.
func (o *Orchestrator) Run(ctx context.Context) (*types.RunSummary, error) {
	resumeData, err := os.ReadFile(o.opts.ResumePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume %s: %w", o.opts.ResumePath, err)
	}
	resumeText := string(resumeData)

	run := types.NewPipelineRun(o.opts.RunID, o.opts.JobURL, o.opts.ResumePath, o.opts.CoverLetter)
	prior, _ := o.store.LoadSummary()

	totalSteps := 4
	if o.opts.CoverLetter {
		totalSteps = 5
	}

	// Stage 1: job analysis
	fmt.Printf("Step 1/%d: Analyzing job posting...\n", totalSteps)
	run.CurrentStage = types.StageAnalyzingJob
	if profile, _ := o.store.LoadJobProfile(); profile != nil {
		run.JobProfile = profile
		o.recordResumed(run, types.StageAnalyzingJob, statusForProfile(profile))
	} else {
		_, err := o.timed(ctx, run, types.StageAnalyzingJob, func(sctx context.Context) (types.StageStatus, error) {
			profile, status, err := o.deps.Analyzer.Run(sctx, o.opts.JobURL)
			if err != nil {
				return status, err
			}
			run.JobProfile = profile
			return status, nil
		})
		if err != nil {
			return o.fail(ctx, run, err)
		}
		if err := o.store.SaveJobProfile(run.JobProfile); err != nil {
			return o.fail(ctx, run, err)
		}
	}
	o.mirrorStart(ctx, run)
	o.mirrorJSON(ctx, "job_profile", run.JobProfile)
	fmt.Printf("  Job: %s at %s\n", run.JobProfile.Title, run.JobProfile.Company)
	if o.opts.Verbose && o.deps.Printer != nil {
		o.deps.Printer.PrintJobProfile(run.JobProfile)
	}

	// Stage 2: company research
	fmt.Printf("Step 2/%d: Researching %s...\n", totalSteps, run.JobProfile.Company)
	run.CurrentStage = types.StageResearchingCompany
	if brief, _ := o.store.LoadCompanyBrief(); brief != nil {
		run.CompanyBrief = brief
		o.recordResumed(run, types.StageResearchingCompany, statusForBrief(brief))
	} else {
		_, err := o.timed(ctx, run, types.StageResearchingCompany, func(sctx context.Context) (types.StageStatus, error) {
			brief, status, err := o.deps.Researcher.Run(sctx, run.JobProfile)
			if err != nil {
				return status, err
			}
			run.CompanyBrief = brief
			return status, nil
		})
		if err != nil {
			return o.fail(ctx, run, err)
		}
		if err := o.store.SaveCompanyBrief(run.CompanyBrief); err != nil {
			return o.fail(ctx, run, err)
		}
	}
	o.mirrorJSON(ctx, "company_brief", run.CompanyBrief)
	if o.opts.Verbose && o.deps.Printer != nil {
		o.deps.Printer.PrintCompanyBrief(run.CompanyBrief)
	}

	// Stage 3: edit strategy
	fmt.Printf("Step 3/%d: Planning resume edits...\n", totalSteps)
	run.CurrentStage = types.StageStrategizing
	skippedAtValidation := 0
	if plan, _ := o.store.LoadEditPlan(); plan != nil {
		run.EditPlan = plan
		skippedAtValidation = priorSkipCount(prior)
		o.recordResumed(run, types.StageStrategizing, types.StatusSuccess)
	} else {
		_, err := o.timed(ctx, run, types.StageStrategizing, func(sctx context.Context) (types.StageStatus, error) {
			plan, skipped, err := o.deps.Strategist.Run(sctx, run.JobProfile, run.CompanyBrief, resumeText)
			skippedAtValidation = skipped
			if err != nil {
				return types.StatusFailed, err
			}
			run.EditPlan = plan
			return types.StatusSuccess, nil
		})
		if err != nil {
			return o.fail(ctx, run, err)
		}
		if err := o.store.SaveEditPlan(run.EditPlan); err != nil {
			return o.fail(ctx, run, err)
		}
	}
	o.mirrorJSON(ctx, "edit_plan", run.EditPlan)
	fmt.Printf("  Plan: %d directives\n", len(run.EditPlan.Directives))
	if o.opts.Verbose && o.deps.Printer != nil {
		o.deps.Printer.PrintEditPlan(run.EditPlan)
	}

	// Stage 4: refactoring
	fmt.Printf("Step 4/%d: Applying edits to LaTeX resume...\n", totalSteps)
	run.CurrentStage = types.StageRefactoring
	if resume, _ := o.store.LoadTailoredResume(); resume != nil {
		resume.Diff = priorDiff(prior)
		run.TailoredResume = resume
		o.recordResumed(run, types.StageRefactoring, types.StatusSuccess)
	} else {
		_, err := o.timed(ctx, run, types.StageRefactoring, func(_ context.Context) (types.StageStatus, error) {
			resume, err := o.deps.Refactorer.Apply(run.EditPlan, resumeText, skippedAtValidation)
			if err != nil {
				return types.StatusFailed, err
			}
			run.TailoredResume = resume
			return types.StatusSuccess, nil
		})
		if err != nil {
			return o.fail(ctx, run, err)
		}
		if err := o.store.SaveTailoredResume(run.TailoredResume); err != nil {
			return o.fail(ctx, run, err)
		}
		o.compilePDF(ctx, FileTailoredResume)
	}
	o.mirrorText(ctx, "tailored_resume", run.TailoredResume.Text)
	diff := run.TailoredResume.Diff
	fmt.Printf("  Applied %d, skipped %d, failed %d\n", diff.Applied, diff.SkippedAtValidation, diff.FailedAtApply)

	// Optional stage 5: cover letter. Its failure downgrades only the
	// cover-letter portion; the résumé artifacts stand.
	partial := false
	if o.opts.CoverLetter {
		fmt.Printf("Step 5/%d: Writing cover letter...\n", totalSteps)
		run.CurrentStage = types.StageWritingCoverLetter
		if letter, _ := o.store.LoadCoverLetter(); letter != nil {
			run.CoverLetterDoc = letter
			o.recordResumed(run, types.StageWritingCoverLetter, types.StatusSuccess)
		} else {
			_, err := o.timed(ctx, run, types.StageWritingCoverLetter, func(sctx context.Context) (types.StageStatus, error) {
				letter, err := o.deps.LetterWriter.Run(sctx, run.JobProfile, run.CompanyBrief, run.EditPlan, run.TailoredResume)
				if err != nil {
					return types.StatusFailed, err
				}
				run.CoverLetterDoc = letter
				return types.StatusSuccess, nil
			})
			if err != nil {
				fmt.Printf("Warning: cover letter failed, resume artifacts are unaffected: %v\n", err)
				partial = true
			} else if err := o.store.SaveCoverLetter(run.CoverLetterDoc); err != nil {
				fmt.Printf("Warning: failed to persist cover letter: %v\n", err)
				run.MarkFailed(types.StageWritingCoverLetter, Classify(err), err.Error())
				partial = true
			} else {
				o.compilePDF(ctx, FileCoverLetter)
			}
		}
		if run.CoverLetterDoc != nil {
			o.mirrorText(ctx, "cover_letter", run.CoverLetterDoc.Text)
		}
	}

	run.CurrentStage = types.StageDone
	status := types.RunStatusDone
	if partial {
		status = types.RunStatusPartialSuccess
	}
	summary := o.finish(ctx, run, status, "")
	return summary, nil
}

// timed runs one stage body under the per-stage timeout budget and records
// its result
func (o *Orchestrator) timed(ctx context.Context, run *types.PipelineRun, stage types.Stage, fn func(ctx context.Context) (types.StageStatus, error)) (types.StageStatus, error) {
	sctx := ctx
	var cancel context.CancelFunc = func() {}
	if o.opts.StageTimeout > 0 {
		sctx, cancel = context.WithTimeout(ctx, o.opts.StageTimeout)
	}
	defer cancel()

	start := time.Now()
	status, err := fn(sctx)
	result := types.StageResult{
		Stage:      stage,
		Status:     status,
		DurationMS: time.Since(start).Milliseconds(),
	}
	if err != nil {
		result.Status = types.StatusFailed
		result.ErrorKind = Classify(err)
		result.Error = err.Error()
	}
	run.Record(result)
	return status, err
}

// recordResumed records a stage satisfied by an already-persisted artifact;
// no external call was made
func (o *Orchestrator) recordResumed(run *types.PipelineRun, stage types.Stage, status types.StageStatus) {
	if o.opts.Verbose {
		fmt.Printf("  Resuming from persisted artifact, skipping %s\n", stage)
	}
	run.Record(types.StageResult{Stage: stage, Status: status, Resumed: true})
}

// fail moves the run to the absorbing FAILED state, persists the summary,
// and propagates the stage error. The failing stage's recorded result is
// amended to failed, covering errors raised after the stage body returned
// (an artifact write failure).
func (o *Orchestrator) fail(ctx context.Context, run *types.PipelineRun, err error) (*types.RunSummary, error) {
	failedStage := run.CurrentStage
	run.MarkFailed(failedStage, Classify(err), err.Error())
	run.CurrentStage = types.StageFailed
	summary := o.finish(ctx, run, types.RunStatusFailed, failedStage)
	return summary, err
}

// compilePDF renders a persisted artifact to PDF, best effort. The .tex on
// disk is the deliverable; a failed remote compile only warns.
func (o *Orchestrator) compilePDF(ctx context.Context, name string) {
	if o.deps.PDF == nil {
		return
	}
	pdfPath, err := o.deps.PDF.Compile(ctx, filepath.Join(o.store.Dir(), name))
	if err != nil {
		fmt.Printf("Warning: PDF compilation failed, the .tex file is still saved: %v\n", err)
		return
	}
	if o.opts.Verbose {
		fmt.Printf("  Compiled %s\n", pdfPath)
	}
}

func (o *Orchestrator) finish(ctx context.Context, run *types.PipelineRun, status string, failedStage types.Stage) *types.RunSummary {
	summary := &types.RunSummary{
		RunID:       run.ID,
		JobURL:      run.JobURL,
		Status:      status,
		FailedStage: failedStage,
		Stages:      run.Results,
		CompletedAt: time.Now().UTC(),
	}
	if run.TailoredResume != nil {
		diff := run.TailoredResume.Diff
		summary.DiffSummary = &diff
	}

	if err := o.store.SaveSummary(summary); err != nil {
		fmt.Printf("Warning: failed to write run summary: %v\n", err)
	}
	if o.opts.Verbose && o.deps.Printer != nil {
		o.deps.Printer.PrintRunSummary(summary)
	}
	if o.deps.DB != nil {
		_ = o.deps.DB.CompleteRun(ctx, run.ID, status)
	}
	return summary
}

// mirrorStart creates the run row in the optional database mirror
func (o *Orchestrator) mirrorStart(ctx context.Context, run *types.PipelineRun) {
	if o.deps.DB == nil || run.JobProfile == nil {
		return
	}
	_ = o.deps.DB.CreateRun(ctx, run.ID, run.JobProfile.Company, run.JobProfile.Title, run.JobURL)
}

func (o *Orchestrator) mirrorJSON(ctx context.Context, name string, v any) {
	if o.deps.DB == nil {
		return
	}
	_ = o.deps.DB.SaveArtifact(ctx, o.opts.RunID, name, v)
}

func (o *Orchestrator) mirrorText(ctx context.Context, name, text string) {
	if o.deps.DB == nil {
		return
	}
	_ = o.deps.DB.SaveTextArtifact(ctx, o.opts.RunID, name, text)
}

// statusForProfile reconstructs a resumed analysis stage's status
func statusForProfile(profile *types.JobProfile) types.StageStatus {
	if profile.Degraded() {
		return types.StatusDegraded
	}
	return types.StatusSuccess
}

// statusForBrief reconstructs a resumed research stage's status
func statusForBrief(brief *types.CompanyBrief) types.StageStatus {
	if brief.Empty() {
		return types.StatusDegraded
	}
	return types.StatusSuccess
}

// priorSkipCount recovers the validation-skip count from a previous
// attempt's summary when the strategy stage is resumed from disk
func priorSkipCount(prior *types.RunSummary) int {
	if prior != nil && prior.DiffSummary != nil {
		return prior.DiffSummary.SkippedAtValidation
	}
	return 0
}

// priorDiff recovers the diff summary from a previous attempt when the
// refactoring stage is resumed from disk
func priorDiff(prior *types.RunSummary) types.DiffSummary {
	if prior != nil && prior.DiffSummary != nil {
		return *prior.DiffSummary
	}
	return types.DiffSummary{}
}
