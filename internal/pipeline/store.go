package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/job-tailor/internal/schemas"
	"github.com/jonathan/job-tailor/internal/types"
)

// Artifact file names within a run directory
const (
	FileJobProfile     = "job_profile.json"
	FileCompanyBrief   = "company_brief.json"
	FileEditPlan       = "edit_plan.json"
	FileTailoredResume = "tailored_resume.tex"
	FileCoverLetter    = "cover_letter.tex"
	FileRunSummary     = "run_summary.json"
)

// Store persists run artifacts to the run's output directory. The directory
// is the source of truth for resumability: a stage whose artifact is present
// and valid is already done. Writes are atomic (temp file + rename) so a
// failing stage never leaves a partial artifact behind.
type Store struct {
	dir string
}

// NewStore creates the run directory under outputDir and returns its store
func NewStore(outputDir string, runID uuid.UUID) (*Store, error) {
	dir := filepath.Join(outputDir, runID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create run directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the run directory path
func (s *Store) Dir() string {
	return s.dir
}

// SaveJobProfile persists the job profile artifact
func (s *Store) SaveJobProfile(profile *types.JobProfile) error {
	return s.saveJSON(FileJobProfile, profile)
}

// SaveCompanyBrief persists the company brief artifact
func (s *Store) SaveCompanyBrief(brief *types.CompanyBrief) error {
	return s.saveJSON(FileCompanyBrief, brief)
}

// SaveEditPlan persists the edit plan artifact
func (s *Store) SaveEditPlan(plan *types.EditPlan) error {
	return s.saveJSON(FileEditPlan, plan)
}

// SaveTailoredResume persists the tailored résumé LaTeX text
func (s *Store) SaveTailoredResume(resume *types.TailoredResume) error {
	return s.saveText(FileTailoredResume, resume.Text)
}

// SaveCoverLetter persists the cover-letter LaTeX text
func (s *Store) SaveCoverLetter(letter *types.CoverLetter) error {
	return s.saveText(FileCoverLetter, letter.Text)
}

// SaveSummary persists the run summary
func (s *Store) SaveSummary(summary *types.RunSummary) error {
	return s.saveJSON(FileRunSummary, summary)
}

// LoadJobProfile returns the persisted job profile, or nil when absent.
// An artifact that fails its schema check is reported as an error and
// treated by the caller as not done.
func (s *Store) LoadJobProfile() (*types.JobProfile, error) {
	data, err := s.read(FileJobProfile)
	if data == nil || err != nil {
		return nil, err
	}
	if err := schemas.ValidateString(schemas.NameJobProfile, schemas.JobProfile, string(data)); err != nil {
		return nil, err
	}
	var profile types.JobProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse persisted job profile: %w", err)
	}
	return &profile, nil
}

// LoadCompanyBrief returns the persisted company brief, or nil when absent
func (s *Store) LoadCompanyBrief() (*types.CompanyBrief, error) {
	data, err := s.read(FileCompanyBrief)
	if data == nil || err != nil {
		return nil, err
	}
	if err := schemas.ValidateString(schemas.NameCompanyBrief, schemas.CompanyBrief, string(data)); err != nil {
		return nil, err
	}
	var brief types.CompanyBrief
	if err := json.Unmarshal(data, &brief); err != nil {
		return nil, fmt.Errorf("failed to parse persisted company brief: %w", err)
	}
	brief.Normalize()
	return &brief, nil
}

// LoadEditPlan returns the persisted edit plan, or nil when absent
func (s *Store) LoadEditPlan() (*types.EditPlan, error) {
	data, err := s.read(FileEditPlan)
	if data == nil || err != nil {
		return nil, err
	}
	if err := schemas.ValidateString(schemas.NameEditPlan, schemas.EditPlan, string(data)); err != nil {
		return nil, err
	}
	var plan types.EditPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse persisted edit plan: %w", err)
	}
	if len(plan.Directives) == 0 {
		return nil, fmt.Errorf("persisted edit plan has no directives")
	}
	return &plan, nil
}

// LoadTailoredResume returns the persisted tailored résumé, or nil when
// absent. The text must still look like a LaTeX document to count as valid.
func (s *Store) LoadTailoredResume() (*types.TailoredResume, error) {
	data, err := s.read(FileTailoredResume)
	if data == nil || err != nil {
		return nil, err
	}
	text := string(data)
	if !strings.Contains(text, `\begin{document}`) {
		return nil, fmt.Errorf("persisted resume is not a LaTeX document")
	}
	return &types.TailoredResume{Text: text}, nil
}

// LoadCoverLetter returns the persisted cover letter, or nil when absent
func (s *Store) LoadCoverLetter() (*types.CoverLetter, error) {
	data, err := s.read(FileCoverLetter)
	if data == nil || err != nil {
		return nil, err
	}
	text := string(data)
	if !strings.Contains(text, `\begin{document}`) {
		return nil, fmt.Errorf("persisted cover letter is not a LaTeX document")
	}
	return &types.CoverLetter{Text: text}, nil
}

// LoadSummary returns the persisted run summary from a previous attempt, or
// nil when absent
func (s *Store) LoadSummary() (*types.RunSummary, error) {
	data, err := s.read(FileRunSummary)
	if data == nil || err != nil {
		return nil, err
	}
	var summary types.RunSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to parse persisted run summary: %w", err)
	}
	return &summary, nil
}

// read returns file content, or nil when the file does not exist
func (s *Store) read(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", name, err)
	}
	return data, nil
}

func (s *Store) saveJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	return s.writeAtomic(name, append(data, '\n'))
}

func (s *Store) saveText(name, text string) error {
	return s.writeAtomic(name, []byte(text))
}

// writeAtomic writes to a temp file in the run directory and renames it
// into place, so readers never observe a partially written artifact
func (s *Store) writeAtomic(name string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file for %s: %w", name, err)
	}

	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to finalize %s: %w", name, err)
	}
	return nil
}
