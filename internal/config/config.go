// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Inputs
	JobURL string `json:"job_url,omitempty"` // URL of the job posting, or a path to a saved HTML/text file
	Resume string `json:"resume,omitempty"`  // Path to the source LaTeX resume

	// Outputs
	OutputDir string `json:"output_dir,omitempty"` // Directory holding per-run output directories
	RunID     string `json:"run_id,omitempty"`     // Existing run ID to resume

	// Behavior
	CoverLetter         bool   `json:"cover_letter,omitempty"`          // Generate a cover letter after the resume
	UseBrowser          bool   `json:"use_browser,omitempty"`           // Use headless browser for SPA job boards
	Verbose             bool   `json:"verbose,omitempty"`               // Print detailed debug information
	StageTimeoutSeconds int    `json:"stage_timeout_seconds,omitempty"` // Per-stage time budget
	APIKey              string `json:"api_key,omitempty"`               // Gemini API key
	SearchAPIKey        string `json:"search_api_key,omitempty"`        // Google Custom Search API key
	SearchCX            string `json:"search_cx,omitempty"`             // Google Custom Search engine ID
	DatabaseURL         string `json:"database_url,omitempty"`          // PostgreSQL connection URL for the artifact mirror
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.StageTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'stage_timeout_seconds' must be non-negative")
	}

	// A job_url that parses as http(s) is fetched; anything else must be a
	// readable local file
	if c.JobURL != "" {
		if u, err := url.Parse(c.JobURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			if _, statErr := os.Stat(c.JobURL); os.IsNotExist(statErr) {
				return fmt.Errorf("config error: 'job_url' is neither an http(s) URL nor an existing file: %s", c.JobURL)
			}
		}
	}

	if c.Resume != "" {
		if _, err := os.Stat(c.Resume); os.IsNotExist(err) {
			return fmt.Errorf("config error: resume file not found: %s", c.Resume)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.JobURL == "" {
		result.JobURL = defaults.JobURL
	}
	if result.Resume == "" {
		result.Resume = defaults.Resume
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.RunID == "" {
		result.RunID = defaults.RunID
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.SearchAPIKey == "" {
		result.SearchAPIKey = defaults.SearchAPIKey
	}
	if result.SearchCX == "" {
		result.SearchCX = defaults.SearchCX
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Int fields: use default if zero
	if result.StageTimeoutSeconds == 0 {
		result.StageTimeoutSeconds = defaults.StageTimeoutSeconds
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
