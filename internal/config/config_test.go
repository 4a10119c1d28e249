package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"job_url": "https://example.com/job",
		"resume": "resume.tex",
		"output_dir": "out",
		"cover_letter": true,
		"stage_timeout_seconds": 60,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "https://example.com/job", cfg.JobURL)
	assert.Equal(t, "resume.tex", cfg.Resume)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, 60, cfg.StageTimeoutSeconds)
	assert.True(t, cfg.CoverLetter)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestValidate_NegativeTimeout(t *testing.T) {
	cfg := &Config{StageTimeoutSeconds: -1}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "stage_timeout_seconds")
}

func TestValidate_JobURLAcceptsHTTPAndLocalFile(t *testing.T) {
	jobFile := filepath.Join(t.TempDir(), "posting.txt")
	require.NoError(t, os.WriteFile(jobFile, []byte("posting"), 0644))

	tests := []struct {
		name   string
		jobURL string
		ok     bool
	}{
		{name: "https url", jobURL: "https://example.com/job", ok: true},
		{name: "http url", jobURL: "http://example.com/job", ok: true},
		{name: "existing file", jobURL: jobFile, ok: true},
		{name: "missing file", jobURL: "/nonexistent/posting.txt", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{JobURL: tt.jobURL}
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_MissingResume(t *testing.T) {
	cfg := &Config{Resume: "/nonexistent/resume.tex"}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "resume file not found")
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{JobURL: "https://example.com/job"}
	defaults := Config{
		JobURL:              "https://default.example.com",
		OutputDir:           "output",
		StageTimeoutSeconds: 120,
	}

	merged := cfg.MergeWithDefaults(defaults)

	// Explicit values win; empty values fall back
	assert.Equal(t, "https://example.com/job", merged.JobURL)
	assert.Equal(t, "output", merged.OutputDir)
	assert.Equal(t, 120, merged.StageTimeoutSeconds)
}
