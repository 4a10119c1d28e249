package llm

import (
	"testing"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "code block with language",
			input:    "```javascript\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "plain JSON",
			input:    `{"key": "value"}`,
			expected: `{"key": "value"}`,
		},
		{
			name:     "surrounding whitespace",
			input:    "  \n{\"key\": \"value\"}\n  ",
			expected: `{"key": "value"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanJSONBlock(tt.input)
			if result != tt.expected {
				t.Errorf("CleanJSONBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestCleanLaTeXBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "latex code block",
			input:    "```latex\n\\documentclass{article}\n```",
			expected: `\documentclass{article}`,
		},
		{
			name:     "tex code block",
			input:    "```tex\n\\documentclass{article}\n```",
			expected: `\documentclass{article}`,
		},
		{
			name:     "generic code block",
			input:    "```\n\\documentclass{article}\n```",
			expected: `\documentclass{article}`,
		},
		{
			name:     "plain latex",
			input:    `\documentclass{article}`,
			expected: `\documentclass{article}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanLaTeXBlock(tt.input)
			if result != tt.expected {
				t.Errorf("CleanLaTeXBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}
