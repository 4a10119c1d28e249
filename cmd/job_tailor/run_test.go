package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveStageTimeout(t *testing.T) {
	tests := []struct {
		name        string
		flagChanged bool
		flagValue   int
		merged      int
		want        int
	}{
		{name: "unset flag keeps merged default", flagChanged: false, flagValue: 0, merged: 120, want: 120},
		{name: "explicit value wins", flagChanged: true, flagValue: 45, merged: 45, want: 45},
		{name: "explicit zero disables the timeout", flagChanged: true, flagValue: 0, merged: 120, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveStageTimeout(tt.flagChanged, tt.flagValue, tt.merged))
		})
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv(envSearchAPIKey, "env-key")
	t.Setenv(envSearchCX, "env-cx")

	assert.Equal(t, "env-key", envOr("", envSearchAPIKey))
	assert.Equal(t, "env-cx", envOr("", envSearchCX))
	assert.Equal(t, "flag-key", envOr("flag-key", envSearchAPIKey))
	assert.Equal(t, "", envOr("", "JOB_TAILOR_UNSET_VAR"))
}
