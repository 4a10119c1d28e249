package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetModel_ConfiguredTier(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
}

func TestGetModel_FallbackChain(t *testing.T) {
	config := &Config{Models: map[ModelTier]string{TierStandard: "standard-model"}}
	assert.Equal(t, "standard-model", config.GetModel(TierAdvanced))

	config = &Config{Models: map[ModelTier]string{TierLite: "lite-model"}}
	assert.Equal(t, "lite-model", config.GetModel(TierAdvanced))

	config = &Config{Models: map[ModelTier]string{}}
	assert.Equal(t, "", config.GetModel(TierAdvanced))
}

func TestWithModel_DoesNotMutateOriginal(t *testing.T) {
	original := DefaultConfig()
	modified := original.WithModel(TierAdvanced, "custom-model")

	assert.Equal(t, "custom-model", modified.GetModel(TierAdvanced))
	assert.Equal(t, "gemini-2.5-pro", original.GetModel(TierAdvanced))
	assert.Equal(t, "gemini-2.5-flash", modified.GetModel(TierStandard))
}
