package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileDefaults(t *testing.T) {
	t.Setenv("CHATDESK_LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	p := &Profile{}
	p.FromEnv()

	assert.False(t, p.IsLLMEnabled())
	assert.False(t, p.IsEmbeddingEnabled())
	assert.Equal(t, "openai", p.LLMProvider)
	assert.Equal(t, "https://api.openai.com/v1", p.LLMBaseURL)
	assert.Equal(t, "gpt-4o-mini", p.LLMModel)
	assert.Equal(t, 20, p.LLMTimeout)
	assert.Equal(t, "text-embedding-3-small", p.EmbeddingModel)
	assert.InDelta(t, 0.40, p.MinConfidence, 1e-9)
	assert.InDelta(t, 0.30, p.AutoEscalateConfidence, 1e-9)
}

func TestProfileFromEnv(t *testing.T) {
	t.Setenv("CHATDESK_LLM_PROVIDER", "deepseek")
	t.Setenv("CHATDESK_LLM_API_KEY", "test-key")
	t.Setenv("CHATDESK_MIN_CONFIDENCE", "0.55")

	p := &Profile{}
	p.FromEnv()

	assert.True(t, p.IsLLMEnabled())
	assert.Equal(t, "deepseek", p.LLMProvider)
	assert.Equal(t, "https://api.deepseek.com", p.LLMBaseURL)
	assert.Equal(t, "deepseek-chat", p.LLMModel)
	assert.InDelta(t, 0.55, p.MinConfidence, 1e-9)
}

func TestProfileUnknownLLMProviderFallsBack(t *testing.T) {
	t.Setenv("CHATDESK_LLM_PROVIDER", "does-not-exist")

	p := &Profile{}
	p.FromEnv()

	assert.Equal(t, "openai", p.LLMProvider)
	assert.Equal(t, "https://api.openai.com/v1", p.LLMBaseURL)
}

func TestProfileValidate(t *testing.T) {
	dir := t.TempDir()

	p := &Profile{
		Mode:                   "dev",
		Driver:                 "sqlite",
		Data:                   dir,
		MinConfidence:          0.40,
		AutoEscalateConfidence: 0.30,
	}
	require.NoError(t, p.Validate())
	assert.Contains(t, p.DSN, "chatdesk_dev.db")

	p = &Profile{Mode: "dev", Driver: "mysql", Data: dir}
	assert.Error(t, p.Validate())

	p = &Profile{Mode: "dev", Driver: "postgres", Data: dir}
	assert.Error(t, p.Validate(), "postgres requires an explicit DSN")

	p = &Profile{
		Mode:                   "dev",
		Driver:                 "sqlite",
		Data:                   dir,
		MinConfidence:          0.40,
		AutoEscalateConfidence: 0.50,
	}
	assert.Error(t, p.Validate(), "auto-escalate floor above min confidence")

	p = &Profile{Mode: "bogus", Driver: "sqlite", Data: dir}
	require.NoError(t, p.Validate())
	assert.Equal(t, "demo", p.Mode)
}
