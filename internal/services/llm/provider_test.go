package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/candle/internal/common"
)

func TestProviderFactory_Configured(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*common.Config)
		wantConf bool
	}{
		{"no keys", func(c *common.Config) {}, false},
		{"gemini key", func(c *common.Config) { c.Gemini.APIKey = "g" }, true},
		{"claude key but gemini selected", func(c *common.Config) { c.Claude.APIKey = "c" }, false},
		{"claude selected", func(c *common.Config) {
			c.LLM.Provider = common.LLMProviderClaude
			c.Claude.APIKey = "c"
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := common.NewDefaultConfig()
			tt.mutate(config)
			f := NewProviderFactory(config, arbor.NewLogger())
			assert.Equal(t, tt.wantConf, f.Configured())
		})
	}
}

func TestProviderFactory_GenerateContent_NotConfigured(t *testing.T) {
	f := NewProviderFactory(common.NewDefaultConfig(), arbor.NewLogger())

	_, err := f.GenerateContent(context.Background(), &ContentRequest{Prompt: "hello"})

	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewProviderFactory_RetryPolicyFromConfig(t *testing.T) {
	config := common.NewDefaultConfig()
	config.LLM.MaxAttempts = 5
	config.LLM.RateLimitBackoff = "2s"

	f := NewProviderFactory(config, arbor.NewLogger())

	assert.Equal(t, 5, f.retry.MaxAttempts)
	assert.Equal(t, 2*time.Second, f.retry.BaseBackoff)
	assert.Equal(t, common.LLMProviderGemini, f.ProviderType())
}

func TestTimeoutOr(t *testing.T) {
	assert.Equal(t, 3*time.Second, timeoutOr(3*time.Second, "45s"))
	assert.Equal(t, 30*time.Second, timeoutOr(0, "30s"))
	assert.Equal(t, 45*time.Second, timeoutOr(0, ""))
}
