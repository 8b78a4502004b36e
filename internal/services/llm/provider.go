package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/candle/internal/common"
	"google.golang.org/genai"
)

// ErrNotConfigured is returned when the selected provider has no API key.
var ErrNotConfigured = errors.New("llm provider not configured")

// ContentRequest represents a provider-agnostic content generation request
type ContentRequest struct {
	Prompt            string
	SystemInstruction string
	Model             string        // Empty uses the provider default
	Temperature       float32       // Zero uses the provider default
	MaxTokens         int           // Zero uses the provider default
	Timeout           time.Duration // Per-attempt wall clock limit; zero uses the provider default
}

// ContentResponse represents a provider-agnostic content generation response
type ContentResponse struct {
	Text     string
	Provider common.LLMProvider
	Model    string
}

// Provider defines the interface for AI content generation
type Provider interface {
	// Configured reports whether a credential is available.
	Configured() bool
	GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error)
}

// ProviderFactory routes requests to the configured Gemini or Claude backend.
type ProviderFactory struct {
	provider     common.LLMProvider
	geminiConfig common.GeminiConfig
	claudeConfig common.ClaudeConfig
	retry        *RetryPolicy
	logger       arbor.ILogger

	mu           sync.Mutex
	geminiClient *genai.Client
	claudeClient anthropic.Client
	claudeReady  bool
}

var _ Provider = (*ProviderFactory)(nil)

// NewProviderFactory creates a new provider factory
func NewProviderFactory(config *common.Config, logger arbor.ILogger) *ProviderFactory {
	retry := NewDefaultRetryPolicy()
	if config.LLM.MaxAttempts > 0 {
		retry.MaxAttempts = config.LLM.MaxAttempts
	}
	retry.BaseBackoff = common.ParseDurationOr(config.LLM.RateLimitBackoff, DefaultBaseBackoff)

	provider := config.LLM.Provider
	if provider == "" {
		provider = common.LLMProviderGemini
	}

	return &ProviderFactory{
		provider:     provider,
		geminiConfig: config.Gemini,
		claudeConfig: config.Claude,
		retry:        retry,
		logger:       logger,
	}
}

// ProviderType returns the backend requests are sent to.
func (f *ProviderFactory) ProviderType() common.LLMProvider {
	return f.provider
}

// Configured reports whether the selected provider has an API key.
func (f *ProviderFactory) Configured() bool {
	switch f.provider {
	case common.LLMProviderClaude:
		return f.claudeConfig.APIKey != ""
	default:
		return f.geminiConfig.APIKey != ""
	}
}

// GenerateContent sends one prompt, retrying rate-limited attempts per the retry policy.
func (f *ProviderFactory) GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error) {
	if !f.Configured() {
		return nil, ErrNotConfigured
	}

	var resp *ContentResponse
	err := f.retry.Do(ctx, f.logger, string(f.provider), func(ctx context.Context) error {
		var err error
		switch f.provider {
		case common.LLMProviderClaude:
			resp, err = f.generateWithClaude(ctx, request)
		default:
			resp, err = f.generateWithGemini(ctx, request)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (f *ProviderFactory) getGeminiClient(ctx context.Context) (*genai.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.geminiClient != nil {
		return f.geminiClient, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  f.geminiConfig.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	f.geminiClient = client
	return client, nil
}

func (f *ProviderFactory) getClaudeClient() anthropic.Client {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.claudeReady {
		f.claudeClient = anthropic.NewClient(option.WithAPIKey(f.claudeConfig.APIKey))
		f.claudeReady = true
	}
	return f.claudeClient
}

// generateWithGemini makes a single Gemini call bounded by the request timeout
func (f *ProviderFactory) generateWithGemini(ctx context.Context, request *ContentRequest) (*ContentResponse, error) {
	client, err := f.getGeminiClient(ctx)
	if err != nil {
		return nil, err
	}

	model := firstNonEmpty(request.Model, f.geminiConfig.Model)
	temp := request.Temperature
	if temp <= 0 {
		temp = f.geminiConfig.Temperature
	}
	maxTokens := request.MaxTokens
	if maxTokens <= 0 {
		maxTokens = f.geminiConfig.MaxTokens
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temp),
	}
	if maxTokens > 0 {
		config.MaxOutputTokens = int32(maxTokens)
	}
	if request.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(request.SystemInstruction, genai.RoleUser)
	}

	callCtx, cancel := context.WithTimeout(ctx, timeoutOr(request.Timeout, f.geminiConfig.Timeout))
	defer cancel()

	contents := []*genai.Content{genai.NewContentFromText(request.Prompt, genai.RoleUser)}
	resp, err := client.Models.GenerateContent(callCtx, model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("Gemini API call failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from Gemini API")
	}

	responseText := resp.Text()
	if responseText == "" {
		return nil, fmt.Errorf("empty text in Gemini response")
	}

	return &ContentResponse{
		Text:     responseText,
		Provider: common.LLMProviderGemini,
		Model:    model,
	}, nil
}

// generateWithClaude makes a single Claude call bounded by the request timeout
func (f *ProviderFactory) generateWithClaude(ctx context.Context, request *ContentRequest) (*ContentResponse, error) {
	client := f.getClaudeClient()

	model := firstNonEmpty(request.Model, f.claudeConfig.Model)
	maxTokens := request.MaxTokens
	if maxTokens <= 0 {
		maxTokens = f.claudeConfig.MaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(request.Prompt)),
		},
	}

	temp := request.Temperature
	if temp <= 0 {
		temp = f.claudeConfig.Temperature
	}
	if temp > 0 {
		params.Temperature = anthropic.Float(float64(temp))
	}

	if request.SystemInstruction != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: request.SystemInstruction},
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, timeoutOr(request.Timeout, f.claudeConfig.Timeout))
	defer cancel()

	resp, err := client.Messages.New(callCtx, params)
	if err != nil {
		return nil, fmt.Errorf("Claude API call failed: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	if text.Len() == 0 {
		return nil, fmt.Errorf("empty response from Claude API")
	}

	return &ContentResponse{
		Text:     text.String(),
		Provider: common.LLMProviderClaude,
		Model:    model,
	}, nil
}

// Close releases provider clients
func (f *ProviderFactory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.geminiClient = nil
	f.claudeClient = anthropic.Client{}
	f.claudeReady = false
	return nil
}

func timeoutOr(requested time.Duration, configured string) time.Duration {
	if requested > 0 {
		return requested
	}
	return common.ParseDurationOr(configured, 45*time.Second)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
