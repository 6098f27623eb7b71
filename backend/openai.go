package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/glotmark/glotmark"
	"github.com/sashabaranov/go-openai"
)

// OpenAI implements Backend using OpenAI's chat completion API (or any
// API-compatible endpoint via BaseURL).
type OpenAI struct {
	client      *openai.Client
	model       string
	temperature float32
	memo        *memo
}

// OpenAIConfig holds configuration for the OpenAI backend.
type OpenAIConfig struct {
	APIKey      string  // OpenAI API key
	Model       string  // Model to use (default: "gpt-4o-mini")
	Temperature float32 // Temperature for generation (default: 0.3)
	BaseURL     string  // Custom base URL (optional)
}

// NewOpenAI creates a new OpenAI backend.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	return &OpenAI{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
		memo:        newMemo(),
	}
}

// Translate translates a single comment fragment.
func (b *OpenAI) Translate(ctx context.Context, text, targetLang string) (*TranslationResult, error) {
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildSystemPrompt(targetLang)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: b.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, &glotmark.BackendError{
			Message:   "OpenAI API call failed",
			Cause:     err,
			Retryable: isRetryableError(err),
		}
	}

	if len(resp.Choices) == 0 {
		return nil, &glotmark.BackendError{
			Message:   "no response from OpenAI",
			Retryable: true,
		}
	}

	translated, detected, err := parseResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	res := newResult(text, translated, targetLang, detected)
	b.memo.put(*res)
	return res, nil
}

// IsAvailable probes the API with a minimal model listing. It returns false
// on any failure and never panics.
func (b *OpenAI) IsAvailable(ctx context.Context) bool {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
	}
	_, err := b.client.ListModels(ctx)
	return err == nil
}

// GetCachedResult returns the session memo of a prior result, if any.
func (b *OpenAI) GetCachedResult(text, targetLang string) (*TranslationResult, bool) {
	return b.memo.get(text, targetLang)
}

// ClearCache drops the session memo.
func (b *OpenAI) ClearCache() {
	b.memo.clear()
}

// buildSystemPrompt instructs the model to translate one comment and answer
// in a fixed JSON shape.
func buildSystemPrompt(targetLang string) string {
	targetName := glotmark.LanguageName(targetLang)
	return fmt.Sprintf(`# Role
You are an expert native translator. You translate source-code comments to %s with the fluency of a highly educated native speaker.

# Task
Translate the provided comment into idiomatic %s.

# Style Guide
- **Natural Flow**: Avoid literal translations; the result should read like a comment a native developer wrote.
- **Code Safety**: Do NOT translate identifiers, URLs, file paths, or content inside backticks.
- **Brevity**: Keep the translation as compact as the original.

# Format
Return a valid JSON object: { "translation": "...", "detected_language": "<ISO code of the source language>" }
Do NOT wrap the output in Markdown code blocks.`, targetName, targetName)
}

// parseResponse extracts the translation (and optional detected language)
// from the model's JSON reply.
func parseResponse(content string) (translated, detected string, err error) {
	var obj struct {
		Translation      string `json:"translation"`
		DetectedLanguage string `json:"detected_language"`
	}
	if jsonErr := json.Unmarshal([]byte(content), &obj); jsonErr == nil && obj.Translation != "" {
		return obj.Translation, obj.DetectedLanguage, nil
	}

	// Some models answer with bare text despite the format instruction.
	trimmed := strings.TrimSpace(content)
	if trimmed != "" && !strings.HasPrefix(trimmed, "{") {
		return trimmed, "", nil
	}

	return "", "", &glotmark.BackendError{
		Message:   "invalid response format from OpenAI",
		Retryable: false,
	}
}

func isRetryableError(err error) bool {
	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"rate limit",
		"timeout",
		"connection refused",
		"temporary",
		"503",
		"502",
		"429",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

// Verify OpenAI implements Backend
var _ Backend = (*OpenAI)(nil)
