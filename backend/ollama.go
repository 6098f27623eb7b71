package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/glotmark/glotmark"
)

// Ollama implements Backend against a local Ollama server. Requests are
// expected to be issued one at a time; the scheduler's sequential fetch
// keeps a single local inference process from being overwhelmed.
type Ollama struct {
	baseURL string
	model   string
	client  *http.Client
	memo    *memo
}

// OllamaConfig holds configuration for the Ollama backend.
type OllamaConfig struct {
	BaseURL string // Server URL (default: "http://localhost:11434")
	Model   string // Model name (default: "llama3.2")
	Client  *http.Client
}

// NewOllama creates a new Ollama backend.
func NewOllama(cfg OllamaConfig) *Ollama {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	model := cfg.Model
	if model == "" {
		model = "llama3.2"
	}
	client := cfg.Client
	if client == nil {
		client = http.DefaultClient
	}
	return &Ollama{
		baseURL: baseURL,
		model:   model,
		client:  client,
		memo:    newMemo(),
	}
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Translate translates a single comment fragment via /api/generate.
func (b *Ollama) Translate(ctx context.Context, text, targetLang string) (*TranslationResult, error) {
	prompt := fmt.Sprintf(
		"Translate the following source-code comment to %s. Reply with the translation only, no explanations, no quotes.\n\n%s",
		glotmark.LanguageName(targetLang), text)

	body, err := json.Marshal(ollamaGenerateRequest{
		Model:  b.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return nil, &glotmark.BackendError{Message: "encoding request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, &glotmark.BackendError{Message: "building request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", glotmark.UserAgent())

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, &glotmark.BackendError{
			Message:   "Ollama request failed",
			Cause:     err,
			Retryable: true,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &glotmark.BackendError{
			Message:   fmt.Sprintf("Ollama returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data))),
			Retryable: resp.StatusCode >= 500,
		}
	}

	var out ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &glotmark.BackendError{Message: "decoding Ollama response", Cause: err}
	}

	translated := strings.TrimSpace(out.Response)
	if translated == "" {
		return nil, &glotmark.BackendError{Message: "empty response from Ollama"}
	}

	res := newResult(text, translated, targetLang, "")
	b.memo.put(*res)
	return res, nil
}

// IsAvailable probes /api/tags. It returns false on any failure.
func (b *Ollama) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// GetCachedResult returns the session memo of a prior result, if any.
func (b *Ollama) GetCachedResult(text, targetLang string) (*TranslationResult, bool) {
	return b.memo.get(text, targetLang)
}

// ClearCache drops the session memo.
func (b *Ollama) ClearCache() {
	b.memo.clear()
}

// Verify Ollama implements Backend
var _ Backend = (*Ollama)(nil)
