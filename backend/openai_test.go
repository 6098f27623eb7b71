package backend

import (
	"errors"
	"strings"
	"testing"
)

func TestParseResponse_JSON(t *testing.T) {
	translated, detected, err := parseResponse(`{"translation": "hola", "detected_language": "en"}`)
	if err != nil {
		t.Fatalf("parseResponse failed: %v", err)
	}
	if translated != "hola" {
		t.Errorf("Expected 'hola', got %q", translated)
	}
	if detected != "en" {
		t.Errorf("Expected 'en', got %q", detected)
	}
}

func TestParseResponse_BareText(t *testing.T) {
	translated, detected, err := parseResponse("  hola  ")
	if err != nil {
		t.Fatalf("parseResponse failed: %v", err)
	}
	if translated != "hola" {
		t.Errorf("Expected trimmed bare text, got %q", translated)
	}
	if detected != "" {
		t.Errorf("Bare text carries no detected language, got %q", detected)
	}
}

func TestParseResponse_Invalid(t *testing.T) {
	for _, content := range []string{"", `{"translation": ""}`, `{"other": "x"}`} {
		if _, _, err := parseResponse(content); err == nil {
			t.Errorf("Expected error for %q", content)
		}
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{errors.New("Rate limit exceeded"), true},
		{errors.New("request timeout"), true},
		{errors.New("dial tcp: connection refused"), true},
		{errors.New("status code 503"), true},
		{errors.New("status code 429"), true},
		{errors.New("invalid api key"), false},
		{errors.New("model not found"), false},
	}

	for _, tt := range tests {
		if got := isRetryableError(tt.err); got != tt.want {
			t.Errorf("isRetryableError(%q) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestNewOpenAI_Defaults(t *testing.T) {
	b := NewOpenAI(OpenAIConfig{APIKey: "sk-test"})

	if b.model != "gpt-4o-mini" {
		t.Errorf("Expected default model, got %q", b.model)
	}
	if b.temperature != 0.3 {
		t.Errorf("Expected default temperature, got %f", b.temperature)
	}
}

func TestBuildSystemPrompt_ResolvesLanguageName(t *testing.T) {
	prompt := buildSystemPrompt("es")
	if !containsAll(prompt, "Spanish", "translation", "detected_language") {
		t.Errorf("Unexpected prompt: %s", prompt)
	}
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
