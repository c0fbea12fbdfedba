package main

import (
	"context"
	"testing"

	"github.com/aktagon/folktale-teller/internal/logger"
)

func TestNewAssistant(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		creds    Credentials
		wantErr  bool
	}{
		{
			name:     "gemini without key",
			provider: ProviderGemini,
			wantErr:  true,
		},
		{
			name:     "gemini with key",
			provider: ProviderGemini,
			creds:    Credentials{GeminiAPIKey: "test-gemini-key"},
		},
		{
			name:     "anthropic without key",
			provider: ProviderAnthropic,
			creds:    Credentials{GeminiAPIKey: "test-gemini-key"},
			wantErr:  true,
		},
		{
			name:     "anthropic text only",
			provider: ProviderAnthropic,
			creds:    Credentials{AnthropicAPIKey: "test-anthropic-key"},
		},
		{
			name:     "unknown provider",
			provider: "ollama",
			creds:    Credentials{GeminiAPIKey: "test-gemini-key"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := &Settings{}
			settings.setDefaults()
			settings.Generator.TextProvider = tt.provider
			cfg := &Config{Settings: settings, Credentials: tt.creds}

			assistant, err := NewAssistant(context.Background(), cfg, logger.NewNop())

			if (err != nil) != tt.wantErr {
				t.Fatalf("NewAssistant() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && assistant == nil {
				t.Error("NewAssistant() returned nil assistant")
			}
		})
	}
}
