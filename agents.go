package main

import (
	"context"
	"fmt"

	"github.com/aktagon/folktale-teller/internal/logger"
	"github.com/aktagon/folktale-teller/internal/narrative"
)

// NewAssistant creates the narrative assistant for the configured providers.
// Illustrations always go through Gemini; summaries and prompts use the
// configured text provider.
func NewAssistant(ctx context.Context, cfg *Config, log logger.Logger) (*narrative.Assistant, error) {
	settings := cfg.Settings.Generator

	prompts, err := cfg.Prompts()
	if err != nil {
		return nil, err
	}

	var images narrative.ImageGenerator
	var gemini *narrative.Gemini
	if cfg.Credentials.GeminiAPIKey != "" {
		gemini, err = narrative.NewGemini(ctx, cfg.Credentials.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		images = gemini
	}

	var (
		text      narrative.TextGenerator
		textModel = settings.TextModel
	)
	switch settings.TextProvider {
	case ProviderGemini:
		if gemini == nil {
			return nil, fmt.Errorf("API key required: use --gemini-key flag or GEMINI_API_KEY environment variable")
		}
		text = gemini
	case ProviderAnthropic:
		text, err = narrative.NewAnthropic(cfg.Credentials.AnthropicAPIKey, settings.MaxTokens, settings.Temperature)
		if err != nil {
			return nil, fmt.Errorf("creating anthropic generator: %w", err)
		}
		textModel = settings.AnthropicModel
	default:
		return nil, fmt.Errorf("unknown text provider %q", settings.TextProvider)
	}

	if images == nil {
		log.Warn("No Gemini API key configured; image generation is disabled")
	}

	return narrative.NewAssistant(text, images, narrative.Options{
		TextModel:  textModel,
		ImageModel: settings.ImageModel,
		Timeout:    settings.Timeout,
		Prompts:    &prompts,
		Logger:     log,
	})
}
