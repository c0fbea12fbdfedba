package narrative

import (
	"context"
	"errors"
	"fmt"

	"github.com/aktagon/llmkit/anthropic"
	"github.com/aktagon/llmkit/anthropic/types"
)

const (
	defaultAnthropicMaxTokens   = 1000
	defaultAnthropicTemperature = 0.2
)

// Anthropic implements TextGenerator with Claude models. It has no image
// support; pair it with Gemini for illustrations.
type Anthropic struct {
	apiKey      string
	maxTokens   int
	temperature float64
}

// NewAnthropic creates a Claude-backed text generator.
func NewAnthropic(apiKey string, maxTokens int, temperature float64) (*Anthropic, error) {
	if apiKey == "" {
		return nil, errors.New("anthropic API key is required")
	}
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}
	if temperature < 0 {
		temperature = defaultAnthropicTemperature
	}

	return &Anthropic{
		apiKey:      apiKey,
		maxTokens:   maxTokens,
		temperature: temperature,
	}, nil
}

// GenerateText sends prompt as the user turn. llmkit calls are not
// cancellable, so ctx is only checked before and after the request.
func (a *Anthropic) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	settings := types.RequestSettings{
		Model:       model,
		MaxTokens:   a.maxTokens,
		Temperature: a.temperature,
	}
	response, err := anthropic.PromptWithSettings("", prompt, "", a.apiKey, settings)
	if err != nil {
		return "", fmt.Errorf("anthropic prompt: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if len(response.Content) == 0 {
		return "", errors.New("no content in anthropic response")
	}
	return response.Content[0].Text, nil
}
