package narrative

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Gemini implements TextGenerator and ImageGenerator on the Gemini API.
type Gemini struct {
	client *genai.Client
}

// NewGemini creates a Gemini generator for the given API key.
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	return newGemini(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}

func newGemini(ctx context.Context, cfg *genai.ClientConfig) (*Gemini, error) {
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Gemini{client: client}, nil
}

// GenerateText returns the concatenated text parts of the first candidate.
func (g *Gemini) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	var b strings.Builder
	for _, part := range firstCandidateParts(resp) {
		b.WriteString(part.Text)
	}
	if b.Len() == 0 {
		return "", errors.New("gemini returned no text")
	}
	return b.String(), nil
}

// GenerateParts requests text and image modalities and returns the first
// candidate's parts.
func (g *Gemini) GenerateParts(ctx context.Context, model, prompt string) ([]Part, error) {
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}

	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	var parts []Part
	for _, p := range firstCandidateParts(resp) {
		part := Part{Text: p.Text}
		if p.InlineData != nil {
			part.MIMEType = p.InlineData.MIMEType
			part.Data = p.InlineData.Data
		}
		parts = append(parts, part)
	}
	return parts, nil
}

func firstCandidateParts(resp *genai.GenerateContentResponse) []*genai.Part {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}

	var parts []*genai.Part
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil {
			parts = append(parts, p)
		}
	}
	return parts
}
