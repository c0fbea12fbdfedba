// Package narrative produces summaries, image prompts and illustrations for
// folktales through a generative text/image service.
package narrative

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aktagon/folktale-teller/internal/logger"
)

// Default models and timeout.
const (
	DefaultTextModel  = "gemini-2.0-flash-exp"
	DefaultImageModel = "gemini-2.5-flash-image"
	DefaultTimeout    = 60 * time.Second
)

// errNoImage marks a response without any inline image payload.
var errNoImage = errors.New("response has no inline image data")

// Options configures an Assistant.
type Options struct {
	TextModel  string
	ImageModel string
	Timeout    time.Duration
	Prompts    *Prompts
	Logger     logger.Logger
}

// Assistant runs the three narrative operations. Each call is independent;
// ordering between them is the caller's concern.
type Assistant struct {
	text       TextGenerator
	images     ImageGenerator
	textModel  string
	imageModel string
	timeout    time.Duration
	prompts    Prompts
	log        logger.Logger
}

// NewAssistant wires text and image generators. images may be nil when only
// summaries are needed.
func NewAssistant(text TextGenerator, images ImageGenerator, opts Options) (*Assistant, error) {
	if text == nil {
		return nil, errors.New("text generator is required")
	}

	prompts := DefaultPrompts()
	if opts.Prompts != nil {
		prompts = *opts.Prompts
	}
	if err := prompts.Validate(); err != nil {
		return nil, err
	}

	if opts.TextModel == "" {
		opts.TextModel = DefaultTextModel
	}
	if opts.ImageModel == "" {
		opts.ImageModel = DefaultImageModel
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}

	return &Assistant{
		text:       text,
		images:     images,
		textModel:  opts.TextModel,
		imageModel: opts.ImageModel,
		timeout:    opts.Timeout,
		prompts:    prompts,
		log:        opts.Logger,
	}, nil
}

// Summarize asks for a short, child-appropriate summary with a moral.
func (a *Assistant) Summarize(ctx context.Context, title, content string) (string, error) {
	a.log.Info("→ Summarizing", logger.String("title", title))

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text, err := a.text.GenerateText(ctx, a.textModel, a.prompts.summary(title, content))
	if err != nil {
		return "", &GenerationError{Kind: KindSummary, Err: err}
	}

	a.log.Info("✓ Summary completed", logger.String("title", title))
	return text, nil
}

// PromptFromSummary derives an English illustration prompt. On failure it
// returns FallbackImagePrompt(title) together with the error, so the caller
// can still proceed to image generation.
func (a *Assistant) PromptFromSummary(ctx context.Context, title, summary string) (string, error) {
	a.log.Info("→ Writing image prompt", logger.String("title", title))

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text, err := a.text.GenerateText(ctx, a.textModel, a.prompts.image(title, summary))
	if err == nil && strings.TrimSpace(text) == "" {
		err = errors.New("empty prompt")
	}
	if err != nil {
		a.log.Warn("Image prompt generation failed, using fallback",
			logger.String("title", title),
			logger.Error(err),
		)
		return FallbackImagePrompt(title), &GenerationError{Kind: KindPrompt, Err: err}
	}

	return strings.TrimSpace(text), nil
}

// GenerateImage renders prompt and decodes the first inline image part.
// A response without any image part yields (nil, nil).
func (a *Assistant) GenerateImage(ctx context.Context, prompt string) (*Image, error) {
	if a.images == nil {
		return nil, &GenerationError{Kind: KindImage, Err: errors.New("no image generator configured")}
	}

	a.log.Info("→ Generating image", logger.String("model", a.imageModel))

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	parts, err := a.images.GenerateParts(ctx, a.imageModel, prompt)
	if err != nil {
		return nil, &GenerationError{Kind: KindImage, Err: err}
	}

	for _, part := range parts {
		if len(part.Data) == 0 {
			continue
		}
		img, err := decodeImage(part)
		if err != nil {
			return nil, &GenerationError{Kind: KindImage, Err: err}
		}
		a.log.Info("✓ Image generated", logger.String("mime_type", img.MIMEType))
		return img, nil
	}

	a.log.Warn("Image response carried no image", logger.Error(errNoImage))
	return nil, nil
}

// SummaryText folds a Summarize result into display text, the way the
// interactive surfaces show it.
func SummaryText(summary string, err error) string {
	if err != nil {
		var genErr *GenerationError
		if errors.As(err, &genErr) {
			err = genErr.Err
		}
		return fmt.Sprintf("Summary generation failed: %v", err)
	}
	return summary
}
