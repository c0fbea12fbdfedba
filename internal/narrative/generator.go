package narrative

import "context"

// Part is one piece of a generative response. Either Text or Data is set.
type Part struct {
	Text     string
	MIMEType string
	Data     []byte
}

// TextGenerator turns a prompt into text.
type TextGenerator interface {
	GenerateText(ctx context.Context, model, prompt string) (string, error)
}

// ImageGenerator asks an image-capable model for a response and returns its
// parts in order.
type ImageGenerator interface {
	GenerateParts(ctx context.Context, model, prompt string) ([]Part, error)
}
