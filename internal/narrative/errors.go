package narrative

import "fmt"

// Kind names the operation that failed.
type Kind string

const (
	KindSummary Kind = "summary"
	KindPrompt  Kind = "image_prompt"
	KindImage   Kind = "image"
)

// GenerationError reports a failed or unusable generative call.
type GenerationError struct {
	Kind Kind
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
