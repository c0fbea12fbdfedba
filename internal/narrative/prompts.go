package narrative

import (
	_ "embed"
	"fmt"
	"strings"
)

// Template variables.
const (
	VarTitle   = "{{.Title}}"
	VarContent = "{{.Content}}"
	VarSummary = "{{.Summary}}"
)

//go:embed prompts/summary.md
var defaultSummaryPrompt string

//go:embed prompts/image-prompt.md
var defaultImagePrompt string

// Prompts holds the instruction templates sent to the generative service.
type Prompts struct {
	Summary string
	Image   string
}

// DefaultPrompts returns the embedded templates.
func DefaultPrompts() Prompts {
	return Prompts{
		Summary: defaultSummaryPrompt,
		Image:   defaultImagePrompt,
	}
}

// Validate checks that every template carries its required variables.
func (p Prompts) Validate() error {
	required := []struct {
		name     string
		template string
		vars     []string
	}{
		{"summary", p.Summary, []string{VarTitle, VarContent}},
		{"image", p.Image, []string{VarTitle, VarSummary}},
	}

	for _, r := range required {
		for _, v := range r.vars {
			if !strings.Contains(r.template, v) {
				return fmt.Errorf("%s prompt template must contain %s variable", r.name, v)
			}
		}
	}
	return nil
}

func (p Prompts) summary(title, content string) string {
	return strings.NewReplacer(VarTitle, title, VarContent, content).Replace(strings.TrimSpace(p.Summary))
}

func (p Prompts) image(title, summary string) string {
	return strings.NewReplacer(VarTitle, title, VarSummary, summary).Replace(strings.TrimSpace(p.Image))
}

// FallbackImagePrompt is used when an image prompt cannot be generated.
func FallbackImagePrompt(title string) string {
	return fmt.Sprintf("A warm and friendly Korean folktale illustration about %s", title)
}
