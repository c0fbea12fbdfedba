// Package export writes illustrated folktales to disk as markdown story cards.
package export

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"gopkg.in/yaml.v3"

	"github.com/aktagon/folktale-teller/internal/catalog"
)

//go:embed templates/story-card.md
var defaultTemplate string

const maxSlugLength = 50

var (
	nonSlugChars = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	dashRuns     = regexp.MustCompile(`-+`)
)

// Card is the data rendered into a story card.
type Card struct {
	Title       string
	Author      string
	Language    string
	Keyword     string
	SourceURL   string
	Thumbnail   string
	Content     string
	Summary     string
	ImagePrompt string
	ImageFile   string
	CreatedAt   time.Time
}

// frontmatter is the YAML header of a story card.
type frontmatter struct {
	Title     string    `yaml:"title"`
	Author    string    `yaml:"author"`
	Language  string    `yaml:"language"`
	Keyword   string    `yaml:"keyword,omitempty"`
	SourceURL string    `yaml:"source_url,omitempty"`
	CreatedAt time.Time `yaml:"created_at"`
}

// Frontmatter returns the card metadata as YAML, one key per line.
func (c Card) Frontmatter() (string, error) {
	data, err := yaml.Marshal(frontmatter{
		Title:     c.Title,
		Author:    c.Author,
		Language:  c.Language,
		Keyword:   c.Keyword,
		SourceURL: c.SourceURL,
		CreatedAt: c.CreatedAt,
	})
	if err != nil {
		return "", fmt.Errorf("encoding frontmatter: %w", err)
	}
	return string(data), nil
}

// Exporter renders cards with a markdown template.
type Exporter struct {
	tmpl      *template.Template
	converter *md.Converter
	now       func() time.Time
}

// New creates an Exporter. An empty templateText uses the embedded template.
func New(templateText string) (*Exporter, error) {
	if templateText == "" {
		templateText = defaultTemplate
	}

	tmpl, err := template.New("story-card").Parse(templateText)
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}

	return &Exporter{
		tmpl:      tmpl,
		converter: md.NewConverter("", true, nil),
		now:       time.Now,
	}, nil
}

// NewCard builds a card from a story. Catalog descriptions may carry HTML
// fragments; they are converted to markdown.
func (e *Exporter) NewCard(story catalog.Story, summary, imagePrompt, imageFile string) Card {
	content := story.Content
	if converted, err := e.converter.ConvertString(content); err == nil && strings.TrimSpace(converted) != "" {
		content = converted
	}

	return Card{
		Title:       story.Title,
		Author:      story.Author,
		Language:    story.Language,
		Keyword:     story.Keyword,
		SourceURL:   story.URL,
		Thumbnail:   story.Thumbnail,
		Content:     strings.TrimSpace(content),
		Summary:     strings.TrimSpace(summary),
		ImagePrompt: imagePrompt,
		ImageFile:   imageFile,
		CreatedAt:   e.now(),
	}
}

// Render executes the template for card.
func (e *Exporter) Render(card Card) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, card); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}
	return buf.Bytes(), nil
}

// Save renders card into dir and returns the file path.
func (e *Exporter) Save(dir string, card Card) (string, error) {
	data, err := e.Render(card)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	filename := filepath.Join(dir, Slug(card.Title)+".md")
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("writing story card: %w", err)
	}
	return filename, nil
}

// Slug creates a filesystem-safe name from a title, keeping Hangul and
// other letters.
func Slug(title string) string {
	slug := strings.ToLower(title)
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	slug = dashRuns.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if runes := []rune(slug); len(runes) > maxSlugLength {
		slug = strings.Trim(string(runes[:maxSlugLength]), "-")
	}

	if slug == "" {
		return "story"
	}
	return slug
}
