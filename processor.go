package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aktagon/folktale-teller/internal/catalog"
	"github.com/aktagon/folktale-teller/internal/export"
	"github.com/aktagon/folktale-teller/internal/logger"
	"github.com/aktagon/folktale-teller/internal/narrative"
)

var (
	ErrNoSelection = errors.New("no story selected")
	ErrNoSummary   = errors.New("generate a summary before the illustration")
	ErrNoImage     = errors.New("image generation returned no image")
)

// StoryFetcher loads the working set from the catalog.
type StoryFetcher interface {
	FetchStories(ctx context.Context, pageNo, numOfRows int) ([]catalog.Story, error)
}

// Narrator produces summaries, prompts and illustrations.
type Narrator interface {
	Summarize(ctx context.Context, title, content string) (string, error)
	PromptFromSummary(ctx context.Context, title, summary string) (string, error)
	GenerateImage(ctx context.Context, prompt string) (*narrative.Image, error)
}

// SavedIllustration tracks the files written for one story
type SavedIllustration struct {
	ImagePath string
	CardPath  string
}

// StoryTeller handles the main workflow
type StoryTeller struct {
	fetcher   StoryFetcher
	narrator  Narrator
	exporter  *export.Exporter
	outputDir string
	log       logger.Logger
}

// NewStoryTeller creates a workflow over the given collaborators
func NewStoryTeller(fetcher StoryFetcher, narrator Narrator, exporter *export.Exporter, outputDir string, log logger.Logger) *StoryTeller {
	return &StoryTeller{
		fetcher:   fetcher,
		narrator:  narrator,
		exporter:  exporter,
		outputDir: outputDir,
		log:       log,
	}
}

// LoadSession fetches one catalog page and starts a session over its working set
func (st *StoryTeller) LoadSession(ctx context.Context, pageNo, numOfRows int) (*Session, error) {
	st.log.Info("→ Loading folktales", logger.Int("page_no", pageNo), logger.Int("num_of_rows", numOfRows))

	stories, err := st.fetcher.FetchStories(ctx, pageNo, numOfRows)
	if err != nil {
		return nil, err
	}

	st.log.Info("✓ Loaded folktales", logger.Int("count", len(stories)))
	return NewSession(stories), nil
}

// Summarize generates a summary for the selected story. A failed attempt
// leaves the session untouched.
func (st *StoryTeller) Summarize(ctx context.Context, s *Session) error {
	if s.Selected == nil {
		return ErrNoSelection
	}

	summary, err := st.narrator.Summarize(ctx, s.Selected.Title, s.Selected.Content)
	if err != nil {
		return err
	}

	s.SetSummary(summary)
	return nil
}

// Illustrate derives an image prompt from the summary and renders it. A
// failed prompt falls back to the generic one.
func (st *StoryTeller) Illustrate(ctx context.Context, s *Session) error {
	if s.Selected == nil {
		return ErrNoSelection
	}
	if s.Artifact.Summary == "" {
		return ErrNoSummary
	}

	prompt, promptErr := st.narrator.PromptFromSummary(ctx, s.Selected.Title, s.Artifact.Summary)
	if promptErr != nil {
		st.log.Warn("Using fallback image prompt", logger.String("title", s.Selected.Title), logger.Error(promptErr))
	}

	img, err := st.narrator.GenerateImage(ctx, prompt)
	if err != nil {
		return err
	}
	if img == nil {
		return ErrNoImage
	}

	s.SetIllustration(prompt, promptErr != nil, img)
	return nil
}

// Save writes the illustration as PNG plus a markdown story card
func (st *StoryTeller) Save(s *Session) (*SavedIllustration, error) {
	if s.Selected == nil {
		return nil, ErrNoSelection
	}
	if s.Artifact.Image == nil {
		return nil, ErrNoImage
	}

	data, err := s.Artifact.Image.EncodePNG()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(st.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	imageName := narrative.ImageFileName(s.Selected.Title)
	imagePath := filepath.Join(st.outputDir, imageName)
	if err := os.WriteFile(imagePath, data, 0644); err != nil {
		return nil, fmt.Errorf("saving image: %w", err)
	}

	card := st.exporter.NewCard(*s.Selected, s.Artifact.Summary, s.Artifact.ImagePrompt, imageName)
	cardPath, err := st.exporter.Save(st.outputDir, card)
	if err != nil {
		return nil, fmt.Errorf("saving story card: %w", err)
	}

	st.log.Info("✓ Saved illustration", logger.String("image", imagePath), logger.String("card", cardPath))
	return &SavedIllustration{ImagePath: imagePath, CardPath: cardPath}, nil
}
