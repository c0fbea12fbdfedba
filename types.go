package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aktagon/folktale-teller/internal/catalog"
	"github.com/aktagon/folktale-teller/internal/narrative"
)

// Artifact is what the assistant produced for the selected story. Each
// regeneration overwrites it; no history is kept.
type Artifact struct {
	Summary     string
	ImagePrompt string
	// PromptFallback is set when ImagePrompt is the generic prompt used
	// after prompt generation failed.
	PromptFallback bool
	Image          *narrative.Image
}

// Session is the per-user working state owned by the driving shell.
type Session struct {
	Stories  []catalog.Story
	Selected *catalog.Story
	Artifact Artifact
}

// NewSession starts a session over a working set.
func NewSession(stories []catalog.Story) *Session {
	return &Session{Stories: stories}
}

// Select picks a story by exact title, or failing that by 1-based number.
// Changing the selection discards the previous artifact.
func (s *Session) Select(key string) (*catalog.Story, error) {
	key = strings.TrimSpace(key)

	idx := -1
	for i := range s.Stories {
		if s.Stories[i].Title == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		n, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("no story titled %q", key)
		}
		if n < 1 || n > len(s.Stories) {
			return nil, fmt.Errorf("story number %d out of range 1-%d", n, len(s.Stories))
		}
		idx = n - 1
	}

	story := &s.Stories[idx]
	if s.Selected != story {
		s.Artifact = Artifact{}
	}
	s.Selected = story
	return story, nil
}

// SetSummary stores a new summary and drops the prompt and image derived
// from the previous one.
func (s *Session) SetSummary(summary string) {
	s.Artifact = Artifact{Summary: summary}
}

// SetIllustration stores the prompt and image for the current summary.
func (s *Session) SetIllustration(prompt string, fallback bool, img *narrative.Image) {
	s.Artifact.ImagePrompt = prompt
	s.Artifact.PromptFallback = fallback
	s.Artifact.Image = img
}
