package main

import (
	"testing"

	"github.com/aktagon/folktale-teller/internal/catalog"
	"github.com/aktagon/folktale-teller/internal/narrative"
)

func TestSessionSelect(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		wantTitle string
		wantErr   bool
	}{
		{"by number", "2", "흥부와 놀부", false},
		{"by title", "해님 달님", "해님 달님", false},
		{"trims key", " 1 ", "해님 달님", false},
		{"number too small", "0", "", true},
		{"number too large", "3", "", true},
		{"unknown title", "콩쥐팥쥐", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(testStories())
			story, err := s.Select(tt.key)

			if (err != nil) != tt.wantErr {
				t.Fatalf("Select(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if tt.wantErr {
				if s.Selected != nil {
					t.Error("failed selection should not change the selected story")
				}
				return
			}
			if story.Title != tt.wantTitle {
				t.Errorf("Select(%q) = %q, want %q", tt.key, story.Title, tt.wantTitle)
			}
		})
	}
}

func TestSessionSelect_NumericTitle(t *testing.T) {
	stories := append(testStories(), catalog.Story{Title: "1", Content: "a story titled with a number"})
	s := NewSession(stories)

	story, err := s.Select("1")
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if story != &s.Stories[2] {
		t.Errorf("Select(\"1\") = %q, want the story titled \"1\"", story.Title)
	}

	story, err = s.Select("2")
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if story.Title != "흥부와 놀부" {
		t.Errorf("Select(\"2\") = %q, want the second story by position", story.Title)
	}
}

func TestSessionSelect_ResetsArtifact(t *testing.T) {
	s := NewSession(testStories())
	s.Select("1")
	s.SetSummary("summary")
	s.SetIllustration("prompt", false, &narrative.Image{})

	s.Select("해님 달님")
	if s.Artifact.Summary != "summary" {
		t.Error("re-selecting the same story should keep the artifact")
	}

	s.Select("2")
	if s.Artifact != (Artifact{}) {
		t.Errorf("artifact = %+v, want empty after changing selection", s.Artifact)
	}
}

func TestSessionSetSummary_ClearsIllustration(t *testing.T) {
	s := NewSession(testStories())
	s.Select("1")
	s.SetSummary("first")
	s.SetIllustration("prompt", false, &narrative.Image{})

	s.SetSummary("second")

	if s.Artifact.Summary != "second" {
		t.Errorf("summary = %q, want second", s.Artifact.Summary)
	}
	if s.Artifact.ImagePrompt != "" || s.Artifact.Image != nil {
		t.Error("new summary should drop the previous prompt and image")
	}
}
