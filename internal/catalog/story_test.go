package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Defaults(t *testing.T) {
	story := Normalize(RawItem{})

	assert.Equal(t, Story{
		Title:    DefaultTitle,
		Author:   DefaultAuthor,
		Content:  "",
		Language: DefaultLanguage,
	}, story)
}

func TestNormalize_FieldMapping(t *testing.T) {
	item := RawItem{
		"title":               "The Tiger and the Persimmon",
		"creator":             "Folk",
		"description":         "A tiger hears a child stop crying for a persimmon.",
		"subjectKeyword":      "tiger",
		"language":            "en",
		"url":                 "https://example.com/story",
		"referenceIdentifier": "https://example.com/thumb.jpg",
	}

	assert.Equal(t, Story{
		Title:     "The Tiger and the Persimmon",
		Author:    "Folk",
		Content:   "A tiger hears a child stop crying for a persimmon.",
		Keyword:   "tiger",
		Language:  "en",
		URL:       "https://example.com/story",
		Thumbnail: "https://example.com/thumb.jpg",
	}, Normalize(item))
}

func TestNormalize_MissingField(t *testing.T) {
	full := RawItem{
		"title":               "t",
		"creator":             "c",
		"description":         "d",
		"subjectKeyword":      "k",
		"language":            "en",
		"url":                 "u",
		"referenceIdentifier": "r",
	}

	tests := []struct {
		name    string
		missing string
		field   func(Story) string
		want    string
	}{
		{"title", "title", func(s Story) string { return s.Title }, DefaultTitle},
		{"creator", "creator", func(s Story) string { return s.Author }, DefaultAuthor},
		{"description falls back to title", "description", func(s Story) string { return s.Content }, "t"},
		{"subjectKeyword", "subjectKeyword", func(s Story) string { return s.Keyword }, ""},
		{"language", "language", func(s Story) string { return s.Language }, DefaultLanguage},
		{"url", "url", func(s Story) string { return s.URL }, ""},
		{"referenceIdentifier", "referenceIdentifier", func(s Story) string { return s.Thumbnail }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := RawItem{}
			for k, v := range full {
				if k != tt.missing {
					item[k] = v
				}
			}
			assert.Equal(t, tt.want, tt.field(Normalize(item)))
		})
	}
}

func TestNormalize_ContentWithoutDescriptionOrTitle(t *testing.T) {
	story := Normalize(RawItem{"creator": "someone"})
	assert.Equal(t, "", story.Content)
	assert.Equal(t, DefaultTitle, story.Title)
}

func TestQualifies_Boundary(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"empty", "", false},
		{"exactly 50", strings.Repeat("a", 50), false},
		{"51", strings.Repeat("a", 51), true},
		{"50 hangul", strings.Repeat("가", 50), false},
		{"51 hangul", strings.Repeat("가", 51), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Story{Content: tt.content}.Qualifies())
		})
	}
}

func TestBuildWorkingSet(t *testing.T) {
	items := []RawItem{
		{"title": "short", "description": strings.Repeat("x", 10)},
		{"title": "long", "description": strings.Repeat("y", 200)},
		{"title": strings.Repeat("z", 60)},
	}

	stories, err := BuildWorkingSet(items)
	require.NoError(t, err)
	require.Len(t, stories, 2)
	assert.Equal(t, "long", stories[0].Title)
	assert.Equal(t, strings.Repeat("z", 60), stories[1].Content)
}

func TestBuildWorkingSet_Empty(t *testing.T) {
	_, err := BuildWorkingSet(nil)
	assert.ErrorIs(t, err, ErrEmptyResult)

	_, err = BuildWorkingSet([]RawItem{{"description": "tiny"}})
	assert.ErrorIs(t, err, ErrEmptyResult)
}
