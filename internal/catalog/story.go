package catalog

import "unicode/utf8"

// MinContentLength is the content length a story must exceed to be kept.
const MinContentLength = 50

// Defaults for absent source fields.
const (
	DefaultTitle    = "untitled"
	DefaultAuthor   = "unknown"
	DefaultLanguage = "ko"
)

// Story is a folktale in canonical form, independent of upstream field names.
type Story struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	Content   string `json:"content"`
	Keyword   string `json:"keyword,omitempty"`
	Language  string `json:"language"`
	URL       string `json:"url,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// Normalize maps a raw catalog item to a Story. It never fails; absent
// fields take their defaults.
func Normalize(item RawItem) Story {
	return Story{
		Title:     item.get(DefaultTitle, "title"),
		Author:    item.get(DefaultAuthor, "creator"),
		Content:   item.get("", "description", "title"),
		Keyword:   item.get("", "subjectKeyword"),
		Language:  item.get(DefaultLanguage, "language"),
		URL:       item.get("", "url"),
		Thumbnail: item.get("", "referenceIdentifier"),
	}
}

// Qualifies reports whether the story has enough content to be offered.
func (s Story) Qualifies() bool {
	return utf8.RuneCountInString(s.Content) > MinContentLength
}

// BuildWorkingSet normalizes items and keeps only qualifying stories, in
// upstream order. It returns ErrEmptyResult when none qualify.
func BuildWorkingSet(items []RawItem) ([]Story, error) {
	stories := make([]Story, 0, len(items))
	for _, item := range items {
		story := Normalize(item)
		if story.Qualifies() {
			stories = append(stories, story)
		}
	}

	if len(stories) == 0 {
		return nil, ErrEmptyResult
	}
	return stories, nil
}

// get returns the first present key, or fallback.
func (r RawItem) get(fallback string, keys ...string) string {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != "" {
			return v
		}
	}
	return fallback
}
