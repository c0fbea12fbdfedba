package main

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/aktagon/folktale-teller/internal/catalog"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		limit    int
		expected string
	}{
		{"short", "옛날 옛적에", 10, "옛날 옛적에"},
		{"exact", "abcde", 5, "abcde"},
		{"long", "abcdefgh", 5, "abcde..."},
		{"hangul counts runes", "가나다라마바", 3, "가나다..."},
		{"trims", "  text  ", 10, "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.limit); got != tt.expected {
				t.Errorf("truncate() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"empty result", catalog.ErrEmptyResult, "No folktales"},
		{"no key", &catalog.Failure{Code: catalog.CodeNoAPIKey}, "CATALOG_API_KEY"},
		{"not approved", &catalog.Failure{Code: "API_ERROR_12", Message: "NO_OPENAPI_SERVICE_ERROR", ResultCode: "12"}, "not approved"},
		{"other upstream", &catalog.Failure{Code: "API_ERROR_30", Message: "SERVICE_KEY_IS_NOT_REGISTERED_ERROR", ResultCode: "30"}, "SERVICE_KEY_IS_NOT_REGISTERED_ERROR"},
		{"http", &catalog.Failure{Code: "HTTP_503", Message: "Service Unavailable"}, "Could not reach"},
		{"parse", &catalog.Failure{Code: catalog.CodeXMLParse, Message: "unexpected EOF"}, "could not be read"},
		{"wrapped", fmt.Errorf("loading: %w", &catalog.Failure{Code: catalog.CodeException, Message: "dial tcp"}), "dial tcp"},
		{"plain", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describeError(tt.err); !strings.Contains(got, tt.contains) {
				t.Errorf("describeError() = %q, want it to contain %q", got, tt.contains)
			}
		})
	}
}

func TestRenderStory(t *testing.T) {
	var buf bytes.Buffer
	story := catalog.Story{
		Title:   "해님 달님",
		Author:  "unknown",
		Keyword: "호랑이",
		Content: strings.Repeat("가", previewLength+20),
	}

	renderStory(&buf, story)

	out := buf.String()
	if !strings.Contains(out, "해님 달님") {
		t.Error("missing title")
	}
	if !strings.Contains(out, "호랑이") {
		t.Error("missing keyword")
	}
	if !strings.Contains(out, strings.Repeat("가", previewLength)+"...") {
		t.Error("content not truncated to preview length")
	}
}

func TestRenderStoryList(t *testing.T) {
	var buf bytes.Buffer
	renderStoryList(&buf, testStories())

	out := buf.String()
	for _, want := range []string{"해님 달님", "흥부와 놀부", "2 folktales"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}
