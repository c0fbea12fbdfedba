package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/aktagon/folktale-teller/internal/catalog"
)

const previewLength = 500

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// renderStoryList prints the working set as a numbered table.
func renderStoryList(out io.Writer, stories []catalog.Story) {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, titleStyle.Render("#")+"\t"+titleStyle.Render("Title")+"\t"+titleStyle.Render("Author")+"\t"+titleStyle.Render("Keyword")+"\t")

	for i, story := range stories {
		keyword := story.Keyword
		if keyword == "" {
			keyword = "-"
		}
		_, _ = fmt.Fprintln(w, strconv.Itoa(i+1)+"\t"+story.Title+"\t"+mutedStyle.Render(story.Author)+"\t"+mutedStyle.Render(keyword)+"\t")
	}
	_ = w.Flush()

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, infoStyle.Render(fmt.Sprintf("%d folktales. Pick one with `folktale summarize <number|title>`", len(stories))))
}

// renderStory prints one story with a truncated content preview.
func renderStory(out io.Writer, story catalog.Story) {
	_, _ = fmt.Fprintln(out, sectionStyle.Render(story.Title))
	_, _ = fmt.Fprintln(out, mutedStyle.Render("Author: "+story.Author))
	if story.Keyword != "" {
		_, _ = fmt.Fprintln(out, mutedStyle.Render("Keyword: "+story.Keyword))
	}
	if story.URL != "" {
		_, _ = fmt.Fprintln(out, mutedStyle.Render("Source: "+story.URL))
	}
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, truncate(story.Content, previewLength))
	_, _ = fmt.Fprintln(out)
}

func renderSummary(out io.Writer, summary string) {
	_, _ = fmt.Fprintln(out, sectionStyle.Render("Summary"))
	_, _ = fmt.Fprintln(out, summary)
	_, _ = fmt.Fprintln(out)
}

func truncate(s string, limit int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit]) + "..."
}

// describeError turns an error, catalog failures in particular, into the
// message shown to the user.
func describeError(err error) string {
	if errors.Is(err, catalog.ErrEmptyResult) {
		return "No folktales with enough content were found on this page."
	}

	failure, ok := catalog.AsFailure(err)
	if !ok {
		return err.Error()
	}

	switch failure.Kind() {
	case catalog.KindNoCredential:
		return "Catalog API key required: use --catalog-key flag or CATALOG_API_KEY environment variable"
	case catalog.KindUpstream:
		if failure.ResultCode == catalog.ResultCodeNotApproved {
			return "The catalog service key is not approved yet or is invalid (result code 12)."
		}
		return fmt.Sprintf("The catalog service returned an error: %s (%s)", failure.Message, failure.ResultCode)
	case catalog.KindParse:
		return "The catalog response could not be read: " + failure.Message
	default:
		return "Could not reach the catalog service: " + failure.Message
	}
}
