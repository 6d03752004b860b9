// Package format renders feed entries into the text block embedded in the prompt.
package format

import (
	"strings"

	"github.com/samber/lo"

	"news-drafter/internal/model"
)

// Separator sits on its own line between two rendered entries.
const Separator = "---"

// Labels name the three lines of a rendered entry.
type Labels struct {
	Title   string `toml:"title"`
	Summary string `toml:"summary"`
	Link    string `toml:"link"`
}

func DefaultLabels() Labels {
	return Labels{
		Title:   "記事タイトル",
		Summary: "概要",
		Link:    "参考記事",
	}
}

// Entries renders at most limit entries, in feed order. Zero entries give "".
func Entries(entries []model.Entry, limit int, labels Labels) string {
	if limit < 0 {
		limit = 0
	}
	picked := lo.Slice(entries, 0, limit)
	blocks := lo.Map(picked, func(e model.Entry, _ int) string {
		return Entry(e, labels)
	})
	return strings.Join(blocks, "\n"+Separator+"\n")
}

// Entry renders title, summary and link lines followed by a blank line.
func Entry(e model.Entry, labels Labels) string {
	var b strings.Builder
	b.WriteString(labels.Title + ": " + e.Title + "\n")
	b.WriteString(labels.Summary + ": " + e.Summary + "\n")
	b.WriteString(labels.Link + ": " + e.Link + "\n")
	return b.String()
}
