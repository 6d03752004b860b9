package parser

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/samber/lo"

	"news-drafter/internal/model"
)

// ErrMalformed marks a document gofeed could not parse. Nothing from such a
// document is handed downstream.
var ErrMalformed = errors.New("malformed feed")

type Options struct {
	// KeepHTML leaves summaries as published instead of reducing them to text.
	KeepHTML bool
}

// ParseFeed parses an RSS, Atom or JSON feed into entries in document order.
func ParseFeed(body []byte, opts Options) ([]model.Entry, error) {
	fp := gofeed.NewParser()
	feed, err := fp.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return lo.Map(feed.Items, func(item *gofeed.Item, _ int) model.Entry {
		return toEntry(item, opts)
	}), nil
}

func toEntry(item *gofeed.Item, opts Options) model.Entry {
	summary := firstNonEmpty(item.Description, item.Content)
	if !opts.KeepHTML {
		summary = PlainText(summary)
	}
	link := item.Link
	if link == "" && len(item.Links) > 0 {
		link = item.Links[0]
	}
	e := model.Entry{
		GUID:    item.GUID,
		Title:   strings.TrimSpace(item.Title),
		Summary: summary,
		Link:    strings.TrimSpace(link),
	}
	if item.PublishedParsed != nil {
		e.Published = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		e.Published = *item.UpdatedParsed
	}
	return e
}

// PlainText strips markup and collapses whitespace. Input without tags is
// only whitespace-normalized.
func PlainText(s string) string {
	if strings.ContainsRune(s, '<') {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
		if err == nil {
			s = doc.Text()
		}
	}
	return strings.Join(strings.Fields(s), " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
