package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rssDoc = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Tech</title>
    <item>
      <title>First</title>
      <link>https://example.com/first</link>
      <description><![CDATA[<p>Startup raises <b>$10M</b></p>]]></description>
      <pubDate>Mon, 01 Jan 2024 12:00:00 +0000</pubDate>
      <guid>first</guid>
    </item>
    <item>
      <title>Second</title>
      <link>https://example.com/second</link>
      <description>Plain text summary</description>
    </item>
  </channel>
</rss>`

const atomDoc = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Tech</title>
  <entry>
    <title>Atom entry</title>
    <link href="https://example.com/atom"/>
    <summary>Atom summary</summary>
    <updated>2024-01-02T10:00:00Z</updated>
    <id>urn:atom:1</id>
  </entry>
</feed>`

func TestParseFeedRSSKeepsOrder(t *testing.T) {
	entries, err := ParseFeed([]byte(rssDoc), Options{})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "First", entries[0].Title)
	assert.Equal(t, "Startup raises $10M", entries[0].Summary)
	assert.Equal(t, "https://example.com/first", entries[0].Link)
	assert.Equal(t, "first", entries[0].GUID)
	assert.Equal(t, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), entries[0].Published.UTC())

	assert.Equal(t, "Second", entries[1].Title)
	assert.Equal(t, "Plain text summary", entries[1].Summary)
	assert.True(t, entries[1].Published.IsZero())
}

func TestParseFeedKeepHTML(t *testing.T) {
	entries, err := ParseFeed([]byte(rssDoc), Options{KeepHTML: true})
	require.NoError(t, err)
	assert.Equal(t, "<p>Startup raises <b>$10M</b></p>", entries[0].Summary)
}

func TestParseFeedAtom(t *testing.T) {
	entries, err := ParseFeed([]byte(atomDoc), Options{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Atom entry", entries[0].Title)
	assert.Equal(t, "Atom summary", entries[0].Summary)
	assert.Equal(t, "https://example.com/atom", entries[0].Link)
	assert.False(t, entries[0].Published.IsZero())
}

func TestParseFeedEmptyChannel(t *testing.T) {
	entries, err := ParseFeed([]byte(`<rss version="2.0"><channel><title>x</title></channel></rss>`), Options{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestParseFeedMalformed(t *testing.T) {
	for _, body := range []string{"", "not a feed at all", "<html><body>oops</body></html>"} {
		_, err := ParseFeed([]byte(body), Options{})
		assert.ErrorIs(t, err, ErrMalformed, "body %q", body)
	}
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "a b", PlainText("  a \n\t b "))
	assert.Equal(t, "Hello world", PlainText("<div>Hello <i>world</i></div>"))
	assert.Equal(t, "", PlainText(""))
}
