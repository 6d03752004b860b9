package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPersona(t *testing.T) {
	p := DefaultPersona()

	assert.Equal(t, "古谷隆太郎", p.Name)
	assert.Equal(t, "#TechCrunch #AI #キャリアアップ", p.HashtagLine())
	assert.True(t, strings.HasPrefix(p.CTAURL, "https://line.me/"))
	assert.Equal(t, "記事タイトル", p.Labels.Title)
	assert.Contains(t, p.Template, NewsPlaceholder)
}

func TestBuildEmbedsBlockVerbatimWithMarkers(t *testing.T) {
	b := NewBuilder(DefaultPersona(), "TechCrunch")
	blocks := []string{
		"記事タイトル: A\n概要: a\n参考記事: https://example.com/a\n\n---\n記事タイトル: B\n概要: b\n参考記事: https://example.com/b\n",
		"",
		"weird ${hashtags} and ${persona_name} inside the news",
	}

	for _, block := range blocks {
		out := b.Build(block)

		assert.Contains(t, out, "---\n"+block+"\n---")
		assert.Contains(t, out, "古谷隆太郎")
		assert.Contains(t, out, "#TechCrunch #AI #キャリアアップ")
		assert.Contains(t, out, DefaultPersona().CTAURL)
		assert.Contains(t, out, "TechCrunchニュース原文")
		assert.NotContains(t, out, NewsPlaceholder)
	}
}

func TestRenderTemplateIsSinglePass(t *testing.T) {
	out := RenderTemplate("${a}|${b}|${c}", map[string]string{"a": "${b}", "b": "B"})
	assert.Equal(t, "${b}|B|${c}", out)
}

func TestLoadPersonaFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.toml")
	body := `
name = "Ada"
hashtags = ["#Go", "#News"]
cta_url = "https://example.com/join"
template = """
Hi, I am ${persona_name}. News:
${news}
Tags: ${hashtags} Join: ${cta_url}
"""

[labels]
title = "Title"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	p, err := LoadPersona(path)
	require.NoError(t, err)
	assert.Equal(t, "Title", p.Labels.Title)
	assert.Equal(t, "概要", p.Labels.Summary)

	out := NewBuilder(p, "Feed").Build("BLOCK")
	assert.Equal(t, "Hi, I am Ada. News:\nBLOCK\nTags: #Go #News Join: https://example.com/join\n", out)
}

func TestLoadPersonaEmptyPathIsDefault(t *testing.T) {
	p, err := LoadPersona("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPersona(), p)
}

func TestParsePersonaRejectsMissingPlaceholder(t *testing.T) {
	_, err := ParsePersona([]byte(`name = "x"` + "\n" + `template = "no slot"`))
	assert.Error(t, err)

	_, err = ParsePersona([]byte(`template = "${news}"`))
	assert.Error(t, err)

	_, err = ParsePersona([]byte(`name = `))
	assert.Error(t, err)
}

func TestLoadPersonaMissingFile(t *testing.T) {
	_, err := LoadPersona(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
