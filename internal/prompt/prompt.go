// Package prompt turns the formatted news block into the full request text.
//
// The persona (identity, tone, hashtags, call-to-action link and the template
// body) is data loaded from a TOML file, so it can change without touching
// the pipeline. A default persona is compiled in.
package prompt

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"news-drafter/internal/format"
)

//go:embed personas/default.toml
var defaultPersona []byte

// NewsPlaceholder marks where the formatted entries go.
const NewsPlaceholder = "${news}"

type Persona struct {
	Name     string        `toml:"name"`
	Hashtags []string      `toml:"hashtags"`
	CTALabel string        `toml:"cta_label"`
	CTAURL   string        `toml:"cta_url"`
	Labels   format.Labels `toml:"labels"`
	Template string        `toml:"template"`
}

// HashtagLine is the hashtag set as it appears in the prompt.
func (p Persona) HashtagLine() string {
	return strings.Join(p.Hashtags, " ")
}

func (p Persona) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("persona name required")
	}
	if !strings.Contains(p.Template, NewsPlaceholder) {
		return fmt.Errorf("persona template must contain %s", NewsPlaceholder)
	}
	return nil
}

// DefaultPersona returns the built-in persona.
func DefaultPersona() Persona {
	p, err := ParsePersona(defaultPersona)
	if err != nil {
		panic(fmt.Sprintf("built-in persona: %v", err))
	}
	return p
}

// LoadPersona reads a persona file. An empty path selects the built-in persona.
func LoadPersona(path string) (Persona, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultPersona(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Persona{}, fmt.Errorf("read persona: %w", err)
	}
	p, err := ParsePersona(data)
	if err != nil {
		return Persona{}, fmt.Errorf("persona %s: %w", path, err)
	}
	return p, nil
}

func ParsePersona(data []byte) (Persona, error) {
	var p Persona
	if _, err := toml.Decode(string(data), &p); err != nil {
		return Persona{}, err
	}
	def := format.DefaultLabels()
	if p.Labels.Title == "" {
		p.Labels.Title = def.Title
	}
	if p.Labels.Summary == "" {
		p.Labels.Summary = def.Summary
	}
	if p.Labels.Link == "" {
		p.Labels.Link = def.Link
	}
	if err := p.Validate(); err != nil {
		return Persona{}, err
	}
	return p, nil
}

type Builder struct {
	persona  Persona
	feedName string
}

func NewBuilder(p Persona, feedName string) *Builder {
	return &Builder{persona: p, feedName: feedName}
}

func (b *Builder) Persona() Persona {
	return b.persona
}

// Build substitutes news and the persona fields into the template. The
// substitution is single pass, so placeholder-like text inside news is
// left as is.
func (b *Builder) Build(news string) string {
	return RenderTemplate(b.persona.Template, map[string]string{
		"news":         news,
		"persona_name": b.persona.Name,
		"hashtags":     b.persona.HashtagLine(),
		"cta_label":    b.persona.CTALabel,
		"cta_url":      b.persona.CTAURL,
		"feed_name":    b.feedName,
	})
}

// RenderTemplate replaces every ${key} with values[key]. Unknown placeholders stay.
func RenderTemplate(tpl string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "${"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}
