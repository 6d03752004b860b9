package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"news-drafter/internal/cache"
	"news-drafter/internal/config"
	"news-drafter/internal/format"
	"news-drafter/internal/generate"
	"news-drafter/internal/logging"
	"news-drafter/internal/model"
	"news-drafter/internal/prompt"
)

// Abort classes. Run wraps the underlying cause with one of these.
var (
	ErrMissingCredential = config.ErrMissingCredential
	ErrFeed              = errors.New("feed unavailable")
	ErrNothingToDo       = errors.New("nothing to summarize")
	ErrGenerate          = errors.New("generation failed")
	ErrReport            = errors.New("report failed")
)

type Stage string

const (
	StageInit        Stage = "init"
	StageFetchFeed   Stage = "fetch_feed"
	StageBuildPrompt Stage = "build_prompt"
	StageGenerate    Stage = "generate"
	StageReport      Stage = "report"
)

type FeedSource interface {
	Fetch(ctx context.Context) ([]model.Entry, error)
}

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFactory builds a generator once the credential is known.
type GeneratorFactory func(ctx context.Context, apiKey string) (Generator, error)

type Reporter interface {
	Report(text string) error
}

type DraftCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, draft string) error
}

type Deps struct {
	// Credential returns the API key or an error wrapping ErrMissingCredential.
	Credential   func() (string, error)
	Feed         FeedSource
	NewGenerator GeneratorFactory
	Prompt       *prompt.Builder
	Reporter     Reporter
	Cache        DraftCache
	Logger       *logging.Logger
	MaxEntries   int
	Model        string
}

// Pipeline runs Init -> FetchFeed -> BuildPrompt -> Generate -> Report once.
type Pipeline struct {
	Deps
}

func NewPipeline(d Deps) *Pipeline {
	if d.MaxEntries <= 0 {
		d.MaxEntries = config.DefaultMaxEntries
	}
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}
	return &Pipeline{Deps: d}
}

func (p *Pipeline) Run(ctx context.Context) error {
	p.stage(StageInit)
	apiKey, err := p.Credential()
	if err != nil {
		p.Logger.Error("credential missing", logging.Field{Key: "err", Val: err})
		return err
	}
	gen, err := p.NewGenerator(ctx, apiKey)
	if err != nil {
		p.Logger.Error("generation client init failed", logging.Field{Key: "err", Val: err})
		return fmt.Errorf("%w: %w", ErrGenerate, err)
	}

	text, err := p.BuildPrompt(ctx)
	if err != nil {
		return err
	}

	p.stage(StageGenerate)
	draft, err := p.generate(ctx, gen, text)
	if err != nil {
		p.Logger.Error("generation failed",
			logging.Field{Key: "kind", Val: generate.KindOf(err)},
			logging.Field{Key: "err", Val: err},
		)
		return fmt.Errorf("%w: %w", ErrGenerate, err)
	}
	p.Logger.Info("draft generated", logging.Field{Key: "chars", Val: len([]rune(draft))})

	p.stage(StageReport)
	if err := p.Reporter.Report(draft); err != nil {
		p.Logger.Error("report failed", logging.Field{Key: "err", Val: err})
		return fmt.Errorf("%w: %w", ErrReport, err)
	}
	return nil
}

// BuildPrompt fetches the feed and renders the prompt. It needs no credential.
func (p *Pipeline) BuildPrompt(ctx context.Context) (string, error) {
	p.stage(StageFetchFeed)
	p.Logger.Info("fetching news")
	entries, err := p.Feed.Fetch(ctx)
	if err != nil {
		p.Logger.Error("feed fetch failed", logging.Field{Key: "err", Val: err})
		return "", fmt.Errorf("%w: %w", ErrFeed, err)
	}

	p.stage(StageBuildPrompt)
	block := format.Entries(entries, p.MaxEntries, p.Prompt.Persona().Labels)
	if strings.TrimSpace(block) == "" {
		p.Logger.Warn("no news to summarize", logging.Field{Key: "entries", Val: len(entries)})
		return "", ErrNothingToDo
	}
	return p.Prompt.Build(block), nil
}

func (p *Pipeline) generate(ctx context.Context, gen Generator, text string) (string, error) {
	key := cache.Key(p.Model, text)
	if p.Cache != nil {
		draft, ok, err := p.Cache.Get(ctx, key)
		switch {
		case err != nil:
			p.Logger.Warn("draft cache read failed", logging.Field{Key: "err", Val: err})
		case ok:
			p.Logger.Info("draft served from cache", logging.Field{Key: "key", Val: key})
			return draft, nil
		}
	}

	p.Logger.Info("calling generation api", logging.Field{Key: "model", Val: p.Model})
	draft, err := gen.Generate(ctx, text)
	if err != nil {
		return "", err
	}

	if p.Cache != nil {
		if err := p.Cache.Put(ctx, key, draft); err != nil {
			p.Logger.Warn("draft cache write failed", logging.Field{Key: "err", Val: err})
		}
	}
	return draft, nil
}

func (p *Pipeline) stage(s Stage) {
	p.Logger.Debug("stage", logging.Field{Key: "stage", Val: s})
}
