package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"news-drafter/internal/cache"
	"news-drafter/internal/config"
	"news-drafter/internal/core"
	"news-drafter/internal/generate"
	"news-drafter/internal/logging"
	"news-drafter/internal/prompt"
	"news-drafter/internal/report"
)

func newApp(logger *logging.Logger, stdout io.Writer) *cli.App {
	return &cli.App{
		Name:  "drafter",
		Usage: "Turn the latest feed entries into social media post drafts with Gemini",
		Description: `Fetches a news feed, takes its first entries, wraps them in a persona
prompt and asks Gemini for post drafts, which are printed to stdout.

The API key is read from GEMINI_API_KEY. Flags can also be set via
environment variables, e.g.:

--feed-url => DRAFTER_FEED_URL=https://techcrunch.com/feed/
--model    => DRAFTER_MODEL=gemini-1.5-flash
`,
		Writer:          stdout,
		HideHelpCommand: true,
		Flags:           globalFlags(),
		Commands: []*cli.Command{
			runCmd(logger, stdout),
			promptCmd(logger, stdout),
			configCmd(logger, stdout),
		},
		Action: func(c *cli.Context) error {
			return run(c, logger, stdout)
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML configuration file",
			EnvVars: []string{"DRAFTER_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "env-file",
			Usage:   "Path to a .env file (defaults to ./.env when present)",
			EnvVars: []string{"DRAFTER_ENV_FILE"},
		},
		&cli.StringFlag{
			Name:    "feed-url",
			Usage:   "RSS or Atom feed to summarize",
			EnvVars: []string{"DRAFTER_FEED_URL"},
		},
		&cli.StringFlag{
			Name:    "feed-name",
			Usage:   "Feed name used in the prompt",
			EnvVars: []string{"DRAFTER_FEED_NAME"},
		},
		&cli.IntFlag{
			Name:    "max-entries",
			Usage:   "Number of leading feed entries to include",
			EnvVars: []string{"DRAFTER_MAX_ENTRIES"},
		},
		&cli.StringFlag{
			Name:    "model",
			Usage:   "Gemini model name",
			EnvVars: []string{"DRAFTER_MODEL"},
		},
		&cli.StringFlag{
			Name:    "gemini-base-url",
			Usage:   "Override the Gemini API endpoint",
			EnvVars: []string{"DRAFTER_GEMINI_BASE_URL"},
		},
		&cli.StringFlag{
			Name:    "persona",
			Usage:   "Path to a TOML persona file",
			EnvVars: []string{"DRAFTER_PERSONA"},
		},
		&cli.StringFlag{
			Name:    "redis-addr",
			Usage:   "Redis address for the draft cache (disabled when empty)",
			EnvVars: []string{"DRAFTER_REDIS_ADDR"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (debug, info, warn, error)",
			EnvVars: []string{"DRAFTER_LOG_LEVEL"},
		},
		&cli.BoolFlag{
			Name:    "log-json",
			Usage:   "Emit logs as JSON",
			EnvVars: []string{"DRAFTER_LOG_JSON"},
		},
	}
}

func runCmd(logger *logging.Logger, stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Fetch the feed, generate drafts and print them (default)",
		Action: func(c *cli.Context) error {
			return run(c, logger, stdout)
		},
	}
}

func promptCmd(logger *logging.Logger, stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "prompt",
		Usage: "Fetch the feed and print the prompt without calling Gemini",
		Action: func(c *cli.Context) error {
			cfg, err := setup(c, logger)
			if err != nil {
				return err
			}
			p, err := newPipeline(cfg, logger, stdout)
			if err != nil {
				return err
			}
			text, err := p.BuildPrompt(c.Context)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(stdout, text)
			return err
		},
	}
}

func configCmd(logger *logging.Logger, stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print the effective configuration",
		Action: func(c *cli.Context) error {
			cfg, err := setup(c, logger)
			if err != nil {
				return err
			}
			out, err := cfg.Dump()
			if err != nil {
				return err
			}
			_, err = stdout.Write(out)
			return err
		},
	}
}

func run(c *cli.Context, logger *logging.Logger, stdout io.Writer) error {
	cfg, err := setup(c, logger)
	if err != nil {
		return err
	}
	p, err := newPipeline(cfg, logger, stdout)
	if err != nil {
		return err
	}
	if store, ok := p.Cache.(*cache.Store); ok {
		defer store.Close()
	}
	return p.Run(c.Context)
}

// setup loads .env, the config file and flag overrides, then applies the
// logging settings to logger.
func setup(c *cli.Context, logger *logging.Logger) (config.Config, error) {
	if err := config.LoadEnvFile(c.String("env-file")); err != nil {
		return config.Config{}, fmt.Errorf("%w: %w", errConfig, err)
	}
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return config.Config{}, fmt.Errorf("%w: %w", errConfig, err)
	}
	if c.IsSet("feed-url") {
		cfg.Feed.URL = c.String("feed-url")
	}
	if c.IsSet("feed-name") {
		cfg.Feed.Name = c.String("feed-name")
	}
	if c.IsSet("max-entries") {
		cfg.Feed.MaxEntries = c.Int("max-entries")
	}
	if c.IsSet("model") {
		cfg.Gemini.Model = c.String("model")
	}
	if c.IsSet("gemini-base-url") {
		cfg.Gemini.BaseURL = c.String("gemini-base-url")
	}
	if c.IsSet("persona") {
		cfg.Prompt.PersonaFile = c.String("persona")
	}
	if c.IsSet("redis-addr") {
		cfg.Cache.RedisAddr = c.String("redis-addr")
	}
	if c.IsSet("log-level") {
		cfg.Logging.Level = c.String("log-level")
	}
	if c.IsSet("log-json") {
		cfg.Logging.JSON = c.Bool("log-json")
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("%w: %w", errConfig, err)
	}

	logger.SetJSON(cfg.Logging.JSON)
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return config.Config{}, fmt.Errorf("%w: logging.level: %w", errConfig, err)
	}
	return cfg, nil
}

func newPipeline(cfg config.Config, logger *logging.Logger, stdout io.Writer) (*core.Pipeline, error) {
	persona, err := prompt.LoadPersona(cfg.Prompt.PersonaFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errConfig, err)
	}

	deps := core.Deps{
		Credential: func() (string, error) {
			return cfg.APIKey(os.Getenv)
		},
		Feed: core.NewHTTPFeed(cfg.Feed, cfg.Network, logger),
		NewGenerator: func(ctx context.Context, apiKey string) (core.Generator, error) {
			return generate.NewGemini(ctx, generate.Options{
				APIKey:  apiKey,
				Model:   cfg.Gemini.Model,
				BaseURL: cfg.Gemini.BaseURL,
				Timeout: time.Duration(cfg.Gemini.TimeoutMS) * time.Millisecond,
			})
		},
		Prompt:     prompt.NewBuilder(persona, cfg.Feed.Name),
		Reporter:   report.NewConsole(stdout),
		Logger:     logger,
		MaxEntries: cfg.Feed.MaxEntries,
		Model:      cfg.Gemini.Model,
	}
	if store := cache.New(cfg.Cache); store != nil {
		deps.Cache = store
	}
	return core.NewPipeline(deps), nil
}
