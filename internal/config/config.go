package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFeedURL    = "https://techcrunch.com/feed/"
	DefaultFeedName   = "TechCrunch"
	DefaultModel      = "gemini-1.5-flash"
	DefaultAPIKeyEnv  = "GEMINI_API_KEY"
	DefaultMaxEntries = 5
)

// ErrMissingCredential is returned when the API key variable is absent or blank.
var ErrMissingCredential = errors.New("missing api credential")

type Config struct {
	Feed    FeedConfig    `yaml:"feed"`
	Network NetworkConfig `yaml:"network"`
	Gemini  GeminiConfig  `yaml:"gemini"`
	Prompt  PromptConfig  `yaml:"prompt"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
}

type FeedConfig struct {
	Name       string            `yaml:"name"`
	URL        string            `yaml:"url"`
	MaxEntries int               `yaml:"max_entries"`
	KeepHTML   bool              `yaml:"keep_html"`
	Headers    map[string]string `yaml:"headers"`
}

type NetworkConfig struct {
	TimeoutMS int    `yaml:"timeout_ms"`
	UserAgent string `yaml:"user_agent"`
}

type GeminiConfig struct {
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	TimeoutMS int    `yaml:"timeout_ms"`
}

type PromptConfig struct {
	// PersonaFile is a TOML persona definition; empty means the built-in persona.
	PersonaFile string `yaml:"persona_file"`
}

type CacheConfig struct {
	RedisAddr  string `yaml:"redis_addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	KeyPrefix  string `yaml:"key_prefix"`
	TTLMinutes int    `yaml:"ttl_minutes"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

func Default() Config {
	return Config{
		Feed: FeedConfig{
			Name:       DefaultFeedName,
			URL:        DefaultFeedURL,
			MaxEntries: DefaultMaxEntries,
		},
		Network: NetworkConfig{
			TimeoutMS: 30000,
			UserAgent: "news-drafter/1.0",
		},
		Gemini: GeminiConfig{
			APIKeyEnv: DefaultAPIKeyEnv,
			Model:     DefaultModel,
			TimeoutMS: 120000,
		},
		Cache: CacheConfig{
			KeyPrefix:  "drafter:",
			TTLMinutes: 360,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML config on top of the defaults. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, cfg.Validate()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	expanded := os.ExpandEnv(string(raw))
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadEnvFile loads KEY=VALUE pairs into the process environment without
// overriding variables that are already set. With an empty path, ./.env is
// used when present.
func LoadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Feed.URL) == "" {
		return errors.New("feed.url required")
	}
	u, err := url.Parse(c.Feed.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("feed.url must be an http(s) url: %q", c.Feed.URL)
	}
	if c.Feed.MaxEntries <= 0 {
		return errors.New("feed.max_entries must be > 0")
	}
	if c.Network.TimeoutMS < 0 {
		return errors.New("network.timeout_ms must be >= 0")
	}
	if strings.TrimSpace(c.Gemini.APIKeyEnv) == "" {
		return errors.New("gemini.api_key_env required")
	}
	if strings.TrimSpace(c.Gemini.Model) == "" {
		return errors.New("gemini.model required")
	}
	if c.Gemini.TimeoutMS < 0 {
		return errors.New("gemini.timeout_ms must be >= 0")
	}
	if c.Cache.TTLMinutes < 0 {
		return errors.New("cache.ttl_minutes must be >= 0")
	}
	return nil
}

// APIKey resolves the credential through getenv, normally os.Getenv.
func (c Config) APIKey(getenv func(string) string) (string, error) {
	key := strings.TrimSpace(getenv(c.Gemini.APIKeyEnv))
	if key == "" {
		return "", fmt.Errorf("%w: environment variable %q is not set", ErrMissingCredential, c.Gemini.APIKeyEnv)
	}
	return key, nil
}

// Dump renders the effective configuration. It never contains the API key,
// only the name of the variable that holds it.
func (c Config) Dump() ([]byte, error) {
	if c.Cache.Password != "" {
		c.Cache.Password = "********"
	}
	return yaml.Marshal(c)
}
