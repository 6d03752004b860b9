package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"news-drafter/internal/config"
)

// Store keeps generated drafts keyed by model and prompt so a rerun over an
// unchanged feed does not pay for a second generation call.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// New returns nil when no redis address is configured.
func New(cfg config.CacheConfig) *Store {
	if cfg.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ttl := time.Duration(cfg.TTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &Store{client: client, prefix: cfg.KeyPrefix, ttl: ttl}
}

func Key(model, prompt string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + prompt))
	return "draft:" + hex.EncodeToString(sum[:])
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *Store) Put(ctx context.Context, key, draft string) error {
	return s.client.Set(ctx, s.prefix+key, draft, s.ttl).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}
