package core

import (
	"context"
	"fmt"
	"time"

	"news-drafter/internal/config"
	"news-drafter/internal/fetcher"
	"news-drafter/internal/logging"
	"news-drafter/internal/model"
	"news-drafter/internal/parser"
)

// HTTPFeed fetches one feed URL and parses it with gofeed.
type HTTPFeed struct {
	url    string
	client *fetcher.Client
	opts   parser.Options
	logger *logging.Logger
}

func NewHTTPFeed(feed config.FeedConfig, network config.NetworkConfig, logger *logging.Logger) *HTTPFeed {
	client := fetcher.New(
		time.Duration(network.TimeoutMS)*time.Millisecond,
		fetcher.WithUserAgent(network.UserAgent),
		fetcher.WithHeaders(feed.Headers),
	)
	return &HTTPFeed{
		url:    feed.URL,
		client: client,
		opts:   parser.Options{KeepHTML: feed.KeepHTML},
		logger: logger,
	}
}

func (f *HTTPFeed) Fetch(ctx context.Context) ([]model.Entry, error) {
	start := time.Now()
	status, body, err := f.client.Get(ctx, f.url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s (status %d): %w", f.url, status, err)
	}
	entries, err := parser.ParseFeed(body, f.opts)
	if err != nil {
		return nil, err
	}
	f.logger.Info("feed parsed",
		logging.Field{Key: "url", Val: f.url},
		logging.Field{Key: "count", Val: len(entries)},
		logging.Field{Key: "elapsed_ms", Val: time.Since(start).Milliseconds()},
	)
	return entries, nil
}
