package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"news-drafter/internal/core"
	"news-drafter/internal/logging"
)

// Process exit codes. A run with nothing to summarize is not a failure.
const (
	exitOK       = 0
	exitUnknown  = 1
	exitConfig   = 2
	exitFeed     = 3
	exitGenerate = 4
)

var errConfig = errors.New("invalid configuration")

func main() {
	logger := logging.New(false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		cancel()
	}()

	err := newApp(logger, os.Stdout).RunContext(ctx, os.Args)
	code := exitCode(err)
	if code == exitUnknown || errors.Is(err, errConfig) {
		logger.Error("run failed", logging.Field{Key: "err", Val: err})
	}
	if code != exitOK {
		cancel()
		os.Exit(code)
	}
}

func exitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, core.ErrNothingToDo):
		return exitOK
	case errors.Is(err, core.ErrMissingCredential), errors.Is(err, errConfig):
		return exitConfig
	case errors.Is(err, core.ErrFeed):
		return exitFeed
	case errors.Is(err, core.ErrGenerate):
		return exitGenerate
	default:
		return exitUnknown
	}
}
