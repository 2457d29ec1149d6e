// Package main is the entry point for the gridstore CLI.
//
// gridstore loads YAML row datasets and runs filter, stream and
// row-management operations against an in-memory store. Logging goes to
// stderr; the log level is read from GRIDSTORE_LOG_LEVEL (debug, info,
// warn, error).
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/roach88/gridstore/internal/cli"
)

func main() {
	if err := mainImpl(); err != nil && !errors.Is(err, context.Canceled) {
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			// ExitErrors were already reported by the command's formatter.
			fmt.Fprintf(os.Stderr, "gridstore: %v\n", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}

func mainImpl() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	ll := &slog.LevelVar{}
	ll.Set(logLevel(os.Getenv("GRIDSTORE_LOG_LEVEL")))
	logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      ll,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
	slog.SetDefault(logger)

	return cli.NewRootCommand().ExecuteContext(ctx)
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
