package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/propgen/opsctl/cmd/opsctl/command"
	"github.com/propgen/opsctl/pkg/logs"
	"github.com/propgen/opsctl/pkg/term"
)

// overwritten by the goreleaser ldflags
var version = "development"

func main() {
	// Handle Ctrl+C so we can exit gracefully
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	slog.SetDefault(logs.NewTermLogger(term.DefaultTerm))
	command.SetupCommands(version)
	err := command.Execute(ctx)
	stop()

	if err != nil {
		// If the error is a command.ExitCode, use its value as the exit code
		ec, ok := err.(command.ExitCode)
		if !ok {
			ec = 1 // should not happen since we always return ExitCode
		}
		os.Exit(int(ec))
	}
}
