package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	golrulog "golru/internal/log"
)

// version is set during build time
var version = "dev"

func main() {
	// Signal-aware context is the root of every command. Replays check it
	// between steps, so Ctrl+C stops a long script cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		golrulog.Error("command failed", "error", err)
		stop()
		os.Exit(1)
	}
}
