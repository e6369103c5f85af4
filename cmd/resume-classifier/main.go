package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kirillkom/resume-classifier/internal/adapters/cli"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(version).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
