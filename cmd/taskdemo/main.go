// Package main is the entry point for the taskdemo CLI.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"taskdemo/internal/backend/googletasks"
	"taskdemo/internal/backend/restapi"
	"taskdemo/internal/cli"
	"taskdemo/internal/commands"
	"taskdemo/internal/config"
	"taskdemo/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services := func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.Service, error) {
		return restapi.New(ctx, cfg, logger)
	}
	sources := func(ctx context.Context, cfg *config.Config) (service.ImportSource, error) {
		return googletasks.New(ctx, cfg)
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, services, cli.WithSourceFactory(sources))

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
