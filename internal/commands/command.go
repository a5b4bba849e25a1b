// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"
	"log/slog"

	"taskdemo/internal/config"
	"taskdemo/internal/service"
)

// SourceFactory opens the import source.
type SourceFactory func(ctx context.Context, cfg *config.Config) (service.ImportSource, error)

// Env is everything a command runs against.
type Env struct {
	Cfg *config.Config
	// Svc is nil if NeedsBackend returns false.
	Svc    service.Service
	Logger *slog.Logger

	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer

	// Sources opens the import source. Only import uses it.
	Sources SourceFactory
}

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsBackend returns true if the command talks to the tasks API.
	// Commands like help, version, login, logout and mock-server return false.
	NeedsBackend() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command with the positional arguments left after flag
	// parsing and returns the exit code.
	Run(ctx context.Context, env *Env, args []string) int
}
