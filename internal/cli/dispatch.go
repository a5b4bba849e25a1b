// Package cli parses the command line and dispatches to commands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"taskdemo/internal/commands"
	"taskdemo/internal/config"
	"taskdemo/internal/exitcode"
	"taskdemo/internal/logging"
	"taskdemo/internal/service"
)

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.Service, error)

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithSourceFactory sets how import opens its source.
func WithSourceFactory(f commands.SourceFactory) Option {
	return func(d *Dispatcher) { d.sources = f }
}

// WithInput sets the reader interactive commands read from. Defaults to os.Stdin.
func WithInput(r io.Reader) Option {
	return func(d *Dispatcher) { d.in = r }
}

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
	sources  commands.SourceFactory
	in       io.Reader
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		factory:  factory,
		in:       os.Stdin,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		args = []string{"list"}
	}

	cmdName := args[0]

	// Flags require a command
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args[1:], out, errOut)
}

// commonFlags are accepted by every command. Unset flags leave the loaded
// configuration untouched.
type commonFlags struct {
	configDir string
	envFile   string
	apiURL    string
	pageSize  int
	timeout   time.Duration
	quiet     bool
	debug     bool
}

func (f *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configDir, "config", "", "")
	fs.StringVar(&f.envFile, "env-file", "", "")
	fs.StringVar(&f.apiURL, "api-url", "", "")
	fs.IntVar(&f.pageSize, "page-size", 0, "")
	fs.DurationVar(&f.timeout, "timeout", 0, "")
	fs.BoolVar(&f.quiet, "quiet", false, "")
	fs.BoolVar(&f.debug, "debug", false, "")
}

// apply copies the flags that were set on the command line onto cfg.
func (f *commonFlags) apply(fs *flag.FlagSet, cfg *config.Config) error {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "api-url":
			cfg.APIBaseURL = f.apiURL
		case "page-size":
			cfg.PageSize = f.pageSize
		case "timeout":
			cfg.Timeout = f.timeout
		}
	})
	cfg.Quiet = f.quiet
	cfg.Debug = cfg.Debug || f.debug
	return cfg.Validate()
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	var common commonFlags
	common.register(fs)
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		return reportFlagError(errOut, err)
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.Load(config.LoadOptions{Dir: common.configDir, EnvFile: common.envFile})
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	if err := common.apply(fs, cfg); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}

	logger := logging.New(errOut, logging.Options{
		Debug:   cfg.Debug,
		JSON:    cfg.LogFormat == "json",
		NoColor: os.Getenv("NO_COLOR") != "",
	})
	logger.Debug("dispatching", "command", cmd.Name(), "api_url", cfg.APIBaseURL, "page_size", cfg.PageSize)

	env := &commands.Env{
		Cfg:     cfg,
		Logger:  logger,
		In:      d.in,
		Out:     out,
		ErrOut:  errOut,
		Sources: d.sources,
	}

	if cmd.NeedsBackend() {
		if d.factory == nil {
			fmt.Fprintln(errOut, "error: backend error: no backend configured")
			return exitcode.BackendError
		}
		svc, err := d.factory(ctx, cfg, logger)
		if err != nil {
			fmt.Fprintf(errOut, "error: backend error: %s\n", err)
			return exitcode.BackendError
		}
		env.Svc = svc
	}

	return cmd.Run(ctx, env, positionalArgs)
}

// reportFlagError turns a flag parse error into the CLI's error line.
func reportFlagError(errOut io.Writer, err error) int {
	errStr := err.Error()

	switch {
	case errors.Is(err, flag.ErrHelp):
		fmt.Fprintln(errOut, "error: unknown flag: -help (run: taskdemo help)")
	case strings.HasPrefix(errStr, "flag needs an argument:"):
		fmt.Fprintf(errOut, "error: %s\n", errStr)
	case strings.HasPrefix(errStr, "flag provided but not defined:"):
		flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
	default:
		fmt.Fprintf(errOut, "error: %s\n", errStr)
	}
	return exitcode.UserError
}
