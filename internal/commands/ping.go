package commands

import (
	"context"
	"flag"
	"fmt"

	"taskdemo/internal/exitcode"
)

func init() {
	Register(&PingCmd{})
}

// PingCmd implements the ping command.
type PingCmd struct{}

func (c *PingCmd) Name() string       { return "ping" }
func (c *PingCmd) Aliases() []string  { return []string{"health"} }
func (c *PingCmd) Synopsis() string   { return "Check that the backend is reachable" }
func (c *PingCmd) Usage() string      { return "taskdemo ping [common flags]" }
func (c *PingCmd) NeedsBackend() bool { return true }

func (c *PingCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *PingCmd) Run(ctx context.Context, env *Env, args []string) int {
	h, err := env.Svc.Health(ctx)
	if err != nil {
		return reportError(env.ErrOut, err)
	}
	if !env.Cfg.Quiet {
		fmt.Fprintf(env.Out, "%s: %s (%s)\n", h.Status, h.Message, env.Cfg.APIBaseURL)
	}
	return exitcode.Success
}
