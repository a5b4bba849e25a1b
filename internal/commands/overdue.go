package commands

import (
	"context"
	"flag"

	"taskdemo/internal/exitcode"
	"taskdemo/internal/output"
)

func init() {
	Register(&OverdueCmd{})
}

// OverdueCmd implements the overdue command.
type OverdueCmd struct{}

func (c *OverdueCmd) Name() string       { return "overdue" }
func (c *OverdueCmd) Aliases() []string  { return nil }
func (c *OverdueCmd) Synopsis() string   { return "Count overdue tasks per client" }
func (c *OverdueCmd) Usage() string      { return "taskdemo overdue [common flags]" }
func (c *OverdueCmd) NeedsBackend() bool { return true }

func (c *OverdueCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *OverdueCmd) Run(ctx context.Context, env *Env, args []string) int {
	counts, err := env.Svc.OverdueCounts(ctx)
	if err != nil {
		return reportError(env.ErrOut, err)
	}
	// Names are cosmetic; fall back to IDs when the client list is unavailable.
	list, err := env.Svc.ListClients(ctx)
	if err != nil {
		env.Logger.Warn("could not load client names", "error", err)
	}
	output.FormatOverdue(env.Out, counts, list)
	return exitcode.Success
}
