package commands

import (
	"context"
	"flag"

	"taskdemo/internal/clients"
	"taskdemo/internal/exitcode"
	"taskdemo/internal/output"
)

func init() {
	Register(&ClientsCmd{})
}

// ClientsCmd implements the clients command.
type ClientsCmd struct{}

func (c *ClientsCmd) Name() string       { return "clients" }
func (c *ClientsCmd) Aliases() []string  { return nil }
func (c *ClientsCmd) Synopsis() string   { return "List clients" }
func (c *ClientsCmd) Usage() string      { return "taskdemo clients [common flags]" }
func (c *ClientsCmd) NeedsBackend() bool { return true }

func (c *ClientsCmd) RegisterFlags(fs *flag.FlagSet) {}

// Run prints the clients and marks the one other commands default to.
func (c *ClientsCmd) Run(ctx context.Context, env *Env, args []string) int {
	list, err := env.Svc.ListClients(ctx)
	if err != nil {
		return reportError(env.ErrOut, err)
	}

	var selected string
	if len(list) > 0 {
		selected = list[0].ID
		if env.Cfg.Client != "" {
			selected = ""
			if cl, err := clients.Resolve(list, env.Cfg.Client); err == nil {
				selected = cl.ID
			}
		}
	}

	if len(list) == 0 && env.Cfg.Quiet {
		return exitcode.Success
	}
	output.FormatClients(env.Out, list, selected)
	return exitcode.Success
}
