package commands

import (
	"context"
	"flag"

	"taskdemo/internal/exitcode"
	"taskdemo/internal/output"
	"taskdemo/internal/service"
)

func init() {
	Register(&ShowCmd{})
}

// ShowCmd implements the show command.
type ShowCmd struct {
	client string
	filter string
}

func (c *ShowCmd) Name() string       { return "show" }
func (c *ShowCmd) Aliases() []string  { return nil }
func (c *ShowCmd) Synopsis() string   { return "Show one task" }
func (c *ShowCmd) Usage() string      { return "taskdemo show [--client <ref>] [--status all|todo|done] <ref>" }
func (c *ShowCmd) NeedsBackend() bool { return true }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.client, "client", "", "")
	fs.StringVar(&c.client, "c", "", "")
	fs.StringVar(&c.filter, "status", "all", "")
	fs.StringVar(&c.filter, "s", "all", "")
}

func (c *ShowCmd) Run(ctx context.Context, env *Env, args []string) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		return userError(env.ErrOut, "%v", err)
	}
	filter, err := service.ParseFilter(c.filter)
	if err != nil {
		return userError(env.ErrOut, "%v", err)
	}

	task, code := findTask(ctx, env, c.client, filter, ref)
	if code != 0 {
		return code
	}
	output.FormatTaskDetails(env.Out, task)
	return exitcode.Success
}
