package commands

import (
	"context"
	"flag"
	"fmt"

	"taskdemo/internal/exitcode"
	"taskdemo/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	client string
	filter string
}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"delete"} }
func (c *RmCmd) Synopsis() string   { return "Delete a task" }
func (c *RmCmd) Usage() string      { return "taskdemo rm [--client <ref>] [--status all|todo|done] <ref>" }
func (c *RmCmd) NeedsBackend() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.client, "client", "", "")
	fs.StringVar(&c.client, "c", "", "")
	fs.StringVar(&c.filter, "status", "all", "")
	fs.StringVar(&c.filter, "s", "all", "")
}

func (c *RmCmd) Run(ctx context.Context, env *Env, args []string) int {
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
	if err := env.Svc.DeleteTask(ctx, task.ID); err != nil {
		return reportError(env.ErrOut, err)
	}

	if !env.Cfg.Quiet {
		fmt.Fprintln(env.Out, "ok")
	}
	return exitcode.Success
}
