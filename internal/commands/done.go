package commands

import (
	"context"
	"flag"
	"fmt"

	"taskdemo/internal/exitcode"
	"taskdemo/internal/service"
)

func init() {
	Register(&StatusCmd{name: "done", status: service.StatusDone, synopsis: "Mark a task done"})
	Register(&StatusCmd{name: "reopen", status: service.StatusTodo, synopsis: "Mark a task todo again"})
}

// StatusCmd implements done and reopen.
type StatusCmd struct {
	name     string
	status   service.Status
	synopsis string

	client string
	filter string
}

// NewDoneCmd returns the done command (for testing).
func NewDoneCmd() *StatusCmd {
	return &StatusCmd{name: "done", status: service.StatusDone, filter: "all"}
}

// NewReopenCmd returns the reopen command (for testing).
func NewReopenCmd() *StatusCmd {
	return &StatusCmd{name: "reopen", status: service.StatusTodo, filter: "all"}
}

func (c *StatusCmd) Name() string      { return c.name }
func (c *StatusCmd) Aliases() []string { return nil }
func (c *StatusCmd) Synopsis() string  { return c.synopsis }
func (c *StatusCmd) Usage() string {
	return "taskdemo " + c.name + " [--client <ref>] [--status all|todo|done] <ref>"
}
func (c *StatusCmd) NeedsBackend() bool { return true }

func (c *StatusCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.client, "client", "", "")
	fs.StringVar(&c.client, "c", "", "")
	fs.StringVar(&c.filter, "status", "all", "")
	fs.StringVar(&c.filter, "s", "all", "")
}

func (c *StatusCmd) Run(ctx context.Context, env *Env, args []string) int {
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

	if task.Status != c.status {
		if _, err := env.Svc.UpdateTaskStatus(ctx, task.ID, c.status); err != nil {
			return reportError(env.ErrOut, err)
		}
	}

	if !env.Cfg.Quiet {
		fmt.Fprintln(env.Out, "ok")
	}
	return exitcode.Success
}
