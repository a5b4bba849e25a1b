package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"taskdemo/internal/exitcode"
	"taskdemo/internal/service"
)

const dueLayout = "2006-01-02"

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	client      string
	description string
	due         string
	externalID  string
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskdemo add [--client <ref>] [--description <text>] [--due YYYY-MM-DD] [--external-id <id>] <title...>"
}
func (c *AddCmd) NeedsBackend() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.client, "client", "", "")
	fs.StringVar(&c.client, "c", "", "")
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.externalID, "external-id", "", "")
}

func (c *AddCmd) Run(ctx context.Context, env *Env, args []string) int {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return userError(env.ErrOut, "title required")
	}

	req := service.CreateTaskRequest{
		Title:       title,
		Description: strings.TrimSpace(c.description),
		ExternalID:  strings.TrimSpace(c.externalID),
	}
	if c.due != "" {
		due, err := time.ParseInLocation(dueLayout, c.due, time.UTC)
		if err != nil {
			return userError(env.ErrOut, "invalid due date: %s (want YYYY-MM-DD)", c.due)
		}
		req.DueDate = &due
	}

	client, code := resolveClient(ctx, env, c.client)
	if code != 0 {
		return code
	}
	req.ClientID = client.ID

	task, err := env.Svc.CreateTask(ctx, req)
	if err != nil {
		return reportError(env.ErrOut, err)
	}
	env.Logger.Debug("task created", "task_id", task.ID, "client_id", client.ID)

	if !env.Cfg.Quiet {
		fmt.Fprintf(env.Out, "ok %s\n", task.ID)
	}
	return exitcode.Success
}
