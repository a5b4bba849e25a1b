package commands

import (
	"context"
	"flag"
	"fmt"

	"taskdemo/internal/exitcode"
	"taskdemo/internal/output"
	"taskdemo/internal/service"
	"taskdemo/internal/tasklist"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `taskdemo` (no args) and `taskdemo list`.
type ListCmd struct {
	client string
	status string
	pages  int
	all    bool
}

// SetPages sets how many pages to fetch (for testing).
func (c *ListCmd) SetPages(n int) {
	c.pages = n
}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List tasks of a client" }
func (c *ListCmd) Usage() string      { return "taskdemo list [--client <ref>] [--status all|todo|done] [--pages <n> | --all]" }
func (c *ListCmd) NeedsBackend() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.client, "client", "", "")
	fs.StringVar(&c.client, "c", "", "")
	fs.StringVar(&c.status, "status", "all", "")
	fs.StringVar(&c.status, "s", "all", "")
	fs.IntVar(&c.pages, "pages", 1, "")
	fs.BoolVar(&c.all, "all", false, "")
}

func (c *ListCmd) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) > 0 {
		return userError(env.ErrOut, "unexpected argument: %s", args[0])
	}
	filter, err := service.ParseFilter(c.status)
	if err != nil {
		return userError(env.ErrOut, "%v", err)
	}
	if c.pages < 1 {
		return userError(env.ErrOut, "invalid page count: %d", c.pages)
	}

	client, code := resolveClient(ctx, env, c.client)
	if code != 0 {
		return code
	}

	model := tasklist.New(env.Svc, tasklist.Options{
		PageSize: env.Cfg.PageSize,
		Filter:   filter,
		Logger:   env.Logger,
	})
	defer model.Close()

	if err := model.SetClient(ctx, client.ID); err != nil {
		return reportError(env.ErrOut, err)
	}
	loaded := 1
	for c.all || loaded < c.pages {
		if !model.Snapshot().CanLoadMore() {
			break
		}
		if err := model.LoadMore(ctx); err != nil {
			return reportError(env.ErrOut, err)
		}
		loaded++
	}

	snap := model.Snapshot()
	if env.Cfg.Quiet && len(snap.Entries) == 0 {
		return exitcode.Success
	}
	output.RenderTaskList(env.Out, snap, output.ListOptions{
		ClientName: client.Name,
		MoreHint:   fmt.Sprintf("(run with --pages %d or --all)", loaded+1),
	})
	return exitcode.Success
}
