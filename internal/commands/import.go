package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"taskdemo/internal/exitcode"
	"taskdemo/internal/output"
	"taskdemo/internal/service"
)

// ExternalIDPrefix marks tasks copied from Google Tasks.
const ExternalIDPrefix = "gtasks:"

func init() {
	Register(&ImportCmd{})
}

// ImportCmd implements the import command.
type ImportCmd struct {
	client    string
	list      string
	showLists bool
	dryRun    bool
}

func (c *ImportCmd) Name() string      { return "import" }
func (c *ImportCmd) Aliases() []string { return nil }
func (c *ImportCmd) Synopsis() string  { return "Copy open Google Tasks into a client" }
func (c *ImportCmd) Usage() string {
	return "taskdemo import [--client <ref>] [--list <google-list>] [--dry-run] | import --lists"
}
func (c *ImportCmd) NeedsBackend() bool { return true }

func (c *ImportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.client, "client", "", "")
	fs.StringVar(&c.client, "c", "", "")
	fs.StringVar(&c.list, "list", "", "")
	fs.StringVar(&c.list, "l", "", "")
	fs.BoolVar(&c.showLists, "lists", false, "")
	fs.BoolVar(&c.dryRun, "dry-run", false, "")
}

func (c *ImportCmd) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) > 0 {
		return userError(env.ErrOut, "unexpected argument: %s", args[0])
	}
	if env.Sources == nil {
		fmt.Fprintln(env.ErrOut, "error: auth error: import source not configured")
		return exitcode.AuthError
	}
	src, err := env.Sources(ctx, env.Cfg)
	if err != nil {
		fmt.Fprintf(env.ErrOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	}

	lists, err := src.Lists(ctx)
	if err != nil {
		return sourceError(env, err)
	}
	if c.showLists {
		for _, l := range lists {
			output.FormatExternalList(env.Out, l)
		}
		return exitcode.Success
	}

	list, code := pickList(env, lists, c.list)
	if code != 0 {
		return code
	}
	items, err := src.OpenTasks(ctx, list.ID)
	if err != nil {
		return sourceError(env, err)
	}

	client, code := resolveClient(ctx, env, c.client)
	if code != 0 {
		return code
	}

	var imported, duplicates, untitled int
	for _, item := range items {
		req := importRequest(client.ID, item)
		if req.Title == "" {
			untitled++
			continue
		}
		if c.dryRun {
			fmt.Fprintf(env.Out, "would import: %s\n", req.Title)
			imported++
			continue
		}
		if _, err := env.Svc.CreateTask(ctx, req); err != nil {
			if service.IsConflict(err) {
				duplicates++
				continue
			}
			return reportError(env.ErrOut, err)
		}
		imported++
	}

	env.Logger.Debug("import finished", "list", list.Title, "client_id", client.ID,
		"imported", imported, "duplicates", duplicates, "untitled", untitled)
	if !env.Cfg.Quiet {
		fmt.Fprintf(env.Out, "imported %d, skipped %d duplicate(s), %d untitled\n", imported, duplicates, untitled)
	}
	return exitcode.Success
}

func importRequest(clientID string, t service.ExternalTask) service.CreateTaskRequest {
	return service.CreateTaskRequest{
		ClientID:    clientID,
		Title:       strings.TrimSpace(t.Title),
		Description: strings.TrimSpace(t.Notes),
		DueDate:     t.Due,
		ExternalID:  ExternalIDPrefix + t.ID,
	}
}

// pickList finds a list by name (case-insensitive, trimmed) or the default list.
func pickList(env *Env, lists []service.ExternalList, name string) (service.ExternalList, int) {
	name = strings.TrimSpace(name)
	var matches []service.ExternalList
	for _, l := range lists {
		if (name == "" && l.IsDefault) || (name != "" && strings.EqualFold(strings.TrimSpace(l.Title), name)) {
			matches = append(matches, l)
		}
	}
	switch {
	case len(matches) == 1:
		return matches[0], 0
	case name == "":
		return service.ExternalList{}, userError(env.ErrOut, "no default list found")
	case len(matches) == 0:
		return service.ExternalList{}, userError(env.ErrOut, "list not found: %s", name)
	default:
		return service.ExternalList{}, userError(env.ErrOut, "ambiguous list name: %s", name)
	}
}

func sourceError(env *Env, err error) int {
	fmt.Fprintf(env.ErrOut, "error: import source error: %v\n", err)
	return exitcode.BackendError
}
