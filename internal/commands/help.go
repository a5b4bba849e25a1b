package commands

import (
	"context"
	"flag"
	"fmt"

	"taskdemo/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "taskdemo help" }
func (c *HelpCmd) NeedsBackend() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string) int {
	fmt.Fprint(env.Out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskdemo                                     List tasks of the default client
  taskdemo list [--client <ref>] [--status all|todo|done] [--pages <n> | --all]
  taskdemo ui [--client <ref>] [--status all|todo|done]
  taskdemo clients
  taskdemo add [--client <ref>] [--description <text>] [--due YYYY-MM-DD] [--external-id <id>] <title...>
  taskdemo show [--client <ref>] [--status <s>] <ref>
  taskdemo done [--client <ref>] [--status <s>] <ref>
  taskdemo reopen [--client <ref>] [--status <s>] <ref>
  taskdemo rm [--client <ref>] [--status <s>] <ref>
  taskdemo overdue
  taskdemo ping
  taskdemo import [--client <ref>] [--list <google-list>] [--dry-run]
  taskdemo import --lists
  taskdemo login
  taskdemo logout
  taskdemo mock-server [--addr <host:port>] [--seed=false] [--origins <list>]
  taskdemo help
  taskdemo version

A task <ref> is a task ID or its number in the list output.
A client <ref> is a client ID, its number in the clients output, or its name.

Common flags:
  --config <dir>      Override config directory
  --env-file <path>   Load settings from this .env file
  --api-url <url>     Tasks API base URL (TASKDEMO_API_URL)
  --page-size <n>     Tasks per page, 1-100 (TASKDEMO_PAGE_SIZE)
  --timeout <dur>     Per-request timeout, 0 disables (TASKDEMO_TIMEOUT)
  --quiet             Suppress informational output
  --debug             Print debug logs to stderr
`
