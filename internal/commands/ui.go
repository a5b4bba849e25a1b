package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"sync"

	"taskdemo/internal/app"
	"taskdemo/internal/exitcode"
	"taskdemo/internal/output"
	"taskdemo/internal/service"
	"taskdemo/internal/tasklist"
)

func init() {
	Register(&UICmd{})
}

// UICmd implements the interactive session: the client selector and the task list of
// the selected client, driven by one-line commands.
type UICmd struct {
	client string
	status string
}

func (c *UICmd) Name() string       { return "ui" }
func (c *UICmd) Aliases() []string  { return []string{"shell"} }
func (c *UICmd) Synopsis() string   { return "Interactive task list" }
func (c *UICmd) Usage() string      { return "taskdemo ui [--client <ref>] [--status all|todo|done]" }
func (c *UICmd) NeedsBackend() bool { return true }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.client, "client", "", "")
	fs.StringVar(&c.client, "c", "", "")
	fs.StringVar(&c.status, "status", "all", "")
	fs.StringVar(&c.status, "s", "all", "")
}

const uiHelp = `Commands:
  clients              List clients
  client <ref>         Switch client (ID, number or name)
  filter <status>      Show all, todo or done tasks
  more                 Load the next page
  add <title> [| <description>]
                       Create a task
  refresh              Reload the first page
  list                 Print the list again
  help                 Show this help
  quit                 Leave
`

func (c *UICmd) Run(ctx context.Context, env *Env, args []string) int {
	filter, err := service.ParseFilter(c.status)
	if err != nil {
		return userError(env.ErrOut, "%v", err)
	}

	s := &session{env: env}
	s.app = app.New(env.Svc, app.Options{
		Client:   c.client,
		PageSize: env.Cfg.PageSize,
		Filter:   filter,
		Logger:   env.Logger,
		OnChange: s.onChange,
	})
	defer s.app.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := s.app.Start(ctx); err != nil {
		var refErr *app.ClientRefError
		switch {
		case errors.As(err, &refErr):
			s.printf("error: %v\n", refErr)
		case !errors.Is(err, tasklist.ErrSuperseded):
			env.Logger.Debug("initial fetch failed", "error", err)
		}
	}
	s.render()
	s.printf("Type 'help' for commands.\n")

	scanner := bufio.NewScanner(env.In)
	for {
		s.printf("> ")
		if !scanner.Scan() {
			break
		}
		if !s.exec(ctx, strings.TrimSpace(scanner.Text())) {
			break
		}
	}
	s.pending.Wait()
	if err := scanner.Err(); err != nil {
		return userError(env.ErrOut, "read input: %v", err)
	}
	return exitcode.Success
}

// session serializes all writes to the terminal; background creates redraw from their
// own goroutine.
type session struct {
	env     *Env
	app     *app.App
	mu      sync.Mutex
	pending sync.WaitGroup
}

func (s *session) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.env.Out, format, args...)
}

// onChange redraws when an optimistic entry appears, so it is visible before the
// create call resolves.
func (s *session) onChange(snap tasklist.Snapshot) {
	if snap.Submitting && len(snap.Entries) > 0 && snap.Entries[0].IsPending() {
		s.draw(snap)
	}
}

func (s *session) render() {
	s.draw(s.app.Tasks().Snapshot())
}

func (s *session) draw(snap tasklist.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.env.Out
	if snap.ClientID == "" {
		fmt.Fprintln(w, "No clients available.")
		return
	}
	var name string
	if cl, ok := s.app.Clients().SelectedClient(); ok {
		name = cl.Name
	}
	output.RenderTaskList(w, snap, output.ListOptions{ClientName: name, MoreHint: "(type: more)"})
}

// exec runs one input line and reports whether the session continues.
func (s *session) exec(ctx context.Context, line string) bool {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	tasks := s.app.Tasks()

	switch strings.ToLower(cmd) {
	case "":
	case "quit", "exit", "q":
		return false
	case "help", "?":
		s.printf("%s", uiHelp)
	case "clients":
		s.mu.Lock()
		output.FormatClients(s.env.Out, s.app.Clients().Clients(), s.app.Clients().Selected())
		s.mu.Unlock()
	case "client":
		if _, err := s.app.SelectClient(ctx, rest); err != nil && !isFetchError(err) {
			s.printf("error: %v\n", err)
			return true
		}
		s.render()
	case "filter":
		f, err := service.ParseFilter(rest)
		if err != nil {
			s.printf("error: %v\n", err)
			return true
		}
		s.fetch(tasks.SetFilter(ctx, f))
	case "more":
		err := tasks.LoadMore(ctx)
		if errors.Is(err, tasklist.ErrLoadMoreUnavailable) {
			s.printf("nothing more to load\n")
			return true
		}
		s.fetch(err)
	case "refresh":
		s.fetch(tasks.Refresh(ctx))
	case "list", "ls":
		s.render()
	case "add":
		s.add(ctx, rest)
	default:
		s.printf("unknown command: %s (type 'help')\n", cmd)
	}
	return true
}

// fetch renders the result of a fetch. Errors are part of the snapshot.
func (s *session) fetch(err error) {
	if errors.Is(err, tasklist.ErrNoClient) {
		s.printf("error: no client selected\n")
		return
	}
	s.render()
}

func isFetchError(err error) bool {
	var apiErr *service.APIError
	var reqErr *service.RequestError
	return errors.As(err, &apiErr) || errors.As(err, &reqErr) || errors.Is(err, tasklist.ErrSuperseded)
}

// add creates a task in the background; the prompt stays usable while it is pending.
func (s *session) add(ctx context.Context, input string) {
	title, desc, _ := strings.Cut(input, "|")
	if strings.TrimSpace(title) == "" {
		s.printf("error: title required\n")
		return
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		task, err := s.app.Tasks().Create(ctx, title, desc)
		switch {
		case errors.Is(err, tasklist.ErrCreateInFlight), errors.Is(err, tasklist.ErrNoClient):
			s.printf("error: %v\n", err)
			return
		case err != nil:
			s.render()
			return
		}
		s.render()
		s.printf("created %s\n", task.ID)
	}()
}
