package cli_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"taskdemo/internal/cli"
	"taskdemo/internal/commands"
	"taskdemo/internal/config"
	"taskdemo/internal/exitcode"
	"taskdemo/internal/service"
	"taskdemo/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService and
// records the configuration it was called with.
func testFactory(svc *testutil.FakeService, seen **config.Config) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.Service, error) {
		if seen != nil {
			*seen = cfg
		}
		return svc, nil
	}
}

// run dispatches args with an isolated config directory.
func run(t *testing.T, d *cli.Dispatcher, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	if len(args) > 0 {
		args = append(args, "--config", t.TempDir())
	}
	code = d.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func acmeService() *testutil.FakeService {
	svc := testutil.NewFakeService()
	svc.AddClient("c1", "Acme")
	svc.AddTask("c1", "t1", "Buy milk")
	return svc
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService(), nil))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"unknowncmd"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService(), nil))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"--quiet"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)

	stdout, stderr, code := run(t, dispatcher, "help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)

	stdout, stderr, code := run(t, dispatcher, "version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "taskdemo 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

func TestDispatcher_Alias(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(acmeService(), nil))

	stdout, _, code := run(t, dispatcher, "ls")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.HasPrefix(stdout, "Tasks for Acme (1 task, filter: all)\n") {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestDispatcher_NoArgsListsTasks(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(acmeService(), nil))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), nil, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "   1  Buy milk  [Todo]\n") {
		t.Errorf("unexpected output %q", stdout.String())
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)

	stdout, stderr, code := run(t, dispatcher, "version", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: unknown flag: -unknown\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_FlagNeedsArgument(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"list", "--api-url"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr.String() != "error: flag needs an argument: -api-url\n" {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
}

func TestDispatcher_InvalidPageSize(t *testing.T) {
	called := false
	factory := func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.Service, error) {
		called = true
		return acmeService(), nil
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	_, stderr, code := run(t, dispatcher, "list", "--page-size", "0")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid page size: 0 (want 1-100)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if called {
		t.Error("backend should not be created for an invalid configuration")
	}
}

func TestDispatcher_CommonFlagsReachFactory(t *testing.T) {
	var seen *config.Config
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(acmeService(), &seen))

	_, stderr, code := run(t, dispatcher, "list",
		"--api-url", "http://tasks.internal:8080/",
		"--page-size", "25",
		"--timeout", "3s",
		"--quiet")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	if seen == nil {
		t.Fatal("factory was not called")
	}
	if seen.APIBaseURL != "http://tasks.internal:8080" {
		t.Errorf("expected trimmed API URL, got %q", seen.APIBaseURL)
	}
	if seen.PageSize != 25 {
		t.Errorf("expected page size 25, got %d", seen.PageSize)
	}
	if seen.Timeout != 3*time.Second {
		t.Errorf("expected timeout 3s, got %s", seen.Timeout)
	}
	if !seen.Quiet {
		t.Error("expected quiet")
	}
}

func TestDispatcher_EnvironmentConfig(t *testing.T) {
	t.Setenv("TASKDEMO_PAGE_SIZE", "7")
	t.Setenv("TASKDEMO_CLIENT", "Globex")

	svc := acmeService()
	svc.AddClient("c2", "Globex")
	var seen *config.Config
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc, &seen))

	stdout, _, code := run(t, dispatcher, "clients")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if seen.PageSize != 7 {
		t.Errorf("expected page size 7, got %d", seen.PageSize)
	}
	if stdout != "   1  Acme\n   2  Globex [selected]\n" {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestDispatcher_FactoryError(t *testing.T) {
	factory := func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.Service, error) {
		return nil, errors.New("invalid oauth settings")
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	_, stderr, code := run(t, dispatcher, "clients")

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: invalid oauth settings\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_BackendNotNeeded(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)

	stdout, stderr, code := run(t, dispatcher, "logout")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	if stdout != "not logged in\n" {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestDispatcher_InteractiveInput(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(acmeService(), nil),
		cli.WithInput(strings.NewReader("clients\nquit\n")))

	stdout, _, code := run(t, dispatcher, "ui")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stdout, "   1  Acme [selected]\n") {
		t.Errorf("unexpected output:\n%s", stdout)
	}
}

func TestDispatcher_ImportSource(t *testing.T) {
	svc := acmeService()
	src := &testutil.FakeSource{
		ListsResult: []service.ExternalList{{ID: "@default", Title: "My Tasks", IsDefault: true}},
		TasksByList: map[string][]service.ExternalTask{"@default": {{ID: "g1", Title: "From Google"}}},
	}
	sources := func(ctx context.Context, cfg *config.Config) (service.ImportSource, error) {
		return src, nil
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc, nil), cli.WithSourceFactory(sources))

	stdout, stderr, code := run(t, dispatcher, "import")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	if stdout != "imported 1, skipped 0 duplicate(s), 0 untitled\n" {
		t.Errorf("unexpected output %q", stdout)
	}
	if got := svc.Tasks("c1")[0].ExternalID; got != "gtasks:g1" {
		t.Errorf("expected external id gtasks:g1, got %q", got)
	}
}
