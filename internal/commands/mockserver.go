package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"taskdemo/internal/exitcode"
	"taskdemo/internal/mockapi"
)

func init() {
	Register(&MockServerCmd{})
}

// MockServerCmd implements the mock-server command: an in-memory tasks API for
// demos and local development.
type MockServerCmd struct {
	addr    string
	seed    bool
	origins string
}

func (c *MockServerCmd) Name() string      { return "mock-server" }
func (c *MockServerCmd) Aliases() []string { return []string{"serve"} }
func (c *MockServerCmd) Synopsis() string  { return "Run an in-memory tasks API" }
func (c *MockServerCmd) Usage() string {
	return "taskdemo mock-server [--addr <host:port>] [--seed=false] [--origins <list>]"
}
func (c *MockServerCmd) NeedsBackend() bool { return false }

func (c *MockServerCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "localhost:5000", "")
	fs.BoolVar(&c.seed, "seed", true, "")
	fs.StringVar(&c.origins, "origins", "", "")
}

func (c *MockServerCmd) Run(ctx context.Context, env *Env, args []string) int {
	addr := c.addr
	if addr == "" {
		addr = "localhost:5000"
	}

	store := mockapi.NewStore()
	if c.seed {
		mockapi.Seed(store, time.Now())
	}
	var origins []string
	for _, o := range strings.Split(c.origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	l, err := net.Listen("tcp", addr)
	if err != nil {
		return userError(env.ErrOut, "listen on %s: %v", addr, err)
	}
	srv := &http.Server{
		Handler:           mockapi.NewHandler(store, mockapi.Options{Logger: env.Logger, AllowedOrigins: origins}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(l) }()

	if !env.Cfg.Quiet {
		fmt.Fprintf(env.Out, "listening on http://%s\n", l.Addr())
	}
	env.Logger.Info("mock api started", "addr", l.Addr().String(), "seeded", c.seed)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(env.ErrOut, "error: %v\n", err)
			return exitcode.BackendError
		}
		return exitcode.Success
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(env.ErrOut, "error: shutdown: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
