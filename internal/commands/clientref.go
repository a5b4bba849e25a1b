package commands

import (
	"context"

	"taskdemo/internal/clients"
	"taskdemo/internal/service"
)

// resolveClient picks the client named by ref, falling back to the configured client
// and then to the first one. A non-zero code means an error was already reported.
func resolveClient(ctx context.Context, env *Env, ref string) (service.Client, int) {
	list, err := env.Svc.ListClients(ctx)
	if err != nil {
		return service.Client{}, reportError(env.ErrOut, err)
	}
	if len(list) == 0 {
		return service.Client{}, userError(env.ErrOut, "no clients available")
	}

	if ref == "" {
		ref = env.Cfg.Client
	}
	if ref == "" {
		return list[0], 0
	}
	c, err := clients.Resolve(list, ref)
	if err != nil {
		return service.Client{}, userError(env.ErrOut, "%v", err)
	}
	return c, 0
}
