package restapi

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"taskdemo/internal/config"
)

// authClient returns the HTTP client for the configured auth mode:
// OAuth2 client credentials, a static bearer token, or none.
func authClient(ctx context.Context, cfg *config.Config) *http.Client {
	switch {
	case cfg.OAuth.Enabled():
		cc := &clientcredentials.Config{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			TokenURL:     cfg.OAuth.TokenURL,
			Scopes:       cfg.OAuth.Scopes,
		}
		return cc.Client(ctx)
	case cfg.APIToken != "":
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIToken, TokenType: "Bearer"})
		return oauth2.NewClient(ctx, ts)
	default:
		return &http.Client{}
	}
}
