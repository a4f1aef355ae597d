package integration

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/core/config"
)

// GoogleHTTPClient returns an HTTP client that refreshes Google access tokens
// from the configured offline refresh token. Gmail and Calendar share it.
func GoogleHTTPClient(ctx context.Context, cfg config.GoogleConfig) *http.Client {
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     endpoints.Google,
		Scopes: []string{
			"https://www.googleapis.com/auth/gmail.modify",
			"https://www.googleapis.com/auth/calendar",
		},
	}

	src := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
	client := oauth2.NewClient(ctx, oauth2.ReuseTokenSource(nil, src))
	client.Timeout = 30 * time.Second
	return client
}
