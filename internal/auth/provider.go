// Package auth integrates the identity provider that gates the chat endpoint.
package auth

import (
	"context"

	"github.com/atotto/clipboard"
)

// LoginOptions configures a login redirect
type LoginOptions struct {
	// OpenURL receives the authorization URL the visitor must open.
	// Defaults to copying it to the clipboard.
	OpenURL func(url string) error
	// ScreenHint is forwarded as screen_hint ("signup" shows the
	// registration page)
	ScreenHint string
}

func (o LoginOptions) open(url string) error {
	if o.OpenURL != nil {
		return o.OpenURL(url)
	}
	return clipboard.WriteAll(url)
}

// Provider is the identity provider as seen by the chat controller
type Provider interface {
	// IsAuthenticated reports the last known session state
	IsAuthenticated(ctx context.Context) bool
	// LoginWithRedirect starts a login. It returns once the visitor has
	// been sent to the provider; HandleRedirectCallback completes it.
	LoginWithRedirect(ctx context.Context, opts LoginOptions) error
	// Logout ends the local session
	Logout(ctx context.Context) error
	// HandleRedirectCallback completes a login started by
	// LoginWithRedirect. Without a pending login it returns nil at once.
	HandleRedirectCallback(ctx context.Context) error
	// GetTokenSilently returns a bearer token, refreshing it if needed.
	// It fails with ErrLoginRequired when no valid session exists.
	GetTokenSilently(ctx context.Context) (string, error)
}
