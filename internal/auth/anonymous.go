package auth

import (
	"context"

	apierrors "github.com/aufaim/portfoliochat/internal/errors"
)

// Anonymous is used when no identity provider is configured. Visitors are
// always allowed to chat and requests go out without a credential.
type Anonymous struct{}

var _ Provider = Anonymous{}

func (Anonymous) IsAuthenticated(ctx context.Context) bool { return true }

func (Anonymous) LoginWithRedirect(ctx context.Context, opts LoginOptions) error {
	return apierrors.ErrNotConfigured
}

func (Anonymous) Logout(ctx context.Context) error { return nil }

func (Anonymous) HandleRedirectCallback(ctx context.Context) error { return nil }

func (Anonymous) GetTokenSilently(ctx context.Context) (string, error) {
	return "", apierrors.ErrLoginRequired
}
