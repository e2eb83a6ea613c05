package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apierrors "github.com/aufaim/portfoliochat/internal/errors"
)

// Profile is the visitor identity read from the ID token
type Profile struct {
	Subject   string
	Name      string
	Email     string
	ExpiresAt time.Time
}

// DisplayName returns the best human-readable identifier
func (p Profile) DisplayName() string {
	switch {
	case p.Name != "":
		return p.Name
	case p.Email != "":
		return p.Email
	default:
		return p.Subject
	}
}

// Profile returns the identity of the stored session
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	creds, err := c.store.Load()
	if err != nil {
		return nil, apierrors.ErrLoginRequired
	}

	raw := creds.IDToken
	if raw == "" {
		raw = creds.AccessToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, apierrors.NewParseError("identity token is not a JWT", "id_token")
	}

	p := &Profile{ExpiresAt: creds.ExpiresAt}
	p.Subject, _ = claims.GetSubject()
	p.Name, _ = claims["name"].(string)
	p.Email, _ = claims["email"].(string)
	if p.ExpiresAt.IsZero() {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			p.ExpiresAt = exp.Time
		}
	}
	return p, nil
}
