package auth

import (
	"context"
	"sync"

	apierrors "github.com/aufaim/portfoliochat/internal/errors"
)

// MockProvider is a Provider for tests
type MockProvider struct {
	mu sync.Mutex

	Authenticated bool
	Token         string
	TokenErr      error
	LoginErr      error
	CallbackErr   error
	// AuthenticateOnCallback flips Authenticated when the callback is handled
	AuthenticateOnCallback bool

	LoginCalls    int
	LogoutCalls   int
	CallbackCalls int
	TokenCalls    int
	LastLoginOpts LoginOptions
}

var _ Provider = (*MockProvider)(nil)

func (m *MockProvider) IsAuthenticated(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Authenticated
}

func (m *MockProvider) LoginWithRedirect(ctx context.Context, opts LoginOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoginCalls++
	m.LastLoginOpts = opts
	return m.LoginErr
}

func (m *MockProvider) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LogoutCalls++
	m.Authenticated = false
	return nil
}

func (m *MockProvider) HandleRedirectCallback(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallbackCalls++
	if m.CallbackErr == nil && m.AuthenticateOnCallback {
		m.Authenticated = true
	}
	return m.CallbackErr
}

func (m *MockProvider) GetTokenSilently(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TokenCalls++
	if m.TokenErr != nil {
		return "", m.TokenErr
	}
	if m.Token == "" {
		return "", apierrors.ErrLoginRequired
	}
	return m.Token, nil
}

// Counts returns login, logout, callback and token call counts
func (m *MockProvider) Counts() (login, logout, callback, token int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.LoginCalls, m.LogoutCalls, m.CallbackCalls, m.TokenCalls
}
