package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/aufaim/portfoliochat/internal/config"
	apierrors "github.com/aufaim/portfoliochat/internal/errors"
	"github.com/aufaim/portfoliochat/internal/logging"
)

// expiryLeeway treats tokens about to expire as expired
const expiryLeeway = 30 * time.Second

// Client implements Provider with the authorization code flow and PKCE,
// receiving the redirect on a loopback HTTP listener.
type Client struct {
	cfg        config.AuthConfig
	endpoint   oauth2.Endpoint
	store      CredentialStore
	httpClient *http.Client
	logger     *zap.Logger
	now        func() time.Time

	mu      sync.Mutex
	pending *pendingLogin

	refreshGroup singleflight.Group
}

// pendingLogin is a redirect in flight
type pendingLogin struct {
	state    string
	verifier string
	authURL  string
	oauth    *oauth2.Config
	server   *http.Server
	results  chan callbackResult
}

type callbackResult struct {
	code        string
	state       string
	err         string
	description string
}

// ClientOption configures Client
type ClientOption func(*Client)

// WithStore replaces the credential store
func WithStore(store CredentialStore) ClientOption {
	return func(c *Client) {
		c.store = store
	}
}

// WithEndpoint overrides the authorize and token URLs
func WithEndpoint(endpoint oauth2.Endpoint) ClientOption {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithHTTPClient sets the client used for token requests
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithClock replaces time.Now (used by tests)
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a provider client for the configured tenant
func NewClient(cfg config.AuthConfig, opts ...ClientOption) (*Client, error) {
	if strings.TrimSpace(cfg.Domain) == "" || strings.TrimSpace(cfg.ClientID) == "" {
		return nil, fmt.Errorf("identity provider: %w", apierrors.ErrNotConfigured)
	}

	base := "https://" + strings.TrimSuffix(strings.TrimPrefix(cfg.Domain, "https://"), "/")
	c := &Client{
		cfg: cfg,
		endpoint: oauth2.Endpoint{
			AuthURL:   base + "/authorize",
			TokenURL:  base + "/oauth/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		store:      FileStore{},
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrNop(c.logger)

	return c, nil
}

var _ Provider = (*Client)(nil)

func (c *Client) oauthConfig(redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:    c.cfg.ClientID,
		Endpoint:    c.endpoint,
		RedirectURL: redirectURL,
		Scopes:      c.cfg.Scopes,
	}
}

func (c *Client) tokenContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

// IsAuthenticated reports whether stored credentials can produce a token
func (c *Client) IsAuthenticated(ctx context.Context) bool {
	creds, err := c.store.Load()
	if err != nil {
		return false
	}
	return c.accessTokenValid(creds) || creds.RefreshToken != ""
}

// LoginWithRedirect starts the loopback listener and hands the
// authorization URL to opts.OpenURL. A second call while a login is
// pending re-opens the same URL.
func (c *Client) LoginWithRedirect(ctx context.Context, opts LoginOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending != nil {
		return c.openURL(opts, c.pending.authURL)
	}

	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", c.cfg.CallbackPort))
	if err != nil {
		return fmt.Errorf("failed to start login callback listener: %w", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	redirectURL := fmt.Sprintf("http://127.0.0.1:%d/callback", port)

	p := &pendingLogin{
		state:    uuid.NewString(),
		verifier: oauth2.GenerateVerifier(),
		oauth:    c.oauthConfig(redirectURL),
		results:  make(chan callbackResult, 1),
	}

	authOpts := []oauth2.AuthCodeOption{oauth2.S256ChallengeOption(p.verifier)}
	if c.cfg.Audience != "" {
		authOpts = append(authOpts, oauth2.SetAuthURLParam("audience", c.cfg.Audience))
	}
	if opts.ScreenHint != "" {
		authOpts = append(authOpts, oauth2.SetAuthURLParam("screen_hint", opts.ScreenHint))
	}
	p.authURL = p.oauth.AuthCodeURL(p.state, authOpts...)

	p.server = &http.Server{
		Handler:           callbackRouter(p.results),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := p.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.logger.Warn("login callback server stopped", zap.Error(err))
		}
	}()

	c.pending = p
	c.logger.Info("login started", zap.String("redirect_uri", redirectURL))

	return c.openURL(opts, p.authURL)
}

func (c *Client) openURL(opts LoginOptions, authURL string) error {
	if err := opts.open(authURL); err != nil {
		// The login stays pending: the caller can still show the URL
		c.logger.Warn("could not open login URL", zap.Error(err))
	}
	return nil
}

// PendingLoginURL returns the authorization URL of a login in flight
func (c *Client) PendingLoginURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return ""
	}
	return c.pending.authURL
}

// callbackRouter serves the redirect target of the login flow
func callbackRouter(results chan<- callbackResult) http.Handler {
	r := chi.NewRouter()
	r.Get("/callback", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		res := callbackResult{
			code:        q.Get("code"),
			state:       q.Get("state"),
			err:         q.Get("error"),
			description: q.Get("error_description"),
		}

		select {
		case results <- res:
		default:
			// a result is already queued; later redirects are ignored
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if res.err != "" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, "<html><body><h2>Login failed.</h2><p>You can close this window and return to the terminal.</p></body></html>")
			return
		}
		fmt.Fprint(w, "<html><body><h2>Login complete.</h2><p>You can close this window and return to the terminal.</p></body></html>")
	})
	return r
}

// HandleRedirectCallback waits for the redirect of a pending login,
// exchanges the code and stores the tokens.
func (c *Client) HandleRedirectCallback(ctx context.Context) error {
	c.mu.Lock()
	p := c.pending
	c.mu.Unlock()

	if p == nil {
		return nil
	}
	defer c.finishLogin(p)

	var res callbackResult
	select {
	case res = <-p.results:
	case <-ctx.Done():
		return ctx.Err()
	}

	if res.err != "" {
		msg := res.err
		if res.description != "" {
			msg = fmt.Sprintf("%s: %s", res.err, res.description)
		}
		return apierrors.NewAuthError(msg)
	}
	if res.state != p.state {
		return apierrors.NewAuthError("state mismatch in login callback")
	}
	if res.code == "" {
		return apierrors.NewAuthError("login callback carried no authorization code")
	}

	token, err := p.oauth.Exchange(c.tokenContext(ctx), res.code, oauth2.VerifierOption(p.verifier))
	if err != nil {
		return apierrors.NewAuthError(fmt.Sprintf("code exchange failed: %v", err))
	}

	if err := c.store.Save(credentialsFromToken(token)); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	c.logger.Info("login completed")
	return nil
}

// finishLogin stops the callback listener and clears p if still current
func (c *Client) finishLogin(p *pendingLogin) {
	c.mu.Lock()
	if c.pending == p {
		c.pending = nil
	}
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = p.server.Shutdown(ctx)
}

// GetTokenSilently returns the stored access token, refreshing it with the
// refresh token when it has expired
func (c *Client) GetTokenSilently(ctx context.Context) (string, error) {
	creds, err := c.store.Load()
	if err != nil {
		return "", apierrors.ErrLoginRequired
	}

	if c.accessTokenValid(creds) {
		return creds.AccessToken, nil
	}
	if creds.RefreshToken == "" {
		return "", apierrors.ErrLoginRequired
	}

	v, err, _ := c.refreshGroup.Do("refresh", func() (interface{}, error) {
		return c.refresh(ctx, creds)
	})
	if err != nil {
		c.logger.Warn("token refresh failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", apierrors.ErrLoginRequired, err)
	}
	return v.(string), nil
}

func (c *Client) refresh(ctx context.Context, creds *config.Credentials) (string, error) {
	expired := &oauth2.Token{
		RefreshToken: creds.RefreshToken,
		Expiry:       c.now().Add(-time.Minute),
	}

	token, err := c.oauthConfig("").TokenSource(c.tokenContext(ctx), expired).Token()
	if err != nil {
		return "", err
	}

	updated := credentialsFromToken(token)
	if updated.IDToken == "" {
		updated.IDToken = creds.IDToken
	}
	if err := c.store.Save(updated); err != nil {
		return "", fmt.Errorf("failed to save refreshed credentials: %w", err)
	}

	c.logger.Debug("access token refreshed", zap.Time("expires_at", updated.ExpiresAt))
	return updated.AccessToken, nil
}

// Logout deletes the stored session and abandons any pending login
func (c *Client) Logout(ctx context.Context) error {
	c.mu.Lock()
	p := c.pending
	c.mu.Unlock()
	if p != nil {
		c.finishLogin(p)
	}

	if err := c.store.Delete(); err != nil {
		return err
	}
	c.logger.Info("logged out")
	return nil
}

// LogoutURL returns the provider URL that also ends the browser session
func (c *Client) LogoutURL(returnTo string) string {
	u, err := url.Parse(strings.TrimSuffix(c.endpoint.AuthURL, "/authorize") + "/v2/logout")
	if err != nil {
		return ""
	}
	q := u.Query()
	q.Set("client_id", c.cfg.ClientID)
	if returnTo != "" {
		q.Set("returnTo", returnTo)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// accessTokenValid checks the stored expiry, falling back to the JWT exp
// claim. Opaque tokens without any expiry are trusted.
func (c *Client) accessTokenValid(creds *config.Credentials) bool {
	if creds.AccessToken == "" {
		return false
	}

	expiry := creds.ExpiresAt
	if expiry.IsZero() {
		expiry = tokenExpiry(creds.AccessToken)
	}
	if expiry.IsZero() {
		return true
	}
	return c.now().Add(expiryLeeway).Before(expiry)
}

func credentialsFromToken(token *oauth2.Token) *config.Credentials {
	creds := &config.Credentials{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		ExpiresAt:    token.Expiry,
	}
	if id, ok := token.Extra("id_token").(string); ok {
		creds.IDToken = id
	}
	return creds
}

// tokenExpiry reads the exp claim of a JWT without verifying it. The chat
// service verifies signatures; the client only needs to know when to
// refresh.
func tokenExpiry(raw string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
