// Package chat implements the chat session controller: it turns visitor
// input into at most one outbound request per turn, records the
// conversation and gates access on the identity provider's session.
package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aufaim/portfoliochat/internal/api"
	"github.com/aufaim/portfoliochat/internal/auth"
	apierrors "github.com/aufaim/portfoliochat/internal/errors"
	"github.com/aufaim/portfoliochat/internal/logging"
	"github.com/aufaim/portfoliochat/internal/models"
)

// Renderer is the UI surface driven by the controller. Implementations
// must not block and must not call back into the Controller.
type Renderer interface {
	AppendMessage(msg models.Message)
	SetInputEnabled(enabled bool)
	ShowTyping()
	HideTyping()
	ClearInput()
	FocusInput()
	SetPanelVisible(visible bool)
}

// Outcome describes how a submission ended
type Outcome int

const (
	// OutcomeDropped: another request was in flight
	OutcomeDropped Outcome = iota
	// OutcomeEmpty: the query was blank
	OutcomeEmpty
	// OutcomeLoginRequired: the visitor was sent to log in, no request made
	OutcomeLoginRequired
	// OutcomeReplied: the service answered
	OutcomeReplied
	// OutcomeFailed: the request failed and an error message was logged
	OutcomeFailed
	// OutcomeClosed: the session has ended
	OutcomeClosed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDropped:
		return "dropped"
	case OutcomeEmpty:
		return "empty"
	case OutcomeLoginRequired:
		return "login_required"
	case OutcomeReplied:
		return "replied"
	case OutcomeFailed:
		return "failed"
	case OutcomeClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// State is a snapshot of the session flags
type State struct {
	Authenticated bool
	Sending       bool
	Greeted       bool
	PanelOpen     bool
}

// Options configures a Controller
type Options struct {
	API      api.ChatAPI
	Auth     auth.Provider
	Renderer Renderer
	// NResults is sent with every request; defaults to models.DefaultNResults
	NResults int
	// LoginOptions are passed to every login redirect
	LoginOptions auth.LoginOptions
	Logger       *zap.Logger
	Now          func() time.Time
}

// Controller owns the message log and session state of one chat session
type Controller struct {
	api       api.ChatAPI
	auth      auth.Provider
	renderer  Renderer
	nResults  int
	loginOpts auth.LoginOptions
	logger    *zap.Logger
	now       func() time.Time
	id        string

	mu       sync.Mutex
	state    State
	messages []models.Message
	closed   bool
	lastErr  error
}

// New creates a controller. API is required; a nil Auth means anonymous
// access and a nil Renderer discards UI updates.
func New(opts Options) *Controller {
	if opts.NResults <= 0 {
		opts.NResults = models.DefaultNResults
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Auth == nil {
		opts.Auth = auth.Anonymous{}
	}
	if opts.Renderer == nil {
		opts.Renderer = nopRenderer{}
	}

	id := uuid.NewString()
	return &Controller{
		api:       opts.API,
		auth:      opts.Auth,
		renderer:  opts.Renderer,
		nResults:  opts.NResults,
		loginOpts: opts.LoginOptions,
		logger:    logging.OrNop(opts.Logger).With(zap.String("session", id)),
		now:       opts.Now,
		id:        id,
	}
}

// ID returns the session identifier used in logs
func (c *Controller) ID() string {
	return c.id
}

// Start completes a login redirect that may be in flight and reads the
// provider's session state. It is the page-load step of a session.
func (c *Controller) Start(ctx context.Context) {
	if err := c.auth.HandleRedirectCallback(ctx); err != nil {
		c.logger.Warn("login redirect failed", zap.Error(err))
		c.append(models.AuthorSystem, "Login failed: "+err.Error())
	}
	c.refreshAuth(ctx)
}

func (c *Controller) refreshAuth(ctx context.Context) bool {
	authenticated := c.auth.IsAuthenticated(ctx)

	c.mu.Lock()
	c.state.Authenticated = authenticated
	c.mu.Unlock()

	c.logger.Debug("auth state", zap.Bool("authenticated", authenticated))
	return authenticated
}

// TogglePanel shows or hides the chat panel and returns the new
// visibility. The first time the panel opens the visitor is greeted.
func (c *Controller) TogglePanel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.PanelOpen = !c.state.PanelOpen
	open := c.state.PanelOpen
	c.renderer.SetPanelVisible(open)
	if !open {
		return false
	}

	if !c.state.Greeted {
		greeting := models.GreetingAnonymous
		if c.state.Authenticated {
			greeting = models.GreetingAuthenticated
		}
		c.appendLocked(models.AuthorBot, greeting)
		c.state.Greeted = true
	}
	c.renderer.FocusInput()
	return true
}

// Submit sends query to the chat service. At most one submission is in
// flight at a time; others are dropped. The call blocks until the reply
// or failure has been appended to the log.
func (c *Controller) Submit(ctx context.Context, query string) Outcome {
	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return OutcomeClosed
	case c.state.Sending:
		c.mu.Unlock()
		c.logger.Debug("submission dropped, request in flight")
		return OutcomeDropped
	}

	query = strings.TrimSpace(query)
	if query == "" {
		c.mu.Unlock()
		return OutcomeEmpty
	}

	c.state.Sending = true
	c.lastErr = nil
	authenticated := c.state.Authenticated
	c.mu.Unlock()
	defer c.release()

	// The log gets the prompt only; a redirect that cannot start is
	// reported through LastError.
	if !authenticated {
		c.append(models.AuthorSystem, models.LoginPrompt)
		if err := c.auth.LoginWithRedirect(ctx, c.loginOpts); err != nil {
			c.logger.Warn("login redirect could not start", zap.Error(err))
			c.setLastErr(err)
		}
		return OutcomeLoginRequired
	}

	c.mu.Lock()
	c.appendLocked(models.AuthorUser, query)
	c.renderer.ClearInput()
	c.renderer.SetInputEnabled(false)
	c.renderer.ShowTyping()
	c.mu.Unlock()

	// The service decides whether a request without a credential is
	// acceptable.
	token, err := c.auth.GetTokenSilently(ctx)
	if err != nil {
		c.logger.Debug("no credential for request", zap.Error(err))
		token = ""
	}

	start := c.now()
	reply, err := c.api.Ask(ctx, models.ChatRequest{Query: query, NResults: c.nResults}, token)
	if err != nil {
		c.logger.Warn("chat request failed",
			zap.Error(err),
			zap.Int("status", apierrors.GetHTTPStatus(err)),
			zap.Duration("elapsed", c.now().Sub(start)),
		)
		if apierrors.IsAuthError(err) && c.canLogin() {
			c.mu.Lock()
			c.state.Authenticated = false
			c.mu.Unlock()
		}
		c.setLastErr(err)
		c.append(models.AuthorBot, apierrors.UserMessage(err))
		return OutcomeFailed
	}

	text := models.FallbackReply
	if reply != nil && strings.TrimSpace(reply.Text) != "" {
		text = reply.Text
	}
	c.append(models.AuthorBot, text)
	c.logger.Debug("chat reply received", zap.Duration("elapsed", c.now().Sub(start)))
	return OutcomeReplied
}

// LastError returns the error behind the latest submission: the failed
// chat request, or the login redirect that could not start. It is nil
// after a reply.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Controller) setLastErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = err
}

// canLogin is false for anonymous sessions, which stay authenticated
func (c *Controller) canLogin() bool {
	_, anonymous := c.auth.(auth.Anonymous)
	return !anonymous
}

// release returns the session to the ready state after a submission
func (c *Controller) release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.renderer.HideTyping()
	c.renderer.SetInputEnabled(true)
	c.renderer.FocusInput()
	c.state.Sending = false
}

// Login starts a login redirect on the visitor's request
func (c *Controller) Login(ctx context.Context) error {
	c.append(models.AuthorSystem, models.LoginPrompt)
	if err := c.auth.LoginWithRedirect(ctx, c.loginOpts); err != nil {
		c.logger.Warn("login redirect could not start", zap.Error(err))
		c.append(models.AuthorSystem, apierrors.UserMessage(err))
		return err
	}
	return nil
}

// CompleteLogin waits for the redirect of a pending login and updates the
// session state
func (c *Controller) CompleteLogin(ctx context.Context) error {
	err := c.auth.HandleRedirectCallback(ctx)
	if err != nil {
		c.logger.Warn("login redirect failed", zap.Error(err))
		c.append(models.AuthorSystem, "Login failed: "+err.Error())
	}

	if c.refreshAuth(ctx) && err == nil {
		c.append(models.AuthorSystem, models.LoginCompleted)
	}
	return err
}

// Logout ends the provider session
func (c *Controller) Logout(ctx context.Context) error {
	if err := c.auth.Logout(ctx); err != nil {
		c.logger.Warn("logout failed", zap.Error(err))
		c.append(models.AuthorSystem, apierrors.UserMessage(err))
		return err
	}
	c.refreshAuth(ctx)
	c.append(models.AuthorSystem, models.LogoutCompleted)
	return nil
}

// Messages returns a copy of the message log
func (c *Controller) Messages() []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// LastReply returns the most recent bot message
func (c *Controller) LastReply() (models.Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Author == models.AuthorBot {
			return c.messages[i], true
		}
	}
	return models.Message{}, false
}

// State returns a snapshot of the session flags
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Close ends the session. Later submissions return OutcomeClosed; a
// request already in flight runs to completion.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *Controller) append(author models.Author, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.appendLocked(author, text)
}

func (c *Controller) appendLocked(author models.Author, text string) {
	msg := models.NewMessage(author, text, c.now())
	c.messages = append(c.messages, msg)
	c.renderer.AppendMessage(msg)
}

type nopRenderer struct{}

func (nopRenderer) AppendMessage(models.Message) {}
func (nopRenderer) SetInputEnabled(bool)         {}
func (nopRenderer) ShowTyping()                  {}
func (nopRenderer) HideTyping()                  {}
func (nopRenderer) ClearInput()                  {}
func (nopRenderer) FocusInput()                  {}
func (nopRenderer) SetPanelVisible(bool)         {}
