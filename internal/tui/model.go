package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/aufaim/portfoliochat/internal/api"
	"github.com/aufaim/portfoliochat/internal/auth"
	"github.com/aufaim/portfoliochat/internal/chat"
	"github.com/aufaim/portfoliochat/internal/config"
	"github.com/aufaim/portfoliochat/internal/logging"
	"github.com/aufaim/portfoliochat/internal/models"
	"github.com/aufaim/portfoliochat/internal/render"
)

// DefaultLoginTimeout bounds the wait for the browser redirect
const DefaultLoginTimeout = 5 * time.Minute

// wideLayout is the minimum width for showing cards and chat side by side
const wideLayout = 100

// Message types for the TUI
type (
	startedMsg        struct{}
	projectsLoadedMsg struct {
		projects []models.Project
		err      error
	}
	submitDoneMsg struct {
		outcome chat.Outcome
	}
	loginStartedMsg struct{}
	loginDoneMsg    struct {
		err error
	}
	feedbackMsg string
)

// Options wires the TUI to its collaborators
type Options struct {
	Chat         api.ChatAPI
	Auth         auth.Provider
	Projects     api.ProjectsAPI
	NResults     int
	LoginOptions auth.LoginOptions
	// PendingLoginURL returns the URL of a login in flight, if any
	PendingLoginURL func() string
	Markdown        config.MarkdownConfig
	LoginTimeout    time.Duration
	Logger          *zap.Logger
}

// Model represents the TUI state
type Model struct {
	ctx             context.Context
	ctrl            *chat.Controller
	view            *viewState
	projects        api.ProjectsAPI
	pendingLoginURL func() string
	markdown        config.MarkdownConfig
	loginTimeout    time.Duration
	logger          *zap.Logger
	replies         *replyCache

	// UI components
	projectsVP viewport.Model
	chatVP     viewport.Model
	textarea   textarea.Model
	spinner    spinner.Model

	// State mirrored from the controller
	messages     []models.Message
	typing       bool
	inputEnabled bool
	panelOpen    bool
	session      chat.State

	projectList     []models.Project
	projectsErr     error
	projectsLoading bool
	awaitingLogin   bool
	feedback        string
	// started is set once the session knows its auth state
	started bool

	ready  bool
	width  int
	height int
}

// NewModel creates the TUI model and the chat controller it drives
func NewModel(ctx context.Context, opts Options) Model {
	logger := logging.OrNop(opts.Logger)
	view := newViewState()

	ctrl := chat.New(chat.Options{
		API:          opts.Chat,
		Auth:         opts.Auth,
		Renderer:     view,
		NResults:     opts.NResults,
		LoginOptions: opts.LoginOptions,
		Logger:       logger,
	})

	ta := textarea.New()
	ta.Placeholder = "Ask about the projects..."
	ta.CharLimit = 2000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = typingStyle

	timeout := opts.LoginTimeout
	if timeout <= 0 {
		timeout = DefaultLoginTimeout
	}

	return Model{
		ctx:             ctx,
		ctrl:            ctrl,
		view:            view,
		projects:        opts.Projects,
		pendingLoginURL: opts.PendingLoginURL,
		markdown:        opts.Markdown,
		loginTimeout:    timeout,
		logger:          logger,
		replies:         newReplyCache(),
		projectsVP:      viewport.New(0, 0),
		chatVP:          viewport.New(0, 0),
		textarea:        ta,
		spinner:         s,
		inputEnabled:    true,
		projectsLoading: opts.Projects != nil,
	}
}

const startingFeedback = "Starting session..."

// Controller returns the chat controller driven by the model
func (m Model) Controller() *chat.Controller {
	return m.ctrl
}

// Init starts the session and loads the project list
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.view.wait(),
		m.start(),
		m.loadProjects(),
	)
}

func (m Model) start() tea.Cmd {
	return func() tea.Msg {
		m.ctrl.Start(m.ctx)
		return startedMsg{}
	}
}

func (m Model) loadProjects() tea.Cmd {
	if m.projects == nil {
		return nil
	}
	return func() tea.Msg {
		projects, err := m.projects.FetchProjects(m.ctx)
		return projectsLoadedMsg{projects: projects, err: err}
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case stateChangedMsg:
		cmd = m.sync()
		return m, tea.Batch(cmd, m.view.wait())

	case startedMsg:
		m.started = true
		m.session = m.ctrl.State()
		if m.feedback == startingFeedback {
			m.feedback = ""
		}

	case projectsLoadedMsg:
		m.projectsLoading = false
		m.projectList = msg.projects
		m.projectsErr = msg.err
		if msg.err != nil {
			m.logger.Warn("failed to load projects", zap.Error(msg.err))
		}
		m.refreshProjects()

	case submitDoneMsg:
		m.session = m.ctrl.State()
		switch msg.outcome {
		case chat.OutcomeLoginRequired:
			if err := m.ctrl.LastError(); err != nil {
				m.feedback = "Login unavailable: " + err.Error()
				break
			}
			return m.beginAwaitLogin()
		case chat.OutcomeDropped:
			m.feedback = "Still waiting for the previous reply"
		default:
			m.feedback = ""
		}

	case loginStartedMsg:
		return m.beginAwaitLogin()

	case loginDoneMsg:
		m.awaitingLogin = false
		m.session = m.ctrl.State()
		switch {
		case msg.err != nil:
			m.feedback = "Login did not complete"
		case m.session.Authenticated:
			m.feedback = "Logged in"
		default:
			m.feedback = ""
		}

	case feedbackMsg:
		m.feedback = string(msg)
		m.session = m.ctrl.State()

	case spinner.TickMsg:
		if m.typing {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.MouseMsg:
		if m.panelOpen {
			m.chatVP, cmd = m.chatVP.Update(msg)
		} else {
			m.projectsVP, cmd = m.projectsVP.Update(msg)
		}
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "ctrl+c":
		return m, m.quit()

	case "tab", "ctrl+t":
		if !m.started {
			m.feedback = startingFeedback
			return m, nil
		}
		m.ctrl.TogglePanel()
		cmd = m.sync()
		m.layout()
		return m, cmd

	case "esc":
		if m.panelOpen {
			m.ctrl.TogglePanel()
			cmd = m.sync()
			m.layout()
			return m, cmd
		}
		return m, m.quit()

	case "enter":
		if m.panelOpen {
			return m.handleEnter()
		}
	}

	if !m.panelOpen {
		if msg.String() == "q" {
			return m, m.quit()
		}
		m.projectsVP, cmd = m.projectsVP.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		m.chatVP, cmd = m.chatVP.Update(msg)
		return m, cmd
	}

	if m.inputEnabled {
		m.textarea, cmd = m.textarea.Update(msg)
	}
	return m, cmd
}

func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := m.textarea.Value()
	if cmdLine := strings.TrimSpace(input); strings.HasPrefix(cmdLine, "/") {
		m.textarea.Reset()
		return m.runSlashCommand(cmdLine)
	}
	m.feedback = ""
	return m, m.submit(input)
}

// submit runs one controller submission off the UI loop
func (m Model) submit(input string) tea.Cmd {
	return func() tea.Msg {
		return submitDoneMsg{outcome: m.ctrl.Submit(m.ctx, input)}
	}
}

// beginAwaitLogin waits for the login redirect unless already waiting
func (m Model) beginAwaitLogin() (tea.Model, tea.Cmd) {
	m.feedback = m.loginFeedback()
	if m.awaitingLogin {
		return m, nil
	}
	m.awaitingLogin = true

	ctrl, timeout, parent := m.ctrl, m.loginTimeout, m.ctx
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		return loginDoneMsg{err: ctrl.CompleteLogin(ctx)}
	}
}

func (m Model) loginFeedback() string {
	if m.pendingLoginURL != nil {
		if u := m.pendingLoginURL(); u != "" {
			return "Finish logging in at " + u
		}
	}
	return "Waiting for login in the browser"
}

func (m Model) quit() tea.Cmd {
	m.close()
	return tea.Quit
}

func (m Model) close() {
	m.ctrl.Close()
	m.view.close()
}

// sync pulls the controller's view of the session into the model
func (m *Model) sync() tea.Cmd {
	snap := m.view.take()
	wasTyping := m.typing

	m.messages = snap.messages
	m.typing = snap.typing
	m.inputEnabled = snap.inputEnabled
	m.panelOpen = snap.panelVisible
	m.session = m.ctrl.State()

	var cmds []tea.Cmd
	if snap.clearInput {
		m.textarea.Reset()
	}
	if !m.inputEnabled || !m.panelOpen {
		m.textarea.Blur()
	} else if snap.focusInput {
		cmds = append(cmds, m.textarea.Focus())
	}
	if m.typing && !wasTyping {
		cmds = append(cmds, m.spinner.Tick)
	}

	m.refreshChat()
	return tea.Batch(cmds...)
}

// paneWidths returns the widths of the project pane and the chat panel;
// zero means the pane is hidden
func (m Model) paneWidths() (projects, chatPanel int) {
	if !m.panelOpen {
		return m.width, 0
	}
	if m.width < wideLayout {
		return 0, m.width
	}
	projects = m.width * 45 / 100
	return projects, m.width - projects
}

func (m Model) bodyHeight() int {
	// header (3) and status bar (1)
	h := m.height - 4
	if h < 6 {
		h = 6
	}
	return h
}

func (m *Model) layout() {
	if !m.ready {
		return
	}
	pw, cw := m.paneWidths()
	body := m.bodyHeight()

	if pw > 0 {
		m.projectsVP.Width = pw - 2
		m.projectsVP.Height = body
	}
	if cw > 0 {
		// chat border (2), input panel (4)
		vpHeight := body - 6
		if vpHeight < 3 {
			vpHeight = 3
		}
		m.chatVP.Width = cw - 4
		m.chatVP.Height = vpHeight
		m.textarea.SetWidth(cw - 6)
	}

	m.refreshProjects()
	m.refreshChat()
}

func (m *Model) refreshProjects() {
	width := m.projectsVP.Width
	if width <= 0 {
		return
	}

	var content string
	switch {
	case m.projectsLoading:
		content = hintStyle.Render("Loading projects...")
	case m.projectsErr != nil:
		content = FormatError(m.projectsErr)
	default:
		content = render.ProjectCards(m.projectList, width)
	}
	m.projectsVP.SetContent(content)
}

func (m *Model) refreshChat() {
	if m.chatVP.Width <= 0 {
		return
	}
	m.chatVP.SetContent(m.renderMessages(m.chatVP.Width))
	m.chatVP.GotoBottom()
}

// renderMessages renders the chat log as labelled bubbles
func (m Model) renderMessages(width int) string {
	var content strings.Builder
	bubbleWidth := width - 6
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}

	for i, msg := range m.messages {
		if i > 0 {
			content.WriteString("\n")
		}

		switch msg.Author {
		case models.AuthorUser:
			label := userLabelStyle.Render("● You")
			bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.Text)
			content.WriteString(label + "\n" + bubble)

		case models.AuthorBot:
			label := assistantLabelStyle.Render("✦ Assistant")
			rendered := m.replies.get(i, bubbleWidth-4, func() string {
				return render.Reply(msg.Text, render.OptionsFromConfig(m.markdown, bubbleWidth-4))
			})
			bubble := assistantBubbleStyle.Width(bubbleWidth).Render(rendered)
			content.WriteString(label + "\n" + bubble)

		default:
			content.WriteString(systemLineStyle.Width(width).Render("› " + msg.Text))
		}
		content.WriteString("\n")
	}

	return content.String()
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return typingStyle.Render("  Initializing...")
	}

	pw, cw := m.paneWidths()
	body := m.bodyHeight()

	var panes []string
	if pw > 0 {
		panes = append(panes, projectsPaneStyle.Width(pw).Height(body).Render(m.projectsVP.View()))
	}
	if cw > 0 {
		panes = append(panes, m.renderChatPanel(cw))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		lipgloss.JoinHorizontal(lipgloss.Top, panes...),
		m.renderStatusBar(),
	)
}

func (m Model) renderHeader() string {
	auth := authOffStyle.Render("○ logged out")
	if m.session.Authenticated {
		auth = authOnStyle.Render("● ready")
	}

	content := lipgloss.JoinHorizontal(
		lipgloss.Center,
		titleStyle.Render("✦ aufaim"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(fmt.Sprintf("%d projects", len(m.projectList))),
		hintStyle.Render("  •  "),
		auth,
	)
	return headerStyle.Width(m.width - 2).Render(content)
}

func (m Model) renderChatPanel(width int) string {
	log := chatPaneStyle.
		Width(width - 2).
		Height(m.chatVP.Height).
		Render(m.chatVP.View())

	var input string
	if m.typing {
		input = m.spinner.View() + " " + typingStyle.Render(models.TypingLabel)
	} else {
		input = lipgloss.JoinHorizontal(
			lipgloss.Top,
			inputLabelStyle.Render("›"),
			m.textarea.View(),
		)
	}
	inputPanel := inputPanelStyle.Width(width - 2).Render(input)

	return lipgloss.JoinVertical(lipgloss.Left, log, inputPanel)
}

type shortcut struct {
	key  string
	desc string
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar() string {
	shortcuts := []shortcut{
		{"Tab", "Chat"},
		{"Esc", "Close/Quit"},
	}
	if m.panelOpen {
		shortcuts = append(shortcuts, shortcut{"Enter", "Send"}, shortcut{"/help", "Commands"})
	} else {
		shortcuts = append(shortcuts, shortcut{"↑↓", "Scroll"})
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}
	bar := strings.Join(items, "  │  ")

	if m.feedback != "" {
		bar = feedbackStyle.Render(m.feedback) + "  " + bar
	}
	return statusBarStyle.Width(m.width).Render(bar)
}

// Run starts the interactive TUI and blocks until it exits
func Run(ctx context.Context, opts Options) error {
	m := NewModel(ctx, opts)
	defer m.close()

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}
