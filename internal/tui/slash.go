package tui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aufaim/portfoliochat/internal/history"
)

const slashHelp = "/login  /logout  /save <file.md|file.json>  /copy  /quit"

// runSlashCommand handles a line starting with "/"
func (m Model) runSlashCommand(line string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]

	ctrl, ctx := m.ctrl, m.ctx

	switch name {
	case "/quit", "/exit":
		return m, m.quit()

	case "/help":
		m.feedback = slashHelp
		return m, nil

	case "/login":
		if m.session.Authenticated && !m.awaitingLogin {
			m.feedback = "Already logged in"
			return m, nil
		}
		return m, func() tea.Msg {
			if err := ctrl.Login(ctx); err != nil {
				return feedbackMsg("Login unavailable")
			}
			return loginStartedMsg{}
		}

	case "/logout":
		return m, func() tea.Msg {
			if err := ctrl.Logout(ctx); err != nil {
				return feedbackMsg("Logout failed")
			}
			return feedbackMsg("Logged out")
		}

	case "/save":
		if len(args) == 0 {
			m.feedback = "Usage: /save <file.md|file.json>"
			return m, nil
		}
		path := strings.Join(args, " ")
		return m, func() tea.Msg {
			opts := history.DefaultExportOptions()
			opts.SessionID = ctrl.ID()
			if err := history.SaveToFile(path, ctrl.Messages(), opts); err != nil {
				return feedbackMsg(fmt.Sprintf("Save failed: %v", err))
			}
			return feedbackMsg("Transcript saved to " + path)
		}

	case "/copy":
		reply, ok := ctrl.LastReply()
		if !ok {
			m.feedback = "Nothing to copy yet"
			return m, nil
		}
		if err := clipboard.WriteAll(reply.Text); err != nil {
			m.feedback = "Clipboard unavailable"
			return m, nil
		}
		m.feedback = "Last reply copied"
		return m, nil

	default:
		m.feedback = fmt.Sprintf("Unknown command %s (try /help)", name)
		return m, nil
	}
}

// replyCache keeps rendered bot replies. Messages never change once
// appended, so the log index and width identify a rendering.
type replyCache struct {
	mu      sync.Mutex
	entries map[replyKey]string
}

type replyKey struct {
	index int
	width int
}

func newReplyCache() *replyCache {
	return &replyCache{entries: make(map[replyKey]string)}
}

func (c *replyCache) get(index, width int, renderFn func() string) string {
	key := replyKey{index: index, width: width}

	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.entries[key]; ok {
		return s
	}
	s := renderFn()
	c.entries[key] = s
	return s
}
