package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aufaim/portfoliochat/internal/chat"
	"github.com/aufaim/portfoliochat/internal/models"
)

// stateChangedMsg tells the model to pull a fresh viewSnapshot
type stateChangedMsg struct{}

// viewState is the chat.Renderer handed to the controller. The controller
// runs outside the bubbletea loop, so updates are recorded here and the
// loop is woken through notify, which holds at most one pending signal.
type viewState struct {
	mu           sync.Mutex
	messages     []models.Message
	inputEnabled bool
	typing       bool
	panelVisible bool
	clearInput   bool
	focusInput   bool

	notify chan struct{}
	done   chan struct{}
	once   sync.Once
}

// viewSnapshot is a copy of viewState taken by the model
type viewSnapshot struct {
	messages     []models.Message
	inputEnabled bool
	typing       bool
	panelVisible bool
	clearInput   bool
	focusInput   bool
}

var _ chat.Renderer = (*viewState)(nil)

func newViewState() *viewState {
	return &viewState{
		inputEnabled: true,
		notify:       make(chan struct{}, 1),
		done:         make(chan struct{}),
	}
}

func (v *viewState) update(fn func()) {
	v.mu.Lock()
	fn()
	v.mu.Unlock()

	select {
	case v.notify <- struct{}{}:
	default:
	}
}

func (v *viewState) AppendMessage(msg models.Message) {
	v.update(func() { v.messages = append(v.messages, msg) })
}

func (v *viewState) SetInputEnabled(enabled bool) {
	v.update(func() { v.inputEnabled = enabled })
}

func (v *viewState) ShowTyping() {
	v.update(func() { v.typing = true })
}

func (v *viewState) HideTyping() {
	v.update(func() { v.typing = false })
}

func (v *viewState) ClearInput() {
	v.update(func() { v.clearInput = true })
}

func (v *viewState) FocusInput() {
	v.update(func() { v.focusInput = true })
}

func (v *viewState) SetPanelVisible(visible bool) {
	v.update(func() { v.panelVisible = visible })
}

// take returns the current state and resets the one-shot input requests
func (v *viewState) take() viewSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	snap := viewSnapshot{
		messages:     append([]models.Message(nil), v.messages...),
		inputEnabled: v.inputEnabled,
		typing:       v.typing,
		panelVisible: v.panelVisible,
		clearInput:   v.clearInput,
		focusInput:   v.focusInput,
	}
	v.clearInput = false
	v.focusInput = false
	return snap
}

// wait blocks until the state changes or the view is closed
func (v *viewState) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-v.notify:
			return stateChangedMsg{}
		case <-v.done:
			return nil
		}
	}
}

func (v *viewState) close() {
	v.once.Do(func() { close(v.done) })
}
