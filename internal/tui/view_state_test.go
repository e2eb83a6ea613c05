package tui

import (
	"testing"
	"time"

	"github.com/aufaim/portfoliochat/internal/models"
)

func TestViewState_CoalescesNotifications(t *testing.T) {
	v := newViewState()
	defer v.close()

	for i := 0; i < 10; i++ {
		v.AppendMessage(models.NewMessage(models.AuthorBot, "x", time.Now()))
	}
	if len(v.notify) != 1 {
		t.Errorf("pending notifications = %d, want 1", len(v.notify))
	}

	if _, ok := v.wait()().(stateChangedMsg); !ok {
		t.Error("wait should report the change")
	}
	if len(v.notify) != 0 {
		t.Error("notification should be consumed")
	}
	if n := len(v.take().messages); n != 10 {
		t.Errorf("messages = %d", n)
	}
}

func TestViewState_TakeResetsInputRequests(t *testing.T) {
	v := newViewState()
	defer v.close()

	v.ClearInput()
	v.FocusInput()
	v.SetInputEnabled(false)
	v.ShowTyping()
	v.SetPanelVisible(true)

	snap := v.take()
	if !snap.clearInput || !snap.focusInput || snap.inputEnabled || !snap.typing || !snap.panelVisible {
		t.Errorf("snapshot = %+v", snap)
	}

	snap = v.take()
	if snap.clearInput || snap.focusInput {
		t.Error("one-shot requests should be reset after take")
	}
	if !snap.typing || !snap.panelVisible {
		t.Error("persistent state should survive take")
	}

	v.HideTyping()
	if v.take().typing {
		t.Error("typing should be hidden")
	}
}

func TestViewState_WaitAfterClose(t *testing.T) {
	v := newViewState()
	v.close()
	v.close()

	if msg := v.wait()(); msg != nil {
		t.Errorf("wait after close = %#v, want nil", msg)
	}
}

func TestViewState_SnapshotIsCopy(t *testing.T) {
	v := newViewState()
	defer v.close()

	v.AppendMessage(models.NewMessage(models.AuthorUser, "a", time.Now()))
	snap := v.take()
	snap.messages[0].Text = "changed"

	if v.take().messages[0].Text != "a" {
		t.Error("take must copy the message slice")
	}
}
