package store

import (
	"testing"
	"time"

	"github.com/raphaelgruber/chatsync-go/internal/models"
)

func incoming(id string, at time.Time) models.Message {
	return models.Message{ID: models.PermanentID(id), SenderID: "other", Text: "msg " + id, CreatedAt: at}
}

func TestUnreadIncrementOnAppend(t *testing.T) {
	s := newTestStore()
	addConversation(s, "c1", "General")

	out := s.IntegrateIncomingMessage("c1", incoming("srv-1", t0))
	if !out.UnreadIncrement {
		t.Error("UnreadIncrement = false for unfocused append, want true")
	}
	conv, _ := s.Conversation("c1")
	if conv.UnreadCount != 1 {
		t.Errorf("UnreadCount = %d, want 1", conv.UnreadCount)
	}
}

func TestNoUnreadForDuplicatesOrPromotions(t *testing.T) {
	s := newTestStore()
	addConversation(s, "c1", "General")

	msg := incoming("srv-1", t0)
	s.IntegrateIncomingMessage("c1", msg)
	out := s.IntegrateIncomingMessage("c1", msg)
	if out.UnreadIncrement {
		t.Error("UnreadIncrement = true for duplicate")
	}

	temp := models.Message{ID: models.TemporaryID("t1"), SenderID: "me", Text: "mine", CreatedAt: t0}
	s.IntegrateIncomingMessage("c1", temp)
	before, _ := s.Conversation("c1")

	echo := models.Message{ID: models.PermanentID("srv-2"), SenderID: "me", Text: "mine", CreatedAt: t0.Add(time.Second)}
	out = s.IntegrateIncomingMessage("c1", echo)
	if out.Result != ResultPromoted {
		t.Fatalf("Result = %v, want ResultPromoted", out.Result)
	}
	if out.UnreadIncrement {
		t.Error("UnreadIncrement = true for promotion")
	}
	after, _ := s.Conversation("c1")
	if after.UnreadCount != before.UnreadCount {
		t.Errorf("UnreadCount changed on promotion: %d -> %d", before.UnreadCount, after.UnreadCount)
	}
}

func TestFocusSuppressesUnread(t *testing.T) {
	s := newTestStore()
	addConversation(s, "c1", "General")
	addConversation(s, "c2", "Random")

	s.Focus("c1")

	out := s.IntegrateIncomingMessage("c1", incoming("srv-1", t0))
	if out.UnreadIncrement {
		t.Error("UnreadIncrement = true for focused conversation")
	}
	conv, _ := s.Conversation("c1")
	if conv.UnreadCount != 0 {
		t.Errorf("focused UnreadCount = %d, want 0", conv.UnreadCount)
	}

	// Other conversations still accumulate unread while c1 is focused.
	out = s.IntegrateIncomingMessage("c2", incoming("srv-2", t0))
	if !out.UnreadIncrement {
		t.Error("UnreadIncrement = false for unfocused conversation")
	}
}

func TestFocusResetsUnread(t *testing.T) {
	s := newTestStore()
	addConversation(s, "c1", "General")

	s.IntegrateIncomingMessage("c1", incoming("srv-1", t0))
	s.IntegrateIncomingMessage("c1", incoming("srv-2", t0.Add(time.Second)))

	s.Focus("c1")
	conv, _ := s.Conversation("c1")
	if conv.UnreadCount != 0 {
		t.Errorf("UnreadCount = %d after focus, want 0", conv.UnreadCount)
	}
	if conv.LastSeenTimestamp.IsZero() {
		t.Error("LastSeenTimestamp not stamped on focus")
	}
}

func TestBlurOnlyClearsMatchingFocus(t *testing.T) {
	s := newTestStore()
	addConversation(s, "c1", "General")
	addConversation(s, "c2", "Random")

	// Rapid navigation: blur for the old conversation lands after the
	// focus event for the new one.
	s.Focus("c1")
	s.Focus("c2")
	s.Blur("c1")

	if id, ok := s.FocusedConversation(); !ok || id != "c2" {
		t.Errorf("FocusedConversation() = %q, %v; want c2, true", id, ok)
	}

	s.Blur("c2")
	if _, ok := s.FocusedConversation(); ok {
		t.Error("still focused after matching blur")
	}
}

func TestFocusUnknownConversationStillRecorded(t *testing.T) {
	s := newTestStore()
	s.Focus("ghost")
	if id, ok := s.FocusedConversation(); !ok || id != "ghost" {
		t.Errorf("FocusedConversation() = %q, %v; want ghost, true", id, ok)
	}
}
