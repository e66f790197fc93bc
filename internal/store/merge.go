package store

import "github.com/raphaelgruber/chatsync-go/internal/models"

// IntegrateResult describes what integrating one incoming message did.
type IntegrateResult int

const (
	// ResultNoConversation means the target conversation is unknown and the
	// message was dropped. Expected when a push races the bulk fetch.
	ResultNoConversation IntegrateResult = iota
	// ResultAppended means the message was new and appended.
	ResultAppended
	// ResultPromoted means an optimistic placeholder was replaced in place
	// by its server-confirmed form.
	ResultPromoted
	// ResultDuplicate means the message was already present and discarded.
	ResultDuplicate
)

// IntegrateOutcome reports the merge decision and whether the unread counter
// was bumped as a consequence.
type IntegrateOutcome struct {
	Result          IntegrateResult
	UnreadIncrement bool
}

// IntegrateIncomingMessage is the single entry point for optimistic sends,
// send acknowledgements and push deliveries. The merge is order-insensitive:
// whichever of {optimistic, ack, push} arrives first, the conversation ends
// up holding exactly one copy of the logical message.
//
// A genuinely new message bumps the unread counter unless the conversation
// is currently focused; the focus check and the increment share the store's
// critical section, so a focus change cannot slip between them.
func (s *Store) IntegrateIncomingMessage(id string, msg models.Message) IntegrateOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		id = msg.Conversation
	}
	conv, ok := s.conversations[id]
	if !ok {
		s.logger.Debug("message for unknown conversation dropped", "conversation", id)
		return IntegrateOutcome{Result: ResultNoConversation}
	}

	res := s.merge(conv, msg)
	out := IntegrateOutcome{Result: res}
	if res == ResultAppended && !(s.focused && s.focusID == id) {
		conv.UnreadCount++
		out.UnreadIncrement = true
	}
	return out
}

// merge applies the dedup rules to one conversation. Caller holds the lock.
func (s *Store) merge(conv *models.Conversation, msg models.Message) IntegrateResult {
	for i := range conv.Messages {
		if !models.SameMessage(conv.Messages[i], msg, s.window) {
			continue
		}
		if conv.Messages[i].ID.IsTemporary() && msg.ID.IsPermanent() {
			// Promote optimistic to confirmed without moving it, so the UI
			// does not reorder or flicker.
			conv.Messages[i] = msg
			return ResultPromoted
		}
		return ResultDuplicate
	}
	// Append-only; chronological ordering is resolved at read time.
	conv.Messages = append(conv.Messages, msg)
	return ResultAppended
}
