package models

import "time"

// Title defaults. A conversation created before its metadata has arrived
// shows PlaceholderTitle until the bulk fetch reconciles it.
const (
	PlaceholderTitle = "Loading..."
	DefaultTitle     = "Untitled Chat"
)

// Conversation is one chat view: its messages, loading state and unread
// accounting. Messages are append-ordered by arrival, not chronologically;
// chronological presentation is a read-time concern.
type Conversation struct {
	ID                string
	Title             string
	Messages          []Message
	IsLoading         bool
	Error             string
	UnreadCount       int
	LastSeenTimestamp time.Time
}

// LastMessage returns the most recently appended message, or false if the
// conversation is empty.
func (c *Conversation) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// ConversationRecord is one entry of the bulk conversation-list fetch.
// LastMessage is a summary only; the full history comes from a separate
// per-conversation fetch.
type ConversationRecord struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	LastMessage *Message          `json:"lastMessage,omitempty"`
	UnreadCount int               `json:"unreadCount,omitempty"`
	UserAvatars map[string]string `json:"userAvatars,omitempty"`
}
