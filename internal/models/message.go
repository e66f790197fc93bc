// Package models defines data structures for the chat reconciliation core.
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// tempIDPrefix marks client-generated ids on the wire. In memory the
// distinction is carried by the MessageID tag, never by prefix sniffing.
const tempIDPrefix = "temp-"

// MessageID identifies a message. It is either temporary (client-generated
// for an optimistic send, not yet confirmed) or permanent (server-assigned).
// The zero value means "no id yet".
type MessageID struct {
	value     string
	temporary bool
}

// TemporaryID wraps a client-generated token as a temporary id.
func TemporaryID(token string) MessageID {
	return MessageID{value: token, temporary: true}
}

// PermanentID wraps a server-assigned id.
func PermanentID(serverID string) MessageID {
	return MessageID{value: serverID}
}

// NewTemporaryID generates a fresh temporary id for an optimistic send.
func NewTemporaryID() MessageID {
	return TemporaryID(uuid.NewString())
}

// ParseMessageID converts the wire form back into a tagged id.
func ParseMessageID(s string) MessageID {
	if token, ok := strings.CutPrefix(s, tempIDPrefix); ok {
		return TemporaryID(token)
	}
	return MessageID{value: s}
}

// IsZero reports whether no id has been assigned at all.
func (id MessageID) IsZero() bool { return id.value == "" }

// IsTemporary reports whether the id is a client-generated placeholder.
func (id MessageID) IsTemporary() bool { return id.temporary }

// IsPermanent reports whether the id is server-assigned.
func (id MessageID) IsPermanent() bool { return !id.temporary && id.value != "" }

// String returns the wire form: temporary ids carry the "temp-" prefix.
func (id MessageID) String() string {
	if id.temporary {
		return tempIDPrefix + id.value
	}
	return id.value
}

// MarshalJSON encodes the id in its wire form.
func (id MessageID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// UnmarshalJSON decodes the wire form, tagging "temp-"-prefixed ids.
func (id *MessageID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("unmarshal message id: %w", err)
	}
	*id = ParseMessageID(s)
	return nil
}

// Message represents a single chat message within a conversation.
// CreatedAt may be zero on a freshly created optimistic message; the client
// normally stamps it at creation time.
type Message struct {
	ID           MessageID `json:"id,omitzero"`
	Conversation string    `json:"chatViewId,omitempty"`
	Text         string    `json:"text"`
	SenderID     string    `json:"senderUid"`
	SenderName   string    `json:"senderName"`
	CreatedAt    time.Time `json:"createdAt,omitzero"`
}

// UnmarshalJSON accepts createdAt as an ISO-8601 string, unix seconds, or
// null, matching what the backend and push channel actually emit.
func (m *Message) UnmarshalJSON(data []byte) error {
	type alias Message
	aux := struct {
		*alias
		CreatedAt json.RawMessage `json:"createdAt"`
	}{alias: (*alias)(m)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	t, err := parseTimestamp(aux.CreatedAt)
	if err != nil {
		return fmt.Errorf("unmarshal message createdAt: %w", err)
	}
	m.CreatedAt = t
	return nil
}

func parseTimestamp(raw json.RawMessage) (time.Time, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return time.Time{}, nil
	}
	if strings.HasPrefix(s, `"`) {
		var iso string
		if err := json.Unmarshal(raw, &iso); err != nil {
			return time.Time{}, err
		}
		if iso == "" {
			return time.Time{}, nil
		}
		return time.Parse(time.RFC3339, iso)
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(0, int64(secs*float64(time.Second))).UTC(), nil
}
