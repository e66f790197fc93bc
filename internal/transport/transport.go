// Package transport defines the contract the reconciliation engine requires
// from the real-time push channel, and provides WebSocket and NATS backed
// implementations. The channel's own reconnection handshake is its own
// concern; the engine only sees a stream of inbound messages tagged with
// their conversation id.
package transport

import (
	"context"

	"github.com/raphaelgruber/chatsync-go/internal/models"
)

// Status describes the connection state of a subscriber.
type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
	StatusError        Status = "error"
)

// Subscriber is the push channel the engine consumes. Subscribe registers
// interest in one conversation; deliveries for all subscribed conversations
// arrive on the Messages channel until Close. The channel is closed when the
// underlying connection is gone.
type Subscriber interface {
	Connect(ctx context.Context) error
	Subscribe(conversationID string) error
	Messages() <-chan models.Message
	Status() Status
	Close() error
}
