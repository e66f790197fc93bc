package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/raphaelgruber/chatsync-go/internal/models"
)

// Frame types on the websocket channel.
const (
	frameSubscribe = "subscribe"
	frameMessage   = "message"
	frameKeepAlive = "ka"
)

// wsFrame is one protocol frame on the websocket channel.
type wsFrame struct {
	Type       string          `json:"type"`
	ChatViewID string          `json:"chatViewId,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// WebSocket is a Subscriber backed by a single websocket connection with one
// subscribe frame per conversation. The read loop owns the delivery channel
// and closes it when the connection is gone.
type WebSocket struct {
	endpoint string
	logger   *slog.Logger

	mu         sync.Mutex
	conn       *websocket.Conn
	status     Status
	subscribed map[string]struct{}

	msgs      chan models.Message
	done      chan struct{}
	closeOnce sync.Once
}

// NewWebSocket creates a websocket subscriber for the given endpoint.
// http(s) schemes are rewritten to ws(s).
func NewWebSocket(endpoint string, logger *slog.Logger) *WebSocket {
	if logger == nil {
		logger = slog.Default()
	}
	endpoint = strings.Replace(endpoint, "http://", "ws://", 1)
	endpoint = strings.Replace(endpoint, "https://", "wss://", 1)
	return &WebSocket{
		endpoint:   endpoint,
		logger:     logger,
		status:     StatusDisconnected,
		subscribed: make(map[string]struct{}),
		msgs:       make(chan models.Message, 256),
		done:       make(chan struct{}),
	}
}

// Connect dials the endpoint and starts the read loop. Subscriptions
// registered before the dial are sent once connected. Cancelling ctx closes
// the connection.
func (w *WebSocket) Connect(ctx context.Context) error {
	w.mu.Lock()
	if w.conn != nil {
		w.mu.Unlock()
		return nil
	}
	select {
	case <-w.done:
		w.mu.Unlock()
		return fmt.Errorf("subscriber closed")
	default:
	}
	w.status = StatusConnecting
	w.mu.Unlock()

	u, err := url.Parse(w.endpoint)
	if err != nil {
		w.setStatus(StatusError)
		return fmt.Errorf("parse endpoint: %w", err)
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		w.setStatus(StatusError)
		return fmt.Errorf("websocket connect: %w", err)
	}

	w.mu.Lock()
	w.conn = conn
	w.status = StatusConnected
	pending := make([]string, 0, len(w.subscribed))
	for id := range w.subscribed {
		pending = append(pending, id)
	}
	w.mu.Unlock()

	for _, id := range pending {
		if err := w.writeSubscribe(id); err != nil {
			w.logger.Warn("subscribe replay failed", "conversation", id, "error", err)
		}
	}

	go func() {
		select {
		case <-ctx.Done():
			w.Close()
		case <-w.done:
		}
	}()
	go w.readLoop(ctx)

	return nil
}

// Subscribe registers interest in one conversation. Subscribing twice is a
// no-op. If not yet connected, the subscribe frame is sent on connect.
func (w *WebSocket) Subscribe(conversationID string) error {
	w.mu.Lock()
	if _, ok := w.subscribed[conversationID]; ok {
		w.mu.Unlock()
		return nil
	}
	w.subscribed[conversationID] = struct{}{}
	connected := w.conn != nil
	w.mu.Unlock()

	if !connected {
		return nil
	}
	return w.writeSubscribe(conversationID)
}

// Messages returns the inbound delivery channel. It is closed once the read
// loop stops.
func (w *WebSocket) Messages() <-chan models.Message { return w.msgs }

// Status returns the current connection state.
func (w *WebSocket) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Close tears down the connection. Safe to call more than once.
func (w *WebSocket) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.status = StatusDisconnected
		if w.conn != nil {
			err = w.conn.Close()
		}
		w.mu.Unlock()
		close(w.done)
	})
	return err
}

func (w *WebSocket) setStatus(st Status) {
	w.mu.Lock()
	w.status = st
	w.mu.Unlock()
}

// writeSubscribe serializes writes; gorilla allows one concurrent writer.
func (w *WebSocket) writeSubscribe(conversationID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn == nil {
		return nil
	}
	frame := wsFrame{Type: frameSubscribe, ChatViewID: conversationID}
	if err := w.conn.WriteJSON(frame); err != nil {
		return fmt.Errorf("send subscribe: %w", err)
	}
	return nil
}

func (w *WebSocket) readLoop(ctx context.Context) {
	defer close(w.msgs)

	w.mu.Lock()
	conn := w.conn
	w.mu.Unlock()
	if conn == nil {
		return
	}

	for {
		var frame wsFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if ctx.Err() == nil {
				select {
				case <-w.done:
				default:
					w.logger.Warn("websocket read failed", "error", err)
					w.setStatus(StatusError)
				}
			}
			w.Close()
			return
		}

		switch frame.Type {
		case frameMessage:
			var msg models.Message
			if err := json.Unmarshal(frame.Payload, &msg); err != nil {
				w.logger.Warn("malformed message frame dropped", "error", err)
				continue
			}
			if msg.Conversation == "" {
				msg.Conversation = frame.ChatViewID
			}
			select {
			case w.msgs <- msg:
			case <-w.done:
				return
			}
		case frameKeepAlive:
			continue
		default:
			continue
		}
	}
}
