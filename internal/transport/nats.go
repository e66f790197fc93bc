package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/raphaelgruber/chatsync-go/internal/models"
)

// subjectPrefix is the subject hierarchy messages are published under, one
// subject per conversation.
const subjectPrefix = "chat.messages"

// NATS is a Subscriber backed by a JetStream consumer per conversation.
// Consumers are ephemeral with no acks; the client only wants deliveries
// from the moment of subscription onward.
type NATS struct {
	url    string
	stream string
	logger *slog.Logger

	mu        sync.Mutex
	nc        *nats.Conn
	js        jetstream.JetStream
	ctx       context.Context
	status    Status
	consumers map[string]jetstream.ConsumeContext

	msgs      chan models.Message
	done      chan struct{}
	closeOnce sync.Once
}

// NewNATS creates a NATS-backed subscriber. An empty url falls back to the
// default localhost NATS address.
func NewNATS(url, stream string, logger *slog.Logger) *NATS {
	if url == "" {
		url = nats.DefaultURL
	}
	if stream == "" {
		stream = "CHAT_MESSAGES"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NATS{
		url:       url,
		stream:    stream,
		logger:    logger,
		status:    StatusDisconnected,
		consumers: make(map[string]jetstream.ConsumeContext),
		msgs:      make(chan models.Message, 256),
		done:      make(chan struct{}),
	}
}

// Connect establishes the NATS connection and JetStream context.
func (n *NATS) Connect(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.nc != nil {
		return nil
	}
	n.status = StatusConnecting

	nc, err := nats.Connect(n.url)
	if err != nil {
		n.status = StatusError
		return fmt.Errorf("connect to NATS: %w", err)
	}
	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		n.status = StatusError
		return fmt.Errorf("create jetstream context: %w", err)
	}

	n.nc = nc
	n.js = js
	n.ctx = ctx
	n.status = StatusConnected

	go func() {
		select {
		case <-ctx.Done():
			n.Close()
		case <-n.done:
		}
	}()
	return nil
}

// Subscribe starts consuming the conversation's subject. Subscribing twice
// is a no-op.
func (n *NATS) Subscribe(conversationID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.js == nil {
		return fmt.Errorf("not connected")
	}
	if _, ok := n.consumers[conversationID]; ok {
		return nil
	}

	subject := fmt.Sprintf("%s.%s", subjectPrefix, conversationID)
	cons, err := n.js.CreateOrUpdateConsumer(n.ctx, n.stream, jetstream.ConsumerConfig{
		FilterSubject: subject,
		DeliverPolicy: jetstream.DeliverNewPolicy,
		AckPolicy:     jetstream.AckNonePolicy,
	})
	if err != nil {
		return fmt.Errorf("create consumer for %q: %w", subject, err)
	}

	consumeCtx, err := cons.Consume(func(jsMsg jetstream.Msg) {
		var msg models.Message
		if err := json.Unmarshal(jsMsg.Data(), &msg); err != nil {
			n.logger.Warn("malformed NATS message dropped", "subject", jsMsg.Subject(), "error", err)
			return
		}
		if msg.Conversation == "" {
			msg.Conversation = conversationID
		}
		select {
		case n.msgs <- msg:
		case <-n.done:
		}
	})
	if err != nil {
		return fmt.Errorf("consume %q: %w", subject, err)
	}

	n.consumers[conversationID] = consumeCtx
	return nil
}

// Messages returns the inbound delivery channel. Consumer callbacks may
// still be in flight at Close, so the channel is left open; consumers should
// also watch their own context.
func (n *NATS) Messages() <-chan models.Message { return n.msgs }

// Status returns the current connection state.
func (n *NATS) Status() Status {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.status
}

// Close stops all consumers and drops the connection.
func (n *NATS) Close() error {
	n.closeOnce.Do(func() {
		close(n.done)
		n.mu.Lock()
		for id, cons := range n.consumers {
			cons.Stop()
			delete(n.consumers, id)
		}
		if n.nc != nil {
			n.nc.Close()
			n.nc = nil
			n.js = nil
		}
		n.status = StatusDisconnected
		n.mu.Unlock()
	})
	return nil
}
