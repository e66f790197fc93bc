// Package engine wires the conversation store to the REST backend and the
// real-time push channel. It owns the reconciliation flow: bulk refresh,
// per-conversation history loads, optimistic sends with server confirmation,
// and integration of push deliveries.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/raphaelgruber/chatsync-go/internal/metrics"
	"github.com/raphaelgruber/chatsync-go/internal/models"
	"github.com/raphaelgruber/chatsync-go/internal/store"
	"github.com/raphaelgruber/chatsync-go/internal/transport"
)

// API is the REST surface the engine consumes.
type API interface {
	FetchAllConversations(ctx context.Context) ([]models.ConversationRecord, error)
	FetchConversationHistory(ctx context.Context, conversationID string) ([]models.Message, error)
	SendMessage(ctx context.Context, conversationID, text string) (models.Message, error)
}

// Identity is the local user, used to stamp optimistic sends.
type Identity struct {
	ID   string
	Name string
}

// Engine reconciles the store against the REST backend and the push channel.
type Engine struct {
	store    *store.Store
	api      API
	sub      transport.Subscriber
	notifier Notifier
	metrics  *metrics.Collector
	logger   *slog.Logger
	user     Identity
	now      func() time.Time
}

// New creates an engine. notifier may be nil for log-only notifications;
// collector may be nil to disable metrics.
func New(st *store.Store, api API, sub transport.Subscriber, user Identity, notifier Notifier, collector *metrics.Collector, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}
	if collector == nil {
		collector = metrics.NewCollector()
	}
	return &Engine{
		store:    st,
		api:      api,
		sub:      sub,
		notifier: notifier,
		metrics:  collector,
		logger:   logger,
		user:     user,
		now:      time.Now,
	}
}

// Store exposes the underlying store for read access.
func (e *Engine) Store() *store.Store { return e.store }

// Metrics exposes the engine's collector.
func (e *Engine) Metrics() *metrics.Collector { return e.metrics }

// Refresh performs a full reconciliation pass: bulk conversation fetch, then
// one history fetch per conversation, then transport subscriptions for every
// conversation seen. History fetches run concurrently; each failure lands in
// its own conversation's error field rather than failing the pass.
func (e *Engine) Refresh(ctx context.Context) error {
	started := e.now()
	records, err := e.api.FetchAllConversations(ctx)
	if err != nil {
		return err
	}
	e.metrics.RecordTiming(metrics.OpBulkFetch, e.now().Sub(started))

	e.store.UpsertConversationsBulk(records)

	var wg sync.WaitGroup
	for _, rec := range records {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			e.LoadHistory(ctx, id)
		}(rec.ID)
	}
	wg.Wait()

	if e.sub != nil {
		for _, rec := range records {
			if err := e.sub.Subscribe(rec.ID); err != nil {
				e.logger.Warn("subscribe failed", "conversation", rec.ID, "error", err)
			}
		}
	}
	return nil
}

// LoadHistory fetches one conversation's full message history. The fetch is
// sequenced: if a newer fetch for the same conversation was issued while
// this one was in flight, the completion is dropped by the store.
func (e *Engine) LoadHistory(ctx context.Context, conversationID string) {
	seq := e.store.BeginLoadingMessages(conversationID)

	started := e.now()
	msgs, err := e.api.FetchConversationHistory(ctx, conversationID)
	if err != nil {
		e.logger.Warn("history fetch failed", "conversation", conversationID, "error", err)
		e.store.FailLoadingMessages(conversationID, seq, err.Error())
		return
	}
	e.metrics.RecordTiming(metrics.OpHistoryFetch, e.now().Sub(started))
	e.store.CompleteLoadingMessages(conversationID, seq, msgs)
}

// Send performs an optimistic send: the message appears locally with a
// temporary id and a client timestamp before the server confirms it. The
// confirmation (or the push echo, whichever arrives first) promotes the
// placeholder in place; the merge handles either order.
func (e *Engine) Send(ctx context.Context, conversationID, text string) (models.Message, error) {
	optimistic := models.Message{
		ID:           models.NewTemporaryID(),
		Conversation: conversationID,
		Text:         text,
		SenderID:     e.user.ID,
		SenderName:   e.user.Name,
		CreatedAt:    e.now(),
	}
	e.integrate(conversationID, optimistic, false)

	started := e.now()
	confirmed, err := e.api.SendMessage(ctx, conversationID, text)
	if err != nil {
		e.store.SetError(conversationID, err.Error())
		return models.Message{}, err
	}
	e.metrics.RecordTiming(metrics.OpSend, e.now().Sub(started))

	e.integrate(conversationID, confirmed, false)
	return confirmed, nil
}

// HandleIncoming integrates one push delivery and raises a notification when
// the target conversation is not the one being viewed.
func (e *Engine) HandleIncoming(msg models.Message) {
	e.integrate(msg.Conversation, msg, true)
}

// Run consumes the push channel until ctx is done or the channel closes.
func (e *Engine) Run(ctx context.Context) error {
	if e.sub == nil {
		<-ctx.Done()
		return ctx.Err()
	}
	for {
		select {
		case msg, ok := <-e.sub.Messages():
			if !ok {
				e.logger.Info("push channel closed")
				return nil
			}
			e.HandleIncoming(msg)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Focus routes a navigation "entered conversation" event to the store.
func (e *Engine) Focus(conversationID string) { e.store.Focus(conversationID) }

// Blur routes a navigation "left conversation" event to the store.
func (e *Engine) Blur(conversationID string) { e.store.Blur(conversationID) }

func (e *Engine) integrate(conversationID string, msg models.Message, notify bool) {
	outcome := e.store.IntegrateIncomingMessage(conversationID, msg)
	switch outcome.Result {
	case store.ResultAppended:
		e.metrics.RecordIntegrated()
	case store.ResultPromoted:
		e.metrics.RecordPromotion()
	case store.ResultDuplicate:
		e.metrics.RecordDuplicate()
	case store.ResultNoConversation:
		e.metrics.RecordDropped()
	}

	if notify && outcome.UnreadIncrement {
		title := models.DefaultTitle
		if conv, ok := e.store.Conversation(conversationID); ok {
			title = conv.Title
		}
		e.notifier.Notify(title, msg.SenderName+": "+msg.Text)
	}
}
