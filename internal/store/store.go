// Package store owns the in-memory collection of conversations and applies
// every mutation the reconciliation engine produces. All operations are
// local and synchronous; a single mutex stands in for the original
// single-threaded event loop, so each operation is atomic relative to every
// other, including the focus check that gates unread accounting.
package store

import (
	"log/slog"
	"sync"
	"time"

	"github.com/raphaelgruber/chatsync-go/internal/models"
)

// Store is the authoritative mapping from conversation id to conversation
// state. Mutations on unknown conversation ids are silent no-ops: a push for
// a conversation the client has not fetched yet is an expected race, not a
// fault.
type Store struct {
	mu            sync.Mutex
	conversations map[string]*models.Conversation
	order         []string // insertion order, stable tie-break for views
	fetchSeq      map[string]uint64

	focused bool
	focusID string

	window time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// New creates an empty store. window is the identity-matching tolerance;
// zero means models.DefaultIdentityWindow.
func New(window time.Duration, logger *slog.Logger) *Store {
	if window <= 0 {
		window = models.DefaultIdentityWindow
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		conversations: make(map[string]*models.Conversation),
		fetchSeq:      make(map[string]uint64),
		window:        window,
		logger:        logger,
		now:           time.Now,
	}
}

// UpsertConversationsBulk merges the server's conversation list into the
// store. Existing conversations keep their already-loaded messages; a
// supplied lastMessage summary is merged through the dedup path so that
// optimistic or push-delivered messages the bulk endpoint does not know
// about are never discarded. Conversations absent from the list are kept;
// the core never deletes.
func (s *Store) UpsertConversationsBulk(records []models.ConversationRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range records {
		conv, ok := s.conversations[rec.ID]
		if !ok {
			conv = &models.Conversation{
				ID:          rec.ID,
				Title:       rec.Title,
				UnreadCount: rec.UnreadCount,
			}
			if conv.Title == "" {
				conv.Title = models.DefaultTitle
			}
			s.conversations[rec.ID] = conv
			s.order = append(s.order, rec.ID)
		} else if rec.Title != "" {
			// Reconcile placeholders created before metadata arrived.
			conv.Title = rec.Title
		}
		if rec.LastMessage != nil {
			// A summary is not a live delivery; it never bumps unread.
			s.merge(conv, *rec.LastMessage)
		}
	}
}

// BeginLoadingMessages marks a history fetch as outstanding and returns its
// sequence number. The conversation is created as a placeholder if the
// message fetch won the race against the conversation-list fetch.
func (s *Store) BeginLoadingMessages(id string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.ensureLocked(id)
	conv.IsLoading = true
	conv.Error = ""
	s.fetchSeq[id]++
	return s.fetchSeq[id]
}

// CompleteLoadingMessages replaces the conversation's messages with the
// fetched history. A targeted history fetch is authoritative at the instant
// it was issued; completions carrying a stale sequence number are dropped so
// a late response cannot clobber messages integrated after a newer fetch.
func (s *Store) CompleteLoadingMessages(id string, seq uint64, msgs []models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return
	}
	if seq != s.fetchSeq[id] {
		s.logger.Debug("dropping stale history fetch", "conversation", id, "seq", seq, "latest", s.fetchSeq[id])
		return
	}
	conv.Messages = append([]models.Message(nil), msgs...)
	conv.IsLoading = false
}

// FailLoadingMessages records a fetch failure. Existing messages are left
// untouched; the UI decides the retry affordance.
func (s *Store) FailLoadingMessages(id string, seq uint64, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return
	}
	if seq != s.fetchSeq[id] {
		return
	}
	conv.IsLoading = false
	conv.Error = errMsg
}

// SetError records a send failure on the conversation so the UI can offer a
// retry. No-op for unknown ids.
func (s *Store) SetError(id string, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conv, ok := s.conversations[id]; ok {
		conv.Error = errMsg
	}
}

// MarkRead zeroes the unread counter and stamps the last-seen moment.
func (s *Store) MarkRead(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markReadLocked(id)
}

// IncrementUnread bumps the unread counter; no-op if the conversation is
// absent.
func (s *Store) IncrementUnread(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conv, ok := s.conversations[id]; ok {
		conv.UnreadCount++
	}
}

func (s *Store) markReadLocked(id string) {
	if conv, ok := s.conversations[id]; ok {
		conv.UnreadCount = 0
		conv.LastSeenTimestamp = s.now()
	}
}

// ensureLocked returns the conversation, creating a placeholder when the
// first reference arrives before its metadata.
func (s *Store) ensureLocked(id string) *models.Conversation {
	conv, ok := s.conversations[id]
	if !ok {
		conv = &models.Conversation{ID: id, Title: models.PlaceholderTitle}
		s.conversations[id] = conv
		s.order = append(s.order, id)
	}
	return conv
}

func cloneConversation(c *models.Conversation) models.Conversation {
	out := *c
	out.Messages = append([]models.Message(nil), c.Messages...)
	return out
}
