package store

import (
	"iter"
	"slices"
	"strings"

	"github.com/raphaelgruber/chatsync-go/internal/models"
)

// Conversation returns a copy of one conversation. The copy owns its message
// slice; readers never alias store-internal state.
func (s *Store) Conversation(id string) (models.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return models.Conversation{}, false
	}
	return cloneConversation(conv), true
}

// Len returns the number of conversations held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conversations)
}

// SortedConversations returns a lazy, restartable sequence of conversations
// ordered by descending timestamp of each conversation's most recently
// appended message. With append-order message lists this is an approximation
// of "latest activity first": the last appended element is not guaranteed to
// be the chronologically latest under out-of-order delivery. Conversations
// without messages sort after all others and keep their relative store
// order. Each iteration works on a fresh snapshot.
func (s *Store) SortedConversations() iter.Seq[models.Conversation] {
	return func(yield func(models.Conversation) bool) {
		for _, conv := range s.sortedSnapshot() {
			if !yield(conv) {
				return
			}
		}
	}
}

// FilterConversations returns the sorted conversations whose title contains
// query, case-insensitively. An empty query matches everything.
func (s *Store) FilterConversations(query string) []models.Conversation {
	query = strings.ToLower(query)
	var out []models.Conversation
	for conv := range s.SortedConversations() {
		if query == "" || strings.Contains(strings.ToLower(conv.Title), query) {
			out = append(out, conv)
		}
	}
	return out
}

func (s *Store) sortedSnapshot() []models.Conversation {
	s.mu.Lock()
	snapshot := make([]models.Conversation, 0, len(s.order))
	for _, id := range s.order {
		snapshot = append(snapshot, cloneConversation(s.conversations[id]))
	}
	s.mu.Unlock()

	slices.SortStableFunc(snapshot, func(a, b models.Conversation) int {
		la, aok := a.LastMessage()
		lb, bok := b.LastMessage()
		switch {
		case aok && !bok:
			return -1
		case !aok && bok:
			return 1
		case !aok && !bok:
			return 0
		default:
			return lb.CreatedAt.Compare(la.CreatedAt)
		}
	})
	return snapshot
}
