package store

// Focus records that the user is now viewing the given conversation and
// synchronously marks it read. At most one conversation is focused at a
// time. Focusing a conversation the store does not hold yet still records
// the focus so unread gating behaves once the conversation appears.
func (s *Store) Focus(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.focused = true
	s.focusID = id
	s.markReadLocked(id)
}

// Blur clears focus, but only if the conversation being left is the one
// currently focused. A delayed leave callback from a screen the user has
// already navigated past must not clear focus set by a newer transition.
func (s *Store) Blur(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.focused && s.focusID == id {
		s.focused = false
		s.focusID = ""
	}
}

// FocusedConversation returns the currently focused conversation id, if any.
func (s *Store) FocusedConversation() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focusID, s.focused
}
