package models

import "time"

// DefaultIdentityWindow is the tolerance used to match an optimistic message
// against its server echo when no shared id exists. The two records are
// authored independently, so their timestamps differ by network latency.
const DefaultIdentityWindow = 5 * time.Second

// SameMessage reports whether a and b denote the same logical message.
//
// Two permanent ids compare by equality. Otherwise the match falls back to
// sender + text + timestamp proximity within window. A missing timestamp on
// either side never disqualifies the match; losing a legitimate optimistic
// match is worse than the rare over-merge of two identical fast messages.
func SameMessage(a, b Message, window time.Duration) bool {
	if a.ID.IsPermanent() && b.ID.IsPermanent() {
		return a.ID == b.ID
	}
	if a.SenderID != b.SenderID || a.Text != b.Text {
		return false
	}
	if a.CreatedAt.IsZero() || b.CreatedAt.IsZero() {
		return true
	}
	d := a.CreatedAt.Sub(b.CreatedAt)
	if d < 0 {
		d = -d
	}
	return d < window
}
