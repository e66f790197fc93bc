// Package timeutil provides message timestamp presentation rules.
package timeutil

import "time"

// FormatMessageTimestamp formats a message timestamp for display, in the
// local timezone:
//   - today: "15:04"
//   - same year: "Jan 2, 15:04"
//   - otherwise: "Jan 2, 2006 15:04"
//
// A zero timestamp formats as the empty string.
func FormatMessageTimestamp(t time.Time) string {
	return formatMessageTimestamp(t, time.Now())
}

func formatMessageTimestamp(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.Local()

	sameDay := t.Year() == now.Year() && t.YearDay() == now.YearDay()
	if sameDay {
		return t.Format("15:04")
	}
	if t.Year() == now.Year() {
		return t.Format("Jan 2, 15:04")
	}
	return t.Format("Jan 2, 2006 15:04")
}

// WithinOneMinute reports whether two timestamps are less than one minute
// apart. A zero timestamp on either side is never "within".
func WithinOneMinute(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d < time.Minute
}

// ShouldShowTimestamp decides whether a message should render its timestamp:
// the first message of a conversation, a sender change, or more than one
// minute since the previous message.
func ShouldShowTimestamp(current, previous time.Time, currentSender, previousSender string) bool {
	if previous.IsZero() || previousSender == "" {
		return true
	}
	if currentSender != previousSender {
		return true
	}
	return !WithinOneMinute(current, previous)
}
