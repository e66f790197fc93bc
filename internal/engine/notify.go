package engine

import "log/slog"

// Notifier is invoked for messages arriving in conversations the user is not
// currently viewing. Actual push-notification delivery belongs to the
// platform layer; the engine only decides when one is warranted.
type Notifier interface {
	Notify(title, body string)
}

// LogNotifier writes would-be notifications to the log.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs the notification.
func (n *LogNotifier) Notify(title, body string) {
	n.logger.Info("notification", "title", title, "body", body)
}
