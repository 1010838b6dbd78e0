package notify

import (
	"context"

	"github.com/gonbot/fisio-scheduler/pkg/logging"
)

// LogNotifier writes reminders to the structured log. It is the
// fallback channel when email is not configured and keeps reminders
// observable in development.
type LogNotifier struct {
	logger *logging.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger *logging.Logger) *LogNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs the reminder instead of delivering it.
func (n *LogNotifier) Notify(ctx context.Context, title, body string) error {
	n.logger.Info("reminder", "title", title, "body", body)
	return nil
}
