package notification

import (
	"context"
	"log/slog"
)

// LogNotifier records messages in the service log instead of sending them.
// Used when no broker is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(ctx context.Context, msg Message) error {
	if n.logger == nil {
		return nil
	}
	n.logger.InfoContext(ctx, "notification recorded",
		"kind", string(msg.Kind),
		"to", msg.To,
		"subject", msg.Subject,
		"application_id", msg.ApplicationID,
	)
	return nil
}
