package notification

import (
	"context"
	"log/slog"
	"time"

	"agentreg/pkg/requestcontext"
)

const defaultSendTimeout = 3 * time.Second

// BestEffort wraps a Notifier so callers never see delivery errors.
// Failures are logged with the request id.
type BestEffort struct {
	next    Notifier
	logger  *slog.Logger
	timeout time.Duration
}

func NewBestEffort(next Notifier, logger *slog.Logger) *BestEffort {
	return &BestEffort{next: next, logger: logger, timeout: defaultSendTimeout}
}

// Send stamps request metadata, delivers with a bounded timeout and always
// returns nil. The caller's cancellation does not abort delivery.
func (b *BestEffort) Send(ctx context.Context, msg Message) error {
	if b.next == nil {
		return nil
	}
	if msg.RequestID == "" {
		msg.RequestID = requestcontext.RequestID(ctx)
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = requestcontext.Now(ctx)
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.timeout)
	defer cancel()
	if err := b.next.Send(sendCtx, msg); err != nil && b.logger != nil {
		b.logger.WarnContext(ctx, "notification delivery failed",
			"kind", string(msg.Kind),
			"application_id", msg.ApplicationID,
			"request_id", msg.RequestID,
			"error", err,
		)
	}
	return nil
}
