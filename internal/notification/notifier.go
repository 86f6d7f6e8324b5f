// Package notification dispatches applicant emails. Delivery is best-effort:
// a failed send is logged and never rolls back the operation that caused it.
package notification

import (
	"context"
	"time"
)

// Kind names the template the mailer renders.
type Kind string

const (
	KindApplicationStarted Kind = "application_started"
	KindSubmitted          Kind = "application_submitted"
	KindResumeCode         Kind = "resume_code"
	KindDecision           Kind = "registry_decision"
	KindPaymentReceived    Kind = "payment_received"
	KindStatusChanged      Kind = "status_changed"
)

// Message is one outbound email. Body may contain a one-time code and must
// not be logged.
type Message struct {
	Kind          Kind              `json:"kind"`
	To            string            `json:"to"`
	Subject       string            `json:"subject"`
	Body          string            `json:"body"`
	ApplicationID string            `json:"application_id,omitempty"`
	Data          map[string]string `json:"data,omitempty"`
	RequestID     string            `json:"request_id,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// Notifier delivers messages.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}
