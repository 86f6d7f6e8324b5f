// Package models holds online fee payments and the gateway status vocabulary.
package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	id "agentreg/pkg/domain"
)

// Status is the gateway's view of a transaction. Values mirror the
// gateway's own status strings, lowercased.
type Status string

const (
	StatusCreated          Status = "created"
	StatusSent             Status = "sent"
	StatusPaid             Status = "paid"
	StatusAwaitingDelivery Status = "awaiting delivery"
	StatusDelivered        Status = "delivered"
	StatusCancelled        Status = "cancelled"
	StatusFailed           Status = "failed"
	StatusDisputed         Status = "disputed"
	StatusRefunded         Status = "refunded"
)

// ParseStatus normalizes a gateway status string. Unknown values are kept
// verbatim so they can be logged, but classify as neither settled nor failed.
func ParseStatus(s string) Status {
	return Status(strings.ToLower(strings.TrimSpace(s)))
}

// IsKnown reports whether s is part of the gateway vocabulary.
func (s Status) IsKnown() bool {
	switch s {
	case StatusCreated, StatusSent, StatusPaid, StatusAwaitingDelivery, StatusDelivered,
		StatusCancelled, StatusFailed, StatusDisputed, StatusRefunded:
		return true
	}
	return false
}

// IsSettled reports whether the money has been received.
func (s Status) IsSettled() bool {
	switch s {
	case StatusPaid, StatusAwaitingDelivery, StatusDelivered:
		return true
	}
	return false
}

// IsFailed reports whether the attempt ended without payment.
func (s Status) IsFailed() bool {
	return s == StatusCancelled || s == StatusFailed
}

// Payment is one online payment attempt for an application fee. An
// application may have several attempts; only one needs to settle.
type Payment struct {
	Reference     string           `json:"reference"`
	ApplicationID id.ApplicationID `json:"application_id"`
	Amount        decimal.Decimal  `json:"amount"`
	Currency      string           `json:"currency"`
	Status        Status           `json:"status"`
	PollURL       string           `json:"-"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// ApplyStatus records a gateway status. A settled payment never moves back.
func (p *Payment) ApplyStatus(status Status, now time.Time) bool {
	if p.Status == status || p.Status.IsSettled() {
		return false
	}
	p.Status = status
	p.UpdatedAt = now
	return true
}
