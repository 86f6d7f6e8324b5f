// Package models holds the save-and-resume one-time code record.
package models

import (
	"time"

	id "agentreg/pkg/domain"
)

// CodeLength is the number of decimal digits in a resume code.
const CodeLength = 6

// ResumeCode is the single active one-time code for an (application, email)
// pair. Only the bcrypt hash of the code is kept.
type ResumeCode struct {
	ApplicationID id.ApplicationID `json:"application_id"`
	Email         string           `json:"email"`
	CodeHash      string           `json:"-"`
	Attempts      int              `json:"attempts"`
	ExpiresAt     time.Time        `json:"expires_at"`
	CreatedAt     time.Time        `json:"created_at"`
}

func (c *ResumeCode) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// AttemptsExhausted reports whether the throttle has been reached. It is
// checked before the current attempt is counted.
func (c *ResumeCode) AttemptsExhausted(max int) bool {
	return c.Attempts >= max
}

// IsWellFormed reports whether s could be a code at all.
func IsWellFormed(s string) bool {
	if len(s) != CodeLength {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
