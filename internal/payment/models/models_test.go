package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusClassification(t *testing.T) {
	for _, raw := range []string{"Paid", "Awaiting Delivery", " delivered "} {
		assert.True(t, ParseStatus(raw).IsSettled(), raw)
	}
	for _, raw := range []string{"Created", "Sent", "Cancelled", "Disputed", "Refunded", "whatever"} {
		assert.False(t, ParseStatus(raw).IsSettled(), raw)
	}
	assert.True(t, ParseStatus("Cancelled").IsFailed())
	assert.False(t, ParseStatus("Sent").IsFailed())
}

func TestApplyStatus_SettledIsSticky(t *testing.T) {
	at := time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)
	p := &Payment{Status: StatusSent}

	assert.True(t, p.ApplyStatus(StatusPaid, at))
	assert.Equal(t, at, p.UpdatedAt)
	assert.False(t, p.ApplyStatus(StatusPaid, at.Add(time.Minute)))
	assert.False(t, p.ApplyStatus(StatusCancelled, at.Add(time.Minute)))
	assert.Equal(t, StatusPaid, p.Status)
}
