package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentreg/internal/payment/models"
	"agentreg/pkg/platform/sentinel"
)

func TestInMemory(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)
	s := NewInMemory()
	p := &models.Payment{
		Reference:     "IND-APP-2026-0001-1a2b3c4d",
		ApplicationID: "IND-APP-2026-0001",
		Amount:        decimal.RequireFromString("50.00"),
		Currency:      "USD",
		Status:        models.StatusSent,
		CreatedAt:     at,
		UpdatedAt:     at,
	}
	require.NoError(t, s.Create(ctx, p))
	assert.ErrorIs(t, s.Create(ctx, p), sentinel.ErrConflict)

	updated, changed, err := s.ApplyStatus(ctx, p.Reference, models.StatusPaid, at.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.StatusPaid, updated.Status)

	_, changed, err = s.ApplyStatus(ctx, p.Reference, models.StatusPaid, at.Add(2*time.Minute))
	require.NoError(t, err)
	assert.False(t, changed)

	list, err := s.ListByApplication(ctx, "IND-APP-2026-0001")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, _, err = s.ApplyStatus(ctx, "unknown", models.StatusPaid, at)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
