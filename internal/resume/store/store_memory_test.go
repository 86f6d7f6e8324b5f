package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentreg/internal/resume/models"
	id "agentreg/pkg/domain"
	"agentreg/pkg/platform/sentinel"
)

func newCode(appID id.ApplicationID, createdAt time.Time) *models.ResumeCode {
	return &models.ResumeCode{
		ApplicationID: appID,
		Email:         "applicant@example.org",
		CodeHash:      "hash",
		ExpiresAt:     createdAt.Add(30 * time.Minute),
		CreatedAt:     createdAt,
	}
}

func TestInMemory_SaveReplacesAndCounts(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	at := time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)
	appID := id.ApplicationID("IND-APP-2026-0001")

	require.NoError(t, s.Save(ctx, newCode(appID, at)))
	n, err := s.IncrementAttempts(ctx, appID, "applicant@example.org")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	replacement := newCode(appID, at.Add(time.Minute))
	replacement.CodeHash = "other"
	require.NoError(t, s.Save(ctx, replacement))

	got, err := s.Find(ctx, appID, "applicant@example.org")
	require.NoError(t, err)
	assert.Equal(t, "other", got.CodeHash)
	assert.Zero(t, got.Attempts)
}

func TestInMemory_NotFound(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	appID := id.ApplicationID("IND-APP-2026-0001")

	_, err := s.Find(ctx, appID, "nobody@example.org")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	_, err = s.IncrementAttempts(ctx, appID, "nobody@example.org")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemory_SweepsLongExpiredCodes(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	at := time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)
	stale := id.ApplicationID("IND-APP-2026-0001")

	require.NoError(t, s.Save(ctx, newCode(stale, at)))
	require.NoError(t, s.Save(ctx, newCode("IND-APP-2026-0002", at.Add(3*time.Hour))))

	_, err := s.Find(ctx, stale, "applicant@example.org")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
