package notification_test

//go:generate mockgen -source=notifier.go -destination=mocks/mocks.go -package=mocks Notifier

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"agentreg/internal/notification"
	"agentreg/internal/notification/mocks"
	"agentreg/pkg/requestcontext"
)

func TestBestEffort_SwallowsErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := mocks.NewMockNotifier(ctrl)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	inner.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	n := notification.NewBestEffort(inner, logger)
	err := n.Send(context.Background(), notification.Message{Kind: notification.KindSubmitted, ApplicationID: "IND-APP-2026-0001"})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "notification delivery failed")
	assert.Contains(t, buf.String(), "broker down")
}

func TestBestEffort_StampsRequestMetadata(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := mocks.NewMockNotifier(ctrl)
	now := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

	inner.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, msg notification.Message) error {
		assert.Equal(t, "req-42", msg.RequestID)
		assert.Equal(t, now, msg.CreatedAt)
		return nil
	})

	ctx := requestcontext.WithRequestID(context.Background(), "req-42")
	ctx = requestcontext.WithTime(ctx, now)
	require.NoError(t, notification.NewBestEffort(inner, nil).Send(ctx, notification.Message{Kind: notification.KindResumeCode}))
}

func TestBestEffort_IgnoresCallerCancellation(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := mocks.NewMockNotifier(ctrl)
	inner.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, _ notification.Message) error {
		return ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	n := notification.NewBestEffort(inner, slog.New(slog.NewTextHandler(&buf, nil)))
	require.NoError(t, n.Send(ctx, notification.Message{}))
	assert.Empty(t, buf.String())
}

func TestLogNotifier_OmitsBody(t *testing.T) {
	var buf bytes.Buffer
	n := notification.NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, n.Send(context.Background(), notification.Message{
		Kind: notification.KindResumeCode, To: "a@example.org", Body: "your code is 123456",
	}))
	assert.Contains(t, buf.String(), "resume_code")
	assert.NotContains(t, buf.String(), "123456")
}
