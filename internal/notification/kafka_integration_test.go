//go:build integration

package notification_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"agentreg/internal/notification"
	"agentreg/internal/platform/config"
	"agentreg/internal/platform/kafka"
	"agentreg/pkg/testutil/containers"
)

func TestKafkaNotifier_PublishesJSON(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	broker := containers.GetManager().GetRedpanda(t).Broker
	topic := "agentreg.notifications.test"

	producer, err := kafka.New(ctx, config.KafkaConfig{Brokers: []string{broker}, Topic: topic})
	require.NoError(t, err)
	defer producer.Close()

	n := notification.NewKafkaNotifier(producer, topic)
	require.NoError(t, n.Send(ctx, notification.Message{
		Kind:          notification.KindSubmitted,
		To:            "a@example.org",
		ApplicationID: "IND-APP-2026-0001",
	}))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.NoError(t, fetches.Err())
	records := fetches.Records()
	require.NotEmpty(t, records)

	var got notification.Message
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	require.Equal(t, "IND-APP-2026-0001", string(records[0].Key))
	require.Equal(t, notification.KindSubmitted, got.Kind)
}
