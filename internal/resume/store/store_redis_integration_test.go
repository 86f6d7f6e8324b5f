//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"agentreg/internal/resume/models"
	"agentreg/internal/resume/store"
	id "agentreg/pkg/domain"
	"agentreg/pkg/platform/sentinel"
	"agentreg/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *store.Redis
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = store.NewRedis(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) code(appID id.ApplicationID) *models.ResumeCode {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &models.ResumeCode{
		ApplicationID: appID,
		Email:         "applicant@example.org",
		CodeHash:      "$2a$10$abcdefghijklmnopqrstuv",
		ExpiresAt:     now.Add(30 * time.Minute),
		CreatedAt:     now,
	}
}

func (s *RedisStoreSuite) TestRoundTripAndTTL() {
	ctx := context.Background()
	code := s.code("IND-APP-2026-0001")
	s.Require().NoError(s.store.Save(ctx, code))

	got, err := s.store.Find(ctx, code.ApplicationID, code.Email)
	s.Require().NoError(err)
	s.Equal(code.CodeHash, got.CodeHash)
	s.True(code.ExpiresAt.Equal(got.ExpiresAt))
	s.Zero(got.Attempts)

	ttl, err := s.redis.Client.TTL(ctx, "resume:otp:IND-APP-2026-0001:applicant@example.org").Result()
	s.Require().NoError(err)
	s.Greater(ttl, 30*time.Minute)
}

func (s *RedisStoreSuite) TestAttemptsAccumulateAndResetOnSave() {
	ctx := context.Background()
	code := s.code("ORG-APP-2026-0003")
	s.Require().NoError(s.store.Save(ctx, code))

	for want := 1; want <= 3; want++ {
		n, err := s.store.IncrementAttempts(ctx, code.ApplicationID, code.Email)
		s.Require().NoError(err)
		s.Equal(want, n)
	}

	s.Require().NoError(s.store.Save(ctx, s.code("ORG-APP-2026-0003")))
	got, err := s.store.Find(ctx, code.ApplicationID, code.Email)
	s.Require().NoError(err)
	s.Zero(got.Attempts)
}

func (s *RedisStoreSuite) TestMissingKeys() {
	ctx := context.Background()
	_, err := s.store.Find(ctx, "IND-APP-2026-0099", "x@example.org")
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.IncrementAttempts(ctx, "IND-APP-2026-0099", "x@example.org")
	s.ErrorIs(err, sentinel.ErrNotFound)

	exists, err := s.redis.Client.Exists(ctx, "resume:otp:IND-APP-2026-0099:x@example.org").Result()
	s.Require().NoError(err)
	s.Zero(exists)
}

func (s *RedisStoreSuite) TestDeleteConsumes() {
	ctx := context.Background()
	code := s.code("IND-APP-2026-0004")
	s.Require().NoError(s.store.Save(ctx, code))
	s.Require().NoError(s.store.Delete(ctx, code.ApplicationID, code.Email))

	_, err := s.store.Find(ctx, code.ApplicationID, code.Email)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
