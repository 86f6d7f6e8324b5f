package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"agentreg/internal/resume/models"
	id "agentreg/pkg/domain"
	"agentreg/pkg/platform/sentinel"
)

const keyPrefix = "resume:otp:"

const (
	fieldCodeHash  = "code_hash"
	fieldAttempts  = "attempts"
	fieldExpiresAt = "expires_at"
	fieldCreatedAt = "created_at"
)

// incrementIfPresent avoids resurrecting a key that expired between read and
// increment.
var incrementIfPresent = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
return redis.call('HINCRBY', KEYS[1], ARGV[1], 1)
`)

// Redis stores resume codes as hashes so several instances share attempt
// counts.
type Redis struct {
	client redis.UniversalClient
}

func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

func codeRedisKey(appID id.ApplicationID, email string) string {
	return keyPrefix + appID.String() + ":" + email
}

func (s *Redis) Save(ctx context.Context, code *models.ResumeCode) error {
	key := codeRedisKey(code.ApplicationID, code.Email)
	ttl := code.ExpiresAt.Sub(code.CreatedAt) + ExpiredRetention

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key,
			fieldCodeHash, code.CodeHash,
			fieldAttempts, code.Attempts,
			fieldExpiresAt, code.ExpiresAt.UTC().Format(time.RFC3339Nano),
			fieldCreatedAt, code.CreatedAt.UTC().Format(time.RFC3339Nano),
		)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save resume code: %w", err)
	}
	return nil
}

func (s *Redis) Find(ctx context.Context, appID id.ApplicationID, email string) (*models.ResumeCode, error) {
	fields, err := s.client.HGetAll(ctx, codeRedisKey(appID, email)).Result()
	if err != nil {
		return nil, fmt.Errorf("find resume code: %w", err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("resume code for %s: %w", appID, sentinel.ErrNotFound)
	}

	attempts, err := strconv.Atoi(fields[fieldAttempts])
	if err != nil {
		return nil, fmt.Errorf("decode attempts: %w", err)
	}
	expiresAt, err := time.Parse(time.RFC3339Nano, fields[fieldExpiresAt])
	if err != nil {
		return nil, fmt.Errorf("decode expiry: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, fields[fieldCreatedAt])
	if err != nil {
		return nil, fmt.Errorf("decode creation time: %w", err)
	}

	return &models.ResumeCode{
		ApplicationID: appID,
		Email:         email,
		CodeHash:      fields[fieldCodeHash],
		Attempts:      attempts,
		ExpiresAt:     expiresAt,
		CreatedAt:     createdAt,
	}, nil
}

func (s *Redis) IncrementAttempts(ctx context.Context, appID id.ApplicationID, email string) (int, error) {
	n, err := incrementIfPresent.Run(ctx, s.client, []string{codeRedisKey(appID, email)}, fieldAttempts).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, fmt.Errorf("resume code for %s: %w", appID, sentinel.ErrNotFound)
		}
		return 0, fmt.Errorf("increment attempts: %w", err)
	}
	if n < 0 {
		return 0, fmt.Errorf("resume code for %s: %w", appID, sentinel.ErrNotFound)
	}
	return n, nil
}

func (s *Redis) Delete(ctx context.Context, appID id.ApplicationID, email string) error {
	if err := s.client.Del(ctx, codeRedisKey(appID, email)).Err(); err != nil {
		return fmt.Errorf("delete resume code: %w", err)
	}
	return nil
}
