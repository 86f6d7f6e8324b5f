// Package store keeps resume codes. Both implementations hold at most one code
// per (application, email); saving a new code replaces the old one.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"agentreg/internal/resume/models"
	id "agentreg/pkg/domain"
	"agentreg/pkg/platform/sentinel"
)

// ExpiredRetention keeps an expired code around long enough for verify to
// report it as expired rather than unknown.
const ExpiredRetention = time.Hour

type codeKey struct {
	appID id.ApplicationID
	email string
}

// InMemory stores resume codes in memory for tests and single-node dev.
type InMemory struct {
	mu    sync.Mutex
	codes map[codeKey]models.ResumeCode
}

func NewInMemory() *InMemory {
	return &InMemory{codes: make(map[codeKey]models.ResumeCode)}
}

func (s *InMemory) Save(_ context.Context, code *models.ResumeCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, c := range s.codes {
		if c.ExpiresAt.Add(ExpiredRetention).Before(code.CreatedAt) {
			delete(s.codes, k)
		}
	}
	s.codes[codeKey{code.ApplicationID, code.Email}] = *code
	return nil
}

func (s *InMemory) Find(_ context.Context, appID id.ApplicationID, email string) (*models.ResumeCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.codes[codeKey{appID, email}]
	if !ok {
		return nil, fmt.Errorf("resume code for %s: %w", appID, sentinel.ErrNotFound)
	}
	return &c, nil
}

// IncrementAttempts counts one attempt and returns the new total.
func (s *InMemory) IncrementAttempts(_ context.Context, appID id.ApplicationID, email string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := codeKey{appID, email}
	c, ok := s.codes[k]
	if !ok {
		return 0, fmt.Errorf("resume code for %s: %w", appID, sentinel.ErrNotFound)
	}
	c.Attempts++
	s.codes[k] = c
	return c.Attempts, nil
}

func (s *InMemory) Delete(_ context.Context, appID id.ApplicationID, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, codeKey{appID, email})
	return nil
}
