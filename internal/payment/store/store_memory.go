// Package store persists online payment attempts.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"agentreg/internal/payment/models"
	id "agentreg/pkg/domain"
	"agentreg/pkg/platform/sentinel"
)

// InMemory keeps payments in a map keyed by merchant reference.
type InMemory struct {
	mu       sync.Mutex
	payments map[string]models.Payment
}

func NewInMemory() *InMemory {
	return &InMemory{payments: make(map[string]models.Payment)}
}

func (s *InMemory) Create(_ context.Context, p *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.payments[p.Reference]; exists {
		return fmt.Errorf("payment %s: %w", p.Reference, sentinel.ErrConflict)
	}
	s.payments[p.Reference] = *p
	return nil
}

func (s *InMemory) FindByReference(_ context.Context, reference string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[reference]
	if !ok {
		return nil, fmt.Errorf("payment %s: %w", reference, sentinel.ErrNotFound)
	}
	return &p, nil
}

func (s *InMemory) ListByApplication(_ context.Context, appID id.ApplicationID) ([]*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Payment
	for _, p := range s.payments {
		if p.ApplicationID == appID {
			cp := p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ApplyStatus records a gateway status under the store lock.
func (s *InMemory) ApplyStatus(_ context.Context, reference string, status models.Status, now time.Time) (*models.Payment, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[reference]
	if !ok {
		return nil, false, fmt.Errorf("payment %s: %w", reference, sentinel.ErrNotFound)
	}
	changed := p.ApplyStatus(status, now)
	s.payments[reference] = p
	return &p, changed, nil
}
