// Package store persists applications together with their status history and
// registry decisions.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"agentreg/internal/application/models"
	id "agentreg/pkg/domain"
	"agentreg/pkg/platform/sentinel"
)

// InMemory is a process-local store. Execute serializes callers per
// application id with a sharded lock.
type InMemory struct {
	locks shardedLock

	mu        sync.RWMutex
	apps      map[id.ApplicationID]*models.Application
	history   map[id.ApplicationID][]models.StatusHistory
	decisions map[id.ApplicationID][]models.RegistryDecision
}

func NewInMemory() *InMemory {
	return &InMemory{
		apps:      make(map[id.ApplicationID]*models.Application),
		history:   make(map[id.ApplicationID][]models.StatusHistory),
		decisions: make(map[id.ApplicationID][]models.RegistryDecision),
	}
}

// Create inserts a new application and its creation history row.
func (s *InMemory) Create(_ context.Context, app *models.Application, history models.StatusHistory) error {
	if app == nil {
		return fmt.Errorf("application is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.apps[app.ID]; exists {
		return sentinel.ErrConflict
	}
	if err := s.checkMemberIDLocked(app); err != nil {
		return err
	}
	s.apps[app.ID] = app.Clone()
	s.history[app.ID] = append(s.history[app.ID], history)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, appID id.ApplicationID) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.apps[appID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return app.Clone(), nil
}

// Execute runs fn against a copy of the application while holding the
// application's lock. The copy and the returned changes are written only
// when fn succeeds.
func (s *InMemory) Execute(ctx context.Context, appID id.ApplicationID, fn models.MutateFunc) (*models.Application, error) {
	unlock := s.locks.lock(appID.String())
	defer unlock()

	app, err := s.FindByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	changes, err := fn(ctx, app)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkMemberIDLocked(app); err != nil {
		return nil, err
	}
	s.apps[appID] = app.Clone()
	s.history[appID] = append(s.history[appID], changes.History...)
	if changes.Decision != nil {
		s.decisions[appID] = append(s.decisions[appID], *changes.Decision)
	}
	return app.Clone(), nil
}

// checkMemberIDLocked mirrors the unique constraint on member_id.
func (s *InMemory) checkMemberIDLocked(app *models.Application) error {
	if app.MemberID == "" {
		return nil
	}
	for otherID, other := range s.apps {
		if otherID != app.ID && other.MemberID == app.MemberID {
			return sentinel.ErrConflict
		}
	}
	return nil
}

// ListHistory returns history rows oldest first.
func (s *InMemory) ListHistory(_ context.Context, appID id.ApplicationID) ([]models.StatusHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.apps[appID]; !ok {
		return nil, sentinel.ErrNotFound
	}
	rows := make([]models.StatusHistory, len(s.history[appID]))
	copy(rows, s.history[appID])
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CreatedAt.Before(rows[j].CreatedAt)
	})
	return rows, nil
}

func (s *InMemory) ListDecisions(_ context.Context, appID id.ApplicationID) ([]models.RegistryDecision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.apps[appID]; !ok {
		return nil, sentinel.ErrNotFound
	}
	rows := make([]models.RegistryDecision, len(s.decisions[appID]))
	copy(rows, s.decisions[appID])
	return rows, nil
}

// FindAcceptedByMemberID resolves an active member.
func (s *InMemory) FindAcceptedByMemberID(_ context.Context, memberID id.MemberNumber) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, app := range s.apps {
		if app.Status == models.StatusAccepted && app.MemberID == memberID {
			return app.Clone(), nil
		}
	}
	return nil, sentinel.ErrNotFound
}
