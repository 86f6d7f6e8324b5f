// Package store persists uploaded document metadata. Content hashes are
// unique across all applications; singleton document types are replaced in
// place.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"agentreg/internal/documents/models"
	id "agentreg/pkg/domain"
	"agentreg/pkg/platform/sentinel"
)

// InMemory is a process-local document store. One mutex covers the hash
// index and the rows, so the uniqueness check and the write are atomic.
type InMemory struct {
	mu     sync.RWMutex
	docs   map[id.DocumentID]*models.Document
	byHash map[string]id.DocumentID
}

func NewInMemory() *InMemory {
	return &InMemory{
		docs:   make(map[id.DocumentID]*models.Document),
		byHash: make(map[string]id.DocumentID),
	}
}

// Save inserts doc, or replaces the existing row of a singleton type. The
// returned document carries the id actually stored. A content hash owned by
// another row yields sentinel.ErrAlreadyUsed.
func (s *InMemory) Save(_ context.Context, doc *models.Document) (*models.Document, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var existing *models.Document
	if doc.DocType.IsSingleton() {
		existing = s.findSingletonLocked(doc.ApplicationID, doc.DocType)
	}

	if owner, taken := s.byHash[doc.ContentHash]; taken && (existing == nil || owner != existing.ID) {
		return nil, sentinel.ErrAlreadyUsed
	}

	if existing != nil {
		delete(s.byHash, existing.ContentHash)
		existing.ApplyReplacement(doc)
		s.byHash[existing.ContentHash] = existing.ID
		cp := *existing
		return &cp, nil
	}

	stored := *doc
	s.docs[stored.ID] = &stored
	s.byHash[stored.ContentHash] = stored.ID
	cp := stored
	return &cp, nil
}

func (s *InMemory) findSingletonLocked(appID id.ApplicationID, docType models.DocType) *models.Document {
	for _, d := range s.docs {
		if d.ApplicationID == appID && d.DocType == docType {
			return d
		}
	}
	return nil
}

func (s *InMemory) FindByID(_ context.Context, docID id.DocumentID) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docs[docID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *InMemory) FindByHash(_ context.Context, hash string) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docID, ok := s.byHash[hash]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *s.docs[docID]
	return &cp, nil
}

// ListByApplication returns an application's documents oldest first.
func (s *InMemory) ListByApplication(_ context.Context, appID id.ApplicationID) ([]*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Document
	for _, d := range s.docs {
		if d.ApplicationID == appID {
			cp := *d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Execute runs fn against a copy of the document under the store lock and
// writes the copy back when fn succeeds.
func (s *InMemory) Execute(_ context.Context, docID id.DocumentID, fn func(d *models.Document) error) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.docs[docID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *d
	if err := fn(&cp); err != nil {
		return nil, err
	}
	*d = cp
	out := cp
	return &out, nil
}
