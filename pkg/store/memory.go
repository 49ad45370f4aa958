package store

import (
	"context"
	"sync"
)

// MemoryStore keeps documents in process memory. It is safe for concurrent
// use. Documents are copied on the way in and out.
type MemoryStore struct {
	mu      sync.RWMutex
	layouts map[string]LayoutDoc
	indexes map[string]IndexDoc
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		layouts: make(map[string]LayoutDoc),
		indexes: make(map[string]IndexDoc),
	}
}

func (s *MemoryStore) SaveLayout(_ context.Context, doc *LayoutDoc) error {
	prepare(&doc.ID, &doc.CreatedAt)
	cp := *doc
	cp.Layout.Nodes = append(cp.Layout.Nodes[:0:0], doc.Layout.Nodes...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.layouts[doc.ID] = cp
	return nil
}

func (s *MemoryStore) GetLayout(_ context.Context, id string) (*LayoutDoc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.layouts[id]
	if !ok {
		return nil, layoutNotFound(id)
	}
	doc.Layout.Nodes = append(doc.Layout.Nodes[:0:0], doc.Layout.Nodes...)
	return &doc, nil
}

func (s *MemoryStore) DeleteLayout(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.layouts, id)
	return nil
}

func (s *MemoryStore) SaveIndex(_ context.Context, doc *IndexDoc) error {
	prepare(&doc.ID, &doc.CreatedAt)
	cp := *doc
	cp.Estimates = append(cp.Estimates[:0:0], doc.Estimates...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexes[doc.ID] = cp
	return nil
}

func (s *MemoryStore) GetIndex(_ context.Context, id string) (*IndexDoc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.indexes[id]
	if !ok {
		return nil, indexNotFound(id)
	}
	doc.Estimates = append(doc.Estimates[:0:0], doc.Estimates...)
	return &doc, nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
