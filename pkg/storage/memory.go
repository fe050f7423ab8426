package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps records in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) Put(ctx context.Context, rec *Record) error {
	if err := validateRecord(rec); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = *rec
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, notFound(id)
	}
	return &rec, nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Record, error) {
	s.mu.RLock()
	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	s.mu.RUnlock()
	sortNewestFirst(out)
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return notFound(id)
	}
	delete(s.records, id)
	return nil
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
