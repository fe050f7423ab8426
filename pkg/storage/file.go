package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps each record as a JSON file named after its ID.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates the directory if needed and returns a store over it.
func NewFileStore(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Path returns the base directory for record files.
func (s *FileStore) Path() string {
	return s.baseDir
}

func (s *FileStore) recordPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Put(ctx context.Context, rec *Record) error {
	if err := validateRecord(rec); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if err := os.WriteFile(s.recordPath(rec.ID), data, 0600); err != nil {
		return fmt.Errorf("write record file: %w", err)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*Record, error) {
	// IDs are UUIDs; anything else cannot name a file we wrote.
	if validateRecord(&Record{ID: id}) != nil {
		return nil, notFound(id)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(s.recordPath(id), id)
}

func (s *FileStore) read(path, id string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("read record file: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse record %s: %w", id, err)
	}
	return &rec, nil
}

// List skips files that do not parse as records.
func (s *FileStore) List(ctx context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read archive dir: %w", err)
	}
	var out []Record
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		rec, err := s.read(filepath.Join(s.baseDir, entry.Name()), entry.Name())
		if err != nil {
			continue
		}
		out = append(out, *rec)
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if validateRecord(&Record{ID: id}) != nil {
		return notFound(id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.recordPath(id)); err != nil {
		if os.IsNotExist(err) {
			return notFound(id)
		}
		return fmt.Errorf("remove record file: %w", err)
	}
	return nil
}

func (s *FileStore) Close(ctx context.Context) error { return nil }

var _ Store = (*FileStore)(nil)
