// Package memory holds both ledger stores in process memory. It backs the
// "memory" data backend and the package tests; nothing survives a restart.
package memory

import (
	"context"
	"errors"
	"sync"

	"librospese/internal/core"
)

// ErrUnavailable is returned by Save after FailNextSave has armed it.
var ErrUnavailable = errors.New("record store unavailable")

type Store struct {
	mu          sync.RWMutex
	records     []core.Record
	attachments map[string]core.Attachment

	failSave bool // test hook: make the next Save fail
}

func New() *Store {
	return &Store{attachments: make(map[string]core.Attachment)}
}

// Load implements store.RecordStore.
func (s *Store) Load(ctx context.Context) ([]core.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Record, len(s.records))
	copy(out, s.records)
	return out, nil
}

// Save implements store.RecordStore.
func (s *Store) Save(ctx context.Context, records []core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave {
		s.failSave = false
		return ErrUnavailable
	}
	s.records = make([]core.Record, len(records))
	copy(s.records, records)
	return nil
}

// FailNextSave makes the next Save return an error, for testing the
// all-or-nothing mutation contract.
func (s *Store) FailNextSave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSave = true
}

// Put implements store.AttachmentStore.
func (s *Store) Put(ctx context.Context, a core.Attachment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attachments[a.ExpenseID] = a
	return nil
}

// Get implements store.AttachmentStore; nil when no entry exists.
func (s *Store) Get(ctx context.Context, expenseID string) (*core.Attachment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.attachments[expenseID]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

// Delete implements store.AttachmentStore.
func (s *Store) Delete(ctx context.Context, expenseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attachments, expenseID)
	return nil
}
