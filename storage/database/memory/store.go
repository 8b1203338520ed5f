package memory

import (
	"context"
	"sync"

	"github.com/KS-2006-TD/LMS/core/lms"
)

// Store keeps the record store in process memory. Nothing survives a restart.
type Store struct {
	mu   sync.RWMutex
	snap *lms.Snapshot
}

var _ lms.Store = (*Store)(nil) // interface compliance check

func Open() *Store {
	return &Store{snap: lms.NewSnapshot()}
}

// Load returns a copy, so callers never alias the stored collections.
func (s *Store) Load(_ context.Context) (*lms.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone(), nil
}

func (s *Store) Save(_ context.Context, snap *lms.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.Version != s.snap.Version {
		return lms.ErrVersionConflict
	}
	snap.Version++
	s.snap = snap.Clone()
	return nil
}
