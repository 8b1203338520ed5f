package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"

	"github.com/KS-2006-TD/LMS/core/lms"
)

// Store mirrors the record store to a single JSON document on disk.
// Writes go to a temporary file which is then renamed over the document, so
// readers never see a partial document. Writers hold an advisory lock on
// `<path>.lock`, so the API and the admin CLI can share one document.
type Store struct {
	path string
	mu   sync.Mutex
	lock *flock.Flock
}

var _ lms.Store = (*Store)(nil) // interface compliance check

// Open returns a Store backed by the document at `path`, writing the empty
// baseline if the document does not exist yet.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("jsonfile: empty document path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "creating document directory")
		}
	}
	s := &Store{path: path, lock: flock.New(path + ".lock")}

	unlock, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer unlock()

	snap, err := s.read()
	if err != nil {
		return nil, err
	}
	if snap == nil {
		if err := s.write(lms.NewSnapshot()); err != nil {
			return nil, errors.Wrap(err, "writing baseline document")
		}
	}
	return s, nil
}

// acquire takes the in-process mutex, then the file lock.
func (s *Store) acquire() (func(), error) {
	s.mu.Lock()
	if err := s.lock.Lock(); err != nil {
		s.mu.Unlock()
		return nil, errors.Wrap(err, "locking document")
	}
	return func() {
		_ = s.lock.Unlock()
		s.mu.Unlock()
	}, nil
}

// Load reads the document without the file lock: renames are atomic.
func (s *Store) Load(_ context.Context) (*lms.Snapshot, error) {
	snap, err := s.read()
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return lms.NewSnapshot(), nil
	}
	return snap, nil
}

func (s *Store) Save(_ context.Context, snap *lms.Snapshot) error {
	unlock, err := s.acquire()
	if err != nil {
		return err
	}
	defer unlock()

	current, err := s.read()
	if err != nil {
		return err
	}
	var version int64
	if current != nil {
		version = current.Version
	}
	if snap.Version != version {
		return lms.ErrVersionConflict
	}

	snap.Version++
	if err := s.write(snap); err != nil {
		snap.Version--
		return err
	}
	return nil
}

// read returns nil, without error, when the document does not exist.
func (s *Store) read() (*lms.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading document")
	}
	return lms.DecodeSnapshot(data, s.path)
}

func (s *Store) write(snap *lms.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding document")
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temporary document")
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "writing document")
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "writing document")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "writing document")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "replacing document")
	}
	return nil
}
