package lms

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/KS-2006-TD/LMS/core"
)

const defaultMaxAttempts = 3

var (
	errCourseNotFound     = core.NewNotFoundError("Course not found")
	errAssignmentNotFound = core.NewNotFoundError("Assignment not found")
	errSubmissionNotFound = core.NewNotFoundError("Submission not found")
	errUserNotFound       = core.NewNotFoundError("User not found")

	mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lms_mutations_total",
		Help: "Record store mutations by operation and outcome.",
	}, []string{"op", "outcome"})
	conflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lms_store_conflicts_total",
		Help: "Saves rejected because the document changed since it was loaded.",
	})
)

// Service runs every domain operation against the record store.
//
// Mutations are serialized: one read-modify-write at a time per process, and
// the store's version check catches writers from other processes sharing the
// same backend, in which case the mutation is replayed on a fresh snapshot.
type Service struct {
	store   Store
	files   FileStorage
	mailSvc core.EmailService // optional
	logger  core.Logger

	mu          sync.Mutex
	maxAttempts int

	NowFunc func() time.Time // mockable
	NewID   func() string    // mockable
}

// NewService returns a Service. mailSvc may be nil, in which case notifications are not emailed.
func NewService(store Store, files FileStorage, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{
		store:       store,
		files:       files,
		mailSvc:     mailSvc,
		logger:      logger,
		maxAttempts: defaultMaxAttempts,
		NowFunc:     time.Now,
		NewID:       uuid.NewString,
	}
}

// mutation is the unit of work handed to update: the working snapshot plus
// what the operation needs to build records.
type mutation struct {
	*Snapshot
	svc      *Service
	now      time.Time
	notified []Notification
}

func (m *mutation) newID() string { return m.svc.NewID() }

// view loads a snapshot for read-only operations.
func (svc *Service) view(ctx context.Context) (*Snapshot, error) {
	snap, err := svc.store.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading record store")
	}
	return snap, nil
}

// update runs fn on a fresh snapshot and persists the result. fn must only
// touch the snapshot (and its own return values) since it can be replayed.
// Notification emails go out once the write lock is released.
func (svc *Service) update(ctx context.Context, op string, fn func(m *mutation) error) error {
	snap, notified, err := svc.commit(ctx, op, fn)
	if err != nil {
		return err
	}
	svc.mailNotifications(snap, notified)
	return nil
}

// commit is the locked read-modify-write loop of update. It returns the
// persisted snapshot and the notifications the mutation created.
func (svc *Service) commit(ctx context.Context, op string, fn func(m *mutation) error) (*Snapshot, []Notification, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	for attempt := 1; ; attempt++ {
		snap, err := svc.store.Load(ctx)
		if err != nil {
			mutationsTotal.WithLabelValues(op, "error").Inc()
			return nil, nil, errors.Wrap(err, "loading record store")
		}

		m := &mutation{Snapshot: snap, svc: svc, now: svc.NowFunc().UTC()}
		if err := fn(m); err != nil {
			mutationsTotal.WithLabelValues(op, "rejected").Inc()
			return nil, nil, err
		}

		err = svc.store.Save(ctx, snap)
		if err == nil {
			mutationsTotal.WithLabelValues(op, "ok").Inc()
			return snap, m.notified, nil
		}
		if errors.Cause(err) != ErrVersionConflict {
			mutationsTotal.WithLabelValues(op, "error").Inc()
			return nil, nil, errors.Wrap(err, "saving record store")
		}
		conflictsTotal.Inc()
		if attempt >= svc.maxAttempts {
			mutationsTotal.WithLabelValues(op, "error").Inc()
			return nil, nil, errors.Wrapf(err, "%s: giving up after %d attempts", op, attempt)
		}
		svc.logger.Warn(fmt.Sprintf("%s: record store changed concurrently, retrying (attempt %d)", op, attempt))
	}
}
