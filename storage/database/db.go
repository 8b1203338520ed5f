package database

import (
	"context"

	"github.com/pkg/errors"

	"github.com/KS-2006-TD/LMS/core"
	"github.com/KS-2006-TD/LMS/core/lms"
	"github.com/KS-2006-TD/LMS/storage/database/jsonfile"
	"github.com/KS-2006-TD/LMS/storage/database/memory"
	"github.com/KS-2006-TD/LMS/storage/database/postgres"
	"github.com/KS-2006-TD/LMS/storage/database/redisdb"
)

// Drivers
const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Store is a record store that may hold a connection to release.
type Store interface {
	lms.Store
	Close() error
}

type nopCloser struct{ lms.Store }

func (nopCloser) Close() error { return nil }

// Open returns the record store selected by conf.Store.Driver.
func Open(ctx context.Context, conf *core.Config) (Store, error) {
	switch conf.Store.Driver {
	case DriverFile, "":
		s, err := jsonfile.Open(conf.Store.Path)
		if err != nil {
			return nil, errors.Wrap(err, "opening json document store")
		}
		return nopCloser{s}, nil
	case DriverMemory:
		return nopCloser{memory.Open()}, nil
	case DriverPostgres:
		s, err := postgres.Open(conf.Store.DSN)
		if err != nil {
			return nil, errors.Wrap(err, "opening postgres store")
		}
		if err := postgres.Migrate(s.DB()); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil
	case DriverRedis:
		s, err := redisdb.Open(ctx, conf.Store.RedisAddr, conf.Store.RedisKey)
		if err != nil {
			return nil, errors.Wrap(err, "opening redis store")
		}
		return s, nil
	default:
		return nil, errors.Errorf("unknown store driver %q", conf.Store.Driver)
	}
}

// Init persists the baseline document if the store holds none yet.
func Init(ctx context.Context, store lms.Store) error {
	snap, err := store.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "loading record store")
	}
	if snap.Version > 0 {
		return nil
	}
	if err := store.Save(ctx, snap); err != nil && errors.Cause(err) != lms.ErrVersionConflict {
		return errors.Wrap(err, "saving baseline document")
	}
	return nil
}
