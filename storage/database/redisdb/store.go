package redisdb

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/KS-2006-TD/LMS/core/lms"
)

const defaultKey = "lms:records"

// Store keeps the record store as a JSON document under a single key.
// Save watches the key so concurrent writers from other processes are detected.
type Store struct {
	client *redis.Client
	key    string
}

var _ lms.Store = (*Store)(nil) // interface compliance check

func Open(ctx context.Context, addr, key string) (*Store, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "pinging redis at %s", addr)
	}
	return New(client, key), nil
}

func New(client *redis.Client, key string) *Store {
	if key == "" {
		key = defaultKey
	}
	return &Store{client: client, key: key}
}

func (s *Store) Close() error { return s.client.Close() }

func (s *Store) Load(ctx context.Context) (*lms.Snapshot, error) {
	return s.get(ctx, s.client)
}

func (s *Store) get(ctx context.Context, cmd redis.Cmdable) (*lms.Snapshot, error) {
	data, err := cmd.Get(ctx, s.key).Bytes()
	if err == redis.Nil {
		return lms.NewSnapshot(), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "getting document")
	}
	return lms.DecodeSnapshot(data, s.key)
}

func (s *Store) Save(ctx context.Context, snap *lms.Snapshot) error {
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := s.get(ctx, tx)
		if err != nil {
			return err
		}
		if current.Version != snap.Version {
			return lms.ErrVersionConflict
		}

		next := *snap
		next.Version++
		data, err := json.Marshal(&next)
		if err != nil {
			return errors.Wrap(err, "encoding document")
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key, data, 0)
			return nil
		})
		return err
	}, s.key)

	switch {
	case err == redis.TxFailedErr:
		return lms.ErrVersionConflict
	case err != nil:
		if errors.Cause(err) == lms.ErrVersionConflict {
			return lms.ErrVersionConflict
		}
		return errors.Wrap(err, "writing document")
	}
	snap.Version++
	return nil
}
