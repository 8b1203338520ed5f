package postgres

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/trezcool/goose"

	"github.com/KS-2006-TD/LMS/core/lms"
)

// MigrationsFS holds the schema migrations, under MigrationsDir.
//go:embed migrations/*.sql
var MigrationsFS embed.FS

const MigrationsDir = "migrations"

// the whole record store lives in a single row
const docID = 1

// Store keeps the record store as a JSONB document in one row, guarded by its version column.
type Store struct {
	db *sqlx.DB
}

var _ lms.Store = (*Store)(nil) // interface compliance check

type row struct {
	Version int64  `db:"version"`
	Doc     []byte `db:"doc"`
}

// Open connects to `dsn` and waits for the database to accept connections.
func Open(dsn string) (*Store, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err := ping(db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) DB() *sql.DB { return s.db.DB }

func (s *Store) Close() error { return s.db.Close() }

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sql.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// Migrate applies every pending migration.
func Migrate(db *sql.DB) error {
	if err := goose.Up(db, MigrationsFS, MigrationsDir); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}

func (s *Store) Load(ctx context.Context) (*lms.Snapshot, error) {
	var r row
	err := s.db.GetContext(ctx, &r, `SELECT version, doc FROM record_store WHERE id = $1`, docID)
	if err == sql.ErrNoRows {
		return lms.NewSnapshot(), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "selecting document")
	}

	snap, err := lms.DecodeSnapshot(r.Doc, "record_store document")
	if err != nil {
		return nil, err
	}
	snap.Version = r.Version
	return snap, nil
}

func (s *Store) Save(ctx context.Context, snap *lms.Snapshot) error {
	next := snap.Version + 1
	doc, err := json.Marshal(withVersion(snap, next))
	if err != nil {
		return errors.Wrap(err, "encoding document")
	}

	var res sql.Result
	if snap.Version == 0 {
		res, err = s.db.ExecContext(ctx,
			`INSERT INTO record_store (id, version, doc) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`,
			docID, next, doc)
	} else {
		res, err = s.db.ExecContext(ctx,
			`UPDATE record_store SET version = $1, doc = $2, updated_at = now() WHERE id = $3 AND version = $4`,
			next, doc, docID, snap.Version)
	}
	if err != nil {
		return errors.Wrap(err, "writing document")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "writing document")
	}
	if n == 0 {
		return lms.ErrVersionConflict
	}
	snap.Version = next
	return nil
}

// withVersion returns a shallow copy of snap carrying `version`, leaving snap untouched until the write succeeds.
func withVersion(snap *lms.Snapshot, version int64) *lms.Snapshot {
	cp := *snap
	cp.Version = version
	return &cp
}
