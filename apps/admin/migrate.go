package main

import (
	"database/sql"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/pkg/errors"
	"github.com/trezcool/goose"

	"github.com/KS-2006-TD/LMS/storage/database/postgres"
)

// migrator holds the goose commands the CLI exposes.
type migrator struct {
	up      func(db *sql.DB, fsys fs.FS, dir string) error
	upByOne func(db *sql.DB, fsys fs.FS, dir string) error
	upTo    func(db *sql.DB, fsys fs.FS, dir string, version int64) error
	down    func(db *sql.DB, fsys fs.FS, dir string) error
	downTo  func(db *sql.DB, fsys fs.FS, dir string, version int64) error
	redo    func(db *sql.DB, fsys fs.FS, dir string) error
}

var gooseMigrator = migrator{ // mockable
	up:      goose.Up,
	upByOne: goose.UpByOne,
	upTo:    goose.UpTo,
	down:    goose.Down,
	downTo:  goose.DownTo,
	redo:    goose.Redo,
}

var errNoDatabase = errors.New("migrate requires the postgres store driver")

func (cli *commandLine) migrate(args []string) error {
	command := args[0]
	version := func() (int64, error) {
		if len(args) < 2 {
			return 0, fmt.Errorf("%s must be of form: migrate %s VERSION", command, command)
		}
		v, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("version must be a number (got '%s')", args[1])
		}
		return v, nil
	}

	var run func(db *sql.DB) error
	switch command {
	case "up":
		run = func(db *sql.DB) error { return gooseMigrator.up(db, postgres.MigrationsFS, postgres.MigrationsDir) }
	case "up-by-one":
		run = func(db *sql.DB) error { return gooseMigrator.upByOne(db, postgres.MigrationsFS, postgres.MigrationsDir) }
	case "down":
		run = func(db *sql.DB) error { return gooseMigrator.down(db, postgres.MigrationsFS, postgres.MigrationsDir) }
	case "redo":
		run = func(db *sql.DB) error { return gooseMigrator.redo(db, postgres.MigrationsFS, postgres.MigrationsDir) }
	case "up-to", "down-to":
		v, err := version()
		if err != nil {
			return err
		}
		to := gooseMigrator.upTo
		if command == "down-to" {
			to = gooseMigrator.downTo
		}
		run = func(db *sql.DB) error { return to(db, postgres.MigrationsFS, postgres.MigrationsDir, v) }
	default:
		return fmt.Errorf("%q: no such command", command)
	}

	if cli.db == nil {
		return errNoDatabase
	}
	return run(cli.db)
}
