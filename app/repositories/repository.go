package repositories

import (
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrSlugTaken = errors.New("slug already in use")
)

// DB wraps the badger handle together with the directory it lives in.
type DB struct {
	*badger.DB
	path   string
	isTemp bool
}

// OpenDB opens (or creates) the badger database at path.
// With inMemory set nothing touches disk. An empty path without inMemory
// opens a throwaway database in a fresh temp dir that Close removes.
func OpenDB(path string, inMemory bool) (*DB, error) {
	isTemp := false
	if inMemory {
		path = ""
	} else if path == "" {
		tempPath, err := os.MkdirTemp("", "postadmin_db_")
		if err != nil {
			return nil, fmt.Errorf("create temp dir: %w", err)
		}
		path = tempPath
		isTemp = true
	}

	opts := badger.DefaultOptions(path).
		WithInMemory(inMemory).
		WithLogger(log.WithField("component", "badger")).
		WithLoggingLevel(badger.WARNING).
		WithNumVersionsToKeep(1)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}

	return &DB{
		DB:     db,
		path:   path,
		isTemp: isTemp,
	}, nil
}

// Path returns the on-disk location, empty for in-memory databases.
func (d *DB) Path() string {
	return d.path
}

func (d *DB) Close() error {
	err := d.DB.Close()
	if d.isTemp {
		err = multierr.Append(err, os.RemoveAll(d.path))
	}
	return err
}
