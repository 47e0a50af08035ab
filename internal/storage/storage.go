// Package storage persists the query history log.
//
// The log is a single JSON list of records stored under the key "history".
// Every save overwrites the whole list; there is no schema versioning.
// Two backends are provided: a JSON file written atomically, and a SQLite
// key/value table for deployments that already keep state in a database.
package storage

import (
	"fmt"
	"os"

	"github.com/rewired-gh/boligpris/internal/models"
)

// HistoryKey is the key the history list is stored under.
const HistoryKey = "history"

// Store reads and writes the full history list.
type Store interface {
	// Load returns the persisted list. A missing list is not an error and
	// yields an empty slice; unparsable data is reported as an error.
	Load() ([]models.QueryRecord, error)
	// Save replaces the persisted list.
	Save(records []models.QueryRecord) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Options selects and configures a backend.
type Options struct {
	Backend         string
	FilePath        string
	SQLitePath      string
	FilePermissions os.FileMode
	DirPermissions  os.FileMode
}

// Open creates the configured backend.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case BackendFile, "":
		return NewFileStore(opts.FilePath, opts.FilePermissions, opts.DirPermissions), nil
	case BackendSQLite:
		return NewSQLiteStore(opts.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", opts.Backend)
	}
}
