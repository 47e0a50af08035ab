// Package history appends confirmed selections to the persisted query log.
package history

import (
	"fmt"

	"github.com/rewired-gh/boligpris/internal/logger"
	"github.com/rewired-gh/boligpris/internal/models"
	"github.com/rewired-gh/boligpris/internal/storage"
)

// Recorder performs read-modify-write cycles on the history store.
type Recorder struct {
	store      storage.Store
	maxEntries int
}

// NewRecorder creates a recorder. maxEntries <= 0 keeps every entry.
func NewRecorder(store storage.Store, maxEntries int) *Recorder {
	return &Recorder{store: store, maxEntries: maxEntries}
}

// List returns the persisted records. Unreadable history is treated as empty.
func (r *Recorder) List() []models.QueryRecord {
	records, err := r.store.Load()
	if err != nil {
		logger.Warn("History unreadable, treating as empty: %v", err)
		return []models.QueryRecord{}
	}
	return records
}

// Append adds sel to the end of the log and writes the whole list back.
func (r *Recorder) Append(sel models.Selection) error {
	records := append(r.List(), sel.Record())
	if r.maxEntries > 0 && len(records) > r.maxEntries {
		records = records[len(records)-r.maxEntries:]
	}
	if err := r.store.Save(records); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	logger.Debug("History now holds %d entries", len(records))
	return nil
}

// Latest returns the most recently appended record.
func (r *Recorder) Latest() (models.QueryRecord, bool) {
	records := r.List()
	if len(records) == 0 {
		return models.QueryRecord{}, false
	}
	return records[len(records)-1], true
}
