package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rewired-gh/boligpris/internal/models"
)

// FileStore keeps the history list as a JSON file
type FileStore struct {
	mu              sync.Mutex
	filePath        string
	filePermissions os.FileMode
	dirPermissions  os.FileMode
}

// NewFileStore creates a file-backed store.
// If filePath is empty, uses OS-appropriate tmp directory
func NewFileStore(filePath string, filePermissions, dirPermissions os.FileMode) *FileStore {
	if filePath == "" {
		filePath = filepath.Join(os.TempDir(), "boligpris", HistoryKey+".json")
	}
	if filePermissions == 0 {
		filePermissions = 0o644
	}
	if dirPermissions == 0 {
		dirPermissions = 0o755
	}
	return &FileStore{
		filePath:        filePath,
		filePermissions: filePermissions,
		dirPermissions:  dirPermissions,
	}
}

// Path returns the file the list is stored in
func (s *FileStore) Path() string {
	return s.filePath
}

// Load reads the history list from file
func (s *FileStore) Load() ([]models.QueryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	jsonData, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		return []models.QueryRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	records := []models.QueryRecord{}
	if err := json.Unmarshal(jsonData, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history: %w", err)
	}
	if records == nil {
		// literal "null"
		records = []models.QueryRecord{}
	}
	return records, nil
}

// Save writes the history list to file
func (s *FileStore) Save(records []models.QueryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Create data directory if needed
	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, s.dirPermissions); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	if records == nil {
		records = []models.QueryRecord{}
	}
	jsonData, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	// Write to temporary file first (atomic write)
	tempPath := s.filePath + ".tmp"
	if err := os.WriteFile(tempPath, jsonData, s.filePermissions); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	if err := os.Rename(tempPath, s.filePath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}

// Close is a no-op for file storage
func (s *FileStore) Close() error {
	return nil
}
