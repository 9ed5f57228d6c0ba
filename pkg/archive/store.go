package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store appends caption records to a single session file.
type Store struct {
	path    string
	mu      sync.RWMutex
	session SessionData
}

// New creates a store for a fresh session file under dir. The file name
// carries the session start time.
func New(dir string) (*Store, error) {
	name := fmt.Sprintf("session_%s.json", time.Now().Format("20060102_150405"))
	return NewAt(filepath.Join(dir, name))
}

// NewAt creates a store at an explicit path. An existing file at that
// path is loaded so the session continues where it left off.
func NewAt(path string) (*Store, error) {
	store := &Store{
		path: path,
		session: SessionData{
			Version:   currentVersion,
			StartedAt: time.Now(),
		},
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := store.load(); err != nil {
			return nil, err
		}
	}

	return store, nil
}

// NewDefault creates a store under the default session directory.
func NewDefault() (*Store, error) {
	dir, err := DefaultDir()
	if err != nil {
		return nil, err
	}
	return New(dir)
}

// DefaultDir returns ~/.scribecam/sessions.
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".scribecam", "sessions"), nil
}

func (s *Store) load() error {
	session, err := LoadSession(s.path)
	if err != nil {
		return err
	}
	s.session = *session
	return nil
}

// save writes the session to disk. The caller holds the lock.
func (s *Store) save() error {
	s.session.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(s.session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// Write to temp file first, then rename (atomic write)
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Append stamps and persists one caption record. The record comes back
// with its generated ID and timestamp filled in.
func (s *Store) Append(rec Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	s.session.Records = append(s.session.Records, rec)
	if err := s.save(); err != nil {
		// Roll the record back so a retry does not double-append.
		s.session.Records = s.session.Records[:len(s.session.Records)-1]
		return Record{}, err
	}
	return rec, nil
}

// Count returns the number of records archived this session.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.session.Records)
}

// Recent returns the newest n records in chronological order. n outside
// the stored range means everything.
func (s *Store) Recent(n int) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 || n > len(s.session.Records) {
		n = len(s.session.Records)
	}
	out := make([]Record, n)
	copy(out, s.session.Records[len(s.session.Records)-n:])
	return out
}

// StartedAt returns when this session began.
func (s *Store) StartedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.StartedAt
}

// Path returns the session file path.
func (s *Store) Path() string {
	return s.path
}

// Sessions lists the session file names under dir, oldest first. A
// missing directory is an empty archive, not an error.
func Sessions(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
