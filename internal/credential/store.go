package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	// configDir is relative to the user's home directory
	configDir = ".config/rue"

	// fileName is the credential file inside configDir
	fileName = "rue.json"
)

// ErrNotPaired is returned by Load when no credential has been saved yet.
var ErrNotPaired = errors.New("no stored credential (run 'rue pair' first)")

// PersistenceError describes a failed read or write of the credential file.
type PersistenceError struct {
	Op   string // "save", "load" or "delete"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("credential %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// DefaultPath returns the credential path under the given home directory.
func DefaultPath(home string) string {
	return filepath.Join(home, configDir, fileName)
}

// Store persists a single Credential as JSON at a fixed path.
// Saves overwrite the previous file; there is no merging or history.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// NewDefaultStore creates a store at DefaultPath for the current user.
func NewDefaultStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot determine home directory: %w", err)
	}
	return NewStore(DefaultPath(home)), nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Save writes the credential, creating the parent directory if needed.
// The write goes through a temporary file and a rename so a crash never
// leaves a truncated credential behind.
func (s *Store) Save(c *Credential) error {
	if c == nil {
		return s.fail("save", errors.New("nil credential"))
	}
	if err := c.Validate(); err != nil {
		return s.fail("save", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return s.fail("save", fmt.Errorf("failed to create config directory: %w", err))
	}

	data, err := json.Marshal(c)
	if err != nil {
		return s.fail("save", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return s.fail("save", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return s.fail("save", err)
	}
	return nil
}

// Load reads the stored credential. A missing file yields ErrNotPaired.
func (s *Store) Load() (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, s.fail("load", fmt.Errorf("%w: %w", ErrNotPaired, err))
		}
		return nil, s.fail("load", err)
	}

	var c Credential
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, s.fail("load", fmt.Errorf("failed to parse credential file: %w", err))
	}
	if err := c.Validate(); err != nil {
		return nil, s.fail("load", err)
	}
	return &c, nil
}

// Delete removes the stored credential. Deleting a missing file is not an error.
func (s *Store) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return s.fail("delete", err)
	}
	return nil
}

func (s *Store) fail(op string, err error) error {
	return &PersistenceError{Op: op, Path: s.path, Err: err}
}
