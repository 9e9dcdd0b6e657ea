package sessionx

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// ErrEmptySlot reports that the persistence slot holds no session.
var ErrEmptySlot = errors.New("sessionx: slot is empty")

// Store is a single-slot persistence backend for one serialized session.
// Set overwrites the slot wholesale; values are never merged or appended.
// Implementations are the program's analogue of the browser's storage key.
type Store interface {
	Get() (string, error)
	Set(value string) error
	Clear() error
}

// FileStore persists the session blob as a single file on disk.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a FileStore writing to path. The parent directory is
// created on first Set.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: filepath.Clean(path)}
}

func (f *FileStore) Get() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrEmptySlot
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (f *FileStore) Set(value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(f.path, []byte(value), 0o600)
}

func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	mu    sync.Mutex
	value string
	set   bool

	// FailSet, when non-nil, is returned from Set to simulate persistence
	// failures.
	FailSet error
}

func (m *MemStore) Get() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.set {
		return "", ErrEmptySlot
	}
	return m.value, nil
}

func (m *MemStore) Set(value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailSet != nil {
		return m.FailSet
	}
	m.value = value
	m.set = true
	return nil
}

func (m *MemStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.value = ""
	m.set = false
	return nil
}
