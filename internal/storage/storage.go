// Package storage provides the local key/value store used for persisted
// client state (auth token, chat threads).
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Well-known storage keys.
const (
	KeyAuthToken   = "auth_token"
	KeyChatThreads = "chat-threads"
)

// ErrNotFound indicates the requested key has no stored value.
var ErrNotFound = errors.New("key not found")

// Store is a small persistent key/value store. Values are opaque byte
// blobs; callers own the encoding.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// FileStore persists each key as a file under a base directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the base directory if needed and returns a store
// rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Get reads the value stored under key.
func (s *FileStore) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Set writes the value atomically: a temp file is written first and then
// renamed over the destination, so a crash never leaves a torn value.
func (s *FileStore) Set(key string, value []byte) error {
	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0600); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("commit %s: %w", key, err)
	}
	return nil
}

// Delete removes the value stored under key. Deleting a missing key is
// not an error.
func (s *FileStore) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) path(key string) string {
	// Keys are fixed constants today, but sanitize anyway.
	safe := strings.ReplaceAll(key, string(filepath.Separator), "_")
	return filepath.Join(s.dir, safe)
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string][]byte)}
}

// Get reads the value stored under key.
func (s *MemStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set stores value under key.
func (s *MemStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	s.values[key] = v
	return nil
}

// Delete removes the value stored under key.
func (s *MemStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
