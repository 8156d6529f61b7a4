// Package storage is the runtime's local key-value store: string keys mapped
// to JSON blobs, persisted as one file.
//
// There is no schema versioning and no atomicity across keys. Readers that
// find a missing or unparseable value fall back to their defaults.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// Well-known keys.
const (
	KeySettings        = "vishwakarma_settings"
	KeyHistory         = "vishwakarma_history"
	KeyBookmarks       = "vishwakarma_bookmarks"
	KeyAIConversations = "vishwakarma_ai_conversations"
)

// ErrCorrupt marks a stored value that could not be decoded.
var ErrCorrupt = errors.New("corrupt stored value")

// Store is a thread-safe string map, optionally backed by a file.
type Store struct {
	path   string
	logger *zap.Logger

	mu   sync.RWMutex
	data map[string]string
}

// Open loads the store at path. An empty path keeps everything in memory. A
// missing file starts empty; an unreadable or corrupt file is logged and
// also starts empty, the way a browser drops a damaged local store.
func Open(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Store{
		path:   path,
		logger: logger,
		data:   make(map[string]string),
	}
	if path != "" {
		s.load()
	}
	return s
}

// NewMemory returns a store that is never written to disk.
func NewMemory() *Store {
	return Open("", nil)
}

func (s *Store) load() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("Failed to read store, starting empty", zap.String("path", s.path), zap.Error(err))
		}
		return
	}

	var data map[string]string
	if err := sonic.Unmarshal(raw, &data); err != nil {
		s.logger.Warn("Corrupt store file, starting empty", zap.String("path", s.path), zap.Error(err))
		return
	}
	if data != nil {
		s.data = data
	}
}

// Path returns the backing file, or "" for a memory store.
func (s *Store) Path() string {
	return s.path
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	return v, ok
}

// Set stores value under key and persists the store.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return s.flushLocked()
}

// Remove deletes keys and persists the store. Missing keys are ignored.
func (s *Store) Remove(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for _, key := range keys {
		if _, ok := s.data[key]; ok {
			delete(s.data, key)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.flushLocked()
}

// Keys returns the stored keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	s.mu.RUnlock()

	slices.Sort(keys)
	return keys
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Clear removes every key.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.data)
	return s.flushLocked()
}

// flushLocked writes the whole map to a temp file and renames it over the
// store file, so a crash leaves either the old or the new contents.
func (s *Store) flushLocked() error {
	if s.path == "" {
		return nil
	}

	raw, err := sonic.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}
