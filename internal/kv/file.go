package kv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
)

const fileSuffix = ".kv"

// FileStore keeps one file per key under a directory. Writes go to a temporary file
// that is renamed over the target, so a reader never sees a half-written value.
type FileStore struct {
	dir string

	mu   sync.Mutex
	self map[string]selfWrite
}

type selfWrite struct {
	value   string
	present bool
}

// OpenFile opens (creating if needed) a file-backed store rooted at dir.
func OpenFile(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("store directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, &UnavailableError{Backend: "file", Cause: err}
	}
	return &FileStore{dir: dir, self: make(map[string]selfWrite)}, nil
}

// Dir returns the root directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+fileSuffix)
}

func keyFromName(name string) (string, bool) {
	if !strings.HasSuffix(name, fileSuffix) {
		return "", false
	}
	key, err := url.PathUnescape(strings.TrimSuffix(name, fileSuffix))
	if err != nil {
		return "", false
	}
	return key, true
}

func (s *FileStore) Get(_ context.Context, key string) (string, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", s.classify(key, err)
	}
	return string(data), nil
}

func (s *FileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.path(key)
	tmp, err := os.CreateTemp(s.dir, filepath.Base(target)+".tmp-*")
	if err != nil {
		return s.classify(key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return s.classify(key, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return s.classify(key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return s.classify(key, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return s.classify(key, err)
	}
	s.self[key] = selfWrite{value: value, present: true}
	return nil
}

func (s *FileStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return s.classify(key, err)
	}
	s.self[key] = selfWrite{}
	return nil
}

func (s *FileStore) Keys(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, &UnavailableError{Backend: "file", Cause: err}
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if key, ok := keyFromName(e.Name()); ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *FileStore) Close() error {
	return nil
}

// changedExternally reports whether the on-disk state of key differs from what this
// store last wrote.
func (s *FileStore) changedExternally(key string) bool {
	data, err := os.ReadFile(s.path(key))
	present := err == nil

	s.mu.Lock()
	defer s.mu.Unlock()
	last, known := s.self[key]
	if !known {
		return true
	}
	if present != last.present {
		return true
	}
	return present && string(data) != last.value
}

func (s *FileStore) classify(key string, err error) error {
	switch {
	case errors.Is(err, syscall.ENOSPC):
		return &QuotaExceededError{Key: key, Cause: err}
	case errors.Is(err, fs.ErrPermission):
		return &UnavailableError{Backend: "file", Cause: err}
	default:
		return fmt.Errorf("file store %s: %w", key, err)
	}
}
