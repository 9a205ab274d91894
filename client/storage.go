package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Keys written to client storage.
const (
	KeyToken = "token"
	KeyUser  = "user"
	KeyCart  = "cart"
)

// Storage is a small string key/value store for session state.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// MemoryStorage lives as long as the process.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryStorage) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// FileStorage keeps every key in one JSON object on disk.
type FileStorage struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

// OpenFileStorage loads path, starting empty when it does not exist yet.
func OpenFileStorage(path string) (*FileStorage, error) {
	fs := &FileStorage{path: path, data: make(map[string]string)}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read storage: %w", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &fs.data); err != nil {
			return nil, fmt.Errorf("decode storage %s: %w", path, err)
		}
	}
	return fs, nil
}

func (f *FileStorage) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

func (f *FileStorage) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	old, had := f.data[key]
	f.data[key] = value
	if err := f.flush(); err != nil {
		if had {
			f.data[key] = old
		} else {
			delete(f.data, key)
		}
		return err
	}
	return nil
}

func (f *FileStorage) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	old, had := f.data[key]
	if !had {
		return nil
	}
	delete(f.data, key)
	if err := f.flush(); err != nil {
		f.data[key] = old
		return err
	}
	return nil
}

// flush writes through a temp file so a crash never leaves half a document.
func (f *FileStorage) flush() error {
	raw, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write storage: %w", err)
	}
	return os.Rename(tmp, f.path)
}
