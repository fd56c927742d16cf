/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package localcache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/bytedance/sonic"
)

// Backend is a string key/value store in the manner of browser local storage.
type Backend interface {
	GetItem(key string) (string, bool)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// MemoryBackend is a thread-safe in-memory Backend.
type MemoryBackend struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{items: map[string]string{}}
}

func (m *MemoryBackend) GetItem(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok
}

func (m *MemoryBackend) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MemoryBackend) RemoveItem(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// Keys returns the stored keys (for testing).
func (m *MemoryBackend) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of stored keys.
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// FileBackend is a Backend persisting all items as one JSON document.
// Every write rewrites the file.
type FileBackend struct {
	mu    sync.Mutex
	path  string
	items map[string]string
}

// OpenFileBackend reads the document at path. A missing file is an empty backend.
func OpenFileBackend(path string) (*FileBackend, error) {
	f := &FileBackend{path: path, items: map[string]string{}}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return f, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) > 0 {
		if err := sonic.Unmarshal(data, &f.items); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
	}
	return f, nil
}

func (f *FileBackend) GetItem(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.items[key]
	return v, ok
}

func (f *FileBackend) SetItem(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	old, existed := f.items[key]
	f.items[key] = value
	if err := f.flush(); err != nil {
		if existed {
			f.items[key] = old
		} else {
			delete(f.items, key)
		}
		return err
	}
	return nil
}

func (f *FileBackend) RemoveItem(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[key]; !ok {
		return nil
	}
	delete(f.items, key)
	return f.flush()
}

func (f *FileBackend) flush() error {
	data, err := sonic.MarshalIndent(f.items, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	return os.Rename(tmp, f.path)
}
