// SPDX-License-Identifier: MIT

package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

// Memory is a Store backed by a map. Safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

// Driver reports DriverMemory.
func (m *Memory) Driver() Driver { return DriverMemory }

// Put stores a copy of r's content under key.
func (m *Memory) Put(ctx context.Context, key string, r io.Reader) error {
	k, err := SanitizeKey(key)
	if err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	m.mu.Lock()
	m.blobs[k] = b
	m.mu.Unlock()

	return nil
}

// Get returns a reader over the stored bytes.
func (m *Memory) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	k, err := SanitizeKey(key)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	b, ok := m.blobs[k]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("get %s: %w", key, ErrNotFound)
	}

	return io.NopCloser(bytes.NewReader(b)), nil
}

// Exists reports whether key holds an artifact.
func (m *Memory) Exists(ctx context.Context, key string) (bool, error) {
	k, err := SanitizeKey(key)
	if err != nil {
		return false, err
	}
	m.mu.RLock()
	_, ok := m.blobs[k]
	m.mu.RUnlock()

	return ok, nil
}

// Delete removes key and reports whether it existed.
func (m *Memory) Delete(ctx context.Context, key string) (bool, error) {
	k, err := SanitizeKey(key)
	if err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.blobs[k]
	delete(m.blobs, k)

	return ok, nil
}

// List returns the keys starting with prefix, sorted.
func (m *Memory) List(ctx context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for k := range m.blobs {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	return keys, nil
}
