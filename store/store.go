// SPDX-License-Identifier: MIT

// Package store defines the artifact store the pipeline persists results to,
// plus an in-memory implementation. Drivers for the local filesystem and
// S3-compatible object storage live in the fs and s3 subpackages.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// Driver identifies a concrete store backend.
type Driver string

const (
	// DriverFS stores artifacts under a local directory.
	DriverFS Driver = "fs"
	// DriverS3 stores artifacts in an S3 / MinIO bucket.
	DriverS3 Driver = "s3"
	// DriverMemory keeps artifacts in process memory (tests, dry runs).
	DriverMemory Driver = "memory"
)

var (
	// ErrNotFound indicates no artifact exists under the key.
	ErrNotFound = errors.New("store: not found")

	// ErrInvalidKey indicates an empty, absolute or escaping key.
	ErrInvalidKey = errors.New("store: invalid key")
)

// Store is a flat key → bytes artifact store. Keys use '/' separators.
// Put overwrites an existing artifact.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Driver() Driver
}

// SanitizeKey rejects keys that are empty, absolute or climb out of the
// store root, and returns the cleaned form.
func SanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key: %w", ErrInvalidKey)
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("absolute key %q: %w", key, ErrInvalidKey)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", fmt.Errorf("key %q contains '..': %w", key, ErrInvalidKey)
		}
	}

	return path.Clean(key), nil
}
