// Package storage persists the application's collections as JSON blobs
// under fixed keys. The stores own all domain logic; this layer is a plain
// key-value get/set/delete with no knowledge of what the blobs contain.
package storage

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("storage: not found")
	// ErrPersistence wraps any failure to read or write the backing store.
	// Callers treat in-memory state as authoritative when a write fails.
	ErrPersistence = errors.New("storage: persistence failure")
)

// Keys of the persisted blobs.
const (
	KeyTasks         = "tasks"
	KeyDailyHabits   = "daily_habits"
	KeyLastResetDate = "last_reset_date"
	KeySettings      = "settings"
	// KeyTheme mirrors the theme setting as a bare scalar for backward
	// compatibility with older state files.
	KeyTheme = "theme"
)

type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
