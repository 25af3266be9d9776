package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func newTestKV(t *testing.T) *SQLiteKV {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	kv, err := NewSQLiteKV(db)
	if err != nil {
		t.Fatalf("new kv: %v", err)
	}
	return kv
}

func TestSQLiteKVSetGetRoundTrip(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	if err := kv.Set(ctx, KeyTasks, []byte(`[{"id":"t1"}]`)); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, err := kv.Get(ctx, KeyTasks)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(got) != `[{"id":"t1"}]` {
		t.Fatalf("unexpected value: %s", got)
	}
}

func TestSQLiteKVSetOverwrites(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	if err := kv.Set(ctx, KeyLastResetDate, []byte("2025-06-09")); err != nil {
		t.Fatalf("first set failed: %v", err)
	}
	if err := kv.Set(ctx, KeyLastResetDate, []byte("2025-06-10")); err != nil {
		t.Fatalf("second set failed: %v", err)
	}
	got, err := kv.Get(ctx, KeyLastResetDate)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(got) != "2025-06-10" {
		t.Fatalf("unexpected value: %s", got)
	}
}

func TestSQLiteKVMissingKey(t *testing.T) {
	kv := newTestKV(t)
	if _, err := kv.Get(context.Background(), "no-such-key"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteKVDelete(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	if err := kv.Set(ctx, KeySettings, []byte(`{}`)); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := kv.Delete(ctx, KeySettings); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := kv.Get(ctx, KeySettings); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	// Deleting an absent key is a no-op.
	if err := kv.Delete(ctx, KeySettings); err != nil {
		t.Fatalf("delete absent key failed: %v", err)
	}
}

func TestMigrateUpIsIdempotent(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()
	if err := MigrateUp(db); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestMemoryKVFailWrites(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()
	if err := kv.Set(ctx, KeyTasks, []byte("[]")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	kv.FailWrites = true
	if err := kv.Set(ctx, KeyTasks, []byte("[]")); !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}
