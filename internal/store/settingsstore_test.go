package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/schedulr/schedulr/internal/model"
	"github.com/schedulr/schedulr/internal/storage"
)

func newSettingsStore(t *testing.T, kv *storage.MemoryKV) *SettingsStore {
	t.Helper()
	s, err := NewSettingsStore(context.Background(), kv)
	if err != nil {
		t.Fatalf("new settings store: %v", err)
	}
	return s
}

func TestSettingsDefaultsOnFirstRun(t *testing.T) {
	s := newSettingsStore(t, storage.NewMemoryKV())
	if got := s.GetString(model.SettingTheme); got != "dark" {
		t.Fatalf("theme default: got %q", got)
	}
	if got := s.GetInt(model.SettingFocusWorkMinutes); got != 25 {
		t.Fatalf("focus work default: got %d", got)
	}
	if got := s.Get("no-such-key"); got != nil {
		t.Fatalf("unset key must be nil, got %v", got)
	}
}

func TestSettingsStoredValuesMergeOverDefaults(t *testing.T) {
	kv := storage.NewMemoryKV()
	ctx := context.Background()
	if err := kv.Set(ctx, storage.KeySettings, []byte(`{"theme":"light","custom":"kept"}`)); err != nil {
		t.Fatal(err)
	}

	s := newSettingsStore(t, kv)
	if got := s.GetString(model.SettingTheme); got != "light" {
		t.Fatalf("stored theme must win: got %q", got)
	}
	if got := s.GetString(model.SettingDefaultPriority); got != "medium" {
		t.Fatalf("missing key must fall back to default: got %q", got)
	}
	if got := s.GetString("custom"); got != "kept" {
		t.Fatalf("unknown stored key must be preserved: got %q", got)
	}
}

func TestSettingsUpdatePersistsAndMirrorsTheme(t *testing.T) {
	kv := storage.NewMemoryKV()
	ctx := context.Background()
	s := newSettingsStore(t, kv)

	if err := s.Update(ctx, model.SettingTheme, "light"); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	mirror, err := kv.Get(ctx, storage.KeyTheme)
	if err != nil {
		t.Fatalf("theme mirror missing: %v", err)
	}
	if string(mirror) != "light" {
		t.Fatalf("theme mirror: got %q", mirror)
	}

	reloaded := newSettingsStore(t, kv)
	if got := reloaded.GetString(model.SettingTheme); got != "light" {
		t.Fatalf("reloaded theme: got %q", got)
	}
}

func TestSettingsUpdateMultiple(t *testing.T) {
	kv := storage.NewMemoryKV()
	s := newSettingsStore(t, kv)

	err := s.UpdateMultiple(context.Background(), model.Settings{
		model.SettingTaskSortBy:       "priority",
		model.SettingFocusWorkMinutes: 50,
	})
	if err != nil {
		t.Fatalf("update multiple failed: %v", err)
	}
	if got := s.GetString(model.SettingTaskSortBy); got != "priority" {
		t.Fatalf("taskSortBy: got %q", got)
	}
	if got := s.GetInt(model.SettingFocusWorkMinutes); got != 50 {
		t.Fatalf("focus work: got %d", got)
	}
}

func TestSettingsExportImportRoundTrip(t *testing.T) {
	kv := storage.NewMemoryKV()
	ctx := context.Background()
	s := newSettingsStore(t, kv)

	if err := s.Update(ctx, model.SettingTheme, "light"); err != nil {
		t.Fatal(err)
	}
	if err := s.Update(ctx, "custom", "value"); err != nil {
		t.Fatal(err)
	}
	before := s.All()

	raw, err := s.ExportJSON()
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if err := s.ResetToDefaults(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.ImportJSON(ctx, raw); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	// Compare through a fresh load so both sides carry JSON number types.
	reloaded := newSettingsStore(t, kv)
	got := reloaded.All()
	want := model.Settings{}
	for k, v := range before {
		want[k] = v
	}
	if got[model.SettingTheme] != want[model.SettingTheme] || got["custom"] != want["custom"] {
		t.Fatalf("round trip lost values:\ngot  %+v\nwant %+v", got, want)
	}
	if reloaded.GetInt(model.SettingFocusWorkMinutes) != s.GetInt(model.SettingFocusWorkMinutes) {
		t.Fatal("round trip changed numeric setting")
	}
	if len(got) != len(want) {
		t.Fatalf("round trip changed key set:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestSettingsImportRejectsMalformedPayload(t *testing.T) {
	kv := storage.NewMemoryKV()
	ctx := context.Background()
	s := newSettingsStore(t, kv)
	before := s.All()

	err := s.ImportJSON(ctx, []byte(`{"theme": `))
	if !errors.Is(err, ErrImport) {
		t.Fatalf("expected ErrImport, got %v", err)
	}
	if !reflect.DeepEqual(s.All(), before) {
		t.Fatal("failed import must not change state")
	}
	if _, err := kv.Get(ctx, storage.KeySettings); !errors.Is(err, storage.ErrNotFound) {
		t.Fatal("failed import must not persist")
	}
}

func TestSettingsResetDiscardsUnknownKeys(t *testing.T) {
	kv := storage.NewMemoryKV()
	ctx := context.Background()
	s := newSettingsStore(t, kv)

	if err := s.Update(ctx, "custom", "value"); err != nil {
		t.Fatal(err)
	}
	if err := s.ResetToDefaults(ctx); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if got := s.Get("custom"); got != nil {
		t.Fatalf("reset must drop unknown keys, got %v", got)
	}
	if got := s.GetString(model.SettingTheme); got != "dark" {
		t.Fatalf("reset theme: got %q", got)
	}
}

func TestSettingsGetIntAcceptsJSONNumbers(t *testing.T) {
	kv := storage.NewMemoryKV()
	if err := kv.Set(context.Background(), storage.KeySettings, []byte(`{"focusWorkMinutes": 45}`)); err != nil {
		t.Fatal(err)
	}
	s := newSettingsStore(t, kv)
	if got := s.GetInt(model.SettingFocusWorkMinutes); got != 45 {
		t.Fatalf("float64-decoded number: got %d", got)
	}
}
