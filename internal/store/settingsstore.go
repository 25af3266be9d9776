package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/schedulr/schedulr/internal/model"
	"github.com/schedulr/schedulr/internal/storage"
)

// SettingsStore owns the flat preference map. Stored values are merged over
// the defaults at load, so adding a new default never requires a data
// migration. The theme preference is additionally mirrored to a bare scalar
// key for backward compatibility with older state files.
type SettingsStore struct {
	kv       storage.KV
	settings model.Settings
}

func NewSettingsStore(ctx context.Context, kv storage.KV) (*SettingsStore, error) {
	s := &SettingsStore{kv: kv, settings: model.DefaultSettings()}
	raw, err := kv.Get(ctx, storage.KeySettings)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return s, nil
		}
		return nil, fmt.Errorf("load settings: %w", err)
	}
	stored := model.Settings{}
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	for k, v := range stored {
		s.settings[k] = v
	}
	return s, nil
}

// Get returns the raw value for a key, or nil if unset.
func (s *SettingsStore) Get(key string) any {
	return s.settings[key]
}

// GetString returns the value for a key if it is a string, else "".
func (s *SettingsStore) GetString(key string) string {
	if v, ok := s.settings[key].(string); ok {
		return v
	}
	return ""
}

// GetInt returns the value for a key as an int. JSON round-trips numbers as
// float64, so both forms are accepted.
func (s *SettingsStore) GetInt(key string) int {
	switch v := s.settings[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

// All returns an independent copy of the full preference map.
func (s *SettingsStore) All() model.Settings {
	return s.settings.Clone()
}

// Update sets one preference and persists.
func (s *SettingsStore) Update(ctx context.Context, key string, value any) error {
	s.settings[key] = value
	return s.persist(ctx)
}

// UpdateMultiple merges a patch of preferences and persists once.
func (s *SettingsStore) UpdateMultiple(ctx context.Context, patch model.Settings) error {
	for k, v := range patch {
		s.settings[k] = v
	}
	return s.persist(ctx)
}

// ResetToDefaults discards every preference, including unknown keys.
func (s *SettingsStore) ResetToDefaults(ctx context.Context) error {
	s.settings = model.DefaultSettings()
	return s.persist(ctx)
}

// ExportJSON serializes the settings for download.
func (s *SettingsStore) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(s.settings, "", "  ")
}

// ImportJSON parses an exported settings blob and merges it over the
// current preferences. Unknown keys are preserved. A malformed payload is
// rejected with ErrImport before any state changes.
func (s *SettingsStore) ImportJSON(ctx context.Context, raw []byte) error {
	incoming := model.Settings{}
	if err := json.Unmarshal(raw, &incoming); err != nil {
		return fmt.Errorf("%w: %v", ErrImport, err)
	}
	for k, v := range incoming {
		s.settings[k] = v
	}
	return s.persist(ctx)
}

func (s *SettingsStore) persist(ctx context.Context) error {
	raw, err := json.Marshal(s.settings)
	if err != nil {
		return fmt.Errorf("%w: encode settings: %v", storage.ErrPersistence, err)
	}
	if err := s.kv.Set(ctx, storage.KeySettings, raw); err != nil {
		return err
	}
	// Keep the legacy scalar in step with the blob.
	return s.kv.Set(ctx, storage.KeyTheme, []byte(s.GetString(model.SettingTheme)))
}
