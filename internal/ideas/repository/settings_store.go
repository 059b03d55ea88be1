package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/seniordesign-sys/ideagen-backend/internal/kv"
)

// Settings are the user preferences kept next to the projects.
type Settings struct {
	APIKey      string `json:"-"`
	Model       string `json:"model"`
	CRTEffect   string `json:"crt_effect"`
	ColorScheme string `json:"color_scheme"`
}

const (
	defaultCRTEffect   = "on"
	defaultColorScheme = "green"
)

// SettingsStore reads and writes credential, model and display preferences.
type SettingsStore struct {
	kv           kv.Store
	defaultModel string
}

func NewSettingsStore(store kv.Store, defaultModel string) *SettingsStore {
	return &SettingsStore{kv: store, defaultModel: defaultModel}
}

// Load returns the stored settings with defaults for anything unset.
func (s *SettingsStore) Load(ctx context.Context) (Settings, error) {
	out := Settings{
		Model:       s.defaultModel,
		CRTEffect:   defaultCRTEffect,
		ColorScheme: defaultColorScheme,
	}

	fields := []struct {
		key string
		dst *string
	}{
		{KeyAPIKey, &out.APIKey},
		{KeyModel, &out.Model},
		{KeyCRTEffect, &out.CRTEffect},
		{KeyColorScheme, &out.ColorScheme},
	}
	for _, f := range fields {
		v, err := s.kv.Get(ctx, f.key)
		if errors.Is(err, kv.ErrNotFound) {
			continue
		}
		if err != nil {
			return Settings{}, fmt.Errorf("load %s: %w", f.key, err)
		}
		*f.dst = v
	}
	return out, nil
}

// SaveCredentials stores the API key and the chosen model.
func (s *SettingsStore) SaveCredentials(ctx context.Context, apiKey, model string) error {
	if err := s.kv.Set(ctx, KeyAPIKey, apiKey); err != nil {
		return err
	}
	return s.SaveModel(ctx, model)
}

// SaveModel stores model, falling back to the default when it is empty.
func (s *SettingsStore) SaveModel(ctx context.Context, model string) error {
	if strings.TrimSpace(model) == "" {
		model = s.defaultModel
	}
	return s.kv.Set(ctx, KeyModel, model)
}

// Update applies a settings form: the key is only replaced when a new one is
// given, everything else is always written.
func (s *SettingsStore) Update(ctx context.Context, in Settings) error {
	if key := strings.TrimSpace(in.APIKey); key != "" {
		if err := s.kv.Set(ctx, KeyAPIKey, key); err != nil {
			return err
		}
	}
	if err := s.SaveModel(ctx, in.Model); err != nil {
		return err
	}
	if in.CRTEffect != "" {
		if err := s.kv.Set(ctx, KeyCRTEffect, in.CRTEffect); err != nil {
			return err
		}
	}
	if in.ColorScheme != "" {
		if err := s.kv.Set(ctx, KeyColorScheme, in.ColorScheme); err != nil {
			return err
		}
	}
	return nil
}

// MarkVisited records the first visit and reports whether this call was it.
func (s *SettingsStore) MarkVisited(ctx context.Context) (bool, error) {
	_, err := s.kv.Get(ctx, KeyHasVisited)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, kv.ErrNotFound) {
		return false, err
	}
	if err := s.kv.Set(ctx, KeyHasVisited, "true"); err != nil {
		return false, err
	}
	return true, nil
}
