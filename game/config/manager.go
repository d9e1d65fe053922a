package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/seqboard/sequence-server/game/engine"
	"github.com/seqboard/sequence-server/game/service"
)

var (
	ErrPresetNotFound = errors.New("preset not found")
	ErrInvalidPreset  = errors.New("invalid preset")
)

// Manager handles rule preset loading and caching.
type Manager struct {
	presetDir     string
	defaultPreset *service.Preset
	presets       map[string]*service.Preset
	mu            sync.RWMutex
}

// NewManager creates a preset manager over a directory of JSON preset files.
// The directory may be empty; the built-in default is always available.
func NewManager(presetDir string) (*Manager, error) {
	if _, err := os.Stat(presetDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("preset directory does not exist: %s", presetDir)
	}

	return &Manager{
		presetDir:     presetDir,
		defaultPreset: defaultPreset(),
		presets:       make(map[string]*service.Preset),
	}, nil
}

func defaultPreset() *service.Preset {
	return &service.Preset{
		Name:        "Classic",
		Description: "Standard rules: 7-card hands, up to 4 players",
		HandSize:    engine.DefaultHandSize,
		MaxPlayers:  engine.DefaultPlayers,
		Settings:    engine.DefaultSettings(),
	}
}

// GetDefault returns the built-in preset used when a game names none.
func (m *Manager) GetDefault() *service.Preset {
	return m.defaultPreset
}

// LoadPreset loads a preset by name (its filename without extension).
func (m *Manager) LoadPreset(name string) (*service.Preset, error) {
	m.mu.RLock()
	if preset, exists := m.presets[name]; exists {
		m.mu.RUnlock()
		return preset, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if preset, exists := m.presets[name]; exists {
		return preset, nil
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	data, err := os.ReadFile(filepath.Join(m.presetDir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrPresetNotFound
		}
		return nil, fmt.Errorf("failed to read preset file: %w", err)
	}

	var preset service.Preset
	if err := json.Unmarshal(data, &preset); err != nil {
		return nil, fmt.Errorf("failed to parse preset: %w", err)
	}

	if err := ValidatePreset(&preset); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPreset, err)
	}

	m.presets[name] = &preset
	return &preset, nil
}

// ListPresets returns information about all preset files on disk.
func (m *Manager) ListPresets() ([]*service.PresetInfo, error) {
	entries, err := os.ReadDir(m.presetDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset directory: %w", err)
	}

	var infos []*service.PresetInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".json")
		preset, err := m.LoadPreset(name)
		if err != nil {
			continue // skip unreadable presets rather than failing the listing
		}

		infos = append(infos, &service.PresetInfo{
			Filename:    entry.Name(),
			PresetID:    name,
			Name:        preset.Name,
			Description: preset.Description,
			HandSize:    preset.HandSize,
			MaxPlayers:  preset.MaxPlayers,
		})
	}

	return infos, nil
}

// SavePreset writes a preset to disk and refreshes the cache.
func (m *Manager) SavePreset(name string, preset *service.Preset) error {
	if err := ValidatePreset(preset); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPreset, err)
	}

	data, err := json.MarshalIndent(preset, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preset: %w", err)
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	if err := os.WriteFile(filepath.Join(m.presetDir, filename), data, 0644); err != nil {
		return fmt.Errorf("failed to write preset file: %w", err)
	}

	m.mu.Lock()
	m.presets[strings.TrimSuffix(filename, ".json")] = preset
	m.mu.Unlock()

	return nil
}

// ValidatePreset checks a preset's rule values against the roster and hand
// bounds the engine enforces.
func ValidatePreset(preset *service.Preset) error {
	if preset == nil {
		return fmt.Errorf("preset is nil")
	}
	if preset.Name == "" {
		return fmt.Errorf("preset name is required")
	}
	if preset.HandSize <= 0 || preset.HandSize > engine.DefaultHandSize {
		return fmt.Errorf("hand size %d outside (0, %d]", preset.HandSize, engine.DefaultHandSize)
	}
	if preset.MaxPlayers < engine.MinPlayers || preset.MaxPlayers > engine.MaxPlayers {
		return fmt.Errorf("max players %d outside [%d, %d]", preset.MaxPlayers, engine.MinPlayers, engine.MaxPlayers)
	}
	// Every player needs a full opening hand with cards to spare for draws.
	if preset.MaxPlayers*preset.HandSize >= 104 {
		return fmt.Errorf("preset deals more cards than the deck holds")
	}
	return nil
}
