// Package config loads runtime settings. Environment variables drive the
// per-run knobs; a small JSON file holds the operator's persistent
// preferences.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Preferences holds the operator's persistent configuration.
type Preferences struct {
	LLMProvider string `json:"llm_provider,omitempty"` // openai, anthropic, deepseek, etc.
	Model       string `json:"model,omitempty"`        // Default model name
	DefaultMode string `json:"default_mode,omitempty"` // chat or auto
	EthRPCURL   string `json:"eth_rpc_url,omitempty"`  // Preferred RPC endpoint
}

// Manager handles loading and saving the preferences file.
type Manager struct {
	configDir string
}

// NewManager creates a manager rooted in the user config directory.
func NewManager() (*Manager, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user config dir: %w", err)
	}
	return &Manager{
		configDir: filepath.Join(configDir, "basepilot"),
	}, nil
}

// newManagerAt pins the manager to an explicit directory, used in tests.
func newManagerAt(dir string) *Manager {
	return &Manager{configDir: dir}
}

// GetConfigPath returns the absolute path to the config.json file.
func (m *Manager) GetConfigPath() string {
	return filepath.Join(m.configDir, "config.json")
}

// Load reads the preferences from disk. A missing file yields empty
// preferences and no error.
func (m *Manager) Load() (*Preferences, error) {
	path := m.GetConfigPath()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Preferences{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var prefs Preferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("failed to parse config json: %w", err)
	}

	return &prefs, nil
}

// Save writes the preferences to disk with owner-only permissions.
func (m *Manager) Save(prefs *Preferences) error {
	if err := os.MkdirAll(m.configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.GetConfigPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Exists checks if the preferences file has been created.
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.GetConfigPath())
	return !os.IsNotExist(err)
}
