// Package config handles user configuration for omnichat.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`             // "dark", "light", or path to JSON theme
	PreserveNewLines bool   `json:"preserve_newlines"` // Preserve original line breaks
}

// Config represents the user configuration
type Config struct {
	// APIKey for the Gemini API. The GEMINI_API_KEY environment variable
	// takes precedence when set.
	APIKey string `json:"api_key,omitempty"`
	// Verbose enables debug-level logging to the log file.
	Verbose bool `json:"verbose"`
	// CopyToClipboard copies one-shot query responses to the clipboard.
	CopyToClipboard bool `json:"copy_to_clipboard"`
	// ExportDir is where /export writes transcripts. Defaults to
	// ~/.omnichat/exports.
	ExportDir string         `json:"export_dir,omitempty"`
	Markdown  MarkdownConfig `json:"markdown,omitempty"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	homeDir, _ := os.UserHomeDir()
	return Config{
		Verbose:         false,
		CopyToClipboard: false,
		ExportDir:       filepath.Join(homeDir, ".omnichat", "exports"),
		Markdown: MarkdownConfig{
			Style:            "dark",
			PreserveNewLines: true,
		},
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".omnichat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	// 0o700: the config file may hold an API key
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// LoadConfig reads the config file, falling back to defaults when absent
func LoadConfig() (Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadConfigFrom(path)
}

// LoadConfigFrom reads a config file from an explicit path
func LoadConfigFrom(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return DefaultConfig(), fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes the config file
func SaveConfig(cfg Config) error {
	if _, err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveConfigTo(cfg, path)
}

// SaveConfigTo writes the config to an explicit path
func SaveConfigTo(cfg Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ResolveAPIKey returns the API key to use: the GEMINI_API_KEY environment
// variable when set, otherwise the configured value.
func ResolveAPIKey(cfg Config) string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return cfg.APIKey
}

// GetExportDir returns the export directory, creating it if necessary
func GetExportDir(cfg Config) (string, error) {
	dir := cfg.ExportDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".omnichat", "exports")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	return dir, nil
}
