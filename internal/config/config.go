// Package config loads guard-station server configuration from a YAML file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/prasong/village-guard/internal/visitor"
)

// Config holds the server configuration.
type Config struct {
	// Port is the HTTP listen port.
	Port int `yaml:"port"`
	// DBPath is the SQLite database holding API keys.
	DBPath string `yaml:"db_path"`
	// SheetURL is the spreadsheet-backed record store endpoint.
	SheetURL string `yaml:"sheet_url"`
	// OCRURL and OCRKey configure the vision extraction endpoint. Empty URL
	// disables extraction.
	OCRURL string `yaml:"ocr_url"`
	OCRKey string `yaml:"ocr_key"`
	// LineToken and LineRecipient configure push notifications. Empty token
	// disables them.
	LineToken     string `yaml:"line_token"`
	LineRecipient string `yaml:"line_recipient"`
	// NamePlaceholder is stored for check-ins without a name.
	NamePlaceholder string `yaml:"name_placeholder"`
	// StrictHouses rejects house numbers missing from the registry.
	StrictHouses bool `yaml:"strict_houses"`
	// DevMode switches logging to human-readable text.
	DevMode bool `yaml:"dev_mode"`
}

// DefaultPath returns the default config file path: ~/.config/vg/server.yaml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "vg", "server.yaml"), nil
}

// DefaultDBPath returns the default API-key database path.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "vg", "guard.db"), nil
}

// Load reads configuration from path (a missing file yields defaults), then
// applies environment overrides. SheetURL is the only required setting.
func Load(path string) (Config, error) {
	cfg := Config{
		Port:            8080,
		NamePlaceholder: visitor.DefaultNamePlaceholder,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing config: %w", err)
			}
		}
	}

	applyEnv(&cfg)

	if cfg.DBPath == "" {
		dbPath, err := DefaultDBPath()
		if err != nil {
			return Config{}, err
		}
		cfg.DBPath = dbPath
	}
	if cfg.NamePlaceholder == "" {
		cfg.NamePlaceholder = visitor.DefaultNamePlaceholder
	}
	if cfg.SheetURL == "" {
		return Config{}, fmt.Errorf("sheet_url is required (or set VG_SHEET_URL)")
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("VG_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("VG_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("VG_SHEET_URL"); v != "" {
		cfg.SheetURL = v
	}
	if v := os.Getenv("VG_OCR_URL"); v != "" {
		cfg.OCRURL = v
	}
	if v := os.Getenv("VG_OCR_KEY"); v != "" {
		cfg.OCRKey = v
	}
	if v := os.Getenv("VG_LINE_TOKEN"); v != "" {
		cfg.LineToken = v
	}
	if v := os.Getenv("VG_LINE_RECIPIENT"); v != "" {
		cfg.LineRecipient = v
	}
	if v := os.Getenv("VG_NAME_PLACEHOLDER"); v != "" {
		cfg.NamePlaceholder = v
	}
	if v := os.Getenv("VG_STRICT_HOUSES"); v != "" {
		cfg.StrictHouses = v == "true"
	}
	if v := os.Getenv("VG_DEV_MODE"); v != "" {
		cfg.DevMode = v == "true"
	}
}
