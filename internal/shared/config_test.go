package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()
		if config.Database.Path != "./comix.db" {
			t.Errorf("expected database path ./comix.db, got %s", config.Database.Path)
		}
		if config.Server.BaseURL != "http://127.0.0.1:5000/api" {
			t.Errorf("expected base URL http://127.0.0.1:5000/api, got %s", config.Server.BaseURL)
		}
		if config.Search.Debounce() != 300*time.Millisecond {
			t.Errorf("expected 300ms debounce, got %v", config.Search.Debounce())
		}
		if config.Server.Timeout() != 15*time.Second {
			t.Errorf("expected 15s timeout, got %v", config.Server.Timeout())
		}
		if err := config.Validate(); err != nil {
			t.Errorf("expected default config to be valid: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}
		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		testConfig := `[server]
base_url = "https://comics.example.com/api"
requests_per_second = 2.5

[search]
debounce_ms = 150

[logging]
level = "debug"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}
		if config.Server.BaseURL != "https://comics.example.com/api" {
			t.Errorf("expected custom base URL, got %s", config.Server.BaseURL)
		}
		if config.Server.RequestsPerSecond != 2.5 {
			t.Errorf("expected 2.5 requests per second, got %v", config.Server.RequestsPerSecond)
		}
		if config.Search.DebounceMS != 150 {
			t.Errorf("expected debounce 150, got %d", config.Search.DebounceMS)
		}
		if config.Database.Path != "./comix.db" {
			t.Errorf("expected missing keys to keep defaults, got database path %s", config.Database.Path)
		}
	})

	t.Run("LoadConfig errors", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}

		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[server\nbase_url = "), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if _, err := LoadConfig(configPath); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig for bad TOML, got %v", err)
		}

		if err := os.WriteFile(configPath, []byte("[server]\nbase_url = \"comics.local\"\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if _, err := LoadConfig(configPath); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig for non-http base URL, got %v", err)
		}
	})
}
