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

		if config.Archive.BaseURL != "https://thesession.org" {
			t.Errorf("expected base URL https://thesession.org, got %s", config.Archive.BaseURL)
		}
		if config.Harvest.Target != 1500 {
			t.Errorf("expected target 1500, got %d", config.Harvest.Target)
		}
		if config.Harvest.PerPage != 50 {
			t.Errorf("expected per_page 50, got %d", config.Harvest.PerPage)
		}
		if config.Harvest.Delay.Duration != time.Second {
			t.Errorf("expected delay 1s, got %v", config.Harvest.Delay)
		}
		if config.Harvest.CheckpointEvery != 10 {
			t.Errorf("expected checkpoint_every 10, got %d", config.Harvest.CheckpointEvery)
		}
		if config.Harvest.Output != "public/tunes.json" {
			t.Errorf("expected output public/tunes.json, got %s", config.Harvest.Output)
		}
		if config.Filter.Threshold != 0.8 {
			t.Errorf("expected threshold 0.8, got %v", config.Filter.Threshold)
		}
		if err := config.Validate(); err != nil {
			t.Errorf("default config should be valid: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Harvest.Output != DefaultConfig().Harvest.Output {
			t.Errorf("created config output doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		t.Run("partial file keeps defaults", func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.toml")
			content := "[harvest]\ntarget = 20\ndelay = \"250ms\"\ntune_type = \"reel\"\n"
			if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			config, err := LoadConfig(configPath)
			if err != nil {
				t.Fatalf("failed to load config: %v", err)
			}

			if config.Harvest.Target != 20 {
				t.Errorf("expected target 20, got %d", config.Harvest.Target)
			}
			if config.Harvest.Delay.Duration != 250*time.Millisecond {
				t.Errorf("expected delay 250ms, got %v", config.Harvest.Delay)
			}
			if config.Harvest.TuneType != "reel" {
				t.Errorf("expected tune type reel, got %s", config.Harvest.TuneType)
			}
			if config.Harvest.PerPage != 50 {
				t.Errorf("expected default per_page 50, got %d", config.Harvest.PerPage)
			}
		})

		t.Run("missing file", func(t *testing.T) {
			if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
				t.Error("expected error for missing file")
			}
		})

		t.Run("invalid toml", func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(configPath, []byte("[harvest\n"), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}
			if _, err := LoadConfig(configPath); err == nil {
				t.Error("expected parse error")
			}
		})

		t.Run("invalid duration", func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(configPath, []byte("[harvest]\ndelay = \"soon\"\n"), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}
			if _, err := LoadConfig(configPath); err == nil {
				t.Error("expected duration error")
			}
		})
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		env := map[string]string{
			"TUNESX_TARGET":     "42",
			"TUNESX_TUNE_TYPE":  "jig",
			"TUNESX_DELAY":      "2s",
			"TUNESX_THRESHOLD":  "0.9",
			"TUNESX_DB_ENABLED": "true",
			"TUNESX_BASE_URL":   "http://localhost:9999",
		}
		lookup := func(k string) (string, bool) {
			v, ok := env[k]
			return v, ok
		}

		config := DefaultConfig()
		if err := config.ApplyEnv(lookup); err != nil {
			t.Fatalf("ApplyEnv() error = %v", err)
		}

		if config.Harvest.Target != 42 {
			t.Errorf("expected target 42, got %d", config.Harvest.Target)
		}
		if config.Harvest.TuneType != "jig" {
			t.Errorf("expected tune type jig, got %s", config.Harvest.TuneType)
		}
		if config.Harvest.Delay.Duration != 2*time.Second {
			t.Errorf("expected delay 2s, got %v", config.Harvest.Delay)
		}
		if config.Filter.Threshold != 0.9 {
			t.Errorf("expected threshold 0.9, got %v", config.Filter.Threshold)
		}
		if !config.Database.Enabled {
			t.Error("expected database to be enabled")
		}
		if config.Archive.BaseURL != "http://localhost:9999" {
			t.Errorf("expected base URL override, got %s", config.Archive.BaseURL)
		}
	})

	t.Run("ApplyEnv rejects bad numbers", func(t *testing.T) {
		lookup := func(k string) (string, bool) {
			if k == "TUNESX_TARGET" {
				return "many", true
			}
			return "", false
		}
		err := DefaultConfig().ApplyEnv(lookup)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(c *Config)
		}{
			{"empty base url", func(c *Config) { c.Archive.BaseURL = "" }},
			{"negative target", func(c *Config) { c.Harvest.Target = -1 }},
			{"zero per page", func(c *Config) { c.Harvest.PerPage = 0 }},
			{"negative delay", func(c *Config) { c.Harvest.Delay.Duration = -time.Second }},
			{"zero checkpoint interval", func(c *Config) { c.Harvest.CheckpointEvery = 0 }},
			{"empty output", func(c *Config) { c.Harvest.Output = "" }},
			{"threshold above one", func(c *Config) { c.Filter.Threshold = 1.5 }},
			{"zero threshold", func(c *Config) { c.Filter.Threshold = 0 }},
			{"database without path", func(c *Config) { c.Database.Enabled = true; c.Database.Path = "" }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				config := DefaultConfig()
				tt.mutate(config)
				if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
				}
			})
		}
	})

	t.Run("LoadEnvFiles", func(t *testing.T) {
		envPath := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(envPath, []byte("TUNESX_TEST_ONLY_VALUE=from-file\n"), 0644); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}
		t.Cleanup(func() { os.Unsetenv("TUNESX_TEST_ONLY_VALUE") })

		if err := LoadEnvFiles(filepath.Join(t.TempDir(), "missing.env"), envPath); err != nil {
			t.Fatalf("LoadEnvFiles() error = %v", err)
		}
		if got := os.Getenv("TUNESX_TEST_ONLY_VALUE"); got != "from-file" {
			t.Errorf("expected value from env file, got %q", got)
		}
	})
}
