package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Storage.Backend != BackendLocal {
		t.Errorf("expected default backend %q, got %q", BackendLocal, cfg.Storage.Backend)
	}
	if cfg.Storage.Dir == "" {
		t.Error("expected a default storage dir")
	}
	if cfg.Server.Port != "7700" {
		t.Errorf("expected default port 7700, got %q", cfg.Server.Port)
	}
	if cfg.Scoring.Weights == nil || cfg.Scoring.Tiers == nil {
		t.Error("expected scoring maps to be initialized, got nil")
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid YAML overrides defaults",
			yaml: `
scoring:
  weights:
    height_plateau_start: 1.80
    ffmi_ideal: 24
  tiers:
    chad: 92.5
storage:
  backend: s3
  bucket: tally-data
  endpoint: http://localhost:9000
server:
  port: "9000"
  api_key: secret
`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Scoring.Weights["height_plateau_start"] != 1.80 {
					t.Errorf("expected height_plateau_start 1.80, got %f", cfg.Scoring.Weights["height_plateau_start"])
				}
				if cfg.Scoring.Weights["ffmi_ideal"] != 24 {
					t.Errorf("expected ffmi_ideal 24, got %f", cfg.Scoring.Weights["ffmi_ideal"])
				}
				if cfg.Scoring.Tiers["chad"] != 92.5 {
					t.Errorf("expected chad tier 92.5, got %f", cfg.Scoring.Tiers["chad"])
				}
				if cfg.Storage.Backend != BackendS3 || cfg.Storage.Bucket != "tally-data" {
					t.Errorf("unexpected storage config %+v", cfg.Storage)
				}
				if cfg.Server.Port != "9000" || cfg.Server.APIKey != "secret" {
					t.Errorf("unexpected server config %+v", cfg.Server)
				}
				// untouched defaults survive
				if cfg.Server.CacheSize != 20 {
					t.Errorf("expected default cache size 20, got %d", cfg.Server.CacheSize)
				}
			},
		},
		{
			name:    "invalid YAML returns error",
			yaml:    "{{invalid yaml",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tc.yaml), 0o644); err != nil {
				t.Fatalf("write test config: %v", err)
			}

			cfg, err := Load(path)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.check != nil {
				tc.check(t, cfg)
			}
		})
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "7700" {
		t.Errorf("expected default port, got %q", cfg.Server.Port)
	}
}

func TestScoreDir(t *testing.T) {
	got := ScoreDir("/data/tally")
	if got != filepath.Join("/data/tally", "scores") {
		t.Errorf("ScoreDir = %q", got)
	}
	if !strings.HasSuffix(DataDir(), filepath.Join(".cache", "tally")) {
		t.Errorf("DataDir should end with .cache/tally, got %q", DataDir())
	}
}

func TestFindConfigFile(t *testing.T) {
	writeConfig := func(t *testing.T, root string) string {
		t.Helper()
		configDir := filepath.Join(root, ".tally")
		if err := os.MkdirAll(configDir, 0o755); err != nil {
			t.Fatalf("create config dir: %v", err)
		}
		configPath := filepath.Join(configDir, "config.yaml")
		if err := os.WriteFile(configPath, []byte("{}"), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		return configPath
	}

	t.Run("found in current directory", func(t *testing.T) {
		root := t.TempDir()
		configPath := writeConfig(t, root)

		if got := FindConfigFile(root); got != configPath {
			t.Errorf("FindConfigFile = %q, want %q", got, configPath)
		}
	})

	t.Run("found in parent directory", func(t *testing.T) {
		root := t.TempDir()
		configPath := writeConfig(t, root)

		sub := filepath.Join(root, "a", "b", "c")
		if err := os.MkdirAll(sub, 0o755); err != nil {
			t.Fatalf("create sub: %v", err)
		}

		if got := FindConfigFile(sub); got != configPath {
			t.Errorf("FindConfigFile = %q, want %q", got, configPath)
		}
	})

	t.Run("not found", func(t *testing.T) {
		if got := FindConfigFile(t.TempDir()); got != "" {
			t.Errorf("FindConfigFile = %q, want empty", got)
		}
	})
}
