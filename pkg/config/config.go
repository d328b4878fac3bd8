// Package config handles loading and managing tally configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for tally.
type Config struct {
	Scoring ScoringConfig `yaml:"scoring"`
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
}

// ScoringConfig overrides the calculator's curve parameters and tier
// thresholds. Keys left out keep their defaults.
type ScoringConfig struct {
	Weights map[string]float64 `yaml:"weights"` // e.g. height_plateau_start: 1.80
	Tiers   map[string]float64 `yaml:"tiers"`   // tier key -> min percentage
}

// StorageConfig selects where grade books, rental desks and saved scores live.
type StorageConfig struct {
	Backend   string `yaml:"backend"` // local, s3 or gcs
	Dir       string `yaml:"dir"`     // local backend root
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"` // S3-compatible endpoint (MinIO)
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Port        string  `yaml:"port"`
	APIKey      string  `yaml:"api_key"` // plain key or bcrypt hash
	JWTSecret   string  `yaml:"jwt_secret"`
	DatabaseURL string  `yaml:"database_url"`
	RateLimit   float64 `yaml:"rate_limit"` // requests per second, 0 disables
	RateBurst   int     `yaml:"rate_burst"`
	CacheSize   int     `yaml:"cache_size"` // sessions kept in memory
}

// Storage backends.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
	BackendGCS   = "gcs"
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Scoring: ScoringConfig{
			Weights: map[string]float64{},
			Tiers:   map[string]float64{},
		},
		Storage: StorageConfig{
			Backend: BackendLocal,
			Dir:     DataDir(),
		},
		Server: ServerConfig{
			Port:      "7700",
			RateLimit: 20,
			RateBurst: 40,
			CacheSize: 20,
		},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// FindConfigFile looks for .tally/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".tally", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// DataDir returns the default local storage directory, ~/.cache/tally.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to temp dir if HOME isn't available
		home = os.TempDir()
	}
	return filepath.Join(home, ".cache", "tally")
}

// ScoreDir returns the directory where saved score results are written.
func ScoreDir(dataDir string) string {
	return filepath.Join(dataDir, "scores")
}
