package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/tallybook/tally/internal/store"
	"github.com/tallybook/tally/pkg/config"
	"github.com/tallybook/tally/pkg/scoring"
)

// globalOpts holds the root command's persistent flags.
type globalOpts struct {
	configPath string
	namespace  string
}

func (g *globalOpts) config() *config.Config {
	path := g.configPath
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return config.DefaultConfig()
		}
		path = config.FindConfigFile(cwd)
	}
	return loadConfig(path)
}

func loadConfig(cfgFile string) *config.Config {
	if cfgFile == "" {
		return config.DefaultConfig()
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		return config.DefaultConfig()
	}
	return cfg
}

func (g *globalOpts) store(ctx context.Context, cfg *config.Config) (store.StorageClient, error) {
	if err := store.CheckKey(g.namespace); err != nil {
		return nil, fmt.Errorf("namespace: %w", err)
	}
	s, err := store.New(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	return s, nil
}

func engineFromConfig(cfg *config.Config) (*scoring.Engine, scoring.DefaultWeights, error) {
	weights, err := scoring.WeightsFromConfig(cfg.Scoring)
	if err != nil {
		return nil, scoring.DefaultWeights{}, fmt.Errorf("scoring config: %w", err)
	}
	engine, err := scoring.FromConfig(cfg.Scoring)
	if err != nil {
		return nil, scoring.DefaultWeights{}, fmt.Errorf("scoring config: %w", err)
	}
	return engine, weights, nil
}

// writeFile creates path and streams write into it.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
