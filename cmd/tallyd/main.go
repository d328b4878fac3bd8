// Command tallyd is the tally HTTP service. It serves the calculator,
// grade book and rental desk API, with score history when a database is
// configured.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tallybook/tally/internal/api"
	"github.com/tallybook/tally/internal/history"
	"github.com/tallybook/tally/internal/platform"
	"github.com/tallybook/tally/internal/store"
	"github.com/tallybook/tally/pkg/config"
	"github.com/tallybook/tally/pkg/scoring"
)

func loadConfig() *config.Config {
	path := os.Getenv("TALLY_CONFIG")
	if path == "" {
		if cwd, err := os.Getwd(); err == nil {
			path = config.FindConfigFile(cwd)
		}
	}

	cfg := config.DefaultConfig()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
		log.Printf("loaded config from %s", path)
	}
	applyEnv(cfg, os.Getenv)
	return cfg
}

// applyEnv overrides config values with the environment variables that are set.
func applyEnv(cfg *config.Config, getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&cfg.Server.Port, "PORT")
	set(&cfg.Server.DatabaseURL, "DATABASE_URL")
	set(&cfg.Server.APIKey, "TALLY_API_KEY")
	set(&cfg.Server.JWTSecret, "TALLY_JWT_SECRET")
	set(&cfg.Storage.Backend, "STORAGE_BACKEND")
	set(&cfg.Storage.Dir, "STORAGE_DIR")
	set(&cfg.Storage.Bucket, "STORAGE_BUCKET")
	set(&cfg.Storage.Region, "STORAGE_REGION")
	set(&cfg.Storage.Endpoint, "STORAGE_ENDPOINT")
	set(&cfg.Storage.AccessKey, "STORAGE_ACCESS_KEY")
	set(&cfg.Storage.SecretKey, "STORAGE_SECRET_KEY")

	if v := getenv("TALLY_RATE_LIMIT"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Server.RateLimit = parsed
		}
	}
	if v := getenv("TALLY_RATE_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Server.RateBurst = parsed
		}
	}
	if v := getenv("TALLY_CACHE_SIZE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.Server.CacheSize = parsed
		}
	}
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env: %v", err)
	}
	cfg := loadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	weights, err := scoring.WeightsFromConfig(cfg.Scoring)
	if err != nil {
		log.Fatalf("scoring config: %v", err)
	}
	engine, err := scoring.FromConfig(cfg.Scoring)
	if err != nil {
		log.Fatalf("scoring config: %v", err)
	}

	docs, err := store.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}

	var hist api.HistoryStore
	if cfg.Server.DatabaseURL != "" {
		db, err := platform.Open(ctx, cfg.Server.DatabaseURL, 10)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		defer db.Close()

		if err := platform.AutoMigrate(db.DB); err != nil {
			log.Fatalf("migrate database: %v", err)
		}
		hist = history.NewService(db)
		log.Printf("score history enabled")
	} else {
		log.Printf("DATABASE_URL not set, score history disabled")
	}

	h := api.NewHandler(engine, weights, docs, hist, api.NewSessionCache(cfg.Server.CacheSize))
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           api.Wrap(mux, cfg.Server),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("starting tallyd on :%s (storage: %s)", cfg.Server.Port, cfg.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
