// Package main is the entry point for the code-cards server.
//
// The main package stays minimal — its job is to:
// 1. Read configuration (a .env file if present, then env vars)
// 2. Create dependencies (logger, server config)
// 3. Start the application
//
// All actual logic lives in imported packages (internal/server,
// internal/handler, etc.). This separation makes the app testable and its
// components reusable.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/sakif/code-cards/internal/server"
)

func main() {
	// .env is a convenience for local development; a missing file is fine,
	// real deployments set env vars directly.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(),
	}))

	port := envInt(logger, "PORT", 8080)

	storeBackend := os.Getenv("STORE_BACKEND") // "" defaults to the flat JSON file
	storePath := os.Getenv("STORE_PATH")
	if storePath == "" {
		storePath = "data/serverdb.json"
		if storeBackend == "sqlite" {
			storePath = "data/serverdb.db"
		}
	}

	// Make sure the data directory exists before the store first writes.
	if dir := filepath.Dir(storePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Error("failed to create store directory",
				slog.String("dir", dir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "client"
	}
	if _, err := os.Stat(staticDir); err != nil {
		logger.Warn("static dir not found — static client disabled",
			slog.String("dir", staticDir),
		)
		staticDir = ""
	}

	// Upstream fetches get a bounded timeout; a timeout is treated the
	// same as an unresolvable link (cached metadata is kept).
	redditTimeout := time.Duration(envInt(logger, "REDDIT_TIMEOUT_SECONDS", 10)) * time.Second

	cfg := server.Config{
		Port:          port,
		StaticDir:     staticDir,
		StoreBackend:  storeBackend,
		StorePath:     storePath,
		RedditTimeout: redditTimeout,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the server is shut down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// envInt reads an integer env var, exiting on a malformed value rather
// than silently running with a surprise default.
func envInt(logger *slog.Logger, key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		logger.Error("invalid value for "+key, slog.String("value", raw))
		os.Exit(1)
	}
	return v
}

func logLevel() slog.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
