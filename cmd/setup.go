package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"assetforge/internal/cache"
	"assetforge/internal/config"
	"assetforge/internal/extension"
	"assetforge/internal/logging"
	"assetforge/internal/registry"
	"assetforge/internal/sprite"
)

// newLogger builds the CLI logger from the --log-level flag.
func newLogger() logging.Logger {
	level := logging.LevelInfo
	switch viper.GetString("log-level") {
	case "debug":
		level = logging.LevelDebug
	case "warn":
		level = logging.LevelWarn
	case "error":
		level = logging.LevelError
	}
	cfg := logging.DefaultConfig()
	cfg.Level = level
	return logging.NewLogger(cfg)
}

// newStore opens the configured cache store: SQLite when a path is set,
// otherwise in-memory. The returned closer is a no-op for the memory
// store.
func newStore(cfg *config.Config) (cache.Store, func() error, error) {
	if cfg.Cache.Path != "" {
		store, err := cache.OpenSQLiteStore(cfg.Cache.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening cache store: %w", err)
		}
		return store, store.Close, nil
	}
	return cache.NewMemoryStore(cfg.Cache.MaxMemoryBytes), func() error { return nil }, nil
}

// cacheTTL converts the configured TTL to a duration.
func cacheTTL(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Cache.TTLSeconds) * time.Second
}

// discoverRegistry scans the extensions directory and merges every icon
// manifest in load order.
func discoverRegistry(cfg *config.Config) (*registry.SymbolRegistry, error) {
	set, err := extension.DiscoverDir(cfg.Assets.ExtensionsDir)
	if err != nil {
		return nil, fmt.Errorf("scanning extensions: %w", err)
	}
	reg := registry.NewSymbolRegistry()
	if err := reg.Discover(set); err != nil {
		return nil, fmt.Errorf("discovering symbols: %w", err)
	}
	return reg, nil
}

// newAssembler wires a sprite assembler over the configured source root.
func newAssembler(cfg *config.Config, reg *registry.SymbolRegistry, store cache.Store, logger logging.Logger) *sprite.Assembler {
	return sprite.NewAssembler(reg, sprite.DirReader{Root: cfg.Assets.SourceDir}, store, logger)
}
