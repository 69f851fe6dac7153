// Command pagebridge rewrites WordPress page-builder documents zone by zone.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/pagebridge/internal/adapters/driven/cache/lru"
	"github.com/custodia-labs/pagebridge/internal/adapters/driven/config/file"
	"github.com/custodia-labs/pagebridge/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pagebridge/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pagebridge/internal/adapters/driving/cli"
	"github.com/custodia-labs/pagebridge/internal/convert"
	"github.com/custodia-labs/pagebridge/internal/core/classifier"
	"github.com/custodia-labs/pagebridge/internal/core/domain"
	"github.com/custodia-labs/pagebridge/internal/core/engine"
	"github.com/custodia-labs/pagebridge/internal/core/ports/driven"
	"github.com/custodia-labs/pagebridge/internal/core/services"
	"github.com/custodia-labs/pagebridge/internal/logger"
	"github.com/custodia-labs/pagebridge/internal/transformers"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBuilder(build)
	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// build wires the application from the settings found in configDir.
func build(configDir string) (*cli.Services, func() error, error) {
	cfg, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(cfg)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("loading settings: %w", err)
	}

	cls, err := classifier.FromSettings(settings.Classifier)
	if err != nil {
		return nil, nil, fmt.Errorf("classifier settings: %w", err)
	}

	runs, closeRuns, err := openRunStore(settings.Storage, filepath.Dir(cfg.Path()))
	if err != nil {
		return nil, nil, err
	}

	opts := []services.TransformOption{services.WithIndent(settings.Output.Indent)}
	if settings.Cache.Size > 0 {
		cache, err := lru.New(settings.Cache.Size)
		if err != nil {
			return nil, nil, errors.Join(err, closeRuns())
		}
		opts = append(opts, services.WithCache(cache))
	}

	adapters := services.NewAdapterRegistry()
	eng := engine.New(cls)
	conv := convert.New(cls)
	registry := transformers.NewDefaultRegistry()
	transform := services.NewTransformService(adapters, eng, conv, registry, runs, opts...)

	logger.Debug("Storage %s, cache size %d, %d classifier rules",
		settings.Storage.Backend, settings.Cache.Size, len(settings.Classifier.Rules))

	return &cli.Services{
		Transform: transform,
		Analysis:  services.NewAnalysisService(adapters, eng, services.DefaultPreviewLength),
		Catalog:   services.NewCatalogService(adapters, conv, registry),
		Settings:  settingsService,
		Batch:     services.NewBatchRunner(adapters, transform),
	}, closeRuns, nil
}

// openRunStore opens the configured history backend. The SQLite database
// lives in the storage dir, or in base/data when none is set.
func openRunStore(s domain.StorageSettings, base string) (driven.RunStore, func() error, error) {
	if s.Backend == domain.StorageMemory {
		return memory.NewRunStore(), func() error { return nil }, nil
	}

	dir := s.Dir
	if dir == "" {
		dir = filepath.Join(base, "data")
	}
	store, err := sqlite.NewStore(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening history: %w", err)
	}
	logger.Debug("History database %s", store.Path())
	return store.RunStore(), store.Close, nil
}
