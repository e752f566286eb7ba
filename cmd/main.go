package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/archivar1/Hack-ITMO-2025/config"
	"github.com/archivar1/Hack-ITMO-2025/routes"
	"github.com/archivar1/Hack-ITMO-2025/services"
	"github.com/archivar1/Hack-ITMO-2025/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg.LogLevel)

	ctx := context.Background()

	store, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize store", "error", err)
		os.Exit(1)
	}

	var nutrition services.NutritionAPI
	var activity services.ActivityAPI
	if cfg.MockAPIs {
		slog.Info("running with mock collaborators")
		nutrition = services.NutritionMock{}
		activity = services.ActivityMock{Daily: 2100}
	} else {
		nutrition = services.NewFatSecretService(cfg.FatSecret)
		activity = services.NewHumanAPIService(cfg.HumanAPI)
	}

	hub := services.NewRealtimeHub()
	alerts := services.NewAlertBus(store, hub)
	tracker := services.NewTrackerService(store, nutrition, activity, alerts, cfg.Tracker.SeedProductName)

	r := routes.SetupRouter(cfg, tracker, nutrition, hub)
	slog.Info("server listening", "addr", cfg.Server.Addr)
	if err := r.Run(cfg.Server.Addr); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// openStore selects the Store variant and guarantees the seed product
// exists before the first request.
func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	if cfg.MockAPIs {
		return storage.NewSeededMemory(cfg.Tracker.SeedProductName, cfg.Tracker.SeedProductCalories), nil
	}

	store, err := storage.Open(cfg.Database)
	if err != nil {
		return nil, err
	}

	_, err = store.GetProductByName(ctx, cfg.Tracker.SeedProductName)
	if errors.Is(err, storage.ErrNotFound) {
		if !cfg.Tracker.SeedOnStart {
			return nil, errors.New("seed product " + cfg.Tracker.SeedProductName + " is missing from the catalog; set SEED_ON_START=true to create it")
		}
		if _, err := store.CreateProduct(ctx, cfg.Tracker.SeedProductName, cfg.Tracker.SeedProductCalories); err != nil && !errors.Is(err, storage.ErrDuplicate) {
			return nil, err
		}
		slog.Info("seed product created", "name", cfg.Tracker.SeedProductName)
	} else if err != nil {
		return nil, err
	}
	return store, nil
}

func setupLogger(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
