package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nfrund/fogwar/internal/app"
	"github.com/nfrund/fogwar/internal/config"
	"github.com/nfrund/fogwar/internal/game/engine"
	"github.com/nfrund/fogwar/internal/game/stats"
	"github.com/nfrund/fogwar/internal/hub"
	"github.com/nfrund/fogwar/internal/logging"
	"github.com/nfrund/fogwar/internal/pubsub"
	"github.com/nfrund/fogwar/internal/server"
	"github.com/nfrund/fogwar/internal/storage"
	"github.com/spf13/afero"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.New()
	logCloser := logging.New(logging.Options{
		Format: cfg.GetLogFormat(),
		Level:  cfg.GetLogLevel(),
		File:   cfg.GetLogFile(),
	})
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracer, cleanupTracing, err := pubsub.SetupOTel(ctx, pubsub.TracingConfigFrom(cfg))
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer cleanupTracing()

	bridge := pubsub.NewWatermillBridgeWithTracer(tracer)
	defer bridge.Close()

	fs := afero.NewOsFs()

	catalog, err := stats.NewReloadable(fs, cfg.GetStatsDir())
	if err != nil {
		return fmt.Errorf("failed to load stat catalog: %w", err)
	}
	slog.Info("Stat catalog loaded", "directory", cfg.GetStatsDir(), "types", len(catalog.Types()))

	roster, err := engine.LoadRoster(fs, cfg.GetRosterFile())
	if err != nil {
		return err
	}

	store, storeCloser, err := storage.Open(cfg.GetStorageDriver(), cfg.GetDatabaseURL(), fs)
	if err != nil {
		return err
	}
	defer storeCloser.Close()
	slog.Info("Snapshot store ready", "driver", cfg.GetStorageDriver())

	snapshots := storage.NewSnapshots(store, storage.SnapshotConfig{
		Slot:            cfg.GetStatePath(),
		DefaultSlot:     cfg.GetDefaultMapPath(),
		BackupDir:       cfg.GetBackupDir(),
		DefaultTurnTime: cfg.GetTurnTime().Milliseconds(),
	})

	game, err := engine.New(ctx, engine.Config{
		Roster:          roster,
		Catalog:         catalog,
		Snapshots:       snapshots,
		Publisher:       bridge,
		Grace:           cfg.GetMissedTurnGrace(),
		DefaultTurnTime: cfg.GetTurnTime().Milliseconds(),
	})
	if err != nil {
		return err
	}

	srv := server.New(server.Dependencies{
		Config:     cfg,
		Publisher:  bridge,
		Subscriber: bridge,
		Modules: app.NewModules(app.Dependencies{
			Game:         game,
			Catalog:      catalog,
			Subscriber:   bridge,
			TurnFeed:     hub.NewHub(),
			RateLimit:    cfg.GetRateLimit(),
			WatchCatalog: cfg.GetStatsWatch(),
		}),
	})
	srv.RegisterRoutes()
	if err := srv.InitModules(ctx); err != nil {
		return err
	}

	return srv.Start(ctx)
}
