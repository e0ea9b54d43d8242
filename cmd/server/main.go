package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mongo "noteful/internal/clients/mongo" // mongo client singleton
	"noteful/internal/config"
	"noteful/internal/logger"

	"github.com/grafana/pyroscope-go"
	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 25 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create bootstrap logger for early errors
	bootstrapLog := log.New(os.Stderr, "bootstrap: ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		bootstrapLog.Printf("config load failed: %v", err)
		os.Exit(1)
	}

	logg, err := logger.Init(cfg)
	if err != nil {
		bootstrapLog.Printf("logger init failed: %v", err)
		os.Exit(1)
	}

	undoMaxprocs, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logg.Info(fmt.Sprintf(format, args...))
	}))
	if err != nil {
		logg.Warn("automaxprocs", "err", err)
	}
	defer undoMaxprocs()

	if profiler := startProfiler(cfg, logg); profiler != nil {
		defer func() {
			if err := profiler.Stop(); err != nil {
				logg.Warn("pyroscope stop", "err", err)
			}
		}()
	}

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error("fatal", "err", err)
		os.Exit(1)
	}
	logg.Info("graceful shutdown complete")
}

func run(ctx context.Context, cfg config.Config, logg *slog.Logger) error {
	_, db, err := mongo.Init(ctx, cfg, logg)
	if err != nil {
		return fmt.Errorf("mongo init: %w", err)
	}
	logg.Info("connected to mongo", "db", db.Name(), "replica_set", mongo.IsReplicaSet())

	svc, err := buildServices(ctx, cfg, db)
	if err != nil {
		_ = mongo.Shutdown(context.Background())
		return fmt.Errorf("build services: %w", err)
	}

	logg.Info("starting Noteful", "port", cfg.AppPort, "auth_required", cfg.AuthRequired)

	app := setupRouter(cfg, svc)
	portStr := fmt.Sprintf(":%d", cfg.AppPort)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := app.Listen(portStr)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	// Graceful shutdown
	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			return err
		}
		return mongo.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// startProfiler pushes continuous profiles when PYROSCOPE_SERVER_ADDRESS is set.
func startProfiler(cfg config.Config, logg *slog.Logger) *pyroscope.Profiler {
	if cfg.PyroscopeAddr == "" {
		return nil
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: "noteful",
		ServerAddress:   cfg.PyroscopeAddr,
		Tags:            map[string]string{"db": cfg.MongoDBName},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	})
	if err != nil {
		logg.Warn("pyroscope disabled", "err", err)
		return nil
	}

	logg.Info("pyroscope profiling enabled", "server", cfg.PyroscopeAddr)
	return profiler
}
