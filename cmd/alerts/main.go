package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	httpadapter "github.com/couchcryptid/safetynet-alerts-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/safetynet-alerts-service/internal/adapter/kafka"
	"github.com/couchcryptid/safetynet-alerts-service/internal/adapter/postgres"
	"github.com/couchcryptid/safetynet-alerts-service/internal/alerts"
	"github.com/couchcryptid/safetynet-alerts-service/internal/config"
	"github.com/couchcryptid/safetynet-alerts-service/internal/observability"
	"github.com/couchcryptid/safetynet-alerts-service/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dataStore, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// Change events are feature-flagged via KAFKA_ENABLED.
	var publisher alerts.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		metrics.PublishEnabled.Set(1)
		logger.Info("change events enabled", "topic", cfg.KafkaEventsTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("change events disabled")
	}

	svc := alerts.New(dataStore, publisher, clockwork.NewRealClock(), logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, metrics, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// openStore builds the configured dataset store and a func that releases it.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (alerts.Store, func(), error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := postgres.Open(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
		if err != nil {
			return nil, nil, err
		}
		pg := postgres.New(db)
		if err := pg.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("postgres store ready", "max_conns", cfg.DBMaxConns)
		return pg, func() {
			if err := db.Close(); err != nil {
				logger.Error("database close error", "error", err)
			}
		}, nil

	default:
		if cfg.DataFile == "" {
			logger.Warn("DATA_FILE not set, starting with an empty dataset")
			return store.NewMemory(), func() {}, nil
		}
		ds, err := store.LoadDataset(cfg.DataFile)
		if err != nil {
			return nil, nil, err
		}
		mem, err := store.NewMemoryFromDataset(ds)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("memory store seeded", "file", cfg.DataFile,
			"persons", len(ds.Persons), "medical_records", len(ds.MedicalRecords), "firestations", len(ds.Firestations))
		return mem, func() {}, nil
	}
}
