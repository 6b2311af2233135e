package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/DanielVondra/cardata-mock/internal/adapter/httpapi"
	kafkaadapter "github.com/DanielVondra/cardata-mock/internal/adapter/kafka"
	"github.com/DanielVondra/cardata-mock/internal/config"
	"github.com/DanielVondra/cardata-mock/internal/engine"
	"github.com/DanielVondra/cardata-mock/internal/ingest"
	"github.com/DanielVondra/cardata-mock/internal/observability"
)

func main() {
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	opts := []engine.Option{}

	// Kafka publication sink (feature-flagged via KAFKA_ENABLED).
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		opts = append(opts, engine.WithPublisher(writer))
		logger.Info("kafka enabled",
			"brokers", cfg.KafkaBrokers,
			"source_topic", cfg.KafkaSourceTopic,
			"sink_topic", cfg.KafkaSinkTopic,
		)
	} else {
		logger.Info("kafka disabled")
	}

	svc, err := engine.New(engine.Config{
		Seed:            cfg.Seed,
		CellCount:       cfg.CellCount,
		HotspotCount:    cfg.HotspotCount,
		H3Resolution:    cfg.H3Resolution,
		FlushInterval:   cfg.FlushInterval,
		ProduceInterval: cfg.ProduceInterval,
		ProduceBatch:    cfg.ProduceBatch,
		StatsCacheSize:  cfg.StatsCacheSize,
	}, logger, metrics, opts...)
	if err != nil {
		logger.Error("failed to build engine", "error", err)
		os.Exit(1)
	}

	logger.Info("generating initial data",
		"seed", cfg.Seed, "cells", cfg.CellCount, "hotspots", cfg.HotspotCount)
	if err := svc.GenerateInitialData(); err != nil {
		logger.Error("initial data generation failed", "error", err)
		os.Exit(1)
	}

	srv := httpapi.NewServer(cfg.HTTPAddr, svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc.Start()

	// Kafka ingestion bridge.
	var reader *kafkaadapter.Reader
	if cfg.KafkaEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		runner := ingest.NewRunner(reader, svc, logger, metrics, cfg.ProduceBatch)
		go func() {
			if err := runner.Run(ctx); err != nil {
				logger.Error("ingest runner error", "error", err)
			}
		}()
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	svc.Stop()
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
