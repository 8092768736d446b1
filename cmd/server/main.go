// Command server runs the CityScout analysis service: an HTTP API that
// validates a city/state pair, queries Census and BLS data, and returns a
// merged analysis record. Completed records can optionally be published to a
// Kafka sink topic.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/cityscout-service/internal/adapter/bls"
	"github.com/couchcryptid/cityscout-service/internal/adapter/census"
	httpadapter "github.com/couchcryptid/cityscout-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/cityscout-service/internal/adapter/kafka"
	"github.com/couchcryptid/cityscout-service/internal/analyzer"
	"github.com/couchcryptid/cityscout-service/internal/config"
	"github.com/couchcryptid/cityscout-service/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	censusClient := census.NewClient(cfg.CensusAPIKey, cfg.UpstreamTimeout, logger, metrics)
	censusClient.SetBaseURL(cfg.CensusBaseURL)
	blsClient := bls.NewClient(cfg.BLSAPIKey, cfg.UpstreamTimeout, logger, metrics)
	blsClient.SetBaseURL(cfg.BLSBaseURL)

	// Result publishing is feature-flagged via PUBLISH_ENABLED.
	var publisher analyzer.Publisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.PublishEnabled {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPublisher
		metrics.PublishEnabled.Set(1)
		logger.Info("result publishing enabled", "topic", cfg.KafkaSinkTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("result publishing disabled")
	}

	a := analyzer.New(censusClient, blsClient, publisher, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, a, a, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
