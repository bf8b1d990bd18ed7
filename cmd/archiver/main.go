package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/diamondjirapat/mango-reach-management-mockup/internal/archive"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/config"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/dedupe"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/handler"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/kafka"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/logging"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/metrics"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireArchive(); err != nil {
		logrus.Fatalf("Invalid config: %v", err)
	}
	logging.Setup(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	archiver, err := archive.NewMinIOArchiver(archive.Options{
		Endpoint:  cfg.MinIOEndpoint,
		AccessKey: cfg.MinIOAccessKey,
		SecretKey: cfg.MinIOSecretKey,
		Bucket:    cfg.MinIOBucket,
		UseSSL:    cfg.MinIOUseSSL,
	})
	if err != nil {
		logrus.Fatalf("Failed to create archiver: %v", err)
	}
	if err := archiver.EnsureBucket(ctx); err != nil {
		logrus.Fatalf("Failed to prepare bucket: %v", err)
	}

	var deduplicator service.Deduplicator
	if cfg.RedisAddr != "" {
		redisClient, err := dedupe.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			logrus.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		deduplicator = dedupe.NewRedisDeduplicator(redisClient, time.Duration(cfg.DedupeTTLSec)*time.Second)
	} else {
		logrus.Warn("REDIS_ADDR not set, redelivered events will be archived again")
	}

	reg := prometheus.NewRegistry()
	archiveService := service.NewArchiveService(deduplicator, archiver, metrics.New(reg))

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers: cfg.GetKafkaBrokers(),
		GroupID: cfg.KafkaGroupID,
		Topics:  []string{cfg.KafkaTopic},
	}, archiveService)
	if err != nil {
		logrus.Fatalf("Failed to create kafka consumer: %v", err)
	}

	if err := consumer.Start(ctx); err != nil {
		logrus.Fatalf("Failed to start kafka consumer: %v", err)
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/health", handler.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logrus.Errorf("Status server error: %v", err)
		}
	}()

	logrus.WithField("topic", cfg.KafkaTopic).Info("archiver running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logrus.Info("Shutdown signal received. Shutting down gracefully...")
	cancel()

	if err := consumer.Close(); err != nil {
		logrus.Warnf("Kafka consumer close error: %v", err)
	}
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		logrus.Warnf("Status server shutdown error: %v", err)
	}
	logrus.Info("Shutdown complete")
}
