package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/diamondjirapat/mango-reach-management-mockup/internal/config"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/db"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/handler"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/kafka"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/logging"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/metrics"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/repo"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireDatabase(); err != nil {
		logrus.Fatalf("Invalid config: %v", err)
	}
	logging.Setup(cfg.LogLevel)

	database, err := db.InitDB(cfg.DBUrl)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	if err := db.Migrate(database, cfg.MigrationsPath); err != nil {
		logrus.Fatalf("Failed to apply migrations: %v", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	opts := service.Options{Metrics: metrics.New(reg)}

	if cfg.KafkaEnabled() {
		producer, err := kafka.NewProducer(kafka.ProducerConfig{
			Brokers: cfg.GetKafkaBrokers(),
			Topic:   cfg.KafkaTopic,
		})
		if err != nil {
			logrus.Fatalf("Failed to create producer: %v", err)
		}
		defer func() {
			if err := producer.Close(); err != nil {
				logrus.Errorf("Error closing producer: %v", err)
			}
		}()

		opts.Publisher = producer
	}

	adRepo := repo.NewAdRepo(database)
	adService := service.NewAdService(adRepo, opts)
	adHandler := handler.NewAdHandler(adService)

	app := handler.NewApp(handler.AppConfig{
		CORSOrigins: cfg.GetCORSOrigins(),
		Gatherer:    reg,
	}, adHandler)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logrus.Errorf("Error during shutdown: %v", err)
	}
	logrus.Info("Server stopped")
}
