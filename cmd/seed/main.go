package main

import (
	"context"
	"flag"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/diamondjirapat/mango-reach-management-mockup/internal/config"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/db"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/logging"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/repo"
	"github.com/diamondjirapat/mango-reach-management-mockup/internal/seed"
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

	count := flag.Int("n", cfg.SeedCount, "number of mock entries to insert")
	seedValue := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	database, err := db.InitDB(cfg.DBUrl)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	if err := db.Migrate(database, cfg.MigrationsPath); err != nil {
		logrus.Fatalf("Failed to apply migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	adRepo := repo.NewAdRepo(database)
	entries := seed.Generate(rand.New(rand.NewSource(*seedValue)), *count)

	logrus.WithField("count", len(entries)).Info("generating mock entries")
	if err := adRepo.CreateAdsBatch(ctx, entries); err != nil {
		logrus.Fatalf("Failed to insert mock entries: %v", err)
	}
	logrus.Info("data generation complete")
}
