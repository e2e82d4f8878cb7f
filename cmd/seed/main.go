package main

import (
	"flag"
	"fmt"
	"time"

	"tenant-portal-backend/internal/api/routes"
	"tenant-portal-backend/internal/config"
	"tenant-portal-backend/internal/database"
	"tenant-portal-backend/internal/logger"
	"tenant-portal-backend/internal/seed"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func main() {
	dataDir := flag.String("data", "data/seed", "directory holding seed YAML files")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	logger.Setup(cfg.LogLevel)

	// Postgres may still be starting when this runs next to docker compose
	db, err := connectWithRetry(cfg.DatabaseURL, 60, time.Second)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	orgs, err := seed.Load(*dataDir)
	if err != nil {
		logrus.Fatalf("Failed to read seed data: %v", err)
	}

	services := routes.NewServices(db, cfg)
	result, err := seed.NewLoader(services.Provisioning, services.Organizations).Apply(orgs)
	if err != nil {
		logrus.Fatalf("Failed to load seed data: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"organizations_created": result.OrganizationsCreated,
		"organizations_skipped": result.OrganizationsSkipped,
		"members_created":       result.MembersCreated,
		"members_skipped":       result.MembersSkipped,
	}).Info("seed data loaded")
}

func connectWithRetry(dsn string, maxAttempts int, delay time.Duration) (*gorm.DB, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		db, err := database.Initialize(dsn, nil)
		if err == nil {
			return db, nil
		}
		lastErr = err
		logrus.WithField("attempt", attempt).WithError(err).Warn("database not ready")
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}
