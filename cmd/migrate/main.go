package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/restaurant-service/internal/config"
	"github.com/iliyamo/restaurant-service/internal/database"
	"github.com/iliyamo/restaurant-service/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	logger.Init(cfg.LogLevel)

	db, err := database.Open(cfg.DSN())
	if err != nil {
		logrus.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	res, err := database.Migrate(ctx, db)
	if err != nil {
		logrus.WithError(err).WithField("version", res.From).Fatal("migration failed")
	}
	if !res.Applied() {
		logrus.WithField("version", res.To).Info("schema is up to date")
		return
	}
	logrus.WithFields(logrus.Fields{"from": res.From, "to": res.To}).Info("migrations complete")
}
