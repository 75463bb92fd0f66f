package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/restaurant-service/internal/config"
	"github.com/iliyamo/restaurant-service/internal/database"
	"github.com/iliyamo/restaurant-service/internal/logger"
	"github.com/iliyamo/restaurant-service/internal/queue"
	"github.com/iliyamo/restaurant-service/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	logger.Init(cfg.LogLevel)
	if cfg.RabbitURL == "" {
		logrus.Fatal("RABBITMQ_URL is required")
	}

	db, err := database.Open(cfg.DSN())
	if err != nil {
		logrus.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	var mailer queue.Mailer = queue.LogMailer{}
	if cfg.SMTPEnabled() {
		mailer = queue.SMTPMailer{Host: cfg.SMTPHost, Port: cfg.SMTPPort, User: cfg.SMTPUser, Pass: cfg.SMTPPass, From: cfg.MailFrom}
	}

	consumer := &queue.Consumer{
		URL:          cfg.RabbitURL,
		Mailer:       mailer,
		MarkNotified: repository.NewWaitlistRepo(db).MarkNotified,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logrus.WithField("smtp", cfg.SMTPEnabled()).Info("notifier started")
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logrus.WithError(err).Fatal("notifier stopped")
	}
	logrus.Info("notifier stopped")
}
