package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/restaurant-service/internal/config"
	"github.com/iliyamo/restaurant-service/internal/database"
	"github.com/iliyamo/restaurant-service/internal/entitlement"
	"github.com/iliyamo/restaurant-service/internal/handler"
	"github.com/iliyamo/restaurant-service/internal/logger"
	"github.com/iliyamo/restaurant-service/internal/middleware"
	"github.com/iliyamo/restaurant-service/internal/queue"
	"github.com/iliyamo/restaurant-service/internal/repository"
	"github.com/iliyamo/restaurant-service/internal/router"
	"github.com/iliyamo/restaurant-service/internal/service"
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

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb != nil {
		defer rdb.Close()
	}

	var events service.EventPublisher
	if pub := queue.NewPublisher(cfg.RabbitURL); pub != nil {
		defer pub.Close()
		events = pub
	} else {
		logrus.Warn("RABBITMQ_URL not set, notification events are dropped")
	}

	unknownAs := entitlement.TierUnknown
	if cfg.UnknownPlanPolicy == config.UnknownPlanBasic {
		unknownAs = entitlement.TierBasic
	}

	tables := repository.NewTableRepo(db)
	reservations := repository.NewReservationRepo(db)
	waitlist := repository.NewWaitlistRepo(db)
	hours := repository.NewHoursRepo(db)
	plans := repository.NewPlanRepo(db)
	users := repository.NewUserRepo(db)

	h := router.Handlers{
		Reservations: handler.NewReservationHandler(service.NewReservationService(db, tables, reservations, events, cfg.Location)),
		Waitlist:     handler.NewWaitlistHandler(service.NewWaitlistService(db, waitlist, hours, events, cfg.Location)),
		Tables:       handler.NewTableHandler(service.NewTableService(db, tables, cfg.QRSecret, cfg.QRBaseURL)),
		Plans:        handler.NewPlanHandler(service.NewPlanService(plans)),
		Entitlements: handler.NewEntitlementHandler(service.NewEntitlementService(users, plans, entitlement.DefaultResolver(unknownAs))),
		Health:       handler.Health(db),
	}

	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = router.JSONSerializer{}
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echomw.Recover())
	e.Use(logger.Middleware())
	router.Register(e, h, router.Middleware{
		RateLimit: middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		Cache:     middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	})

	go func() {
		addr := ":" + cfg.Port
		logrus.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("graceful shutdown failed")
	}
	logrus.Info("server stopped")
}
