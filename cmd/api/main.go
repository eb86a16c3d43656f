package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"eventhall/internal/cache"
	"eventhall/internal/config"
	"eventhall/internal/database"
	"eventhall/internal/events"
	"eventhall/internal/logger"
	"eventhall/internal/notification"
	"eventhall/internal/pkg/clock"
	jwtsvc "eventhall/internal/pkg/jwt"
	"eventhall/internal/realtime"
	"eventhall/internal/repository"
	"eventhall/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{}).WithError(err).Fatal("invalid configuration")
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile, JSON: cfg.IsProd()})
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.WithError(err).Fatal("database connect failed")
	}
	if err := repository.Migrate(ctx, db); err != nil {
		log.WithError(err).Fatal("database migration failed")
	}

	opts := server.Options{
		DB:                db,
		JWT:               jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL),
		Log:               log,
		Clock:             clock.NewSystem(cfg.Location),
		PublicBaseURL:     cfg.PublicBaseURL,
		CORSOrigins:       cfg.CORSAllowedOrigins,
		RateLimitBookings: cfg.RateLimitBookings,
		RateLimitAuth:     cfg.RateLimitAuth,
	}

	// redis is optional: without it availability is computed per request
	// and rate limits are kept in process memory
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, running without cache")
		} else {
			defer rdb.Close()
			opts.Redis = rdb
			opts.Cache = cache.NewAvailabilityCache(rdb, cfg.AvailabilityCacheTTL)
		}
	}

	if cfg.RabbitMQURL != "" {
		pub, err := events.NewAMQPPublisher(cfg.RabbitMQURL, cfg.EventsQueue, log)
		if err != nil {
			log.WithError(err).Warn("rabbitmq unavailable, reservation events disabled")
		} else {
			defer pub.Close()
			opts.Events = pub
		}
	}

	if cfg.MailEnabled() {
		opts.Mailer = notification.NewSMTPMailer(notification.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		}, log)
	} else {
		log.Info("SMTP_HOST not set, emails are written to the log")
	}

	hub := realtime.NewHub(log)
	defer hub.Close()
	opts.Hub = hub

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.NewRouter(opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
