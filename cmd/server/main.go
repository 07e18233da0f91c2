package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rsharma/socialnet/internal/api"
	"github.com/rsharma/socialnet/internal/config"
	"github.com/rsharma/socialnet/internal/identity"
	"github.com/rsharma/socialnet/internal/realtime"
	"github.com/rsharma/socialnet/internal/repository"
	"github.com/rsharma/socialnet/internal/repository/postgres"
	redisrepo "github.com/rsharma/socialnet/internal/repository/redis"
	"github.com/rsharma/socialnet/internal/service"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	if cfg.Environment == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	// Foundational stores: no degraded mode, so a connection failure here
	// is fatal.
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("failed to connect to database: %v", err)
	}

	redisClient, err := redisrepo.NewClient(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		logrus.Fatalf("failed to connect to redis: %v", err)
	}

	repos := &repository.Repositories{
		Profile:      postgres.NewProfileRepository(db),
		Relationship: postgres.NewRelationshipRepository(db),
		Session:      redisrepo.NewSessionStore(redisClient, cfg.AuthTokenKeyPrefix, cfg.UserTokensKeyPrefix),
		Cache:        redisrepo.NewProfileCache(redisClient, cfg.UserInfoKeyPrefix, cfg.CacheTTL),
		Publisher:    redisrepo.NewPublisher(redisClient, cfg.BackgroundChannel, cfg.AnalyticsChannel),
	}

	services := service.NewServices(repos, cfg)
	verifier := identity.NewVerifier(cfg.IdentityJWTSecret)

	// Realtime fan-out of published change events.
	hub := realtime.NewHub()
	go hub.Run()
	relayCtx, cancelRelay := context.WithCancel(context.Background())
	go hub.Relay(relayCtx, redisClient, cfg.BackgroundChannel, cfg.AnalyticsChannel)

	router := api.NewRouter(services, hub, verifier)

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("server forced to shutdown: %v", err)
	}

	cancelRelay()
	hub.Stop()

	if err := redisClient.Close(); err != nil {
		logrus.Warnf("failed to close redis client: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	logrus.Info("server stopped")
}
