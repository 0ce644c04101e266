package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/kindergarten-erp-api/api/swagger"
	"github.com/noah-isme/kindergarten-erp-api/internal/repository"
	"github.com/noah-isme/kindergarten-erp-api/internal/router"
	"github.com/noah-isme/kindergarten-erp-api/internal/service"
	"github.com/noah-isme/kindergarten-erp-api/internal/validation"
	"github.com/noah-isme/kindergarten-erp-api/pkg/cache"
	"github.com/noah-isme/kindergarten-erp-api/pkg/config"
	"github.com/noah-isme/kindergarten-erp-api/pkg/database"
	"github.com/noah-isme/kindergarten-erp-api/pkg/logger"
)

// @title Kindergarten ERP API
// @version 1.0.0
// @description Children, staff and audit endpoints of the kindergarten ERP.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.ListCache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, list cache disabled", zap.Error(err))
		}
	}

	metrics := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck
	listCache := service.NewCacheService(cacheRepo, metrics, cfg.ListCache.TTL, logr, cfg.ListCache.Enabled && redisClient != nil)

	auth := service.NewAuthService(repository.NewUserRepository(db), logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	audit := service.NewAuditService(repository.NewAuditRepository(db), metrics, logr, service.AuditConfig{
		Async:      cfg.Audit.Async,
		Workers:    cfg.Audit.Workers,
		BufferSize: cfg.Audit.BufferSize,
	})
	// Workers outlive the signal context so Stop can drain pending entries.
	audit.Start(context.Background())

	engine := router.New(router.Dependencies{
		Config:    cfg,
		Logger:    logr,
		DB:        db,
		Validator: validation.New(),
		Metrics:   metrics,
		Auth:      auth,
		Children:  service.NewChildService(repository.NewChildRepository(db), listCache, logr),
		Employees: service.NewEmployeeService(repository.NewEmployeeRepository(db), logr),
		Audit:     audit,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	audit.Stop()
}
