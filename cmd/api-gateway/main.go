package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-timetable-viewer/api/swagger"
	"github.com/noah-isme/sma-timetable-viewer/internal/handler"
	internalmiddleware "github.com/noah-isme/sma-timetable-viewer/internal/middleware"
	"github.com/noah-isme/sma-timetable-viewer/internal/models"
	"github.com/noah-isme/sma-timetable-viewer/internal/repository"
	"github.com/noah-isme/sma-timetable-viewer/internal/service"
	"github.com/noah-isme/sma-timetable-viewer/internal/viewer"
	"github.com/noah-isme/sma-timetable-viewer/pkg/cache"
	"github.com/noah-isme/sma-timetable-viewer/pkg/config"
	"github.com/noah-isme/sma-timetable-viewer/pkg/database"
	"github.com/noah-isme/sma-timetable-viewer/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-timetable-viewer/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-timetable-viewer/pkg/middleware/requestid"
	"github.com/noah-isme/sma-timetable-viewer/pkg/storage"
)

// @title SMA Timetable Viewer API
// @version 1.0.0
// @description Class and faculty views over generated timetables, with print and export.
// @BasePath /api/v1
// @schemes http

type kvStore interface {
	repository.KeyValueStore
	service.CacheRepository
}

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()
	checks := map[string]handler.ReadinessCheck{}

	var store kvStore = repository.NewMemoryCacheRepository()
	if cfg.Redis.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Fatal("failed to connect redis", zap.Error(err))
		}
		redisRepo := repository.NewCacheRepository(client, logr)
		defer redisRepo.Close() //nolint:errcheck
		store = redisRepo
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	} else {
		logr.Info("redis disabled, keeping views in memory")
	}

	cacheSvc := service.NewCacheService(store, metrics, cfg.Viewer.TimetableTTL, logr, cfg.Viewer.TimetableTTL > 0)
	timetables := service.NewTimetableProvider(nil, cacheSvc, cfg.Redis.KeyPrefix, cfg.Viewer.TimetableTTL, logr)
	if cfg.Database.Enabled {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer db.Close() //nolint:errcheck
		timetables = service.NewTimetableProvider(repository.NewTimetableRepository(db), cacheSvc, cfg.Redis.KeyPrefix, cfg.Viewer.TimetableTTL, logr)
		checks["postgres"] = db.PingContext
	}

	files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare export storage", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	defaultView, err := viewer.ParseViewType(cfg.Viewer.DefaultViewType)
	if err != nil {
		logr.Warn("invalid default view type, using classes", zap.Error(err))
		defaultView = models.ViewTypeClasses
	}

	sessions := repository.NewViewSessionRepository(store, cfg.Redis.KeyPrefix)
	views := service.NewViewService(sessions, timetables, validator.New(), metrics, service.ViewConfig{
		APIPrefix:       cfg.APIPrefix,
		SessionTTL:      cfg.Viewer.SessionTTL,
		DefaultViewType: defaultView,
	}, logr)
	exports := service.NewExportService(sessions, files, signer, service.ExportConfig{
		APIPrefix:     cfg.APIPrefix,
		DefaultFormat: cfg.Exports.DefaultFormat,
		FileTTL:       cfg.Exports.SignedURLTTL,
	}, metrics, logr, nil, nil, nil)
	exports.StartCleanup(ctx, cfg.Exports.CleanupInterval)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))

	metricsHandler := handler.NewMetricsHandler(metrics.Handler(), checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	if cfg.JWT.Enabled {
		api.Use(internalmiddleware.JWT(service.NewTokenService(cfg.JWT.Secret)))
	}
	handler.Routes{
		Views:      handler.NewViewHandler(views, cfg.Viewer.MaxPayloadBytes),
		Exports:    handler.NewExportHandler(exports),
		Timetables: handler.NewTimetableHandler(timetables),
	}.Register(api)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env,
			"redis", cfg.Redis.Enabled, "database", cfg.Database.Enabled, "auth", cfg.JWT.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
