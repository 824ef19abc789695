package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Paul-Karonji/client-task-tracker/internal/config"
	"github.com/Paul-Karonji/client-task-tracker/internal/db"
	"github.com/Paul-Karonji/client-task-tracker/internal/handler"
	"github.com/Paul-Karonji/client-task-tracker/internal/middleware"
)

func main() {
	cfg := config.Load()

	var zapLogger *zap.Logger
	var err error
	if cfg.Debug() {
		zapLogger, err = zap.NewDevelopment()
	} else {
		gin.SetMode(gin.ReleaseMode)
		zapLogger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("Initializing zap logger %s", err)
	}
	defer func() {
		_ = zapLogger.Sync()
	}()

	pool, err := db.ConnectDB(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Establishing connection to database", zap.Error(err))
	}
	store := db.NewTaskStore(pool)
	defer func() {
		if err := store.Close(); err != nil {
			zapLogger.Error("Closing database", zap.Error(err))
		}
	}()

	if err := store.EnsureSchema(context.Background()); err != nil {
		zapLogger.Fatal("Applying schema", zap.Error(err))
	}
	zapLogger.Info("Connected to the database",
		zap.String("host", cfg.Database.Host),
		zap.Int("pool_size", cfg.Database.PoolSize))

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.Metrics())
	r.Use(middleware.RequestLogger(zapLogger))
	r.GET("/metrics", middleware.MetricsHandler())

	handler.SetupHandlers(r, store, zapLogger, cfg.Debug(),
		middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	srv := &http.Server{
		Addr:         ":" + cfg.ServicePort,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zapLogger.Info("Server starting", zap.String("port", cfg.ServicePort), zap.String("env", cfg.Env))
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		zapLogger.Info("Shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Starting server", zap.Error(err))
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Graceful shutdown", zap.Error(err))
	}
}
