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
	log "github.com/sirupsen/logrus"

	"github.com/nitesh-dev/gymmora-sub000/internal/api"
	"github.com/nitesh-dev/gymmora-sub000/internal/app"
	"github.com/nitesh-dev/gymmora-sub000/internal/config"
	"github.com/nitesh-dev/gymmora-sub000/internal/logging"
	"github.com/nitesh-dev/gymmora-sub000/internal/telemetry/tracing"
)

// @title Gymmora API
// @version 1.0
// @description Training programs, live workout sessions and progress analytics.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Log.File,
		LogToStdout:   cfg.Log.Stdout,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
	})
	log.Println("starting gymmora server...")

	if cfg.JWT.Secret == "" {
		log.Fatal("jwt.secret must be set (JWT_SECRET)")
	}

	ctx := context.Background()

	// --- Tracing ---
	provider, err := tracing.NewProvider(ctx, cfg.Tracing)
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}

	// --- Store and services ---
	application, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	// --- Gin engine ---
	if log.GetLevel() < log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger())

	api.SetupRoutes(router, cfg.JWT.Secret, api.Services{
		Programs:  application.Programs,
		Imports:   application.Imports,
		Sessions:  application.Sessions,
		Analytics: application.Analytics,
		Catalog:   application.Catalog,
	}, application.Metrics, application.Registry)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen and serve: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorf("server forced to shutdown: %v", err)
	}
	// Unfinished sessions are lost on shutdown.
	if err := application.Close(ctxShutdown); err != nil {
		log.Errorf("failed to close store: %v", err)
	}
	if err := provider.Shutdown(ctxShutdown); err != nil {
		log.Errorf("failed to flush traces: %v", err)
	}

	log.Println("server exiting")
}
