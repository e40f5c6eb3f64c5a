package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/octobees/localfinds/internal/config"
	"github.com/octobees/localfinds/internal/database"
	"github.com/octobees/localfinds/internal/handler"
	"github.com/octobees/localfinds/internal/logger"
	middlewarepkg "github.com/octobees/localfinds/internal/middleware"
	"github.com/octobees/localfinds/internal/repository"
	"github.com/octobees/localfinds/internal/router"
	"github.com/octobees/localfinds/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.AppEnv)
	slog.SetDefault(log)

	if cfg.MigrateOnStart {
		if err := database.Migrate(cfg.DatabaseURL, log); err != nil {
			log.Error("failed to apply migrations", slog.Any("error", err))
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	businessesRepo := repository.NewPGXBusinessesRepository(pool)
	claimsRepo := repository.NewPGXClaimsRepository(pool)

	businessesService := service.NewBusinessesService(businessesRepo, log)
	claimsService := service.NewClaimsService(claimsRepo, service.NewContactCleaner(cfg.PhoneRegion))

	metrics := middlewarepkg.NewMetrics(prometheus.DefaultRegisterer)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(log))
	e.Use(metrics.Middleware())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.ContextTimeout(cfg.RequestTimeout))

	router.Register(e, cfg, router.Handlers{
		Businesses: handler.NewBusinessesHandler(businessesService),
		Claims:     handler.NewClaimsHandler(claimsService),
		Sitemap:    handler.NewSitemapHandler(businessesService, cfg.SiteBaseURL),
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info("http server listening", slog.String("port", cfg.Port), slog.String("env", cfg.AppEnv))
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info("shutting down", slog.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", slog.Any("error", err))
	}
}
