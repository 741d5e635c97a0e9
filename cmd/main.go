package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/common-repository/notch-pay-for-give/internal/bootstrap"
	"github.com/common-repository/notch-pay-for-give/internal/config"
	cronpkg "github.com/common-repository/notch-pay-for-give/internal/cron"
	"github.com/common-repository/notch-pay-for-give/internal/gateway"
	"github.com/common-repository/notch-pay-for-give/internal/handler"
	"github.com/common-repository/notch-pay-for-give/internal/handler/api"
	"github.com/common-repository/notch-pay-for-give/internal/middleware"
	"github.com/common-repository/notch-pay-for-give/internal/repository"
	"github.com/common-repository/notch-pay-for-give/internal/router"
)

func main() {
	// --- Logger ---
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// --- Config ---
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// --- Database ---
	db, err := config.NewDatabase(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := bootstrap.Migrate(db); err != nil {
		logger.Fatal("Failed to bootstrap database schema", zap.Error(err))
	}

	// --- Completion deduper (Redis with in-memory fallback) ---
	deduper, dedupeErr := middleware.NewCompletionDeduper(
		cfg.Redis.Addr,
		cfg.Redis.Pass,
		cfg.Redis.DB,
		24*time.Hour,
	)
	if dedupeErr != nil {
		logger.Warn("Redis unavailable for completion dedup, using in-memory fallback", zap.Error(dedupeErr))
	}

	// --- Gateway registry ---
	// The mode flag selects the credential once, at construction.
	gateways := gateway.NewRegistry()
	if err := gateways.Register(gateway.NewNotchPay(cfg.Gateway.BaseURL, cfg.Gateway.PublicKey())); err != nil {
		logger.Fatal("Failed to register gateway", zap.Error(err))
	}
	tracker := gateway.NewTracker(cfg.Gateway.BaseURL, cfg.Gateway.PluginName, logger)

	// --- Handlers ---
	paymentRepo := repository.NewPaymentRepository(db)
	checkoutHandler := handler.NewCheckoutHandler(paymentRepo, gateways, cfg.Gateway, cfg.Pages, logger)
	callbackHandler := handler.NewCallbackHandler(paymentRepo, gateways, tracker, deduper, cfg.Pages, logger)
	paymentAPI := api.NewPaymentHandler(paymentRepo, logger)

	// --- Echo ---
	e := echo.New()
	e.HideBanner = true
	router.Setup(e, checkoutHandler, callbackHandler, paymentAPI, cfg.API.Key)

	// --- Reconciler (opt-in) ---
	var reconciler *cronpkg.Reconciler
	if cfg.Reconcile.Enabled {
		reconciler = cronpkg.New(cfg.Reconcile, paymentRepo, gateways, logger)
		if err := reconciler.Start(); err != nil {
			logger.Fatal("Failed to start reconciler", zap.Error(err))
		}
	}

	// --- Start Server ---
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		logger.Info("Starting Notch Pay bridge server", zap.String("addr", addr))
		if err := e.Start(addr); err != nil {
			logger.Info("Server stopped", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")

	if reconciler != nil {
		<-reconciler.Stop().Done()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
