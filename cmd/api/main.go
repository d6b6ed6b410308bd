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

	// Lock-time math depends on the America/New_York zone even on
	// images without a tzdata package.
	_ "time/tzdata"

	"github.com/sourcegraph/conc"

	"github.com/tribalcouncil/fantasy-survivor/internal/app"
	"github.com/tribalcouncil/fantasy-survivor/internal/config"
	"github.com/tribalcouncil/fantasy-survivor/internal/observability"
	"github.com/tribalcouncil/fantasy-survivor/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	baseLogger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(baseLogger)
	defer func() { _ = baseLogger.Sync() }()

	appLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(appLogger)

	shutdownUptrace, err := observability.InitUptrace(cfg, baseLogger)
	if err != nil {
		appLogger.Error("init uptrace", "error", err)
		os.Exit(1)
	}

	betterStackLogger, shutdownBetterStack, err := observability.InitBetterStackLogger(cfg, baseLogger)
	if err != nil {
		appLogger.Error("init betterstack logger", "error", err)
		os.Exit(1)
	}
	if betterStackLogger != nil {
		logging.SetDefault(betterStackLogger)
	}

	stopPyroscope, err := observability.InitPyroscope(cfg, appLogger)
	if err != nil {
		appLogger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}

	pprofServer, err := observability.StartPprofServer(cfg, appLogger)
	if err != nil {
		appLogger.Error("start pprof server", "error", err)
		os.Exit(1)
	}

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 15*time.Second)
	application, err := app.New(bootCtx, cfg, appLogger)
	cancelBoot()
	if err != nil {
		appLogger.Error("build app", "error", err)
		os.Exit(1)
	}

	var wg conc.WaitGroup
	wg.Go(func() {
		appLogger.Info("http server starting", "addr", cfg.HTTPAddr, "store", cfg.StoreDriver)
		if err := application.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := application.Server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("graceful shutdown failed", "error", err)
	}
	wg.Wait()

	if err := application.Close(); err != nil {
		appLogger.Error("close app resources", "error", err)
	}

	if pprofServer != nil {
		_ = observability.StopPprofServer(pprofServer, appLogger, 5*time.Second)
	}
	if stopPyroscope != nil {
		_ = stopPyroscope()
	}
	if shutdownBetterStack != nil {
		_ = shutdownBetterStack(shutdownCtx)
	}
	if shutdownUptrace != nil {
		_ = shutdownUptrace(shutdownCtx)
	}

	appLogger.Info("http server stopped")
}

func slogLevel(level logging.Level) slog.Level {
	switch level {
	case logging.LevelDebug:
		return slog.LevelDebug
	case logging.LevelWarn:
		return slog.LevelWarn
	case logging.LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
