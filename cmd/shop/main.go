// Command shop serves the product catalogue over HTTP, resolving a fresh
// controller graph from the di container for every request.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/tinydi/config"
	"github.com/kbukum/tinydi/internal/shop"
	"github.com/kbukum/tinydi/logger"
	"github.com/kbukum/tinydi/middleware"
	"github.com/kbukum/tinydi/observability"
	"github.com/kbukum/tinydi/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "shop: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg Config
	if err := config.Load("shop", &cfg, config.WithEnvPrefix("SHOP")); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger.Init(cfg.Logging)
	log := logger.Get("shop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := initTelemetry(ctx, &cfg)
	if err != nil {
		return err
	}
	defer shutdownTelemetry()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newRouter(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}
	listener, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("binding %s: %w", srv.Addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	log.Info("http server started", logger.Fields(
		"addr", listener.Addr().String(),
		"environment", cfg.Environment,
		"version", cfg.Version,
	))

	select {
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func newRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(logger.Get("http")),
		middleware.RequestLogger(logger.Get("http")),
		middleware.Scope(shop.DefaultContainer()),
	)
	shop.Routes(r)
	r.GET("/version", func(c *gin.Context) { c.JSON(http.StatusOK, version.Get()) })
	return r
}

// Provider constructors, replaced in tests.
var (
	startTracer = func(ctx context.Context, cfg observability.TracerConfig) (func(context.Context) error, error) {
		tp, err := observability.InitTracer(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return tp.Shutdown, nil
	}
	startMeter = func(ctx context.Context, cfg observability.MeterConfig) (func(context.Context) error, error) {
		mp, err := observability.InitMeter(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return mp.Shutdown, nil
	}
)

// initTelemetry installs the enabled OTLP providers as the otel globals that
// the container reports to. On error, providers already started are shut down.
func initTelemetry(ctx context.Context, cfg *Config) (func(), error) {
	var shutdowns []func(context.Context) error
	shutdownAll := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for _, shutdown := range shutdowns {
			if err := shutdown(ctx); err != nil {
				logger.Warn("telemetry shutdown failed", logger.MergeWithError(nil, err))
			}
		}
	}

	if cfg.Tracing.Enabled {
		shutdown, err := startTracer(ctx, cfg.Tracing)
		if err != nil {
			return nil, fmt.Errorf("initializing tracer: %w", err)
		}
		shutdowns = append(shutdowns, shutdown)
	}
	if cfg.Metrics.Enabled {
		shutdown, err := startMeter(ctx, cfg.Metrics)
		if err != nil {
			shutdownAll()
			return nil, fmt.Errorf("initializing meter: %w", err)
		}
		shutdowns = append(shutdowns, shutdown)
	}

	return shutdownAll, nil
}
