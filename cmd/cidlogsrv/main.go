// Command cidlogsrv runs the event log store's NATS-facing service
// facade: it loads configuration, opens the store, starts the background
// flusher and the Prometheus exposition endpoint, subscribes the facade's
// subjects, and waits for a shutdown signal.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cidlogsrv/cidlogsrv/internal/config"
	"github.com/cidlogsrv/cidlogsrv/internal/logstore"
	"github.com/cidlogsrv/cidlogsrv/internal/service"
	"github.com/cidlogsrv/cidlogsrv/pkg/fs"
	"github.com/dc0d/onexit"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		slog.Error("cidlogsrv: fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	fset := pflag.NewFlagSet("cidlogsrv", pflag.ExitOnError)
	config.RegisterFlags(fset)
	configPath := fset.String("config", "cidlogsrv.hujson", "path to a HuJSON config file")

	if err := fset.Parse(os.Args[1:]); err != nil {
		return err
	}

	cfg, err := config.Load(".env", *configPath, fset)
	if err != nil {
		return err
	}

	logLevel := parseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	reg := prometheus.NewRegistry()

	store, err := logstore.Open(fs.NewReal(), cfg.StorePath, reg)
	if err != nil {
		return fmt.Errorf("opening store %q: %w", cfg.StorePath, err)
	}

	onexit.Register(func() {
		if err := store.Close(); err != nil {
			logger.Error("cidlogsrv: closing store", "error", err)
		}
	})

	flusher, err := logstore.NewFlusher(store, logger)
	if err != nil {
		return err
	}

	if err := flusher.Start(); err != nil {
		return err
	}

	onexit.Register(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := flusher.Stop(ctx); err != nil {
			logger.Error("cidlogsrv: stopping flusher", "error", err)
		}
	})

	if cfg.MetricsAddr != "" {
		startMetricsServer(cfg.MetricsAddr, reg, logger)
	}

	nc, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		return fmt.Errorf("connecting to NATS at %q: %w", cfg.NATSURL, err)
	}

	onexit.Register(nc.Close)

	facade := service.NewFacade(store, nc, logger)
	if err := facade.Start(); err != nil {
		return fmt.Errorf("starting service facade: %w", err)
	}

	onexit.Register(facade.Stop)

	logger.Info("cidlogsrv: ready", "store", cfg.StorePath, "nats", cfg.NATSURL)

	waitForShutdown()

	return nil
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func startMetricsServer(addr string, reg *prometheus.Registry, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("cidlogsrv: metrics server exited", "error", err)
		}
	}()

	onexit.Register(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
}

func waitForShutdown() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
}
