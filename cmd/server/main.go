package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/wikiplain/internal/api"
	"github.com/dgallion1/wikiplain/internal/cleanup"
	"github.com/dgallion1/wikiplain/internal/config"
	"github.com/dgallion1/wikiplain/internal/metrics"
	"github.com/dgallion1/wikiplain/internal/pipeline"
	"github.com/dgallion1/wikiplain/internal/plaintext"
	"github.com/dgallion1/wikiplain/internal/stats"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)
	cleanup.SetLogger(log)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	renderCfg := cfg.RenderConfig()
	renderCfg.Logger = log
	renderer, err := plaintext.New(renderCfg)
	if err != nil {
		log.Error("invalid render configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize pipeline.
	m := metrics.New()
	orch := pipeline.NewOrchestrator(cfg, renderer, stats.New(cfg.StatsWindow), m, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, m, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("http shutdown", "error", err)
		}

		orch.Stop()
		cleanup.Run()
	}()

	log.Info("starting wikiplain",
		"port", cfg.Port,
		"wrap_column", cfg.WrapColumn,
		"enumerate_sections", cfg.EnumerateSections,
		"workers", cfg.WorkerCount,
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		cleanup.Run()
		os.Exit(1)
	}
	<-done
}
