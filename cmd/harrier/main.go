// Harrier - Fraud signal detection for revenue authorities.
// Copyright (c) 2025 openrevenue
// Licensed under the Apache License 2.0

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

	"github.com/openrevenue/harrier/internal/api"
	"github.com/openrevenue/harrier/internal/bus"
	"github.com/openrevenue/harrier/internal/cache"
	"github.com/openrevenue/harrier/internal/domain"
	"github.com/openrevenue/harrier/internal/engine"
	"github.com/openrevenue/harrier/internal/repository"
	"github.com/openrevenue/harrier/internal/rules"
	"github.com/openrevenue/harrier/internal/worker"
)

// Version information (set via ldflags)
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	// Initialize structured logger
	logLevel := slog.LevelInfo
	if os.Getenv("HARRIER_DEBUG") == "true" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("starting harrier",
		"version", Version,
		"commit", Commit,
		"build_date", BuildDate,
	)

	// Load configuration
	cfg := domain.DefaultConfig()

	// Check for Pro tier via environment
	if os.Getenv("HARRIER_TIER") == "pro" {
		cfg = domain.ProConfig()
		slog.Info("running in Pro tier mode")
	}

	slog.Info("configuration loaded",
		"tier", cfg.Tier,
		"repository", cfg.Repository.Driver,
		"cache", cfg.Cache.Type,
		"eventbus", cfg.EventBus.Type,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		slog.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Initialize Repository
	repo, err := repository.New(cfg.Repository)
	if err != nil {
		slog.Error("failed to initialize repository", "error", err)
		os.Exit(1)
	}
	defer repo.Close()
	slog.Info("repository initialized", "driver", cfg.Repository.Driver)

	// Initialize Cache
	cacheImpl, err := cache.New(cfg.Cache)
	if err != nil {
		slog.Error("failed to initialize cache", "error", err)
		os.Exit(1)
	}
	defer cacheImpl.Close()
	slog.Info("cache initialized", "type", cfg.Cache.Type)

	// Initialize EventBus
	busImpl, err := bus.New(cfg.EventBus)
	if err != nil {
		slog.Error("failed to initialize event bus", "error", err)
		os.Exit(1)
	}
	defer busImpl.Close()
	slog.Info("event bus initialized", "type", cfg.EventBus.Type)

	// Initialize Screening Rule Engine
	ruleEngine, err := rules.NewEngine(100)
	if err != nil {
		slog.Error("failed to initialize rule engine", "error", err)
		os.Exit(1)
	}
	if err := loadScreeningRules(ctx, repo, ruleEngine); err != nil {
		slog.Error("failed to load screening rules", "error", err)
		os.Exit(1)
	}
	slog.Info("rule engine initialized", "rules_count", ruleEngine.RulesCount())

	// Initialize Detection Engine
	det := engine.New(cfg, repo, cacheImpl, busImpl, ruleEngine, logger)
	slog.Info("detection engine initialized",
		"sales_drop_pct", cfg.Thresholds.SalesDropPct,
		"score_floor", cfg.Thresholds.AlertScoreFloor,
	)

	// Initialize run Worker (bus-triggered runs + scheduler)
	runWorker := worker.NewWorker(busImpl, det, cfg.Scheduler, logger)
	if err := runWorker.Start(); err != nil {
		slog.Error("failed to start run worker", "error", err)
		os.Exit(1)
	}

	// Initialize Server
	srv := api.NewServer(cfg.Server, repo, cacheImpl, busImpl, ruleEngine, det, Version)

	// Start Server in goroutine
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("harrier is ready",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	printBanner(cfg, Version)

	// Wait for shutdown signal
	<-ctx.Done()
	slog.Info("shutting down...")

	// Stop the worker first so no run starts mid-shutdown
	if err := runWorker.Stop(); err != nil {
		slog.Error("failed to stop run worker", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("harrier shutdown complete")
}

// loadScreeningRules loads rules from the database into the engine.
// An empty database falls back to the built-in rule set so a fresh
// install screens something useful out of the box.
func loadScreeningRules(ctx context.Context, repo domain.Repository, ruleEngine *rules.Engine) error {
	stored, err := repo.ListScreeningRules(ctx)
	if err != nil {
		slog.Warn("failed to list screening rules from database", "error", err)
		return nil
	}

	if len(stored) > 0 {
		slog.Info("loading screening rules from database", "count", len(stored))
		return ruleEngine.LoadRules(stored)
	}

	defaults := rules.DefaultScreeningRules()
	slog.Info("no screening rules in database, loading built-ins", "count", len(defaults))
	for _, rule := range defaults {
		if err := repo.SaveScreeningRule(ctx, rule); err != nil {
			slog.Warn("failed to persist built-in rule", "id", rule.ID, "error", err)
		}
	}
	return ruleEngine.LoadRules(defaults)
}

func printBanner(cfg *domain.Config, version string) {
	fmt.Println()
	fmt.Println("  ╔═══════════════════════════════════════════╗")
	fmt.Println("  ║               HARRIER                     ║")
	fmt.Println("  ║     Fraud Signal Detection Engine         ║")
	fmt.Println("  ║      Every return tells a story.          ║")
	fmt.Println("  ╚═══════════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("  Version:  %s\n", version)
	fmt.Printf("  Tier:     %s\n", cfg.Tier)
	fmt.Printf("  Server:   http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Println()
	fmt.Println("  Endpoints:")
	fmt.Println("    POST  /runs                    - Trigger a detection run")
	fmt.Println("    GET   /runs/{id}               - Get run summary")
	fmt.Println("    GET   /alerts                  - Ranked risk alerts")
	fmt.Println("    GET   /alerts/{key}            - Get alert by key")
	fmt.Println("    PATCH /alerts/{key}            - Update investigation status")
	fmt.Println("    GET   /compliance/{taxpayerID} - Compliance snapshot")
	fmt.Println("    GET   /cohorts                 - Sector cohort statistics")
	fmt.Println("    GET   /screening-rules         - List screening rules")
	fmt.Println("    POST  /screening-rules         - Create a screening rule")
	fmt.Println("    POST  /screening-rules/reload  - Hot-reload rules")
	fmt.Println("    GET   /health                  - Health check")
	fmt.Println()
}
