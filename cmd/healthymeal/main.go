package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/healthymeal/backend/adjustment"
	"github.com/healthymeal/backend/api"
	"github.com/healthymeal/backend/auth"
	"github.com/healthymeal/backend/config"
	"github.com/healthymeal/backend/database"
	"github.com/healthymeal/backend/logger"
	"github.com/healthymeal/backend/openrouter"
	"github.com/healthymeal/backend/preferences"
	"github.com/healthymeal/backend/recipe"
	"github.com/healthymeal/backend/server"
	"github.com/healthymeal/backend/server/endpoint"
	"github.com/healthymeal/backend/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "healthymeal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg config.App
	if err := config.Load(&cfg); err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.New(&cfg.Logger, cfg.Service.Name)
	logger.SetGlobalLogger(log)

	log.Info("Starting service", logger.Fields(
		"service", cfg.Service.Name,
		"environment", cfg.Service.Environment,
		"version", version.GetShortVersion(),
	))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(&recipe.Recipe{}, &preferences.Preferences{}, &adjustment.Job{}); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}
	}

	client, err := openrouter.New(cfg.OpenRouter, openrouter.WithLogger(log))
	if err != nil {
		return fmt.Errorf("creating gateway client: %w", err)
	}

	tokens, err := auth.NewService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("creating auth service: %w", err)
	}

	jobs := adjustment.NewStore(db)
	svc := adjustment.NewService(recipe.NewStore(db), preferences.NewStore(db), jobs, client, log)

	srv := server.New(cfg.Server, log)
	srv.ApplyDefaults(cfg.Service.Name, healthChecker(db, client))
	api.Register(srv.GinEngine(), api.Deps{
		Adjustments:       api.NewAdjustmentHandler(svc, jobs, log),
		TokenValidator:    tokens.ValidateToken,
		RequestsPerMinute: cfg.API.RequestsPerMinute,
	})

	if err := srv.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	log.Info("Shutdown signal received")
	return srv.Stop(context.Background())
}

// healthChecker reports database and model upstream health.
func healthChecker(db *database.DB, client *openrouter.Client) endpoint.HealthChecker {
	return func(ctx context.Context) []endpoint.Check {
		checks := make([]endpoint.Check, 0, 2)

		dbCheck := endpoint.Check{Name: "database", Status: endpoint.StatusHealthy}
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := db.PingContext(pingCtx); err != nil {
			dbCheck.Status = endpoint.StatusUnhealthy
			dbCheck.Message = err.Error()
		}
		cancel()
		checks = append(checks, dbCheck)

		// The upstream check costs a real model call; a failure degrades the
		// service instead of marking it unhealthy.
		aiCheck := endpoint.Check{Name: "openrouter", Status: endpoint.StatusHealthy}
		if err := client.HealthCheck(ctx); err != nil {
			aiCheck.Status = endpoint.StatusDegraded
			aiCheck.Message = err.Error()
		}
		checks = append(checks, aiCheck)

		return checks
	}
}
