package config

import (
	"github.com/healthymeal/backend/auth"
	"github.com/healthymeal/backend/database"
	"github.com/healthymeal/backend/logger"
	"github.com/healthymeal/backend/openrouter"
	"github.com/healthymeal/backend/server"
)

// App is the top-level configuration for the HealthyMeal backend service.
type App struct {
	Service    ServiceConfig     `mapstructure:"service"`
	Logger     logger.Config     `mapstructure:"logger"`
	Server     server.Config     `mapstructure:"server"`
	Database   database.Config   `mapstructure:"database"`
	OpenRouter openrouter.Config `mapstructure:"openrouter"`
	Auth       auth.Config       `mapstructure:"auth"`
	API        APIConfig         `mapstructure:"api"`
}

// ServiceConfig identifies the running service.
type ServiceConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment" validate:"omitempty,oneof=development staging production"`
}

// APIConfig tunes the public API surface.
type APIConfig struct {
	// RequestsPerMinute limits adjustment starts per user. Zero disables
	// the limit.
	RequestsPerMinute int `mapstructure:"requests_per_minute" validate:"gte=0"`
}

// ApplyDefaults fills unset fields on every section.
func (a *App) ApplyDefaults() {
	if a.Service.Name == "" {
		a.Service.Name = "healthymeal-backend"
	}
	if a.Service.Environment == "" {
		a.Service.Environment = "development"
	}
	a.Logger.ApplyDefaults()
	a.Server.ApplyDefaults()
	a.Database.ApplyDefaults()
	a.OpenRouter.ApplyDefaults()
	a.Auth.ApplyDefaults()
}

// Validate checks every section for consistency.
func (a *App) Validate() error {
	if err := a.Logger.Validate(); err != nil {
		return err
	}
	if err := a.Server.Validate(); err != nil {
		return err
	}
	if err := a.Database.Validate(); err != nil {
		return err
	}
	if err := a.Auth.Validate(); err != nil {
		return err
	}
	return a.OpenRouter.Validate()
}
