package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/healthymeal/backend/validation"
)

// Options holds optional file overrides for the loader.
type Options struct {
	ConfigFile string // explicit config file path
	EnvFile    string // explicit .env file path
}

// Option is a functional option for Load.
type Option func(*Options)

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) Option {
	return func(o *Options) { o.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) Option {
	return func(o *Options) { o.EnvFile = path }
}

// Load reads configuration into cfg. It searches for config.yml and .env in
// standard locations unless explicit paths are provided, binds environment
// variables over file values, and unmarshals the result. Missing files are
// not an error so deployments can run on environment variables alone.
func Load(cfg interface{}, opts ...Option) error {
	var options Options
	for _, opt := range opts {
		opt(&options)
	}

	configFile := options.ConfigFile
	if configFile == "" {
		configFile = findFirst(configSearchPaths)
	}
	envFile := options.EnvFile
	if envFile == "" {
		envFile = findFirst(envSearchPaths)
	}

	v := viper.New()

	// YAML config is the base layer.
	if configFile != "" && exists(configFile) {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	// Environment variables override file values.
	v.AutomaticEnv()
	bindEnvVars(v)

	if envFile != "" && exists(envFile) {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("loading env file %s: %w", envFile, err)
		}
		// Re-bind to pick up variables introduced by the .env file.
		bindEnvVars(v)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unmarshaling config: %w", err)
	}
	return nil
}

// LoadAndValidate loads configuration and validates it with struct tags.
func LoadAndValidate(cfg interface{}, opts ...Option) error {
	if err := Load(cfg, opts...); err != nil {
		return err
	}
	if err := validation.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

var configSearchPaths = []string{
	"./cmd/healthymeal/config.yml",
	"../cmd/healthymeal/config.yml",
	"./config/config.yml",
	"./config.yml",
}

var envSearchPaths = []string{
	"./.env",
	"../.env",
	"./config/.env",
}

func findFirst(paths []string) string {
	for _, p := range paths {
		if exists(p) {
			return p
		}
	}
	return ""
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// bindEnvVars sets every environment variable into viper under the key
// variants viper might look up, so OPENROUTER_API_KEY also resolves as
// openrouter.api_key during Unmarshal.
func bindEnvVars(v *viper.Viper) {
	for _, env := range os.Environ() {
		pair := strings.SplitN(env, "=", 2)
		if len(pair) != 2 {
			continue
		}
		for _, variant := range envKeyVariants(pair[0]) {
			v.Set(variant, pair[1])
		}
	}
}

// envKeyVariants converts UPPER_CASE_WITH_UNDERSCORES to the nested key
// forms viper can match, e.g. OPENROUTER_API_KEY yields openrouter_api_key,
// openrouter.api.key and openrouter.api_key.
func envKeyVariants(envKey string) []string {
	lowerKey := strings.ToLower(envKey)
	parts := strings.Split(lowerKey, "_")
	if len(parts) <= 1 {
		return []string{lowerKey}
	}

	variants := []string{
		lowerKey,
		strings.ReplaceAll(lowerKey, "_", "."),
	}
	for i := 1; i < len(parts); i++ {
		variants = append(variants, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
	}

	seen := make(map[string]bool, len(variants))
	unique := variants[:0]
	for _, item := range variants {
		if !seen[item] {
			seen[item] = true
			unique = append(unique, item)
		}
	}
	return unique
}
