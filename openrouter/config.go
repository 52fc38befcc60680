package openrouter

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/healthymeal/backend/validation"
)

// Default client settings.
const (
	DefaultBaseURL     = "https://openrouter.ai/api/v1"
	DefaultTimeout     = "30s"
	DefaultMaxAttempts = 3
)

// Config holds OpenRouter client configuration. APIKey normally comes from
// the OPENROUTER_API_KEY environment variable.
type Config struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`

	// AppURL and AppName are sent as HTTP-Referer and X-Title for app
	// attribution on openrouter.ai rankings.
	AppURL  string `mapstructure:"app_url"`
	AppName string `mapstructure:"app_name"`

	// DefaultModel is used when a request does not name a model.
	DefaultModel string `mapstructure:"default_model"`

	// AllowedModels, when non-empty, restricts which models may be
	// requested. DefaultModel must be on the list.
	AllowedModels []string `mapstructure:"allowed_models"`

	// DefaultParams apply to every request unless overridden per call.
	DefaultParams ModelParams `mapstructure:"default_params"`

	// Timeout is the per-attempt upstream timeout (e.g. "30s").
	Timeout string `mapstructure:"timeout"`

	// MaxAttempts caps total attempts per request, including the first.
	MaxAttempts int `mapstructure:"max_attempts"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if strings.TrimSpace(c.BaseURL) == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout == "" {
		c.Timeout = DefaultTimeout
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
}

// Validate fails fast on broken configuration before any network call.
// All failures carry the CONFIG error code.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return newConfigError("Missing OPENROUTER_API_KEY", nil)
	}
	if strings.TrimSpace(c.DefaultModel) == "" {
		return newConfigError("Missing default model", nil)
	}
	if len(c.DefaultModel) > MaxModelNameChars {
		return newConfigError("Default model name too long", nil)
	}

	baseURL := strings.TrimSpace(c.BaseURL)
	parsed, err := url.Parse(baseURL)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return newConfigError("Invalid base URL", err)
	}

	if appURL := strings.TrimSpace(c.AppURL); appURL != "" {
		parsed, err := url.Parse(appURL)
		if err != nil || !parsed.IsAbs() || parsed.Host == "" {
			return newConfigError("Invalid app URL", err)
		}
	}

	timeout, err := time.ParseDuration(c.Timeout)
	if err != nil || timeout <= 0 {
		return newConfigError(fmt.Sprintf("Invalid timeout %q", c.Timeout), err)
	}

	if allowed := c.allowedModelSet(); allowed != nil {
		if _, ok := allowed[c.DefaultModel]; !ok {
			return newConfigError("Default model must be in allowed models", nil)
		}
	}

	if err := validation.Struct(&c.DefaultParams); err != nil {
		return newConfigError("Invalid default params", err)
	}
	return nil
}

// allowedModelSet returns the allow-list as a set, or nil when every model
// is permitted. Blank entries are dropped.
func (c *Config) allowedModelSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.AllowedModels))
	for _, m := range c.AllowedModels {
		m = strings.TrimSpace(m)
		if m != "" {
			set[m] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}

func (c *Config) timeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultTimeout)
	}
	return d
}
