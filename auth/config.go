package auth

import (
	"fmt"
	"time"
)

// DefaultAccessTokenTTL is the token lifetime used when none is configured.
const DefaultAccessTokenTTL = "24h"

// Config configures token signing and validation.
type Config struct {
	// Secret is the HMAC signing key.
	Secret string `mapstructure:"secret"`
	// Issuer is the expected "iss" claim. Empty disables the check.
	Issuer string `mapstructure:"issuer"`
	// Audience is the expected "aud" claim. Empty disables the check.
	Audience string `mapstructure:"audience"`
	// AccessTokenTTL is the token lifetime as a duration string.
	AccessTokenTTL string `mapstructure:"access_token_ttl"`
}

// ApplyDefaults sets sensible default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.AccessTokenTTL == "" {
		c.AccessTokenTTL = DefaultAccessTokenTTL
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return fmt.Errorf("auth.secret is required")
	}
	if _, err := time.ParseDuration(c.AccessTokenTTL); err != nil {
		return fmt.Errorf("auth.access_token_ttl is not a valid duration (got: %q)", c.AccessTokenTTL)
	}
	return nil
}

func (c *Config) ttl() time.Duration {
	d, err := time.ParseDuration(c.AccessTokenTTL)
	if err != nil {
		d, _ = time.ParseDuration(DefaultAccessTokenTTL)
	}
	return d
}
