// Package config loads application configuration from YAML files and
// environment variables. A .env file is loaded first when present, then
// viper merges the config file with HEALTHYMEAL_-prefixed environment
// overrides. Loaded structs are validated before use.
package config
