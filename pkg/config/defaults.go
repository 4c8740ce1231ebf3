package config

import (
	"strings"
	"time"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// This function is called after loading configuration from file and environment
// variables to fill in any missing values with sensible defaults.
//
// Default Strategy:
//   - Zero values (0, "") are replaced with defaults; bool fields such as
//     UseLocks are left as they are
//   - Explicit values are preserved
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyRegistryDefaults(&cfg.Registry)
	applyAdminDefaults(&cfg.Admin)

	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Normalize log level to uppercase for consistent internal representation
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

// applyRegistryDefaults sets the tunables documented in the registry's
// facade: a bucket count sized for a few thousand concurrently registered
// names and the port transport's bounded send timeout. UseLocks has no
// zero-value-safe default here (false is a valid explicit setting); it is
// defaulted to true via viper.SetDefault in Load before unmarshalling.
func applyRegistryDefaults(cfg *RegistryConfig) {
	if cfg.BucketCount == 0 {
		cfg.BucketCount = 8192
	}

	if cfg.PortSendTimeout == 0 {
		cfg.PortSendTimeout = 50 * time.Millisecond
	}
}

// applyAdminDefaults sets the admin HTTP server's defaults.
func applyAdminDefaults(cfg *AdminConfig) {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = "127.0.0.1:9109"
	}
}

// GetDefaultConfig returns a Config struct with all default values applied.
//
// This is useful for:
//   - Generating sample configuration files
//   - Testing
//   - Documentation
func GetDefaultConfig() *Config {
	cfg := &Config{
		Registry: RegistryConfig{UseLocks: true},
	}
	ApplyDefaults(cfg)
	return cfg
}
