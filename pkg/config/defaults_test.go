package config

import (
	"testing"
	"time"
)

func TestApplyDefaults_Logging(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default log level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default log format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default log output 'stdout', got %q", cfg.Logging.Output)
	}
}

func TestApplyDefaults_Logging_NormalizesLevelCase(t *testing.T) {
	cfg := &Config{Logging: LoggingConfig{Level: "debug"}}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected level to be normalized to 'DEBUG', got %q", cfg.Logging.Level)
	}
}

func TestApplyDefaults_ShutdownTimeout(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("Expected default shutdown timeout 5s, got %v", cfg.ShutdownTimeout)
	}
}

func TestApplyDefaults_Registry(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Registry.BucketCount != 8192 {
		t.Errorf("Expected default bucket count 8192, got %d", cfg.Registry.BucketCount)
	}
	if cfg.Registry.PortSendTimeout != 50*time.Millisecond {
		t.Errorf("Expected default port send timeout 50ms, got %v", cfg.Registry.PortSendTimeout)
	}
}

func TestApplyDefaults_Admin(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Admin.ListenAddr != "127.0.0.1:9109" {
		t.Errorf("Expected default admin listen addr '127.0.0.1:9109', got %q", cfg.Admin.ListenAddr)
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{
			Level:  "DEBUG",
			Format: "json",
			Output: "/var/log/notifyd.log",
		},
		Registry: RegistryConfig{
			UseLocks:        false,
			BucketCount:     1024,
			PortSendTimeout: 10 * time.Millisecond,
		},
		ShutdownTimeout: 60 * time.Second,
		Admin: AdminConfig{
			ListenAddr: "0.0.0.0:9200",
		},
	}

	ApplyDefaults(cfg)

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected explicit level 'DEBUG' to be preserved, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected explicit format 'json' to be preserved, got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "/var/log/notifyd.log" {
		t.Errorf("Expected explicit output to be preserved, got %q", cfg.Logging.Output)
	}
	if cfg.Registry.UseLocks {
		t.Error("Expected explicit use_locks=false to be preserved")
	}
	if cfg.Registry.BucketCount != 1024 {
		t.Errorf("Expected explicit bucket count to be preserved, got %d", cfg.Registry.BucketCount)
	}
	if cfg.ShutdownTimeout != 60*time.Second {
		t.Errorf("Expected explicit timeout 60s to be preserved, got %v", cfg.ShutdownTimeout)
	}
	if cfg.Admin.ListenAddr != "0.0.0.0:9200" {
		t.Errorf("Expected explicit admin listen addr to be preserved, got %q", cfg.Admin.ListenAddr)
	}
}

func TestGetDefaultConfig_IsValid(t *testing.T) {
	cfg := GetDefaultConfig()

	err := Validate(cfg)
	if err != nil {
		t.Errorf("Default config should be valid, got error: %v", err)
	}
}

func TestGetDefaultConfig_HasRequiredFields(t *testing.T) {
	cfg := GetDefaultConfig()

	if cfg.Logging.Level == "" {
		t.Error("Default config missing logging level")
	}
	if cfg.Registry.BucketCount == 0 {
		t.Error("Default config missing registry bucket count")
	}
	if cfg.Registry.PortSendTimeout == 0 {
		t.Error("Default config missing registry port send timeout")
	}
	if !cfg.Registry.UseLocks {
		t.Error("Default config should have use_locks enabled")
	}
}
