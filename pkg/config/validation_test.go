package config

import (
	"strings"
	"testing"
)

func TestValidate_ValidConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	err := Validate(cfg)
	if err != nil {
		t.Errorf("Expected valid config to pass validation, got error: %v", err)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Level = "INVALID"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for invalid log level")
	}
	if !strings.Contains(err.Error(), "oneof") {
		t.Errorf("Expected 'oneof' validation error, got: %v", err)
	}
}

func TestValidate_InvalidLogFormat(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Format = "xml"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for invalid log format")
	}
}

func TestValidate_MissingLogOutput(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Output = ""

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for missing log output")
	}
}

func TestValidate_ZeroBucketCount(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Registry.BucketCount = 0

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for zero bucket count")
	}
}

func TestValidate_NegativeBucketCount(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Registry.BucketCount = -1

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for negative bucket count")
	}
}

func TestValidate_ZeroPortSendTimeout(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Registry.PortSendTimeout = 0

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for zero port send timeout")
	}
}

func TestValidate_ZeroShutdownTimeout(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.ShutdownTimeout = 0

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for zero shutdown timeout")
	}
}

func TestValidate_AdminEnabledRequiresListenAddr(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Admin.Enabled = true
	cfg.Admin.ListenAddr = ""

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for enabled admin server with no listen addr")
	}
}

func TestValidate_AdminDisabledAllowsEmptyListenAddr(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Admin.Enabled = false
	cfg.Admin.ListenAddr = ""

	err := Validate(cfg)
	if err != nil {
		t.Errorf("Expected disabled admin server with no listen addr to be valid, got: %v", err)
	}
}
