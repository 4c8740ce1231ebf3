package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the configuration for correctness using the `validate`
// struct tags declared alongside each field. It rejects a non-positive
// bucket count or port send timeout, an unrecognized log level/format, and
// an admin listen address missing while the admin server is enabled.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
