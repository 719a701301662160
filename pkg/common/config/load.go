package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/imdario/mergo"
)

const EnvPrefix = "MEGASENA_"

var validate = validator.New()

// Load reads the yaml file at path, fills unset fields from Default, applies
// MEGASENA_* environment overrides and validates the result. A missing file is
// not an error: the defaults (plus env) are used.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	// apply defaults
	if err := mergo.Merge(&cfg, Default()); err != nil {
		return nil, fmt.Errorf("merge defaults: %w", err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}

	// validate
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("struct validation failed: %w", err)
	}
	return &cfg, nil
}
