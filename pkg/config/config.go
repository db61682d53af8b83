package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/casevault/casevault/pkg/telemetry"
)

// Config is the top-level CaseVault configuration. It is an explicit
// handle created once by the owning process; nothing in the module
// reads configuration implicitly.
type Config struct {
	Database  DatabaseConfig    `yaml:"database" validate:"required"`
	Ingest    IngestConfig      `yaml:"ingest"`
	Telemetry *telemetry.Config `yaml:"telemetry"`
}

// DatabaseConfig locates the SQLite database file.
type DatabaseConfig struct {
	Path string `yaml:"path" validate:"required"`
}

// IngestConfig configures the manifest ingestion pipeline.
type IngestConfig struct {
	// UploadsDir is the directory watched for new manifests.
	UploadsDir string `yaml:"uploads_dir"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "casevault.db",
		},
		Ingest: IngestConfig{
			UploadsDir: "uploads",
		},
		Telemetry: telemetry.DefaultConfig(),
	}
}

// Load reads configuration from the given YAML file, layered over
// defaults. An empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks structural constraints and the nested telemetry
// configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid config: field %s failed %q validation", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	if c.Telemetry != nil {
		if err := c.Telemetry.Validate(); err != nil {
			return fmt.Errorf("invalid telemetry config: %w", err)
		}
	}

	return nil
}
