// Package config loads application settings from the environment and
// scenario/assumption profiles from YAML files.
package config

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/roitools/roical/internal/types"
)

// SupportedProfileMajor is the profile file format major version this
// build understands. Files declaring a different major are rejected.
const SupportedProfileMajor = "v1"

// AppConfig holds runtime configuration for the CLI
type AppConfig struct {
	// DBPath is the SQLite database file path
	// Default: .roical/roical.db
	DBPath string

	// Backend selects the storage backend: "sqlite" or "postgres"
	// Default: sqlite
	Backend string

	// PostgresURL is the connection string used when Backend is "postgres"
	PostgresURL string

	// ExportDir is the default directory for exported reports
	// Default: current directory
	ExportDir string

	// DefaultIterations is the Monte Carlo iteration count when the
	// --iterations flag is not given
	DefaultIterations int
}

// DefaultAppConfig returns default runtime configuration
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		DBPath:            ".roical/roical.db",
		Backend:           "sqlite",
		ExportDir:         ".",
		DefaultIterations: 10_000,
	}
}

// LoadFromEnv loads runtime configuration from environment variables.
// Environment variables override default values. Prefix: ROICAL_
func LoadFromEnv() *AppConfig {
	cfg := DefaultAppConfig()

	if val := os.Getenv("ROICAL_DB"); val != "" {
		cfg.DBPath = val
	}
	if val := os.Getenv("ROICAL_BACKEND"); val != "" {
		cfg.Backend = val
	}
	if val := os.Getenv("ROICAL_POSTGRES_URL"); val != "" {
		cfg.PostgresURL = val
	}
	if val := os.Getenv("ROICAL_EXPORT_DIR"); val != "" {
		cfg.ExportDir = val
	}
	if val := os.Getenv("ROICAL_ITERATIONS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			cfg.DefaultIterations = n
		}
	}

	return cfg
}

// Validate checks if the config has valid field values
func (c *AppConfig) Validate() error {
	if c.Backend != "sqlite" && c.Backend != "postgres" {
		return fmt.Errorf("backend must be sqlite or postgres (got %s)", c.Backend)
	}
	if c.Backend == "postgres" && c.PostgresURL == "" {
		return fmt.Errorf("ROICAL_POSTGRES_URL is required when backend is postgres")
	}
	if c.DefaultIterations <= 0 {
		return fmt.Errorf("default iterations must be positive (got %d)", c.DefaultIterations)
	}
	return nil
}

// Profile is a scenario definition loaded from a YAML file: the financial
// inputs plus the assumption profile to apply to them
type Profile struct {
	// Version is the profile format version, e.g. "1.0"
	Version string `yaml:"version"`

	Name        string                `yaml:"name"`
	Industry    types.Industry        `yaml:"industry"`
	Notes       string                `yaml:"notes,omitempty"`
	Inputs      types.FinancialInputs `yaml:"inputs"`
	Assumptions *types.Assumptions    `yaml:"assumptions,omitempty"`

	// AssumptionProfile names a built-in profile to use when the
	// assumptions block is absent
	AssumptionProfile string `yaml:"assumption_profile,omitempty"`
}

// LoadProfile reads and validates a scenario profile from a YAML file
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}

	return &p, nil
}

// Validate checks the profile's version and field values
func (p *Profile) Validate() error {
	if p.Version == "" {
		return fmt.Errorf("version is required")
	}
	v := "v" + p.Version
	if !semver.IsValid(v) {
		return fmt.Errorf("version %q is not a valid semantic version", p.Version)
	}
	if semver.Major(v) != SupportedProfileMajor {
		return fmt.Errorf("profile version %s is not supported (this build reads %s.x)",
			p.Version, SupportedProfileMajor)
	}

	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Industry == "" {
		p.Industry = types.IndustryOther
	}
	if !p.Industry.IsValid() {
		return fmt.Errorf("invalid industry: %s", p.Industry)
	}
	if err := p.Inputs.Validate(); err != nil {
		return fmt.Errorf("invalid inputs: %w", err)
	}
	if p.Assumptions == nil && p.AssumptionProfile == "" {
		return fmt.Errorf("either assumptions or assumption_profile is required")
	}
	if p.Assumptions != nil {
		if err := p.Assumptions.Validate(); err != nil {
			return fmt.Errorf("invalid assumptions: %w", err)
		}
	}
	return nil
}
