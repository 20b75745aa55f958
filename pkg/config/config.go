package config

import (
	"time"

	"github.com/arthur-debert/cpgen/pkg/errors"
	"github.com/arthur-debert/cpgen/pkg/types"
)

// Config is the effective cpgen configuration.
type Config struct {
	Templates    Templates    `koanf:"templates" toml:"templates" yaml:"templates"`
	Cache        Cache        `koanf:"cache" toml:"cache" yaml:"cache"`
	Fetch        Fetch        `koanf:"fetch" toml:"fetch" yaml:"fetch"`
	Defaults     Defaults     `koanf:"defaults" toml:"defaults" yaml:"defaults"`
	Project      Project      `koanf:"project" toml:"project" yaml:"project"`
	Substitution Substitution `koanf:"substitution" toml:"substitution" yaml:"substitution"`
}

// Templates describes where the template bundle is downloaded from
type Templates struct {
	URL string `koanf:"url" toml:"url" yaml:"url"`
}

// Cache holds the template cache location
type Cache struct {
	// Dir overrides the cache root; empty means $HOME/.cpgen
	Dir string `koanf:"dir" toml:"dir" yaml:"dir"`
}

// Fetch controls the bundle download
type Fetch struct {
	// Timeout bounds the whole download; zero disables it
	Timeout time.Duration `koanf:"timeout" toml:"timeout" yaml:"timeout"`
}

// Defaults holds the values used when a flag is not given
type Defaults struct {
	Standard       string `koanf:"standard" toml:"standard" yaml:"standard"`
	ProjectVersion string `koanf:"project_version" toml:"project_version" yaml:"project_version"`
	LibraryType    string `koanf:"library_type" toml:"library_type" yaml:"library_type"`
}

// Project holds project discovery settings
type Project struct {
	Marker string `koanf:"marker" toml:"marker" yaml:"marker"`
}

// Substitution controls placeholder handling after materialization
type Substitution struct {
	// Strict fails an operation that leaves unresolved placeholders behind
	Strict bool `koanf:"strict" toml:"strict" yaml:"strict"`
}

// Default returns the configuration described by the embedded defaults.
func Default() *Config {
	cfg, err := Load(Options{SkipUserFile: true, SkipEnv: true})
	if err != nil {
		// The embedded defaults are part of the binary
		panic(err)
	}
	return cfg
}

// LibraryType returns the configured default library type.
func (c *Config) LibraryType() (types.LibraryType, error) {
	return types.ParseLibraryType(c.Defaults.LibraryType, types.LibraryStatic)
}

// Validate checks values that cannot be expressed by the decoder.
func (c *Config) Validate() error {
	if c.Templates.URL == "" {
		return errors.New(errors.ErrConfiguration, "templates.url cannot be empty")
	}
	if c.Fetch.Timeout < 0 {
		return errors.Newf(errors.ErrConfiguration, "fetch.timeout cannot be negative (got %s)", c.Fetch.Timeout)
	}
	if c.Project.Marker == "" {
		return errors.New(errors.ErrConfiguration, "project.marker cannot be empty")
	}
	if _, err := c.LibraryType(); err != nil {
		return errors.Wrap(err, errors.ErrConfiguration, "invalid defaults.library_type")
	}
	return nil
}
