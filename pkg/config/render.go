package config

import (
	"bytes"
	"strings"

	"github.com/arthur-debert/cpgen/pkg/errors"
	gotoml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by Render
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// Formats lists the formats Render understands
var Formats = []string{FormatTOML, FormatYAML}

// renderable mirrors Config with durations as strings so both encoders
// print "30s" rather than nanoseconds.
type renderable struct {
	Templates    Templates    `toml:"templates" yaml:"templates"`
	Cache        Cache        `toml:"cache" yaml:"cache"`
	Fetch        renderFetch  `toml:"fetch" yaml:"fetch"`
	Defaults     Defaults     `toml:"defaults" yaml:"defaults"`
	Project      Project      `toml:"project" yaml:"project"`
	Substitution Substitution `toml:"substitution" yaml:"substitution"`
}

type renderFetch struct {
	Timeout string `toml:"timeout" yaml:"timeout"`
}

// Render serializes the configuration in the given format.
func Render(cfg *Config, format string) ([]byte, error) {
	r := renderable{
		Templates:    cfg.Templates,
		Cache:        cfg.Cache,
		Fetch:        renderFetch{Timeout: cfg.Fetch.Timeout.String()},
		Defaults:     cfg.Defaults,
		Project:      cfg.Project,
		Substitution: cfg.Substitution,
	}

	switch strings.ToLower(format) {
	case "", FormatTOML:
		var buf bytes.Buffer
		enc := gotoml.NewEncoder(&buf)
		if err := enc.Encode(r); err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode configuration as toml")
		}
		return buf.Bytes(), nil
	case FormatYAML:
		out, err := yaml.Marshal(r)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode configuration as yaml")
		}
		return out, nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput,
			"unknown format %q (valid: %s)", format, strings.Join(Formats, ", "))
	}
}
