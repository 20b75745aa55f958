// Package config handles configuration management for cpgen.
// It layers embedded TOML defaults, the user configuration file and CPGEN_*
// environment variables, then decodes the result into a Config.
package config
