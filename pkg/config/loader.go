package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"strings"

	"github.com/arthur-debert/cpgen/pkg/errors"
	"github.com/arthur-debert/cpgen/pkg/logging"
	"github.com/arthur-debert/cpgen/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read as configuration
const EnvPrefix = "CPGEN_"

//go:embed embedded/defaults.toml
var defaultConfig []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// Options selects the configuration sources.
type Options struct {
	// File is an explicit configuration file; it must exist when set
	File string
	// SkipUserFile ignores the default user configuration file
	SkipUserFile bool
	// SkipEnv ignores CPGEN_* environment variables
	SkipEnv bool
	// Overrides are applied last, keyed by dotted path (e.g. "substitution.strict")
	Overrides map[string]interface{}
}

// envKeys maps environment variable suffixes to configuration keys. Keys
// containing underscores cannot be derived by splitting on "_".
var envKeys = map[string]string{
	"TEMPLATES_URL":            "templates.url",
	"CACHE_DIR":                "cache.dir",
	"FETCH_TIMEOUT":            "fetch.timeout",
	"DEFAULTS_STANDARD":        "defaults.standard",
	"DEFAULTS_PROJECT_VERSION": "defaults.project_version",
	"DEFAULTS_LIBRARY_TYPE":    "defaults.library_type",
	"PROJECT_MARKER":           "project.marker",
	"SUBSTITUTION_STRICT":      "substitution.strict",
}

// Load builds the effective configuration: embedded defaults, then the user
// file, then CPGEN_* environment variables, then explicit overrides.
func Load(opts Options) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. User config file
	configPath := opts.File
	required := configPath != ""
	if !required && !opts.SkipUserFile {
		configPath = paths.ConfigFilePath()
	}
	if configPath != "" {
		configPath = paths.ExpandHome(configPath)
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", configPath).
					WithDetail(errors.DetailPath, configPath)
			}
			logger.Debug().Str("path", configPath).Msg("Loaded user configuration")
		} else if required {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not found", configPath).
				WithDetail(errors.DetailPath, configPath)
		}
	}

	// 3. Environment
	if !opts.SkipEnv {
		err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
		}
	}

	// 4. Overrides (command-line flags)
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	// 5. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// envKey turns CPGEN_FETCH_TIMEOUT into fetch.timeout. Unknown variables
// return an empty key and are dropped by koanf.
func envKey(s string) string {
	suffix := strings.TrimPrefix(s, EnvPrefix)
	if key, ok := envKeys[suffix]; ok {
		return key
	}
	return ""
}
