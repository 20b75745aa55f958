package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/cpgen/pkg/errors"
	"github.com/arthur-debert/cpgen/pkg/types"
)

// Environment variable names
const (
	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// CacheDirName is the directory created under the configuration home
	CacheDirName = ".cpgen"

	// TemplatesDir is the published template tree inside the cache root
	TemplatesDir = "templates"

	// ArchiveName is the last downloaded template bundle inside the cache root
	ArchiveName = "templates.tar.gz"

	// AppDirName is the directory name used under XDG locations
	AppDirName = "cpgen"

	// ConfigFileName is the user configuration file under XDG_CONFIG_HOME/cpgen
	ConfigFileName = "config.toml"

	// DefaultProjectMarker identifies the root of a generated project
	DefaultProjectMarker = ".cpgen"
)

// ConfigHome returns the configuration home derived from $HOME.
// A missing or empty variable is a configuration error.
func ConfigHome() (string, error) {
	home := os.Getenv(EnvHome)
	if home == "" {
		return "", errors.New(errors.ErrConfiguration, "failed to get HOME environment variable")
	}
	abs, err := filepath.Abs(home)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrConfiguration, "failed to resolve home directory %s", home)
	}
	return abs, nil
}

// CacheRoot returns the template cache root. A non-empty override wins over
// the $HOME/.cpgen default.
func CacheRoot(override string) (string, error) {
	if override != "" {
		abs, err := filepath.Abs(ExpandHome(override))
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrConfiguration, "failed to resolve cache directory %s", override)
		}
		return abs, nil
	}

	home, err := ConfigHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, CacheDirName), nil
}

// ConfigFilePath returns the default location of the user configuration file.
func ConfigFilePath() string {
	return filepath.Join(xdg.ConfigHome, AppDirName, ConfigFileName)
}

// FindProjectRoot walks up from start looking for a directory that contains
// marker. The directory named by exclude (the cache root) never matches.
func FindProjectRoot(fsys types.FS, start, marker, exclude string) (string, error) {
	if marker == "" {
		marker = DefaultProjectMarker
	}

	current, err := filepath.Abs(start)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrProjectRootNotFound, "failed to resolve %s", start)
	}
	if exclude != "" {
		exclude = filepath.Clean(exclude)
	}

	for {
		candidate := filepath.Join(current, marker)
		if candidate != exclude {
			if _, err := fsys.Lstat(candidate); err == nil {
				return current, nil
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	return "", errors.Newf(errors.ErrProjectRootNotFound,
		"failed to locate a cpgen project root (no %s found above %s)", marker, start).
		WithDetail(errors.DetailPath, start)
}

// ExpandHome expands a leading ~ to the home directory.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir := os.Getenv(EnvHome)
	if homeDir == "" {
		var err error
		homeDir, err = os.UserHomeDir()
		if err != nil {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~something (not the user's home)
	return path
}
