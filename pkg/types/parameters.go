package types

import (
	"strings"

	"github.com/arthur-debert/cpgen/pkg/errors"
)

// LibraryType selects the flavour of library a template produces.
type LibraryType string

const (
	LibraryStatic     LibraryType = "static"
	LibraryShared     LibraryType = "shared"
	LibraryHeaderOnly LibraryType = "header_only"
	LibraryModule     LibraryType = "module"
)

// LibraryTypes lists every accepted library type, in the order shown to users.
var LibraryTypes = []LibraryType{LibraryStatic, LibraryShared, LibraryHeaderOnly, LibraryModule}

// ParseLibraryType maps a user supplied selector to a LibraryType.
// The empty string yields fallback so callers can keep their default.
func ParseLibraryType(s string, fallback LibraryType) (LibraryType, error) {
	if s == "" {
		return fallback, nil
	}
	for _, t := range LibraryTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", errors.Newf(errors.ErrInvalidInput,
		"invalid library type %q (expected one of %s)", s, strings.Join(LibraryTypeNames(), ", "))
}

// LibraryTypeNames returns the selectors accepted by ParseLibraryType.
func LibraryTypeNames() []string {
	names := make([]string, len(LibraryTypes))
	for i, t := range LibraryTypes {
		names[i] = string(t)
	}
	return names
}

// Default parameter values applied when a caller leaves a field unset.
const (
	DefaultStandard       = "11"
	DefaultProjectVersion = "0.1.0"
	DefaultRootPath       = "."
)

// ProjectParameters describes a new project.
type ProjectParameters struct {
	Name          string
	Version       string
	Description   string
	ConanPackages []string
	CMakePackages []string
	RootPath      string
}

// LibraryParameters describes a library added to a project.
type LibraryParameters struct {
	Name         string
	Type         LibraryType
	Dependencies []string
	Standard     string
}

// ExecutableParameters describes an executable or a test added to a project.
type ExecutableParameters struct {
	Name         string
	Dependencies []string
	Standard     string
}

// NewProjectParameters returns parameters with the documented defaults.
func NewProjectParameters(name string) ProjectParameters {
	return ProjectParameters{
		Name:     name,
		Version:  DefaultProjectVersion,
		RootPath: DefaultRootPath,
	}
}

// NewLibraryParameters returns parameters with the documented defaults.
func NewLibraryParameters(name string) LibraryParameters {
	return LibraryParameters{
		Name:     name,
		Type:     LibraryStatic,
		Standard: DefaultStandard,
	}
}

// NewExecutableParameters returns parameters with the documented defaults.
func NewExecutableParameters(name string) ExecutableParameters {
	return ExecutableParameters{
		Name:     name,
		Standard: DefaultStandard,
	}
}
