package paths

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/cpgen/pkg/errors"
)

// ValidateComponentName ensures a project or component name is usable as a
// single path element and as a CMake target name.
func ValidateComponentName(kind, name string) error {
	if name == "" {
		return errors.Newf(errors.ErrInvalidInput, "%s name cannot be empty", kind)
	}

	if strings.ContainsAny(name, "/\\") {
		return errors.Newf(errors.ErrInvalidInput, "%s name cannot contain path separators", kind)
	}

	if name == "." || name == ".." {
		return errors.Newf(errors.ErrInvalidInput, "%s name cannot be '.' or '..'", kind)
	}

	invalidChars := ":*?\"<>| "
	if strings.ContainsAny(name, invalidChars) {
		return errors.Newf(errors.ErrInvalidInput,
			"%s name %q contains invalid characters", kind, name)
	}

	for _, r := range name {
		if r < 32 {
			return errors.Newf(errors.ErrInvalidInput,
				"%s name contains control characters", kind)
		}
	}

	return nil
}

// ContainsPath checks if child is contained within parent.
// Both paths are cleaned before comparison.
func ContainsPath(parent, child string) bool {
	parent = filepath.Clean(parent)
	child = filepath.Clean(child)

	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}

	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
