// Package catalog maps artifact requests to template subtrees and
// substitution values. It performs no I/O.
package catalog

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/cpgen/pkg/errors"
	"github.com/arthur-debert/cpgen/pkg/paths"
	"github.com/arthur-debert/cpgen/pkg/types"
)

// Template subtrees, relative to the template root
const (
	SubtreeProject       = "project"
	SubtreeLibraryHeader = "library/header_only"
	SubtreeLibraryModule = "library/module"
	SubtreeLibraryStatic = "library/static_shared"
	SubtreeExecutable    = "executable"
	SubtreeTest          = "test"
)

// Substitution keys
const (
	KeyProjectName           = "project_name"
	KeyProjectVersion        = "project_version"
	KeyProjectDescription    = "project_description"
	KeyConanPackages         = "conan_pkgs"
	KeyCMakePackages         = "cmake_pkgs"
	KeyComponentName         = "component_name"
	KeyComponentStd          = "component_std"
	KeyComponentType         = "component_type"
	KeyComponentDependencies = "component_dependencies"
)

// DependencySeparator joins component dependencies inside CMake calls
const DependencySeparator = "\n\t"

// Subtrees lists every subtree a complete template bundle provides.
var Subtrees = []string{
	SubtreeProject,
	SubtreeLibraryHeader,
	SubtreeLibraryModule,
	SubtreeLibraryStatic,
	SubtreeExecutable,
	SubtreeTest,
}

// Selection is the template subtree and substitution values for one request.
type Selection struct {
	Kind    types.ArtifactKind
	Name    string
	Subtree string
	Values  map[string]string
}

// Project selects the project template.
func Project(p types.ProjectParameters) (Selection, error) {
	if err := paths.ValidateComponentName("project", p.Name); err != nil {
		return Selection{}, err
	}

	return Selection{
		Kind:    types.KindProject,
		Name:    p.Name,
		Subtree: SubtreeProject,
		Values: map[string]string{
			KeyProjectName:        p.Name,
			KeyProjectVersion:     p.Version,
			KeyProjectDescription: p.Description,
			KeyConanPackages:      FormatConanPackages(p.ConanPackages),
			KeyCMakePackages:      FormatCMakePackages(p.CMakePackages),
		},
	}, nil
}

// Library selects the library template matching p.Type.
func Library(p types.LibraryParameters) (Selection, error) {
	if err := paths.ValidateComponentName("library", p.Name); err != nil {
		return Selection{}, err
	}

	subtree, keyword, err := libraryTemplate(p.Type)
	if err != nil {
		return Selection{}, err
	}

	return Selection{
		Kind:    types.KindLibrary,
		Name:    p.Name,
		Subtree: subtree,
		Values: map[string]string{
			KeyComponentName:         p.Name,
			KeyComponentStd:          p.Standard,
			KeyComponentType:         keyword,
			KeyComponentDependencies: FormatDependencies(p.Dependencies),
		},
	}, nil
}

// Executable selects the executable template.
func Executable(p types.ExecutableParameters) (Selection, error) {
	return component(types.KindExecutable, SubtreeExecutable, p)
}

// Test selects the test template.
func Test(p types.ExecutableParameters) (Selection, error) {
	return component(types.KindTest, SubtreeTest, p)
}

func component(kind types.ArtifactKind, subtree string, p types.ExecutableParameters) (Selection, error) {
	if err := paths.ValidateComponentName(string(kind), p.Name); err != nil {
		return Selection{}, err
	}

	return Selection{
		Kind:    kind,
		Name:    p.Name,
		Subtree: subtree,
		Values: map[string]string{
			KeyComponentName:         p.Name,
			KeyComponentStd:          p.Standard,
			KeyComponentDependencies: FormatDependencies(p.Dependencies),
		},
	}, nil
}

// LibraryKeyword returns the CMake add_library keyword for t.
func LibraryKeyword(t types.LibraryType) (string, error) {
	_, keyword, err := libraryTemplate(t)
	return keyword, err
}

// LibrarySubtree returns the template subtree for t.
func LibrarySubtree(t types.LibraryType) (string, error) {
	subtree, _, err := libraryTemplate(t)
	return subtree, err
}

func libraryTemplate(t types.LibraryType) (string, string, error) {
	switch t {
	case types.LibraryHeaderOnly:
		return SubtreeLibraryHeader, "INTERFACE", nil
	case types.LibraryModule:
		return SubtreeLibraryModule, "MODULE", nil
	case types.LibraryStatic:
		return SubtreeLibraryStatic, "STATIC", nil
	case types.LibraryShared:
		return SubtreeLibraryStatic, "SHARED", nil
	}
	return "", "", errors.Newf(errors.ErrInvalidInput,
		"invalid library type %q (expected one of %s)", t, strings.Join(types.LibraryTypeNames(), ", "))
}

// FormatConanPackages quotes every package and joins them with ", " so the
// result can be used as a Python tuple body. An empty list yields `""`.
func FormatConanPackages(pkgs []string) string {
	return `"` + strings.Join(pkgs, `", "`) + `"`
}

// FormatCMakePackages emits one find_package call per non-empty name.
func FormatCMakePackages(pkgs []string) string {
	var b strings.Builder
	for _, pkg := range pkgs {
		if pkg == "" {
			continue
		}
		fmt.Fprintf(&b, "find_package(%s)\n", pkg)
	}
	return b.String()
}

// FormatDependencies joins dependencies with DependencySeparator.
func FormatDependencies(deps []string) string {
	return strings.Join(deps, DependencySeparator)
}
