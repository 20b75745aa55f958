package cache

import (
	"path/filepath"

	"github.com/arthur-debert/cpgen/pkg/paths"
)

// Root is the on-disk location of the template cache.
type Root struct {
	Dir string
}

// NewRoot builds a Root for dir.
func NewRoot(dir string) Root {
	return Root{Dir: filepath.Clean(dir)}
}

// ResolveRoot builds the Root from an optional override, falling back to
// $HOME/.cpgen.
func ResolveRoot(override string) (Root, error) {
	dir, err := paths.CacheRoot(override)
	if err != nil {
		return Root{}, err
	}
	return NewRoot(dir), nil
}

// TemplatesDir is the published template tree.
func (r Root) TemplatesDir() string {
	return filepath.Join(r.Dir, paths.TemplatesDir)
}

// ArchivePath is the last successfully downloaded bundle.
func (r Root) ArchivePath() string {
	return filepath.Join(r.Dir, paths.ArchiveName)
}
