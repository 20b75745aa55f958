package materialize

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/cpgen/pkg/errors"
	"github.com/arthur-debert/cpgen/pkg/filesystem"
	"github.com/arthur-debert/cpgen/pkg/logging"
	"github.com/arthur-debert/cpgen/pkg/placeholder"
	"github.com/arthur-debert/cpgen/pkg/synthfs"
	"github.com/arthur-debert/cpgen/pkg/types"
	"github.com/rs/zerolog"
)

// Scope selects which part of the destination is substituted.
type Scope int

const (
	// ScopeDestination substitutes the whole destination tree
	ScopeDestination Scope = iota
	// ScopeTopLevel substitutes only the destination entries named like the
	// source's top-level entries
	ScopeTopLevel
)

func (s Scope) String() string {
	switch s {
	case ScopeDestination:
		return "destination"
	case ScopeTopLevel:
		return "top-level"
	default:
		return "unknown"
	}
}

// Request describes one materialization.
type Request struct {
	Source      string
	Destination string
	Values      map[string]string
	Scope       Scope
}

// Result lists what a materialization did. Paths are final destination
// paths, after placeholder renames. Template copies dropped or merged into
// an existing entry count as skipped.
type Result struct {
	Created []string
	Skipped []string
	// Entries are the substituted top-level paths after renames
	Entries []string
}

// Materializer copies template subtrees and resolves their placeholders.
type Materializer struct {
	fs     types.FS
	engine *placeholder.Engine
	logger zerolog.Logger
}

// New creates a Materializer operating on fs.
func New(fs types.FS) *Materializer {
	return &Materializer{
		fs:     fs,
		engine: placeholder.New(fs),
		logger: logging.GetLogger("materialize"),
	}
}

// Engine exposes the placeholder engine used for substitution.
func (m *Materializer) Engine() *placeholder.Engine {
	return m.engine
}

// Materialize copies req.Source into req.Destination, then substitutes.
// A copy failure aborts before any substitution happens.
func (m *Materializer) Materialize(req Request) (*Result, error) {
	defer logging.LogOperationStart(m.logger, "materialize")()

	m.logger.Debug().
		Str("source", req.Source).
		Str("destination", req.Destination).
		Str("scope", req.Scope.String()).
		Msg("Materializing template")

	result, err := m.copyTree(req.Source, req.Destination)
	if err != nil {
		return result, err
	}

	var rep *placeholder.Report
	switch req.Scope {
	case ScopeTopLevel:
		top, err := m.topLevel(req.Source, req.Destination)
		if err != nil {
			return result, err
		}
		if rep, err = m.engine.ResolveEntriesReport(top, req.Values); err != nil {
			return result, err
		}
		result.Entries = rep.Entries
	default:
		if rep, err = m.engine.ResolveReport(req.Destination, req.Values); err != nil {
			return result, err
		}
		result.Entries = []string{req.Destination}
	}
	result.remap(rep)

	m.logger.Info().
		Int("created", len(result.Created)).
		Int("skipped", len(result.Skipped)).
		Str("destination", req.Destination).
		Msg("Template materialized")

	return result, nil
}

// topLevel returns the destination paths matching the source's top-level
// entries, sorted by name.
func (m *Materializer) topLevel(source, destination string) ([]string, error) {
	entries, err := m.fs.ReadDir(source)
	if err != nil {
		return nil, copyError(err, source, "failed to read template directory")
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	paths := make([]string, 0, len(names))
	for _, name := range names {
		paths = append(paths, filepath.Join(destination, name))
	}
	return paths, nil
}

// remap moves copied paths to where substitution left them.
func (r *Result) remap(rep *placeholder.Report) {
	created := make([]string, 0, len(r.Created))
	skipped := make([]string, 0, len(r.Skipped))
	for _, p := range r.Created {
		final := rep.Final(p)
		if rep.Kept(final) {
			skipped = append(skipped, final)
			continue
		}
		created = append(created, final)
	}
	for _, p := range r.Skipped {
		skipped = append(skipped, rep.Final(p))
	}
	sort.Strings(created)
	sort.Strings(skipped)
	r.Created = created
	r.Skipped = skipped
}

type pendingDir struct {
	src, dst string
}

type entryMode struct {
	path string
	mode fs.FileMode
}

// Executor performs a batch of planned operations in order.
type Executor interface {
	ExecuteOperations(ops []types.Operation) error
}

// executor runs copies through synthfs on the OS filesystem and directly on
// any other backend.
func (m *Materializer) executor(destination string) Executor {
	if filesystem.IsOS(m.fs) {
		return synthfs.NewExecutor(destination)
	}
	return filesystem.NewExecutor(m.fs)
}

// copyTree copies source into destination without overwriting anything. It
// walks one directory level at a time; each level is planned against what
// exists, then executed as a single batch, so parents always exist before
// their children are planned.
func (m *Materializer) copyTree(source, destination string) (*Result, error) {
	result := &Result{}

	info, err := m.fs.Stat(source)
	if err != nil {
		return result, copyError(err, source, "failed to read template")
	}
	if !info.IsDir() {
		return result, errors.Newf(errors.ErrCopyFailed, "template %s is not a directory", source).
			WithDetail(errors.DetailPath, source)
	}

	if err := m.fs.MkdirAll(destination, 0755); err != nil {
		return result, copyError(err, destination, "failed to create destination")
	}

	exec := m.executor(destination)

	// modes of created directories are applied last so read-only template
	// directories can still be filled
	var dirs []entryMode
	level := []pendingDir{{src: source, dst: destination}}
	for len(level) > 0 {
		var (
			next    []pendingDir
			ops     []types.Operation
			planned []string
			files   []entryMode
		)

		for _, dir := range level {
			entries, err := m.fs.ReadDir(dir.src)
			if err != nil {
				return result, copyError(err, dir.src, "failed to read template directory")
			}

			for _, entry := range entries {
				src := filepath.Join(dir.src, entry.Name())
				dst := filepath.Join(dir.dst, entry.Name())

				srcInfo, err := m.fs.Stat(src)
				if err != nil {
					return result, copyError(err, src, "failed to stat template entry")
				}

				dstInfo, err := m.fs.Lstat(dst)
				exists := err == nil

				switch {
				case srcInfo.IsDir() && exists && dstInfo.IsDir():
					next = append(next, pendingDir{src: src, dst: dst})
				case exists:
					m.logger.Debug().Str("path", dst).Msg("Skipping existing path")
					result.Skipped = append(result.Skipped, dst)
				case srcInfo.IsDir():
					ops = append(ops, types.Operation{Type: types.OperationCreateDir, Target: dst})
					planned = append(planned, dst)
					dirs = append(dirs, entryMode{path: dst, mode: srcInfo.Mode().Perm()})
					next = append(next, pendingDir{src: src, dst: dst})
				case srcInfo.Mode().IsRegular():
					mode := uint32(srcInfo.Mode().Perm())
					ops = append(ops, types.Operation{
						Type:   types.OperationCopyFile,
						Source: src,
						Target: dst,
						Mode:   &mode,
					})
					planned = append(planned, dst)
					files = append(files, entryMode{path: dst, mode: srcInfo.Mode().Perm()})
				default:
					m.logger.Debug().Str("path", src).Msg("Skipping special file")
				}
			}
		}

		if err := exec.ExecuteOperations(ops); err != nil {
			return result, err
		}
		result.Created = append(result.Created, planned...)

		for _, f := range files {
			if err := m.fs.Chmod(f.path, f.mode); err != nil {
				return result, copyError(err, f.path, "failed to set permissions")
			}
		}
		level = next
	}

	for i := len(dirs) - 1; i >= 0; i-- {
		if err := m.fs.Chmod(dirs[i].path, dirs[i].mode); err != nil {
			return result, copyError(err, dirs[i].path, "failed to set permissions")
		}
	}

	sort.Strings(result.Created)
	sort.Strings(result.Skipped)
	return result, nil
}

func copyError(err error, path, action string) error {
	return errors.Wrapf(err, errors.ErrCopyFailed, "%s %s", action, path).
		WithDetail(errors.DetailPath, path)
}
