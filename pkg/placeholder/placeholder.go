package placeholder

import (
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/arthur-debert/cpgen/pkg/errors"
	"github.com/arthur-debert/cpgen/pkg/logging"
	"github.com/arthur-debert/cpgen/pkg/types"
	"github.com/rs/zerolog"
)

// Pattern matches a single placeholder token; group 1 is the key.
var Pattern = regexp.MustCompile(`__([A-Za-z0-9]+(?:_[A-Za-z0-9]+)*)__`)

// Token returns the placeholder token for key.
func Token(key string) string {
	return "__" + key + "__"
}

// Engine resolves placeholders on a filesystem.
type Engine struct {
	fs     types.FS
	logger zerolog.Logger
}

// New creates an Engine operating on fs.
func New(fs types.FS) *Engine {
	return &Engine{
		fs:     fs,
		logger: logging.GetLogger("placeholder"),
	}
}

// Resolve substitutes tokens in every entry below dir. The name of dir
// itself is left untouched.
func (e *Engine) Resolve(dir string, values map[string]string) error {
	_, err := e.ResolveReport(dir, values)
	return err
}

// ResolveReport is Resolve returning the structural changes it made.
func (e *Engine) ResolveReport(dir string, values map[string]string) (*Report, error) {
	children, err := e.children(dir)
	if err != nil {
		return nil, err
	}
	rep := &Report{}
	if err := e.run(children, newReplacer(values), rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// ResolveEntries substitutes tokens in each of entries (names included) and
// everything below them. It returns the final path of each entry, in order.
func (e *Engine) ResolveEntries(entries []string, values map[string]string) ([]string, error) {
	rep, err := e.ResolveEntriesReport(entries, values)
	if err != nil {
		return nil, err
	}
	return rep.Entries, nil
}

// ResolveEntriesReport is ResolveEntries returning the structural changes it
// made. Report.Entries holds the final path of each entry.
func (e *Engine) ResolveEntriesReport(entries []string, values map[string]string) (*Report, error) {
	rep := &Report{}
	if err := e.run(entries, newReplacer(values), rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// run drains a worklist seeded with entries, recording the final path of
// each seed in rep.Entries. Every entry is substituted at most once, even
// when a merge moves it into a directory that is visited later.
func (e *Engine) run(entries []string, r *strings.Replacer, rep *Report) error {
	rep.Entries = make([]string, len(entries))
	rep.visited = make(map[string]bool)

	for i, entry := range entries {
		final, pending, err := e.visit(entry, r, rep)
		if err != nil {
			return err
		}
		rep.Entries[i] = final

		for len(pending) > 0 {
			next := pending[len(pending)-1]
			pending = pending[:len(pending)-1]

			_, more, err := e.visit(next, r, rep)
			if err != nil {
				return err
			}
			pending = append(pending, more...)
		}
	}

	return nil
}

// visit handles a single entry: name, then content, then it returns the
// children still to be visited under the (possibly renamed) path.
func (e *Engine) visit(path string, r *strings.Replacer, rep *Report) (string, []string, error) {
	if rep.visited[path] {
		return path, nil, nil
	}

	info, err := e.fs.Lstat(path)
	if err != nil {
		return "", nil, ioError(err, path, "failed to stat")
	}

	final, merged, err := e.rename(path, info, r, rep)
	if err != nil {
		return "", nil, err
	}
	if merged != nil {
		return final, merged, nil
	}
	rep.visited[final] = true

	switch {
	case info.Mode().IsRegular():
		if err := e.rewrite(final, info.Mode().Perm(), r); err != nil {
			return "", nil, err
		}
		return final, nil, nil
	case info.IsDir():
		children, err := e.children(final)
		if err != nil {
			return "", nil, err
		}
		return final, children, nil
	}

	// symlinks and special files only get their name resolved
	return final, nil, nil
}

// rename applies the replacer to the base name of path. When the new name is
// already taken the existing entry wins: a directory collision merges the
// renamed directory's children into it (returned as merged), anything else
// drops the freshly copied entry.
func (e *Engine) rename(path string, info fs.FileInfo, r *strings.Replacer, rep *Report) (string, []string, error) {
	name := filepath.Base(path)
	if !Pattern.MatchString(name) {
		return path, nil, nil
	}

	newName := r.Replace(name)
	if newName == name {
		return path, nil, nil
	}
	target := filepath.Join(filepath.Dir(path), newName)

	existing, err := e.fs.Lstat(target)
	if err != nil {
		if err := e.fs.Rename(path, target); err != nil {
			return "", nil, ioError(err, path, "failed to rename")
		}
		rep.Renames = append(rep.Renames, Rename{From: path, To: target})
		e.logger.Debug().Str("from", path).Str("to", target).Msg("Renamed entry")
		return target, nil, nil
	}

	rep.Renames = append(rep.Renames, Rename{From: path, To: target})
	if !info.IsDir() || !existing.IsDir() {
		e.logger.Warn().Str("path", target).Msg("Keeping existing entry, dropping template copy")
		if err := e.fs.RemoveAll(path); err != nil {
			return "", nil, ioError(err, path, "failed to remove")
		}
		rep.Dropped = append(rep.Dropped, target)
		return target, []string{}, nil
	}

	merged, err := e.merge(path, target, rep)
	if err != nil {
		return "", nil, err
	}
	return target, merged, nil
}

// merge moves the children of src into dst, skipping names dst already has,
// and removes src. Moved children are returned for visiting.
func (e *Engine) merge(src, dst string, rep *Report) ([]string, error) {
	entries, err := e.fs.ReadDir(src)
	if err != nil {
		return nil, ioError(err, src, "failed to read directory")
	}
	rep.Merged = append(rep.Merged, dst)

	moved := []string{}
	for _, entry := range entries {
		from := filepath.Join(src, entry.Name())
		to := filepath.Join(dst, entry.Name())

		existing, err := e.fs.Lstat(to)
		if err != nil {
			if err := e.fs.Rename(from, to); err != nil {
				return nil, ioError(err, from, "failed to move")
			}
			moved = append(moved, to)
			continue
		}

		if entry.IsDir() && existing.IsDir() {
			sub, err := e.merge(from, to, rep)
			if err != nil {
				return nil, err
			}
			moved = append(moved, sub...)
			continue
		}
		e.logger.Debug().Str("path", to).Msg("Keeping existing entry during merge")
		rep.Dropped = append(rep.Dropped, to)
	}

	if err := e.fs.RemoveAll(src); err != nil {
		return nil, ioError(err, src, "failed to remove")
	}
	return moved, nil
}

// rewrite replaces tokens in a regular file's content. Files without a
// match, or that are not valid UTF-8, are not written.
func (e *Engine) rewrite(path string, mode fs.FileMode, r *strings.Replacer) error {
	data, err := e.fs.ReadFile(path)
	if err != nil {
		return ioError(err, path, "failed to read")
	}
	if !utf8.Valid(data) || !Pattern.Match(data) {
		return nil
	}

	content := string(data)
	replaced := r.Replace(content)
	if replaced == content {
		return nil
	}

	if err := e.fs.WriteFile(path, []byte(replaced), mode); err != nil {
		return ioError(err, path, "failed to write")
	}
	e.logger.Debug().Str("path", path).Msg("Substituted placeholders")
	return nil
}

func (e *Engine) children(dir string) ([]string, error) {
	entries, err := e.fs.ReadDir(dir)
	if err != nil {
		return nil, ioError(err, dir, "failed to read directory")
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}

// newReplacer builds a single-pass replacer over every key. Keys are sorted
// so that the result does not depend on map iteration order.
func newReplacer(values map[string]string) *strings.Replacer {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, Token(k), values[k])
	}
	return strings.NewReplacer(pairs...)
}

func ioError(err error, path, action string) error {
	return errors.Wrapf(err, errors.ErrPlaceholderIO, "%s %s", action, path).
		WithDetail(errors.DetailPath, path)
}
