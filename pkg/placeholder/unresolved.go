package placeholder

import (
	"path/filepath"
	"regexp"
	"sort"
	"unicode/utf8"

	"github.com/arthur-debert/cpgen/pkg/types"
)

// keyPattern matches the keys templates use. Tokens with other keys, such as
// __FILE__ or __VA_ARGS__, are source text and never reported.
var keyPattern = regexp.MustCompile(`^[a-z0-9]+(?:_[a-z0-9]+)*$`)

// IsKey reports whether key has the shape of a template key.
func IsKey(key string) bool {
	return keyPattern.MatchString(key)
}

// Unresolved reports every token left in the names and contents of entries
// and their descendants.
func (e *Engine) Unresolved(entries ...string) ([]types.Placeholder, error) {
	s := newScan()
	pending := append([]string(nil), entries...)
	for len(pending) > 0 {
		path := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		children, err := e.scanEntry(path, s)
		if err != nil {
			return nil, err
		}
		pending = append(pending, children...)
	}
	return s.sorted(), nil
}

// UnresolvedPaths is Unresolved limited to paths themselves; directories are
// not descended into.
func (e *Engine) UnresolvedPaths(paths ...string) ([]types.Placeholder, error) {
	s := newScan()
	for _, path := range paths {
		if _, err := e.scanEntry(path, s); err != nil {
			return nil, err
		}
	}
	return s.sorted(), nil
}

type scan struct {
	seen  map[types.Placeholder]bool
	found []types.Placeholder
}

func newScan() *scan {
	return &scan{seen: make(map[types.Placeholder]bool)}
}

func (s *scan) add(p types.Placeholder) {
	if !IsKey(p.Key) || s.seen[p] {
		return
	}
	s.seen[p] = true
	s.found = append(s.found, p)
}

func (s *scan) sorted() []types.Placeholder {
	found := s.found
	sort.Slice(found, func(i, j int) bool {
		if found[i].Path != found[j].Path {
			return found[i].Path < found[j].Path
		}
		if found[i].InName != found[j].InName {
			return found[i].InName
		}
		return found[i].Key < found[j].Key
	})
	return found
}

// scanEntry records the tokens in path's name and content. For a directory
// it returns the children.
func (e *Engine) scanEntry(path string, s *scan) ([]string, error) {
	info, err := e.fs.Lstat(path)
	if err != nil {
		return nil, ioError(err, path, "failed to stat")
	}

	for _, m := range Pattern.FindAllStringSubmatch(filepath.Base(path), -1) {
		s.add(types.Placeholder{Path: path, Key: m[1], InName: true})
	}

	switch {
	case info.Mode().IsRegular():
		data, err := e.fs.ReadFile(path)
		if err != nil {
			return nil, ioError(err, path, "failed to read")
		}
		if !utf8.Valid(data) {
			return nil, nil
		}
		for _, m := range Pattern.FindAllSubmatch(data, -1) {
			s.add(types.Placeholder{Path: path, Key: string(m[1])})
		}
	case info.IsDir():
		return e.children(path)
	}
	return nil, nil
}

// Keys returns the distinct keys of placeholders, sorted.
func Keys(placeholders []types.Placeholder) []string {
	set := make(map[string]bool)
	for _, p := range placeholders {
		set[p.Key] = true
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
