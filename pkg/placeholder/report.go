package placeholder

import (
	"path/filepath"
	"strings"
)

// Rename is one entry moved by name substitution. A directory merged into an
// existing one is recorded as a rename onto it.
type Rename struct {
	From string
	To   string
}

// Report records the structural changes made by a substitution pass.
type Report struct {
	// Entries are the final paths of the entries the pass was seeded with
	Entries []string
	// Renames in the order they happened; later renames may move paths
	// produced by earlier ones
	Renames []Rename
	// Dropped are substituted names that already existed; the template copy
	// and everything below it was removed
	Dropped []string
	// Merged are existing directories that absorbed a renamed directory
	Merged []string

	// final paths already substituted during the pass
	visited map[string]bool
}

// Final returns where path, as it was before the pass, ended up.
func (r *Report) Final(path string) string {
	for _, rn := range r.Renames {
		if rest, ok := under(path, rn.From); ok {
			path = rn.To + rest
		}
	}
	return path
}

// Kept reports whether final is an entry that existed before the pass: a
// merged directory, a dropped name, or anything below a dropped name.
func (r *Report) Kept(final string) bool {
	for _, m := range r.Merged {
		if final == m {
			return true
		}
	}
	for _, d := range r.Dropped {
		if _, ok := under(final, d); ok {
			return true
		}
	}
	return false
}

// under reports whether path is root or below it, returning the remainder.
func under(path, root string) (string, bool) {
	if path == root {
		return "", true
	}
	if strings.HasPrefix(path, root+string(filepath.Separator)) {
		return path[len(root):], true
	}
	return "", false
}
