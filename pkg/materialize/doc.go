// Package materialize instantiates a template subtree into a destination
// directory.
//
// Copying uses skip-existing merge semantics: a destination path that already
// exists is never overwritten, while new entries are still added inside
// existing directories. Symbolic links in the source are followed. Once the
// copy is complete, placeholders are resolved either across the whole
// destination or only in the entries that correspond to the subtree's
// top-level entries.
package materialize
