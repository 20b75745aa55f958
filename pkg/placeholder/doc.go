// Package placeholder rewrites __key__ tokens in file names and file contents.
//
// A token is two underscores, an identifier made of letter/digit segments
// joined by single underscores, and two closing underscores:
//
//	__project_name__   __component_std__   __x1__
//
// Resolution walks a tree with an explicit worklist. Each entry is renamed
// first, then its content is rewritten when it is a regular file, and only
// then are a directory's children queued, under the renamed path. Tokens
// whose key is not in the mapping are left in place; Unresolved reports them.
//
// Files whose content is not valid UTF-8 are treated as binary and are never
// rewritten. Files without any token are never written, so their mtime and
// inode are preserved.
package placeholder
