// Package cache owns the local template cache.
//
// The cache root (by default $HOME/.cpgen) holds the last downloaded bundle
// and the published template tree:
//
//	<root>/templates.tar.gz
//	<root>/templates/
//
// Refresh downloads the bundle into a staging file, extracts it into a
// staging directory and only then swaps the staged tree into place. A failed
// download or extraction leaves the previously published tree untouched.
//
// The cache is not safe for concurrent invocations against the same root.
package cache
