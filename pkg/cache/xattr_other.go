//go:build !linux

package cache

// restoreXattrs is a no-op where extended attributes are not restored.
func restoreXattrs(path string, attrs map[string]string) error {
	return nil
}
