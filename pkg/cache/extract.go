package cache

import (
	"archive/tar"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/arthur-debert/cpgen/pkg/errors"
	"github.com/arthur-debert/cpgen/pkg/filesystem"
	"github.com/arthur-debert/cpgen/pkg/paths"
	"github.com/klauspost/compress/gzip"
)

// xattrPrefix marks extended attributes in PAX records. POSIX ACLs travel as
// the system.posix_acl_access and system.posix_acl_default attributes.
const xattrPrefix = "SCHILY.xattr."

// dirMeta is applied once all entries are written, deepest first, so that
// writing children does not clobber directory mtimes or trip over read-only
// directories.
type dirMeta struct {
	path   string
	mode   os.FileMode
	mtime  time.Time
	xattrs map[string]string
}

// extract unpacks the gzip-compressed tar at archive into dest and returns
// the number of entries written. It stops at the first failing entry.
func (c *Cache) extract(archive, dest string) (int, error) {
	f, err := c.fs.OpenFile(archive, os.O_RDONLY, 0)
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrExtractFailed, "failed to open %s", archive).
			WithDetail(errors.DetailPath, archive)
	}
	defer func() {
		_ = f.Close()
	}()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrExtractFailed, "%s is not a gzip archive", archive).
			WithDetail(errors.DetailPath, archive)
	}
	defer func() {
		_ = gz.Close()
	}()

	if err := c.fs.MkdirAll(dest, 0755); err != nil {
		return 0, errors.Wrapf(err, errors.ErrExtractFailed, "failed to create %s", dest).
			WithDetail(errors.DetailPath, dest)
	}

	var dirs []dirMeta
	links := map[string]string{}
	count := 0
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			if hdr != nil && stderrors.Is(err, tar.ErrInsecurePath) {
				return count, errors.Wrapf(err, errors.ErrExtractFailed, "failed to extract %s", hdr.Name).
					WithDetail(errors.DetailEntry, hdr.Name)
			}
			return count, errors.Wrap(err, errors.ErrExtractFailed, "failed to read archive").
				WithDetail(errors.DetailPath, archive)
		}

		dir, err := c.extractEntry(tr, hdr, dest)
		if err != nil {
			return count, errors.Wrapf(err, errors.ErrExtractFailed, "failed to extract %s", hdr.Name).
				WithDetail(errors.DetailEntry, hdr.Name)
		}
		if dir != nil {
			dirs = append(dirs, *dir)
		}
		if hdr.Typeflag == tar.TypeSymlink {
			links[filepath.Join(dest, filepath.FromSlash(hdr.Name))] = hdr.Name
		}
		count++
	}

	if err := c.checkLinks(dest, links); err != nil {
		return count, err
	}

	for i := len(dirs) - 1; i >= 0; i-- {
		d := dirs[i]
		if err := c.applyMeta(d.path, d.mode, d.mtime, d.xattrs); err != nil {
			return count, errors.Wrapf(err, errors.ErrExtractFailed, "failed to restore attributes of %s", d.path).
				WithDetail(errors.DetailEntry, d.path)
		}
	}

	return count, nil
}

// extractEntry writes a single entry. Directories return their metadata for
// deferred application.
func (c *Cache) extractEntry(r io.Reader, hdr *tar.Header, dest string) (*dirMeta, error) {
	target := filepath.Join(dest, filepath.FromSlash(hdr.Name))
	if !paths.ContainsPath(dest, target) {
		return nil, fmt.Errorf("entry escapes the extraction directory")
	}

	if err := c.checkParents(dest, target); err != nil {
		return nil, err
	}
	if err := c.clearSymlink(target, hdr.Typeflag); err != nil {
		return nil, err
	}

	mode := hdr.FileInfo().Mode().Perm()
	xattrs := headerXattrs(hdr)

	switch hdr.Typeflag {
	case tar.TypeDir:
		if err := c.fs.MkdirAll(target, 0755); err != nil {
			return nil, err
		}
		return &dirMeta{path: target, mode: mode, mtime: hdr.ModTime, xattrs: xattrs}, nil

	case tar.TypeReg:
		if err := c.writeFile(target, r, mode); err != nil {
			return nil, err
		}
		return nil, c.applyMeta(target, mode, hdr.ModTime, xattrs)

	case tar.TypeLink:
		source := filepath.Join(dest, filepath.FromSlash(hdr.Linkname))
		if !paths.ContainsPath(dest, source) {
			return nil, fmt.Errorf("link target %s is outside the extraction directory", hdr.Linkname)
		}
		if err := c.checkParents(dest, source); err != nil {
			return nil, err
		}
		if info, err := c.fs.Lstat(source); err == nil && !info.Mode().IsRegular() {
			return nil, fmt.Errorf("link target %s is not a regular file", hdr.Linkname)
		}
		src, err := c.fs.OpenFile(source, os.O_RDONLY, 0)
		if err != nil {
			return nil, err
		}
		defer func() {
			_ = src.Close()
		}()
		if err := c.writeFile(target, src, mode); err != nil {
			return nil, err
		}
		return nil, c.applyMeta(target, mode, hdr.ModTime, xattrs)

	case tar.TypeSymlink:
		if filepath.IsAbs(hdr.Linkname) ||
			!paths.ContainsPath(dest, filepath.Join(filepath.Dir(target), hdr.Linkname)) {
			return nil, fmt.Errorf("symlink target %s is outside the extraction directory", hdr.Linkname)
		}
		if err := c.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return nil, err
		}
		if _, err := c.fs.Lstat(target); err == nil {
			if err := c.fs.Remove(target); err != nil {
				return nil, err
			}
		}
		return nil, c.fs.Symlink(hdr.Linkname, target)

	default:
		c.logger.Debug().
			Str("entry", hdr.Name).
			Str("type", string(hdr.Typeflag)).
			Msg("Skipping unsupported archive entry")
		return nil, nil
	}
}

// checkParents rejects target when a directory between dest and target is a
// symlink: anything written through it could land outside dest.
func (c *Cache) checkParents(dest, target string) error {
	rel, err := filepath.Rel(dest, filepath.Dir(target))
	if err != nil {
		return err
	}
	if rel == "." {
		return nil
	}

	current := dest
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		current = filepath.Join(current, part)
		info, err := c.fs.Lstat(current)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.Mode()&os.ModeSymlink != 0 {
			rel, _ := filepath.Rel(dest, current)
			return fmt.Errorf("path passes through symlink %s", filepath.ToSlash(rel))
		}
	}
	return nil
}

// clearSymlink removes a symlink left at target by an earlier entry so the
// new entry replaces it rather than writing through it. A directory entry
// never replaces a symlink.
func (c *Cache) clearSymlink(target string, typeflag byte) error {
	info, err := c.fs.Lstat(target)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return nil
	}
	if typeflag == tar.TypeDir {
		return fmt.Errorf("directory replaces symlink %s", filepath.Base(target))
	}
	return c.fs.Remove(target)
}

// checkLinks resolves every extracted symlink once the whole tree exists and
// rejects those that lead outside the top-level directory holding them, the
// unit that gets published. Dangling links are left alone.
func (c *Cache) checkLinks(dest string, links map[string]string) error {
	if len(links) == 0 || !filesystem.IsOS(c.fs) {
		return nil
	}

	root, err := filepath.EvalSymlinks(dest)
	if err != nil {
		return errors.Wrapf(err, errors.ErrExtractFailed, "failed to resolve %s", dest).
			WithDetail(errors.DetailPath, dest)
	}

	names := make([]string, 0, len(links))
	for link := range links {
		names = append(names, link)
	}
	sort.Strings(names)

	for _, link := range names {
		resolved, err := filepath.EvalSymlinks(link)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return errors.Wrapf(err, errors.ErrExtractFailed, "failed to resolve %s", links[link]).
				WithDetail(errors.DetailEntry, links[link])
		}
		top := strings.SplitN(path.Clean(links[link]), "/", 2)[0]
		if !paths.ContainsPath(filepath.Join(root, top), resolved) {
			return errors.Newf(errors.ErrExtractFailed,
				"symlink %s resolves outside %s", links[link], top).
				WithDetail(errors.DetailEntry, links[link])
		}
	}
	return nil
}

func (c *Cache) writeFile(target string, r io.Reader, mode os.FileMode) error {
	if err := c.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	f, err := c.fs.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode|0200)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (c *Cache) applyMeta(target string, mode os.FileMode, mtime time.Time, xattrs map[string]string) error {
	if len(xattrs) > 0 && !c.skipXattrs {
		if err := restoreXattrs(target, xattrs); err != nil {
			return err
		}
	}
	if err := c.fs.Chmod(target, mode); err != nil {
		return err
	}
	if !mtime.IsZero() {
		if err := c.fs.Chtimes(target, mtime, mtime); err != nil {
			return err
		}
	}
	return nil
}

// headerXattrs collects extended attributes carried as PAX records.
func headerXattrs(hdr *tar.Header) map[string]string {
	var attrs map[string]string
	for key, value := range hdr.PAXRecords {
		if !strings.HasPrefix(key, xattrPrefix) {
			continue
		}
		if attrs == nil {
			attrs = make(map[string]string)
		}
		attrs[strings.TrimPrefix(key, xattrPrefix)] = value
	}
	return attrs
}
