package testutil

import (
	"archive/tar"
	"bytes"
	"path"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
)

// ArchiveEntry describes one member of a test tarball.
type ArchiveEntry struct {
	Name     string
	Body     string
	Mode     int64
	Type     byte
	Linkname string
	ModTime  time.Time
	PAX      map[string]string
}

// FixedModTime is the modification time used by TemplateArchive.
var FixedModTime = time.Date(2020, time.March, 14, 15, 9, 26, 0, time.UTC)

// BuildTarGz writes entries, in order, into a gzip-compressed tar archive.
// A zero Type means a regular file, or a directory when Name ends in "/".
func BuildTarGz(t *testing.T, entries []ArchiveEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	for _, e := range entries {
		typ := e.Type
		if typ == 0 {
			typ = tar.TypeReg
			if strings.HasSuffix(e.Name, "/") {
				typ = tar.TypeDir
			}
		}

		mode := e.Mode
		if mode == 0 {
			mode = 0644
			if typ == tar.TypeDir {
				mode = 0755
			}
		}

		modTime := e.ModTime
		if modTime.IsZero() {
			modTime = FixedModTime
		}

		hdr := &tar.Header{
			Name:     e.Name,
			Typeflag: typ,
			Mode:     mode,
			Linkname: e.Linkname,
			ModTime:  modTime,
		}
		if typ == tar.TypeReg {
			hdr.Size = int64(len(e.Body))
		}
		if len(e.PAX) > 0 {
			hdr.PAXRecords = e.PAX
			hdr.Format = tar.FormatPAX
		}

		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("Failed to write tar header for %s: %v", e.Name, err)
		}
		if typ == tar.TypeReg {
			if _, err := tw.Write([]byte(e.Body)); err != nil {
				t.Fatalf("Failed to write tar body for %s: %v", e.Name, err)
			}
		}
	}

	if err := tw.Close(); err != nil {
		t.Fatalf("Failed to close tar writer: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("Failed to close gzip writer: %v", err)
	}

	return buf.Bytes()
}

// TemplateArchive builds a bundle whose root directory is "templates" and
// which holds files (slash-separated paths relative to that root). Parent
// directory entries are emitted before their children.
func TemplateArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()

	dirs := map[string]bool{"templates/": true}
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
		for dir := path.Dir(name); dir != "."; dir = path.Dir(dir) {
			dirs["templates/"+dir+"/"] = true
		}
	}
	sort.Strings(names)

	dirNames := make([]string, 0, len(dirs))
	for d := range dirs {
		dirNames = append(dirNames, d)
	}
	sort.Strings(dirNames)

	entries := make([]ArchiveEntry, 0, len(dirNames)+len(names))
	for _, d := range dirNames {
		entries = append(entries, ArchiveEntry{Name: d})
	}
	for _, name := range names {
		entries = append(entries, ArchiveEntry{Name: "templates/" + name, Body: files[name]})
	}

	return BuildTarGz(t, entries)
}
