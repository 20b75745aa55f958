package placeholder

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/cpgen/pkg/filesystem"
	"github.com/arthur-debert/cpgen/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportFinal(t *testing.T) {
	rep := &Report{Renames: []Rename{
		{From: "/p/__name__", To: "/p/net"},
		{From: "/p/net/src/__name__.cpp", To: "/p/net/src/net.cpp"},
	}}

	assert.Equal(t, "/p/net", rep.Final("/p/__name__"))
	assert.Equal(t, "/p/net/src/net.cpp", rep.Final("/p/__name__/src/__name__.cpp"))
	assert.Equal(t, "/p/net/CMakeLists.txt", rep.Final("/p/__name__/CMakeLists.txt"))
	assert.Equal(t, "/p/__name__x", rep.Final("/p/__name__x"))
	assert.Equal(t, "/p/other", rep.Final("/p/other"))
}

func TestReportKept(t *testing.T) {
	rep := &Report{
		Dropped: []string{"/p/net/include"},
		Merged:  []string{"/p/net"},
	}

	assert.True(t, rep.Kept("/p/net"))
	assert.True(t, rep.Kept("/p/net/include"))
	assert.True(t, rep.Kept("/p/net/include/net.h"))
	assert.False(t, rep.Kept("/p/net/src"))
	assert.False(t, rep.Kept("/p/net/includes"))
}

func TestResolveEntriesReportOnMerge(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		"net/CMakeLists.txt":        "user edited",
		"__name__/CMakeLists.txt":   "add_library(__name__)",
		"__name__/src/__name__.cpp": "// __name__",
	})

	engine := New(filesystem.NewOS())
	rep, err := engine.ResolveEntriesReport([]string{filepath.Join(dir, "__name__")}, map[string]string{"name": "net"})
	require.NoError(t, err)

	net := filepath.Join(dir, "net")
	assert.Equal(t, []string{net}, rep.Entries)
	assert.Equal(t, []string{net}, rep.Merged)
	assert.Equal(t, []string{filepath.Join(net, "CMakeLists.txt")}, rep.Dropped)

	src := rep.Final(filepath.Join(dir, "__name__", "src", "__name__.cpp"))
	assert.Equal(t, filepath.Join(net, "src", "net.cpp"), src)
	assert.False(t, rep.Kept(src))
	assert.True(t, rep.Kept(rep.Final(filepath.Join(dir, "__name__", "CMakeLists.txt"))))

	testutil.AssertFileContent(t, filepath.Join(net, "CMakeLists.txt"), "user edited")
	testutil.AssertFileContent(t, src, "// net")
}
