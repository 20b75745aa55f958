package generator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/cpgen/pkg/cache"
	"github.com/arthur-debert/cpgen/pkg/catalog"
	"github.com/arthur-debert/cpgen/pkg/errors"
	"github.com/arthur-debert/cpgen/pkg/filesystem"
	"github.com/arthur-debert/cpgen/pkg/testutil"
	"github.com/arthur-debert/cpgen/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const libraryCMake = "add_library(__component_name__ __component_type__)\n"

var bundle = map[string]string{
	"project/.cpgen":                                   "",
	"project/CMakeLists.txt":                           "project(__project_name__ VERSION __project_version__)\n__cmake_pkgs__",
	"project/conanfile.py":                             "requires = __conan_pkgs__\n",
	"project/apps/CMakeLists.txt":                      "",
	"project/src/log.h":                                "#define LOG(...) log(__FILE__, __LINE__, __VA_ARGS__)\n",
	"library/header_only/__component_name__/CMakeLists.txt": libraryCMake,
	"library/module/__component_name__/CMakeLists.txt":      libraryCMake,
	"library/static_shared/__component_name__/CMakeLists.txt": libraryCMake +
		"target_link_libraries(__component_name__ PUBLIC\n\t__component_dependencies__)\n",
	"executable/__component_name__/CMakeLists.txt": "add_executable(__component_name__)\nset(CMAKE_CXX_STANDARD __component_std__)\n",
	"test/__component_name__/CMakeLists.txt":       "add_test(__component_name__)\n# __not_a_key__\n",
}

// dirSource serves templates from a directory and counts calls.
type dirSource struct {
	root      string
	ensured   int
	ensureErr error
}

func (d *dirSource) EnsureReady(ctx context.Context) error {
	d.ensured++
	return d.ensureErr
}

func (d *dirSource) Refresh(ctx context.Context) (*types.UpdateResult, error) {
	return &types.UpdateResult{TemplateRoot: d.root}, nil
}

func (d *dirSource) SubtreePath(name string) (string, error) {
	return filepath.Join(d.root, filepath.FromSlash(name)), nil
}

func newGenerator(t *testing.T, opts Options) (*Generator, *dirSource, string) {
	t.Helper()
	base := t.TempDir()
	templates := filepath.Join(base, "templates")
	testutil.WriteTree(t, templates, bundle)

	src := &dirSource{root: templates}
	work := filepath.Join(base, "work")
	testutil.CreateDir(t, base, "work")
	return New(filesystem.NewOS(), src, opts), src, work
}

func TestCreateProject(t *testing.T) {
	g, src, work := newGenerator(t, Options{})

	p := types.NewProjectParameters("Foo")
	p.Version = "1.2.3"
	p.RootPath = work
	p.ConanPackages = []string{"fmt/8.0.1", "spdlog/1.9.2"}
	p.CMakePackages = []string{"Threads"}

	result, err := g.CreateProject(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 1, src.ensured)

	dest := filepath.Join(work, "Foo")
	assert.Equal(t, dest, result.Destination)
	assert.Equal(t, types.KindProject, result.Kind)
	assert.Empty(t, result.Unresolved)

	testutil.AssertFileContent(t, filepath.Join(dest, "CMakeLists.txt"),
		"project(Foo VERSION 1.2.3)\nfind_package(Threads)\n")
	testutil.AssertFileContent(t, filepath.Join(dest, "conanfile.py"),
		"requires = \"fmt/8.0.1\", \"spdlog/1.9.2\"\n")
	assert.True(t, testutil.FileExists(t, filepath.Join(dest, ".cpgen")))
}

func TestCreateLibraryShared(t *testing.T) {
	g, _, work := newGenerator(t, Options{})

	p := types.NewLibraryParameters("net")
	p.Type = types.LibraryShared
	p.Dependencies = []string{"foo", "bar"}

	result, err := g.CreateLibrary(context.Background(), p, work)
	require.NoError(t, err)
	assert.Equal(t, types.KindLibrary, result.Kind)

	testutil.AssertFileContent(t, filepath.Join(work, "net", "CMakeLists.txt"),
		"add_library(net SHARED)\ntarget_link_libraries(net PUBLIC\n\tfoo\n\tbar)\n")
}

func TestCreateLibraryKinds(t *testing.T) {
	tests := []struct {
		kind    types.LibraryType
		keyword string
	}{
		{types.LibraryHeaderOnly, "INTERFACE"},
		{types.LibraryModule, "MODULE"},
		{types.LibraryStatic, "STATIC"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			g, _, work := newGenerator(t, Options{})
			p := types.NewLibraryParameters("core")
			p.Type = tt.kind

			_, err := g.CreateLibrary(context.Background(), p, work)
			require.NoError(t, err)

			content := testutil.ReadFile(t, filepath.Join(work, "core", "CMakeLists.txt"))
			assert.Contains(t, content, "add_library(core "+tt.keyword+")")
		})
	}
}

func TestCreateLibraryRejectsUnknownKindBeforeIO(t *testing.T) {
	g, src, work := newGenerator(t, Options{})

	kind, err := types.ParseLibraryType("dynamic", types.LibraryStatic)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	p := types.NewLibraryParameters("net")
	p.Type = types.LibraryType("dynamic")
	_, err = g.CreateLibrary(context.Background(), p, work)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	assert.Equal(t, types.LibraryType(""), kind)
	assert.Equal(t, 0, src.ensured, "templates must not be touched")
	assert.Empty(t, testutil.ListTree(t, work))
}

func TestCreateExecutable(t *testing.T) {
	g, _, work := newGenerator(t, Options{})

	p := types.NewExecutableParameters("tool")
	p.Standard = "20"
	_, err := g.CreateExecutable(context.Background(), p, work)
	require.NoError(t, err)

	testutil.AssertFileContent(t, filepath.Join(work, "tool", "CMakeLists.txt"),
		"add_executable(tool)\nset(CMAKE_CXX_STANDARD 20)\n")
}

func TestCreateExecutableTwiceKeepsExisting(t *testing.T) {
	g, _, work := newGenerator(t, Options{})
	p := types.NewExecutableParameters("tool")
	cmake := filepath.Join(work, "tool", "CMakeLists.txt")

	first, err := g.CreateExecutable(context.Background(), p, work)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(work, "tool"), cmake}, first.Created)

	testutil.CreateFile(t, work, "tool/CMakeLists.txt", "# edited\n")

	second, err := g.CreateExecutable(context.Background(), p, work)
	require.NoError(t, err)
	assert.Empty(t, second.Created)
	assert.Equal(t, []string{filepath.Join(work, "tool"), cmake}, second.Skipped)
	testutil.AssertFileContent(t, cmake, "# edited\n")
	assert.False(t, testutil.FileExists(t, filepath.Join(work, "__component_name__")))
}

func TestCreateTestPermissive(t *testing.T) {
	g, _, work := newGenerator(t, Options{})

	result, err := g.CreateTest(context.Background(), types.NewExecutableParameters("unit"), work)
	require.NoError(t, err)

	path := filepath.Join(work, "unit", "CMakeLists.txt")
	testutil.AssertFileContent(t, path, "add_test(unit)\n# __not_a_key__\n")
	assert.Equal(t, []types.Placeholder{{Path: path, Key: "not_a_key"}}, result.Unresolved)
}

func TestCreateIgnoresExistingAndMacroTokens(t *testing.T) {
	for _, strict := range []bool{false, true} {
		g, _, work := newGenerator(t, Options{Strict: strict})

		p := types.NewProjectParameters("Foo")
		p.RootPath = work
		userCode := "// __my_macro__\nvoid f() { trace(__FILE__, __func__, __VA_ARGS__); }\n"
		user := testutil.CreateFile(t, work, "Foo/src/user.cpp", userCode)

		result, err := g.CreateProject(context.Background(), p)
		require.NoError(t, err, "strict=%v", strict)
		assert.Empty(t, result.Unresolved, "strict=%v", strict)
		assert.Contains(t, result.Created, filepath.Join(work, "Foo", "src", "log.h"))
		testutil.AssertFileContent(t, user, userCode)
	}
}

func TestCreateTestStrict(t *testing.T) {
	g, _, work := newGenerator(t, Options{Strict: true})

	result, err := g.CreateTest(context.Background(), types.NewExecutableParameters("unit"), work)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnresolvedPlaceholders))
	assert.Equal(t, []string{"not_a_key"}, errors.GetErrorDetails(err)["keys"])

	// materialization is not rolled back
	require.NotNil(t, result)
	assert.True(t, testutil.FileExists(t, filepath.Join(work, "unit", "CMakeLists.txt")))
}

func TestCreateStopsWhenTemplatesUnavailable(t *testing.T) {
	g, src, work := newGenerator(t, Options{})
	src.ensureErr = errors.New(errors.ErrFetchFailed, "offline")

	_, err := g.CreateExecutable(context.Background(), types.NewExecutableParameters("tool"), work)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFetchFailed))
	assert.Empty(t, testutil.ListTree(t, work))
}

func TestCreateRequiresDestination(t *testing.T) {
	g, _, _ := newGenerator(t, Options{})
	_, err := g.CreateTest(context.Background(), types.NewExecutableParameters("unit"), "")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestFindProjectRoot(t *testing.T) {
	base := t.TempDir()
	cacheRoot := testutil.CreateDir(t, base, ".cpgen")
	project := testutil.CreateDir(t, base, "code/demo")
	testutil.CreateFile(t, project, ".cpgen", "")
	nested := testutil.CreateDir(t, project, "src/deep")

	g := New(filesystem.NewOS(), &dirSource{}, Options{CacheRoot: cacheRoot})

	root, err := g.FindProjectRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, project, root)

	_, err = g.FindProjectRoot(testutil.CreateDir(t, base, "code/other"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrProjectRootNotFound))
}

func TestEndToEndWithCache(t *testing.T) {
	archive := testutil.TemplateArchive(t, bundle)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(archive)
	}))
	defer srv.Close()

	base := t.TempDir()
	root := cache.NewRoot(filepath.Join(base, ".cpgen"))
	fs := filesystem.NewOS()
	c := cache.New(fs, root, cache.Options{URL: srv.URL})
	g := New(fs, c, Options{CacheRoot: root.Dir})

	p := types.NewProjectParameters("demo")
	p.RootPath = base
	_, err := g.CreateProject(context.Background(), p)
	require.NoError(t, err)

	for _, subtree := range catalog.Subtrees {
		_, err := c.SubtreePath(subtree)
		assert.NoError(t, err, subtree)
	}

	projectRoot, err := g.FindProjectRoot(filepath.Join(base, "demo", "apps"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "demo"), projectRoot)

	lib := types.NewLibraryParameters("util")
	_, err = g.CreateLibrary(context.Background(), lib, projectRoot)
	require.NoError(t, err)
	testutil.AssertFileContent(t, filepath.Join(projectRoot, "util", "CMakeLists.txt"),
		"add_library(util STATIC)\ntarget_link_libraries(util PUBLIC\n\t)\n")

	update, err := g.Update(context.Background())
	require.NoError(t, err)
	assert.True(t, update.Replaced)
}
