package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/cpgen/pkg/errors"
	"github.com/arthur-debert/cpgen/pkg/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigHome(t *testing.T) {
	t.Run("from HOME", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv(EnvHome, home)

		got, err := ConfigHome()
		require.NoError(t, err)
		assert.Equal(t, home, got)
	})

	t.Run("missing HOME", func(t *testing.T) {
		t.Setenv(EnvHome, "")

		_, err := ConfigHome()
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfiguration))
	})
}

func TestCacheRoot(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)

	tests := []struct {
		name     string
		override string
		want     string
	}{
		{
			name: "default under home",
			want: filepath.Join(home, CacheDirName),
		},
		{
			name:     "absolute override",
			override: "/var/tmp/cpgen-cache",
			want:     "/var/tmp/cpgen-cache",
		},
		{
			name:     "tilde override",
			override: "~/templates-cache",
			want:     filepath.Join(home, "templates-cache"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CacheRoot(tt.override)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("missing HOME without override", func(t *testing.T) {
		t.Setenv(EnvHome, "")
		_, err := CacheRoot("")
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfiguration))
	})
}

func TestFindProjectRoot(t *testing.T) {
	fs := filesystem.NewOS()
	base := t.TempDir()

	project := filepath.Join(base, "work", "demo")
	nested := filepath.Join(project, "src", "deep")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(project, DefaultProjectMarker), nil, 0644))

	t.Run("from nested directory", func(t *testing.T) {
		got, err := FindProjectRoot(fs, nested, DefaultProjectMarker, "")
		require.NoError(t, err)
		assert.Equal(t, project, got)
	})

	t.Run("from root itself", func(t *testing.T) {
		got, err := FindProjectRoot(fs, project, "", "")
		require.NoError(t, err)
		assert.Equal(t, project, got)
	})

	t.Run("not found", func(t *testing.T) {
		outside := filepath.Join(base, "elsewhere")
		require.NoError(t, os.MkdirAll(outside, 0755))

		_, err := FindProjectRoot(fs, outside, ".cpgen-missing-marker", "")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrProjectRootNotFound))
	})

	t.Run("cache root is ignored", func(t *testing.T) {
		home := filepath.Join(base, "home")
		cacheRoot := filepath.Join(home, CacheDirName)
		inside := filepath.Join(home, "code")
		require.NoError(t, os.MkdirAll(cacheRoot, 0755))
		require.NoError(t, os.MkdirAll(inside, 0755))

		_, err := FindProjectRoot(fs, inside, ".cpgen", cacheRoot)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrProjectRootNotFound))
	})
}

func TestExpandHome(t *testing.T) {
	t.Setenv(EnvHome, "/home/tester")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", "/home/tester"},
		{"~/x/y", "/home/tester/x/y"},
		{"~other/x", "~other/x"},
		{"/abs/path", "/abs/path"},
		{"rel/path", "rel/path"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandHome(tt.in))
		})
	}
}

func TestConfigFilePath(t *testing.T) {
	got := ConfigFilePath()
	assert.Equal(t, ConfigFileName, filepath.Base(got))
	assert.Equal(t, AppDirName, filepath.Base(filepath.Dir(got)))
}
