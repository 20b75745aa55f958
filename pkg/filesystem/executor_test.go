package filesystem

import (
	"testing"

	"github.com/arthur-debert/cpgen/pkg/errors"
	"github.com/arthur-debert/cpgen/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsOS(t *testing.T) {
	assert.True(t, IsOS(NewOS()))
	assert.False(t, IsOS(NewMemory()))
}

func TestExecutorOnMemory(t *testing.T) {
	fsys := NewMemory()
	require.NoError(t, fsys.WriteFile("/tpl/main.cpp", []byte("int main() {}"), 0644))

	mode := uint32(0600)
	err := NewExecutor(fsys).ExecuteOperations([]types.Operation{
		{Type: types.OperationCreateDir, Target: "/out/src"},
		{Type: types.OperationCopyFile, Source: "/tpl/main.cpp", Target: "/out/src/main.cpp", Mode: &mode},
	})
	require.NoError(t, err)

	data, err := fsys.ReadFile("/out/src/main.cpp")
	require.NoError(t, err)
	assert.Equal(t, "int main() {}", string(data))
}

func TestExecutorNeverOverwrites(t *testing.T) {
	fsys := NewMemory()
	require.NoError(t, fsys.WriteFile("/tpl/a.txt", []byte("template"), 0644))
	require.NoError(t, fsys.WriteFile("/out/a.txt", []byte("mine"), 0644))

	err := NewExecutor(fsys).ExecuteOperations([]types.Operation{
		{Type: types.OperationCopyFile, Source: "/tpl/a.txt", Target: "/out/a.txt"},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCopyFailed))
	assert.Equal(t, "/out/a.txt", errors.GetErrorDetails(err)[errors.DetailPath])

	data, err := fsys.ReadFile("/out/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "mine", string(data))
}

func TestExecutorReadOnly(t *testing.T) {
	err := NewExecutor(NewReadOnly(afero.NewMemMapFs())).ExecuteOperations([]types.Operation{
		{Type: types.OperationCreateDir, Target: "/out"},
	})
	assert.True(t, errors.IsErrorCode(err, errors.ErrCopyFailed))
}
