package filesystem

import (
	"io"
	"io/fs"
	"os"

	"github.com/arthur-debert/cpgen/pkg/errors"
	"github.com/arthur-debert/cpgen/pkg/types"
)

// Executor performs planned operations directly on a types.FS. It serves the
// afero-backed filesystems; the OS filesystem goes through pkg/synthfs.
type Executor struct {
	fs types.FS
}

// NewExecutor creates an executor operating on fsys.
func NewExecutor(fsys types.FS) *Executor {
	return &Executor{fs: fsys}
}

// ExecuteOperations runs ops in order and stops at the first failure.
func (e *Executor) ExecuteOperations(ops []types.Operation) error {
	for _, op := range ops {
		var err error
		switch op.Type {
		case types.OperationCreateDir:
			err = e.fs.MkdirAll(op.Target, fs.FileMode(op.FileMode(0755)))
		case types.OperationCopyFile:
			err = e.copyFile(op.Source, op.Target, fs.FileMode(op.FileMode(0644)))
		default:
			return errors.Newf(errors.ErrInternal, "unsupported operation type: %s", op.Type)
		}
		if err != nil {
			return errors.Wrapf(err, errors.ErrCopyFailed, "failed to %s %s", op.Type, op.Target).
				WithDetail(errors.DetailPath, op.Target)
		}
	}
	return nil
}

func (e *Executor) copyFile(src, dst string, mode fs.FileMode) error {
	in, err := e.fs.OpenFile(src, os.O_RDONLY, 0)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := e.fs.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, mode|0200)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
