package synthfs

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/arthur-debert/cpgen/pkg/errors"
	"github.com/arthur-debert/cpgen/pkg/logging"
	"github.com/arthur-debert/cpgen/pkg/paths"
	"github.com/arthur-debert/cpgen/pkg/types"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/core"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/arthur-debert/synthfs/pkg/synthfs/operations"
	"github.com/rs/zerolog"
)

// Executor runs cpgen operations using synthfs
type Executor struct {
	logger     zerolog.Logger
	filesystem synthfs.FileSystem
	root       string
}

// NewExecutor creates an executor that only writes below root.
func NewExecutor(root string) *Executor {
	return &Executor{
		logger:     logging.GetLogger("synthfs"),
		filesystem: filesystem.NewOSFileSystem("/"),
		root:       root,
	}
}

// ExecuteOperations runs ops as one synthfs pipeline, in order.
func (e *Executor) ExecuteOperations(ops []types.Operation) error {
	if len(ops) == 0 {
		return nil
	}

	synthOps := make([]synthfs.Operation, 0, len(ops))
	for _, op := range ops {
		synthOp, err := e.convert(op)
		if err != nil {
			return err
		}
		synthOps = append(synthOps, synthOp)
	}

	pipeline := synthfs.NewMemPipeline()
	for _, op := range synthOps {
		if err := pipeline.Add(op); err != nil {
			return errors.Wrap(err, errors.ErrCopyFailed, "failed to add operation to pipeline")
		}
	}

	e.logger.Debug().Int("operationCount", len(synthOps)).Msg("Executing operations")

	result := synthfs.NewExecutor().Run(context.Background(), pipeline, e.filesystem)
	if err := result.GetError(); err != nil {
		return errors.Wrapf(err, errors.ErrCopyFailed, "failed to execute operations below %s", e.root).
			WithDetail(errors.DetailPath, e.root)
	}
	return nil
}

func (e *Executor) convert(op types.Operation) (synthfs.Operation, error) {
	switch op.Type {
	case types.OperationCreateDir:
		return e.convertCreateDir(op)
	case types.OperationCopyFile:
		return e.convertCopyFile(op)
	default:
		return nil, errors.Newf(errors.ErrInternal, "unsupported operation type: %s", op.Type)
	}
}

func (e *Executor) convertCreateDir(op types.Operation) (synthfs.Operation, error) {
	relPath, err := e.relative(op.Target)
	if err != nil {
		return nil, err
	}
	mode := fs.FileMode(op.FileMode(0755))

	opID := core.OperationID(fmt.Sprintf("create-dir-%s", op.Target))
	createOp := operations.NewCreateDirectoryOperation(opID, relPath)
	createOp.SetItem(&directoryItem{
		path: relPath,
		mode: mode,
	})

	return synthfs.NewOperationsPackageAdapter(createOp), nil
}

// convertCopyFile copies the file a template symlink points at, never the
// link itself.
func (e *Executor) convertCopyFile(op types.Operation) (synthfs.Operation, error) {
	if op.Source == "" {
		return nil, errors.Newf(errors.ErrInvalidInput, "copy to %s has no source", op.Target)
	}
	relTarget, err := e.relative(op.Target)
	if err != nil {
		return nil, err
	}

	source, err := filepath.EvalSymlinks(op.Source)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCopyFailed, "failed to resolve %s", op.Source).
			WithDetail(errors.DetailPath, op.Source)
	}
	source, err = filepath.Abs(source)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCopyFailed, "failed to resolve %s", op.Source)
	}
	relSource, err := filepath.Rel("/", source)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to convert source path: %s", source)
	}

	opID := core.OperationID(fmt.Sprintf("copy-%s-to-%s", filepath.Base(source), op.Target))
	copyOp := operations.NewCopyOperation(opID, relTarget)
	copyOp.SetPaths(relSource, relTarget)

	return synthfs.NewOperationsPackageAdapter(copyOp), nil
}

// relative checks target against the executor root and returns it relative
// to "/", the root of the synthfs filesystem.
func (e *Executor) relative(target string) (string, error) {
	if target == "" {
		return "", errors.New(errors.ErrInvalidInput, "operation requires a target")
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "failed to normalize path: %s", target)
	}
	if e.root != "" {
		root, err := filepath.Abs(e.root)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrInvalidInput, "failed to normalize path: %s", e.root)
		}
		if !paths.ContainsPath(root, abs) {
			return "", errors.Newf(errors.ErrCopyFailed, "operation target %s is outside %s", target, root).
				WithDetail(errors.DetailPath, target)
		}
	}
	rel, err := filepath.Rel("/", abs)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "failed to convert path: %s", abs)
	}
	return rel, nil
}

// directoryItem carries the mode of a created directory
type directoryItem struct {
	path string
	mode fs.FileMode
}

func (d *directoryItem) Path() string       { return d.path }
func (d *directoryItem) Type() string       { return "directory" }
func (d *directoryItem) Mode() fs.FileMode  { return d.mode }
func (d *directoryItem) IsDir() bool        { return true }
func (d *directoryItem) ModTime() time.Time { return time.Now() }
func (d *directoryItem) Size() int64        { return 0 }
