package types

// OperationType defines the type of file system operation
type OperationType string

const (
	// OperationCreateDir creates a directory
	OperationCreateDir OperationType = "create_dir"

	// OperationCopyFile copies a file
	OperationCopyFile OperationType = "copy_file"
)

// Operation is a single planned file system change. The materializer decides
// what to create; an executor performs it.
type Operation struct {
	Type OperationType

	// Source is the file copied from (copy operations only)
	Source string

	// Target is the path created
	Target string

	// Mode is the permission of the created entry (optional)
	Mode *uint32
}

// FileMode returns op.Mode or fallback when unset.
func (op Operation) FileMode(fallback uint32) uint32 {
	if op.Mode != nil {
		return *op.Mode
	}
	return fallback
}
