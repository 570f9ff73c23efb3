package types

// OperationType defines the type of file system operation
type OperationType string

const (
	// OperationCreateDir creates a directory
	OperationCreateDir OperationType = "create_dir"

	// OperationCopyFile copies a file
	OperationCopyFile OperationType = "copy_file"

	// OperationWriteFile writes content to a file
	OperationWriteFile OperationType = "write_file"

	// OperationDeleteFile deletes a file
	OperationDeleteFile OperationType = "delete_file"

	// OperationDeleteTree recursively deletes a directory
	OperationDeleteTree OperationType = "delete_tree"
)

// OperationStatus defines the state of an operation
type OperationStatus string

const (
	// StatusReady means the operation is ready to be executed
	StatusReady OperationStatus = "ready"
	// StatusSkipped means the operation was skipped (e.g., idempotent action)
	StatusSkipped OperationStatus = "skipped"
	// StatusError means the operation resulted in an error
	StatusError OperationStatus = "error"
)

// Operation represents a low-level file system operation.
// Restore and prune plans are lists of these, interpreted by the
// executor in pkg/synthfs.
type Operation struct {
	// Type is the type of operation
	Type OperationType

	// Source is the source path (for copies)
	Source string

	// Target is the target path
	Target string

	// Content is the content to write (for write operations)
	Content string

	// Mode is the file permissions (optional)
	Mode *uint32

	// Description is a human-readable description
	Description string

	// Status is the current state of the operation
	Status OperationStatus
}

// NewCopyOperation builds a ready copy_file operation
func NewCopyOperation(source, target, description string) Operation {
	return Operation{
		Type:        OperationCopyFile,
		Source:      source,
		Target:      target,
		Description: description,
		Status:      StatusReady,
	}
}

// NewDeleteOperation builds a ready delete_file operation
func NewDeleteOperation(target, description string) Operation {
	return Operation{
		Type:        OperationDeleteFile,
		Target:      target,
		Description: description,
		Status:      StatusReady,
	}
}

// NewDeleteTreeOperation builds a ready delete_tree operation
func NewDeleteTreeOperation(target, description string) Operation {
	return Operation{
		Type:        OperationDeleteTree,
		Target:      target,
		Description: description,
		Status:      StatusReady,
	}
}

// NewCreateDirOperation builds a ready create_dir operation
func NewCreateDirOperation(target, description string) Operation {
	return Operation{
		Type:        OperationCreateDir,
		Target:      target,
		Description: description,
		Status:      StatusReady,
	}
}
