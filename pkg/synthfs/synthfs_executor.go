// Package synthfs executes dotback operation plans through the synthfs
// library. Restore and prune flows express their work as
// []types.Operation; this package converts those to synthfs operations
// and runs them as a pipeline, with dry-run support and path safety
// validation.
package synthfs

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/core"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/arthur-debert/synthfs/pkg/synthfs/operations"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/dotback/pkg/errors"
	"github.com/arthur-debert/dotback/pkg/logging"
	"github.com/arthur-debert/dotback/pkg/types"
)

// Executor executes dotback operations using synthfs
type Executor struct {
	logger     zerolog.Logger
	dryRun     bool
	filesystem synthfs.FileSystem

	// safeRoots are the only directories operations may touch.
	// Restore targets live in the user's home; prune targets live in
	// the backups root. Anything else is rejected.
	safeRoots []string
}

// NewExecutor creates a new synthfs-based executor. Operations are
// validated to stay within the given safe roots.
func NewExecutor(dryRun bool, safeRoots ...string) *Executor {
	return &Executor{
		logger:     logging.GetLogger("synthfs.executor"),
		dryRun:     dryRun,
		filesystem: filesystem.NewOSFileSystem("/"),
		safeRoots:  safeRoots,
	}
}

// ExecuteOperations executes a list of operations.
//
// delete_tree operations run first, directly against the OS filesystem
// (synthfs deletes are file-scoped). The remaining operations are
// converted to a synthfs pipeline and executed in order. Execution is
// fail-fast: the first error aborts everything that follows.
func (e *Executor) ExecuteOperations(ops []types.Operation) error {
	if e.dryRun {
		e.logger.Info().Msg("Dry run mode - operations would be executed:")
		for _, op := range ops {
			if op.Status == types.StatusReady {
				e.logOperation(op)
			}
		}
		return nil
	}

	// Phase 1: recursive directory deletions
	for _, op := range ops {
		if op.Status != types.StatusReady || op.Type != types.OperationDeleteTree {
			continue
		}
		if err := e.validateSafePath(op.Target); err != nil {
			return err
		}
		e.logger.Debug().Str("target", op.Target).Msg("Removing directory tree")
		if err := os.RemoveAll(op.Target); err != nil {
			return errors.Wrapf(err, errors.ErrRestoreExecute,
				"failed to remove directory tree: %s", op.Target)
		}
	}

	// Phase 2: everything else through synthfs
	synthOps := make([]synthfs.Operation, 0, len(ops))
	for _, op := range ops {
		if op.Status != types.StatusReady || op.Type == types.OperationDeleteTree {
			continue
		}

		synthOp, err := e.convertOperation(op)
		if err != nil {
			return errors.Wrapf(err, errors.ErrRestoreExecute,
				"failed to convert operation: %s", op.Description)
		}
		synthOps = append(synthOps, synthOp)
	}

	if len(synthOps) == 0 {
		e.logger.Debug().Msg("No pipeline operations to execute")
		return nil
	}

	pipeline := synthfs.NewMemPipeline()
	for _, op := range synthOps {
		if err := pipeline.Add(op); err != nil {
			return errors.Wrap(err, errors.ErrRestoreExecute,
				"failed to add operation to pipeline")
		}
	}

	ctx := context.Background()
	executor := synthfs.NewExecutor()

	e.logger.Info().Int("operationCount", len(synthOps)).Msg("Executing operations")

	result := executor.Run(ctx, pipeline, e.filesystem)
	if result.GetError() != nil {
		e.logger.Error().Err(result.GetError()).Msg("Pipeline execution failed")
		return errors.Wrap(result.GetError(), errors.ErrRestoreExecute,
			"failed to execute operations")
	}

	e.logger.Info().Msg("All operations executed successfully")
	return nil
}

// convertOperation converts a dotback operation to a synthfs operation
func (e *Executor) convertOperation(op types.Operation) (synthfs.Operation, error) {
	switch op.Type {
	case types.OperationCreateDir:
		return e.convertCreateDir(op)
	case types.OperationCopyFile:
		return e.convertCopyFile(op)
	case types.OperationWriteFile:
		return e.convertWriteFile(op)
	case types.OperationDeleteFile:
		return e.convertDeleteFile(op)
	default:
		return nil, errors.Newf(errors.ErrInvalidInput,
			"unsupported operation type: %s", op.Type)
	}
}

// convertCreateDir converts a create directory operation
func (e *Executor) convertCreateDir(op types.Operation) (synthfs.Operation, error) {
	if op.Target == "" {
		return nil, errors.New(errors.ErrInvalidInput,
			"create directory operation requires target")
	}
	if err := e.validateSafePath(op.Target); err != nil {
		return nil, err
	}

	mode := os.FileMode(0755)
	if op.Mode != nil {
		mode = os.FileMode(*op.Mode)
	}

	// synthfs works on paths relative to its filesystem root
	relPath, err := filepath.Rel("/", op.Target)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput,
			"failed to convert path: %s", op.Target)
	}

	opID := core.OperationID(fmt.Sprintf("create-dir-%s", op.Target))
	createOp := operations.NewCreateDirectoryOperation(opID, relPath)
	createOp.SetItem(&directoryItem{
		path: relPath,
		mode: mode,
	})

	return synthfs.NewOperationsPackageAdapter(createOp), nil
}

// convertCopyFile converts a copy file operation
func (e *Executor) convertCopyFile(op types.Operation) (synthfs.Operation, error) {
	if op.Source == "" || op.Target == "" {
		return nil, errors.New(errors.ErrInvalidInput,
			"copy file operation requires source and target")
	}
	if err := e.validateSafePath(op.Target); err != nil {
		return nil, err
	}

	relSource, err := filepath.Rel("/", op.Source)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput,
			"failed to convert source path: %s", op.Source)
	}
	relTarget, err := filepath.Rel("/", op.Target)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput,
			"failed to convert target path: %s", op.Target)
	}

	opID := core.OperationID(fmt.Sprintf("copy-%s-to-%s", filepath.Base(op.Source), op.Target))
	copyOp := operations.NewCopyOperation(opID, relTarget)
	copyOp.SetPaths(relSource, relTarget)

	return synthfs.NewOperationsPackageAdapter(copyOp), nil
}

// convertWriteFile converts a write file operation
func (e *Executor) convertWriteFile(op types.Operation) (synthfs.Operation, error) {
	if op.Target == "" {
		return nil, errors.New(errors.ErrInvalidInput,
			"write file operation requires target")
	}
	if err := e.validateSafePath(op.Target); err != nil {
		return nil, err
	}

	mode := os.FileMode(0644)
	if op.Mode != nil {
		mode = os.FileMode(*op.Mode)
	}

	relPath, err := filepath.Rel("/", op.Target)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput,
			"failed to convert path: %s", op.Target)
	}

	opID := core.OperationID(fmt.Sprintf("write-file-%s", op.Target))
	createOp := operations.NewCreateFileOperation(opID, relPath)
	createOp.SetItem(&fileItem{
		path:    relPath,
		content: []byte(op.Content),
		mode:    mode,
	})

	return synthfs.NewOperationsPackageAdapter(createOp), nil
}

// convertDeleteFile converts a delete file operation
func (e *Executor) convertDeleteFile(op types.Operation) (synthfs.Operation, error) {
	if op.Target == "" {
		return nil, errors.New(errors.ErrInvalidInput,
			"delete file operation requires target")
	}
	if err := e.validateSafePath(op.Target); err != nil {
		return nil, err
	}

	relPath, err := filepath.Rel("/", op.Target)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput,
			"failed to convert path: %s", op.Target)
	}

	opID := core.OperationID(fmt.Sprintf("delete-%s", op.Target))
	deleteOp := operations.NewDeleteOperation(opID, relPath)

	return synthfs.NewOperationsPackageAdapter(deleteOp), nil
}

// validateSafePath ensures the path is within one of the safe roots
func (e *Executor) validateSafePath(path string) error {
	normalizedPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput,
			"failed to normalize path: %s", path)
	}

	for _, root := range e.safeRoots {
		if isPathWithin(normalizedPath, root) {
			return nil
		}
	}

	return errors.Newf(errors.ErrPermission,
		"operation target is outside dotback-controlled directories: %s", path)
}

// isPathWithin checks if a path is within a parent directory
func isPathWithin(path, parent string) bool {
	path = filepath.Clean(path)
	parent = filepath.Clean(parent)

	rel, err := filepath.Rel(parent, path)
	if err != nil {
		return false
	}

	return !strings.HasPrefix(rel, "..") && !strings.HasPrefix(rel, "/")
}

// logOperation logs details about an operation
func (e *Executor) logOperation(op types.Operation) {
	logger := e.logger.With().
		Str("type", string(op.Type)).
		Str("description", op.Description).
		Logger()

	switch op.Type {
	case types.OperationCreateDir:
		logger.Info().
			Str("target", op.Target).
			Msg("Would create directory")
	case types.OperationCopyFile:
		logger.Info().
			Str("source", op.Source).
			Str("target", op.Target).
			Msg("Would copy file")
	case types.OperationWriteFile:
		logger.Info().
			Str("target", op.Target).
			Int("contentLen", len(op.Content)).
			Msg("Would write file")
	case types.OperationDeleteFile:
		logger.Info().
			Str("target", op.Target).
			Msg("Would delete file")
	case types.OperationDeleteTree:
		logger.Info().
			Str("target", op.Target).
			Msg("Would delete directory tree")
	default:
		logger.Info().Msg("Would execute operation")
	}
}

// Item types for synthfs operations

// fileItem implements the interface needed for file operations
type fileItem struct {
	path    string
	content []byte
	mode    fs.FileMode
}

func (f *fileItem) Path() string       { return f.path }
func (f *fileItem) Type() string       { return "file" }
func (f *fileItem) Content() []byte    { return f.content }
func (f *fileItem) Mode() fs.FileMode  { return f.mode }
func (f *fileItem) IsDir() bool        { return false }
func (f *fileItem) ModTime() time.Time { return time.Now() }
func (f *fileItem) Size() int64        { return int64(len(f.content)) }

// directoryItem implements the interface needed for directory operations
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
