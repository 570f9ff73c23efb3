package snapshot

import (
	"path/filepath"

	"github.com/arthur-debert/dotback/pkg/errors"
	"github.com/arthur-debert/dotback/pkg/logging"
	"github.com/arthur-debert/dotback/pkg/paths"
	synthfsexec "github.com/arthur-debert/dotback/pkg/synthfs"
	"github.com/arthur-debert/dotback/pkg/types"
)

// RestoreOptions selects which snapshot to restore and how
type RestoreOptions struct {
	// Name selects a snapshot; empty means the latest one
	Name string

	// DryRun builds and reports the plan without touching anything
	DryRun bool
}

// RestoreResult reports what a restore did (or, for a dry run, would do)
type RestoreResult struct {
	// Snapshot is the snapshot that was restored
	Snapshot types.SnapshotInfo

	// Operations is the executed restore plan
	Operations []types.Operation

	// RestoredFiles is the number of files copied back into place
	RestoredFiles int

	// RestoredDirectories is the number of directory trees replaced
	RestoredDirectories int

	// RemovedFiles is the number of live files deleted because they
	// were absent at backup time
	RemovedFiles int

	// DryRun mirrors the request
	DryRun bool
}

// Restore reverses a snapshot onto the live home directory.
//
// The plan is derived entirely from the snapshot's manifest: captured
// files are deleted and recopied, files the manifest records as
// missing at backup time are deleted if they have appeared since, and
// captured directory trees replace their live counterparts wholesale.
// Anything the manifest does not mention is left alone. Execution is
// destructive and fail-fast; confirmation belongs to the caller.
func (m *Manager) Restore(opts RestoreOptions) (*RestoreResult, error) {
	done := logging.LogOperationStart(m.logger, "restore_snapshot")
	defer done()

	var info types.SnapshotInfo
	var err error
	if opts.Name == "" {
		info, err = m.Latest()
	} else {
		info, err = m.Find(opts.Name)
	}
	if err != nil {
		return nil, err
	}

	manifest, err := m.loadManifest(info.Path)
	if err != nil {
		return nil, err
	}

	result := &RestoreResult{
		Snapshot: info,
		DryRun:   opts.DryRun,
	}

	plan, err := m.buildRestorePlan(info.Path, manifest, result)
	if err != nil {
		return nil, err
	}
	result.Operations = plan

	executor := synthfsexec.NewExecutor(opts.DryRun, m.paths.HomeDir())
	if err := executor.ExecuteOperations(plan); err != nil {
		return nil, err
	}

	m.logger.Info().
		Str("snapshot", info.Name).
		Int("files", result.RestoredFiles).
		Int("directories", result.RestoredDirectories).
		Int("removed", result.RemovedFiles).
		Bool("dryRun", opts.DryRun).
		Msg("Restore completed")

	return result, nil
}

// buildRestorePlan interprets a manifest into an operation list.
// Files come before directories, matching the capture order.
func (m *Manager) buildRestorePlan(snapshotPath string, manifest *Manifest, result *RestoreResult) ([]types.Operation, error) {
	var plan []types.Operation

	for _, entry := range manifest.Files {
		source := filepath.Join(snapshotPath, paths.FilesDir, entry.Name)
		if _, err := m.fs.Stat(source); err != nil {
			return nil, errors.Wrapf(err, errors.ErrRestorePlan,
				"snapshot is missing captured file %s", source)
		}

		if parent := filepath.Dir(entry.Target); !m.exists(parent) {
			plan = append(plan, types.NewCreateDirOperation(parent,
				"create parent directory for "+entry.Target))
		}
		if m.exists(entry.Target) {
			plan = append(plan, types.NewDeleteOperation(entry.Target,
				"remove live copy of "+entry.Target))
		}

		op := types.NewCopyOperation(source, entry.Target, "restore "+entry.Target)
		mode := entry.Mode
		op.Mode = &mode
		plan = append(plan, op)
		result.RestoredFiles++
	}

	// Files that did not exist at backup time are removed if they
	// have appeared since, so the pre-backup file set is reproduced
	// exactly.
	for _, target := range manifest.MissingFiles {
		if m.exists(target) {
			plan = append(plan, types.NewDeleteOperation(target,
				"remove "+target+" (absent at backup time)"))
			result.RemovedFiles++
		}
	}

	for _, entry := range manifest.Directories {
		source := filepath.Join(snapshotPath, paths.DirsDir, entry.Name)
		if _, err := m.fs.Stat(source); err != nil {
			return nil, errors.Wrapf(err, errors.ErrRestorePlan,
				"snapshot is missing captured directory %s", source)
		}

		if m.exists(entry.Target) {
			plan = append(plan, types.NewDeleteTreeOperation(entry.Target,
				"remove live tree "+entry.Target))
		}

		treeOps, err := m.planTree(source, entry.Target)
		if err != nil {
			return nil, err
		}
		plan = append(plan, treeOps...)
		result.RestoredDirectories++
	}

	return plan, nil
}

// planTree emits create_dir and copy operations reproducing a captured
// tree at its live target path.
func (m *Manager) planTree(src, dst string) ([]types.Operation, error) {
	ops := []types.Operation{
		types.NewCreateDirOperation(dst, "recreate directory "+dst),
	}

	entries, err := m.fs.ReadDir(src)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRestorePlan,
			"failed to read captured tree %s", src)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			subOps, err := m.planTree(srcPath, dstPath)
			if err != nil {
				return nil, err
			}
			ops = append(ops, subOps...)
			continue
		}

		ops = append(ops, types.NewCopyOperation(srcPath, dstPath, "restore "+dstPath))
	}

	return ops, nil
}

// exists reports whether a live path is present, without following a
// dangling symlink into a false negative.
func (m *Manager) exists(path string) bool {
	_, err := m.fs.Lstat(path)
	return err == nil
}
