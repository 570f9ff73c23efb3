package snapshot

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/dotback/pkg/errors"
	"github.com/arthur-debert/dotback/pkg/logging"
	"github.com/arthur-debert/dotback/pkg/paths"
	"github.com/arthur-debert/dotback/pkg/types"
)

// CreateResult reports what a backup run captured
type CreateResult struct {
	// Snapshot describes the new snapshot
	Snapshot types.SnapshotInfo

	// Manifest is the written manifest
	Manifest *Manifest

	// SkippedFiles are candidate files that did not exist
	SkippedFiles []string

	// SkippedDirectories are candidate directories that did not exist
	SkippedDirectories []string
}

// Create captures a new snapshot of every candidate that currently
// exists. Missing candidates are skipped silently. The steps run in a
// fixed order: files, directories, manifest, environment metadata,
// marker. Failure to create the snapshot directory is fatal; failures
// after that leave the partial snapshot in place.
func (m *Manager) Create() (*CreateResult, error) {
	done := logging.LogOperationStart(m.logger, "create_snapshot")
	defer done()

	if err := m.fs.MkdirAll(m.paths.BackupsRoot(), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrSnapshotCreate,
			"failed to create backups root %s", m.paths.BackupsRoot())
	}

	name, snapshotPath, err := m.newSnapshotDir()
	if err != nil {
		return nil, err
	}

	manifest := &Manifest{
		FormatVersion: ManifestFormatVersion,
		Name:          name,
		CreatedAt:     m.now(),
		ToolVersion:   m.version,
	}
	if host, err := os.Hostname(); err == nil {
		manifest.Hostname = host
	}

	result := &CreateResult{Manifest: manifest}

	// Step 1: candidate files
	if err := m.snapshotFiles(snapshotPath, manifest, result); err != nil {
		return nil, err
	}

	// Step 2: candidate directory trees
	if err := m.snapshotDirectories(snapshotPath, manifest, result); err != nil {
		return nil, err
	}

	// Step 3: manifest (doubles as the restore plan's source of truth)
	if err := m.writeManifest(snapshotPath, manifest); err != nil {
		return nil, err
	}

	// Step 4: environment metadata, advisory only
	if err := m.writeEnvironment(snapshotPath); err != nil {
		return nil, err
	}

	// Step 5: point the marker at the new snapshot
	if err := m.writeMarker(snapshotPath); err != nil {
		return nil, err
	}

	fileCount, dirCount, sizeBytes := manifest.entrySummary()
	result.Snapshot = types.SnapshotInfo{
		Name:      name,
		Path:      snapshotPath,
		CreatedAt: manifest.CreatedAt,
		FileCount: fileCount,
		DirCount:  dirCount,
		SizeBytes: sizeBytes,
		Latest:    true,
	}

	m.logger.Info().
		Str("snapshot", name).
		Int("files", fileCount).
		Int("directories", dirCount).
		Int("skipped", len(result.SkippedFiles)+len(result.SkippedDirectories)).
		Msg("Snapshot created")

	return result, nil
}

// newSnapshotDir resolves a unique snapshot name and creates the
// directory skeleton. When two backups land in the same second, a
// numeric suffix keeps the identities distinct instead of silently
// reusing the colliding directory.
func (m *Manager) newSnapshotDir() (string, string, error) {
	base := m.snapshotName(m.now())
	name := base
	for suffix := 2; ; suffix++ {
		if _, err := m.fs.Stat(m.paths.SnapshotPath(name)); err != nil {
			break
		}
		name = fmt.Sprintf("%s-%d", base, suffix)
	}

	snapshotPath := m.paths.SnapshotPath(name)
	for _, dir := range []string{
		snapshotPath,
		filepath.Join(snapshotPath, paths.FilesDir),
		filepath.Join(snapshotPath, paths.DirsDir),
	} {
		if err := m.fs.MkdirAll(dir, 0755); err != nil {
			return "", "", errors.Wrapf(err, errors.ErrSnapshotCreate,
				"failed to create snapshot directory %s", dir)
		}
	}

	return name, snapshotPath, nil
}

// snapshotFiles copies every existing candidate file into files/ and
// records it in the manifest; missing candidates go to MissingFiles.
func (m *Manager) snapshotFiles(snapshotPath string, manifest *Manifest, result *CreateResult) error {
	for _, entry := range m.candidates.Files {
		target := m.paths.ResolveCandidate(entry)

		info, err := m.fs.Stat(target)
		if err != nil {
			m.logger.Debug().Str("candidate", target).Msg("Candidate file not present, skipping")
			manifest.MissingFiles = append(manifest.MissingFiles, target)
			result.SkippedFiles = append(result.SkippedFiles, entry)
			continue
		}
		if info.IsDir() {
			return errors.Newf(errors.ErrInvalidInput,
				"candidate file %s is a directory; list it under candidate directories", target)
		}

		name := storageName(entry)
		dest := filepath.Join(snapshotPath, paths.FilesDir, name)
		sum, err := m.copyFile(target, dest, info.Mode())
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileCopy,
				"failed to capture %s", target)
		}

		manifest.Files = append(manifest.Files, FileEntry{
			Name:   name,
			Target: target,
			Mode:   uint32(info.Mode().Perm()),
			Size:   info.Size(),
			SHA256: sum,
		})

		m.logger.Debug().Str("candidate", target).Str("as", name).Msg("Captured file")
	}
	return nil
}

// snapshotDirectories copies every existing candidate directory tree
// into dirs/.
func (m *Manager) snapshotDirectories(snapshotPath string, manifest *Manifest, result *CreateResult) error {
	for _, entry := range m.candidates.Directories {
		target := m.paths.ResolveCandidate(entry)

		info, err := m.fs.Stat(target)
		if err != nil {
			m.logger.Debug().Str("candidate", target).Msg("Candidate directory not present, skipping")
			result.SkippedDirectories = append(result.SkippedDirectories, entry)
			continue
		}
		if !info.IsDir() {
			return errors.Newf(errors.ErrInvalidInput,
				"candidate directory %s is a file; list it under candidate files", target)
		}

		name := storageName(entry)
		dest := filepath.Join(snapshotPath, paths.DirsDir, name)
		if err := m.copyTree(target, dest); err != nil {
			return errors.Wrapf(err, errors.ErrFileCopy,
				"failed to capture directory %s", target)
		}

		manifest.Directories = append(manifest.Directories, DirEntry{
			Name:   name,
			Target: target,
		})

		m.logger.Debug().Str("candidate", target).Str("as", name).Msg("Captured directory tree")
	}
	return nil
}

// copyFile copies one file and returns the hex sha256 of its content
func (m *Manager) copyFile(src, dst string, mode os.FileMode) (string, error) {
	data, err := m.fs.ReadFile(src)
	if err != nil {
		return "", err
	}
	if err := m.fs.WriteFile(dst, data, mode.Perm()); err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum), nil
}

// copyTree recursively copies a directory. Symlinks and other
// irregular entries are skipped with a warning; config trees are
// expected to be plain files and directories.
func (m *Manager) copyTree(src, dst string) error {
	if err := m.fs.MkdirAll(dst, 0755); err != nil {
		return err
	}

	entries, err := m.fs.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := m.copyTree(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			m.logger.Warn().Str("path", srcPath).Msg("Skipping irregular file in directory capture")
			continue
		}

		if _, err := m.copyFile(srcPath, dstPath, info.Mode()); err != nil {
			return err
		}
	}

	return nil
}
