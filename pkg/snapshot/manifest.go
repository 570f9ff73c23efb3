package snapshot

import (
	"path/filepath"
	"strings"
	"time"

	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/dotback/pkg/errors"
	"github.com/arthur-debert/dotback/pkg/paths"
)

// ManifestFormatVersion is bumped when the manifest layout changes
// incompatibly. Restore refuses manifests from a newer format.
const ManifestFormatVersion = 1

// FileEntry records one captured candidate file
type FileEntry struct {
	// Name is the storage name under the snapshot's files/ directory
	Name string `toml:"name"`

	// Target is the absolute live path the file was captured from and
	// restores to
	Target string `toml:"target"`

	// Mode is the captured permission bits
	Mode uint32 `toml:"mode"`

	// Size is the captured size in bytes
	Size int64 `toml:"size"`

	// SHA256 is the hex digest of the captured content
	SHA256 string `toml:"sha256"`
}

// DirEntry records one captured candidate directory tree
type DirEntry struct {
	// Name is the storage name under the snapshot's dirs/ directory
	Name string `toml:"name"`

	// Target is the absolute live path of the directory
	Target string `toml:"target"`
}

// Manifest describes a snapshot: what was captured, what was missing,
// and provenance. It doubles as the restore plan's source of truth.
type Manifest struct {
	FormatVersion int       `toml:"format_version"`
	Name          string    `toml:"name"`
	CreatedAt     time.Time `toml:"created_at"`
	ToolVersion   string    `toml:"tool_version"`
	Hostname      string    `toml:"hostname"`

	// Files are the candidates that existed and were captured
	Files []FileEntry `toml:"files"`

	// MissingFiles are candidate targets absent at backup time.
	// Restore removes them if they have appeared since, so a
	// round-trip reproduces the exact pre-backup file set.
	MissingFiles []string `toml:"missing_files"`

	// Directories are the candidate trees that existed and were captured
	Directories []DirEntry `toml:"directories"`
}

// writeManifest serializes the manifest into the snapshot directory
func (m *Manager) writeManifest(snapshotPath string, manifest *Manifest) error {
	data, err := gotoml.Marshal(manifest)
	if err != nil {
		return errors.Wrap(err, errors.ErrManifestWrite, "failed to serialize manifest")
	}

	manifestPath := filepath.Join(snapshotPath, paths.ManifestFileName)
	if err := m.fs.WriteFile(manifestPath, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrManifestWrite, "failed to write manifest to %s", manifestPath)
	}
	return nil
}

// loadManifest reads and validates the manifest of a snapshot directory
func (m *Manager) loadManifest(snapshotPath string) (*Manifest, error) {
	manifestPath := filepath.Join(snapshotPath, paths.ManifestFileName)
	data, err := m.fs.ReadFile(manifestPath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestParse, "failed to read manifest from %s", manifestPath)
	}

	var manifest Manifest
	if err := gotoml.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestParse, "failed to parse manifest at %s", manifestPath)
	}

	if manifest.FormatVersion > ManifestFormatVersion {
		return nil, errors.Newf(errors.ErrManifestParse,
			"manifest format version %d is newer than supported version %d",
			manifest.FormatVersion, ManifestFormatVersion)
	}

	return &manifest, nil
}

// storageName maps a candidate entry to a flat name inside the
// snapshot. Path separators collapse to underscores so nested
// candidates like ".config/nvim" stay flat without colliding.
func storageName(entry string) string {
	name := strings.TrimPrefix(filepath.Clean(entry), "/")
	return strings.ReplaceAll(name, string(filepath.Separator), "_")
}

// entrySummary gives quick counts and size for display
func (man *Manifest) entrySummary() (fileCount, dirCount int, sizeBytes int64) {
	for _, f := range man.Files {
		sizeBytes += f.Size
	}
	return len(man.Files), len(man.Directories), sizeBytes
}
