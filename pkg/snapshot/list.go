package snapshot

import (
	"sort"
	"strings"

	"github.com/arthur-debert/dotback/pkg/errors"
	"github.com/arthur-debert/dotback/pkg/types"
)

// List returns every snapshot under the backups root, newest first.
// Creation time comes from the manifest; snapshots with an unreadable
// manifest fall back to the directory mtime so prune can still order
// them.
func (m *Manager) List() ([]types.SnapshotInfo, error) {
	root := m.paths.BackupsRoot()
	entries, err := m.fs.ReadDir(root)
	if err != nil {
		// No backups root yet means no snapshots, not an error
		return nil, nil
	}

	latest := m.readMarker()

	var infos []types.SnapshotInfo
	for _, entry := range entries {
		if !entry.IsDir() || !m.isSnapshotName(entry.Name()) {
			continue
		}

		path := m.paths.SnapshotPath(entry.Name())
		info := types.SnapshotInfo{
			Name:   entry.Name(),
			Path:   path,
			Latest: path == latest,
		}

		if manifest, err := m.loadManifest(path); err == nil {
			info.CreatedAt = manifest.CreatedAt
			info.FileCount, info.DirCount, info.SizeBytes = manifest.entrySummary()
		} else if fi, err := entry.Info(); err == nil {
			info.CreatedAt = fi.ModTime()
		}

		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].CreatedAt.After(infos[j].CreatedAt)
		}
		// Same-second collisions: the suffixed name sorts as newer
		return infos[i].Name > infos[j].Name
	})

	return infos, nil
}

// Latest resolves the most recent snapshot, trusting the marker file
// first and falling back to a directory scan when the marker is
// missing or stale.
func (m *Manager) Latest() (types.SnapshotInfo, error) {
	if marked := m.readMarker(); marked != "" {
		if _, err := m.fs.Stat(marked); err == nil {
			infos, err := m.List()
			if err == nil {
				for _, info := range infos {
					if info.Path == marked {
						return info, nil
					}
				}
			}
		}
		m.logger.Warn().Str("marker", marked).Msg("Marker points at a missing snapshot, falling back to scan")
	}

	infos, err := m.List()
	if err != nil {
		return types.SnapshotInfo{}, err
	}
	if len(infos) == 0 {
		return types.SnapshotInfo{}, errors.New(errors.ErrSnapshotNotFound, "no snapshots exist")
	}
	return infos[0], nil
}

// Find resolves a snapshot by name
func (m *Manager) Find(name string) (types.SnapshotInfo, error) {
	infos, err := m.List()
	if err != nil {
		return types.SnapshotInfo{}, err
	}
	for _, info := range infos {
		if info.Name == name {
			return info, nil
		}
	}
	return types.SnapshotInfo{}, errors.Newf(errors.ErrSnapshotNotFound, "snapshot %q not found", name)
}

// isSnapshotName reports whether a directory name matches this
// manager's snapshot naming scheme.
func (m *Manager) isSnapshotName(name string) bool {
	return strings.HasPrefix(name, m.prefix+nameInfix)
}
