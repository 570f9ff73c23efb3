package snapshot

import (
	"strings"

	"github.com/arthur-debert/dotback/pkg/errors"
)

// writeMarker points the marker file at the given snapshot path,
// overwriting any previous value.
func (m *Manager) writeMarker(snapshotPath string) error {
	if err := m.fs.WriteFile(m.paths.MarkerPath(), []byte(snapshotPath+"\n"), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrMarkerWrite,
			"failed to write marker file %s", m.paths.MarkerPath())
	}
	return nil
}

// readMarker returns the snapshot path the marker points at, or an
// empty string when there is no marker.
func (m *Manager) readMarker() string {
	data, err := m.fs.ReadFile(m.paths.MarkerPath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
