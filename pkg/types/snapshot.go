package types

import "time"

// SnapshotInfo describes one snapshot directory under the backups root.
type SnapshotInfo struct {
	// Name is the snapshot directory name, e.g. "dotback-backup-20250108_142233"
	Name string

	// Path is the absolute path of the snapshot directory
	Path string

	// CreatedAt is the creation time, taken from the manifest when
	// available and from the directory mtime otherwise
	CreatedAt time.Time

	// FileCount is the number of captured files
	FileCount int

	// DirCount is the number of captured directory trees
	DirCount int

	// SizeBytes is the total size of the captured files
	SizeBytes int64

	// Latest is true when the marker file points at this snapshot
	Latest bool
}

// RetentionPolicy controls how many snapshots prune keeps.
type RetentionPolicy struct {
	// KeepLast is the number of most recent snapshots to retain
	KeepLast int
}

// DefaultKeepLast is the retention count used when the config does not
// set one.
const DefaultKeepLast = 5

// CandidateSet is the enumeration of paths eligible for backup.
// Entries are relative to the user's home directory; absolute entries
// are taken as-is. Every entry is optional - candidates that do not
// exist at backup time are skipped.
type CandidateSet struct {
	// Files lists candidate configuration files, e.g. ".zshrc"
	Files []string

	// Directories lists candidate directory trees, e.g. ".oh-my-zsh"
	Directories []string
}

// IsEmpty reports whether the set has no candidates at all
func (c CandidateSet) IsEmpty() bool {
	return len(c.Files) == 0 && len(c.Directories) == 0
}
