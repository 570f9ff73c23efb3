package config

import (
	"github.com/arthur-debert/dotback/pkg/types"
)

// Snapshot holds snapshot naming settings
type Snapshot struct {
	// Prefix is the first component of snapshot directory names,
	// producing "<prefix>-backup-<timestamp>"
	Prefix string `koanf:"prefix"`
}

// Retention holds the pruning policy
type Retention struct {
	// KeepLast is the number of most recent snapshots prune retains
	KeepLast int `koanf:"keep_last"`
}

// Candidates holds the enumeration of backup-eligible paths.
// Entries are relative to the home directory unless absolute.
type Candidates struct {
	Files       []string `koanf:"files"`
	Directories []string `koanf:"directories"`
}

// Config is the root configuration object
type Config struct {
	Snapshot   Snapshot   `koanf:"snapshot"`
	Retention  Retention  `koanf:"retention"`
	Candidates Candidates `koanf:"candidates"`
}

// CandidateSet converts the configured candidates to the core type
func (c *Config) CandidateSet() types.CandidateSet {
	return types.CandidateSet{
		Files:       c.Candidates.Files,
		Directories: c.Candidates.Directories,
	}
}

// RetentionPolicy converts the configured retention to the core type.
// A non-positive keep count falls back to the default.
func (c *Config) RetentionPolicy() types.RetentionPolicy {
	keep := c.Retention.KeepLast
	if keep <= 0 {
		keep = types.DefaultKeepLast
	}
	return types.RetentionPolicy{KeepLast: keep}
}
