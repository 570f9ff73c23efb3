package snapshot

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/dotback/pkg/errors"
	"github.com/arthur-debert/dotback/pkg/logging"
	"github.com/arthur-debert/dotback/pkg/paths"
	"github.com/arthur-debert/dotback/pkg/types"
)

// TimestampFormat is the layout of the timestamp component of snapshot
// directory names, second granularity.
const TimestampFormat = "20060102_150405"

// nameInfix separates the prefix from the timestamp in snapshot names
const nameInfix = "-backup-"

// Options configures a Manager
type Options struct {
	// FS is the filesystem used for captures, listing and pruning
	FS types.FS

	// Paths resolves the backups root, marker file and candidates
	Paths paths.Paths

	// Candidates is the enumeration of backup-eligible paths
	Candidates types.CandidateSet

	// Retention is the default pruning policy
	Retention types.RetentionPolicy

	// Prefix is the snapshot name prefix; defaults to "dotback"
	Prefix string

	// ToolVersion is recorded in manifests for provenance
	ToolVersion string

	// Clock overrides the time source, for tests. Defaults to time.Now.
	Clock func() time.Time
}

// Manager creates, restores, lists and prunes snapshots
type Manager struct {
	logger     zerolog.Logger
	fs         types.FS
	paths      paths.Paths
	candidates types.CandidateSet
	retention  types.RetentionPolicy
	prefix     string
	version    string
	now        func() time.Time
}

// New creates a Manager from the given options
func New(opts Options) (*Manager, error) {
	if opts.FS == nil {
		return nil, errors.New(errors.ErrInvalidInput, "snapshot manager requires a filesystem")
	}
	if opts.Paths == nil {
		return nil, errors.New(errors.ErrInvalidInput, "snapshot manager requires paths")
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "dotback"
	}
	retention := opts.Retention
	if retention.KeepLast <= 0 {
		retention.KeepLast = types.DefaultKeepLast
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Manager{
		logger:     logging.GetLogger("snapshot.manager"),
		fs:         opts.FS,
		paths:      opts.Paths,
		candidates: opts.Candidates,
		retention:  retention,
		prefix:     prefix,
		version:    opts.ToolVersion,
		now:        clock,
	}, nil
}

// Retention returns the manager's default retention policy
func (m *Manager) Retention() types.RetentionPolicy {
	return m.retention
}

// snapshotName builds the directory name for the given timestamp
func (m *Manager) snapshotName(ts time.Time) string {
	return m.prefix + nameInfix + ts.Format(TimestampFormat)
}
