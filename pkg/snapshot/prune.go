package snapshot

import (
	"github.com/arthur-debert/dotback/pkg/errors"
	"github.com/arthur-debert/dotback/pkg/logging"
	"github.com/arthur-debert/dotback/pkg/types"
)

// PruneOptions controls retention enforcement
type PruneOptions struct {
	// KeepLast overrides the manager's retention policy when positive
	KeepLast int

	// DryRun reports which snapshots would be removed without
	// deleting anything
	DryRun bool
}

// PruneFailure records a snapshot that could not be removed
type PruneFailure struct {
	Snapshot types.SnapshotInfo
	Err      error
}

// PruneResult reports the outcome of retention enforcement
type PruneResult struct {
	// Kept are the snapshots that survive, newest first
	Kept []types.SnapshotInfo

	// Removed are the snapshots that were deleted (or would be,
	// for a dry run), newest first
	Removed []types.SnapshotInfo

	// Failed are removals that errored; the prune continues past them
	Failed []PruneFailure

	// DryRun mirrors the request
	DryRun bool
}

// Prune deletes the oldest snapshots until at most keep-last remain.
//
// Removal is best-effort: a snapshot that cannot be deleted is
// recorded in Failed and the pass continues, so one bad directory
// never blocks reclaiming the rest. The newest snapshots are always
// the ones kept, so the latest marker stays valid.
func (m *Manager) Prune(opts PruneOptions) (*PruneResult, error) {
	done := logging.LogOperationStart(m.logger, "prune_snapshots")
	defer done()

	keep := opts.KeepLast
	if keep <= 0 {
		keep = m.Retention().KeepLast
	}

	snapshots, err := m.List()
	if err != nil {
		return nil, err
	}

	result := &PruneResult{DryRun: opts.DryRun}
	if len(snapshots) <= keep {
		result.Kept = snapshots
		m.logger.Debug().
			Int("count", len(snapshots)).
			Int("keep", keep).
			Msg("Nothing to prune")
		return result, nil
	}

	result.Kept = snapshots[:keep]
	for _, info := range snapshots[keep:] {
		if opts.DryRun {
			m.logger.Info().Str("snapshot", info.Name).Msg("[DRY RUN] Would remove snapshot")
			result.Removed = append(result.Removed, info)
			continue
		}

		if err := m.fs.RemoveAll(info.Path); err != nil {
			m.logger.Error().Err(err).Str("snapshot", info.Name).Msg("Failed to remove snapshot")
			result.Failed = append(result.Failed, PruneFailure{
				Snapshot: info,
				Err: errors.Wrapf(err, errors.ErrPruneDelete,
					"failed to remove snapshot %s", info.Name),
			})
			continue
		}

		m.logger.Info().Str("snapshot", info.Name).Msg("Removed snapshot")
		result.Removed = append(result.Removed, info)
	}

	if len(result.Failed) > 0 {
		return result, errors.Newf(errors.ErrPruneDelete,
			"%d of %d snapshot removals failed", len(result.Failed), len(result.Failed)+len(result.Removed))
	}
	return result, nil
}
