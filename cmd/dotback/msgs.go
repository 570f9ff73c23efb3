package dotback

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Back up and restore your terminal setup"
	MsgBackupShort     = "Create a new snapshot of your terminal setup"
	MsgRestoreShort    = "Restore a snapshot onto your home directory"
	MsgListShort       = "List all snapshots, newest first"
	MsgLatestShort     = "Show the most recent snapshot"
	MsgPruneShort      = "Delete old snapshots, keeping the newest ones"
	MsgGenConfigShort  = "Print the default configuration"
	MsgGenConfigLong   = "Print the built-in default configuration to stdout. Redirect it to the user config path to customize dotback."
	MsgTopicsShort     = "Display available documentation topics"
	MsgTopicsLong      = "Display a list of all available help topics that provide additional documentation beyond command help."
	MsgCompletionShort = "Generate shell completion script"
	MsgVersionShort    = "Print version information"
	MsgManShort        = "Generate man pages"

	// Status messages
	MsgDryRunNotice      = "\nDRY RUN MODE - No changes were made"
	MsgSnapshotCreated   = "Created snapshot %s\n"
	MsgSkippedFiles      = "Skipped (not present): %s\n"
	MsgRestoreDone       = "Restored snapshot %s: %d files, %d directories, %d removed\n"
	MsgPruneDone         = "Pruned %d snapshots, %d kept\n"
	MsgPruneNothing      = "Nothing to prune: %d snapshots, keeping %d\n"
	MsgRestoreConfirm    = "Restoring %s will overwrite your current setup. Continue?"
	MsgRestoreAborted    = "Restore aborted"
	MsgRestoreNeedsForce = "refusing to restore without confirmation; re-run with --force"

	// Error messages
	MsgErrInitPaths  = "failed to initialize paths: %w"
	MsgErrLoadConfig = "failed to load configuration: %w"
	MsgErrBackup     = "failed to create snapshot: %w"
	MsgErrRestore    = "failed to restore snapshot: %w"
	MsgErrList       = "failed to list snapshots: %w"
	MsgErrPrune      = "failed to prune snapshots: %w"

	// Flag descriptions
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun      = "Preview changes without executing them"
	MsgFlagForce       = "Skip confirmation prompts"
	MsgFlagKeep        = "Number of snapshots to keep (overrides configuration)"
	MsgFlagBackupPrune = "Apply the retention policy after the backup"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/backup-long.txt
	msgBackupLongRaw string
	MsgBackupLong    = strings.TrimSpace(msgBackupLongRaw)

	//go:embed msgs/backup-example.txt
	msgBackupExampleRaw string
	MsgBackupExample    = strings.TrimSpace(msgBackupExampleRaw)

	//go:embed msgs/restore-long.txt
	msgRestoreLongRaw string
	MsgRestoreLong    = strings.TrimSpace(msgRestoreLongRaw)

	//go:embed msgs/restore-example.txt
	msgRestoreExampleRaw string
	MsgRestoreExample    = strings.TrimSpace(msgRestoreExampleRaw)

	//go:embed msgs/list-example.txt
	msgListExampleRaw string
	MsgListExample    = strings.TrimSpace(msgListExampleRaw)

	//go:embed msgs/prune-long.txt
	msgPruneLongRaw string
	MsgPruneLong    = strings.TrimSpace(msgPruneLongRaw)

	//go:embed msgs/prune-example.txt
	msgPruneExampleRaw string
	MsgPruneExample    = strings.TrimSpace(msgPruneExampleRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
