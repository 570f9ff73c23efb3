package dotback

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/dotback/internal/version"
	"github.com/arthur-debert/dotback/pkg/cobrax/topics"
	"github.com/arthur-debert/dotback/pkg/config"
	"github.com/arthur-debert/dotback/pkg/filesystem"
	"github.com/arthur-debert/dotback/pkg/logging"
	"github.com/arthur-debert/dotback/pkg/paths"
	"github.com/arthur-debert/dotback/pkg/snapshot"
	"github.com/arthur-debert/dotback/pkg/style"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	var verbosity int

	rootCmd := &cobra.Command{
		Use:     "dotback",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// If we get here, no subcommand was provided
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().Bool("dry-run", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().Bool("force", false, MsgFlagForce)

	// Disable automatic help command (we'll use our custom one from topics)
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	// Define command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	// Set custom help template
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	// Add all commands
	rootCmd.AddCommand(newBackupCmd())
	rootCmd.AddCommand(newRestoreCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newLatestCmd())
	rootCmd.AddCommand(newPruneCmd())
	rootCmd.AddCommand(newGenConfigCmd())
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd(rootCmd))

	// Initialize topic-based help system
	// Try to find help topics relative to the executable location
	exe, err := os.Executable()
	if err == nil {
		possiblePaths := []string{
			filepath.Join(filepath.Dir(exe), "topics"),                               // Same directory as binary (production)
			filepath.Join(filepath.Dir(exe), "..", "..", "cmd", "dotback", "topics"), // Development
			"cmd/dotback/topics", // Current directory fallback
		}

		for _, helpPath := range possiblePaths {
			if _, err := os.Stat(helpPath); err == nil {
				opts := topics.Options{
					Extensions: []string{".txt", ".md"},
					// Always use Glamour renderer for markdown files
					Renderer: topics.NewGlamourRenderer(),
				}

				if err := topics.InitializeWithOptions(rootCmd, helpPath, opts); err == nil {
					break
				}
			}
		}
	}

	return rootCmd
}

// newManager assembles a snapshot manager from the loaded
// configuration. Every snapshot command starts here.
func newManager() (*snapshot.Manager, paths.Paths, error) {
	p, err := paths.New("")
	if err != nil {
		return nil, nil, fmt.Errorf(MsgErrInitPaths, err)
	}

	cfg, err := config.Load(p, nil)
	if err != nil {
		return nil, nil, fmt.Errorf(MsgErrLoadConfig, err)
	}

	mgr, err := snapshot.New(snapshot.Options{
		FS:          filesystem.NewOS(),
		Paths:       p,
		Candidates:  cfg.CandidateSet(),
		Retention:   cfg.RetentionPolicy(),
		Prefix:      cfg.Snapshot.Prefix,
		ToolVersion: version.Version,
	})
	if err != nil {
		return nil, nil, err
	}

	return mgr, p, nil
}

// newRenderer picks rich or plain output depending on the terminal
func newRenderer() style.Renderer {
	if stdoutIsTerminal() && style.ColorEnabled() {
		return style.NewTerminalRenderer()
	}
	return style.NewPlainRenderer()
}

// snapshotNamesCompletion provides shell completion for snapshot names
func snapshotNamesCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	mgr, _, err := newManager()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	infos, err := mgr.List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var names []string
	for _, info := range infos {
		names = append(names, info.Name)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "backup",
		Short:   MsgBackupShort,
		Long:    MsgBackupLong,
		Example: MsgBackupExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, _, err := newManager()
			if err != nil {
				return err
			}

			dryRun, _ := cmd.Root().PersistentFlags().GetBool("dry-run")
			if dryRun {
				// Backup never touches live files, so a dry run only
				// reports the candidates that would be captured.
				return printBackupPlan(cmd, mgr)
			}

			log.Info().Msg("Creating snapshot")

			result, err := mgr.Create()
			if err != nil {
				return fmt.Errorf(MsgErrBackup, err)
			}

			out := cmd.OutOrStdout()
			renderer := newRenderer()
			fmt.Fprintln(out, renderer.RenderSnapshotDetail(result.Snapshot))
			printSkipped(cmd, result.SkippedFiles, result.SkippedDirectories)

			if prune, _ := cmd.Flags().GetBool("prune"); prune {
				pruneResult, err := mgr.Prune(snapshot.PruneOptions{})
				if err != nil {
					return fmt.Errorf(MsgErrPrune, err)
				}
				for _, info := range pruneResult.Removed {
					fmt.Fprintf(out, "removed %s\n", info.Name)
				}
			}

			return nil
		},
	}

	cmd.Flags().Bool("prune", false, MsgFlagBackupPrune)

	return cmd
}

// printBackupPlan reports which candidates exist without capturing them
func printBackupPlan(cmd *cobra.Command, mgr *snapshot.Manager) error {
	plan, err := mgr.Plan()
	if err != nil {
		return fmt.Errorf(MsgErrBackup, err)
	}

	out := cmd.OutOrStdout()
	for _, target := range plan.Files {
		fmt.Fprintf(out, "would capture file %s\n", target)
	}
	for _, target := range plan.Directories {
		fmt.Fprintf(out, "would capture directory %s\n", target)
	}
	for _, target := range plan.Missing {
		fmt.Fprintf(out, "would skip %s (not present)\n", target)
	}
	fmt.Fprintln(out, MsgDryRunNotice)
	return nil
}

func printSkipped(cmd *cobra.Command, files, dirs []string) {
	skipped := append(append([]string{}, files...), dirs...)
	for _, entry := range skipped {
		fmt.Fprintf(cmd.OutOrStdout(), MsgSkippedFiles, entry)
	}
}

func newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "restore [snapshot]",
		Short:             MsgRestoreShort,
		Long:              MsgRestoreLong,
		Example:           MsgRestoreExample,
		GroupID:           "core",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: snapshotNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, _, err := newManager()
			if err != nil {
				return err
			}

			dryRun, _ := cmd.Root().PersistentFlags().GetBool("dry-run")
			force, _ := cmd.Root().PersistentFlags().GetBool("force")

			var name string
			if len(args) == 1 {
				name = args[0]
			}

			if !dryRun && !force {
				if !stdoutIsTerminal() {
					return fmt.Errorf(MsgRestoreNeedsForce)
				}
				target := name
				if target == "" {
					target = "the latest snapshot"
				}
				confirmed, _ := pterm.DefaultInteractiveConfirm.
					WithDefaultValue(false).
					Show(fmt.Sprintf(MsgRestoreConfirm, target))
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), MsgRestoreAborted)
					return nil
				}
			}

			log.Info().Str("snapshot", name).Bool("dry_run", dryRun).Msg("Restoring snapshot")

			result, err := mgr.Restore(snapshot.RestoreOptions{
				Name:   name,
				DryRun: dryRun,
			})
			if err != nil {
				return fmt.Errorf(MsgErrRestore, err)
			}

			out := cmd.OutOrStdout()
			if dryRun {
				renderer := newRenderer()
				fmt.Fprintln(out, renderer.RenderOperations(result.Operations))
				fmt.Fprintln(out, MsgDryRunNotice)
				return nil
			}

			fmt.Fprintf(out, MsgRestoreDone,
				result.Snapshot.Name,
				result.RestoredFiles,
				result.RestoredDirectories,
				result.RemovedFiles)
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   MsgListShort,
		Example: MsgListExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, _, err := newManager()
			if err != nil {
				return err
			}

			infos, err := mgr.List()
			if err != nil {
				return fmt.Errorf(MsgErrList, err)
			}

			renderer := newRenderer()
			fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderSnapshotList(infos))
			return nil
		},
	}
}

func newLatestCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "latest",
		Short:   MsgLatestShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, _, err := newManager()
			if err != nil {
				return err
			}

			info, err := mgr.Latest()
			if err != nil {
				return err
			}

			renderer := newRenderer()
			fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderSnapshotDetail(info))
			return nil
		},
	}
}

func newPruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "prune",
		Short:   MsgPruneShort,
		Long:    MsgPruneLong,
		Example: MsgPruneExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, _, err := newManager()
			if err != nil {
				return err
			}

			dryRun, _ := cmd.Root().PersistentFlags().GetBool("dry-run")
			keep, _ := cmd.Flags().GetInt("keep")

			result, err := mgr.Prune(snapshot.PruneOptions{
				KeepLast: keep,
				DryRun:   dryRun,
			})
			if err != nil {
				return fmt.Errorf(MsgErrPrune, err)
			}

			out := cmd.OutOrStdout()
			if len(result.Removed) == 0 {
				fmt.Fprintf(out, MsgPruneNothing, len(result.Kept), mgr.Retention().KeepLast)
				return nil
			}

			for _, info := range result.Removed {
				fmt.Fprintf(out, "removed %s\n", info.Name)
			}
			fmt.Fprintf(out, MsgPruneDone, len(result.Removed), len(result.Kept))
			if dryRun {
				fmt.Fprintln(out, MsgDryRunNotice)
			}
			return nil
		},
	}

	cmd.Flags().IntP("keep", "k", 0, MsgFlagKeep)

	return cmd
}

func newGenConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), config.GetDefaultConfigContent())
			return nil
		},
	}
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Find the help command and execute it with "topics" argument
			if helpCmd, _, err := cmd.Root().Find([]string{"help"}); err == nil {
				if helpCmd.RunE != nil {
					return helpCmd.RunE(helpCmd, []string{"topics"})
				} else if helpCmd.Run != nil {
					helpCmd.Run(helpCmd, []string{"topics"})
					return nil
				}
			}
			return fmt.Errorf("help command not found")
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "dotback version %s\n", version.Version)
			fmt.Fprintf(out, "  commit: %s\n", version.Commit)
			fmt.Fprintf(out, "  built:  %s\n", version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}

func newManCmd(rootCmd *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "man [directory]",
		Short:   MsgManShort,
		GroupID: "misc",
		Hidden:  true,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "/tmp"
			if len(args) == 1 {
				dir = args[0]
			}
			header := &doc.GenManHeader{
				Title:   "DOTBACK",
				Section: "1",
			}
			return doc.GenManTree(rootCmd, header, dir)
		},
	}
	return cmd
}
