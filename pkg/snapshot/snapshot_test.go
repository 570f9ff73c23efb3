package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dotback/pkg/errors"
	"github.com/arthur-debert/dotback/pkg/filesystem"
	"github.com/arthur-debert/dotback/pkg/paths"
	"github.com/arthur-debert/dotback/pkg/types"
)

// setupManager builds a Manager over an isolated temp home and data
// directory. The returned home path is where candidate fixtures go.
func setupManager(t *testing.T, candidates types.CandidateSet, mutate func(*Options)) (*Manager, string) {
	t.Helper()

	tmp := t.TempDir()
	home := filepath.Join(tmp, "home")
	require.NoError(t, os.MkdirAll(home, 0755))
	t.Setenv(paths.EnvDotbackDataDir, filepath.Join(tmp, "data"))
	t.Setenv(paths.EnvDotbackConfigDir, filepath.Join(tmp, "config"))

	p, err := paths.New(home)
	require.NoError(t, err)

	opts := Options{
		FS:          filesystem.NewOS(),
		Paths:       p,
		Candidates:  candidates,
		ToolVersion: "test",
	}
	if mutate != nil {
		mutate(&opts)
	}

	mgr, err := New(opts)
	require.NoError(t, err)
	return mgr, home
}

// steppingClock returns a clock that advances one minute per call, so
// consecutive snapshots get distinct names and creation times.
func steppingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		ts := current
		current = current.Add(time.Minute)
		return ts
	}
}

func writeFixture(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestCreateCapturesCandidates(t *testing.T) {
	candidates := types.CandidateSet{
		Files:       []string{".zshrc", ".gitconfig"},
		Directories: []string{".config/nvim"},
	}
	mgr, home := setupManager(t, candidates, nil)

	writeFixture(t, filepath.Join(home, ".zshrc"), "export EDITOR=vim\n")
	writeFixture(t, filepath.Join(home, ".gitconfig"), "[user]\n\tname = Test\n")
	writeFixture(t, filepath.Join(home, ".config/nvim/init.lua"), "-- init\n")
	writeFixture(t, filepath.Join(home, ".config/nvim/lua/opts.lua"), "-- opts\n")

	result, err := mgr.Create()
	require.NoError(t, err)

	assert.Equal(t, 2, result.Snapshot.FileCount)
	assert.Equal(t, 1, result.Snapshot.DirCount)
	assert.Empty(t, result.SkippedFiles)
	assert.True(t, result.Snapshot.Latest)

	// Captured copies are byte-identical to the live originals
	assert.Equal(t, "export EDITOR=vim\n",
		readFile(t, filepath.Join(result.Snapshot.Path, paths.FilesDir, ".zshrc")))
	assert.Equal(t, "-- opts\n",
		readFile(t, filepath.Join(result.Snapshot.Path, paths.DirsDir, ".config_nvim", "lua", "opts.lua")))

	// The manifest records targets and digests
	require.Len(t, result.Manifest.Files, 2)
	assert.Equal(t, filepath.Join(home, ".zshrc"), result.Manifest.Files[0].Target)
	assert.Len(t, result.Manifest.Files[0].SHA256, 64)
	require.Len(t, result.Manifest.Directories, 1)
	assert.Equal(t, ".config_nvim", result.Manifest.Directories[0].Name)
}

func TestCreateSkipsMissingCandidates(t *testing.T) {
	candidates := types.CandidateSet{
		Files:       []string{".zshrc", ".p10k.zsh"},
		Directories: []string{".config/ghost"},
	}
	mgr, home := setupManager(t, candidates, nil)

	writeFixture(t, filepath.Join(home, ".zshrc"), "alias ll='ls -l'\n")

	result, err := mgr.Create()
	require.NoError(t, err)

	assert.Equal(t, []string{".p10k.zsh"}, result.SkippedFiles)
	assert.Equal(t, []string{".config/ghost"}, result.SkippedDirectories)
	assert.Equal(t, []string{filepath.Join(home, ".p10k.zsh")}, result.Manifest.MissingFiles)
	assert.Equal(t, 1, result.Snapshot.FileCount)
}

func TestCreateRejectsDirectoryListedAsFile(t *testing.T) {
	candidates := types.CandidateSet{Files: []string{".config"}}
	mgr, home := setupManager(t, candidates, nil)
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".config"), 0755))

	_, err := mgr.Create()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestCreateSameSecondCollision(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	candidates := types.CandidateSet{Files: []string{".zshrc"}}
	mgr, home := setupManager(t, candidates, func(o *Options) {
		o.Clock = func() time.Time { return fixed }
	})
	writeFixture(t, filepath.Join(home, ".zshrc"), "x\n")

	first, err := mgr.Create()
	require.NoError(t, err)
	second, err := mgr.Create()
	require.NoError(t, err)
	third, err := mgr.Create()
	require.NoError(t, err)

	base := "dotback-backup-20250301_120000"
	assert.Equal(t, base, first.Snapshot.Name)
	assert.Equal(t, base+"-2", second.Snapshot.Name)
	assert.Equal(t, base+"-3", third.Snapshot.Name)

	// The suffixed snapshot is the newer one
	latest, err := mgr.Latest()
	require.NoError(t, err)
	assert.Equal(t, base+"-3", latest.Name)
}

func TestMarkerTracksNewestSnapshot(t *testing.T) {
	candidates := types.CandidateSet{Files: []string{".zshrc"}}
	mgr, home := setupManager(t, candidates, func(o *Options) {
		o.Clock = steppingClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	})
	writeFixture(t, filepath.Join(home, ".zshrc"), "x\n")

	first, err := mgr.Create()
	require.NoError(t, err)
	assert.Equal(t, first.Snapshot.Path+"\n", readFile(t, mgr.paths.MarkerPath()))

	second, err := mgr.Create()
	require.NoError(t, err)
	assert.Equal(t, second.Snapshot.Path+"\n", readFile(t, mgr.paths.MarkerPath()))

	latest, err := mgr.Latest()
	require.NoError(t, err)
	assert.Equal(t, second.Snapshot.Name, latest.Name)
}

func TestLatestFallsBackWhenMarkerStale(t *testing.T) {
	candidates := types.CandidateSet{Files: []string{".zshrc"}}
	mgr, home := setupManager(t, candidates, func(o *Options) {
		o.Clock = steppingClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	})
	writeFixture(t, filepath.Join(home, ".zshrc"), "x\n")

	_, err := mgr.Create()
	require.NoError(t, err)
	second, err := mgr.Create()
	require.NoError(t, err)

	// Marker points at a snapshot that no longer exists
	require.NoError(t, os.RemoveAll(second.Snapshot.Path))

	latest, err := mgr.Latest()
	require.NoError(t, err)
	assert.NotEqual(t, second.Snapshot.Name, latest.Name)
}

func TestLatestWithNoSnapshots(t *testing.T) {
	mgr, _ := setupManager(t, types.CandidateSet{}, nil)

	_, err := mgr.Latest()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSnapshotNotFound))
}

func TestListOrdersNewestFirst(t *testing.T) {
	candidates := types.CandidateSet{Files: []string{".zshrc"}}
	mgr, home := setupManager(t, candidates, func(o *Options) {
		o.Clock = steppingClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	})
	writeFixture(t, filepath.Join(home, ".zshrc"), "x\n")

	var names []string
	for i := 0; i < 3; i++ {
		result, err := mgr.Create()
		require.NoError(t, err)
		names = append(names, result.Snapshot.Name)
	}

	infos, err := mgr.List()
	require.NoError(t, err)
	require.Len(t, infos, 3)
	assert.Equal(t, names[2], infos[0].Name)
	assert.Equal(t, names[0], infos[2].Name)
	assert.True(t, infos[0].Latest)
	assert.False(t, infos[1].Latest)
}

func TestListIgnoresForeignDirectories(t *testing.T) {
	candidates := types.CandidateSet{Files: []string{".zshrc"}}
	mgr, home := setupManager(t, candidates, nil)
	writeFixture(t, filepath.Join(home, ".zshrc"), "x\n")

	_, err := mgr.Create()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(mgr.paths.SnapshotPath("not-a-snapshot"), 0755))

	infos, err := mgr.List()
	require.NoError(t, err)
	assert.Len(t, infos, 1)
}

func TestRestoreRoundTrip(t *testing.T) {
	candidates := types.CandidateSet{
		Files:       []string{".zshrc", ".p10k.zsh"},
		Directories: []string{".config/nvim"},
	}
	mgr, home := setupManager(t, candidates, func(o *Options) {
		o.Clock = steppingClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	})

	// Pre-backup state: .p10k.zsh deliberately absent
	writeFixture(t, filepath.Join(home, ".zshrc"), "original\n")
	writeFixture(t, filepath.Join(home, ".config/nvim/init.lua"), "cfg\n")

	_, err := mgr.Create()
	require.NoError(t, err)

	// Mutate everything after the backup
	writeFixture(t, filepath.Join(home, ".zshrc"), "clobbered\n")
	writeFixture(t, filepath.Join(home, ".p10k.zsh"), "appeared later\n")
	require.NoError(t, os.Remove(filepath.Join(home, ".config/nvim/init.lua")))
	writeFixture(t, filepath.Join(home, ".config/nvim/extra.lua"), "stray\n")
	writeFixture(t, filepath.Join(home, ".unrelated"), "not a candidate\n")

	result, err := mgr.Restore(RestoreOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.RestoredFiles)
	assert.Equal(t, 1, result.RestoredDirectories)
	assert.Equal(t, 1, result.RemovedFiles)

	// Captured state is back, byte for byte
	assert.Equal(t, "original\n", readFile(t, filepath.Join(home, ".zshrc")))
	assert.Equal(t, "cfg\n", readFile(t, filepath.Join(home, ".config/nvim/init.lua")))

	// The file that appeared after the backup is gone again
	_, err = os.Stat(filepath.Join(home, ".p10k.zsh"))
	assert.True(t, os.IsNotExist(err))

	// The tree was replaced wholesale, so the stray file is gone
	_, err = os.Stat(filepath.Join(home, ".config/nvim/extra.lua"))
	assert.True(t, os.IsNotExist(err))

	// Paths the manifest never mentions are untouched
	assert.Equal(t, "not a candidate\n", readFile(t, filepath.Join(home, ".unrelated")))
}

func TestRestoreByName(t *testing.T) {
	candidates := types.CandidateSet{Files: []string{".zshrc"}}
	mgr, home := setupManager(t, candidates, func(o *Options) {
		o.Clock = steppingClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	})

	writeFixture(t, filepath.Join(home, ".zshrc"), "first\n")
	first, err := mgr.Create()
	require.NoError(t, err)

	writeFixture(t, filepath.Join(home, ".zshrc"), "second\n")
	_, err = mgr.Create()
	require.NoError(t, err)

	// Restoring the older snapshot by name, not the latest
	result, err := mgr.Restore(RestoreOptions{Name: first.Snapshot.Name})
	require.NoError(t, err)
	assert.Equal(t, first.Snapshot.Name, result.Snapshot.Name)
	assert.Equal(t, "first\n", readFile(t, filepath.Join(home, ".zshrc")))
}

func TestRestoreDryRunTouchesNothing(t *testing.T) {
	candidates := types.CandidateSet{Files: []string{".zshrc"}}
	mgr, home := setupManager(t, candidates, nil)

	writeFixture(t, filepath.Join(home, ".zshrc"), "original\n")
	_, err := mgr.Create()
	require.NoError(t, err)

	writeFixture(t, filepath.Join(home, ".zshrc"), "changed\n")

	result, err := mgr.Restore(RestoreOptions{DryRun: true})
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.NotEmpty(t, result.Operations)
	assert.Equal(t, "changed\n", readFile(t, filepath.Join(home, ".zshrc")))
}

func TestRestoreUnknownSnapshot(t *testing.T) {
	mgr, _ := setupManager(t, types.CandidateSet{}, nil)

	_, err := mgr.Restore(RestoreOptions{Name: "dotback-backup-19990101_000000"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSnapshotNotFound))
}

func TestPruneKeepsNewest(t *testing.T) {
	candidates := types.CandidateSet{Files: []string{".zshrc"}}
	mgr, home := setupManager(t, candidates, func(o *Options) {
		o.Clock = steppingClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	})
	writeFixture(t, filepath.Join(home, ".zshrc"), "x\n")

	var names []string
	for i := 0; i < 8; i++ {
		result, err := mgr.Create()
		require.NoError(t, err)
		names = append(names, result.Snapshot.Name)
	}

	result, err := mgr.Prune(PruneOptions{})
	require.NoError(t, err)
	assert.Len(t, result.Kept, types.DefaultKeepLast)
	require.Len(t, result.Removed, 3)
	assert.Empty(t, result.Failed)

	// The three oldest by creation order are the ones removed
	removed := []string{result.Removed[0].Name, result.Removed[1].Name, result.Removed[2].Name}
	assert.ElementsMatch(t, names[:3], removed)

	// They are gone from disk; the survivors are not
	for _, name := range names[:3] {
		_, err := os.Stat(mgr.paths.SnapshotPath(name))
		assert.True(t, os.IsNotExist(err), "expected %s to be removed", name)
	}
	infos, err := mgr.List()
	require.NoError(t, err)
	assert.Len(t, infos, types.DefaultKeepLast)

	// The latest marker still resolves after pruning
	latest, err := mgr.Latest()
	require.NoError(t, err)
	assert.Equal(t, names[7], latest.Name)
}

func TestPruneUnderThresholdIsNoop(t *testing.T) {
	candidates := types.CandidateSet{Files: []string{".zshrc"}}
	mgr, home := setupManager(t, candidates, func(o *Options) {
		o.Clock = steppingClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	})
	writeFixture(t, filepath.Join(home, ".zshrc"), "x\n")

	for i := 0; i < 3; i++ {
		_, err := mgr.Create()
		require.NoError(t, err)
	}

	result, err := mgr.Prune(PruneOptions{})
	require.NoError(t, err)
	assert.Len(t, result.Kept, 3)
	assert.Empty(t, result.Removed)
}

func TestPruneDryRun(t *testing.T) {
	candidates := types.CandidateSet{Files: []string{".zshrc"}}
	mgr, home := setupManager(t, candidates, func(o *Options) {
		o.Clock = steppingClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	})
	writeFixture(t, filepath.Join(home, ".zshrc"), "x\n")

	for i := 0; i < 4; i++ {
		_, err := mgr.Create()
		require.NoError(t, err)
	}

	result, err := mgr.Prune(PruneOptions{KeepLast: 2, DryRun: true})
	require.NoError(t, err)
	assert.Len(t, result.Removed, 2)

	infos, err := mgr.List()
	require.NoError(t, err)
	assert.Len(t, infos, 4)
}

func TestPruneKeepLastOverride(t *testing.T) {
	candidates := types.CandidateSet{Files: []string{".zshrc"}}
	mgr, home := setupManager(t, candidates, func(o *Options) {
		o.Clock = steppingClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	})
	writeFixture(t, filepath.Join(home, ".zshrc"), "x\n")

	for i := 0; i < 4; i++ {
		_, err := mgr.Create()
		require.NoError(t, err)
	}

	result, err := mgr.Prune(PruneOptions{KeepLast: 1})
	require.NoError(t, err)
	assert.Len(t, result.Kept, 1)
	assert.Len(t, result.Removed, 3)
}

// failRemoveFS fails RemoveAll for one path, for best-effort tests
type failRemoveFS struct {
	types.FS
	failPath string
}

func (f *failRemoveFS) RemoveAll(path string) error {
	if path == f.failPath {
		return os.ErrPermission
	}
	return f.FS.RemoveAll(path)
}

func TestPruneContinuesPastFailedRemoval(t *testing.T) {
	candidates := types.CandidateSet{Files: []string{".zshrc"}}
	mgr, home := setupManager(t, candidates, func(o *Options) {
		o.Clock = steppingClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	})
	writeFixture(t, filepath.Join(home, ".zshrc"), "x\n")

	var names []string
	for i := 0; i < 4; i++ {
		result, err := mgr.Create()
		require.NoError(t, err)
		names = append(names, result.Snapshot.Name)
	}

	// The oldest snapshot refuses to delete; the next one still goes
	mgr.fs = &failRemoveFS{FS: mgr.fs, failPath: mgr.paths.SnapshotPath(names[0])}

	result, err := mgr.Prune(PruneOptions{KeepLast: 2})
	require.Error(t, err)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, names[0], result.Failed[0].Snapshot.Name)
	require.Len(t, result.Removed, 1)
	assert.Equal(t, names[1], result.Removed[0].Name)

	// The snapshot that failed to delete is still on disk
	_, statErr := os.Stat(mgr.paths.SnapshotPath(names[0]))
	assert.NoError(t, statErr)
	_, statErr = os.Stat(mgr.paths.SnapshotPath(names[1]))
	assert.True(t, os.IsNotExist(statErr))
}

func TestManifestRoundTrip(t *testing.T) {
	candidates := types.CandidateSet{
		Files:       []string{".zshrc"},
		Directories: []string{".config/nvim"},
	}
	mgr, home := setupManager(t, candidates, nil)

	writeFixture(t, filepath.Join(home, ".zshrc"), "x\n")
	writeFixture(t, filepath.Join(home, ".config/nvim/init.lua"), "cfg\n")

	created, err := mgr.Create()
	require.NoError(t, err)

	loaded, err := mgr.loadManifest(created.Snapshot.Path)
	require.NoError(t, err)
	assert.Equal(t, ManifestFormatVersion, loaded.FormatVersion)
	assert.Equal(t, created.Manifest.Name, loaded.Name)
	assert.Equal(t, created.Manifest.Files, loaded.Files)
	assert.Equal(t, created.Manifest.Directories, loaded.Directories)
}

func TestManifestRefusesNewerFormat(t *testing.T) {
	candidates := types.CandidateSet{Files: []string{".zshrc"}}
	mgr, home := setupManager(t, candidates, nil)
	writeFixture(t, filepath.Join(home, ".zshrc"), "x\n")

	created, err := mgr.Create()
	require.NoError(t, err)

	manifestPath := filepath.Join(created.Snapshot.Path, paths.ManifestFileName)
	data, err := os.ReadFile(manifestPath)
	require.NoError(t, err)
	futuristic := []byte("format_version = 99\n")
	require.NoError(t, os.WriteFile(manifestPath, append(futuristic, data...), 0644))

	_, err = mgr.Restore(RestoreOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestParse))
}

func TestStorageName(t *testing.T) {
	assert.Equal(t, ".zshrc", storageName(".zshrc"))
	assert.Equal(t, ".config_nvim", storageName(".config/nvim"))
	assert.Equal(t, "etc_hosts", storageName("/etc/hosts"))
}

func TestEnvironmentRecordWritten(t *testing.T) {
	candidates := types.CandidateSet{Files: []string{".zshrc"}}
	mgr, home := setupManager(t, candidates, nil)
	writeFixture(t, filepath.Join(home, ".zshrc"), "x\n")
	t.Setenv("SHELL", "/bin/zsh")

	created, err := mgr.Create()
	require.NoError(t, err)

	content := readFile(t, filepath.Join(created.Snapshot.Path, paths.EnvironmentFileName))
	assert.Contains(t, content, "SHELL: /bin/zsh")
	assert.Contains(t, content, "hostname:")
}