package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithExplicitHome(t *testing.T) {
	home := t.TempDir()
	p, err := New(home)
	require.NoError(t, err)

	assert.Equal(t, home, p.HomeDir())
}

func TestDataDirEnvOverride(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv(EnvDotbackDataDir, dataDir)

	p, err := New(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, dataDir, p.DataDir())
	assert.Equal(t, filepath.Join(dataDir, BackupsDir), p.BackupsRoot())
	assert.Equal(t, filepath.Join(dataDir, BackupsDir, MarkerFileName), p.MarkerPath())
}

func TestConfigDirEnvOverride(t *testing.T) {
	configDir := t.TempDir()
	t.Setenv(EnvDotbackConfigDir, configDir)

	p, err := New(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, configDir, p.ConfigDir())
	assert.Equal(t, filepath.Join(configDir, UserConfigFile), p.UserConfigPath())
}

func TestStateDirRespectsXDGStateHome(t *testing.T) {
	stateHome := t.TempDir()
	t.Setenv("XDG_STATE_HOME", stateHome)

	p, err := New(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(stateHome, DotbackDirName), p.StateDir())
	assert.Equal(t, filepath.Join(stateHome, DotbackDirName, LogFileName), p.LogFilePath())
}

func TestSnapshotPath(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv(EnvDotbackDataDir, dataDir)

	p, err := New(t.TempDir())
	require.NoError(t, err)

	name := "dotback-backup-20250101_120000"
	assert.Equal(t, filepath.Join(dataDir, BackupsDir, name), p.SnapshotPath(name))
}

func TestResolveCandidate(t *testing.T) {
	home := t.TempDir()
	p, err := New(home)
	require.NoError(t, err)

	tests := []struct {
		entry    string
		expected string
	}{
		{".zshrc", filepath.Join(home, ".zshrc")},
		{".config/nvim", filepath.Join(home, ".config", "nvim")},
		{"/etc/zshrc", "/etc/zshrc"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, p.ResolveCandidate(tt.entry), "entry %q", tt.entry)
	}
}

func TestResolveCandidateExpandsTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p, err := New(home)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".tmux.conf"), p.ResolveCandidate("~/.tmux.conf"))
}
