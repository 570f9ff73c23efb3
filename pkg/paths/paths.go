// Package paths provides centralized path handling for dotback.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/dotback/pkg/errors"
)

// Environment variable names
const (
	// EnvDotbackDataDir overrides the XDG data directory for dotback
	EnvDotbackDataDir = "DOTBACK_DATA_DIR"

	// EnvDotbackConfigDir overrides the XDG config directory for dotback
	EnvDotbackConfigDir = "DOTBACK_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
// IMPORTANT: These constants define dotback's on-disk layout and are NOT
// user-configurable. They must remain consistent across installations so
// snapshots written by one version stay readable by the next.
const (
	// DotbackDirName is the directory name for dotback-specific files
	DotbackDirName = "dotback"

	// BackupsDir is the subdirectory holding snapshot directories
	BackupsDir = "backups"

	// MarkerFileName is the file recording the newest snapshot's path
	MarkerFileName = "latest"

	// ManifestFileName is the per-snapshot manifest file
	ManifestFileName = "manifest.toml"

	// EnvironmentFileName is the per-snapshot environment metadata record
	EnvironmentFileName = "environment.yaml"

	// FilesDir is the per-snapshot subdirectory for captured files
	FilesDir = "files"

	// DirsDir is the per-snapshot subdirectory for captured directory trees
	DirsDir = "dirs"

	// UserConfigFile is the optional user configuration file name
	UserConfigFile = "dotback.toml"

	// LogFileName is the name of the log file
	LogFileName = "dotback.log"
)

// Paths provides centralized path management for dotback
type Paths interface {
	HomeDir() string
	DataDir() string
	ConfigDir() string
	StateDir() string
	BackupsRoot() string
	MarkerPath() string
	SnapshotPath(name string) string
	UserConfigPath() string
	LogFilePath() string

	// ResolveCandidate maps a candidate entry to an absolute path.
	// Relative entries are resolved against the home directory.
	ResolveCandidate(entry string) string
}

type paths struct {
	homeDir   string
	xdgData   string
	xdgConfig string
	xdgState  string
}

// New creates a new Paths instance. If homeDir is empty the user's home
// directory is resolved from the environment.
func New(homeDir string) (Paths, error) {
	p := &paths{}

	if homeDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrFileAccess, "failed to determine home directory")
		}
		homeDir = home
	}

	absHome, err := filepath.Abs(expandHome(homeDir))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for home directory")
	}
	p.homeDir = absHome

	p.setupXDGDirs()

	return p, nil
}

// setupXDGDirs initializes XDG directories, respecting environment overrides
func (p *paths) setupXDGDirs() {
	// Data directory
	if dataDir := os.Getenv(EnvDotbackDataDir); dataDir != "" {
		p.xdgData = expandHome(dataDir)
	} else {
		p.xdgData = filepath.Join(xdg.DataHome, DotbackDirName)
	}

	// Config directory
	if configDir := os.Getenv(EnvDotbackConfigDir); configDir != "" {
		p.xdgConfig = expandHome(configDir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, DotbackDirName)
	}

	// State directory - XDG doesn't provide StateHome, so we check manually
	if stateDir := os.Getenv("XDG_STATE_HOME"); stateDir != "" {
		p.xdgState = filepath.Join(stateDir, DotbackDirName)
	} else {
		p.xdgState = filepath.Join(p.homeDir, ".local", "state", DotbackDirName)
	}
}

func (p *paths) HomeDir() string {
	return p.homeDir
}

func (p *paths) DataDir() string {
	return p.xdgData
}

func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

func (p *paths) StateDir() string {
	return p.xdgState
}

// BackupsRoot returns the parent directory of all snapshot directories
func (p *paths) BackupsRoot() string {
	return filepath.Join(p.xdgData, BackupsDir)
}

// MarkerPath returns the path of the newest-snapshot marker file
func (p *paths) MarkerPath() string {
	return filepath.Join(p.BackupsRoot(), MarkerFileName)
}

// SnapshotPath returns the directory path for a snapshot name
func (p *paths) SnapshotPath(name string) string {
	return filepath.Join(p.BackupsRoot(), name)
}

// UserConfigPath returns the path of the optional user config file
func (p *paths) UserConfigPath() string {
	return filepath.Join(p.xdgConfig, UserConfigFile)
}

// LogFilePath returns the path of the log file
func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// ResolveCandidate maps a candidate entry to an absolute path
func (p *paths) ResolveCandidate(entry string) string {
	entry = expandHome(entry)
	if filepath.IsAbs(entry) {
		return filepath.Clean(entry)
	}
	return filepath.Join(p.homeDir, entry)
}

// expandHome expands a leading ~ to the user's home directory
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// GetHomeDirectory returns the current user's home directory
func GetHomeDirectory() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrFileAccess, "failed to get home directory")
	}
	return home, nil
}
