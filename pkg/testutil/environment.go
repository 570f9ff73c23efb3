package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dotback/pkg/filesystem"
	"github.com/arthur-debert/dotback/pkg/paths"
	"github.com/arthur-debert/dotback/pkg/types"
)

// TestEnvironment provides an isolated home, data and config
// directory for a test, with the environment variables pointed at
// them so nothing leaks into the developer's real directories.
type TestEnvironment struct {
	HomeDir   string
	DataDir   string
	ConfigDir string

	FS    types.FS
	Paths paths.Paths

	t *testing.T
}

// NewTestEnvironment creates an isolated environment rooted in a
// temp directory. Cleanup is automatic.
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	tempDir := t.TempDir()
	env := &TestEnvironment{
		HomeDir:   filepath.Join(tempDir, "home"),
		DataDir:   filepath.Join(tempDir, "data"),
		ConfigDir: filepath.Join(tempDir, "config"),
		FS:        filesystem.NewOS(),
		t:         t,
	}

	for _, dir := range []string{env.HomeDir, env.DataDir, env.ConfigDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}

	t.Setenv("HOME", env.HomeDir)
	t.Setenv(paths.EnvDotbackDataDir, env.DataDir)
	t.Setenv(paths.EnvDotbackConfigDir, env.ConfigDir)

	p, err := paths.New(env.HomeDir)
	if err != nil {
		t.Fatalf("failed to create paths: %v", err)
	}
	env.Paths = p

	return env
}

// WriteHomeFile creates a file under the environment's home directory,
// creating parent directories as needed. Returns the absolute path.
func (env *TestEnvironment) WriteHomeFile(relPath, content string) string {
	env.t.Helper()

	path := filepath.Join(env.HomeDir, relPath)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		env.t.Fatalf("failed to create parent of %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		env.t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// WriteUserConfig writes the user configuration file into the
// environment's config directory.
func (env *TestEnvironment) WriteUserConfig(content string) string {
	env.t.Helper()

	path := env.Paths.UserConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		env.t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		env.t.Fatalf("failed to write user config: %v", err)
	}
	return path
}

// ReadHomeFile returns the content of a file under the home directory.
func (env *TestEnvironment) ReadHomeFile(relPath string) string {
	env.t.Helper()

	data, err := os.ReadFile(filepath.Join(env.HomeDir, relPath))
	if err != nil {
		env.t.Fatalf("failed to read %s: %v", relPath, err)
	}
	return string(data)
}

// HomeFileExists reports whether a path under home exists.
func (env *TestEnvironment) HomeFileExists(relPath string) bool {
	_, err := os.Lstat(filepath.Join(env.HomeDir, relPath))
	return err == nil
}
