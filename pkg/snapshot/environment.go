package snapshot

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/dotback/pkg/errors"
	"github.com/arthur-debert/dotback/pkg/paths"
)

// capturedEnvVars are the environment variables recorded in the
// metadata record. Diagnostic only - restore never reads them.
var capturedEnvVars = []string{
	"SHELL",
	"TERM",
	"EDITOR",
	"VISUAL",
	"LANG",
	"ZSH",
	"TMUX",
}

// EnvironmentRecord is the advisory metadata written alongside every
// snapshot, describing the shell environment at capture time.
type EnvironmentRecord struct {
	CapturedAt      string            `yaml:"captured_at"`
	Hostname        string            `yaml:"hostname"`
	OS              string            `yaml:"os"`
	Arch            string            `yaml:"arch"`
	CurrentShell    string            `yaml:"current_shell"`
	AvailableShells []string          `yaml:"available_shells"`
	PathEntries     []string          `yaml:"path_entries"`
	Variables       map[string]string `yaml:"variables"`
}

// writeEnvironment captures the environment record into the snapshot
func (m *Manager) writeEnvironment(snapshotPath string) error {
	record := m.captureEnvironment()

	data, err := yaml.Marshal(record)
	if err != nil {
		return errors.Wrap(err, errors.ErrSnapshotCreate, "failed to serialize environment record")
	}

	envPath := filepath.Join(snapshotPath, paths.EnvironmentFileName)
	if err := m.fs.WriteFile(envPath, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write environment record to %s", envPath)
	}

	return nil
}

// captureEnvironment builds the record from the live environment
func (m *Manager) captureEnvironment() *EnvironmentRecord {
	record := &EnvironmentRecord{
		CapturedAt:   m.now().Format("2006-01-02T15:04:05Z07:00"),
		OS:           runtime.GOOS,
		Arch:         runtime.GOARCH,
		CurrentShell: os.Getenv("SHELL"),
		Variables:    make(map[string]string),
	}

	if host, err := os.Hostname(); err == nil {
		record.Hostname = host
	}

	if path := os.Getenv("PATH"); path != "" {
		record.PathEntries = strings.Split(path, string(os.PathListSeparator))
	}

	for _, key := range capturedEnvVars {
		if val, ok := os.LookupEnv(key); ok {
			record.Variables[key] = val
		}
	}

	record.AvailableShells = m.availableShells()

	return record
}

// availableShells parses /etc/shells. Absence is not an error - the
// record just omits the list.
func (m *Manager) availableShells() []string {
	data, err := m.fs.ReadFile("/etc/shells")
	if err != nil {
		return nil
	}

	var shells []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		shells = append(shells, line)
	}
	return shells
}
