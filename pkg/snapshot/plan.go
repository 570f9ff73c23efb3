package snapshot

// BackupPlan reports which candidates a backup would capture.
// Targets are resolved to absolute paths.
type BackupPlan struct {
	// Files are candidate files that exist and would be captured
	Files []string

	// Directories are candidate trees that exist and would be captured
	Directories []string

	// Missing are candidates that do not exist and would be skipped
	Missing []string
}

// Plan resolves the candidate set against the live filesystem without
// capturing anything. Backup dry runs are built on this.
func (m *Manager) Plan() (*BackupPlan, error) {
	plan := &BackupPlan{}

	for _, entry := range m.candidates.Files {
		target := m.paths.ResolveCandidate(entry)
		if _, err := m.fs.Stat(target); err != nil {
			plan.Missing = append(plan.Missing, target)
			continue
		}
		plan.Files = append(plan.Files, target)
	}

	for _, entry := range m.candidates.Directories {
		target := m.paths.ResolveCandidate(entry)
		if _, err := m.fs.Stat(target); err != nil {
			plan.Missing = append(plan.Missing, target)
			continue
		}
		plan.Directories = append(plan.Directories, target)
	}

	return plan, nil
}
