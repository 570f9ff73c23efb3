package testutil

import (
	"github.com/spf13/afero"

	"github.com/arthur-debert/dotback/pkg/filesystem"
	"github.com/arthur-debert/dotback/pkg/types"
)

// NewMemoryFS returns an in-memory filesystem for tests that never
// need real disk. Backed by afero's MemMapFs.
func NewMemoryFS() types.FS {
	return filesystem.NewAferoFS(afero.NewMemMapFs())
}

// NewMemoryFSWithFiles builds an in-memory filesystem pre-populated
// with the given path to content mapping.
func NewMemoryFSWithFiles(files map[string]string) (types.FS, error) {
	memFs := afero.NewMemMapFs()
	for path, content := range files {
		if err := afero.WriteFile(memFs, path, []byte(content), 0644); err != nil {
			return nil, err
		}
	}
	return filesystem.NewAferoFS(memFs), nil
}
