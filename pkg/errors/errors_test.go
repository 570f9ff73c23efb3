package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrSnapshotCreate, "could not create snapshot directory")
	assert.Equal(t, ErrSnapshotCreate, err.Code)
	assert.Equal(t, "[SNAPSHOT_CREATE] could not create snapshot directory", err.Error())
	assert.Nil(t, err.Wrapped)
}

func TestNewf(t *testing.T) {
	err := Newf(ErrSnapshotNotFound, "snapshot %q not found", "dotback-backup-20250101_120000")
	assert.Contains(t, err.Error(), `snapshot "dotback-backup-20250101_120000" not found`)
}

func TestWrap(t *testing.T) {
	inner := fmt.Errorf("permission denied")
	err := Wrap(inner, ErrFileAccess, "reading candidate file")

	require.NotNil(t, err)
	assert.Equal(t, ErrFileAccess, err.Code)
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrFileAccess, "should be nil"))
	assert.Nil(t, Wrapf(nil, ErrFileAccess, "should be %s", "nil"))
}

func TestIsMatchesOnCode(t *testing.T) {
	err := Newf(ErrPruneDelete, "failed to delete %s", "old-snapshot")
	target := New(ErrPruneDelete, "")
	assert.True(t, errors.Is(err, target))

	other := New(ErrRestoreExecute, "")
	assert.False(t, errors.Is(err, other))
}

func TestIsErrorCode(t *testing.T) {
	err := Wrap(fmt.Errorf("disk full"), ErrManifestWrite, "writing manifest")
	assert.True(t, IsErrorCode(err, ErrManifestWrite))
	assert.False(t, IsErrorCode(err, ErrManifestParse))
	assert.False(t, IsErrorCode(fmt.Errorf("plain"), ErrManifestWrite))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, ErrMarkerWrite, GetErrorCode(New(ErrMarkerWrite, "x")))
	assert.Equal(t, ErrUnknown, GetErrorCode(fmt.Errorf("plain")))

	// Wrapped in a plain error, the code should still be found
	wrapped := fmt.Errorf("outer: %w", New(ErrConfigLoad, "bad config"))
	assert.Equal(t, ErrConfigLoad, GetErrorCode(wrapped))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrRestoreExecute, "restore failed").
		WithDetail("snapshot", "dotback-backup-20250101_120000").
		WithDetail("target", "/home/user/.zshrc")

	assert.Equal(t, "dotback-backup-20250101_120000", err.Details["snapshot"])
	assert.Equal(t, "/home/user/.zshrc", err.Details["target"])
}
