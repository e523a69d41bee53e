package fs

import (
	"errors"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToFuseError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{
			name:     "nil",
			err:      nil,
			expected: nil,
		},
		{
			name:     "not found",
			err:      NewFSError(OpLookup, "/x", ErrPathNotFound),
			expected: syscall.ENOENT,
		},
		{
			name:     "hidden by containment",
			err:      NewFSError(OpGetattr, "/x", &HideError{Reason: HideOutsideContainment}),
			expected: syscall.ENOENT,
		},
		{
			name:     "hidden by type ban",
			err:      NewFSError(OpGetattr, "/x", &HideError{Reason: HideBannedType, Tag: TagSocket}),
			expected: syscall.ENOENT,
		},
		{
			name:     "not a directory",
			err:      NewFSError(OpReadDir, "/x", ErrNotADirectory),
			expected: syscall.ENOTDIR,
		},
		{
			name:     "read only",
			err:      NewFSError(OpOpen, "/x", ErrReadOnly),
			expected: syscall.EROFS,
		},
		{
			name:     "os not exist",
			err:      os.ErrNotExist,
			expected: syscall.ENOENT,
		},
		{
			name:     "os permission",
			err:      os.ErrPermission,
			expected: syscall.EACCES,
		},
		{
			name:     "unknown error",
			err:      errors.New("boom"),
			expected: syscall.EIO,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToFuseError(tt.err))
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	err := NewFSError(OpReadDir, "/sub", ErrNotADirectory)
	assert.Equal(t, "operation readdir on /sub failed: not a directory", err.Error())
	assert.ErrorIs(t, err, ErrNotADirectory)

	err = NewFSError(OpStatfs, "", ErrPathNotFound)
	assert.Equal(t, "operation statfs failed: path not found", err.Error())
}
