package fs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestTypeTag(t *testing.T) {
	tests := []struct {
		name     string
		mode     uint32
		expected byte
	}{
		{name: "directory", mode: unix.S_IFDIR | 0755, expected: TagDir},
		{name: "regular file", mode: unix.S_IFREG | 0644, expected: TagFile},
		{name: "symlink", mode: unix.S_IFLNK | 0777, expected: TagSymlink},
		{name: "block device", mode: unix.S_IFBLK | 0660, expected: TagBlockDev},
		{name: "char device", mode: unix.S_IFCHR | 0666, expected: TagCharDev},
		{name: "fifo", mode: unix.S_IFIFO | 0600, expected: TagFIFO},
		{name: "socket", mode: unix.S_IFSOCK | 0755, expected: TagSocket},
		{name: "door", mode: ifDoor | 0444, expected: TagDoor},
		{name: "event port", mode: ifPort | 0444, expected: TagPort},
		{name: "unmapped bits", mode: 0x3000 | 0644, expected: TagUnknown},
		{name: "no type bits", mode: 0644, expected: TagUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TypeTag(tt.mode))
		})
	}
}

func TestNewGuardRejectsDirectoryBan(t *testing.T) {
	_, err := NewGuard(nil, "bcd")
	require.ErrorIs(t, err, ErrDirBanned)
}

func TestGuardDefaultBannedSet(t *testing.T) {
	g, err := NewGuard(nil, "")
	require.NoError(t, err)

	banned := []uint32{
		unix.S_IFBLK, unix.S_IFCHR, unix.S_IFIFO, unix.S_IFSOCK,
		ifDoor, ifPort, 0x3000,
	}
	for _, mode := range banned {
		st := &unix.Stat_t{Mode: mode | 0644}
		assert.True(t, g.Banned(st), "mode %#x should be banned by default", mode)
	}

	allowed := []uint32{unix.S_IFDIR, unix.S_IFREG, unix.S_IFLNK}
	for _, mode := range allowed {
		st := &unix.Stat_t{Mode: mode | 0644}
		assert.False(t, g.Banned(st), "mode %#x should be allowed by default", mode)
	}
}

func TestGuardCustomBannedSetReplacesDefault(t *testing.T) {
	g, err := NewGuard(nil, "l")
	require.NoError(t, err)

	assert.True(t, g.Banned(&unix.Stat_t{Mode: unix.S_IFLNK | 0777}))
	// The custom set fully replaces the default: fifos are visible now.
	assert.False(t, g.Banned(&unix.Stat_t{Mode: unix.S_IFIFO | 0600}))
}

func TestGuardContainment(t *testing.T) {
	dev := uint64(7)
	g, err := NewGuard(&dev, "")
	require.NoError(t, err)

	inside := &unix.Stat_t{Dev: 7, Mode: unix.S_IFREG | 0644}
	outside := &unix.Stat_t{Dev: 8, Mode: unix.S_IFREG | 0644}

	assert.False(t, g.Outside(inside))
	assert.True(t, g.Outside(outside))
	assert.Nil(t, g.Check(inside))

	hide := g.Check(outside)
	require.NotNil(t, hide)
	assert.Equal(t, HideOutsideContainment, hide.Reason)
	assert.Equal(t, uint64(8), hide.Dev)
}

func TestGuardContainmentDisabled(t *testing.T) {
	g, err := NewGuard(nil, "")
	require.NoError(t, err)
	assert.False(t, g.Outside(&unix.Stat_t{Dev: 1234, Mode: unix.S_IFREG}))
}

func TestGuardCheckBannedType(t *testing.T) {
	g, err := NewGuard(nil, "")
	require.NoError(t, err)

	hide := g.Check(&unix.Stat_t{Mode: unix.S_IFCHR | 0666})
	require.NotNil(t, hide)
	assert.Equal(t, HideBannedType, hide.Reason)
	assert.Equal(t, byte(TagCharDev), hide.Tag)
}

func TestHideErrorCollapsesToNotFound(t *testing.T) {
	for _, hide := range []*HideError{
		{Reason: HideOutsideContainment, Dev: 3},
		{Reason: HideBannedType, Tag: TagFIFO},
	} {
		assert.ErrorIs(t, hide, ErrPathNotFound)

		wrapped := NewFSError(OpGetattr, "/x", hide)
		assert.ErrorIs(t, wrapped, ErrPathNotFound)

		var as *HideError
		assert.True(t, errors.As(wrapped, &as))
		assert.Equal(t, hide.Reason, as.Reason)
	}
}
