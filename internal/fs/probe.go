package fs

import (
	"os"
	"time"

	"exposefs/internal/logging"

	"bazil.org/fuse"
	"golang.org/x/sys/unix"
)

var (
	probeLogger = logging.GetLogger().WithPrefix("probe")
)

// probe is the shared preamble of every operation: it resolves the virtual
// path, fetches its metadata with lstat, and applies the guard. Both a
// failed metadata fetch and a hide decision come back wrapping
// ErrPathNotFound, so the caller-visible outcome is the same for "absent"
// and "filtered". The returned stat record is fresh on every call and
// never cached.
func (e *ExposeFS) probe(op string, vp *VirtualPath) (string, *unix.Stat_t, error) {
	realPath := e.resolver.Resolve(vp)

	var st unix.Stat_t
	if err := unix.Lstat(realPath, &st); err != nil {
		probeLogger.Trace("lstat failed", "op", op, "path", vp.String(), "err", err)
		return realPath, nil, NewFSError(op, vp.String(), ErrPathNotFound)
	}

	if hide := e.guard.Check(&st); hide != nil {
		probeLogger.Debug("hiding entry", "op", op, "path", vp.String(), "reason", hide.Reason.String())
		return realPath, nil, NewFSError(op, vp.String(), hide)
	}

	return realPath, &st, nil
}

// fillAttr copies a probed stat record into a FUSE attribute response
// verbatim. Ownership and mode bits are deliberately passed through
// unmodified; permission bypass happens at the open/read boundary, not in
// reported metadata. Real inode numbers are reported so hard links stay
// detectable.
func fillAttr(st *unix.Stat_t, a *fuse.Attr) {
	a.Inode = st.Ino
	a.Size = safeInt64ToUint64(st.Size)
	a.Blocks = safeInt64ToUint64(st.Blocks)
	a.Atime = timespecToTime(st.Atim)
	a.Mtime = timespecToTime(st.Mtim)
	a.Ctime = timespecToTime(st.Ctim)
	a.Mode = fileModeFromStat(st)
	a.Nlink = uint32(st.Nlink)
	a.Uid = st.Uid
	a.Gid = st.Gid
	a.Rdev = uint32(st.Rdev)
	a.BlockSize = uint32(st.Blksize)
}

// fileModeFromStat converts raw stat mode bits to an os.FileMode.
func fileModeFromStat(st *unix.Stat_t) os.FileMode {
	mode := os.FileMode(st.Mode & 0777)

	switch st.Mode & unix.S_IFMT {
	case unix.S_IFDIR:
		mode |= os.ModeDir
	case unix.S_IFLNK:
		mode |= os.ModeSymlink
	case unix.S_IFBLK:
		mode |= os.ModeDevice
	case unix.S_IFCHR:
		mode |= os.ModeDevice | os.ModeCharDevice
	case unix.S_IFIFO:
		mode |= os.ModeNamedPipe
	case unix.S_IFSOCK:
		mode |= os.ModeSocket
	}

	if st.Mode&unix.S_ISUID != 0 {
		mode |= os.ModeSetuid
	}
	if st.Mode&unix.S_ISGID != 0 {
		mode |= os.ModeSetgid
	}
	if st.Mode&unix.S_ISVTX != 0 {
		mode |= os.ModeSticky
	}

	return mode
}

// direntType maps raw stat mode bits to a FUSE directory entry type.
func direntType(st *unix.Stat_t) fuse.DirentType {
	switch st.Mode & unix.S_IFMT {
	case unix.S_IFDIR:
		return fuse.DT_Dir
	case unix.S_IFREG:
		return fuse.DT_File
	case unix.S_IFLNK:
		return fuse.DT_Link
	case unix.S_IFBLK:
		return fuse.DT_Block
	case unix.S_IFCHR:
		return fuse.DT_Char
	case unix.S_IFIFO:
		return fuse.DT_FIFO
	case unix.S_IFSOCK:
		return fuse.DT_Socket
	default:
		return fuse.DT_Unknown
	}
}

func timespecToTime(ts unix.Timespec) time.Time {
	return time.Unix(int64(ts.Sec), int64(ts.Nsec))
}
