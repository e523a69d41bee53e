package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"exposefs/internal/logging"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"
)

var (
	vfsLogger = logging.GetLogger().WithPrefix("vfs")
)

// Options configure the filtering policies of the exposed view.
type Options struct {
	// OneFileSystem captures the root's device id at construction and
	// hides every entry living on a different device.
	OneFileSystem bool

	// BannedTags is a string of type-tag characters whose entries are
	// hidden. Empty selects DefaultBannedTags.
	BannedTags string
}

// ExposeFS is the read-only, permission-agnostic passthrough filesystem.
// It exposes the tree under root to any caller, hiding entries that fail
// the containment or type-ban policy as if they did not exist. All fields
// are set at construction and never mutated, so concurrent FUSE callbacks
// need no locking here.
type ExposeFS struct {
	root     string
	resolver *Resolver
	guard    *Guard
	conn     *fuse.Conn
}

// New creates the filesystem core for the given real root directory. It
// fails before any mount attempt when the root cannot be inspected or the
// banned type set would hide directories.
func New(root string, opts Options) (*ExposeFS, error) {
	root = filepath.Clean(root)
	vfsLogger.Info("creating filesystem", "root", root)

	var containDev *uint64
	if opts.OneFileSystem {
		var st unix.Stat_t
		if err := unix.Lstat(root, &st); err != nil {
			return nil, fmt.Errorf("stat root %s: %w", root, err)
		}
		dev := st.Dev
		containDev = &dev
		vfsLogger.Debug("containment enabled", "dev", dev)
	}

	guard, err := NewGuard(containDev, opts.BannedTags)
	if err != nil {
		return nil, fmt.Errorf("configure guard: %w", err)
	}

	return &ExposeFS{
		root:     root,
		resolver: NewResolver(root),
		guard:    guard,
	}, nil
}

// Root implements the fusefs.FS interface, returning the root directory
// node.
func (e *ExposeFS) Root() (fusefs.Node, error) {
	vfsLogger.Trace("getting root directory node")
	return &Dir{fs: e, path: NewVirtualPath("/")}, nil
}

// Statfs implements the fusefs.FSStatfser interface, passing through the
// real filesystem's capacity and inode statistics unchanged.
func (e *ExposeFS) Statfs(_ context.Context, _ *fuse.StatfsRequest, resp *fuse.StatfsResponse) error {
	var st unix.Statfs_t
	if err := unix.Statfs(e.root, &st); err != nil {
		vfsLogger.Error("statfs failed", "root", e.root, "err", err)
		return ToFuseError(NewFSError(OpStatfs, "/", err))
	}

	resp.Blocks = st.Blocks
	resp.Bfree = st.Bfree
	resp.Bavail = st.Bavail
	resp.Files = st.Files
	resp.Ffree = st.Ffree
	resp.Bsize = uint32(st.Bsize)
	resp.Namelen = uint32(st.Namelen)
	resp.Frsize = uint32(st.Bsize)

	return nil
}

// nodeFor picks the node implementation matching a probed entry's type.
// Special files that survive the type-ban policy surface as plain file
// nodes with their real attributes.
func (e *ExposeFS) nodeFor(vp *VirtualPath, st *unix.Stat_t) fusefs.Node {
	switch st.Mode & unix.S_IFMT {
	case unix.S_IFDIR:
		return &Dir{fs: e, path: vp}
	case unix.S_IFLNK:
		return &Symlink{fs: e, path: vp}
	default:
		return &File{fs: e, path: vp}
	}
}

func waitForMount(mountPoint string) error {
	for i := 0; i < 30; i++ {
		info, err := os.Stat(mountPoint)
		if err == nil && info.IsDir() {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("mount point not available after 3 seconds")
}

// Mount mounts the filesystem read-only at the given mount point and
// starts serving FUSE requests. The kernel is told that this filesystem,
// not its generic mode-bit check, governs readability: DefaultPermissions
// is deliberately absent so restrictive mode bits on source files do not
// block reads.
func (e *ExposeFS) Mount(mountPoint string) error {
	vfsLogger.Info("mounting filesystem", "mount", mountPoint, "root", e.root)

	// Check if the root directory is readable before involving the kernel.
	if _, err := os.ReadDir(e.root); err != nil {
		vfsLogger.Error("cannot read root directory", "err", err)
		return fmt.Errorf("root directory not readable: %w", err)
	}

	var st unix.Statfs_t
	if err := unix.Statfs(e.root, &st); err == nil {
		vfsLogger.Info("source volume",
			"size", humanize.IBytes(st.Blocks*uint64(st.Bsize)),
			"free", humanize.IBytes(st.Bfree*uint64(st.Bsize)))
	}

	mountOpts := []fuse.MountOption{
		fuse.FSName("exposefs"),
		fuse.Subtype("exposefs"),
		fuse.ReadOnly(),
		fuse.AllowOther(),
		fuse.AsyncRead(),
		fuse.AllowNonEmptyMount(),
	}

	c, err := fuse.Mount(mountPoint, mountOpts...)
	if err != nil {
		return fmt.Errorf("mount failed: %w", err)
	}
	e.conn = c

	go func() {
		if err := fusefs.Serve(c, e); err != nil {
			vfsLogger.Error("FUSE server error", "err", err)
		}
	}()

	// Wait for mount to be ready
	if err := waitForMount(mountPoint); err != nil {
		c.Close()
		vfsLogger.Error("mount point not ready", "err", err)
		return fmt.Errorf("mount point failed to initialize: %w", err)
	}

	vfsLogger.Info("filesystem mounted")
	return nil
}

// Unmount cleanly unmounts the filesystem.
func (e *ExposeFS) Unmount(mountPoint string) error {
	vfsLogger.Info("unmounting filesystem", "mount", mountPoint)
	if e.conn == nil {
		return nil
	}
	if err := fuse.Unmount(mountPoint); err != nil {
		vfsLogger.Error("unmount failed", "err", err)
		return err
	}
	vfsLogger.Info("unmount complete")
	return nil
}
