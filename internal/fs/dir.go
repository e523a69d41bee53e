package fs

import (
	"context"
	"errors"
	"os"

	"exposefs/internal/logging"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
	"golang.org/x/sys/unix"
)

var (
	dirLogger = logging.GetLogger().WithPrefix("dir")
)

// Dir represents a directory of the exposed view, backed by the real
// directory at the corresponding path under the root.
type Dir struct {
	fs   *ExposeFS
	path *VirtualPath
}

// Attr implements the Node interface, returning the real directory's
// attributes unchanged.
func (d *Dir) Attr(_ context.Context, a *fuse.Attr) error {
	dirLogger.Trace("getting directory attributes", "path", d.path.String())

	_, st, err := d.fs.probe(OpGetattr, d.path)
	if err != nil {
		return ToFuseError(err)
	}

	fillAttr(st, a)
	return nil
}

// Lookup implements the NodeStringLookuper interface, finding a child
// entry. Children hidden by a filtering policy fail exactly like absent
// ones.
func (d *Dir) Lookup(_ context.Context, name string) (fusefs.Node, error) {
	dirLogger.Debug("looking up entry", "name", name, "dir", d.path.String())

	child := d.path.Child(name)
	_, st, err := d.fs.probe(OpLookup, child)
	if err != nil {
		return nil, ToFuseError(err)
	}

	return d.fs.nodeFor(child, st), nil
}

// ReadDirAll implements the HandleReadDirAller interface, listing the real
// directory's contents in the order the underlying listing yields them.
// Hidden children are omitted entirely; a child whose probe fails for any
// other reason (say, it vanished between listing and probing) is degraded
// to a name-only entry rather than aborting the enumeration.
func (d *Dir) ReadDirAll(_ context.Context) ([]fuse.Dirent, error) {
	dirLogger.Debug("reading directory", "path", d.path.String())

	realPath, st, err := d.fs.probe(OpReadDir, d.path)
	if err != nil {
		return nil, ToFuseError(err)
	}
	if st.Mode&unix.S_IFMT != unix.S_IFDIR {
		dirLogger.Warn("readdir on non-directory", "path", d.path.String())
		return nil, ToFuseError(NewFSError(OpReadDir, d.path.String(), ErrNotADirectory))
	}

	f, err := os.Open(realPath)
	if err != nil {
		dirLogger.Error("failed to open directory", "path", d.path.String(), "err", err)
		return nil, ToFuseError(NewFSError(OpReadDir, d.path.String(), ErrPathNotFound))
	}
	defer f.Close()

	// Readdirnames keeps the underlying listing order, unlike os.ReadDir.
	names, err := f.Readdirnames(-1)
	if err != nil {
		dirLogger.Error("failed to read directory", "path", d.path.String(), "err", err)
		return nil, ToFuseError(NewFSError(OpReadDir, d.path.String(), err))
	}

	entries := make([]fuse.Dirent, 0, len(names)+2)

	// Self entry from the attributes already probed above.
	entries = append(entries, fuse.Dirent{Inode: st.Ino, Type: fuse.DT_Dir, Name: "."})

	// Parent entry is name-only and unfiltered. Inherited behavior: the
	// original never decided whether ".." should be subject to the
	// policies, so it is not.
	entries = append(entries, fuse.Dirent{Type: fuse.DT_Unknown, Name: ".."})

	for _, name := range names {
		_, cst, err := d.fs.probe(OpReadDir, d.path.Child(name))
		if err != nil {
			var hide *HideError
			if errors.As(err, &hide) {
				dirLogger.Trace("omitting hidden entry", "name", name, "reason", hide.Reason.String())
				continue
			}
			dirLogger.Debug("degrading entry to name-only", "name", name, "err", err)
			entries = append(entries, fuse.Dirent{Type: fuse.DT_Unknown, Name: name})
			continue
		}
		entries = append(entries, fuse.Dirent{Inode: cst.Ino, Type: direntType(cst), Name: name})
	}

	dirLogger.Debug("directory read", "path", d.path.String(), "entries", len(entries))
	return entries, nil
}
