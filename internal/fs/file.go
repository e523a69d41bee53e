package fs

import (
	"context"
	"io"
	"os"
	"sync"

	"exposefs/internal/logging"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
)

var (
	fileLogger = logging.GetLogger().WithPrefix("file")
)

// File represents a non-directory, non-symlink entry of the exposed view.
type File struct {
	fs   *ExposeFS
	path *VirtualPath
}

// Attr implements the Node interface, returning the file's real attributes
// unchanged. Restrictive mode bits stay visible even though reads succeed
// regardless of them.
func (f *File) Attr(_ context.Context, a *fuse.Attr) error {
	fileLogger.Trace("getting file attributes", "path", f.path.String())

	_, st, err := f.fs.probe(OpGetattr, f.path)
	if err != nil {
		return ToFuseError(err)
	}

	fillAttr(st, a)
	return nil
}

// Open implements the NodeOpener interface, opening the underlying real
// file. The probe above is the only access check: mode bits on the real
// file never block the open, because this process opens it, not the
// caller. Write intent is rejected; the mount is read-only anyway.
func (f *File) Open(_ context.Context, req *fuse.OpenRequest, resp *fuse.OpenResponse) (fusefs.Handle, error) {
	realPath, _, err := f.fs.probe(OpOpen, f.path)
	if err != nil {
		return nil, ToFuseError(err)
	}

	flags := int(req.Flags)
	fileLogger.Debug("opening file", "path", f.path.String(), "flags", flags)

	if flags&os.O_WRONLY != 0 || flags&os.O_RDWR != 0 {
		fileLogger.Warn("write access attempted on read-only file", "path", f.path.String())
		return nil, ToFuseError(NewFSError(OpOpen, f.path.String(), ErrReadOnly))
	}

	file, err := os.OpenFile(realPath, flags, 0)
	if err != nil {
		fileLogger.Error("failed to open file", "path", f.path.String(), "err", err)
		return nil, ToFuseError(NewFSError(OpOpen, f.path.String(), err))
	}

	// Bypass the kernel page cache so every read hits the real file.
	resp.Flags |= fuse.OpenDirectIO

	return &FileHandle{
		file: file,
		path: f.path.String(),
	}, nil
}

// FileHandle is an open descriptor on a real file. The core keeps no table
// of handles; each handle lives only between its open and release, driven
// by the caller.
type FileHandle struct {
	file *os.File
	path string // For logging purposes
	mu   sync.RWMutex
}

// Read implements the HandleReader interface, reading up to the requested
// length at the requested offset. Fewer bytes than requested come back at
// end-of-file.
func (fh *FileHandle) Read(_ context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	fh.mu.RLock()
	defer fh.mu.RUnlock()

	fileLogger.Trace("reading file", "path", fh.path, "size", req.Size, "offset", req.Offset)

	resp.Data = make([]byte, req.Size)
	n, err := fh.file.ReadAt(resp.Data, req.Offset)
	if err != nil && err != io.EOF {
		fileLogger.Error("read failed", "path", fh.path, "err", err)
		return ToFuseError(NewFSError(OpRead, fh.path, err))
	}

	resp.Data = resp.Data[:n]
	return nil
}

// Release implements the HandleReleaser interface, closing the underlying
// descriptor. Double-close behavior is the descriptor's own.
func (fh *FileHandle) Release(_ context.Context, _ *fuse.ReleaseRequest) error {
	fh.mu.Lock()
	defer fh.mu.Unlock()

	fileLogger.Debug("closing file", "path", fh.path)
	if err := fh.file.Close(); err != nil {
		return ToFuseError(NewFSError(OpRelease, fh.path, err))
	}
	return nil
}
