// internal/fs/interfaces.go

package fs

import (
	"bazil.org/fuse/fs"
)

// Directory is the read-only contract a directory node satisfies.
type Directory interface {
	fs.Node
	fs.NodeStringLookuper
	fs.HandleReadDirAller
}

// FileNode is the contract a file node satisfies.
type FileNode interface {
	fs.Node
	fs.NodeOpener
}

// LinkNode is the contract a symlink node satisfies.
type LinkNode interface {
	fs.Node
	fs.NodeReadlinker
}

// ReadHandle is the contract an open file handle satisfies.
type ReadHandle interface {
	fs.Handle
	fs.HandleReader
	fs.HandleReleaser
}

var (
	_ fs.FS         = (*ExposeFS)(nil)
	_ fs.FSStatfser = (*ExposeFS)(nil)
	_ Directory     = (*Dir)(nil)
	_ FileNode      = (*File)(nil)
	_ LinkNode      = (*Symlink)(nil)
	_ ReadHandle    = (*FileHandle)(nil)
)
