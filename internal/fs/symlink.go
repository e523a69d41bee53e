package fs

import (
	"context"
	"os"
	"path/filepath"

	"exposefs/internal/logging"

	"bazil.org/fuse"
)

var (
	linkLogger = logging.GetLogger().WithPrefix("symlink")
)

// Symlink represents a symbolic link of the exposed view.
type Symlink struct {
	fs   *ExposeFS
	path *VirtualPath
}

// Attr implements the Node interface, returning the link's own attributes.
func (s *Symlink) Attr(_ context.Context, a *fuse.Attr) error {
	linkLogger.Trace("getting symlink attributes", "path", s.path.String())

	_, st, err := s.fs.probe(OpGetattr, s.path)
	if err != nil {
		return ToFuseError(err)
	}

	fillAttr(st, a)
	return nil
}

// Readlink implements the NodeReadlinker interface. Absolute targets are
// rewritten relative to the root so the exposed view never leaks real
// paths outside the mounted tree; a target outside the root becomes a
// relative path with parent segments, not an error. Relative targets pass
// through unchanged.
func (s *Symlink) Readlink(_ context.Context, _ *fuse.ReadlinkRequest) (string, error) {
	realPath, _, err := s.fs.probe(OpReadlink, s.path)
	if err != nil {
		return "", ToFuseError(err)
	}

	target, err := os.Readlink(realPath)
	if err != nil {
		linkLogger.Error("readlink failed", "path", s.path.String(), "err", err)
		return "", ToFuseError(NewFSError(OpReadlink, s.path.String(), ErrPathNotFound))
	}

	if !filepath.IsAbs(target) {
		linkLogger.Trace("relative target passed through", "path", s.path.String(), "target", target)
		return target, nil
	}

	rel, err := filepath.Rel(s.fs.root, target)
	if err != nil {
		linkLogger.Error("cannot relativize target", "path", s.path.String(), "target", target, "err", err)
		return "", ToFuseError(NewFSError(OpReadlink, s.path.String(), err))
	}

	linkLogger.Trace("absolute target rewritten", "path", s.path.String(), "target", target, "rewritten", rel)
	return rel, nil
}
