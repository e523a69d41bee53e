package fs

import (
	"path/filepath"
	"strings"

	"exposefs/internal/logging"
)

var (
	pathLogger = logging.GetLogger().WithPrefix("path")
)

// VirtualPath represents a path as seen by callers of the mounted
// filesystem. All virtual paths are absolute.
type VirtualPath struct {
	// always starts with /
	path string
}

// NewVirtualPath creates a new VirtualPath instance.
// It cleans the path and ensures it's absolute.
func NewVirtualPath(path string) *VirtualPath {
	cleaned := filepath.Clean(path)
	if !strings.HasPrefix(cleaned, "/") {
		cleaned = "/" + cleaned
	}
	pathLogger.Trace("creating virtual path", "in", path, "out", cleaned)
	return &VirtualPath{path: cleaned}
}

// String returns the string representation of the path.
func (vp *VirtualPath) String() string {
	return vp.path
}

// Parent returns a VirtualPath representing the parent directory.
func (vp *VirtualPath) Parent() *VirtualPath {
	return NewVirtualPath(filepath.Dir(vp.path))
}

// Base returns the last element of the path.
func (vp *VirtualPath) Base() string {
	return filepath.Base(vp.path)
}

// Child returns the virtual path of a named entry inside this one.
func (vp *VirtualPath) Child(name string) *VirtualPath {
	return NewVirtualPath(vp.path + "/" + name)
}

// IsRoot returns true if this is the root virtual path "/".
func (vp *VirtualPath) IsRoot() bool {
	return vp.path == "/"
}

// Resolver maps virtual paths to real paths beneath a fixed root. It is
// pure string composition; whether the result exists is the probe's
// business.
type Resolver struct {
	root string
}

// NewResolver creates a resolver for the given real root directory.
func NewResolver(root string) *Resolver {
	return &Resolver{root: filepath.Clean(root)}
}

// Root returns the real root directory.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve strips the leading separator from the virtual path and joins it
// under the root. It always succeeds.
func (r *Resolver) Resolve(vp *VirtualPath) string {
	realPath := filepath.Join(r.root, strings.TrimPrefix(vp.String(), "/"))
	pathLogger.Trace("resolved path", "virtual", vp.String(), "real", realPath)
	return realPath
}
