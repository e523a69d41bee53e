// Package fs provides the read-only, permission-agnostic passthrough
// filesystem.
//
// This file contains error types and error handling utilities.
package fs

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"exposefs/internal/logging"
)

var (
	errLogger = logging.GetLogger().WithPrefix("error")

	// ErrPathNotFound indicates a path doesn't exist in the exposed view.
	// Entries hidden by a filtering policy surface as this same error, so
	// callers cannot tell "filtered" from "absent".
	ErrPathNotFound = errors.New("path not found")

	// ErrNotADirectory indicates enumeration was requested on a
	// non-directory path.
	ErrNotADirectory = errors.New("not a directory")

	// ErrReadOnly indicates attempt to modify the read-only filesystem.
	ErrReadOnly = errors.New("filesystem is read-only")

	// ErrDirBanned indicates a configuration banning the directory type
	// tag, which would make the whole tree invisible.
	ErrDirBanned = errors.New("directory type tag cannot be banned")
)

// HideReason identifies which filtering policy decided to hide an entry.
type HideReason uint8

const (
	// HideOutsideContainment marks entries on a different device than the
	// root.
	HideOutsideContainment HideReason = iota + 1

	// HideBannedType marks entries whose type tag is in the banned set.
	HideBannedType
)

// String returns the reason name for diagnostics.
func (r HideReason) String() string {
	switch r {
	case HideOutsideContainment:
		return "outside-containment"
	case HideBannedType:
		return "banned-type"
	default:
		return "unknown"
	}
}

// HideError is the decision that an entry must be treated as nonexistent.
// It unwraps to ErrPathNotFound, collapsing both hide reasons into the one
// externally visible "not found" outcome while keeping the reason available
// internally via errors.As.
type HideError struct {
	Reason HideReason
	Tag    byte   // type tag, set for HideBannedType
	Dev    uint64 // entry device id, set for HideOutsideContainment
}

// Error implements the error interface.
func (e *HideError) Error() string {
	switch e.Reason {
	case HideOutsideContainment:
		return fmt.Sprintf("entry hidden (%s, dev=%d)", e.Reason, e.Dev)
	case HideBannedType:
		return fmt.Sprintf("entry hidden (%s, tag=%c)", e.Reason, e.Tag)
	default:
		return "entry hidden"
	}
}

// Unwrap collapses any hide decision into ErrPathNotFound.
func (e *HideError) Unwrap() error {
	return ErrPathNotFound
}

// Error wraps filesystem errors with context about the operation and
// affected path.
type Error struct {
	Op   string // Operation that failed (e.g., "lookup", "readdir")
	Path string // Affected virtual path
	Err  error  // Underlying error
}

// Error implements the error interface, providing a formatted error message.
func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("operation %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("operation %s on %s failed: %v", e.Op, e.Path, e.Err)
}

// Unwrap implements error unwrapping for the errors.Is/As functions.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewFSError creates a new Error with the given operation, path, and
// underlying error.
func NewFSError(op string, path string, err error) *Error {
	return &Error{
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// ToFuseError converts an internal error to the appropriate FUSE error
// code. Hidden entries and genuinely absent entries both map to ENOENT.
func ToFuseError(err error) error {
	if err == nil {
		return nil
	}

	errLogger.Trace("converting error", "err", err)

	switch {
	case errors.Is(err, ErrPathNotFound):
		return syscall.ENOENT
	case errors.Is(err, ErrNotADirectory):
		return syscall.ENOTDIR
	case errors.Is(err, ErrReadOnly):
		return syscall.EROFS
	case errors.Is(err, os.ErrNotExist):
		return syscall.ENOENT
	case errors.Is(err, os.ErrPermission):
		return syscall.EACCES
	default:
		errLogger.Debug("unmapped error type, returning EIO", "err", err)
		return syscall.EIO
	}
}

// Common operation names for consistent logging and error reporting.
const (
	OpGetattr  = "getattr"  // Getting entry attributes
	OpLookup   = "lookup"   // Looking up a path
	OpReadDir  = "readdir"  // Reading directory contents
	OpReadlink = "readlink" // Reading a symlink target
	OpOpen     = "open"     // Opening a file
	OpRead     = "read"     // Reading from a file
	OpRelease  = "release"  // Closing an open file
	OpStatfs   = "statfs"   // Querying volume statistics
)
