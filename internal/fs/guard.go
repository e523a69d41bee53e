package fs

import (
	"strings"

	"exposefs/internal/logging"

	"golang.org/x/sys/unix"
)

var (
	guardLogger = logging.GetLogger().WithPrefix("guard")
)

// Single-character type tags classifying an entry's kind.
const (
	TagDir      = 'd'
	TagFile     = 'f'
	TagSymlink  = 'l'
	TagBlockDev = 'b'
	TagCharDev  = 'c'
	TagFIFO     = 'p'
	TagSocket   = 's'
	TagDoor     = 'D'
	TagPort     = 'P'
	TagWhiteout = 'W'
	TagUnknown  = '?'
)

// DefaultBannedTags is the banned type set used when none is configured:
// device nodes, FIFOs, sockets, the rare platform-specific types, and
// anything unrecognized.
const DefaultBannedTags = "bcpsDPW?"

// File type bits with no constant in the unix package on this platform.
// Whiteouts share the event-port value on BSD and therefore surface as
// TagPort here; elsewhere they derive TagUnknown, which the default set
// bans anyway.
const (
	ifDoor = 0xd000 // Solaris door
	ifPort = 0xe000 // Solaris event port / BSD whiteout
)

// TypeTag maps raw stat mode bits to a type tag. Unmapped types derive
// TagUnknown.
func TypeTag(mode uint32) byte {
	switch mode & unix.S_IFMT {
	case unix.S_IFDIR:
		return TagDir
	case unix.S_IFREG:
		return TagFile
	case unix.S_IFLNK:
		return TagSymlink
	case unix.S_IFBLK:
		return TagBlockDev
	case unix.S_IFCHR:
		return TagCharDev
	case unix.S_IFIFO:
		return TagFIFO
	case unix.S_IFSOCK:
		return TagSocket
	case ifDoor:
		return TagDoor
	case ifPort:
		return TagPort
	default:
		return TagUnknown
	}
}

// Guard decides whether an entry must be hidden from the exposed view. It
// applies two independent policies: single-device containment and a banned
// type set. Immutable after construction, safe for concurrent use.
type Guard struct {
	containDev *uint64
	banned     map[byte]struct{}
}

// NewGuard creates a guard. containDev is the device id entries must live
// on, or nil to disable containment. bannedTags overrides
// DefaultBannedTags when non-empty. Banning the directory tag is rejected:
// a tree whose directories are invisible cannot be traversed at all.
func NewGuard(containDev *uint64, bannedTags string) (*Guard, error) {
	if bannedTags == "" {
		bannedTags = DefaultBannedTags
	}
	if strings.ContainsRune(bannedTags, TagDir) {
		return nil, ErrDirBanned
	}

	banned := make(map[byte]struct{}, len(bannedTags))
	for i := 0; i < len(bannedTags); i++ {
		banned[bannedTags[i]] = struct{}{}
	}

	guardLogger.Debug("guard configured",
		"banned", bannedTags, "containment", containDev != nil)

	return &Guard{
		containDev: containDev,
		banned:     banned,
	}, nil
}

// Outside reports whether the entry lives on a different device than the
// configured containment device. Always false when containment is off.
func (g *Guard) Outside(st *unix.Stat_t) bool {
	return g.containDev != nil && st.Dev != *g.containDev
}

// Banned reports whether the entry's type tag is in the banned set.
func (g *Guard) Banned(st *unix.Stat_t) bool {
	_, ok := g.banned[TypeTag(st.Mode)]
	return ok
}

// Check evaluates both policies and returns a HideError when either one
// decides the entry must be treated as nonexistent.
func (g *Guard) Check(st *unix.Stat_t) *HideError {
	if g.Outside(st) {
		return &HideError{Reason: HideOutsideContainment, Dev: st.Dev}
	}
	if g.Banned(st) {
		return &HideError{Reason: HideBannedType, Tag: TypeTag(st.Mode)}
	}
	return nil
}
