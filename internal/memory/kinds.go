// Package memory implements the wrapper-kind ownership automaton: groups,
// locking policies, object states, the transformation matrix, and the
// public memory operations (hijack, retain, share, track, steal, release,
// recover, snatch, reveal, own). It imports typesys.WrapperKind for the
// name vocabulary but owns all of the semantics.
package memory

import "github.com/forge-lang/forgec/internal/typesys"

// Group partitions wrapper kinds into equivalence classes; a transform
// between kinds in different groups is forbidden outside an escape block.
type Group int

const (
	GroupExclusive Group = iota
	GroupSingleThreadedRC
	GroupMultiThreadedRC
	GroupWeak
	GroupUnsafe
)

func (g Group) String() string {
	switch g {
	case GroupExclusive:
		return "exclusive"
	case GroupSingleThreadedRC:
		return "single-threaded-rc"
	case GroupMultiThreadedRC:
		return "multi-threaded-rc"
	case GroupWeak:
		return "weak"
	case GroupUnsafe:
		return "unsafe"
	default:
		return "unknown"
	}
}

// GroupOf maps a wrapper kind to its group. Viewed/Inspected/Seized (the
// scoped-access-only kinds) have no ownership group of their own: a scoped
// token is never transformed, only invalidated and restored, so GroupOf
// reports GroupExclusive for them (they behave like an exclusive borrow for
// every rule that cares about groups).
func GroupOf(kind typesys.WrapperKind) Group {
	switch kind {
	case typesys.WrapperOwned, typesys.WrapperHijacked,
		typesys.WrapperViewed, typesys.WrapperInspected, typesys.WrapperSeized:
		return GroupExclusive
	case typesys.WrapperRetained:
		return GroupSingleThreadedRC
	case typesys.WrapperShared:
		return GroupMultiThreadedRC
	case typesys.WrapperTracked:
		return GroupWeak
	case typesys.WrapperSnatched:
		return GroupUnsafe
	default:
		return GroupExclusive
	}
}

// LockingPolicy applies only to Shared objects (and to a Tracked object
// produced from one, which carries the policy forward for recovery).
type LockingPolicy int

const (
	PolicyNone LockingPolicy = iota
	PolicyMutex
	PolicyMultiReadLock
	PolicyRejectEdit
)

func (p LockingPolicy) String() string {
	switch p {
	case PolicyMutex:
		return "Mutex"
	case PolicyMultiReadLock:
		return "MultiReadLock"
	case PolicyRejectEdit:
		return "RejectEdit"
	default:
		return "none"
	}
}

// ObjectState tracks whether a MemoryObject may still be used.
type ObjectState int

const (
	StateValid ObjectState = iota
	StateInvalidated
	StateMoved
	StateDangerous
)

func (s ObjectState) String() string {
	switch s {
	case StateValid:
		return "valid"
	case StateInvalidated:
		return "invalidated"
	case StateMoved:
		return "moved"
	case StateDangerous:
		return "dangerous"
	default:
		return "unknown"
	}
}

// AliasThreadShare and AliasThreadWatch document the parser-level
// desugaring an external AST builder is expected to perform for the
// `thread_share`/`thread_watch` surface syntax before a node reaches this
// core: `thread_share` becomes a `share(Mutex)` operation, `thread_watch`
// becomes a `track` operation. This core never sees the original spelling.
const (
	AliasThreadShare = "share"
	AliasThreadWatch = "track"
)
