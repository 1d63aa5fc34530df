package memory

import (
	"github.com/forge-lang/forgec/internal/source"
	"github.com/forge-lang/forgec/internal/typesys"
)

// Analyzer is the memory analyzer proper: an Arena plus the escape-block
// flag the transformation matrix consults. The semantic analyzer owns one
// instance and drives EnterScope/ExitScope in lockstep with its own symbol
// scope stack.
type Analyzer struct {
	arena    *Arena
	InEscape bool
}

// NewAnalyzer creates an Analyzer with only the global scope.
func NewAnalyzer() *Analyzer {
	return &Analyzer{arena: NewArena()}
}

func (a *Analyzer) EnterScope()                       { a.arena.EnterScope() }
func (a *Analyzer) ExitScope() []*InvalidatedSource    { return a.arena.ExitScope() }
func (a *Analyzer) Depth() int                         { return a.arena.Depth() }
func (a *Analyzer) Declare(name string, obj *MemoryObject) { a.arena.Declare(name, obj) }

func (a *Analyzer) Lookup(name string) (*MemoryObject, bool) {
	obj, _, ok := a.arena.Lookup(name)
	return obj, ok
}

func (a *Analyzer) RegisterToken(name string, kind AccessKind) {
	a.arena.RegisterToken(&ScopedToken{Name: name, Kind: kind})
}

func (a *Analyzer) LookupToken(name string) (*ScopedToken, bool) {
	return a.arena.LookupToken(name)
}

// InvalidateForScope invalidates the object named name with the given
// reason and registers it for restoration when the current scope exits
// (used by a scoped-access statement to suspend its source for the
// duration of the block). Returns nil if name is not tracked.
func (a *Analyzer) InvalidateForScope(name, reason string, pos source.Position) *MemoryObject {
	obj, ok := a.Lookup(name)
	if !ok {
		return nil
	}
	a.arena.InvalidateAndSuspend(name, obj, reason, pos)
	return obj
}

func unknownObjectError(name string, pos source.Position) *Error {
	return &Error{Kind: InvalidTransformation, Object: name, Pos: pos, Message: "no tracked object with this name"}
}

// Hijack transforms name to Hijacked, invalidating the source with reason
// "hijack".
func (a *Analyzer) Hijack(name string, pos source.Position) (*MemoryObject, *Error) {
	obj, ok := a.Lookup(name)
	if !ok {
		return nil, unknownObjectError(name, pos)
	}
	ok2, kind := CanTransform(obj.Kind, typesys.WrapperHijacked, obj.State, a.InEscape)
	if !ok2 {
		return nil, newError(kind, obj, pos, "cannot hijack %q (currently %s, %s)", name, obj.Kind, obj.State)
	}
	a.arena.Invalidate(name, obj, "hijack", pos)
	return &MemoryObject{Name: name, BaseType: obj.BaseType, Kind: typesys.WrapperHijacked, State: StateValid, RefCount: 1, SourceLoc: pos}, nil
}

// Retain promotes name to Retained, or (if already Retained) increments its
// count and leaves the source valid.
func (a *Analyzer) Retain(name string, pos source.Position) (*MemoryObject, *Error) {
	obj, ok := a.Lookup(name)
	if !ok {
		return nil, unknownObjectError(name, pos)
	}
	if obj.Kind == typesys.WrapperRetained {
		ok2, kind := CanTransform(obj.Kind, typesys.WrapperRetained, obj.State, a.InEscape)
		if !ok2 {
			return nil, newError(kind, obj, pos, "cannot retain %q again (%s)", name, obj.State)
		}
		obj.RefCount++
		return &MemoryObject{Name: name, BaseType: obj.BaseType, Kind: typesys.WrapperRetained, State: StateValid, RefCount: obj.RefCount, SourceLoc: pos}, nil
	}
	ok2, kind := CanTransform(obj.Kind, typesys.WrapperRetained, obj.State, a.InEscape)
	if !ok2 {
		return nil, newError(kind, obj, pos, "cannot retain %q (currently %s, %s)", name, obj.Kind, obj.State)
	}
	a.arena.Invalidate(name, obj, "retain", pos)
	return &MemoryObject{Name: name, BaseType: obj.BaseType, Kind: typesys.WrapperRetained, State: StateValid, RefCount: 1, SourceLoc: pos}, nil
}

// Share promotes name to Shared with the given policy, or (if already
// Shared) verifies the policy matches and increments the atomic count.
func (a *Analyzer) Share(name string, policy LockingPolicy, pos source.Position) (*MemoryObject, *Error) {
	obj, ok := a.Lookup(name)
	if !ok {
		return nil, unknownObjectError(name, pos)
	}
	if obj.Kind == typesys.WrapperShared {
		if obj.Policy != policy {
			return nil, newError(InvalidTransformation, obj, pos, "%q is shared under %s, not %s", name, obj.Policy, policy)
		}
		ok2, kind := CanTransform(obj.Kind, typesys.WrapperShared, obj.State, a.InEscape)
		if !ok2 {
			return nil, newError(kind, obj, pos, "cannot share %q again (%s)", name, obj.State)
		}
		obj.RefCount++
		return &MemoryObject{Name: name, BaseType: obj.BaseType, Kind: typesys.WrapperShared, State: StateValid, RefCount: obj.RefCount, Policy: policy, SourceLoc: pos}, nil
	}
	ok2, kind := CanTransform(obj.Kind, typesys.WrapperShared, obj.State, a.InEscape)
	if !ok2 {
		return nil, newError(kind, obj, pos, "cannot share %q (currently %s, %s)", name, obj.Kind, obj.State)
	}
	a.arena.Invalidate(name, obj, "share", pos)
	return &MemoryObject{Name: name, BaseType: obj.BaseType, Kind: typesys.WrapperShared, State: StateValid, RefCount: 1, Policy: policy, SourceLoc: pos}, nil
}

// Track produces a weak view of a Retained or Shared object; the source is
// never invalidated. The resulting Tracked object carries the source's
// locking policy forward so that a later recover produces the right kind.
func (a *Analyzer) Track(name string, pos source.Position) (*MemoryObject, *Error) {
	obj, ok := a.Lookup(name)
	if !ok {
		return nil, unknownObjectError(name, pos)
	}
	if obj.Kind != typesys.WrapperRetained && obj.Kind != typesys.WrapperShared && !a.InEscape {
		return nil, newError(InvalidTransformation, obj, pos, "cannot track %q: not Retained or Shared", name)
	}
	ok2, kind := CanTransform(obj.Kind, typesys.WrapperTracked, obj.State, a.InEscape)
	if !ok2 {
		return nil, newError(kind, obj, pos, "cannot track %q (currently %s, %s)", name, obj.Kind, obj.State)
	}
	return &MemoryObject{Name: name, BaseType: obj.BaseType, Kind: typesys.WrapperTracked, State: StateValid, RefCount: 0, Policy: obj.Policy, SourceLoc: pos}, nil
}

// Steal transforms name back to Owned, invalidating the source. Hijacked
// sources always qualify; Retained/Shared sources qualify only when their
// count is exactly 1.
func (a *Analyzer) Steal(name string, pos source.Position) (*MemoryObject, *Error) {
	obj, ok := a.Lookup(name)
	if !ok {
		return nil, unknownObjectError(name, pos)
	}
	if (obj.Kind == typesys.WrapperRetained || obj.Kind == typesys.WrapperShared) && obj.RefCount != 1 {
		return nil, newError(ReferenceCountError, obj, pos, "cannot steal %q: reference count is %d, not 1", name, obj.RefCount)
	}
	ok2, kind := CanTransform(obj.Kind, typesys.WrapperOwned, obj.State, a.InEscape)
	if !ok2 {
		return nil, newError(kind, obj, pos, "cannot steal %q (currently %s, %s)", name, obj.Kind, obj.State)
	}
	a.arena.Invalidate(name, obj, "steal", pos)
	return &MemoryObject{Name: name, BaseType: obj.BaseType, Kind: typesys.WrapperOwned, State: StateValid, RefCount: 1, SourceLoc: pos}, nil
}

// Release decrements the count on a Retained or Shared object and
// invalidates this reference. Releasing the last reference (count 1) is a
// ReferenceCountError rather than a silent drop to zero.
func (a *Analyzer) Release(name string, pos source.Position) *Error {
	obj, ok := a.Lookup(name)
	if !ok {
		return unknownObjectError(name, pos)
	}
	if obj.Kind != typesys.WrapperRetained && obj.Kind != typesys.WrapperShared && !a.InEscape {
		return newError(InvalidTransformation, obj, pos, "cannot release %q: not Retained or Shared", name)
	}
	if obj.RefCount <= 1 {
		return newError(ReferenceCountError, obj, pos, "releasing %q would drop its reference count to zero", name)
	}
	obj.RefCount--
	a.arena.Invalidate(name, obj, "release", pos)
	return nil
}

// Recover upgrades a Tracked object back to Retained or Shared, according
// to the policy the Tracked object carries (none => Retained, set =>
// Shared). TryRecover is the same operation; the distinction between
// "recover" and "try_recover" is purely a surface-syntax/variant-generator
// concern, not a memory-analyzer one.
func (a *Analyzer) Recover(name string, pos source.Position) (*MemoryObject, *Error) {
	obj, ok := a.Lookup(name)
	if !ok {
		return nil, unknownObjectError(name, pos)
	}
	if obj.Kind != typesys.WrapperTracked && !a.InEscape {
		return nil, newError(InvalidTransformation, obj, pos, "cannot recover %q: not Tracked", name)
	}
	target := typesys.WrapperRetained
	if obj.Policy != PolicyNone {
		target = typesys.WrapperShared
	}
	ok2, kind := CanTransform(obj.Kind, target, obj.State, a.InEscape)
	if !ok2 {
		return nil, newError(kind, obj, pos, "cannot recover %q (currently %s, %s)", name, obj.Kind, obj.State)
	}
	return &MemoryObject{Name: name, BaseType: obj.BaseType, Kind: target, State: StateValid, RefCount: 1, Policy: obj.Policy, SourceLoc: pos}, nil
}

// TryRecover is an alias of Recover; see its doc comment.
func (a *Analyzer) TryRecover(name string, pos source.Position) (*MemoryObject, *Error) {
	return a.Recover(name, pos)
}

// Snatch forces name to Snatched, escape-block only, invalidating the
// source.
func (a *Analyzer) Snatch(name string, pos source.Position) (*MemoryObject, *Error) {
	obj, ok := a.Lookup(name)
	if !ok {
		return nil, unknownObjectError(name, pos)
	}
	if !a.InEscape {
		return nil, newError(DangerBlockViolation, obj, pos, "snatch requires an escape block")
	}
	a.arena.Invalidate(name, obj, "snatch", pos)
	return &MemoryObject{Name: name, BaseType: obj.BaseType, Kind: typesys.WrapperSnatched, State: StateValid, RefCount: 1, SourceLoc: pos}, nil
}

// Reveal accesses a Snatched object as Owned for further use, without
// invalidating the Snatched source (an escape-block-only, temporary view).
func (a *Analyzer) Reveal(name string, pos source.Position) (*MemoryObject, *Error) {
	obj, ok := a.Lookup(name)
	if !ok {
		return nil, unknownObjectError(name, pos)
	}
	if !a.InEscape {
		return nil, newError(DangerBlockViolation, obj, pos, "reveal requires an escape block")
	}
	if obj.Kind != typesys.WrapperSnatched {
		return nil, newError(InvalidTransformation, obj, pos, "cannot reveal %q: not Snatched", name)
	}
	return &MemoryObject{Name: name, BaseType: obj.BaseType, Kind: typesys.WrapperOwned, State: StateValid, RefCount: 1, SourceLoc: pos}, nil
}

// Own legitimizes a Snatched object to Owned, invalidating the Snatched
// source, escape-block only.
func (a *Analyzer) Own(name string, pos source.Position) (*MemoryObject, *Error) {
	obj, ok := a.Lookup(name)
	if !ok {
		return nil, unknownObjectError(name, pos)
	}
	if !a.InEscape {
		return nil, newError(DangerBlockViolation, obj, pos, "own requires an escape block")
	}
	if obj.Kind != typesys.WrapperSnatched {
		return nil, newError(InvalidTransformation, obj, pos, "cannot own %q: not Snatched", name)
	}
	a.arena.Invalidate(name, obj, "own", pos)
	return &MemoryObject{Name: name, BaseType: obj.BaseType, Kind: typesys.WrapperOwned, State: StateValid, RefCount: 1, SourceLoc: pos}, nil
}
