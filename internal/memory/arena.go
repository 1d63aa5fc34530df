package memory

import "github.com/forge-lang/forgec/internal/source"

// AccessKind mirrors the four scoped-access statement forms (view, hijack,
// inspect, seize). It is redeclared here, rather than imported from ast, to
// keep memory independent of the AST package — memory is lower in the
// dependency order than semantic, which is the only package that needs to
// translate between ast.ScopedAccessKind and memory.AccessKind.
type AccessKind int

const (
	AccessView AccessKind = iota
	AccessHijack
	AccessInspect
	AccessSeize
)

// ScopedToken is a handle created by a scoped-access statement (spec.md
// §4.4): bound to a wrapper type name encoding the access kind, valid only
// for the lexical depth at which it was declared.
type ScopedToken struct {
	Name  string
	Kind  AccessKind
	Depth int
}

// InvalidatedSource records that Name was invalidated for the duration of
// a scoped-access statement at Depth, so it can be restored to Object's
// prior state when that scope exits.
type InvalidatedSource struct {
	Name   string
	Reason string
	Object *MemoryObject
	Depth  int
}

// Arena stores MemoryObjects, ScopedTokens, and InvalidatedSources in
// scope-depth-keyed maps rather than one flat global map (spec.md §9 open
// question 3): every lookup walks the scope stack innermost-first, exactly
// like internal/symtab.Table, and scope exit cleans up exactly the depth
// being popped.
type Arena struct {
	objects     []map[string]*MemoryObject
	tokens      []map[string]*ScopedToken
	invalidated []map[string]*InvalidatedSource
}

// NewArena creates an arena with only the global (depth 1) scope.
func NewArena() *Arena {
	return &Arena{
		objects:     []map[string]*MemoryObject{{}},
		tokens:      []map[string]*ScopedToken{{}},
		invalidated: []map[string]*InvalidatedSource{{}},
	}
}

// EnterScope pushes a new arena frame.
func (a *Arena) EnterScope() {
	a.objects = append(a.objects, map[string]*MemoryObject{})
	a.tokens = append(a.tokens, map[string]*ScopedToken{})
	a.invalidated = append(a.invalidated, map[string]*InvalidatedSource{})
}

// ExitScope pops the innermost arena frame, invalidating (with reason
// "scope exit") every object declared at that depth, and returns the
// InvalidatedSource entries registered at that depth so the caller can
// restore their prior state.
func (a *Arena) ExitScope() []*InvalidatedSource {
	if len(a.objects) <= 1 {
		return nil
	}
	depth := len(a.objects)
	for _, obj := range a.objects[depth-1] {
		if obj.State == StateValid {
			obj.State = StateInvalidated
			obj.InvalidatedBy = "scope exit"
		}
	}
	restore := make([]*InvalidatedSource, 0, len(a.invalidated[depth-1]))
	for _, inv := range a.invalidated[depth-1] {
		restore = append(restore, inv)
	}
	a.objects = a.objects[:depth-1]
	a.tokens = a.tokens[:depth-1]
	a.invalidated = a.invalidated[:depth-1]
	return restore
}

// Depth returns the current arena depth (global scope is depth 1).
func (a *Arena) Depth() int {
	return len(a.objects)
}

// Declare registers a new object at the current depth.
func (a *Arena) Declare(name string, obj *MemoryObject) {
	a.objects[len(a.objects)-1][name] = obj
}

// Lookup searches innermost-first and returns the object and the depth it
// was declared at.
func (a *Arena) Lookup(name string) (*MemoryObject, int, bool) {
	for depth := len(a.objects); depth >= 1; depth-- {
		if obj, ok := a.objects[depth-1][name]; ok {
			return obj, depth, true
		}
	}
	return nil, 0, false
}

// RegisterToken records tok at the current depth.
func (a *Arena) RegisterToken(tok *ScopedToken) {
	tok.Depth = len(a.tokens)
	a.tokens[len(a.tokens)-1][tok.Name] = tok
}

// LookupToken searches innermost-first for a scoped token.
func (a *Arena) LookupToken(name string) (*ScopedToken, bool) {
	for depth := len(a.tokens); depth >= 1; depth-- {
		if tok, ok := a.tokens[depth-1][name]; ok {
			return tok, true
		}
	}
	return nil, false
}

// Invalidate marks obj invalid with reason permanently: the ownership
// transforms (hijack, retain, share, steal, release, snatch, own) use this
// to invalidate their source, and that invalidation must survive the
// enclosing scope closing, since ownership has actually moved.
func (a *Arena) Invalidate(name string, obj *MemoryObject, reason string, at source.Position) {
	obj.State = StateInvalidated
	obj.InvalidatedBy = reason
}

// InvalidateAndSuspend marks obj invalid with reason and registers it for
// restoration when the current scope exits (a scoped-access statement
// suspending its source for the duration of its block, not a permanent
// transform).
func (a *Arena) InvalidateAndSuspend(name string, obj *MemoryObject, reason string, at source.Position) {
	a.Invalidate(name, obj, reason, at)
	a.invalidated[len(a.invalidated)-1][name] = &InvalidatedSource{
		Name:   name,
		Reason: reason,
		Object: obj,
		Depth:  len(a.invalidated),
	}
}
