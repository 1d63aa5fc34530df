package symtab

import "fmt"

// ScopeKind identifies the purpose of a scope, mirrored in diagnostics.
type ScopeKind int

const (
	ScopeGlobal ScopeKind = iota
	ScopeFunction
	ScopeBlock
	ScopeWhenArm
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	case ScopeWhenArm:
		return "when-arm"
	default:
		return "unknown"
	}
}

// scope is one frame of the lexical stack.
type scope struct {
	symbols map[string]*Symbol
	kind    ScopeKind
}

func newScope(kind ScopeKind) *scope {
	return &scope{symbols: make(map[string]*Symbol), kind: kind}
}

// Table is the lexical scope stack. Depth 1 (the global scope) is created
// by New and is never popped; EnterScope/ExitScope manage every scope
// above it. The depth of a scope (1-based, global = 1) is exposed so that
// the memory analyzer can key its per-scope object arena without a flat
// global map (spec.md §9 open question 3).
type Table struct {
	stack []*scope
}

// New creates a table with only the global scope pushed.
func New() *Table {
	return &Table{stack: []*scope{newScope(ScopeGlobal)}}
}

// EnterScope pushes a new lexical scope of the given kind.
func (t *Table) EnterScope(kind ScopeKind) {
	t.stack = append(t.stack, newScope(kind))
}

// ExitScope pops the innermost scope. It is a no-op at depth 1 (the global
// scope is never popped).
func (t *Table) ExitScope() {
	if len(t.stack) <= 1 {
		return
	}
	t.stack = t.stack[:len(t.stack)-1]
}

// Depth returns the current scope depth (global scope is depth 1).
func (t *Table) Depth() int {
	return len(t.stack)
}

// CurrentKind returns the kind of the innermost scope.
func (t *Table) CurrentKind() ScopeKind {
	return t.stack[len(t.stack)-1].kind
}

// DuplicateError is returned by TryDeclare when name is already bound in
// the current scope by something that cannot collapse into an overload
// set.
type DuplicateError struct {
	Name     string
	Existing Kind
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%q is already declared as a %s in this scope", e.Name, e.Existing)
}

// TryDeclare binds sym in the innermost scope. If name is unbound there,
// it is inserted directly. If name is already bound to a function (or
// overload set) and sym is also a function, the entry collapses into (or
// grows) an overload set. Any other collision returns a *DuplicateError.
func (t *Table) TryDeclare(sym *Symbol) error {
	cur := t.stack[len(t.stack)-1]
	existing, found := cur.symbols[sym.Name]
	if !found {
		cur.symbols[sym.Name] = sym
		return nil
	}

	if sym.Kind == KindFunction && (existing.Kind == KindFunction || existing.Kind == KindOverloadSet) {
		collapseIntoOverloadSet(existing, sym)
		return nil
	}

	return &DuplicateError{Name: sym.Name, Existing: existing.Kind}
}

// collapseIntoOverloadSet merges next (a single-function Symbol) into
// existing, converting existing into an overload set on first collision.
func collapseIntoOverloadSet(existing, next *Symbol) {
	if existing.Kind == KindFunction {
		existing.Overloads = []*FunctionSignature{existing.Sig}
		existing.Sig = nil
		existing.Kind = KindOverloadSet
	}
	existing.Overloads = append(existing.Overloads, next.Sig)
}

// Lookup searches the scope stack innermost-first and returns the first
// match.
func (t *Table) Lookup(name string) (*Symbol, bool) {
	for i := len(t.stack) - 1; i >= 0; i-- {
		if sym, ok := t.stack[i].symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// LookupLocal searches only the innermost scope.
func (t *Table) LookupLocal(name string) (*Symbol, bool) {
	cur := t.stack[len(t.stack)-1]
	sym, ok := cur.symbols[name]
	return sym, ok
}
