// Package semantic implements the semantic-analyzer traversal: a
// depth-first, pre-order walk over internal/ast that drives
// internal/symtab and internal/memory together, accumulating
// internal/semantic.Error values rather than ever panicking.
//
// Dispatch is a Go type switch over ast.Statement/ast.Expression, not an
// Accept/Visitor method set — every node already satisfies the bare
// marker interfaces in internal/ast, and adding a new node kind only means
// adding a case here, not touching every existing node type.
package semantic

import (
	"log"

	"github.com/forge-lang/forgec/internal/ast"
	"github.com/forge-lang/forgec/internal/memory"
	"github.com/forge-lang/forgec/internal/source"
	"github.com/forge-lang/forgec/internal/symtab"
	"github.com/forge-lang/forgec/internal/typesys"
)

// Language selects the assignment/container-move memory model.
type Language int

const (
	LangForge Language = iota
	LangSweet
)

// reservedPrefixes are the variant-generator prefixes a user-written
// function may never claim for itself.
var reservedPrefixes = []string{"try_", "check_", "find_"}

// Analyzer owns all traversal state for one program. Only the owning
// traversal ever mutates it; spec.md §5 notes no locking is required.
type Analyzer struct {
	Symbols *symtab.Table
	Memory  *memory.Analyzer
	Errors  []*Error
	Logger  *log.Logger
	Lang    Language

	// scopedTokens maps a scoped-access handle name to the scope depth it
	// was declared at; exitScope uses the depth to drop the tokens of the
	// scope being closed. While registered, a token is rejected as a
	// returned value or container argument (Testable Property 7).
	scopedTokens map[string]int

	inEscapeBlock     bool
	inUsurpingFunction bool
	inWhenCondition   bool

	currentFunction *ast.FunctionDecl
	types           map[string]*ast.TypeDecl
}

// NewAnalyzer creates an analyzer for the given language's memory model.
// A nil logger disables trace output.
func NewAnalyzer(lang Language, logger *log.Logger) *Analyzer {
	if logger == nil {
		logger = log.New(discard{}, "", 0)
	}
	return &Analyzer{
		Symbols:      symtab.New(),
		Memory:       memory.NewAnalyzer(),
		Lang:         lang,
		Logger:       logger,
		scopedTokens: make(map[string]int),
		types:        make(map[string]*ast.TypeDecl),
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func (a *Analyzer) addError(kind ErrorKind, pos source.Position, format string, args ...interface{}) {
	a.Errors = append(a.Errors, newErr(kind, pos, format, args...))
}

func (a *Analyzer) addMemoryError(err *memory.Error) {
	if err == nil {
		return
	}
	a.Errors = append(a.Errors, fromMemoryError(err))
}

// HasErrors reports whether any diagnostic has been accumulated.
func (a *Analyzer) HasErrors() bool {
	return len(a.Errors) > 0
}

// enterScope pushes both the symbol scope and the memory scope together,
// keeping their depths in lockstep.
func (a *Analyzer) enterScope(kind symtab.ScopeKind) {
	a.Symbols.EnterScope(kind)
	a.Memory.EnterScope()
	a.Logger.Printf("enter scope %s depth=%d", kind, a.Symbols.Depth())
}

// exitScope pops both stacks and restores any sources invalidated by a
// scoped-access statement at the popped depth (spec.md §4.4, scoped-access
// exit behavior) before discarding tokens declared at that depth.
func (a *Analyzer) exitScope() {
	depth := a.Symbols.Depth()
	restored := a.Memory.ExitScope()
	a.Symbols.ExitScope()
	for name, scopeDepth := range a.scopedTokens {
		if scopeDepth >= depth {
			delete(a.scopedTokens, name)
		}
	}
	for _, inv := range restored {
		inv.Object.State = memory.StateValid
		inv.Object.InvalidatedBy = ""
	}
	a.Logger.Printf("exit scope depth=%d", depth)
}

// Analyze runs the full traversal over prog, returning the accumulated
// errors (nil if there were none).
func (a *Analyzer) Analyze(prog *ast.Program) []*Error {
	for _, decl := range prog.Decls {
		a.analyzeDeclaration(decl)
	}
	return a.Errors
}

// resolveTypeExpr converts an ast.TypeExpr into a typesys.TypeInfo. Unknown
// shapes degrade to typesys.Unknown rather than aborting the traversal
// (spec.md §7: "traversal continues with the best-available substitute").
func (a *Analyzer) resolveTypeExpr(te ast.TypeExpr) typesys.TypeInfo {
	if te == nil {
		return typesys.Unknown
	}
	nt, ok := te.(*ast.NamedType)
	if !ok {
		return typesys.Unknown
	}
	args := make([]typesys.TypeInfo, len(nt.GenericArgs))
	for i, a2 := range nt.GenericArgs {
		args[i] = a.resolveTypeExpr(a2)
	}
	return typesys.TypeInfo{
		Name:           nt.Name,
		GenericArgs:    args,
		IsReference:    nt.IsReference,
		IsGenericParam: nt.IsGenericParam,
	}
}

func hasReservedPrefix(name string) (string, bool) {
	for _, p := range reservedPrefixes {
		if len(name) >= len(p) && name[:len(p)] == p {
			return p, true
		}
	}
	return "", false
}
