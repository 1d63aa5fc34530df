package semantic

import (
	"strings"

	"github.com/forge-lang/forgec/internal/ast"
	"github.com/forge-lang/forgec/internal/memory"
	"github.com/forge-lang/forgec/internal/symtab"
	"github.com/forge-lang/forgec/internal/typesys"
)

// analyzeDeclaration dispatches over the top-level and member declaration
// shapes. Unrecognized declaration kinds are silently skipped: this core
// does not need to interpret class/record/variant/feature internals beyond
// walking their member declarations (internal/ast.TypeDecl's doc comment).
func (a *Analyzer) analyzeDeclaration(d ast.Declaration) {
	switch decl := d.(type) {
	case *ast.VariableDecl:
		a.analyzeVariableDecl(decl)
	case *ast.FunctionDecl:
		a.analyzeFunctionDecl(decl)
	case *ast.TypeDecl:
		a.analyzeTypeDecl(decl)
	}
}

func (a *Analyzer) analyzeTypeDecl(decl *ast.TypeDecl) {
	a.types[decl.Name] = decl
	if err := a.Symbols.TryDeclare(symtab.NewType(decl.Name, decl.Sp.Start)); err != nil {
		a.addError(KindDuplicateDeclaration, decl.Sp.Start, "%v", err)
	}
	for _, member := range decl.Members {
		a.analyzeDeclaration(member)
	}
}

// analyzeVariableDecl type-checks the initializer, resolves the
// declared-vs-inferred type, registers the object with the memory
// analyzer, and declares the symbol. A memory-operation initializer is not
// rejected: the new name is bound to the object the operation produced.
func (a *Analyzer) analyzeVariableDecl(decl *ast.VariableDecl) {
	declaredType := a.resolveTypeExpr(decl.Declared)

	// A memory-operation initializer ("let b = a.hijack()") binds the real
	// object the operation produced under the new name, rather than a
	// freshly synthesized Owned/Retained one — b must keep a.hijack()'s
	// actual resulting kind (Hijacked<T>, Tracked<T>, ...).
	if mo, isMemOp := decl.Init.(*ast.MemoryOpExpr); isMemOp {
		obj, _ := a.memoryOpResult(mo)
		resolved := declaredType
		if resolved.IsUnknown() {
			if obj != nil {
				resolved = typesys.TypeInfo{Name: obj.TypeName()}
			} else {
				resolved = typesys.TypeInfo{Name: "none"}
			}
		}
		if err := a.Symbols.TryDeclare(symtab.NewVariable(decl.Name, resolved, decl.IsMut, decl.Sp.Start)); err != nil {
			a.addError(KindDuplicateDeclaration, decl.Sp.Start, "%v", err)
		}
		if obj != nil {
			bound := *obj
			bound.Name = decl.Name
			a.Memory.Declare(decl.Name, &bound)
		}
		return
	}

	var initType typesys.TypeInfo
	if decl.Init != nil {
		initType = a.analyzeExpression(decl.Init)
	}

	resolved := declaredType
	if resolved.IsUnknown() && decl.Init != nil {
		resolved = initType
	}

	if err := a.Symbols.TryDeclare(symtab.NewVariable(decl.Name, resolved, decl.IsMut, decl.Sp.Start)); err != nil {
		a.addError(KindDuplicateDeclaration, decl.Sp.Start, "%v", err)
	}

	startKind := typesys.WrapperOwned
	if a.Lang == LangSweet {
		startKind = typesys.WrapperRetained
	}
	a.Memory.Declare(decl.Name, &memory.MemoryObject{
		Name:      decl.Name,
		BaseType:  resolved.Name,
		Kind:      startKind,
		State:     memory.StateValid,
		RefCount:  1,
		SourceLoc: decl.Sp.Start,
	})
}

// analyzeFunctionDecl rejects reserved-prefix names, detects the usurping
// flag (explicit, or by the deprecated name-substring heuristic when the
// explicit flag is unset and the node sets UsurpingHeuristic — spec.md §9
// open question 1 resolution: the
// explicit flag always wins when present), opens a fresh scope, binds
// parameters as memory objects, validates the usurping rule against the
// return type, and recurses into the body.
func (a *Analyzer) analyzeFunctionDecl(decl *ast.FunctionDecl) {
	if prefix, ok := hasReservedPrefix(decl.Name); ok {
		a.addError(KindReservedPrefix, decl.Sp.Start, "function %q uses reserved variant prefix %q", decl.Name, prefix)
	}

	usurping := decl.IsUsurping
	if !usurping && decl.UsurpingHeuristic {
		usurping = usesUsurpingNameHeuristic(decl.Name)
	}

	returnType := a.resolveTypeExpr(decl.ReturnType)
	if kind, _, _, ok := typesys.DecodeWrapper(returnType.Name); ok && kind == typesys.WrapperHijacked && !usurping {
		a.addError(KindUsurpingViolation, decl.Sp.Start,
			"function %q returns Hijacked<...> but is not flagged usurping", decl.Name)
	}

	sig := &symtab.FunctionSignature{ReturnType: returnType, IsUsurping: usurping}
	for _, p := range decl.Params {
		sig.Params = append(sig.Params, a.resolveTypeExpr(p.Type))
	}
	if err := a.Symbols.TryDeclare(symtab.NewFunction(decl.Name, sig, decl.Sp.Start)); err != nil {
		a.addError(KindDuplicateDeclaration, decl.Sp.Start, "%v", err)
	}

	prevFn, prevUsurping := a.currentFunction, a.inUsurpingFunction
	a.currentFunction = decl
	a.inUsurpingFunction = usurping
	a.enterScope(symtab.ScopeFunction)

	for _, p := range decl.Params {
		pt := a.resolveTypeExpr(p.Type)
		if err := a.Symbols.TryDeclare(symtab.NewVariable(p.Name, pt, p.IsMut, p.Sp.Start)); err != nil {
			a.addError(KindDuplicateDeclaration, p.Sp.Start, "%v", err)
		}
		a.Memory.Declare(p.Name, &memory.MemoryObject{
			Name: p.Name, BaseType: pt.Name, Kind: typesys.WrapperOwned,
			State: memory.StateValid, RefCount: 1, SourceLoc: p.Sp.Start,
		})
	}

	if decl.Body != nil {
		a.analyzeBlockBody(decl.Body)
	}

	a.exitScope()
	a.currentFunction, a.inUsurpingFunction = prevFn, prevUsurping
}

// usesUsurpingNameHeuristic is the deprecated fallback detector: a
// function is treated as usurping if its name contains "usurp" or
// "hijack". It only runs when the AST node explicitly opts in via
// UsurpingHeuristic (spec.md §9 open question 1), since blanket heuristic
// detection on every function would be surprising.
func usesUsurpingNameHeuristic(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "usurp") || strings.Contains(lower, "hijack")
}
