package semantic

import (
	"github.com/forge-lang/forgec/internal/ast"
	"github.com/forge-lang/forgec/internal/memory"
	"github.com/forge-lang/forgec/internal/symtab"
	"github.com/forge-lang/forgec/internal/typesys"
)

var accessKindWrapper = map[ast.ScopedAccessKind]typesys.WrapperKind{
	ast.AccessView:    typesys.WrapperViewed,
	ast.AccessHijack:  typesys.WrapperHijacked,
	ast.AccessInspect: typesys.WrapperInspected,
	ast.AccessSeize:   typesys.WrapperSeized,
}

var accessKindMemKind = map[ast.ScopedAccessKind]memory.AccessKind{
	ast.AccessView:    memory.AccessView,
	ast.AccessHijack:  memory.AccessHijack,
	ast.AccessInspect: memory.AccessInspect,
	ast.AccessSeize:   memory.AccessSeize,
}

// analyzeScopedAccess implements the view/hijack/inspect/seize statement
// family: opens a new scope, declares Handle with a wrapper type name
// encoding the access kind, registers Handle as a scoped token at the new
// depth, invalidates Source for the duration, walks Body, then on exit
// restores Source and discards the token (the restore/cleanup itself
// happens generically in exitScope).
func (a *Analyzer) analyzeScopedAccess(st *ast.ScopedAccessStatement) {
	srcType := a.analyzeExpression(st.Source)

	srcObj, srcOk := a.lookupMemoryObjectForExpr(st.Source)

	if st.Kind == ast.AccessInspect && srcOk {
		if srcObj.Kind != typesys.WrapperShared || srcObj.Policy != memory.PolicyMultiReadLock {
			a.addError(KindTypeError, st.Sp.Start,
				"inspect requires a Shared<_, MultiReadLock> source, got %s", srcObj.TypeName())
		}
	}

	a.enterScope(symtab.ScopeBlock)

	handleType := typesys.EncodeWrapper(accessKindWrapper[st.Kind], srcType.Name)
	if err := a.Symbols.TryDeclare(symtab.NewVariable(st.Handle, typesys.TypeInfo{Name: handleType}, false, st.Sp.Start)); err != nil {
		a.addError(KindDuplicateDeclaration, st.Sp.Start, "%v", err)
	}
	a.scopedTokens[st.Handle] = a.Symbols.Depth()
	a.Memory.RegisterToken(st.Handle, accessKindMemKind[st.Kind])
	a.Memory.Declare(st.Handle, &memory.MemoryObject{
		Name: st.Handle, BaseType: srcType.Name, Kind: accessKindWrapper[st.Kind],
		State: memory.StateValid, RefCount: 1, SourceLoc: st.Sp.Start,
	})

	if srcOk {
		a.Memory.InvalidateForScope(sourceHandleName(st.Source), st.Kind.String(), st.Sp.Start)
	}

	a.analyzeBlockBody(st.Body)
	a.exitScope()
}

// lookupMemoryObjectForExpr resolves the memory object a scoped-access
// source expression names, when it is a bare identifier (the only shape
// spec.md's scoped-access examples use).
func (a *Analyzer) lookupMemoryObjectForExpr(e ast.Expression) (*memory.MemoryObject, bool) {
	ident, ok := e.(*ast.Identifier)
	if !ok {
		return nil, false
	}
	return a.Memory.Lookup(ident.Name)
}

func sourceHandleName(e ast.Expression) string {
	if ident, ok := e.(*ast.Identifier); ok {
		return ident.Name
	}
	return ""
}
