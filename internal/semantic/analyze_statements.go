package semantic

import (
	"github.com/forge-lang/forgec/internal/ast"
	"github.com/forge-lang/forgec/internal/memory"
	"github.com/forge-lang/forgec/internal/symtab"
	"github.com/forge-lang/forgec/internal/typesys"
)

// analyzeStatement is the statement half of the type-switch dispatcher.
func (a *Analyzer) analyzeStatement(s ast.Statement) {
	switch st := s.(type) {
	case *ast.VariableDecl:
		a.analyzeVariableDecl(st)
	case *ast.FunctionDecl:
		a.analyzeFunctionDecl(st)
	case *ast.TypeDecl:
		a.analyzeTypeDecl(st)
	case *ast.ExpressionStatement:
		a.analyzeExpression(st.X)
	case *ast.AssignmentStatement:
		a.analyzeAssignment(st)
	case *ast.ReturnStatement:
		a.analyzeReturn(st)
	case *ast.FailStatement:
		if st.Value != nil {
			a.analyzeExpression(st.Value)
		}
	case *ast.AbsentStatement:
		// no children
	case *ast.PassStatement, *ast.BreakStatement, *ast.ContinueStatement:
		// no children
	case *ast.ThrowStatement:
		a.analyzeThrow(st)
	case *ast.BlockStatement:
		a.analyzeBlockStatement(st)
	case *ast.IfStatement:
		a.analyzeIf(st)
	case *ast.WhileStatement:
		a.analyzeWhile(st)
	case *ast.ForStatement:
		a.analyzeFor(st)
	case *ast.WhenStatement:
		a.analyzeWhen(st)
	case *ast.ScopedAccessStatement:
		a.analyzeScopedAccess(st)
	case *ast.DangerStatement:
		a.analyzeDanger(st)
	}
}

// analyzeBlockStatement opens fresh symbol and memory scopes for a nested
// block, walks its children, then closes both (the memory analyzer
// invalidates every object declared at that depth automatically on exit).
func (a *Analyzer) analyzeBlockStatement(b *ast.BlockStatement) {
	a.enterScope(symtab.ScopeBlock)
	a.analyzeBlockBody(b)
	a.exitScope()
}

// analyzeBlockBody walks a block's statements without opening a new scope;
// used for a function's top-level body, which shares the function's own
// scope rather than nesting an extra block scope inside it.
func (a *Analyzer) analyzeBlockBody(b *ast.BlockStatement) {
	for _, stmt := range b.Stmts {
		a.analyzeStatement(stmt)
	}
}

func (a *Analyzer) analyzeIf(st *ast.IfStatement) {
	condType := a.analyzeExpression(st.Cond)
	if !condType.IsUnknown() && !condType.IsBoolean() {
		a.addError(KindTypeError, st.Sp.Start, "if condition must be bool, got %s", condType)
	}
	a.analyzeBlockStatement(st.Then)
	switch e := st.Else.(type) {
	case nil:
	case *ast.BlockStatement:
		a.analyzeBlockStatement(e)
	case *ast.IfStatement:
		a.analyzeIf(e)
	}
}

func (a *Analyzer) analyzeWhile(st *ast.WhileStatement) {
	condType := a.analyzeExpression(st.Cond)
	if !condType.IsUnknown() && !condType.IsBoolean() {
		a.addError(KindTypeError, st.Sp.Start, "while condition must be bool, got %s", condType)
	}
	a.analyzeBlockStatement(st.Body)
}

// analyzeFor binds the loop variable in a fresh scope before walking the
// body.
func (a *Analyzer) analyzeFor(st *ast.ForStatement) {
	elemType := a.analyzeExpression(st.Iterable)
	a.enterScope(symtab.ScopeBlock)
	if err := a.Symbols.TryDeclare(symtab.NewVariable(st.Var, elemType, false, st.Sp.Start)); err != nil {
		a.addError(KindDuplicateDeclaration, st.Sp.Start, "%v", err)
	}
	a.Memory.Declare(st.Var, &memory.MemoryObject{
		Name: st.Var, BaseType: elemType.Name, Kind: typesys.WrapperOwned,
		State: memory.StateValid, RefCount: 1, SourceLoc: st.Sp.Start,
	})
	a.analyzeBlockBody(st.Body)
	a.exitScope()
}

// analyzeWhen sets inWhenCondition while visiting the scrutinee (so that
// fallible lock operations type-check there), then walks each arm in its
// own fresh scope with its pattern-bound names declared.
func (a *Analyzer) analyzeWhen(st *ast.WhenStatement) {
	prev := a.inWhenCondition
	a.inWhenCondition = true
	a.analyzeExpression(st.Scrutinee)
	a.inWhenCondition = prev

	for _, arm := range st.Arms {
		a.enterScope(symtab.ScopeWhenArm)
		for _, bind := range arm.Binds {
			if err := a.Symbols.TryDeclare(symtab.NewVariable(bind, typesys.Unknown, false, st.Sp.Start)); err != nil {
				a.addError(KindDuplicateDeclaration, st.Sp.Start, "%v", err)
			}
		}
		if arm.Guard != nil {
			a.analyzeExpression(arm.Guard)
		}
		a.analyzeBlockBody(arm.Body)
		a.exitScope()
	}
}

// analyzeAssignment type-checks, forbids inline-only tokens on the right,
// forbids mutation through read-only wrappers, forbids assigning a scoped
// token to a variable, and performs mode-specific move/alias handling.
func (a *Analyzer) analyzeAssignment(st *ast.AssignmentStatement) {
	if target, ok := st.Target.(*ast.Identifier); ok {
		if sym, found := a.Symbols.Lookup(target.Name); found && typesys.IsReadOnlyWrapper(sym.Type.Name) {
			a.addError(KindReadOnlyMutation, st.Sp.Start, "cannot mutate %q through a read-only %s wrapper", target.Name, sym.Type.Name)
		}
	}

	if src, ok := st.Value.(*ast.Identifier); ok {
		if _, isToken := a.scopedTokens[src.Name]; isToken {
			a.addError(KindInlineTokenEscape, st.Sp.Start, "scoped token %q cannot be assigned to a variable", src.Name)
		}
	}

	valType := a.analyzeExpression(st.Value)

	target, ok := st.Target.(*ast.Identifier)
	if !ok {
		a.analyzeExpression(st.Target)
		return
	}

	srcIdent, isIdentSource := st.Value.(*ast.Identifier)
	if !isIdentSource {
		a.Memory.Declare(target.Name, &memory.MemoryObject{
			Name: target.Name, BaseType: valType.Name, Kind: typesys.WrapperOwned,
			State: memory.StateValid, RefCount: 1, SourceLoc: st.Sp.Start,
		})
		return
	}

	switch a.Lang {
	case LangForge:
		// A fresh Owned binding; whether the source is subsequently
		// invalidated is resolved by the move/copy classification policy
		// (spec.md §9 open question 2): primitives and freshly constructed
		// literals/constructors copy, everything else moves.
		a.Memory.Declare(target.Name, &memory.MemoryObject{
			Name: target.Name, BaseType: valType.Name, Kind: typesys.WrapperOwned,
			State: memory.StateValid, RefCount: 1, SourceLoc: st.Sp.Start,
		})
		if !valType.IsNumeric() && !valType.IsBoolean() && !valType.IsVoid() {
			if srcObj, found := a.Memory.Lookup(srcIdent.Name); found {
				srcObj.State = memory.StateMoved
				srcObj.InvalidatedBy = "moved into " + target.Name
			}
		}
	case LangSweet:
		// Both names alias the same object; the count is incremented on
		// both handles.
		if srcObj, found := a.Memory.Lookup(srcIdent.Name); found {
			srcObj.RefCount++
			a.Memory.Declare(target.Name, &memory.MemoryObject{
				Name: target.Name, BaseType: srcObj.BaseType, Kind: srcObj.Kind,
				State: memory.StateValid, RefCount: srcObj.RefCount, Policy: srcObj.Policy,
				SourceLoc: st.Sp.Start,
			})
		}
	}
}

// analyzeReturn forbids inline-only token expressions and forbids
// returning scoped tokens, except a Hijacked<...> token from an explicitly
// usurping function (Testable Property 8).
func (a *Analyzer) analyzeReturn(st *ast.ReturnStatement) {
	if st.Value == nil {
		return
	}
	retType := a.analyzeExpression(st.Value)

	if ident, ok := st.Value.(*ast.Identifier); ok {
		if _, isToken := a.scopedTokens[ident.Name]; isToken {
			a.addError(KindUsurpingViolation, st.Sp.Start, "scoped token %q cannot be returned from a function", ident.Name)
			return
		}
	}

	if kind, _, _, ok := typesys.DecodeWrapper(retType.Name); ok {
		if kind == typesys.WrapperHijacked {
			if !a.inUsurpingFunction {
				a.addError(KindUsurpingViolation, st.Sp.Start, "returning Hijacked<...> requires the function be flagged usurping")
			}
			return
		}
		a.addError(KindUsurpingViolation, st.Sp.Start, "scoped-token type %s cannot be returned from a function", retType)
	}
}

// analyzeThrow accepts only expressions constructing or referencing a type
// marked with the Crashable feature; string/literal operands are rejected.
func (a *Analyzer) analyzeThrow(st *ast.ThrowStatement) {
	switch v := st.Value.(type) {
	case *ast.ConstructorExpr:
		a.analyzeExpression(v)
		if !a.typeImplementsCrashable(v.TypeName) {
			a.addError(KindThrowViolation, st.Sp.Start, "thrown type %q does not implement Crashable", v.TypeName)
		}
	case *ast.Identifier:
		sym, found := a.Symbols.Lookup(v.Name)
		if !found || !a.typeImplementsCrashable(sym.Type.Name) {
			a.addError(KindThrowViolation, st.Sp.Start, "thrown expression %q is not a Crashable constructor", v.Name)
		}
	default:
		a.analyzeExpression(st.Value)
		a.addError(KindThrowViolation, st.Sp.Start, "thrown expression must construct or reference a Crashable type")
	}
}

// typeImplementsCrashable reports whether name was declared as (or nested
// inside) a feature/impl block literally named "Crashable". This core does
// not model feature conformance checking in full; it only checks the
// surface relationship the ambient declarations expose.
func (a *Analyzer) typeImplementsCrashable(name string) bool {
	decl, ok := a.types[name]
	if !ok {
		return false
	}
	for _, m := range decl.Members {
		if td, ok := m.(*ast.TypeDecl); ok && td.Kind == ast.KindImpl && td.Name == "Crashable" {
			return true
		}
	}
	return false
}

// analyzeDanger toggles in-escape-block for the duration of the body.
func (a *Analyzer) analyzeDanger(st *ast.DangerStatement) {
	if a.Lang == LangSweet {
		a.addError(KindDangerBlockViolation, st.Sp.Start, "escape blocks are not permitted in Sweet mode")
	}
	prev := a.inEscapeBlock
	a.inEscapeBlock = true
	a.Memory.InEscape = true
	a.analyzeBlockStatement(st.Body)
	a.inEscapeBlock = prev
	a.Memory.InEscape = prev
}
