package semantic

import (
	"testing"

	"github.com/forge-lang/forgec/internal/ast"
	"github.com/forge-lang/forgec/internal/memory"
	"github.com/forge-lang/forgec/internal/source"
	"github.com/forge-lang/forgec/internal/symtab"
	"github.com/forge-lang/forgec/internal/typesys"
)

var scenarioPos = source.Position{File: "scenario", Line: 1, Column: 1}
var scenarioSpan = source.Span{Start: scenarioPos, End: scenarioPos}

func ident(name string) *ast.Identifier {
	return &ast.Identifier{Name: name, Sp: scenarioSpan}
}

// declareUseFunction seeds a no-op "use" function symbol so that scenario
// bodies calling use(x) for effect don't spuriously report an unknown
// identifier (the surface grammar assumes such helpers are declared
// elsewhere in the program).
func declareUseFunction(t *testing.T, a *Analyzer) {
	t.Helper()
	sig := &symtab.FunctionSignature{Params: []typesys.TypeInfo{typesys.Unknown}, ReturnType: typesys.TypeInfo{Name: "none"}}
	if err := a.Symbols.TryDeclare(symtab.NewFunction("use", sig, scenarioPos)); err != nil {
		t.Fatalf("failed to seed use function: %v", err)
	}
}

func countErrors(errs []*Error, kind ErrorKind) int {
	n := 0
	for _, e := range errs {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// S1: let a = new T(); let b = a.hijack(); use(a);
// One UseAfterInvalidation on use(a); b typed Hijacked<T>.
func TestScenarioS1HijackThenUseSource(t *testing.T) {
	a := NewAnalyzer(LangForge, nil)
	declareUseFunction(t, a)

	block := &ast.BlockStatement{Sp: scenarioSpan, Stmts: []ast.Statement{
		&ast.VariableDecl{Name: "a", Init: &ast.ConstructorExpr{TypeName: "T", Sp: scenarioSpan}, Sp: scenarioSpan},
		&ast.VariableDecl{Name: "b", Init: &ast.MemoryOpExpr{Receiver: ident("a"), Op: "hijack", Sp: scenarioSpan}, Sp: scenarioSpan},
		&ast.ExpressionStatement{Sp: scenarioSpan, X: &ast.CallExpr{
			Sp: scenarioSpan, Callee: ident("use"), Args: []ast.Expression{ident("a")},
		}},
	}}

	a.analyzeBlockBody(block)

	if got := countErrors(a.Errors, KindUseAfterInvalidation); got != 1 {
		t.Fatalf("expected exactly 1 UseAfterInvalidation, got %d (errors: %v)", got, a.Errors)
	}
	if len(a.Errors) != 1 {
		t.Fatalf("expected exactly 1 total error, got %d: %v", len(a.Errors), a.Errors)
	}

	sym, ok := a.Symbols.Lookup("b")
	if !ok {
		t.Fatal("expected symbol b to be declared")
	}
	if want := typesys.EncodeWrapper(typesys.WrapperHijacked, "T"); sym.Type.Name != want {
		t.Fatalf("expected b typed %s, got %s", want, sym.Type.Name)
	}
}

// S2: let a = new T().retain(); let c = a.retain(); steal(a);
// ReferenceCountError on steal (count=2). Expressed against this AST's
// receiver.op() shape as a0/a1 retain chain since retain here always acts on
// an already-named object.
func TestScenarioS2StealWithRefCountAboveOne(t *testing.T) {
	a := NewAnalyzer(LangForge, nil)

	block := &ast.BlockStatement{Sp: scenarioSpan, Stmts: []ast.Statement{
		&ast.VariableDecl{Name: "a", Init: &ast.ConstructorExpr{TypeName: "T", Sp: scenarioSpan}, Sp: scenarioSpan},
		&ast.VariableDecl{Name: "a1", Init: &ast.MemoryOpExpr{Receiver: ident("a"), Op: "retain", Sp: scenarioSpan}, Sp: scenarioSpan},
		&ast.VariableDecl{Name: "c", Init: &ast.MemoryOpExpr{Receiver: ident("a1"), Op: "retain", Sp: scenarioSpan}, Sp: scenarioSpan},
		&ast.ExpressionStatement{Sp: scenarioSpan, X: &ast.MemoryOpExpr{Receiver: ident("a1"), Op: "steal", Sp: scenarioSpan}},
	}}

	a.analyzeBlockBody(block)

	if got := countErrors(a.Errors, KindReferenceCountError); got != 1 {
		t.Fatalf("expected exactly 1 ReferenceCountError, got %d (errors: %v)", got, a.Errors)
	}
	if len(a.Errors) != 1 {
		t.Fatalf("expected exactly 1 total error, got %d: %v", len(a.Errors), a.Errors)
	}
}

// S3: viewing obj as v { v.field }; use(obj); — no error on use(obj) after
// the block; inside the block, obj access would error.
func TestScenarioS3ViewRestoresSourceOnExit(t *testing.T) {
	a := NewAnalyzer(LangForge, nil)
	declareUseFunction(t, a)

	block := &ast.BlockStatement{Sp: scenarioSpan, Stmts: []ast.Statement{
		&ast.VariableDecl{Name: "obj", Init: &ast.ConstructorExpr{TypeName: "T", Sp: scenarioSpan}, Sp: scenarioSpan},
		&ast.ScopedAccessStatement{
			Sp: scenarioSpan, Kind: ast.AccessView, Handle: "v", Source: ident("obj"),
			Body: &ast.BlockStatement{Sp: scenarioSpan, Stmts: []ast.Statement{
				&ast.ExpressionStatement{Sp: scenarioSpan, X: &ast.MemberExpr{Sp: scenarioSpan, X: ident("v"), Name: "field"}},
				&ast.ExpressionStatement{Sp: scenarioSpan, X: ident("obj")},
			}},
		},
		&ast.ExpressionStatement{Sp: scenarioSpan, X: &ast.CallExpr{
			Sp: scenarioSpan, Callee: ident("use"), Args: []ast.Expression{ident("obj")},
		}},
	}}

	a.analyzeBlockBody(block)

	if got := countErrors(a.Errors, KindUseAfterInvalidation); got != 1 {
		t.Fatalf("expected exactly 1 UseAfterInvalidation (inside the block), got %d: %v", got, a.Errors)
	}
	if len(a.Errors) != 1 {
		t.Fatalf("expected no error after the block closes, got %d total: %v", len(a.Errors), a.Errors)
	}

	obj, found := a.Memory.Lookup("obj")
	if !found {
		t.Fatal("expected obj to still be tracked after the block")
	}
	if obj.State != memory.StateValid {
		t.Fatalf("expected obj restored to Valid after the block, got %s", obj.State)
	}
}

// S4: a function returning Hijacked<T> not flagged usurping raises one
// UsurpingViolation at the declaration.
func TestScenarioS4UnflaggedUsurpingReturn(t *testing.T) {
	a := NewAnalyzer(LangForge, nil)

	fn := &ast.FunctionDecl{
		Name:       "f",
		Sp:         scenarioSpan,
		ReturnType: &ast.NamedType{Name: typesys.EncodeWrapper(typesys.WrapperHijacked, "T"), Sp: scenarioSpan},
		Body:       &ast.BlockStatement{Sp: scenarioSpan},
	}

	a.analyzeDeclaration(fn)

	if got := countErrors(a.Errors, KindUsurpingViolation); got != 1 {
		t.Fatalf("expected exactly 1 UsurpingViolation, got %d: %v", got, a.Errors)
	}
	if len(a.Errors) != 1 {
		t.Fatalf("expected exactly 1 total error, got %d: %v", len(a.Errors), a.Errors)
	}
}

// S6: inspect x as h { ... } where x: Shared<T, Mutex> raises one error
// requiring MultiReadLock; the block still type-checks (h resolves cleanly).
func TestScenarioS6InspectRequiresMultiReadLock(t *testing.T) {
	a := NewAnalyzer(LangForge, nil)

	if err := a.Symbols.TryDeclare(symtab.NewVariable("x",
		typesys.TypeInfo{Name: typesys.EncodeWrapper(typesys.WrapperShared, "T", "Mutex")}, true, scenarioPos)); err != nil {
		t.Fatalf("failed to seed symbol x: %v", err)
	}
	a.Memory.Declare("x", &memory.MemoryObject{
		Name: "x", BaseType: "T", Kind: typesys.WrapperShared, State: memory.StateValid,
		RefCount: 1, Policy: memory.PolicyMutex, SourceLoc: scenarioPos,
	})

	st := &ast.ScopedAccessStatement{
		Sp: scenarioSpan, Kind: ast.AccessInspect, Handle: "h", Source: ident("x"),
		Body: &ast.BlockStatement{Sp: scenarioSpan, Stmts: []ast.Statement{
			&ast.ExpressionStatement{Sp: scenarioSpan, X: ident("h")},
		}},
	}

	a.analyzeScopedAccess(st)

	if got := countErrors(a.Errors, KindTypeError); got != 1 {
		t.Fatalf("expected exactly 1 TypeError (MultiReadLock required), got %d: %v", got, a.Errors)
	}
	if len(a.Errors) != 1 {
		t.Fatalf("expected the block to still type-check with no extra errors, got %d total: %v", len(a.Errors), a.Errors)
	}
}

// S5 (try_/check_/find_ variant generation for a failable function mixing
// fail and absent) depends on internal/variantgen, built separately; see
// internal/variantgen's own tests for that scenario.

// throw SomeUnrelatedRecord{} where SomeUnrelatedRecord carries no
// "impl Crashable" member raises ThrowViolation.
func TestThrowRejectsTypeWithoutCrashableImpl(t *testing.T) {
	a := NewAnalyzer(LangForge, nil)

	recordDecl := &ast.TypeDecl{Kind: ast.KindRecord, Name: "SomeUnrelatedRecord", Sp: scenarioSpan}
	a.analyzeDeclaration(recordDecl)

	st := &ast.ThrowStatement{Sp: scenarioSpan, Value: &ast.ConstructorExpr{TypeName: "SomeUnrelatedRecord", Sp: scenarioSpan}}
	a.analyzeThrow(st)

	if got := countErrors(a.Errors, KindThrowViolation); got != 1 {
		t.Fatalf("expected exactly 1 ThrowViolation, got %d: %v", got, a.Errors)
	}
}

// throw CustomError{} where CustomError has an "impl Crashable" member is
// accepted with no ThrowViolation.
func TestThrowAcceptsTypeWithCrashableImpl(t *testing.T) {
	a := NewAnalyzer(LangForge, nil)

	recordDecl := &ast.TypeDecl{
		Kind: ast.KindRecord, Name: "CustomError", Sp: scenarioSpan,
		Members: []ast.Declaration{&ast.TypeDecl{Kind: ast.KindImpl, Name: "Crashable", Sp: scenarioSpan}},
	}
	a.analyzeDeclaration(recordDecl)

	st := &ast.ThrowStatement{Sp: scenarioSpan, Value: &ast.ConstructorExpr{TypeName: "CustomError", Sp: scenarioSpan}}
	a.analyzeThrow(st)

	if got := countErrors(a.Errors, KindThrowViolation); got != 0 {
		t.Fatalf("expected no ThrowViolation, got %d: %v", got, a.Errors)
	}
}

// A scoped token passed to an ordinary function call (not a container-storing
// operation) is legal: process(token) must not raise InlineTokenEscape.
func TestScopedTokenAsOrdinaryArgumentIsLegal(t *testing.T) {
	a := NewAnalyzer(LangForge, nil)
	sig := &symtab.FunctionSignature{Params: []typesys.TypeInfo{typesys.Unknown}, ReturnType: typesys.TypeInfo{Name: "none"}}
	if err := a.Symbols.TryDeclare(symtab.NewFunction("process", sig, scenarioPos)); err != nil {
		t.Fatalf("failed to seed process function: %v", err)
	}

	block := &ast.BlockStatement{Sp: scenarioSpan, Stmts: []ast.Statement{
		&ast.VariableDecl{Name: "obj", Init: &ast.ConstructorExpr{TypeName: "T", Sp: scenarioSpan}, Sp: scenarioSpan},
		&ast.ScopedAccessStatement{
			Sp: scenarioSpan, Kind: ast.AccessView, Handle: "token", Source: ident("obj"),
			Body: &ast.BlockStatement{Sp: scenarioSpan, Stmts: []ast.Statement{
				&ast.ExpressionStatement{Sp: scenarioSpan, X: &ast.CallExpr{
					Sp: scenarioSpan, Callee: ident("process"), Args: []ast.Expression{ident("token")},
				}},
			}},
		},
	}}

	a.analyzeBlockBody(block)

	if got := countErrors(a.Errors, KindInlineTokenEscape); got != 0 {
		t.Fatalf("expected no InlineTokenEscape for an ordinary call argument, got %d: %v", got, a.Errors)
	}
}

// A scoped token passed to a container-storing operation still raises
// InlineTokenEscape: list.append(token).
func TestScopedTokenAsContainerArgumentStillEscapes(t *testing.T) {
	a := NewAnalyzer(LangForge, nil)

	block := &ast.BlockStatement{Sp: scenarioSpan, Stmts: []ast.Statement{
		&ast.VariableDecl{Name: "obj", Init: &ast.ConstructorExpr{TypeName: "T", Sp: scenarioSpan}, Sp: scenarioSpan},
		&ast.VariableDecl{Name: "list", Init: &ast.ConstructorExpr{TypeName: "List", Sp: scenarioSpan}, Sp: scenarioSpan},
		&ast.ScopedAccessStatement{
			Sp: scenarioSpan, Kind: ast.AccessView, Handle: "token", Source: ident("obj"),
			Body: &ast.BlockStatement{Sp: scenarioSpan, Stmts: []ast.Statement{
				&ast.ExpressionStatement{Sp: scenarioSpan, X: &ast.CallExpr{
					Sp: scenarioSpan, Callee: &ast.MemberExpr{Sp: scenarioSpan, X: ident("list"), Name: "append"},
					Args: []ast.Expression{ident("token")},
				}},
			}},
		},
	}}

	a.analyzeBlockBody(block)

	if got := countErrors(a.Errors, KindInlineTokenEscape); got != 1 {
		t.Fatalf("expected exactly 1 InlineTokenEscape for a container argument, got %d: %v", got, a.Errors)
	}
}
