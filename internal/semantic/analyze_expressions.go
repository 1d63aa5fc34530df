package semantic

import (
	"strings"

	"github.com/forge-lang/forgec/internal/ast"
	"github.com/forge-lang/forgec/internal/memory"
	"github.com/forge-lang/forgec/internal/symtab"
	"github.com/forge-lang/forgec/internal/typesys"
)

var primitiveConstructors = map[string]bool{
	"s8": true, "s16": true, "s32": true, "s64": true, "s128": true,
	"u8": true, "u16": true, "u32": true, "u64": true, "u128": true,
	"saddr": true, "uaddr": true,
	"f16": true, "f32": true, "f64": true, "f128": true,
	"d32": true, "d64": true, "d128": true,
	"bool": true, "text": true, "bytes": true,
}

var errorIntrinsics = map[string]bool{"verify!": true, "breach!": true, "stop!": true}

var dangerOnlyFunctions = map[string]bool{"address_of": true, "invalidate": true}

var compileTimeIntrinsics = map[string]bool{"sizeof": true, "alignof": true}

var memoryOpNames = map[string]bool{
	"retain": true, "share": true, "track": true, "snatch!": true,
	"recover!": true, "try_recover": true,
	"try_seize": true, "check_seize": true, "try_inspect": true, "check_inspect": true,
}

var fallibleLockOps = map[string]bool{
	"try_seize": true, "check_seize": true, "try_inspect": true, "check_inspect": true,
}

var containerMethodNames = map[string]bool{
	"push": true, "append": true, "insert": true, "add": true, "set": true,
	"put": true, "enqueue": true, "push_front": true, "push_back": true,
}

// analyzeExpression is the expression half of the type-switch dispatcher.
// Unrecognized shapes degrade to typesys.Unknown (spec.md §7).
func (a *Analyzer) analyzeExpression(e ast.Expression) typesys.TypeInfo {
	switch ex := e.(type) {
	case *ast.Literal:
		return literalType(ex)
	case *ast.Identifier:
		return a.analyzeIdentifier(ex)
	case *ast.BinaryExpr:
		return a.analyzeBinary(ex)
	case *ast.UnaryExpr:
		return a.analyzeExpression(ex.X)
	case *ast.CollectionLiteral:
		return a.analyzeCollectionLiteral(ex)
	case *ast.DictLiteral:
		for _, k := range ex.Keys {
			a.analyzeExpression(k)
		}
		for _, v := range ex.Values {
			a.analyzeExpression(v)
		}
		return typesys.TypeInfo{Name: "Dict"}
	case *ast.MemberExpr:
		a.analyzeExpression(ex.X)
		return typesys.Unknown
	case *ast.IndexExpr:
		a.analyzeExpression(ex.X)
		a.analyzeExpression(ex.Index)
		return typesys.Unknown
	case *ast.ConditionalExpr:
		a.analyzeExpression(ex.Cond)
		thenT := a.analyzeExpression(ex.Then)
		a.analyzeExpression(ex.Else)
		return thenT
	case *ast.BlockExpr:
		a.analyzeBlockStatement(ex.Body)
		return typesys.Unknown
	case *ast.RangeExpr:
		a.analyzeExpression(ex.Start)
		a.analyzeExpression(ex.End)
		return typesys.TypeInfo{Name: "Range"}
	case *ast.ChainedComparisonExpr:
		for _, op := range ex.Operands {
			a.analyzeExpression(op)
		}
		return typesys.TypeInfo{Name: "bool"}
	case *ast.LambdaExpr:
		return a.analyzeLambda(ex)
	case *ast.TypeRefExpr:
		return a.resolveTypeExpr(ex.Type)
	case *ast.TypeConversionExpr:
		a.analyzeExpression(ex.X)
		return a.resolveTypeExpr(ex.Type)
	case *ast.SliceConstructorExpr:
		for _, el := range ex.Elements {
			a.analyzeExpression(el)
		}
		return typesys.TypeInfo{Name: "Slice", GenericArgs: []typesys.TypeInfo{a.resolveTypeExpr(ex.ElemType)}}
	case *ast.GenericMethodCallExpr:
		a.analyzeExpression(ex.X)
		for _, arg := range ex.Args {
			a.analyzeExpression(arg)
		}
		return typesys.Unknown
	case *ast.GenericMemberExpr:
		a.analyzeExpression(ex.X)
		return typesys.Unknown
	case *ast.MemoryOpExpr:
		return a.analyzeMemoryOpExpr(ex)
	case *ast.IntrinsicCallExpr:
		return a.analyzeIntrinsicCall(ex)
	case *ast.NativeCallExpr:
		return a.analyzeNativeCall(ex)
	case *ast.ConstructorExpr:
		return a.analyzeConstructor(ex)
	case *ast.CallExpr:
		return a.analyzeCall(ex)
	case *ast.NamedArgument:
		return a.analyzeExpression(ex.Value)
	default:
		return typesys.Unknown
	}
}

func literalType(lit *ast.Literal) typesys.TypeInfo {
	switch lit.Kind {
	case ast.LitInt:
		return typesys.TypeInfo{Name: "s32"}
	case ast.LitFloat:
		return typesys.TypeInfo{Name: "f64"}
	case ast.LitString:
		return typesys.TypeInfo{Name: "text"}
	case ast.LitBool:
		return typesys.TypeInfo{Name: "bool"}
	case ast.LitChar:
		return typesys.TypeInfo{Name: "u8"}
	case ast.LitNone:
		return typesys.TypeInfo{Name: "none"}
	default:
		return typesys.Unknown
	}
}

func (a *Analyzer) analyzeIdentifier(id *ast.Identifier) typesys.TypeInfo {
	sym, ok := a.Symbols.Lookup(id.Name)
	if !ok {
		a.addError(KindTypeError, id.Sp.Start, "unknown identifier %q", id.Name)
		return typesys.Unknown
	}
	if obj, found := a.Memory.Lookup(id.Name); found && obj.State != memory.StateValid {
		a.addError(KindUseAfterInvalidation, id.Sp.Start, "%q was %s (%s)", id.Name, obj.State, obj.InvalidatedBy)
	}
	return sym.Type
}

func (a *Analyzer) analyzeBinary(ex *ast.BinaryExpr) typesys.TypeInfo {
	left := a.analyzeExpression(ex.Left)
	right := a.analyzeExpression(ex.Right)
	if left.IsUnknown() || right.IsUnknown() {
		return typesys.Unknown
	}
	switch ex.Op {
	case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
		return typesys.TypeInfo{Name: "bool"}
	case "/":
		if left.IsInteger() && right.IsInteger() {
			a.addError(KindTypeError, ex.Sp.Start, "true division on integer operands %s / %s requires an explicit conversion", left, right)
		}
		return left
	default:
		if !left.Equals(right) && (left.IsNumeric() != right.IsNumeric()) {
			a.addError(KindTypeError, ex.Sp.Start, "mixed-type arithmetic: %s and %s", left, right)
		}
		return left
	}
}

func (a *Analyzer) analyzeCollectionLiteral(ex *ast.CollectionLiteral) typesys.TypeInfo {
	var elem typesys.TypeInfo
	for i, el := range ex.Elements {
		t := a.analyzeExpression(el)
		if i == 0 {
			elem = t
		}
	}
	name := "List"
	if ex.Kind == ast.CollectionSet {
		name = "Set"
	}
	return typesys.TypeInfo{Name: name, GenericArgs: []typesys.TypeInfo{elem}}
}

func (a *Analyzer) analyzeLambda(ex *ast.LambdaExpr) typesys.TypeInfo {
	a.enterScope(symtab.ScopeFunction)
	for _, p := range ex.Params {
		pt := a.resolveTypeExpr(p.Type)
		a.Memory.Declare(p.Name, &memory.MemoryObject{
			Name: p.Name, BaseType: pt.Name, Kind: typesys.WrapperOwned,
			State: memory.StateValid, RefCount: 1, SourceLoc: p.Sp.Start,
		})
	}
	a.analyzeBlockBody(ex.Body)
	a.exitScope()
	return typesys.TypeInfo{Name: "Routine"}
}

func (a *Analyzer) analyzeConstructor(ex *ast.ConstructorExpr) typesys.TypeInfo {
	for _, arg := range ex.Args {
		a.analyzeExpression(arg)
	}
	for _, n := range ex.Named {
		a.analyzeExpression(n.Value)
	}
	args := make([]typesys.TypeInfo, len(ex.TypeArgs))
	for i, t := range ex.TypeArgs {
		args[i] = a.resolveTypeExpr(t)
	}
	return typesys.TypeInfo{Name: ex.TypeName, GenericArgs: args}
}

// analyzeMemoryOpExpr dispatches a MemoryOpExpr node (receiver.op() /
// receiver.op(policy)) to the memory analyzer. Fallible lock operations
// additionally require the surrounding context be a when scrutinee.
func (a *Analyzer) analyzeMemoryOpExpr(ex *ast.MemoryOpExpr) typesys.TypeInfo {
	obj, _ := a.memoryOpResult(ex)
	if obj == nil {
		return typesys.TypeInfo{Name: "none"}
	}
	return typesys.TypeInfo{Name: obj.TypeName()}
}

// memoryOpResult runs the operation a MemoryOpExpr names and returns the
// resulting object (nil for release, or on error) alongside any memory
// error, so that a binding form (a variable declaration) can register the
// real resulting object under its new name rather than a synthesized one.
func (a *Analyzer) memoryOpResult(ex *ast.MemoryOpExpr) (*memory.MemoryObject, *memory.Error) {
	recvIdent, ok := ex.Receiver.(*ast.Identifier)
	if !ok {
		a.analyzeExpression(ex.Receiver)
		return nil, nil
	}

	if ex.Fallible && !a.inWhenCondition {
		a.addError(KindFallibleLockOutsideWhen, ex.Sp.Start, "%s must be used as a when scrutinee", ex.Op)
	}

	pos := ex.Sp.Start
	var obj *memory.MemoryObject
	var merr *memory.Error

	switch strings.TrimSuffix(ex.Op, "!") {
	case "hijack":
		obj, merr = a.Memory.Hijack(recvIdent.Name, pos)
	case "retain":
		obj, merr = a.Memory.Retain(recvIdent.Name, pos)
	case "share":
		obj, merr = a.Memory.Share(recvIdent.Name, parsePolicy(ex.Policy), pos)
	case "track":
		obj, merr = a.Memory.Track(recvIdent.Name, pos)
	case "steal":
		obj, merr = a.Memory.Steal(recvIdent.Name, pos)
	case "release":
		merr = a.Memory.Release(recvIdent.Name, pos)
	case "recover", "try_recover", "check_recover":
		obj, merr = a.Memory.Recover(recvIdent.Name, pos)
	case "snatch":
		obj, merr = a.Memory.Snatch(recvIdent.Name, pos)
	case "reveal":
		obj, merr = a.Memory.Reveal(recvIdent.Name, pos)
	case "own":
		obj, merr = a.Memory.Own(recvIdent.Name, pos)
	default:
		return nil, nil
	}

	if merr != nil {
		a.addMemoryError(merr)
		return nil, merr
	}
	return obj, nil
}

func parsePolicy(name string) memory.LockingPolicy {
	switch name {
	case "Mutex":
		return memory.PolicyMutex
	case "MultiReadLock":
		return memory.PolicyMultiReadLock
	case "RejectEdit":
		return memory.PolicyRejectEdit
	default:
		return memory.PolicyNone
	}
}

// crossThreadIntrinsics names the intrinsics recognized as spawning a
// thread; every identifier argument passed to one is a thread-safety
// check site (spec.md §4.3 [ADDED] detail).
var crossThreadIntrinsics = map[string]bool{"spawn_thread": true, "thread_spawn": true}

// analyzeIntrinsicCall permits sizeof/alignof outside an escape block, and
// requires the escape block for any other intrinsic spelling reaching this
// node shape.
func (a *Analyzer) analyzeIntrinsicCall(ex *ast.IntrinsicCallExpr) typesys.TypeInfo {
	for _, arg := range ex.Args {
		a.analyzeExpression(arg)
	}
	if !compileTimeIntrinsics[ex.Name] && !a.inEscapeBlock {
		a.addError(KindDangerBlockViolation, ex.Sp.Start, "intrinsic %q requires an escape block", ex.Name)
	}
	if crossThreadIntrinsics[ex.Name] {
		for _, arg := range ex.Args {
			if ident, ok := arg.(*ast.Identifier); ok {
				if obj, found := a.Memory.Lookup(ident.Name); found {
					if merr := memory.CheckThreadSafety(obj, ex.Sp.Start); merr != nil {
						a.addMemoryError(merr)
					}
				}
			}
		}
	}
	switch ex.Name {
	case "sizeof", "alignof":
		return typesys.TypeInfo{Name: "uaddr"}
	default:
		if len(ex.TypeArgs) > 0 {
			return a.resolveTypeExpr(ex.TypeArgs[0])
		}
		return typesys.Unknown
	}
}

func (a *Analyzer) analyzeNativeCall(ex *ast.NativeCallExpr) typesys.TypeInfo {
	for _, arg := range ex.Args {
		a.analyzeExpression(arg)
	}
	if !a.inEscapeBlock {
		a.addError(KindDangerBlockViolation, ex.Sp.Start, "native call %q requires an escape block", ex.Name)
	}
	return typesys.Unknown
}

// analyzeCall is the seven-step call dispatcher of spec.md §4.4.
func (a *Analyzer) analyzeCall(ex *ast.CallExpr) typesys.TypeInfo {
	// Step 1: failable type conversion "Type!(x)".
	if callee, ok := ex.Callee.(*ast.Identifier); ok && strings.HasSuffix(callee.Name, "!") {
		base := strings.TrimSuffix(callee.Name, "!")
		if primitiveConstructors[base] || a.isKnownType(base) {
			a.analyzeArgs(ex.Args, nil, "")
			return typesys.TypeInfo{Name: base}
		}
	}

	if callee, ok := ex.Callee.(*ast.Identifier); ok {
		// Step 2: construction.
		if primitiveConstructors[callee.Name] || a.isKnownType(callee.Name) {
			a.analyzeArgs(ex.Args, nil, "")
			return typesys.TypeInfo{Name: callee.Name}
		}
		// Step 3: error intrinsics.
		if errorIntrinsics[callee.Name] {
			a.analyzeArgs(ex.Args, nil, "")
			return typesys.TypeInfo{Name: "none"}
		}
		// Step 4: danger-only functions.
		if dangerOnlyFunctions[callee.Name] {
			if !a.inEscapeBlock {
				a.addError(KindDangerBlockViolation, ex.Sp.Start, "%q requires an escape block", callee.Name)
			}
			a.analyzeArgs(ex.Args, nil, "")
			if sym, ok := a.Symbols.Lookup(callee.Name); ok && sym.Sig != nil {
				return sym.Sig.ReturnType
			}
			return typesys.Unknown
		}
	}

	// Step 5: member-access memory operation.
	if mx, ok := ex.Callee.(*ast.MemberExpr); ok && memoryOpNames[mx.Name] {
		var policy string
		if len(ex.Args) > 0 {
			if id, ok := ex.Args[0].(*ast.Identifier); ok {
				policy = id.Name
			}
		}
		return a.analyzeMemoryOpExpr(&ast.MemoryOpExpr{
			Receiver: mx.X, Op: mx.Name, Policy: policy, Sp: ex.Sp, Fallible: fallibleLockOps[mx.Name],
		})
	}

	// Step 6: qualified "Namespace.member" call — the receiver identifier
	// must itself name a declared namespace/type symbol, distinguishing it
	// from an ordinary method call on a variable (step 7).
	if mx, ok := ex.Callee.(*ast.MemberExpr); ok {
		if recv, isIdent := mx.X.(*ast.Identifier); isIdent {
			if recvSym, found := a.Symbols.Lookup(recv.Name); found && recvSym.Kind == symtab.KindType {
				if sym, found := a.Symbols.Lookup(mx.Name); found && sym.Sig != nil {
					a.analyzeArgs(ex.Args, sym.Sig.Params, mx.Name)
					return sym.Sig.ReturnType
				}
			}
		}
	}

	// Step 7: ordinary call.
	if mx, ok := ex.Callee.(*ast.MemberExpr); ok {
		a.analyzeExpression(mx.X)
		a.analyzeArgs(ex.Args, nil, mx.Name)
		if len(ex.Args) > 0 {
			a.analyzeContainerMove(mx.Name, ex.Args[0])
		}
		return typesys.Unknown
	}
	calleeType := a.analyzeExpression(ex.Callee)
	var params []typesys.TypeInfo
	var ret typesys.TypeInfo = typesys.Unknown
	if callee, ok := ex.Callee.(*ast.Identifier); ok {
		if sym, found := a.Symbols.Lookup(callee.Name); found && sym.Sig != nil {
			params = sym.Sig.Params
			ret = sym.Sig.ReturnType
		}
	}
	a.analyzeArgs(ex.Args, params, "")
	if calleeType.Name == "Routine" && len(calleeType.GenericArgs) == 2 {
		return calleeType.GenericArgs[1]
	}
	return ret
}

// analyzeArgs forbids scoped tokens as container arguments (methodName
// naming a container-storing operation per containerMethodNames; ordinary
// call arguments are unrestricted), forbids duplicate Hijacked handle names
// in the same call, and type-checks each argument. The container-move rule
// itself is applied by the caller through analyzeContainerMove; params is
// accepted (and may be nil for unresolved callees) but is not consulted.
func (a *Analyzer) analyzeArgs(args []ast.Expression, params []typesys.TypeInfo, methodName string) {
	seenHijacked := make(map[string]bool)
	for _, arg := range args {
		if ident, ok := arg.(*ast.Identifier); ok {
			if _, isToken := a.scopedTokens[ident.Name]; isToken && containerMethodNames[methodName] {
				a.addError(KindInlineTokenEscape, ident.Sp.Start, "scoped token %q cannot be passed as a container argument", ident.Name)
			}
			if obj, found := a.Memory.Lookup(ident.Name); found && obj.Kind == typesys.WrapperHijacked {
				if seenHijacked[ident.Name] {
					a.addError(KindDuplicateHijackInCall, ident.Sp.Start, "%q appears twice as an exclusive argument in this call", ident.Name)
				}
				seenHijacked[ident.Name] = true
			}
		}
		a.analyzeExpression(arg)
	}
}

// analyzeContainerMove applies the container-move rule (spec.md §4.3) when
// a call is recognized as a container-storing operation on an object
// argument.
func (a *Analyzer) analyzeContainerMove(methodName string, arg ast.Expression) {
	if !containerMethodNames[methodName] {
		return
	}
	ident, ok := arg.(*ast.Identifier)
	if !ok {
		return
	}
	obj, found := a.Memory.Lookup(ident.Name)
	if !found {
		return
	}
	if obj.State != memory.StateValid {
		a.addError(KindContainerMoveError, obj.SourceLoc, "%q is %s, cannot be moved into a container", ident.Name, obj.State)
		return
	}
	switch a.Lang {
	case LangForge:
		obj.State = memory.StateInvalidated
		obj.InvalidatedBy = "moved into container " + methodName
	case LangSweet:
		obj.RefCount++
	}
}

func (a *Analyzer) isKnownType(name string) bool {
	_, ok := a.types[name]
	return ok
}
