// Package variantgen synthesizes the try_/check_/find_ safe wrapper
// functions from a failable source function's body (spec.md §4.5). It is a
// second, independent AST walker from internal/semantic: no shared mutable
// state, same traversal shape but with empty handling for every node except
// function declarations, so it can run before or after the semantic
// analyzer without either affecting the other.
package variantgen

import "github.com/forge-lang/forgec/internal/ast"

// unrecoverableIntrinsics names the error intrinsics whose presence in a
// function body disqualifies it from variant generation: a function that
// already terminates the program on failure has nothing for a safe wrapper
// to recover.
var unrecoverableIntrinsics = map[string]bool{"verify!": true, "breach!": true, "stop!": true}

var reservedPrefixes = []string{"try_", "check_", "find_"}

func hasReservedPrefix(name string) bool {
	for _, p := range reservedPrefixes {
		if len(name) >= len(p) && name[:len(p)] == p {
			return true
		}
	}
	return false
}

// Generate returns the wrapper functions fn's body qualifies for, or nil if
// fn is not a candidate (wrong name shape, crash-only, calls an
// unrecoverable intrinsic, or its body contains neither fail nor absent).
func Generate(fn *ast.FunctionDecl) []*ast.FunctionDecl {
	if fn == nil || fn.Body == nil {
		return nil
	}
	if fn.IsCrashOnly || hasReservedPrefix(fn.Name) {
		return nil
	}
	if callsUnrecoverableIntrinsic(fn.Body) {
		return nil
	}

	hasFail, hasAbsent := classify(fn.Body)
	prefixes := variantsFor(hasFail, hasAbsent)
	if len(prefixes) == 0 {
		return nil
	}

	out := make([]*ast.FunctionDecl, 0, len(prefixes))
	for _, prefix := range prefixes {
		out = append(out, buildVariant(fn, prefix))
	}
	return out
}

// variantsFor implements spec.md §4.5's table.
func variantsFor(hasFail, hasAbsent bool) []string {
	switch {
	case hasFail && hasAbsent:
		return []string{"try_", "find_"}
	case hasFail:
		return []string{"try_", "check_"}
	case hasAbsent:
		return []string{"try_"}
	default:
		return nil
	}
}

// classify reports whether fn's body contains a fail statement, an absent
// statement, or both, walking block/if/while/for/when structurally (spec.md
// §4.5) without descending into nested lambda bodies (those are their own
// function boundary).
func classify(body *ast.BlockStatement) (hasFail, hasAbsent bool) {
	walkStatements(body.Stmts, func(s ast.Statement) {
		switch s.(type) {
		case *ast.FailStatement:
			hasFail = true
		case *ast.AbsentStatement:
			hasAbsent = true
		}
	})
	return
}

// walkStatements visits every statement reachable through block/if/while/
// for/when nesting, calling visit on each (including the compound
// statements themselves).
func walkStatements(stmts []ast.Statement, visit func(ast.Statement)) {
	for _, s := range stmts {
		visit(s)
		switch st := s.(type) {
		case *ast.BlockStatement:
			walkStatements(st.Stmts, visit)
		case *ast.IfStatement:
			if st.Then != nil {
				walkStatements(st.Then.Stmts, visit)
			}
			switch e := st.Else.(type) {
			case *ast.BlockStatement:
				walkStatements(e.Stmts, visit)
			case *ast.IfStatement:
				walkStatements([]ast.Statement{e}, visit)
			}
		case *ast.WhileStatement:
			if st.Body != nil {
				walkStatements(st.Body.Stmts, visit)
			}
		case *ast.ForStatement:
			if st.Body != nil {
				walkStatements(st.Body.Stmts, visit)
			}
		case *ast.WhenStatement:
			for _, arm := range st.Arms {
				if arm.Body != nil {
					walkStatements(arm.Body.Stmts, visit)
				}
			}
		}
	}
}

// callsUnrecoverableIntrinsic reports whether body calls verify!/breach!/
// stop! as an expression statement, a return value or a fail value, either
// directly or nested among a call's arguments. Other positions (variable
// initializers, assignments, conditions, operands of non-call expressions)
// are not searched.
func callsUnrecoverableIntrinsic(body *ast.BlockStatement) bool {
	found := false
	walkStatements(body.Stmts, func(s ast.Statement) {
		switch st := s.(type) {
		case *ast.ExpressionStatement:
			if exprCallsUnrecoverable(st.X) {
				found = true
			}
		case *ast.ReturnStatement:
			if st.Value != nil && exprCallsUnrecoverable(st.Value) {
				found = true
			}
		case *ast.FailStatement:
			if st.Value != nil && exprCallsUnrecoverable(st.Value) {
				found = true
			}
		}
	})
	return found
}

func exprCallsUnrecoverable(e ast.Expression) bool {
	call, ok := e.(*ast.CallExpr)
	if !ok {
		return false
	}
	if id, ok := call.Callee.(*ast.Identifier); ok && unrecoverableIntrinsics[id.Name] {
		return true
	}
	for _, arg := range call.Args {
		if exprCallsUnrecoverable(arg) {
			return true
		}
	}
	return false
}

// buildVariant synthesizes one wrapper function for the given prefix.
func buildVariant(fn *ast.FunctionDecl, prefix string) *ast.FunctionDecl {
	return &ast.FunctionDecl{
		Name:       variantName(fn.Name, prefix),
		Params:     fn.Params,
		Generics:   fn.Generics,
		ReturnType: wrapReturnType(fn.ReturnType, prefix),
		Body:       rewriteBody(fn.Body, prefix),
		Sp:         fn.Sp,
	}
}

// wrapperTypeName names the generic container a variant's return type is
// wrapped in.
func wrapperTypeName(prefix string) string {
	switch prefix {
	case "try_":
		return "Maybe"
	case "check_":
		return "Result"
	case "find_":
		return "Lookup"
	default:
		return "Maybe"
	}
}

func wrapReturnType(ret ast.TypeExpr, prefix string) ast.TypeExpr {
	if ret == nil {
		return nil
	}
	return &ast.NamedType{Name: wrapperTypeName(prefix), GenericArgs: []ast.TypeExpr{ret}}
}
