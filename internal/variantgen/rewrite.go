package variantgen

import "github.com/forge-lang/forgec/internal/ast"

// noneExpr builds the "None" sentinel used by try_'s fail rewrite and by
// every absent rewrite.
func noneExpr(sp ast.Statement) ast.Expression {
	return &ast.Literal{Kind: ast.LitNone, Sp: sp.Span()}
}

// rewriteBody clones fn's body, rewriting fail/absent statements per prefix.
// Ordinary return statements pass through unchanged: the caller's Maybe/
// Result/Lookup wrapping happens at the type level, not by rewriting every
// return expression.
func rewriteBody(body *ast.BlockStatement, prefix string) *ast.BlockStatement {
	if body == nil {
		return nil
	}
	return rewriteBlock(body, prefix)
}

func rewriteBlock(b *ast.BlockStatement, prefix string) *ast.BlockStatement {
	if b == nil {
		return nil
	}
	out := &ast.BlockStatement{Sp: b.Sp, Stmts: make([]ast.Statement, len(b.Stmts))}
	for i, s := range b.Stmts {
		out.Stmts[i] = rewriteStatement(s, prefix)
	}
	return out
}

func rewriteStatement(s ast.Statement, prefix string) ast.Statement {
	switch st := s.(type) {
	case *ast.FailStatement:
		return rewriteFail(st, prefix)
	case *ast.AbsentStatement:
		return rewriteAbsent(st, prefix)
	case *ast.BlockStatement:
		return rewriteBlock(st, prefix)
	case *ast.IfStatement:
		return &ast.IfStatement{
			Cond: st.Cond,
			Then: rewriteBlock(st.Then, prefix),
			Else: rewriteElse(st.Else, prefix),
			Sp:   st.Sp,
		}
	case *ast.WhileStatement:
		return &ast.WhileStatement{Cond: st.Cond, Body: rewriteBlock(st.Body, prefix), Sp: st.Sp}
	case *ast.ForStatement:
		return &ast.ForStatement{Iterable: st.Iterable, Var: st.Var, Body: rewriteBlock(st.Body, prefix), Sp: st.Sp}
	case *ast.WhenStatement:
		arms := make([]*ast.WhenArm, len(st.Arms))
		for i, arm := range st.Arms {
			arms[i] = &ast.WhenArm{
				Guard:      arm.Guard,
				Binds:      arm.Binds,
				IsCatchAll: arm.IsCatchAll,
				Body:       rewriteBlock(arm.Body, prefix),
			}
		}
		return &ast.WhenStatement{Scrutinee: st.Scrutinee, Arms: arms, Sp: st.Sp}
	default:
		return s
	}
}

func rewriteElse(e ast.Statement, prefix string) ast.Statement {
	if e == nil {
		return nil
	}
	return rewriteStatement(e, prefix)
}

// rewriteFail implements the "fail X" row of spec.md §4.5's rewrite table:
// try_ discards X and returns None; check_ and find_ forward X as the
// returned value.
func rewriteFail(st *ast.FailStatement, prefix string) ast.Statement {
	switch prefix {
	case "check_", "find_":
		return &ast.ReturnStatement{Value: st.Value, Sp: st.Sp}
	default: // try_
		return &ast.ReturnStatement{Value: noneExpr(st), Sp: st.Sp}
	}
}

// rewriteAbsent implements the "absent" row: try_/find_ return None;
// check_ never sees an absent statement in its source set (absent-only and
// fail-and-absent functions don't generate check_), but is handled the same
// way defensively rather than left unreachable.
func rewriteAbsent(st *ast.AbsentStatement, prefix string) ast.Statement {
	return &ast.ReturnStatement{Value: noneExpr(st), Sp: st.Sp}
}
