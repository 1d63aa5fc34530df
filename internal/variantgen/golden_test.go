package variantgen

import (
	"fmt"
	"testing"

	"github.com/forge-lang/forgec/internal/ast"
	"github.com/gkampitakis/go-snaps/snaps"
)

// describeBody renders a variant's rewritten body structurally (kind plus
// nested shape) so a snapshot captures the rewrite rather than Go's struct
// formatting, which would churn on unrelated field reordering.
func describeBody(b *ast.BlockStatement) string {
	if b == nil {
		return "<nil>"
	}
	out := ""
	for _, s := range b.Stmts {
		out += describeStatement(s, 0) + "\n"
	}
	return out
}

func describeStatement(s ast.Statement, depth int) string {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	switch st := s.(type) {
	case *ast.ReturnStatement:
		if st.Value == nil {
			return indent + "return"
		}
		return indent + "return " + st.Value.String()
	case *ast.IfStatement:
		out := indent + "if " + st.Cond.String() + " {\n" + describeBody(st.Then) + indent + "}"
		if st.Else != nil {
			out += " else {\n" + describeStatement(st.Else, depth+1) + "\n" + indent + "}"
		}
		return out
	case *ast.WhileStatement:
		return indent + "while " + st.Cond.String() + " {\n" + describeBody(st.Body) + indent + "}"
	default:
		return indent + s.String()
	}
}

// S5: a failable function mixing fail and absent generates try_ and find_
// variants whose bodies rewrite fail/absent per the table, leaving the
// original untouched.
func TestGoldenLookupVariants(t *testing.T) {
	f := fn("lookup!",
		&ast.IfStatement{Sp: sp, Cond: &ast.Identifier{Name: "bad", Sp: sp}, Then: &ast.BlockStatement{Sp: sp, Stmts: []ast.Statement{failStmt()}}},
		&ast.IfStatement{Sp: sp, Cond: &ast.Identifier{Name: "missing", Sp: sp}, Then: &ast.BlockStatement{Sp: sp, Stmts: []ast.Statement{absentStmt()}}},
		retStmt(),
	)

	variants := Generate(f)
	for _, v := range variants {
		rt := v.ReturnType.(*ast.NamedType)
		snaps.MatchSnapshot(t, fmt.Sprintf("%s_signature", v.Name), fmt.Sprintf("%s(...) %s<%s>", v.Name, rt.Name, rt.GenericArgs[0].String()))
		snaps.MatchSnapshot(t, fmt.Sprintf("%s_body", v.Name), describeBody(v.Body))
	}
}
