package ast

import "github.com/forge-lang/forgec/internal/source"

// NamedType is the only type-expression shape the core needs: a name (which
// may encode a wrapper kind via a prefix, see internal/typesys), optional
// ordered generic arguments, a reference flag, and a generic-type-parameter
// flag. This mirrors the fields of typesys.TypeInfo one-to-one; the semantic
// analyzer's resolveTypeExpr turns a NamedType into a typesys.TypeInfo by
// copying those fields, without a symbol lookup.
type NamedType struct {
	Name           string
	GenericArgs    []TypeExpr
	Sp             source.Span
	IsReference    bool
	IsGenericParam bool
}

func (t *NamedType) Span() source.Span { return t.Sp }
func (t *NamedType) String() string    { return t.Name }
func (t *NamedType) typeExprNode()     {}
