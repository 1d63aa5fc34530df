package ast

import "github.com/forge-lang/forgec/internal/source"

// Param is a single function parameter.
type Param struct {
	Name  string
	Type  TypeExpr
	Sp    source.Span
	IsMut bool
}

// VariableDecl declares a variable, with an optional declared type and/or
// initializer; at least one of the two must be present.
type VariableDecl struct {
	Init     Expression
	Declared TypeExpr
	Name     string
	Sp       source.Span
	IsMut    bool
}

func (d *VariableDecl) Span() source.Span { return d.Sp }
func (d *VariableDecl) String() string    { return "var " + d.Name }
func (d *VariableDecl) statementNode()    {}
func (d *VariableDecl) declarationNode()  {}

// FunctionDecl declares a function. Failable functions are named with a
// trailing "!" (e.g. "open!"); IsUsurping permits returning a Hijacked
// value; UsurpingHeuristic, when true, allows the deprecated name-substring
// detection path to additionally mark the function as usurping (spec.md §9
// open question 1).
type FunctionDecl struct {
	Body              *BlockStatement
	ReturnType        TypeExpr
	Name              string
	Generics          []string
	Params            []*Param
	Sp                source.Span
	IsUsurping        bool
	UsurpingHeuristic bool
	IsCrashOnly       bool
}

func (d *FunctionDecl) Span() source.Span { return d.Sp }
func (d *FunctionDecl) String() string    { return "func " + d.Name }
func (d *FunctionDecl) statementNode()    {}
func (d *FunctionDecl) declarationNode()  {}

// TypeDecl is a catch-all for the declaration kinds whose internal shape
// this core does not need to reason about (class/entity, record/struct,
// variant, feature/protocol, impl block, namespace, using, external,
// preset): the analyzer walks their member declarations but does not
// otherwise interpret them. Kind distinguishes the surface keyword for
// diagnostics only.
type TypeDeclKind int

const (
	KindClass TypeDeclKind = iota
	KindRecord
	KindVariant
	KindFeature
	KindImpl
	KindImport
	KindNamespace
	KindUsing
	KindExternal
	KindPreset
)

func (k TypeDeclKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindRecord:
		return "record"
	case KindVariant:
		return "variant"
	case KindFeature:
		return "feature"
	case KindImpl:
		return "impl"
	case KindImport:
		return "import"
	case KindNamespace:
		return "namespace"
	case KindUsing:
		return "using"
	case KindExternal:
		return "external"
	case KindPreset:
		return "preset"
	default:
		return "unknown"
	}
}

// TypeDecl represents a class/struct/variant/feature/impl/import/namespace/
// using/external/preset declaration; see TypeDeclKind.
type TypeDecl struct {
	Kind    TypeDeclKind
	Name    string
	Members []Declaration
	Sp      source.Span
}

func (d *TypeDecl) Span() source.Span { return d.Sp }
func (d *TypeDecl) String() string    { return d.Kind.String() + " " + d.Name }
func (d *TypeDecl) statementNode()    {}
func (d *TypeDecl) declarationNode()  {}
