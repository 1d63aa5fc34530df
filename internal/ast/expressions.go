package ast

import "github.com/forge-lang/forgec/internal/source"

// LiteralKind tags the kind of a Literal's Value.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitFloat
	LitString
	LitBool
	LitChar
	LitNone
)

// Literal is a constant value written in source.
type Literal struct {
	Value interface{}
	Sp    source.Span
	Kind  LiteralKind
}

func (e *Literal) Span() source.Span { return e.Sp }
func (e *Literal) String() string    { return "literal" }
func (e *Literal) expressionNode()   {}

// ListLiteral, SetLiteral share a shape; Kind distinguishes them for
// diagnostics (and because container-move detection in the memory analyzer
// treats list/set construction identically).
type CollectionKind int

const (
	CollectionList CollectionKind = iota
	CollectionSet
)

type CollectionLiteral struct {
	Elements []Expression
	Sp       source.Span
	Kind     CollectionKind
}

func (e *CollectionLiteral) Span() source.Span { return e.Sp }
func (e *CollectionLiteral) String() string    { return "collection" }
func (e *CollectionLiteral) expressionNode()   {}

// DictLiteral is a key/value map literal.
type DictLiteral struct {
	Keys   []Expression
	Values []Expression
	Sp     source.Span
}

func (e *DictLiteral) Span() source.Span { return e.Sp }
func (e *DictLiteral) String() string    { return "dict" }
func (e *DictLiteral) expressionNode()   {}

// Identifier is a bare name reference.
type Identifier struct {
	Name string
	Sp   source.Span
}

func (e *Identifier) Span() source.Span { return e.Sp }
func (e *Identifier) String() string    { return e.Name }
func (e *Identifier) expressionNode()   {}

// BinaryExpr is "left op right".
type BinaryExpr struct {
	Left  Expression
	Right Expression
	Op    string
	Sp    source.Span
}

func (e *BinaryExpr) Span() source.Span { return e.Sp }
func (e *BinaryExpr) String() string    { return e.Op }
func (e *BinaryExpr) expressionNode()   {}

// UnaryExpr is "op x".
type UnaryExpr struct {
	X  Expression
	Op string
	Sp source.Span
}

func (e *UnaryExpr) Span() source.Span { return e.Sp }
func (e *UnaryExpr) String() string    { return e.Op }
func (e *UnaryExpr) expressionNode()   {}

// NamedArgument wraps a call argument passed by name: "f(x: 1)".
type NamedArgument struct {
	Value Expression
	Name  string
	Sp    source.Span
}

func (e *NamedArgument) Span() source.Span { return e.Sp }
func (e *NamedArgument) String() string    { return e.Name + ": " + e.Value.String() }
func (e *NamedArgument) expressionNode()   {}

// CallExpr is an ordinary call; the semantic analyzer's call dispatcher
// (spec.md §4.4) inspects Callee's shape to decide whether this is really a
// failable conversion, a construction, an intrinsic, a memory operation, or
// a plain call before falling through to argument validation.
type CallExpr struct {
	Callee Expression
	Args   []Expression
	Sp     source.Span
}

func (e *CallExpr) Span() source.Span { return e.Sp }
func (e *CallExpr) String() string    { return "call" }
func (e *CallExpr) expressionNode()   {}

// MemberExpr is "x.name".
type MemberExpr struct {
	X    Expression
	Name string
	Sp   source.Span
}

func (e *MemberExpr) Span() source.Span { return e.Sp }
func (e *MemberExpr) String() string    { return "." + e.Name }
func (e *MemberExpr) expressionNode()   {}

// IndexExpr is "x[index]".
type IndexExpr struct {
	X     Expression
	Index Expression
	Sp    source.Span
}

func (e *IndexExpr) Span() source.Span { return e.Sp }
func (e *IndexExpr) String() string    { return "index" }
func (e *IndexExpr) expressionNode()   {}

// ConditionalExpr is "cond ? then : else".
type ConditionalExpr struct {
	Cond Expression
	Then Expression
	Else Expression
	Sp   source.Span
}

func (e *ConditionalExpr) Span() source.Span { return e.Sp }
func (e *ConditionalExpr) String() string    { return "conditional" }
func (e *ConditionalExpr) expressionNode()   {}

// BlockExpr is a block used in expression position, evaluating to the value
// of its last statement.
type BlockExpr struct {
	Body *BlockStatement
	Sp   source.Span
}

func (e *BlockExpr) Span() source.Span { return e.Sp }
func (e *BlockExpr) String() string    { return "block-expr" }
func (e *BlockExpr) expressionNode()   {}

// RangeExpr is "start..end" (Inclusive selects ".." vs "...").
type RangeExpr struct {
	Start     Expression
	End       Expression
	Sp        source.Span
	Inclusive bool
}

func (e *RangeExpr) Span() source.Span { return e.Sp }
func (e *RangeExpr) String() string    { return "range" }
func (e *RangeExpr) expressionNode()   {}

// ChainedComparisonExpr is "a < b < c"-style chained comparisons.
type ChainedComparisonExpr struct {
	Operands []Expression
	Ops      []string
	Sp       source.Span
}

func (e *ChainedComparisonExpr) Span() source.Span { return e.Sp }
func (e *ChainedComparisonExpr) String() string    { return "chained-comparison" }
func (e *ChainedComparisonExpr) expressionNode()   {}

// LambdaExpr is an anonymous function. Its body gets a fresh symbol and
// memory scope exactly like a named function (spec.md §9 open question 5).
type LambdaExpr struct {
	Body   *BlockStatement
	Params []*Param
	Sp     source.Span
}

func (e *LambdaExpr) Span() source.Span { return e.Sp }
func (e *LambdaExpr) String() string    { return "lambda" }
func (e *LambdaExpr) expressionNode()   {}

// TypeRefExpr uses a type itself as a value (e.g. passing a type to a
// generic call as an explicit argument, or a `typeof`-style reference).
type TypeRefExpr struct {
	Type TypeExpr
	Sp   source.Span
}

func (e *TypeRefExpr) Span() source.Span { return e.Sp }
func (e *TypeRefExpr) String() string    { return "type-ref" }
func (e *TypeRefExpr) expressionNode()   {}

// TypeConversionExpr is an explicit conversion "Type(x)" that is not a
// failable conversion (those use the "Type!(x)" callee shape instead, see
// CallExpr and internal/semantic's call dispatcher).
type TypeConversionExpr struct {
	Type TypeExpr
	X    Expression
	Sp   source.Span
}

func (e *TypeConversionExpr) Span() source.Span { return e.Sp }
func (e *TypeConversionExpr) String() string    { return "conversion" }
func (e *TypeConversionExpr) expressionNode()   {}

// SliceConstructorExpr builds a typed slice/array literal "[ElemType]{...}".
type SliceConstructorExpr struct {
	ElemType TypeExpr
	Elements []Expression
	Sp       source.Span
}

func (e *SliceConstructorExpr) Span() source.Span { return e.Sp }
func (e *SliceConstructorExpr) String() string    { return "slice-constructor" }
func (e *SliceConstructorExpr) expressionNode()   {}

// GenericMethodCallExpr is "x.method<TypeArgs>(args)".
type GenericMethodCallExpr struct {
	X        Expression
	Method   string
	TypeArgs []TypeExpr
	Args     []Expression
	Sp       source.Span
}

func (e *GenericMethodCallExpr) Span() source.Span { return e.Sp }
func (e *GenericMethodCallExpr) String() string    { return "generic-method-call" }
func (e *GenericMethodCallExpr) expressionNode()   {}

// GenericMemberExpr is "x.Name<TypeArgs>" (a generic member access without a
// call, e.g. referencing a generic nested type).
type GenericMemberExpr struct {
	X        Expression
	Name     string
	TypeArgs []TypeExpr
	Sp       source.Span
}

func (e *GenericMemberExpr) Span() source.Span { return e.Sp }
func (e *GenericMemberExpr) String() string    { return "generic-member" }
func (e *GenericMemberExpr) expressionNode()   {}

// MemoryOpExpr is "receiver.op()" or "receiver.op(policy)" where op names a
// memory operation (hijack, retain, share, track, steal, release, recover,
// try_recover, snatch, reveal, own) or a scoped fallible-lock probe
// (try_seize, check_seize, try_inspect, check_inspect). The parser is
// expected to recognize these member-call shapes and produce this node
// directly rather than a plain CallExpr/MemberExpr pair, per spec.md §6.
type MemoryOpExpr struct {
	Receiver Expression
	Op       string
	Policy   string
	Sp       source.Span
	Fallible bool
}

func (e *MemoryOpExpr) Span() source.Span { return e.Sp }
func (e *MemoryOpExpr) String() string    { return "memory-op:" + e.Op }
func (e *MemoryOpExpr) expressionNode()   {}

// IntrinsicCallExpr invokes a compiler intrinsic (sizeof, alignof,
// address_of, invalidate, ...); TypeArgs is used by type-level intrinsics
// like sizeof<T>().
type IntrinsicCallExpr struct {
	Name     string
	TypeArgs []TypeExpr
	Args     []Expression
	Sp       source.Span
}

func (e *IntrinsicCallExpr) Span() source.Span { return e.Sp }
func (e *IntrinsicCallExpr) String() string    { return "intrinsic:" + e.Name }
func (e *IntrinsicCallExpr) expressionNode()   {}

// NativeCallExpr invokes a native/FFI function, permitted only inside a
// danger block unless Name names a compile-time intrinsic.
type NativeCallExpr struct {
	Name string
	Args []Expression
	Sp   source.Span
}

func (e *NativeCallExpr) Span() source.Span { return e.Sp }
func (e *NativeCallExpr) String() string    { return "native:" + e.Name }
func (e *NativeCallExpr) expressionNode()   {}

// ConstructorExpr builds a value of TypeName, either positionally (Args) or
// with named fields (Named).
type ConstructorExpr struct {
	TypeName string
	TypeArgs []TypeExpr
	Args     []Expression
	Named    []*NamedArgument
	Sp       source.Span
}

func (e *ConstructorExpr) Span() source.Span { return e.Sp }
func (e *ConstructorExpr) String() string    { return "new " + e.TypeName }
func (e *ConstructorExpr) expressionNode()   {}
