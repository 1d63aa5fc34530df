// Package symtab implements the symbol table and lexical scope stack.
// Scopes nest in a parent chain; lookup walks innermost-first. A function
// name redeclared with another function collapses the entry into an
// overload set rather than erroring, mirroring how a method table accretes
// overloads; any other kind of redeclaration over an existing entry is a
// DuplicateDeclaration error.
package symtab

import (
	"github.com/forge-lang/forgec/internal/source"
	"github.com/forge-lang/forgec/internal/typesys"
)

// Kind tags which variant a Symbol holds.
type Kind int

const (
	KindVariable Kind = iota
	KindFunction
	KindOverloadSet
	KindType
)

func (k Kind) String() string {
	switch k {
	case KindVariable:
		return "variable"
	case KindFunction:
		return "function"
	case KindOverloadSet:
		return "overload set"
	case KindType:
		return "type"
	default:
		return "unknown"
	}
}

// FunctionSignature is the subset of a function declaration the symbol
// table needs to retain: its parameter types and return type.
type FunctionSignature struct {
	Params     []typesys.TypeInfo
	ReturnType typesys.TypeInfo
	IsUsurping bool
	IsFailable bool
}

// Symbol is a tagged variant: exactly the fields relevant to Kind are
// meaningful. Variable holds Type/IsMut; Function holds Sig; OverloadSet
// holds Overloads; TypeSymbol holds nothing beyond Name (the declared-type
// registry itself lives outside symtab).
type Symbol struct {
	Type      typesys.TypeInfo
	Sig       *FunctionSignature
	Overloads []*FunctionSignature
	Name      string
	DeclaredAt source.Position
	Kind      Kind
	IsMut     bool
}

// NewVariable builds a variable symbol.
func NewVariable(name string, t typesys.TypeInfo, isMut bool, at source.Position) *Symbol {
	return &Symbol{Name: name, Kind: KindVariable, Type: t, IsMut: isMut, DeclaredAt: at}
}

// NewFunction builds a single (non-overloaded) function symbol.
func NewFunction(name string, sig *FunctionSignature, at source.Position) *Symbol {
	return &Symbol{Name: name, Kind: KindFunction, Sig: sig, DeclaredAt: at}
}

// NewType builds a type symbol (class/record/variant/feature name).
func NewType(name string, at source.Position) *Symbol {
	return &Symbol{Name: name, Kind: KindType, DeclaredAt: at}
}
