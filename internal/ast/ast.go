// Package ast defines the node shapes the semantic core accepts as input.
//
// Lexing, parsing, and surface syntax are out of scope for this module (see
// spec.md §1): this package is the *interface* to that external collaborator,
// not a parser. Node shapes are kept deliberately minimal — just enough field
// data for the symbol table, memory analyzer, semantic analyzer, and variant
// generator to do their work against hand-built or JSON-deserialized trees.
//
// Dispatch over these nodes uses a Go type switch, not a Visitor/Accept
// interface (see spec.md §9: "AST visitor polymorphism... replace with
// tagged sum types plus exhaustive matching").
package ast

import "github.com/forge-lang/forgec/internal/source"

// Node is the base interface implemented by every AST node.
type Node interface {
	Span() source.Span
	String() string
}

// Statement is any node that can appear in a block's statement list.
type Statement interface {
	Node
	statementNode()
}

// Expression is any node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Declaration is a statement that introduces a new name into scope.
type Declaration interface {
	Statement
	declarationNode()
}

// TypeExpr is a reference to a type as written in source (unresolved).
type TypeExpr interface {
	Node
	typeExprNode()
}

// Program is the root of the tree: a flat list of top-level declarations.
type Program struct {
	Decls []Declaration
	Sp    source.Span
}

func (p *Program) Span() source.Span { return p.Sp }
func (p *Program) String() string    { return "Program" }
