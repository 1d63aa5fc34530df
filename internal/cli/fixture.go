// Package cli hosts the forgec command-line driver: a thin Cobra front end
// over the Symbol Table -> Memory Analyzer -> Semantic Analyzer -> Variant
// Generator pipeline. Parsing real Forge/Sweet source is out of scope, so
// the driver's only input format is a JSON-serialized AST fixture; this file
// defines that JSON shape and its conversion into internal/ast nodes. The
// core packages never see this format directly — they only ever take
// ast.Program.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/forge-lang/forgec/internal/ast"
	"github.com/forge-lang/forgec/internal/source"
)

// fixtureNode names the generic JSON shape of every node: a discriminator
// tag plus its kind-specific fields. The decoders themselves read the tag
// with peekKind and do not use this type.
type fixtureNode struct {
	Kind string          `json:"kind"`
	Raw  json.RawMessage `json:"-"`
}

// rawSpan mirrors source.Span for JSON decoding; a missing span decodes to
// the zero position rather than failing, since fixtures are hand-written.
type rawSpan struct {
	File        string `json:"file"`
	Line        int    `json:"line"`
	Col         int    `json:"col"`
	EndLine     int    `json:"endLine"`
	EndCol      int    `json:"endCol"`
}

func (r rawSpan) toSpan() source.Span {
	start := source.Position{File: r.File, Line: r.Line, Column: r.Col}
	end := start
	if r.EndLine != 0 {
		end = source.Position{File: r.File, Line: r.EndLine, Column: r.EndCol}
	}
	return source.Span{Start: start, End: end}
}

// DecodeProgram parses a JSON AST fixture into an *ast.Program.
func DecodeProgram(data []byte) (*ast.Program, error) {
	var raw struct {
		Decls []json.RawMessage `json:"decls"`
		Span  rawSpan           `json:"span"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode program: %w", err)
	}
	prog := &ast.Program{Sp: raw.Span.toSpan()}
	for i, d := range raw.Decls {
		decl, err := decodeDeclaration(d)
		if err != nil {
			return nil, fmt.Errorf("decl[%d]: %w", i, err)
		}
		prog.Decls = append(prog.Decls, decl)
	}
	return prog, nil
}

func decodeDeclaration(data json.RawMessage) (ast.Declaration, error) {
	st, err := decodeStatement(data)
	if err != nil {
		return nil, err
	}
	decl, ok := st.(ast.Declaration)
	if !ok {
		return nil, fmt.Errorf("%T is not a top-level declaration", st)
	}
	return decl, nil
}

func peekKind(data json.RawMessage) (string, error) {
	var head struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return "", err
	}
	if head.Kind == "" {
		return "", fmt.Errorf("node missing \"kind\" field: %s", data)
	}
	return head.Kind, nil
}

func decodeBlock(data json.RawMessage) (*ast.BlockStatement, error) {
	if data == nil {
		return nil, nil
	}
	var raw struct {
		Stmts []json.RawMessage `json:"stmts"`
		Span  rawSpan           `json:"span"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("block: %w", err)
	}
	block := &ast.BlockStatement{Sp: raw.Span.toSpan()}
	for i, s := range raw.Stmts {
		st, err := decodeStatement(s)
		if err != nil {
			return nil, fmt.Errorf("block stmt[%d]: %w", i, err)
		}
		block.Stmts = append(block.Stmts, st)
	}
	return block, nil
}
