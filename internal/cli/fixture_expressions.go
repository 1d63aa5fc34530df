package cli

import (
	"encoding/json"
	"fmt"

	"github.com/forge-lang/forgec/internal/ast"
)

func decodeExpressionOpt(data json.RawMessage) (ast.Expression, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return decodeExpression(data)
}

func decodeExpression(data json.RawMessage) (ast.Expression, error) {
	kind, err := peekKind(data)
	if err != nil {
		return nil, err
	}

	switch kind {
	case "Literal":
		var raw struct {
			LitKind string          `json:"litKind"`
			Value   json.RawMessage `json:"value"`
			Span    rawSpan         `json:"span"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		lk, value, err := decodeLiteralValue(raw.LitKind, raw.Value)
		if err != nil {
			return nil, fmt.Errorf("Literal: %w", err)
		}
		return &ast.Literal{Kind: lk, Value: value, Sp: raw.Span.toSpan()}, nil

	case "Identifier":
		var raw struct {
			Name string  `json:"name"`
			Span rawSpan `json:"span"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return &ast.Identifier{Name: raw.Name, Sp: raw.Span.toSpan()}, nil

	case "BinaryExpr":
		var raw struct {
			Op    string          `json:"op"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
			Span  rawSpan         `json:"span"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		left, err := decodeExpression(raw.Left)
		if err != nil {
			return nil, fmt.Errorf("BinaryExpr left: %w", err)
		}
		right, err := decodeExpression(raw.Right)
		if err != nil {
			return nil, fmt.Errorf("BinaryExpr right: %w", err)
		}
		return &ast.BinaryExpr{Op: raw.Op, Left: left, Right: right, Sp: raw.Span.toSpan()}, nil

	case "UnaryExpr":
		var raw struct {
			Op   string          `json:"op"`
			X    json.RawMessage `json:"x"`
			Span rawSpan         `json:"span"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		x, err := decodeExpression(raw.X)
		if err != nil {
			return nil, fmt.Errorf("UnaryExpr: %w", err)
		}
		return &ast.UnaryExpr{Op: raw.Op, X: x, Sp: raw.Span.toSpan()}, nil

	case "CallExpr":
		var raw struct {
			Callee json.RawMessage   `json:"callee"`
			Args   []json.RawMessage `json:"args"`
			Span   rawSpan           `json:"span"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		callee, err := decodeExpression(raw.Callee)
		if err != nil {
			return nil, fmt.Errorf("CallExpr callee: %w", err)
		}
		args, err := decodeExpressionList(raw.Args)
		if err != nil {
			return nil, fmt.Errorf("CallExpr args: %w", err)
		}
		return &ast.CallExpr{Callee: callee, Args: args, Sp: raw.Span.toSpan()}, nil

	case "MemberExpr":
		var raw struct {
			X    json.RawMessage `json:"x"`
			Name string          `json:"name"`
			Span rawSpan         `json:"span"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		x, err := decodeExpression(raw.X)
		if err != nil {
			return nil, fmt.Errorf("MemberExpr: %w", err)
		}
		return &ast.MemberExpr{X: x, Name: raw.Name, Sp: raw.Span.toSpan()}, nil

	case "IndexExpr":
		var raw struct {
			X     json.RawMessage `json:"x"`
			Index json.RawMessage `json:"index"`
			Span  rawSpan         `json:"span"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		x, err := decodeExpression(raw.X)
		if err != nil {
			return nil, fmt.Errorf("IndexExpr x: %w", err)
		}
		index, err := decodeExpression(raw.Index)
		if err != nil {
			return nil, fmt.Errorf("IndexExpr index: %w", err)
		}
		return &ast.IndexExpr{X: x, Index: index, Sp: raw.Span.toSpan()}, nil

	case "MemoryOpExpr":
		var raw struct {
			Receiver json.RawMessage `json:"receiver"`
			Op       string          `json:"op"`
			Policy   string          `json:"policy"`
			Fallible bool            `json:"fallible"`
			Span     rawSpan         `json:"span"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		recv, err := decodeExpression(raw.Receiver)
		if err != nil {
			return nil, fmt.Errorf("MemoryOpExpr: %w", err)
		}
		return &ast.MemoryOpExpr{Receiver: recv, Op: raw.Op, Policy: raw.Policy, Fallible: raw.Fallible, Sp: raw.Span.toSpan()}, nil

	case "ConstructorExpr":
		var raw struct {
			TypeName string              `json:"typeName"`
			TypeArgs []json.RawMessage    `json:"typeArgs"`
			Args     []json.RawMessage    `json:"args"`
			Named    []rawNamedArgument   `json:"named"`
			Span     rawSpan              `json:"span"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		typeArgs, err := decodeTypeList(raw.TypeArgs)
		if err != nil {
			return nil, fmt.Errorf("ConstructorExpr %q: %w", raw.TypeName, err)
		}
		args, err := decodeExpressionList(raw.Args)
		if err != nil {
			return nil, fmt.Errorf("ConstructorExpr %q: %w", raw.TypeName, err)
		}
		named := make([]*ast.NamedArgument, 0, len(raw.Named))
		for _, n := range raw.Named {
			na, err := n.decode()
			if err != nil {
				return nil, fmt.Errorf("ConstructorExpr %q named arg: %w", raw.TypeName, err)
			}
			named = append(named, na)
		}
		return &ast.ConstructorExpr{TypeName: raw.TypeName, TypeArgs: typeArgs, Args: args, Named: named, Sp: raw.Span.toSpan()}, nil

	case "LambdaExpr":
		var raw struct {
			Params []rawParam      `json:"params"`
			Body   json.RawMessage `json:"body"`
			Span   rawSpan         `json:"span"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		params, err := decodeParams(raw.Params)
		if err != nil {
			return nil, fmt.Errorf("LambdaExpr: %w", err)
		}
		body, err := decodeBlock(raw.Body)
		if err != nil {
			return nil, fmt.Errorf("LambdaExpr: %w", err)
		}
		return &ast.LambdaExpr{Params: params, Body: body, Sp: raw.Span.toSpan()}, nil

	case "CollectionLiteral":
		var raw struct {
			CollKind string            `json:"collKind"`
			Elements []json.RawMessage `json:"elements"`
			Span     rawSpan           `json:"span"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		elems, err := decodeExpressionList(raw.Elements)
		if err != nil {
			return nil, fmt.Errorf("CollectionLiteral: %w", err)
		}
		ck := ast.CollectionList
		if raw.CollKind == "set" {
			ck = ast.CollectionSet
		}
		return &ast.CollectionLiteral{Kind: ck, Elements: elems, Sp: raw.Span.toSpan()}, nil

	case "DictLiteral":
		var raw struct {
			Keys   []json.RawMessage `json:"keys"`
			Values []json.RawMessage `json:"values"`
			Span   rawSpan           `json:"span"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		keys, err := decodeExpressionList(raw.Keys)
		if err != nil {
			return nil, fmt.Errorf("DictLiteral keys: %w", err)
		}
		values, err := decodeExpressionList(raw.Values)
		if err != nil {
			return nil, fmt.Errorf("DictLiteral values: %w", err)
		}
		return &ast.DictLiteral{Keys: keys, Values: values, Sp: raw.Span.toSpan()}, nil

	case "IntrinsicCallExpr":
		var raw struct {
			Name     string            `json:"name"`
			TypeArgs []json.RawMessage `json:"typeArgs"`
			Args     []json.RawMessage `json:"args"`
			Span     rawSpan           `json:"span"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		typeArgs, err := decodeTypeList(raw.TypeArgs)
		if err != nil {
			return nil, fmt.Errorf("IntrinsicCallExpr %q: %w", raw.Name, err)
		}
		args, err := decodeExpressionList(raw.Args)
		if err != nil {
			return nil, fmt.Errorf("IntrinsicCallExpr %q: %w", raw.Name, err)
		}
		return &ast.IntrinsicCallExpr{Name: raw.Name, TypeArgs: typeArgs, Args: args, Sp: raw.Span.toSpan()}, nil

	case "NativeCallExpr":
		var raw struct {
			Name string            `json:"name"`
			Args []json.RawMessage `json:"args"`
			Span rawSpan           `json:"span"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		args, err := decodeExpressionList(raw.Args)
		if err != nil {
			return nil, fmt.Errorf("NativeCallExpr %q: %w", raw.Name, err)
		}
		return &ast.NativeCallExpr{Name: raw.Name, Args: args, Sp: raw.Span.toSpan()}, nil

	default:
		return nil, fmt.Errorf("unrecognized expression kind %q", kind)
	}
}

func decodeExpressionList(raws []json.RawMessage) ([]ast.Expression, error) {
	out := make([]ast.Expression, 0, len(raws))
	for i, r := range raws {
		e, err := decodeExpression(r)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

type rawNamedArgument struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
	Span  rawSpan         `json:"span"`
}

func (n rawNamedArgument) decode() (*ast.NamedArgument, error) {
	value, err := decodeExpression(n.Value)
	if err != nil {
		return nil, err
	}
	return &ast.NamedArgument{Name: n.Name, Value: value, Sp: n.Span.toSpan()}, nil
}

func decodeLiteralValue(litKind string, raw json.RawMessage) (ast.LiteralKind, interface{}, error) {
	switch litKind {
	case "int":
		var v int64
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &v); err != nil {
				return 0, nil, err
			}
		}
		return ast.LitInt, v, nil
	case "float":
		var v float64
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &v); err != nil {
				return 0, nil, err
			}
		}
		return ast.LitFloat, v, nil
	case "string":
		var v string
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &v); err != nil {
				return 0, nil, err
			}
		}
		return ast.LitString, v, nil
	case "bool":
		var v bool
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &v); err != nil {
				return 0, nil, err
			}
		}
		return ast.LitBool, v, nil
	case "char":
		var v string
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &v); err != nil {
				return 0, nil, err
			}
		}
		return ast.LitChar, v, nil
	case "none", "":
		return ast.LitNone, nil, nil
	default:
		return 0, nil, fmt.Errorf("unrecognized literal kind %q", litKind)
	}
}
