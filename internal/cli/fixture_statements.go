package cli

import (
	"encoding/json"
	"fmt"

	"github.com/forge-lang/forgec/internal/ast"
)

func decodeStatement(data json.RawMessage) (ast.Statement, error) {
	kind, err := peekKind(data)
	if err != nil {
		return nil, err
	}

	switch kind {
	case "VariableDecl":
		var raw struct {
			Name     string          `json:"name"`
			Declared json.RawMessage `json:"declared"`
			Init     json.RawMessage `json:"init"`
			IsMut    bool            `json:"isMut"`
			Span     rawSpan         `json:"span"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		declared, err := decodeType(raw.Declared)
		if err != nil {
			return nil, fmt.Errorf("VariableDecl %q: %w", raw.Name, err)
		}
		init, err := decodeExpressionOpt(raw.Init)
		if err != nil {
			return nil, fmt.Errorf("VariableDecl %q: %w", raw.Name, err)
		}
		return &ast.VariableDecl{Name: raw.Name, Declared: declared, Init: init, IsMut: raw.IsMut, Sp: raw.Span.toSpan()}, nil

	case "FunctionDecl":
		var raw struct {
			Name              string          `json:"name"`
			Generics          []string        `json:"generics"`
			Params            []rawParam      `json:"params"`
			ReturnType        json.RawMessage `json:"returnType"`
			Body              json.RawMessage `json:"body"`
			IsUsurping        bool            `json:"isUsurping"`
			UsurpingHeuristic bool            `json:"usurpingHeuristic"`
			IsCrashOnly       bool            `json:"isCrashOnly"`
			Span              rawSpan         `json:"span"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		retType, err := decodeType(raw.ReturnType)
		if err != nil {
			return nil, fmt.Errorf("FunctionDecl %q: %w", raw.Name, err)
		}
		body, err := decodeBlock(raw.Body)
		if err != nil {
			return nil, fmt.Errorf("FunctionDecl %q: %w", raw.Name, err)
		}
		params, err := decodeParams(raw.Params)
		if err != nil {
			return nil, fmt.Errorf("FunctionDecl %q: %w", raw.Name, err)
		}
		return &ast.FunctionDecl{
			Name: raw.Name, Generics: raw.Generics, Params: params, ReturnType: retType, Body: body,
			IsUsurping: raw.IsUsurping, UsurpingHeuristic: raw.UsurpingHeuristic, IsCrashOnly: raw.IsCrashOnly,
			Sp: raw.Span.toSpan(),
		}, nil

	case "TypeDecl":
		var raw struct {
			Kind    string            `json:"declKind"`
			Name    string            `json:"name"`
			Members []json.RawMessage `json:"members"`
			Span    rawSpan           `json:"span"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		decl := &ast.TypeDecl{Kind: typeDeclKindFromString(raw.Kind), Name: raw.Name, Sp: raw.Span.toSpan()}
		for i, m := range raw.Members {
			member, err := decodeDeclaration(m)
			if err != nil {
				return nil, fmt.Errorf("TypeDecl %q member[%d]: %w", raw.Name, i, err)
			}
			decl.Members = append(decl.Members, member)
		}
		return decl, nil

	case "ExpressionStatement":
		var raw struct {
			X    json.RawMessage `json:"x"`
			Span rawSpan         `json:"span"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		x, err := decodeExpression(raw.X)
		if err != nil {
			return nil, fmt.Errorf("ExpressionStatement: %w", err)
		}
		return &ast.ExpressionStatement{X: x, Sp: raw.Span.toSpan()}, nil

	case "AssignmentStatement":
		var raw struct {
			Target json.RawMessage `json:"target"`
			Value  json.RawMessage `json:"value"`
			Span   rawSpan         `json:"span"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		target, err := decodeExpression(raw.Target)
		if err != nil {
			return nil, fmt.Errorf("AssignmentStatement target: %w", err)
		}
		value, err := decodeExpression(raw.Value)
		if err != nil {
			return nil, fmt.Errorf("AssignmentStatement value: %w", err)
		}
		return &ast.AssignmentStatement{Target: target, Value: value, Sp: raw.Span.toSpan()}, nil

	case "ReturnStatement":
		var raw struct {
			Value json.RawMessage `json:"value"`
			Span  rawSpan         `json:"span"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		value, err := decodeExpressionOpt(raw.Value)
		if err != nil {
			return nil, fmt.Errorf("ReturnStatement: %w", err)
		}
		return &ast.ReturnStatement{Value: value, Sp: raw.Span.toSpan()}, nil

	case "FailStatement":
		var raw struct {
			Value json.RawMessage `json:"value"`
			Span  rawSpan         `json:"span"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		value, err := decodeExpressionOpt(raw.Value)
		if err != nil {
			return nil, fmt.Errorf("FailStatement: %w", err)
		}
		return &ast.FailStatement{Value: value, Sp: raw.Span.toSpan()}, nil

	case "AbsentStatement":
		var raw struct {
			Span rawSpan `json:"span"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return &ast.AbsentStatement{Sp: raw.Span.toSpan()}, nil

	case "PassStatement":
		var raw struct {
			Span rawSpan `json:"span"`
		}
		json.Unmarshal(data, &raw)
		return &ast.PassStatement{Sp: raw.Span.toSpan()}, nil

	case "BreakStatement":
		var raw struct {
			Span rawSpan `json:"span"`
		}
		json.Unmarshal(data, &raw)
		return &ast.BreakStatement{Sp: raw.Span.toSpan()}, nil

	case "ContinueStatement":
		var raw struct {
			Span rawSpan `json:"span"`
		}
		json.Unmarshal(data, &raw)
		return &ast.ContinueStatement{Sp: raw.Span.toSpan()}, nil

	case "ThrowStatement":
		var raw struct {
			Value json.RawMessage `json:"value"`
			Span  rawSpan         `json:"span"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		value, err := decodeExpression(raw.Value)
		if err != nil {
			return nil, fmt.Errorf("ThrowStatement: %w", err)
		}
		return &ast.ThrowStatement{Value: value, Sp: raw.Span.toSpan()}, nil

	case "BlockStatement":
		return decodeBlock(data)

	case "IfStatement":
		var raw struct {
			Cond json.RawMessage `json:"cond"`
			Then json.RawMessage `json:"then"`
			Else json.RawMessage `json:"else"`
			Span rawSpan         `json:"span"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		cond, err := decodeExpression(raw.Cond)
		if err != nil {
			return nil, fmt.Errorf("IfStatement cond: %w", err)
		}
		then, err := decodeBlock(raw.Then)
		if err != nil {
			return nil, fmt.Errorf("IfStatement then: %w", err)
		}
		var elseStmt ast.Statement
		if len(raw.Else) > 0 {
			elseKind, err := peekKind(raw.Else)
			if err != nil {
				return nil, fmt.Errorf("IfStatement else: %w", err)
			}
			if elseKind == "BlockStatement" {
				elseStmt, err = decodeBlock(raw.Else)
			} else {
				elseStmt, err = decodeStatement(raw.Else)
			}
			if err != nil {
				return nil, fmt.Errorf("IfStatement else: %w", err)
			}
		}
		return &ast.IfStatement{Cond: cond, Then: then, Else: elseStmt, Sp: raw.Span.toSpan()}, nil

	case "WhileStatement":
		var raw struct {
			Cond json.RawMessage `json:"cond"`
			Body json.RawMessage `json:"body"`
			Span rawSpan         `json:"span"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		cond, err := decodeExpression(raw.Cond)
		if err != nil {
			return nil, fmt.Errorf("WhileStatement cond: %w", err)
		}
		body, err := decodeBlock(raw.Body)
		if err != nil {
			return nil, fmt.Errorf("WhileStatement body: %w", err)
		}
		return &ast.WhileStatement{Cond: cond, Body: body, Sp: raw.Span.toSpan()}, nil

	case "ForStatement":
		var raw struct {
			Var      string          `json:"var"`
			Iterable json.RawMessage `json:"iterable"`
			Body     json.RawMessage `json:"body"`
			Span     rawSpan         `json:"span"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		iterable, err := decodeExpression(raw.Iterable)
		if err != nil {
			return nil, fmt.Errorf("ForStatement iterable: %w", err)
		}
		body, err := decodeBlock(raw.Body)
		if err != nil {
			return nil, fmt.Errorf("ForStatement body: %w", err)
		}
		return &ast.ForStatement{Var: raw.Var, Iterable: iterable, Body: body, Sp: raw.Span.toSpan()}, nil

	case "WhenStatement":
		var raw struct {
			Scrutinee json.RawMessage `json:"scrutinee"`
			Arms      []rawWhenArm    `json:"arms"`
			Span      rawSpan         `json:"span"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		scrutinee, err := decodeExpression(raw.Scrutinee)
		if err != nil {
			return nil, fmt.Errorf("WhenStatement scrutinee: %w", err)
		}
		st := &ast.WhenStatement{Scrutinee: scrutinee, Sp: raw.Span.toSpan()}
		for i, a := range raw.Arms {
			arm, err := a.decode()
			if err != nil {
				return nil, fmt.Errorf("WhenStatement arm[%d]: %w", i, err)
			}
			st.Arms = append(st.Arms, arm)
		}
		return st, nil

	case "ScopedAccessStatement":
		var raw struct {
			AccessKind string          `json:"accessKind"`
			Handle     string          `json:"handle"`
			Source     json.RawMessage `json:"source"`
			Body       json.RawMessage `json:"body"`
			Span       rawSpan         `json:"span"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		src, err := decodeExpression(raw.Source)
		if err != nil {
			return nil, fmt.Errorf("ScopedAccessStatement source: %w", err)
		}
		body, err := decodeBlock(raw.Body)
		if err != nil {
			return nil, fmt.Errorf("ScopedAccessStatement body: %w", err)
		}
		return &ast.ScopedAccessStatement{
			Kind: scopedAccessKindFromString(raw.AccessKind), Handle: raw.Handle, Source: src, Body: body, Sp: raw.Span.toSpan(),
		}, nil

	case "DangerStatement":
		var raw struct {
			Body json.RawMessage `json:"body"`
			Span rawSpan         `json:"span"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		body, err := decodeBlock(raw.Body)
		if err != nil {
			return nil, fmt.Errorf("DangerStatement: %w", err)
		}
		return &ast.DangerStatement{Body: body, Sp: raw.Span.toSpan()}, nil

	default:
		return nil, fmt.Errorf("unrecognized statement kind %q", kind)
	}
}

type rawParam struct {
	Name  string          `json:"name"`
	Type  json.RawMessage `json:"type"`
	IsMut bool            `json:"isMut"`
	Span  rawSpan         `json:"span"`
}

func decodeParams(raw []rawParam) ([]*ast.Param, error) {
	params := make([]*ast.Param, 0, len(raw))
	for _, p := range raw {
		t, err := decodeType(p.Type)
		if err != nil {
			return nil, fmt.Errorf("param %q: %w", p.Name, err)
		}
		params = append(params, &ast.Param{Name: p.Name, Type: t, IsMut: p.IsMut, Sp: p.Span.toSpan()})
	}
	return params, nil
}

type rawWhenArm struct {
	Guard      json.RawMessage `json:"guard"`
	Body       json.RawMessage `json:"body"`
	Binds      []string        `json:"binds"`
	IsCatchAll bool            `json:"isCatchAll"`
}

func (a rawWhenArm) decode() (*ast.WhenArm, error) {
	guard, err := decodeExpressionOpt(a.Guard)
	if err != nil {
		return nil, err
	}
	body, err := decodeBlock(a.Body)
	if err != nil {
		return nil, err
	}
	return &ast.WhenArm{Guard: guard, Body: body, Binds: a.Binds, IsCatchAll: a.IsCatchAll}, nil
}

func typeDeclKindFromString(s string) ast.TypeDeclKind {
	switch s {
	case "class":
		return ast.KindClass
	case "record":
		return ast.KindRecord
	case "variant":
		return ast.KindVariant
	case "feature":
		return ast.KindFeature
	case "impl":
		return ast.KindImpl
	case "import":
		return ast.KindImport
	case "namespace":
		return ast.KindNamespace
	case "using":
		return ast.KindUsing
	case "external":
		return ast.KindExternal
	case "preset":
		return ast.KindPreset
	default:
		return ast.KindClass
	}
}

func scopedAccessKindFromString(s string) ast.ScopedAccessKind {
	switch s {
	case "view":
		return ast.AccessView
	case "hijack":
		return ast.AccessHijack
	case "inspect":
		return ast.AccessInspect
	case "seize":
		return ast.AccessSeize
	default:
		return ast.AccessView
	}
}
