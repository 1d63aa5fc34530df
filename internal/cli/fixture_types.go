package cli

import (
	"encoding/json"
	"fmt"

	"github.com/forge-lang/forgec/internal/ast"
)

// decodeType only needs to support NamedType: it is the sole TypeExpr shape
// the core consumes (internal/ast.NamedType's doc comment).
func decodeType(data json.RawMessage) (ast.TypeExpr, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var raw struct {
		Name           string            `json:"name"`
		GenericArgs    []json.RawMessage `json:"genericArgs"`
		IsReference    bool              `json:"isReference"`
		IsGenericParam bool              `json:"isGenericParam"`
		Span           rawSpan           `json:"span"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("type: %w", err)
	}
	args, err := decodeTypeList(raw.GenericArgs)
	if err != nil {
		return nil, fmt.Errorf("type %q: %w", raw.Name, err)
	}
	return &ast.NamedType{
		Name: raw.Name, GenericArgs: args, IsReference: raw.IsReference, IsGenericParam: raw.IsGenericParam, Sp: raw.Span.toSpan(),
	}, nil
}

func decodeTypeList(raws []json.RawMessage) ([]ast.TypeExpr, error) {
	out := make([]ast.TypeExpr, 0, len(raws))
	for i, r := range raws {
		t, err := decodeType(r)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out = append(out, t)
	}
	return out, nil
}
