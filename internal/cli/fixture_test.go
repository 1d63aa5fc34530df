package cli

import (
	"testing"

	"github.com/forge-lang/forgec/internal/ast"
	"github.com/forge-lang/forgec/internal/config"
)

const scenarioS1JSON = `{
  "decls": [
    {"kind": "FunctionDecl", "name": "use", "returnType": {"kind": "NamedType", "name": "none"}, "body": {"kind": "BlockStatement", "stmts": []},
     "params": [{"name": "x", "type": {"kind": "NamedType", "name": "T"}}]},
    {"kind": "FunctionDecl", "name": "main", "returnType": {"kind": "NamedType", "name": "none"}, "body": {"kind": "BlockStatement", "stmts": [
      {"kind": "VariableDecl", "name": "a", "init": {"kind": "ConstructorExpr", "typeName": "T"}},
      {"kind": "VariableDecl", "name": "b", "init": {"kind": "MemoryOpExpr", "receiver": {"kind": "Identifier", "name": "a"}, "op": "hijack"}},
      {"kind": "ExpressionStatement", "x": {"kind": "CallExpr", "callee": {"kind": "Identifier", "name": "use"}, "args": [{"kind": "Identifier", "name": "a"}]}}
    ]}}
  ]
}`

func TestDecodeProgramScenarioS1(t *testing.T) {
	prog, err := DecodeProgram([]byte(scenarioS1JSON))
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if len(prog.Decls) != 2 {
		t.Fatalf("expected 2 top-level decls, got %d", len(prog.Decls))
	}

	main, ok := prog.Decls[1].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("expected decl[1] to be a FunctionDecl, got %T", prog.Decls[1])
	}
	if len(main.Body.Stmts) != 3 {
		t.Fatalf("expected 3 statements in main's body, got %d", len(main.Body.Stmts))
	}
	if _, ok := main.Body.Stmts[1].(*ast.VariableDecl).Init.(*ast.MemoryOpExpr); !ok {
		t.Fatal("expected b's initializer to decode as a MemoryOpExpr")
	}
}

func TestRunPipelineReportsUseAfterInvalidation(t *testing.T) {
	prog, err := DecodeProgram([]byte(scenarioS1JSON))
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}

	cfg := &config.Config{Language: config.LanguageForge, Mode: config.ModeNormal}
	diagnostics, _ := runPipeline(prog, cfg)

	found := false
	for _, d := range diagnostics {
		if d.Kind == "UseAfterInvalidation" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a UseAfterInvalidation diagnostic, got %v", diagnostics)
	}
}

func TestRunPipelineGeneratesVariantsForFailableFunctions(t *testing.T) {
	data := `{
	  "decls": [
	    {"kind": "FunctionDecl", "name": "open!", "returnType": {"kind": "NamedType", "name": "File"}, "body": {"kind": "BlockStatement", "stmts": [
	      {"kind": "IfStatement", "cond": {"kind": "Identifier", "name": "bad"},
	       "then": {"kind": "BlockStatement", "stmts": [{"kind": "FailStatement", "value": {"kind": "Identifier", "name": "e"}}]}},
	      {"kind": "ReturnStatement", "value": {"kind": "Identifier", "name": "f"}}
	    ]}}
	  ]
	}`
	prog, err := DecodeProgram([]byte(data))
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}

	cfg := &config.Config{Language: config.LanguageForge, Mode: config.ModeNormal}
	_, variants := runPipeline(prog, cfg)

	names := map[string]bool{}
	for _, v := range variants {
		names[v.Name] = true
	}
	if !names["try_open"] || !names["check_open"] {
		t.Fatalf("expected try_open and check_open to be generated, got %v", names)
	}
}
