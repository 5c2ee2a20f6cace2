package modules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/funvibe/funjs/internal/ast"
	"github.com/funvibe/funjs/internal/evaluator"
	"github.com/stretchr/testify/require"
)

const mathModuleJSON = `{
  "type": "Program",
  "statements": [
    {"type": "ExportStatement", "declaration": {
      "type": "DeclarationStatement", "kind": "const",
      "declarations": [{"name": "answer", "init": {"type": "NumberLiteral", "value": 42}}]
    }},
    {"type": "ExportStatement", "declaration": {
      "type": "FunctionDeclaration", "name": "double",
      "params": [{"kind": "variable", "name": "x"}],
      "body": [{"type": "ReturnStatement", "argument": {
        "type": "InfixExpr", "operator": "*",
        "left": {"type": "Identifier", "name": "x"},
        "right": {"type": "NumberLiteral", "value": 2}
      }}]
    }},
    {"type": "ExportStatement", "default": true, "defaultValue": {"type": "StringLiteral", "value": "math"}}
  ]
}`

func writeModule(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadModuleNamespace(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "math.ast.json", mathModuleJSON)

	e := evaluator.New()
	loader := NewLoader(dir, nil)
	e.Loader = loader

	ns, err := loader.LoadModule(e, "./math", filepath.Join(dir, "entry.ast.json"))
	require.NoError(t, err)

	answer := evaluator.ImportFromModule(ns, "answer")
	require.IsType(t, &evaluator.Number{}, answer)
	require.Equal(t, float64(42), answer.(*evaluator.Number).Value)

	def := evaluator.ImportFromModule(ns, "default")
	require.IsType(t, &evaluator.String{}, def)
	require.Equal(t, "math", def.(*evaluator.String).GoString())
}

func TestModuleCacheReturnsSameNamespace(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "math.ast.json", mathModuleJSON)

	e := evaluator.New()
	loader := NewLoader(dir, nil)
	e.Loader = loader

	ns1, err := loader.LoadModule(e, "./math", filepath.Join(dir, "x.ast.json"))
	require.NoError(t, err)
	ns2, err := loader.LoadModule(e, "./math", filepath.Join(dir, "x.ast.json"))
	require.NoError(t, err)
	if ns1 != ns2 {
		t.Fatal("module cache must return the same namespace object")
	}
}

func TestImportStatementBindsNames(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "math.ast.json", mathModuleJSON)

	e := evaluator.New()
	e.Loader = NewLoader(dir, nil)
	e.CurrentFile = filepath.Join(dir, "entry.ast.json")

	env := e.NewGlobalEnvironment()
	program := &ast.Program{Statements: []ast.Statement{
		&ast.ImportStatement{
			Module: "./math",
			Specifiers: []*ast.ImportSpecifier{
				{Imported: "double", Local: "double"},
				{Imported: "answer", Local: "answer"},
			},
		},
		&ast.ExpressionStatement{Expression: &ast.CallExpr{
			Callee: &ast.Identifier{Value: "double"},
			Args:   []ast.Expression{&ast.Identifier{Value: "answer"}},
		}},
	}}
	v, diag := e.Run(env, program)
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %s", diag.String())
	}
	require.Equal(t, float64(84), v.(*evaluator.Number).Value)
}

func TestImportMissingExportFails(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "math.ast.json", mathModuleJSON)

	e := evaluator.New()
	e.Loader = NewLoader(dir, nil)
	e.CurrentFile = filepath.Join(dir, "entry.ast.json")

	env := e.NewGlobalEnvironment()
	program := &ast.Program{Statements: []ast.Statement{
		&ast.ImportStatement{
			Module:     "./math",
			Specifiers: []*ast.ImportSpecifier{{Imported: "nope", Local: "nope"}},
		},
	}}
	_, diag := e.Run(env, program)
	if diag == nil || diag.Kind != "SyntaxError" {
		t.Fatalf("expected SyntaxError for missing export, got %v", diag)
	}
}

func TestNamespaceImportAndDynamicImport(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "math.ast.json", mathModuleJSON)

	e := evaluator.New()
	e.Loader = NewLoader(dir, nil)
	e.CurrentFile = filepath.Join(dir, "entry.ast.json")

	env := e.NewGlobalEnvironment()
	program := &ast.Program{Statements: []ast.Statement{
		&ast.ImportStatement{
			Module:     "./math",
			Specifiers: []*ast.ImportSpecifier{{Local: "m", Namespace: true}},
		},
		&ast.ExpressionStatement{Expression: &ast.MemberExpr{
			Object: &ast.Identifier{Value: "m"}, Property: "answer",
		}},
	}}
	v, diag := e.Run(env, program)
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %s", diag.String())
	}
	require.Equal(t, float64(42), v.(*evaluator.Number).Value)

	// dynamic import() resolves to a promise of the same namespace
	program = &ast.Program{Statements: []ast.Statement{
		&ast.ExpressionStatement{Expression: &ast.ImportCall{
			Specifier: &ast.StringLiteral{Value: "./math"},
		}},
	}}
	v, diag = e.Run(env, program)
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %s", diag.String())
	}
	p, ok := v.(*evaluator.PromiseValue)
	require.True(t, ok, "dynamic import should produce a promise")
	require.Equal(t, evaluator.PromiseFulfilled, p.Promise.State)
}

func TestResolveExtensionsAndRoots(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "lib")
	require.NoError(t, os.Mkdir(sub, 0o755))
	writeModule(t, sub, "util.ast.json", mathModuleJSON)

	loader := NewLoader(dir, []string{sub})
	path, err := loader.Resolve("util", "")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(sub, "util.ast.json"), path)

	_, err = loader.Resolve("missing", "")
	require.Error(t, err)
}
