package evaluator

import (
	"math/big"
	"testing"

	"github.com/funvibe/funjs/internal/ast"
)

// The parser is an external collaborator, so tests build ASTs with
// these small constructors.

func id(name string) *ast.Identifier {
	return &ast.Identifier{Value: name}
}

func num(v float64) *ast.NumberLiteral {
	return &ast.NumberLiteral{Value: v}
}

func bigint(v int64) *ast.BigIntLiteral {
	return &ast.BigIntLiteral{Value: big.NewInt(v)}
}

func str(s string) *ast.StringLiteral {
	return &ast.StringLiteral{Value: s}
}

func boolean(b bool) *ast.BooleanLiteral {
	return &ast.BooleanLiteral{Value: b}
}

func null() *ast.NullLiteral {
	return &ast.NullLiteral{}
}

func infix(op string, l, r ast.Expression) *ast.InfixExpr {
	return &ast.InfixExpr{Operator: op, Left: l, Right: r}
}

func prefix(op string, right ast.Expression) *ast.PrefixExpr {
	return &ast.PrefixExpr{Operator: op, Right: right}
}

func member(obj ast.Expression, prop string) *ast.MemberExpr {
	return &ast.MemberExpr{Object: obj, Property: prop}
}

func index(obj, idx ast.Expression) *ast.IndexExpr {
	return &ast.IndexExpr{Object: obj, Index: idx}
}

func call(callee ast.Expression, args ...ast.Expression) *ast.CallExpr {
	return &ast.CallExpr{Callee: callee, Args: args}
}

func newExpr(callee ast.Expression, args ...ast.Expression) *ast.NewExpr {
	return &ast.NewExpr{Callee: callee, Args: args}
}

func assign(target ast.Expression, value ast.Expression) *ast.AssignExpr {
	return &ast.AssignExpr{Operator: "=", Target: target, Value: value}
}

func arrayLit(els ...ast.Expression) *ast.ArrayLiteral {
	return &ast.ArrayLiteral{Elements: els}
}

func exprStmt(ex ast.Expression) *ast.ExpressionStatement {
	return &ast.ExpressionStatement{Expression: ex}
}

func retStmt(ex ast.Expression) *ast.ReturnStatement {
	return &ast.ReturnStatement{Argument: ex}
}

func letDecl(name string, init ast.Expression) *ast.DeclarationStatement {
	return &ast.DeclarationStatement{
		Kind:  ast.DeclLet,
		Decls: []*ast.Declarator{{Name: name, Init: init}},
	}
}

func constDecl(name string, init ast.Expression) *ast.DeclarationStatement {
	return &ast.DeclarationStatement{
		Kind:  ast.DeclConst,
		Decls: []*ast.Declarator{{Name: name, Init: init}},
	}
}

func varDecl(name string, init ast.Expression) *ast.DeclarationStatement {
	return &ast.DeclarationStatement{
		Kind:  ast.DeclVar,
		Decls: []*ast.Declarator{{Name: name, Init: init}},
	}
}

func fnExpr(name string, params []*ast.DestructuringElement, body ...ast.Statement) *ast.FunctionExpr {
	return &ast.FunctionExpr{Name: name, Params: params, Body: body}
}

func arrow(params []*ast.DestructuringElement, body ...ast.Statement) *ast.FunctionExpr {
	return &ast.FunctionExpr{Params: params, Body: body, IsArrow: true}
}

func params(names ...string) []*ast.DestructuringElement {
	var out []*ast.DestructuringElement
	for _, n := range names {
		out = append(out, ast.Variable(n))
	}
	return out
}

// runProgram evaluates statements in a fresh realm and returns the
// final completion.
func runProgram(t *testing.T, stmts ...ast.Statement) (Value, *Diagnostic) {
	t.Helper()
	e := New()
	env := e.NewGlobalEnvironment()
	return e.Run(env, &ast.Program{File: "test.js", Statements: stmts})
}

// evalInProgram evaluates leading statements then returns the value of
// the final expression.
func evalInProgram(t *testing.T, setup []ast.Statement, last ast.Expression) (Value, *Diagnostic) {
	t.Helper()
	stmts := append(append([]ast.Statement{}, setup...), exprStmt(last))
	return runProgram(t, stmts...)
}

func wantNumber(t *testing.T, v Value, expected float64) {
	t.Helper()
	n, ok := v.(*Number)
	if !ok {
		t.Fatalf("expected Number %v, got %T (%s)", expected, v, inspectValue(v))
	}
	if n.Value != expected {
		t.Fatalf("expected %v, got %v", expected, n.Value)
	}
}

func wantString(t *testing.T, v Value, expected string) {
	t.Helper()
	s, ok := v.(*String)
	if !ok {
		t.Fatalf("expected String %q, got %T (%s)", expected, v, inspectValue(v))
	}
	if s.GoString() != expected {
		t.Fatalf("expected %q, got %q", expected, s.GoString())
	}
}

func wantBool(t *testing.T, v Value, expected bool) {
	t.Helper()
	b, ok := v.(*Boolean)
	if !ok {
		t.Fatalf("expected Boolean %v, got %T (%s)", expected, v, inspectValue(v))
	}
	if b.Value != expected {
		t.Fatalf("expected %v, got %v", expected, b.Value)
	}
}

func wantNoDiag(t *testing.T, diag *Diagnostic) {
	t.Helper()
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %s", diag.String())
	}
}

func wantDiagKind(t *testing.T, diag *Diagnostic, kind string) {
	t.Helper()
	if diag == nil {
		t.Fatalf("expected %s diagnostic, got none", kind)
	}
	if diag.Kind != kind {
		t.Fatalf("expected %s, got %s: %s", kind, diag.Kind, diag.Message)
	}
}

func wantArrayValues(t *testing.T, v Value, expected ...Value) {
	t.Helper()
	arr, ok := v.(*JSObject)
	if !ok || !arr.IsArray {
		t.Fatalf("expected array, got %T (%s)", v, inspectValue(v))
	}
	els := arrayElements(arr)
	if len(els) != len(expected) {
		t.Fatalf("expected %d elements, got %d (%s)", len(expected), len(els), arr.Inspect())
	}
	for i, want := range expected {
		if !strictEquals(els[i], want) {
			t.Fatalf("element %d: expected %s, got %s", i, inspectValue(want), inspectValue(els[i]))
		}
	}
}
