package evaluator

import (
	"testing"

	"github.com/funvibe/funjs/internal/ast"
)

func arrayPatternDecl(kind ast.DeclKind, pat *ast.ArrayPattern, init ast.Expression) *ast.DeclarationStatement {
	return &ast.DeclarationStatement{Kind: kind, Decls: []*ast.Declarator{{ArrayPat: pat, Init: init}}}
}

func objectPatternDecl(kind ast.DeclKind, pat *ast.ObjectPattern, init ast.Expression) *ast.DeclarationStatement {
	return &ast.DeclarationStatement{Kind: kind, Decls: []*ast.Declarator{{ObjectPat: pat, Init: init}}}
}

func TestArrayDestructuringWithDefaultsAndRest(t *testing.T) {
	// const [a, b=2, ...rest] = [1, undefined, 3, 4]
	pat := &ast.ArrayPattern{Elements: []*ast.DestructuringElement{
		ast.Variable("a"),
		ast.VariableWithDefault("b", num(2)),
		ast.Rest("rest"),
	}}
	setup := []ast.Statement{
		arrayPatternDecl(ast.DeclConst, pat, arrayLit(num(1), id("undefined"), num(3), num(4))),
	}
	v, diag := evalInProgram(t, setup, id("a"))
	wantNoDiag(t, diag)
	wantNumber(t, v, 1)

	v, diag = evalInProgram(t, setup, id("b"))
	wantNoDiag(t, diag)
	wantNumber(t, v, 2)

	v, diag = evalInProgram(t, setup, id("rest"))
	wantNoDiag(t, diag)
	wantArrayValues(t, v, &Number{Value: 3}, &Number{Value: 4})
}

func TestArrayDestructuringHolesAndNesting(t *testing.T) {
	// const [, [x, y]] = [0, [1, 2]]
	pat := &ast.ArrayPattern{Elements: []*ast.DestructuringElement{
		{Kind: ast.DestructureEmpty},
		{Kind: ast.DestructureNestedArray, ArrayElems: []*ast.DestructuringElement{
			ast.Variable("x"), ast.Variable("y"),
		}},
	}}
	setup := []ast.Statement{
		arrayPatternDecl(ast.DeclConst, pat, arrayLit(num(0), arrayLit(num(1), num(2)))),
	}
	v, diag := evalInProgram(t, setup, infix("+", id("x"), id("y")))
	wantNoDiag(t, diag)
	wantNumber(t, v, 3)
}

func TestArrayDestructuringFromString(t *testing.T) {
	pat := &ast.ArrayPattern{Elements: []*ast.DestructuringElement{
		ast.Variable("first"), ast.Variable("second"),
	}}
	setup := []ast.Statement{
		arrayPatternDecl(ast.DeclConst, pat, str("hi")),
	}
	v, diag := evalInProgram(t, setup, id("first"))
	wantNoDiag(t, diag)
	wantString(t, v, "h")
}

func TestObjectDestructuring(t *testing.T) {
	// const {a, b: renamed, missing = 9, ...rest} = {a: 1, b: 2, c: 3}
	pat := &ast.ObjectPattern{Elements: []*ast.ObjectDestructuringElement{
		{Key: "a"},
		{Key: "b", Name: "renamed"},
		{Key: "missing", Default: num(9)},
		{Rest: true, Name: "rest"},
	}}
	obj := &ast.ObjectLiteral{Properties: []*ast.ObjectProperty{
		{Kind: ast.PropertyInit, Key: "a", Value: num(1)},
		{Kind: ast.PropertyInit, Key: "b", Value: num(2)},
		{Kind: ast.PropertyInit, Key: "c", Value: num(3)},
	}}
	setup := []ast.Statement{objectPatternDecl(ast.DeclConst, pat, obj)}

	v, diag := evalInProgram(t, setup, id("a"))
	wantNoDiag(t, diag)
	wantNumber(t, v, 1)

	v, diag = evalInProgram(t, setup, id("renamed"))
	wantNoDiag(t, diag)
	wantNumber(t, v, 2)

	v, diag = evalInProgram(t, setup, id("missing"))
	wantNoDiag(t, diag)
	wantNumber(t, v, 9)

	// rest gathers only unconsumed own keys
	v, diag = evalInProgram(t, setup, member(id("rest"), "c"))
	wantNoDiag(t, diag)
	wantNumber(t, v, 3)

	v, diag = evalInProgram(t, setup, prefix("typeof", member(id("rest"), "a")))
	wantNoDiag(t, diag)
	wantString(t, v, "undefined")
}

func TestObjectPatternOnNullishThrows(t *testing.T) {
	pat := &ast.ObjectPattern{Elements: []*ast.ObjectDestructuringElement{{Key: "a"}}}
	_, diag := runProgram(t, objectPatternDecl(ast.DeclConst, pat, null()))
	wantDiagKind(t, diag, "TypeError")

	_, diag = runProgram(t, objectPatternDecl(ast.DeclConst, pat, id("undefined")))
	wantDiagKind(t, diag, "TypeError")
}

func TestDestructuringIsIdempotent(t *testing.T) {
	// re-running the same pattern against the same rvalue produces the
	// same bindings
	pat := &ast.ArrayPattern{Elements: []*ast.DestructuringElement{
		ast.Variable("p"), ast.VariableWithDefault("q", num(5)),
	}}
	setup := []ast.Statement{
		constDecl("src", arrayLit(num(1))),
		&ast.DeclarationStatement{Kind: ast.DeclLet, Decls: []*ast.Declarator{{Name: "p"}, {Name: "q"}}},
		exprStmt(&ast.AssignExpr{Operator: "=",
			Target: &ast.ArrayPattern{Elements: pat.Elements}, Value: id("src")}),
		constDecl("first", arrayLit(id("p"), id("q"))),
		exprStmt(&ast.AssignExpr{Operator: "=",
			Target: &ast.ArrayPattern{Elements: pat.Elements}, Value: id("src")}),
	}
	v, diag := evalInProgram(t, setup,
		infix("&&",
			infix("===", index(id("first"), num(0)), id("p")),
			infix("===", index(id("first"), num(1)), id("q"))))
	wantNoDiag(t, diag)
	wantBool(t, v, true)
}

func TestParameterDestructuringWithDefaults(t *testing.T) {
	// function f([a, b] = [1, 2], {c} = {c: 3}) { return a + b + c }
	fn := fnExpr("f", []*ast.DestructuringElement{
		{Kind: ast.DestructureNestedArray,
			ArrayElems: []*ast.DestructuringElement{ast.Variable("a"), ast.Variable("b")},
			Default:    arrayLit(num(1), num(2))},
		{Kind: ast.DestructureNestedObject,
			ObjectElems: []*ast.ObjectDestructuringElement{{Key: "c"}},
			Default: &ast.ObjectLiteral{Properties: []*ast.ObjectProperty{
				{Kind: ast.PropertyInit, Key: "c", Value: num(3)},
			}}},
	}, retStmt(infix("+", infix("+", id("a"), id("b")), id("c"))))
	setup := []ast.Statement{constDecl("f", fn)}

	v, diag := evalInProgram(t, setup, call(id("f")))
	wantNoDiag(t, diag)
	wantNumber(t, v, 6)

	v, diag = evalInProgram(t, setup, call(id("f"), arrayLit(num(10), num(20))))
	wantNoDiag(t, diag)
	wantNumber(t, v, 33)
}

func TestRestParameters(t *testing.T) {
	fn := fnExpr("f", []*ast.DestructuringElement{
		ast.Variable("first"), ast.Rest("rest"),
	}, retStmt(arrayLit(id("first"), member(id("rest"), "length"))))
	setup := []ast.Statement{constDecl("f", fn)}
	v, diag := evalInProgram(t, setup, call(id("f"), num(1), num(2), num(3)))
	wantNoDiag(t, diag)
	wantArrayValues(t, v, &Number{Value: 1}, &Number{Value: 2})
}

func TestLazyParameterDefaults(t *testing.T) {
	// defaults see earlier parameters
	fn := fnExpr("f", []*ast.DestructuringElement{
		ast.Variable("a"),
		ast.VariableWithDefault("b", infix("*", id("a"), num(2))),
	}, retStmt(id("b")))
	setup := []ast.Statement{constDecl("f", fn)}
	v, diag := evalInProgram(t, setup, call(id("f"), num(21)))
	wantNoDiag(t, diag)
	wantNumber(t, v, 42)
}

func TestArgumentsObject(t *testing.T) {
	fn := fnExpr("f", params("a"),
		retStmt(arrayLit(
			member(id("arguments"), "length"),
			index(id("arguments"), num(1)),
		)))
	setup := []ast.Statement{constDecl("f", fn)}
	v, diag := evalInProgram(t, setup, call(id("f"), num(1), num(2), num(3)))
	wantNoDiag(t, diag)
	wantArrayValues(t, v, &Number{Value: 3}, &Number{Value: 2})
}

func TestArrowsHaveNoArguments(t *testing.T) {
	// arrows see the enclosing function's arguments object
	outer := fnExpr("outer", nil,
		retStmt(call(arrow(nil, retStmt(member(id("arguments"), "length"))))))
	setup := []ast.Statement{constDecl("outer", outer)}
	v, diag := evalInProgram(t, setup, call(id("outer"), num(1), num(2)))
	wantNoDiag(t, diag)
	wantNumber(t, v, 2)
}
