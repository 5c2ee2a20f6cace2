package evaluator

import (
	"testing"

	"github.com/funvibe/funjs/internal/ast"
)

func genDecl(name string, params []*ast.DestructuringElement, body ...ast.Statement) *ast.FunctionDeclaration {
	return &ast.FunctionDeclaration{Name: name, Params: params, Body: body, IsGenerator: true}
}

func yield(arg ast.Expression) *ast.YieldExpr {
	return &ast.YieldExpr{Argument: arg}
}

func TestGeneratorBasicSequence(t *testing.T) {
	// function* g() { yield 1; yield 2; return 3 }
	// [it.next().value, it.next().value, it.next().value, it.next().done]
	setup := []ast.Statement{
		genDecl("g", nil,
			exprStmt(yield(num(1))),
			exprStmt(yield(num(2))),
			retStmt(num(3))),
		constDecl("it", call(id("g"))),
	}
	v, diag := evalInProgram(t, setup, arrayLit(
		member(call(member(id("it"), "next")), "value"),
		member(call(member(id("it"), "next")), "value"),
		member(call(member(id("it"), "next")), "value"),
		member(call(member(id("it"), "next")), "done"),
	))
	wantNoDiag(t, diag)
	wantArrayValues(t, v, &Number{Value: 1}, &Number{Value: 2}, &Number{Value: 3}, TRUE)
}

func TestGeneratorDoesNotRunUntilNext(t *testing.T) {
	setup := []ast.Statement{
		letDecl("ran", boolean(false)),
		genDecl("g", nil,
			exprStmt(assign(id("ran"), boolean(true))),
			exprStmt(yield(num(1)))),
		constDecl("it", call(id("g"))),
	}
	v, diag := evalInProgram(t, setup, id("ran"))
	wantNoDiag(t, diag)
	wantBool(t, v, false)

	setup = append(setup, exprStmt(call(member(id("it"), "next"))))
	v, diag = evalInProgram(t, setup, id("ran"))
	wantNoDiag(t, diag)
	wantBool(t, v, true)
}

func TestGeneratorSendValues(t *testing.T) {
	// sends from next(v) appear as the yield expression's value
	setup := []ast.Statement{
		genDecl("g", nil,
			letDecl("a", yield(num(1))),
			letDecl("b", yield(infix("*", id("a"), num(10)))),
			retStmt(infix("+", id("a"), id("b")))),
		constDecl("it", call(id("g"))),
		exprStmt(call(member(id("it"), "next"))),
	}
	// next(2) delivers 2 into a, generator yields 20
	v, diag := evalInProgram(t, setup,
		member(call(member(id("it"), "next"), num(2)), "value"))
	wantNoDiag(t, diag)
	wantNumber(t, v, 20)

	setup = append(setup,
		exprStmt(call(member(id("it"), "next"), num(2))))
	// next(5): return 2 + 5
	v, diag = evalInProgram(t, setup,
		member(call(member(id("it"), "next"), num(5)), "value"))
	wantNoDiag(t, diag)
	wantNumber(t, v, 7)
}

func TestGeneratorYieldInsideLoop(t *testing.T) {
	// function* g() { let i = 0; while (i < 3) { yield i; i++ } }
	setup := []ast.Statement{
		genDecl("g", nil,
			letDecl("i", num(0)),
			&ast.WhileStatement{
				Test: infix("<", id("i"), num(3)),
				Body: &ast.BlockStatement{Statements: []ast.Statement{
					exprStmt(yield(id("i"))),
					exprStmt(&ast.UpdateExpr{Operator: "++", Target: id("i")}),
				}},
			}),
		constDecl("it", call(id("g"))),
	}
	v, diag := evalInProgram(t, setup, arrayLit(
		member(call(member(id("it"), "next")), "value"),
		member(call(member(id("it"), "next")), "value"),
		member(call(member(id("it"), "next")), "value"),
		member(call(member(id("it"), "next")), "done"),
	))
	wantNoDiag(t, diag)
	wantArrayValues(t, v, &Number{Value: 0}, &Number{Value: 1}, &Number{Value: 2}, TRUE)
}

func TestGeneratorCompletedStaysDone(t *testing.T) {
	setup := []ast.Statement{
		genDecl("g", nil, exprStmt(yield(num(1)))),
		constDecl("it", call(id("g"))),
		exprStmt(call(member(id("it"), "next"))),
		exprStmt(call(member(id("it"), "next"))),
	}
	v, diag := evalInProgram(t, setup, arrayLit(
		member(call(member(id("it"), "next")), "done"),
		prefix("typeof", member(call(member(id("it"), "next")), "value")),
	))
	wantNoDiag(t, diag)
	wantArrayValues(t, v, TRUE, NewString("undefined"))
}

func TestGeneratorThrowRunsCatchInBody(t *testing.T) {
	// throw(v) resumes the suspended yield as a throw completion
	setup := []ast.Statement{
		genDecl("g", nil,
			&ast.TryStatement{
				Block: []ast.Statement{
					exprStmt(yield(num(1))),
				},
				Param:      "e",
				HasHandler: true,
				Handler: []ast.Statement{
					exprStmt(yield(infix("+", id("e"), num(100)))),
				},
			}),
		constDecl("it", call(id("g"))),
		exprStmt(call(member(id("it"), "next"))),
	}
	v, diag := evalInProgram(t, setup,
		member(call(member(id("it"), "throw"), num(1)), "value"))
	wantNoDiag(t, diag)
	wantNumber(t, v, 101)
}

func TestGeneratorThrowUncaughtPropagates(t *testing.T) {
	setup := []ast.Statement{
		genDecl("g", nil, exprStmt(yield(num(1)))),
		constDecl("it", call(id("g"))),
		exprStmt(call(member(id("it"), "next"))),
	}
	_, diag := evalInProgram(t, setup,
		call(member(id("it"), "throw"), str("bang")))
	if diag == nil {
		t.Fatal("expected the thrown value to propagate")
	}
	if diag.Thrown == nil {
		t.Fatalf("thrown value should be preserved, got %s", diag.Message)
	}
	wantString(t, diag.Thrown, "bang")
}

func TestGeneratorReturnRunsFinally(t *testing.T) {
	// return(v) injects a return at the yield so finally runs
	setup := []ast.Statement{
		letDecl("cleaned", boolean(false)),
		genDecl("g", nil,
			&ast.TryStatement{
				Block: []ast.Statement{
					exprStmt(yield(num(1))),
					exprStmt(yield(num(2))),
				},
				HasFinalizer: true,
				Finalizer: []ast.Statement{
					exprStmt(assign(id("cleaned"), boolean(true))),
				},
			}),
		constDecl("it", call(id("g"))),
		exprStmt(call(member(id("it"), "next"))),
		constDecl("res", call(member(id("it"), "return"), num(9))),
	}
	v, diag := evalInProgram(t, setup, arrayLit(
		id("cleaned"),
		member(id("res"), "value"),
		member(id("res"), "done"),
	))
	wantNoDiag(t, diag)
	wantArrayValues(t, v, TRUE, &Number{Value: 9}, TRUE)
}

func TestYieldDelegation(t *testing.T) {
	// function* inner() { yield 1; yield 2 }
	// function* outer() { yield 0; yield* inner(); yield 3 }
	setup := []ast.Statement{
		genDecl("inner", nil,
			exprStmt(yield(num(1))),
			exprStmt(yield(num(2)))),
		genDecl("outer", nil,
			exprStmt(yield(num(0))),
			exprStmt(&ast.YieldExpr{Argument: call(id("inner")), Delegate: true}),
			exprStmt(yield(num(3)))),
		constDecl("it", call(id("outer"))),
	}
	v, diag := evalInProgram(t, setup, arrayLit(
		member(call(member(id("it"), "next")), "value"),
		member(call(member(id("it"), "next")), "value"),
		member(call(member(id("it"), "next")), "value"),
		member(call(member(id("it"), "next")), "value"),
		member(call(member(id("it"), "next")), "done"),
	))
	wantNoDiag(t, diag)
	wantArrayValues(t, v,
		&Number{Value: 0}, &Number{Value: 1}, &Number{Value: 2}, &Number{Value: 3}, TRUE)
}

func TestGeneratorsAreForOfIterable(t *testing.T) {
	setup := []ast.Statement{
		genDecl("g", nil,
			exprStmt(yield(num(1))),
			exprStmt(yield(num(2))),
			exprStmt(yield(num(3)))),
		letDecl("sum", num(0)),
		&ast.ForOfStatement{
			Decl: &ast.DeclarationStatement{Kind: ast.DeclConst,
				Decls: []*ast.Declarator{{Name: "v"}}},
			Iterable: call(id("g")),
			Body:     exprStmt(&ast.AssignExpr{Operator: "+=", Target: id("sum"), Value: id("v")}),
		},
	}
	v, diag := evalInProgram(t, setup, id("sum"))
	wantNoDiag(t, diag)
	wantNumber(t, v, 6)
}

func TestGeneratorSpread(t *testing.T) {
	setup := []ast.Statement{
		genDecl("g", nil,
			exprStmt(yield(num(1))),
			exprStmt(yield(num(2)))),
	}
	v, diag := evalInProgram(t, setup,
		arrayLit(&ast.SpreadElement{Argument: call(id("g"))}))
	wantNoDiag(t, diag)
	wantArrayValues(t, v, &Number{Value: 1}, &Number{Value: 2})
}

func TestGeneratorMethodOnClass(t *testing.T) {
	setup := []ast.Statement{
		classDecl(&ast.ClassDefinition{Name: "Range", Members: []*ast.ClassMember{
			ctor(params("n"),
				exprStmt(assign(member(id("this"), "n"), id("n")))),
			{Kind: ast.MemberMethod, Name: "take", IsGenerator: true, Body: []ast.Statement{
				exprStmt(yield(member(id("this"), "n"))),
				exprStmt(yield(infix("+", member(id("this"), "n"), num(1)))),
			}},
		}}),
		constDecl("it", call(member(newExpr(id("Range"), num(5)), "take"))),
	}
	v, diag := evalInProgram(t, setup, arrayLit(
		member(call(member(id("it"), "next")), "value"),
		member(call(member(id("it"), "next")), "value"),
	))
	wantNoDiag(t, diag)
	wantArrayValues(t, v, &Number{Value: 5}, &Number{Value: 6})
}
