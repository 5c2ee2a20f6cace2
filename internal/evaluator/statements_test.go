package evaluator

import (
	"testing"

	"github.com/funvibe/funjs/internal/ast"
)

func TestIfElse(t *testing.T) {
	setup := []ast.Statement{
		letDecl("x", num(0)),
		&ast.IfStatement{
			Test:       infix(">", num(2), num(1)),
			Consequent: exprStmt(assign(id("x"), num(1))),
			Alternate:  exprStmt(assign(id("x"), num(2))),
		},
	}
	v, diag := evalInProgram(t, setup, id("x"))
	wantNoDiag(t, diag)
	wantNumber(t, v, 1)
}

func TestWhileLoop(t *testing.T) {
	setup := []ast.Statement{
		letDecl("i", num(0)),
		letDecl("sum", num(0)),
		&ast.WhileStatement{
			Test: infix("<", id("i"), num(5)),
			Body: &ast.BlockStatement{Statements: []ast.Statement{
				exprStmt(&ast.AssignExpr{Operator: "+=", Target: id("sum"), Value: id("i")}),
				exprStmt(&ast.UpdateExpr{Operator: "++", Target: id("i")}),
			}},
		},
	}
	v, diag := evalInProgram(t, setup, id("sum"))
	wantNoDiag(t, diag)
	wantNumber(t, v, 10)
}

func TestDoWhileRunsOnce(t *testing.T) {
	setup := []ast.Statement{
		letDecl("n", num(0)),
		&ast.DoWhileStatement{
			Body: exprStmt(&ast.UpdateExpr{Operator: "++", Target: id("n")}),
			Test: boolean(false),
		},
	}
	v, diag := evalInProgram(t, setup, id("n"))
	wantNoDiag(t, diag)
	wantNumber(t, v, 1)
}

func TestClassicForLoop(t *testing.T) {
	setup := []ast.Statement{
		letDecl("sum", num(0)),
		&ast.ForStatement{
			Init:   letDecl("i", num(0)),
			Test:   infix("<", id("i"), num(4)),
			Update: &ast.UpdateExpr{Operator: "++", Target: id("i")},
			Body:   exprStmt(&ast.AssignExpr{Operator: "+=", Target: id("sum"), Value: id("i")}),
		},
	}
	v, diag := evalInProgram(t, setup, id("sum"))
	wantNoDiag(t, diag)
	wantNumber(t, v, 6)
}

func TestForLetPerIterationCapture(t *testing.T) {
	// closures made in the body see a per-iteration copy of i
	setup := []ast.Statement{
		letDecl("fns", arrayLit()),
		&ast.ForStatement{
			Init:   letDecl("i", num(0)),
			Test:   infix("<", id("i"), num(3)),
			Update: &ast.UpdateExpr{Operator: "++", Target: id("i")},
			Body: exprStmt(call(member(id("fns"), "push"),
				arrow(nil, retStmt(id("i"))))),
		},
		letDecl("results", arrayLit(
			call(index(id("fns"), num(0))),
			call(index(id("fns"), num(1))),
			call(index(id("fns"), num(2))),
		)),
	}
	v, diag := evalInProgram(t, setup, id("results"))
	wantNoDiag(t, diag)
	wantArrayValues(t, v, &Number{Value: 0}, &Number{Value: 1}, &Number{Value: 2})
}

func TestBreakAndContinue(t *testing.T) {
	setup := []ast.Statement{
		letDecl("sum", num(0)),
		&ast.ForStatement{
			Init:   letDecl("i", num(0)),
			Test:   infix("<", id("i"), num(10)),
			Update: &ast.UpdateExpr{Operator: "++", Target: id("i")},
			Body: &ast.BlockStatement{Statements: []ast.Statement{
				&ast.IfStatement{
					Test:       infix("===", infix("%", id("i"), num(2)), num(1)),
					Consequent: &ast.ContinueStatement{},
				},
				&ast.IfStatement{
					Test:       infix(">", id("i"), num(5)),
					Consequent: &ast.BreakStatement{},
				},
				exprStmt(&ast.AssignExpr{Operator: "+=", Target: id("sum"), Value: id("i")}),
			}},
		},
	}
	// evens up to 4: 0 + 2 + 4; i=6 breaks before adding
	v, diag := evalInProgram(t, setup, id("sum"))
	wantNoDiag(t, diag)
	wantNumber(t, v, 6)
}

func TestLabeledBreak(t *testing.T) {
	setup := []ast.Statement{
		letDecl("count", num(0)),
		&ast.LabeledStatement{
			Label: "outer",
			Stmt: &ast.ForStatement{
				Init:   letDecl("i", num(0)),
				Test:   infix("<", id("i"), num(3)),
				Update: &ast.UpdateExpr{Operator: "++", Target: id("i")},
				Body: &ast.ForStatement{
					Init:   letDecl("j", num(0)),
					Test:   infix("<", id("j"), num(3)),
					Update: &ast.UpdateExpr{Operator: "++", Target: id("j")},
					Body: &ast.BlockStatement{Statements: []ast.Statement{
						&ast.IfStatement{
							Test:       infix("===", id("j"), num(2)),
							Consequent: &ast.BreakStatement{Label: "outer"},
						},
						exprStmt(&ast.UpdateExpr{Operator: "++", Target: id("count")}),
					}},
				},
			},
		},
	}
	v, diag := evalInProgram(t, setup, id("count"))
	wantNoDiag(t, diag)
	wantNumber(t, v, 2)
}

func TestForOfArray(t *testing.T) {
	setup := []ast.Statement{
		letDecl("sum", num(0)),
		&ast.ForOfStatement{
			Decl: &ast.DeclarationStatement{Kind: ast.DeclConst,
				Decls: []*ast.Declarator{{Name: "x"}}},
			Iterable: arrayLit(num(1), num(2), num(3)),
			Body:     exprStmt(&ast.AssignExpr{Operator: "+=", Target: id("sum"), Value: id("x")}),
		},
	}
	v, diag := evalInProgram(t, setup, id("sum"))
	wantNoDiag(t, diag)
	wantNumber(t, v, 6)
}

func TestForOfStringByCodePoint(t *testing.T) {
	// surrogate pairs iterate as single code points
	setup := []ast.Statement{
		letDecl("parts", arrayLit()),
		&ast.ForOfStatement{
			Decl: &ast.DeclarationStatement{Kind: ast.DeclConst,
				Decls: []*ast.Declarator{{Name: "ch"}}},
			Iterable: str("a\U0001F600b"),
			Body:     exprStmt(call(member(id("parts"), "push"), id("ch"))),
		},
	}
	v, diag := evalInProgram(t, setup, member(id("parts"), "length"))
	wantNoDiag(t, diag)
	wantNumber(t, v, 3)
}

func TestForOfMapEntries(t *testing.T) {
	setup := []ast.Statement{
		constDecl("m", newExpr(id("Map"), arrayLit(
			arrayLit(str("a"), num(1)),
			arrayLit(str("b"), num(2)),
		))),
		letDecl("sum", num(0)),
		&ast.ForOfStatement{
			Decl: &ast.DeclarationStatement{Kind: ast.DeclConst,
				Decls: []*ast.Declarator{{
					ArrayPat: &ast.ArrayPattern{Elements: []*ast.DestructuringElement{
						ast.Variable("k"), ast.Variable("v"),
					}},
				}}},
			Iterable: id("m"),
			Body:     exprStmt(&ast.AssignExpr{Operator: "+=", Target: id("sum"), Value: id("v")}),
		},
	}
	v, diag := evalInProgram(t, setup, id("sum"))
	wantNoDiag(t, diag)
	wantNumber(t, v, 3)
}

func TestForInEnumeration(t *testing.T) {
	setup := []ast.Statement{
		constDecl("obj", &ast.ObjectLiteral{Properties: []*ast.ObjectProperty{
			{Kind: ast.PropertyInit, Key: "a", Value: num(1)},
			{Kind: ast.PropertyInit, Key: "b", Value: num(2)},
		}}),
		letDecl("keys", arrayLit()),
		&ast.ForInStatement{
			Decl: &ast.DeclarationStatement{Kind: ast.DeclConst,
				Decls: []*ast.Declarator{{Name: "k"}}},
			Object: id("obj"),
			Body:   exprStmt(call(member(id("keys"), "push"), id("k"))),
		},
	}
	v, diag := evalInProgram(t, setup, id("keys"))
	wantNoDiag(t, diag)
	wantArrayValues(t, v, NewString("a"), NewString("b"))
}

func TestSwitchFallthrough(t *testing.T) {
	mkSwitch := func(disc ast.Expression) []ast.Statement {
		return []ast.Statement{
			letDecl("log", arrayLit()),
			&ast.SwitchStatement{
				Discriminant: disc,
				Cases: []*ast.SwitchCase{
					{Test: num(1), Body: []ast.Statement{
						exprStmt(call(member(id("log"), "push"), str("one"))),
					}},
					{Test: num(2), Body: []ast.Statement{
						exprStmt(call(member(id("log"), "push"), str("two"))),
						&ast.BreakStatement{},
					}},
					{Test: nil, Body: []ast.Statement{
						exprStmt(call(member(id("log"), "push"), str("default"))),
					}},
				},
			},
		}
	}

	v, diag := evalInProgram(t, mkSwitch(num(1)), id("log"))
	wantNoDiag(t, diag)
	wantArrayValues(t, v, NewString("one"), NewString("two"))

	// switch uses strict equality: "1" does not match 1
	v, diag = evalInProgram(t, mkSwitch(str("1")), id("log"))
	wantNoDiag(t, diag)
	wantArrayValues(t, v, NewString("default"))
}

func TestTryCatchFinally(t *testing.T) {
	setup := []ast.Statement{
		letDecl("log", arrayLit()),
		&ast.TryStatement{
			Block: []ast.Statement{
				&ast.ThrowStatement{Argument: str("boom")},
			},
			Param:      "err",
			HasHandler: true,
			Handler: []ast.Statement{
				exprStmt(call(member(id("log"), "push"), id("err"))),
			},
			HasFinalizer: true,
			Finalizer: []ast.Statement{
				exprStmt(call(member(id("log"), "push"), str("finally"))),
			},
		},
	}
	v, diag := evalInProgram(t, setup, id("log"))
	wantNoDiag(t, diag)
	wantArrayValues(t, v, NewString("boom"), NewString("finally"))
}

func TestThrowPreservesValueVerbatim(t *testing.T) {
	// thrown non-error values reach catch untouched
	setup := []ast.Statement{
		letDecl("caught", null()),
		&ast.TryStatement{
			Block: []ast.Statement{
				&ast.ThrowStatement{Argument: arrayLit(num(1), num(2))},
			},
			Param:      "e",
			HasHandler: true,
			Handler: []ast.Statement{
				exprStmt(assign(id("caught"), id("e"))),
			},
		},
	}
	v, diag := evalInProgram(t, setup, id("caught"))
	wantNoDiag(t, diag)
	wantArrayValues(t, v, &Number{Value: 1}, &Number{Value: 2})
}

func TestEngineErrorsWrapForCatch(t *testing.T) {
	// an engine TypeError materializes as an Error-like object with
	// frozen name/message and the right prototype
	setup := []ast.Statement{
		letDecl("name", null()),
		letDecl("isTypeError", boolean(false)),
		&ast.TryStatement{
			Block: []ast.Statement{
				exprStmt(member(null(), "x")),
			},
			Param:      "e",
			HasHandler: true,
			Handler: []ast.Statement{
				exprStmt(assign(id("name"), member(id("e"), "name"))),
				exprStmt(assign(id("isTypeError"), infix("instanceof", id("e"), id("TypeError")))),
			},
		},
	}
	v, diag := evalInProgram(t, setup, id("name"))
	wantNoDiag(t, diag)
	wantString(t, v, "TypeError")

	v, diag = evalInProgram(t, setup, id("isTypeError"))
	wantNoDiag(t, diag)
	wantBool(t, v, true)
}

func TestFinallyOverridesCompletion(t *testing.T) {
	// a return in finally replaces the try's thrown completion
	fn := fnExpr("f", nil,
		&ast.TryStatement{
			Block: []ast.Statement{
				&ast.ThrowStatement{Argument: str("lost")},
			},
			HasFinalizer: true,
			Finalizer: []ast.Statement{
				retStmt(num(42)),
			},
		})
	setup := []ast.Statement{constDecl("f", fn)}
	v, diag := evalInProgram(t, setup, call(id("f")))
	wantNoDiag(t, diag)
	wantNumber(t, v, 42)
}

func TestFinallyRunsWithoutHandler(t *testing.T) {
	setup := []ast.Statement{
		letDecl("ran", boolean(false)),
		&ast.TryStatement{
			Block: []ast.Statement{
				&ast.ThrowStatement{Argument: str("up")},
			},
			HasFinalizer: true,
			Finalizer: []ast.Statement{
				exprStmt(assign(id("ran"), boolean(true))),
			},
		},
	}
	_, diag := runProgram(t, setup...)
	if diag == nil {
		t.Fatal("expected the throw to propagate")
	}
	// the finalizer must still have run; verify via a second program
	// with a surrounding catch
	outer := []ast.Statement{
		letDecl("ran", boolean(false)),
		&ast.TryStatement{
			Block:      setup[1:],
			Param:      "e",
			HasHandler: true,
			Handler:    []ast.Statement{},
		},
	}
	v, diag := evalInProgram(t, outer, id("ran"))
	wantNoDiag(t, diag)
	wantBool(t, v, true)
}

func TestDuplicateLexicalDeclarationIsSyntaxError(t *testing.T) {
	_, diag := runProgram(t,
		letDecl("x", num(1)),
		letDecl("x", num(2)),
	)
	wantDiagKind(t, diag, "SyntaxError")

	// lexical followed by var of the same name in the same scope
	_, diag = runProgram(t,
		letDecl("y", num(1)),
		varDecl("y", num(2)),
	)
	wantDiagKind(t, diag, "SyntaxError")
}

func TestVarHoistingToFunctionScope(t *testing.T) {
	// reading v before its var statement sees the hoisted undefined
	// binding instead of raising a ReferenceError
	fn := fnExpr("f", nil,
		constDecl("before", id("v")),
		&ast.BlockStatement{Statements: []ast.Statement{
			varDecl("v", num(1)),
		}},
		retStmt(id("before")))
	setup := []ast.Statement{constDecl("f", fn)}
	v, diag := evalInProgram(t, setup, call(id("f")))
	wantNoDiag(t, diag)
	if v != UNDEFINED {
		t.Fatalf("expected undefined, got %s", inspectValue(v))
	}
}

func TestFunctionDeclarationHoisting(t *testing.T) {
	// calling before the declaration in source order works
	setup := []ast.Statement{
		letDecl("result", call(id("later"))),
		&ast.FunctionDeclaration{Name: "later", Body: []ast.Statement{retStmt(num(7))}},
	}
	v, diag := evalInProgram(t, setup, id("result"))
	wantNoDiag(t, diag)
	wantNumber(t, v, 7)
}

func TestConstReassignmentThrows(t *testing.T) {
	_, diag := runProgram(t,
		constDecl("x", num(1)),
		exprStmt(assign(id("x"), num(2))),
	)
	wantDiagKind(t, diag, "TypeError")
}

func TestVarWritesTargetFunctionScope(t *testing.T) {
	fn := fnExpr("f", nil,
		varDecl("v", num(1)),
		&ast.BlockStatement{Statements: []ast.Statement{
			exprStmt(assign(id("v"), num(2))),
		}},
		retStmt(id("v")))
	setup := []ast.Statement{constDecl("f", fn)}
	v, diag := evalInProgram(t, setup, call(id("f")))
	wantNoDiag(t, diag)
	wantNumber(t, v, 2)
}
