package evaluator

import (
	"testing"

	"github.com/funvibe/funjs/internal/ast"
)

func asyncArrow(body ...ast.Statement) *ast.FunctionExpr {
	return &ast.FunctionExpr{Body: body, IsArrow: true, IsAsync: true}
}

func await(arg ast.Expression) *ast.AwaitExpr {
	return &ast.AwaitExpr{Argument: arg}
}

func promiseResolve(v ast.Expression) ast.Expression {
	return call(member(id("Promise"), "resolve"), v)
}

func wantFulfilled(t *testing.T, v Value) Value {
	t.Helper()
	p, ok := v.(*PromiseValue)
	if !ok {
		t.Fatalf("expected a promise, got %T (%s)", v, inspectValue(v))
	}
	if p.Promise.State != PromiseFulfilled {
		t.Fatalf("expected fulfilled, got state %d (%s)", p.Promise.State, inspectValue(p.Promise.Value))
	}
	return p.Promise.Value
}

func TestAsyncFunctionReturnsFulfilledPromise(t *testing.T) {
	// (async () => { const r = await Promise.resolve(41) + 1; return r })()
	fn := asyncArrow(
		constDecl("r", infix("+", await(promiseResolve(num(41))), num(1))),
		retStmt(id("r")))
	v, diag := evalInProgram(t, nil, call(fn))
	wantNoDiag(t, diag)
	wantNumber(t, wantFulfilled(t, v), 42)
}

func TestAsyncRejectionOnThrow(t *testing.T) {
	fn := asyncArrow(&ast.ThrowStatement{Argument: str("nope")})
	v, diag := evalInProgram(t, nil, call(fn))
	wantNoDiag(t, diag)
	p, ok := v.(*PromiseValue)
	if !ok {
		t.Fatalf("expected promise, got %T", v)
	}
	if p.Promise.State != PromiseRejected {
		t.Fatalf("expected rejected promise")
	}
	wantString(t, p.Promise.Value, "nope")
}

func TestAwaitRejectedPromiseRaises(t *testing.T) {
	fn := asyncArrow(
		&ast.TryStatement{
			Block: []ast.Statement{
				exprStmt(await(call(member(id("Promise"), "reject"), str("reason")))),
				retStmt(str("not reached")),
			},
			Param:      "e",
			HasHandler: true,
			Handler: []ast.Statement{
				retStmt(infix("+", str("caught:"), id("e"))),
			},
		})
	v, diag := evalInProgram(t, nil, call(fn))
	wantNoDiag(t, diag)
	wantString(t, wantFulfilled(t, v), "caught:reason")
}

func TestPromiseThenChaining(t *testing.T) {
	setup := []ast.Statement{
		letDecl("result", null()),
		exprStmt(call(
			member(call(
				member(promiseResolve(num(1)), "then"),
				arrow(params("v"), retStmt(infix("+", id("v"), num(1))))), "then"),
			arrow(params("v"), exprStmt(assign(id("result"), id("v")))))),
	}
	// microtasks drain before Run returns
	v, diag := evalInProgram(t, setup, id("result"))
	wantNoDiag(t, diag)
	wantNumber(t, v, 2)
}

func TestPromiseCatchReceivesReason(t *testing.T) {
	setup := []ast.Statement{
		letDecl("result", null()),
		exprStmt(call(
			member(call(member(id("Promise"), "reject"), str("bad")), "catch"),
			arrow(params("r"), exprStmt(assign(id("result"), id("r")))))),
	}
	v, diag := evalInProgram(t, setup, id("result"))
	wantNoDiag(t, diag)
	wantString(t, v, "bad")
}

func TestMicrotaskFIFOOrdering(t *testing.T) {
	setup := []ast.Statement{
		letDecl("order", arrayLit()),
		exprStmt(call(member(promiseResolve(num(1)), "then"),
			arrow(nil, exprStmt(call(member(id("order"), "push"), str("first")))))),
		exprStmt(call(member(promiseResolve(num(2)), "then"),
			arrow(nil, exprStmt(call(member(id("order"), "push"), str("second")))))),
		exprStmt(call(member(id("order"), "push"), str("sync"))),
	}
	v, diag := evalInProgram(t, setup, id("order"))
	wantNoDiag(t, diag)
	wantArrayValues(t, v, NewString("sync"), NewString("first"), NewString("second"))
}

func TestPromiseExecutor(t *testing.T) {
	setup := []ast.Statement{
		constDecl("p", newExpr(id("Promise"),
			arrow(params("resolve", "reject"),
				exprStmt(call(id("resolve"), num(5)))))),
		letDecl("got", null()),
		exprStmt(call(member(id("p"), "then"),
			arrow(params("v"), exprStmt(assign(id("got"), id("v")))))),
	}
	v, diag := evalInProgram(t, setup, id("got"))
	wantNoDiag(t, diag)
	wantNumber(t, v, 5)
}

func TestPromiseAll(t *testing.T) {
	setup := []ast.Statement{
		letDecl("got", null()),
		exprStmt(call(
			member(call(member(id("Promise"), "all"), arrayLit(
				promiseResolve(num(1)),
				num(2),
				promiseResolve(num(3)),
			)), "then"),
			arrow(params("vs"), exprStmt(assign(id("got"), id("vs")))))),
	}
	v, diag := evalInProgram(t, setup, id("got"))
	wantNoDiag(t, diag)
	wantArrayValues(t, v, &Number{Value: 1}, &Number{Value: 2}, &Number{Value: 3})
}

func TestPromiseAllRejectsOnFirstFailure(t *testing.T) {
	setup := []ast.Statement{
		letDecl("reason", null()),
		exprStmt(call(
			member(call(member(id("Promise"), "all"), arrayLit(
				promiseResolve(num(1)),
				call(member(id("Promise"), "reject"), str("down")),
			)), "catch"),
			arrow(params("r"), exprStmt(assign(id("reason"), id("r")))))),
	}
	v, diag := evalInProgram(t, setup, id("reason"))
	wantNoDiag(t, diag)
	wantString(t, v, "down")
}

func TestPromiseAllSettled(t *testing.T) {
	setup := []ast.Statement{
		letDecl("statuses", null()),
		exprStmt(call(
			member(call(member(id("Promise"), "allSettled"), arrayLit(
				promiseResolve(num(1)),
				call(member(id("Promise"), "reject"), str("no")),
			)), "then"),
			arrow(params("rs"), exprStmt(assign(id("statuses"), arrayLit(
				member(index(id("rs"), num(0)), "status"),
				member(index(id("rs"), num(1)), "status"),
				member(index(id("rs"), num(1)), "reason"),
			)))))),
	}
	v, diag := evalInProgram(t, setup, id("statuses"))
	wantNoDiag(t, diag)
	wantArrayValues(t, v, NewString("fulfilled"), NewString("rejected"), NewString("no"))
}

func TestPromiseRace(t *testing.T) {
	setup := []ast.Statement{
		letDecl("winner", null()),
		exprStmt(call(
			member(call(member(id("Promise"), "race"), arrayLit(
				promiseResolve(str("fast")),
				promiseResolve(str("slow")),
			)), "then"),
			arrow(params("v"), exprStmt(assign(id("winner"), id("v")))))),
	}
	v, diag := evalInProgram(t, setup, id("winner"))
	wantNoDiag(t, diag)
	wantString(t, v, "fast")
}

func TestPromiseAny(t *testing.T) {
	setup := []ast.Statement{
		letDecl("got", null()),
		exprStmt(call(
			member(call(member(id("Promise"), "any"), arrayLit(
				call(member(id("Promise"), "reject"), str("a")),
				promiseResolve(str("b")),
			)), "then"),
			arrow(params("v"), exprStmt(assign(id("got"), id("v")))))),
	}
	v, diag := evalInProgram(t, setup, id("got"))
	wantNoDiag(t, diag)
	wantString(t, v, "b")
}

func TestAwaitNonPromisePassesThrough(t *testing.T) {
	fn := asyncArrow(retStmt(await(num(7))))
	v, diag := evalInProgram(t, nil, call(fn))
	wantNoDiag(t, diag)
	wantNumber(t, wantFulfilled(t, v), 7)
}

func TestAsyncGeneratorQueue(t *testing.T) {
	// async function* g() { yield 1; yield 2 }
	setup := []ast.Statement{
		&ast.FunctionDeclaration{Name: "g", IsAsync: true, IsGenerator: true,
			Body: []ast.Statement{
				exprStmt(yield(num(1))),
				exprStmt(yield(num(2))),
			}},
		constDecl("it", call(id("g"))),
		letDecl("first", null()),
		letDecl("second", null()),
		letDecl("third", null()),
		// enqueue all three before any settles; the queue serializes
		exprStmt(call(member(call(member(id("it"), "next")), "then"),
			arrow(params("r"), exprStmt(assign(id("first"), member(id("r"), "value")))))),
		exprStmt(call(member(call(member(id("it"), "next")), "then"),
			arrow(params("r"), exprStmt(assign(id("second"), member(id("r"), "value")))))),
		exprStmt(call(member(call(member(id("it"), "next")), "then"),
			arrow(params("r"), exprStmt(assign(id("third"), member(id("r"), "done")))))),
	}
	v, diag := evalInProgram(t, setup, arrayLit(id("first"), id("second"), id("third")))
	wantNoDiag(t, diag)
	wantArrayValues(t, v, &Number{Value: 1}, &Number{Value: 2}, TRUE)
}

func TestForAwaitOf(t *testing.T) {
	setup := []ast.Statement{
		&ast.FunctionDeclaration{Name: "g", IsAsync: true, IsGenerator: true,
			Body: []ast.Statement{
				exprStmt(yield(num(1))),
				exprStmt(yield(num(2))),
				exprStmt(yield(num(3))),
			}},
		letDecl("sum", num(0)),
		constDecl("collect", asyncArrow(
			&ast.ForOfStatement{
				Await: true,
				Decl: &ast.DeclarationStatement{Kind: ast.DeclConst,
					Decls: []*ast.Declarator{{Name: "v"}}},
				Iterable: call(id("g")),
				Body:     exprStmt(&ast.AssignExpr{Operator: "+=", Target: id("sum"), Value: id("v")}),
			},
			retStmt(id("sum")))),
	}
	v, diag := evalInProgram(t, setup, call(id("collect")))
	wantNoDiag(t, diag)
	wantNumber(t, wantFulfilled(t, v), 6)
}

func TestRepeatedRunsShareSymbolRegistry(t *testing.T) {
	// Symbol.for from one run resolves identically in a fresh realm
	e1 := New()
	env1 := e1.NewGlobalEnvironment()
	v1, diag1 := e1.Run(env1, &ast.Program{Statements: []ast.Statement{
		exprStmt(call(member(id("Symbol"), "for"), str("shared.key"))),
	}})
	if diag1 != nil {
		t.Fatalf("unexpected diagnostic: %s", diag1.String())
	}

	e2 := New()
	env2 := e2.NewGlobalEnvironment()
	v2, diag2 := e2.Run(env2, &ast.Program{Statements: []ast.Statement{
		exprStmt(call(member(id("Symbol"), "for"), str("shared.key"))),
	}})
	if diag2 != nil {
		t.Fatalf("unexpected diagnostic: %s", diag2.String())
	}

	s1, ok1 := v1.(*Symbol)
	s2, ok2 := v2.(*Symbol)
	if !ok1 || !ok2 {
		t.Fatalf("expected symbols, got %T / %T", v1, v2)
	}
	if s1.Data != s2.Data {
		t.Fatal("Symbol.for must return the same symbol across runs")
	}
}
