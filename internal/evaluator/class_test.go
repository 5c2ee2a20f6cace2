package evaluator

import (
	"testing"

	"github.com/funvibe/funjs/internal/ast"
)

func classDecl(def *ast.ClassDefinition) *ast.ClassDeclaration {
	return &ast.ClassDeclaration{Def: def}
}

func method(name string, params []*ast.DestructuringElement, body ...ast.Statement) *ast.ClassMember {
	return &ast.ClassMember{Kind: ast.MemberMethod, Name: name, Params: params, Body: body}
}

func getter(name string, body ...ast.Statement) *ast.ClassMember {
	return &ast.ClassMember{Kind: ast.MemberGetter, Name: name, Body: body}
}

func ctor(params []*ast.DestructuringElement, body ...ast.Statement) *ast.ClassMember {
	return &ast.ClassMember{Kind: ast.MemberConstructor, Name: "constructor", Params: params, Body: body}
}

func field(name string, value ast.Expression) *ast.ClassMember {
	return &ast.ClassMember{Kind: ast.MemberField, Name: name, Value: value}
}

func TestSuperGetterChain(t *testing.T) {
	// class A { get x() { return 1 } }
	// class B extends A { get x() { return super.x + 1 } }
	// new B().x == 2
	setup := []ast.Statement{
		classDecl(&ast.ClassDefinition{Name: "A", Members: []*ast.ClassMember{
			getter("x", retStmt(num(1))),
		}}),
		classDecl(&ast.ClassDefinition{Name: "B", Extends: id("A"), Members: []*ast.ClassMember{
			getter("x", retStmt(infix("+", &ast.SuperProperty{Property: "x"}, num(1)))),
		}}),
	}
	v, diag := evalInProgram(t, setup, member(newExpr(id("B")), "x"))
	wantNoDiag(t, diag)
	wantNumber(t, v, 2)
}

func TestInstanceFieldsAndMethods(t *testing.T) {
	setup := []ast.Statement{
		classDecl(&ast.ClassDefinition{Name: "Counter", Members: []*ast.ClassMember{
			field("count", num(0)),
			method("inc", nil,
				exprStmt(&ast.AssignExpr{Operator: "+=",
					Target: member(id("this"), "count"), Value: num(1)}),
				retStmt(member(id("this"), "count"))),
		}}),
		constDecl("c", newExpr(id("Counter"))),
		exprStmt(call(member(id("c"), "inc"))),
		exprStmt(call(member(id("c"), "inc"))),
	}
	v, diag := evalInProgram(t, setup, member(id("c"), "count"))
	wantNoDiag(t, diag)
	wantNumber(t, v, 2)
}

func TestConstructorAndInheritance(t *testing.T) {
	setup := []ast.Statement{
		classDecl(&ast.ClassDefinition{Name: "Animal", Members: []*ast.ClassMember{
			ctor(params("name"),
				exprStmt(assign(member(id("this"), "name"), id("name")))),
			method("speak", nil, retStmt(infix("+", member(id("this"), "name"), str(" makes a sound")))),
		}}),
		classDecl(&ast.ClassDefinition{Name: "Dog", Extends: id("Animal"), Members: []*ast.ClassMember{
			ctor(params("name"),
				exprStmt(&ast.SuperCall{Args: []ast.Expression{id("name")}})),
			method("speak", nil, retStmt(infix("+", member(id("this"), "name"), str(" barks")))),
		}}),
		constDecl("d", newExpr(id("Dog"), str("Rex"))),
	}
	v, diag := evalInProgram(t, setup, call(member(id("d"), "speak")))
	wantNoDiag(t, diag)
	wantString(t, v, "Rex barks")

	v, diag = evalInProgram(t, setup, infix("instanceof", id("d"), id("Animal")))
	wantNoDiag(t, diag)
	wantBool(t, v, true)
}

func TestSuperMethodCall(t *testing.T) {
	setup := []ast.Statement{
		classDecl(&ast.ClassDefinition{Name: "Base", Members: []*ast.ClassMember{
			method("greet", nil, retStmt(str("base"))),
		}}),
		classDecl(&ast.ClassDefinition{Name: "Derived", Extends: id("Base"), Members: []*ast.ClassMember{
			method("greet", nil, retStmt(infix("+",
				&ast.SuperMethod{Method: "greet"}, str("+derived")))),
		}}),
	}
	v, diag := evalInProgram(t, setup, call(member(newExpr(id("Derived")), "greet")))
	wantNoDiag(t, diag)
	wantString(t, v, "base+derived")
}

func TestThisBeforeSuperIsReferenceError(t *testing.T) {
	setup := []ast.Statement{
		classDecl(&ast.ClassDefinition{Name: "A", Members: nil}),
		classDecl(&ast.ClassDefinition{Name: "B", Extends: id("A"), Members: []*ast.ClassMember{
			ctor(nil,
				exprStmt(assign(member(id("this"), "x"), num(1))),
				exprStmt(&ast.SuperCall{})),
		}}),
	}
	_, diag := evalInProgram(t, setup, newExpr(id("B")))
	wantDiagKind(t, diag, "ReferenceError")
	if diag != nil && !containsSubstring(diag.Message, "super") {
		t.Fatalf("message should mention super: %s", diag.Message)
	}
}

func containsSubstring(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

func TestDefaultDerivedConstructorForwardsArgs(t *testing.T) {
	setup := []ast.Statement{
		classDecl(&ast.ClassDefinition{Name: "A", Members: []*ast.ClassMember{
			ctor(params("v"),
				exprStmt(assign(member(id("this"), "v"), id("v")))),
		}}),
		classDecl(&ast.ClassDefinition{Name: "B", Extends: id("A"), Members: nil}),
	}
	v, diag := evalInProgram(t, setup, member(newExpr(id("B"), num(7)), "v"))
	wantNoDiag(t, diag)
	wantNumber(t, v, 7)
}

func TestPrivateFieldsAndAccessors(t *testing.T) {
	// class C { #x = 1; get x() { return this.#x } }
	setup := []ast.Statement{
		classDecl(&ast.ClassDefinition{Name: "C", Members: []*ast.ClassMember{
			{Kind: ast.MemberField, Name: "x", IsPrivate: true, Value: num(1)},
			getter("x", retStmt(member(id("this"), "#x"))),
		}}),
	}
	v, diag := evalInProgram(t, setup, member(newExpr(id("C")), "x"))
	wantNoDiag(t, diag)
	wantNumber(t, v, 1)

	// access outside the class body is a SyntaxError
	_, diag = evalInProgram(t, setup, member(newExpr(id("C")), "#x"))
	wantDiagKind(t, diag, "SyntaxError")
}

func TestUndeclaredPrivateAccessIsEarlySyntaxError(t *testing.T) {
	// the class itself fails at creation, before any instance exists
	_, diag := runProgram(t,
		classDecl(&ast.ClassDefinition{Name: "Bad", Members: []*ast.ClassMember{
			method("leak", nil, retStmt(member(id("this"), "#nope"))),
		}}),
	)
	wantDiagKind(t, diag, "SyntaxError")
}

func TestPrivateMethods(t *testing.T) {
	setup := []ast.Statement{
		classDecl(&ast.ClassDefinition{Name: "C", Members: []*ast.ClassMember{
			{Kind: ast.MemberMethod, Name: "secret", IsPrivate: true,
				Body: []ast.Statement{retStmt(num(42))}},
			method("reveal", nil,
				retStmt(call(member(id("this"), "#secret")))),
		}}),
	}
	v, diag := evalInProgram(t, setup, call(member(newExpr(id("C")), "reveal")))
	wantNoDiag(t, diag)
	wantNumber(t, v, 42)
}

func TestPrivateNamesAreDistinctPerClass(t *testing.T) {
	// two classes with the same #name do not see each other's slot
	setup := []ast.Statement{
		classDecl(&ast.ClassDefinition{Name: "A", Members: []*ast.ClassMember{
			{Kind: ast.MemberField, Name: "v", IsPrivate: true, Value: num(1)},
			method("read", params("other"), retStmt(member(id("other"), "#v"))),
		}}),
		classDecl(&ast.ClassDefinition{Name: "B", Members: []*ast.ClassMember{
			{Kind: ast.MemberField, Name: "v", IsPrivate: true, Value: num(2)},
		}}),
	}
	_, diag := evalInProgram(t, setup,
		call(member(newExpr(id("A")), "read"), newExpr(id("B"))))
	wantDiagKind(t, diag, "TypeError")
}

func TestStaticMembersAndBlocks(t *testing.T) {
	setup := []ast.Statement{
		classDecl(&ast.ClassDefinition{Name: "Config", Members: []*ast.ClassMember{
			{Kind: ast.MemberField, Name: "base", IsStatic: true, Value: num(10)},
			{Kind: ast.MemberStaticBlock, Body: []ast.Statement{
				exprStmt(assign(member(id("this"), "derived"),
					infix("*", member(id("this"), "base"), num(2)))),
			}},
			{Kind: ast.MemberMethod, Name: "total", IsStatic: true, Body: []ast.Statement{
				retStmt(infix("+", member(id("this"), "base"), member(id("this"), "derived"))),
			}},
		}}),
	}
	v, diag := evalInProgram(t, setup, call(member(id("Config"), "total")))
	wantNoDiag(t, diag)
	wantNumber(t, v, 30)
}

func TestComputedMemberKeysEvaluateAtClassCreation(t *testing.T) {
	setup := []ast.Statement{
		letDecl("key", str("dynamic")),
		classDecl(&ast.ClassDefinition{Name: "C", Members: []*ast.ClassMember{
			{Kind: ast.MemberMethod, Computed: true, KeyExpr: id("key"),
				Body: []ast.Statement{retStmt(num(5))}},
		}}),
		// later mutation must not move the member
		exprStmt(assign(id("key"), str("other"))),
	}
	v, diag := evalInProgram(t, setup, call(member(newExpr(id("C")), "dynamic")))
	wantNoDiag(t, diag)
	wantNumber(t, v, 5)
}

func TestNewTargetAndPrototypeResolution(t *testing.T) {
	// new C() returns an object whose [[Prototype]] is (new_target ?? C).prototype
	setup := []ast.Statement{
		classDecl(&ast.ClassDefinition{Name: "C", Members: nil}),
		constDecl("inst", newExpr(id("C"))),
	}
	v, diag := evalInProgram(t, setup,
		infix("===",
			call(member(id("Object"), "getPrototypeOf"), id("inst")),
			member(id("C"), "prototype")))
	wantNoDiag(t, diag)
	wantBool(t, v, true)

	// Reflect.construct(A, [], B) gives B.prototype
	setup = []ast.Statement{
		classDecl(&ast.ClassDefinition{Name: "A", Members: nil}),
		classDecl(&ast.ClassDefinition{Name: "B", Members: nil}),
		constDecl("inst", call(member(id("Reflect"), "construct"), id("A"), arrayLit(), id("B"))),
	}
	v, diag = evalInProgram(t, setup,
		infix("===",
			call(member(id("Object"), "getPrototypeOf"), id("inst")),
			member(id("B"), "prototype")))
	wantNoDiag(t, diag)
	wantBool(t, v, true)
}

func TestNewTargetInsideConstructor(t *testing.T) {
	setup := []ast.Statement{
		classDecl(&ast.ClassDefinition{Name: "C", Members: []*ast.ClassMember{
			ctor(nil, exprStmt(assign(member(id("this"), "viaNew"),
				infix("===", &ast.NewTargetExpr{}, id("C"))))),
		}}),
	}
	v, diag := evalInProgram(t, setup, member(newExpr(id("C")), "viaNew"))
	wantNoDiag(t, diag)
	wantBool(t, v, true)
}

func TestConstructorExplicitObjectReturnWins(t *testing.T) {
	setup := []ast.Statement{
		classDecl(&ast.ClassDefinition{Name: "C", Members: []*ast.ClassMember{
			ctor(nil, retStmt(&ast.ObjectLiteral{Properties: []*ast.ObjectProperty{
				{Kind: ast.PropertyInit, Key: "replaced", Value: boolean(true)},
			}})),
		}}),
	}
	v, diag := evalInProgram(t, setup, member(newExpr(id("C")), "replaced"))
	wantNoDiag(t, diag)
	wantBool(t, v, true)
}

func TestConstructorPrimitiveReturnIgnored(t *testing.T) {
	setup := []ast.Statement{
		classDecl(&ast.ClassDefinition{Name: "C", Members: []*ast.ClassMember{
			field("kept", num(1)),
			ctor(nil, retStmt(num(99))),
		}}),
	}
	v, diag := evalInProgram(t, setup, member(newExpr(id("C")), "kept"))
	wantNoDiag(t, diag)
	wantNumber(t, v, 1)
}

func TestClassConstructorRequiresNew(t *testing.T) {
	setup := []ast.Statement{
		classDecl(&ast.ClassDefinition{Name: "C", Members: nil}),
	}
	_, diag := evalInProgram(t, setup, call(id("C")))
	wantDiagKind(t, diag, "TypeError")
}

func TestExtendsNonConstructorThrows(t *testing.T) {
	_, diag := runProgram(t,
		classDecl(&ast.ClassDefinition{Name: "C", Extends: num(5), Members: nil}),
	)
	wantDiagKind(t, diag, "TypeError")
}

func TestArrowTransparentForSuperAndNewTarget(t *testing.T) {
	// an arrow inside a method resolves super through the method
	setup := []ast.Statement{
		classDecl(&ast.ClassDefinition{Name: "Base", Members: []*ast.ClassMember{
			method("v", nil, retStmt(num(10))),
		}}),
		classDecl(&ast.ClassDefinition{Name: "Derived", Extends: id("Base"), Members: []*ast.ClassMember{
			method("v", nil,
				retStmt(call(arrow(nil, retStmt(&ast.SuperMethod{Method: "v"}))))),
		}}),
	}
	v, diag := evalInProgram(t, setup, call(member(newExpr(id("Derived")), "v")))
	wantNoDiag(t, diag)
	wantNumber(t, v, 10)
}

func TestFunctionConstructorNew(t *testing.T) {
	// ordinary function used with new: instance prototype from
	// f.prototype, primitive return ignored
	fn := fnExpr("Point", params("x"),
		exprStmt(assign(member(id("this"), "x"), id("x"))))
	setup := []ast.Statement{
		constDecl("Point", fn),
		constDecl("p", newExpr(id("Point"), num(3))),
	}
	v, diag := evalInProgram(t, setup, member(id("p"), "x"))
	wantNoDiag(t, diag)
	wantNumber(t, v, 3)

	v, diag = evalInProgram(t, setup,
		infix("===",
			call(member(id("Object"), "getPrototypeOf"), id("p")),
			member(id("Point"), "prototype")))
	wantNoDiag(t, diag)
	wantBool(t, v, true)
}
