package evaluator

import (
	"testing"

	"github.com/funvibe/funjs/internal/ast"
	"github.com/funvibe/funjs/internal/token"
	"github.com/gkampitakis/go-snaps/snaps"
)

func TestUncaughtDiagnosticShape(t *testing.T) {
	// an uncaught engine error carries kind, message, location and a
	// best-effort frame list
	fn := fnExpr("boom", nil,
		&ast.ExpressionStatement{
			Token:      token.Token{Line: 3, Column: 5},
			Expression: member(null(), "x"),
		})
	_, diag := runProgram(t,
		constDecl("boom", fn),
		&ast.ExpressionStatement{
			Token:      token.Token{Line: 7, Column: 1},
			Expression: call(id("boom")),
		},
	)
	if diag == nil {
		t.Fatal("expected a diagnostic")
	}
	if diag.Kind != "TypeError" {
		t.Fatalf("expected TypeError, got %s", diag.Kind)
	}
	if diag.Line != 3 || diag.Column != 5 {
		t.Fatalf("expected location 3:5, got %d:%d", diag.Line, diag.Column)
	}
	snaps.MatchSnapshot(t, "uncaught_type_error", diag.String())
}

func TestUncaughtThrowDiagnostic(t *testing.T) {
	_, diag := runProgram(t,
		&ast.ThrowStatement{
			Token:    token.Token{Line: 2, Column: 3},
			Argument: str("kaboom"),
		},
	)
	if diag == nil {
		t.Fatal("expected a diagnostic")
	}
	if diag.Kind != "Uncaught" {
		t.Fatalf("expected Uncaught, got %s", diag.Kind)
	}
	wantString(t, diag.Thrown, "kaboom")
	snaps.MatchSnapshot(t, "uncaught_throw", diag.String())
}

func TestStackFrameRendering(t *testing.T) {
	fr := StackFrame{Name: "work", File: "app.js", Line: 12, Column: 8}
	if got := fr.String(); got != "work (app.js:12:8)" {
		t.Fatalf("got %q", got)
	}
	anon := StackFrame{File: "app.js", Line: 1, Column: 1}
	if got := anon.String(); got != "<anonymous> (app.js:1:1)" {
		t.Fatalf("got %q", got)
	}
}

func TestErrorLocationAttachesWhilePropagating(t *testing.T) {
	// an error raised without a location picks up the statement's
	// line/column on the way out
	_, diag := runProgram(t,
		&ast.ExpressionStatement{
			Token:      token.Token{Line: 9, Column: 2},
			Expression: infix("+", bigint(1), num(1)),
		},
	)
	wantDiagKind(t, diag, "TypeError")
	if diag.Line != 9 {
		t.Fatalf("expected line 9, got %d", diag.Line)
	}
}
