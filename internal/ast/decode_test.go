package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeProgram(t *testing.T) {
	src := `{
	  "type": "Program",
	  "file": "demo.js",
	  "statements": [
	    {"type": "DeclarationStatement", "kind": "let", "line": 1, "column": 1,
	     "declarations": [{"name": "x", "init": {"type": "NumberLiteral", "value": 1}}]},
	    {"type": "IfStatement",
	     "test": {"type": "InfixExpr", "operator": "<",
	              "left": {"type": "Identifier", "name": "x"},
	              "right": {"type": "NumberLiteral", "value": 10}},
	     "consequent": {"type": "ExpressionStatement",
	       "expression": {"type": "AssignExpr", "operator": "=",
	         "target": {"type": "Identifier", "name": "x"},
	         "value": {"type": "StringLiteral", "value": "small"}}}},
	    {"type": "ClassDeclaration", "def": {
	      "name": "C",
	      "members": [
	        {"kind": "field", "name": "count", "private": true,
	         "value": {"type": "NumberLiteral", "value": 0}},
	        {"kind": "method", "name": "run", "generator": true,
	         "params": [{"kind": "variable", "name": "n",
	                     "default": {"type": "NumberLiteral", "value": 1}}],
	         "body": [{"type": "ExpressionStatement",
	           "expression": {"type": "YieldExpr",
	             "argument": {"type": "Identifier", "name": "n"}}}]}
	      ]}}
	  ]
	}`
	prog, err := DecodeProgram([]byte(src))
	require.NoError(t, err)
	require.Equal(t, "demo.js", prog.File)
	require.Len(t, prog.Statements, 3)

	decl, ok := prog.Statements[0].(*DeclarationStatement)
	require.True(t, ok)
	require.Equal(t, DeclLet, decl.Kind)
	require.Equal(t, 1, decl.Token.Line)

	ifStmt, ok := prog.Statements[1].(*IfStatement)
	require.True(t, ok)
	require.IsType(t, &InfixExpr{}, ifStmt.Test)
	require.Nil(t, ifStmt.Alternate)

	cls, ok := prog.Statements[2].(*ClassDeclaration)
	require.True(t, ok)
	require.Equal(t, "C", cls.Def.Name)
	require.Len(t, cls.Def.Members, 2)
	require.True(t, cls.Def.Members[0].IsPrivate)
	require.Equal(t, MemberField, cls.Def.Members[0].Kind)
	require.True(t, cls.Def.Members[1].IsGenerator)
	require.NotNil(t, cls.Def.Members[1].Params[0].Default)
}

func TestDecodeUnknownNodeFails(t *testing.T) {
	_, err := DecodeProgram([]byte(`{"statements": [{"type": "Mystery"}]}`))
	require.Error(t, err)
}

func TestDecodePatterns(t *testing.T) {
	src := `{
	  "statements": [
	    {"type": "DeclarationStatement", "kind": "const",
	     "declarations": [{
	       "arrayPattern": {"type": "ArrayPattern", "elements": [
	         {"kind": "variable", "name": "a"},
	         {"kind": "empty"},
	         {"kind": "rest", "name": "rest"}
	       ]},
	       "init": {"type": "ArrayLiteral", "elements": [
	         {"type": "NumberLiteral", "value": 1},
	         {"type": "NumberLiteral", "value": 2}
	       ]}}]}
	  ]
	}`
	prog, err := DecodeProgram([]byte(src))
	require.NoError(t, err)
	decl := prog.Statements[0].(*DeclarationStatement)
	pat := decl.Decls[0].ArrayPat
	require.NotNil(t, pat)
	require.Len(t, pat.Elements, 3)
	require.Equal(t, DestructureEmpty, pat.Elements[1].Kind)
	require.Equal(t, DestructureRest, pat.Elements[2].Kind)
}
