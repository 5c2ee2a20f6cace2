package ast

import (
	"github.com/funvibe/funjs/internal/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	GetToken() token.Token
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node handed to the evaluator. The parser is an
// external collaborator; programs may also arrive as decoded JSON.
type Program struct {
	File       string
	Statements []Statement
}

func (p *Program) GetToken() token.Token {
	if len(p.Statements) > 0 {
		return p.Statements[0].GetToken()
	}
	return token.Token{}
}

// Identifier is a variable reference. `this` is an ordinary identifier;
// the evaluator resolves it through the environment chain.
type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode() {}
func (i *Identifier) GetToken() token.Token {
	if i == nil {
		return token.Token{}
	}
	return i.Token
}
