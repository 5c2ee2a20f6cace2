package ast

import "github.com/funvibe/funjs/internal/token"

type ClassMemberKind int

const (
	MemberMethod ClassMemberKind = iota
	MemberGetter
	MemberSetter
	MemberField
	MemberConstructor
	MemberStaticBlock
)

// ClassMember is one member of a class body. The flag fields span the
// public/private x instance/static x plain/async/generator cross
// product; Computed members evaluate KeyExpr at class-creation time.
// Private member names arrive without the leading '#'.
type ClassMember struct {
	Token       token.Token
	Kind        ClassMemberKind
	Name        string
	KeyExpr     Expression
	Computed    bool
	IsStatic    bool
	IsPrivate   bool
	IsAsync     bool
	IsGenerator bool
	Params      []*DestructuringElement
	Body        []Statement
	Value       Expression // field initializer
}

// ClassDefinition: Extends is an arbitrary expression evaluated at
// class-creation time (it may be another class, a function, or null).
type ClassDefinition struct {
	Token   token.Token
	Name    string
	Extends Expression
	Members []*ClassMember
}

func (c *ClassDefinition) GetToken() token.Token { return c.Token }
