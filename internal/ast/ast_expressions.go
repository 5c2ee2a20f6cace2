package ast

import (
	"math/big"

	"github.com/funvibe/funjs/internal/token"
)

// NumberLiteral is an IEEE-754 double literal.
type NumberLiteral struct {
	Token token.Token
	Value float64
}

func (n *NumberLiteral) expressionNode()      {}
func (n *NumberLiteral) GetToken() token.Token { return n.Token }

// BigIntLiteral is an arbitrary-precision integer literal (`123n`).
type BigIntLiteral struct {
	Token token.Token
	Value *big.Int
}

func (b *BigIntLiteral) expressionNode()      {}
func (b *BigIntLiteral) GetToken() token.Token { return b.Token }

// StringLiteral holds the cooked string value.
type StringLiteral struct {
	Token token.Token
	Value string
}

func (s *StringLiteral) expressionNode()      {}
func (s *StringLiteral) GetToken() token.Token { return s.Token }

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (b *BooleanLiteral) expressionNode()      {}
func (b *BooleanLiteral) GetToken() token.Token { return b.Token }

type NullLiteral struct {
	Token token.Token
}

func (n *NullLiteral) expressionNode()      {}
func (n *NullLiteral) GetToken() token.Token { return n.Token }

// ValueExpr carries a pre-computed engine value back into the tree.
// The payload is an evaluator value; the AST does not inspect it.
// Generator resumption and default-parameter plumbing rely on it.
type ValueExpr struct {
	Token token.Token
	Value interface{}
}

func (v *ValueExpr) expressionNode()      {}
func (v *ValueExpr) GetToken() token.Token { return v.Token }

// RegexLiteral is handed to the RegExp collaborator unparsed.
type RegexLiteral struct {
	Token   token.Token
	Pattern string
	Flags   string
}

func (r *RegexLiteral) expressionNode()      {}
func (r *RegexLiteral) GetToken() token.Token { return r.Token }

// TemplateLiteral: Quasis has exactly len(Exprs)+1 entries.
// Raw carries the raw (uncooked) text for tagged templates.
type TemplateLiteral struct {
	Token  token.Token
	Quasis []string
	Raw    []string
	Exprs  []Expression
}

func (t *TemplateLiteral) expressionNode()      {}
func (t *TemplateLiteral) GetToken() token.Token { return t.Token }

type TaggedTemplate struct {
	Token token.Token
	Tag   Expression
	Quasi *TemplateLiteral
}

func (t *TaggedTemplate) expressionNode()      {}
func (t *TaggedTemplate) GetToken() token.Token { return t.Token }

// ArrayLiteral: a nil element is an elision (hole).
type ArrayLiteral struct {
	Token    token.Token
	Elements []Expression
}

func (a *ArrayLiteral) expressionNode()      {}
func (a *ArrayLiteral) GetToken() token.Token { return a.Token }

// SpreadElement appears in array literals, call arguments and new.
type SpreadElement struct {
	Token    token.Token
	Argument Expression
}

func (s *SpreadElement) expressionNode()      {}
func (s *SpreadElement) GetToken() token.Token { return s.Token }

type PropertyKind int

const (
	PropertyInit PropertyKind = iota
	PropertyShorthand
	PropertyMethod
	PropertyGet
	PropertySet
	PropertySpread
)

// ObjectProperty is one entry of an object literal. Computed keys hold
// the key expression in KeyExpr; otherwise Key is the literal name.
type ObjectProperty struct {
	Token    token.Token
	Kind     PropertyKind
	Key      string
	KeyExpr  Expression
	Computed bool
	Value    Expression
}

type ObjectLiteral struct {
	Token      token.Token
	Properties []*ObjectProperty
}

func (o *ObjectLiteral) expressionNode()      {}
func (o *ObjectLiteral) GetToken() token.Token { return o.Token }

// FunctionExpr covers function expressions, arrows, and the async /
// generator cross-product. Arrow bodies that are bare expressions are
// wrapped by the parser in a ReturnStatement.
type FunctionExpr struct {
	Token       token.Token
	Name        string
	Params      []*DestructuringElement
	Body        []Statement
	IsArrow     bool
	IsAsync     bool
	IsGenerator bool
}

func (f *FunctionExpr) expressionNode()      {}
func (f *FunctionExpr) GetToken() token.Token { return f.Token }

type ClassExpr struct {
	Token token.Token
	Def   *ClassDefinition
}

func (c *ClassExpr) expressionNode()      {}
func (c *ClassExpr) GetToken() token.Token { return c.Token }

// MemberExpr is `obj.name`. Private accesses arrive with the `#` prefix
// preserved in Property.
type MemberExpr struct {
	Token    token.Token
	Object   Expression
	Property string
	Optional bool
}

func (m *MemberExpr) expressionNode()      {}
func (m *MemberExpr) GetToken() token.Token { return m.Token }

// IndexExpr is `obj[key]`.
type IndexExpr struct {
	Token    token.Token
	Object   Expression
	Index    Expression
	Optional bool
}

func (i *IndexExpr) expressionNode()      {}
func (i *IndexExpr) GetToken() token.Token { return i.Token }

type CallExpr struct {
	Token    token.Token
	Callee   Expression
	Args     []Expression
	Optional bool
}

func (c *CallExpr) expressionNode()      {}
func (c *CallExpr) GetToken() token.Token { return c.Token }

type NewExpr struct {
	Token  token.Token
	Callee Expression
	Args   []Expression
}

func (n *NewExpr) expressionNode()      {}
func (n *NewExpr) GetToken() token.Token { return n.Token }

// PrefixExpr: -, +, !, ~, typeof, void, delete.
type PrefixExpr struct {
	Token    token.Token
	Operator string
	Right    Expression
}

func (p *PrefixExpr) expressionNode()      {}
func (p *PrefixExpr) GetToken() token.Token { return p.Token }

// InfixExpr covers arithmetic, bitwise, relational, equality, in,
// instanceof, &&, ||, and ??.
type InfixExpr struct {
	Token    token.Token
	Operator string
	Left     Expression
	Right    Expression
}

func (i *InfixExpr) expressionNode()      {}
func (i *InfixExpr) GetToken() token.Token { return i.Token }

// AssignExpr: Operator is "=" or a compound form ("+=", "&&=", ...).
// Target is an Identifier, MemberExpr, IndexExpr, ArrayPattern or
// ObjectPattern.
type AssignExpr struct {
	Token    token.Token
	Operator string
	Target   Expression
	Value    Expression
}

func (a *AssignExpr) expressionNode()      {}
func (a *AssignExpr) GetToken() token.Token { return a.Token }

// UpdateExpr: ++ / -- in prefix or postfix position.
type UpdateExpr struct {
	Token    token.Token
	Operator string
	Prefix   bool
	Target   Expression
}

func (u *UpdateExpr) expressionNode()      {}
func (u *UpdateExpr) GetToken() token.Token { return u.Token }

type ConditionalExpr struct {
	Token      token.Token
	Test       Expression
	Consequent Expression
	Alternate  Expression
}

func (c *ConditionalExpr) expressionNode()      {}
func (c *ConditionalExpr) GetToken() token.Token { return c.Token }

type SequenceExpr struct {
	Token token.Token
	Exprs []Expression
}

func (s *SequenceExpr) expressionNode()      {}
func (s *SequenceExpr) GetToken() token.Token { return s.Token }

type YieldExpr struct {
	Token    token.Token
	Argument Expression
	Delegate bool
}

func (y *YieldExpr) expressionNode()      {}
func (y *YieldExpr) GetToken() token.Token { return y.Token }

type AwaitExpr struct {
	Token    token.Token
	Argument Expression
}

func (a *AwaitExpr) expressionNode()      {}
func (a *AwaitExpr) GetToken() token.Token { return a.Token }

type SuperCall struct {
	Token token.Token
	Args  []Expression
}

func (s *SuperCall) expressionNode()      {}
func (s *SuperCall) GetToken() token.Token { return s.Token }

// SuperProperty is `super.name` read; SuperMethod is `super.name(...)`.
type SuperProperty struct {
	Token    token.Token
	Property string
}

func (s *SuperProperty) expressionNode()      {}
func (s *SuperProperty) GetToken() token.Token { return s.Token }

type SuperMethod struct {
	Token  token.Token
	Method string
	Args   []Expression
}

func (s *SuperMethod) expressionNode()      {}
func (s *SuperMethod) GetToken() token.Token { return s.Token }

type NewTargetExpr struct {
	Token token.Token
}

func (n *NewTargetExpr) expressionNode()      {}
func (n *NewTargetExpr) GetToken() token.Token { return n.Token }

// ImportCall is dynamic `import(specifier)`.
type ImportCall struct {
	Token     token.Token
	Specifier Expression
}

func (i *ImportCall) expressionNode()      {}
func (i *ImportCall) GetToken() token.Token { return i.Token }

// ArrayPattern / ObjectPattern appear as assignment targets and as
// declaration patterns; the evaluator destructures against them.
type ArrayPattern struct {
	Token    token.Token
	Elements []*DestructuringElement
}

func (a *ArrayPattern) expressionNode()      {}
func (a *ArrayPattern) GetToken() token.Token { return a.Token }

type ObjectPattern struct {
	Token    token.Token
	Elements []*ObjectDestructuringElement
}

func (o *ObjectPattern) expressionNode()      {}
func (o *ObjectPattern) GetToken() token.Token { return o.Token }
