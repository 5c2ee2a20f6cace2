package ast

import "github.com/funvibe/funjs/internal/token"

type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) GetToken() token.Token { return es.Token }

type DeclKind int

const (
	DeclLet DeclKind = iota
	DeclConst
	DeclVar
)

// Declarator is one `name = init` (or `pattern = init`) of a
// declaration statement. Pattern declarators set ArrayPat or ObjectPat.
type Declarator struct {
	Token     token.Token
	Name      string
	ArrayPat  *ArrayPattern
	ObjectPat *ObjectPattern
	Init      Expression
}

type DeclarationStatement struct {
	Token token.Token
	Kind  DeclKind
	Decls []*Declarator
}

func (d *DeclarationStatement) statementNode()       {}
func (d *DeclarationStatement) GetToken() token.Token { return d.Token }

type FunctionDeclaration struct {
	Token       token.Token
	Name        string
	Params      []*DestructuringElement
	Body        []Statement
	IsAsync     bool
	IsGenerator bool
}

func (f *FunctionDeclaration) statementNode()       {}
func (f *FunctionDeclaration) GetToken() token.Token { return f.Token }

type ClassDeclaration struct {
	Token token.Token
	Def   *ClassDefinition
}

func (c *ClassDeclaration) statementNode()       {}
func (c *ClassDeclaration) GetToken() token.Token { return c.Token }

type BlockStatement struct {
	Token      token.Token
	Statements []Statement
}

func (b *BlockStatement) statementNode()       {}
func (b *BlockStatement) GetToken() token.Token { return b.Token }

type IfStatement struct {
	Token      token.Token
	Test       Expression
	Consequent Statement
	Alternate  Statement
}

func (i *IfStatement) statementNode()       {}
func (i *IfStatement) GetToken() token.Token { return i.Token }

type WhileStatement struct {
	Token token.Token
	Test  Expression
	Body  Statement
}

func (w *WhileStatement) statementNode()       {}
func (w *WhileStatement) GetToken() token.Token { return w.Token }

type DoWhileStatement struct {
	Token token.Token
	Body  Statement
	Test  Expression
}

func (d *DoWhileStatement) statementNode()       {}
func (d *DoWhileStatement) GetToken() token.Token { return d.Token }

// ForStatement: Init is a statement so that both declaration and
// expression initializers fit; any of the three slots may be nil.
type ForStatement struct {
	Token  token.Token
	Init   Statement
	Test   Expression
	Update Expression
	Body   Statement
}

func (f *ForStatement) statementNode()       {}
func (f *ForStatement) GetToken() token.Token { return f.Token }

// ForInStatement / ForOfStatement: Left is either a fresh declaration
// (Decl non-nil) or an existing assignment target (Target non-nil).
type ForInStatement struct {
	Token  token.Token
	Decl   *DeclarationStatement
	Target Expression
	Object Expression
	Body   Statement
}

func (f *ForInStatement) statementNode()       {}
func (f *ForInStatement) GetToken() token.Token { return f.Token }

type ForOfStatement struct {
	Token    token.Token
	Decl     *DeclarationStatement
	Target   Expression
	Iterable Expression
	Body     Statement
	Await    bool
}

func (f *ForOfStatement) statementNode()       {}
func (f *ForOfStatement) GetToken() token.Token { return f.Token }

// SwitchCase: a nil Test is the default clause.
type SwitchCase struct {
	Token token.Token
	Test  Expression
	Body  []Statement
}

type SwitchStatement struct {
	Token        token.Token
	Discriminant Expression
	Cases        []*SwitchCase
}

func (s *SwitchStatement) statementNode()       {}
func (s *SwitchStatement) GetToken() token.Token { return s.Token }

// TryStatement: Param is the catch binding (nil for `catch {}`);
// CatchPattern allows destructuring catch bindings.
type TryStatement struct {
	Token        token.Token
	Block        []Statement
	Param        string
	CatchPattern *ObjectPattern
	Handler      []Statement
	HasHandler   bool
	Finalizer    []Statement
	HasFinalizer bool
}

func (t *TryStatement) statementNode()       {}
func (t *TryStatement) GetToken() token.Token { return t.Token }

type ThrowStatement struct {
	Token    token.Token
	Argument Expression
}

func (t *ThrowStatement) statementNode()       {}
func (t *ThrowStatement) GetToken() token.Token { return t.Token }

type ReturnStatement struct {
	Token    token.Token
	Argument Expression
}

func (r *ReturnStatement) statementNode()       {}
func (r *ReturnStatement) GetToken() token.Token { return r.Token }

type BreakStatement struct {
	Token token.Token
	Label string
}

func (b *BreakStatement) statementNode()       {}
func (b *BreakStatement) GetToken() token.Token { return b.Token }

type ContinueStatement struct {
	Token token.Token
	Label string
}

func (c *ContinueStatement) statementNode()       {}
func (c *ContinueStatement) GetToken() token.Token { return c.Token }

type LabeledStatement struct {
	Token token.Token
	Label string
	Stmt  Statement
}

func (l *LabeledStatement) statementNode()       {}
func (l *LabeledStatement) GetToken() token.Token { return l.Token }

type EmptyStatement struct {
	Token token.Token
}

func (e *EmptyStatement) statementNode()       {}
func (e *EmptyStatement) GetToken() token.Token { return e.Token }

type DebuggerStatement struct {
	Token token.Token
}

func (d *DebuggerStatement) statementNode()       {}
func (d *DebuggerStatement) GetToken() token.Token { return d.Token }

// ImportSpecifier: {Imported: "x", Local: "y"} for `import {x as y}`;
// Imported "default" for default imports; Namespace for `* as ns`.
type ImportSpecifier struct {
	Imported  string
	Local     string
	Namespace bool
}

type ImportStatement struct {
	Token      token.Token
	Specifiers []*ImportSpecifier
	Module     string
}

func (i *ImportStatement) statementNode()       {}
func (i *ImportStatement) GetToken() token.Token { return i.Token }

// ExportSpecifier: Local name exported as Exported; a Decl export
// carries the declaration itself.
type ExportSpecifier struct {
	Local    string
	Exported string
}

type ExportStatement struct {
	Token      token.Token
	Specifiers []*ExportSpecifier
	Decl       Statement
	Default    Expression
	IsDefault  bool
	// Re-export: `export {a} from "mod"` / `export * from "mod"`.
	From      string
	ExportAll bool
}

func (e *ExportStatement) statementNode()       {}
func (e *ExportStatement) GetToken() token.Token { return e.Token }
