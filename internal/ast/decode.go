package ast

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/funvibe/funjs/internal/token"
)

// The engine consumes ASTs produced by an external parser. The wire
// form is JSON: every node is an object with a "type" discriminator
// and camelCase fields mirroring the node structs. DecodeProgram is
// the entry point used by the CLI and the module loader.

type rawNode map[string]interface{}

func DecodeProgram(data []byte) (*Program, error) {
	var root rawNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing program JSON: %w", err)
	}
	return decodeProgram(root)
}

func decodeProgram(raw rawNode) (*Program, error) {
	prog := &Program{File: rawString(raw, "file")}
	stmts, err := decodeStatements(rawSlice(raw, "statements"))
	if err != nil {
		return nil, err
	}
	prog.Statements = stmts
	return prog, nil
}

func rawString(raw rawNode, key string) string {
	if s, ok := raw[key].(string); ok {
		return s
	}
	return ""
}

func rawBool(raw rawNode, key string) bool {
	if b, ok := raw[key].(bool); ok {
		return b
	}
	return false
}

func rawNumber(raw rawNode, key string) float64 {
	if f, ok := raw[key].(float64); ok {
		return f
	}
	return 0
}

func rawSlice(raw rawNode, key string) []interface{} {
	if s, ok := raw[key].([]interface{}); ok {
		return s
	}
	return nil
}

func rawChild(raw rawNode, key string) rawNode {
	if m, ok := raw[key].(map[string]interface{}); ok {
		return m
	}
	return nil
}

func rawToken(raw rawNode) token.Token {
	return token.Token{
		Line:   int(rawNumber(raw, "line")),
		Column: int(rawNumber(raw, "column")),
	}
}

func decodeStatements(items []interface{}) ([]Statement, error) {
	var out []Statement
	for _, item := range items {
		raw, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("statement is not an object: %v", item)
		}
		stmt, err := decodeStatement(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, stmt)
	}
	return out, nil
}

func decodeStatement(raw rawNode) (Statement, error) {
	tok := rawToken(raw)
	switch rawString(raw, "type") {
	case "ExpressionStatement":
		ex, err := decodeExpression(rawChild(raw, "expression"))
		if err != nil {
			return nil, err
		}
		return &ExpressionStatement{Token: tok, Expression: ex}, nil
	case "DeclarationStatement":
		kind := DeclLet
		switch rawString(raw, "kind") {
		case "const":
			kind = DeclConst
		case "var":
			kind = DeclVar
		}
		var decls []*Declarator
		for _, d := range rawSlice(raw, "declarations") {
			dr, ok := d.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("declarator is not an object")
			}
			decl := &Declarator{Token: rawToken(dr), Name: rawString(dr, "name")}
			if init := rawChild(dr, "init"); init != nil {
				ex, err := decodeExpression(init)
				if err != nil {
					return nil, err
				}
				decl.Init = ex
			}
			if pat := rawChild(dr, "arrayPattern"); pat != nil {
				p, err := decodeArrayPattern(pat)
				if err != nil {
					return nil, err
				}
				decl.ArrayPat = p
			}
			if pat := rawChild(dr, "objectPattern"); pat != nil {
				p, err := decodeObjectPattern(pat)
				if err != nil {
					return nil, err
				}
				decl.ObjectPat = p
			}
			decls = append(decls, decl)
		}
		return &DeclarationStatement{Token: tok, Kind: kind, Decls: decls}, nil
	case "FunctionDeclaration":
		params, err := decodeParams(rawSlice(raw, "params"))
		if err != nil {
			return nil, err
		}
		body, err := decodeStatements(rawSlice(raw, "body"))
		if err != nil {
			return nil, err
		}
		return &FunctionDeclaration{
			Token: tok, Name: rawString(raw, "name"), Params: params, Body: body,
			IsAsync: rawBool(raw, "async"), IsGenerator: rawBool(raw, "generator"),
		}, nil
	case "ClassDeclaration":
		def, err := decodeClassDefinition(rawChild(raw, "def"))
		if err != nil {
			return nil, err
		}
		return &ClassDeclaration{Token: tok, Def: def}, nil
	case "BlockStatement":
		body, err := decodeStatements(rawSlice(raw, "statements"))
		if err != nil {
			return nil, err
		}
		return &BlockStatement{Token: tok, Statements: body}, nil
	case "IfStatement":
		test, err := decodeExpression(rawChild(raw, "test"))
		if err != nil {
			return nil, err
		}
		cons, err := decodeStatement(rawChild(raw, "consequent"))
		if err != nil {
			return nil, err
		}
		stmt := &IfStatement{Token: tok, Test: test, Consequent: cons}
		if alt := rawChild(raw, "alternate"); alt != nil {
			a, err := decodeStatement(alt)
			if err != nil {
				return nil, err
			}
			stmt.Alternate = a
		}
		return stmt, nil
	case "WhileStatement":
		test, err := decodeExpression(rawChild(raw, "test"))
		if err != nil {
			return nil, err
		}
		body, err := decodeStatement(rawChild(raw, "body"))
		if err != nil {
			return nil, err
		}
		return &WhileStatement{Token: tok, Test: test, Body: body}, nil
	case "DoWhileStatement":
		test, err := decodeExpression(rawChild(raw, "test"))
		if err != nil {
			return nil, err
		}
		body, err := decodeStatement(rawChild(raw, "body"))
		if err != nil {
			return nil, err
		}
		return &DoWhileStatement{Token: tok, Test: test, Body: body}, nil
	case "ForStatement":
		stmt := &ForStatement{Token: tok}
		if init := rawChild(raw, "init"); init != nil {
			s, err := decodeStatement(init)
			if err != nil {
				return nil, err
			}
			stmt.Init = s
		}
		if test := rawChild(raw, "test"); test != nil {
			ex, err := decodeExpression(test)
			if err != nil {
				return nil, err
			}
			stmt.Test = ex
		}
		if update := rawChild(raw, "update"); update != nil {
			ex, err := decodeExpression(update)
			if err != nil {
				return nil, err
			}
			stmt.Update = ex
		}
		body, err := decodeStatement(rawChild(raw, "body"))
		if err != nil {
			return nil, err
		}
		stmt.Body = body
		return stmt, nil
	case "ForInStatement", "ForOfStatement":
		var decl *DeclarationStatement
		if d := rawChild(raw, "decl"); d != nil {
			s, err := decodeStatement(d)
			if err != nil {
				return nil, err
			}
			decl = s.(*DeclarationStatement)
		}
		var target Expression
		if t := rawChild(raw, "target"); t != nil {
			ex, err := decodeExpression(t)
			if err != nil {
				return nil, err
			}
			target = ex
		}
		body, err := decodeStatement(rawChild(raw, "body"))
		if err != nil {
			return nil, err
		}
		if rawString(raw, "type") == "ForInStatement" {
			obj, err := decodeExpression(rawChild(raw, "object"))
			if err != nil {
				return nil, err
			}
			return &ForInStatement{Token: tok, Decl: decl, Target: target, Object: obj, Body: body}, nil
		}
		iterable, err := decodeExpression(rawChild(raw, "iterable"))
		if err != nil {
			return nil, err
		}
		return &ForOfStatement{
			Token: tok, Decl: decl, Target: target, Iterable: iterable, Body: body,
			Await: rawBool(raw, "await"),
		}, nil
	case "SwitchStatement":
		disc, err := decodeExpression(rawChild(raw, "discriminant"))
		if err != nil {
			return nil, err
		}
		stmt := &SwitchStatement{Token: tok, Discriminant: disc}
		for _, c := range rawSlice(raw, "cases") {
			cr, ok := c.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("switch case is not an object")
			}
			sc := &SwitchCase{Token: rawToken(cr)}
			if test := rawChild(cr, "test"); test != nil {
				ex, err := decodeExpression(test)
				if err != nil {
					return nil, err
				}
				sc.Test = ex
			}
			body, err := decodeStatements(rawSlice(cr, "body"))
			if err != nil {
				return nil, err
			}
			sc.Body = body
			stmt.Cases = append(stmt.Cases, sc)
		}
		return stmt, nil
	case "TryStatement":
		block, err := decodeStatements(rawSlice(raw, "block"))
		if err != nil {
			return nil, err
		}
		stmt := &TryStatement{Token: tok, Block: block, Param: rawString(raw, "param")}
		if raw["handler"] != nil {
			handler, err := decodeStatements(rawSlice(raw, "handler"))
			if err != nil {
				return nil, err
			}
			stmt.Handler = handler
			stmt.HasHandler = true
		}
		if raw["finalizer"] != nil {
			fin, err := decodeStatements(rawSlice(raw, "finalizer"))
			if err != nil {
				return nil, err
			}
			stmt.Finalizer = fin
			stmt.HasFinalizer = true
		}
		return stmt, nil
	case "ThrowStatement":
		ex, err := decodeExpression(rawChild(raw, "argument"))
		if err != nil {
			return nil, err
		}
		return &ThrowStatement{Token: tok, Argument: ex}, nil
	case "ReturnStatement":
		stmt := &ReturnStatement{Token: tok}
		if a := rawChild(raw, "argument"); a != nil {
			ex, err := decodeExpression(a)
			if err != nil {
				return nil, err
			}
			stmt.Argument = ex
		}
		return stmt, nil
	case "BreakStatement":
		return &BreakStatement{Token: tok, Label: rawString(raw, "label")}, nil
	case "ContinueStatement":
		return &ContinueStatement{Token: tok, Label: rawString(raw, "label")}, nil
	case "LabeledStatement":
		inner, err := decodeStatement(rawChild(raw, "statement"))
		if err != nil {
			return nil, err
		}
		return &LabeledStatement{Token: tok, Label: rawString(raw, "label"), Stmt: inner}, nil
	case "EmptyStatement":
		return &EmptyStatement{Token: tok}, nil
	case "DebuggerStatement":
		return &DebuggerStatement{Token: tok}, nil
	case "ImportStatement":
		stmt := &ImportStatement{Token: tok, Module: rawString(raw, "module")}
		for _, s := range rawSlice(raw, "specifiers") {
			sr, ok := s.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("import specifier is not an object")
			}
			stmt.Specifiers = append(stmt.Specifiers, &ImportSpecifier{
				Imported:  rawString(sr, "imported"),
				Local:     rawString(sr, "local"),
				Namespace: rawBool(sr, "namespace"),
			})
		}
		return stmt, nil
	case "ExportStatement":
		stmt := &ExportStatement{
			Token: tok, IsDefault: rawBool(raw, "default"),
			From: rawString(raw, "from"), ExportAll: rawBool(raw, "exportAll"),
		}
		for _, s := range rawSlice(raw, "specifiers") {
			sr, ok := s.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("export specifier is not an object")
			}
			stmt.Specifiers = append(stmt.Specifiers, &ExportSpecifier{
				Local:    rawString(sr, "local"),
				Exported: rawString(sr, "exported"),
			})
		}
		if d := rawChild(raw, "declaration"); d != nil {
			s, err := decodeStatement(d)
			if err != nil {
				return nil, err
			}
			stmt.Decl = s
		}
		if dv := rawChild(raw, "defaultValue"); dv != nil {
			ex, err := decodeExpression(dv)
			if err != nil {
				return nil, err
			}
			stmt.Default = ex
		}
		return stmt, nil
	}
	return nil, fmt.Errorf("unknown statement type %q", rawString(raw, "type"))
}

func decodeExpressionList(items []interface{}) ([]Expression, error) {
	var out []Expression
	for _, item := range items {
		if item == nil {
			out = append(out, nil)
			continue
		}
		raw, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("expression is not an object: %v", item)
		}
		ex, err := decodeExpression(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, ex)
	}
	return out, nil
}

func decodeExpression(raw rawNode) (Expression, error) {
	if raw == nil {
		return nil, fmt.Errorf("missing expression node")
	}
	tok := rawToken(raw)
	switch rawString(raw, "type") {
	case "NumberLiteral":
		return &NumberLiteral{Token: tok, Value: rawNumber(raw, "value")}, nil
	case "BigIntLiteral":
		bi, ok := new(big.Int).SetString(rawString(raw, "value"), 10)
		if !ok {
			return nil, fmt.Errorf("invalid bigint literal %q", rawString(raw, "value"))
		}
		return &BigIntLiteral{Token: tok, Value: bi}, nil
	case "StringLiteral":
		return &StringLiteral{Token: tok, Value: rawString(raw, "value")}, nil
	case "BooleanLiteral":
		return &BooleanLiteral{Token: tok, Value: rawBool(raw, "value")}, nil
	case "NullLiteral":
		return &NullLiteral{Token: tok}, nil
	case "Identifier":
		return &Identifier{Token: tok, Value: rawString(raw, "name")}, nil
	case "RegexLiteral":
		return &RegexLiteral{Token: tok, Pattern: rawString(raw, "pattern"), Flags: rawString(raw, "flags")}, nil
	case "TemplateLiteral":
		return decodeTemplate(raw)
	case "TaggedTemplate":
		tag, err := decodeExpression(rawChild(raw, "tag"))
		if err != nil {
			return nil, err
		}
		quasi, err := decodeTemplate(rawChild(raw, "quasi"))
		if err != nil {
			return nil, err
		}
		return &TaggedTemplate{Token: tok, Tag: tag, Quasi: quasi.(*TemplateLiteral)}, nil
	case "ArrayLiteral":
		els, err := decodeExpressionList(rawSlice(raw, "elements"))
		if err != nil {
			return nil, err
		}
		return &ArrayLiteral{Token: tok, Elements: els}, nil
	case "SpreadElement":
		a, err := decodeExpression(rawChild(raw, "argument"))
		if err != nil {
			return nil, err
		}
		return &SpreadElement{Token: tok, Argument: a}, nil
	case "ObjectLiteral":
		obj := &ObjectLiteral{Token: tok}
		for _, p := range rawSlice(raw, "properties") {
			pr, ok := p.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("object property is not an object")
			}
			prop := &ObjectProperty{
				Token:    rawToken(pr),
				Key:      rawString(pr, "key"),
				Computed: rawBool(pr, "computed"),
			}
			switch rawString(pr, "kind") {
			case "get":
				prop.Kind = PropertyGet
			case "set":
				prop.Kind = PropertySet
			case "spread":
				prop.Kind = PropertySpread
			case "method":
				prop.Kind = PropertyMethod
			case "shorthand":
				prop.Kind = PropertyShorthand
			}
			if ke := rawChild(pr, "keyExpr"); ke != nil {
				ex, err := decodeExpression(ke)
				if err != nil {
					return nil, err
				}
				prop.KeyExpr = ex
			}
			if v := rawChild(pr, "value"); v != nil {
				ex, err := decodeExpression(v)
				if err != nil {
					return nil, err
				}
				prop.Value = ex
			}
			obj.Properties = append(obj.Properties, prop)
		}
		return obj, nil
	case "FunctionExpr":
		params, err := decodeParams(rawSlice(raw, "params"))
		if err != nil {
			return nil, err
		}
		body, err := decodeStatements(rawSlice(raw, "body"))
		if err != nil {
			return nil, err
		}
		return &FunctionExpr{
			Token: tok, Name: rawString(raw, "name"), Params: params, Body: body,
			IsArrow: rawBool(raw, "arrow"), IsAsync: rawBool(raw, "async"),
			IsGenerator: rawBool(raw, "generator"),
		}, nil
	case "ClassExpr":
		def, err := decodeClassDefinition(rawChild(raw, "def"))
		if err != nil {
			return nil, err
		}
		return &ClassExpr{Token: tok, Def: def}, nil
	case "MemberExpr":
		obj, err := decodeExpression(rawChild(raw, "object"))
		if err != nil {
			return nil, err
		}
		return &MemberExpr{Token: tok, Object: obj, Property: rawString(raw, "property"), Optional: rawBool(raw, "optional")}, nil
	case "IndexExpr":
		obj, err := decodeExpression(rawChild(raw, "object"))
		if err != nil {
			return nil, err
		}
		idx, err := decodeExpression(rawChild(raw, "index"))
		if err != nil {
			return nil, err
		}
		return &IndexExpr{Token: tok, Object: obj, Index: idx, Optional: rawBool(raw, "optional")}, nil
	case "CallExpr":
		callee, err := decodeExpression(rawChild(raw, "callee"))
		if err != nil {
			return nil, err
		}
		args, err := decodeExpressionList(rawSlice(raw, "args"))
		if err != nil {
			return nil, err
		}
		return &CallExpr{Token: tok, Callee: callee, Args: args, Optional: rawBool(raw, "optional")}, nil
	case "NewExpr":
		callee, err := decodeExpression(rawChild(raw, "callee"))
		if err != nil {
			return nil, err
		}
		args, err := decodeExpressionList(rawSlice(raw, "args"))
		if err != nil {
			return nil, err
		}
		return &NewExpr{Token: tok, Callee: callee, Args: args}, nil
	case "PrefixExpr":
		right, err := decodeExpression(rawChild(raw, "right"))
		if err != nil {
			return nil, err
		}
		return &PrefixExpr{Token: tok, Operator: rawString(raw, "operator"), Right: right}, nil
	case "InfixExpr":
		left, err := decodeExpression(rawChild(raw, "left"))
		if err != nil {
			return nil, err
		}
		right, err := decodeExpression(rawChild(raw, "right"))
		if err != nil {
			return nil, err
		}
		return &InfixExpr{Token: tok, Operator: rawString(raw, "operator"), Left: left, Right: right}, nil
	case "AssignExpr":
		target, err := decodeExpression(rawChild(raw, "target"))
		if err != nil {
			return nil, err
		}
		value, err := decodeExpression(rawChild(raw, "value"))
		if err != nil {
			return nil, err
		}
		return &AssignExpr{Token: tok, Operator: rawString(raw, "operator"), Target: target, Value: value}, nil
	case "UpdateExpr":
		target, err := decodeExpression(rawChild(raw, "target"))
		if err != nil {
			return nil, err
		}
		return &UpdateExpr{Token: tok, Operator: rawString(raw, "operator"), Prefix: rawBool(raw, "prefix"), Target: target}, nil
	case "ConditionalExpr":
		test, err := decodeExpression(rawChild(raw, "test"))
		if err != nil {
			return nil, err
		}
		cons, err := decodeExpression(rawChild(raw, "consequent"))
		if err != nil {
			return nil, err
		}
		alt, err := decodeExpression(rawChild(raw, "alternate"))
		if err != nil {
			return nil, err
		}
		return &ConditionalExpr{Token: tok, Test: test, Consequent: cons, Alternate: alt}, nil
	case "SequenceExpr":
		exprs, err := decodeExpressionList(rawSlice(raw, "expressions"))
		if err != nil {
			return nil, err
		}
		return &SequenceExpr{Token: tok, Exprs: exprs}, nil
	case "YieldExpr":
		y := &YieldExpr{Token: tok, Delegate: rawBool(raw, "delegate")}
		if a := rawChild(raw, "argument"); a != nil {
			ex, err := decodeExpression(a)
			if err != nil {
				return nil, err
			}
			y.Argument = ex
		}
		return y, nil
	case "AwaitExpr":
		a, err := decodeExpression(rawChild(raw, "argument"))
		if err != nil {
			return nil, err
		}
		return &AwaitExpr{Token: tok, Argument: a}, nil
	case "SuperCall":
		args, err := decodeExpressionList(rawSlice(raw, "args"))
		if err != nil {
			return nil, err
		}
		return &SuperCall{Token: tok, Args: args}, nil
	case "SuperProperty":
		return &SuperProperty{Token: tok, Property: rawString(raw, "property")}, nil
	case "SuperMethod":
		args, err := decodeExpressionList(rawSlice(raw, "args"))
		if err != nil {
			return nil, err
		}
		return &SuperMethod{Token: tok, Method: rawString(raw, "method"), Args: args}, nil
	case "NewTargetExpr":
		return &NewTargetExpr{Token: tok}, nil
	case "ImportCall":
		spec, err := decodeExpression(rawChild(raw, "specifier"))
		if err != nil {
			return nil, err
		}
		return &ImportCall{Token: tok, Specifier: spec}, nil
	case "ArrayPattern":
		return decodeArrayPattern(raw)
	case "ObjectPattern":
		return decodeObjectPattern(raw)
	}
	return nil, fmt.Errorf("unknown expression type %q", rawString(raw, "type"))
}

func decodeTemplate(raw rawNode) (Expression, error) {
	t := &TemplateLiteral{Token: rawToken(raw)}
	for _, q := range rawSlice(raw, "quasis") {
		s, ok := q.(string)
		if !ok {
			return nil, fmt.Errorf("template quasi is not a string")
		}
		t.Quasis = append(t.Quasis, s)
	}
	for _, q := range rawSlice(raw, "raw") {
		s, ok := q.(string)
		if !ok {
			return nil, fmt.Errorf("template raw part is not a string")
		}
		t.Raw = append(t.Raw, s)
	}
	exprs, err := decodeExpressionList(rawSlice(raw, "expressions"))
	if err != nil {
		return nil, err
	}
	t.Exprs = exprs
	return t, nil
}

func decodeParams(items []interface{}) ([]*DestructuringElement, error) {
	var out []*DestructuringElement
	for _, item := range items {
		raw, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("parameter is not an object")
		}
		el, err := decodeDestructuringElement(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

func decodeDestructuringElement(raw rawNode) (*DestructuringElement, error) {
	el := &DestructuringElement{Token: rawToken(raw), Name: rawString(raw, "name")}
	switch rawString(raw, "kind") {
	case "empty":
		el.Kind = DestructureEmpty
	case "rest":
		el.Kind = DestructureRest
	case "array":
		el.Kind = DestructureNestedArray
		for _, sub := range rawSlice(raw, "elements") {
			sr, ok := sub.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("pattern element is not an object")
			}
			nested, err := decodeDestructuringElement(sr)
			if err != nil {
				return nil, err
			}
			el.ArrayElems = append(el.ArrayElems, nested)
		}
	case "object":
		el.Kind = DestructureNestedObject
		for _, sub := range rawSlice(raw, "elements") {
			sr, ok := sub.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("pattern element is not an object")
			}
			nested, err := decodeObjectDestructuringElement(sr)
			if err != nil {
				return nil, err
			}
			el.ObjectElems = append(el.ObjectElems, nested)
		}
	default:
		el.Kind = DestructureVariable
	}
	if d := rawChild(raw, "default"); d != nil {
		ex, err := decodeExpression(d)
		if err != nil {
			return nil, err
		}
		el.Default = ex
	}
	return el, nil
}

func decodeObjectDestructuringElement(raw rawNode) (*ObjectDestructuringElement, error) {
	el := &ObjectDestructuringElement{
		Token:    rawToken(raw),
		Key:      rawString(raw, "key"),
		Name:     rawString(raw, "name"),
		Computed: rawBool(raw, "computed"),
		Rest:     rawBool(raw, "rest"),
	}
	if ke := rawChild(raw, "keyExpr"); ke != nil {
		ex, err := decodeExpression(ke)
		if err != nil {
			return nil, err
		}
		el.KeyExpr = ex
	}
	if d := rawChild(raw, "default"); d != nil {
		ex, err := decodeExpression(d)
		if err != nil {
			return nil, err
		}
		el.Default = ex
	}
	for _, sub := range rawSlice(raw, "arrayElements") {
		sr, ok := sub.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("pattern element is not an object")
		}
		nested, err := decodeDestructuringElement(sr)
		if err != nil {
			return nil, err
		}
		el.ArrayElems = append(el.ArrayElems, nested)
	}
	for _, sub := range rawSlice(raw, "objectElements") {
		sr, ok := sub.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("pattern element is not an object")
		}
		nested, err := decodeObjectDestructuringElement(sr)
		if err != nil {
			return nil, err
		}
		el.ObjectElems = append(el.ObjectElems, nested)
	}
	return el, nil
}

func decodeArrayPattern(raw rawNode) (*ArrayPattern, error) {
	p := &ArrayPattern{Token: rawToken(raw)}
	for _, sub := range rawSlice(raw, "elements") {
		sr, ok := sub.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("pattern element is not an object")
		}
		el, err := decodeDestructuringElement(sr)
		if err != nil {
			return nil, err
		}
		p.Elements = append(p.Elements, el)
	}
	return p, nil
}

func decodeObjectPattern(raw rawNode) (*ObjectPattern, error) {
	p := &ObjectPattern{Token: rawToken(raw)}
	for _, sub := range rawSlice(raw, "elements") {
		sr, ok := sub.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("pattern element is not an object")
		}
		el, err := decodeObjectDestructuringElement(sr)
		if err != nil {
			return nil, err
		}
		p.Elements = append(p.Elements, el)
	}
	return p, nil
}

func decodeClassDefinition(raw rawNode) (*ClassDefinition, error) {
	if raw == nil {
		return nil, fmt.Errorf("missing class definition")
	}
	def := &ClassDefinition{Token: rawToken(raw), Name: rawString(raw, "name")}
	if ext := rawChild(raw, "extends"); ext != nil {
		ex, err := decodeExpression(ext)
		if err != nil {
			return nil, err
		}
		def.Extends = ex
	}
	for _, m := range rawSlice(raw, "members") {
		mr, ok := m.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("class member is not an object")
		}
		member := &ClassMember{
			Token:       rawToken(mr),
			Name:        rawString(mr, "name"),
			Computed:    rawBool(mr, "computed"),
			IsStatic:    rawBool(mr, "static"),
			IsPrivate:   rawBool(mr, "private"),
			IsAsync:     rawBool(mr, "async"),
			IsGenerator: rawBool(mr, "generator"),
		}
		switch rawString(mr, "kind") {
		case "getter":
			member.Kind = MemberGetter
		case "setter":
			member.Kind = MemberSetter
		case "field":
			member.Kind = MemberField
		case "constructor":
			member.Kind = MemberConstructor
		case "staticBlock":
			member.Kind = MemberStaticBlock
		default:
			member.Kind = MemberMethod
		}
		if ke := rawChild(mr, "keyExpr"); ke != nil {
			ex, err := decodeExpression(ke)
			if err != nil {
				return nil, err
			}
			member.KeyExpr = ex
		}
		if params := rawSlice(mr, "params"); params != nil {
			ps, err := decodeParams(params)
			if err != nil {
				return nil, err
			}
			member.Params = ps
		}
		if body := rawSlice(mr, "body"); body != nil {
			stmts, err := decodeStatements(body)
			if err != nil {
				return nil, err
			}
			member.Body = stmts
		}
		if v := rawChild(mr, "value"); v != nil {
			ex, err := decodeExpression(v)
			if err != nil {
				return nil, err
			}
			member.Value = ex
		}
		def.Members = append(def.Members, member)
	}
	return def, nil
}
