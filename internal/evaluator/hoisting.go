package evaluator

import (
	"github.com/funvibe/funjs/internal/ast"
)

// validateDeclarations walks one lexical scope's statements. A lexical
// name declared twice, or a lexical name conflicting with a later var
// of the same name in the same scope, is an early SyntaxError reported
// at the later declaration.
func validateDeclarations(stmts []ast.Statement) *Error {
	lexical := map[string]bool{}
	for _, stmt := range stmts {
		switch node := stmt.(type) {
		case *ast.DeclarationStatement:
			names := declaredNames(node)
			if node.Kind == ast.DeclVar {
				for _, name := range names {
					if lexical[name] {
						return newSyntaxError("Identifier '%s' has already been declared", name)
					}
				}
				continue
			}
			for _, name := range names {
				if lexical[name] {
					return newSyntaxError("Identifier '%s' has already been declared", name)
				}
				lexical[name] = true
			}
		case *ast.ClassDeclaration:
			if node.Def.Name != "" {
				if lexical[node.Def.Name] {
					return newSyntaxError("Identifier '%s' has already been declared", node.Def.Name)
				}
				lexical[node.Def.Name] = true
			}
		case *ast.FunctionDeclaration:
			if lexical[node.Name] {
				return newSyntaxError("Identifier '%s' has already been declared", node.Name)
			}
			lexical[node.Name] = true
		}
	}
	return nil
}

func declaredNames(decl *ast.DeclarationStatement) []string {
	var names []string
	for _, d := range decl.Decls {
		switch {
		case d.ArrayPat != nil:
			names = append(names, arrayPatternNames(d.ArrayPat.Elements)...)
		case d.ObjectPat != nil:
			names = append(names, objectPatternNames(d.ObjectPat.Elements)...)
		default:
			names = append(names, d.Name)
		}
	}
	return names
}

func arrayPatternNames(elements []*ast.DestructuringElement) []string {
	var names []string
	for _, el := range elements {
		switch el.Kind {
		case ast.DestructureVariable, ast.DestructureRest:
			names = append(names, el.Name)
		case ast.DestructureNestedArray:
			names = append(names, arrayPatternNames(el.ArrayElems)...)
		case ast.DestructureNestedObject:
			names = append(names, objectPatternNames(el.ObjectElems)...)
		}
	}
	return names
}

func objectPatternNames(elements []*ast.ObjectDestructuringElement) []string {
	var names []string
	for _, el := range elements {
		switch {
		case el.ArrayElems != nil:
			names = append(names, arrayPatternNames(el.ArrayElems)...)
		case el.ObjectElems != nil:
			names = append(names, objectPatternNames(el.ObjectElems)...)
		case el.Name != "":
			names = append(names, el.Name)
		default:
			names = append(names, el.Key)
		}
	}
	return names
}

// hoistScope performs the per-scope pre-pass: function-scope var
// collection (including nested non-function blocks), function
// declaration hoisting, and the Annex-B block-function var binding.
func (e *Evaluator) hoistScope(env *JSObject, stmts []ast.Statement) Value {
	if err := validateDeclarations(stmts); err != nil {
		return err
	}

	if env.IsFunctionScope {
		for _, name := range collectVarNames(stmts) {
			if _, ok := env.GetOwn(StringKey(name)); !ok {
				envDefine(env, name, UNDEFINED)
			}
		}
	}

	// Function declarations hoist as callable wrappers in every scope.
	for _, stmt := range stmts {
		fd, ok := stmt.(*ast.FunctionDeclaration)
		if !ok {
			continue
		}
		fn := e.newFunctionFromDeclaration(env, fd)
		envDefine(env, fd.Name, fn)
		if !env.IsFunctionScope && e.Options.AnnexB {
			envDefine(varScope(env), fd.Name, fn)
		}
	}
	return nil
}

func (e *Evaluator) newFunctionFromDeclaration(env *JSObject, fd *ast.FunctionDeclaration) *JSObject {
	kind := ClosureNormal
	switch {
	case fd.IsAsync && fd.IsGenerator:
		kind = ClosureAsyncGenerator
	case fd.IsAsync:
		kind = ClosureAsync
	case fd.IsGenerator:
		kind = ClosureGenerator
	}
	data := &ClosureData{
		Name:   fd.Name,
		Params: fd.Params,
		Body:   fd.Body,
		Env:    env,
		Kind:   kind,
	}
	return e.newFunctionObject(env, data)
}

// collectVarNames gathers var declarations from a scope, descending
// into nested non-function statements.
func collectVarNames(stmts []ast.Statement) []string {
	var names []string
	var walk func(stmt ast.Statement)
	walkAll := func(list []ast.Statement) {
		for _, s := range list {
			walk(s)
		}
	}
	walk = func(stmt ast.Statement) {
		switch node := stmt.(type) {
		case *ast.DeclarationStatement:
			if node.Kind == ast.DeclVar {
				names = append(names, declaredNames(node)...)
			}
		case *ast.BlockStatement:
			walkAll(node.Statements)
		case *ast.IfStatement:
			walk(node.Consequent)
			if node.Alternate != nil {
				walk(node.Alternate)
			}
		case *ast.WhileStatement:
			walk(node.Body)
		case *ast.DoWhileStatement:
			walk(node.Body)
		case *ast.ForStatement:
			if node.Init != nil {
				walk(node.Init)
			}
			walk(node.Body)
		case *ast.ForInStatement:
			if node.Decl != nil && node.Decl.Kind == ast.DeclVar {
				names = append(names, declaredNames(node.Decl)...)
			}
			walk(node.Body)
		case *ast.ForOfStatement:
			if node.Decl != nil && node.Decl.Kind == ast.DeclVar {
				names = append(names, declaredNames(node.Decl)...)
			}
			walk(node.Body)
		case *ast.SwitchStatement:
			for _, c := range node.Cases {
				walkAll(c.Body)
			}
		case *ast.TryStatement:
			walkAll(node.Block)
			walkAll(node.Handler)
			walkAll(node.Finalizer)
		case *ast.LabeledStatement:
			walk(node.Stmt)
		}
	}
	walkAll(stmts)
	return names
}
