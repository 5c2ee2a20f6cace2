package evaluator

import (
	"github.com/funvibe/funjs/internal/ast"
)

// exportsBinding is where a module environment accumulates its
// exports; the loader defines it before evaluating module statements.
const exportsBinding = "__exports"

func (e *Evaluator) evalImportStatement(env *JSObject, node *ast.ImportStatement) Value {
	if e.Loader == nil {
		return newError(EvalError, "no module loader configured")
	}
	ns, err := e.Loader.LoadModule(e, node.Module, e.CurrentFile)
	if err != nil {
		return newError(EvalError, "Cannot find module '%s': %v", node.Module, err)
	}

	for _, spec := range node.Specifiers {
		if spec.Namespace {
			envDefineConst(env, spec.Local, ns)
			continue
		}
		v := e.getMember(env, ns, StringKey(spec.Imported))
		if isAbrupt(v) {
			return v
		}
		if v == UNDEFINED && spec.Imported != "default" {
			if nsObj, ok := ns.(*JSObject); ok {
				if _, has := nsObj.GetOwn(StringKey(spec.Imported)); !has {
					return newSyntaxError("The requested module '%s' does not provide an export named '%s'", node.Module, spec.Imported)
				}
			}
		}
		envDefineConst(env, spec.Local, v)
	}
	return UNDEFINED
}

func (e *Evaluator) evalExportStatement(env *JSObject, node *ast.ExportStatement) Value {
	exportsVal, ok := envLookup(env, exportsBinding)
	if !ok {
		return newSyntaxError("Unexpected token 'export'")
	}
	exports, ok := exportsVal.(*JSObject)
	if !ok {
		return newSyntaxError("Unexpected token 'export'")
	}

	// Re-exports: export {a as b} from "mod" / export * from "mod".
	if node.From != "" {
		if e.Loader == nil {
			return newError(EvalError, "no module loader configured")
		}
		ns, err := e.Loader.LoadModule(e, node.From, e.CurrentFile)
		if err != nil {
			return newError(EvalError, "Cannot find module '%s': %v", node.From, err)
		}
		nsObj, isObj := ns.(*JSObject)
		if !isObj {
			return newError(EvalError, "module namespace for '%s' is not an object", node.From)
		}
		if node.ExportAll {
			for _, name := range nsObj.OwnEnumerableStringKeys() {
				if name == "default" {
					continue
				}
				cell, _ := nsObj.GetOwn(StringKey(name))
				exports.SetKey(StringKey(name), cell.Value)
			}
			return UNDEFINED
		}
		for _, spec := range node.Specifiers {
			cell, has := nsObj.GetOwn(StringKey(spec.Local))
			if !has {
				return newSyntaxError("The requested module '%s' does not provide an export named '%s'", node.From, spec.Local)
			}
			exports.SetKey(StringKey(spec.Exported), cell.Value)
		}
		return UNDEFINED
	}

	if node.IsDefault {
		v := e.evalExpr(env, node.Default)
		if isAbrupt(v) {
			return v
		}
		exports.SetKey(StringKey("default"), v)
		return UNDEFINED
	}

	if node.Decl != nil {
		if fd, ok := node.Decl.(*ast.FunctionDeclaration); ok {
			// hoisting skips declarations nested inside export
			// statements, so define the function here
			envDefine(env, fd.Name, e.newFunctionFromDeclaration(env, fd))
		} else if res := e.evalStatement(env, node.Decl); isAbrupt(res) {
			return res
		}
		for _, name := range exportedDeclNames(node.Decl) {
			if v, found := envLookup(env, name); found {
				exports.SetKey(StringKey(name), v)
			}
		}
		return UNDEFINED
	}

	for _, spec := range node.Specifiers {
		v, found := envLookup(env, spec.Local)
		if !found {
			return newSyntaxError("Export '%s' is not defined", spec.Local)
		}
		exports.SetKey(StringKey(spec.Exported), v)
	}
	return UNDEFINED
}

func exportedDeclNames(stmt ast.Statement) []string {
	switch node := stmt.(type) {
	case *ast.DeclarationStatement:
		return declaredNames(node)
	case *ast.FunctionDeclaration:
		return []string{node.Name}
	case *ast.ClassDeclaration:
		return []string{node.Def.Name}
	}
	return nil
}

// evalImportCall is dynamic import(): a promise already resolved with
// the namespace.
func (e *Evaluator) evalImportCall(env *JSObject, node *ast.ImportCall) Value {
	specVal := e.evalExpr(env, node.Specifier)
	if isAbrupt(specVal) {
		return specVal
	}
	s := e.toString(env, specVal)
	if isAbrupt(s) {
		return s
	}
	if e.Loader == nil {
		return NewRejectedPromise(e.newErrorObject(env, newError(EvalError, "no module loader configured")))
	}
	ns, err := e.Loader.LoadModule(e, s.(*String).GoString(), e.CurrentFile)
	if err != nil {
		return NewRejectedPromise(e.newErrorObject(env, newError(EvalError, "Cannot find module '%s': %v", s.(*String).GoString(), err)))
	}
	return NewFulfilledPromise(ns)
}

// NewNamespaceObject freezes a module's accumulated exports into the
// namespace shape: exports as own properties, @@toStringTag "Module",
// nothing writable.
func NewNamespaceObject(exports *JSObject) *JSObject {
	ns := NewJSObject()
	for _, key := range exports.OwnKeys() {
		cell, _ := exports.GetOwn(key)
		ns.SetKey(key, cell.Value)
		ns.nonWritable[key] = true
		ns.nonConfigurable[key] = true
	}
	if sym := wellKnownSymbols["toStringTag"]; sym != nil {
		ns.DefineFrozen(SymbolKey(sym), NewString("Module"))
	}
	ns.Extensible = false
	return ns
}

// ImportFromModule reads one export off a namespace object.
func ImportFromModule(ns Value, name string) Value {
	obj, ok := ns.(*JSObject)
	if !ok {
		return UNDEFINED
	}
	if cell, has := obj.GetOwn(StringKey(name)); has && cell.Value != nil {
		return cell.Value
	}
	return UNDEFINED
}

// NewModuleEnvironment prepares the environment a module evaluates in:
// a fresh function scope over the global with the exports accumulator
// installed. The loader reads the exports back after evaluation.
func NewModuleEnvironment(global *JSObject) (*JSObject, *JSObject) {
	env := NewFunctionEnvironment(global)
	exports := NewJSObject()
	env.DefineHidden(StringKey(exportsBinding), exports)
	return env, exports
}
