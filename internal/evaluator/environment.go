package evaluator

import "github.com/funvibe/funjs/internal/config"

// Environments are ordinary JSObjects: bindings live in the property
// table, Prototype is the parent lexical environment, IsFunctionScope
// marks hoisting boundaries. The uniformity is deliberate — it is what
// makes the global object and `with`-style semantics fall out for free.

func NewEnvironment() *JSObject {
	env := NewJSObject()
	env.IsFunctionScope = true
	return env
}

func NewEnclosedEnvironment(outer *JSObject) *JSObject {
	env := NewJSObject()
	env.Prototype = outer
	return env
}

func NewFunctionEnvironment(outer *JSObject) *JSObject {
	env := NewEnclosedEnvironment(outer)
	env.IsFunctionScope = true
	return env
}

// envLookup walks the environment chain for a binding.
func envLookup(env *JSObject, name string) (Value, bool) {
	for e := env; e != nil; e = e.Prototype {
		if cell, ok := e.GetOwn(StringKey(name)); ok {
			return cell.Value, true
		}
	}
	return nil, false
}

// envLookupCell returns the binding cell and its holder.
func envLookupCell(env *JSObject, name string) (*JSObject, *PropertyCell, bool) {
	for e := env; e != nil; e = e.Prototype {
		if cell, ok := e.GetOwn(StringKey(name)); ok {
			return e, cell, true
		}
	}
	return nil, nil, false
}

// envDefine creates (or overwrites) a binding in this environment.
func envDefine(env *JSObject, name string, v Value) {
	env.SetKey(StringKey(name), v)
}

// envDefineConst creates a binding that assignment may not rebind.
func envDefineConst(env *JSObject, name string, v Value) {
	key := StringKey(name)
	env.SetKey(key, v)
	env.nonWritable[key] = true
}

// envAssign updates the first declaring environment. Returns false if
// no binding exists anywhere on the chain; a const binding yields a
// TypeError completion through the second return.
func envAssign(env *JSObject, name string, v Value) (bool, *Error) {
	holder, cell, ok := envLookupCell(env, name)
	if !ok {
		return false, nil
	}
	if !holder.IsWritable(StringKey(name)) {
		return true, newTypeError("Assignment to constant variable.")
	}
	cell.Value = v
	return true, nil
}

// varScope walks to the nearest function-scope environment; var
// declarations and Annex-B hoisted functions land there.
func varScope(env *JSObject) *JSObject {
	for e := env; e != nil; e = e.Prototype {
		if e.IsFunctionScope {
			return e
		}
	}
	return globalEnv(env)
}

// globalEnv walks to the topmost environment object, which doubles as
// the global object.
func globalEnv(env *JSObject) *JSObject {
	e := env
	for e.Prototype != nil {
		e = e.Prototype
	}
	return e
}

// resolveThis finds the `this` binding; top-level `this` resolves to
// the global environment object itself.
func resolveThis(env *JSObject) Value {
	if v, ok := envLookup(env, config.ThisBindingName); ok {
		return v
	}
	return globalEnv(env)
}

// recordStatementPosition notes the executing statement's location on
// the environment for diagnostics.
func recordStatementPosition(env *JSObject, line, column int) {
	env.CurLine = line
	env.CurColumn = column
}
