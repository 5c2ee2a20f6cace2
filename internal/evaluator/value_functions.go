package evaluator

import (
	"github.com/funvibe/funjs/internal/ast"
)

type ClosureKind int

const (
	ClosureNormal ClosureKind = iota
	ClosureAsync
	ClosureGenerator
	ClosureAsyncGenerator
)

// ClosureData is the function payload stored either directly in a
// Closure value or in the Closure internal slot of a function object.
type ClosureData struct {
	Name       string
	Params     []*ast.DestructuringElement
	Body       []ast.Statement
	Env        *JSObject // captured lexical environment
	HomeObject *JSObject
	Kind       ClosureKind
	IsArrow    bool
	IsStrict   bool
	// EnforceStrictInheritance marks class constructors whose bodies
	// always run strict regardless of outer mode.
	EnforceStrictInheritance bool
}

// Closure is a function value without a wrapper object; it appears as
// an internal slot payload and as method-table entries.
type Closure struct {
	Data *ClosureData
}

func (c *Closure) Type() ValueType {
	switch c.Data.Kind {
	case ClosureAsync:
		return ASYNC_CLOSURE_VAL
	case ClosureGenerator:
		return GENERATOR_FN_VAL
	case ClosureAsyncGenerator:
		return ASYNC_GEN_FN_VAL
	default:
		return CLOSURE_VAL
	}
}

func (c *Closure) Inspect() string {
	name := c.Data.Name
	if name == "" {
		name = "anonymous"
	}
	return "[Function: " + name + "]"
}

// computeFunctionLength is the `length` of a function: parameters
// before the first default or rest.
func computeFunctionLength(params []*ast.DestructuringElement) int {
	n := 0
	for _, p := range params {
		switch p.Kind {
		case ast.DestructureVariable:
			if p.Default != nil {
				return n
			}
			n++
		case ast.DestructureRest:
			return n
		case ast.DestructureNestedArray, ast.DestructureNestedObject:
			n++
		case ast.DestructureEmpty:
		}
	}
	return n
}

// isCallable reports whether v can be invoked: closures, builtins,
// function objects (closure slot), class objects, native constructors
// and bound functions.
func isCallable(v Value) bool {
	switch val := v.(type) {
	case *Closure, *Builtin, *BoundBuiltin, *NativeFunc:
		return true
	case *JSObject:
		return val.Closure != nil || val.ClassDef != nil || val.NativeCtor != "" || val.BoundCall != nil
	case *Proxy:
		return isCallable(val.Target)
	}
	return false
}
