package evaluator

import (
	"github.com/funvibe/funjs/internal/ast"
)

// callAsyncClosure executes an async function body synchronously —
// awaits inside drain the microtask queue until their promise settles
// — and returns a promise for the body's completion.
func (e *Evaluator) callAsyncClosure(env *JSObject, data *ClosureData, fnObj *JSObject, this Value, args []Value) Value {
	result := e.callPlainClosure(env, data, fnObj, this, args, nil, nil)

	switch res := result.(type) {
	case *Error:
		return NewRejectedPromise(e.newErrorObject(env, res))
	case *ThrowSignal:
		return NewRejectedPromise(res.Value)
	case *PromiseValue:
		return res
	default:
		if result == nil {
			result = UNDEFINED
		}
		promise := NewPromise()
		e.resolvePromise(env, promise.Promise, result)
		return promise
	}
}

// evalAwaitExpr suspends on a promise: the microtask queue drains
// until the awaited promise is fulfilled (unblock with its value) or
// rejected (raise as a throw completion). Non-promise operands pass
// straight through.
func (e *Evaluator) evalAwaitExpr(env *JSObject, node *ast.AwaitExpr) Value {
	arg := e.evalExpr(env, node.Argument)
	if isAbrupt(arg) {
		return arg
	}
	p, ok := arg.(*PromiseValue)
	if !ok {
		// a thenable object assimilates through a fresh promise
		if obj, isObj := arg.(*JSObject); isObj {
			if thenVal := e.getMember(env, obj, StringKey("then")); isCallable(thenVal) {
				wrapper := NewPromise()
				e.resolvePromise(env, wrapper.Promise, arg)
				return e.awaitPromise(env, wrapper)
			}
		}
		return arg
	}
	return e.awaitPromise(env, p)
}

// awaitPromise drains microtasks until settlement. A promise that can
// never settle (empty queue while pending) is an engine error rather
// than a silent hang.
func (e *Evaluator) awaitPromise(env *JSObject, p *PromiseValue) Value {
	for p.Promise.State == PromisePending {
		if len(e.microtasks) == 0 {
			return newError(RuntimeError, "await on a promise that never settles")
		}
		job := e.microtasks[0]
		e.microtasks = e.microtasks[1:]
		job()
	}
	if p.Promise.State == PromiseRejected {
		p.Promise.Handled = true
		return &ThrowSignal{Value: p.Promise.Value}
	}
	return p.Promise.Value
}
