package evaluator

// fulfillPromise / rejectPromise settle a promise and flush its
// reactions onto the microtask queue in FIFO order.
func (e *Evaluator) fulfillPromise(p *JSPromise, value Value) {
	if p.State != PromisePending {
		return
	}
	p.State = PromiseFulfilled
	p.Value = value
	for _, reaction := range p.OnFulfilled {
		r := reaction
		e.EnqueueMicrotask(func() { r(value) })
	}
	p.OnFulfilled = nil
	p.OnRejected = nil
}

func (e *Evaluator) rejectPromise(p *JSPromise, reason Value) {
	if p.State != PromisePending {
		return
	}
	p.State = PromiseRejected
	p.Value = reason
	for _, reaction := range p.OnRejected {
		r := reaction
		e.EnqueueMicrotask(func() { r(reason) })
	}
	p.OnFulfilled = nil
	p.OnRejected = nil
}

// resolvePromise implements the resolution algorithm: promises and
// thenables assimilate, everything else fulfills directly.
func (e *Evaluator) resolvePromise(env *JSObject, p *JSPromise, value Value) {
	if inner, ok := value.(*PromiseValue); ok {
		e.addReactions(inner.Promise,
			func(v Value) { e.fulfillPromise(p, v) },
			func(r Value) { e.rejectPromise(p, r) })
		return
	}
	if obj, ok := value.(*JSObject); ok {
		thenVal := e.getMember(env, obj, StringKey("then"))
		if isCallable(thenVal) {
			e.EnqueueMicrotask(func() {
				resolveFn := e.nativeResolveFunction(env, p)
				rejectFn := e.nativeRejectFunction(env, p)
				res := e.callFunction(env, thenVal, obj, []Value{resolveFn, rejectFn})
				if isError(res) {
					e.rejectPromise(p, e.materializeThrown(env, res))
				}
			})
			return
		}
	}
	e.fulfillPromise(p, value)
}

// addReactions registers settlement handlers, firing immediately (via
// the queue) when the promise already settled.
func (e *Evaluator) addReactions(p *JSPromise, onFulfilled, onRejected PromiseReaction) {
	switch p.State {
	case PromiseFulfilled:
		v := p.Value
		e.EnqueueMicrotask(func() { onFulfilled(v) })
	case PromiseRejected:
		p.Handled = true
		r := p.Value
		e.EnqueueMicrotask(func() { onRejected(r) })
	default:
		p.OnFulfilled = append(p.OnFulfilled, onFulfilled)
		p.OnRejected = append(p.OnRejected, onRejected)
		p.Handled = true
	}
}

// promiseThen wires `then` handlers and returns the derived promise.
func (e *Evaluator) promiseThen(env *JSObject, p *PromiseValue, onFulfilled, onRejected Value) Value {
	derived := NewPromise()

	runHandler := func(handler Value, v Value, isRejection bool) {
		if handler == nil || !isCallable(handler) {
			if isRejection {
				e.rejectPromise(derived.Promise, v)
			} else {
				e.fulfillPromise(derived.Promise, v)
			}
			return
		}
		res := e.callFunction(env, handler, UNDEFINED, []Value{v})
		if isError(res) {
			e.rejectPromise(derived.Promise, e.materializeThrown(env, res))
			return
		}
		e.resolvePromise(env, derived.Promise, res)
	}

	e.addReactions(p.Promise,
		func(v Value) { runHandler(onFulfilled, v, false) },
		func(r Value) { runHandler(onRejected, r, true) })
	return derived
}

// nativeResolveFunction / nativeRejectFunction are the capability
// functions handed to executors and thenables (the internal
// __internal_resolve_promise / __internal_reject_promise handlers).
func (e *Evaluator) nativeResolveFunction(env *JSObject, p *JSPromise) Value {
	settled := false
	return e.nativeFunc(func(args []Value) Value {
		if settled {
			return UNDEFINED
		}
		settled = true
		var v Value = UNDEFINED
		if len(args) > 0 {
			v = args[0]
		}
		e.resolvePromise(env, p, v)
		return UNDEFINED
	})
}

func (e *Evaluator) nativeRejectFunction(env *JSObject, p *JSPromise) Value {
	settled := false
	return e.nativeFunc(func(args []Value) Value {
		if settled {
			return UNDEFINED
		}
		settled = true
		var r Value = UNDEFINED
		if len(args) > 0 {
			r = args[0]
		}
		e.rejectPromise(p, r)
		return UNDEFINED
	})
}

// NativeFunc wraps a Go function as a callable value; used for the
// promise capability functions and combinator element handlers.
type NativeFunc struct {
	Fn func(args []Value) Value
}

func (n *NativeFunc) Type() ValueType { return BUILTIN_VAL }
func (n *NativeFunc) Inspect() string { return "function () { [native code] }" }

func (e *Evaluator) nativeFunc(fn func(args []Value) Value) *NativeFunc {
	return &NativeFunc{Fn: fn}
}
