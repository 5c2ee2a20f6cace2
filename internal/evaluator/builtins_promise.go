package evaluator

import "math"

func (e *Evaluator) callPromiseStatic(env *JSObject, method string, args []Value) Value {
	arg := func(i int) Value {
		if i < len(args) {
			return args[i]
		}
		return UNDEFINED
	}

	switch method {
	case "resolve":
		if p, ok := arg(0).(*PromiseValue); ok {
			return p
		}
		promise := NewPromise()
		e.resolvePromise(env, promise.Promise, arg(0))
		return promise
	case "reject":
		return NewRejectedPromise(arg(0))
	case "all":
		return e.promiseAll(env, arg(0), false)
	case "allSettled":
		return e.promiseAllSettled(env, arg(0))
	case "race":
		return e.promiseRace(env, arg(0))
	case "any":
		return e.promiseAny(env, arg(0))
	}
	return newTypeError("Promise.%s is not implemented by the engine core", method)
}

func (e *Evaluator) promiseEach(env *JSObject, iterable Value) ([]*PromiseValue, Value) {
	items := e.iterateToSlice(env, iterable)
	if ab, bad := items.(abruptItems); bad {
		return nil, ab.completion
	}
	var out []*PromiseValue
	for _, item := range items.(sliceItems).values {
		if p, ok := item.(*PromiseValue); ok {
			out = append(out, p)
			continue
		}
		p := NewPromise()
		e.resolvePromise(env, p.Promise, item)
		out = append(out, p)
	}
	return out, nil
}

func (e *Evaluator) promiseAll(env *JSObject, iterable Value, settled bool) Value {
	promises, abrupt := e.promiseEach(env, iterable)
	if abrupt != nil {
		return abrupt
	}
	result := NewPromise()
	if len(promises) == 0 {
		e.fulfillPromise(result.Promise, NewArray(nil))
		return result
	}

	values := make([]Value, len(promises))
	remaining := len(promises)
	for i, p := range promises {
		idx := i
		e.addReactions(p.Promise,
			func(v Value) {
				values[idx] = v
				remaining--
				if remaining == 0 {
					e.fulfillPromise(result.Promise, NewArray(values))
				}
			},
			func(r Value) {
				e.rejectPromise(result.Promise, r)
			})
	}
	return result
}

// promiseAllSettled wires the element resolve/reject handlers that the
// library surface names __internal_promise_allsettled_{resolve,reject}.
func (e *Evaluator) promiseAllSettled(env *JSObject, iterable Value) Value {
	promises, abrupt := e.promiseEach(env, iterable)
	if abrupt != nil {
		return abrupt
	}
	result := NewPromise()
	if len(promises) == 0 {
		e.fulfillPromise(result.Promise, NewArray(nil))
		return result
	}

	values := make([]Value, len(promises))
	remaining := len(promises)
	finish := func() {
		remaining--
		if remaining == 0 {
			e.fulfillPromise(result.Promise, NewArray(values))
		}
	}
	for i, p := range promises {
		idx := i
		e.addReactions(p.Promise,
			func(v Value) {
				entry := NewJSObject()
				entry.Prototype = e.intrinsicObjectPrototype(env)
				entry.SetKey(StringKey("status"), NewString("fulfilled"))
				entry.SetKey(StringKey("value"), v)
				values[idx] = entry
				finish()
			},
			func(r Value) {
				entry := NewJSObject()
				entry.Prototype = e.intrinsicObjectPrototype(env)
				entry.SetKey(StringKey("status"), NewString("rejected"))
				entry.SetKey(StringKey("reason"), r)
				values[idx] = entry
				finish()
			})
	}
	return result
}

func (e *Evaluator) promiseRace(env *JSObject, iterable Value) Value {
	promises, abrupt := e.promiseEach(env, iterable)
	if abrupt != nil {
		return abrupt
	}
	result := NewPromise()
	for _, p := range promises {
		e.addReactions(p.Promise,
			func(v Value) { e.fulfillPromise(result.Promise, v) },
			func(r Value) { e.rejectPromise(result.Promise, r) })
	}
	return result
}

func (e *Evaluator) promiseAny(env *JSObject, iterable Value) Value {
	promises, abrupt := e.promiseEach(env, iterable)
	if abrupt != nil {
		return abrupt
	}
	result := NewPromise()
	if len(promises) == 0 {
		e.rejectPromise(result.Promise, e.newErrorObject(env, newError(TypeError, "All promises were rejected")))
		return result
	}
	errors := make([]Value, len(promises))
	remaining := len(promises)
	for i, p := range promises {
		idx := i
		e.addReactions(p.Promise,
			func(v Value) { e.fulfillPromise(result.Promise, v) },
			func(r Value) {
				errors[idx] = r
				remaining--
				if remaining == 0 {
					agg := NewJSObject()
					agg.Prototype = e.errorPrototype(env, "Error")
					agg.DefineFrozen(StringKey("name"), NewString("AggregateError"))
					agg.DefineFrozen(StringKey("message"), NewString("All promises were rejected"))
					agg.SetKey(StringKey("errors"), NewArray(errors))
					e.rejectPromise(result.Promise, agg)
				}
			})
	}
	return result
}

func (e *Evaluator) callArrayStatic(env *JSObject, method string, args []Value) Value {
	arg := func(i int) Value {
		if i < len(args) {
			return args[i]
		}
		return UNDEFINED
	}
	switch method {
	case "isArray":
		if arr, ok := arg(0).(*JSObject); ok {
			return nativeBoolToBooleanValue(arr.IsArray)
		}
		return FALSE
	case "of":
		return NewArray(args)
	case "from":
		items := e.iterateToSlice(env, arg(0))
		if ab, bad := items.(abruptItems); bad {
			return ab.completion
		}
		values := items.(sliceItems).values
		if isCallable(arg(1)) {
			mapped := make([]Value, len(values))
			for i, v := range values {
				res := e.callFunction(env, arg(1), UNDEFINED, []Value{v, &Number{Value: float64(i)}})
				if isAbrupt(res) {
					return res
				}
				mapped[i] = res
			}
			values = mapped
		}
		return NewArray(values)
	}
	return newTypeError("Array.%s is not implemented by the engine core", method)
}

func (e *Evaluator) callNumberStatic(env *JSObject, method string, args []Value) Value {
	arg := func(i int) Value {
		if i < len(args) {
			return args[i]
		}
		return UNDEFINED
	}
	n, isNum := arg(0).(*Number)
	switch method {
	case "isNaN":
		return nativeBoolToBooleanValue(isNum && math.IsNaN(n.Value))
	case "isFinite":
		return nativeBoolToBooleanValue(isNum && !math.IsNaN(n.Value) && !math.IsInf(n.Value, 0))
	case "isInteger":
		return nativeBoolToBooleanValue(isNum && !math.IsNaN(n.Value) && !math.IsInf(n.Value, 0) && n.Value == math.Trunc(n.Value))
	case "isSafeInteger":
		return nativeBoolToBooleanValue(isNum && n.Value == math.Trunc(n.Value) && math.Abs(n.Value) <= 9007199254740991)
	case "parseFloat":
		return e.callBuiltin(env, "parseFloat", UNDEFINED, args)
	case "parseInt":
		return e.callBuiltin(env, "parseInt", UNDEFINED, args)
	}
	return newTypeError("Number.%s is not implemented by the engine core", method)
}
