package evaluator

// getIterator obtains an iterator from a value via @@iterator. Arrays
// and strings have fast paths in iterateToSlice; this is the generic
// protocol used by for-of, spread and destructuring of exotic objects.
func (e *Evaluator) getIterator(env *JSObject, src Value) Value {
	method := e.getMember(env, src, SymbolKey(e.wellKnown("iterator")))
	if isAbrupt(method) {
		return method
	}
	if !isCallable(method) {
		return newTypeError("%s is not iterable", src.Inspect())
	}
	iter := e.callFunction(env, method, src, nil)
	if isAbrupt(iter) {
		return iter
	}
	return iter
}

// getAsyncIterator prefers @@asyncIterator, falling back to the sync
// protocol.
func (e *Evaluator) getAsyncIterator(env *JSObject, src Value) Value {
	method := e.getMember(env, src, SymbolKey(e.wellKnown("asyncIterator")))
	if !isAbrupt(method) && isCallable(method) {
		iter := e.callFunction(env, method, src, nil)
		if isAbrupt(iter) {
			return iter
		}
		return iter
	}
	return e.getIterator(env, src)
}

// iteratorNext calls next() and unpacks the {value, done} result.
// sendValue may be nil.
func (e *Evaluator) iteratorNext(env *JSObject, iter Value, sendValue Value) (Value, bool, Value) {
	nextFn := e.getMember(env, iter, StringKey("next"))
	if isAbrupt(nextFn) {
		return nil, false, nextFn
	}
	if !isCallable(nextFn) {
		return nil, false, newTypeError("iterator.next is not a function")
	}
	var args []Value
	if sendValue != nil {
		args = []Value{sendValue}
	}
	res := e.callFunction(env, nextFn, iter, args)
	if isAbrupt(res) {
		return nil, false, res
	}
	return e.unpackIterResult(env, res)
}

func (e *Evaluator) unpackIterResult(env *JSObject, res Value) (Value, bool, Value) {
	// await-resolved results arrive as promises from async iterators
	if p, ok := res.(*PromiseValue); ok {
		settled := e.awaitPromise(env, p)
		if isAbrupt(settled) {
			return nil, false, settled
		}
		res = settled
	}
	obj, ok := res.(*JSObject)
	if !ok {
		return nil, false, newTypeError("Iterator result %s is not an object", res.Inspect())
	}
	done := false
	if cell, has := obj.GetOwn(StringKey("done")); has {
		done = isTruthy(e.coerceSlot(env, cell.Value, res))
	}
	var value Value = UNDEFINED
	if cell, has := obj.GetOwn(StringKey("value")); has {
		value = e.coerceSlot(env, cell.Value, res)
		if isAbrupt(value) {
			return nil, false, value
		}
	}
	return value, done, nil
}

// iteratorClose invokes return() on abrupt loop exit, ignoring inner
// errors per spec.
func (e *Evaluator) iteratorClose(env *JSObject, iter Value) {
	retFn := e.getMember(env, iter, StringKey("return"))
	if isAbrupt(retFn) || !isCallable(retFn) {
		return
	}
	e.callFunction(env, retFn, iter, nil)
}

// newIterResultObject builds a {value, done} record.
func (e *Evaluator) newIterResultObject(value Value, done bool) *JSObject {
	obj := NewJSObject()
	obj.SetKey(StringKey("value"), value)
	obj.SetKey(StringKey("done"), nativeBoolToBooleanValue(done))
	return obj
}
