package evaluator

// Proxy trap dispatch. Each trap falls through to the target when the
// handler does not define it; trap results that violate the essential
// invariants surface as TypeErrors.

func (e *Evaluator) proxyTrap(p *Proxy, name string) (Value, *Error) {
	if p.Revoked {
		return nil, newTypeError("Cannot perform '%s' on a proxy that has been revoked", name)
	}
	cell, ok := p.Handler.GetOwn(StringKey(name))
	if !ok || cell.Value == nil {
		return nil, nil
	}
	if !isCallable(cell.Value) {
		return nil, newTypeError("'%s' trap is not a function", name)
	}
	return cell.Value, nil
}

func propertyKeyValue(key PropertyKey) Value {
	if key.Kind == KeySymbol {
		return &Symbol{Data: key.Sym}
	}
	return NewString(key.Name)
}

func (e *Evaluator) proxyGet(env *JSObject, p *Proxy, key PropertyKey, receiver Value) Value {
	trap, terr := e.proxyTrap(p, "get")
	if terr != nil {
		return terr
	}
	if trap == nil {
		return e.getMember(env, p.Target, key)
	}
	result := e.callFunction(env, trap, p.Handler, []Value{p.Target, propertyKeyValue(key), receiver})
	if isAbrupt(result) {
		return result
	}
	// non-configurable non-writable data properties must report their
	// actual value
	if targetObj, ok := p.Target.(*JSObject); ok {
		if cell, has := targetObj.GetOwn(key); has && targetObj.nonConfigurable[key] && targetObj.nonWritable[key] {
			if !strictEquals(result, cell.Value) {
				return newTypeError("'get' on proxy: property '%s' is a read-only and non-configurable data property on the proxy target but the proxy did not return its actual value", key.String())
			}
		}
	}
	return result
}

func (e *Evaluator) proxySet(env *JSObject, p *Proxy, key PropertyKey, value Value, receiver Value) Value {
	trap, terr := e.proxyTrap(p, "set")
	if terr != nil {
		return terr
	}
	if trap == nil {
		return e.setMember(env, p.Target, key, value)
	}
	result := e.callFunction(env, trap, p.Handler, []Value{p.Target, propertyKeyValue(key), value, receiver})
	if isAbrupt(result) {
		return result
	}
	if !isTruthy(result) {
		return newTypeError("'set' on proxy: trap returned falsish for property '%s'", key.String())
	}
	return value
}

func (e *Evaluator) proxyHas(env *JSObject, p *Proxy, key PropertyKey) Value {
	trap, terr := e.proxyTrap(p, "has")
	if terr != nil {
		return terr
	}
	if trap == nil {
		if targetObj, ok := p.Target.(*JSObject); ok {
			return nativeBoolToBooleanValue(targetObj.HasKey(key))
		}
		return FALSE
	}
	result := e.callFunction(env, trap, p.Handler, []Value{p.Target, propertyKeyValue(key)})
	if isAbrupt(result) {
		return result
	}
	has := isTruthy(result)
	if !has {
		if targetObj, ok := p.Target.(*JSObject); ok {
			if _, own := targetObj.GetOwn(key); own && targetObj.nonConfigurable[key] {
				return newTypeError("'has' on proxy: trap returned falsish for property '%s' which exists in the proxy target as non-configurable", key.String())
			}
		}
	}
	return nativeBoolToBooleanValue(has)
}

func (e *Evaluator) proxyDelete(env *JSObject, p *Proxy, key PropertyKey) Value {
	trap, terr := e.proxyTrap(p, "deleteProperty")
	if terr != nil {
		return terr
	}
	if trap == nil {
		if targetObj, ok := p.Target.(*JSObject); ok {
			return nativeBoolToBooleanValue(targetObj.Delete(key))
		}
		return TRUE
	}
	result := e.callFunction(env, trap, p.Handler, []Value{p.Target, propertyKeyValue(key)})
	if isAbrupt(result) {
		return result
	}
	if !isTruthy(result) {
		return newTypeError("'deleteProperty' on proxy: trap returned falsish for property '%s'", key.String())
	}
	return TRUE
}

func (e *Evaluator) proxyApply(env *JSObject, p *Proxy, this Value, args []Value) Value {
	trap, terr := e.proxyTrap(p, "apply")
	if terr != nil {
		return terr
	}
	if trap == nil {
		return e.callFunction(env, p.Target, this, args)
	}
	return e.callFunction(env, trap, p.Handler, []Value{p.Target, this, NewArray(args)})
}

func (e *Evaluator) proxyConstruct(env *JSObject, p *Proxy, args []Value, newTarget Value) Value {
	trap, terr := e.proxyTrap(p, "construct")
	if terr != nil {
		return terr
	}
	if trap == nil {
		return e.evaluateNew(env, p.Target, args, newTarget)
	}
	nt := newTarget
	if nt == nil {
		nt = p.Target
	}
	result := e.callFunction(env, trap, p.Handler, []Value{p.Target, NewArray(args), nt})
	if isAbrupt(result) {
		return result
	}
	if _, ok := result.(*JSObject); !ok {
		return newTypeError("'construct' on proxy: trap returned non-object")
	}
	return result
}

// proxyOwnKeys serves Reflect.ownKeys over proxies; Object.keys does
// not use it.
func (e *Evaluator) proxyOwnKeys(env *JSObject, p *Proxy) Value {
	trap, terr := e.proxyTrap(p, "ownKeys")
	if terr != nil {
		return terr
	}
	targetObj, isObj := p.Target.(*JSObject)
	if trap == nil {
		if !isObj {
			return NewArray(nil)
		}
		var keys []Value
		for _, k := range targetObj.OwnKeys() {
			if k.Kind == KeyPrivate {
				continue
			}
			keys = append(keys, propertyKeyValue(k))
		}
		return NewArray(keys)
	}
	result := e.callFunction(env, trap, p.Handler, []Value{p.Target})
	if isAbrupt(result) {
		return result
	}
	arr, ok := result.(*JSObject)
	if !ok || !arr.IsArray {
		return newTypeError("'ownKeys' on proxy: trap returned non-array")
	}
	return arr
}
