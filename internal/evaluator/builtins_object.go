package evaluator

import "math/big"

func (e *Evaluator) builtinBigInt(env *JSObject, v Value) Value {
	switch val := v.(type) {
	case *BigInt:
		return val
	case *Number:
		if val.Value != float64(int64(val.Value)) {
			return newRangeError("The number %s cannot be converted to a BigInt because it is not an integer", FormatNumber(val.Value))
		}
		return bigIntFromInt64(int64(val.Value))
	case *String:
		if bi, ok := new(big.Int).SetString(val.GoString(), 10); ok {
			return &BigInt{Value: bi}
		}
		return newSyntaxError("Cannot convert %s to a BigInt", val.GoString())
	case *Boolean:
		if val.Value {
			return bigIntFromInt64(1)
		}
		return bigIntFromInt64(0)
	default:
		return newTypeError("Cannot convert %s to a BigInt", v.Inspect())
	}
}

func (e *Evaluator) callObjectStatic(env *JSObject, method string, this Value, args []Value) Value {
	arg := func(i int) Value {
		if i < len(args) {
			return args[i]
		}
		return UNDEFINED
	}

	switch method {
	case "keys":
		obj, ok := arg(0).(*JSObject)
		if !ok {
			return NewArray(nil)
		}
		var out []Value
		for _, name := range obj.OwnEnumerableStringKeys() {
			out = append(out, NewString(name))
		}
		return NewArray(out)
	case "values":
		obj, ok := arg(0).(*JSObject)
		if !ok {
			return NewArray(nil)
		}
		var out []Value
		for _, name := range obj.OwnEnumerableStringKeys() {
			cell, _ := obj.GetOwn(StringKey(name))
			v := e.coerceSlot(env, cell.Value, obj)
			if isAbrupt(v) {
				return v
			}
			out = append(out, v)
		}
		return NewArray(out)
	case "entries":
		obj, ok := arg(0).(*JSObject)
		if !ok {
			return NewArray(nil)
		}
		var out []Value
		for _, name := range obj.OwnEnumerableStringKeys() {
			cell, _ := obj.GetOwn(StringKey(name))
			v := e.coerceSlot(env, cell.Value, obj)
			if isAbrupt(v) {
				return v
			}
			out = append(out, NewArray([]Value{NewString(name), v}))
		}
		return NewArray(out)
	case "assign":
		target, ok := arg(0).(*JSObject)
		if !ok {
			return newTypeError("Cannot convert %s to object", arg(0).Inspect())
		}
		for _, src := range args[1:] {
			srcObj, isObj := src.(*JSObject)
			if !isObj {
				continue
			}
			for _, name := range srcObj.OwnEnumerableStringKeys() {
				cell, _ := srcObj.GetOwn(StringKey(name))
				v := e.coerceSlot(env, cell.Value, src)
				if isAbrupt(v) {
					return v
				}
				if res := e.setMember(env, target, StringKey(name), v); isAbrupt(res) {
					return res
				}
			}
		}
		return target
	case "freeze":
		obj, ok := arg(0).(*JSObject)
		if !ok {
			return arg(0)
		}
		obj.Extensible = false
		for _, k := range obj.OwnKeys() {
			obj.nonWritable[k] = true
			obj.nonConfigurable[k] = true
		}
		return obj
	case "isFrozen":
		obj, ok := arg(0).(*JSObject)
		if !ok {
			return TRUE
		}
		if obj.Extensible {
			return FALSE
		}
		for _, k := range obj.OwnKeys() {
			if !obj.nonWritable[k] || !obj.nonConfigurable[k] {
				return FALSE
			}
		}
		return TRUE
	case "seal":
		obj, ok := arg(0).(*JSObject)
		if !ok {
			return arg(0)
		}
		obj.Extensible = false
		for _, k := range obj.OwnKeys() {
			obj.nonConfigurable[k] = true
		}
		return obj
	case "preventExtensions":
		if obj, ok := arg(0).(*JSObject); ok {
			obj.Extensible = false
		}
		return arg(0)
	case "isExtensible":
		if obj, ok := arg(0).(*JSObject); ok {
			return nativeBoolToBooleanValue(obj.Extensible)
		}
		return FALSE
	case "create":
		obj := NewJSObject()
		switch proto := arg(0).(type) {
		case *JSObject:
			obj.Prototype = proto
		case *Null:
			obj.Prototype = nil
		default:
			return newTypeError("Object prototype may only be an Object or null: %s", arg(0).Inspect())
		}
		if props, ok := arg(1).(*JSObject); ok {
			for _, name := range props.OwnEnumerableStringKeys() {
				cell, _ := props.GetOwn(StringKey(name))
				if res := e.defineFromDescriptorObject(env, obj, StringKey(name), cell.Value); isAbrupt(res) {
					return res
				}
			}
		}
		return obj
	case "getPrototypeOf":
		switch v := arg(0).(type) {
		case *JSObject:
			if v.Prototype == nil {
				return NULL
			}
			return v.Prototype
		case *Proxy:
			if t, ok := v.Target.(*JSObject); ok && t.Prototype != nil {
				return t.Prototype
			}
			return NULL
		}
		return NULL
	case "setPrototypeOf":
		obj, ok := arg(0).(*JSObject)
		if !ok {
			return arg(0)
		}
		switch proto := arg(1).(type) {
		case *JSObject:
			obj.Prototype = proto
		case *Null:
			obj.Prototype = nil
		default:
			return newTypeError("Object prototype may only be an Object or null: %s", arg(1).Inspect())
		}
		return obj
	case "defineProperty":
		obj, ok := arg(0).(*JSObject)
		if !ok {
			return newTypeError("Object.defineProperty called on non-object")
		}
		key, kerr := e.toPropertyKey(env, arg(1))
		if kerr != nil {
			return kerr
		}
		if res := e.defineFromDescriptorObject(env, obj, key, arg(2)); isAbrupt(res) {
			return res
		}
		return obj
	case "getOwnPropertyNames":
		obj, ok := arg(0).(*JSObject)
		if !ok {
			return NewArray(nil)
		}
		var out []Value
		for _, k := range obj.OwnKeys() {
			if k.Kind == KeyString {
				out = append(out, NewString(k.Name))
			}
		}
		return NewArray(out)
	case "getOwnPropertyDescriptor":
		obj, ok := arg(0).(*JSObject)
		if !ok {
			return UNDEFINED
		}
		key, kerr := e.toPropertyKey(env, arg(1))
		if kerr != nil {
			return kerr
		}
		cell, has := obj.GetOwn(key)
		if !has {
			return UNDEFINED
		}
		return e.createDescriptorObject(env, obj, key, cell.Value)
	case "fromEntries":
		items := e.iterateToSlice(env, arg(0))
		if ab, bad := items.(abruptItems); bad {
			return ab.completion
		}
		obj := NewJSObject()
		obj.Prototype = e.intrinsicObjectPrototype(env)
		for _, item := range items.(sliceItems).values {
			pair, ok := item.(*JSObject)
			if !ok || !pair.IsArray {
				return newTypeError("Iterator value %s is not an entry object", item.Inspect())
			}
			els := arrayElements(pair)
			if len(els) < 2 {
				els = append(els, UNDEFINED, UNDEFINED)
			}
			key, kerr := e.toPropertyKey(env, els[0])
			if kerr != nil {
				return kerr
			}
			obj.SetKey(key, els[1])
		}
		return obj
	}
	return newTypeError("Object.%s is not implemented by the engine core", method)
}

// defineFromDescriptorObject applies a {value|get|set, writable,
// enumerable, configurable} record.
func (e *Evaluator) defineFromDescriptorObject(env *JSObject, obj *JSObject, key PropertyKey, descVal Value) Value {
	desc, ok := descVal.(*JSObject)
	if !ok {
		return newTypeError("Property description must be an object: %s", inspectValue(descVal))
	}
	read := func(name string) (Value, bool) {
		cell, has := desc.GetOwn(StringKey(name))
		if !has {
			return nil, false
		}
		v := e.coerceSlot(env, cell.Value, desc)
		return v, true
	}

	getFn, hasGet := read("get")
	setFn, hasSet := read("set")
	value, hasValue := read("value")

	if hasGet || hasSet {
		pd := &PropertyDescriptor{}
		if hasGet && !isNullish(getFn) {
			pd.Getter = getFn
		}
		if hasSet && !isNullish(setFn) {
			pd.Setter = setFn
		}
		obj.SetKey(key, pd)
	} else if hasValue {
		obj.SetKey(key, value)
	} else {
		obj.SetKey(key, UNDEFINED)
	}

	if v, has := read("enumerable"); !has || !isTruthy(v) {
		obj.nonEnumerable[key] = true
	} else {
		delete(obj.nonEnumerable, key)
	}
	if v, has := read("writable"); (!has || !isTruthy(v)) && !hasGet && !hasSet {
		obj.nonWritable[key] = true
	} else {
		delete(obj.nonWritable, key)
	}
	if v, has := read("configurable"); !has || !isTruthy(v) {
		obj.nonConfigurable[key] = true
	} else {
		delete(obj.nonConfigurable, key)
	}
	return UNDEFINED
}

// createDescriptorObject is the inverse: a plain object view of an
// own property slot.
func (e *Evaluator) createDescriptorObject(env *JSObject, obj *JSObject, key PropertyKey, slot Value) Value {
	out := NewJSObject()
	out.Prototype = e.intrinsicObjectPrototype(env)
	switch sv := slot.(type) {
	case *PropertyDescriptor:
		if sv.Getter != nil || sv.Setter != nil {
			if sv.Getter != nil {
				out.SetKey(StringKey("get"), sv.Getter)
			} else {
				out.SetKey(StringKey("get"), UNDEFINED)
			}
			if sv.Setter != nil {
				out.SetKey(StringKey("set"), sv.Setter)
			} else {
				out.SetKey(StringKey("set"), UNDEFINED)
			}
		} else {
			if sv.Value != nil {
				out.SetKey(StringKey("value"), sv.Value)
			} else {
				out.SetKey(StringKey("value"), UNDEFINED)
			}
			out.SetKey(StringKey("writable"), nativeBoolToBooleanValue(obj.IsWritable(key)))
		}
	case *Getter:
		out.SetKey(StringKey("get"), sv.Fn)
		out.SetKey(StringKey("set"), UNDEFINED)
	case *Setter:
		out.SetKey(StringKey("get"), UNDEFINED)
		out.SetKey(StringKey("set"), sv.Fn)
	default:
		out.SetKey(StringKey("value"), slot)
		out.SetKey(StringKey("writable"), nativeBoolToBooleanValue(obj.IsWritable(key)))
	}
	out.SetKey(StringKey("enumerable"), nativeBoolToBooleanValue(obj.IsEnumerable(key)))
	out.SetKey(StringKey("configurable"), nativeBoolToBooleanValue(!obj.nonConfigurable[key]))
	return out
}

func (e *Evaluator) callReflectMethod(env *JSObject, method string, args []Value) Value {
	arg := func(i int) Value {
		if i < len(args) {
			return args[i]
		}
		return UNDEFINED
	}

	switch method {
	case "get":
		key, kerr := e.toPropertyKey(env, arg(1))
		if kerr != nil {
			return kerr
		}
		return e.getMember(env, arg(0), key)
	case "set":
		key, kerr := e.toPropertyKey(env, arg(1))
		if kerr != nil {
			return kerr
		}
		res := e.setMember(env, arg(0), key, arg(2))
		if isAbrupt(res) {
			return FALSE
		}
		return TRUE
	case "has":
		key, kerr := e.toPropertyKey(env, arg(1))
		if kerr != nil {
			return kerr
		}
		switch target := arg(0).(type) {
		case *JSObject:
			return nativeBoolToBooleanValue(target.HasKey(key))
		case *Proxy:
			return e.proxyHas(env, target, key)
		}
		return newTypeError("Reflect.has called on non-object")
	case "deleteProperty":
		key, kerr := e.toPropertyKey(env, arg(1))
		if kerr != nil {
			return kerr
		}
		if obj, ok := arg(0).(*JSObject); ok {
			return nativeBoolToBooleanValue(obj.Delete(key))
		}
		return newTypeError("Reflect.deleteProperty called on non-object")
	case "ownKeys":
		switch target := arg(0).(type) {
		case *JSObject:
			var out []Value
			for _, k := range target.OwnKeys() {
				if k.Kind == KeyPrivate {
					continue
				}
				out = append(out, propertyKeyValue(k))
			}
			return NewArray(out)
		case *Proxy:
			return e.proxyOwnKeys(env, target)
		}
		return newTypeError("Reflect.ownKeys called on non-object")
	case "getPrototypeOf":
		return e.callObjectStatic(env, "getPrototypeOf", UNDEFINED, args)
	case "setPrototypeOf":
		res := e.callObjectStatic(env, "setPrototypeOf", UNDEFINED, args)
		if isAbrupt(res) {
			return FALSE
		}
		return TRUE
	case "defineProperty":
		res := e.callObjectStatic(env, "defineProperty", UNDEFINED, args)
		if isAbrupt(res) {
			return FALSE
		}
		return TRUE
	case "apply":
		argList := []Value{}
		if arr, ok := arg(2).(*JSObject); ok && arr.IsArray {
			argList = arrayElements(arr)
		}
		return e.callFunction(env, arg(0), arg(1), argList)
	case "construct":
		argList := []Value{}
		if arr, ok := arg(1).(*JSObject); ok && arr.IsArray {
			argList = arrayElements(arr)
		}
		var newTarget Value
		if len(args) > 2 {
			newTarget = args[2]
		}
		return e.evaluateNew(env, arg(0), argList, newTarget)
	}
	return newTypeError("Reflect.%s is not implemented by the engine core", method)
}
