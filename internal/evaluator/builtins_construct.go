package evaluator

import (
	"github.com/funvibe/funjs/internal/config"
)

// constructNative is the `new` path for registered native
// constructors.
func (e *Evaluator) constructNative(env *JSObject, name string, args []Value, newTarget Value) Value {
	arg := func(i int) Value {
		if i < len(args) {
			return args[i]
		}
		return UNDEFINED
	}

	switch name {
	case "Error", "TypeError", "RangeError", "ReferenceError", "SyntaxError", "EvalError", "AggregateError":
		obj := NewJSObject()
		obj.Prototype = e.errorPrototype(env, name)
		msg := ""
		if !isNullish(arg(0)) {
			s := e.toString(env, arg(0))
			if isAbrupt(s) {
				return s
			}
			msg = s.(*String).GoString()
		}
		obj.DefineHidden(StringKey("name"), NewString(name))
		obj.DefineHidden(StringKey("message"), NewString(msg))
		obj.DefineHidden(StringKey("stack"), NewString(name+": "+msg))
		return obj

	case "Promise":
		executor := arg(0)
		if !isCallable(executor) {
			return newTypeError("Promise resolver %s is not a function", inspectValue(executor))
		}
		promise := NewPromise()
		resolveFn := e.nativeResolveFunction(env, promise.Promise)
		rejectFn := e.nativeRejectFunction(env, promise.Promise)
		res := e.callFunction(env, executor, UNDEFINED, []Value{resolveFn, rejectFn})
		if isError(res) {
			e.rejectPromise(promise.Promise, e.materializeThrown(env, res))
		}
		return promise

	case "Map":
		m := &MapValue{Data: &MapData{}}
		if !isNullish(arg(0)) {
			items := e.iterateToSlice(env, arg(0))
			if ab, bad := items.(abruptItems); bad {
				return ab.completion
			}
			for _, item := range items.(sliceItems).values {
				pair, ok := item.(*JSObject)
				if !ok || !pair.IsArray {
					return newTypeError("Iterator value %s is not an entry object", item.Inspect())
				}
				els := arrayElements(pair)
				for len(els) < 2 {
					els = append(els, UNDEFINED)
				}
				m.Data.Set(els[0], els[1])
			}
		}
		return m

	case "Set":
		s := &SetValue{Data: &SetData{}}
		if !isNullish(arg(0)) {
			items := e.iterateToSlice(env, arg(0))
			if ab, bad := items.(abruptItems); bad {
				return ab.completion
			}
			for _, item := range items.(sliceItems).values {
				s.Data.Add(item)
			}
		}
		return s

	case "WeakMap":
		return &WeakMapValue{Entries: map[*JSObject]Value{}}
	case "WeakSet":
		return &WeakSetValue{Items: map[*JSObject]bool{}}

	case "ArrayBuffer", "SharedArrayBuffer":
		length := 0
		if n, ok := arg(0).(*Number); ok {
			length = int(n.Value)
		}
		if length < 0 {
			return newRangeError("Invalid array buffer length")
		}
		return &ArrayBufferValue{Data: &ArrayBufferData{Bytes: make([]byte, length), Shared: name == "SharedArrayBuffer"}}

	case "DataView":
		buf, ok := arg(0).(*ArrayBufferValue)
		if !ok {
			return newTypeError("First argument to DataView constructor must be an ArrayBuffer")
		}
		offset := 0
		if n, isN := arg(1).(*Number); isN {
			offset = int(n.Value)
		}
		length := len(buf.Data.Bytes) - offset
		if n, isN := arg(2).(*Number); isN {
			length = int(n.Value)
		}
		if offset < 0 || length < 0 || offset+length > len(buf.Data.Bytes) {
			return newRangeError("Invalid DataView length")
		}
		return &DataViewValue{Buffer: buf.Data, ByteOffset: offset, ByteLength: length}

	case "Int8Array", "Uint8Array", "Uint8ClampedArray", "Int16Array", "Uint16Array",
		"Int32Array", "Uint32Array", "Float32Array", "Float64Array",
		"BigInt64Array", "BigUint64Array":
		return e.constructTypedArray(env, TypedArrayKind(name), args)

	case "Proxy":
		handler, ok := arg(1).(*JSObject)
		if !ok {
			return newTypeError("Cannot create proxy with a non-object as target or handler")
		}
		switch arg(0).(type) {
		case *JSObject, *Proxy:
		default:
			return newTypeError("Cannot create proxy with a non-object as target or handler")
		}
		return &Proxy{Target: arg(0), Handler: handler}

	case "Object":
		return e.callBuiltin(env, "Object", UNDEFINED, args)
	case "Array":
		return e.callBuiltin(env, "Array", UNDEFINED, args)
	case "Number", "String", "Boolean":
		// wrapper objects degrade to their primitive in this engine
		return e.callBuiltin(env, name, UNDEFINED, args)
	case "Symbol":
		return newTypeError("Symbol is not a constructor")
	case "BigInt":
		return newTypeError("BigInt is not a constructor")
	case "Function":
		return newError(EvalError, "Function constructor requires the parser collaborator")

	case "RegExp":
		obj := NewJSObject()
		obj.Prototype = e.intrinsicObjectPrototype(env)
		obj.DefineHidden(StringKey(config.MarkerRegex), TRUE)
		src := ""
		if s, ok := arg(0).(*String); ok {
			src = s.GoString()
		}
		flags := ""
		if s, ok := arg(1).(*String); ok {
			flags = s.GoString()
		}
		obj.DefineHidden(StringKey("source"), NewString(src))
		obj.DefineHidden(StringKey("flags"), NewString(flags))
		return obj

	case "Date":
		obj := NewJSObject()
		obj.Prototype = e.intrinsicObjectPrototype(env)
		obj.DefineHidden(StringKey(config.MarkerDate), TRUE)
		return obj
	}

	return newTypeError("%s is not a constructor known to the engine core", name)
}

func (e *Evaluator) constructTypedArray(env *JSObject, kind TypedArrayKind, args []Value) Value {
	var buffer *ArrayBufferData
	offset := 0
	length := 0

	switch src := argOrUndefined(args, 0).(type) {
	case *Number:
		length = int(src.Value)
		if length < 0 {
			return newRangeError("Invalid typed array length: %d", length)
		}
		buffer = &ArrayBufferData{Bytes: make([]byte, length*kind.ElementSize())}
	case *ArrayBufferValue:
		buffer = src.Data
		if n, ok := argOrUndefined(args, 1).(*Number); ok {
			offset = int(n.Value)
		}
		if n, ok := argOrUndefined(args, 2).(*Number); ok {
			length = int(n.Value)
		} else {
			length = (len(buffer.Bytes) - offset) / kind.ElementSize()
		}
		if offset < 0 || offset+length*kind.ElementSize() > len(buffer.Bytes) {
			return newRangeError("Invalid typed array length")
		}
	case *JSObject:
		if !src.IsArray {
			return newTypeError("Cannot construct a typed array from %s", src.Inspect())
		}
		els := arrayElements(src)
		length = len(els)
		buffer = &ArrayBufferData{Bytes: make([]byte, length*kind.ElementSize())}
		ta := &TypedArrayValue{Kind: kind, Buffer: buffer, Length: length}
		for i, v := range els {
			n := e.toNumber(env, v)
			if isAbrupt(n) {
				return n
			}
			ta.SetIndex(i, n.(*Number).Value)
		}
		return ta
	case *Undefined:
		buffer = &ArrayBufferData{}
	default:
		return newTypeError("Cannot construct a typed array from %s", argOrUndefined(args, 0).Inspect())
	}

	return &TypedArrayValue{Kind: kind, Buffer: buffer, ByteOffset: offset, Length: length}
}

func argOrUndefined(args []Value, i int) Value {
	if i < len(args) {
		return args[i]
	}
	return UNDEFINED
}
