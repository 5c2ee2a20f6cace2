package evaluator

import (
	"strings"
)

// callReceiverMethod dispatches a method call keyed by the receiver's
// internal marker: promises, generators, collections, strings, binary
// data, functions and ordinary objects.
func (e *Evaluator) callReceiverMethod(env *JSObject, recv Value, method string, args []Value) Value {
	arg := func(i int) Value {
		if i < len(args) {
			return args[i]
		}
		return UNDEFINED
	}

	switch r := recv.(type) {
	case *PromiseValue:
		switch method {
		case "then":
			return e.promiseThen(env, r, arg(0), arg(1))
		case "catch":
			return e.promiseThen(env, r, nil, arg(0))
		case "finally":
			handler := arg(0)
			wrap := func(v Value, rethrow bool) Value {
				if isCallable(handler) {
					res := e.callFunction(env, handler, UNDEFINED, nil)
					if isError(res) {
						return res
					}
				}
				if rethrow {
					return &ThrowSignal{Value: v}
				}
				return v
			}
			derived := NewPromise()
			e.addReactions(r.Promise,
				func(v Value) {
					res := wrap(v, false)
					if isError(res) {
						e.rejectPromise(derived.Promise, e.materializeThrown(env, res))
						return
					}
					e.resolvePromise(env, derived.Promise, v)
				},
				func(reason Value) {
					res := wrap(reason, true)
					if ts, ok := res.(*ThrowSignal); ok {
						e.rejectPromise(derived.Promise, ts.Value)
						return
					}
					e.rejectPromise(derived.Promise, e.materializeThrown(env, res))
				})
			return derived
		}

	case *GeneratorValue:
		switch method {
		case "next":
			return e.generatorNext(env, r.Gen, arg(0))
		case "throw":
			return e.generatorThrow(env, r.Gen, arg(0))
		case "return":
			return e.generatorReturn(env, r.Gen, arg(0))
		case "@@iterator":
			return r
		}

	case *AsyncGeneratorValue:
		switch method {
		case "next":
			return e.asyncGeneratorEnqueue(env, r.Gen, ReqNext, arg(0))
		case "throw":
			return e.asyncGeneratorEnqueue(env, r.Gen, ReqThrow, arg(0))
		case "return":
			return e.asyncGeneratorEnqueue(env, r.Gen, ReqReturn, arg(0))
		case "@@asyncIterator":
			return r
		}

	case *MapValue:
		switch method {
		case "get":
			if v, ok := r.Data.Get(arg(0)); ok {
				return v
			}
			return UNDEFINED
		case "set":
			r.Data.Set(arg(0), arg(1))
			return r
		case "has":
			_, ok := r.Data.Get(arg(0))
			return nativeBoolToBooleanValue(ok)
		case "delete":
			return nativeBoolToBooleanValue(r.Data.Delete(arg(0)))
		case "clear":
			r.Data.Keys = nil
			r.Data.Values = nil
			return UNDEFINED
		case "forEach":
			cb := arg(0)
			for i := range r.Data.Keys {
				res := e.callFunction(env, cb, arg(1), []Value{r.Data.Values[i], r.Data.Keys[i], r})
				if isAbrupt(res) {
					return res
				}
			}
			return UNDEFINED
		case "keys":
			return e.newArrayIterator(env, NewArray(append([]Value{}, r.Data.Keys...)))
		case "values":
			return e.newArrayIterator(env, NewArray(append([]Value{}, r.Data.Values...)))
		case "entries", "@@iterator":
			entries := make([]Value, 0, len(r.Data.Keys))
			for i := range r.Data.Keys {
				entries = append(entries, NewArray([]Value{r.Data.Keys[i], r.Data.Values[i]}))
			}
			return e.newArrayIterator(env, NewArray(entries))
		}

	case *SetValue:
		switch method {
		case "add":
			r.Data.Add(arg(0))
			return r
		case "has":
			return nativeBoolToBooleanValue(r.Data.Has(arg(0)))
		case "delete":
			return nativeBoolToBooleanValue(r.Data.Delete(arg(0)))
		case "clear":
			r.Data.Items = nil
			return UNDEFINED
		case "forEach":
			cb := arg(0)
			for _, item := range r.Data.Items {
				res := e.callFunction(env, cb, arg(1), []Value{item, item, r})
				if isAbrupt(res) {
					return res
				}
			}
			return UNDEFINED
		case "values", "keys", "@@iterator":
			return e.newArrayIterator(env, NewArray(append([]Value{}, r.Data.Items...)))
		case "entries":
			entries := make([]Value, 0, len(r.Data.Items))
			for _, item := range r.Data.Items {
				entries = append(entries, NewArray([]Value{item, item}))
			}
			return e.newArrayIterator(env, NewArray(entries))
		}

	case *WeakMapValue:
		obj, isObj := arg(0).(*JSObject)
		switch method {
		case "get":
			if isObj {
				if v, ok := r.Entries[obj]; ok {
					return v
				}
			}
			return UNDEFINED
		case "set":
			if !isObj {
				return newTypeError("Invalid value used as weak map key")
			}
			r.Entries[obj] = arg(1)
			return r
		case "has":
			if isObj {
				_, ok := r.Entries[obj]
				return nativeBoolToBooleanValue(ok)
			}
			return FALSE
		case "delete":
			if isObj {
				if _, ok := r.Entries[obj]; ok {
					delete(r.Entries, obj)
					return TRUE
				}
			}
			return FALSE
		}

	case *WeakSetValue:
		obj, isObj := arg(0).(*JSObject)
		switch method {
		case "add":
			if !isObj {
				return newTypeError("Invalid value used in weak set")
			}
			r.Items[obj] = true
			return r
		case "has":
			if isObj {
				return nativeBoolToBooleanValue(r.Items[obj])
			}
			return FALSE
		case "delete":
			if isObj && r.Items[obj] {
				delete(r.Items, obj)
				return TRUE
			}
			return FALSE
		}

	case *String:
		return e.callStringMethod(env, r, strings.TrimPrefix(method, "String.prototype."), args)

	case *Number:
		switch method {
		case "toString":
			return NewString(FormatNumber(r.Value))
		case "valueOf":
			return r
		case "toFixed":
			digits := 0
			if n, ok := arg(0).(*Number); ok {
				digits = int(n.Value)
			}
			return NewString(formatFixed(r.Value, digits))
		}

	case *Boolean:
		switch method {
		case "toString":
			return NewString(r.Inspect())
		case "valueOf":
			return r
		}

	case *BigInt:
		switch method {
		case "toString":
			return NewString(r.Value.String())
		case "valueOf":
			return r
		}

	case *Symbol:
		switch method {
		case "toString":
			return NewString(r.Inspect())
		case "valueOf":
			return r
		}

	case *ArrayBufferValue:
		if method == "slice" {
			start, end := sliceRange(len(r.Data.Bytes), arg(0), arg(1))
			out := make([]byte, end-start)
			copy(out, r.Data.Bytes[start:end])
			return &ArrayBufferValue{Data: &ArrayBufferData{Bytes: out}}
		}

	case *DataViewValue:
		return e.callDataViewMethod(env, r, method, args)

	case *TypedArrayValue:
		switch method {
		case "at":
			if n, ok := arg(0).(*Number); ok {
				i := int(n.Value)
				if i < 0 {
					i += r.Length
				}
				return r.GetIndex(i)
			}
			return UNDEFINED
		case "fill":
			n := e.toNumber(env, arg(0))
			if isAbrupt(n) {
				return n
			}
			for i := 0; i < r.Length; i++ {
				r.SetIndex(i, n.(*Number).Value)
			}
			return r
		case "set":
			if src, ok := arg(0).(*JSObject); ok && src.IsArray {
				offset := 0
				if n, isN := arg(1).(*Number); isN {
					offset = int(n.Value)
				}
				for i, v := range arrayElements(src) {
					num := e.toNumber(env, v)
					if isAbrupt(num) {
						return num
					}
					r.SetIndex(offset+i, num.(*Number).Value)
				}
			}
			return UNDEFINED
		}

	case *Proxy:
		return e.callReceiverMethod(env, r.Target, method, args)

	case *JSObject:
		return e.callObjectReceiverMethod(env, r, method, args)
	}

	return newTypeError("%s.%s is not a function", inspectValue(recv), strings.TrimPrefix(method, "@@"))
}

func sliceRange(length int, startV, endV Value) (int, int) {
	start, end := 0, length
	if n, ok := startV.(*Number); ok {
		start = int(n.Value)
		if start < 0 {
			start += length
		}
	}
	if n, ok := endV.(*Number); ok {
		end = int(n.Value)
		if end < 0 {
			end += length
		}
	}
	if start < 0 {
		start = 0
	}
	if end > length {
		end = length
	}
	if start > end {
		start = end
	}
	return start, end
}
