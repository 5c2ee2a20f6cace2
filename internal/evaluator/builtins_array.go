package evaluator

import (
	"sort"
	"strings"
)

// arrayProtoMethods is the dispatchable Array.prototype surface; a
// property miss outside this set reads as undefined, so arrays never
// masquerade as thenables or iterator results.
var arrayProtoMethods = map[string]bool{
	"push": true, "pop": true, "shift": true, "unshift": true,
	"slice": true, "splice": true, "concat": true, "join": true,
	"indexOf": true, "lastIndexOf": true, "includes": true, "at": true,
	"reverse": true, "fill": true, "flat": true, "keys": true,
	"values": true, "entries": true, "forEach": true, "map": true,
	"filter": true, "find": true, "findIndex": true, "some": true,
	"every": true, "reduce": true, "sort": true, "toString": true,
}

// newArrayIterator wraps an array in the iterator-object shape the
// protocol expects: a `next` method producing {value, done}.
func (e *Evaluator) newArrayIterator(env *JSObject, arr *JSObject) *JSObject {
	iter := NewJSObject()
	iter.DefineHidden(StringKey("__iter_target"), arr)
	iter.DefineHidden(StringKey("__iter_index"), &Number{Value: 0})
	iter.DefineHidden(StringKey("next"), &BoundBuiltin{Recv: iter, Method: "__array_iterator_next"})
	iter.DefineHidden(SymbolKey(e.wellKnown("iterator")), &BoundBuiltin{Recv: iter, Method: "@@selfIterator"})
	return iter
}

// callObjectReceiverMethod serves methods on ordinary objects: the
// array prototype surface, Function.prototype call/apply/bind, and the
// Object.prototype basics.
func (e *Evaluator) callObjectReceiverMethod(env *JSObject, recv *JSObject, method string, args []Value) Value {
	switch method {
	case "@@selfIterator":
		return recv
	case "@@arrayIterator":
		// iterate the receiver's indexed properties
		n := 0
		if cell, ok := recv.GetOwn(StringKey("length")); ok {
			if num, isNum := cell.Value.(*Number); isNum {
				n = int(num.Value)
			}
		}
		items := make([]Value, n)
		for i := 0; i < n; i++ {
			if cell, ok := recv.GetOwn(IndexKey(i)); ok && cell.Value != nil {
				items[i] = cell.Value
			} else {
				items[i] = UNDEFINED
			}
		}
		return e.newArrayIterator(env, NewArray(items))
	case "__array_iterator_next":
		targetCell, _ := recv.GetOwn(StringKey("__iter_target"))
		idxCell, _ := recv.GetOwn(StringKey("__iter_index"))
		if targetCell == nil || idxCell == nil {
			return e.newIterResultObject(UNDEFINED, true)
		}
		target := targetCell.Value.(*JSObject)
		idx := int(idxCell.Value.(*Number).Value)
		if idx >= target.arrayLength() {
			return e.newIterResultObject(UNDEFINED, true)
		}
		idxCell.Value = &Number{Value: float64(idx + 1)}
		var v Value = UNDEFINED
		if cell, ok := target.GetOwn(IndexKey(idx)); ok && cell.Value != nil {
			v = cell.Value
		}
		return e.newIterResultObject(v, false)
	}

	if strings.HasPrefix(method, "Function.prototype.") {
		return e.callFunctionProtoMethod(env, recv, strings.TrimPrefix(method, "Function.prototype."), args)
	}
	if strings.HasPrefix(method, "Object.prototype.") {
		return e.callObjectProtoMethod(env, recv, strings.TrimPrefix(method, "Object.prototype."), args)
	}
	if strings.HasPrefix(method, "Array.prototype.") {
		return e.callArrayProtoMethod(env, recv, strings.TrimPrefix(method, "Array.prototype."), args)
	}

	return newTypeError("%s is not a function", method)
}

func (e *Evaluator) callFunctionProtoMethod(env *JSObject, fn *JSObject, method string, args []Value) Value {
	arg := func(i int) Value {
		if i < len(args) {
			return args[i]
		}
		return UNDEFINED
	}
	switch method {
	case "call":
		var rest []Value
		if len(args) > 1 {
			rest = args[1:]
		}
		return e.callFunction(env, fn, arg(0), rest)
	case "apply":
		var list []Value
		if arr, ok := arg(1).(*JSObject); ok {
			list = arrayElements(arr)
		}
		return e.callFunction(env, fn, arg(0), list)
	case "bind":
		bound := NewJSObject()
		bound.Prototype = fn.Prototype
		var leading []Value
		if len(args) > 1 {
			leading = append(leading, args[1:]...)
		}
		bound.BoundCall = &BoundCallData{Target: fn, This: arg(0), Args: leading}
		return bound
	case "toString":
		return NewString(fn.Inspect())
	}
	return newTypeError("Function.prototype.%s is not implemented by the engine core", method)
}

func (e *Evaluator) callObjectProtoMethod(env *JSObject, recv Value, method string, args []Value) Value {
	arg := func(i int) Value {
		if i < len(args) {
			return args[i]
		}
		return UNDEFINED
	}
	switch method {
	case "hasOwnProperty":
		obj, ok := recv.(*JSObject)
		if !ok {
			return FALSE
		}
		key, kerr := e.toPropertyKey(env, arg(0))
		if kerr != nil {
			return kerr
		}
		_, has := obj.GetOwn(key)
		return nativeBoolToBooleanValue(has)
	case "isPrototypeOf":
		self, ok := recv.(*JSObject)
		if !ok {
			return FALSE
		}
		target, ok := arg(0).(*JSObject)
		if !ok {
			return FALSE
		}
		for p := target.Prototype; p != nil; p = p.Prototype {
			if p == self {
				return TRUE
			}
		}
		return FALSE
	case "propertyIsEnumerable":
		obj, ok := recv.(*JSObject)
		if !ok {
			return FALSE
		}
		key, kerr := e.toPropertyKey(env, arg(0))
		if kerr != nil {
			return kerr
		}
		if _, has := obj.GetOwn(key); !has {
			return FALSE
		}
		return nativeBoolToBooleanValue(obj.IsEnumerable(key))
	case "toString":
		if obj, ok := recv.(*JSObject); ok && obj.IsArray {
			return NewString(e.arrayJoin(env, obj, ","))
		}
		return NewString("[object Object]")
	case "valueOf":
		return recv
	}
	return newTypeError("Object.prototype.%s is not implemented by the engine core", method)
}

func (e *Evaluator) callArrayProtoMethod(env *JSObject, arr *JSObject, method string, args []Value) Value {
	arg := func(i int) Value {
		if i < len(args) {
			return args[i]
		}
		return UNDEFINED
	}

	switch method {
	case "push":
		for _, v := range args {
			appendToArray(arr, v)
		}
		return &Number{Value: float64(arr.arrayLength())}
	case "pop":
		n := arr.arrayLength()
		if n == 0 {
			return UNDEFINED
		}
		var v Value = UNDEFINED
		if cell, ok := arr.GetOwn(IndexKey(n - 1)); ok && cell.Value != nil {
			v = cell.Value
		}
		arr.Delete(IndexKey(n - 1))
		arr.setArrayLength(n - 1)
		return v
	case "shift":
		els := arrayElements(arr)
		if len(els) == 0 {
			return UNDEFINED
		}
		first := els[0]
		e.replaceArrayContents(arr, els[1:])
		return first
	case "unshift":
		els := arrayElements(arr)
		e.replaceArrayContents(arr, append(append([]Value{}, args...), els...))
		return &Number{Value: float64(arr.arrayLength())}
	case "slice":
		els := arrayElements(arr)
		start, end := sliceRange(len(els), arg(0), arg(1))
		out := make([]Value, end-start)
		copy(out, els[start:end])
		return NewArray(out)
	case "splice":
		els := arrayElements(arr)
		start, _ := sliceRange(len(els), arg(0), UNDEFINED)
		deleteCount := len(els) - start
		if n, ok := arg(1).(*Number); ok {
			deleteCount = int(n.Value)
			if deleteCount < 0 {
				deleteCount = 0
			}
			if start+deleteCount > len(els) {
				deleteCount = len(els) - start
			}
		}
		removed := append([]Value{}, els[start:start+deleteCount]...)
		var inserted []Value
		if len(args) > 2 {
			inserted = args[2:]
		}
		result := append(append(append([]Value{}, els[:start]...), inserted...), els[start+deleteCount:]...)
		e.replaceArrayContents(arr, result)
		return NewArray(removed)
	case "concat":
		out := arrayElements(arr)
		for _, v := range args {
			if other, ok := v.(*JSObject); ok && other.IsArray {
				out = append(out, arrayElements(other)...)
				continue
			}
			out = append(out, v)
		}
		return NewArray(out)
	case "join":
		sep := ","
		if s, ok := arg(0).(*String); ok {
			sep = s.GoString()
		}
		return NewString(e.arrayJoin(env, arr, sep))
	case "indexOf":
		for i, v := range arrayElements(arr) {
			if strictEquals(v, arg(0)) {
				return &Number{Value: float64(i)}
			}
		}
		return &Number{Value: -1}
	case "lastIndexOf":
		els := arrayElements(arr)
		for i := len(els) - 1; i >= 0; i-- {
			if strictEquals(els[i], arg(0)) {
				return &Number{Value: float64(i)}
			}
		}
		return &Number{Value: -1}
	case "includes":
		for _, v := range arrayElements(arr) {
			if sameValueZero(v, arg(0)) {
				return TRUE
			}
		}
		return FALSE
	case "at":
		els := arrayElements(arr)
		i := 0
		if n, ok := arg(0).(*Number); ok {
			i = int(n.Value)
		}
		if i < 0 {
			i += len(els)
		}
		if i < 0 || i >= len(els) {
			return UNDEFINED
		}
		return els[i]
	case "reverse":
		els := arrayElements(arr)
		for i, j := 0, len(els)-1; i < j; i, j = i+1, j-1 {
			els[i], els[j] = els[j], els[i]
		}
		e.replaceArrayContents(arr, els)
		return arr
	case "fill":
		n := arr.arrayLength()
		start, end := 0, n
		if len(args) > 1 {
			start, end = sliceRange(n, arg(1), arg(2))
		}
		for i := start; i < end; i++ {
			arr.SetKey(IndexKey(i), arg(0))
		}
		return arr
	case "flat":
		depth := 1
		if n, ok := arg(0).(*Number); ok {
			depth = int(n.Value)
		}
		return NewArray(flattenArray(arrayElements(arr), depth))
	case "keys":
		els := arrayElements(arr)
		keys := make([]Value, len(els))
		for i := range els {
			keys[i] = &Number{Value: float64(i)}
		}
		return e.newArrayIterator(env, NewArray(keys))
	case "values", "@@iterator":
		return e.newArrayIterator(env, NewArray(arrayElements(arr)))
	case "entries":
		els := arrayElements(arr)
		entries := make([]Value, len(els))
		for i, v := range els {
			entries[i] = NewArray([]Value{&Number{Value: float64(i)}, v})
		}
		return e.newArrayIterator(env, NewArray(entries))
	case "forEach":
		for i, v := range arrayElements(arr) {
			res := e.callFunction(env, arg(0), arg(1), []Value{v, &Number{Value: float64(i)}, arr})
			if isAbrupt(res) {
				return res
			}
		}
		return UNDEFINED
	case "map":
		els := arrayElements(arr)
		out := make([]Value, len(els))
		for i, v := range els {
			res := e.callFunction(env, arg(0), arg(1), []Value{v, &Number{Value: float64(i)}, arr})
			if isAbrupt(res) {
				return res
			}
			out[i] = res
		}
		return NewArray(out)
	case "filter":
		var out []Value
		for i, v := range arrayElements(arr) {
			res := e.callFunction(env, arg(0), arg(1), []Value{v, &Number{Value: float64(i)}, arr})
			if isAbrupt(res) {
				return res
			}
			if isTruthy(res) {
				out = append(out, v)
			}
		}
		return NewArray(out)
	case "find", "findIndex":
		for i, v := range arrayElements(arr) {
			res := e.callFunction(env, arg(0), arg(1), []Value{v, &Number{Value: float64(i)}, arr})
			if isAbrupt(res) {
				return res
			}
			if isTruthy(res) {
				if method == "find" {
					return v
				}
				return &Number{Value: float64(i)}
			}
		}
		if method == "find" {
			return UNDEFINED
		}
		return &Number{Value: -1}
	case "some":
		for i, v := range arrayElements(arr) {
			res := e.callFunction(env, arg(0), arg(1), []Value{v, &Number{Value: float64(i)}, arr})
			if isAbrupt(res) {
				return res
			}
			if isTruthy(res) {
				return TRUE
			}
		}
		return FALSE
	case "every":
		for i, v := range arrayElements(arr) {
			res := e.callFunction(env, arg(0), arg(1), []Value{v, &Number{Value: float64(i)}, arr})
			if isAbrupt(res) {
				return res
			}
			if !isTruthy(res) {
				return FALSE
			}
		}
		return TRUE
	case "reduce":
		els := arrayElements(arr)
		var acc Value
		start := 0
		if len(args) > 1 {
			acc = args[1]
		} else {
			if len(els) == 0 {
				return newTypeError("Reduce of empty array with no initial value")
			}
			acc = els[0]
			start = 1
		}
		for i := start; i < len(els); i++ {
			res := e.callFunction(env, arg(0), UNDEFINED, []Value{acc, els[i], &Number{Value: float64(i)}, arr})
			if isAbrupt(res) {
				return res
			}
			acc = res
		}
		return acc
	case "sort":
		els := arrayElements(arr)
		cmp := arg(0)
		var sortErr Value
		sort.SliceStable(els, func(i, j int) bool {
			if sortErr != nil {
				return false
			}
			if isCallable(cmp) {
				res := e.callFunction(env, cmp, UNDEFINED, []Value{els[i], els[j]})
				if isAbrupt(res) {
					sortErr = res
					return false
				}
				n := e.toNumber(env, res)
				if isAbrupt(n) {
					sortErr = n
					return false
				}
				return n.(*Number).Value < 0
			}
			a := e.toString(env, els[i])
			b := e.toString(env, els[j])
			if isAbrupt(a) || isAbrupt(b) {
				return false
			}
			return compareUTF16(a.(*String).Units, b.(*String).Units) < 0
		})
		if sortErr != nil {
			return sortErr
		}
		e.replaceArrayContents(arr, els)
		return arr
	case "toString":
		return NewString(e.arrayJoin(env, arr, ","))
	}
	return newTypeError("Array.prototype.%s is not implemented by the engine core", method)
}

func flattenArray(els []Value, depth int) []Value {
	var out []Value
	for _, v := range els {
		if inner, ok := v.(*JSObject); ok && inner.IsArray && depth > 0 {
			out = append(out, flattenArray(arrayElements(inner), depth-1)...)
			continue
		}
		out = append(out, v)
	}
	return out
}

// replaceArrayContents rewrites an array's indexed properties.
func (e *Evaluator) replaceArrayContents(arr *JSObject, els []Value) {
	old := arr.arrayLength()
	for i := 0; i < old; i++ {
		arr.Delete(IndexKey(i))
	}
	for i, v := range els {
		arr.SetKey(IndexKey(i), v)
	}
	arr.setArrayLength(len(els))
}
