package evaluator

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// callBuiltin dispatches a named native handler. The receiver arrives
// through `this` for prototype-method names; global functions ignore
// it. Unknown names surface as TypeErrors rather than panics — the
// full library breadth is an external collaborator.
func (e *Evaluator) callBuiltin(env *JSObject, name string, this Value, args []Value) Value {
	arg := func(i int) Value {
		if i < len(args) {
			return args[i]
		}
		return UNDEFINED
	}

	switch name {
	case "parseInt":
		return e.builtinParseInt(env, args)
	case "parseFloat":
		s := e.toString(env, arg(0))
		if isAbrupt(s) {
			return s
		}
		return &Number{Value: parseFloatPrefix(strings.TrimSpace(s.(*String).GoString()))}
	case "isNaN":
		n := e.toNumber(env, arg(0))
		if isAbrupt(n) {
			return n
		}
		return nativeBoolToBooleanValue(math.IsNaN(n.(*Number).Value))
	case "isFinite":
		n := e.toNumber(env, arg(0))
		if isAbrupt(n) {
			return n
		}
		f := n.(*Number).Value
		return nativeBoolToBooleanValue(!math.IsNaN(f) && !math.IsInf(f, 0))
	case "eval":
		// eval is not evaluated: every call returns an EvalError,
		// whatever the argument.
		return newError(EvalError, "eval of source text requires the parser collaborator")
	case "String":
		if len(args) == 0 {
			return NewString("")
		}
		if sym, ok := arg(0).(*Symbol); ok {
			return NewString(sym.Inspect())
		}
		return e.toString(env, arg(0))
	case "Number":
		if len(args) == 0 {
			return &Number{Value: 0}
		}
		if bi, ok := arg(0).(*BigInt); ok {
			f, _ := new(big.Float).SetInt(bi.Value).Float64()
			return &Number{Value: f}
		}
		return e.toNumber(env, arg(0))
	case "Boolean":
		return nativeBoolToBooleanValue(isTruthy(arg(0)))
	case "BigInt":
		return e.builtinBigInt(env, arg(0))
	case "Symbol":
		data := &SymbolData{}
		if len(args) > 0 && !isNullish(args[0]) {
			s := e.toString(env, args[0])
			if isAbrupt(s) {
				return s
			}
			data.Description = s.(*String).GoString()
			data.HasDesc = true
		}
		return &Symbol{Data: data}
	case "Symbol.for":
		s := e.toString(env, arg(0))
		if isAbrupt(s) {
			return s
		}
		return SymbolFor(s.(*String).GoString())
	case "Symbol.keyFor":
		sym, ok := arg(0).(*Symbol)
		if !ok {
			return newTypeError("%s is not a symbol", arg(0).Inspect())
		}
		if key, found := SymbolKeyFor(sym); found {
			return NewString(key)
		}
		return UNDEFINED
	case "Array":
		if len(args) == 1 {
			if n, ok := args[0].(*Number); ok {
				arr := NewJSObject()
				arr.IsArray = true
				arr.setArrayLength(int(n.Value))
				return arr
			}
		}
		return NewArray(args)
	case "Object":
		if len(args) == 0 || isNullish(arg(0)) {
			obj := NewJSObject()
			obj.Prototype = e.intrinsicObjectPrototype(env)
			return obj
		}
		return arg(0)
	case "__throw_callee_access":
		return newTypeError("'caller', 'callee', and 'arguments' properties may not be accessed on strict mode functions")
	case "__internal_resolve_promise", "__internal_reject_promise":
		// capability functions materialize through nativeFunc; the
		// named forms exist for the library collaborator's dispatch
		return UNDEFINED
	}

	if strings.HasPrefix(name, "Object.prototype.") ||
		strings.HasPrefix(name, "Function.prototype.") ||
		strings.HasPrefix(name, "Error.prototype.") {
		return e.callReceiverMethod(env, this, name, args)
	}
	if strings.HasPrefix(name, "Object.") {
		return e.callObjectStatic(env, strings.TrimPrefix(name, "Object."), this, args)
	}
	if strings.HasPrefix(name, "Reflect.") {
		return e.callReflectMethod(env, strings.TrimPrefix(name, "Reflect."), args)
	}
	if strings.HasPrefix(name, "Promise.") {
		return e.callPromiseStatic(env, strings.TrimPrefix(name, "Promise."), args)
	}
	if strings.HasPrefix(name, "Array.") {
		return e.callArrayStatic(env, strings.TrimPrefix(name, "Array."), args)
	}
	if strings.HasPrefix(name, "Number.") {
		return e.callNumberStatic(env, strings.TrimPrefix(name, "Number."), args)
	}

	// Constructor names invoked as plain functions.
	switch name {
	case "Error", "TypeError", "RangeError", "ReferenceError", "SyntaxError", "EvalError":
		return e.constructNative(env, name, args, nil)
	case "Promise", "Map", "Set", "WeakMap", "WeakSet", "Proxy",
		"ArrayBuffer", "SharedArrayBuffer", "DataView":
		return newTypeError("Constructor %s requires 'new'", name)
	}

	return newTypeError("%s is not implemented by the engine core", name)
}

func (e *Evaluator) builtinParseInt(env *JSObject, args []Value) Value {
	var sv Value = UNDEFINED
	if len(args) > 0 {
		sv = args[0]
	}
	s := e.toString(env, sv)
	if isAbrupt(s) {
		return s
	}
	str := strings.TrimSpace(s.(*String).GoString())
	radix := 10
	if len(args) > 1 {
		r := e.toNumber(env, args[1])
		if isAbrupt(r) {
			return r
		}
		if rv := int(r.(*Number).Value); rv != 0 {
			if rv < 2 || rv > 36 {
				return &Number{Value: math.NaN()}
			}
			radix = rv
		}
	}
	neg := false
	if strings.HasPrefix(str, "-") {
		neg = true
		str = str[1:]
	} else if strings.HasPrefix(str, "+") {
		str = str[1:]
	}
	if (radix == 16 || radix == 10) && (strings.HasPrefix(str, "0x") || strings.HasPrefix(str, "0X")) {
		radix = 16
		str = str[2:]
	}
	end := 0
	for end < len(str) {
		if digitValue(str[end]) >= radix {
			break
		}
		end++
	}
	if end == 0 {
		return &Number{Value: math.NaN()}
	}
	n, err := strconv.ParseInt(str[:end], radix, 64)
	var f float64
	if err != nil {
		// overflow: fall back to float accumulation
		f = 0
		for i := 0; i < end; i++ {
			f = f*float64(radix) + float64(digitValue(str[i]))
		}
	} else {
		f = float64(n)
	}
	if neg {
		f = -f
	}
	return &Number{Value: f}
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	default:
		return 99
	}
}

func parseFloatPrefix(s string) float64 {
	end := len(s)
	for end > 0 {
		if _, err := strconv.ParseFloat(s[:end], 64); err == nil {
			f, _ := strconv.ParseFloat(s[:end], 64)
			return f
		}
		end--
	}
	return math.NaN()
}
