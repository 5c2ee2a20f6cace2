package evaluator

import (
	"math"
)

// NewGlobalEnvironment bootstraps a realm: global constructors,
// well-known symbols, NaN/Infinity/undefined and globalThis (top-level
// `this` resolves to the same object), the way §6.5 requires of env_root. The symbol registry is
// process-wide and shared across realms.
func (e *Evaluator) NewGlobalEnvironment() *JSObject {
	env := NewEnvironment()

	envDefine(env, "undefined", UNDEFINED)
	envDefine(env, "NaN", &Number{Value: math.NaN()})
	envDefine(env, "Infinity", &Number{Value: math.Inf(1)})
	env.DefineHidden(StringKey("globalThis"), env)

	// Object and Function come first: every later prototype hangs off
	// them.
	objectProto := NewJSObject()
	objectCtor := NewJSObject()
	objectCtor.NativeCtor = "Object"
	objectCtor.DefineHidden(StringKey("prototype"), objectProto)
	objectProto.DefineHidden(StringKey("constructor"), objectCtor)
	for _, m := range []string{"hasOwnProperty", "isPrototypeOf", "propertyIsEnumerable", "toString", "valueOf"} {
		objectProto.DefineHidden(StringKey(m), &Builtin{Name: "Object.prototype." + m})
	}
	for _, m := range []string{
		"keys", "values", "entries", "assign", "freeze", "isFrozen", "seal",
		"preventExtensions", "isExtensible", "create", "getPrototypeOf",
		"setPrototypeOf", "defineProperty", "getOwnPropertyNames",
		"getOwnPropertyDescriptor", "fromEntries",
	} {
		objectCtor.DefineHidden(StringKey(m), &Builtin{Name: "Object." + m})
	}
	envDefine(env, "Object", objectCtor)

	functionProto := NewJSObject()
	functionProto.Prototype = objectProto
	functionCtor := NewJSObject()
	functionCtor.NativeCtor = "Function"
	functionCtor.Prototype = functionProto
	functionCtor.DefineHidden(StringKey("prototype"), functionProto)
	functionProto.DefineHidden(StringKey("constructor"), functionCtor)
	for _, m := range []string{"call", "apply", "bind", "toString"} {
		functionProto.DefineHidden(StringKey(m), &Builtin{Name: "Function.prototype." + m})
	}
	envDefine(env, "Function", functionCtor)

	arrayProto := NewJSObject()
	arrayProto.Prototype = objectProto
	arrayCtor := NewJSObject()
	arrayCtor.NativeCtor = "Array"
	arrayCtor.Prototype = functionProto
	arrayCtor.DefineHidden(StringKey("prototype"), arrayProto)
	arrayProto.DefineHidden(StringKey("constructor"), arrayCtor)
	for _, m := range []string{"isArray", "of", "from"} {
		arrayCtor.DefineHidden(StringKey(m), &Builtin{Name: "Array." + m})
	}
	envDefine(env, "Array", arrayCtor)

	// Error family: Error.prototype at the root, subclass prototypes
	// chained beneath it.
	errorProto := NewJSObject()
	errorProto.Prototype = objectProto
	errorProto.DefineHidden(StringKey("name"), NewString("Error"))
	errorProto.DefineHidden(StringKey("message"), NewString(""))
	errorCtor := NewJSObject()
	errorCtor.NativeCtor = "Error"
	errorCtor.Prototype = functionProto
	errorCtor.DefineHidden(StringKey("prototype"), errorProto)
	errorProto.DefineHidden(StringKey("constructor"), errorCtor)
	envDefine(env, "Error", errorCtor)
	for _, kind := range []string{"TypeError", "RangeError", "ReferenceError", "SyntaxError", "EvalError", "AggregateError"} {
		proto := NewJSObject()
		proto.Prototype = errorProto
		proto.DefineHidden(StringKey("name"), NewString(kind))
		ctor := NewJSObject()
		ctor.NativeCtor = kind
		ctor.Prototype = errorCtor
		ctor.DefineHidden(StringKey("prototype"), proto)
		proto.DefineHidden(StringKey("constructor"), ctor)
		envDefine(env, kind, ctor)
	}

	// Primitive conversion constructors.
	for _, name := range []string{"Number", "String", "Boolean", "BigInt"} {
		ctor := NewJSObject()
		ctor.NativeCtor = name
		ctor.Prototype = functionProto
		proto := NewJSObject()
		proto.Prototype = objectProto
		ctor.DefineHidden(StringKey("prototype"), proto)
		proto.DefineHidden(StringKey("constructor"), ctor)
		envDefine(env, name, ctor)
	}
	if numberCtor, ok := envLookup(env, "Number"); ok {
		nc := numberCtor.(*JSObject)
		nc.DefineHidden(StringKey("MAX_SAFE_INTEGER"), &Number{Value: 9007199254740991})
		nc.DefineHidden(StringKey("MIN_SAFE_INTEGER"), &Number{Value: -9007199254740991})
		nc.DefineHidden(StringKey("EPSILON"), &Number{Value: 2.220446049250313e-16})
		nc.DefineHidden(StringKey("NaN"), &Number{Value: math.NaN()})
		nc.DefineHidden(StringKey("POSITIVE_INFINITY"), &Number{Value: math.Inf(1)})
		nc.DefineHidden(StringKey("NEGATIVE_INFINITY"), &Number{Value: math.Inf(-1)})
		for _, m := range []string{"isNaN", "isFinite", "isInteger", "isSafeInteger", "parseFloat", "parseInt"} {
			nc.DefineHidden(StringKey(m), &Builtin{Name: "Number." + m})
		}
	}

	// Symbol: constructor-as-function plus the well-known table and
	// the process-wide registry entry points.
	symbolCtor := NewJSObject()
	symbolCtor.NativeCtor = "Symbol"
	symbolCtor.Prototype = functionProto
	for name, data := range wellKnownSymbols {
		symbolCtor.DefineHidden(StringKey(name), &Symbol{Data: data})
	}
	symbolCtor.DefineHidden(StringKey("for"), &Builtin{Name: "Symbol.for"})
	symbolCtor.DefineHidden(StringKey("keyFor"), &Builtin{Name: "Symbol.keyFor"})
	envDefine(env, "Symbol", symbolCtor)

	// Promise with its combinators.
	promiseCtor := NewJSObject()
	promiseCtor.NativeCtor = "Promise"
	promiseCtor.Prototype = functionProto
	promiseProto := NewJSObject()
	promiseProto.Prototype = objectProto
	promiseCtor.DefineHidden(StringKey("prototype"), promiseProto)
	promiseProto.DefineHidden(StringKey("constructor"), promiseCtor)
	for _, m := range []string{"resolve", "reject", "all", "allSettled", "race", "any"} {
		promiseCtor.DefineHidden(StringKey(m), &Builtin{Name: "Promise." + m})
	}
	envDefine(env, "Promise", promiseCtor)

	// Collections and binary data.
	for _, name := range []string{
		"Map", "Set", "WeakMap", "WeakSet",
		"ArrayBuffer", "SharedArrayBuffer", "DataView",
		"Int8Array", "Uint8Array", "Uint8ClampedArray", "Int16Array",
		"Uint16Array", "Int32Array", "Uint32Array", "Float32Array",
		"Float64Array", "BigInt64Array", "BigUint64Array",
		"Proxy", "RegExp", "Date",
	} {
		ctor := NewJSObject()
		ctor.NativeCtor = name
		ctor.Prototype = functionProto
		proto := NewJSObject()
		proto.Prototype = objectProto
		ctor.DefineHidden(StringKey("prototype"), proto)
		proto.DefineHidden(StringKey("constructor"), ctor)
		envDefine(env, name, ctor)
	}

	// Reflect namespace object.
	reflectObj := NewJSObject()
	reflectObj.Prototype = objectProto
	for _, m := range []string{
		"get", "set", "has", "deleteProperty", "ownKeys", "getPrototypeOf",
		"setPrototypeOf", "defineProperty", "apply", "construct",
	} {
		reflectObj.DefineHidden(StringKey(m), &Builtin{Name: "Reflect." + m})
	}
	envDefine(env, "Reflect", reflectObj)

	// Global functions.
	for _, name := range []string{"parseInt", "parseFloat", "isNaN", "isFinite", "eval"} {
		envDefine(env, name, &Builtin{Name: name})
	}

	return env
}
