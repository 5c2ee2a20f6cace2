package evaluator

import (
	"strings"

	"github.com/funvibe/funjs/internal/ast"
	"github.com/funvibe/funjs/internal/config"
)

// BoundBuiltin is a native method plucked off a receiver whose
// behavior is keyed by an internal marker (promises, maps, strings,
// typed arrays, ...). Calling it dispatches to the receiver handler.
type BoundBuiltin struct {
	Recv   Value
	Method string
}

func (b *BoundBuiltin) Type() ValueType { return BUILTIN_VAL }
func (b *BoundBuiltin) Inspect() string {
	return "function " + b.Method + "() { [native code] }"
}

func (e *Evaluator) evalIdentifier(env *JSObject, node *ast.Identifier) Value {
	if node.Value == config.ThisBindingName {
		this := resolveThis(env)
		if this.Type() == UNINITIALIZED_VAL {
			return newReferenceError("Must call super constructor in derived class before accessing 'this' or returning from derived constructor")
		}
		return this
	}
	if v, ok := envLookup(env, node.Value); ok {
		if v != nil && v.Type() == UNINITIALIZED_VAL {
			return newReferenceError("Cannot access '%s' before initialization", node.Value)
		}
		return v
	}
	return newReferenceError("%s is not defined", node.Value)
}

func (e *Evaluator) evalMemberExpr(env *JSObject, node *ast.MemberExpr) Value {
	base := e.evalExpr(env, node.Object)
	if isAbrupt(base) {
		return base
	}
	if node.Optional && isNullish(base) {
		return UNDEFINED
	}

	if strings.HasPrefix(node.Property, "#") {
		return e.getPrivateMember(env, base, node.Property)
	}
	key := StringKey(node.Property)
	return e.getMember(env, base, key)
}

func (e *Evaluator) evalIndexExpr(env *JSObject, node *ast.IndexExpr) Value {
	base := e.evalExpr(env, node.Object)
	if isAbrupt(base) {
		return base
	}
	if node.Optional && isNullish(base) {
		return UNDEFINED
	}
	idx := e.evalExpr(env, node.Index)
	if isAbrupt(idx) {
		return idx
	}
	key, kerr := e.toPropertyKey(env, idx)
	if kerr != nil {
		return kerr
	}
	return e.getMember(env, base, key)
}

// getMember performs property read with accessor coercion: a getter in
// the resolved slot is invoked with the base as receiver; a data
// descriptor yields its stored value; a bare value is returned as-is.
func (e *Evaluator) getMember(env *JSObject, base Value, key PropertyKey) Value {
	switch recv := base.(type) {
	case *Undefined:
		return newTypeError("Cannot read properties of undefined (reading '%s')", key.String())
	case *Null:
		return newTypeError("Cannot read properties of null (reading '%s')", key.String())
	case *Proxy:
		return e.proxyGet(env, recv, key, base)
	case *JSObject:
		_, cell, found := recv.FindHolder(key)
		if !found {
			return e.objectFallbackMember(env, recv, key)
		}
		return e.coerceSlot(env, cell.Value, base)
	case *String:
		return e.stringMember(env, recv, key)
	default:
		return e.markerMember(env, base, key)
	}
}

// coerceSlot unwraps a property slot into the value a read observes.
func (e *Evaluator) coerceSlot(env *JSObject, slot Value, receiver Value) Value {
	switch sv := slot.(type) {
	case *PropertyDescriptor:
		if sv.Getter != nil {
			return e.callFunction(env, sv.Getter, receiver, nil)
		}
		if sv.HasValue {
			if sv.Value == nil {
				return UNDEFINED
			}
			return sv.Value
		}
		return UNDEFINED
	case *Getter:
		return e.callFunction(env, sv.Fn, receiver, nil)
	case *Setter:
		// read through a setter-only slot observes undefined
		return UNDEFINED
	case nil:
		return UNDEFINED
	default:
		return slot
	}
}

// objectFallbackMember serves reads that missed the property table:
// array length, callable name/length, marker-dispatched natives.
func (e *Evaluator) objectFallbackMember(env *JSObject, recv *JSObject, key PropertyKey) Value {
	if key.Kind == KeyString {
		switch key.Name {
		case "length":
			if recv.Closure != nil {
				return &Number{Value: float64(computeFunctionLength(recv.Closure.Params))}
			}
		case "name":
			if recv.Closure != nil {
				return NewString(recv.Closure.Name)
			}
			if recv.ClassDef != nil {
				return NewString(recv.ClassDef.Name)
			}
		case "call", "apply", "bind":
			if recv.Closure != nil || recv.ClassDef != nil || recv.BoundCall != nil || recv.NativeCtor != "" {
				return &BoundBuiltin{Recv: recv, Method: "Function.prototype." + key.Name}
			}
		}
		if recv.IsArray && arrayProtoMethods[key.Name] {
			return &BoundBuiltin{Recv: recv, Method: "Array.prototype." + key.Name}
		}
	}
	if key.Kind == KeySymbol && recv.IsArray && key.Sym == e.wellKnown("iterator") {
		return &BoundBuiltin{Recv: recv, Method: "Array.prototype.@@iterator"}
	}
	return UNDEFINED
}

// getPrivateMember resolves `obj.#name`: the private name binding must
// be in scope (class bodies bind it), and the receiver must carry the
// private element.
func (e *Evaluator) getPrivateMember(env *JSObject, base Value, hashName string) Value {
	pn, ok := envLookup(env, hashName)
	if !ok {
		return newSyntaxError("Private field '%s' must be declared in an enclosing class", hashName)
	}
	priv, ok := pn.(*PrivateName)
	if !ok {
		return newSyntaxError("Private field '%s' must be declared in an enclosing class", hashName)
	}
	obj, ok := base.(*JSObject)
	if !ok {
		return newTypeError("Cannot read private member %s from an object whose class did not declare it", hashName)
	}
	key := PrivateKey(priv.Name, priv.ID)
	if cell, found := obj.GetOwn(key); found {
		return e.coerceSlot(env, cell.Value, base)
	}
	if obj.PrivateMethods != nil {
		if m, found := obj.PrivateMethods[key]; found {
			return e.coerceSlot(env, m, base)
		}
	}
	return newTypeError("Cannot read private member %s from an object whose class did not declare it", hashName)
}

// stringMember serves String receivers: length, code-unit indexing,
// iterator, and named methods via the library collaborator.
func (e *Evaluator) stringMember(env *JSObject, recv *String, key PropertyKey) Value {
	if key.Kind == KeySymbol {
		if key.Sym == e.wellKnown("iterator") {
			return &BoundBuiltin{Recv: recv, Method: "@@iterator"}
		}
		return UNDEFINED
	}
	if key.Kind != KeyString {
		return UNDEFINED
	}
	if key.Name == "length" {
		return &Number{Value: float64(len(recv.Units))}
	}
	if idx := canonicalIndex(key.Name); idx >= 0 {
		if idx < len(recv.Units) {
			return &String{Units: []uint16{recv.Units[idx]}}
		}
		return UNDEFINED
	}
	return &BoundBuiltin{Recv: recv, Method: "String.prototype." + key.Name}
}

// markerMember serves receivers identified by internal markers:
// promises, collections, generators, binary data, symbols, numbers.
func (e *Evaluator) markerMember(env *JSObject, base Value, key PropertyKey) Value {
	if key.Kind == KeySymbol {
		switch base.(type) {
		case *MapValue, *SetValue:
			if key.Sym == e.wellKnown("iterator") {
				return &BoundBuiltin{Recv: base, Method: "@@iterator"}
			}
		case *GeneratorValue:
			if key.Sym == e.wellKnown("iterator") {
				return &BoundBuiltin{Recv: base, Method: "@@iterator"}
			}
		case *AsyncGeneratorValue:
			if key.Sym == e.wellKnown("asyncIterator") {
				return &BoundBuiltin{Recv: base, Method: "@@asyncIterator"}
			}
		}
		return UNDEFINED
	}
	if key.Kind != KeyString {
		return UNDEFINED
	}
	name := key.Name

	switch recv := base.(type) {
	case *MapValue:
		if name == "size" {
			return &Number{Value: float64(len(recv.Data.Keys))}
		}
	case *SetValue:
		if name == "size" {
			return &Number{Value: float64(len(recv.Data.Items))}
		}
	case *ArrayBufferValue:
		if name == "byteLength" {
			return &Number{Value: float64(len(recv.Data.Bytes))}
		}
	case *DataViewValue:
		switch name {
		case "byteLength":
			return &Number{Value: float64(recv.ByteLength)}
		case "byteOffset":
			return &Number{Value: float64(recv.ByteOffset)}
		}
	case *TypedArrayValue:
		switch name {
		case "length":
			return &Number{Value: float64(recv.Length)}
		case "byteLength":
			return &Number{Value: float64(recv.Length * recv.Kind.ElementSize())}
		case "byteOffset":
			return &Number{Value: float64(recv.ByteOffset)}
		}
		if idx := canonicalIndex(name); idx >= 0 {
			return recv.GetIndex(idx)
		}
	case *Symbol:
		if name == "description" {
			if recv.Data.HasDesc {
				return NewString(recv.Data.Description)
			}
			return UNDEFINED
		}
	case *PromiseValue, *GeneratorValue, *AsyncGeneratorValue,
		*WeakMapValue, *WeakSetValue, *Number, *Boolean, *BigInt:
		// fall through to method dispatch
	}
	return &BoundBuiltin{Recv: base, Method: name}
}

// setMember performs property write with setter lookup on the chain.
func (e *Evaluator) setMember(env *JSObject, base Value, key PropertyKey, value Value) Value {
	switch recv := base.(type) {
	case *Undefined:
		return newTypeError("Cannot set properties of undefined (setting '%s')", key.String())
	case *Null:
		return newTypeError("Cannot set properties of null (setting '%s')", key.String())
	case *Proxy:
		return e.proxySet(env, recv, key, value, base)
	case *JSObject:
		return e.setObjectMember(env, recv, key, value, base)
	case *TypedArrayValue:
		if key.Kind == KeyString {
			if idx := canonicalIndex(key.Name); idx >= 0 {
				num := e.toNumber(env, value)
				if isError(num) {
					return num
				}
				recv.SetIndex(idx, num.(*Number).Value)
				return value
			}
		}
		return value
	default:
		// Writes to primitives are silently dropped in sloppy mode.
		return value
	}
}

func (e *Evaluator) setObjectMember(env *JSObject, recv *JSObject, key PropertyKey, value Value, receiver Value) Value {
	holder, cell, found := recv.FindHolder(key)
	if found {
		switch sv := cell.Value.(type) {
		case *PropertyDescriptor:
			if sv.Setter != nil {
				res := e.callFunction(env, sv.Setter, receiver, []Value{value})
				if isAbrupt(res) {
					return res
				}
				return value
			}
			if sv.Getter != nil {
				return newTypeError("Cannot set property %s of %s which has only a getter", key.String(), "object")
			}
			if holder == recv {
				if !recv.IsWritable(key) {
					return newTypeError("Cannot assign to read only property '%s' of object", key.String())
				}
				sv.Value = value
				sv.HasValue = true
				return value
			}
		case *Setter:
			res := e.callFunction(env, sv.Fn, receiver, []Value{value})
			if isAbrupt(res) {
				return res
			}
			return value
		case *Getter:
			return newTypeError("Cannot set property %s of %s which has only a getter", key.String(), "object")
		default:
			if holder == recv {
				if !recv.IsWritable(key) {
					return newTypeError("Cannot assign to read only property '%s' of object", key.String())
				}
				cell.Value = value
				return value
			}
			if !holder.IsWritable(key) {
				return newTypeError("Cannot assign to read only property '%s' of object", key.String())
			}
		}
	}

	// Define own property on the receiver.
	if _, own := recv.GetOwn(key); !own && !recv.Extensible {
		return newTypeError("Cannot add property %s, object is not extensible", key.String())
	}
	recv.SetKey(key, value)

	// Array length maintenance on index writes.
	if recv.IsArray && key.Kind == KeyString {
		if idx := canonicalIndex(key.Name); idx >= 0 && idx >= recv.arrayLength() {
			recv.setArrayLength(idx + 1)
		}
	}
	return value
}

// setPrivateMember writes `obj.#name = v`.
func (e *Evaluator) setPrivateMember(env *JSObject, base Value, hashName string, value Value) Value {
	pn, ok := envLookup(env, hashName)
	if !ok {
		return newSyntaxError("Private field '%s' must be declared in an enclosing class", hashName)
	}
	priv, ok := pn.(*PrivateName)
	if !ok {
		return newSyntaxError("Private field '%s' must be declared in an enclosing class", hashName)
	}
	obj, ok := base.(*JSObject)
	if !ok {
		return newTypeError("Cannot write private member %s to an object whose class did not declare it", hashName)
	}
	key := PrivateKey(priv.Name, priv.ID)
	cell, found := obj.GetOwn(key)
	if !found {
		if obj.PrivateMethods != nil {
			if slot, ok := obj.PrivateMethods[key]; ok {
				// accessor pair stored in the method table
				if desc, isDesc := slot.(*PropertyDescriptor); isDesc && desc.Setter != nil {
					res := e.callFunction(env, desc.Setter, base, []Value{value})
					if isAbrupt(res) {
						return res
					}
					return value
				}
				return newTypeError("Cannot write private member %s to an object whose class did not declare it", hashName)
			}
		}
		return newTypeError("Cannot write private member %s to an object whose class did not declare it", hashName)
	}
	if desc, isDesc := cell.Value.(*PropertyDescriptor); isDesc {
		if desc.Setter != nil {
			res := e.callFunction(env, desc.Setter, base, []Value{value})
			if isAbrupt(res) {
				return res
			}
			return value
		}
		if desc.Getter != nil {
			return newTypeError("'#%s' was defined without a setter", priv.Name)
		}
		desc.Value = value
		desc.HasValue = true
		return value
	}
	cell.Value = value
	return value
}
