package evaluator

import (
	"strings"

	"github.com/funvibe/funjs/internal/ast"
)

func (e *Evaluator) evalArrayLiteral(env *JSObject, node *ast.ArrayLiteral) Value {
	arr := NewJSObject()
	arr.IsArray = true
	arr.Prototype = e.intrinsicPrototype(env, "Array")
	n := 0
	for _, el := range node.Elements {
		if el == nil {
			// elision: consume the position, leave a hole
			n++
			continue
		}
		if spread, ok := el.(*ast.SpreadElement); ok {
			src := e.evalExpr(env, spread.Argument)
			if isAbrupt(src) {
				return src
			}
			items := e.iterateToSlice(env, src)
			if err, isErr := items.(abruptItems); isErr {
				return err.completion
			}
			for _, item := range items.(sliceItems).values {
				arr.SetKey(IndexKey(n), item)
				n++
			}
			continue
		}
		v := e.evalExpr(env, el)
		if isAbrupt(v) {
			return v
		}
		arr.SetKey(IndexKey(n), v)
		n++
	}
	arr.setArrayLength(n)
	return arr
}

// iteration results: either a value slice or an abrupt completion.
type iterResult interface{ iterResult() }

type sliceItems struct{ values []Value }

func (sliceItems) iterResult() {}

type abruptItems struct{ completion Value }

func (abruptItems) iterResult() {}

// iterateToSlice expands an iterable: true arrays by index, strings by
// code point, Maps/Sets/generators via their protocols, otherwise the
// @@iterator protocol.
func (e *Evaluator) iterateToSlice(env *JSObject, src Value) iterResult {
	switch v := src.(type) {
	case *JSObject:
		if v.IsArray {
			return sliceItems{values: arrayElements(v)}
		}
	case *String:
		var out []Value
		for _, cp := range codePointsOf(v.Units) {
			out = append(out, &String{Units: cp})
		}
		return sliceItems{values: out}
	case *SetValue:
		out := make([]Value, len(v.Data.Items))
		copy(out, v.Data.Items)
		return sliceItems{values: out}
	case *MapValue:
		out := make([]Value, 0, len(v.Data.Keys))
		for i := range v.Data.Keys {
			out = append(out, NewArray([]Value{v.Data.Keys[i], v.Data.Values[i]}))
		}
		return sliceItems{values: out}
	}

	iter := e.getIterator(env, src)
	if isAbrupt(iter) {
		return abruptItems{completion: iter}
	}
	var out []Value
	for {
		value, done, abrupt := e.iteratorNext(env, iter, nil)
		if abrupt != nil {
			return abruptItems{completion: abrupt}
		}
		if done {
			return sliceItems{values: out}
		}
		out = append(out, value)
	}
}

func (e *Evaluator) evalObjectLiteral(env *JSObject, node *ast.ObjectLiteral) Value {
	obj := NewJSObject()
	obj.Prototype = e.intrinsicObjectPrototype(env)
	for _, prop := range node.Properties {
		switch prop.Kind {
		case ast.PropertySpread:
			src := e.evalExpr(env, prop.Value)
			if isAbrupt(src) {
				return src
			}
			if srcObj, ok := src.(*JSObject); ok {
				for _, name := range srcObj.OwnEnumerableStringKeys() {
					cell, _ := srcObj.GetOwn(StringKey(name))
					v := e.coerceSlot(env, cell.Value, src)
					if isAbrupt(v) {
						return v
					}
					obj.SetKey(StringKey(name), v)
				}
			}
		case ast.PropertyGet, ast.PropertySet:
			key, abrupt := e.objectPropertyKey(env, prop)
			if abrupt != nil {
				return abrupt
			}
			fn := e.evalExpr(env, prop.Value)
			if isAbrupt(fn) {
				return fn
			}
			if fnObj, ok := fn.(*JSObject); ok && fnObj.Closure != nil {
				fnObj.Closure.HomeObject = obj
				fnObj.HomeObject = obj
			}
			e.defineAccessor(obj, key, fn, prop.Kind == ast.PropertyGet)
		default:
			key, abrupt := e.objectPropertyKey(env, prop)
			if abrupt != nil {
				return abrupt
			}
			v := e.evalExpr(env, prop.Value)
			if isAbrupt(v) {
				return v
			}
			if prop.Kind == ast.PropertyMethod {
				if fnObj, ok := v.(*JSObject); ok && fnObj.Closure != nil {
					fnObj.Closure.HomeObject = obj
					fnObj.HomeObject = obj
				}
			}
			obj.SetKey(key, v)
		}
	}
	return obj
}

// objectPropertyKey evaluates one literal entry's key; computed keys
// evaluate at object-literal evaluation time.
func (e *Evaluator) objectPropertyKey(env *JSObject, prop *ast.ObjectProperty) (PropertyKey, Value) {
	if prop.Computed {
		kv := e.evalExpr(env, prop.KeyExpr)
		if isAbrupt(kv) {
			return PropertyKey{}, kv
		}
		key, kerr := e.toPropertyKey(env, kv)
		if kerr != nil {
			return PropertyKey{}, kerr
		}
		return key, nil
	}
	return StringKey(prop.Key), nil
}

// defineAccessor merges a one-sided accessor into an existing
// descriptor when its partner is already present.
func (e *Evaluator) defineAccessor(obj *JSObject, key PropertyKey, fn Value, isGetter bool) {
	if cell, ok := obj.GetOwn(key); ok {
		if desc, isDesc := cell.Value.(*PropertyDescriptor); isDesc {
			if isGetter {
				desc.Getter = fn
			} else {
				desc.Setter = fn
			}
			return
		}
	}
	desc := &PropertyDescriptor{}
	if isGetter {
		desc.Getter = fn
	} else {
		desc.Setter = fn
	}
	obj.SetKey(key, desc)
}

func (e *Evaluator) evalTemplateLiteral(env *JSObject, node *ast.TemplateLiteral) Value {
	var sb strings.Builder
	for i, quasi := range node.Quasis {
		sb.WriteString(quasi)
		if i < len(node.Exprs) {
			v := e.evalExpr(env, node.Exprs[i])
			if isAbrupt(v) {
				return v
			}
			s := e.toString(env, v)
			if isAbrupt(s) {
				return s
			}
			sb.WriteString(s.(*String).GoString())
		}
	}
	return NewString(sb.String())
}

// evalTaggedTemplate constructs the strings array with its raw sibling
// and calls the tag with strings, then the interpolations.
func (e *Evaluator) evalTaggedTemplate(env *JSObject, node *ast.TaggedTemplate) Value {
	tag := e.evalExpr(env, node.Tag)
	if isAbrupt(tag) {
		return tag
	}

	cooked := make([]Value, len(node.Quasi.Quasis))
	for i, q := range node.Quasi.Quasis {
		cooked[i] = NewString(q)
	}
	stringsArr := NewArray(cooked)

	rawSrc := node.Quasi.Raw
	if len(rawSrc) == 0 {
		rawSrc = node.Quasi.Quasis
	}
	raw := make([]Value, len(rawSrc))
	for i, q := range rawSrc {
		raw[i] = NewString(q)
	}
	stringsArr.DefineHidden(StringKey("raw"), NewArray(raw))

	args := []Value{stringsArr}
	for _, ex := range node.Quasi.Exprs {
		v := e.evalExpr(env, ex)
		if isAbrupt(v) {
			return v
		}
		args = append(args, v)
	}
	return e.callFunction(env, tag, UNDEFINED, args)
}

// evalRegexLiteral defers to the RegExp collaborator through the
// global constructor.
func (e *Evaluator) evalRegexLiteral(env *JSObject, node *ast.RegexLiteral) Value {
	ctor, ok := envLookup(env, "RegExp")
	if !ok {
		return newReferenceError("RegExp is not defined")
	}
	return e.evaluateNew(env, ctor, []Value{NewString(node.Pattern), NewString(node.Flags)}, nil)
}

// evalFunctionExpr wraps a closure in a callable function object.
// Arrows capture the environment transparently (no own this /
// arguments / new.target).
func (e *Evaluator) evalFunctionExpr(env *JSObject, node *ast.FunctionExpr) Value {
	kind := ClosureNormal
	switch {
	case node.IsAsync && node.IsGenerator:
		kind = ClosureAsyncGenerator
	case node.IsAsync:
		kind = ClosureAsync
	case node.IsGenerator:
		kind = ClosureGenerator
	}
	data := &ClosureData{
		Name:    node.Name,
		Params:  node.Params,
		Body:    node.Body,
		Env:     env,
		Kind:    kind,
		IsArrow: node.IsArrow,
	}
	fn := e.newFunctionObject(env, data)
	if node.Name != "" && !node.IsArrow {
		// named function expressions see their own name
		fnScope := NewEnclosedEnvironment(env)
		envDefine(fnScope, node.Name, fn)
		data.Env = fnScope
	}
	return fn
}

// newFunctionObject allocates the callable object wrapper for a
// closure, linking Function.prototype and seeding `prototype` for
// plain functions.
func (e *Evaluator) newFunctionObject(env *JSObject, data *ClosureData) *JSObject {
	fn := NewJSObject()
	fn.Closure = data
	if fnCtor, ok := envLookup(env, "Function"); ok {
		if fnCtorObj, isObj := fnCtor.(*JSObject); isObj {
			if protoCell, has := fnCtorObj.GetOwn(StringKey("prototype")); has {
				if proto, isProto := protoCell.Value.(*JSObject); isProto {
					fn.Prototype = proto
				}
			}
		}
	}
	if !data.IsArrow && data.Kind == ClosureNormal {
		proto := NewJSObject()
		if objProto := e.intrinsicObjectPrototype(env); objProto != nil {
			proto.Prototype = objProto
		}
		proto.DefineHidden(StringKey("constructor"), fn)
		fn.DefineHidden(StringKey("prototype"), proto)
	}
	return fn
}

// intrinsicPrototype locates a realm intrinsic's prototype by walking
// the environment chain to the named constructor binding.
func (e *Evaluator) intrinsicPrototype(env *JSObject, name string) *JSObject {
	ctor, ok := envLookup(env, name)
	if !ok {
		return nil
	}
	ctorObj, ok := ctor.(*JSObject)
	if !ok {
		return nil
	}
	cell, ok := ctorObj.GetOwn(StringKey("prototype"))
	if !ok {
		return nil
	}
	proto, _ := cell.Value.(*JSObject)
	return proto
}

func (e *Evaluator) intrinsicObjectPrototype(env *JSObject) *JSObject {
	return e.intrinsicPrototype(env, "Object")
}
