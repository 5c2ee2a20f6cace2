package evaluator

import (
	"github.com/funvibe/funjs/internal/ast"
)

// destructureArray matches elements against an iterable rvalue. True
// arrays pull by numeric index; everything else goes through the
// iterator protocol. Defaults apply only when the pulled element is
// undefined; rest gathers the tail.
func (e *Evaluator) destructureArray(env *JSObject, elements []*ast.DestructuringElement, rvalue Value, bind binder) Value {
	items := e.iterateToSlice(env, rvalue)
	if ab, isAbrupt := items.(abruptItems); isAbrupt {
		return ab.completion
	}
	values := items.(sliceItems).values

	pos := 0
	for _, el := range elements {
		switch el.Kind {
		case ast.DestructureEmpty:
			pos++
		case ast.DestructureRest:
			rest := values[min(pos, len(values)):]
			restCopy := make([]Value, len(rest))
			copy(restCopy, rest)
			if res := bind(el.Name, NewArray(restCopy)); isAbrupt(res) {
				return res
			}
			pos = len(values)
		case ast.DestructureVariable:
			v := e.pulledValue(values, pos)
			pos++
			v, ab := e.applyDefault(env, v, el.Default)
			if ab != nil {
				return ab
			}
			if res := bind(el.Name, v); isAbrupt(res) {
				return res
			}
		case ast.DestructureNestedArray:
			v := e.pulledValue(values, pos)
			pos++
			v, ab := e.applyDefault(env, v, el.Default)
			if ab != nil {
				return ab
			}
			if res := e.destructureArray(env, el.ArrayElems, v, bind); isAbrupt(res) {
				return res
			}
		case ast.DestructureNestedObject:
			v := e.pulledValue(values, pos)
			pos++
			v, ab := e.applyDefault(env, v, el.Default)
			if ab != nil {
				return ab
			}
			if res := e.destructureObject(env, el.ObjectElems, v, bind); isAbrupt(res) {
				return res
			}
		}
	}
	return UNDEFINED
}

func (e *Evaluator) pulledValue(values []Value, pos int) Value {
	if pos < len(values) {
		return values[pos]
	}
	return UNDEFINED
}

func (e *Evaluator) applyDefault(env *JSObject, v Value, def ast.Expression) (Value, Value) {
	if def == nil || v.Type() != UNDEFINED_VAL {
		return v, nil
	}
	dv := e.evalExpr(env, def)
	if isAbrupt(dv) {
		return nil, dv
	}
	return dv, nil
}

// destructureObject matches entries against an object rvalue. A
// nullish rvalue is a TypeError; rest collects the own enumerable
// string-keyed properties not yet consumed.
func (e *Evaluator) destructureObject(env *JSObject, elements []*ast.ObjectDestructuringElement, rvalue Value, bind binder) Value {
	if isNullish(rvalue) {
		return newTypeError("Cannot destructure '%s' as it is %s.", "object pattern", rvalue.Inspect())
	}

	consumed := map[string]bool{}
	for _, el := range elements {
		if el.Rest {
			obj, ok := rvalue.(*JSObject)
			rest := NewJSObject()
			if ok {
				for _, name := range obj.OwnEnumerableStringKeys() {
					if consumed[name] {
						continue
					}
					cell, _ := obj.GetOwn(StringKey(name))
					v := e.coerceSlot(env, cell.Value, rvalue)
					if isAbrupt(v) {
						return v
					}
					rest.SetKey(StringKey(name), v)
				}
			}
			if res := bind(el.Name, rest); isAbrupt(res) {
				return res
			}
			continue
		}

		key := StringKey(el.Key)
		if el.Computed {
			kv := e.evalExpr(env, el.KeyExpr)
			if isAbrupt(kv) {
				return kv
			}
			k, kerr := e.toPropertyKey(env, kv)
			if kerr != nil {
				return kerr
			}
			key = k
		}
		if key.Kind == KeyString {
			consumed[key.Name] = true
		}

		v := e.getMember(env, rvalue, key)
		if isAbrupt(v) {
			return v
		}
		v, ab := e.applyDefault(env, v, el.Default)
		if ab != nil {
			return ab
		}

		switch {
		case el.ArrayElems != nil:
			if res := e.destructureArray(env, el.ArrayElems, v, bind); isAbrupt(res) {
				return res
			}
		case el.ObjectElems != nil:
			if res := e.destructureObject(env, el.ObjectElems, v, bind); isAbrupt(res) {
				return res
			}
		default:
			name := el.Name
			if name == "" {
				name = el.Key
			}
			if res := bind(name, v); isAbrupt(res) {
				return res
			}
		}
	}
	return UNDEFINED
}

// bindParameter binds one parameter position during a call: a single
// name with lazy default, a rest gatherer, or a nested pattern.
func (e *Evaluator) bindParameter(funcEnv *JSObject, param *ast.DestructuringElement, args []Value, pos int) (int, Value) {
	switch param.Kind {
	case ast.DestructureRest:
		rest := make([]Value, 0)
		if pos < len(args) {
			rest = append(rest, args[pos:]...)
		}
		envDefine(funcEnv, param.Name, NewArray(rest))
		return len(args), nil
	case ast.DestructureEmpty:
		return pos + 1, nil
	case ast.DestructureVariable:
		var v Value = UNDEFINED
		if pos < len(args) && args[pos] != nil {
			v = args[pos]
		}
		// defaults evaluate lazily against the partially-populated scope
		v, ab := e.applyDefault(funcEnv, v, param.Default)
		if ab != nil {
			return pos, ab
		}
		envDefine(funcEnv, param.Name, v)
		return pos + 1, nil
	case ast.DestructureNestedArray:
		var v Value = UNDEFINED
		if pos < len(args) && args[pos] != nil {
			v = args[pos]
		}
		v, ab := e.applyDefault(funcEnv, v, param.Default)
		if ab != nil {
			return pos, ab
		}
		if res := e.destructureArray(funcEnv, param.ArrayElems, v, declareBinder(funcEnv)); isAbrupt(res) {
			return pos, res
		}
		return pos + 1, nil
	case ast.DestructureNestedObject:
		var v Value = UNDEFINED
		if pos < len(args) && args[pos] != nil {
			v = args[pos]
		}
		v, ab := e.applyDefault(funcEnv, v, param.Default)
		if ab != nil {
			return pos, ab
		}
		if res := e.destructureObject(funcEnv, param.ObjectElems, v, declareBinder(funcEnv)); isAbrupt(res) {
			return pos, res
		}
		return pos + 1, nil
	}
	return pos + 1, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
