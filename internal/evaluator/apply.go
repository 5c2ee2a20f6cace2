package evaluator

import (
	"github.com/funvibe/funjs/internal/ast"
	"github.com/funvibe/funjs/internal/config"
	"github.com/google/uuid"
)

// expandArguments evaluates raw argument expressions left-to-right,
// expanding `...spread` by iteration.
func (e *Evaluator) expandArguments(env *JSObject, rawArgs []ast.Expression) ([]Value, Value) {
	out := make([]Value, 0, len(rawArgs))
	for _, raw := range rawArgs {
		if spread, ok := raw.(*ast.SpreadElement); ok {
			src := e.evalExpr(env, spread.Argument)
			if isAbrupt(src) {
				return nil, src
			}
			items := e.iterateToSlice(env, src)
			if ab, bad := items.(abruptItems); bad {
				return nil, ab.completion
			}
			out = append(out, items.(sliceItems).values...)
			continue
		}
		v := e.evalExpr(env, raw)
		if isAbrupt(v) {
			return nil, v
		}
		out = append(out, v)
	}
	return out, nil
}

func (e *Evaluator) evalCallExpr(env *JSObject, node *ast.CallExpr) Value {
	var callee Value
	var thisVal Value = UNDEFINED

	switch target := node.Callee.(type) {
	case *ast.MemberExpr:
		base := e.evalExpr(env, target.Object)
		if isAbrupt(base) {
			return base
		}
		if target.Optional && isNullish(base) {
			return UNDEFINED
		}
		thisVal = base
		if len(target.Property) > 0 && target.Property[0] == '#' {
			callee = e.getPrivateMember(env, base, target.Property)
		} else {
			callee = e.getMember(env, base, StringKey(target.Property))
		}
	case *ast.IndexExpr:
		base := e.evalExpr(env, target.Object)
		if isAbrupt(base) {
			return base
		}
		if target.Optional && isNullish(base) {
			return UNDEFINED
		}
		idx := e.evalExpr(env, target.Index)
		if isAbrupt(idx) {
			return idx
		}
		key, kerr := e.toPropertyKey(env, idx)
		if kerr != nil {
			return kerr
		}
		thisVal = base
		callee = e.getMember(env, base, key)
	default:
		callee = e.evalExpr(env, node.Callee)
	}
	if isAbrupt(callee) {
		return callee
	}
	if node.Optional && isNullish(callee) {
		return UNDEFINED
	}

	args, abrupt := e.expandArguments(env, node.Args)
	if abrupt != nil {
		return abrupt
	}
	return e.callFunction(env, callee, thisVal, args)
}

// callFunction invokes any callable value with an explicit receiver.
func (e *Evaluator) callFunction(env *JSObject, callee Value, this Value, args []Value) Value {
	switch fn := callee.(type) {
	case *Closure:
		return e.callClosureValue(env, fn.Data, nil, this, args)
	case *Builtin:
		return e.callBuiltin(env, fn.Name, this, args)
	case *NativeFunc:
		return fn.Fn(args)
	case *BoundBuiltin:
		return e.callReceiverMethod(env, fn.Recv, fn.Method, args)
	case *Proxy:
		return e.proxyApply(env, fn, this, args)
	case *JSObject:
		if fn.BoundCall != nil {
			merged := append(append([]Value{}, fn.BoundCall.Args...), args...)
			return e.callFunction(env, fn.BoundCall.Target, fn.BoundCall.This, merged)
		}
		if fn.Closure != nil {
			return e.callClosureValue(env, fn.Closure, fn, this, args)
		}
		if fn.ClassDef != nil {
			return newTypeError("Class constructor %s cannot be invoked without 'new'", fn.ClassDef.Name)
		}
		if fn.NativeCtor != "" {
			return e.callBuiltin(env, fn.NativeCtor, this, args)
		}
	}
	if callee == nil {
		return newTypeError("undefined is not a function")
	}
	return newTypeError("%s is not a function", callee.Inspect())
}

// callClosureValue is the ordinary-call path: generator kinds build
// suspended records, async closures run to a promise, plain closures
// execute the body.
func (e *Evaluator) callClosureValue(env *JSObject, data *ClosureData, fnObj *JSObject, this Value, args []Value) Value {
	switch data.Kind {
	case ClosureGenerator:
		return e.newGeneratorFromCall(data, this, args, false)
	case ClosureAsyncGenerator:
		return e.newGeneratorFromCall(data, this, args, true)
	case ClosureAsync:
		return e.callAsyncClosure(env, data, fnObj, this, args)
	default:
		return e.callPlainClosure(env, data, fnObj, this, args, nil, nil)
	}
}

// callPlainClosure executes a function body. newTarget is non-nil for
// construction; preBody runs extra setup (field initialization) after
// parameter binding.
func (e *Evaluator) callPlainClosure(env *JSObject, data *ClosureData, fnObj *JSObject, this Value, args []Value, newTarget Value, preBody func(funcEnv *JSObject) Value) Value {
	funcEnv, abrupt := e.prepareCallEnvironment(env, data, fnObj, this, args, newTarget)
	if abrupt != nil {
		return abrupt
	}
	if preBody != nil {
		if res := preBody(funcEnv); isAbrupt(res) {
			return res
		}
	}

	name := data.Name
	if name == "" {
		name = "<anonymous>"
	}
	e.PushCall(name, env.CurLine, env.CurColumn)
	result := e.evalStatements(funcEnv, data.Body)
	e.PopCall()

	switch res := result.(type) {
	case *ReturnValue:
		return res.Value
	case *Error, *ThrowSignal:
		return result
	case *BreakSignal, *ContinueSignal:
		return newSyntaxError("Illegal break or continue statement")
	default:
		return UNDEFINED
	}
}

// prepareCallEnvironment builds the fresh function scope: `this`,
// internal bindings, parameters, and the arguments object.
func (e *Evaluator) prepareCallEnvironment(env *JSObject, data *ClosureData, fnObj *JSObject, this Value, args []Value, newTarget Value) (*JSObject, Value) {
	funcEnv := NewFunctionEnvironment(data.Env)

	if !data.IsArrow {
		thisVal := this
		if thisVal == nil {
			thisVal = UNDEFINED
		}
		if isNullish(thisVal) && !data.IsStrict && !data.EnforceStrictInheritance {
			thisVal = globalEnv(env)
		}
		envDefine(funcEnv, config.ThisBindingName, thisVal)

		if newTarget != nil {
			envDefine(funcEnv, config.NewTargetBinding, newTarget)
		}
		if data.HomeObject != nil {
			envDefine(funcEnv, config.HomeObjectBinding, data.HomeObject)
		}
		if fnObj != nil {
			envDefine(funcEnv, config.FunctionBinding, fnObj)
		}
		frame := NewJSObject()
		frame.DefineHidden(StringKey("name"), NewString(data.Name))
		frame.DefineHidden(StringKey("line"), &Number{Value: float64(env.CurLine)})
		frame.DefineHidden(StringKey("column"), &Number{Value: float64(env.CurColumn)})
		envDefine(funcEnv, config.FrameBinding, frame)
		envDefine(funcEnv, config.CallerBinding, env)
	}

	pos := 0
	for _, param := range data.Params {
		var abrupt Value
		pos, abrupt = e.bindParameter(funcEnv, param, args, pos)
		if abrupt != nil {
			return nil, abrupt
		}
	}

	if !data.IsArrow {
		argsObj := e.newArgumentsObject(env, data, fnObj, args)
		envDefine(funcEnv, "arguments", argsObj)
	}
	return funcEnv, nil
}

// newArgumentsObject builds the ordinary arguments object: indexed
// entries, length, callee per strictness, @@iterator mirroring arrays.
func (e *Evaluator) newArgumentsObject(env *JSObject, data *ClosureData, fnObj *JSObject, args []Value) *JSObject {
	argsObj := NewJSObject()
	for i, v := range args {
		argsObj.SetKey(IndexKey(i), v)
	}
	argsObj.DefineHidden(StringKey("length"), &Number{Value: float64(len(args))})
	if data.IsStrict || data.EnforceStrictInheritance {
		thrower := &Builtin{Name: "__throw_callee_access"}
		argsObj.DefineHidden(StringKey("callee"), &PropertyDescriptor{Getter: thrower, Setter: thrower})
	} else if fnObj != nil {
		argsObj.DefineHidden(StringKey("callee"), fnObj)
	}
	argsObj.DefineHidden(SymbolKey(e.wellKnown("iterator")), &BoundBuiltin{Recv: argsObj, Method: "@@arrayIterator"})
	return argsObj
}

// newGeneratorFromCall constructs the suspended generator record; the
// body does not run until the first next().
func (e *Evaluator) newGeneratorFromCall(data *ClosureData, this Value, args []Value, isAsync bool) Value {
	gen := &Generator{
		ID:         uuid.NewString(),
		Name:       data.Name,
		Params:     data.Params,
		Body:       data.Body,
		Env:        data.Env,
		Args:       args,
		This:       this,
		HomeObject: data.HomeObject,
		IsAsync:    isAsync,
		State:      GenNotStarted,
	}
	if isAsync {
		return &AsyncGeneratorValue{Gen: gen}
	}
	return &GeneratorValue{Gen: gen}
}
