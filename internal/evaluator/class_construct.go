package evaluator

import (
	"github.com/funvibe/funjs/internal/ast"
	"github.com/funvibe/funjs/internal/config"
)

type classFieldEntry struct {
	Index  int
	Member *ast.ClassMember
}

func (e *Evaluator) evalNewExpr(env *JSObject, node *ast.NewExpr) Value {
	ctor := e.evalExpr(env, node.Callee)
	if isAbrupt(ctor) {
		return ctor
	}
	args, abrupt := e.expandArguments(env, node.Args)
	if abrupt != nil {
		return abrupt
	}
	return e.evaluateNew(env, ctor, args, nil)
}

// evaluateNew constructs an instance. newTarget is non-nil when the
// call came through super() or Reflect.construct.
func (e *Evaluator) evaluateNew(env *JSObject, ctor Value, args []Value, newTarget Value) Value {
	if p, ok := ctor.(*Proxy); ok {
		return e.proxyConstruct(env, p, args, newTarget)
	}

	ctorObj, ok := ctor.(*JSObject)
	if !ok {
		if b, isB := ctor.(*Builtin); isB {
			return e.constructNative(env, b.Name, args, newTarget)
		}
		return newTypeError("%s is not a constructor", inspectValue(ctor))
	}
	if ctorObj.BoundCall != nil {
		merged := append(append([]Value{}, ctorObj.BoundCall.Args...), args...)
		return e.evaluateNew(env, ctorObj.BoundCall.Target, merged, newTarget)
	}
	if ctorObj.NativeCtor != "" {
		return e.constructNative(env, ctorObj.NativeCtor, args, newTarget)
	}
	if ctorObj.Closure == nil && ctorObj.ClassDef == nil {
		return newTypeError("%s is not a constructor", inspectValue(ctor))
	}
	if ctorObj.Closure != nil && ctorObj.Closure.IsArrow {
		return newTypeError("%s is not a constructor", inspectValue(ctor))
	}

	computedProto := e.resolveConstructedPrototype(env, ctorObj, newTarget)

	if ctorObj.ClassDef != nil {
		return e.constructClassInstance(env, ctorObj, args, newTarget, computedProto)
	}
	return e.constructOrdinaryInstance(env, ctorObj, args, newTarget, computedProto)
}

// resolveConstructedPrototype is GetPrototypeFromConstructor: read the
// `prototype` property of new_target ?? constructor; on a non-object
// fall back to the constructor realm's Object.prototype, discovered by
// walking the closure environment chain.
func (e *Evaluator) resolveConstructedPrototype(env *JSObject, ctorObj *JSObject, newTarget Value) *JSObject {
	source := Value(ctorObj)
	if newTarget != nil && !isNullish(newTarget) {
		source = newTarget
	}
	if srcObj, ok := source.(*JSObject); ok {
		if cell, has := srcObj.GetOwn(StringKey("prototype")); has {
			if proto, isObj := cell.Value.(*JSObject); isObj {
				return proto
			}
		}
	}
	realmEnv := env
	switch {
	case ctorObj.DefinitionEnv != nil:
		realmEnv = ctorObj.DefinitionEnv
	case ctorObj.Closure != nil && ctorObj.Closure.Env != nil:
		realmEnv = ctorObj.Closure.Env
	}
	return e.intrinsicObjectPrototype(realmEnv)
}

// constructOrdinaryInstance handles `new f()` for plain functions: a
// non-object return is replaced by the instance; an explicit object
// return wins, with the computed prototype applied to whatever comes
// back.
func (e *Evaluator) constructOrdinaryInstance(env *JSObject, ctorObj *JSObject, args []Value, newTarget Value, computedProto *JSObject) Value {
	instance := NewJSObject()
	instance.Prototype = computedProto

	nt := newTarget
	if nt == nil {
		nt = ctorObj
	}
	result := e.callPlainClosure(env, ctorObj.Closure, ctorObj, instance, args, nt, nil)
	if isError(result) || result != nil && result.Type() == THROW_VAL {
		return result
	}

	final := Value(instance)
	if resObj, ok := result.(*JSObject); ok {
		final = resObj
	}
	if finalObj, ok := final.(*JSObject); ok && computedProto != nil {
		finalObj.Prototype = computedProto
	}
	return final
}

// constructClassInstance drives class construction: private elements
// and fields before/around the body per base/derived rules.
func (e *Evaluator) constructClassInstance(env *JSObject, classObj *JSObject, args []Value, newTarget Value, computedProto *JSObject) Value {
	info := classObj.ClassDef
	nt := newTarget
	if nt == nil {
		nt = classObj
	}

	ctorEnv := NewFunctionEnvironment(classObj.DefinitionEnv)
	envDefine(ctorEnv, config.NewTargetBinding, nt)
	envDefine(ctorEnv, "__class", classObj)
	if computedProto != nil {
		envDefine(ctorEnv, config.ComputedProtoBinding, computedProto)
	}
	proto := e.classPrototype(classObj)
	if proto != nil {
		envDefine(ctorEnv, config.HomeObjectBinding, proto)
	}
	frame := NewJSObject()
	frame.DefineHidden(StringKey("name"), NewString(info.Name))
	frame.DefineHidden(StringKey("line"), &Number{Value: float64(env.CurLine)})
	frame.DefineHidden(StringKey("column"), &Number{Value: float64(env.CurColumn)})
	envDefine(ctorEnv, config.FrameBinding, frame)
	envDefine(ctorEnv, config.CallerBinding, env)

	if info.Derived {
		// `this` stays in TDZ until super() runs.
		envDefine(ctorEnv, config.ThisBindingName, UNINIT)
	} else {
		instance := NewJSObject()
		if computedProto != nil {
			instance.Prototype = computedProto
		} else {
			instance.Prototype = proto
		}
		envDefine(ctorEnv, config.ThisBindingName, instance)
		if res := e.initializeInstanceElements(classObj, instance); isAbrupt(res) {
			return res
		}
	}

	var result Value = UNDEFINED
	if info.Ctor != nil {
		pos := 0
		for _, param := range info.Ctor.Params {
			var abrupt Value
			pos, abrupt = e.bindParameter(ctorEnv, param, args, pos)
			if abrupt != nil {
				return abrupt
			}
		}
		envDefine(ctorEnv, "arguments", e.newArgumentsObject(env, &ClosureData{IsStrict: true}, classObj, args))

		e.PushCall(info.Name, env.CurLine, env.CurColumn)
		result = e.evalStatements(ctorEnv, info.Ctor.Body)
		e.PopCall()
		if isError(result) || result != nil && result.Type() == THROW_VAL {
			return result
		}
	} else if info.Derived {
		// default derived constructor forwards to super(...args)
		if res := e.performSuperCall(ctorEnv, args); isAbrupt(res) {
			return res
		}
	}

	this := resolveThis(ctorEnv)
	if info.Derived && this.Type() == UNINITIALIZED_VAL {
		if rv, ok := result.(*ReturnValue); ok {
			if resObj, isObj := rv.Value.(*JSObject); isObj {
				return e.finalizeConstructed(resObj, computedProto)
			}
		}
		return newReferenceError("Must call super constructor in derived class before accessing 'this' or returning from derived constructor")
	}

	final := this
	if rv, ok := result.(*ReturnValue); ok {
		if resObj, isObj := rv.Value.(*JSObject); isObj {
			final = resObj
		}
	}
	return e.finalizeConstructed(final, computedProto)
}

// finalizeConstructed honors GetPrototypeFromConstructor: the recorded
// computed prototype applies to the final returned object.
func (e *Evaluator) finalizeConstructed(final Value, computedProto *JSObject) Value {
	if obj, ok := final.(*JSObject); ok && computedProto != nil {
		obj.Prototype = computedProto
	}
	return final
}

func (e *Evaluator) classPrototype(classObj *JSObject) *JSObject {
	cell, ok := classObj.GetOwn(StringKey("prototype"))
	if !ok {
		return nil
	}
	proto, _ := cell.Value.(*JSObject)
	return proto
}

// initializeInstanceElements installs private methods and runs field
// initializers in declaration order, with `this` the instance and the
// class prototype as home object. Re-initializing a private element is
// a TypeError.
func (e *Evaluator) initializeInstanceElements(classObj *JSObject, instance *JSObject) Value {
	info := classObj.ClassDef
	proto := e.classPrototype(classObj)

	if len(info.PrivateMethods) > 0 {
		if instance.PrivateMethods == nil {
			instance.PrivateMethods = map[PropertyKey]Value{}
		}
		for key, m := range info.PrivateMethods {
			if _, exists := instance.PrivateMethods[key]; exists {
				return newTypeError("Cannot initialize #%s twice on the same object", key.Name)
			}
			instance.PrivateMethods[key] = m
		}
	}

	for _, entry := range info.InstanceFields {
		m := entry.Member
		fieldEnv := NewFunctionEnvironment(classObj.DefinitionEnv)
		envDefine(fieldEnv, config.ThisBindingName, instance)
		if proto != nil {
			envDefine(fieldEnv, config.HomeObjectBinding, proto)
		}
		envDefine(fieldEnv, config.FieldInitBinding, TRUE)

		var value Value = UNDEFINED
		if m.Value != nil {
			value = e.evalExpr(fieldEnv, m.Value)
			if isAbrupt(value) {
				return value
			}
		}
		key := e.classMemberKey(classObj, entry.Index, m, info)
		if key.Kind == KeyPrivate {
			if _, exists := instance.GetOwn(key); exists {
				return newTypeError("Cannot initialize #%s twice on the same object", key.Name)
			}
		}
		instance.SetKey(key, value)
	}
	return UNDEFINED
}

// performSuperCall resolves the parent constructor via the class
// object's prototype link, constructs with the same new.target, binds
// the result as `this`, then runs the derived class's own instance
// elements.
func (e *Evaluator) performSuperCall(env *JSObject, args []Value) Value {
	classVal, ok := envLookup(env, "__class")
	if !ok {
		return newSyntaxError("'super' keyword unexpected here")
	}
	classObj, ok := classVal.(*JSObject)
	if !ok || classObj.ClassDef == nil {
		return newSyntaxError("'super' keyword unexpected here")
	}

	current := resolveThis(env)
	if current.Type() != UNINITIALIZED_VAL {
		return newReferenceError("Super constructor may only be called once")
	}

	parent := classObj.Prototype
	if parent == nil || !isCallable(parent) {
		return newTypeError("Super constructor null of %s is not a constructor", classObj.ClassDef.Name)
	}

	var newTarget Value
	if nt, has := envLookup(env, config.NewTargetBinding); has {
		newTarget = nt
	}

	result := e.evaluateNew(env, parent, args, newTarget)
	if isAbrupt(result) {
		return result
	}
	instance, ok := result.(*JSObject)
	if !ok {
		return newTypeError("Super constructor returned a non-object")
	}

	if found, cerr := envAssign(env, config.ThisBindingName, instance); cerr != nil || !found {
		if cerr != nil {
			return cerr
		}
		envDefine(env, config.ThisBindingName, instance)
	}

	if res := e.initializeInstanceElements(classObj, instance); isAbrupt(res) {
		return res
	}
	return instance
}

func (e *Evaluator) evalSuperCall(env *JSObject, node *ast.SuperCall) Value {
	args, abrupt := e.expandArguments(env, node.Args)
	if abrupt != nil {
		return abrupt
	}
	return e.performSuperCall(env, args)
}

// superBase locates the [[HomeObject]] for super resolution. Arrow
// functions never bind __home_object, so the chain walk is transparent
// through them.
func (e *Evaluator) superBase(env *JSObject) (*JSObject, Value) {
	homeVal, ok := envLookup(env, config.HomeObjectBinding)
	if !ok {
		return nil, UNDEFINED
	}
	home, ok := homeVal.(*JSObject)
	if !ok {
		return nil, UNDEFINED
	}
	return home, resolveThis(env)
}

func (e *Evaluator) evalSuperProperty(env *JSObject, node *ast.SuperProperty) Value {
	home, this := e.superBase(env)
	if home == nil {
		return newSyntaxError("'super' keyword unexpected here")
	}
	if home.Prototype == nil {
		return UNDEFINED
	}
	_, cell, found := home.Prototype.FindHolder(StringKey(node.Property))
	if !found {
		return UNDEFINED
	}
	return e.coerceSlot(env, cell.Value, this)
}

func (e *Evaluator) evalSuperMethod(env *JSObject, node *ast.SuperMethod) Value {
	home, this := e.superBase(env)
	if home == nil {
		return newSyntaxError("'super' keyword unexpected here")
	}
	if home.Prototype == nil {
		return newTypeError("(intermediate value).%s is not a function", node.Method)
	}
	_, cell, found := home.Prototype.FindHolder(StringKey(node.Method))
	if !found {
		return newTypeError("(intermediate value).%s is not a function", node.Method)
	}
	method := e.coerceSlot(env, cell.Value, this)
	if isAbrupt(method) {
		return method
	}
	args, abrupt := e.expandArguments(env, node.Args)
	if abrupt != nil {
		return abrupt
	}
	return e.callFunction(env, method, this, args)
}
