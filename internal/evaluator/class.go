package evaluator

import (
	"strings"

	"github.com/funvibe/funjs/internal/ast"
	"github.com/funvibe/funjs/internal/config"
	"github.com/google/uuid"
)

// ClassInfo is the class_def internal slot: the definition plus the
// per-evaluation private-name identity and the member tables resolved
// at class-creation time.
type ClassInfo struct {
	Name      string
	Def       *ast.ClassDefinition
	PrivateID string
	// InstanceFields lists field members in declaration order, with
	// their member index for computed-key resolution.
	InstanceFields []classFieldEntry
	// PrivateMethods is the shared method table installed on each
	// instance under Private keys.
	PrivateMethods map[PropertyKey]Value
	// Ctor is the constructor member, nil for the default path.
	Ctor *ast.ClassMember
	// Derived marks an extends clause (including extends null).
	Derived bool
}

// evalClassDefinition creates the class object: constructor wiring,
// prototype chain, member definition, static evaluation, private name
// allocation and the private-access pre-pass.
func (e *Evaluator) evalClassDefinition(env *JSObject, def *ast.ClassDefinition) Value {
	classEnv := NewEnclosedEnvironment(env)
	privateID := uuid.NewString()

	// Allocate fresh private names and bind them for the class body.
	declaredPrivate := map[string]bool{}
	for _, m := range def.Members {
		if m.IsPrivate {
			declaredPrivate[m.Name] = true
			envDefine(classEnv, "#"+m.Name, &PrivateName{Name: m.Name, ID: privateID})
		}
	}

	// Undeclared private accesses are a SyntaxError at class creation.
	if err := checkPrivateAccesses(def, declaredPrivate, classEnv); err != nil {
		return err
	}

	// Resolve the parent.
	var parentCtor *JSObject
	var parentProto *JSObject
	extendsNull := false
	if def.Extends != nil {
		parentVal := e.evalExpr(classEnv, def.Extends)
		if isAbrupt(parentVal) {
			return parentVal
		}
		switch pv := parentVal.(type) {
		case *Null:
			extendsNull = true
		case *JSObject:
			if !isCallable(pv) {
				return newTypeError("Class extends value %s is not a constructor or null", parentVal.Inspect())
			}
			parentCtor = pv
			if cell, ok := pv.GetOwn(StringKey("prototype")); ok {
				if p, isObj := cell.Value.(*JSObject); isObj {
					parentProto = p
				}
			}
		default:
			return newTypeError("Class extends value %s is not a constructor or null", parentVal.Inspect())
		}
	}

	proto := NewJSObject()
	switch {
	case parentProto != nil:
		proto.Prototype = parentProto
	case extendsNull:
		proto.Prototype = nil
	default:
		proto.Prototype = e.intrinsicObjectPrototype(env)
	}

	info := &ClassInfo{
		Name:           def.Name,
		Def:            def,
		PrivateID:      privateID,
		PrivateMethods: map[PropertyKey]Value{},
		Derived:        def.Extends != nil,
	}

	classObj := NewJSObject()
	classObj.ClassDef = info
	classObj.DefinitionEnv = classEnv
	if parentCtor != nil {
		classObj.Prototype = parentCtor
	}
	classObj.DefineHidden(StringKey("prototype"), proto)
	proto.DefineHidden(StringKey("constructor"), classObj)

	if def.Name != "" {
		envDefineConst(classEnv, def.Name, classObj)
	}

	// Computed member keys evaluate once, at class-creation time.
	classObj.CompFieldKeys = map[int]PropertyKey{}
	for i, m := range def.Members {
		if !m.Computed {
			continue
		}
		kv := e.evalExpr(classEnv, m.KeyExpr)
		if isAbrupt(kv) {
			return kv
		}
		key, kerr := e.toPropertyKey(classEnv, kv)
		if kerr != nil {
			return kerr
		}
		classObj.CompFieldKeys[i] = key
	}

	// Define members. Static blocks and static fields execute in
	// declaration order, after methods are in place.
	for i, m := range def.Members {
		if res := e.defineClassMember(classEnv, classObj, proto, info, i, m); isAbrupt(res) {
			return res
		}
	}
	for i, m := range def.Members {
		if res := e.evalStaticMember(classEnv, classObj, proto, i, m); isAbrupt(res) {
			return res
		}
	}

	return classObj
}

func (e *Evaluator) classMemberKey(classObj *JSObject, i int, m *ast.ClassMember, info *ClassInfo) PropertyKey {
	if m.Computed {
		return classObj.CompFieldKeys[i]
	}
	if m.IsPrivate {
		return PrivateKey(m.Name, info.PrivateID)
	}
	return StringKey(m.Name)
}

// defineClassMember wires one non-static-evaluation member: methods
// and accessors onto the prototype (or class object for statics),
// private methods into the shared table, fields into the
// construction-time list.
func (e *Evaluator) defineClassMember(classEnv *JSObject, classObj, proto *JSObject, info *ClassInfo, i int, m *ast.ClassMember) Value {
	switch m.Kind {
	case ast.MemberConstructor:
		info.Ctor = m
		return UNDEFINED
	case ast.MemberStaticBlock:
		return UNDEFINED // runs in the static pass
	case ast.MemberField:
		if !m.IsStatic {
			info.InstanceFields = append(info.InstanceFields, classFieldEntry{Index: i, Member: m})
		}
		return UNDEFINED
	}

	home := proto
	if m.IsStatic {
		home = classObj
	}
	fn := e.newClassMethodFunction(classEnv, m, home)
	key := e.classMemberKey(classObj, i, m, info)

	target := proto
	if m.IsStatic {
		target = classObj
	}

	switch m.Kind {
	case ast.MemberGetter, ast.MemberSetter:
		isGetter := m.Kind == ast.MemberGetter
		if m.IsPrivate && !m.IsStatic {
			e.mergePrivateAccessor(info.PrivateMethods, key, fn, isGetter)
		} else {
			e.defineAccessor(target, key, fn, isGetter)
			target.nonEnumerable[key] = true
		}
	default: // methods, including async / generator forms
		if m.IsPrivate && !m.IsStatic {
			info.PrivateMethods[key] = fn
		} else {
			target.DefineHidden(key, fn)
		}
	}
	return UNDEFINED
}

func (e *Evaluator) mergePrivateAccessor(table map[PropertyKey]Value, key PropertyKey, fn Value, isGetter bool) {
	desc, _ := table[key].(*PropertyDescriptor)
	if desc == nil {
		desc = &PropertyDescriptor{}
		table[key] = desc
	}
	if isGetter {
		desc.Getter = fn
	} else {
		desc.Setter = fn
	}
}

// evalStaticMember runs static field initializers and static blocks
// with `this` bound to the class object.
func (e *Evaluator) evalStaticMember(classEnv *JSObject, classObj, proto *JSObject, i int, m *ast.ClassMember) Value {
	if !m.IsStatic && m.Kind != ast.MemberStaticBlock {
		return UNDEFINED
	}
	switch m.Kind {
	case ast.MemberField:
		fieldEnv := NewFunctionEnvironment(classEnv)
		envDefine(fieldEnv, config.ThisBindingName, classObj)
		envDefine(fieldEnv, config.HomeObjectBinding, classObj)
		var value Value = UNDEFINED
		if m.Value != nil {
			value = e.evalExpr(fieldEnv, m.Value)
			if isAbrupt(value) {
				return value
			}
		}
		key := e.classMemberKey(classObj, i, m, classObj.ClassDef)
		classObj.SetKey(key, value)
		return UNDEFINED
	case ast.MemberStaticBlock:
		blockEnv := NewFunctionEnvironment(classEnv)
		envDefine(blockEnv, config.ThisBindingName, classObj)
		envDefine(blockEnv, config.HomeObjectBinding, classObj)
		result := e.evalStatements(blockEnv, m.Body)
		if isError(result) || result != nil && result.Type() == RETURN_SIGNAL_VAL {
			if isError(result) {
				return result
			}
			return newSyntaxError("Illegal return statement")
		}
		return UNDEFINED
	}
	return UNDEFINED
}

// newClassMethodFunction builds a strict-mode method function object
// with the class member's home object installed.
func (e *Evaluator) newClassMethodFunction(classEnv *JSObject, m *ast.ClassMember, home *JSObject) *JSObject {
	kind := ClosureNormal
	switch {
	case m.IsAsync && m.IsGenerator:
		kind = ClosureAsyncGenerator
	case m.IsAsync:
		kind = ClosureAsync
	case m.IsGenerator:
		kind = ClosureGenerator
	}
	data := &ClosureData{
		Name:       m.Name,
		Params:     m.Params,
		Body:       m.Body,
		Env:        classEnv,
		HomeObject: home,
		Kind:       kind,
		IsStrict:   true,
	}
	fn := e.newFunctionObject(classEnv, data)
	fn.HomeObject = home
	return fn
}

// checkPrivateAccesses walks member bodies; a `#name` access with no
// declaration in any enclosing class is a SyntaxError at creation.
func checkPrivateAccesses(def *ast.ClassDefinition, declared map[string]bool, classEnv *JSObject) *Error {
	inScope := func(name string) bool {
		if declared[name] {
			return true
		}
		// outer class bodies bind their names in the environment
		if _, ok := envLookup(classEnv, "#"+name); ok {
			return true
		}
		return false
	}

	var checkExpr func(ex ast.Expression) *Error
	var checkStmts func(stmts []ast.Statement) *Error

	checkExpr = func(ex ast.Expression) *Error {
		switch node := ex.(type) {
		case nil:
			return nil
		case *ast.MemberExpr:
			if strings.HasPrefix(node.Property, "#") {
				if !inScope(strings.TrimPrefix(node.Property, "#")) {
					return newSyntaxError("Private field '%s' must be declared in an enclosing class", node.Property)
				}
			}
			return checkExpr(node.Object)
		case *ast.IndexExpr:
			if err := checkExpr(node.Object); err != nil {
				return err
			}
			return checkExpr(node.Index)
		case *ast.CallExpr:
			if err := checkExpr(node.Callee); err != nil {
				return err
			}
			for _, a := range node.Args {
				if err := checkExpr(a); err != nil {
					return err
				}
			}
			return nil
		case *ast.NewExpr:
			if err := checkExpr(node.Callee); err != nil {
				return err
			}
			for _, a := range node.Args {
				if err := checkExpr(a); err != nil {
					return err
				}
			}
			return nil
		case *ast.InfixExpr:
			if err := checkExpr(node.Left); err != nil {
				return err
			}
			return checkExpr(node.Right)
		case *ast.PrefixExpr:
			return checkExpr(node.Right)
		case *ast.AssignExpr:
			if err := checkExpr(node.Target); err != nil {
				return err
			}
			return checkExpr(node.Value)
		case *ast.ConditionalExpr:
			if err := checkExpr(node.Test); err != nil {
				return err
			}
			if err := checkExpr(node.Consequent); err != nil {
				return err
			}
			return checkExpr(node.Alternate)
		case *ast.FunctionExpr:
			return checkStmts(node.Body)
		case *ast.ArrayLiteral:
			for _, el := range node.Elements {
				if err := checkExpr(el); err != nil {
					return err
				}
			}
			return nil
		case *ast.ObjectLiteral:
			for _, p := range node.Properties {
				if err := checkExpr(p.Value); err != nil {
					return err
				}
			}
			return nil
		case *ast.ClassExpr:
			// nested classes validate themselves at their own creation
			return nil
		default:
			return nil
		}
	}

	checkStmts = func(stmts []ast.Statement) *Error {
		for _, s := range stmts {
			switch node := s.(type) {
			case *ast.ExpressionStatement:
				if err := checkExpr(node.Expression); err != nil {
					return err
				}
			case *ast.ReturnStatement:
				if err := checkExpr(node.Argument); err != nil {
					return err
				}
			case *ast.DeclarationStatement:
				for _, d := range node.Decls {
					if err := checkExpr(d.Init); err != nil {
						return err
					}
				}
			case *ast.IfStatement:
				if err := checkExpr(node.Test); err != nil {
					return err
				}
				if err := checkStmts([]ast.Statement{node.Consequent}); err != nil {
					return err
				}
				if node.Alternate != nil {
					if err := checkStmts([]ast.Statement{node.Alternate}); err != nil {
						return err
					}
				}
			case *ast.BlockStatement:
				if err := checkStmts(node.Statements); err != nil {
					return err
				}
			case *ast.WhileStatement:
				if err := checkExpr(node.Test); err != nil {
					return err
				}
				if err := checkStmts([]ast.Statement{node.Body}); err != nil {
					return err
				}
			case *ast.ThrowStatement:
				if err := checkExpr(node.Argument); err != nil {
					return err
				}
			case *ast.TryStatement:
				if err := checkStmts(node.Block); err != nil {
					return err
				}
				if err := checkStmts(node.Handler); err != nil {
					return err
				}
				if err := checkStmts(node.Finalizer); err != nil {
					return err
				}
			}
		}
		return nil
	}

	for _, m := range def.Members {
		if err := checkStmts(m.Body); err != nil {
			return err
		}
		if m.Value != nil {
			if err := checkExpr(m.Value); err != nil {
				return err
			}
		}
	}
	return nil
}
