package evaluator

import (
	"strings"

	"github.com/funvibe/funjs/internal/ast"
)

func (e *Evaluator) evalAssignExpr(env *JSObject, node *ast.AssignExpr) Value {
	switch node.Operator {
	case "=":
		value := e.evalExpr(env, node.Value)
		if isAbrupt(value) {
			return value
		}
		res := e.assignToTarget(env, node.Target, value)
		if isAbrupt(res) {
			return res
		}
		return value
	case "&&=", "||=", "??=":
		return e.evalLogicalAssign(env, node)
	default:
		// compound: evaluate the target once to fetch, combine, write back
		op := strings.TrimSuffix(node.Operator, "=")
		old := e.evalExpr(env, node.Target)
		if isAbrupt(old) {
			return old
		}
		rhs := e.evalExpr(env, node.Value)
		if isAbrupt(rhs) {
			return rhs
		}
		combined := e.applyBinaryOperator(env, op, old, rhs)
		if isAbrupt(combined) {
			return combined
		}
		res := e.assignToTarget(env, node.Target, combined)
		if isAbrupt(res) {
			return res
		}
		return combined
	}
}

// evalLogicalAssign skips the right-hand side entirely when the
// short-circuit condition holds.
func (e *Evaluator) evalLogicalAssign(env *JSObject, node *ast.AssignExpr) Value {
	old := e.evalExpr(env, node.Target)
	if isAbrupt(old) {
		return old
	}
	switch node.Operator {
	case "&&=":
		if !isTruthy(old) {
			return old
		}
	case "||=":
		if isTruthy(old) {
			return old
		}
	case "??=":
		if !isNullish(old) {
			return old
		}
	}
	value := e.evalExpr(env, node.Value)
	if isAbrupt(value) {
		return value
	}
	res := e.assignToTarget(env, node.Target, value)
	if isAbrupt(res) {
		return res
	}
	return value
}

// assignToTarget writes a value to an assignment target: a variable,
// a property, an index, or a destructuring pattern.
func (e *Evaluator) assignToTarget(env *JSObject, target ast.Expression, value Value) Value {
	switch node := target.(type) {
	case *ast.Identifier:
		found, cerr := envAssign(env, node.Value, value)
		if cerr != nil {
			return cerr
		}
		if !found {
			// implicit global creation on assignment to an undeclared
			// name (sloppy semantics)
			envDefine(globalEnv(env), node.Value, value)
		}
		return value
	case *ast.MemberExpr:
		base := e.evalExpr(env, node.Object)
		if isAbrupt(base) {
			return base
		}
		if strings.HasPrefix(node.Property, "#") {
			return e.setPrivateMember(env, base, node.Property, value)
		}
		return e.setMember(env, base, StringKey(node.Property), value)
	case *ast.IndexExpr:
		base := e.evalExpr(env, node.Object)
		if isAbrupt(base) {
			return base
		}
		idx := e.evalExpr(env, node.Index)
		if isAbrupt(idx) {
			return idx
		}
		key, kerr := e.toPropertyKey(env, idx)
		if kerr != nil {
			return kerr
		}
		return e.setMember(env, base, key, value)
	case *ast.ArrayPattern:
		return e.destructureArray(env, node.Elements, value, assignBinder(e, env))
	case *ast.ObjectPattern:
		return e.destructureObject(env, node.Elements, value, assignBinder(e, env))
	case *ast.SuperProperty:
		home, this := e.superBase(env)
		if home == nil {
			return newSyntaxError("'super' keyword unexpected here")
		}
		if home.Prototype == nil {
			return UNDEFINED
		}
		_ = this
		return e.setMember(env, home.Prototype, StringKey(node.Property), value)
	default:
		return newReferenceError("Invalid left-hand side in assignment")
	}
}

// binder is how destructuring delivers name/value pairs: declarations
// bind into a target env, assignments re-assign existing targets.
type binder func(name string, v Value) Value

func assignBinder(e *Evaluator, env *JSObject) binder {
	return func(name string, v Value) Value {
		found, cerr := envAssign(env, name, v)
		if cerr != nil {
			return cerr
		}
		if !found {
			envDefine(globalEnv(env), name, v)
		}
		return v
	}
}

func declareBinder(env *JSObject) binder {
	return func(name string, v Value) Value {
		envDefine(env, name, v)
		return v
	}
}

func declareConstBinder(env *JSObject) binder {
	return func(name string, v Value) Value {
		envDefineConst(env, name, v)
		return v
	}
}
