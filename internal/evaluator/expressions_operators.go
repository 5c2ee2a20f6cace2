package evaluator

import (
	"math"
	"math/big"
	"strings"

	"github.com/funvibe/funjs/internal/ast"
	"github.com/funvibe/funjs/internal/config"
)

func (e *Evaluator) evalPrefixExpr(env *JSObject, node *ast.PrefixExpr) Value {
	switch node.Operator {
	case "typeof":
		return e.evalTypeof(env, node.Right)
	case "delete":
		return e.evalDelete(env, node.Right)
	}

	right := e.evalExpr(env, node.Right)
	if isAbrupt(right) {
		return right
	}

	switch node.Operator {
	case "!":
		return nativeBoolToBooleanValue(!isTruthy(right))
	case "void":
		return UNDEFINED
	case "-":
		if bi, ok := right.(*BigInt); ok {
			return &BigInt{Value: new(big.Int).Neg(bi.Value)}
		}
		num := e.toNumber(env, right)
		if isError(num) {
			return num
		}
		return &Number{Value: -num.(*Number).Value}
	case "+":
		num := e.toNumber(env, right)
		if isError(num) {
			return num
		}
		return num
	case "~":
		if bi, ok := right.(*BigInt); ok {
			return &BigInt{Value: new(big.Int).Not(bi.Value)}
		}
		num := e.toNumber(env, right)
		if isError(num) {
			return num
		}
		return &Number{Value: float64(^toInt32(num.(*Number).Value))}
	default:
		return newSyntaxError("unknown prefix operator: %s", node.Operator)
	}
}

// evalTypeof never throws for identifiers: an unresolved name reports
// "undefined" without injecting engine globals.
func (e *Evaluator) evalTypeof(env *JSObject, target ast.Expression) Value {
	if ident, ok := target.(*ast.Identifier); ok {
		v, found := envLookup(env, ident.Value)
		if !found {
			return NewString("undefined")
		}
		return NewString(typeofValue(v))
	}
	v := e.evalExpr(env, target)
	if isAbrupt(v) {
		return v
	}
	return NewString(typeofValue(v))
}

func typeofValue(v Value) string {
	switch val := v.(type) {
	case *Undefined, *Uninitialized, nil:
		return "undefined"
	case *Null:
		return "object"
	case *Boolean:
		return "boolean"
	case *Number:
		return "number"
	case *BigInt:
		return "bigint"
	case *String:
		return "string"
	case *Symbol:
		return "symbol"
	case *Closure, *Builtin, *BoundBuiltin:
		return "function"
	case *JSObject:
		if val.Closure != nil || val.ClassDef != nil || val.NativeCtor != "" || val.BoundCall != nil {
			return "function"
		}
		return "object"
	case *Proxy:
		if isCallable(val.Target) {
			return "function"
		}
		return "object"
	default:
		return "object"
	}
}

func (e *Evaluator) evalDelete(env *JSObject, target ast.Expression) Value {
	switch node := target.(type) {
	case *ast.MemberExpr:
		base := e.evalExpr(env, node.Object)
		if isAbrupt(base) {
			return base
		}
		if obj, ok := base.(*JSObject); ok {
			return nativeBoolToBooleanValue(obj.Delete(StringKey(node.Property)))
		}
		if p, ok := base.(*Proxy); ok {
			return e.proxyDelete(env, p, StringKey(node.Property))
		}
		return TRUE
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
		if obj, ok := base.(*JSObject); ok {
			return nativeBoolToBooleanValue(obj.Delete(key))
		}
		if p, ok := base.(*Proxy); ok {
			return e.proxyDelete(env, p, key)
		}
		return TRUE
	case *ast.Identifier:
		// deleting an unqualified binding is a no-op in sloppy mode
		return FALSE
	default:
		return TRUE
	}
}

func (e *Evaluator) evalInfixExpr(env *JSObject, node *ast.InfixExpr) Value {
	switch node.Operator {
	case "&&":
		left := e.evalExpr(env, node.Left)
		if isAbrupt(left) {
			return left
		}
		if !isTruthy(left) {
			return left
		}
		return e.evalExpr(env, node.Right)
	case "||":
		left := e.evalExpr(env, node.Left)
		if isAbrupt(left) {
			return left
		}
		if isTruthy(left) {
			return left
		}
		return e.evalExpr(env, node.Right)
	case "??":
		left := e.evalExpr(env, node.Left)
		if isAbrupt(left) {
			return left
		}
		if !isNullish(left) {
			return left
		}
		return e.evalExpr(env, node.Right)
	}

	left := e.evalExpr(env, node.Left)
	if isAbrupt(left) {
		return left
	}
	right := e.evalExpr(env, node.Right)
	if isAbrupt(right) {
		return right
	}
	return e.applyBinaryOperator(env, node.Operator, left, right)
}

func (e *Evaluator) applyBinaryOperator(env *JSObject, op string, left, right Value) Value {
	switch op {
	case "+":
		return e.evalAddition(env, left, right)
	case "-", "*", "/", "%", "**":
		return e.evalArithmetic(env, op, left, right)
	case "&", "|", "^", "<<", ">>", ">>>":
		return e.evalBitwise(env, op, left, right)
	case "<", "<=", ">", ">=":
		return e.relationalCompare(env, op, left, right)
	case "==":
		return e.abstractEquals(env, left, right)
	case "!=":
		res := e.abstractEquals(env, left, right)
		if isAbrupt(res) {
			return res
		}
		return nativeBoolToBooleanValue(!res.(*Boolean).Value)
	case "===":
		return nativeBoolToBooleanValue(strictEquals(left, right))
	case "!==":
		return nativeBoolToBooleanValue(!strictEquals(left, right))
	case "in":
		return e.evalInOperator(env, left, right)
	case "instanceof":
		return e.evalInstanceof(env, left, right)
	default:
		return newSyntaxError("unknown operator: %s", op)
	}
}

// evalAddition: ToPrimitive(default) both sides; if either is then a
// String, concatenate in UTF-16; otherwise numeric addition with
// BigInt x Number mixing a TypeError.
func (e *Evaluator) evalAddition(env *JSObject, left, right Value) Value {
	lp := e.toPrimitive(env, left, hintDefault)
	if isError(lp) {
		return lp
	}
	rp := e.toPrimitive(env, right, hintDefault)
	if isError(rp) {
		return rp
	}

	ls, lIsStr := lp.(*String)
	rs, rIsStr := rp.(*String)
	if lIsStr || rIsStr {
		var lu, ru []uint16
		if lIsStr {
			lu = ls.Units
		} else {
			s := e.toString(env, lp)
			if isError(s) {
				return s
			}
			lu = s.(*String).Units
		}
		if rIsStr {
			ru = rs.Units
		} else {
			s := e.toString(env, rp)
			if isError(s) {
				return s
			}
			ru = s.(*String).Units
		}
		units := make([]uint16, 0, len(lu)+len(ru))
		units = append(units, lu...)
		units = append(units, ru...)
		return &String{Units: units}
	}
	return e.evalArithmetic(env, "+", lp, rp)
}

func (e *Evaluator) evalArithmetic(env *JSObject, op string, left, right Value) Value {
	lb, lIsBig := left.(*BigInt)
	rb, rIsBig := right.(*BigInt)
	if lIsBig && rIsBig {
		return evalBigIntArithmetic(op, lb.Value, rb.Value)
	}
	if lIsBig != rIsBig {
		return newTypeError("Cannot mix BigInt and other types, use explicit conversions")
	}

	ln := e.toNumber(env, left)
	if isError(ln) {
		return ln
	}
	rn := e.toNumber(env, right)
	if isError(rn) {
		return rn
	}
	lf, rf := ln.(*Number).Value, rn.(*Number).Value
	switch op {
	case "+":
		return &Number{Value: lf + rf}
	case "-":
		return &Number{Value: lf - rf}
	case "*":
		return &Number{Value: lf * rf}
	case "/":
		return &Number{Value: lf / rf}
	case "%":
		return &Number{Value: math.Mod(lf, rf)}
	case "**":
		return &Number{Value: math.Pow(lf, rf)}
	}
	return newSyntaxError("unknown arithmetic operator: %s", op)
}

func evalBigIntArithmetic(op string, l, r *big.Int) Value {
	switch op {
	case "+":
		return &BigInt{Value: new(big.Int).Add(l, r)}
	case "-":
		return &BigInt{Value: new(big.Int).Sub(l, r)}
	case "*":
		return &BigInt{Value: new(big.Int).Mul(l, r)}
	case "/":
		if r.Sign() == 0 {
			return newRangeError("Division by zero")
		}
		return &BigInt{Value: new(big.Int).Quo(l, r)}
	case "%":
		if r.Sign() == 0 {
			return newRangeError("Division by zero")
		}
		return &BigInt{Value: new(big.Int).Rem(l, r)}
	case "**":
		if r.Sign() < 0 {
			return newRangeError("Exponent must be non-negative")
		}
		if !r.IsInt64() {
			return newRangeError("Maximum BigInt size exceeded")
		}
		return &BigInt{Value: new(big.Int).Exp(l, r, nil)}
	}
	return newSyntaxError("unknown arithmetic operator: %s", op)
}

func (e *Evaluator) evalBitwise(env *JSObject, op string, left, right Value) Value {
	lb, lIsBig := left.(*BigInt)
	rb, rIsBig := right.(*BigInt)
	if lIsBig && rIsBig {
		return evalBigIntBitwise(op, lb.Value, rb.Value)
	}
	if lIsBig != rIsBig {
		return newTypeError("Cannot mix BigInt and other types, use explicit conversions")
	}

	ln := e.toNumber(env, left)
	if isError(ln) {
		return ln
	}
	rn := e.toNumber(env, right)
	if isError(rn) {
		return rn
	}
	lf, rf := ln.(*Number).Value, rn.(*Number).Value
	switch op {
	case "&":
		return &Number{Value: float64(toInt32(lf) & toInt32(rf))}
	case "|":
		return &Number{Value: float64(toInt32(lf) | toInt32(rf))}
	case "^":
		return &Number{Value: float64(toInt32(lf) ^ toInt32(rf))}
	case "<<":
		return &Number{Value: float64(toInt32(lf) << (toUint32(rf) & 0x1f))}
	case ">>":
		return &Number{Value: float64(toInt32(lf) >> (toUint32(rf) & 0x1f))}
	case ">>>":
		return &Number{Value: float64(toUint32(lf) >> (toUint32(rf) & 0x1f))}
	}
	return newSyntaxError("unknown bitwise operator: %s", op)
}

func evalBigIntBitwise(op string, l, r *big.Int) Value {
	switch op {
	case "&":
		return &BigInt{Value: new(big.Int).And(l, r)}
	case "|":
		return &BigInt{Value: new(big.Int).Or(l, r)}
	case "^":
		return &BigInt{Value: new(big.Int).Xor(l, r)}
	case "<<":
		if !r.IsInt64() || r.Int64() < 0 {
			return newRangeError("Invalid shift count")
		}
		return &BigInt{Value: new(big.Int).Lsh(l, uint(r.Int64()))}
	case ">>":
		if !r.IsInt64() || r.Int64() < 0 {
			return newRangeError("Invalid shift count")
		}
		return &BigInt{Value: new(big.Int).Rsh(l, uint(r.Int64()))}
	case ">>>":
		return newTypeError("BigInts have no unsigned right shift, use >> instead")
	}
	return newSyntaxError("unknown bitwise operator: %s", op)
}

// evalInOperator requires an object right operand and tests
// own-or-inherited key membership.
func (e *Evaluator) evalInOperator(env *JSObject, left, right Value) Value {
	key, kerr := e.toPropertyKey(env, left)
	if kerr != nil {
		return kerr
	}
	switch robj := right.(type) {
	case *JSObject:
		return nativeBoolToBooleanValue(robj.HasKey(key))
	case *Proxy:
		return e.proxyHas(env, robj, key)
	default:
		return newTypeError("Cannot use 'in' operator to search for '%s' in %s", key.String(), right.Inspect())
	}
}

// evalInstanceof walks the left operand's prototype chain looking for
// the right operand's own `prototype` property.
func (e *Evaluator) evalInstanceof(env *JSObject, left, right Value) Value {
	ctor, ok := right.(*JSObject)
	if !ok {
		if p, isProxy := right.(*Proxy); isProxy {
			if t, tok := p.Target.(*JSObject); tok {
				ctor = t
				ok = true
			}
		}
		if !ok {
			return newTypeError("Right-hand side of 'instanceof' is not callable")
		}
	}
	if !isCallable(ctor) {
		return newTypeError("Right-hand side of 'instanceof' is not callable")
	}

	if hi := e.wellKnown("hasInstance"); hi != nil {
		if _, cell, found := ctor.FindHolder(SymbolKey(hi)); found && cell.Value != nil && isCallable(cell.Value) {
			res := e.callFunction(env, cell.Value, ctor, []Value{left})
			if isAbrupt(res) {
				return res
			}
			return nativeBoolToBooleanValue(isTruthy(res))
		}
	}

	protoCell, hasProto := ctor.GetOwn(StringKey("prototype"))
	if !hasProto {
		return newTypeError("Function has non-object prototype in instanceof check")
	}
	protoObj, isObj := protoCell.Value.(*JSObject)
	if !isObj {
		return newTypeError("Function has non-object prototype in instanceof check")
	}

	lobj, isLObj := left.(*JSObject)
	if !isLObj {
		return FALSE
	}
	depth := 0
	for p := lobj.Prototype; p != nil; p = p.Prototype {
		if p == protoObj {
			return TRUE
		}
		depth++
		if depth > maxPrototypeDepth {
			break
		}
	}
	return FALSE
}

func (e *Evaluator) evalUpdateExpr(env *JSObject, node *ast.UpdateExpr) Value {
	old := e.evalExpr(env, node.Target)
	if isAbrupt(old) {
		return old
	}

	var newVal Value
	if bi, ok := old.(*BigInt); ok {
		one := big.NewInt(1)
		if node.Operator == "++" {
			newVal = &BigInt{Value: new(big.Int).Add(bi.Value, one)}
		} else {
			newVal = &BigInt{Value: new(big.Int).Sub(bi.Value, one)}
		}
	} else {
		num := e.toNumber(env, old)
		if isError(num) {
			return num
		}
		old = num
		if node.Operator == "++" {
			newVal = &Number{Value: num.(*Number).Value + 1}
		} else {
			newVal = &Number{Value: num.(*Number).Value - 1}
		}
	}

	res := e.assignToTarget(env, node.Target, newVal)
	if isAbrupt(res) {
		return res
	}
	if node.Prefix {
		return newVal
	}
	return old
}

// isInternalBinding reports whether a name carries the engine's
// internal-binding prefix (config.InternalPrefix).
func isInternalBinding(name string) bool {
	return strings.HasPrefix(name, config.InternalPrefix)
}
