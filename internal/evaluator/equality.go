package evaluator

import (
	"math"
	"math/big"
)

// strictEquals is `===`: same variant compares payloads, different
// variants are false. NaN !== NaN; object-like values by pointer.
func strictEquals(a, b Value) bool {
	switch av := a.(type) {
	case *Undefined:
		_, ok := b.(*Undefined)
		return ok
	case *Null:
		_, ok := b.(*Null)
		return ok
	case *Boolean:
		bv, ok := b.(*Boolean)
		return ok && av.Value == bv.Value
	case *Number:
		bv, ok := b.(*Number)
		return ok && av.Value == bv.Value
	case *BigInt:
		bv, ok := b.(*BigInt)
		return ok && av.Value.Cmp(bv.Value) == 0
	case *String:
		bv, ok := b.(*String)
		return ok && utf16Equal(av.Units, bv.Units)
	case *Symbol:
		bv, ok := b.(*Symbol)
		return ok && av.Data == bv.Data
	case *JSObject:
		bv, ok := b.(*JSObject)
		return ok && av == bv
	case *Closure:
		bv, ok := b.(*Closure)
		return ok && av.Data == bv.Data
	case *Builtin:
		bv, ok := b.(*Builtin)
		return ok && av.Name == bv.Name
	case *PromiseValue:
		bv, ok := b.(*PromiseValue)
		return ok && av.Promise == bv.Promise
	case *MapValue:
		bv, ok := b.(*MapValue)
		return ok && av.Data == bv.Data
	case *SetValue:
		bv, ok := b.(*SetValue)
		return ok && av.Data == bv.Data
	case *WeakMapValue:
		return a == b
	case *WeakSetValue:
		return a == b
	case *ArrayBufferValue:
		bv, ok := b.(*ArrayBufferValue)
		return ok && av.Data == bv.Data
	case *DataViewValue:
		return a == b
	case *TypedArrayValue:
		return a == b
	case *GeneratorValue:
		bv, ok := b.(*GeneratorValue)
		return ok && av.Gen == bv.Gen
	case *AsyncGeneratorValue:
		bv, ok := b.(*AsyncGeneratorValue)
		return ok && av.Gen == bv.Gen
	case *Proxy:
		return a == b
	case *PrivateName:
		bv, ok := b.(*PrivateName)
		return ok && av.ID == bv.ID
	default:
		return a == b
	}
}

// sameValueZero is strictEquals with NaN equal to itself; Map/Set key
// identity.
func sameValueZero(a, b Value) bool {
	if an, ok := a.(*Number); ok {
		if bn, ok := b.(*Number); ok {
			if math.IsNaN(an.Value) && math.IsNaN(bn.Value) {
				return true
			}
			return an.Value == bn.Value
		}
		return false
	}
	return strictEquals(a, b)
}

// bigIntEqualsNumber compares exactly: fractional or non-finite
// numbers are never equal to a BigInt.
func bigIntEqualsNumber(bi *big.Int, f float64) bool {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return false
	}
	bf := new(big.Float).SetFloat64(f)
	fi, _ := bf.Int(nil)
	return bi.Cmp(fi) == 0
}

// bigIntCompareNumber returns -1/0/1 for bi vs f, with ok=false when f
// is NaN (every comparison involving NaN is false).
func bigIntCompareNumber(bi *big.Int, f float64) (int, bool) {
	if math.IsNaN(f) {
		return 0, false
	}
	if math.IsInf(f, 1) {
		return -1, true
	}
	if math.IsInf(f, -1) {
		return 1, true
	}
	// Compare against floor/ceil of the number's integer part so that
	// fractional values order correctly.
	floor := new(big.Float).SetFloat64(math.Floor(f))
	fi, _ := floor.Int(nil)
	cmp := bi.Cmp(fi)
	if cmp != 0 {
		return cmp, true
	}
	// bi == floor(f): bi < f iff f has a fractional part.
	if f != math.Trunc(f) {
		return -1, true
	}
	return 0, true
}

// abstractEquals is `==` per the ECMAScript table.
func (e *Evaluator) abstractEquals(env *JSObject, a, b Value) Value {
	at, bt := a.Type(), b.Type()

	if at == bt {
		return nativeBoolToBooleanValue(strictEquals(a, b))
	}

	// null == undefined (both directions)
	if (at == NULL_VAL && bt == UNDEFINED_VAL) || (at == UNDEFINED_VAL && bt == NULL_VAL) {
		return TRUE
	}

	// Number x String
	if at == NUMBER_VAL && bt == STRING_VAL {
		return nativeBoolToBooleanValue(a.(*Number).Value == stringToNumber(b.(*String).GoString()))
	}
	if at == STRING_VAL && bt == NUMBER_VAL {
		return nativeBoolToBooleanValue(stringToNumber(a.(*String).GoString()) == b.(*Number).Value)
	}

	// BigInt x String: StringToBigInt then exact
	if at == BIGINT_VAL && bt == STRING_VAL {
		if bi, ok := new(big.Int).SetString(b.(*String).GoString(), 10); ok {
			return nativeBoolToBooleanValue(a.(*BigInt).Value.Cmp(bi) == 0)
		}
		return FALSE
	}
	if at == STRING_VAL && bt == BIGINT_VAL {
		return e.abstractEquals(env, b, a)
	}

	// Boolean coerces to Number
	if at == BOOLEAN_VAL {
		return e.abstractEquals(env, boolToNumber(a.(*Boolean)), b)
	}
	if bt == BOOLEAN_VAL {
		return e.abstractEquals(env, a, boolToNumber(b.(*Boolean)))
	}

	// BigInt x Number: exact mathematical comparison
	if at == BIGINT_VAL && bt == NUMBER_VAL {
		return nativeBoolToBooleanValue(bigIntEqualsNumber(a.(*BigInt).Value, b.(*Number).Value))
	}
	if at == NUMBER_VAL && bt == BIGINT_VAL {
		return nativeBoolToBooleanValue(bigIntEqualsNumber(b.(*BigInt).Value, a.(*Number).Value))
	}

	// primitive x Object via ToPrimitive(default)
	if isEqPrimitive(at) && bt == OBJECT_VAL {
		prim := e.toPrimitive(env, b, hintDefault)
		if isError(prim) {
			return prim
		}
		return e.abstractEquals(env, a, prim)
	}
	if at == OBJECT_VAL && isEqPrimitive(bt) {
		prim := e.toPrimitive(env, a, hintDefault)
		if isError(prim) {
			return prim
		}
		return e.abstractEquals(env, prim, b)
	}

	return FALSE
}

func isEqPrimitive(t ValueType) bool {
	switch t {
	case NUMBER_VAL, STRING_VAL, BIGINT_VAL, SYMBOL_VAL:
		return true
	}
	return false
}

func boolToNumber(b *Boolean) *Number {
	if b.Value {
		return &Number{Value: 1}
	}
	return &Number{Value: 0}
}

// relationalCompare evaluates `left op right` for <, <=, >, >=.
func (e *Evaluator) relationalCompare(env *JSObject, op string, left, right Value) Value {
	lp := e.toPrimitive(env, left, hintNumber)
	if isError(lp) {
		return lp
	}
	rp := e.toPrimitive(env, right, hintNumber)
	if isError(rp) {
		return rp
	}

	// String x String: code-unit lexicographic
	if ls, ok := lp.(*String); ok {
		if rs, ok := rp.(*String); ok {
			cmp := compareUTF16(ls.Units, rs.Units)
			return relationalResult(op, cmp, true)
		}
	}

	// BigInt involvement: exact comparison
	lb, lIsBig := lp.(*BigInt)
	rb, rIsBig := rp.(*BigInt)
	switch {
	case lIsBig && rIsBig:
		return relationalResult(op, lb.Value.Cmp(rb.Value), true)
	case lIsBig:
		rn := e.toNumber(env, rp)
		if isError(rn) {
			return rn
		}
		cmp, ok := bigIntCompareNumber(lb.Value, rn.(*Number).Value)
		return relationalResult(op, cmp, ok)
	case rIsBig:
		ln := e.toNumber(env, lp)
		if isError(ln) {
			return ln
		}
		cmp, ok := bigIntCompareNumber(rb.Value, ln.(*Number).Value)
		// reversed operand order
		return relationalResult(op, -cmp, ok)
	}

	ln := e.toNumber(env, lp)
	if isError(ln) {
		return ln
	}
	rn := e.toNumber(env, rp)
	if isError(rn) {
		return rn
	}
	lf, rf := ln.(*Number).Value, rn.(*Number).Value
	if math.IsNaN(lf) || math.IsNaN(rf) {
		return FALSE
	}
	var cmp int
	switch {
	case lf < rf:
		cmp = -1
	case lf > rf:
		cmp = 1
	}
	return relationalResult(op, cmp, true)
}

func relationalResult(op string, cmp int, defined bool) Value {
	if !defined {
		return FALSE
	}
	switch op {
	case "<":
		return nativeBoolToBooleanValue(cmp < 0)
	case "<=":
		return nativeBoolToBooleanValue(cmp <= 0)
	case ">":
		return nativeBoolToBooleanValue(cmp > 0)
	case ">=":
		return nativeBoolToBooleanValue(cmp >= 0)
	}
	return FALSE
}
