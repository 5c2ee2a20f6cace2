package evaluator

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

type primitiveHint int

const (
	hintDefault primitiveHint = iota
	hintNumber
	hintString
)

func bigIntFromInt64(v int64) *BigInt {
	return &BigInt{Value: big.NewInt(v)}
}

func bigIntFromUint64(v uint64) *BigInt {
	return &BigInt{Value: new(big.Int).SetUint64(v)}
}

// isNullish is the base test for optional chaining and ??.
func isNullish(v Value) bool {
	if v == nil {
		return true
	}
	t := v.Type()
	return t == UNDEFINED_VAL || t == NULL_VAL
}

// isTruthy is ToBoolean.
func isTruthy(v Value) bool {
	switch val := v.(type) {
	case *Undefined, *Null, *Uninitialized:
		return false
	case *Boolean:
		return val.Value
	case *Number:
		return val.Value != 0 && !math.IsNaN(val.Value)
	case *BigInt:
		return val.Value.Sign() != 0
	case *String:
		return len(val.Units) > 0
	default:
		return true
	}
}

// toPrimitive applies OrdinaryToPrimitive, honoring a user
// Symbol.toPrimitive method on objects.
func (e *Evaluator) toPrimitive(env *JSObject, v Value, hint primitiveHint) Value {
	obj, ok := v.(*JSObject)
	if !ok {
		return v
	}

	if sym := e.wellKnown("toPrimitive"); sym != nil {
		if _, cell, found := obj.FindHolder(SymbolKey(sym)); found && cell.Value != nil {
			hintStr := "default"
			switch hint {
			case hintNumber:
				hintStr = "number"
			case hintString:
				hintStr = "string"
			}
			res := e.callFunction(env, cell.Value, v, []Value{NewString(hintStr)})
			if isError(res) {
				return res
			}
			if _, stillObj := res.(*JSObject); !stillObj {
				return res
			}
			return newTypeError("Cannot convert object to primitive value")
		}
	}

	order := []string{"valueOf", "toString"}
	if hint == hintString {
		order = []string{"toString", "valueOf"}
	}
	for _, name := range order {
		if _, cell, found := obj.FindHolder(StringKey(name)); found && cell.Value != nil && isCallable(cell.Value) {
			res := e.callFunction(env, cell.Value, v, nil)
			if isError(res) {
				return res
			}
			if _, stillObj := res.(*JSObject); !stillObj {
				return res
			}
		}
	}

	// Default renderings for objects without usable valueOf/toString.
	if obj.IsArray {
		return NewString(e.arrayJoin(env, obj, ","))
	}
	if obj.Closure != nil || obj.ClassDef != nil {
		return NewString(obj.Inspect())
	}
	return NewString("[object Object]")
}

// toNumber implements ToNumber. Symbol and BigInt conversion throw.
func (e *Evaluator) toNumber(env *JSObject, v Value) Value {
	switch val := v.(type) {
	case *Number:
		return val
	case *Undefined:
		return &Number{Value: math.NaN()}
	case *Null:
		return &Number{Value: 0}
	case *Boolean:
		if val.Value {
			return &Number{Value: 1}
		}
		return &Number{Value: 0}
	case *String:
		return &Number{Value: stringToNumber(val.GoString())}
	case *Symbol:
		return newTypeError("Cannot convert a Symbol value to a number")
	case *BigInt:
		return newTypeError("Cannot convert a BigInt value to a number")
	case *JSObject:
		prim := e.toPrimitive(env, v, hintNumber)
		if isError(prim) {
			return prim
		}
		return e.toNumber(env, prim)
	default:
		return &Number{Value: math.NaN()}
	}
}

// stringToNumber follows the StringNumericLiteral grammar closely
// enough for the core: trimmed empty is 0, hex/octal/binary prefixes,
// Infinity, otherwise decimal.
func stringToNumber(s string) float64 {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0
	}
	neg := false
	body := t
	if strings.HasPrefix(body, "+") {
		body = body[1:]
	} else if strings.HasPrefix(body, "-") {
		neg = true
		body = body[1:]
	}
	if body == "Infinity" {
		if neg {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	var f float64
	var err error
	switch {
	case strings.HasPrefix(body, "0x") || strings.HasPrefix(body, "0X"):
		var n uint64
		n, err = strconv.ParseUint(body[2:], 16, 64)
		f = float64(n)
	case strings.HasPrefix(body, "0o") || strings.HasPrefix(body, "0O"):
		var n uint64
		n, err = strconv.ParseUint(body[2:], 8, 64)
		f = float64(n)
	case strings.HasPrefix(body, "0b") || strings.HasPrefix(body, "0B"):
		var n uint64
		n, err = strconv.ParseUint(body[2:], 2, 64)
		f = float64(n)
	default:
		f, err = strconv.ParseFloat(body, 64)
	}
	if err != nil {
		return math.NaN()
	}
	if neg {
		return -f
	}
	return f
}

// toString implements ToString; Symbols throw on implicit conversion.
func (e *Evaluator) toString(env *JSObject, v Value) Value {
	switch val := v.(type) {
	case *String:
		return val
	case *Undefined:
		return NewString("undefined")
	case *Null:
		return NewString("null")
	case *Boolean:
		return NewString(strconv.FormatBool(val.Value))
	case *Number:
		return NewString(FormatNumber(val.Value))
	case *BigInt:
		return NewString(val.Value.String())
	case *Symbol:
		return newTypeError("Cannot convert a Symbol value to a string")
	case *JSObject:
		prim := e.toPrimitive(env, v, hintString)
		if isError(prim) {
			return prim
		}
		return e.toString(env, prim)
	default:
		return NewString(v.Inspect())
	}
}

// toPropertyKey converts a computed-member key: Symbols key as
// themselves, everything else through ToString.
func (e *Evaluator) toPropertyKey(env *JSObject, v Value) (PropertyKey, *Error) {
	switch val := v.(type) {
	case *Symbol:
		return SymbolKey(val.Data), nil
	case *PrivateName:
		return PrivateKey(val.Name, val.ID), nil
	case *Number:
		// canonical numeric index form
		return StringKey(FormatNumber(val.Value)), nil
	default:
		s := e.toString(env, v)
		if err, ok := s.(*Error); ok {
			return PropertyKey{}, err
		}
		if ts, ok := s.(*ThrowSignal); ok {
			_ = ts
			return PropertyKey{}, newTypeError("Cannot convert value to property key")
		}
		return StringKey(s.(*String).GoString()), nil
	}
}

// toInt32 / toUint32 implement the 32-bit conversions used by the
// bitwise family; shift counts mask with 0x1f at the call sites.
func toInt32(f float64) int32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int32(uint32(int64(math.Trunc(f))))
}

func toUint32(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return uint32(int64(math.Trunc(f)))
}

// toObject rejects nullish values with a TypeError and returns every
// other value unchanged; primitives are not wrapped.
func (e *Evaluator) toObject(env *JSObject, v Value) Value {
	switch v.(type) {
	case *Undefined:
		return newTypeError("Cannot convert undefined to object")
	case *Null:
		return newTypeError("Cannot convert null to object")
	default:
		return v
	}
}

// arrayJoin renders array elements for the default toString path.
func (e *Evaluator) arrayJoin(env *JSObject, arr *JSObject, sep string) string {
	n := arr.arrayLength()
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		cell, ok := arr.GetOwn(IndexKey(i))
		if !ok || cell.Value == nil || isNullish(cell.Value) {
			parts = append(parts, "")
			continue
		}
		s := e.toString(env, cell.Value)
		if str, ok := s.(*String); ok {
			parts = append(parts, str.GoString())
		} else {
			parts = append(parts, "")
		}
	}
	return strings.Join(parts, sep)
}
