package evaluator

import (
	"math"
	"strconv"
	"strings"
)

func (e *Evaluator) callStringMethod(env *JSObject, recv *String, method string, args []Value) Value {
	arg := func(i int) Value {
		if i < len(args) {
			return args[i]
		}
		return UNDEFINED
	}
	str := recv.GoString()

	switch method {
	case "@@iterator":
		var cps []Value
		for _, cp := range codePointsOf(recv.Units) {
			cps = append(cps, &String{Units: cp})
		}
		return e.newArrayIterator(env, NewArray(cps))
	case "toString", "valueOf":
		return recv
	case "charAt":
		i := 0
		if n, ok := arg(0).(*Number); ok {
			i = int(n.Value)
		}
		if i < 0 || i >= len(recv.Units) {
			return NewString("")
		}
		return &String{Units: []uint16{recv.Units[i]}}
	case "charCodeAt":
		i := 0
		if n, ok := arg(0).(*Number); ok {
			i = int(n.Value)
		}
		if i < 0 || i >= len(recv.Units) {
			return &Number{Value: math.NaN()}
		}
		return &Number{Value: float64(recv.Units[i])}
	case "codePointAt":
		i := 0
		if n, ok := arg(0).(*Number); ok {
			i = int(n.Value)
		}
		if i < 0 || i >= len(recv.Units) {
			return UNDEFINED
		}
		u := recv.Units[i]
		if u >= 0xD800 && u <= 0xDBFF && i+1 < len(recv.Units) {
			next := recv.Units[i+1]
			if next >= 0xDC00 && next <= 0xDFFF {
				cp := 0x10000 + (int(u)-0xD800)<<10 + (int(next) - 0xDC00)
				return &Number{Value: float64(cp)}
			}
		}
		return &Number{Value: float64(u)}
	case "indexOf":
		s := e.toString(env, arg(0))
		if isAbrupt(s) {
			return s
		}
		return &Number{Value: float64(indexOfUTF16(recv.Units, s.(*String).Units))}
	case "includes":
		s := e.toString(env, arg(0))
		if isAbrupt(s) {
			return s
		}
		return nativeBoolToBooleanValue(indexOfUTF16(recv.Units, s.(*String).Units) >= 0)
	case "startsWith":
		s := e.toString(env, arg(0))
		if isAbrupt(s) {
			return s
		}
		needle := s.(*String).Units
		return nativeBoolToBooleanValue(len(recv.Units) >= len(needle) && utf16Equal(recv.Units[:len(needle)], needle))
	case "endsWith":
		s := e.toString(env, arg(0))
		if isAbrupt(s) {
			return s
		}
		needle := s.(*String).Units
		return nativeBoolToBooleanValue(len(recv.Units) >= len(needle) && utf16Equal(recv.Units[len(recv.Units)-len(needle):], needle))
	case "slice":
		start, end := sliceRange(len(recv.Units), arg(0), arg(1))
		return &String{Units: append([]uint16{}, recv.Units[start:end]...)}
	case "substring":
		start, end := 0, len(recv.Units)
		if n, ok := arg(0).(*Number); ok {
			start = clampIndex(int(n.Value), len(recv.Units))
		}
		if n, ok := arg(1).(*Number); ok {
			end = clampIndex(int(n.Value), len(recv.Units))
		}
		if start > end {
			start, end = end, start
		}
		return &String{Units: append([]uint16{}, recv.Units[start:end]...)}
	case "at":
		i := 0
		if n, ok := arg(0).(*Number); ok {
			i = int(n.Value)
		}
		if i < 0 {
			i += len(recv.Units)
		}
		if i < 0 || i >= len(recv.Units) {
			return UNDEFINED
		}
		return &String{Units: []uint16{recv.Units[i]}}
	case "toUpperCase":
		return NewString(strings.ToUpper(str))
	case "toLowerCase":
		return NewString(strings.ToLower(str))
	case "trim":
		return NewString(strings.TrimSpace(str))
	case "trimStart":
		return NewString(strings.TrimLeft(str, " \t\n\r"))
	case "trimEnd":
		return NewString(strings.TrimRight(str, " \t\n\r"))
	case "split":
		sep, ok := arg(0).(*String)
		if !ok {
			return NewArray([]Value{recv})
		}
		var out []Value
		for _, part := range strings.Split(str, sep.GoString()) {
			out = append(out, NewString(part))
		}
		return NewArray(out)
	case "repeat":
		n := 0
		if num, ok := arg(0).(*Number); ok {
			n = int(num.Value)
		}
		if n < 0 {
			return newRangeError("Invalid count value: %d", n)
		}
		return NewString(strings.Repeat(str, n))
	case "concat":
		units := append([]uint16{}, recv.Units...)
		for _, a := range args {
			s := e.toString(env, a)
			if isAbrupt(s) {
				return s
			}
			units = append(units, s.(*String).Units...)
		}
		return &String{Units: units}
	case "padStart", "padEnd":
		target := 0
		if n, ok := arg(0).(*Number); ok {
			target = int(n.Value)
		}
		pad := " "
		if s, ok := arg(1).(*String); ok {
			pad = s.GoString()
		}
		if target <= len(recv.Units) || pad == "" {
			return recv
		}
		fill := strings.Repeat(pad, (target-len(recv.Units))/len(GoToUTF16(pad))+1)
		fillUnits := GoToUTF16(fill)[:target-len(recv.Units)]
		if method == "padStart" {
			return &String{Units: append(fillUnits, recv.Units...)}
		}
		return &String{Units: append(append([]uint16{}, recv.Units...), fillUnits...)}
	case "replace":
		pat, ok1 := arg(0).(*String)
		rep, ok2 := arg(1).(*String)
		if ok1 && ok2 {
			return NewString(strings.Replace(str, pat.GoString(), rep.GoString(), 1))
		}
		return newTypeError("String.prototype.replace with non-string arguments requires the RegExp collaborator")
	case "replaceAll":
		pat, ok1 := arg(0).(*String)
		rep, ok2 := arg(1).(*String)
		if ok1 && ok2 {
			return NewString(strings.ReplaceAll(str, pat.GoString(), rep.GoString()))
		}
		return newTypeError("String.prototype.replaceAll with non-string arguments requires the RegExp collaborator")
	case "localeCompare":
		s := e.toString(env, arg(0))
		if isAbrupt(s) {
			return s
		}
		return &Number{Value: float64(compareUTF16(recv.Units, s.(*String).Units))}
	}
	return newTypeError("String.prototype.%s is not implemented by the engine core", method)
}

func clampIndex(i, length int) int {
	if i < 0 {
		return 0
	}
	if i > length {
		return length
	}
	return i
}

func indexOfUTF16(haystack, needle []uint16) int {
	if len(needle) == 0 {
		return 0
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if utf16Equal(haystack[i:i+len(needle)], needle) {
			return i
		}
	}
	return -1
}

func formatFixed(f float64, digits int) string {
	if digits < 0 {
		digits = 0
	}
	return strconv.FormatFloat(f, 'f', digits, 64)
}
