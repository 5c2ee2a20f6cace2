package evaluator

import (
	"encoding/binary"
	"math"
	"strings"
)

// callDataViewMethod implements the getInt8..setFloat64 family. The
// optional littleEndian argument defaults to false (big-endian), per
// spec.
func (e *Evaluator) callDataViewMethod(env *JSObject, dv *DataViewValue, method string, args []Value) Value {
	arg := func(i int) Value {
		if i < len(args) {
			return args[i]
		}
		return UNDEFINED
	}

	isSet := strings.HasPrefix(method, "set")
	kindName := strings.TrimPrefix(strings.TrimPrefix(method, "set"), "get")

	size := 0
	switch kindName {
	case "Int8", "Uint8":
		size = 1
	case "Int16", "Uint16":
		size = 2
	case "Int32", "Uint32", "Float32":
		size = 4
	case "Float64", "BigInt64", "BigUint64":
		size = 8
	default:
		return newTypeError("DataView.prototype.%s is not a function", method)
	}

	offIdx := 0
	off := 0
	if n, ok := arg(offIdx).(*Number); ok {
		off = int(n.Value)
	}
	if off < 0 || off+size > dv.ByteLength {
		return newRangeError("Offset is outside the bounds of the DataView")
	}
	if dv.Buffer.Detached {
		return newTypeError("Cannot perform %s on a detached ArrayBuffer", method)
	}
	abs := dv.ByteOffset + off

	littleEndian := false
	leIdx := 1
	if isSet {
		leIdx = 2
	}
	if len(args) > leIdx {
		littleEndian = isTruthy(args[leIdx])
	}
	var order binary.ByteOrder = binary.BigEndian
	if littleEndian {
		order = binary.LittleEndian
	}
	b := dv.Buffer.Bytes

	if !isSet {
		switch kindName {
		case "Int8":
			return &Number{Value: float64(int8(b[abs]))}
		case "Uint8":
			return &Number{Value: float64(b[abs])}
		case "Int16":
			return &Number{Value: float64(int16(order.Uint16(b[abs:])))}
		case "Uint16":
			return &Number{Value: float64(order.Uint16(b[abs:]))}
		case "Int32":
			return &Number{Value: float64(int32(order.Uint32(b[abs:])))}
		case "Uint32":
			return &Number{Value: float64(order.Uint32(b[abs:]))}
		case "Float32":
			return &Number{Value: float64(math.Float32frombits(order.Uint32(b[abs:])))}
		case "Float64":
			return &Number{Value: math.Float64frombits(order.Uint64(b[abs:]))}
		case "BigInt64":
			return bigIntFromInt64(int64(order.Uint64(b[abs:])))
		case "BigUint64":
			return bigIntFromUint64(order.Uint64(b[abs:]))
		}
	}

	// set path
	if kindName == "BigInt64" || kindName == "BigUint64" {
		bi, ok := arg(1).(*BigInt)
		if !ok {
			return newTypeError("Cannot convert %s to a BigInt", arg(1).Inspect())
		}
		order.PutUint64(b[abs:], uint64(bi.Value.Int64()))
		return UNDEFINED
	}
	num := e.toNumber(env, arg(1))
	if isAbrupt(num) {
		return num
	}
	f := num.(*Number).Value
	switch kindName {
	case "Int8":
		b[abs] = byte(int8(toInt32(f)))
	case "Uint8":
		b[abs] = byte(toUint32(f))
	case "Int16":
		order.PutUint16(b[abs:], uint16(int16(toInt32(f))))
	case "Uint16":
		order.PutUint16(b[abs:], uint16(toUint32(f)))
	case "Int32":
		order.PutUint32(b[abs:], uint32(toInt32(f)))
	case "Uint32":
		order.PutUint32(b[abs:], toUint32(f))
	case "Float32":
		order.PutUint32(b[abs:], math.Float32bits(float32(f)))
	case "Float64":
		order.PutUint64(b[abs:], math.Float64bits(f))
	}
	return UNDEFINED
}
