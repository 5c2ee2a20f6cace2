package evaluator

import (
	"encoding/binary"
	"math"
	"strconv"
)

// ArrayBufferData is the shared byte store behind ArrayBuffer,
// DataView and typed array values.
type ArrayBufferData struct {
	Bytes    []byte
	Detached bool
	Shared   bool
}

type ArrayBufferValue struct {
	Data *ArrayBufferData
}

func (a *ArrayBufferValue) Type() ValueType { return ARRAYBUFFER_VAL }
func (a *ArrayBufferValue) Inspect() string {
	return "ArrayBuffer { byteLength: " + strconv.Itoa(len(a.Data.Bytes)) + " }"
}

type DataViewValue struct {
	Buffer     *ArrayBufferData
	ByteOffset int
	ByteLength int
}

func (d *DataViewValue) Type() ValueType { return DATAVIEW_VAL }
func (d *DataViewValue) Inspect() string {
	return "DataView { byteLength: " + strconv.Itoa(d.ByteLength) + " }"
}

type TypedArrayKind string

const (
	Int8Array         TypedArrayKind = "Int8Array"
	Uint8Array        TypedArrayKind = "Uint8Array"
	Uint8ClampedArray TypedArrayKind = "Uint8ClampedArray"
	Int16Array        TypedArrayKind = "Int16Array"
	Uint16Array       TypedArrayKind = "Uint16Array"
	Int32Array        TypedArrayKind = "Int32Array"
	Uint32Array       TypedArrayKind = "Uint32Array"
	Float32Array      TypedArrayKind = "Float32Array"
	Float64Array      TypedArrayKind = "Float64Array"
	BigInt64Array     TypedArrayKind = "BigInt64Array"
	BigUint64Array    TypedArrayKind = "BigUint64Array"
)

func (k TypedArrayKind) ElementSize() int {
	switch k {
	case Int8Array, Uint8Array, Uint8ClampedArray:
		return 1
	case Int16Array, Uint16Array:
		return 2
	case Int32Array, Uint32Array, Float32Array:
		return 4
	default:
		return 8
	}
}

type TypedArrayValue struct {
	Kind       TypedArrayKind
	Buffer     *ArrayBufferData
	ByteOffset int
	Length     int
}

func (t *TypedArrayValue) Type() ValueType { return TYPEDARRAY_VAL }
func (t *TypedArrayValue) Inspect() string {
	return string(t.Kind) + "(" + strconv.Itoa(t.Length) + ")"
}

// GetIndex reads element i as a Number (or BigInt for the 64-bit
// integer kinds). Out-of-range reads yield undefined, matching ordinary
// typed-array semantics outside the strict path.
func (t *TypedArrayValue) GetIndex(i int) Value {
	if i < 0 || i >= t.Length || t.Buffer.Detached {
		return UNDEFINED
	}
	off := t.ByteOffset + i*t.Kind.ElementSize()
	b := t.Buffer.Bytes
	switch t.Kind {
	case Int8Array:
		return &Number{Value: float64(int8(b[off]))}
	case Uint8Array, Uint8ClampedArray:
		return &Number{Value: float64(b[off])}
	case Int16Array:
		return &Number{Value: float64(int16(binary.LittleEndian.Uint16(b[off:])))}
	case Uint16Array:
		return &Number{Value: float64(binary.LittleEndian.Uint16(b[off:]))}
	case Int32Array:
		return &Number{Value: float64(int32(binary.LittleEndian.Uint32(b[off:])))}
	case Uint32Array:
		return &Number{Value: float64(binary.LittleEndian.Uint32(b[off:]))}
	case Float32Array:
		return &Number{Value: float64(math.Float32frombits(binary.LittleEndian.Uint32(b[off:])))}
	case Float64Array:
		return &Number{Value: math.Float64frombits(binary.LittleEndian.Uint64(b[off:]))}
	case BigInt64Array:
		return bigIntFromInt64(int64(binary.LittleEndian.Uint64(b[off:])))
	case BigUint64Array:
		return bigIntFromUint64(binary.LittleEndian.Uint64(b[off:]))
	}
	return UNDEFINED
}

// SetIndex stores a numeric value at element i with the kind's
// conversion. Out-of-range writes are ignored.
func (t *TypedArrayValue) SetIndex(i int, f float64) {
	if i < 0 || i >= t.Length || t.Buffer.Detached {
		return
	}
	off := t.ByteOffset + i*t.Kind.ElementSize()
	b := t.Buffer.Bytes
	switch t.Kind {
	case Int8Array:
		b[off] = byte(int8(toInt32(f)))
	case Uint8Array:
		b[off] = byte(toUint32(f))
	case Uint8ClampedArray:
		b[off] = clampToUint8(f)
	case Int16Array:
		binary.LittleEndian.PutUint16(b[off:], uint16(int16(toInt32(f))))
	case Uint16Array:
		binary.LittleEndian.PutUint16(b[off:], uint16(toUint32(f)))
	case Int32Array:
		binary.LittleEndian.PutUint32(b[off:], uint32(toInt32(f)))
	case Uint32Array:
		binary.LittleEndian.PutUint32(b[off:], toUint32(f))
	case Float32Array:
		binary.LittleEndian.PutUint32(b[off:], math.Float32bits(float32(f)))
	case Float64Array:
		binary.LittleEndian.PutUint64(b[off:], math.Float64bits(f))
	}
}

func clampToUint8(f float64) byte {
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= 255 {
		return 255
	}
	// round half to even
	r := math.RoundToEven(f)
	return byte(r)
}
