package evaluator

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

type ValueType string

const (
	UNDEFINED_VAL     ValueType = "UNDEFINED"
	NULL_VAL          ValueType = "NULL"
	BOOLEAN_VAL       ValueType = "BOOLEAN"
	NUMBER_VAL        ValueType = "NUMBER"
	BIGINT_VAL        ValueType = "BIGINT"
	STRING_VAL        ValueType = "STRING"
	SYMBOL_VAL        ValueType = "SYMBOL"
	OBJECT_VAL        ValueType = "OBJECT"
	BUILTIN_VAL       ValueType = "BUILTIN"
	PROPERTY_VAL      ValueType = "PROPERTY"
	GETTER_VAL        ValueType = "GETTER"
	SETTER_VAL        ValueType = "SETTER"
	PROMISE_VAL       ValueType = "PROMISE"
	MAP_VAL           ValueType = "MAP"
	SET_VAL           ValueType = "SET"
	WEAKMAP_VAL       ValueType = "WEAKMAP"
	WEAKSET_VAL       ValueType = "WEAKSET"
	ARRAYBUFFER_VAL   ValueType = "ARRAYBUFFER"
	DATAVIEW_VAL      ValueType = "DATAVIEW"
	TYPEDARRAY_VAL    ValueType = "TYPEDARRAY"
	GENERATOR_VAL     ValueType = "GENERATOR"
	ASYNC_GEN_VAL     ValueType = "ASYNC_GENERATOR"
	PROXY_VAL         ValueType = "PROXY"
	PRIVATE_NAME_VAL  ValueType = "PRIVATE_NAME"
	UNINITIALIZED_VAL ValueType = "UNINITIALIZED"

	// Function-like variants without a wrapper object.
	CLOSURE_VAL       ValueType = "CLOSURE"
	ASYNC_CLOSURE_VAL ValueType = "ASYNC_CLOSURE"
	GENERATOR_FN_VAL  ValueType = "GENERATOR_FUNCTION"
	ASYNC_GEN_FN_VAL  ValueType = "ASYNC_GENERATOR_FUNCTION"

	// Completion signals. These flow out of statement evaluation the
	// way funxy's Break/Continue/Return signals do; they are never
	// visible to user code.
	ERROR_VAL           ValueType = "ERROR"
	THROW_VAL           ValueType = "THROW"
	RETURN_SIGNAL_VAL   ValueType = "RETURN_SIGNAL"
	BREAK_SIGNAL_VAL    ValueType = "BREAK_SIGNAL"
	CONTINUE_SIGNAL_VAL ValueType = "CONTINUE_SIGNAL"
)

// Value is the engine's tagged value representation. Object-like
// variants compare by pointer; primitives by payload.
type Value interface {
	Type() ValueType
	Inspect() string
}

type Undefined struct{}

func (u *Undefined) Type() ValueType { return UNDEFINED_VAL }
func (u *Undefined) Inspect() string { return "undefined" }

type Null struct{}

func (n *Null) Type() ValueType { return NULL_VAL }
func (n *Null) Inspect() string { return "null" }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ValueType { return BOOLEAN_VAL }
func (b *Boolean) Inspect() string { return strconv.FormatBool(b.Value) }

// Number is an IEEE-754 double. NaN is a single value for equality
// purposes but NaN !== NaN per spec.
type Number struct {
	Value float64
}

func (n *Number) Type() ValueType { return NUMBER_VAL }
func (n *Number) Inspect() string { return FormatNumber(n.Value) }

// FormatNumber renders a float64 the way JS ToString does for the
// cases the engine itself needs (integers without a trailing ".0",
// NaN/Infinity spelled out).
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == math.Trunc(f) && math.Abs(f) < 1e21:
		if f == 0 && math.Signbit(f) {
			return "0"
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

type BigInt struct {
	Value *big.Int
}

func (b *BigInt) Type() ValueType { return BIGINT_VAL }
func (b *BigInt) Inspect() string { return b.Value.String() + "n" }

// String is a sequence of UTF-16 code units, not code points. Indexing
// and length are in code units; iteration is by code point.
type String struct {
	Units []uint16
}

func (s *String) Type() ValueType { return STRING_VAL }
func (s *String) Inspect() string { return UTF16ToGo(s.Units) }

type SymbolData struct {
	Description string
	// Registered is set for Symbol.for symbols; it is the registry key.
	Registered string
	HasDesc    bool
}

type Symbol struct {
	Data *SymbolData
}

func (s *Symbol) Type() ValueType { return SYMBOL_VAL }
func (s *Symbol) Inspect() string {
	if s.Data.HasDesc {
		return "Symbol(" + s.Data.Description + ")"
	}
	return "Symbol()"
}

// Builtin dispatches to a named native handler.
type Builtin struct {
	Name string
}

func (b *Builtin) Type() ValueType { return BUILTIN_VAL }
func (b *Builtin) Inspect() string { return "function " + b.Name + "() { [native code] }" }

// PropertyDescriptor is the slot form a property map cell may hold when
// a property carries accessors or explicit attributes. Readers must
// also handle bare Getter/Setter slots.
type PropertyDescriptor struct {
	Value    Value
	HasValue bool
	Getter   Value // callable, or nil
	Setter   Value // callable, or nil
}

func (p *PropertyDescriptor) Type() ValueType { return PROPERTY_VAL }
func (p *PropertyDescriptor) Inspect() string {
	parts := []string{}
	if p.HasValue && p.Value != nil {
		parts = append(parts, "value: "+p.Value.Inspect())
	}
	if p.Getter != nil {
		parts = append(parts, "get")
	}
	if p.Setter != nil {
		parts = append(parts, "set")
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Getter / Setter are the bare single-sided accessor slot forms.
type Getter struct {
	Fn Value
}

func (g *Getter) Type() ValueType { return GETTER_VAL }
func (g *Getter) Inspect() string { return "getter" }

type Setter struct {
	Fn Value
}

func (s *Setter) Type() ValueType { return SETTER_VAL }
func (s *Setter) Inspect() string { return "setter" }

// PrivateName is a class-scoped identity: fresh ID per class
// evaluation, equality by ID.
type PrivateName struct {
	Name string
	ID   string
}

func (p *PrivateName) Type() ValueType { return PRIVATE_NAME_VAL }
func (p *PrivateName) Inspect() string { return "#" + p.Name }

// Uninitialized is the TDZ sentinel for a derived constructor's `this`
// before super() runs.
type Uninitialized struct{}

func (u *Uninitialized) Type() ValueType { return UNINITIALIZED_VAL }
func (u *Uninitialized) Inspect() string { return "<uninitialized>" }

var (
	UNDEFINED = &Undefined{}
	NULL      = &Null{}
	TRUE      = &Boolean{Value: true}
	FALSE     = &Boolean{Value: false}
	UNINIT    = &Uninitialized{}
)

func nativeBoolToBooleanValue(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// NewString builds a String value from a Go string.
func NewString(s string) *String {
	return &String{Units: GoToUTF16(s)}
}

// GoString returns the lossy Go rendering of a String value. Only used
// at diagnostic and property-key edges.
func (s *String) GoString() string {
	return UTF16ToGo(s.Units)
}

func inspectValue(v Value) string {
	if v == nil {
		return "<nil>"
	}
	return v.Inspect()
}
