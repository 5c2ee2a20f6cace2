package evaluator

import (
	"strconv"
	"strings"
)

type PropertyKeyKind int

const (
	KeyString PropertyKeyKind = iota
	KeySymbol
	KeyPrivate
)

// PropertyKey identifies a property. Numeric indices are canonicalized
// to their decimal string form before keying. Private keys carry the
// class-evaluation id so two classes never share a private name.
type PropertyKey struct {
	Kind PropertyKeyKind
	Name string
	Sym  *SymbolData
	ID   string
}

func StringKey(name string) PropertyKey {
	return PropertyKey{Kind: KeyString, Name: name}
}

func SymbolKey(sym *SymbolData) PropertyKey {
	return PropertyKey{Kind: KeySymbol, Sym: sym}
}

func PrivateKey(name, id string) PropertyKey {
	return PropertyKey{Kind: KeyPrivate, Name: name, ID: id}
}

func (k PropertyKey) String() string {
	switch k.Kind {
	case KeySymbol:
		if k.Sym != nil && k.Sym.HasDesc {
			return "Symbol(" + k.Sym.Description + ")"
		}
		return "Symbol()"
	case KeyPrivate:
		return "#" + k.Name
	default:
		return k.Name
	}
}

// IndexKey canonicalizes a numeric index to its property key.
func IndexKey(i int) PropertyKey {
	return StringKey(strconv.Itoa(i))
}

// PropertyCell is the shared mutable slot a property maps to, so that
// accessor pairs can be updated without rewriting the outer map.
type PropertyCell struct {
	Value Value
}

// JSObject is the heap object record. Environments are JSObjects too:
// bindings live in the property table and Prototype points at the
// parent lexical environment.
type JSObject struct {
	keys       []PropertyKey
	properties map[PropertyKey]*PropertyCell

	nonEnumerable   map[PropertyKey]bool
	nonWritable     map[PropertyKey]bool
	nonConfigurable map[PropertyKey]bool

	Prototype  *JSObject
	Extensible bool

	// Internal slots; none of these surface as own properties.
	Closure         *ClosureData
	ClassDef        *ClassInfo
	DefinitionEnv   *JSObject
	HomeObject      *JSObject
	CompFieldKeys   map[int]PropertyKey
	IsFunctionScope bool
	PrivateMethods  map[PropertyKey]Value

	// IsArray marks array exotic behavior (length maintenance,
	// index-driven iteration).
	IsArray bool

	// NativeCtor marks registered native constructors ("Map", "Error",
	// ...) so `new` can dispatch them.
	NativeCtor string

	// BoundCall carries Function.prototype.bind results: the wrapped
	// callee, receiver, and leading args.
	BoundCall *BoundCallData

	// Line/Column of the statement currently executing in this
	// environment, for diagnostics.
	CurLine   int
	CurColumn int
}

type BoundCallData struct {
	Target Value
	This   Value
	Args   []Value
}

func (o *JSObject) Type() ValueType { return OBJECT_VAL }

func (o *JSObject) Inspect() string {
	if o.IsArray {
		length := o.arrayLength()
		parts := make([]string, 0, length)
		for i := 0; i < length; i++ {
			cell, ok := o.GetOwn(IndexKey(i))
			if !ok || cell.Value == nil {
				parts = append(parts, "<1 empty item>")
				continue
			}
			parts = append(parts, inspectCellValue(cell.Value))
		}
		return "[ " + strings.Join(parts, ", ") + " ]"
	}
	if o.Closure != nil {
		name := o.Closure.Name
		if name == "" {
			name = "anonymous"
		}
		return "[Function: " + name + "]"
	}
	if o.ClassDef != nil {
		return "[class " + o.ClassDef.Name + "]"
	}
	parts := []string{}
	for _, k := range o.keys {
		if o.nonEnumerable[k] || k.Kind == KeyPrivate {
			continue
		}
		cell := o.properties[k]
		parts = append(parts, k.String()+": "+inspectCellValue(cell.Value))
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func inspectCellValue(v Value) string {
	if v == nil {
		return "undefined"
	}
	if s, ok := v.(*String); ok {
		return "'" + s.GoString() + "'"
	}
	return v.Inspect()
}

// NewJSObject allocates an empty extensible object with no prototype.
func NewJSObject() *JSObject {
	return &JSObject{
		properties:      make(map[PropertyKey]*PropertyCell),
		nonEnumerable:   make(map[PropertyKey]bool),
		nonWritable:     make(map[PropertyKey]bool),
		nonConfigurable: make(map[PropertyKey]bool),
		Extensible:      true,
	}
}

// GetOwn returns the property cell for an own key.
func (o *JSObject) GetOwn(key PropertyKey) (*PropertyCell, bool) {
	cell, ok := o.properties[key]
	return cell, ok
}

// SetKey writes an own property, preserving insertion order for new
// keys. It does not consult writability; callers that need the checked
// path go through the evaluator's setMember.
func (o *JSObject) SetKey(key PropertyKey, value Value) {
	if cell, ok := o.properties[key]; ok {
		cell.Value = value
		return
	}
	cell := &PropertyCell{Value: value}
	o.properties[key] = cell
	o.keys = append(o.keys, key)
}

// DefineHidden writes a non-enumerable own property.
func (o *JSObject) DefineHidden(key PropertyKey, value Value) {
	o.SetKey(key, value)
	o.nonEnumerable[key] = true
}

// DefineFrozen writes a non-enumerable, non-writable, non-configurable
// own property (the error name/message/stack shape).
func (o *JSObject) DefineFrozen(key PropertyKey, value Value) {
	o.SetKey(key, value)
	o.nonEnumerable[key] = true
	o.nonWritable[key] = true
	o.nonConfigurable[key] = true
}

// Delete removes an own key. Returns false when the key is
// non-configurable.
func (o *JSObject) Delete(key PropertyKey) bool {
	if _, ok := o.properties[key]; !ok {
		return true
	}
	if o.nonConfigurable[key] {
		return false
	}
	delete(o.properties, key)
	delete(o.nonEnumerable, key)
	delete(o.nonWritable, key)
	delete(o.nonConfigurable, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// OwnKeys returns own keys in insertion order.
func (o *JSObject) OwnKeys() []PropertyKey {
	out := make([]PropertyKey, len(o.keys))
	copy(out, o.keys)
	return out
}

// OwnEnumerableStringKeys returns the keys for-in and object-rest see.
func (o *JSObject) OwnEnumerableStringKeys() []string {
	var out []string
	for _, k := range o.keys {
		if k.Kind != KeyString || o.nonEnumerable[k] {
			continue
		}
		out = append(out, k.Name)
	}
	return out
}

func (o *JSObject) IsEnumerable(key PropertyKey) bool {
	return !o.nonEnumerable[key]
}

func (o *JSObject) IsWritable(key PropertyKey) bool {
	return !o.nonWritable[key]
}

// HasKey walks the prototype chain for own-or-inherited membership
// (the `in` operator).
func (o *JSObject) HasKey(key PropertyKey) bool {
	for obj := o; obj != nil; obj = obj.Prototype {
		if _, ok := obj.properties[key]; ok {
			return true
		}
	}
	return false
}

// FindHolder walks the prototype chain to the object owning key.
func (o *JSObject) FindHolder(key PropertyKey) (*JSObject, *PropertyCell, bool) {
	seen := 0
	for obj := o; obj != nil; obj = obj.Prototype {
		if cell, ok := obj.properties[key]; ok {
			return obj, cell, true
		}
		seen++
		if seen > maxPrototypeDepth {
			break
		}
	}
	return nil, nil, false
}

// maxPrototypeDepth guards against cyclic prototype chains introduced
// through raw slot writes.
const maxPrototypeDepth = 10000

// arrayLength reads the canonical length property of an array object.
func (o *JSObject) arrayLength() int {
	cell, ok := o.GetOwn(StringKey("length"))
	if !ok {
		return 0
	}
	if n, ok := cell.Value.(*Number); ok {
		return int(n.Value)
	}
	return 0
}

func (o *JSObject) setArrayLength(n int) {
	o.DefineHidden(StringKey("length"), &Number{Value: float64(n)})
}

// NewArray builds an array object; nil elements become holes.
func NewArray(elements []Value) *JSObject {
	arr := NewJSObject()
	arr.IsArray = true
	for i, el := range elements {
		if el == nil {
			continue
		}
		arr.SetKey(IndexKey(i), el)
	}
	arr.setArrayLength(len(elements))
	return arr
}

// appendToArray pushes one element, maintaining length.
func appendToArray(arr *JSObject, v Value) {
	n := arr.arrayLength()
	arr.SetKey(IndexKey(n), v)
	arr.setArrayLength(n + 1)
}

// arrayElements snapshots the dense elements of an array object.
// Holes read as undefined.
func arrayElements(arr *JSObject) []Value {
	n := arr.arrayLength()
	out := make([]Value, n)
	for i := 0; i < n; i++ {
		if cell, ok := arr.GetOwn(IndexKey(i)); ok && cell.Value != nil {
			out[i] = cell.Value
		} else {
			out[i] = UNDEFINED
		}
	}
	return out
}

// canonicalIndex converts a value already known to be a valid array
// index string back to an int; returns -1 when the key is not a
// canonical index.
func canonicalIndex(name string) int {
	if name == "" {
		return -1
	}
	if name == "0" {
		return 0
	}
	if name[0] == '0' {
		return -1
	}
	n, err := strconv.Atoi(name)
	if err != nil || n < 0 {
		return -1
	}
	return n
}
