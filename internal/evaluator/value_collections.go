package evaluator

import "strconv"

// MapData backs a JS Map: insertion-ordered entries with SameValueZero
// key identity. Linear lookup; map workloads inside the core are
// small and the order guarantee matters more.
type MapData struct {
	Keys   []Value
	Values []Value
}

type MapValue struct {
	Data *MapData
}

func (m *MapValue) Type() ValueType { return MAP_VAL }
func (m *MapValue) Inspect() string {
	return "Map(" + strconv.Itoa(len(m.Data.Keys)) + ")"
}

func (m *MapData) indexOf(key Value) int {
	for i, k := range m.Keys {
		if sameValueZero(k, key) {
			return i
		}
	}
	return -1
}

func (m *MapData) Get(key Value) (Value, bool) {
	if i := m.indexOf(key); i >= 0 {
		return m.Values[i], true
	}
	return nil, false
}

func (m *MapData) Set(key, value Value) {
	if i := m.indexOf(key); i >= 0 {
		m.Values[i] = value
		return
	}
	m.Keys = append(m.Keys, key)
	m.Values = append(m.Values, value)
}

func (m *MapData) Delete(key Value) bool {
	i := m.indexOf(key)
	if i < 0 {
		return false
	}
	m.Keys = append(m.Keys[:i], m.Keys[i+1:]...)
	m.Values = append(m.Values[:i], m.Values[i+1:]...)
	return true
}

// SetData backs a JS Set.
type SetData struct {
	Items []Value
}

type SetValue struct {
	Data *SetData
}

func (s *SetValue) Type() ValueType { return SET_VAL }
func (s *SetValue) Inspect() string {
	return "Set(" + strconv.Itoa(len(s.Data.Items)) + ")"
}

func (s *SetData) Has(v Value) bool {
	for _, item := range s.Items {
		if sameValueZero(item, v) {
			return true
		}
	}
	return false
}

func (s *SetData) Add(v Value) {
	if !s.Has(v) {
		s.Items = append(s.Items, v)
	}
}

func (s *SetData) Delete(v Value) bool {
	for i, item := range s.Items {
		if sameValueZero(item, v) {
			s.Items = append(s.Items[:i], s.Items[i+1:]...)
			return true
		}
	}
	return false
}

// WeakMapValue / WeakSetValue key off object identity. The engine does
// not drop entries eagerly; Go's collector owns memory (spec non-goal).
type WeakMapValue struct {
	Entries map[*JSObject]Value
}

func (w *WeakMapValue) Type() ValueType { return WEAKMAP_VAL }
func (w *WeakMapValue) Inspect() string { return "WeakMap { <items unknown> }" }

type WeakSetValue struct {
	Items map[*JSObject]bool
}

func (w *WeakSetValue) Type() ValueType { return WEAKSET_VAL }
func (w *WeakSetValue) Inspect() string { return "WeakSet { <items unknown> }" }
