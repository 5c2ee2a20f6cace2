package evaluator

import (
	"sync"

	"github.com/funvibe/funjs/internal/config"
)

// The symbol registry and well-known symbol table are process-wide:
// repeated Run invocations from fresh globals share them, so a
// Symbol.for key minted in one run resolves in the next.

var wellKnownSymbols = func() map[string]*SymbolData {
	m := make(map[string]*SymbolData, len(config.WellKnownSymbols))
	for _, name := range config.WellKnownSymbols {
		m[name] = &SymbolData{Description: "Symbol." + name, HasDesc: true}
	}
	return m
}()

var symbolRegistry = struct {
	mu    sync.RWMutex
	byKey map[string]*SymbolData
}{byKey: make(map[string]*SymbolData)}

// wellKnown returns the shared well-known symbol data for a name like
// "iterator", or nil for unknown names.
func (e *Evaluator) wellKnown(name string) *SymbolData {
	return wellKnownSymbols[name]
}

// SymbolFor implements Symbol.for: one shared symbol per key.
func SymbolFor(key string) *Symbol {
	symbolRegistry.mu.Lock()
	defer symbolRegistry.mu.Unlock()
	if data, ok := symbolRegistry.byKey[key]; ok {
		return &Symbol{Data: data}
	}
	data := &SymbolData{Description: key, HasDesc: true, Registered: key}
	symbolRegistry.byKey[key] = data
	return &Symbol{Data: data}
}

// SymbolKeyFor implements Symbol.keyFor.
func SymbolKeyFor(sym *Symbol) (string, bool) {
	if sym.Data.Registered == "" {
		return "", false
	}
	symbolRegistry.mu.RLock()
	defer symbolRegistry.mu.RUnlock()
	if data, ok := symbolRegistry.byKey[sym.Data.Registered]; ok && data == sym.Data {
		return sym.Data.Registered, true
	}
	return "", false
}
