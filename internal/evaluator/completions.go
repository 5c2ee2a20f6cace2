package evaluator

import "fmt"

// ErrorKind is the engine error taxonomy. User `throw` is NOT an
// ErrorKind: thrown values travel verbatim in a ThrowSignal.
type ErrorKind string

const (
	SyntaxError    ErrorKind = "SyntaxError"
	ReferenceError ErrorKind = "ReferenceError"
	TypeError      ErrorKind = "TypeError"
	RangeError     ErrorKind = "RangeError"
	EvalError      ErrorKind = "EvalError"
	RuntimeError   ErrorKind = "RuntimeError"
)

type StackFrame struct {
	Name   string
	File   string
	Line   int
	Column int
}

func (f StackFrame) String() string {
	name := f.Name
	if name == "" {
		name = "<anonymous>"
	}
	return fmt.Sprintf("%s (%s:%d:%d)", name, f.File, f.Line, f.Column)
}

// Error is an engine-raised error completion. It propagates out of
// every evaluator function until a try surrounds the location, where
// the catch binding materializes it as an Error-like object.
type Error struct {
	Kind       ErrorKind
	Message    string
	Line       int
	Column     int
	StackTrace []StackFrame
}

func (e *Error) Type() ValueType { return ERROR_VAL }
func (e *Error) Inspect() string { return string(e.Kind) + ": " + e.Message }

// ThrowSignal carries a user-thrown value verbatim. It survives
// finally blocks, promise rejection, and generator queues without ever
// being stringified or wrapped.
type ThrowSignal struct {
	Value  Value
	Line   int
	Column int
}

func (t *ThrowSignal) Type() ValueType { return THROW_VAL }
func (t *ThrowSignal) Inspect() string { return "throw " + inspectValue(t.Value) }

type ReturnValue struct {
	Value Value
}

func (r *ReturnValue) Type() ValueType { return RETURN_SIGNAL_VAL }
func (r *ReturnValue) Inspect() string { return "return " + inspectValue(r.Value) }

type BreakSignal struct {
	Label string
}

func (b *BreakSignal) Type() ValueType { return BREAK_SIGNAL_VAL }
func (b *BreakSignal) Inspect() string { return "break" }

type ContinueSignal struct {
	Label string
}

func (c *ContinueSignal) Type() ValueType { return CONTINUE_SIGNAL_VAL }
func (c *ContinueSignal) Inspect() string { return "continue" }

func newError(kind ErrorKind, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, a...)}
}

func newTypeError(format string, a ...interface{}) *Error {
	return newError(TypeError, format, a...)
}

func newReferenceError(format string, a ...interface{}) *Error {
	return newError(ReferenceError, format, a...)
}

func newSyntaxError(format string, a ...interface{}) *Error {
	return newError(SyntaxError, format, a...)
}

func newRangeError(format string, a ...interface{}) *Error {
	return newError(RangeError, format, a...)
}

// isError reports whether obj is an abrupt error-like completion
// (engine error or user throw).
func isError(obj Value) bool {
	if obj == nil {
		return false
	}
	t := obj.Type()
	return t == ERROR_VAL || t == THROW_VAL
}

// isAbrupt reports any non-Normal completion: engine errors, throws,
// break, continue and return.
func isAbrupt(obj Value) bool {
	if obj == nil {
		return false
	}
	switch obj.Type() {
	case ERROR_VAL, THROW_VAL, RETURN_SIGNAL_VAL, BREAK_SIGNAL_VAL, CONTINUE_SIGNAL_VAL:
		return true
	}
	return false
}

func unwrapReturnValue(obj Value) Value {
	if rv, ok := obj.(*ReturnValue); ok {
		return rv.Value
	}
	return obj
}
