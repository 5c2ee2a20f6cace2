package evaluator

import (
	"strings"

	"github.com/funvibe/funjs/internal/config"
)

// materializeThrown converts a caught completion into the value the
// catch binding observes. User throws pass through verbatim; engine
// kinds become Error-like objects with frozen name/message/stack and
// the matching constructor's prototype.
func (e *Evaluator) materializeThrown(env *JSObject, completion Value) Value {
	switch c := completion.(type) {
	case *ThrowSignal:
		return c.Value
	case *Error:
		return e.newErrorObject(env, c)
	default:
		return completion
	}
}

// newErrorObject builds the Error-like object for an engine error:
// name, message and stack are non-enumerable, non-writable,
// non-configurable; [[Prototype]] links to the kind's constructor
// prototype when the realm exposes it.
func (e *Evaluator) newErrorObject(env *JSObject, err *Error) *JSObject {
	obj := NewJSObject()
	obj.DefineFrozen(StringKey("name"), NewString(string(err.Kind)))
	obj.DefineFrozen(StringKey("message"), NewString(err.Message))

	frames := err.StackTrace
	if frames == nil {
		frames = e.assembleStack(env)
	}
	var sb strings.Builder
	sb.WriteString(string(err.Kind))
	if err.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(err.Message)
	}
	for _, fr := range frames {
		sb.WriteString("\n    at ")
		sb.WriteString(fr.String())
	}
	obj.DefineFrozen(StringKey("stack"), NewString(sb.String()))

	if proto := e.errorPrototype(env, string(err.Kind)); proto != nil {
		obj.Prototype = proto
	}
	return obj
}

// errorPrototype finds <Kind>.prototype in the realm, falling back to
// Error.prototype.
func (e *Evaluator) errorPrototype(env *JSObject, kind string) *JSObject {
	for _, name := range []string{kind, "Error"} {
		ctor, ok := envLookup(env, name)
		if !ok {
			continue
		}
		ctorObj, ok := ctor.(*JSObject)
		if !ok {
			continue
		}
		cell, ok := ctorObj.GetOwn(StringKey("prototype"))
		if !ok {
			continue
		}
		if proto, ok := cell.Value.(*JSObject); ok {
			return proto
		}
	}
	return nil
}

// assembleStack walks the __frame/__caller internal bindings on the
// environment chain for a best-effort frame list.
func (e *Evaluator) assembleStack(env *JSObject) []StackFrame {
	var frames []StackFrame
	cur := env
	for depth := 0; cur != nil && depth < 64; depth++ {
		frameVal, ok := envLookup(cur, config.FrameBinding)
		if !ok {
			break
		}
		frameObj, ok := frameVal.(*JSObject)
		if !ok {
			break
		}
		fr := StackFrame{File: e.CurrentFile}
		if cell, has := frameObj.GetOwn(StringKey("name")); has {
			if s, isStr := cell.Value.(*String); isStr {
				fr.Name = s.GoString()
			}
		}
		if cell, has := frameObj.GetOwn(StringKey("line")); has {
			if n, isNum := cell.Value.(*Number); isNum {
				fr.Line = int(n.Value)
			}
		}
		if cell, has := frameObj.GetOwn(StringKey("column")); has {
			if n, isNum := cell.Value.(*Number); isNum {
				fr.Column = int(n.Value)
			}
		}
		frames = append(frames, fr)

		callerVal, ok := envLookup(cur, config.CallerBinding)
		if !ok {
			break
		}
		caller, ok := callerVal.(*JSObject)
		if !ok {
			break
		}
		cur = caller
	}
	if frames == nil {
		frames = e.captureStack()
	}
	return frames
}

// throwCompletionFor wraps a value in a ThrowSignal carrying the given
// line and column.
func throwCompletionFor(v Value, line, column int) Value {
	return &ThrowSignal{Value: v, Line: line, Column: column}
}
