package evaluator

import (
	"fmt"
	"io"
	"os"

	"github.com/funvibe/funjs/internal/ast"
	"github.com/funvibe/funjs/internal/config"
)

// CallFrame is one entry of the evaluator call stack, used for error
// stack assembly.
type CallFrame struct {
	Name   string
	File   string
	Line   int
	Column int
}

// ModuleLoader resolves a module specifier to its namespace value.
// The concrete loader lives in internal/modules; the evaluator only
// sees this interface.
type ModuleLoader interface {
	LoadModule(e *Evaluator, name string, fromURL string) (Value, error)
}

// Diagnostic is the record an uncaught top-level error surfaces as.
type Diagnostic struct {
	Kind    string
	Message string
	Line    int
	Column  int
	Stack   []string
	// Thrown holds the original JS value for user throws; never
	// stringified away.
	Thrown Value
}

func (d *Diagnostic) String() string {
	msg := d.Kind
	if d.Message != "" {
		msg += ": " + d.Message
	}
	if d.Line > 0 {
		msg += fmt.Sprintf(" (%d:%d)", d.Line, d.Column)
	}
	for _, fr := range d.Stack {
		msg += "\n    at " + fr
	}
	return msg
}

// genContext tracks the generator whose body currently owns
// execution, so yield expressions bind to the right suspension
// handshake.
type genContext struct {
	gen *Generator
}

type Evaluator struct {
	Out io.Writer

	Options config.Options

	// Loader for modules; BaseDir anchors relative specifiers.
	Loader      ModuleLoader
	BaseDir     string
	ModuleCache map[string]Value

	// CallStack for stack traces on errors.
	CallStack   []CallFrame
	CurrentFile string

	// microtasks is the promise-reaction queue, drained to empty
	// before Run returns control to the host.
	microtasks []func()

	// genStack holds the generator contexts of bodies currently
	// executing; the innermost one owns yield expressions.
	genStack []*genContext

	evalDepth int
}

func New() *Evaluator {
	return &Evaluator{
		Out:         os.Stdout,
		Options:     config.DefaultOptions(),
		ModuleCache: make(map[string]Value),
	}
}

// Run evaluates a program in env, drains the microtask queue, and
// reports an uncaught abrupt completion as a Diagnostic.
func (e *Evaluator) Run(env *JSObject, program *ast.Program) (Value, *Diagnostic) {
	if program.File != "" {
		e.CurrentFile = program.File
	}
	result := e.evalStatements(env, program.Statements)
	e.DrainMicrotasks()

	switch res := result.(type) {
	case *Error:
		return nil, e.diagnosticFromError(res)
	case *ThrowSignal:
		return nil, e.diagnosticFromThrow(res)
	case *ReturnValue:
		return res.Value, nil
	case *BreakSignal, *ContinueSignal:
		return nil, e.diagnosticFromError(newSyntaxError("Illegal break or continue statement"))
	case nil:
		return UNDEFINED, nil
	default:
		return result, nil
	}
}

func (e *Evaluator) diagnosticFromError(err *Error) *Diagnostic {
	d := &Diagnostic{
		Kind:    string(err.Kind),
		Message: err.Message,
		Line:    err.Line,
		Column:  err.Column,
	}
	for _, fr := range err.StackTrace {
		d.Stack = append(d.Stack, StackFrame{Name: fr.Name, File: fr.File, Line: fr.Line, Column: fr.Column}.String())
	}
	return d
}

func (e *Evaluator) diagnosticFromThrow(ts *ThrowSignal) *Diagnostic {
	d := &Diagnostic{
		Kind:   "Uncaught",
		Line:   ts.Line,
		Column: ts.Column,
		Thrown: ts.Value,
	}
	if ts.Value != nil {
		d.Message = ts.Value.Inspect()
	}
	return d
}

// EnqueueMicrotask appends a promise-reaction job.
func (e *Evaluator) EnqueueMicrotask(job func()) {
	e.microtasks = append(e.microtasks, job)
}

// DrainMicrotasks runs jobs in FIFO order until the queue is empty;
// jobs posted during the drain run in the same drain.
func (e *Evaluator) DrainMicrotasks() {
	for len(e.microtasks) > 0 {
		job := e.microtasks[0]
		e.microtasks = e.microtasks[1:]
		job()
	}
}

// PushCall / PopCall maintain the diagnostic call stack.
func (e *Evaluator) PushCall(name string, line, column int) {
	e.CallStack = append(e.CallStack, CallFrame{Name: name, File: e.CurrentFile, Line: line, Column: column})
}

func (e *Evaluator) PopCall() {
	if len(e.CallStack) > 0 {
		e.CallStack = e.CallStack[:len(e.CallStack)-1]
	}
}

func (e *Evaluator) captureStack() []StackFrame {
	frames := make([]StackFrame, 0, len(e.CallStack))
	for i := len(e.CallStack) - 1; i >= 0; i-- {
		fr := e.CallStack[i]
		frames = append(frames, StackFrame{Name: fr.Name, File: fr.File, Line: fr.Line, Column: fr.Column})
	}
	return frames
}

func (e *Evaluator) maxDepth() int {
	if e.Options.MaxEvalDepth > 0 {
		return e.Options.MaxEvalDepth
	}
	return config.DefaultMaxEvalDepth
}

// evalExpr evaluates an expression to a value or an abrupt completion.
func (e *Evaluator) evalExpr(env *JSObject, expr ast.Expression) Value {
	e.evalDepth++
	if e.evalDepth > e.maxDepth() {
		e.evalDepth--
		return newError(RuntimeError, "maximum call stack size exceeded")
	}
	result := e.evalExprCore(env, expr)
	e.evalDepth--

	if err, ok := result.(*Error); ok && err.Line == 0 && expr != nil {
		tok := expr.GetToken()
		err.Line = tok.Line
		err.Column = tok.Column
	}
	return result
}

func (e *Evaluator) evalExprCore(env *JSObject, expr ast.Expression) Value {
	switch node := expr.(type) {
	case *ast.NumberLiteral:
		return &Number{Value: node.Value}
	case *ast.BigIntLiteral:
		return &BigInt{Value: node.Value}
	case *ast.StringLiteral:
		return NewString(node.Value)
	case *ast.BooleanLiteral:
		return nativeBoolToBooleanValue(node.Value)
	case *ast.NullLiteral:
		return NULL
	case *ast.ValueExpr:
		if v, ok := node.Value.(Value); ok {
			return v
		}
		return UNDEFINED
	case *ast.Identifier:
		return e.evalIdentifier(env, node)
	case *ast.TemplateLiteral:
		return e.evalTemplateLiteral(env, node)
	case *ast.TaggedTemplate:
		return e.evalTaggedTemplate(env, node)
	case *ast.RegexLiteral:
		return e.evalRegexLiteral(env, node)
	case *ast.ArrayLiteral:
		return e.evalArrayLiteral(env, node)
	case *ast.ObjectLiteral:
		return e.evalObjectLiteral(env, node)
	case *ast.FunctionExpr:
		return e.evalFunctionExpr(env, node)
	case *ast.ClassExpr:
		return e.evalClassDefinition(env, node.Def)
	case *ast.MemberExpr:
		return e.evalMemberExpr(env, node)
	case *ast.IndexExpr:
		return e.evalIndexExpr(env, node)
	case *ast.CallExpr:
		return e.evalCallExpr(env, node)
	case *ast.NewExpr:
		return e.evalNewExpr(env, node)
	case *ast.PrefixExpr:
		return e.evalPrefixExpr(env, node)
	case *ast.InfixExpr:
		return e.evalInfixExpr(env, node)
	case *ast.AssignExpr:
		return e.evalAssignExpr(env, node)
	case *ast.UpdateExpr:
		return e.evalUpdateExpr(env, node)
	case *ast.ConditionalExpr:
		test := e.evalExpr(env, node.Test)
		if isAbrupt(test) {
			return test
		}
		if isTruthy(test) {
			return e.evalExpr(env, node.Consequent)
		}
		return e.evalExpr(env, node.Alternate)
	case *ast.SequenceExpr:
		var last Value = UNDEFINED
		for _, ex := range node.Exprs {
			last = e.evalExpr(env, ex)
			if isAbrupt(last) {
				return last
			}
		}
		return last
	case *ast.YieldExpr:
		return e.evalYieldExpr(env, node)
	case *ast.AwaitExpr:
		return e.evalAwaitExpr(env, node)
	case *ast.SuperCall:
		return e.evalSuperCall(env, node)
	case *ast.SuperProperty:
		return e.evalSuperProperty(env, node)
	case *ast.SuperMethod:
		return e.evalSuperMethod(env, node)
	case *ast.NewTargetExpr:
		if v, ok := envLookup(env, config.NewTargetBinding); ok {
			return v
		}
		return UNDEFINED
	case *ast.ImportCall:
		return e.evalImportCall(env, node)
	case *ast.SpreadElement:
		return newSyntaxError("Unexpected token '...'")
	case *ast.ArrayPattern, *ast.ObjectPattern:
		return newSyntaxError("Invalid destructuring assignment target position")
	case nil:
		return UNDEFINED
	default:
		return newError(EvalError, "unknown expression node %T", expr)
	}
}
