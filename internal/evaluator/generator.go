package evaluator

import (
	"github.com/funvibe/funjs/internal/ast"
	"github.com/funvibe/funjs/internal/config"
)

// Generator bodies run as parked coroutines: a body goroutine executes
// statements and hands control back through a channel pair at every
// yield. Control strictly alternates — the resumer blocks while the
// body runs and vice versa — so the engine stays observably
// single-threaded. This is the state-machine equivalent of the
// source's rewrite-the-first-yield resumption: yield-expression values
// land in the correct lvalue slot and early return still unwinds
// through finally blocks, because the resume arrives as an ordinary
// completion at the suspended yield. A generator abandoned while
// suspended parks its goroutine until process exit.

type genResumeKind int

const (
	resumeNext genResumeKind = iota
	resumeThrow
	resumeReturn
)

type genResume struct {
	kind  genResumeKind
	value Value
}

type genYieldKind int

const (
	yieldValue genYieldKind = iota
	yieldDone
	yieldAbrupt
)

type genYield struct {
	kind  genYieldKind
	value Value
}

// evalYieldExpr suspends the generator body: the yielded value crosses
// to the resumer, and the expression's own value is whatever the next
// resume delivers — a send value, a throw completion, or a return
// completion (which runs enclosing finally blocks on its way out).
func (e *Evaluator) evalYieldExpr(env *JSObject, node *ast.YieldExpr) Value {
	ctx := e.currentGenContext()
	if ctx == nil {
		return newSyntaxError("yield outside of generator function")
	}

	if node.Delegate {
		return e.evalYieldDelegate(env, ctx, node)
	}

	var arg Value = UNDEFINED
	if node.Argument != nil {
		arg = e.evalExpr(env, node.Argument)
		if isAbrupt(arg) {
			return arg
		}
	}
	return e.yieldToCaller(ctx.gen, arg)
}

func (e *Evaluator) yieldToCaller(gen *Generator, value Value) Value {
	gen.yieldCh <- genYield{kind: yieldValue, value: value}
	msg := <-gen.resumeCh
	switch msg.kind {
	case resumeThrow:
		return &ThrowSignal{Value: msg.value}
	case resumeReturn:
		return &ReturnValue{Value: msg.value}
	default:
		if msg.value == nil {
			return UNDEFINED
		}
		return msg.value
	}
}

// evalYieldDelegate is `yield*`: inner iterator values pass through
// one by one, with resume sends forwarded to the inner next(); the
// expression's value is the inner iterator's completion value.
func (e *Evaluator) evalYieldDelegate(env *JSObject, ctx *genContext, node *ast.YieldExpr) Value {
	src := e.evalExpr(env, node.Argument)
	if isAbrupt(src) {
		return src
	}
	iter := e.getIterator(env, src)
	if isAbrupt(iter) {
		return iter
	}
	var send Value
	for {
		value, done, abrupt := e.iteratorNext(env, iter, send)
		if abrupt != nil {
			return abrupt
		}
		if done {
			return value
		}
		res := e.yieldToCaller(ctx.gen, value)
		if isAbrupt(res) {
			e.iteratorClose(env, iter)
			return res
		}
		send = res
	}
}

func (e *Evaluator) currentGenContext() *genContext {
	if len(e.genStack) == 0 {
		return nil
	}
	return e.genStack[len(e.genStack)-1]
}

// resumeGenerator hands control to the body goroutine and blocks for
// its next suspension. The generator context is pushed around the
// handshake so yields in the body bind to this generator.
func (e *Evaluator) resumeGenerator(env *JSObject, gen *Generator, msg genResume) genYield {
	e.genStack = append(e.genStack, &genContext{gen: gen})
	defer func() {
		e.genStack = e.genStack[:len(e.genStack)-1]
	}()

	if !gen.started {
		gen.resumeCh = make(chan genResume)
		gen.yieldCh = make(chan genYield)
		gen.started = true
		go e.runGeneratorBody(env, gen)
	} else {
		gen.resumeCh <- msg
	}
	return <-gen.yieldCh
}

func (e *Evaluator) runGeneratorBody(env *JSObject, gen *Generator) {
	funcEnv, abrupt := e.prepareGeneratorEnvironment(env, gen)
	if abrupt != nil {
		gen.yieldCh <- genYield{kind: yieldAbrupt, value: abrupt}
		return
	}
	gen.PreEnv = funcEnv

	result := e.evalStatements(funcEnv, gen.Body)
	switch res := result.(type) {
	case *ReturnValue:
		gen.yieldCh <- genYield{kind: yieldDone, value: res.Value}
	case *Error, *ThrowSignal:
		gen.yieldCh <- genYield{kind: yieldAbrupt, value: result}
	default:
		gen.yieldCh <- genYield{kind: yieldDone, value: UNDEFINED}
	}
}

// prepareGeneratorEnvironment binds this/home/new.target and the
// parameters captured at the generator call.
func (e *Evaluator) prepareGeneratorEnvironment(env *JSObject, gen *Generator) (*JSObject, Value) {
	funcEnv := NewFunctionEnvironment(gen.Env)
	this := gen.This
	if this == nil {
		this = UNDEFINED
	}
	envDefine(funcEnv, config.ThisBindingName, this)
	if gen.HomeObject != nil {
		envDefine(funcEnv, config.HomeObjectBinding, gen.HomeObject)
	}
	if gen.NewTarget != nil {
		envDefine(funcEnv, config.NewTargetBinding, gen.NewTarget)
	}
	envDefine(funcEnv, config.GenThrowValBinding, UNDEFINED)

	pos := 0
	for _, param := range gen.Params {
		var abrupt Value
		pos, abrupt = e.bindParameter(funcEnv, param, gen.Args, pos)
		if abrupt != nil {
			return nil, abrupt
		}
	}
	argsObj := e.newArgumentsObject(env, &ClosureData{Name: gen.Name}, nil, gen.Args)
	envDefine(funcEnv, "arguments", argsObj)
	return funcEnv, nil
}

// generatorNext / generatorThrow / generatorReturn are the iterator
// method entry points shared by the sync dispatch and the async queue.
func (e *Evaluator) generatorNext(env *JSObject, gen *Generator, send Value) Value {
	switch gen.State {
	case GenCompleted:
		return e.newIterResultObject(UNDEFINED, true)
	case GenRunning:
		return newTypeError("Generator is already running")
	}
	gen.State = GenRunning
	out := e.resumeGenerator(env, gen, genResume{kind: resumeNext, value: send})
	return e.settleGeneratorStep(gen, out)
}

func (e *Evaluator) generatorThrow(env *JSObject, gen *Generator, v Value) Value {
	switch gen.State {
	case GenNotStarted, GenCompleted:
		gen.State = GenCompleted
		return &ThrowSignal{Value: v}
	case GenRunning:
		return newTypeError("Generator is already running")
	}
	gen.State = GenRunning
	out := e.resumeGenerator(env, gen, genResume{kind: resumeThrow, value: v})
	return e.settleGeneratorStep(gen, out)
}

func (e *Evaluator) generatorReturn(env *JSObject, gen *Generator, v Value) Value {
	switch gen.State {
	case GenNotStarted, GenCompleted:
		gen.State = GenCompleted
		return e.newIterResultObject(v, true)
	case GenRunning:
		return newTypeError("Generator is already running")
	}
	gen.State = GenRunning
	out := e.resumeGenerator(env, gen, genResume{kind: resumeReturn, value: v})
	return e.settleGeneratorStep(gen, out)
}

func (e *Evaluator) settleGeneratorStep(gen *Generator, out genYield) Value {
	switch out.kind {
	case yieldValue:
		gen.State = GenSuspended
		return e.newIterResultObject(out.value, false)
	case yieldDone:
		gen.State = GenCompleted
		return e.newIterResultObject(out.value, true)
	default:
		gen.State = GenCompleted
		return out.value
	}
}
