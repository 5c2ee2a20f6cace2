package evaluator

// Async generators serialize their next/throw/return requests through
// a per-generator FIFO queue; each request settles the promise handed
// back to the caller with a {value, done} result. At most one request
// is in flight per generator.

func (e *Evaluator) asyncGeneratorEnqueue(env *JSObject, gen *Generator, kind GeneratorRequestKind, v Value) Value {
	promise := NewPromise()
	gen.Pending = append(gen.Pending, &GeneratorRequest{Kind: kind, Value: v, Promise: promise})
	if !gen.Processing {
		e.processAsyncGeneratorQueue(env, gen)
	}
	return promise
}

func (e *Evaluator) processAsyncGeneratorQueue(env *JSObject, gen *Generator) {
	gen.Processing = true
	defer func() { gen.Processing = false }()

	for len(gen.Pending) > 0 {
		req := gen.Pending[0]
		gen.Pending = gen.Pending[1:]

		var result Value
		switch req.Kind {
		case ReqNext:
			result = e.generatorNext(env, gen, req.Value)
		case ReqThrow:
			result = e.generatorThrow(env, gen, req.Value)
		case ReqReturn:
			result = e.generatorReturn(env, gen, req.Value)
		}

		switch res := result.(type) {
		case *Error:
			e.rejectPromise(req.Promise.Promise, e.materializeThrown(env, res))
		case *ThrowSignal:
			e.rejectPromise(req.Promise.Promise, res.Value)
		case *PromiseValue:
			// body produced a promise-shaped iterator result
			settled := e.awaitPromise(env, res)
			if ts, bad := settled.(*ThrowSignal); bad {
				e.rejectPromise(req.Promise.Promise, ts.Value)
			} else if err, bad := settled.(*Error); bad {
				e.rejectPromise(req.Promise.Promise, e.materializeThrown(env, err))
			} else {
				e.resolvePromise(env, req.Promise.Promise, settled)
			}
		default:
			// an iterator-result object; yielded promises settle first
			if obj, ok := result.(*JSObject); ok {
				if cell, has := obj.GetOwn(StringKey("value")); has {
					if p, isP := cell.Value.(*PromiseValue); isP {
						settled := e.awaitPromise(env, p)
						if ts, bad := settled.(*ThrowSignal); bad {
							e.rejectPromise(req.Promise.Promise, ts.Value)
							continue
						}
						if err, bad := settled.(*Error); bad {
							e.rejectPromise(req.Promise.Promise, e.materializeThrown(env, err))
							continue
						}
						cell.Value = settled
					}
				}
			}
			e.resolvePromise(env, req.Promise.Promise, result)
		}
	}
}
