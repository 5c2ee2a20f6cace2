package evaluator

type PromiseState int

const (
	PromisePending PromiseState = iota
	PromiseFulfilled
	PromiseRejected
)

// PromiseReaction is a captured handler enqueued onto the microtask
// queue at settlement.
type PromiseReaction func(v Value)

// JSPromise is the promise record. Reactions registered while pending
// fire in FIFO order when the promise settles.
type JSPromise struct {
	State       PromiseState
	Value       Value
	OnFulfilled []PromiseReaction
	OnRejected  []PromiseReaction
	// Handled records that a reaction was attached to the promise; the
	// engine does not report unhandled rejections.
	Handled bool
}

type PromiseValue struct {
	Promise *JSPromise
}

func (p *PromiseValue) Type() ValueType { return PROMISE_VAL }
func (p *PromiseValue) Inspect() string {
	switch p.Promise.State {
	case PromiseFulfilled:
		return "Promise { " + inspectValue(p.Promise.Value) + " }"
	case PromiseRejected:
		return "Promise { <rejected> " + inspectValue(p.Promise.Value) + " }"
	default:
		return "Promise { <pending> }"
	}
}

func NewPromise() *PromiseValue {
	return &PromiseValue{Promise: &JSPromise{State: PromisePending}}
}

func NewFulfilledPromise(v Value) *PromiseValue {
	return &PromiseValue{Promise: &JSPromise{State: PromiseFulfilled, Value: v}}
}

func NewRejectedPromise(v Value) *PromiseValue {
	return &PromiseValue{Promise: &JSPromise{State: PromiseRejected, Value: v}}
}
