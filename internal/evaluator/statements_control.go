package evaluator

import (
	"github.com/funvibe/funjs/internal/ast"
)

// evalTryStatement implements the completion-override rules: a Normal
// try completion is followed by finally, which may override with its
// own abrupt completion; a thrown value runs catch (bound verbatim for
// user throws, wrapped for engine kinds); finally runs regardless.
func (e *Evaluator) evalTryStatement(env *JSObject, node *ast.TryStatement) Value {
	tryEnv := NewEnclosedEnvironment(env)
	result := e.evalStatements(tryEnv, node.Block)

	if isError(result) && node.HasHandler {
		catchEnv := NewEnclosedEnvironment(env)
		thrown := e.materializeThrown(env, result)
		if isAbrupt(thrown) {
			return thrown
		}
		if node.CatchPattern != nil {
			if res := e.destructureObject(catchEnv, node.CatchPattern.Elements, thrown, declareBinder(catchEnv)); isAbrupt(res) {
				result = res
			} else {
				result = e.evalStatements(catchEnv, node.Handler)
			}
		} else {
			if node.Param != "" {
				envDefine(catchEnv, node.Param, thrown)
			}
			result = e.evalStatements(catchEnv, node.Handler)
		}
	}

	if node.HasFinalizer {
		finEnv := NewEnclosedEnvironment(env)
		fin := e.evalStatements(finEnv, node.Finalizer)
		if isAbrupt(fin) {
			return fin
		}
	}

	if isAbrupt(result) {
		return result
	}
	return UNDEFINED
}
