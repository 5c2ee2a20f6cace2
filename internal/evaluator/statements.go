package evaluator

import (
	"github.com/funvibe/funjs/internal/ast"
)

// evalStatements runs one scope's statements sequentially, performing
// the hoisting pre-pass first. The result is the completion of the
// last statement, or the first abrupt completion.
func (e *Evaluator) evalStatements(env *JSObject, stmts []ast.Statement) Value {
	if err := e.hoistScope(env, stmts); err != nil {
		return err
	}

	var result Value = UNDEFINED
	for _, stmt := range stmts {
		tok := stmt.GetToken()
		recordStatementPosition(env, tok.Line, tok.Column)

		result = e.evalStatement(env, stmt)
		if isAbrupt(result) {
			e.attachLocation(result, tok.Line, tok.Column)
			return result
		}
		if result == nil {
			result = UNDEFINED
		}
	}
	return result
}

// attachLocation fills missing line/column on engine errors and user
// throws as they propagate outward.
func (e *Evaluator) attachLocation(completion Value, line, column int) {
	switch c := completion.(type) {
	case *Error:
		if c.Line == 0 {
			c.Line = line
			c.Column = column
		}
		if c.StackTrace == nil {
			c.StackTrace = e.captureStack()
		}
	case *ThrowSignal:
		if c.Line == 0 {
			c.Line = line
			c.Column = column
		}
	}
}

func (e *Evaluator) evalStatement(env *JSObject, stmt ast.Statement) Value {
	switch node := stmt.(type) {
	case *ast.ExpressionStatement:
		return e.evalExpr(env, node.Expression)
	case *ast.DeclarationStatement:
		return e.evalDeclaration(env, node)
	case *ast.FunctionDeclaration:
		// hoisted in the pre-pass
		return UNDEFINED
	case *ast.ClassDeclaration:
		cls := e.evalClassDefinition(env, node.Def)
		if isAbrupt(cls) {
			return cls
		}
		envDefine(env, node.Def.Name, cls)
		return UNDEFINED
	case *ast.BlockStatement:
		blockEnv := NewEnclosedEnvironment(env)
		return e.evalStatements(blockEnv, node.Statements)
	case *ast.IfStatement:
		return e.evalIfStatement(env, node)
	case *ast.WhileStatement:
		return e.evalWhileStatement(env, node, "")
	case *ast.DoWhileStatement:
		return e.evalDoWhileStatement(env, node, "")
	case *ast.ForStatement:
		return e.evalForStatement(env, node, "")
	case *ast.ForInStatement:
		return e.evalForInStatement(env, node, "")
	case *ast.ForOfStatement:
		return e.evalForOfStatement(env, node, "")
	case *ast.SwitchStatement:
		return e.evalSwitchStatement(env, node)
	case *ast.TryStatement:
		return e.evalTryStatement(env, node)
	case *ast.ThrowStatement:
		return e.evalThrowStatement(env, node)
	case *ast.ReturnStatement:
		if node.Argument == nil {
			return &ReturnValue{Value: UNDEFINED}
		}
		v := e.evalExpr(env, node.Argument)
		if isAbrupt(v) {
			return v
		}
		return &ReturnValue{Value: v}
	case *ast.BreakStatement:
		return &BreakSignal{Label: node.Label}
	case *ast.ContinueStatement:
		return &ContinueSignal{Label: node.Label}
	case *ast.LabeledStatement:
		return e.evalLabeledStatement(env, node)
	case *ast.EmptyStatement, *ast.DebuggerStatement:
		return UNDEFINED
	case *ast.ImportStatement:
		return e.evalImportStatement(env, node)
	case *ast.ExportStatement:
		return e.evalExportStatement(env, node)
	default:
		return newError(EvalError, "unknown statement node %T", stmt)
	}
}

func (e *Evaluator) evalDeclaration(env *JSObject, node *ast.DeclarationStatement) Value {
	targetEnv := env
	if node.Kind == ast.DeclVar {
		targetEnv = varScope(env)
	}
	var bind binder
	switch node.Kind {
	case ast.DeclConst:
		bind = declareConstBinder(targetEnv)
	default:
		bind = declareBinder(targetEnv)
	}

	for _, d := range node.Decls {
		var value Value = UNDEFINED
		if d.Init != nil {
			value = e.evalExpr(env, d.Init)
			if isAbrupt(value) {
				return value
			}
			// anonymous functions pick up the binding name
			if fn, ok := value.(*JSObject); ok && fn.Closure != nil && fn.Closure.Name == "" && d.Name != "" {
				fn.Closure.Name = d.Name
			}
		}
		switch {
		case d.ArrayPat != nil:
			if res := e.destructureArray(env, d.ArrayPat.Elements, value, bind); isAbrupt(res) {
				return res
			}
		case d.ObjectPat != nil:
			if res := e.destructureObject(env, d.ObjectPat.Elements, value, bind); isAbrupt(res) {
				return res
			}
		default:
			if res := bind(d.Name, value); isAbrupt(res) {
				return res
			}
		}
	}
	return UNDEFINED
}

func (e *Evaluator) evalIfStatement(env *JSObject, node *ast.IfStatement) Value {
	test := e.evalExpr(env, node.Test)
	if isAbrupt(test) {
		return test
	}
	if isTruthy(test) {
		return e.evalNestedStatement(env, node.Consequent)
	}
	if node.Alternate != nil {
		return e.evalNestedStatement(env, node.Alternate)
	}
	return UNDEFINED
}

// evalNestedStatement evaluates a single nested statement, giving
// blocks their own child environment.
func (e *Evaluator) evalNestedStatement(env *JSObject, stmt ast.Statement) Value {
	if block, ok := stmt.(*ast.BlockStatement); ok {
		blockEnv := NewEnclosedEnvironment(env)
		return e.evalStatements(blockEnv, block.Statements)
	}
	return e.evalStatement(env, stmt)
}

// loopControl folds a loop body completion: returns (stop, result).
func loopControl(result Value, label string) (bool, Value) {
	switch sig := result.(type) {
	case *BreakSignal:
		if sig.Label == "" || sig.Label == label {
			return true, UNDEFINED
		}
		return true, result
	case *ContinueSignal:
		if sig.Label == "" || sig.Label == label {
			return false, UNDEFINED
		}
		return true, result
	case *Error, *ThrowSignal, *ReturnValue:
		return true, result
	}
	return false, UNDEFINED
}

func (e *Evaluator) evalWhileStatement(env *JSObject, node *ast.WhileStatement, label string) Value {
	for {
		test := e.evalExpr(env, node.Test)
		if isAbrupt(test) {
			return test
		}
		if !isTruthy(test) {
			return UNDEFINED
		}
		result := e.evalNestedStatement(env, node.Body)
		if stop, out := loopControl(result, label); stop {
			return out
		}
	}
}

func (e *Evaluator) evalDoWhileStatement(env *JSObject, node *ast.DoWhileStatement, label string) Value {
	for {
		result := e.evalNestedStatement(env, node.Body)
		if stop, out := loopControl(result, label); stop {
			return out
		}
		test := e.evalExpr(env, node.Test)
		if isAbrupt(test) {
			return test
		}
		if !isTruthy(test) {
			return UNDEFINED
		}
	}
}

func (e *Evaluator) evalForStatement(env *JSObject, node *ast.ForStatement, label string) Value {
	loopEnv := NewEnclosedEnvironment(env)
	if node.Init != nil {
		if err := e.hoistScope(loopEnv, []ast.Statement{node.Init}); err != nil {
			return err
		}
		res := e.evalStatement(loopEnv, node.Init)
		if isAbrupt(res) {
			return res
		}
	}

	// let declarations get a per-iteration copy of their bindings
	perIteration := perIterationNames(node.Init)

	for {
		if node.Test != nil {
			test := e.evalExpr(loopEnv, node.Test)
			if isAbrupt(test) {
				return test
			}
			if !isTruthy(test) {
				return UNDEFINED
			}
		}

		iterEnv := loopEnv
		if len(perIteration) > 0 {
			iterEnv = NewEnclosedEnvironment(loopEnv)
			for _, name := range perIteration {
				if v, ok := envLookup(loopEnv, name); ok {
					envDefine(iterEnv, name, v)
				}
			}
		}

		result := e.evalNestedStatement(iterEnv, node.Body)

		if len(perIteration) > 0 {
			for _, name := range perIteration {
				if v, ok := envLookup(iterEnv, name); ok {
					envAssign(loopEnv, name, v)
				}
			}
		}

		if stop, out := loopControl(result, label); stop {
			return out
		}

		if node.Update != nil {
			up := e.evalExpr(loopEnv, node.Update)
			if isAbrupt(up) {
				return up
			}
		}
	}
}

func perIterationNames(init ast.Statement) []string {
	decl, ok := init.(*ast.DeclarationStatement)
	if !ok || decl.Kind != ast.DeclLet {
		return nil
	}
	return declaredNames(decl)
}

// evalForInStatement enumerates own-and-inherited enumerable string
// keys, shadow-tracked so a key enumerates once.
func (e *Evaluator) evalForInStatement(env *JSObject, node *ast.ForInStatement, label string) Value {
	src := e.evalExpr(env, node.Object)
	if isAbrupt(src) {
		return src
	}
	if isNullish(src) {
		return UNDEFINED
	}
	obj, ok := src.(*JSObject)
	if !ok {
		return UNDEFINED
	}

	seen := map[string]bool{}
	depth := 0
	for cur := obj; cur != nil; cur = cur.Prototype {
		for _, name := range cur.OwnEnumerableStringKeys() {
			if seen[name] {
				continue
			}
			seen[name] = true

			iterEnv := NewEnclosedEnvironment(env)
			if res := e.bindLoopVariable(iterEnv, node.Decl, node.Target, NewString(name)); isAbrupt(res) {
				return res
			}
			result := e.evalNestedStatement(iterEnv, node.Body)
			if stop, out := loopControl(result, label); stop {
				return out
			}
		}
		depth++
		if depth > maxPrototypeDepth {
			break
		}
	}
	return UNDEFINED
}

// evalForOfStatement: arrays iterate by numeric index, strings by code
// point, everything else through @@iterator. return() fires on abrupt
// exit from a protocol-driven iteration.
func (e *Evaluator) evalForOfStatement(env *JSObject, node *ast.ForOfStatement, label string) Value {
	src := e.evalExpr(env, node.Iterable)
	if isAbrupt(src) {
		return src
	}

	if node.Await {
		return e.evalForAwaitOf(env, node, src, label)
	}

	runBody := func(value Value) (bool, Value) {
		iterEnv := NewEnclosedEnvironment(env)
		if res := e.bindLoopVariable(iterEnv, node.Decl, node.Target, value); isAbrupt(res) {
			return true, res
		}
		result := e.evalNestedStatement(iterEnv, node.Body)
		return loopControl(result, label)
	}

	switch v := src.(type) {
	case *JSObject:
		if v.IsArray {
			for i := 0; i < v.arrayLength(); i++ {
				var el Value = UNDEFINED
				if cell, ok := v.GetOwn(IndexKey(i)); ok && cell.Value != nil {
					el = e.coerceSlot(env, cell.Value, v)
					if isAbrupt(el) {
						return el
					}
				}
				if stop, out := runBody(el); stop {
					return out
				}
			}
			return UNDEFINED
		}
	case *String:
		for _, cp := range codePointsOf(v.Units) {
			if stop, out := runBody(&String{Units: cp}); stop {
				return out
			}
		}
		return UNDEFINED
	}

	iter := e.getIterator(env, src)
	if isAbrupt(iter) {
		return iter
	}
	for {
		value, done, abrupt := e.iteratorNext(env, iter, nil)
		if abrupt != nil {
			return abrupt
		}
		if done {
			return UNDEFINED
		}
		if stop, out := runBody(value); stop {
			if isAbrupt(out) || out == UNDEFINED {
				e.iteratorClose(env, iter)
			}
			return out
		}
	}
}

func (e *Evaluator) evalForAwaitOf(env *JSObject, node *ast.ForOfStatement, src Value, label string) Value {
	iter := e.getAsyncIterator(env, src)
	if isAbrupt(iter) {
		return iter
	}
	for {
		value, done, abrupt := e.iteratorNext(env, iter, nil)
		if abrupt != nil {
			return abrupt
		}
		if done {
			return UNDEFINED
		}
		if p, ok := value.(*PromiseValue); ok {
			value = e.awaitPromise(env, p)
			if isAbrupt(value) {
				return value
			}
		}
		iterEnv := NewEnclosedEnvironment(env)
		if res := e.bindLoopVariable(iterEnv, node.Decl, node.Target, value); isAbrupt(res) {
			return res
		}
		result := e.evalNestedStatement(iterEnv, node.Body)
		if stop, out := loopControl(result, label); stop {
			e.iteratorClose(env, iter)
			return out
		}
	}
}

// bindLoopVariable binds the for-in/for-of loop variable: either a
// fresh per-iteration declaration or an existing assignment target.
func (e *Evaluator) bindLoopVariable(iterEnv *JSObject, decl *ast.DeclarationStatement, target ast.Expression, value Value) Value {
	if decl != nil {
		d := decl.Decls[0]
		targetEnv := iterEnv
		if decl.Kind == ast.DeclVar {
			targetEnv = varScope(iterEnv)
		}
		var bind binder
		if decl.Kind == ast.DeclConst {
			bind = declareConstBinder(targetEnv)
		} else {
			bind = declareBinder(targetEnv)
		}
		switch {
		case d.ArrayPat != nil:
			return e.destructureArray(iterEnv, d.ArrayPat.Elements, value, bind)
		case d.ObjectPat != nil:
			return e.destructureObject(iterEnv, d.ObjectPat.Elements, value, bind)
		default:
			return bind(d.Name, value)
		}
	}
	return e.assignToTarget(iterEnv, target, value)
}

// evalSwitchStatement: strict-equality case selection, implicit
// fall-through until break.
func (e *Evaluator) evalSwitchStatement(env *JSObject, node *ast.SwitchStatement) Value {
	disc := e.evalExpr(env, node.Discriminant)
	if isAbrupt(disc) {
		return disc
	}

	switchEnv := NewEnclosedEnvironment(env)
	matched := -1
	for i, c := range node.Cases {
		if c.Test == nil {
			continue
		}
		tv := e.evalExpr(switchEnv, c.Test)
		if isAbrupt(tv) {
			return tv
		}
		if strictEquals(disc, tv) {
			matched = i
			break
		}
	}
	if matched < 0 {
		for i, c := range node.Cases {
			if c.Test == nil {
				matched = i
				break
			}
		}
	}
	if matched < 0 {
		return UNDEFINED
	}

	for _, c := range node.Cases[matched:] {
		for _, stmt := range c.Body {
			result := e.evalStatement(switchEnv, stmt)
			if sig, ok := result.(*BreakSignal); ok && sig.Label == "" {
				return UNDEFINED
			}
			if isAbrupt(result) {
				return result
			}
		}
	}
	return UNDEFINED
}

func (e *Evaluator) evalThrowStatement(env *JSObject, node *ast.ThrowStatement) Value {
	v := e.evalExpr(env, node.Argument)
	if isAbrupt(v) {
		return v
	}
	tok := node.GetToken()
	return &ThrowSignal{Value: v, Line: tok.Line, Column: tok.Column}
}

func (e *Evaluator) evalLabeledStatement(env *JSObject, node *ast.LabeledStatement) Value {
	var result Value
	switch body := node.Stmt.(type) {
	case *ast.WhileStatement:
		result = e.evalWhileStatement(env, body, node.Label)
	case *ast.DoWhileStatement:
		result = e.evalDoWhileStatement(env, body, node.Label)
	case *ast.ForStatement:
		result = e.evalForStatement(env, body, node.Label)
	case *ast.ForInStatement:
		result = e.evalForInStatement(env, body, node.Label)
	case *ast.ForOfStatement:
		result = e.evalForOfStatement(env, body, node.Label)
	default:
		result = e.evalNestedStatement(env, node.Stmt)
	}
	if sig, ok := result.(*BreakSignal); ok && sig.Label == node.Label {
		return UNDEFINED
	}
	return result
}
