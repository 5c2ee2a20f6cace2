// Package modules implements the module system consumed by the
// evaluator: specifier resolution, the process-wide module cache, and
// namespace object construction. Module sources are JSON-serialized
// ASTs; the parser is an external collaborator.
package modules

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/funvibe/funjs/internal/ast"
	"github.com/funvibe/funjs/internal/config"
	"github.com/funvibe/funjs/internal/evaluator"
)

type Loader struct {
	// BaseDir anchors relative specifiers when the importer is
	// unknown (the entry program).
	BaseDir string
	// Roots are searched in order for bare specifiers.
	Roots []string
	// Global builds the realm a module evaluates in; defaults to the
	// evaluator's own bootstrap.
	Global func(e *evaluator.Evaluator) *evaluator.JSObject

	mu    sync.Mutex
	cache map[string]evaluator.Value
	// loading guards against import cycles.
	loading map[string]bool
}

func NewLoader(baseDir string, roots []string) *Loader {
	return &Loader{
		BaseDir: baseDir,
		Roots:   roots,
		cache:   make(map[string]evaluator.Value),
		loading: make(map[string]bool),
	}
}

// LoadModule resolves, evaluates and caches a module, returning its
// namespace object. Re-entrant loads of a module already in flight
// (cycles) are an error rather than a deadlock.
func (l *Loader) LoadModule(e *evaluator.Evaluator, name string, fromURL string) (evaluator.Value, error) {
	path, err := l.Resolve(name, fromURL)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	if ns, ok := l.cache[path]; ok {
		l.mu.Unlock()
		return ns, nil
	}
	if l.loading[path] {
		l.mu.Unlock()
		return nil, fmt.Errorf("import cycle detected at %s", path)
	}
	l.loading[path] = true
	l.mu.Unlock()
	defer func() {
		l.mu.Lock()
		delete(l.loading, path)
		l.mu.Unlock()
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading module %s: %w", path, err)
	}
	program, err := ast.DecodeProgram(data)
	if err != nil {
		return nil, fmt.Errorf("decoding module %s: %w", path, err)
	}
	if program.File == "" {
		program.File = path
	}

	ns, err := l.evaluateModule(e, program, path)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cache[path] = ns
	l.mu.Unlock()
	return ns, nil
}

func (l *Loader) evaluateModule(e *evaluator.Evaluator, program *ast.Program, path string) (evaluator.Value, error) {
	var global *evaluator.JSObject
	if l.Global != nil {
		global = l.Global(e)
	} else {
		global = e.NewGlobalEnvironment()
	}
	moduleEnv, exports := evaluator.NewModuleEnvironment(global)

	savedFile := e.CurrentFile
	e.CurrentFile = path
	_, diag := e.Run(moduleEnv, program)
	e.CurrentFile = savedFile
	if diag != nil {
		return nil, fmt.Errorf("evaluating module %s: %s", path, diag.String())
	}

	ns := evaluator.NewNamespaceObject(exports)
	return ns, nil
}

// Resolve maps a specifier to a file path: relative specifiers against
// the importer (or BaseDir), bare specifiers against the roots, with
// the recognized extensions tried in order.
func (l *Loader) Resolve(name string, fromURL string) (string, error) {
	var candidates []string
	if strings.HasPrefix(name, "./") || strings.HasPrefix(name, "../") || filepath.IsAbs(name) {
		base := l.BaseDir
		if fromURL != "" {
			base = filepath.Dir(fromURL)
		}
		p := name
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, name)
		}
		candidates = append(candidates, p)
		for _, ext := range config.ModuleFileExtensions {
			candidates = append(candidates, p+ext)
		}
	} else {
		roots := l.Roots
		if len(roots) == 0 {
			roots = []string{l.BaseDir}
		}
		for _, root := range roots {
			p := filepath.Join(root, name)
			candidates = append(candidates, p)
			for _, ext := range config.ModuleFileExtensions {
				candidates = append(candidates, p+ext)
			}
		}
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("module %q not found", name)
}
