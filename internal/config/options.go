package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Options holds engine tunables, loadable from a YAML file (the CLI's
// --options flag, default funjs.yaml in the working directory). Zero
// value means "defaults".
type Options struct {
	// MaxEvalDepth bounds evaluator recursion; 0 selects
	// DefaultMaxEvalDepth.
	MaxEvalDepth int `yaml:"max_eval_depth,omitempty"`

	// AnnexB enables block-level function declaration hoisting to the
	// enclosing function scope (web-compatibility semantics).
	AnnexB bool `yaml:"annex_b,omitempty"`

	// ModuleRoots lists directories searched for bare module
	// specifiers, in order. Relative specifiers resolve against the
	// importing module.
	ModuleRoots []string `yaml:"module_roots,omitempty"`

	// Strict is read from the options file; the evaluator does not
	// consult it, so top-level code runs the same either way.
	Strict bool `yaml:"strict,omitempty"`
}

// DefaultOptions is what you get without a funjs.yaml.
func DefaultOptions() Options {
	return Options{
		MaxEvalDepth: DefaultMaxEvalDepth,
		AnnexB:       true,
	}
}

// LoadOptions reads an Options file. A missing file is not an error;
// defaults are returned.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return opts, fmt.Errorf("reading options file: %w", err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parsing %s: %w", path, err)
	}
	if opts.MaxEvalDepth <= 0 {
		opts.MaxEvalDepth = DefaultMaxEvalDepth
	}
	return opts, nil
}
