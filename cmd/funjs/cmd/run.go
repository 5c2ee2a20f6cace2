package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/funvibe/funjs/internal/ast"
	"github.com/funvibe/funjs/internal/config"
	"github.com/funvibe/funjs/internal/evaluator"
	"github.com/funvibe/funjs/internal/modules"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	optionsFile string
	printResult bool
)

var runCmd = &cobra.Command{
	Use:   "run <file.ast.json>",
	Short: "Evaluate a JSON-serialized program",
	Long: `Evaluate a program from a JSON-serialized AST file.

Examples:
  # Run a program
  funjs run script.ast.json

  # Run with engine options
  funjs run --options funjs.yaml script.ast.json

  # Print the final expression value
  funjs run -p script.ast.json`,
	Args: cobra.ExactArgs(1),
	RunE: runProgram,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&optionsFile, "options", "funjs.yaml", "engine options file")
	runCmd.Flags().BoolVarP(&printResult, "print", "p", false, "print the final completion value")
}

func runProgram(_ *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading program: %w", err)
	}
	program, err := ast.DecodeProgram(data)
	if err != nil {
		return err
	}
	if program.File == "" {
		program.File = path
	}

	opts, err := config.LoadOptions(optionsFile)
	if err != nil {
		return err
	}

	e := evaluator.New()
	e.Options = opts
	baseDir := filepath.Dir(path)
	e.BaseDir = baseDir
	e.Loader = modules.NewLoader(baseDir, opts.ModuleRoots)

	env := e.NewGlobalEnvironment()
	result, diag := e.Run(env, program)
	if diag != nil {
		fmt.Fprintln(os.Stderr, renderDiagnostic(diag))
		return fmt.Errorf("uncaught %s", diag.Kind)
	}
	if printResult && result != nil {
		fmt.Fprintln(os.Stdout, result.Inspect())
	}
	return nil
}

// renderDiagnostic colors the report when stderr is a terminal.
func renderDiagnostic(diag *evaluator.Diagnostic) string {
	msg := diag.String()
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return "\x1b[31m" + msg + "\x1b[0m"
	}
	return msg
}
