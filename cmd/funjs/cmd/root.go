package cmd

import (
	"github.com/funvibe/funjs/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "funjs",
	Short: "Tree-walking ECMAScript interpreter core",
	Long: `funjs evaluates JSON-serialized ECMAScript ASTs.

The engine implements the ES2022-style core — classes with private
members, generators, async functions and iterators, modules, BigInt,
Symbol, Proxy and typed arrays — as a tree walker. Lexing and parsing
are external: programs arrive as *.ast.json files.`,
	Version:       config.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
