package main

import (
	"os"

	"github.com/funvibe/funjs/cmd/funjs/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
