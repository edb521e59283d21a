// Package main is the entry point for the wordfall CLI.
package main

import (
	"os"

	"github.com/wordfall-io/wordfall/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
