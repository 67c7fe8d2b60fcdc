// Package main is the entry point for the graph console binary.
package main

import (
	"os"

	cli "vinegraph/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
