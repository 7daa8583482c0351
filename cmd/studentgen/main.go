// Package main provides the studentgen CLI.
package main

import (
	"os"

	"github.com/kunal-ak23/edudron/tools/studentgen/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
