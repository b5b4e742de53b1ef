// Package main provides the eavexpr command-line tool.
package main

import (
	"os"

	"github.com/leapstack-labs/eavexpr/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
