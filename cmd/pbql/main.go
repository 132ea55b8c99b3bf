// Package main provides the pbql command-line tool.
package main

import (
	"os"

	"github.com/leapstack-labs/pbql/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
