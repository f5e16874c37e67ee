// Package main provides the flowdeck CLI entry point.
package main

import (
	"os"

	"github.com/flowdeck-labs/flowdeck/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
