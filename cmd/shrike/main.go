// Package main is the entry point for the shrike CLI tool.
package main

import (
	"os"

	"github.com/shrikedb/shrike/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
