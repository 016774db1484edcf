// Package main is the entry point for the slpstats CLI tool, which decodes
// Slippi replay files and computes per-player frame statistics.
package main

import "github.com/pable/slpstats/cmd"

func main() {
	cmd.Execute()
}
