// Package main is the entry point for the cslogstats CLI tool, which parses
// Counter-Strike server logs and computes cumulative per-round player stats.
package main

import "github.com/pable/cs-logstats/cmd"

func main() {
	cmd.Execute()
}
