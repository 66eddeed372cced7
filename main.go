// Package main is the entry point for the gramgen CLI.
package main

import "gramgen.dev/pkg/gramgen/cmd"

func main() {
	cmd.Execute()
}
