// Package main launches the symver CLI.
package main

import "go.symver.io/symver/internal/cmd"

func main() {
	cmd.Execute()
}
