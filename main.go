// Package main is the entry point for the forcedlogin CLI.
package main

import (
	"forcedlogin/cli/cmd"
)

func main() {
	cmd.Execute()
}
