package main

import (
	"github.com/turtacn/mrsa/cmd/cli"
)

// main is the entry point for the mrsa-admin command-line tool.
func main() {
	cli.Execute()
}
