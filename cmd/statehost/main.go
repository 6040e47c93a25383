// Command statehost runs the sample screens in a terminal UI whose state
// survives navigation and restarts, and inspects what it saved.
package main

import (
	"fmt"
	"os"
)

func main() {
	root, rt := newRootCmd()
	err := root.Execute()
	rt.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
