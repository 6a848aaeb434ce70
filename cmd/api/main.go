package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run executes the root command and reports a failure on stderr, since the
// command itself keeps cobra's error printing silent.
func run(args []string, stderr io.Writer) int {
	root := newRootCommand()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "leadrouter: %v\n", err)
		return 1
	}
	return 0
}
