package main

import (
	"fmt"
	"io"

	"wisp/compiler"
	"wisp/vm"
)

// runSource compiles and executes source against a fresh Compiler/VM pair,
// printing program output to out and diagnostics to errOut. Returns 0 on
// success and 1 on any compile or runtime error; compile errors are all
// reported and execution is skipped entirely.
func runSource(source string, out, errOut io.Writer) int {
	chunk, errs := compiler.New().Compile(source)
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintln(errOut, err)
		}
		return 1
	}

	if err := vm.New(out).Run(chunk); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	return 0
}
