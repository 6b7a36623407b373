package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"wisp/compiler"

	"github.com/google/subcommands"
)

// disasmCmd compiles a source file without running it and prints the
// offset/line/mnemonic/operand listing compiler.Chunk renders.
type disasmCmd struct{}

func (*disasmCmd) Name() string     { return "disasm" }
func (*disasmCmd) Synopsis() string { return "Compile a source file and print its bytecode" }
func (*disasmCmd) Usage() string {
	return `disasm <file>:
  Compile a source file and print its disassembled bytecode listing.
`
}
func (*disasmCmd) SetFlags(f *flag.FlagSet) {}

func (*disasmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "file not provided")
		return subcommands.ExitUsageError
	}

	source, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read file: %v\n", err)
		return subcommands.ExitFailure
	}

	chunk, errs := compiler.New().Compile(string(source))
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e)
		}
		return subcommands.ExitFailure
	}

	fmt.Fprint(os.Stdout, chunk.Disassemble(args[0]))
	return subcommands.ExitSuccess
}
