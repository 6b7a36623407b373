// Command wisp is the language's CLI: a bare `wisp [source_file]` contract
// with subcommands (run/repl/disasm) layered on top.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// defaultSourceFile is read when the bare contract is invoked with no
// arguments.
const defaultSourceFile = "test.lox"

// subcommandNames are registered names that divert from the bare contract;
// any other os.Args[1] is treated as a source file path.
var subcommandNames = map[string]bool{
	"run":    true,
	"repl":   true,
	"disasm": true,
	"help":   true,
	"flags":  true,
}

func main() {
	if len(os.Args) >= 2 && subcommandNames[os.Args[1]] {
		os.Exit(runSubcommands())
	}
	os.Exit(runBareContract(os.Args[1:]))
}

func runSubcommands() int {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&runCmd{}, "")
	subcommands.Register(&replCmd{}, "")
	subcommands.Register(&disasmCmd{}, "")

	flag.Parse()
	return int(subcommands.Execute(context.Background()))
}

// runBareContract: zero args reads test.lox, one arg is the source path,
// two or more is a usage error.
func runBareContract(args []string) int {
	var path string
	switch len(args) {
	case 0:
		path = defaultSourceFile
	case 1:
		path = args[0]
	default:
		fmt.Fprintln(os.Stderr, "usage: wisp [source_file]")
		return 1
	}

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read file: %v\n", err)
		return 1
	}

	return runSource(string(source), os.Stdout, os.Stderr)
}
