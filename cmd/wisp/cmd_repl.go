package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"wisp/compiler"
	"wisp/lexer"
	"wisp/token"
	"wisp/vm"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"
)

// replCmd is an interactive session sharing one VM across every accepted
// line, so globals and the heap object list persist the way a REPL user
// expects.
type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive session" }
func (*replCmd) Usage() string {
	return `repl:
  Start an interactive read-eval-print loop.
`
}
func (*replCmd) SetFlags(f *flag.FlagSet) {}

func (*replCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".wisp_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start REPL: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	runRepl(rl, os.Stdout, os.Stderr)
	return subcommands.ExitSuccess
}

// runRepl drives the read-compile-run loop against a persistent VM, given
// anything implementing readline's Readline and SetPrompt methods.
func runRepl(rl interface {
	Readline() (string, error)
	SetPrompt(string)
}, out, errOut io.Writer) {
	machine := vm.New(out)
	comp := compiler.New()
	var buffer strings.Builder

	for {
		if buffer.Len() == 0 {
			rl.SetPrompt(">>> ")
		} else {
			rl.SetPrompt("... ")
		}

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				buffer.Reset()
				continue
			}
			return
		}

		if strings.TrimSpace(line) == "exit" && buffer.Len() == 0 {
			return
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(line)
		source := buffer.String()

		if !isInputReady(source) {
			continue
		}

		chunk, errs := comp.Compile(source)
		if len(errs) > 0 {
			for _, e := range errs {
				fmt.Fprintln(errOut, e)
			}
			buffer.Reset()
			continue
		}

		if err := machine.Run(chunk); err != nil {
			fmt.Fprintln(errOut, err)
		}
		buffer.Reset()
	}
}

// isInputReady reports whether source looks like a complete statement
// sequence worth compiling yet: braces balanced, and the last non-trivia
// token isn't something that obviously expects a continuation.
func isInputReady(source string) bool {
	lex := lexer.New(source)
	var tokens []token.Token
	for {
		tok := lex.NextToken()
		if tok.IsTrivia() {
			continue
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.Eof {
			break
		}
	}

	braceBalance := 0
	for _, tok := range tokens {
		switch tok.Kind {
		case token.LeftBrace:
			braceBalance++
		case token.RightBrace:
			braceBalance--
		}
	}
	if braceBalance > 0 {
		return false
	}

	last := lastNonEOF(tokens)
	if last == nil {
		return true
	}

	switch last.Kind {
	case token.Equal, token.Plus, token.Minus, token.Star, token.Slash,
		token.Bang, token.EqualEqual, token.BangEqual,
		token.Less, token.LessEqual, token.Greater, token.GreaterEqual,
		token.Comma, token.LeftParen, token.LeftBrace,
		token.If, token.Else, token.While, token.For, token.Fun,
		token.Return, token.Var, token.And, token.Or, token.Print:
		return false
	}

	return true
}

func lastNonEOF(tokens []token.Token) *token.Token {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].Kind != token.Eof {
			return &tokens[i]
		}
	}
	return nil
}
