// ABOUTME: CLI flag parsing using a stdlib flag.FlagSet
// ABOUTME: Supports -b/--bind (repeatable) and -h/--help; positional arguments are rejected

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

// errUsage marks command-line mistakes, which exit with status 2.
var errUsage = errors.New("usage")

type cliArgs struct {
	binds []string
	help  bool
}

// bindList collects every -b/--bind occurrence in order.
type bindList []string

func (b *bindList) String() string { return strings.Join(*b, ",") }

func (b *bindList) Set(v string) error {
	*b = append(*b, v)
	return nil
}

// parseFlags parses args (without the program name). A returned error wraps
// errUsage; the caller reports it.
func parseFlags(args []string) (cliArgs, error) {
	var a cliArgs
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	binds := (*bindList)(&a.binds)
	fs.Var(binds, "b", "Custom key bindings: KEY:ACTION[,KEY:ACTION...]")
	fs.Var(binds, "bind", "Custom key bindings: KEY:ACTION[,KEY:ACTION...]")
	fs.BoolVar(&a.help, "h", false, "Show help and exit")
	fs.BoolVar(&a.help, "help", false, "Show help and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cliArgs{help: true}, nil
		}
		return cliArgs{}, fmt.Errorf("%w: %w", errUsage, err)
	}
	if rest := fs.Args(); len(rest) > 0 {
		return cliArgs{}, fmt.Errorf("%w: unexpected argument %q", errUsage, rest[0])
	}
	return a, nil
}
