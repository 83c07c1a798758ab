package main

import (
	"context"
	"fmt"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"go.retcc.dev/pkg"
)

func main() {
	lexCmd := &cli.Command{
		Name:   "lex",
		Action: lexAct,
		Args:   cli.Args{},
	}

	parseCmd := &cli.Command{
		Name:   "parse",
		Action: parseAct,
		Args:   cli.Args{},
	}

	compileCmd := &cli.Command{
		Name:   "compile",
		Action: compileAct,
		Args:   cli.Args{},
	}

	irCmd := &cli.Command{
		Name:   "ir",
		Action: irAct,
		Args:   cli.Args{},
	}

	app := &cli.Command{
		Name:        "retcc",
		Description: "retcc compiles a single int main() { return <expr>; } program into assembly",
		Commands: []*cli.Command{
			lexCmd,
			parseCmd,
			compileCmd,
			irCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func lexAct(c *cli.Command) (err error) {
	for _, a := range c.Args {
		l, err := retcc.NewLexer(a)
		if err != nil {
			return errors.Wrap(err, "open %v", a)
		}

		toks, err := l.RunBlocking()
		if err != nil {
			return errors.Wrap(err, "lex %v", a)
		}

		for _, tok := range toks {
			fmt.Printf("%s\t%q\n", tok.Loc, tok.Value)
		}
	}

	return nil
}

func parseAct(c *cli.Command) (err error) {
	for _, a := range c.Args {
		l, err := retcc.NewLexer(a)
		if err != nil {
			return errors.Wrap(err, "open %v", a)
		}

		prog, err := retcc.NewParser(l).Run()
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		fmt.Printf("ast: %+v\n", prog)
	}

	return nil
}

func compileAct(c *cli.Command) error {
	return compile(c, retcc.BackendX64)
}

func irAct(c *cli.Command) error {
	return compile(c, retcc.BackendLLVM)
}

func compile(c *cli.Command, backend retcc.Backend) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	comp := retcc.NewCompiler(backend)

	for _, a := range c.Args {
		obj, err := comp.CompileFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "compile %v", a)
		}

		fmt.Printf("%s", obj)
	}

	return nil
}
