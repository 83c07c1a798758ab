package retcc

import (
	"bytes"
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

type Backend string

const (
	BackendX64  Backend = "x64"
	BackendLLVM Backend = "llvm"
)

// Compiler runs the pipeline front to back: lex, parse, generate. The first
// failing stage aborts the run and no output is produced.
type Compiler struct {
	backend Backend
}

func NewCompiler(backend Backend) *Compiler {
	return &Compiler{
		backend: backend,
	}
}

func (c *Compiler) CompileFile(ctx context.Context, name string) ([]byte, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return c.Compile(ctx, name, text)
}

func (c *Compiler) Compile(ctx context.Context, name string, text []byte) ([]byte, error) {
	tr := tlog.SpanFromContext(ctx)

	lexer := NewLexerFromReader(bytes.NewReader(text))
	lexer.filename = name

	prog, err := NewParser(lexer).Run()
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}

	tr.Printw("parsed program", "name", name)

	switch c.backend {
	case BackendLLVM:
		mod, err := NewLLVMGenerator(prog).Do()
		if err != nil {
			return nil, errors.Wrap(err, "generate llvm")
		}

		return []byte(mod.String()), nil

	case BackendX64:
		ins, err := NewX64Generator(prog).Do()
		if err != nil {
			return nil, errors.Wrap(err, "generate code")
		}

		tr.Printw("generated code", "instructions", len(ins))

		return []byte(Render(ins)), nil

	default:
		return nil, errors.New("unsupported backend: %v", c.backend)
	}
}
