package retcc

import (
	"fmt"
	"strconv"
	"strings"

	"tlog.app/go/errors"
)

// ErrDivisionByZero is reported when a divisor folds to zero. The language
// has no variables, so every divisor is known at compile time; the generator
// rejects the program instead of emitting code that traps at run time.
var ErrDivisionByZero = errors.New("constant division by zero")

// Instruction is one line of the emitted translation unit: either a label or
// a mnemonic with operands. Directives (global, section) use the mnemonic
// form.
type Instruction struct {
	Label    string
	Mnemonic string
	Operands []string
}

func label(name string) Instruction {
	return Instruction{Label: name}
}

func op(mnemonic string, operands ...string) Instruction {
	return Instruction{Mnemonic: mnemonic, Operands: operands}
}

func (i Instruction) String() string {
	if i.Label != "" {
		return i.Label + ":"
	}

	if len(i.Operands) == 0 {
		return "\t" + i.Mnemonic
	}

	return "\t" + i.Mnemonic + " " + strings.Join(i.Operands, ", ")
}

// Render turns the instruction stream into nasm-syntax assembly text.
func Render(ins []Instruction) string {
	var b strings.Builder
	for _, i := range ins {
		b.WriteString(i.String())
		b.WriteByte('\n')
	}

	return b.String()
}

// X64Generator emits a stack-machine evaluation of the program for x86-64
// Linux: every node leaves exactly one value on the stack, and _start exits
// with the last one.
type X64Generator struct {
	prog *Program
}

func NewX64Generator(prog *Program) *X64Generator {
	return &X64Generator{
		prog: prog,
	}
}

func (g *X64Generator) Do() ([]Instruction, error) {
	body, err := g.expression(g.prog.Body)
	if err != nil {
		return nil, err
	}

	ins := []Instruction{
		op("global", "_start"),
		op("section", ".text"),
		label("_start"),
		op("call", "main"),
		op("mov", "rdi", "rax"),
		op("mov", "rax", "60"),
		op("syscall"),
		label("main"),
	}

	ins = append(ins, body...)
	ins = append(ins,
		op("pop", "rax"),
		op("ret"),
	)

	return ins, nil
}

// expression walks the tree in post order: children first, then the
// combining instruction. Left operands are always emitted before right ones.
func (g *X64Generator) expression(expr Expr) ([]Instruction, error) {
	switch e := expr.(type) {
	case *LiteralExpr:
		return g.literal(e), nil
	case *BinaryExpr:
		return g.binaryExpression(e)
	case *UnaryExpr:
		return g.unaryExpression(e)
	default:
		panic(fmt.Sprintf("unexpected expression node: %T", expr))
	}
}

func (g *X64Generator) literal(expr *LiteralExpr) []Instruction {
	// push only takes a 32-bit immediate, so go through rax
	return []Instruction{
		op("mov", "rax", strconv.FormatInt(expr.Value, 10)),
		op("push", "rax"),
	}
}

func (g *X64Generator) binaryExpression(expr *BinaryExpr) ([]Instruction, error) {
	if expr.Operation == BinaryDivision {
		if v, err := fold(expr.Op2); err != nil {
			return nil, err
		} else if v == 0 {
			return nil, ErrDivisionByZero
		}
	}

	lhs, err := g.expression(expr.Op1)
	if err != nil {
		return nil, err
	}

	rhs, err := g.expression(expr.Op2)
	if err != nil {
		return nil, err
	}

	ins := append(lhs, rhs...)
	ins = append(ins,
		op("pop", "rcx"),
		op("pop", "rax"),
	)

	switch expr.Operation {
	case BinaryAddition:
		ins = append(ins, op("add", "rax", "rcx"))
	case BinarySubtraction:
		ins = append(ins, op("sub", "rax", "rcx"))
	case BinaryMultiplication:
		ins = append(ins, op("imul", "rax", "rcx"))
	case BinaryDivision:
		// Signed division of rdx:rax by rcx, truncating toward zero
		ins = append(ins, op("cqo"), op("idiv", "rcx"))
	default:
		panic("unexpected binary op: " + expr.Operation)
	}

	return append(ins, op("push", "rax")), nil
}

func (g *X64Generator) unaryExpression(expr *UnaryExpr) ([]Instruction, error) {
	operand, err := g.expression(expr.Operand)
	if err != nil {
		return nil, err
	}

	switch expr.Operation {
	case UnaryNegative:
		return append(operand,
			op("pop", "rax"),
			op("neg", "rax"),
			op("push", "rax"),
		), nil
	default:
		panic("unexpected unary op: " + expr.Operation)
	}
}

// fold evaluates an expression at compile time with the same semantics the
// emitted code has: 64-bit two's-complement wraparound and division
// truncating toward zero.
func fold(expr Expr) (int64, error) {
	switch e := expr.(type) {
	case *LiteralExpr:
		return e.Value, nil

	case *UnaryExpr:
		v, err := fold(e.Operand)
		if err != nil {
			return 0, err
		}

		return -v, nil

	case *BinaryExpr:
		lhs, err := fold(e.Op1)
		if err != nil {
			return 0, err
		}

		rhs, err := fold(e.Op2)
		if err != nil {
			return 0, err
		}

		switch e.Operation {
		case BinaryAddition:
			return lhs + rhs, nil
		case BinarySubtraction:
			return lhs - rhs, nil
		case BinaryMultiplication:
			return lhs * rhs, nil
		case BinaryDivision:
			if rhs == 0 {
				return 0, ErrDivisionByZero
			}

			return lhs / rhs, nil
		default:
			panic("unexpected binary op: " + e.Operation)
		}

	default:
		panic(fmt.Sprintf("unexpected expression node: %T", expr))
	}
}
