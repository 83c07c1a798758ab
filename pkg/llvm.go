package retcc

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// LLVMGenerator is the second backend: it builds an LLVM module whose main
// returns the evaluated expression, truncated to i32 the way the OS
// truncates exit statuses. The textual module is assembled and linked with
// clang or llc.
type LLVMGenerator struct {
	prog *Program
}

func NewLLVMGenerator(prog *Program) *LLVMGenerator {
	return &LLVMGenerator{
		prog: prog,
	}
}

func (g *LLVMGenerator) Do() (*ir.Module, error) {
	b := &llvmBuilder{
		mod: ir.NewModule(),
	}

	f := b.mod.NewFunc("main", types.I32)
	b.block = f.NewBlock("")

	v, ins, err := b.recursiveLoad(g.prog.Body)
	if err != nil {
		return nil, err
	}

	b.block.Insts = append(b.block.Insts, ins...)

	trunc := ir.NewTrunc(v, types.I32)
	b.block.Insts = append(b.block.Insts, trunc)
	b.block.NewRet(trunc)

	return b.mod, nil
}

type llvmBuilder struct {
	mod   *ir.Module
	block *ir.Block
}

func (b *llvmBuilder) recursiveLoad(expr Expr) (value.Value, []ir.Instruction, error) {
	switch e := expr.(type) {
	case *LiteralExpr:
		return constant.NewInt(types.I64, e.Value), nil, nil
	case *BinaryExpr:
		return b.binaryExpression(e)
	case *UnaryExpr:
		return b.unaryExpression(e)
	default:
		panic(fmt.Sprintf("unexpected expression node: %T", expr))
	}
}

func (b *llvmBuilder) binaryExpression(expr *BinaryExpr) (value.Value, []ir.Instruction, error) {
	if expr.Operation == BinaryDivision {
		if v, err := fold(expr.Op2); err != nil {
			return nil, nil, err
		} else if v == 0 {
			return nil, nil, ErrDivisionByZero
		}
	}

	v1, i1, err := b.recursiveLoad(expr.Op1)
	if err != nil {
		return nil, nil, err
	}

	v2, i2, err := b.recursiveLoad(expr.Op2)
	if err != nil {
		return nil, nil, err
	}

	ins := append(i1, i2...)

	switch expr.Operation {
	case BinaryAddition:
		op := ir.NewAdd(v1, v2)
		return op, append(ins, op), nil
	case BinarySubtraction:
		op := ir.NewSub(v1, v2)
		return op, append(ins, op), nil
	case BinaryMultiplication:
		op := ir.NewMul(v1, v2)
		return op, append(ins, op), nil
	case BinaryDivision:
		op := ir.NewSDiv(v1, v2)
		return op, append(ins, op), nil
	default:
		panic("unexpected binary op: " + expr.Operation)
	}
}

func (b *llvmBuilder) unaryExpression(expr *UnaryExpr) (value.Value, []ir.Instruction, error) {
	v, ins, err := b.recursiveLoad(expr.Operand)
	if err != nil {
		return nil, nil, err
	}

	switch expr.Operation {
	case UnaryNegative:
		minusOne := constant.NewInt(types.I64, -1)
		op := ir.NewMul(v, minusOne)
		return op, append(ins, op), nil
	default:
		panic("unexpected unary op: " + expr.Operation)
	}
}
