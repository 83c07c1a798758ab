package retcc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLLVMGenerator(t *testing.T) {
	cases := []struct {
		body    Expr
		contain []string
	}{
		{
			&LiteralExpr{Value: 42},
			[]string{
				"define i32 @main()",
				"trunc i64 42 to i32",
			},
		},
		{
			&BinaryExpr{
				Operation: BinaryAddition,
				Op1:       &LiteralExpr{Value: 2},
				Op2:       &LiteralExpr{Value: 3},
			},
			[]string{
				"add i64 2, 3",
			},
		},
		{
			&BinaryExpr{
				Operation: BinaryDivision,
				Op1:       &LiteralExpr{Value: 7},
				Op2:       &LiteralExpr{Value: 2},
			},
			[]string{
				"sdiv i64 7, 2",
			},
		},
		{
			&UnaryExpr{
				Operation: UnaryNegative,
				Operand:   &LiteralExpr{Value: 5},
			},
			[]string{
				"mul i64 5, -1",
			},
		},
	}

	for _, c := range cases {
		g := NewLLVMGenerator(&Program{Filename: "testing", Body: c.body})

		mod, err := g.Do()
		if !assert.NoError(t, err) {
			continue
		}

		got := mod.String()
		for _, want := range c.contain {
			assert.Contains(t, got, want)
		}

		assert.Contains(t, got, "ret i32")
	}
}

func TestLLVMGeneratorDivisionByZero(t *testing.T) {
	g := NewLLVMGenerator(&Program{
		Filename: "testing",
		Body: &BinaryExpr{
			Operation: BinaryDivision,
			Op1:       &LiteralExpr{Value: 1},
			Op2: &BinaryExpr{
				Operation: BinarySubtraction,
				Op1:       &LiteralExpr{Value: 2},
				Op2:       &LiteralExpr{Value: 2},
			},
		},
	})

	mod, err := g.Do()
	assert.ErrorIs(t, err, ErrDivisionByZero)
	assert.Nil(t, mod)
}

func TestLLVMGeneratorFromSource(t *testing.T) {
	l := NewLexerFromReader(strings.NewReader("int main() { return 2 + 3 * 4; }"))

	prog, err := NewParser(l).Run()
	assert.NoError(t, err)

	mod, err := NewLLVMGenerator(prog).Do()
	assert.NoError(t, err)

	got := mod.String()
	assert.Contains(t, got, "mul i64 3, 4")
	assert.Contains(t, got, "define i32 @main()")
}
