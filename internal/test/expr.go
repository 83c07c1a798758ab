package test

import (
	"fmt"
	"math/rand"
	"strings"
)

const validTokens = "int;return;main;(;);{;};+;-;*;/;0;7;42;123;9001;9223372036854775807;returned;_tmp1;\n"

func GetRandomTokens(size int) string {
	return GetRandomTokensWithSep(size, " ")
}

func GetRandomTokensWithSep(size int, sep string) string {
	valid := strings.Split(validTokens, ";")

	var toks []string
	for len(toks) < size {
		toks = append(toks, valid[rand.Intn(len(valid))])
	}

	return strings.Join(toks, sep)
}

// GetRandomExpression builds a well-formed arithmetic expression of the given
// depth. Divisors are always non-zero literals so the result stays
// compilable.
func GetRandomExpression(r *rand.Rand, depth int) string {
	if depth <= 0 {
		return fmt.Sprintf("%d", r.Intn(1000))
	}

	switch r.Intn(6) {
	case 0:
		return fmt.Sprintf("(%s + %s)", GetRandomExpression(r, depth-1), GetRandomExpression(r, depth-1))
	case 1:
		return fmt.Sprintf("(%s - %s)", GetRandomExpression(r, depth-1), GetRandomExpression(r, depth-1))
	case 2:
		return fmt.Sprintf("(%s * %s)", GetRandomExpression(r, depth-1), GetRandomExpression(r, depth-1))
	case 3:
		return fmt.Sprintf("(%s / %d)", GetRandomExpression(r, depth-1), r.Intn(999)+1)
	case 4:
		return fmt.Sprintf("-%s", GetRandomExpression(r, depth-1))
	default:
		return fmt.Sprintf("(%s)", GetRandomExpression(r, depth-1))
	}
}

// GetRandomProgram wraps a random expression in the fixed program skeleton.
func GetRandomProgram(r *rand.Rand, depth int) string {
	return fmt.Sprintf("int main() { return %s; }", GetRandomExpression(r, depth))
}
