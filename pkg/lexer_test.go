package retcc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"go.retcc.dev/internal/test"
)

func TestLexer(t *testing.T) {
	cases := []struct {
		data   string
		fail   bool
		expect []Token
	}{
		{
			"int main() { return 42; }",
			false,
			[]Token{
				{Typ: TokenInt, Value: "int"},
				{Typ: TokenIdentifier, Value: "main"},
				{Typ: TokenOpenParentheses, Value: "("},
				{Typ: TokenCloseParentheses, Value: ")"},
				{Typ: TokenOpenCurly, Value: "{"},
				{Typ: TokenReturn, Value: "return"},
				{Typ: TokenNumber, Value: "42"},
				{Typ: TokenSemicolon, Value: ";"},
				{Typ: TokenCloseCurly, Value: "}"},
			},
		},
		{
			"1+2*3-4/5",
			false,
			[]Token{
				{Typ: TokenNumber, Value: "1"},
				{Typ: TokenPlus, Value: "+"},
				{Typ: TokenNumber, Value: "2"},
				{Typ: TokenStar, Value: "*"},
				{Typ: TokenNumber, Value: "3"},
				{Typ: TokenMinus, Value: "-"},
				{Typ: TokenNumber, Value: "4"},
				{Typ: TokenSlash, Value: "/"},
				{Typ: TokenNumber, Value: "5"},
			},
		},
		{
			// maximal munch: one token, not KeywordReturn + Identifier
			"returned",
			false,
			[]Token{
				{Typ: TokenIdentifier, Value: "returned"},
			},
		},
		{
			"_int int2 int",
			false,
			[]Token{
				{Typ: TokenIdentifier, Value: "_int"},
				{Typ: TokenIdentifier, Value: "int2"},
				{Typ: TokenInt, Value: "int"},
			},
		},
		{
			"12345",
			false,
			[]Token{
				{Typ: TokenNumber, Value: "12345"},
			},
		},
		{
			"9223372036854775807",
			false,
			[]Token{
				{Typ: TokenNumber, Value: "9223372036854775807"},
			},
		},
		{
			"\t return\n\n 2 ;\t",
			false,
			[]Token{
				{Typ: TokenReturn, Value: "return"},
				{Typ: TokenNumber, Value: "2"},
				{Typ: TokenSemicolon, Value: ";"},
			},
		},
		{
			"",
			false,
			nil,
		},
		{
			"9223372036854775808",
			true,
			nil,
		},
		{
			"@",
			true,
			nil,
		},
		{
			"return 1 $ 2;",
			true,
			nil,
		},
	}

	for _, c := range cases {
		r := strings.NewReader(c.data)
		l := NewLexerFromReader(r)

		toks, err := l.RunBlocking()
		if c.fail {
			assert.Error(t, err)
		}

		for i := range toks {
			toks[i].Loc = Location{}
		}

		assert.Equal(t, c.expect, toks)
	}
}

func TestLexerErrors(t *testing.T) {
	l := NewLexerFromReader(strings.NewReader("return 1 $ 2;"))

	_, err := l.RunBlocking()
	assert.Error(t, err)

	var charErr *UnrecognizedCharError
	if assert.ErrorAs(t, err, &charErr) {
		assert.Equal(t, '$', charErr.Char)
		assert.Equal(t, Location{Line: 1, Col: 10}, charErr.Loc)
	}

	l = NewLexerFromReader(strings.NewReader("return 99999999999999999999;"))

	_, err = l.RunBlocking()
	assert.Error(t, err)

	var ovErr *NumericOverflowError
	if assert.ErrorAs(t, err, &ovErr) {
		assert.Equal(t, "99999999999999999999", ovErr.Literal)
		assert.Equal(t, Location{Line: 1, Col: 8}, ovErr.Loc)
	}
}

func TestLexerLocations(t *testing.T) {
	toks, err := NewLexerFromReader(strings.NewReader("int main()\n{ return 7; }")).RunBlocking()
	assert.NoError(t, err)

	expect := []Token{
		{TokenInt, "int", Location{1, 1}},
		{TokenIdentifier, "main", Location{1, 5}},
		{TokenOpenParentheses, "(", Location{1, 9}},
		{TokenCloseParentheses, ")", Location{1, 10}},
		{TokenOpenCurly, "{", Location{2, 1}},
		{TokenReturn, "return", Location{2, 3}},
		{TokenNumber, "7", Location{2, 10}},
		{TokenSemicolon, ";", Location{2, 11}},
		{TokenCloseCurly, "}", Location{2, 13}},
	}

	assert.Equal(t, expect, toks)
}

func TestLexerDeterministic(t *testing.T) {
	data := "int main() { return (10 - 3) * -2; }"

	first, err := NewLexerFromReader(strings.NewReader(data)).RunBlocking()
	assert.NoError(t, err)

	second, err := NewLexerFromReader(strings.NewReader(data)).RunBlocking()
	assert.NoError(t, err)

	assert.Equal(t, first, second)
}

// Every non-whitespace character of valid input ends up in exactly one token.
func TestLexerTotal(t *testing.T) {
	data := "int main() { return (10-3)*-2/7; }"

	toks, err := NewLexerFromReader(strings.NewReader(data)).RunBlocking()
	assert.NoError(t, err)

	var joined strings.Builder
	for _, tok := range toks {
		joined.WriteString(tok.Value)
	}

	stripped := strings.Join(strings.Fields(data), "")
	assert.Equal(t, stripped, joined.String())
}

// Use a package-level variable to avoid compiler optimisation
var benchResult []Token

func benchmarkLexer(size int, b *testing.B) {
	for n := 0; n < b.N; n++ {
		// Setup
		b.StopTimer()
		data := test.GetRandomTokens(size)
		r := strings.NewReader(data)
		l := NewLexerFromReader(r)

		b.StartTimer()

		var err error
		benchResult, err = l.RunBlocking()
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLexer100(b *testing.B) {
	benchmarkLexer(100, b)
}

func BenchmarkLexer1000(b *testing.B) {
	benchmarkLexer(1000, b)
}

func BenchmarkLexer10000(b *testing.B) {
	benchmarkLexer(10000, b)
}

func BenchmarkLexer100000(b *testing.B) {
	benchmarkLexer(100000, b)
}
