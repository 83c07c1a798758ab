package retcc

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"unicode"
)

type TokenType uint64
type stateFunc func(l *Lexer) stateFunc

//go:generate stringer -type=TokenType -trimprefix=Token
const (
	EOF rune = 0

	TokenError TokenType = iota
	TokenEOF
	TokenNumber

	TokenIdentifier
	TokenInt
	TokenReturn

	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenOpenParentheses
	TokenCloseParentheses
	TokenOpenCurly
	TokenCloseCurly
	TokenSemicolon
)

var keywordTable = map[string]TokenType{
	"int":    TokenInt,
	"return": TokenReturn,
}

var symbolTable = map[rune]TokenType{
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenStar,
	'/': TokenSlash,
	'(': TokenOpenParentheses,
	')': TokenCloseParentheses,
	'{': TokenOpenCurly,
	'}': TokenCloseCurly,
	';': TokenSemicolon,
}

type Location struct {
	Line int
	Col  int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}

type Token struct {
	Typ   TokenType
	Value string
	Loc   Location
}

func (t Token) isValid() bool {
	return t.Typ != TokenError && t.Typ != TokenEOF
}

type UnrecognizedCharError struct {
	Char rune
	Loc  Location
}

func (e *UnrecognizedCharError) Error() string {
	return fmt.Sprintf("unrecognized character '%c' at %s", e.Char, e.Loc)
}

type NumericOverflowError struct {
	Literal string
	Loc     Location
}

func (e *NumericOverflowError) Error() string {
	return fmt.Sprintf("integer literal '%s' at %s overflows 64 bits", e.Literal, e.Loc)
}

// Tokenizer is the token source the parser consumes. The lexer is the real
// implementation; tests substitute a buffered mock.
type Tokenizer interface {
	Do()
	Get() Token
	Err() error
	GetFilename() string
}

type Lexer struct {
	filename string
	reader   *bufio.Reader
	done     chan Token
	err      error

	pos Location
}

func NewLexer(filename string) (*Lexer, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	l := NewLexerFromReader(bytes.NewReader(data))
	l.filename = filename

	return l, nil
}

func NewLexerFromReader(reader io.Reader) *Lexer {
	return &Lexer{
		filename: "<buffer>",
		reader:   bufio.NewReader(reader),
		done:     make(chan Token),
		pos:      Location{Line: 1, Col: 1},
	}
}

func (l *Lexer) GetFilename() string {
	return l.filename
}

func (l *Lexer) Chan() chan Token {
	return l.done
}

// Err reports the failure behind a TokenError token. It is safe to read once
// the error token has been received.
func (l *Lexer) Err() error {
	return l.err
}

func (l *Lexer) Do() {
	l.Run()
}

func (l *Lexer) Run() {
	for state := defaultState; state != nil; {
		state = state(l)
	}

	close(l.done)
}

func (l *Lexer) RunBlocking() ([]Token, error) {
	go l.Run()

	var tokens []Token
	for t := range l.Chan() {
		if t.Typ == TokenEOF {
			return tokens, nil
		}

		if t.Typ == TokenError {
			return nil, l.err
		}

		tokens = append(tokens, t)
	}

	return tokens, nil
}

func (l *Lexer) Get() Token {
	return <-l.done
}

func defaultState(l *Lexer) stateFunc {
	for {
		switch r := l.peek(); {
		case r == EOF:
			return l.emit(TokenEOF, "", l.pos)
		case unicode.IsSpace(r):
			l.next()
			continue
		case '0' <= r && r <= '9':
			return numberState
		case r == '_' || unicode.IsLetter(r):
			return identifierState
		default:
			return symbolState
		}
	}
}

func numberState(l *Lexer) stateFunc {
	loc := l.pos

	var num []rune
	for r := l.peek(); '0' <= r && r <= '9'; r = l.peek() {
		num = append(num, l.next())
	}

	lit := string(num)
	if _, err := strconv.ParseInt(lit, 10, 64); err != nil {
		return l.fail(&NumericOverflowError{Literal: lit, Loc: loc})
	}

	return l.emit(TokenNumber, lit, loc)
}

func identifierState(l *Lexer) stateFunc {
	loc := l.pos

	var id []rune
	for r := l.peek(); r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r); r = l.peek() {
		id = append(id, l.next())
	}

	// Keywords are recognized as whole identifiers only: "returned" stays an
	// identifier.
	if t, ok := keywordTable[string(id)]; ok {
		return l.emit(t, string(id), loc)
	}

	return l.emit(TokenIdentifier, string(id), loc)
}

func symbolState(l *Lexer) stateFunc {
	loc := l.pos

	r := l.next()
	if tok, ok := symbolTable[r]; ok {
		return l.emit(tok, string(r), loc)
	}

	return l.fail(&UnrecognizedCharError{Char: r, Loc: loc})
}

func (l *Lexer) fail(err error) stateFunc {
	l.err = err
	l.done <- Token{
		Typ:   TokenError,
		Value: err.Error(),
		Loc:   l.pos,
	}

	return nil
}

func (l *Lexer) emit(t TokenType, val string, loc Location) stateFunc {
	l.done <- Token{
		Typ:   t,
		Value: val,
		Loc:   loc,
	}

	if t == TokenEOF {
		return nil
	}

	return defaultState
}

func (l *Lexer) peek() rune {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		return EOF
	}

	_ = l.reader.UnreadRune()

	return r
}

func (l *Lexer) next() rune {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		return EOF
	}

	if r == '\n' {
		l.pos.Line++
		l.pos.Col = 1
	} else {
		l.pos.Col++
	}

	return r
}
