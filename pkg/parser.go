package retcc

import (
	"fmt"
	"strconv"
)

type ParseError struct {
	Expected string
	Found    Token
}

func (e *ParseError) Error() string {
	found := fmt.Sprintf("'%s'", e.Found.Value)
	if e.Found.Typ == TokenEOF {
		found = "end of input"
	}

	return fmt.Sprintf("expected %s, found %s at %s", e.Expected, found, e.Found.Loc)
}

type SyntacticAnalyzer interface {
	Run() (*Program, error)
	GetFilename() string
}

type Parser struct {
	filename  string
	tokenizer Tokenizer
	buf       *Token
}

func NewParser(tokenizer Tokenizer) *Parser {
	return &Parser{
		tokenizer: tokenizer,
		filename:  tokenizer.GetFilename(),
	}
}

func (p *Parser) GetFilename() string {
	return p.filename
}

// Run drives the tokenizer and parses the whole program. It stops at the
// first mismatch: no recovery, no partial tree.
func (p *Parser) Run() (*Program, error) {
	go p.tokenizer.Do()

	body, err := p.program()
	if err != nil {
		// unblock the tokenizer goroutine before bailing out
		for t := p.next(); t.isValid(); t = p.next() {
		}

		return nil, err
	}

	return &Program{
		Filename: p.filename,
		Body:     body,
	}, nil
}

func (p *Parser) peek() Token {
	if p.buf == nil {
		temp := p.next()
		p.buf = &temp
	}

	return *p.buf
}

func (p *Parser) next() Token {
	if p.buf != nil {
		if !p.buf.isValid() {
			// If an invalid token is buffered, don't try to get more tokens
			return *p.buf
		}

		temp := p.buf
		p.buf = nil

		return *temp
	}

	tok := p.tokenizer.Get()
	if !tok.isValid() {
		// Keep Error and EOF buffered since no more valid tokens are expected
		p.buf = &tok
	}

	return tok
}

func (p *Parser) expect(typ TokenType, what string) (Token, error) {
	tok := p.next()
	if tok.Typ == TokenError {
		if err := p.tokenizer.Err(); err != nil {
			return tok, err
		}
	}

	if tok.Typ != typ {
		return tok, &ParseError{Expected: what, Found: tok}
	}

	return tok, nil
}

func (p *Parser) consume(typ TokenType, what string) error {
	_, err := p.expect(typ, what)
	return err
}

// program := 'int' 'main' '(' ')' '{' 'return' expr ';' '}'
//
// Exactly one statement is allowed in the body; the closing brace right after
// the semicolon enforces that.
func (p *Parser) program() (Expr, error) {
	if err := p.consume(TokenInt, "'int'"); err != nil {
		return nil, err
	}

	name, err := p.expect(TokenIdentifier, "function name")
	if err != nil {
		return nil, err
	}

	if name.Value != "main" {
		return nil, &ParseError{Expected: "'main'", Found: name}
	}

	if err := p.consume(TokenOpenParentheses, "'('"); err != nil {
		return nil, err
	}

	if err := p.consume(TokenCloseParentheses, "')'"); err != nil {
		return nil, err
	}

	if err := p.consume(TokenOpenCurly, "'{'"); err != nil {
		return nil, err
	}

	body, err := p.returnStmt()
	if err != nil {
		return nil, err
	}

	if err := p.consume(TokenCloseCurly, "'}'"); err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.Typ != TokenEOF {
		if tok.Typ == TokenError {
			if err := p.tokenizer.Err(); err != nil {
				return nil, err
			}
		}

		return nil, &ParseError{Expected: "end of input", Found: tok}
	}

	return body, nil
}

func (p *Parser) returnStmt() (Expr, error) {
	if err := p.consume(TokenReturn, "'return'"); err != nil {
		return nil, err
	}

	body, err := p.expr()
	if err != nil {
		return nil, err
	}

	if err := p.consume(TokenSemicolon, "';'"); err != nil {
		return nil, err
	}

	return body, nil
}

// expr := term (('+' | '-') term)*
//
// The loop folds chained operands into a left-leaning chain, so 10 - 3 - 2
// parses as (10 - 3) - 2.
func (p *Parser) expr() (Expr, error) {
	lhs, err := p.term()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		if tok.Typ != TokenPlus && tok.Typ != TokenMinus {
			return lhs, nil
		}

		p.next()

		rhs, err := p.term()
		if err != nil {
			return nil, err
		}

		lhs = &BinaryExpr{
			Operation: BinaryOp(tok.Value),
			Op1:       lhs,
			Op2:       rhs,
		}
	}
}

// term := factor (('*' | '/') factor)*
func (p *Parser) term() (Expr, error) {
	lhs, err := p.factor()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		if tok.Typ != TokenStar && tok.Typ != TokenSlash {
			return lhs, nil
		}

		p.next()

		rhs, err := p.factor()
		if err != nil {
			return nil, err
		}

		lhs = &BinaryExpr{
			Operation: BinaryOp(tok.Value),
			Op1:       lhs,
			Op2:       rhs,
		}
	}
}

// factor := NUMBER | '(' expr ')' | '-' factor
func (p *Parser) factor() (Expr, error) {
	switch tok := p.peek(); tok.Typ {
	case TokenMinus:
		p.next()

		operand, err := p.factor()
		if err != nil {
			return nil, err
		}

		return &UnaryExpr{
			Operation: UnaryNegative,
			Operand:   operand,
		}, nil

	case TokenOpenParentheses:
		p.next()

		exp, err := p.expr()
		if err != nil {
			return nil, err
		}

		if err := p.consume(TokenCloseParentheses, "')'"); err != nil {
			return nil, err
		}

		return exp, nil

	case TokenNumber:
		p.next()

		v, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			// The lexer already range-checked the literal
			return nil, &ParseError{Expected: "integer literal", Found: tok}
		}

		return &LiteralExpr{Value: v}, nil

	case TokenError:
		if err := p.tokenizer.Err(); err != nil {
			return nil, err
		}

		fallthrough

	default:
		return nil, &ParseError{Expected: "expression", Found: tok}
	}
}
