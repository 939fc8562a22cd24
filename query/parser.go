// Package query implements the syntax layer: a lexer and a
// recursive-descent parser turning a query string into a
// SelectStatement AST.
//
// The grammar is:
//
//	SELECT <projection> FROM <ident> [WHERE <bool_expr>] [LIMIT <uint>]
//
// where <projection> is '*' or a comma-separated list of identifiers,
// and <bool_expr> supports the comparison operators =, !=, <, <=, >,
// >= combined with AND, OR and parentheses (AND binds tighter than
// OR). The parser consumes a prefix of the input and reports the
// unconsumed remainder; deciding whether leftover input is an error is
// the driver's job.
package query

import (
	"fmt"
	"strconv"
	"strings"
)

// SyntaxError reports a failed parse. Diagnostics holds every
// alternative the parser attempted at the failure points, so the
// operator sees all candidate corrections, not just the first branch
// tried.
type SyntaxError struct {
	Diagnostics []string
}

func (e *SyntaxError) Error() string {
	return "syntax error:\n" + strings.Join(e.Diagnostics, "\n")
}

// errParse is the internal failure marker; Parse converts it into a
// SyntaxError carrying the accumulated diagnostics.
var errParse = fmt.Errorf("parse failed")

// Parser parses a token stream into a SelectStatement.
type Parser struct {
	input    string
	tokens   []Token
	pos      int
	attempts []string
}

// NewParser creates a parser over pre-lexed tokens.
func NewParser(input string, tokens []Token) *Parser {
	return &Parser{input: input, tokens: tokens}
}

// Parse parses a SELECT statement from the front of input. It returns
// the statement and the raw unconsumed remainder of the input (empty
// when the whole string was consumed).
func Parse(input string) (*SelectStatement, string, error) {
	p := NewParser(input, Tokenize(input))
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, "", &SyntaxError{Diagnostics: p.attempts}
	}
	return stmt, p.remainder(), nil
}

// remainder returns the input suffix starting at the first unconsumed
// token.
func (p *Parser) remainder() string {
	tok := p.current()
	if tok.Type == TokenEOF {
		return ""
	}
	return p.input[tok.Pos:]
}

func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF, Pos: len(p.input)}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() {
	p.pos++
}

// accept consumes the current token if it has the given type.
func (p *Parser) accept(tt TokenType) bool {
	if p.current().Type != tt {
		return false
	}
	p.advance()
	return true
}

// expected records one attempted alternative at the current position.
func (p *Parser) expected(what string) {
	tok := p.current()
	near := p.input[tok.Pos:]
	if len(near) > 20 {
		near = near[:20]
	}
	if near == "" {
		near = "end of input"
	} else {
		near = strconv.Quote(near)
	}
	p.attempts = append(p.attempts, fmt.Sprintf("expected %s at position %d (near %s)", what, tok.Pos, near))
}

// fail records an attempted alternative and aborts the current branch.
func (p *Parser) fail(what string) error {
	p.expected(what)
	return errParse
}

// parseStatement parses: SELECT projection FROM ident [WHERE expr] [LIMIT n]
func (p *Parser) parseStatement() (*SelectStatement, error) {
	if !p.accept(TokenSelect) {
		return nil, p.fail("SELECT")
	}

	stmt := &SelectStatement{}
	if err := p.parseProjection(stmt); err != nil {
		return nil, err
	}

	if !p.accept(TokenFrom) {
		return nil, p.fail("FROM")
	}

	tok := p.current()
	if tok.Type != TokenIdent {
		return nil, p.fail("table identifier after FROM")
	}
	stmt.TableName = tok.Value
	p.advance()

	if p.accept(TokenWhere) {
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		stmt.Where = expr
	}

	if p.accept(TokenLimit) {
		tok := p.current()
		if tok.Type != TokenInt {
			return nil, p.fail("unsigned row count after LIMIT")
		}
		n, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return nil, p.fail("unsigned row count after LIMIT")
		}
		p.advance()
		stmt.Limit = &n
	}

	return stmt, nil
}

// parseProjection parses '*' or a comma-separated identifier list.
func (p *Parser) parseProjection(stmt *SelectStatement) error {
	if p.accept(TokenStar) {
		stmt.Star = true
		return nil
	}

	if p.current().Type != TokenIdent {
		p.expected("'*'")
		return p.fail("column identifier")
	}

	for {
		tok := p.current()
		if tok.Type != TokenIdent {
			return p.fail("column identifier after ','")
		}
		stmt.Projection = append(stmt.Projection, tok.Value)
		p.advance()
		if !p.accept(TokenComma) {
			return nil
		}
	}
}

// parseOr parses OR combinations (lowest precedence).
func (p *Parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.accept(TokenOr) {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: "or", Left: left, Right: right}
	}
	return left, nil
}

// parseAnd parses AND combinations (binds tighter than OR).
func (p *Parser) parseAnd() (Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.accept(TokenAnd) {
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: "and", Left: left, Right: right}
	}
	return left, nil
}

// parsePrimary parses a parenthesized group or a single comparison.
func (p *Parser) parsePrimary() (Expr, error) {
	if p.accept(TokenLeftParen) {
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.accept(TokenRightParen) {
			return nil, p.fail("')'")
		}
		return expr, nil
	}

	start := p.current().Pos
	expr, err := p.parseComparison()
	if err != nil && p.current().Pos == start {
		// The comparison branch failed on its very first token, so a
		// group would have been just as valid here.
		p.expected("'(' opening a group")
	}
	return expr, err
}

// parseComparison parses: operand op operand.
func (p *Parser) parseComparison() (Expr, error) {
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	var op string
	switch p.current().Type {
	case TokenEqual:
		op = "="
	case TokenNotEqual:
		op = "!="
	case TokenLess:
		op = "<"
	case TokenLessEqual:
		op = "<="
	case TokenGreater:
		op = ">"
	case TokenGreaterEqual:
		op = ">="
	default:
		return nil, p.fail("comparison operator (=, !=, <, <=, >, >=)")
	}
	p.advance()

	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return &BinaryExpr{Op: op, Left: left, Right: right}, nil
}

// parseOperand parses a column reference or a literal.
func (p *Parser) parseOperand() (Expr, error) {
	tok := p.current()
	switch tok.Type {
	case TokenIdent:
		p.advance()
		return &ColumnExpr{Name: tok.Value}, nil
	case TokenInt:
		n, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return nil, p.fail("integer literal")
		}
		p.advance()
		return &LiteralExpr{Kind: "int", Int: n}, nil
	case TokenFloat:
		f, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, p.fail("float literal")
		}
		p.advance()
		return &LiteralExpr{Kind: "float", Float: f}, nil
	case TokenString:
		p.advance()
		return &LiteralExpr{Kind: "string", Str: tok.Value}, nil
	case TokenTrue:
		p.advance()
		return &LiteralExpr{Kind: "bool", Bool: true}, nil
	case TokenFalse:
		p.advance()
		return &LiteralExpr{Kind: "bool", Bool: false}, nil
	case TokenNull:
		p.advance()
		return &LiteralExpr{Kind: "null"}, nil
	default:
		p.expected("column identifier")
		return nil, p.fail("literal value")
	}
}
