package query

import (
	"strings"
	"unicode/utf8"
)

// TokenType represents the type of a lexical token.
type TokenType int

const (
	// Keywords
	TokenSelect TokenType = iota
	TokenFrom
	TokenWhere
	TokenLimit
	TokenAnd
	TokenOr
	TokenTrue
	TokenFalse
	TokenNull

	// Operators
	TokenEqual        // =
	TokenNotEqual     // !=
	TokenLess         // <
	TokenGreater      // >
	TokenLessEqual    // <=
	TokenGreaterEqual // >=

	// Literals
	TokenString
	TokenInt
	TokenFloat
	TokenIdent

	// Delimiters
	TokenStar       // *
	TokenComma      // ,
	TokenLeftParen  // (
	TokenRightParen // )

	// Special
	TokenEOF
	TokenError
)

var tokenNames = map[TokenType]string{
	TokenSelect: "SELECT", TokenFrom: "FROM", TokenWhere: "WHERE", TokenLimit: "LIMIT",
	TokenAnd: "AND", TokenOr: "OR", TokenTrue: "TRUE", TokenFalse: "FALSE", TokenNull: "NULL",
	TokenEqual: "=", TokenNotEqual: "!=", TokenLess: "<", TokenGreater: ">",
	TokenLessEqual: "<=", TokenGreaterEqual: ">=",
	TokenString: "STRING", TokenInt: "INT", TokenFloat: "FLOAT", TokenIdent: "IDENT",
	TokenStar: "*", TokenComma: ",", TokenLeftParen: "(", TokenRightParen: ")",
	TokenEOF: "EOF", TokenError: "ERROR",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// Token represents a lexical token. Pos is the byte offset of the
// token in the original input; the parser uses it to report the
// unconsumed remainder of the query string.
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

var keywords = map[string]TokenType{
	"select": TokenSelect,
	"from":   TokenFrom,
	"where":  TokenWhere,
	"limit":  TokenLimit,
	"and":    TokenAnd,
	"or":     TokenOr,
	"true":   TokenTrue,
	"false":  TokenFalse,
	"null":   TokenNull,
}

// Lexer tokenizes query strings.
type Lexer struct {
	input string
	pos   int
}

// NewLexer creates a new lexer.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize returns all tokens of the input, ending with TokenEOF. A
// character the lexer cannot handle becomes a TokenError carrying its
// position; tokens after it are not produced. The parser treats an
// unreached TokenError as plain leftover input.
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF || tok.Type == TokenError {
			return tokens
		}
	}
}

// The lexer walks the input by byte. Every token delimiter is ASCII;
// multi-byte UTF-8 sequences only occur inside quoted strings, where
// their bytes are copied through untouched, so no rune decoding is
// needed on the hot path.
func (l *Lexer) ch() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekChar() byte {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *Lexer) skipWhitespace() {
	for {
		switch l.ch() {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	pos := l.pos
	ch := l.ch()

	switch ch {
	case 0:
		return Token{Type: TokenEOF, Value: "", Pos: len(l.input)}
	case '*':
		l.pos++
		return Token{Type: TokenStar, Value: "*", Pos: pos}
	case ',':
		l.pos++
		return Token{Type: TokenComma, Value: ",", Pos: pos}
	case '(':
		l.pos++
		return Token{Type: TokenLeftParen, Value: "(", Pos: pos}
	case ')':
		l.pos++
		return Token{Type: TokenRightParen, Value: ")", Pos: pos}
	case '=':
		l.pos++
		return Token{Type: TokenEqual, Value: "=", Pos: pos}
	case '!':
		if l.peekChar() == '=' {
			l.pos += 2
			return Token{Type: TokenNotEqual, Value: "!=", Pos: pos}
		}
		return Token{Type: TokenError, Value: "!", Pos: pos}
	case '<':
		if l.peekChar() == '=' {
			l.pos += 2
			return Token{Type: TokenLessEqual, Value: "<=", Pos: pos}
		}
		l.pos++
		return Token{Type: TokenLess, Value: "<", Pos: pos}
	case '>':
		if l.peekChar() == '=' {
			l.pos += 2
			return Token{Type: TokenGreaterEqual, Value: ">=", Pos: pos}
		}
		l.pos++
		return Token{Type: TokenGreater, Value: ">", Pos: pos}
	case '\'', '"':
		return l.readString(ch)
	}

	if isDigit(ch) {
		return l.readNumber()
	}

	if isLetter(ch) || ch == '_' {
		return l.readIdentifier()
	}

	_, size := utf8.DecodeRuneInString(l.input[pos:])
	return Token{Type: TokenError, Value: l.input[pos : pos+size], Pos: pos}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// isLetter accepts the ASCII identifier alphabet. Column and table
// names are ASCII in every supported format; anything else outside a
// quoted string is leftover input.
func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// readString reads a quoted string literal. Bytes are copied through
// raw, so multi-byte UTF-8 content survives unchanged.
func (l *Lexer) readString(quote byte) Token {
	pos := l.pos
	l.pos++ // skip opening quote

	var result strings.Builder
	for l.ch() != quote && l.pos < len(l.input) {
		if l.ch() == '\\' {
			l.pos++
			switch l.ch() {
			case 'n':
				result.WriteByte('\n')
			case 't':
				result.WriteByte('\t')
			case '\\':
				result.WriteByte('\\')
			case quote:
				result.WriteByte(quote)
			default:
				result.WriteByte(l.ch())
			}
		} else {
			result.WriteByte(l.ch())
		}
		l.pos++
	}

	if l.ch() != quote {
		return Token{Type: TokenError, Value: "unterminated string", Pos: pos}
	}
	l.pos++ // skip closing quote
	return Token{Type: TokenString, Value: result.String(), Pos: pos}
}

// readNumber reads an integer or float literal.
func (l *Lexer) readNumber() Token {
	pos := l.pos
	for isDigit(l.ch()) {
		l.pos++
	}
	isFloat := false
	if l.ch() == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.pos++
		for isDigit(l.ch()) {
			l.pos++
		}
	}
	val := l.input[pos:l.pos]
	if isFloat {
		return Token{Type: TokenFloat, Value: val, Pos: pos}
	}
	return Token{Type: TokenInt, Value: val, Pos: pos}
}

// readIdentifier reads an identifier or keyword. Keywords are
// case-insensitive.
func (l *Lexer) readIdentifier() Token {
	pos := l.pos
	for isLetter(l.ch()) || isDigit(l.ch()) || l.ch() == '_' {
		l.pos++
	}
	val := l.input[pos:l.pos]
	if tt, ok := keywords[strings.ToLower(val)]; ok {
		return Token{Type: tt, Value: val, Pos: pos}
	}
	return Token{Type: TokenIdent, Value: val, Pos: pos}
}
