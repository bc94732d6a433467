// Package lexer provides lexical analysis for event expressions.
// It tokenizes the text typed into instruction parameters (for example
// `3 + Variable(Score) * 2`) into a stream of tokens for the parser.
package lexer

import (
	"fmt"
	"strconv"
	"strings"
)

// Lexer tokenizes an expression.
//
// Thread Safety: Lexer instances are NOT thread-safe. Each goroutine must
// create its own Lexer instance via New().
type Lexer struct {
	source  string     // Expression text to tokenize
	start   int        // Start position of current token
	current int        // Current position in source
	tokens  []Token    // Collected tokens
	errors  []LexError // Collected errors
}

// New creates a new Lexer for the given expression text
func New(source string) *Lexer {
	return &Lexer{
		source: source,
		tokens: make([]Token, 0),
		errors: make([]LexError, 0),
	}
}

// ScanTokens tokenizes the entire source and returns tokens and errors.
// Unrecognised characters produce a TOKEN_ERROR token as well as an error
// so that the parser can point at them.
func (l *Lexer) ScanTokens() ([]Token, []LexError) {
	for !l.isAtEnd() {
		l.start = l.current
		l.scanToken()
	}

	l.tokens = append(l.tokens, Token{
		Type:   TOKEN_EOF,
		Lexeme: "",
		Offset: l.current,
		Column: l.current + 1,
	})

	return l.tokens, l.errors
}

// scanToken processes the next token
func (l *Lexer) scanToken() {
	c := l.advance()

	switch {
	case c == '(':
		l.addToken(TOKEN_LPAREN)
	case c == ')':
		l.addToken(TOKEN_RPAREN)
	case c == '[':
		l.addToken(TOKEN_LBRACKET)
	case c == ']':
		l.addToken(TOKEN_RBRACKET)
	case c == ',':
		l.addToken(TOKEN_COMMA)
	case c == '+':
		l.addToken(TOKEN_PLUS)
	case c == '-':
		l.addToken(TOKEN_MINUS)
	case c == '*':
		l.addToken(TOKEN_STAR)
	case c == '/':
		l.addToken(TOKEN_SLASH)
	case c == '^':
		l.addToken(TOKEN_CARET)
	case c == ':':
		if l.match(':') {
			l.addToken(TOKEN_NAMESPACE)
		} else {
			l.addErrorToken("Unexpected ':' (namespaces are separated by '::')")
		}
	case c == '.':
		if l.isDigit(l.peek()) {
			l.number()
		} else {
			l.addToken(TOKEN_DOT)
		}
	case c == '"':
		l.string()
	case c == ' ' || c == '\r' || c == '\t' || c == '\n':
		// Ignore whitespace
	case l.isDigit(c):
		l.number()
	case l.isAlpha(c):
		l.identifier()
	default:
		l.addErrorToken(fmt.Sprintf("Unexpected character '%c'", c))
	}
}

// string handles double-quoted text literals. Only \" and \\ are escapes;
// any other backslash is kept as-is.
func (l *Lexer) string() {
	value := strings.Builder{}

	for !l.isAtEnd() && l.peek() != '"' {
		if l.peek() == '\\' && (l.peekNext() == '"' || l.peekNext() == '\\') {
			l.advance()
			value.WriteByte(l.advance())
			continue
		}
		value.WriteByte(l.advance())
	}

	if l.isAtEnd() {
		l.addErrorToken("Unterminated text: a closing quote is missing")
		return
	}

	// Consume closing "
	l.advance()
	l.addTokenWithLiteral(TOKEN_STRING, value.String())
}

// number handles numeric literals such as 12, 12.5, 12. and .5
func (l *Lexer) number() {
	for l.isDigit(l.peek()) {
		l.advance()
	}

	if l.peek() == '.' && !strings.Contains(l.source[l.start:l.current], ".") {
		l.advance()
		for l.isDigit(l.peek()) {
			l.advance()
		}
	}

	lexeme := l.source[l.start:l.current]
	value, err := strconv.ParseFloat(strings.TrimSuffix(lexeme, "."), 64)
	if err != nil {
		l.addErrorToken(fmt.Sprintf("Invalid number: %s", lexeme))
		return
	}
	l.addTokenWithLiteral(TOKEN_NUMBER, value)
}

// identifier handles object, variable and function names
func (l *Lexer) identifier() {
	for l.isAlphaNumeric(l.peek()) {
		l.advance()
	}
	l.addToken(TOKEN_IDENTIFIER)
}

// Helper methods

// isAtEnd checks if we've reached the end of the source
func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

// advance consumes and returns the current character
func (l *Lexer) advance() byte {
	if l.isAtEnd() {
		return 0
	}
	c := l.source[l.current]
	l.current++
	return c
}

// match checks if the current character matches expected and consumes it
func (l *Lexer) match(expected byte) bool {
	if l.isAtEnd() || l.source[l.current] != expected {
		return false
	}
	l.current++
	return true
}

// peek returns the current character without consuming it
func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.current]
}

// peekNext returns the next character without consuming
func (l *Lexer) peekNext() byte {
	if l.current+1 >= len(l.source) {
		return 0
	}
	return l.source[l.current+1]
}

// isDigit checks if a character is a digit
func (l *Lexer) isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// isAlpha checks if a character can start an identifier. Bytes of
// multi-byte UTF-8 sequences are accepted so that names in any script work.
func (l *Lexer) isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		c == '_' || c == '$' ||
		c >= 0x80
}

// isAlphaNumeric checks if a character can continue an identifier
func (l *Lexer) isAlphaNumeric(c byte) bool {
	return l.isAlpha(c) || l.isDigit(c)
}

// addToken adds a token without a literal value
func (l *Lexer) addToken(tokenType TokenType) {
	l.addTokenWithLiteral(tokenType, nil)
}

// addTokenWithLiteral adds a token with a literal value
func (l *Lexer) addTokenWithLiteral(tokenType TokenType, literal interface{}) {
	l.tokens = append(l.tokens, Token{
		Type:    tokenType,
		Lexeme:  l.source[l.start:l.current],
		Literal: literal,
		Offset:  l.start,
		Column:  l.start + 1,
	})
}

// addErrorToken records a lexical error and emits an error token covering
// the offending text
func (l *Lexer) addErrorToken(message string) {
	end := l.current
	if end > l.start+20 {
		end = l.start + 20
	}

	l.errors = append(l.errors, LexError{
		Message: message,
		Offset:  l.start,
		Column:  l.start + 1,
		Lexeme:  l.source[l.start:end],
	})
	l.addToken(TOKEN_ERROR)
}
