package lexer

import "fmt"

// TokenType represents the type of a token in an event expression
type TokenType int

const (
	// TOKEN_EOF marks the end of the token stream.
	TOKEN_EOF TokenType = iota
	// TOKEN_ERROR represents a lexical error encountered during scanning.
	TOKEN_ERROR

	// Literals
	TOKEN_NUMBER     // 12.5
	TOKEN_STRING     // "hello"
	TOKEN_IDENTIFIER // Score, MyExtension::Func

	// Operators
	TOKEN_PLUS  // +
	TOKEN_MINUS // -
	TOKEN_STAR  // *
	TOKEN_SLASH // /
	TOKEN_CARET // ^

	// Delimiters
	TOKEN_LPAREN    // (
	TOKEN_RPAREN    // )
	TOKEN_LBRACKET  // [
	TOKEN_RBRACKET  // ]
	TOKEN_COMMA     // ,
	TOKEN_DOT       // .
	TOKEN_NAMESPACE // ::
)

// TokenTypeNames maps token types to their string representations
var TokenTypeNames = map[TokenType]string{
	TOKEN_EOF:        "EOF",
	TOKEN_ERROR:      "ERROR",
	TOKEN_NUMBER:     "NUMBER",
	TOKEN_STRING:     "STRING",
	TOKEN_IDENTIFIER: "IDENTIFIER",
	TOKEN_PLUS:       "PLUS",
	TOKEN_MINUS:      "MINUS",
	TOKEN_STAR:       "STAR",
	TOKEN_SLASH:      "SLASH",
	TOKEN_CARET:      "CARET",
	TOKEN_LPAREN:     "LPAREN",
	TOKEN_RPAREN:     "RPAREN",
	TOKEN_LBRACKET:   "LBRACKET",
	TOKEN_RBRACKET:   "RBRACKET",
	TOKEN_COMMA:      "COMMA",
	TOKEN_DOT:        "DOT",
	TOKEN_NAMESPACE:  "NAMESPACE",
}

// String returns the string representation of a token type
func (t TokenType) String() string {
	if name, ok := TokenTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", t)
}

// Token represents a single lexical token
type Token struct {
	Type    TokenType   // The type of the token
	Lexeme  string      // The raw text of the token
	Literal interface{} // float64 for numbers, unescaped string for strings
	Offset  int         // Byte offset of the first character (0-indexed)
	Column  int         // Column number (1-indexed)
}

// End returns the byte offset just past the token
func (t Token) End() int {
	return t.Offset + len(t.Lexeme)
}

// String returns a string representation of the token for debugging
func (t Token) String() string {
	if t.Literal != nil {
		return fmt.Sprintf("%s '%s' (%v) at %d",
			t.Type.String(), t.Lexeme, t.Literal, t.Column)
	}
	return fmt.Sprintf("%s '%s' at %d",
		t.Type.String(), t.Lexeme, t.Column)
}

// LexError represents a lexical error with location information
type LexError struct {
	Message string // Error message
	Offset  int    // Byte offset where the error occurred
	Column  int    // Column number where the error occurred
	Lexeme  string // The problematic text
}

// Error implements the error interface
func (e LexError) Error() string {
	return fmt.Sprintf("Lexical error at column %d: %s (near '%s')",
		e.Column, e.Message, e.Lexeme)
}
