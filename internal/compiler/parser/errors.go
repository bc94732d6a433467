// Package parser turns event expression text into an expression tree.
// It is a recursive descent parser that keeps going after a syntax error so
// that callers always receive a tree, together with every diagnostic found.
package parser

import (
	"fmt"

	"github.com/conduit-lang/eventc/internal/compiler/ast"
	"github.com/conduit-lang/eventc/internal/compiler/lexer"
)

// ParseError represents an error encountered during parsing
type ParseError struct {
	Message  string
	Location ast.SourceLocation
	Token    lexer.Token
	Near     string // Offending text, or "end of expression"
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("Parse error at column %d: %s (near '%s')",
		e.Location.Start+1, e.Message, e.Near)
}

// NewParseError creates a new parse error pointing at token
func NewParseError(message string, token lexer.Token) ParseError {
	near := token.Lexeme
	if token.Type == lexer.TOKEN_EOF {
		near = "end of expression"
	}
	return ParseError{
		Message:  message,
		Location: ast.SourceLocation{Start: token.Offset, End: token.End()},
		Token:    token,
		Near:     near,
	}
}

// ErrorList is every error found while parsing one expression
type ErrorList []ParseError

// Error implements the error interface, reporting the first error and a count
func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0].Error(), len(l)-1)
}

// First returns the first error, or nil
func (l ErrorList) First() *ParseError {
	if len(l) == 0 {
		return nil
	}
	return &l[0]
}
