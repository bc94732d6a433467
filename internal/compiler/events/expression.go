package events

import (
	"strings"
	"sync"

	"github.com/conduit-lang/eventc/internal/compiler/ast"
	"github.com/conduit-lang/eventc/internal/compiler/parser"
)

// Expression is the raw text of one instruction parameter. The text is
// parsed on first use and the tree is kept for later calls; parsing is
// safe to trigger from several goroutines.
type Expression struct {
	text string

	once sync.Once
	root ast.Node
	err  error
}

// NewExpression creates an expression holding text
func NewExpression(text string) *Expression {
	return &Expression{text: text}
}

// Text returns the expression as typed by the author
func (e *Expression) Text() string {
	if e == nil {
		return ""
	}
	return e.text
}

// IsEmpty reports whether the expression has no meaningful text
func (e *Expression) IsEmpty() bool {
	return strings.TrimSpace(e.Text()) == ""
}

// Root returns the parsed tree. The tree is never nil; when the text is
// malformed the error describes the problems and the tree holds what could
// be recovered.
func (e *Expression) Root() (ast.Node, error) {
	if e == nil {
		return &ast.Empty{}, nil
	}
	e.once.Do(func() {
		e.root, e.err = parser.Parse(e.text)
	})
	return e.root, e.err
}

// MarshalText implements encoding.TextMarshaler
func (e *Expression) MarshalText() ([]byte, error) {
	return []byte(e.Text()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Project files store
// every parameter as a plain string.
func (e *Expression) UnmarshalText(data []byte) error {
	e.text = string(data)
	return nil
}

// String returns the expression text
func (e *Expression) String() string {
	return e.Text()
}
