package parser

import (
	"fmt"

	"github.com/conduit-lang/eventc/internal/compiler/ast"
	"github.com/conduit-lang/eventc/internal/compiler/lexer"
)

// Parser transforms a stream of tokens into an expression tree
type Parser struct {
	tokens  []lexer.Token
	current int
	errors  []ParseError
}

// New creates a new parser for the given token stream
func New(tokens []lexer.Token) *Parser {
	return &Parser{
		tokens:  tokens,
		current: 0,
		errors:  make([]ParseError, 0),
	}
}

// Parse tokenizes and parses an expression. A tree is always returned,
// even when the text is malformed; in that case the error is an ErrorList
// describing every problem found. Empty text yields an *ast.Empty node.
func Parse(text string) (ast.Node, error) {
	tokens, lexErrors := lexer.New(text).ScanTokens()
	p := New(tokens)
	for _, le := range lexErrors {
		p.errors = append(p.errors, ParseError{
			Message:  le.Message,
			Location: ast.SourceLocation{Start: le.Offset, End: le.Offset + len(le.Lexeme)},
			Token:    lexer.Token{Type: lexer.TOKEN_ERROR, Lexeme: le.Lexeme, Offset: le.Offset, Column: le.Column},
			Near:     le.Lexeme,
		})
	}

	root, errs := p.Parse()
	if len(errs) > 0 {
		return root, ErrorList(errs)
	}
	return root, nil
}

// Parse parses the token stream and returns the tree and any errors
func (p *Parser) Parse() (ast.Node, []ParseError) {
	if p.isAtEnd() {
		return &ast.Empty{Loc: ast.SourceLocation{Start: p.peek().Offset, End: p.peek().Offset}}, p.errors
	}

	expr := p.parseExpression()

	if !p.isAtEnd() {
		p.error(p.peek(), "The expression has extra characters at the end that should be removed (or completed)")
		start := p.peek().Offset
		for !p.isAtEnd() {
			p.advance()
		}
		expr = &ast.Operator{
			Op:    ' ',
			Left:  expr,
			Right: &ast.Empty{Loc: ast.SourceLocation{Start: start, End: p.previous().End()}},
			Loc:   ast.SourceLocation{Start: expr.Location().Start, End: p.previous().End()},
		}
	}

	return expr, p.errors
}

// parseExpression handles addition and subtraction
func (p *Parser) parseExpression() ast.Node {
	expr := p.parseTerm()

	for p.match(lexer.TOKEN_PLUS, lexer.TOKEN_MINUS) {
		operator := p.previous()
		right := p.parseTerm()
		expr = &ast.Operator{
			Op:    operator.Lexeme[0],
			Left:  expr,
			Right: right,
			Loc:   span(expr, right),
		}
	}

	return expr
}

// parseTerm handles multiplication and division
func (p *Parser) parseTerm() ast.Node {
	expr := p.parsePower()

	for p.match(lexer.TOKEN_STAR, lexer.TOKEN_SLASH) {
		operator := p.previous()
		right := p.parsePower()
		expr = &ast.Operator{
			Op:    operator.Lexeme[0],
			Left:  expr,
			Right: right,
			Loc:   span(expr, right),
		}
	}

	return expr
}

// parsePower handles exponentiation (right-associative)
func (p *Parser) parsePower() ast.Node {
	expr := p.parseUnary()

	if p.match(lexer.TOKEN_CARET) {
		right := p.parsePower()
		return &ast.Operator{
			Op:    '^',
			Left:  expr,
			Right: right,
			Loc:   span(expr, right),
		}
	}

	return expr
}

// parseUnary handles unary + and -
func (p *Parser) parseUnary() ast.Node {
	if p.match(lexer.TOKEN_PLUS, lexer.TOKEN_MINUS) {
		operator := p.previous()
		operand := p.parseUnary()
		return &ast.UnaryOperator{
			Op:      operator.Lexeme[0],
			Operand: operand,
			Loc:     ast.SourceLocation{Start: operator.Offset, End: operand.Location().End},
		}
	}

	return p.parsePrimary()
}

// parsePrimary handles literals, parenthesized expressions and names
func (p *Parser) parsePrimary() ast.Node {
	token := p.peek()

	switch token.Type {
	case lexer.TOKEN_NUMBER:
		p.advance()
		return &ast.NumberLiteral{
			Value: token.Literal.(float64),
			Raw:   token.Lexeme,
			Loc:   tokenLocation(token),
		}

	case lexer.TOKEN_STRING:
		p.advance()
		return &ast.TextLiteral{
			Value: token.Literal.(string),
			Loc:   tokenLocation(token),
		}

	case lexer.TOKEN_LPAREN:
		p.advance()
		if p.check(lexer.TOKEN_RPAREN) {
			p.error(p.peek(), "An expression is expected between the parentheses")
			closing := p.advance()
			return &ast.SubExpression{
				Expr: &ast.Empty{Loc: ast.SourceLocation{Start: closing.Offset, End: closing.Offset}},
				Loc:  ast.SourceLocation{Start: token.Offset, End: closing.End()},
			}
		}
		inner := p.parseExpression()
		end := inner.Location().End
		if p.check(lexer.TOKEN_RPAREN) {
			end = p.advance().End()
		} else {
			p.error(p.peek(), "Missing a closing parenthesis. Add a closing parenthesis for each opening parenthesis")
		}
		return &ast.SubExpression{
			Expr: inner,
			Loc:  ast.SourceLocation{Start: token.Offset, End: end},
		}

	case lexer.TOKEN_IDENTIFIER:
		return p.parseName()

	case lexer.TOKEN_ERROR:
		// Already reported by the lexer
		p.advance()
		return &ast.Empty{Loc: tokenLocation(token)}
	}

	if token.Type == lexer.TOKEN_EOF {
		p.error(token, "An expression is missing here")
	} else {
		p.error(token, fmt.Sprintf("Expected a number, a text, a variable or a function but found '%s'", token.Lexeme))
		p.advance()
	}
	return &ast.Empty{Loc: tokenLocation(token)}
}

// parseName handles everything that starts with an identifier: free
// function calls, object and behavior function calls, variables and
// plain identifiers
func (p *Parser) parseName() ast.Node {
	first := p.advance()
	name := first.Lexeme

	if p.match(lexer.TOKEN_NAMESPACE) {
		next := p.consume(lexer.TOKEN_IDENTIFIER, "A name is expected after '::'")
		name += "::" + next.Lexeme
	}

	switch {
	case p.check(lexer.TOKEN_LPAREN):
		args, end := p.parseArguments()
		return &ast.FunctionCall{
			FunctionName: name,
			Args:         args,
			Loc:          ast.SourceLocation{Start: first.Offset, End: end},
		}

	case p.match(lexer.TOKEN_DOT):
		return p.parseMember(first, name)

	case p.check(lexer.TOKEN_LBRACKET):
		child := p.parseAccessor()
		return &ast.Variable{
			Name:  name,
			Child: child,
			Loc:   ast.SourceLocation{Start: first.Offset, End: child.Location().End},
		}
	}

	return &ast.Identifier{
		Name: name,
		Loc:  ast.SourceLocation{Start: first.Offset, End: p.previous().End()},
	}
}

// parseMember handles what follows `Name.`
func (p *Parser) parseMember(first lexer.Token, objectName string) ast.Node {
	child := p.consume(lexer.TOKEN_IDENTIFIER, "A name should be entered after the dot")
	if child.Type == lexer.TOKEN_ERROR {
		return &ast.Identifier{
			Name: objectName,
			Loc:  ast.SourceLocation{Start: first.Offset, End: p.previous().End()},
		}
	}

	// Object.Behavior::Function
	if p.match(lexer.TOKEN_NAMESPACE) {
		function := p.consume(lexer.TOKEN_IDENTIFIER, "A function name is expected after '::'")
		if p.check(lexer.TOKEN_LPAREN) {
			args, end := p.parseArguments()
			return &ast.FunctionCall{
				ObjectName:   objectName,
				BehaviorName: child.Lexeme,
				FunctionName: function.Lexeme,
				Args:         args,
				Loc:          ast.SourceLocation{Start: first.Offset, End: end},
			}
		}
		p.error(p.peek(), "An opening parenthesis was expected here to call a function")
		return &ast.ObjectFunctionName{
			ObjectName:   objectName,
			BehaviorName: child.Lexeme,
			FunctionName: function.Lexeme,
			Loc:          ast.SourceLocation{Start: first.Offset, End: p.previous().End()},
		}
	}

	// Object.Function(args)
	if p.check(lexer.TOKEN_LPAREN) {
		args, end := p.parseArguments()
		return &ast.FunctionCall{
			ObjectName:   objectName,
			FunctionName: child.Lexeme,
			Args:         args,
			Loc:          ast.SourceLocation{Start: first.Offset, End: end},
		}
	}

	// Variable.child.other or Variable.child[expr]
	if p.check(lexer.TOKEN_DOT) || p.check(lexer.TOKEN_LBRACKET) {
		accessor := &ast.VariableAccessor{
			Name:  child.Lexeme,
			Child: p.parseAccessor(),
		}
		accessor.Loc = ast.SourceLocation{Start: child.Offset, End: accessor.Child.Location().End}
		return &ast.Variable{
			Name:  objectName,
			Child: accessor,
			Loc:   ast.SourceLocation{Start: first.Offset, End: accessor.Loc.End},
		}
	}

	return &ast.Identifier{
		Name:      objectName,
		ChildName: child.Lexeme,
		Loc:       ast.SourceLocation{Start: first.Offset, End: child.End()},
	}
}

// parseAccessor parses a chain of `.name` and `[expr]` accessors. The
// caller must have checked that a dot or bracket is next.
func (p *Parser) parseAccessor() ast.Accessor {
	start := p.peek()

	if p.match(lexer.TOKEN_LBRACKET) {
		accessor := &ast.VariableBracketAccessor{Expr: p.parseExpression()}
		end := accessor.Expr.Location().End
		if p.check(lexer.TOKEN_RBRACKET) {
			end = p.advance().End()
		} else {
			p.error(p.peek(), "Missing a closing bracket. Add a closing bracket for each opening bracket")
		}
		if p.check(lexer.TOKEN_DOT) || p.check(lexer.TOKEN_LBRACKET) {
			accessor.Child = p.parseAccessor()
			end = accessor.Child.Location().End
		}
		accessor.Loc = ast.SourceLocation{Start: start.Offset, End: end}
		return accessor
	}

	p.consume(lexer.TOKEN_DOT, "A dot or bracket was expected here")
	name := p.consume(lexer.TOKEN_IDENTIFIER, "A name should be entered after the dot")
	accessor := &ast.VariableAccessor{Name: name.Lexeme}
	end := p.previous().End()
	if p.check(lexer.TOKEN_DOT) || p.check(lexer.TOKEN_LBRACKET) {
		accessor.Child = p.parseAccessor()
		end = accessor.Child.Location().End
	}
	accessor.Loc = ast.SourceLocation{Start: start.Offset, End: end}
	return accessor
}

// parseArguments parses `(arg, arg, ...)`. Omitted arguments, as in
// `f(1,)` or `f(,)`, become Empty nodes. It returns the end offset of the
// closing parenthesis.
func (p *Parser) parseArguments() ([]ast.Node, int) {
	p.consume(lexer.TOKEN_LPAREN, "Expected '('")
	args := make([]ast.Node, 0)

	if p.check(lexer.TOKEN_RPAREN) {
		return args, p.advance().End()
	}

	for {
		if p.check(lexer.TOKEN_COMMA) || p.check(lexer.TOKEN_RPAREN) {
			offset := p.peek().Offset
			args = append(args, &ast.Empty{Loc: ast.SourceLocation{Start: offset, End: offset}})
		} else {
			args = append(args, p.parseExpression())
		}

		if p.match(lexer.TOKEN_COMMA) {
			continue
		}
		if p.check(lexer.TOKEN_RPAREN) {
			return args, p.advance().End()
		}

		p.error(p.peek(), "The list of parameters is not terminated. Add a closing parenthesis to end the parameters")
		p.synchronize()
		return args, p.previous().End()
	}
}

// Helper methods

// peek returns the current token without consuming it
func (p *Parser) peek() lexer.Token {
	if len(p.tokens) == 0 {
		return lexer.Token{Type: lexer.TOKEN_EOF}
	}
	if p.current >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.current]
}

// previous returns the most recently consumed token
func (p *Parser) previous() lexer.Token {
	if len(p.tokens) == 0 || p.current == 0 {
		return lexer.Token{Type: lexer.TOKEN_EOF}
	}
	return p.tokens[p.current-1]
}

// advance consumes the current token and returns it
func (p *Parser) advance() lexer.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

// check returns true if the current token matches the given type
func (p *Parser) check(tokenType lexer.TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == tokenType
}

// match consumes the token if it matches any of the given types
func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

// consume advances if the next token matches, otherwise reports an error
func (p *Parser) consume(tokenType lexer.TokenType, message string) lexer.Token {
	if p.check(tokenType) {
		return p.advance()
	}

	p.error(p.peek(), message)
	return lexer.Token{Type: lexer.TOKEN_ERROR, Offset: p.peek().Offset}
}

// isAtEnd returns true if we've reached the end of the token stream
func (p *Parser) isAtEnd() bool {
	return p.current >= len(p.tokens) || p.tokens[p.current].Type == lexer.TOKEN_EOF
}

// error records a parse error
func (p *Parser) error(token lexer.Token, message string) {
	p.errors = append(p.errors, NewParseError(message, token))
}

// synchronize skips to the end of the current argument list
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		if p.match(lexer.TOKEN_RPAREN) {
			return
		}
		p.advance()
	}
}

// span returns the location covering two nodes
func span(left, right ast.Node) ast.SourceLocation {
	return ast.SourceLocation{Start: left.Location().Start, End: right.Location().End}
}

// tokenLocation converts a token position to a node location
func tokenLocation(token lexer.Token) ast.SourceLocation {
	return ast.SourceLocation{Start: token.Offset, End: token.End()}
}
