// Package ast defines the node types of parsed event expressions.
//
// The node set is closed: every node kind has a matching method on Visitor,
// so adding a kind forces every visitor in the tree to handle it.
package ast

// SourceLocation tracks the span of a node in the expression text
type SourceLocation struct {
	Start int // Byte offset of the first character (0-indexed)
	End   int // Byte offset just past the last character
}

// Node is the base interface for all expression nodes
type Node interface {
	Location() SourceLocation
	Visit(v Visitor)
	node()
}

// Accessor is a node that can follow a variable name: `.child` or `[expr]`
type Accessor interface {
	Node
	// Next returns the accessor chained after this one, or nil.
	Next() Accessor
	accessor()
}

// NumberLiteral represents a numeric literal. Raw keeps the text as typed
// so that generated code reproduces it exactly.
type NumberLiteral struct {
	Value float64
	Raw   string
	Loc   SourceLocation
}

// TextLiteral represents a double-quoted text literal (unescaped value)
type TextLiteral struct {
	Value string
	Loc   SourceLocation
}

// Operator represents a binary operation: + - * / ^
type Operator struct {
	Op    byte
	Left  Node
	Right Node
	Loc   SourceLocation
}

// UnaryOperator represents + or - applied to a single operand
type UnaryOperator struct {
	Op      byte
	Operand Node
	Loc     SourceLocation
}

// SubExpression represents a parenthesized expression
type SubExpression struct {
	Expr Node
	Loc  SourceLocation
}

// Identifier is a bare name, or `Name.Child` without a call. Depending on
// the scope it denotes an object, a variable (with a first child), a
// property or a parameter.
type Identifier struct {
	Name      string
	ChildName string
	Loc       SourceLocation
}

// ObjectFunctionName is `Object.Behavior::Function` written without call
// parentheses. It is always incomplete.
type ObjectFunctionName struct {
	ObjectName   string
	BehaviorName string
	FunctionName string
	Loc          SourceLocation
}

// FunctionCall is a free function call `Ext::Func(args)`, an object
// function call `Object.Func(args)` or a behavior function call
// `Object.Behavior::Func(args)`.
type FunctionCall struct {
	ObjectName   string
	BehaviorName string
	FunctionName string
	Args         []Node
	Loc          SourceLocation
}

// Variable is a variable name followed by an optional accessor chain
type Variable struct {
	Name  string
	Child Accessor
	Loc   SourceLocation
}

// VariableAccessor is a `.child` access on a structure variable
type VariableAccessor struct {
	Name  string
	Child Accessor
	Loc   SourceLocation
}

// VariableBracketAccessor is a `[expr]` access on a structure or array variable
type VariableBracketAccessor struct {
	Expr  Node
	Child Accessor
	Loc   SourceLocation
}

// Empty stands for a missing expression, such as an omitted argument in `f(1,)`
type Empty struct {
	Loc SourceLocation
}

func (n *NumberLiteral) node()           {}
func (n *TextLiteral) node()             {}
func (n *Operator) node()                {}
func (n *UnaryOperator) node()           {}
func (n *SubExpression) node()           {}
func (n *Identifier) node()              {}
func (n *ObjectFunctionName) node()      {}
func (n *FunctionCall) node()            {}
func (n *Variable) node()                {}
func (n *VariableAccessor) node()        {}
func (n *VariableBracketAccessor) node() {}
func (n *Empty) node()                   {}

func (n *VariableAccessor) accessor()        {}
func (n *VariableBracketAccessor) accessor() {}

// Next returns the accessor following this one
func (n *VariableAccessor) Next() Accessor { return n.Child }

// Next returns the accessor following this one
func (n *VariableBracketAccessor) Next() Accessor { return n.Child }

func (n *NumberLiteral) Location() SourceLocation           { return n.Loc }
func (n *TextLiteral) Location() SourceLocation             { return n.Loc }
func (n *Operator) Location() SourceLocation                { return n.Loc }
func (n *UnaryOperator) Location() SourceLocation           { return n.Loc }
func (n *SubExpression) Location() SourceLocation           { return n.Loc }
func (n *Identifier) Location() SourceLocation              { return n.Loc }
func (n *ObjectFunctionName) Location() SourceLocation      { return n.Loc }
func (n *FunctionCall) Location() SourceLocation            { return n.Loc }
func (n *Variable) Location() SourceLocation                { return n.Loc }
func (n *VariableAccessor) Location() SourceLocation        { return n.Loc }
func (n *VariableBracketAccessor) Location() SourceLocation { return n.Loc }
func (n *Empty) Location() SourceLocation                   { return n.Loc }

func (n *NumberLiteral) Visit(v Visitor)           { v.VisitNumberLiteral(n) }
func (n *TextLiteral) Visit(v Visitor)             { v.VisitTextLiteral(n) }
func (n *Operator) Visit(v Visitor)                { v.VisitOperator(n) }
func (n *UnaryOperator) Visit(v Visitor)           { v.VisitUnaryOperator(n) }
func (n *SubExpression) Visit(v Visitor)           { v.VisitSubExpression(n) }
func (n *Identifier) Visit(v Visitor)              { v.VisitIdentifier(n) }
func (n *ObjectFunctionName) Visit(v Visitor)      { v.VisitObjectFunctionName(n) }
func (n *FunctionCall) Visit(v Visitor)            { v.VisitFunctionCall(n) }
func (n *Variable) Visit(v Visitor)                { v.VisitVariable(n) }
func (n *VariableAccessor) Visit(v Visitor)        { v.VisitVariableAccessor(n) }
func (n *VariableBracketAccessor) Visit(v Visitor) { v.VisitVariableBracketAccessor(n) }
func (n *Empty) Visit(v Visitor)                   { v.VisitEmpty(n) }

// IsObjectCall reports whether the call targets an object or one of its behaviors
func (n *FunctionCall) IsObjectCall() bool {
	return n.ObjectName != ""
}

// IsBehaviorCall reports whether the call targets a behavior of an object
func (n *FunctionCall) IsBehaviorCall() bool {
	return n.BehaviorName != ""
}
