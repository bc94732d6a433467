package ast

// Visitor is implemented by every expression tree walker. There is one
// method per node kind.
type Visitor interface {
	VisitNumberLiteral(n *NumberLiteral)
	VisitTextLiteral(n *TextLiteral)
	VisitOperator(n *Operator)
	VisitUnaryOperator(n *UnaryOperator)
	VisitSubExpression(n *SubExpression)
	VisitIdentifier(n *Identifier)
	VisitObjectFunctionName(n *ObjectFunctionName)
	VisitFunctionCall(n *FunctionCall)
	VisitVariable(n *Variable)
	VisitVariableAccessor(n *VariableAccessor)
	VisitVariableBracketAccessor(n *VariableBracketAccessor)
	VisitEmpty(n *Empty)
}

// BaseVisitor gives the default behaviour: leaves are ignored and
// composites recurse into their children. Embed it in a concrete visitor
// and set Self to that visitor so recursion reaches the overrides:
//
//	v := &myVisitor{}
//	v.Self = v
type BaseVisitor struct {
	Self Visitor
}

func (b BaseVisitor) VisitNumberLiteral(*NumberLiteral)           {}
func (b BaseVisitor) VisitTextLiteral(*TextLiteral)               {}
func (b BaseVisitor) VisitIdentifier(*Identifier)                 {}
func (b BaseVisitor) VisitObjectFunctionName(*ObjectFunctionName) {}
func (b BaseVisitor) VisitEmpty(*Empty)                           {}

func (b BaseVisitor) VisitOperator(n *Operator) {
	n.Left.Visit(b.Self)
	n.Right.Visit(b.Self)
}

func (b BaseVisitor) VisitUnaryOperator(n *UnaryOperator) {
	n.Operand.Visit(b.Self)
}

func (b BaseVisitor) VisitSubExpression(n *SubExpression) {
	n.Expr.Visit(b.Self)
}

func (b BaseVisitor) VisitFunctionCall(n *FunctionCall) {
	for _, arg := range n.Args {
		arg.Visit(b.Self)
	}
}

func (b BaseVisitor) VisitVariable(n *Variable) {
	if n.Child != nil {
		n.Child.Visit(b.Self)
	}
}

func (b BaseVisitor) VisitVariableAccessor(n *VariableAccessor) {
	if n.Child != nil {
		n.Child.Visit(b.Self)
	}
}

func (b BaseVisitor) VisitVariableBracketAccessor(n *VariableBracketAccessor) {
	n.Expr.Visit(b.Self)
	if n.Child != nil {
		n.Child.Visit(b.Self)
	}
}

// inspector calls a function on every node, depth first
type inspector struct {
	BaseVisitor
	fn func(Node) bool
}

func (i *inspector) visit(n Node, children func()) {
	if i.fn(n) {
		children()
	}
}

func (i *inspector) VisitNumberLiteral(n *NumberLiteral) { i.fn(n) }
func (i *inspector) VisitTextLiteral(n *TextLiteral)     { i.fn(n) }
func (i *inspector) VisitIdentifier(n *Identifier)       { i.fn(n) }
func (i *inspector) VisitEmpty(n *Empty)                 { i.fn(n) }

func (i *inspector) VisitObjectFunctionName(n *ObjectFunctionName) { i.fn(n) }

func (i *inspector) VisitOperator(n *Operator) {
	i.visit(n, func() { i.BaseVisitor.VisitOperator(n) })
}

func (i *inspector) VisitUnaryOperator(n *UnaryOperator) {
	i.visit(n, func() { i.BaseVisitor.VisitUnaryOperator(n) })
}

func (i *inspector) VisitSubExpression(n *SubExpression) {
	i.visit(n, func() { i.BaseVisitor.VisitSubExpression(n) })
}

func (i *inspector) VisitFunctionCall(n *FunctionCall) {
	i.visit(n, func() { i.BaseVisitor.VisitFunctionCall(n) })
}

func (i *inspector) VisitVariable(n *Variable) {
	i.visit(n, func() { i.BaseVisitor.VisitVariable(n) })
}

func (i *inspector) VisitVariableAccessor(n *VariableAccessor) {
	i.visit(n, func() { i.BaseVisitor.VisitVariableAccessor(n) })
}

func (i *inspector) VisitVariableBracketAccessor(n *VariableBracketAccessor) {
	i.visit(n, func() { i.BaseVisitor.VisitVariableBracketAccessor(n) })
}

// Inspect traverses the tree depth first, calling fn for each node. If fn
// returns false the children of that node are skipped.
func Inspect(root Node, fn func(Node) bool) {
	if root == nil {
		return
	}
	in := &inspector{fn: fn}
	in.Self = in
	root.Visit(in)
}
