package ast

import (
	"strings"
)

// printer regenerates normalized expression text from a tree
type printer struct {
	sb strings.Builder
}

// String returns the normalized text of an expression tree. Parsing the
// result yields an equivalent tree.
func String(n Node) string {
	if n == nil {
		return ""
	}
	p := &printer{}
	n.Visit(p)
	return p.sb.String()
}

func (p *printer) VisitNumberLiteral(n *NumberLiteral) {
	p.sb.WriteString(n.Raw)
}

func (p *printer) VisitTextLiteral(n *TextLiteral) {
	p.sb.WriteByte('"')
	p.sb.WriteString(strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(n.Value))
	p.sb.WriteByte('"')
}

func (p *printer) VisitOperator(n *Operator) {
	n.Left.Visit(p)
	p.sb.WriteByte(' ')
	p.sb.WriteByte(n.Op)
	p.sb.WriteByte(' ')
	n.Right.Visit(p)
}

func (p *printer) VisitUnaryOperator(n *UnaryOperator) {
	p.sb.WriteByte(n.Op)
	n.Operand.Visit(p)
}

func (p *printer) VisitSubExpression(n *SubExpression) {
	p.sb.WriteByte('(')
	n.Expr.Visit(p)
	p.sb.WriteByte(')')
}

func (p *printer) VisitIdentifier(n *Identifier) {
	p.sb.WriteString(n.Name)
	if n.ChildName != "" {
		p.sb.WriteByte('.')
		p.sb.WriteString(n.ChildName)
	}
}

func (p *printer) VisitObjectFunctionName(n *ObjectFunctionName) {
	p.sb.WriteString(n.ObjectName)
	p.sb.WriteByte('.')
	if n.BehaviorName != "" {
		p.sb.WriteString(n.BehaviorName)
		p.sb.WriteString("::")
	}
	p.sb.WriteString(n.FunctionName)
}

func (p *printer) VisitFunctionCall(n *FunctionCall) {
	if n.ObjectName != "" {
		p.sb.WriteString(n.ObjectName)
		p.sb.WriteByte('.')
	}
	if n.BehaviorName != "" {
		p.sb.WriteString(n.BehaviorName)
		p.sb.WriteString("::")
	}
	p.sb.WriteString(n.FunctionName)
	p.sb.WriteByte('(')
	for i, arg := range n.Args {
		if i > 0 {
			p.sb.WriteString(", ")
		}
		arg.Visit(p)
	}
	p.sb.WriteByte(')')
}

func (p *printer) VisitVariable(n *Variable) {
	p.sb.WriteString(n.Name)
	if n.Child != nil {
		n.Child.Visit(p)
	}
}

func (p *printer) VisitVariableAccessor(n *VariableAccessor) {
	p.sb.WriteByte('.')
	p.sb.WriteString(n.Name)
	if n.Child != nil {
		n.Child.Visit(p)
	}
}

func (p *printer) VisitVariableBracketAccessor(n *VariableBracketAccessor) {
	p.sb.WriteByte('[')
	n.Expr.Visit(p)
	p.sb.WriteByte(']')
	if n.Child != nil {
		n.Child.Visit(p)
	}
}

func (p *printer) VisitEmpty(*Empty) {}
