package codegen

import (
	"github.com/conduit-lang/eventc/internal/compiler/ast"
	"github.com/conduit-lang/eventc/internal/compiler/errors"
	"github.com/conduit-lang/eventc/internal/compiler/events"
	"github.com/conduit-lang/eventc/internal/compiler/gencontext"
	"github.com/conduit-lang/eventc/internal/compiler/metadata"
	"github.com/conduit-lang/eventc/internal/compiler/platform"
	"github.com/conduit-lang/eventc/internal/compiler/visitors"
)

// GenerateExpressionCode returns the code of expr evaluated as valueType.
// A malformed expression is reported and replaced by the default value of
// the type.
func (g *Generator) GenerateExpressionCode(expr *events.Expression, valueType string, ctx *gencontext.Context) string {
	previous := g.expression
	g.expression = expr.Text()
	defer func() { g.expression = previous }()

	root, err := expr.Root()
	if err != nil {
		g.reportParseError(expr.Text(), err)
		return g.defaultExpression(valueType)
	}
	return g.GenerateNodeCode(root, valueType, ctx)
}

// GenerateNodeCode returns the code of an already parsed expression
func (g *Generator) GenerateNodeCode(node ast.Node, valueType string, ctx *gencontext.Context) string {
	if valueType != metadata.ValueString {
		valueType = metadata.ValueNumber
	}
	if node == nil {
		return g.defaultExpression(valueType)
	}
	v := &expressionCodeGenerator{gen: g, ctx: ctx, valueType: valueType}
	node.Visit(v)
	return v.output
}

func (g *Generator) defaultExpression(valueType string) string {
	if valueType == metadata.ValueString {
		return g.backend.StringLiteral("")
	}
	return "0"
}

// expressionLocation points at node inside the parameter being generated
func (g *Generator) expressionLocation(node ast.Node) errors.Location {
	loc := g.Location(g.param)
	if node != nil {
		loc.Column = node.Location().Start + 1
	}
	return loc
}

// expressionError records a malformed or mistyped expression. The caller
// substitutes a default value and the pass goes on.
func (g *Generator) expressionError(node ast.Node, message string) {
	near := ""
	if node != nil {
		near = ast.String(node)
	}
	g.warn(errors.NewExpressionParse(g.expressionLocation(node), g.expression, message, near))
}

// expressionCodeGenerator emits the code of one expression tree for a
// known value type
type expressionCodeGenerator struct {
	gen       *Generator
	ctx       *gencontext.Context
	valueType string
	output    string
}

func (v *expressionCodeGenerator) isString() bool {
	return v.valueType == metadata.ValueString
}

func (v *expressionCodeGenerator) fail(node ast.Node, message string) {
	v.gen.expressionError(node, message)
	v.output = v.gen.defaultExpression(v.valueType)
}

func (v *expressionCodeGenerator) sub(node ast.Node) string {
	return v.gen.GenerateNodeCode(node, v.valueType, v.ctx)
}

func (v *expressionCodeGenerator) VisitNumberLiteral(n *ast.NumberLiteral) {
	if v.isString() {
		v.fail(n, "You entered a number, but a text was expected (in quotes).")
		return
	}
	v.output = v.gen.backend.NumberLiteral(n.Raw)
}

func (v *expressionCodeGenerator) VisitTextLiteral(n *ast.TextLiteral) {
	if !v.isString() {
		v.fail(n, "You entered a text, but a number was expected.")
		return
	}
	v.output = v.gen.backend.StringLiteral(n.Value)
}

func (v *expressionCodeGenerator) VisitOperator(n *ast.Operator) {
	if v.isString() {
		if n.Op != '+' {
			v.fail(n, "You've used an operator that is not supported. Only + can be used to concatenate texts.")
			return
		}
		v.output = v.sub(n.Left) + " + " + v.sub(n.Right)
		return
	}

	switch n.Op {
	case '+', '-', '*', '/':
		v.output = v.sub(n.Left) + " " + string(n.Op) + " " + v.sub(n.Right)
	case '^':
		v.output = v.gen.backend.Power(v.sub(n.Left), v.sub(n.Right))
	default:
		v.fail(n, "You've used an operator that is not supported. Operator should be either +, -, / or *.")
	}
}

func (v *expressionCodeGenerator) VisitUnaryOperator(n *ast.UnaryOperator) {
	if v.isString() {
		v.fail(n, "You've used an \""+string(n.Op)+"\" operator that is not supported. Operator should be + to concatenate texts.")
		return
	}
	v.output = string(n.Op) + "(" + v.sub(n.Operand) + ")"
}

func (v *expressionCodeGenerator) VisitSubExpression(n *ast.SubExpression) {
	v.output = "(" + v.sub(n.Expr) + ")"
}

func (v *expressionCodeGenerator) VisitEmpty(*ast.Empty) {
	v.output = v.gen.defaultExpression(v.valueType)
}

func (v *expressionCodeGenerator) VisitObjectFunctionName(n *ast.ObjectFunctionName) {
	v.fail(n, "A function call is missing its parentheses.")
}

// value reads a variable as the expected type
func (v *expressionCodeGenerator) value(variable string) string {
	if v.isString() {
		return v.gen.backend.VariableString(variable)
	}
	return v.gen.backend.VariableNumber(variable)
}

func (v *expressionCodeGenerator) VisitIdentifier(n *ast.Identifier) {
	b := v.gen.backend
	switch visitors.InferIdentifier(v.gen.scope, n.Name) {
	case visitors.ObjectIdentifier:
		if n.ChildName == "" {
			v.fail(n, "An object name can't be used as a value. Call one of its functions or read one of its variables.")
			return
		}
		instance, ok := v.gen.ownerInstance(n.Name, v.ctx)
		if !ok {
			v.output = v.gen.defaultExpression(v.valueType)
			return
		}
		v.output = v.value(b.ObjectVariable(instance, n.ChildName))

	case visitors.GlobalVariableIdentifier:
		v.output = v.value(withChild(b, b.GlobalVariable(n.Name), n.ChildName))

	case visitors.PropertyIdentifier:
		v.output = b.FunctionProperty(n.Name)

	case visitors.ParameterIdentifier:
		v.output = b.FunctionArgument(n.Name)

	case visitors.SceneVariableIdentifier:
		v.output = v.value(withChild(b, b.SceneVariable(n.Name), n.ChildName))

	default:
		v.gen.warn(errors.NewUnknownVariable(v.gen.expressionLocation(n), n.Name))
		v.output = v.value(withChild(b, b.SceneVariable(n.Name), n.ChildName))
	}
}

func withChild(d metadata.Dialect, variable, child string) string {
	if child == "" {
		return variable
	}
	return d.VariableChild(variable, child)
}

func (v *expressionCodeGenerator) VisitVariable(n *ast.Variable) {
	b := v.gen.backend
	var root string
	accessors := n.Child

	switch visitors.InferIdentifier(v.gen.scope, n.Name) {
	case visitors.ObjectIdentifier:
		first, ok := n.Child.(*ast.VariableAccessor)
		if !ok {
			v.fail(n, "An object variable must be accessed by its name: Object.Variable")
			return
		}
		instance, ok := v.gen.ownerInstance(n.Name, v.ctx)
		if !ok {
			v.output = v.gen.defaultExpression(v.valueType)
			return
		}
		root = b.ObjectVariable(instance, first.Name)
		accessors = first.Child

	case visitors.GlobalVariableIdentifier:
		root = b.GlobalVariable(n.Name)

	case visitors.PropertyIdentifier, visitors.ParameterIdentifier:
		v.fail(n, "Properties and parameters have no child variables.")
		return

	case visitors.SceneVariableIdentifier:
		root = b.SceneVariable(n.Name)

	default:
		v.gen.warn(errors.NewUnknownVariable(v.gen.expressionLocation(n), n.Name))
		root = b.SceneVariable(n.Name)
	}

	v.output = v.value(v.gen.accessorsCode(root, accessors, v.ctx))
}

// Accessors are consumed by VisitVariable; on their own they carry no value
func (v *expressionCodeGenerator) VisitVariableAccessor(n *ast.VariableAccessor) {
	v.fail(n, "A variable name is expected before the accessor.")
}

func (v *expressionCodeGenerator) VisitVariableBracketAccessor(n *ast.VariableBracketAccessor) {
	v.fail(n, "A variable name is expected before the accessor.")
}

func (v *expressionCodeGenerator) VisitFunctionCall(n *ast.FunctionCall) {
	v.output = v.gen.functionCallCode(n, v.valueType, v.ctx)
}

// lookupExpression finds the function called by n returning valueType.
// Object calls only match object and behavior members.
func (g *Generator) lookupExpression(n *ast.FunctionCall, valueType string) platform.ExpressionMatch {
	match := g.platform.FindExpression(n.FunctionName, visitors.ExpressionScope(g.scope, n), valueType)
	if n.IsObjectCall() && match.Kind == platform.FreeMember {
		return platform.ExpressionMatch{Metadata: match.Metadata}
	}
	return match
}

func otherValueType(valueType string) string {
	if valueType == metadata.ValueString {
		return metadata.ValueNumber
	}
	return metadata.ValueString
}

func describeType(valueType string) string {
	if valueType == metadata.ValueString {
		return "a text"
	}
	return "a number"
}

func callName(n *ast.FunctionCall) string {
	switch {
	case n.IsBehaviorCall():
		return n.ObjectName + "." + n.BehaviorName + "::" + n.FunctionName
	case n.IsObjectCall():
		return n.ObjectName + "." + n.FunctionName
	}
	return n.FunctionName
}

// functionCallCode generates a call to a free, object or behavior
// expression. An object call reads the instance being iterated when there
// is one, else the first picked instance of the first object of the group
// having any. Static expressions are called without an instance.
func (g *Generator) functionCallCode(n *ast.FunctionCall, valueType string, ctx *gencontext.Context) string {
	var objects []string
	if n.IsObjectCall() {
		objects = g.ObjectsOf(n.ObjectName)
		if len(objects) == 0 {
			g.ReportError(errors.NewUnknownObject(g.expressionLocation(n), n.ObjectName))
			return g.defaultExpression(valueType)
		}
	}

	match := g.lookupExpression(n, valueType)
	if !match.Found() {
		other := otherValueType(valueType)
		if g.lookupExpression(n, other).Found() {
			g.expressionError(n, "The function "+callName(n)+" returns "+describeType(other)+", but "+describeType(valueType)+" was expected.")
			return g.defaultExpression(valueType)
		}
		g.ReportError(errors.NewUnknownFunction(g.expressionLocation(n), callName(n)))
		return "/* Error during generation, function not found: " + callName(n) + " */ " + g.defaultExpression(valueType)
	}

	md := match.Metadata
	ctx.AddIncludeFile(md.IncludeFile)
	if match.Object != nil {
		ctx.AddIncludeFile(match.Object.IncludeFile)
	}
	if match.Behavior != nil {
		ctx.AddIncludeFile(match.Behavior.IncludeFile)
	}

	if md.CustomCodeGenerator != nil {
		code, err := md.CustomCodeGenerator(n, g, ctx)
		if err != nil {
			g.ReportError(errors.NewCustomGenerator(g.expressionLocation(n), callName(n), err))
			return g.defaultExpression(valueType)
		}
		return code
	}

	args := g.callArguments(n, md, firstParameter(match.Kind), ctx)
	if match.Kind == platform.FreeMember || md.Static {
		return g.backend.FunctionCall(md.FunctionName, args)
	}

	call := func(instance string) string {
		if match.Kind == platform.BehaviorMember {
			return g.backend.BehaviorCall(instance, n.BehaviorName, match.Behavior.ClassName, md.FunctionName, args)
		}
		return g.backend.MemberCall(instance, objectClassName(match.Object), md.FunctionName, args)
	}

	for _, object := range objects {
		if object == ctx.CurrentObject() {
			return call(g.backend.Instance(g.ObjectsListName(object, ctx)))
		}
	}

	code := g.defaultExpression(valueType)
	for i := len(objects) - 1; i >= 0; i-- {
		ctx.ObjectsListNeeded(objects[i])
		list := g.ObjectsListName(objects[i], ctx)
		code = "((" + g.backend.IsListEmpty(list) + ") ? " + code + " : " + call(g.backend.FirstInstance(list)) + ")"
	}
	return code
}

// callArguments generates the arguments of a function call. Code-only
// parameters do not consume an argument; arguments beyond the declared
// parameters are ignored.
func (g *Generator) callArguments(n *ast.FunctionCall, md *metadata.ExpressionMetadata, first int, ctx *gencontext.Context) []string {
	args := make([]string, 0, len(md.Parameters))
	next := 0
	for i := first; i < len(md.Parameters); i++ {
		pm := md.Parameters[i]
		if pm.CodeOnly {
			args = append(args, g.codeOnlyParameter(pm, false))
			continue
		}

		var node ast.Node
		if next < len(n.Args) {
			node = n.Args[next]
		}
		next++

		if _, empty := node.(*ast.Empty); node == nil || empty {
			switch {
			case pm.DefaultValue != "":
				arg := argument{text: pm.DefaultValue, expr: events.NewExpression(pm.DefaultValue)}
				args = append(args, g.parameterValueCode(pm, arg, n.ObjectName, ctx))
			case pm.Optional:
				args = append(args, g.defaultParameterValue(pm.Type))
			default:
				g.ReportError(errors.NewMissingParameter(g.expressionLocation(n), callName(n), i))
				args = append(args, g.defaultParameterValue(pm.Type))
			}
			continue
		}
		args = append(args, g.parameterValueCode(pm, nodeArgument(node), n.ObjectName, ctx))
	}
	return args
}
