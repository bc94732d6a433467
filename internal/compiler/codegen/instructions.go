package codegen

import (
	"strings"

	"github.com/conduit-lang/eventc/internal/compiler/ast"
	"github.com/conduit-lang/eventc/internal/compiler/errors"
	"github.com/conduit-lang/eventc/internal/compiler/events"
	"github.com/conduit-lang/eventc/internal/compiler/gencontext"
	"github.com/conduit-lang/eventc/internal/compiler/metadata"
	"github.com/conduit-lang/eventc/internal/compiler/parser"
	"github.com/conduit-lang/eventc/internal/compiler/platform"
	"github.com/conduit-lang/eventc/internal/compiler/project"
	"github.com/conduit-lang/eventc/internal/compiler/visitors"
)

const unknownInstructionComment = "/* Unknown instruction - skipped. */\n"

// GenerateConditionsListCode evaluates every condition, each into its own
// boolean, and returns the predicate combining them. All conditions run:
// an object condition narrows the picked instances even when an earlier
// condition is false.
func (g *Generator) GenerateConditionsListCode(conditions []*events.Instruction, ctx *gencontext.Context) (string, string) {
	if len(conditions) == 0 {
		return "", g.backend.BoolLiteral(true)
	}

	level := ctx.BooleanLevel()
	names := make([]string, len(conditions))
	var sb strings.Builder
	for i := range conditions {
		names[i] = g.backend.BooleanName(i, level)
		sb.WriteString(names[i] + " = false;\n")
	}
	for i, condition := range conditions {
		sb.WriteString("{\n")
		sb.WriteString(withNewline(g.GenerateConditionCode(condition, names[i], ctx)))
		sb.WriteString("}\n")
	}
	ctx.ConditionsBooleansNeeded(len(conditions))

	return sb.String(), strings.Join(names, " && ")
}

// GenerateActionsListCode generates every action in order
func (g *Generator) GenerateActionsListCode(actions []*events.Instruction, ctx *gencontext.Context) string {
	var sb strings.Builder
	for _, action := range actions {
		code := g.GenerateActionCode(action, ctx)
		if code == "" {
			continue
		}
		sb.WriteString("{\n" + withNewline(code) + "}\n")
	}
	return sb.String()
}

// GenerateConditionCode generates one condition. The code sets result to
// true when the condition holds; object conditions also drop the picked
// instances that do not satisfy it.
func (g *Generator) GenerateConditionCode(instr *events.Instruction, result string, ctx *gencontext.Context) string {
	previous := g.instruction
	g.instruction = instr.Type
	defer func() { g.instruction = previous }()

	match, ok := g.lookupInstruction(instr, true)
	if !ok {
		return unknownInstructionComment
	}
	md := match.Metadata
	g.addIncludes(match, ctx)

	if md.CustomCodeGenerator != nil {
		code, err := md.CustomCodeGenerator(instr, g, ctx, result)
		if err != nil {
			g.ReportError(errors.NewCustomGenerator(g.Location(errors.NoParameter), instr.Type, err))
			return ""
		}
		return code
	}

	if match.Kind == platform.FreeMember {
		predicate := g.conditionPredicate(instr, match, "", ctx)
		if instr.Inverted {
			predicate = g.backend.Not(predicate)
		}
		return result + " = " + predicate + ";\n"
	}

	objects, ok := g.instructionObjects(instr)
	if !ok {
		return ""
	}
	var sb strings.Builder
	for _, object := range objects {
		ctx.ObjectsListNeeded(object)
		list := g.ObjectsListName(object, ctx)

		previousObject := ctx.CurrentObject()
		ctx.SetCurrentObject(object)
		predicate := g.conditionPredicate(instr, match, g.backend.Instance(list), ctx)
		ctx.SetCurrentObject(previousObject)

		if instr.Inverted {
			predicate = g.backend.Not(predicate)
		}
		sb.WriteString(g.backend.FilterObjectsList(list, predicate, result))
	}
	return sb.String()
}

// GenerateActionCode generates one action. Object actions run once per
// picked instance.
func (g *Generator) GenerateActionCode(instr *events.Instruction, ctx *gencontext.Context) string {
	previous := g.instruction
	g.instruction = instr.Type
	defer func() { g.instruction = previous }()

	match, ok := g.lookupInstruction(instr, false)
	if !ok {
		return unknownInstructionComment
	}
	md := match.Metadata
	g.addIncludes(match, ctx)

	if md.CustomCodeGenerator != nil {
		code, err := md.CustomCodeGenerator(instr, g, ctx, "")
		if err != nil {
			g.ReportError(errors.NewCustomGenerator(g.Location(errors.NoParameter), instr.Type, err))
			return ""
		}
		return code
	}

	if match.Kind == platform.FreeMember {
		return g.actionStatement(instr, match, "", ctx)
	}

	objects, ok := g.instructionObjects(instr)
	if !ok {
		return ""
	}
	var sb strings.Builder
	for _, object := range objects {
		ctx.ObjectsListNeeded(object)
		list := g.ObjectsListName(object, ctx)

		previousObject := ctx.CurrentObject()
		ctx.SetCurrentObject(object)
		statement := g.actionStatement(instr, match, g.backend.Instance(list), ctx)
		ctx.SetCurrentObject(previousObject)

		if statement != "" {
			sb.WriteString(g.backend.ForEachInstance(list, statement))
		}
	}
	return sb.String()
}

// lookupInstruction finds the metadata of instr in the scope given by its
// object and behavior parameters
func (g *Generator) lookupInstruction(instr *events.Instruction, condition bool) (platform.InstructionMatch, bool) {
	scope := visitors.InstructionScope(g.scope, instr)
	find := g.platform.FindAction
	kind := "action"
	if condition {
		find = g.platform.FindCondition
		kind = "condition"
	}

	match := find(instr.Type, scope)
	if match.Found() {
		return match, true
	}

	// An object instruction applied to a name that is not an object
	if scope == platform.Global() && find(instr.Type, platform.ObjectScope("")).Found() {
		g.ReportError(errors.NewUnknownObject(g.Location(0), instr.Parameter(0).Text()))
		return match, false
	}
	g.ReportError(errors.NewUnknownInstruction(g.Location(errors.NoParameter), kind, instr.Type))
	return match, false
}

func (g *Generator) addIncludes(match platform.InstructionMatch, ctx *gencontext.Context) {
	ctx.AddIncludeFile(match.Metadata.IncludeFile)
	if match.Object != nil {
		ctx.AddIncludeFile(match.Object.IncludeFile)
	}
	if match.Behavior != nil {
		ctx.AddIncludeFile(match.Behavior.IncludeFile)
	}
}

// instructionObjects returns the objects an object instruction applies to
func (g *Generator) instructionObjects(instr *events.Instruction) ([]string, bool) {
	name := strings.TrimSpace(instr.Parameter(0).Text())
	objects := g.ObjectsOf(name)
	if len(objects) == 0 {
		g.ReportError(errors.NewUnknownObject(g.Location(0), name))
		return nil, false
	}
	return objects, true
}

// firstParameter is the index of the first parameter passed to the
// function of an instruction: the object and behavior parameters are
// carried by the instance the function is called on.
func firstParameter(kind platform.MemberKind) int {
	switch kind {
	case platform.ObjectMember:
		return 1
	case platform.BehaviorMember:
		return 2
	}
	return 0
}

// instructionArguments generates the parameters passed to the function of
// instr, leaving out the operator and the operand at operatorIndex and the
// next index when operatorIndex >= 0
func (g *Generator) instructionArguments(instr *events.Instruction, match platform.InstructionMatch, operatorIndex int, ctx *gencontext.Context) []string {
	md := match.Metadata
	args := make([]string, 0, len(md.Parameters))
	for i := firstParameter(match.Kind); i < len(md.Parameters); i++ {
		if operatorIndex >= 0 && (i == operatorIndex || i == operatorIndex+1) {
			continue
		}
		args = append(args, g.instructionParameterCode(instr, md, i, ctx))
	}
	return args
}

// instructionCall calls function on the instance for object and behavior
// members, or as a free function
func (g *Generator) instructionCall(instr *events.Instruction, match platform.InstructionMatch, instance, function string, args []string) string {
	switch match.Kind {
	case platform.ObjectMember:
		return g.backend.MemberCall(instance, objectClassName(match.Object), function, args)
	case platform.BehaviorMember:
		return g.backend.BehaviorCall(instance, strings.TrimSpace(instr.Parameter(1).Text()), match.Behavior.ClassName, function, args)
	}
	return g.backend.FunctionCall(function, args)
}

func objectClassName(obj *metadata.ObjectMetadata) string {
	if obj == nil || obj.Name == "" {
		return ""
	}
	return obj.ClassName
}

// conditionPredicate returns the boolean expression tested by a condition.
// Conditions on a number or a string compare the value returned by their
// function with the operand.
func (g *Generator) conditionPredicate(instr *events.Instruction, match platform.InstructionMatch, instance string, ctx *gencontext.Context) string {
	md := match.Metadata
	operatorIndex := -1
	if md.ManipulatedType != metadata.ValueNone {
		operatorIndex = md.ParameterIndex(metadata.ParamRelationalOperator)
	}
	args := g.instructionArguments(instr, match, operatorIndex, ctx)
	call := g.instructionCall(instr, match, instance, md.FunctionName, args)
	if operatorIndex < 0 {
		return call
	}

	token := strings.TrimSpace(instr.Parameter(operatorIndex).Text())
	operator, ok := relationalOperator(token, md.ManipulatedType)
	if !ok {
		g.ReportError(errors.NewInvalidOperator(g.Location(operatorIndex), token, "comparison"))
		return g.backend.BoolLiteral(false)
	}
	if !g.hasOperand(instr, md, operatorIndex) {
		return g.backend.BoolLiteral(false)
	}
	value := g.instructionParameterCode(instr, md, operatorIndex+1, ctx)
	return call + " " + operator + " " + value
}

func relationalOperator(token, valueType string) (string, bool) {
	switch token {
	case "=":
		return "==", true
	case "!=":
		return "!=", true
	case "<", "<=", ">", ">=":
		return token, valueType == metadata.ValueNumber
	}
	return "", false
}

// actionStatement returns the statement performing an action. Actions
// modifying a number or a string read the current value with the getter
// and write the result with the function: Set(Get() op value).
func (g *Generator) actionStatement(instr *events.Instruction, match platform.InstructionMatch, instance string, ctx *gencontext.Context) string {
	md := match.Metadata
	operatorIndex := -1
	if md.ManipulatedType != metadata.ValueNone {
		operatorIndex = md.ParameterIndex(metadata.ParamOperator)
	}
	args := g.instructionArguments(instr, match, operatorIndex, ctx)
	if operatorIndex < 0 {
		return g.instructionCall(instr, match, instance, md.FunctionName, args) + ";\n"
	}

	if !g.hasOperand(instr, md, operatorIndex) {
		return ""
	}
	token := strings.TrimSpace(instr.Parameter(operatorIndex).Text())
	value := g.instructionParameterCode(instr, md, operatorIndex+1, ctx)

	var newValue string
	switch {
	case token == "=":
		newValue = value
	case isMutator(token, md.ManipulatedType) && md.Getter != "":
		getter := g.instructionCall(instr, match, instance, md.Getter, args)
		newValue = getter + " " + token + " (" + value + ")"
	default:
		g.ReportError(errors.NewInvalidOperator(g.Location(operatorIndex), token, "modification"))
		return ""
	}

	setterArgs := append(append([]string(nil), args...), newValue)
	return g.instructionCall(instr, match, instance, md.FunctionName, setterArgs) + ";\n"
}

// hasOperand reports whether the metadata declares a parameter after the
// operator at operatorIndex. An operator with nothing to apply to is an
// error of the extension declaring it.
func (g *Generator) hasOperand(instr *events.Instruction, md *metadata.InstructionMetadata, operatorIndex int) bool {
	if operatorIndex+1 < len(md.Parameters) {
		return true
	}
	g.ReportError(errors.NewMissingParameter(g.Location(operatorIndex+1), instr.Type, operatorIndex+1))
	return false
}

func isMutator(token, valueType string) bool {
	switch token {
	case "+":
		return true
	case "-", "*", "/":
		return valueType == metadata.ValueNumber
	}
	return false
}

// argument is one parameter value: the text of an instruction parameter,
// or an argument node of a function call
type argument struct {
	text string
	expr *events.Expression
	node ast.Node
}

func nodeArgument(node ast.Node) argument {
	text := ast.String(node)
	switch n := node.(type) {
	case *ast.Identifier:
		text = n.Name
	case *ast.TextLiteral:
		text = n.Value
	}
	return argument{text: text, node: node}
}

// tree returns the parsed argument. A malformed instruction parameter is
// reported as a warning and ok is false: the caller uses a default value.
func (g *Generator) tree(arg argument) (ast.Node, bool) {
	if arg.node != nil {
		return arg.node, true
	}
	root, err := arg.expr.Root()
	if err != nil {
		g.reportParseError(arg.expr.Text(), err)
		return nil, false
	}
	return root, true
}

func (g *Generator) reportParseError(text string, err error) {
	loc := g.Location(g.param)
	message := err.Error()
	near := ""
	if list, ok := err.(parser.ErrorList); ok && list.First() != nil {
		first := list.First()
		loc.Column = first.Location.Start + 1
		message = first.Message
		near = first.Near
	}
	g.warn(errors.NewExpressionParse(loc, text, message, near))
}

// instructionParameterCode generates parameter index of instr. Empty
// parameters take their default value; a required parameter without one
// is an error.
func (g *Generator) instructionParameterCode(instr *events.Instruction, md *metadata.InstructionMetadata, index int, ctx *gencontext.Context) string {
	previous := g.param
	g.param = index
	defer func() { g.param = previous }()

	pm, ok := md.Parameter(index)
	if !ok {
		return ""
	}
	if pm.CodeOnly {
		return g.codeOnlyParameter(pm, instr.Inverted)
	}

	expr := instr.Parameter(index)
	if expr.IsEmpty() {
		switch {
		case pm.DefaultValue != "":
			expr = events.NewExpression(pm.DefaultValue)
		case pm.Optional:
			return g.defaultParameterValue(pm.Type)
		default:
			g.ReportError(errors.NewMissingParameter(g.Location(index), instr.Type, index))
			return g.defaultParameterValue(pm.Type)
		}
	}

	owner := strings.TrimSpace(instr.Parameter(0).Text())
	arg := argument{text: strings.TrimSpace(expr.Text()), expr: expr}
	return g.parameterValueCode(pm, arg, owner, ctx)
}

func (g *Generator) codeOnlyParameter(pm metadata.ParameterMetadata, inverted bool) string {
	switch pm.Type {
	case metadata.ParamCurrentScene:
		return g.backend.RuntimeScene()
	case metadata.ParamConditionInverted:
		return g.backend.BoolLiteral(inverted)
	}
	return pm.SupplementaryInformation
}

func (g *Generator) defaultParameterValue(paramType string) string {
	switch {
	case metadata.ExpressionType(paramType) == metadata.ValueNumber:
		return "0"
	case paramType == metadata.ParamYesOrNo, paramType == metadata.ParamTrueOrFalse:
		return g.backend.BoolLiteral(false)
	case metadata.IsObject(paramType):
		return g.backend.ObjectsListsMap(nil, nil)
	}
	return g.backend.StringLiteral("")
}

// parameterValueCode generates a parameter value according to its type.
// owner is the object the instruction or expression applies to, used by
// object variable parameters.
func (g *Generator) parameterValueCode(pm metadata.ParameterMetadata, arg argument, owner string, ctx *gencontext.Context) string {
	switch pm.Type {
	case metadata.ParamObjectList, metadata.ParamObjectListOrEmpty:
		objects := g.ObjectsOf(arg.text)
		if len(objects) == 0 {
			g.ReportError(errors.NewUnknownObject(g.Location(g.param), arg.text))
			return g.defaultParameterValue(pm.Type)
		}
		lists := make([]string, len(objects))
		for i, object := range objects {
			if pm.Type == metadata.ParamObjectListOrEmpty {
				ctx.ObjectsListNeededOrEmptyIfJustDeclared(object)
			} else {
				ctx.ObjectsListNeeded(object)
			}
			lists[i] = g.ObjectsListName(object, ctx)
		}
		return g.backend.ObjectsListsMap(objects, lists)

	case metadata.ParamObjectPtr:
		return g.objectPointer(arg.text, ctx)

	case metadata.ParamSceneVariable, metadata.ParamGlobalVariable, metadata.ParamObjectVariable:
		node, ok := g.tree(arg)
		if !ok {
			return g.backend.SceneVariable("")
		}
		return g.variableParameterCode(pm.Type, node, owner, ctx)

	case metadata.ParamYesOrNo:
		return g.backend.BoolLiteral(arg.text == "yes")

	case metadata.ParamTrueOrFalse:
		return g.backend.BoolLiteral(arg.text == "True" || arg.text == "true")
	}

	if valueType := metadata.ExpressionType(pm.Type); valueType != "" {
		node, ok := g.tree(arg)
		if !ok {
			return g.defaultExpression(valueType)
		}
		previous := g.expression
		if arg.expr != nil {
			g.expression = arg.expr.Text()
		}
		defer func() { g.expression = previous }()
		return g.GenerateNodeCode(node, valueType, ctx)
	}

	// Objects, behaviors, keys, identifiers and operators are passed by name
	return g.backend.StringLiteral(arg.text)
}

// objectPointer returns the instance an objectPtr parameter designates:
// the instance being iterated, else the first picked instance.
func (g *Generator) objectPointer(name string, ctx *gencontext.Context) string {
	objects := g.ObjectsOf(name)
	if len(objects) == 0 {
		g.ReportError(errors.NewUnknownObject(g.Location(g.param), name))
		return g.backend.ObjectPointer(g.backend.ObjectsListName(name, ctx.Depth()))
	}
	for _, object := range objects {
		if object == ctx.CurrentObject() {
			return g.backend.Instance(g.ObjectsListName(object, ctx))
		}
	}
	ctx.ObjectsListNeeded(objects[0])
	return g.backend.ObjectPointer(g.ObjectsListName(objects[0], ctx))
}

// ownerInstance returns the instance whose variables an expression or an
// objectvar parameter reads
func (g *Generator) ownerInstance(name string, ctx *gencontext.Context) (string, bool) {
	objects := g.ObjectsOf(name)
	if len(objects) == 0 {
		g.ReportError(errors.NewUnknownObject(g.Location(g.param), name))
		return "", false
	}
	for _, object := range objects {
		if object == ctx.CurrentObject() {
			return g.backend.Instance(g.ObjectsListName(object, ctx)), true
		}
	}
	ctx.ObjectsListNeeded(objects[0])
	return g.backend.FirstInstance(g.ObjectsListName(objects[0], ctx)), true
}

func (g *Generator) variableParameterCode(paramType string, node ast.Node, owner string, ctx *gencontext.Context) string {
	root := g.backend.SceneVariable
	switch paramType {
	case metadata.ParamGlobalVariable:
		root = g.backend.GlobalVariable
	case metadata.ParamObjectVariable:
		instance, ok := g.ownerInstance(owner, ctx)
		if !ok {
			return g.backend.SceneVariable("")
		}
		root = func(name string) string { return g.backend.ObjectVariable(instance, name) }
	}

	switch n := node.(type) {
	case *ast.Identifier:
		v := root(n.Name)
		if n.ChildName != "" {
			v = g.backend.VariableChild(v, n.ChildName)
		}
		return v
	case *ast.Variable:
		return g.accessorsCode(root(n.Name), n.Child, ctx)
	}
	g.expressionError(node, "A variable name is expected")
	return root("")
}

// accessorsCode applies a chain of .child and [index] accessors. A bracket
// index evaluating to a string, or naming a string variable, selects a
// structure child by name; anything else selects an array element.
func (g *Generator) accessorsCode(variable string, accessor ast.Accessor, ctx *gencontext.Context) string {
	for accessor != nil {
		switch a := accessor.(type) {
		case *ast.VariableAccessor:
			variable = g.backend.VariableChild(variable, a.Name)
		case *ast.VariableBracketAccessor:
			if g.indexesByName(a.Expr) {
				variable = g.backend.VariableChildAt(variable, g.GenerateNodeCode(a.Expr, metadata.ValueString, ctx), true)
			} else {
				variable = g.backend.VariableChildAt(variable, g.GenerateNodeCode(a.Expr, metadata.ValueNumber, ctx), false)
			}
		}
		accessor = accessor.Next()
	}
	return variable
}

func (g *Generator) indexesByName(index ast.Node) bool {
	if visitors.InferType(g.platform, g.scope, index) == metadata.ValueString {
		return true
	}
	id, ok := index.(*ast.Identifier)
	if !ok || id.ChildName != "" {
		return false
	}
	var variable *project.Variable
	switch visitors.InferIdentifier(g.scope, id.Name) {
	case visitors.SceneVariableIdentifier:
		variable, _ = g.scope.SceneVariable(id.Name)
	case visitors.GlobalVariableIdentifier:
		variable, _ = g.scope.GlobalVariable(id.Name)
	}
	return variable != nil && variable.Type == project.VariableString
}
