package extensions

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/conduit-lang/eventc/internal/compiler/events"
	"github.com/conduit-lang/eventc/internal/compiler/gencontext"
	"github.com/conduit-lang/eventc/internal/compiler/metadata"
	"github.com/conduit-lang/eventc/internal/compiler/platform"
)

// CommonInstructions is the extension providing the event types and the
// logical conditions
const CommonInstructions = "BuiltinCommonInstructions"

// DeclareCommonInstructions declares the standard, comment, group, repeat,
// for each, while and inline code events, and the Or, And, Not, Once and
// comparison conditions. The inline code event takes the language of the
// target: JsCode or CppCode.
func DeclareCommonInstructions(target string) *metadata.PlatformExtension {
	ext := metadata.NewExtension(CommonInstructions, CommonInstructions,
		"Standard events", "Built-in events and logical conditions", "Florian Rival", "MIT")

	ext.AddEvent("Standard", "Standard event", "Standard event: actions are run if conditions are fulfilled.", "", "res/eventaddicon.png").
		SetCodeGenerator(generateStandardEvent)
	ext.AddEvent("Comment", "Comment", "Event displaying a text in the events editor.", "", "res/comment.png").
		SetCodeGenerator(func(*events.Event, metadata.CodeGenerator, *gencontext.Context) (string, error) {
			return "", nil
		})
	ext.AddEvent("Group", "Group", "Group containing events.", "", "res/foldericon.png").
		SetCodeGenerator(func(ev *events.Event, gen metadata.CodeGenerator, ctx *gencontext.Context) (string, error) {
			return gen.GenerateEventsListCode(ev.Events, ctx), nil
		})
	ext.AddEvent("Repeat", "Repeat", "Repeats the event a specified number of times.", "", "res/repeaticon.png").
		SetCodeGenerator(generateRepeatEvent)
	ext.AddEvent("ForEach", "For each object", "Repeats the event for each specified object.", "", "res/foreach.png").
		SetCodeGenerator(generateForEachEvent)
	ext.AddEvent("While", "While", "Repeats the event while the conditions are true.", "", "res/while.png").
		SetCodeGenerator(generateWhileEvent)
	if target == platform.TargetNative {
		ext.AddEvent("CppCode", "C++ code", "Insert some C++ code into events.", "", "res/source_cpp.png").
			SetCodeGenerator(generateInlineCodeEvent)
	} else {
		ext.AddEvent("JsCode", "JavaScript code", "Insert some JavaScript code into events.", "", "res/source_cpp.png").
			SetCodeGenerator(generateInlineCodeEvent)
	}

	ext.AddCondition("Or", "Or", "Checks if at least one sub-condition is true.", "If one of these conditions is true:", "", "res/conditions/or24.png", "res/conditions/or.png").
		SetCanHaveSubInstructions().
		SetCustomCodeGenerator(generateOrCondition)
	ext.AddCondition("And", "And", "Checks if all sub-conditions are true.", "If all of these conditions are true:", "", "res/conditions/and24.png", "res/conditions/and.png").
		SetCanHaveSubInstructions().
		SetCustomCodeGenerator(generateAndCondition)
	ext.AddCondition("Not", "Not", "Returns the opposite of the sub-conditions result.", "Invert the logical result of these conditions:", "", "res/conditions/not24.png", "res/conditions/not.png").
		SetCanHaveSubInstructions().
		SetCustomCodeGenerator(generateNotCondition)
	ext.AddCondition("Once", "Trigger once while true", "Runs the actions only once each time the conditions become true.", "Trigger once", "", "res/conditions/once24.png", "res/conditions/once.png").
		SetCustomCodeGenerator(generateOnceCondition)

	ext.AddCondition("CompareNumbers", "Compare two numbers", "Compare the two numbers.", "_PARAM0_ _PARAM1_ _PARAM2_", "", "res/conditions/egal24.png", "res/conditions/egal.png").
		AddParameter(metadata.ParamExpression, "First expression", "", false).
		AddParameter(metadata.ParamRelationalOperator, "Sign of the test", "", false).
		AddParameter(metadata.ParamExpression, "Second expression", "", false).
		SetCustomCodeGenerator(compareGenerator(metadata.ValueNumber))
	ext.AddCondition("CompareStrings", "Compare two strings", "Compare the two strings.", "_PARAM0_ _PARAM1_ _PARAM2_", "", "res/conditions/egal24.png", "res/conditions/egal.png").
		AddParameter(metadata.ParamString, "First string expression", "", false).
		AddParameter(metadata.ParamRelationalOperator, "Sign of the test", "", false).
		AddParameter(metadata.ParamString, "Second string expression", "", false).
		SetCustomCodeGenerator(compareGenerator(metadata.ValueString))

	return ext
}

// conditionsBlock generates the conditions of ev and guards actions and
// sub-events behind their predicate
func conditionsBlock(ev *events.Event, gen metadata.CodeGenerator, ctx *gencontext.Context) string {
	conditions, predicate := gen.GenerateConditionsListCode(ev.Conditions, ctx)
	body := gen.GenerateActionsListCode(ev.Actions, ctx) + gen.GenerateEventsListCode(ev.Events, ctx)
	if len(ev.Conditions) == 0 {
		return body
	}
	return conditions + "if (" + predicate + ") {\n" + withNewline(body) + "}\n"
}

func generateStandardEvent(ev *events.Event, gen metadata.CodeGenerator, ctx *gencontext.Context) (string, error) {
	return conditionsBlock(ev, gen, ctx), nil
}

// generateRepeatEvent picks objects again at each iteration: the loop body
// is a child scope declaring its lists inside the loop. The count is
// evaluated once, in the scope of the event.
func generateRepeatEvent(ev *events.Event, gen metadata.CodeGenerator, ctx *gencontext.Context) (string, error) {
	expr := ev.RepeatExpression
	if expr == nil {
		expr = events.NewExpression("")
	}
	count := gen.GenerateExpressionCode(expr, metadata.ValueNumber, ctx)

	loop := gencontext.InheritsFrom(ctx)
	loop.SetDynamicObjectsListsDeclaration(true)
	body := conditionsBlock(ev, gen, loop)
	declarations := gen.GenerateObjectsDeclarationCode(loop)
	return gen.Dialect().CounterLoop(loop.Depth(), count, declarations+body), nil
}

func generateWhileEvent(ev *events.Event, gen metadata.CodeGenerator, ctx *gencontext.Context) (string, error) {
	ctx.SetDynamicObjectsListsDeclaration(true)
	whileConditions, whilePredicate := gen.GenerateConditionsListCode(ev.WhileConditions, ctx)
	body := conditionsBlock(ev, gen, ctx)
	declarations := gen.GenerateObjectsDeclarationCode(ctx)
	return gen.Dialect().WhileLoop(ctx.Depth(), declarations+whileConditions, whilePredicate, body), nil
}

// generateForEachEvent runs the event once per instance the event's scope
// picks. In each iteration the list of the object, in the loop body scope,
// holds that single instance.
func generateForEachEvent(ev *events.Event, gen metadata.CodeGenerator, ctx *gencontext.Context) (string, error) {
	objects := gen.ObjectsOf(strings.TrimSpace(ev.Object))
	if len(objects) == 0 {
		return "", fmt.Errorf("no object to iterate over: %q", ev.Object)
	}

	lists := make([]string, len(objects))
	for i, object := range objects {
		ctx.ObjectsListNeeded(object)
		lists[i] = gen.ObjectsListName(object, ctx)
	}

	loop := gencontext.InheritsFrom(ctx)
	for _, object := range objects {
		loop.SetObjectsListDeclared(object)
	}
	loop.SetDynamicObjectsListsDeclaration(true)
	body := conditionsBlock(ev, gen, loop)
	declarations := gen.GenerateObjectsDeclarationCode(loop)

	targets := make([]string, len(objects))
	for i, object := range objects {
		targets[i] = gen.ObjectsListName(object, loop)
	}
	return gen.Dialect().ForEachLoop(loop, lists, targets, declarations, body), nil
}

// generateInlineCodeEvent passes the picked instances of the event's object,
// if it names one, to the user code
func generateInlineCodeEvent(ev *events.Event, gen metadata.CodeGenerator, ctx *gencontext.Context) (string, error) {
	for _, file := range ev.IncludeFiles {
		ctx.AddIncludeFile(strings.TrimSpace(file))
	}

	var lists []string
	if name := strings.TrimSpace(ev.ParameterObjects); name != "" {
		objects := gen.ObjectsOf(name)
		if len(objects) == 0 {
			return "", fmt.Errorf("no object to pass to the code: %q", name)
		}
		for _, object := range objects {
			ctx.ObjectsListNeeded(object)
			lists = append(lists, gen.ObjectsListName(object, ctx))
		}
	}
	return gen.Dialect().InlineCode(ctx, ev.InlineCode, lists), nil
}

// generateOrCondition evaluates each sub-condition in its own scope and
// gathers the instances each one picked. The lists of the enclosing scope
// then hold the union of these instances.
func generateOrCondition(instr *events.Instruction, gen metadata.CodeGenerator, ctx *gencontext.Context, result string) (string, error) {
	d := gen.Dialect()
	id := strconv.Itoa(ctx.NewUniqueID())

	var finals []string
	finalOf := make(map[string]string)
	var blocks strings.Builder
	for _, sub := range instr.SubInstructions {
		child := gencontext.InheritsFrom(ctx)
		conditions, predicate := gen.GenerateConditionsListCode([]*events.Instruction{sub}, child)
		declarations := gen.GenerateObjectsDeclarationCode(child)

		var gather strings.Builder
		gather.WriteString(result + " = true;\n")
		for _, object := range child.DeclaredLists() {
			final, ok := finalOf[object]
			if !ok {
				final = d.ObjectsListName(object, ctx.Depth()) + "_" + id + "final"
				finalOf[object] = final
				finals = append(finals, object)
			}
			list := gen.ObjectsListName(object, child)
			gather.WriteString(d.ForEachInstance(list, d.PushUniqueInstance(final, d.Instance(list))))
		}

		blocks.WriteString("{\n")
		blocks.WriteString(declarations)
		blocks.WriteString(conditions)
		blocks.WriteString("if (" + predicate + ") {\n" + gather.String() + "}\n")
		blocks.WriteString("}\n")
	}

	var sb strings.Builder
	for _, object := range finals {
		sb.WriteString(gen.DeclareObjectsList(finalOf[object], ctx))
	}
	sb.WriteString(result + " = false;\n")
	sb.WriteString(blocks.String())
	for _, object := range finals {
		ctx.ObjectsListNeededOrEmptyIfJustDeclared(object)
		sb.WriteString(d.CopyObjectsList(finalOf[object], gen.ObjectsListName(object, ctx)))
	}
	if instr.Inverted {
		sb.WriteString(result + " = " + d.Not(result) + ";\n")
	}
	return sb.String(), nil
}

// subConditions evaluates the sub-conditions of instr in the scope of the
// instruction, so that they narrow its lists
func subConditions(instr *events.Instruction, gen metadata.CodeGenerator, ctx *gencontext.Context) (string, string) {
	ctx.EnterSubConditions()
	defer ctx.LeaveSubConditions()
	return gen.GenerateConditionsListCode(instr.SubInstructions, ctx)
}

func generateAndCondition(instr *events.Instruction, gen metadata.CodeGenerator, ctx *gencontext.Context, result string) (string, error) {
	code, predicate := subConditions(instr, gen, ctx)
	if instr.Inverted {
		predicate = gen.Dialect().Not(predicate)
	}
	return code + result + " = " + predicate + ";\n", nil
}

func generateNotCondition(instr *events.Instruction, gen metadata.CodeGenerator, ctx *gencontext.Context, result string) (string, error) {
	code, predicate := subConditions(instr, gen, ctx)
	if !instr.Inverted {
		predicate = gen.Dialect().Not(predicate)
	}
	return code + result + " = " + predicate + ";\n", nil
}

func generateOnceCondition(instr *events.Instruction, gen metadata.CodeGenerator, ctx *gencontext.Context, result string) (string, error) {
	predicate := gen.Dialect().TriggerOnce(ctx.NewUniqueID())
	if instr.Inverted {
		predicate = gen.Dialect().Not(predicate)
	}
	return result + " = " + predicate + ";\n", nil
}

// compareGenerator compares two expressions of valueType
func compareGenerator(valueType string) metadata.InstructionCodeGenerator {
	return func(instr *events.Instruction, gen metadata.CodeGenerator, ctx *gencontext.Context, result string) (string, error) {
		operator, ok := relationalOperators[strings.TrimSpace(instr.Parameter(1).Text())]
		if !ok || (valueType == metadata.ValueString && operator != "==" && operator != "!=") {
			return "", fmt.Errorf("invalid comparison operator %q", instr.Parameter(1).Text())
		}
		left := gen.GenerateExpressionCode(instr.Parameter(0), valueType, ctx)
		right := gen.GenerateExpressionCode(instr.Parameter(2), valueType, ctx)
		predicate := "(" + left + " " + operator + " " + right + ")"
		if instr.Inverted {
			predicate = gen.Dialect().Not(predicate)
		}
		return result + " = " + predicate + ";\n", nil
	}
}

var relationalOperators = map[string]string{
	"=":  "==",
	"!=": "!=",
	"<":  "<",
	"<=": "<=",
	">":  ">",
	">=": ">=",
}

func withNewline(code string) string {
	if code == "" || strings.HasSuffix(code, "\n") {
		return code
	}
	return code + "\n"
}
