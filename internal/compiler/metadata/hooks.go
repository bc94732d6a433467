package metadata

import (
	"github.com/conduit-lang/eventc/internal/compiler/ast"
	"github.com/conduit-lang/eventc/internal/compiler/errors"
	"github.com/conduit-lang/eventc/internal/compiler/events"
	"github.com/conduit-lang/eventc/internal/compiler/gencontext"
)

// InstructionCodeGenerator generates the code of one condition or action.
// For a condition, result is the boolean the code must set; it is "" for
// actions.
type InstructionCodeGenerator func(instr *events.Instruction, gen CodeGenerator, ctx *gencontext.Context, result string) (string, error)

// ExpressionCodeGenerator generates the code of one function call
type ExpressionCodeGenerator func(call *ast.FunctionCall, gen CodeGenerator, ctx *gencontext.Context) (string, error)

// EventCodeGenerator generates the code of one event. ctx is the event's
// own scope; the caller emits its object declarations unless the generator
// marks ctx as dynamic.
type EventCodeGenerator func(ev *events.Event, gen CodeGenerator, ctx *gencontext.Context) (string, error)

// CodeGenerator is the part of the events code generator that extension
// hooks may call back into
type CodeGenerator interface {
	// Dialect returns the target language helpers
	Dialect() Dialect

	// GenerateConditionsListCode returns the code evaluating every
	// condition and the predicate combining their results
	GenerateConditionsListCode(conditions []*events.Instruction, ctx *gencontext.Context) (code string, predicate string)
	GenerateActionsListCode(actions []*events.Instruction, ctx *gencontext.Context) string
	GenerateEventsListCode(list []*events.Event, ctx *gencontext.Context) string
	GenerateObjectsDeclarationCode(ctx *gencontext.Context) string

	// GenerateExpressionCode returns the code of an expression of the given
	// value type ("number" or "string")
	GenerateExpressionCode(expr *events.Expression, valueType string, ctx *gencontext.Context) string
	GenerateNodeCode(node ast.Node, valueType string, ctx *gencontext.Context) string

	// ObjectsListName returns the name of the list holding the picked
	// instances of object in ctx
	ObjectsListName(object string, ctx *gencontext.Context) string
	// ObjectsOf expands a group into its objects; an object expands to itself
	ObjectsOf(name string) []string
	// DeclareObjectsList returns the declaration of an empty list the
	// caller owns, registering it with the pass
	DeclareObjectsList(list string, ctx *gencontext.Context) string

	// ReportError records a diagnostic and marks the pass as failed
	ReportError(err *errors.CompilerError)
	// Location returns where the instruction being generated sits
	Location(param int) errors.Location
}

// Dialect is the set of target language fragments the generator and the
// extension hooks assemble. list arguments are list names returned by
// ObjectsListName.
type Dialect interface {
	Name() string
	RuntimeScene() string

	ObjectsListName(object string, depth int) string
	BooleanName(index int, level gencontext.BooleanLevel) string

	DeclareObjectsListFromScene(list, object string) string
	DeclareObjectsListCopy(list, source string) string
	DeclareEmptyObjectsList(list string) string
	// GlobalObjectsListDeclaration is registered once per list; it is ""
	// for targets declaring lists locally
	GlobalObjectsListDeclaration(list string) string
	ObjectsListsMap(objects, lists []string) string

	FilterObjectsList(list, predicate, result string) string
	ForEachInstance(list, body string) string
	Instance(list string) string
	FirstInstance(list string) string
	IsListEmpty(list string) string
	ObjectPointer(list string) string
	ClearList(list string) string
	PushUniqueInstance(list, instance string) string
	CopyObjectsList(source, destination string) string

	MemberCall(instance, className, function string, args []string) string
	BehaviorCall(instance, behavior, className, function string, args []string) string
	FunctionCall(function string, args []string) string

	SceneVariable(name string) string
	GlobalVariable(name string) string
	ObjectVariable(instance, name string) string
	VariableChild(variable, child string) string
	VariableChildAt(variable, index string, byName bool) string
	VariableNumber(variable string) string
	VariableString(variable string) string
	FunctionArgument(name string) string
	FunctionProperty(name string) string

	NumberLiteral(raw string) string
	StringLiteral(value string) string
	BoolLiteral(value bool) string
	Power(base, exponent string) string
	Not(expr string) string

	CounterLoop(depth int, count, body string) string
	WhileLoop(depth int, head, predicate, body string) string
	// ForEachLoop iterates over the instances of lists one at a time.
	// For each instance, body runs after declarations and after the
	// instance was pushed into the matching entry of targets.
	ForEachLoop(ctx *gencontext.Context, lists, targets []string, declarations, body string) string
	TriggerOnce(id int) string
	// InlineCode wraps user code in a function of the unit and returns the
	// call passing it the instances of lists
	InlineCode(ctx *gencontext.Context, code string, lists []string) string
}
