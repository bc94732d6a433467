package codegen

import (
	"fmt"
	"strings"

	"github.com/conduit-lang/eventc/internal/compiler/gencontext"
	"github.com/conduit-lang/eventc/internal/compiler/metadata"
	"github.com/conduit-lang/eventc/internal/compiler/project"
)

// JSBackend generates code for the web runtime. Object lists, condition
// booleans and loop counters are properties of a namespace object shared
// by the whole scene (gdjs.<Scene>Code).
type JSBackend struct {
	namespace string
	function  bool
}

// NewJSBackend creates a JS backend for an unnamed scene
func NewJSBackend() *JSBackend {
	return &JSBackend{namespace: "gdjs.Code"}
}

func (b *JSBackend) ForScene(scene string) Backend {
	return &JSBackend{namespace: "gdjs." + MangleName(scene) + "Code"}
}

func (b *JSBackend) ForFunction(extension, function string) Backend {
	return &JSBackend{
		namespace: "gdjs.evtsExt__" + MangleName(extension) + "__" + MangleName(function),
		function:  true,
	}
}

func (b *JSBackend) Name() string         { return "js" }
func (b *JSBackend) RuntimeScene() string { return "runtimeScene" }

func (b *JSBackend) RuntimeIncludes() []string { return nil }

func (b *JSBackend) ObjectsListName(object string, depth int) string {
	return fmt.Sprintf("%s.GD%sObjects%d", b.namespace, MangleName(object), depth)
}

func (b *JSBackend) booleanVariable(index int, level gencontext.BooleanLevel) string {
	return fmt.Sprintf("%s.condition%dIsTrue_%s", b.namespace, index, booleanSuffix(level))
}

func (b *JSBackend) BooleanName(index int, level gencontext.BooleanLevel) string {
	return b.booleanVariable(index, level) + ".val"
}

func (b *JSBackend) objectsSource(object string) string {
	if b.function {
		return "eventsFunctionContext.getObjects(" + quote(object) + ")"
	}
	return "runtimeScene.getObjects(" + quote(object) + ")"
}

func (b *JSBackend) DeclareObjectsListFromScene(list, object string) string {
	return "gdjs.copyArray(" + b.objectsSource(object) + ", " + list + ");\n"
}

func (b *JSBackend) DeclareObjectsListCopy(list, source string) string {
	return "gdjs.copyArray(" + source + ", " + list + ");\n"
}

func (b *JSBackend) DeclareEmptyObjectsList(list string) string {
	return list + ".length = 0;\n"
}

func (b *JSBackend) GlobalObjectsListDeclaration(list string) string {
	return list + " = [];"
}

func (b *JSBackend) ObjectsListsMap(objects, lists []string) string {
	entries := make([]string, len(objects))
	for i := range objects {
		entries[i] = quote(objects[i]) + ": " + lists[i]
	}
	return "gdjs.Hashtable.newFrom({" + joinArgs(entries) + "})"
}

func (b *JSBackend) FilterObjectsList(list, predicate, result string) string {
	var sb strings.Builder
	sb.WriteString("for (var i = 0, k = 0, l = " + list + ".length;i < l;++i) {\n")
	sb.WriteString("    if ( " + predicate + " ) {\n")
	sb.WriteString("        " + result + " = true;\n")
	sb.WriteString("        " + list + "[k] = " + list + "[i];\n")
	sb.WriteString("        ++k;\n")
	sb.WriteString("    }\n")
	sb.WriteString("}\n")
	sb.WriteString(list + ".length = k;\n")
	return sb.String()
}

func (b *JSBackend) ForEachInstance(list, body string) string {
	return "for (let i = 0, l = " + list + ".length;i < l;++i) {\n" + withNewline(body) + "}\n"
}

func (b *JSBackend) Instance(list string) string      { return list + "[i]" }
func (b *JSBackend) FirstInstance(list string) string { return list + "[0]" }
func (b *JSBackend) IsListEmpty(list string) string   { return list + ".length === 0" }

func (b *JSBackend) ObjectPointer(list string) string {
	return "((" + list + ".length === 0) ? null : " + list + "[0])"
}

func (b *JSBackend) ClearList(list string) string {
	return list + ".length = 0;\n"
}

func (b *JSBackend) PushUniqueInstance(list, instance string) string {
	return "if ( " + list + ".indexOf(" + instance + ") === -1 ) " + list + ".push(" + instance + ");\n"
}

func (b *JSBackend) CopyObjectsList(source, destination string) string {
	return "gdjs.copyArray(" + source + ", " + destination + ");\n"
}

func (b *JSBackend) MemberCall(instance, className, function string, args []string) string {
	return instance + "." + function + "(" + joinArgs(args) + ")"
}

func (b *JSBackend) BehaviorCall(instance, behavior, className, function string, args []string) string {
	return instance + ".getBehavior(" + quote(behavior) + ")." + function + "(" + joinArgs(args) + ")"
}

func (b *JSBackend) FunctionCall(function string, args []string) string {
	return function + "(" + joinArgs(args) + ")"
}

func (b *JSBackend) SceneVariable(name string) string {
	return "runtimeScene.getVariables().get(" + quote(name) + ")"
}

func (b *JSBackend) GlobalVariable(name string) string {
	return "runtimeScene.getGame().getVariables().get(" + quote(name) + ")"
}

func (b *JSBackend) ObjectVariable(instance, name string) string {
	return instance + ".getVariables().get(" + quote(name) + ")"
}

func (b *JSBackend) VariableChild(variable, child string) string {
	return variable + ".getChild(" + quote(child) + ")"
}

func (b *JSBackend) VariableChildAt(variable, index string, byName bool) string {
	if byName {
		return variable + ".getChild(" + index + ")"
	}
	return variable + ".getChildAt(" + index + ")"
}

func (b *JSBackend) VariableNumber(variable string) string { return variable + ".getAsNumber()" }
func (b *JSBackend) VariableString(variable string) string { return variable + ".getAsString()" }

func (b *JSBackend) FunctionArgument(name string) string {
	return "eventsFunctionContext.getArgument(" + quote(name) + ")"
}

func (b *JSBackend) FunctionProperty(name string) string {
	return "eventsFunctionContext.getProperty(" + quote(name) + ")"
}

func (b *JSBackend) NumberLiteral(raw string) string   { return raw }
func (b *JSBackend) StringLiteral(value string) string { return quote(value) }

func (b *JSBackend) BoolLiteral(value bool) string {
	if value {
		return "true"
	}
	return "false"
}

func (b *JSBackend) Power(base, exponent string) string {
	return "Math.pow(" + base + ", " + exponent + ")"
}

func (b *JSBackend) Not(expr string) string { return "!(" + expr + ")" }

func (b *JSBackend) CounterLoop(depth int, count, body string) string {
	n := fmt.Sprintf("repeatCount%d", depth)
	i := fmt.Sprintf("repeatIndex%d", depth)
	return "const " + n + " = " + count + ";\n" +
		"for (let " + i + " = 0;" + i + " < " + n + ";++" + i + ") {\n" +
		withNewline(body) +
		"}\n"
}

func (b *JSBackend) WhileLoop(depth int, head, predicate, body string) string {
	stop := fmt.Sprintf("stopDoWhile%d", depth)
	return "let " + stop + " = false;\n" +
		"do {\n" +
		withNewline(head) +
		"if (" + predicate + ") {\n" +
		withNewline(body) +
		"} else " + stop + " = true;\n" +
		"} while (!" + stop + ");\n"
}

func (b *JSBackend) ForEachLoop(ctx *gencontext.Context, lists, targets []string, declarations, body string) string {
	depth := ctx.Depth()
	index := fmt.Sprintf("%s.forEachIndex%d", b.namespace, depth)
	total := fmt.Sprintf("%s.forEachTotalCount%d", b.namespace, depth)
	objects := fmt.Sprintf("%s.forEachObjects%d", b.namespace, depth)
	ctx.AddGlobalDeclaration(index + " = 0;")
	ctx.AddGlobalDeclaration(total + " = 0;")
	ctx.AddGlobalDeclaration(objects + " = [];")

	var sb strings.Builder
	sb.WriteString(total + " = 0;\n")
	sb.WriteString(objects + ".length = 0;\n")
	counts := make([]string, len(lists))
	for i, list := range lists {
		counts[i] = fmt.Sprintf("%s.forEachCount%d_%d", b.namespace, i, depth)
		ctx.AddGlobalDeclaration(counts[i] + " = 0;")
		sb.WriteString(counts[i] + " = " + list + ".length;\n")
		sb.WriteString(total + " += " + counts[i] + ";\n")
		sb.WriteString(objects + ".push.apply(" + objects + "," + list + ");\n")
	}

	sb.WriteString("for (" + index + " = 0;" + index + " < " + total + ";++" + index + ") {\n")
	sb.WriteString(withNewline(declarations))
	bound := ""
	for i, target := range targets {
		if bound == "" {
			bound = counts[i]
		} else {
			bound += "+" + counts[i]
		}
		keyword := "if"
		if i > 0 {
			keyword = "else if"
		}
		sb.WriteString(keyword + " (" + index + " < " + bound + ") {\n")
		sb.WriteString("    " + target + ".push(" + objects + "[" + index + "]);\n")
		sb.WriteString("}\n")
	}
	sb.WriteString(withNewline(body))
	sb.WriteString("}\n")
	return sb.String()
}

func (b *JSBackend) TriggerOnce(id int) string {
	return fmt.Sprintf("runtimeScene.getOnceTriggers().triggerOnce(%d)", id)
}

func (b *JSBackend) InlineCode(ctx *gencontext.Context, code string, lists []string) string {
	fn := fmt.Sprintf("%s.userFunc%d", b.namespace, ctx.NewUniqueID())
	ctx.AddCustomCodeOutsideMain(fn + " = function(runtimeScene, objects) {\n\"use strict\";\n" + withNewline(code) + "};\n")

	var sb strings.Builder
	sb.WriteString("var objects = [];\n")
	for _, list := range lists {
		sb.WriteString("objects.push.apply(objects," + list + ");\n")
	}
	sb.WriteString(fn + "(runtimeScene, objects);\n")
	return sb.String()
}

func (b *JSBackend) globals(u Unit) string {
	var sb strings.Builder
	sb.WriteString(b.namespace + " = {};\n")
	for _, decl := range u.Root.GlobalDeclarations() {
		sb.WriteString(decl + "\n")
	}
	for _, slot := range booleanSlots(u.Root) {
		sb.WriteString(b.booleanVariable(slot.index, slot.level) + " = {val:false};\n")
	}
	if outside := u.Root.CustomCodeOutsideMain(); outside != "" {
		sb.WriteString("\n" + withNewline(outside))
	}
	return sb.String()
}

func (b *JSBackend) clearLists(u Unit) string {
	var sb strings.Builder
	for _, list := range u.Lists {
		sb.WriteString(b.ClearList(list))
	}
	return sb.String()
}

func (b *JSBackend) WrapScene(u Unit) string {
	var sb strings.Builder
	sb.WriteString(b.globals(u))
	sb.WriteString("\n")
	sb.WriteString(b.namespace + ".eventsList0 = function(runtimeScene) {\n\n")
	sb.WriteString(withNewline(u.Body))
	sb.WriteString("\n};\n\n")

	sb.WriteString(b.namespace + ".func = function(runtimeScene) {\n")
	sb.WriteString("runtimeScene.getOnceTriggers().startNewFrame();\n")
	sb.WriteString(withNewline(u.Root.CustomCodeInMain()))
	sb.WriteString("\n")
	sb.WriteString(withNewline(u.Declarations))
	sb.WriteString("\n" + b.namespace + ".eventsList0(runtimeScene);\n")
	sb.WriteString(b.clearLists(u))
	sb.WriteString("\nreturn;\n\n}\n\n")
	sb.WriteString("gdjs['" + strings.TrimPrefix(b.namespace, "gdjs.") + "'] = " + b.namespace + ";\n")
	return sb.String()
}

func (b *JSBackend) WrapFunction(u Unit) string {
	fn := u.Function
	if fn == nil {
		fn = &project.EventsFunction{Name: u.Name}
	}

	var params, objects, arguments, properties []string
	for _, p := range fn.Parameters {
		name := MangleName(p.Name)
		params = append(params, name)
		if metadata.IsObject(p.Type) {
			objects = append(objects, quote(p.Name)+": "+name)
		} else {
			arguments = append(arguments, quote(p.Name)+": "+name)
		}
	}
	for _, p := range fn.Properties {
		value := quote(p.Value)
		if p.Type == "number" && p.Value != "" {
			value = p.Value
		}
		properties = append(properties, quote(p.Name)+": "+value)
	}
	params = append([]string{"runtimeScene"}, append(params, "parentEventsFunctionContext")...)

	var sb strings.Builder
	sb.WriteString(b.globals(u))
	sb.WriteString("\n")
	sb.WriteString(b.namespace + ".eventsList0 = function(runtimeScene, eventsFunctionContext) {\n\n")
	sb.WriteString(withNewline(u.Body))
	sb.WriteString("\n};\n\n")

	sb.WriteString(b.namespace + ".func = function(" + joinArgs(params) + ") {\n")
	sb.WriteString("var eventsFunctionContext = {\n")
	sb.WriteString("  _objectsMap: {" + joinArgs(objects) + "},\n")
	sb.WriteString("  _arguments: {" + joinArgs(arguments) + "},\n")
	sb.WriteString("  _properties: {" + joinArgs(properties) + "},\n")
	sb.WriteString("  returnValue: 0,\n")
	sb.WriteString("  getObjects: function(objectName) {\n")
	sb.WriteString("    return eventsFunctionContext._objectsMap[objectName] || runtimeScene.getObjects(objectName);\n")
	sb.WriteString("  },\n")
	sb.WriteString("  getArgument: function(argName) {\n")
	sb.WriteString("    return eventsFunctionContext._arguments[argName];\n")
	sb.WriteString("  },\n")
	sb.WriteString("  getProperty: function(propName) {\n")
	sb.WriteString("    return eventsFunctionContext._properties[propName];\n")
	sb.WriteString("  }\n")
	sb.WriteString("};\n\n")
	sb.WriteString(withNewline(u.Root.CustomCodeInMain()))
	sb.WriteString(withNewline(u.Declarations))
	sb.WriteString("\n" + b.namespace + ".eventsList0(runtimeScene, eventsFunctionContext);\n")
	sb.WriteString(b.clearLists(u))
	sb.WriteString("\nreturn eventsFunctionContext.returnValue;\n}\n")
	return sb.String()
}
