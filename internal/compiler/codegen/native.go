package codegen

import (
	"fmt"
	"strings"

	"github.com/conduit-lang/eventc/internal/compiler/gencontext"
)

const objectsVector = "std::vector<RuntimeObject*>"

// NativeBackend generates C++ for the native runtime. Object lists and
// condition booleans are locals of the generated function.
type NativeBackend struct {
	function string
}

// NewNativeBackend creates a native backend for an unnamed scene
func NewNativeBackend() *NativeBackend {
	return &NativeBackend{}
}

func (b *NativeBackend) ForScene(scene string) Backend {
	return &NativeBackend{}
}

func (b *NativeBackend) ForFunction(extension, function string) Backend {
	return &NativeBackend{function: MangleName(extension) + "_" + MangleName(function)}
}

func (b *NativeBackend) Name() string         { return "native" }
func (b *NativeBackend) RuntimeScene() string { return "*runtimeContext->scene" }

func (b *NativeBackend) RuntimeIncludes() []string {
	return []string{
		"GDCpp/Runtime/RuntimeContext.h",
		"GDCpp/Runtime/RuntimeObject.h",
		"GDCpp/Runtime/RuntimeScene.h",
		"GDCpp/Runtime/Variable.h",
	}
}

func (b *NativeBackend) ObjectsListName(object string, depth int) string {
	return fmt.Sprintf("%sObjects%d", MangleName(object), depth)
}

func (b *NativeBackend) BooleanName(index int, level gencontext.BooleanLevel) string {
	return fmt.Sprintf("condition%dIsTrue_%s", index, booleanSuffix(level))
}

func (b *NativeBackend) DeclareObjectsListFromScene(list, object string) string {
	source := "runtimeContext"
	if b.function != "" {
		source = "eventsFunctionContext"
	}
	return objectsVector + " " + list + " = " + source + "->GetObjectsRawPointers(" + quote(object) + ");\n"
}

func (b *NativeBackend) DeclareObjectsListCopy(list, source string) string {
	return objectsVector + " " + list + " = " + source + ";\n"
}

func (b *NativeBackend) DeclareEmptyObjectsList(list string) string {
	return objectsVector + " " + list + ";\n"
}

func (b *NativeBackend) GlobalObjectsListDeclaration(list string) string { return "" }

func (b *NativeBackend) ObjectsListsMap(objects, lists []string) string {
	var sb strings.Builder
	sb.WriteString("runtimeContext->ClearObjectListsMap()")
	for i := range objects {
		sb.WriteString(".AddObjectListToMap(" + quote(objects[i]) + ", " + lists[i] + ")")
	}
	sb.WriteString(".ReturnObjectListsMap()")
	return sb.String()
}

func (b *NativeBackend) FilterObjectsList(list, predicate, result string) string {
	var sb strings.Builder
	sb.WriteString("for (std::size_t i = 0;i < " + list + ".size();) {\n")
	sb.WriteString("    if ( " + predicate + " ) {\n")
	sb.WriteString("        " + result + " = true;\n")
	sb.WriteString("        ++i;\n")
	sb.WriteString("    } else {\n")
	sb.WriteString("        " + list + ".erase(" + list + ".begin() + i);\n")
	sb.WriteString("    }\n")
	sb.WriteString("}\n")
	return sb.String()
}

func (b *NativeBackend) ForEachInstance(list, body string) string {
	return "for (std::size_t i = 0;i < " + list + ".size();++i) {\n" + withNewline(body) + "}\n"
}

func (b *NativeBackend) Instance(list string) string      { return list + "[i]" }
func (b *NativeBackend) FirstInstance(list string) string { return list + "[0]" }
func (b *NativeBackend) IsListEmpty(list string) string   { return list + ".empty()" }

func (b *NativeBackend) ObjectPointer(list string) string {
	return "(" + list + ".empty() ? nullptr : " + list + "[0])"
}

func (b *NativeBackend) ClearList(list string) string {
	return list + ".clear();\n"
}

func (b *NativeBackend) PushUniqueInstance(list, instance string) string {
	return "if ( std::find(" + list + ".begin(), " + list + ".end(), " + instance + ") == " + list + ".end() ) " +
		list + ".push_back(" + instance + ");\n"
}

func (b *NativeBackend) CopyObjectsList(source, destination string) string {
	return destination + " = " + source + ";\n"
}

func (b *NativeBackend) MemberCall(instance, className, function string, args []string) string {
	if className == "" {
		return instance + "->" + function + "(" + joinArgs(args) + ")"
	}
	return "static_cast<" + className + "*>(" + instance + ")->" + function + "(" + joinArgs(args) + ")"
}

func (b *NativeBackend) BehaviorCall(instance, behavior, className, function string, args []string) string {
	if className == "" {
		className = "Behavior"
	}
	return "static_cast<" + className + "*>(" + instance + "->GetBehaviorRawPointer(" + quote(behavior) + "))->" +
		function + "(" + joinArgs(args) + ")"
}

func (b *NativeBackend) FunctionCall(function string, args []string) string {
	return function + "(" + joinArgs(args) + ")"
}

func (b *NativeBackend) SceneVariable(name string) string {
	return "runtimeContext->GetSceneVariables().Get(" + quote(name) + ")"
}

func (b *NativeBackend) GlobalVariable(name string) string {
	return "runtimeContext->GetGameVariables().Get(" + quote(name) + ")"
}

func (b *NativeBackend) ObjectVariable(instance, name string) string {
	return instance + "->GetVariables().Get(" + quote(name) + ")"
}

func (b *NativeBackend) VariableChild(variable, child string) string {
	return variable + ".GetChild(" + quote(child) + ")"
}

func (b *NativeBackend) VariableChildAt(variable, index string, byName bool) string {
	if byName {
		return variable + ".GetChild(" + index + ")"
	}
	return variable + ".GetAtIndex(" + index + ")"
}

func (b *NativeBackend) VariableNumber(variable string) string { return variable + ".GetValue()" }
func (b *NativeBackend) VariableString(variable string) string { return variable + ".GetString()" }

func (b *NativeBackend) FunctionArgument(name string) string {
	return "eventsFunctionContext->GetArgument(" + quote(name) + ")"
}

func (b *NativeBackend) FunctionProperty(name string) string {
	return "eventsFunctionContext->GetProperty(" + quote(name) + ")"
}

func (b *NativeBackend) NumberLiteral(raw string) string { return raw }

func (b *NativeBackend) StringLiteral(value string) string {
	return "std::string(" + quote(value) + ")"
}

func (b *NativeBackend) BoolLiteral(value bool) string {
	if value {
		return "true"
	}
	return "false"
}

func (b *NativeBackend) Power(base, exponent string) string {
	return "pow(" + base + ", " + exponent + ")"
}

func (b *NativeBackend) Not(expr string) string { return "!(" + expr + ")" }

func (b *NativeBackend) CounterLoop(depth int, count, body string) string {
	n := fmt.Sprintf("repeatCount%d", depth)
	i := fmt.Sprintf("repeatIndex%d", depth)
	return "const int " + n + " = " + count + ";\n" +
		"for (int " + i + " = 0;" + i + " < " + n + ";++" + i + ") {\n" +
		withNewline(body) +
		"}\n"
}

func (b *NativeBackend) WhileLoop(depth int, head, predicate, body string) string {
	stop := fmt.Sprintf("stopDoWhile%d", depth)
	return "bool " + stop + " = false;\n" +
		"do {\n" +
		withNewline(head) +
		"if (" + predicate + ") {\n" +
		withNewline(body) +
		"} else " + stop + " = true;\n" +
		"} while (!" + stop + ");\n"
}

func (b *NativeBackend) ForEachLoop(ctx *gencontext.Context, lists, targets []string, declarations, body string) string {
	depth := ctx.Depth()
	index := fmt.Sprintf("forEachIndex%d", depth)
	objects := fmt.Sprintf("forEachObjects%d", depth)

	var sb strings.Builder
	sb.WriteString(objectsVector + " " + objects + ";\n")
	counts := make([]string, len(lists))
	for i, list := range lists {
		counts[i] = fmt.Sprintf("forEachCount%d_%d", i, depth)
		sb.WriteString("std::size_t " + counts[i] + " = " + list + ".size();\n")
		sb.WriteString(objects + ".insert(" + objects + ".end(), " + list + ".begin(), " + list + ".end());\n")
	}

	sb.WriteString("for (std::size_t " + index + " = 0;" + index + " < " + objects + ".size();++" + index + ") {\n")
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
		sb.WriteString("    " + target + ".push_back(" + objects + "[" + index + "]);\n")
		sb.WriteString("}\n")
	}
	sb.WriteString(withNewline(body))
	sb.WriteString("}\n")
	return sb.String()
}

func (b *NativeBackend) TriggerOnce(id int) string {
	return fmt.Sprintf("runtimeContext->TriggerOnce(%d)", id)
}

func (b *NativeBackend) InlineCode(ctx *gencontext.Context, code string, lists []string) string {
	fn := fmt.Sprintf("userFunc%d", ctx.NewUniqueID())
	ctx.AddGlobalDeclaration("void " + fn + "(RuntimeContext * runtimeContext, " + objectsVector + " & objects)\n{\n" + withNewline(code) + "}\n")

	var sb strings.Builder
	sb.WriteString(objectsVector + " objects;\n")
	for _, list := range lists {
		sb.WriteString("objects.insert(objects.end(), " + list + ".begin(), " + list + ".end());\n")
	}
	sb.WriteString(fn + "(runtimeContext, objects);\n")
	return sb.String()
}

func (b *NativeBackend) prelude(u Unit) string {
	var sb strings.Builder
	for _, file := range u.Root.IncludeFiles() {
		sb.WriteString("#include \"" + file + "\"\n")
	}
	sb.WriteString("\n")
	for _, decl := range u.Root.GlobalDeclarations() {
		sb.WriteString(decl + "\n")
	}
	if outside := u.Root.CustomCodeOutsideMain(); outside != "" {
		sb.WriteString(withNewline(outside) + "\n")
	}
	return sb.String()
}

func (b *NativeBackend) body(u Unit) string {
	var sb strings.Builder
	for _, slot := range booleanSlots(u.Root) {
		sb.WriteString("bool " + b.BooleanName(slot.index, slot.level) + " = false;\n")
	}
	sb.WriteString(withNewline(u.Root.CustomCodeInMain()))
	sb.WriteString(withNewline(u.Declarations))
	sb.WriteString("\n")
	sb.WriteString(withNewline(u.Body))
	return sb.String()
}

func (b *NativeBackend) WrapScene(u Unit) string {
	var sb strings.Builder
	sb.WriteString(b.prelude(u))
	sb.WriteString("void " + MangleName(u.Name) + "Events(RuntimeContext * runtimeContext)\n{\n")
	sb.WriteString("runtimeContext->StartNewFrame();\n")
	sb.WriteString(b.body(u))
	sb.WriteString("\nreturn;\n}\n")
	return sb.String()
}

func (b *NativeBackend) WrapFunction(u Unit) string {
	name := b.function
	if name == "" {
		name = MangleName(u.Name)
	}
	var sb strings.Builder
	sb.WriteString(b.prelude(u))
	sb.WriteString("void " + name + "(RuntimeContext * runtimeContext, EventsFunctionContext * eventsFunctionContext)\n{\n")
	sb.WriteString(b.body(u))
	sb.WriteString("\nreturn;\n}\n")
	return sb.String()
}
