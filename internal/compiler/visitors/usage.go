package visitors

import (
	"sort"

	"github.com/conduit-lang/eventc/internal/compiler/ast"
	"github.com/conduit-lang/eventc/internal/compiler/events"
	"github.com/conduit-lang/eventc/internal/compiler/metadata"
	"github.com/conduit-lang/eventc/internal/compiler/platform"
	"github.com/conduit-lang/eventc/internal/compiler/project"
)

// StoreExtensionName is the extension whose instructions only count as used
// when they need a runtime file
const StoreExtensionName = "StoreExample"

// GetUsedExtensions returns the names of the extensions the project's
// events depend on: the extensions declaring the event types, the
// instructions, the expressions, and the types of the objects and
// behaviors they refer to.
func GetUsedExtensions(p *platform.Platform, proj *project.Project) map[string]struct{} {
	u := &usageCollector{platform: p, used: make(map[string]struct{})}

	for i := range proj.Scenes {
		scene := &proj.Scenes[i]
		scope, err := proj.SceneScope(scene.Name)
		if err != nil {
			continue
		}
		u.collectEvents(scope, proj.SceneEvents(scene))
	}
	for _, ext := range proj.FunctionsExtensions {
		for i := range ext.Functions {
			fn := &ext.Functions[i]
			u.collectEvents(project.NewFunctionScope(proj, ext.Name+"::"+fn.Name, fn), fn.Events)
		}
	}

	return u.used
}

// SortedNames returns the keys of a set, sorted
func SortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type usageCollector struct {
	platform *platform.Platform
	used     map[string]struct{}
}

func (u *usageCollector) add(ext *metadata.PlatformExtension) {
	if ext != nil {
		u.used[ext.Name] = struct{}{}
	}
}

func (u *usageCollector) collectEvents(scope *project.Scope, list []*events.Event) {
	events.Walk(list, func(ev *events.Event) bool {
		if ext, _ := u.platform.GetEventMetadata(ev.Type); ext != nil {
			u.add(ext)
		}
		if ev.Object != "" {
			u.addObject(scope, ev.Object)
		}
		if ev.RepeatExpression != nil {
			u.collectExpression(scope, ev.RepeatExpression)
		}
		return true
	})

	events.WalkInstructions(list, func(instr *events.Instruction, isCondition bool) {
		u.collectInstruction(scope, instr, isCondition)
	})
}

func (u *usageCollector) collectInstruction(scope *project.Scope, instr *events.Instruction, isCondition bool) {
	lookupScope := InstructionScope(scope, instr)
	var match platform.InstructionMatch
	if isCondition {
		match = u.platform.FindCondition(instr.Type, lookupScope)
	} else {
		match = u.platform.FindAction(instr.Type, lookupScope)
	}
	if !match.Found() {
		return
	}

	if match.Extension.Name != StoreExtensionName || match.Metadata.IncludeFile != "" {
		u.add(match.Extension)
	}

	for i, param := range match.Metadata.Parameters {
		if param.CodeOnly {
			continue
		}
		expr := instr.Parameter(i)
		switch {
		case metadata.IsObject(param.Type):
			u.addObject(scope, expr.Text())
		case metadata.IsBehavior(param.Type):
			u.addBehavior(scope, instr.Parameter(0).Text(), expr.Text())
		case metadata.ExpressionType(param.Type) != "":
			u.collectExpression(scope, expr)
		}
	}
}

func (u *usageCollector) collectExpression(scope *project.Scope, expr *events.Expression) {
	root, _ := expr.Root()
	ast.Inspect(root, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.Identifier:
			if InferIdentifier(scope, node.Name) == ObjectIdentifier {
				u.addObject(scope, node.Name)
			}
		case *ast.FunctionCall:
			if node.IsObjectCall() {
				u.addObject(scope, node.ObjectName)
				if node.IsBehaviorCall() {
					u.addBehavior(scope, node.ObjectName, node.BehaviorName)
				}
			}
			exprScope := ExpressionScope(scope, node)
			match := u.platform.FindExpression(node.FunctionName, exprScope, metadata.ValueNumber)
			if !match.Found() {
				match = u.platform.FindExpression(node.FunctionName, exprScope, metadata.ValueString)
			}
			if match.Found() {
				u.add(match.Extension)
			}
		}
		return true
	})
}

// addObject attributes an object, or every object of a group, to the
// extension declaring its type
func (u *usageCollector) addObject(scope *project.Scope, name string) {
	for _, member := range scope.GroupMembers(name) {
		obj, _ := scope.Object(member)
		if ext, _ := u.platform.GetExtensionAndObjectMetadata(obj.Type); ext != nil {
			u.add(ext)
		}
	}
}

func (u *usageCollector) addBehavior(scope *project.Scope, object, behavior string) {
	typ := scope.BehaviorType(object, behavior)
	if typ == "" {
		return
	}
	if ext, _ := u.platform.GetExtensionAndBehaviorMetadata(typ); ext != nil {
		u.add(ext)
	}
}

// InstructionScope returns the platform scope of an instruction: the type of
// the object named by its first parameter and, when the second names a
// behavior of that object, the behavior type.
func InstructionScope(scope *project.Scope, instr *events.Instruction) platform.Scope {
	if scope == nil || len(instr.Parameters) == 0 {
		return platform.Global()
	}
	object := instr.Parameter(0).Text()
	if !scope.HasObject(object) {
		return platform.Global()
	}
	objectType := scope.ObjectType(object)
	if len(instr.Parameters) > 1 {
		if behaviorType := scope.BehaviorType(object, instr.Parameter(1).Text()); behaviorType != "" {
			return platform.BehaviorScope(objectType, behaviorType)
		}
	}
	return platform.ObjectScope(objectType)
}
