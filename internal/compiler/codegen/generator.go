// Package codegen generates target code from event trees.
// It walks events, conditions, actions and expressions, looks every
// instruction up in the platform, and assembles the fragments of a Backend
// into one function per scene.
package codegen

import (
	"strconv"
	"strings"

	"github.com/conduit-lang/eventc/internal/compiler/errors"
	"github.com/conduit-lang/eventc/internal/compiler/events"
	"github.com/conduit-lang/eventc/internal/compiler/gencontext"
	"github.com/conduit-lang/eventc/internal/compiler/metadata"
	"github.com/conduit-lang/eventc/internal/compiler/platform"
	"github.com/conduit-lang/eventc/internal/compiler/project"
)

// Generator runs one code generation pass over the events of a scene or
// an events-based function.
//
// Thread Safety: a Generator is used by a single goroutine. Several
// generators may share the same Platform.
type Generator struct {
	platform *platform.Platform
	scope    *project.Scope
	backend  Backend

	diagnostics errors.ErrorList
	failed      bool

	lists    []string
	listSeen map[string]struct{}

	// Location of the instruction being generated
	unit        string
	path        []int
	instruction string
	param       int
	expression  string
}

// NewGenerator creates a generator for the events of scope. backend must
// already be specialized with ForScene or ForFunction.
func NewGenerator(p *platform.Platform, scope *project.Scope, backend Backend) *Generator {
	unit := ""
	if scope != nil {
		unit = scope.Name
	}
	return &Generator{
		platform: p,
		scope:    scope,
		backend:  backend,
		listSeen: make(map[string]struct{}),
		unit:     unit,
		param:    errors.NoParameter,
	}
}

// Platform returns the platform instructions are looked up in
func (g *Generator) Platform() *platform.Platform { return g.platform }

// Scope returns the objects and variables visible to the events
func (g *Generator) Scope() *project.Scope { return g.scope }

// Dialect implements metadata.CodeGenerator
func (g *Generator) Dialect() metadata.Dialect { return g.backend }

// Diagnostics returns every error and warning recorded so far
func (g *Generator) Diagnostics() errors.ErrorList { return g.diagnostics }

// Failed reports whether an error was recorded. The generated code must
// then be discarded.
func (g *Generator) Failed() bool { return g.failed }

// ReportError records a diagnostic and marks the pass as failed
func (g *Generator) ReportError(err *errors.CompilerError) {
	g.diagnostics = append(g.diagnostics, err)
	g.failed = true
}

// warn records a diagnostic without failing the pass
func (g *Generator) warn(err *errors.CompilerError) {
	g.diagnostics = append(g.diagnostics, err)
}

// Location returns where the instruction being generated sits
func (g *Generator) Location(param int) errors.Location {
	return errors.Location{
		Scene:       g.unit,
		Event:       g.eventPath(),
		Instruction: g.instruction,
		Parameter:   param,
	}
}

func (g *Generator) eventPath() string {
	parts := make([]string, len(g.path))
	for i, index := range g.path {
		parts[i] = strconv.Itoa(index + 1)
	}
	return strings.Join(parts, ".")
}

// ObjectsOf expands a group into its objects; an object expands to itself
func (g *Generator) ObjectsOf(name string) []string {
	if g.scope == nil {
		return nil
	}
	return g.scope.GroupMembers(name)
}

// ObjectsListName returns the list holding the picked instances of object
// as seen from ctx: the list of the nearest scope declaring it.
func (g *Generator) ObjectsListName(object string, ctx *gencontext.Context) string {
	depth, ok := ctx.DeclarationDepth(object)
	if !ok {
		depth = ctx.Depth()
	}
	return g.backend.ObjectsListName(object, depth)
}

// generate runs a whole pass: events are generated from a fresh root
// context and the root declarations are emitted last, once every
// instruction has registered its lists.
func (g *Generator) generate(name string, list []*events.Event) Unit {
	root := gencontext.New()
	for _, file := range g.backend.RuntimeIncludes() {
		root.AddIncludeFile(file)
	}
	body := g.GenerateEventsListCode(list, root)
	declarations := g.GenerateObjectsDeclarationCode(root)
	return Unit{
		Name:         name,
		Root:         root,
		Declarations: declarations,
		Body:         body,
		Lists:        append([]string(nil), g.lists...),
	}
}

// GenerateSceneCode generates the complete code of a scene. The code is
// empty when the pass failed; the diagnostics tell why.
func (g *Generator) GenerateSceneCode(scene string, list []*events.Event) (code string, includes []string) {
	u := g.generate(scene, list)
	if g.failed {
		return "", nil
	}
	return g.backend.WrapScene(u), u.Root.IncludeFiles()
}

// GenerateSceneEventsCompleteCode generates the code of the events of a
// scene. On failure the code is discarded and the error is the
// errors.ErrorList of the pass.
func GenerateSceneEventsCompleteCode(p *platform.Platform, proj *project.Project, scene *project.Scene, list []*events.Event, backend Backend) (string, []string, error) {
	scope, err := proj.SceneScope(scene.Name)
	if err != nil {
		return "", nil, err
	}
	g := NewGenerator(p, scope, backend.ForScene(scene.Name))
	code, includes := g.GenerateSceneCode(scene.Name, list)
	if g.Failed() {
		return "", nil, g.Diagnostics()
	}
	return code, includes, nil
}

// GenerateEventsListCode generates every event of list. Each event gets
// its own child of ctx so that what an event picks never leaks into its
// siblings.
func (g *Generator) GenerateEventsListCode(list []*events.Event, ctx *gencontext.Context) string {
	var sb strings.Builder
	for i, ev := range list {
		if ev == nil || ev.Disabled {
			continue
		}
		g.path = append(g.path, i)
		sb.WriteString(g.generateEventCode(ev, ctx))
		g.path = g.path[:len(g.path)-1]
	}
	return sb.String()
}

func (g *Generator) generateEventCode(ev *events.Event, parent *gencontext.Context) string {
	previous := g.instruction
	g.instruction = ""
	defer func() { g.instruction = previous }()

	_, md := g.platform.GetEventMetadata(ev.Type)
	if md.IsBad() || md.CodeGenerator == nil {
		g.ReportError(errors.NewUnknownInstruction(g.Location(errors.NoParameter), "event", ev.Type))
		return "/* Unknown event - skipped. */\n"
	}

	ctx := gencontext.InheritsFrom(parent)
	code, err := md.CodeGenerator(ev, g, ctx)
	if err != nil {
		g.ReportError(errors.NewCustomGenerator(g.Location(errors.NoParameter), ev.Type, err))
		return ""
	}
	if code == "" {
		return ""
	}
	if !ctx.IsDynamic() {
		code = g.GenerateObjectsDeclarationCode(ctx) + code
	}
	return "{\n" + withNewline(code) + "}\n"
}

// GenerateObjectsDeclarationCode declares the lists ctx needs. A list an
// ancestor holds is copied from it; any other list is fetched from the
// scene. Lists needed empty come last.
func (g *Generator) GenerateObjectsDeclarationCode(ctx *gencontext.Context) string {
	var sb strings.Builder
	for _, object := range ctx.ObjectsListsToBeDeclared() {
		list := g.backend.ObjectsListName(object, ctx.Depth())
		g.registerList(list, ctx)
		if depth, ok := ctx.AncestorDeclarationDepth(object); ok {
			sb.WriteString(g.backend.DeclareObjectsListCopy(list, g.backend.ObjectsListName(object, depth)))
		} else {
			sb.WriteString(g.backend.DeclareObjectsListFromScene(list, object))
		}
	}
	for _, object := range ctx.EmptyObjectsListsToBeDeclared() {
		list := g.backend.ObjectsListName(object, ctx.Depth())
		g.registerList(list, ctx)
		sb.WriteString(g.backend.DeclareEmptyObjectsList(list))
	}
	return sb.String()
}

// registerList records a list so that targets keeping lists between frames
// declare it once and clear it at the end of the frame
func (g *Generator) registerList(list string, ctx *gencontext.Context) {
	if decl := g.backend.GlobalObjectsListDeclaration(list); decl != "" {
		ctx.AddGlobalDeclaration(decl)
	}
	if _, ok := g.listSeen[list]; ok {
		return
	}
	g.listSeen[list] = struct{}{}
	g.lists = append(g.lists, list)
}

// DeclareObjectsList declares an empty list owned by a hook, such as the
// lists an Or condition gathers picked instances into
func (g *Generator) DeclareObjectsList(list string, ctx *gencontext.Context) string {
	g.registerList(list, ctx)
	return g.backend.DeclareEmptyObjectsList(list)
}
