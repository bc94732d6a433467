// Package gencontext tracks the per-scope bookkeeping of an events code
// generation pass: which object lists a scope needs, which must start empty,
// which were already materialized by an enclosing scope, and the side tables
// (include files, global declarations, code outside the main function)
// shared by the whole pass.
//
// A Context is created per event. Sub-events get a child created with
// InheritsFrom, so a list picked by a parent event is copied from the parent's
// list instead of being fetched again from the scene.
package gencontext

import (
	"sort"
	"strings"
)

// Context is the scope record for one event (or one nested construct such as
// a for-each iteration or an Or sub-condition).
//
// Thread Safety: a Context and all of its descendants belong to a single
// generation pass and must not be shared between goroutines.
type Context struct {
	parent *Context
	depth  int
	shared *sideTables

	needed    map[string]struct{}
	empty     map[string]struct{}
	construct map[string]struct{}

	currentObject  string
	dynamic        bool
	conditionDepth int
}

// sideTables is shared by every context of a pass
type sideTables struct {
	includeFiles       map[string]struct{}
	globalDeclarations []string
	globalSeen         map[string]struct{}
	codeOutsideMain    []string
	codeInMain         []string
	booleans           map[BooleanLevel]int
	maxDepth           int
	nextID             int
}

// New creates the root context of a generation pass
func New() *Context {
	return &Context{
		depth: 0,
		shared: &sideTables{
			includeFiles: make(map[string]struct{}),
			globalSeen:   make(map[string]struct{}),
			booleans:     make(map[BooleanLevel]int),
		},
		needed:    make(map[string]struct{}),
		empty:     make(map[string]struct{}),
		construct: make(map[string]struct{}),
	}
}

// InheritsFrom creates a child scope of parent. The child is one level
// deeper, shares the side tables, and sees every list declared by parent
// and its ancestors as already declared.
func InheritsFrom(parent *Context) *Context {
	child := &Context{
		parent:    parent,
		depth:     parent.depth + 1,
		shared:    parent.shared,
		needed:    make(map[string]struct{}),
		empty:     make(map[string]struct{}),
		construct: make(map[string]struct{}),
	}
	if child.depth > parent.shared.maxDepth {
		parent.shared.maxDepth = child.depth
	}
	return child
}

// Parent returns the enclosing scope, nil for the root
func (c *Context) Parent() *Context {
	return c.parent
}

// Depth returns the nesting depth (0 for the root)
func (c *Context) Depth() int {
	return c.depth
}

// MaxDepth returns the deepest scope created so far in this pass
func (c *Context) MaxDepth() int {
	return c.shared.maxDepth
}

// ObjectsListNeeded records that this scope works on the picked instances
// of name. A previous EmptyObjectsListNeeded in the same scope is superseded
// when declarations are generated.
func (c *Context) ObjectsListNeeded(name string) {
	if _, ok := c.construct[name]; ok {
		return
	}
	c.needed[name] = struct{}{}
}

// EmptyObjectsListNeeded records that this scope needs a list for name that
// starts empty, for instance to receive newly created instances.
func (c *Context) EmptyObjectsListNeeded(name string) {
	if _, ok := c.construct[name]; ok {
		return
	}
	c.empty[name] = struct{}{}
}

// ObjectsListNeededOrEmptyIfJustDeclared requests the picked list when an
// enclosing scope already holds one, and an empty list otherwise.
func (c *Context) ObjectsListNeededOrEmptyIfJustDeclared(name string) {
	if c.ObjectAlreadyDeclared(name) {
		c.ObjectsListNeeded(name)
		return
	}
	c.EmptyObjectsListNeeded(name)
}

// SetObjectsListDeclared marks name as filled by the construct that owns
// this scope (a for-each iteration pushes one instance into it). The list is
// declared empty and later requests for the picked list are ignored.
func (c *Context) SetObjectsListDeclared(name string) {
	c.construct[name] = struct{}{}
	delete(c.needed, name)
	delete(c.empty, name)
}

// ListState is the requirement a scope has on an object list
type ListState int

const (
	// NotNeeded means the scope does not declare the list
	NotNeeded ListState = iota
	// Needed means the list is copied from an ancestor or fetched from the scene
	Needed
	// NeededEmpty means the list is declared empty
	NeededEmpty
)

// State returns the final requirement of this scope on name
func (c *Context) State(name string) ListState {
	switch {
	case c.IsNeeded(name):
		return Needed
	case c.IsEmptyNeeded(name):
		return NeededEmpty
	default:
		return NotNeeded
	}
}

// IsNeeded reports whether name ends up declared as a picked list in this scope
func (c *Context) IsNeeded(name string) bool {
	_, ok := c.needed[name]
	return ok
}

// IsEmptyNeeded reports whether name ends up declared as an empty list in
// this scope. It is false when the list is also needed.
func (c *Context) IsEmptyNeeded(name string) bool {
	if c.IsNeeded(name) {
		return false
	}
	if _, ok := c.construct[name]; ok {
		return true
	}
	_, ok := c.empty[name]
	return ok
}

// ObjectsListsToBeDeclared returns, sorted, the lists this scope declares by
// copying them from an ancestor or fetching them from the scene.
func (c *Context) ObjectsListsToBeDeclared() []string {
	return sortedKeys(c.needed)
}

// EmptyObjectsListsToBeDeclared returns, sorted, the lists this scope
// declares empty. Lists also needed are excluded: the non-empty declaration
// wins regardless of the order in which instructions asked for them.
func (c *Context) EmptyObjectsListsToBeDeclared() []string {
	out := make([]string, 0, len(c.empty)+len(c.construct))
	for name := range c.empty {
		if _, ok := c.needed[name]; !ok {
			out = append(out, name)
		}
	}
	for name := range c.construct {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// DeclaredLists returns every list this scope materializes itself, including
// the ones filled by its construct.
func (c *Context) DeclaredLists() []string {
	all := make(map[string]struct{}, len(c.needed)+len(c.empty)+len(c.construct))
	for _, m := range []map[string]struct{}{c.needed, c.empty, c.construct} {
		for name := range m {
			all[name] = struct{}{}
		}
	}
	return sortedKeys(all)
}

// DeclarationDepth returns the depth of the nearest scope, this one
// included, that materializes name.
func (c *Context) DeclarationDepth(name string) (int, bool) {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if ctx.declares(name) {
			return ctx.depth, true
		}
	}
	return 0, false
}

// AncestorDeclarationDepth is DeclarationDepth starting at the parent
// scope. Lists found there are copied, never fetched again.
func (c *Context) AncestorDeclarationDepth(name string) (int, bool) {
	if c.parent == nil {
		return 0, false
	}
	return c.parent.DeclarationDepth(name)
}

// ObjectAlreadyDeclared reports whether an enclosing scope already holds a
// list for name
func (c *Context) ObjectAlreadyDeclared(name string) bool {
	_, ok := c.AncestorDeclarationDepth(name)
	return ok
}

func (c *Context) declares(name string) bool {
	if _, ok := c.needed[name]; ok {
		return true
	}
	if _, ok := c.empty[name]; ok {
		return true
	}
	_, ok := c.construct[name]
	return ok
}

// SetCurrentObject sets the object whose instances are being iterated, so
// that expressions referring to it use the current instance.
func (c *Context) SetCurrentObject(name string) {
	c.currentObject = name
}

// CurrentObject returns the object being iterated, or ""
func (c *Context) CurrentObject() string {
	return c.currentObject
}

// SetDynamicObjectsListsDeclaration marks the scope as the body of a loop:
// the loop emits its declarations inside each iteration rather than letting
// the enclosing event emit them once. Children do not inherit the flag.
func (c *Context) SetDynamicObjectsListsDeclaration(dynamic bool) {
	c.dynamic = dynamic
}

// IsDynamic reports whether declarations of this scope are emitted by a loop
func (c *Context) IsDynamic() bool {
	return c.dynamic
}

// BooleanLevel identifies a set of condition booleans: the scope depth and
// how deeply the conditions are nested in And/Not conditions of that scope.
type BooleanLevel struct {
	Depth          int
	ConditionDepth int
}

// EnterSubConditions is called before generating the sub-conditions of a
// condition that works in the same scope (And, Not), so that their booleans
// do not overwrite the ones of the enclosing list.
func (c *Context) EnterSubConditions() {
	c.conditionDepth++
}

// LeaveSubConditions undoes EnterSubConditions
func (c *Context) LeaveSubConditions() {
	if c.conditionDepth > 0 {
		c.conditionDepth--
	}
}

// BooleanLevel returns the level of the conditions currently generated
func (c *Context) BooleanLevel() BooleanLevel {
	return BooleanLevel{Depth: c.depth, ConditionDepth: c.conditionDepth}
}

// ConditionsBooleansNeeded records that count condition booleans are used at
// the current level of this scope
func (c *Context) ConditionsBooleansNeeded(count int) {
	level := c.BooleanLevel()
	if count > c.shared.booleans[level] {
		c.shared.booleans[level] = count
	}
}

// Booleans returns how many condition booleans are used at each level
func (c *Context) Booleans() map[BooleanLevel]int {
	out := make(map[BooleanLevel]int, len(c.shared.booleans))
	for level, count := range c.shared.booleans {
		out[level] = count
	}
	return out
}

// NewUniqueID returns a number unique within the pass, used to name
// per-instruction state such as trigger-once markers
func (c *Context) NewUniqueID() int {
	id := c.shared.nextID
	c.shared.nextID++
	return id
}

// AddIncludeFile records a file the generated code depends on
func (c *Context) AddIncludeFile(file string) {
	if file == "" {
		return
	}
	c.shared.includeFiles[file] = struct{}{}
}

// IncludeFiles returns the recorded include files, sorted
func (c *Context) IncludeFiles() []string {
	return sortedKeys(c.shared.includeFiles)
}

// AddGlobalDeclaration records a declaration emitted once before the main
// function. Duplicates are ignored.
func (c *Context) AddGlobalDeclaration(code string) {
	if _, ok := c.shared.globalSeen[code]; ok {
		return
	}
	c.shared.globalSeen[code] = struct{}{}
	c.shared.globalDeclarations = append(c.shared.globalDeclarations, code)
}

// GlobalDeclarations returns the global declarations in registration order
func (c *Context) GlobalDeclarations() []string {
	return append([]string(nil), c.shared.globalDeclarations...)
}

// AddCustomCodeOutsideMain appends code emitted before the main function
func (c *Context) AddCustomCodeOutsideMain(code string) {
	c.shared.codeOutsideMain = append(c.shared.codeOutsideMain, code)
}

// CustomCodeOutsideMain returns the code emitted before the main function
func (c *Context) CustomCodeOutsideMain() string {
	return strings.Join(c.shared.codeOutsideMain, "\n")
}

// AddCustomCodeInMain appends code emitted at the start of the main function
func (c *Context) AddCustomCodeInMain(code string) {
	c.shared.codeInMain = append(c.shared.codeInMain, code)
}

// CustomCodeInMain returns the code emitted at the start of the main function
func (c *Context) CustomCodeInMain() string {
	return strings.Join(c.shared.codeInMain, "\n")
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
