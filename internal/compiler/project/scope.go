package project

import (
	"fmt"

	"github.com/conduit-lang/eventc/internal/compiler/errors"
)

// Scope is everything an expression can refer to while generating one
// scene or one events-based function. Scene objects, groups and variables
// shadow global ones with the same name.
type Scope struct {
	Name       string
	IsFunction bool

	objects    map[string]*Object
	groups     map[string]*Group
	sceneVars  map[string]*Variable
	globalVars map[string]*Variable
	properties map[string]*Property
	parameters map[string]*Parameter
}

func newScope(name string) *Scope {
	return &Scope{
		Name:       name,
		objects:    make(map[string]*Object),
		groups:     make(map[string]*Group),
		sceneVars:  make(map[string]*Variable),
		globalVars: make(map[string]*Variable),
		properties: make(map[string]*Property),
		parameters: make(map[string]*Parameter),
	}
}

func (s *Scope) addGlobals(p *Project) {
	for i := range p.Objects {
		s.objects[p.Objects[i].Name] = &p.Objects[i]
	}
	for i := range p.Groups {
		s.groups[p.Groups[i].Name] = &p.Groups[i]
	}
	for i := range p.Variables {
		s.globalVars[p.Variables[i].Name] = &p.Variables[i]
	}
}

// SceneScope builds the scope of a scene
func (p *Project) SceneScope(name string) (*Scope, error) {
	scene, ok := p.Scene(name)
	if !ok {
		return nil, errors.NewSceneNotFound(name)
	}

	s := newScope(name)
	s.addGlobals(p)
	for i := range scene.Objects {
		s.objects[scene.Objects[i].Name] = &scene.Objects[i]
	}
	for i := range scene.Groups {
		s.groups[scene.Groups[i].Name] = &scene.Groups[i]
	}
	for i := range scene.Variables {
		s.sceneVars[scene.Variables[i].Name] = &scene.Variables[i]
	}
	return s, nil
}

// FunctionScope builds the scope of an events-based function. Object
// parameters become objects of the scope; the other parameters and the
// properties are readable by name.
func (p *Project) FunctionScope(ext, name string) (*Scope, error) {
	fn, ok := p.Function(ext, name)
	if !ok {
		return nil, fmt.Errorf("function %s::%s not found", ext, name)
	}
	return NewFunctionScope(p, ext+"::"+name, fn), nil
}

// NewFunctionScope builds the scope of fn, which may not belong to p
func NewFunctionScope(p *Project, name string, fn *EventsFunction) *Scope {
	s := newScope(name)
	s.IsFunction = true
	if p != nil {
		s.addGlobals(p)
	}
	for i := range fn.Parameters {
		param := &fn.Parameters[i]
		if isObjectParameter(param.Type) {
			s.objects[param.Name] = &Object{Name: param.Name, Type: param.SupplementaryInformation}
			continue
		}
		s.parameters[param.Name] = param
	}
	for i := range fn.Properties {
		s.properties[fn.Properties[i].Name] = &fn.Properties[i]
	}
	return s
}

func isObjectParameter(t string) bool {
	switch t {
	case "object", "objectPtr", "objectList", "objectListOrEmptyIfJustDeclared":
		return true
	}
	return false
}

// HasObject reports whether name is an object or a group
func (s *Scope) HasObject(name string) bool {
	return s.IsObject(name) || s.IsGroup(name)
}

// IsObject reports whether name is an object (not a group)
func (s *Scope) IsObject(name string) bool {
	_, ok := s.objects[name]
	return ok
}

// IsGroup reports whether name is a group
func (s *Scope) IsGroup(name string) bool {
	if s.IsObject(name) {
		return false
	}
	_, ok := s.groups[name]
	return ok
}

// Object returns the object named name
func (s *Scope) Object(name string) (*Object, bool) {
	obj, ok := s.objects[name]
	return obj, ok
}

// GroupMembers returns the objects of a group that exist in the scope, in
// group order and without duplicates. An object expands to itself and an
// unknown name to nothing.
func (s *Scope) GroupMembers(name string) []string {
	if s.IsObject(name) {
		return []string{name}
	}
	g, ok := s.groups[name]
	if !ok {
		return nil
	}
	seen := make(map[string]struct{}, len(g.Objects))
	members := make([]string, 0, len(g.Objects))
	for _, member := range g.Objects {
		if _, dup := seen[member]; dup || !s.IsObject(member) {
			continue
		}
		seen[member] = struct{}{}
		members = append(members, member)
	}
	return members
}

// ObjectType returns the type of an object. For a group it is the type
// shared by every member, or "" when members differ.
func (s *Scope) ObjectType(name string) string {
	if obj, ok := s.objects[name]; ok {
		return obj.Type
	}
	members := s.GroupMembers(name)
	if len(members) == 0 {
		return ""
	}
	typ := s.objects[members[0]].Type
	for _, m := range members[1:] {
		if s.objects[m].Type != typ {
			return ""
		}
	}
	return typ
}

// BehaviorType returns the type of the behavior named behavior on object.
// For a group every member must carry the behavior with the same type.
func (s *Scope) BehaviorType(object, behavior string) string {
	members := s.GroupMembers(object)
	typ := ""
	for i, m := range members {
		found := ""
		for _, b := range s.objects[m].Behaviors {
			if b.Name == behavior {
				found = b.Type
				break
			}
		}
		if found == "" || (i > 0 && found != typ) {
			return ""
		}
		typ = found
	}
	return typ
}

// HasSceneVariable reports whether name is a scene variable
func (s *Scope) HasSceneVariable(name string) bool {
	_, ok := s.sceneVars[name]
	return ok
}

// HasGlobalVariable reports whether name is a global variable
func (s *Scope) HasGlobalVariable(name string) bool {
	_, ok := s.globalVars[name]
	return ok
}

// SceneVariable returns the scene variable named name
func (s *Scope) SceneVariable(name string) (*Variable, bool) {
	v, ok := s.sceneVars[name]
	return v, ok
}

// GlobalVariable returns the global variable named name
func (s *Scope) GlobalVariable(name string) (*Variable, bool) {
	v, ok := s.globalVars[name]
	return v, ok
}

// HasProperty reports whether name is a property of the function
func (s *Scope) HasProperty(name string) bool {
	_, ok := s.properties[name]
	return ok
}

// HasParameter reports whether name is a non-object parameter of the function
func (s *Scope) HasParameter(name string) bool {
	_, ok := s.parameters[name]
	return ok
}

// Parameter returns the non-object parameter named name
func (s *Scope) Parameter(name string) (*Parameter, bool) {
	p, ok := s.parameters[name]
	return p, ok
}

// Property returns the property named name
func (s *Scope) Property(name string) (*Property, bool) {
	p, ok := s.properties[name]
	return p, ok
}
