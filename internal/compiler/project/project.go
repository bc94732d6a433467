// Package project is the read-only model of a game project: global
// objects and variables, scenes with their objects, groups, variables and
// events, and events-based functions. It is what code generation resolves
// identifiers against.
package project

import (
	"github.com/conduit-lang/eventc/internal/compiler/events"
)

// Variable types
const (
	VariableNumber    = "number"
	VariableString    = "string"
	VariableBoolean   = "boolean"
	VariableStructure = "structure"
	VariableArray     = "array"
)

// Variable is an initial variable declaration
type Variable struct {
	Name     string     `json:"name" yaml:"name" toml:"name"`
	Type     string     `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Value    string     `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
	Children []Variable `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
}

// Behavior attaches a behavior type to an object under a name
type Behavior struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	Type string `json:"type" yaml:"type" toml:"type"`
}

// Object is an object declared in a scene or globally. Type is the object
// type registered by an extension; "" is the base object type.
type Object struct {
	Name      string     `json:"name" yaml:"name" toml:"name"`
	Type      string     `json:"type" yaml:"type" toml:"type"`
	Variables []Variable `json:"variables,omitempty" yaml:"variables,omitempty" toml:"variables,omitempty"`
	Behaviors []Behavior `json:"behaviors,omitempty" yaml:"behaviors,omitempty" toml:"behaviors,omitempty"`
}

// Group is a named set of objects usable wherever an object is expected
type Group struct {
	Name    string   `json:"name" yaml:"name" toml:"name"`
	Objects []string `json:"objects" yaml:"objects" toml:"objects"`
}

// Scene is a layout with its own objects, variables and events
type Scene struct {
	Name      string          `json:"name" yaml:"name" toml:"name"`
	Objects   []Object        `json:"objects,omitempty" yaml:"objects,omitempty" toml:"objects,omitempty"`
	Groups    []Group         `json:"objectsGroups,omitempty" yaml:"objectsGroups,omitempty" toml:"objectsGroups,omitempty"`
	Variables []Variable      `json:"variables,omitempty" yaml:"variables,omitempty" toml:"variables,omitempty"`
	Events    []*events.Event `json:"events,omitempty" yaml:"events,omitempty" toml:"events,omitempty"`
}

// ExternalEvents are events shared by scenes. They are generated in the
// scope of their associated scene.
type ExternalEvents struct {
	Name            string          `json:"name" yaml:"name" toml:"name"`
	AssociatedScene string          `json:"associatedLayout" yaml:"associatedLayout" toml:"associatedLayout"`
	Events          []*events.Event `json:"events,omitempty" yaml:"events,omitempty" toml:"events,omitempty"`
}

// Parameter is a parameter of an events-based function. Object
// parameters (objectList, objectPtr...) declare an object in the function
// scope, typed by SupplementaryInformation.
type Parameter struct {
	Name                     string `json:"name" yaml:"name" toml:"name"`
	Type                     string `json:"type" yaml:"type" toml:"type"`
	Description              string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Optional                 bool   `json:"optional,omitempty" yaml:"optional,omitempty" toml:"optional,omitempty"`
	SupplementaryInformation string `json:"supplementaryInformation,omitempty" yaml:"supplementaryInformation,omitempty" toml:"supplementaryInformation,omitempty"`
}

// Property is a named value readable by the events of a function
type Property struct {
	Name  string `json:"name" yaml:"name" toml:"name"`
	Type  string `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Value string `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
}

// Function types
const (
	FunctionAction           = "Action"
	FunctionCondition        = "Condition"
	FunctionExpression       = "Expression"
	FunctionStringExpression = "StringExpression"
)

// EventsFunction is a function whose body is made of events
type EventsFunction struct {
	Name         string          `json:"name" yaml:"name" toml:"name"`
	FullName     string          `json:"fullName,omitempty" yaml:"fullName,omitempty" toml:"fullName,omitempty"`
	Description  string          `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	FunctionType string          `json:"functionType,omitempty" yaml:"functionType,omitempty" toml:"functionType,omitempty"`
	Parameters   []Parameter     `json:"parameters,omitempty" yaml:"parameters,omitempty" toml:"parameters,omitempty"`
	Properties   []Property      `json:"properties,omitempty" yaml:"properties,omitempty" toml:"properties,omitempty"`
	Events       []*events.Event `json:"events,omitempty" yaml:"events,omitempty" toml:"events,omitempty"`
}

// FunctionsExtension groups the events-based functions of one extension
type FunctionsExtension struct {
	Name      string           `json:"name" yaml:"name" toml:"name"`
	Functions []EventsFunction `json:"eventsFunctions,omitempty" yaml:"eventsFunctions,omitempty" toml:"eventsFunctions,omitempty"`
}

// Project is a whole game project
type Project struct {
	Name                string               `json:"name" yaml:"name" toml:"name"`
	Objects             []Object             `json:"objects,omitempty" yaml:"objects,omitempty" toml:"objects,omitempty"`
	Groups              []Group              `json:"objectsGroups,omitempty" yaml:"objectsGroups,omitempty" toml:"objectsGroups,omitempty"`
	Variables           []Variable           `json:"variables,omitempty" yaml:"variables,omitempty" toml:"variables,omitempty"`
	Scenes              []Scene              `json:"layouts,omitempty" yaml:"layouts,omitempty" toml:"layouts,omitempty"`
	ExternalEvents      []ExternalEvents     `json:"externalEvents,omitempty" yaml:"externalEvents,omitempty" toml:"externalEvents,omitempty"`
	FunctionsExtensions []FunctionsExtension `json:"eventsFunctionsExtensions,omitempty" yaml:"eventsFunctionsExtensions,omitempty" toml:"eventsFunctionsExtensions,omitempty"`
}

// Scene returns the scene named name
func (p *Project) Scene(name string) (*Scene, bool) {
	for i := range p.Scenes {
		if p.Scenes[i].Name == name {
			return &p.Scenes[i], true
		}
	}
	return nil, false
}

// SceneNames returns the scene names in project order
func (p *Project) SceneNames() []string {
	names := make([]string, len(p.Scenes))
	for i, s := range p.Scenes {
		names[i] = s.Name
	}
	return names
}

// Function returns the events-based function fn of extension ext
func (p *Project) Function(ext, fn string) (*EventsFunction, bool) {
	for i := range p.FunctionsExtensions {
		e := &p.FunctionsExtensions[i]
		if e.Name != ext {
			continue
		}
		for j := range e.Functions {
			if e.Functions[j].Name == fn {
				return &e.Functions[j], true
			}
		}
	}
	return nil, false
}

// SceneEvents returns the events of a scene followed by the external
// events associated with it
func (p *Project) SceneEvents(scene *Scene) []*events.Event {
	list := append([]*events.Event(nil), scene.Events...)
	for _, ext := range p.ExternalEvents {
		if ext.AssociatedScene == scene.Name {
			list = append(list, ext.Events...)
		}
	}
	return list
}

// AllEvents calls fn with every event list of the project: scenes,
// external events and functions
func (p *Project) AllEvents(fn func(list []*events.Event)) {
	for _, s := range p.Scenes {
		fn(s.Events)
	}
	for _, e := range p.ExternalEvents {
		fn(e.Events)
	}
	for _, ext := range p.FunctionsExtensions {
		for _, f := range ext.Functions {
			fn(f.Events)
		}
	}
}
