package platform

import "github.com/conduit-lang/eventc/internal/compiler/metadata"

// Scope is the object type and behavior type an instruction or expression
// is used with. The zero value is the global scope.
type Scope struct {
	ObjectType   string
	HasObject    bool
	BehaviorType string
}

// Global is the scope of free instructions and expressions
func Global() Scope {
	return Scope{}
}

// ObjectScope is the scope of an instruction applied to an object of
// objectType ("" is the base object type)
func ObjectScope(objectType string) Scope {
	return Scope{ObjectType: objectType, HasObject: true}
}

// BehaviorScope is the scope of an instruction applied to a behavior
func BehaviorScope(objectType, behaviorType string) Scope {
	return Scope{ObjectType: objectType, HasObject: true, BehaviorType: behaviorType}
}

// MemberKind tells in which scope a member was found
type MemberKind int

const (
	FreeMember MemberKind = iota
	ObjectMember
	BehaviorMember
)

func (k MemberKind) String() string {
	switch k {
	case ObjectMember:
		return "object"
	case BehaviorMember:
		return "behavior"
	default:
		return "free"
	}
}

// InstructionMatch is the result of an instruction lookup. Extension is
// nil and Metadata is the bad sentinel when nothing was found.
type InstructionMatch struct {
	Extension *metadata.PlatformExtension
	Metadata  *metadata.InstructionMetadata
	Kind      MemberKind
	Object    *metadata.ObjectMetadata
	Behavior  *metadata.BehaviorMetadata
}

// ExpressionMatch is the result of an expression lookup
type ExpressionMatch struct {
	Extension *metadata.PlatformExtension
	Metadata  *metadata.ExpressionMetadata
	Kind      MemberKind
	Object    *metadata.ObjectMetadata
	Behavior  *metadata.BehaviorMetadata
}

// Found reports whether the lookup succeeded
func (m InstructionMatch) Found() bool {
	return m.Extension != nil
}

// Found reports whether the lookup succeeded
func (m ExpressionMatch) Found() bool {
	return m.Extension != nil
}

type memberSelector func(metadata.Members) (any, bool)

type hit struct {
	ext      *metadata.PlatformExtension
	member   any
	kind     MemberKind
	object   *metadata.ObjectMetadata
	behavior *metadata.BehaviorMetadata
}

// find walks the scopes from the most to the least specific: the
// behavior, the object type, the base object type, then free members.
// Within a scope extensions are searched in registration order.
func (p *Platform) find(scope Scope, sel memberSelector) (hit, bool) {
	if scope.BehaviorType != "" {
		for _, ext := range p.extensions {
			b, ok := ext.Behaviors[scope.BehaviorType]
			if !ok {
				continue
			}
			if m, ok := sel(b.Members); ok {
				return hit{ext: ext, member: m, kind: BehaviorMember, behavior: b}, true
			}
		}
	}

	if scope.HasObject {
		types := []string{scope.ObjectType}
		if scope.ObjectType != "" {
			types = append(types, "")
		}
		for _, typ := range types {
			for _, ext := range p.extensions {
				obj, ok := ext.Objects[typ]
				if !ok {
					continue
				}
				if m, ok := sel(obj.Members); ok {
					return hit{ext: ext, member: m, kind: ObjectMember, object: obj}, true
				}
			}
		}
	}

	for _, ext := range p.extensions {
		if m, ok := sel(ext.Members); ok {
			return hit{ext: ext, member: m, kind: FreeMember}, true
		}
	}
	return hit{}, false
}

func (p *Platform) findInstruction(name string, scope Scope, conditions bool) InstructionMatch {
	h, ok := p.find(scope, func(m metadata.Members) (any, bool) {
		table := m.Actions
		if conditions {
			table = m.Conditions
		}
		md, ok := table[name]
		return md, ok
	})
	if !ok {
		return InstructionMatch{Metadata: p.badInstruction}
	}
	return InstructionMatch{
		Extension: h.ext,
		Metadata:  h.member.(*metadata.InstructionMetadata),
		Kind:      h.kind,
		Object:    h.object,
		Behavior:  h.behavior,
	}
}

func (p *Platform) findExpression(name string, scope Scope, str bool) ExpressionMatch {
	h, ok := p.find(scope, func(m metadata.Members) (any, bool) {
		table := m.Expressions
		if str {
			table = m.StrExpressions
		}
		md, ok := table[name]
		return md, ok
	})
	if !ok {
		return ExpressionMatch{Metadata: p.badExpression}
	}
	return ExpressionMatch{
		Extension: h.ext,
		Metadata:  h.member.(*metadata.ExpressionMetadata),
		Kind:      h.kind,
		Object:    h.object,
		Behavior:  h.behavior,
	}
}

// FindCondition looks a condition up in scope
func (p *Platform) FindCondition(name string, scope Scope) InstructionMatch {
	return p.findInstruction(name, scope, true)
}

// FindAction looks an action up in scope
func (p *Platform) FindAction(name string, scope Scope) InstructionMatch {
	return p.findInstruction(name, scope, false)
}

// FindExpression looks an expression up in scope. valueType selects number
// or string expressions.
func (p *Platform) FindExpression(name string, scope Scope, valueType string) ExpressionMatch {
	return p.findExpression(name, scope, valueType == metadata.ValueString)
}

// GetExtensionAndConditionMetadata returns the condition and its extension,
// or (nil, bad sentinel)
func (p *Platform) GetExtensionAndConditionMetadata(name string, scope Scope) (*metadata.PlatformExtension, *metadata.InstructionMetadata) {
	m := p.FindCondition(name, scope)
	return m.Extension, m.Metadata
}

// GetExtensionAndActionMetadata returns the action and its extension, or
// (nil, bad sentinel)
func (p *Platform) GetExtensionAndActionMetadata(name string, scope Scope) (*metadata.PlatformExtension, *metadata.InstructionMetadata) {
	m := p.FindAction(name, scope)
	return m.Extension, m.Metadata
}

// GetExtensionAndExpressionMetadata returns the number expression and its
// extension, or (nil, bad sentinel)
func (p *Platform) GetExtensionAndExpressionMetadata(name string, scope Scope) (*metadata.PlatformExtension, *metadata.ExpressionMetadata) {
	m := p.findExpression(name, scope, false)
	return m.Extension, m.Metadata
}

// GetExtensionAndStrExpressionMetadata returns the string expression and
// its extension, or (nil, bad sentinel)
func (p *Platform) GetExtensionAndStrExpressionMetadata(name string, scope Scope) (*metadata.PlatformExtension, *metadata.ExpressionMetadata) {
	m := p.findExpression(name, scope, true)
	return m.Extension, m.Metadata
}

// GetExtensionAndObjectMetadata returns the object type and its extension,
// or (nil, bad sentinel)
func (p *Platform) GetExtensionAndObjectMetadata(objectType string) (*metadata.PlatformExtension, *metadata.ObjectMetadata) {
	for _, ext := range p.extensions {
		if obj, ok := ext.Objects[objectType]; ok {
			return ext, obj
		}
	}
	return nil, p.badObject
}

// GetExtensionAndBehaviorMetadata returns the behavior type and its
// extension, or (nil, bad sentinel)
func (p *Platform) GetExtensionAndBehaviorMetadata(behaviorType string) (*metadata.PlatformExtension, *metadata.BehaviorMetadata) {
	for _, ext := range p.extensions {
		if b, ok := ext.Behaviors[behaviorType]; ok {
			return ext, b
		}
	}
	return nil, p.badBehavior
}

// GetEventMetadata returns the event type and its extension, or
// (nil, bad sentinel)
func (p *Platform) GetEventMetadata(eventType string) (*metadata.PlatformExtension, *metadata.EventMetadata) {
	for _, ext := range p.extensions {
		if ev, ok := ext.Events[eventType]; ok {
			return ext, ev
		}
	}
	return nil, p.badEvent
}

// Category of a resolved name
const (
	CategoryCondition     = "condition"
	CategoryAction        = "action"
	CategoryExpression    = "expression"
	CategoryStrExpression = "strExpression"
	CategoryObject        = "object"
	CategoryBehavior      = "behavior"
	CategoryEvent         = "event"
)

// Resolution locates a name anywhere in the platform
type Resolution struct {
	Extension *metadata.PlatformExtension
	Category  string
	// Owner is the object or behavior type declaring the member, if any
	Owner string
	Kind  MemberKind
}

// Found reports whether the name was resolved
func (r Resolution) Found() bool {
	return r.Extension != nil
}

// Resolve finds the first extension declaring name in any category. Free
// members are preferred, then object types and behavior types with their
// members, then event types.
func (p *Platform) Resolve(name string) Resolution {
	for _, ext := range p.extensions {
		if cat, ok := memberCategory(ext.Members, name); ok {
			return Resolution{Extension: ext, Category: cat}
		}
	}
	for _, ext := range p.extensions {
		if _, ok := ext.Objects[name]; ok {
			return Resolution{Extension: ext, Category: CategoryObject, Owner: name, Kind: ObjectMember}
		}
		if _, ok := ext.Behaviors[name]; ok {
			return Resolution{Extension: ext, Category: CategoryBehavior, Owner: name, Kind: BehaviorMember}
		}
		for _, typ := range ext.ObjectOrder {
			if cat, ok := memberCategory(ext.Objects[typ].Members, name); ok {
				return Resolution{Extension: ext, Category: cat, Owner: typ, Kind: ObjectMember}
			}
		}
		for _, typ := range ext.BehaviorOrder {
			if cat, ok := memberCategory(ext.Behaviors[typ].Members, name); ok {
				return Resolution{Extension: ext, Category: cat, Owner: typ, Kind: BehaviorMember}
			}
		}
	}
	for _, ext := range p.extensions {
		if _, ok := ext.Events[name]; ok {
			return Resolution{Extension: ext, Category: CategoryEvent}
		}
	}
	return Resolution{}
}

func memberCategory(m metadata.Members, name string) (string, bool) {
	if _, ok := m.Conditions[name]; ok {
		return CategoryCondition, true
	}
	if _, ok := m.Actions[name]; ok {
		return CategoryAction, true
	}
	if _, ok := m.Expressions[name]; ok {
		return CategoryExpression, true
	}
	if _, ok := m.StrExpressions[name]; ok {
		return CategoryStrExpression, true
	}
	return "", false
}
