package metadata

// PlatformExtension is a named bundle of everything one extension
// declares. Registering a name twice in the same scope keeps the last
// registration.
type PlatformExtension struct {
	Name        string `json:"name"`
	Namespace   string `json:"namespace,omitempty"`
	FullName    string `json:"fullName"`
	Description string `json:"description,omitempty"`
	Author      string `json:"author,omitempty"`
	License     string `json:"license,omitempty"`

	Members

	Objects   map[string]*ObjectMetadata   `json:"objects,omitempty"`
	Behaviors map[string]*BehaviorMetadata `json:"behaviors,omitempty"`
	Events    map[string]*EventMetadata    `json:"events,omitempty"`

	// ObjectOrder and BehaviorOrder keep registration order for listings
	ObjectOrder   []string `json:"-"`
	BehaviorOrder []string `json:"-"`
}

// NewExtension creates an extension. The namespace prefixes the names of
// its instructions and types; builtin extensions use an empty namespace.
func NewExtension(name, namespace, fullName, description, author, license string) *PlatformExtension {
	return &PlatformExtension{
		Name:        name,
		Namespace:   namespace,
		FullName:    fullName,
		Description: description,
		Author:      author,
		License:     license,
		Members:     newMembers(),
		Objects:     make(map[string]*ObjectMetadata),
		Behaviors:   make(map[string]*BehaviorMetadata),
		Events:      make(map[string]*EventMetadata),
	}
}

// AddCondition declares a free condition
func (e *PlatformExtension) AddCondition(name, fullName, description, sentence, group, icon, smallIcon string) *InstructionMetadata {
	return e.addCondition(e.Namespace, name, fullName, description, sentence, group, icon, smallIcon)
}

// AddAction declares a free action
func (e *PlatformExtension) AddAction(name, fullName, description, sentence, group, icon, smallIcon string) *InstructionMetadata {
	return e.addAction(e.Namespace, name, fullName, description, sentence, group, icon, smallIcon)
}

// AddExpression declares a free number expression
func (e *PlatformExtension) AddExpression(name, fullName, description, group, smallIcon string) *ExpressionMetadata {
	return e.addExpression(e.Namespace, name, fullName, description, group, smallIcon)
}

// AddStrExpression declares a free string expression
func (e *PlatformExtension) AddStrExpression(name, fullName, description, group, smallIcon string) *ExpressionMetadata {
	return e.addStrExpression(e.Namespace, name, fullName, description, group, smallIcon)
}

// AddObject declares an object type. The base object type is "".
func (e *PlatformExtension) AddObject(name, fullName, description, icon string) *ObjectMetadata {
	obj := &ObjectMetadata{
		Name:        namespaced(e.Namespace, name),
		FullName:    fullName,
		Description: description,
		Icon:        icon,
		Members:     newMembers(),
		namespace:   e.Namespace,
	}
	if name == "" {
		obj.Name = ""
	}
	if _, exists := e.Objects[obj.Name]; !exists {
		e.ObjectOrder = append(e.ObjectOrder, obj.Name)
	}
	e.Objects[obj.Name] = obj
	return obj
}

// AddBehavior declares a behavior type
func (e *PlatformExtension) AddBehavior(name, fullName, defaultName, description, icon, objectType string) *BehaviorMetadata {
	b := &BehaviorMetadata{
		Name:        namespaced(e.Namespace, name),
		FullName:    fullName,
		DefaultName: defaultName,
		Description: description,
		Icon:        icon,
		ObjectType:  objectType,
		Members:     newMembers(),
		namespace:   e.Namespace,
	}
	if _, exists := e.Behaviors[b.Name]; !exists {
		e.BehaviorOrder = append(e.BehaviorOrder, b.Name)
	}
	e.Behaviors[b.Name] = b
	return b
}

// AddEvent declares an event type
func (e *PlatformExtension) AddEvent(name, fullName, description, group, icon string) *EventMetadata {
	ev := &EventMetadata{
		Type:        namespaced(e.Namespace, name),
		FullName:    fullName,
		Description: description,
		Group:       group,
		Icon:        icon,
	}
	e.Events[ev.Type] = ev
	return ev
}

// Object returns the object type declared by the extension
func (e *PlatformExtension) Object(name string) (*ObjectMetadata, bool) {
	obj, ok := e.Objects[name]
	return obj, ok
}

// Behavior returns the behavior type declared by the extension
func (e *PlatformExtension) Behavior(name string) (*BehaviorMetadata, bool) {
	b, ok := e.Behaviors[name]
	return b, ok
}

// Event returns the event type declared by the extension
func (e *PlatformExtension) Event(name string) (*EventMetadata, bool) {
	ev, ok := e.Events[name]
	return ev, ok
}

// AllInstructionNames returns every condition, action and expression name
// declared by the extension, in every scope. Object and behavior members
// are prefixed by their type. Used to fingerprint the platform.
func (e *PlatformExtension) AllInstructionNames() []string {
	var names []string
	collect := func(prefix string, m Members) {
		for name := range m.Conditions {
			names = append(names, prefix+"c:"+name)
		}
		for name := range m.Actions {
			names = append(names, prefix+"a:"+name)
		}
		for name := range m.Expressions {
			names = append(names, prefix+"e:"+name)
		}
		for name := range m.StrExpressions {
			names = append(names, prefix+"s:"+name)
		}
	}
	collect("", e.Members)
	for typ, obj := range e.Objects {
		collect("object("+typ+")/", obj.Members)
	}
	for typ, b := range e.Behaviors {
		collect("behavior("+typ+")/", b.Members)
	}
	for typ := range e.Events {
		names = append(names, "event:"+typ)
	}
	return names
}
