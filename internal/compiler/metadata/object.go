package metadata

// Members holds the instructions and expressions declared in one scope:
// the extension itself, an object type or a behavior type.
type Members struct {
	Conditions     map[string]*InstructionMetadata `json:"conditions,omitempty"`
	Actions        map[string]*InstructionMetadata `json:"actions,omitempty"`
	Expressions    map[string]*ExpressionMetadata  `json:"expressions,omitempty"`
	StrExpressions map[string]*ExpressionMetadata  `json:"strExpressions,omitempty"`
}

func newMembers() Members {
	return Members{
		Conditions:     make(map[string]*InstructionMetadata),
		Actions:        make(map[string]*InstructionMetadata),
		Expressions:    make(map[string]*ExpressionMetadata),
		StrExpressions: make(map[string]*ExpressionMetadata),
	}
}

func (m *Members) addCondition(namespace, name, fullName, description, sentence, group, icon, smallIcon string) *InstructionMetadata {
	md := newInstructionMetadata(namespace, name, fullName, description, sentence, group, icon, smallIcon)
	m.Conditions[md.Name] = md
	return md
}

func (m *Members) addAction(namespace, name, fullName, description, sentence, group, icon, smallIcon string) *InstructionMetadata {
	md := newInstructionMetadata(namespace, name, fullName, description, sentence, group, icon, smallIcon)
	m.Actions[md.Name] = md
	return md
}

func (m *Members) addExpression(namespace, name, fullName, description, group, smallIcon string) *ExpressionMetadata {
	md := newExpressionMetadata(ValueNumber, namespace, name, fullName, description, group, smallIcon)
	m.Expressions[md.Name] = md
	return md
}

func (m *Members) addStrExpression(namespace, name, fullName, description, group, smallIcon string) *ExpressionMetadata {
	md := newExpressionMetadata(ValueString, namespace, name, fullName, description, group, smallIcon)
	m.StrExpressions[md.Name] = md
	return md
}

// ObjectMetadata describes an object type and the members it declares
type ObjectMetadata struct {
	Name        string `json:"name"`
	FullName    string `json:"fullName"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	// ClassName is the runtime class instances are cast to in native code
	ClassName   string `json:"className,omitempty"`
	IncludeFile string `json:"includeFile,omitempty"`

	Members

	namespace string
	bad       bool
}

// NewBadObjectMetadata creates the instance returned when an object type
// lookup fails
func NewBadObjectMetadata() *ObjectMetadata {
	return &ObjectMetadata{FullName: "Unknown object", Members: newMembers(), bad: true}
}

// AddCondition declares a condition on the object type
func (o *ObjectMetadata) AddCondition(name, fullName, description, sentence, group, icon, smallIcon string) *InstructionMetadata {
	return o.addCondition(o.namespace, name, fullName, description, sentence, group, icon, smallIcon)
}

// AddAction declares an action on the object type
func (o *ObjectMetadata) AddAction(name, fullName, description, sentence, group, icon, smallIcon string) *InstructionMetadata {
	return o.addAction(o.namespace, name, fullName, description, sentence, group, icon, smallIcon)
}

// AddExpression declares a number expression on the object type
func (o *ObjectMetadata) AddExpression(name, fullName, description, group, smallIcon string) *ExpressionMetadata {
	return o.addExpression("", name, fullName, description, group, smallIcon)
}

// AddStrExpression declares a string expression on the object type
func (o *ObjectMetadata) AddStrExpression(name, fullName, description, group, smallIcon string) *ExpressionMetadata {
	return o.addStrExpression("", name, fullName, description, group, smallIcon)
}

// SetClassName sets the runtime class of the object type
func (o *ObjectMetadata) SetClassName(className string) *ObjectMetadata {
	o.ClassName = className
	return o
}

// SetIncludeFile sets the runtime file defining the object type
func (o *ObjectMetadata) SetIncludeFile(file string) *ObjectMetadata {
	o.IncludeFile = file
	return o
}

// IsBad reports whether o is a not-found sentinel
func (o *ObjectMetadata) IsBad() bool {
	return o == nil || o.bad
}

// BehaviorMetadata describes a behavior type and the members it declares
type BehaviorMetadata struct {
	Name        string `json:"name"`
	FullName    string `json:"fullName"`
	DefaultName string `json:"defaultName,omitempty"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	ClassName   string `json:"className,omitempty"`
	IncludeFile string `json:"includeFile,omitempty"`
	// ObjectType restricts the behavior to one object type ("" for any)
	ObjectType string `json:"objectType,omitempty"`

	Members

	namespace string
	bad       bool
}

// NewBadBehaviorMetadata creates the instance returned when a behavior
// type lookup fails
func NewBadBehaviorMetadata() *BehaviorMetadata {
	return &BehaviorMetadata{FullName: "Unknown behavior", Members: newMembers(), bad: true}
}

// AddCondition declares a condition on the behavior type
func (b *BehaviorMetadata) AddCondition(name, fullName, description, sentence, group, icon, smallIcon string) *InstructionMetadata {
	return b.addCondition(b.namespace, name, fullName, description, sentence, group, icon, smallIcon)
}

// AddAction declares an action on the behavior type
func (b *BehaviorMetadata) AddAction(name, fullName, description, sentence, group, icon, smallIcon string) *InstructionMetadata {
	return b.addAction(b.namespace, name, fullName, description, sentence, group, icon, smallIcon)
}

// AddExpression declares a number expression on the behavior type
func (b *BehaviorMetadata) AddExpression(name, fullName, description, group, smallIcon string) *ExpressionMetadata {
	return b.addExpression("", name, fullName, description, group, smallIcon)
}

// AddStrExpression declares a string expression on the behavior type
func (b *BehaviorMetadata) AddStrExpression(name, fullName, description, group, smallIcon string) *ExpressionMetadata {
	return b.addStrExpression("", name, fullName, description, group, smallIcon)
}

// SetClassName sets the runtime class of the behavior
func (b *BehaviorMetadata) SetClassName(className string) *BehaviorMetadata {
	b.ClassName = className
	return b
}

// SetIncludeFile sets the runtime file defining the behavior
func (b *BehaviorMetadata) SetIncludeFile(file string) *BehaviorMetadata {
	b.IncludeFile = file
	return b
}

// IsBad reports whether b is a not-found sentinel
func (b *BehaviorMetadata) IsBad() bool {
	return b == nil || b.bad
}
