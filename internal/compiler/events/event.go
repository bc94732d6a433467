// Package events holds the authored event tree: events, the conditions and
// actions placed in them, and the expressions typed into their parameters.
package events

// Event types provided by the built-in common instructions extension
const (
	StandardEventType = "BuiltinCommonInstructions::Standard"
	CommentEventType  = "BuiltinCommonInstructions::Comment"
	GroupEventType    = "BuiltinCommonInstructions::Group"
	RepeatEventType   = "BuiltinCommonInstructions::Repeat"
	ForEachEventType  = "BuiltinCommonInstructions::ForEach"
	WhileEventType    = "BuiltinCommonInstructions::While"
	JsCodeEventType   = "BuiltinCommonInstructions::JsCode"
	CppCodeEventType  = "BuiltinCommonInstructions::CppCode"
)

// Event is one node of the event tree. Fields beyond conditions, actions
// and sub-events are only meaningful for the event types that use them.
type Event struct {
	Type       string         `json:"type" yaml:"type" toml:"type"`
	Disabled   bool           `json:"disabled,omitempty" yaml:"disabled,omitempty" toml:"disabled,omitempty"`
	Conditions []*Instruction `json:"conditions,omitempty" yaml:"conditions,omitempty" toml:"conditions,omitempty"`
	Actions    []*Instruction `json:"actions,omitempty" yaml:"actions,omitempty" toml:"actions,omitempty"`
	Events     []*Event       `json:"events,omitempty" yaml:"events,omitempty" toml:"events,omitempty"`

	// Repeat
	RepeatExpression *Expression `json:"repeatExpression,omitempty" yaml:"repeatExpression,omitempty" toml:"repeatExpression,omitempty"`
	// For each: an object or group name
	Object string `json:"object,omitempty" yaml:"object,omitempty" toml:"object,omitempty"`
	// While: the loop conditions, evaluated before each iteration
	WhileConditions []*Instruction `json:"whileConditions,omitempty" yaml:"whileConditions,omitempty" toml:"whileConditions,omitempty"`
	// Group
	Name string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	// Comment
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty" toml:"comment,omitempty"`
	// Inline code: target language source run as is, the object whose
	// picked instances it receives, and the files it includes
	InlineCode       string   `json:"inlineCode,omitempty" yaml:"inlineCode,omitempty" toml:"inlineCode,omitempty"`
	ParameterObjects string   `json:"parameterObjects,omitempty" yaml:"parameterObjects,omitempty" toml:"parameterObjects,omitempty"`
	IncludeFiles     []string `json:"includeFiles,omitempty" yaml:"includeFiles,omitempty" toml:"includeFiles,omitempty"`
}

// NewStandardEvent creates a standard event
func NewStandardEvent(conditions, actions []*Instruction, subEvents ...*Event) *Event {
	return &Event{
		Type:       StandardEventType,
		Conditions: conditions,
		Actions:    actions,
		Events:     subEvents,
	}
}

// Walk calls fn for each event, depth first. Sub-events of an event are
// skipped when fn returns false.
func Walk(list []*Event, fn func(*Event) bool) {
	for _, e := range list {
		if e == nil {
			continue
		}
		if fn(e) {
			Walk(e.Events, fn)
		}
	}
}

// WalkInstructions calls fn for every instruction of the tree, including
// sub-instructions. isCondition tells whether the instruction sits in a
// condition list.
func WalkInstructions(list []*Event, fn func(instr *Instruction, isCondition bool)) {
	var visit func(instrs []*Instruction, isCondition bool)
	visit = func(instrs []*Instruction, isCondition bool) {
		for _, instr := range instrs {
			if instr == nil {
				continue
			}
			fn(instr, isCondition)
			visit(instr.SubInstructions, isCondition)
		}
	}

	Walk(list, func(e *Event) bool {
		visit(e.WhileConditions, true)
		visit(e.Conditions, true)
		visit(e.Actions, false)
		return true
	})
}
