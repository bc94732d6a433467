package metadata

// EventMetadata describes an event type and how to generate its code
type EventMetadata struct {
	Type        string `json:"type"`
	FullName    string `json:"fullName"`
	Description string `json:"description,omitempty"`
	Group       string `json:"group,omitempty"`
	Icon        string `json:"icon,omitempty"`

	CodeGenerator EventCodeGenerator `json:"-"`

	bad bool
}

// NewBadEventMetadata creates the instance returned when an event type
// lookup fails
func NewBadEventMetadata() *EventMetadata {
	return &EventMetadata{FullName: "Unknown event", bad: true}
}

// SetCodeGenerator sets the function generating the event code
func (e *EventMetadata) SetCodeGenerator(gen EventCodeGenerator) *EventMetadata {
	e.CodeGenerator = gen
	return e
}

// IsBad reports whether e is a not-found sentinel
func (e *EventMetadata) IsBad() bool {
	return e == nil || e.bad
}
