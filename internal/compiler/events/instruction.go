package events

// Instruction is one condition or action placed in an event. Its Type links
// to the metadata registered by an extension.
type Instruction struct {
	Type            string         `json:"type" yaml:"type" toml:"type"`
	Inverted        bool           `json:"inverted,omitempty" yaml:"inverted,omitempty" toml:"inverted,omitempty"`
	Parameters      []*Expression  `json:"parameters" yaml:"parameters" toml:"parameters"`
	SubInstructions []*Instruction `json:"subInstructions,omitempty" yaml:"subInstructions,omitempty" toml:"subInstructions,omitempty"`
}

// NewInstruction creates an instruction with the given parameter texts
func NewInstruction(typ string, parameters ...string) *Instruction {
	instr := &Instruction{Type: typ, Parameters: make([]*Expression, len(parameters))}
	for i, p := range parameters {
		instr.Parameters[i] = NewExpression(p)
	}
	return instr
}

// Invert marks a condition as inverted and returns it
func (i *Instruction) Invert() *Instruction {
	i.Inverted = true
	return i
}

// WithSubInstructions attaches sub-instructions and returns the instruction
func (i *Instruction) WithSubInstructions(subs ...*Instruction) *Instruction {
	i.SubInstructions = append(i.SubInstructions, subs...)
	return i
}

// Parameter returns the parameter at index, or an empty expression when
// the instruction has fewer parameters
func (i *Instruction) Parameter(index int) *Expression {
	if index < 0 || index >= len(i.Parameters) || i.Parameters[index] == nil {
		return NewExpression("")
	}
	return i.Parameters[index]
}

// SetParameter replaces the parameter at index, growing the list if needed
func (i *Instruction) SetParameter(index int, text string) {
	for len(i.Parameters) <= index {
		i.Parameters = append(i.Parameters, NewExpression(""))
	}
	i.Parameters[index] = NewExpression(text)
}
